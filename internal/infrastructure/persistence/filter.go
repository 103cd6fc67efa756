package persistence

import (
	"strings"

	"github.com/retailops/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// applyFilter applies pagination and ordering to a query
func applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}
