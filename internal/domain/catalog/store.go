package catalog

import (
	"strings"

	"github.com/retailops/backend/internal/domain/shared"
)

// Store represents a retail location or a warehouse.
// The ledger core resolves store IDs through the registry; store management
// itself is external.
type Store struct {
	shared.BaseAggregateRoot
	Name        string `gorm:"type:varchar(200);not null"`
	Address     string `gorm:"type:varchar(255)"`
	Phone       string `gorm:"type:varchar(50)"`
	IsWarehouse bool   `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Store) TableName() string {
	return "stores"
}

// NewStore creates a new store
func NewStore(name string, isWarehouse bool) (*Store, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_STORE_NAME", "Store name cannot be empty")
	}

	return &Store{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		IsWarehouse:       isWarehouse,
	}, nil
}
