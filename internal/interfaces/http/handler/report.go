package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/retailops/backend/internal/application/report"
)

// ReportHandler handles read-only reporting endpoints
type ReportHandler struct {
	BaseHandler
	service *report.Service
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(service *report.Service) *ReportHandler {
	return &ReportHandler{service: service}
}

// DailySummary returns one day of aggregated activity
// GET /api/v1/reports/daily?date=2024-01-15&store_id=...
func (h *ReportHandler) DailySummary(c *gin.Context) {
	day := time.Now()
	if s := c.Query("date"); s != "" {
		parsed, err := parseDateTime(s)
		if err != nil {
			h.BadRequest(c, "Invalid date")
			return
		}
		day = parsed
	}

	var storeID *uuid.UUID
	if s := c.Query("store_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			h.BadRequest(c, "Invalid store ID")
			return
		}
		storeID = &id
	}

	summary, err := h.service.DailySummary(c.Request.Context(), storeID, day)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// ProductMovement returns the movement report for one product at one store
// GET /api/v1/reports/movement?store_id=...&product_id=...&from=...&to=...
func (h *ReportHandler) ProductMovement(c *gin.Context) {
	storeID, err := uuid.Parse(c.Query("store_id"))
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}
	productID, err := uuid.Parse(c.Query("product_id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}
	from, to, err := parseRange(c)
	if err != nil {
		h.BadRequest(c, "Invalid time range")
		return
	}

	movement, err := h.service.ProductMovement(c.Request.Context(), storeID, productID, from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, movement)
}

// TotalOnHand returns the total on-hand quantity for a product across stores
// GET /api/v1/reports/on-hand?product_id=...
func (h *ReportHandler) TotalOnHand(c *gin.Context) {
	productID, err := uuid.Parse(c.Query("product_id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	total, err := h.service.TotalOnHand(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{
		"product_id":    productID,
		"total_on_hand": total,
	})
}
