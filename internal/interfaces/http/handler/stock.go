package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/retailops/backend/internal/application/stock"
	"github.com/retailops/backend/internal/interfaces/http/dto"
	"github.com/shopspring/decimal"
)

// StockHandler handles stock ledger endpoints
type StockHandler struct {
	BaseHandler
	service *stock.Service
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(service *stock.Service) *StockHandler {
	return &StockHandler{service: service}
}

// stockPairRequest binds the store/product path parameters
type stockPairRequest struct {
	StoreID   string `uri:"store_id" binding:"required,uuid"`
	ProductID string `uri:"product_id" binding:"required,uuid"`
}

// Get returns the stock line for a store-product pair. Pairs that have never
// moved read as zero quantity.
// GET /api/v1/stores/:store_id/stock/:product_id
func (h *StockHandler) Get(c *gin.Context) {
	var req stockPairRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid store or product ID")
		return
	}

	line, err := h.service.Get(c.Request.Context(), uuid.MustParse(req.StoreID), uuid.MustParse(req.ProductID))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, line)
}

// ListByStore returns all stock lines in a store
// GET /api/v1/stores/:store_id/stock
func (h *StockHandler) ListByStore(c *gin.Context) {
	storeID, err := uuid.Parse(c.Param("store_id"))
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}
	listReq := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	lines, err := h.service.ListByStore(c.Request.Context(), storeID, toFilter(listReq))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, lines)
}

// ListLowStock returns lines at or below their reorder level, across all
// stores or scoped by the store_id query parameter
// GET /api/v1/stock/low
func (h *StockHandler) ListLowStock(c *gin.Context) {
	var storeID *uuid.UUID
	if s := c.Query("store_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			h.BadRequest(c, "Invalid store ID")
			return
		}
		storeID = &id
	}
	listReq := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	lines, err := h.service.ListLowStock(c.Request.Context(), storeID, toFilter(listReq))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, lines)
}

// AdjustStockBody is the manual adjustment request body
type AdjustStockBody struct {
	StoreID   string `json:"store_id" binding:"required,uuid"`
	ProductID string `json:"product_id" binding:"required,uuid"`
	Delta     string `json:"delta" binding:"required"`
	Reference string `json:"reference"`
}

// Adjust applies a manual correction to one stock line
// POST /api/v1/stock/adjust
func (h *StockHandler) Adjust(c *gin.Context) {
	var body AdjustStockBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	delta, err := decimal.NewFromString(body.Delta)
	if err != nil {
		h.BadRequest(c, "Invalid delta")
		return
	}

	line, err := h.service.AdjustManually(c.Request.Context(), stock.AdjustStockRequest{
		StoreID:    uuid.MustParse(body.StoreID),
		ProductID:  uuid.MustParse(body.ProductID),
		Delta:      delta,
		Reference:  body.Reference,
		OperatorID: getOperatorID(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, line)
}

// SetReorderLevelBody is the reorder threshold request body
type SetReorderLevelBody struct {
	Level string `json:"level" binding:"required"`
}

// SetReorderLevel sets the low-stock threshold for a store-product pair
// PUT /api/v1/stores/:store_id/stock/:product_id/reorder-level
func (h *StockHandler) SetReorderLevel(c *gin.Context) {
	var req stockPairRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid store or product ID")
		return
	}
	var body SetReorderLevelBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	level, err := decimal.NewFromString(body.Level)
	if err != nil {
		h.BadRequest(c, "Invalid level")
		return
	}

	line, err := h.service.SetReorderLevel(c.Request.Context(),
		uuid.MustParse(req.StoreID), uuid.MustParse(req.ProductID), level)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, line)
}

// GetMovements returns the movement history for a store-product pair
// GET /api/v1/stores/:store_id/stock/:product_id/movements
func (h *StockHandler) GetMovements(c *gin.Context) {
	var req stockPairRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid store or product ID")
		return
	}
	from, to, err := parseRange(c)
	if err != nil {
		h.BadRequest(c, "Invalid time range")
		return
	}

	movements, err := h.service.GetMovements(c.Request.Context(),
		uuid.MustParse(req.StoreID), uuid.MustParse(req.ProductID), from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, movements)
}

// parseRange reads from/to query parameters; the default window is the
// trailing 30 days
func parseRange(c *gin.Context) (time.Time, time.Time, error) {
	now := time.Now()
	from := now.AddDate(0, 0, -30)
	to := now

	if s := c.Query("from"); s != "" {
		t, err := parseDateTime(s)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = t
	}
	if s := c.Query("to"); s != "" {
		t, err := parseDateTime(s)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to = t
	}
	return from, to, nil
}
