package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	transferapp "github.com/retailops/backend/internal/application/transfer"
	"github.com/retailops/backend/internal/interfaces/http/dto"
	"github.com/shopspring/decimal"
)

// TransferHandler handles inter-store transfer endpoints
type TransferHandler struct {
	BaseHandler
	service *transferapp.Service
}

// NewTransferHandler creates a new TransferHandler
func NewTransferHandler(service *transferapp.Service) *TransferHandler {
	return &TransferHandler{service: service}
}

// TransferLineBody is one product line in a transfer request body
type TransferLineBody struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
	Quantity  string `json:"quantity" binding:"required,positive_decimal"`
}

// CreateTransferBody is the transfer creation request body
type CreateTransferBody struct {
	SourceStoreID      string             `json:"source_store_id" binding:"required,uuid"`
	DestinationStoreID string             `json:"destination_store_id" binding:"required,uuid"`
	Notes              string             `json:"notes"`
	Lines              []TransferLineBody `json:"lines" binding:"required,min=1,dive"`
}

// Create creates a transfer, deducting the source ledger immediately
// POST /api/v1/transfers
func (h *TransferHandler) Create(c *gin.Context) {
	var body CreateTransferBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	lines := make([]transferapp.TransferLineRequest, 0, len(body.Lines))
	for _, line := range body.Lines {
		quantity, err := decimal.NewFromString(line.Quantity)
		if err != nil {
			h.BadRequest(c, "Invalid quantity")
			return
		}
		lines = append(lines, transferapp.TransferLineRequest{
			ProductID: uuid.MustParse(line.ProductID),
			Quantity:  quantity,
		})
	}

	t, err := h.service.Create(c.Request.Context(), transferapp.CreateTransferRequest{
		SourceStoreID:      uuid.MustParse(body.SourceStoreID),
		DestinationStoreID: uuid.MustParse(body.DestinationStoreID),
		InitiatedBy:        getOperatorID(c),
		Notes:              body.Notes,
		Lines:              lines,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, t)
}

// Get returns a transfer with its lines
// GET /api/v1/transfers/:id
func (h *TransferHandler) Get(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid transfer ID")
		return
	}

	t, err := h.service.Get(c.Request.Context(), uuid.MustParse(req.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, t)
}

// Dispatch marks a pending transfer as in transit
// POST /api/v1/transfers/:id/dispatch
func (h *TransferHandler) Dispatch(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid transfer ID")
		return
	}

	t, err := h.service.Dispatch(c.Request.Context(), uuid.MustParse(req.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, t)
}

// ReceivedLineBody is the counted quantity for one product at receipt
type ReceivedLineBody struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
	Quantity  string `json:"quantity" binding:"required"`
}

// ReceiveTransferBody is the receipt request body. An empty line list means
// everything arrived as sent.
type ReceiveTransferBody struct {
	Lines []ReceivedLineBody `json:"lines" binding:"omitempty,dive"`
}

// Receive books a transfer in at the destination
// POST /api/v1/transfers/:id/receive
func (h *TransferHandler) Receive(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid transfer ID")
		return
	}
	var body ReceiveTransferBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	lines := make([]transferapp.ReceivedLineRequest, 0, len(body.Lines))
	for _, line := range body.Lines {
		quantity, err := decimal.NewFromString(line.Quantity)
		if err != nil {
			h.BadRequest(c, "Invalid quantity")
			return
		}
		lines = append(lines, transferapp.ReceivedLineRequest{
			ProductID: uuid.MustParse(line.ProductID),
			Quantity:  quantity,
		})
	}

	t, err := h.service.Receive(c.Request.Context(), uuid.MustParse(req.ID),
		transferapp.ReceiveTransferRequest{Lines: lines}, getIdempotencyKey(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, t)
}

// Cancel cancels a transfer and re-credits the source in full
// POST /api/v1/transfers/:id/cancel
func (h *TransferHandler) Cancel(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid transfer ID")
		return
	}

	t, err := h.service.Cancel(c.Request.Context(), uuid.MustParse(req.ID), getIdempotencyKey(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, t)
}
