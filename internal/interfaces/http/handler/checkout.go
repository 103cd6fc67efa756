package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/retailops/backend/internal/application/checkout"
	"github.com/retailops/backend/internal/interfaces/http/dto"
	"github.com/shopspring/decimal"
)

// CheckoutHandler handles point-of-sale checkout endpoints
type CheckoutHandler struct {
	BaseHandler
	service *checkout.Service
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(service *checkout.Service) *CheckoutHandler {
	return &CheckoutHandler{service: service}
}

// CheckoutLineBody is one cart line in a checkout request body
type CheckoutLineBody struct {
	ProductID      string `json:"product_id" binding:"required,uuid"`
	Quantity       string `json:"quantity" binding:"required,positive_decimal"`
	DiscountAmount string `json:"discount_amount"`
}

// CheckoutBody is the checkout request body. TaxRate is optional and
// overrides the configured default rate for this sale.
type CheckoutBody struct {
	StoreID       string             `json:"store_id" binding:"required,uuid"`
	PaymentMethod string             `json:"payment_method" binding:"required,payment_method"`
	TaxRate       string             `json:"tax_rate"`
	Notes         string             `json:"notes"`
	Lines         []CheckoutLineBody `json:"lines" binding:"required,min=1,dive"`
}

// Checkout commits a cart as an atomic sale
// POST /api/v1/checkout
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	var body CheckoutBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	storeID, err := uuid.Parse(body.StoreID)
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	lines := make([]checkout.CheckoutLineRequest, 0, len(body.Lines))
	for _, line := range body.Lines {
		productID, err := uuid.Parse(line.ProductID)
		if err != nil {
			h.BadRequest(c, "Invalid product ID")
			return
		}
		quantity, err := decimal.NewFromString(line.Quantity)
		if err != nil {
			h.BadRequest(c, "Invalid quantity")
			return
		}
		discount := decimal.Zero
		if line.DiscountAmount != "" {
			discount, err = decimal.NewFromString(line.DiscountAmount)
			if err != nil {
				h.BadRequest(c, "Invalid discount amount")
				return
			}
		}
		lines = append(lines, checkout.CheckoutLineRequest{
			ProductID:      productID,
			Quantity:       quantity,
			DiscountAmount: discount,
		})
	}

	var taxRate *decimal.Decimal
	if body.TaxRate != "" {
		rate, err := decimal.NewFromString(body.TaxRate)
		if err != nil {
			h.BadRequest(c, "Invalid tax rate")
			return
		}
		taxRate = &rate
	}

	sale, err := h.service.Checkout(c.Request.Context(), checkout.CheckoutRequest{
		StoreID:       storeID,
		CashierID:     getOperatorID(c),
		PaymentMethod: body.PaymentMethod,
		TaxRate:       taxRate,
		Notes:         body.Notes,
		Lines:         lines,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, sale)
}

// VoidSale reverses a committed sale and re-credits its stock
// POST /api/v1/sales/:id/void
func (h *CheckoutHandler) VoidSale(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid sale ID")
		return
	}
	saleID := uuid.MustParse(req.ID)

	sale, err := h.service.VoidSale(c.Request.Context(), saleID, getOperatorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sale)
}
