package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/retailops/backend/internal/interfaces/http/dto"
	"github.com/retailops/backend/internal/interfaces/http/middleware"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

func getRequestID(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	return c.GetHeader("X-Request-ID")
}

// getOperatorID extracts the acting user from JWT claims, falling back to
// the X-Operator-ID header for unauthenticated deployments. Nil when absent
// or unparsable.
func getOperatorID(c *gin.Context) *uuid.UUID {
	userIDStr := middleware.GetJWTUserID(c)
	if userIDStr == "" {
		userIDStr = c.GetHeader("X-Operator-ID")
	}
	if userIDStr == "" {
		return nil
	}
	id, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil
	}
	return &id
}

// getIdempotencyKey returns the client-supplied idempotency key, if any
func getIdempotencyKey(c *gin.Context) string {
	return c.GetHeader("X-Idempotency-Key")
}

// parseDateTime parses a datetime string in the formats clients send
func parseDateTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// toFilter converts a list request to a repository filter
func toFilter(req dto.ListRequest) shared.Filter {
	filter := shared.DefaultFilter()
	if req.Page > 0 {
		filter.Page = req.Page
	}
	if req.PageSize > 0 {
		filter.PageSize = req.PageSize
	}
	if req.OrderBy != "" {
		filter.OrderBy = req.OrderBy
	}
	if req.OrderDir != "" {
		filter.OrderDir = req.OrderDir
	}
	filter.Search = req.Search
	return filter
}

// Success sends a 200 success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest,
		dto.NewErrorResponseWithRequestID(dto.ErrCodeBadRequest, message, getRequestID(c)))
}

// HandleError converts domain and application errors to HTTP responses
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	requestID := getRequestID(c)

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		c.JSON(dto.GetHTTPStatus(domainErr.Code),
			dto.NewErrorResponseWithRequestID(domainErr.Code, domainErr.Message, requestID))
		return
	}

	// Typed errors that match sentinels without being *DomainError
	if errors.Is(err, shared.ErrInsufficientStock) {
		c.JSON(http.StatusUnprocessableEntity,
			dto.NewErrorResponseWithRequestID("INSUFFICIENT_STOCK", err.Error(), requestID))
		return
	}

	c.JSON(http.StatusInternalServerError,
		dto.NewErrorResponseWithRequestID(dto.ErrCodeInternal, "An unexpected error occurred", requestID))
}
