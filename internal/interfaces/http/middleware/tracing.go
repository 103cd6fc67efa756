package middleware

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// TracingConfig holds tracing middleware settings
type TracingConfig struct {
	Enabled     bool
	ServiceName string
}

// Tracing returns the otelgin request-span middleware. Disabled config
// yields a pass-through handler so the router never branches on telemetry.
func Tracing(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}
	return otelgin.Middleware(cfg.ServiceName)
}

// TracingAttributes enriches the request span with the request ID and the
// acting operator. Place it after Tracing and after JWT auth so the claims
// are populated.
func TracingAttributes() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			if requestID := c.GetString("request_id"); requestID != "" {
				span.SetAttributes(attribute.String("request_id", requestID))
			}
			if operatorID := GetJWTUserID(c); operatorID != "" {
				span.SetAttributes(attribute.String("operator_id", operatorID))
			}
			if storeID := GetJWTStoreID(c); storeID != "" {
				span.SetAttributes(attribute.String("store_id", storeID))
			}
		}
		c.Next()
	}
}
