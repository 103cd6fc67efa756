package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	t.Cleanup(func() {
		_ = tp.Shutdown(t.Context())
	})

	return sr
}

func TestTracingDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sr := setupTestTracer(t)

	engine := gin.New()
	engine.Use(Tracing(TracingConfig{Enabled: false, ServiceName: "retailops-test"}))
	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, sr.Ended())
}

func TestTracingRecordsRequestSpan(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sr := setupTestTracer(t)

	engine := gin.New()
	engine.Use(RequestID())
	engine.Use(Tracing(TracingConfig{Enabled: true, ServiceName: "retailops-test"}))
	engine.Use(TracingAttributes())
	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	spans := sr.Ended()
	require.NotEmpty(t, spans)

	var found sdktrace.ReadOnlySpan
	for _, span := range spans {
		if span.Name() == "GET /ping" {
			found = span
			break
		}
	}
	require.NotNil(t, found, "request span not recorded")

	var hasRequestID bool
	for _, attr := range found.Attributes() {
		if string(attr.Key) == "request_id" && attr.Value.AsString() != "" {
			hasRequestID = true
		}
	}
	assert.True(t, hasRequestID, "request_id attribute missing")
}
