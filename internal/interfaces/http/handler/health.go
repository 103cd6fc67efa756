package handler

import (
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger reports backing-store liveness
type Pinger interface {
	Ping() error
}

// HealthHandler handles liveness and readiness endpoints
type HealthHandler struct {
	BaseHandler
	db      Pinger
	started time.Time
}

// NewHealthHandler creates a new HealthHandler. db may be nil when the
// service runs on the in-memory backend.
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db, started: time.Now()}
}

// Health reports service health
func (h *HealthHandler) Health(c *gin.Context) {
	status := "ok"
	dbStatus := "n/a"
	if h.db != nil {
		dbStatus = "ok"
		if err := h.db.Ping(); err != nil {
			status = "degraded"
			dbStatus = "unreachable"
		}
	}

	h.Success(c, gin.H{
		"status":   status,
		"database": dbStatus,
		"uptime":   time.Since(h.started).String(),
	})
}
