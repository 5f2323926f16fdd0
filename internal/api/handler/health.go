package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/user/mleague-analyst/internal/version"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	db            Pinger
	llmConfigured bool
	model         string
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db Pinger, llmConfigured bool, model string) *HealthHandler {
	return &HealthHandler{db: db, llmConfigured: llmConfigured, model: model}
}

// Health returns the service health status. A missing API key degrades the
// service but the cache can still be inspected.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	dbStatus := "ok"
	if h.db == nil {
		dbStatus = "unavailable"
	} else if err := h.db.PingContext(ctx); err != nil {
		dbStatus = "error: " + err.Error()
	}

	status := "healthy"
	if !h.llmConfigured {
		status = "degraded"
	}
	if dbStatus != "ok" {
		status = "unhealthy"
	}

	code := http.StatusOK
	if status == "unhealthy" {
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":         status,
		"version":        version.Short(),
		"database":       dbStatus,
		"llm_configured": h.llmConfigured,
		"model":          h.model,
	})
}
