package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/catalog-backend/internal/http/response"
	"github.com/yungbote/catalog-backend/internal/platform/apierr"
	"github.com/yungbote/catalog-backend/internal/platform/logger"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	log   *logger.Logger
	store Pinger
}

// NewHealthHandler builds liveness and readiness probes. store may be nil,
// in which case readiness always succeeds.
func NewHealthHandler(log *logger.Logger, store Pinger) *HealthHandler {
	return &HealthHandler{log: log.With("handler", "HealthHandler"), store: store}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

func (h *HealthHandler) Ready(c *gin.Context) {
	if h.store == nil {
		c.String(http.StatusOK, "ready")
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := h.store.Ping(ctx); err != nil {
		h.log.Warn("readiness probe failed", "error", err)
		response.RespondAPIError(c, apierr.StoreUnavailable(err))
		return
	}
	c.String(http.StatusOK, "ready")
}
