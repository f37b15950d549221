package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PingFunc comprueba la conectividad con el almacenamiento.
type PingFunc func(ctx context.Context) error

// HealthHandler expone el estado del servicio.
type HealthHandler struct {
	logger *zap.Logger
	ping   PingFunc
}

func NewHealthHandler(logger *zap.Logger, ping PingFunc) *HealthHandler {
	return &HealthHandler{logger: logger, ping: ping}
}

// Health maneja GET /healthz.
func (h *HealthHandler) Health(c *gin.Context) {
	if h.ping != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.ping(ctx); err != nil {
			h.logger.Warn("health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
