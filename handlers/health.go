package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Health reports whether the database, and the raw cache when configured,
// are reachable.
func (h *Handler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	status := map[string]string{"status": "ok", "db": "ok"}
	code := http.StatusOK
	if err := h.db.PingContext(ctx); err != nil {
		h.log.Warn("health: database unreachable", zap.Error(err))
		status["db"] = err.Error()
		status["status"] = "degraded"
		code = http.StatusServiceUnavailable
	}
	if h.CacheHealth != nil {
		status["cache"] = "ok"
		if err := h.CacheHealth(ctx); err != nil {
			h.log.Warn("health: cache unreachable", zap.Error(err))
			status["cache"] = err.Error()
			status["status"] = "degraded"
		}
	}
	return c.JSON(code, status)
}
