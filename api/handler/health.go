package handler

import (
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/envelope/api/transport"
)

type HealthHandler struct {
	baseHandler
	service string
	started time.Time
	now     func() time.Time
}

func NewHealthHandler(service string, logger *zap.Logger, opts ...transport.Option) *HealthHandler {
	return &HealthHandler{
		baseHandler: newBaseHandler(logger, opts),
		service:     service,
		started:     time.Now(),
		now:         time.Now,
	}
}

// @Summary Health check
// @Tags health
// @Router /health [get]
func (h *HealthHandler) Check(ctx *fasthttp.RequestCtx) {
	h.respond(ctx, transport.NewSuccess(h.payload()))
}

func (h *HealthHandler) CheckHTTP(w http.ResponseWriter, r *http.Request) {
	h.respondHTTP(w, transport.NewSuccess(h.payload()))
}

func (h *HealthHandler) payload() map[string]interface{} {
	now := h.now()
	return map[string]interface{}{
		"status":    "ok",
		"service":   h.service,
		"timestamp": now.UTC(),
		"uptime":    now.Sub(h.started).Round(time.Second).String(),
	}
}
