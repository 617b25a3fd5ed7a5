package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/envelope/api/transport"
	"github.com/fastygo/envelope/domain"
)

var errPanic = domain.NewError(domain.ErrCodeInternal, "panic")

// FallbackHandler answers requests no route handled, including panics, with
// failure envelopes.
type FallbackHandler struct {
	baseHandler
}

func NewFallbackHandler(logger *zap.Logger, opts ...transport.Option) *FallbackHandler {
	return &FallbackHandler{baseHandler: newBaseHandler(logger, opts)}
}

func (h *FallbackHandler) NotFound(ctx *fasthttp.RequestCtx) {
	h.respondError(ctx, domain.ErrRouteNotFound)
}

func (h *FallbackHandler) MethodNotAllowed(ctx *fasthttp.RequestCtx) {
	h.respondError(ctx, domain.ErrMethodNotAllowed)
}

func (h *FallbackHandler) Panic(ctx *fasthttp.RequestCtx, rec interface{}) {
	h.logger.Error("panic recovered",
		zap.Any("panic", rec),
		zap.ByteString("path", ctx.Path()),
		zap.Stack("stack"),
	)
	h.respond(ctx, FailureFor(errPanic), transport.WithException())
}

func (h *FallbackHandler) NotFoundHTTP(w http.ResponseWriter, r *http.Request) {
	h.respondErrorHTTP(w, domain.ErrRouteNotFound)
}

func (h *FallbackHandler) MethodNotAllowedHTTP(w http.ResponseWriter, r *http.Request) {
	h.respondErrorHTTP(w, domain.ErrMethodNotAllowed)
}

func (h *FallbackHandler) PanicHTTP(w http.ResponseWriter, r *http.Request, rec interface{}) {
	h.logger.Error("panic recovered",
		zap.Any("panic", rec),
		zap.String("path", r.URL.Path),
		zap.Stack("stack"),
	)
	h.respondHTTP(w, FailureFor(errPanic), transport.WithException())
}
