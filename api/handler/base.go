package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/envelope/api/transport"
)

type baseHandler struct {
	logger *zap.Logger
	opts   []transport.Option
}

func newBaseHandler(logger *zap.Logger, opts []transport.Option) baseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return baseHandler{logger: logger, opts: opts}
}

func (h baseHandler) options(extra []transport.Option) []transport.Option {
	if len(extra) == 0 {
		return h.opts
	}
	all := make([]transport.Option, 0, len(h.opts)+len(extra))
	all = append(all, h.opts...)
	return append(all, extra...)
}

func (h baseHandler) respond(ctx *fasthttp.RequestCtx, outcome transport.Outcome, opts ...transport.Option) {
	if err := transport.Send(transport.FastHTTPPort{Ctx: ctx}, outcome, h.options(opts)...); err != nil {
		h.logger.Error("failed to write envelope", zap.Error(err))
		ctx.Error(fasthttp.StatusMessage(fasthttp.StatusInternalServerError), fasthttp.StatusInternalServerError)
	}
}

func (h baseHandler) respondHTTP(w http.ResponseWriter, outcome transport.Outcome, opts ...transport.Option) {
	if err := transport.Send(transport.HTTPPort{W: w}, outcome, h.options(opts)...); err != nil {
		// headers may already be out; nothing left to do but log
		h.logger.Error("failed to write envelope", zap.Error(err))
	}
}

func (h baseHandler) respondError(ctx *fasthttp.RequestCtx, err error) {
	h.respond(ctx, FailureFor(err))
}

func (h baseHandler) respondErrorHTTP(w http.ResponseWriter, err error) {
	h.respondHTTP(w, FailureFor(err))
}
