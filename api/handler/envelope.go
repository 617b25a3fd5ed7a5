package handler

import (
	"bytes"
	"io"
	"net/http"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/envelope/api/transport"
	"github.com/fastygo/envelope/domain"
)

// EnvelopeHandler wraps whatever JSON the caller posts, using the query
// parameters success (default true) and status (default 400).
type EnvelopeHandler struct {
	baseHandler
	maxBody int64
}

func NewEnvelopeHandler(logger *zap.Logger, maxBody int, opts ...transport.Option) *EnvelopeHandler {
	if maxBody <= 0 {
		maxBody = 1 << 20
	}
	return &EnvelopeHandler{
		baseHandler: newBaseHandler(logger, opts),
		maxBody:     int64(maxBody),
	}
}

// @Summary Wrap payload
// @Tags envelope
// @Router /api/v1/envelope [post]
func (h *EnvelopeHandler) Wrap(ctx *fasthttp.RequestCtx) {
	args := ctx.QueryArgs()
	h.respond(ctx, h.outcome(ctx.PostBody(), string(args.Peek("success")), string(args.Peek("status"))))
}

func (h *EnvelopeHandler) WrapHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBody))
	if err != nil {
		h.respondErrorHTTP(w, domain.WrapError(domain.ErrCodeInvalid, "unreadable body", err))
		return
	}
	q := r.URL.Query()
	h.respondHTTP(w, h.outcome(body, q.Get("success"), q.Get("status")))
}

func (h *EnvelopeHandler) outcome(body []byte, successParam, statusParam string) transport.Outcome {
	success := true
	if successParam != "" {
		parsed, err := strconv.ParseBool(successParam)
		if err != nil {
			return FailureFor(domain.WrapError(domain.ErrCodeInvalid, "invalid success flag", err))
		}
		success = parsed
	}

	status := transport.DefaultFailureCode
	if statusParam != "" {
		parsed, err := strconv.Atoi(statusParam)
		if err != nil {
			return FailureFor(domain.WrapError(domain.ErrCodeInvalid, "invalid status", err))
		}
		status = parsed
	}

	var payload interface{}
	if len(bytes.TrimSpace(body)) > 0 {
		decoded, err := transport.DecodeValue(body)
		if err != nil {
			return FailureFor(domain.WrapError(domain.ErrCodeInvalid, domain.ErrInvalidPayload.Message, err))
		}
		payload = decoded
	}

	outcome, err := transport.FromPayload(payload, success, status)
	if err != nil {
		h.logger.Debug("payload rejected", zap.Error(err))
		return FailureFor(err)
	}
	return outcome
}
