package httpcontext

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	appLogger "github.com/fastygo/envelope/pkg/logger"
)

// Key represents a context value key exported for reuse.
type Key string

const (
	KeyRemoteAddr Key = "remote_addr"
	KeyUserAgent  Key = "user_agent"

	// RequestIDHeader is read from requests and echoed on responses.
	RequestIDHeader = "X-Request-ID"
)

// Adapter derives a stdlib context with a deadline and request metadata from
// either host framework.
type Adapter struct {
	timeout time.Duration
}

// NewAdapter constructs a new Adapter using the provided timeout.
func NewAdapter(timeout time.Duration) *Adapter {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Adapter{
		timeout: timeout,
	}
}

// Attach enriches a fasthttp request. The request ID is echoed on the response.
func (a *Adapter) Attach(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	stdCtx, cancel := context.WithTimeout(context.Background(), a.timeout)

	reqID := RequestID(string(ctx.Request.Header.Peek(RequestIDHeader)))
	stdCtx = appLogger.ContextWithRequestID(stdCtx, reqID)
	ctx.Response.Header.Set(RequestIDHeader, reqID)

	if remoteAddr := ctx.RemoteAddr(); remoteAddr != nil {
		stdCtx = context.WithValue(stdCtx, KeyRemoteAddr, remoteAddr.String())
	}
	if ua := string(ctx.Request.Header.UserAgent()); ua != "" {
		stdCtx = context.WithValue(stdCtx, KeyUserAgent, ua)
	}

	return stdCtx, cancel
}

// AttachHTTP is Attach for net/http. The returned context derives from the
// request's own context.
func (a *Adapter) AttachHTTP(w http.ResponseWriter, r *http.Request) (context.Context, context.CancelFunc) {
	stdCtx, cancel := context.WithTimeout(r.Context(), a.timeout)

	reqID := RequestID(r.Header.Get(RequestIDHeader))
	stdCtx = appLogger.ContextWithRequestID(stdCtx, reqID)
	w.Header().Set(RequestIDHeader, reqID)

	if r.RemoteAddr != "" {
		stdCtx = context.WithValue(stdCtx, KeyRemoteAddr, r.RemoteAddr)
	}
	if ua := r.UserAgent(); ua != "" {
		stdCtx = context.WithValue(stdCtx, KeyUserAgent, ua)
	}

	return stdCtx, cancel
}

// RequestID keeps a caller supplied ID or generates a new one.
func RequestID(header string) string {
	if id := strings.TrimSpace(header); id != "" {
		return id
	}
	return uuid.NewString()
}
