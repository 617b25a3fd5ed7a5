package middleware

import (
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/envelope/api/transport"
	"github.com/fastygo/envelope/pkg/httpcontext"
	appLogger "github.com/fastygo/envelope/pkg/logger"
)

// RequestLogger assigns a request ID and logs one line per request with the
// logical outcome of the envelope. Exception responses are logged at warn.
func RequestLogger(adapter *httpcontext.Adapter, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	adapter, logger = defaults(adapter, logger)
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			start := time.Now()
			stdCtx, cancel := adapter.Attach(ctx)
			defer cancel()

			next(ctx)

			summary, ok := transport.SummaryFrom(ctx)
			logRequest(appLogger.WithRequestID(stdCtx, logger),
				string(ctx.Method()), string(ctx.Path()), ctx.Response.StatusCode(),
				summary, ok, time.Since(start))
		}
	}
}

// RequestLoggerHTTP is RequestLogger for net/http.
func RequestLoggerHTTP(adapter *httpcontext.Adapter, logger *zap.Logger) func(http.Handler) http.Handler {
	adapter, logger = defaults(adapter, logger)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			stdCtx, cancel := adapter.AttachHTTP(w, r)
			defer cancel()

			rec := &responseRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r.WithContext(stdCtx))

			logRequest(appLogger.WithRequestID(stdCtx, logger),
				r.Method, r.URL.Path, rec.statusCode(),
				rec.summary, rec.recorded, time.Since(start))
		})
	}
}

func defaults(adapter *httpcontext.Adapter, logger *zap.Logger) (*httpcontext.Adapter, *zap.Logger) {
	if adapter == nil {
		adapter = httpcontext.NewAdapter(0)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return adapter, logger
}

func logRequest(log *zap.Logger, method, path string, status int, summary transport.Summary, enveloped bool, elapsed time.Duration) {
	fields := []zap.Field{
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", status),
		zap.Duration("duration", elapsed),
	}
	if enveloped {
		fields = append(fields, zap.Bool("success", summary.Success))
		if !summary.Success {
			fields = append(fields, zap.Int("code", summary.Code))
		}
	}

	if summary.Exception {
		log.Warn("request failed", fields...)
		return
	}
	log.Info("request completed", fields...)
}

type responseRecorder struct {
	http.ResponseWriter
	status   int
	summary  transport.Summary
	recorded bool
}

func (r *responseRecorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

func (r *responseRecorder) RecordSummary(s transport.Summary) {
	r.summary = s
	r.recorded = true
}

func (r *responseRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func (r *responseRecorder) statusCode() int {
	if r.status == 0 {
		return http.StatusOK
	}
	return r.status
}
