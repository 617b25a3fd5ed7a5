package middleware

import (
	"net/http"

	apiHandler "github.com/fastygo/envelope/api/handler"
)

// Recoverer turns panics into failure envelopes via the fallback handler.
// The fasthttp router has its own panic hook, so this is net/http only.
func Recoverer(fallback *apiHandler.FallbackHandler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					fallback.PanicHTTP(w, r, rec)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
