package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/fastygo/envelope/api/handler"
)

type Handlers struct {
	Envelope *apiHandler.EnvelopeHandler
	Health   *apiHandler.HealthHandler
	Fallback *apiHandler.FallbackHandler
}

// New builds the fasthttp route table. guard protects /api/v1 and may be nil.
func New(handlers Handlers, guard func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	if guard == nil {
		guard = func(next fasthttp.RequestHandler) fasthttp.RequestHandler { return next }
	}

	r := router.New()
	r.NotFound = handlers.Fallback.NotFound
	r.MethodNotAllowed = handlers.Fallback.MethodNotAllowed
	r.PanicHandler = handlers.Fallback.Panic

	r.GET("/health", handlers.Health.Check)

	r.POST("/api/v1/envelope", guard(handlers.Envelope.Wrap))

	return r
}
