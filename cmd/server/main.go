package main

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/envelope/api/handler"
	"github.com/fastygo/envelope/api/transport"
	"github.com/fastygo/envelope/internal/config"
	"github.com/fastygo/envelope/internal/middleware"
	"github.com/fastygo/envelope/internal/router"
	"github.com/fastygo/envelope/internal/services/lifecycle"
	"github.com/fastygo/envelope/pkg/httpcontext"
	"github.com/fastygo/envelope/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	appCtx, stop := manager.SignalContext(context.Background())
	defer stop()

	opts := []transport.Option{transport.WithContentType(cfg.Envelope.ContentType)}
	handlers := router.Handlers{
		Envelope: apiHandler.NewEnvelopeHandler(zapLogger, cfg.HTTP.MaxRequestBodySize, opts...),
		Health:   apiHandler.NewHealthHandler(cfg.AppName, zapLogger, opts...),
		Fallback: apiHandler.NewFallbackHandler(zapLogger, opts...),
	}

	var guard *middleware.JWTGuard
	if cfg.JWT.Secret != "" {
		guard = middleware.NewJWTGuard(cfg.JWT.Secret, cfg.JWT.Issuer, zapLogger, opts...)
	}

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)
	serveErr := make(chan error, 1)

	switch cfg.HTTP.Engine {
	case config.EngineNetHTTP:
		var httpGuard func(http.Handler) http.Handler
		if guard != nil {
			httpGuard = guard.HTTP
		}
		mux := router.NewMux(handlers, httpGuard,
			middleware.RequestLoggerHTTP(ctxAdapter, zapLogger),
			middleware.Recoverer(handlers.Fallback),
		)
		server := &http.Server{
			Addr:         cfg.Address(),
			Handler:      http.MaxBytesHandler(mux, int64(cfg.HTTP.MaxRequestBodySize)),
			ReadTimeout:  cfg.HTTP.ReadTimeout,
			WriteTimeout: cfg.HTTP.WriteTimeout,
			IdleTimeout:  cfg.HTTP.IdleTimeout,
		}
		go func() {
			zapLogger.Info("server started", zap.String("address", cfg.Address()), zap.String("engine", cfg.HTTP.Engine))
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serveErr <- err
			}
		}()
		manager.Register("http_server", server.Shutdown)

	default:
		var fastGuard func(fasthttp.RequestHandler) fasthttp.RequestHandler
		if guard != nil {
			fastGuard = guard.FastHTTP
		}
		r := router.New(handlers, fastGuard)
		server := &fasthttp.Server{
			Handler:            middleware.RequestLogger(ctxAdapter, zapLogger)(r.Handler),
			ReadTimeout:        cfg.HTTP.ReadTimeout,
			WriteTimeout:       cfg.HTTP.WriteTimeout,
			IdleTimeout:        cfg.HTTP.IdleTimeout,
			MaxRequestBodySize: cfg.HTTP.MaxRequestBodySize,
			Name:               cfg.AppName,
		}
		go func() {
			zapLogger.Info("server started", zap.String("address", cfg.Address()), zap.String("engine", cfg.HTTP.Engine))
			if err := server.ListenAndServe(cfg.Address()); err != nil {
				serveErr <- err
			}
		}()
		manager.Register("http_server", server.ShutdownWithContext)
	}

	select {
	case <-appCtx.Done():
		zapLogger.Info("shutdown signal received")
	case err := <-serveErr:
		zapLogger.Error("server crashed", zap.Error(err))
	}

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
