// Package app contains the application setup for the slider service.
package app

import (
	"log/slog"
	"net/http"

	"github.com/mkrylov/storefront/internal/slider/config"
	"github.com/mkrylov/storefront/internal/slider/service"
	"github.com/mkrylov/storefront/internal/slider/store"
	"github.com/mkrylov/storefront/internal/slider/transport/rest"
	"github.com/mkrylov/storefront/pkg/server"
	"github.com/mkrylov/storefront/pkg/web"
	"github.com/prometheus/client_golang/prometheus"
)

type Dependencies struct {
	SliderService service.SliderService
	Metrics       *web.HTTPMetrics
	Registry      *prometheus.Registry
	Logger        *slog.Logger
}

func SetupDependencies(storePath string, logger *slog.Logger) *Dependencies {
	registry := prometheus.NewRegistry()
	return &Dependencies{
		SliderService: service.NewService(store.NewFileStore(storePath)),
		Metrics:       web.NewHTTPMetrics("slider", registry),
		Registry:      registry,
		Logger:        logger,
	}
}

// SetupHttpHandler initializes the HTTP routes for the slider service.
// Used by tests to set up the handler with the necessary middleware.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	mux := server.NewChiRouter(deps.Logger)
	mux.Use(deps.Metrics.Middleware)
	mux.Handle("/metrics", web.PrometheusHandler(deps.Registry))

	handler := rest.NewHandler(deps.SliderService, deps.Logger)
	handler.RegisterRoutes(mux)
	return mux
}

// SetupHttpServer creates and configures an HTTP server for the slider service.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	mux := SetupHttpHandler(deps)

	httpCfg := server.HTTPConfig{
		Port:           cfg.HTTPServer.Port,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		ReadTimeout:    cfg.HTTPServer.Timeout.Read,
		WriteTimeout:   cfg.HTTPServer.Timeout.Write,
		IdleTimeout:    cfg.HTTPServer.Timeout.Idle,
		ReadHeader:     cfg.HTTPServer.Timeout.ReadHeader,
	}

	return server.NewHTTPServer(httpCfg, mux)
}
