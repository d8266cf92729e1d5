// Package httpx provides the HTTP handlers, middleware and router for the doctrack API.
package httpx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/target/doctrack-api/internal/observability/statsd"
	"github.com/target/doctrack-api/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth      *service.AuthService
	Documents *service.DocumentService
	Jobs      *service.JobService
	// Optional: readiness probe dependency check (typically the database ping).
	HealthCheck func(ctx context.Context) error
	// Optional: per-route request metrics.
	Metrics statsd.Sink
	Logger  *slog.Logger
}

// NewRouter creates the API router. Routes whose service is nil are not registered.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}
	mux := http.NewServeMux()

	health := &HealthHandlers{Ping: services.HealthCheck, Logger: logger}
	mux.HandleFunc("GET /{$}", homeHandler)
	mux.HandleFunc("GET /api/hello", helloHandler)
	mux.HandleFunc("GET /healthz", health.Health)
	mux.HandleFunc("HEAD /healthz", health.Health)

	if services.Auth != nil {
		registerAuthRoutes(mux, &AuthHandlers{Svc: services.Auth, Logger: logger})
	}
	if services.Documents != nil {
		registerDocumentRoutes(mux, &DocumentHandlers{Svc: services.Documents, Logger: logger})
	}
	if services.Jobs != nil {
		registerJobRoutes(mux, &JobHandlers{Svc: services.Jobs, Logger: logger})
	}

	return Metrics(services.Metrics)(notFound{mux: mux})
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.HandleFunc("POST /login", h.Login)
}

func registerDocumentRoutes(mux *http.ServeMux, h *DocumentHandlers) {
	mux.HandleFunc("GET /documents", h.List)
	mux.HandleFunc("POST /documents", h.ListByJobs)
	mux.HandleFunc("PUT /document/update/{document_id}", h.UpdateStatus)
	mux.HandleFunc("POST /document/new", h.Submit)
}

func registerJobRoutes(mux *http.ServeMux, h *JobHandlers) {
	mux.HandleFunc("GET /jobs", h.List)
}
