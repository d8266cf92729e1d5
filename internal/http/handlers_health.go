package httpx

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const (
	healthResponse      = `{"status":"ok"}`
	unavailableResponse = `{"status":"unavailable"}`
	healthPingTimeout   = 2 * time.Second
)

// HealthHandlers serves the readiness probe. With Ping set, a failing dependency yields 503.
type HealthHandlers struct {
	Ping   func(ctx context.Context) error
	Logger *slog.Logger
}

// Health handles GET and HEAD /healthz.
func (h *HealthHandlers) Health(w http.ResponseWriter, r *http.Request) {
	status, body := http.StatusOK, healthResponse
	if h != nil && h.Ping != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
		defer cancel()
		if err := h.Ping(ctx); err != nil {
			if h.Logger != nil {
				h.Logger.WarnContext(r.Context(), "health check failed", "error", err)
			}
			status, body = http.StatusServiceUnavailable, unavailableResponse
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := io.WriteString(w, body); err != nil {
		// Nothing more to do if the client connection is gone.
		return
	}
}
