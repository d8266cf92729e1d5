package httpx

import (
	"log/slog"
	"net/http"

	"github.com/target/doctrack-api/internal/service"
)

// JobHandlers serves the job catalog.
type JobHandlers struct {
	Svc    *service.JobService
	Logger *slog.Logger
}

// List handles GET /jobs.
func (h *JobHandlers) List(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.Svc.List(r.Context())
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, jobs)
}
