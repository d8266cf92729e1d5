package httpx

import (
	"log/slog"
	"net/http"

	"github.com/target/doctrack-api/internal/domain/model"
	"github.com/target/doctrack-api/internal/service"
)

// AuthHandlers serves POST /login.
type AuthHandlers struct {
	Svc    *service.AuthService
	Logger *slog.Logger
}

// Login checks credentials and returns the user's profile with linked jobs.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	res, err := h.Svc.Login(r.Context(), &req)
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, res)
}
