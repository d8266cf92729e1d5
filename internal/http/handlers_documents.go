package httpx

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/target/doctrack-api/internal/domain/model"
	apperrors "github.com/target/doctrack-api/internal/errors"
	"github.com/target/doctrack-api/internal/service"
)

// DocumentHandlers serves the document listing, submission and status routes.
type DocumentHandlers struct {
	Svc    *service.DocumentService
	Logger *slog.Logger
}

type statusUpdateResponse struct {
	Message string `json:"message"`
	Updated bool   `json:"updated"`
}

type submitResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

// List handles GET /documents.
func (h *DocumentHandlers) List(w http.ResponseWriter, r *http.Request) {
	docs, err := h.Svc.List(r.Context())
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, docs)
}

// ListByJobs handles POST /documents with {"jobs":[...]}.
func (h *DocumentHandlers) ListByJobs(w http.ResponseWriter, r *http.Request) {
	var req model.ListDocumentsByJobsRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	docs, err := h.Svc.ListByJobs(r.Context(), &req)
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, docs)
}

// UpdateStatus handles PUT /document/update/{document_id}. Unknown ids still return 200.
func (h *DocumentHandlers) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("document_id"), 10, 64)
	if err != nil {
		writeServiceError(w, r, h.Logger, apperrors.ValidationField("document_id", "document_id must be an integer"))
		return
	}

	var req model.UpdateDocumentStatusRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	updated, err := h.Svc.UpdateStatus(r.Context(), id, &req)
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, statusUpdateResponse{Message: "Document status updated", Updated: updated})
}

// Submit handles POST /document/new.
func (h *DocumentHandlers) Submit(w http.ResponseWriter, r *http.Request) {
	var req model.SubmitDocumentRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	doc, err := h.Svc.Submit(r.Context(), &req)
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusCreated, submitResponse{Message: "Document submitted", ID: doc.ID})
}
