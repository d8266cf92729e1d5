package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/target/doctrack-api/internal/core"
	"github.com/target/doctrack-api/internal/domain/model"
	apperrors "github.com/target/doctrack-api/internal/errors"
	"github.com/target/doctrack-api/internal/observability/metrics"
	"github.com/target/doctrack-api/internal/observability/statsd"
)

const eventPublishTimeout = 5 * time.Second

// DocumentServiceOptions groups dependencies for DocumentService.
type DocumentServiceOptions struct {
	Repo   core.DocumentRepository     // Required
	Events core.DocumentEventPublisher // Optional: lifecycle events are dropped when nil
	Logger *slog.Logger                // Optional
	// Metrics receives event publish outcomes (optional).
	Metrics statsd.Sink
}

// DocumentService handles listing, submission and status updates of working documents.
type DocumentService struct {
	repo    core.DocumentRepository
	events  core.DocumentEventPublisher
	logger  *slog.Logger
	metrics statsd.Sink
	now     func() time.Time
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(opts DocumentServiceOptions) (*DocumentService, error) {
	if opts.Repo == nil {
		return nil, errors.New("DocumentRepository is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &DocumentService{
		repo:    opts.Repo,
		events:  opts.Events,
		logger:  logger.With("component", "document_service"),
		metrics: opts.Metrics,
		now:     time.Now,
	}, nil
}

// MustNewDocumentService constructs a DocumentService and panics on invalid options.
func MustNewDocumentService(opts DocumentServiceOptions) *DocumentService {
	svc, err := NewDocumentService(opts)
	if err != nil {
		//nolint:forbidigo // Must constructor fails fast when dependencies are invalid during startup
		panic(fmt.Sprintf("failed to create DocumentService: %v", err))
	}
	return svc
}

// List returns every document/job link.
func (s *DocumentService) List(ctx context.Context) ([]*model.DocumentListing, error) {
	return s.repo.List(ctx)
}

// ListByJobs returns document/job links restricted to req.Jobs.
func (s *DocumentService) ListByJobs(
	ctx context.Context,
	req *model.ListDocumentsByJobsRequest,
) ([]*model.DocumentListing, error) {
	if req == nil {
		return nil, apperrors.ValidationField("jobs", "jobs is required and cannot be empty")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.ValidationField("jobs", err.Error())
	}
	return s.repo.ListByJobIDs(ctx, req.Jobs)
}

// UpdateStatus sets the document status. Unknown ids are not an error; the bool reports
// whether a row was changed.
func (s *DocumentService) UpdateStatus(
	ctx context.Context,
	id int64,
	req *model.UpdateDocumentStatusRequest,
) (bool, error) {
	var status *string
	if req != nil {
		status = req.Status
	}

	updated, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return false, err
	}
	if !updated {
		s.logger.InfoContext(ctx, "status update matched no document", "document_id", id)
		return false, nil
	}

	s.publish(ctx, model.DocumentEvent{
		Type:       model.DocumentEventStatusUpdated,
		DocumentID: id,
		Status:     status,
	})
	return true, nil
}

// Submit creates a document linked to every job in req.Jobs atomically.
func (s *DocumentService) Submit(
	ctx context.Context,
	req *model.SubmitDocumentRequest,
) (*model.WorkingDocument, error) {
	if req == nil {
		return nil, apperrors.Validation("document_name, document_path, user_id is required and cannot be empty")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	doc, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "document submitted",
		"document_id", doc.ID,
		"user_id", *req.UserID,
		"jobs", len(req.Jobs),
	)
	s.publish(ctx, model.DocumentEvent{
		Type:         model.DocumentEventCreated,
		DocumentID:   doc.ID,
		DocumentName: doc.DocumentName,
		Status:       doc.Status,
		Jobs:         req.Jobs,
	})
	return doc, nil
}

// publish delivers evt when a publisher is configured. Failures are logged and never
// surface to the caller because the database write has already committed.
func (s *DocumentService) publish(ctx context.Context, evt model.DocumentEvent) {
	if s.events == nil {
		return
	}
	evt.OccurredAt = s.now().UTC()

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), eventPublishTimeout)
	defer cancel()
	err := s.events.Publish(pubCtx, evt)
	metrics.EmitEventPublish(s.metrics, string(evt.Type), err)
	if err != nil {
		s.logger.WarnContext(ctx, "publish document event failed",
			"type", evt.Type,
			"document_id", evt.DocumentID,
			"error", err,
		)
	}
}
