package core

import (
	"context"

	"github.com/target/doctrack-api/internal/domain/model"
)

// This file contains repository interface definitions (ports in hexagonal architecture).
// Services depend on these interfaces; the data layer provides the SQL and Redis implementations.

// UserRepository defines the interface for user lookups.
type UserRepository interface {
	// GetByEmail returns the user with the given email or a not_found AppError.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

// JobRepository defines the interface for job data operations.
type JobRepository interface {
	List(ctx context.Context) ([]*model.Job, error)
	// ListByUser returns the jobs linked to a user through user_job_relation.
	ListByUser(ctx context.Context, userID int64) ([]*model.Job, error)
}

// DocumentRepository defines the interface for working document operations.
type DocumentRepository interface {
	// List returns one listing per document/job link.
	List(ctx context.Context) ([]*model.DocumentListing, error)
	// ListByJobIDs returns listings restricted to the given job ids.
	ListByJobIDs(ctx context.Context, jobIDs []int64) ([]*model.DocumentListing, error)
	// UpdateStatus sets the status unconditionally and reports whether a row matched.
	UpdateStatus(ctx context.Context, id int64, status *string) (bool, error)
	// Create inserts the document and its job links in a single transaction and returns the new document.
	Create(ctx context.Context, req *model.SubmitDocumentRequest) (*model.WorkingDocument, error)
}

// DocumentEventPublisher delivers document lifecycle events to downstream consumers.
type DocumentEventPublisher interface {
	Publish(ctx context.Context, evt model.DocumentEvent) error
}
