package model

import (
	"errors"
	"fmt"
	"strings"
)

// WorkingDocument is a row of the working_document table.
type WorkingDocument struct {
	ID           int64   `json:"id"            db:"id"`
	DocumentName string  `json:"document_name" db:"document_name"`
	DocumentPath string  `json:"document_path" db:"document_path"`
	Status       *string `json:"status"        db:"status"`
}

// DocumentListing is one document/job link: a document appears once per job it is attached to.
type DocumentListing struct {
	ID           int64   `json:"id"            db:"id"`
	DocumentName string  `json:"document_name" db:"document_name"`
	DocumentPath string  `json:"document_path" db:"document_path"`
	Status       *string `json:"status"        db:"status"`
	JobTitle     string  `json:"job_title"     db:"job_title"`
}

// ListDocumentsByJobsRequest filters document listings to the given job ids.
type ListDocumentsByJobsRequest struct {
	Jobs []int64 `json:"jobs"`
}

// Validate requires a non-empty job id list.
func (r *ListDocumentsByJobsRequest) Validate() error {
	if len(r.Jobs) == 0 {
		return errors.New("jobs is required and cannot be empty")
	}
	return nil
}

// UpdateDocumentStatusRequest sets the free-form status of a document. A nil Status clears it.
type UpdateDocumentStatusRequest struct {
	Status *string `json:"status"`
}

// SubmitDocumentRequest creates a working document and links it to jobs.
// UserID is required by the API contract but is not persisted.
type SubmitDocumentRequest struct {
	DocumentName string  `json:"document_name"`
	DocumentPath string  `json:"document_path"`
	UserID       *int64  `json:"user_id"`
	Status       *string `json:"status"`
	Jobs         []int64 `json:"jobs"`
}

// Validate checks required fields and trims name and path.
func (r *SubmitDocumentRequest) Validate() error {
	r.DocumentName = strings.TrimSpace(r.DocumentName)
	r.DocumentPath = strings.TrimSpace(r.DocumentPath)

	var missing []string
	if r.DocumentName == "" {
		missing = append(missing, "document_name")
	}
	if r.DocumentPath == "" {
		missing = append(missing, "document_path")
	}
	if r.UserID == nil || *r.UserID == 0 {
		missing = append(missing, "user_id")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%s is required and cannot be empty", strings.Join(missing, ", "))
	}
	return nil
}
