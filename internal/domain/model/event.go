package model

import "time"

// DocumentEventType names a document lifecycle transition.
type DocumentEventType string

const (
	// DocumentEventCreated is emitted after a document submission commits.
	DocumentEventCreated DocumentEventType = "document.created"
	// DocumentEventStatusUpdated is emitted after a status update changed a row.
	DocumentEventStatusUpdated DocumentEventType = "document.status_updated"
)

// DocumentEvent is the payload published for document lifecycle transitions.
type DocumentEvent struct {
	Type         DocumentEventType `json:"type"`
	DocumentID   int64             `json:"document_id"`
	DocumentName string            `json:"document_name,omitempty"`
	Status       *string           `json:"status"`
	Jobs         []int64           `json:"jobs,omitempty"`
	OccurredAt   time.Time         `json:"occurred_at"`
}
