package model

// Job is a unit of work that documents are filed against.
type Job struct {
	ID          int64  `json:"id"          db:"id"`
	Title       string `json:"title"       db:"title"`
	Description string `json:"description" db:"description"`
}
