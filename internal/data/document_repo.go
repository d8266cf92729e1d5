package data

import (
	"context"
	"database/sql"
	"errors"

	"github.com/target/doctrack-api/internal/data/database"
	"github.com/target/doctrack-api/internal/domain/model"
	apperrors "github.com/target/doctrack-api/internal/errors"
)

const (
	documentInsertQuery = `INSERT INTO working_document (document_name, document_path, status) VALUES ($1, $2, $3) RETURNING id`
	documentLinkQuery   = `INSERT INTO job_document_relation (job_id, document_id) VALUES ($1, $2)`
	documentStatusQuery = `UPDATE working_document SET status = $1 WHERE id = $2`
)

// DocumentRepo provides database operations for working documents and their job links.
type DocumentRepo struct {
	sqlRepo
}

// NewDocumentRepo creates a new DocumentRepo.
func NewDocumentRepo(db *sql.DB, dialect database.Dialect) *DocumentRepo {
	return &DocumentRepo{sqlRepo{DB: db, dialect: dialect}}
}

func listingQuery(conds ...database.Condition) *database.ListQueryOptions {
	return database.NewListQueryOptions("working_document",
		database.WithColumns(
			"working_document.id",
			"working_document.document_name",
			"working_document.document_path",
			"working_document.status",
			"job.title AS job_title",
		),
		database.WithJoin(database.InnerJoin, "job_document_relation",
			"job_document_relation.document_id", "working_document.id"),
		database.WithJoin(database.InnerJoin, "job", "job.id", "job_document_relation.job_id"),
		database.WithConditions(conds...),
		database.WithOrderBy("ASC", "working_document.id", "job.id"),
	)
}

// List returns one listing per document/job link.
func (r *DocumentRepo) List(ctx context.Context) ([]*model.DocumentListing, error) {
	return r.listings(ctx, "list documents", listingQuery())
}

// ListByJobIDs returns listings for links whose job id is in jobIDs. The IN clause carries
// one bound parameter per id.
func (r *DocumentRepo) ListByJobIDs(ctx context.Context, jobIDs []int64) ([]*model.DocumentListing, error) {
	if len(jobIDs) == 0 {
		return []*model.DocumentListing{}, nil
	}
	return r.listings(ctx, "list documents by jobs",
		listingQuery(database.WhereCond("job.id", database.In, jobIDs)))
}

func (r *DocumentRepo) listings(
	ctx context.Context,
	op string,
	opts *database.ListQueryOptions,
) ([]*model.DocumentListing, error) {
	rows, err := r.query(ctx, opts)
	if err != nil {
		return nil, dbError(op, err)
	}
	defer rows.Close()

	out := make([]*model.DocumentListing, 0)
	for rows.Next() {
		var (
			d                         model.DocumentListing
			name, path, title, status sql.NullString
		)
		if err := rows.Scan(&d.ID, &name, &path, &status, &title); err != nil {
			return nil, dbError(op, err)
		}
		d.DocumentName = name.String
		d.DocumentPath = path.String
		d.JobTitle = title.String
		if status.Valid {
			s := status.String
			d.Status = &s
		}
		out = append(out, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(op, err)
	}
	return out, nil
}

// UpdateStatus sets the status of a document unconditionally and reports whether a row matched.
func (r *DocumentRepo) UpdateStatus(ctx context.Context, id int64, status *string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, r.dialect.Rebind(documentStatusQuery), status, id)
	if err != nil {
		return false, dbError("update document status", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, dbError("update document status", err)
	}
	return n > 0, nil
}

// Create inserts a working document and one job_document_relation row per entry in req.Jobs
// inside a single transaction. Nothing is persisted if any insert fails.
func (r *DocumentRepo) Create(ctx context.Context, req *model.SubmitDocumentRequest) (*model.WorkingDocument, error) {
	if req == nil {
		return nil, errors.New("submit document request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	doc := &model.WorkingDocument{
		DocumentName: req.DocumentName,
		DocumentPath: req.DocumentPath,
		Status:       req.Status,
	}
	err := withTx(ctx, r.DB, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx, r.dialect.Rebind(documentInsertQuery),
			doc.DocumentName, doc.DocumentPath, doc.Status).Scan(&doc.ID); err != nil {
			return dbError("insert document", err)
		}

		if len(req.Jobs) == 0 {
			return nil
		}
		stmt, err := tx.PrepareContext(ctx, r.dialect.Rebind(documentLinkQuery))
		if err != nil {
			return dbError("prepare document link", err)
		}
		defer stmt.Close()

		for _, jobID := range req.Jobs {
			if _, err := stmt.ExecContext(ctx, jobID, doc.ID); err != nil {
				return dbError("link document to job", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}
