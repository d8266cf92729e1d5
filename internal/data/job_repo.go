package data

import (
	"context"
	"database/sql"

	"github.com/target/doctrack-api/internal/data/database"
	"github.com/target/doctrack-api/internal/domain/model"
)

// JobRepo provides read access to the job catalog.
type JobRepo struct {
	sqlRepo
}

// NewJobRepo creates a new JobRepo.
func NewJobRepo(db *sql.DB, dialect database.Dialect) *JobRepo {
	return &JobRepo{sqlRepo{DB: db, dialect: dialect}}
}

var jobColumns = database.WithColumns("job.id", "job.title", "job.description")

// List returns every job ordered by id.
func (r *JobRepo) List(ctx context.Context) ([]*model.Job, error) {
	return r.list(ctx, "list jobs", database.NewListQueryOptions("job",
		jobColumns,
		database.WithOrderBy("ASC", "job.id"),
	))
}

// ListByUser returns the jobs linked to userID through user_job_relation.
func (r *JobRepo) ListByUser(ctx context.Context, userID int64) ([]*model.Job, error) {
	return r.list(ctx, "list jobs by user", database.NewListQueryOptions("job",
		jobColumns,
		database.WithJoin(database.InnerJoin, "user_job_relation", "user_job_relation.job_id", "job.id"),
		database.WithCondition(database.WhereCond("user_job_relation.user_id", database.Equal, userID)),
		database.WithOrderBy("ASC", "job.id"),
	))
}

func (r *JobRepo) list(ctx context.Context, op string, opts *database.ListQueryOptions) ([]*model.Job, error) {
	rows, err := r.query(ctx, opts)
	if err != nil {
		return nil, dbError(op, err)
	}
	defer rows.Close()

	jobs := make([]*model.Job, 0)
	for rows.Next() {
		var (
			j           model.Job
			title, desc sql.NullString
		)
		if err := rows.Scan(&j.ID, &title, &desc); err != nil {
			return nil, dbError(op, err)
		}
		j.Title = title.String
		j.Description = desc.String
		jobs = append(jobs, &j)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(op, err)
	}
	return jobs, nil
}
