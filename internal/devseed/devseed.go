// Package devseed loads a small, idempotent development dataset: users, jobs,
// the user/job assignments and a handful of working documents filed against jobs.
package devseed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/target/doctrack-api/internal/core"
	"github.com/target/doctrack-api/internal/data"
	"github.com/target/doctrack-api/internal/data/database"
	"github.com/target/doctrack-api/internal/domain/model"
	apperrors "github.com/target/doctrack-api/internal/errors"
)

// Options configures a seeding run.
type Options struct {
	DB      *sql.DB          // Required
	Dialect database.Dialect // Required
	// Cache is invalidated after jobs are written (optional).
	Cache  *core.JobCatalogCache
	Logger *slog.Logger
}

// Summary counts the rows a run created. Rows that already existed are not counted.
type Summary struct {
	Users     int
	Jobs      int
	Links     int
	Documents int
}

type seedUser struct {
	Name     string
	Email    string
	Password string
	Level    int
	Jobs     []string
}

type seedDocument struct {
	Name   string
	Path   string
	Status *string
	Jobs   []string
}

func strPtr(s string) *string { return &s }

func defaultJobs() []model.Job {
	return []model.Job{
		{Title: "Quarterly Audit", Description: "Collect and review Q3 financial statements"},
		{Title: "Site Survey", Description: "North campus facilities walkthrough"},
		{Title: "Vendor Onboarding", Description: "Contracts and compliance paperwork for new suppliers"},
	}
}

func defaultUsers() []seedUser {
	return []seedUser{
		{Name: "Ada Admin", Email: "ada@example.com", Password: "password", Level: 2,
			Jobs: []string{"Quarterly Audit", "Site Survey", "Vendor Onboarding"}},
		{Name: "Grace Reviewer", Email: "grace@example.com", Password: "password", Level: 1,
			Jobs: []string{"Quarterly Audit"}},
		{Name: "Linus Field", Email: "linus@example.com", Password: "password", Level: 0,
			Jobs: []string{"Site Survey"}},
	}
}

func defaultDocuments() []seedDocument {
	return []seedDocument{
		{Name: "balance-sheet.xlsx", Path: "/docs/audit/balance-sheet.xlsx", Status: strPtr("draft"),
			Jobs: []string{"Quarterly Audit"}},
		{Name: "expense-report.pdf", Path: "/docs/audit/expense-report.pdf", Status: strPtr("approved"),
			Jobs: []string{"Quarterly Audit", "Vendor Onboarding"}},
		{Name: "floor-plan.png", Path: "/docs/survey/floor-plan.png",
			Jobs: []string{"Site Survey"}},
		{Name: "supplier-agreement.docx", Path: "/docs/vendors/supplier-agreement.docx", Status: strPtr("in_review"),
			Jobs: []string{"Vendor Onboarding"}},
	}
}

// Run seeds the development dataset. It is safe to run repeatedly.
func Run(ctx context.Context, opts Options) (Summary, error) {
	var sum Summary
	if opts.DB == nil {
		return sum, errors.New("devseed: DB is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := seeder{db: opts.DB, dialect: opts.Dialect, logger: logger.With("component", "devseed")}

	jobIDs, err := s.seedJobs(ctx, &sum)
	if err != nil {
		return sum, err
	}
	ownerID, err := s.seedUsers(ctx, jobIDs, &sum)
	if err != nil {
		return sum, err
	}
	if err := s.seedDocuments(ctx, jobIDs, ownerID, &sum); err != nil {
		return sum, err
	}

	if opts.Cache != nil && sum.Jobs > 0 {
		if err := opts.Cache.Invalidate(ctx); err != nil {
			s.logger.WarnContext(ctx, "failed to invalidate job catalog cache", "error", err)
		}
	}

	s.logger.InfoContext(ctx, "development seed complete",
		"users", sum.Users, "jobs", sum.Jobs, "links", sum.Links, "documents", sum.Documents)
	return sum, nil
}

type seeder struct {
	db      *sql.DB
	dialect database.Dialect
	logger  *slog.Logger
}

func (s seeder) seedJobs(ctx context.Context, sum *Summary) (map[string]int64, error) {
	ids := make(map[string]int64)
	for _, job := range defaultJobs() {
		id, found, err := s.lookupID(ctx, `SELECT id FROM job WHERE title = $1 ORDER BY id LIMIT 1`, job.Title)
		if err != nil {
			return nil, fmt.Errorf("lookup job %q: %w", job.Title, err)
		}
		if !found {
			id, err = s.insertID(ctx, `INSERT INTO job (title, description) VALUES ($1, $2) RETURNING id`,
				job.Title, job.Description)
			if err != nil {
				return nil, fmt.Errorf("insert job %q: %w", job.Title, err)
			}
			sum.Jobs++
			s.logger.InfoContext(ctx, "created job", "title", job.Title, "id", id)
		}
		ids[job.Title] = id
	}
	return ids, nil
}

// seedUsers returns the id of the first seeded user, which submits the seeded documents.
func (s seeder) seedUsers(ctx context.Context, jobIDs map[string]int64, sum *Summary) (int64, error) {
	users := data.NewUserRepo(s.db, s.dialect)
	var ownerID int64
	for _, u := range defaultUsers() {
		var userID int64
		existing, err := users.GetByEmail(ctx, u.Email)
		switch {
		case err == nil:
			userID = existing.ID
		case apperrors.IsNotFound(err):
			userID, err = s.insertID(ctx,
				`INSERT INTO "user" (name, email, password, level) VALUES ($1, $2, $3, $4) RETURNING id`,
				u.Name, u.Email, u.Password, u.Level)
			if err != nil {
				return 0, fmt.Errorf("insert user %q: %w", u.Email, err)
			}
			sum.Users++
			s.logger.InfoContext(ctx, "created user", "email", u.Email, "level", u.Level)
		default:
			return 0, fmt.Errorf("lookup user %q: %w", u.Email, err)
		}
		if ownerID == 0 {
			ownerID = userID
		}

		for _, title := range u.Jobs {
			linked, err := s.exists(ctx,
				`SELECT 1 FROM user_job_relation WHERE user_id = $1 AND job_id = $2`, userID, jobIDs[title])
			if err != nil {
				return 0, fmt.Errorf("lookup assignment: %w", err)
			}
			if linked {
				continue
			}
			if _, err := s.db.ExecContext(ctx, s.dialect.Rebind(
				`INSERT INTO user_job_relation (user_id, job_id) VALUES ($1, $2)`), userID, jobIDs[title]); err != nil {
				return 0, fmt.Errorf("assign %q to %q: %w", u.Email, title, err)
			}
			sum.Links++
		}
	}
	return ownerID, nil
}

func (s seeder) seedDocuments(ctx context.Context, jobIDs map[string]int64, ownerID int64, sum *Summary) error {
	docs := data.NewDocumentRepo(s.db, s.dialect)
	for _, d := range defaultDocuments() {
		found, err := s.exists(ctx, `SELECT 1 FROM working_document WHERE document_name = $1`, d.Name)
		if err != nil {
			return fmt.Errorf("lookup document %q: %w", d.Name, err)
		}
		if found {
			continue
		}

		jobs := make([]int64, 0, len(d.Jobs))
		for _, title := range d.Jobs {
			jobs = append(jobs, jobIDs[title])
		}
		created, err := docs.Create(ctx, &model.SubmitDocumentRequest{
			DocumentName: d.Name,
			DocumentPath: d.Path,
			UserID:       &ownerID,
			Status:       d.Status,
			Jobs:         jobs,
		})
		if err != nil {
			return fmt.Errorf("create document %q: %w", d.Name, err)
		}
		sum.Documents++
		s.logger.InfoContext(ctx, "created document", "name", d.Name, "id", created.ID, "jobs", len(jobs))
	}
	return nil
}

func (s seeder) lookupID(ctx context.Context, query string, args ...any) (int64, bool, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, s.dialect.Rebind(query), args...).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

func (s seeder) exists(ctx context.Context, query string, args ...any) (bool, error) {
	_, found, err := s.lookupID(ctx, query, args...)
	return found, err
}

func (s seeder) insertID(ctx context.Context, query string, args ...any) (int64, error) {
	var id int64
	if err := s.db.QueryRowContext(ctx, s.dialect.Rebind(query), args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}
