package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/target/doctrack-api/internal/core"
	"github.com/target/doctrack-api/internal/domain/model"
	"github.com/target/doctrack-api/internal/observability/metrics"
	"github.com/target/doctrack-api/internal/observability/statsd"
)

const catalogLoadTimeout = 10 * time.Second

// JobServiceOptions groups dependencies for JobService.
type JobServiceOptions struct {
	Repo   core.JobRepository    // Required
	Cache  *core.JobCatalogCache // Optional: read-through cache for List
	Logger *slog.Logger          // Optional
	// Metrics receives cache hit/miss counts (optional).
	Metrics statsd.Sink
}

// JobService serves the job catalog.
type JobService struct {
	repo    core.JobRepository
	cache   *core.JobCatalogCache
	logger  *slog.Logger
	metrics statsd.Sink
	group   singleflight.Group
}

// NewJobService constructs a new JobService.
func NewJobService(opts JobServiceOptions) (*JobService, error) {
	if opts.Repo == nil {
		return nil, errors.New("JobRepository is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &JobService{
		repo:    opts.Repo,
		cache:   opts.Cache,
		logger:  logger.With("component", "job_service"),
		metrics: opts.Metrics,
	}, nil
}

// MustNewJobService constructs a JobService and panics on invalid options.
func MustNewJobService(opts JobServiceOptions) *JobService {
	svc, err := NewJobService(opts)
	if err != nil {
		//nolint:forbidigo // Must constructor fails fast when dependencies are invalid during startup
		panic(fmt.Sprintf("failed to create JobService: %v", err))
	}
	return svc
}

// List returns every job. With a cache configured, hits are served from the cache and
// concurrent misses share one database read. Cache failures fall back to the database.
func (s *JobService) List(ctx context.Context) ([]*model.Job, error) {
	if s.cache == nil {
		return s.repo.List(ctx)
	}

	jobs, hit, err := s.cache.Get(ctx)
	metrics.EmitCacheLookup(s.metrics, hit, err)
	if err != nil {
		s.logger.WarnContext(ctx, "job catalog cache read failed", "error", err)
	}
	if hit {
		return jobs, nil
	}

	ch := s.group.DoChan(s.cache.Key(), func() (any, error) {
		// The shared load outlives any single caller; each caller stops waiting on its own ctx.
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), catalogLoadTimeout)
		defer cancel()

		fresh, listErr := s.repo.List(loadCtx)
		if listErr != nil {
			return nil, listErr
		}
		if storeErr := s.cache.Store(loadCtx, fresh); storeErr != nil {
			s.logger.WarnContext(loadCtx, "job catalog cache write failed", "error", storeErr)
		}
		return fresh, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]*model.Job), nil
	}
}

// InvalidateCache drops the cached catalog. It is a no-op without a cache.
func (s *JobService) InvalidateCache(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Invalidate(ctx)
}
