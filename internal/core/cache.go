// Package core defines the ports between services and adapters, and cache orchestration shared by services.
package core

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/target/doctrack-api/internal/domain/model"
)

// CacheRepository defines the interface for caching operations.
// The core defines the interface and the data layer provides implementations.
type CacheRepository interface {
	// Set stores a value in the cache with the given key and TTL.
	// If TTL is 0, the key will not expire.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Get retrieves a value from the cache by key.
	// Returns nil if the key doesn't exist or has expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes a key from the cache.
	// Returns true if the key was deleted, false if it didn't exist.
	Delete(ctx context.Context, key string) (bool, error)

	// Exists checks if a key exists in the cache.
	Exists(ctx context.Context, key string) (bool, error)

	// Health checks the health of the cache connection.
	Health(ctx context.Context) error
}

// JobCatalogCache stores the serialized job catalog in a CacheRepository.
type JobCatalogCache struct {
	cache  CacheRepository
	ttl    time.Duration
	prefix string
}

// JobCatalogCacheConfig holds configuration for job catalog caching.
type JobCatalogCacheConfig struct {
	TTL       time.Duration `json:"ttl"`
	KeyPrefix string        `json:"key_prefix"`
}

// DefaultJobCatalogCacheConfig returns a JobCatalogCacheConfig with sensible defaults.
func DefaultJobCatalogCacheConfig() JobCatalogCacheConfig {
	return JobCatalogCacheConfig{
		TTL:       5 * time.Minute,
		KeyPrefix: "doctrack:",
	}
}

// NewJobCatalogCache creates a new JobCatalogCache.
func NewJobCatalogCache(cache CacheRepository, cfg JobCatalogCacheConfig) *JobCatalogCache {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultJobCatalogCacheConfig().TTL
	}
	return &JobCatalogCache{cache: cache, ttl: cfg.TTL, prefix: cfg.KeyPrefix}
}

// Get returns the cached catalog. The bool is false on a miss.
func (c *JobCatalogCache) Get(ctx context.Context) ([]*model.Job, bool, error) {
	raw, err := c.cache.Get(ctx, c.Key())
	if err != nil {
		return nil, false, err
	}
	if raw == nil {
		return nil, false, nil
	}

	var jobs []*model.Job
	if err := json.Unmarshal(raw, &jobs); err != nil {
		// A corrupt entry is treated as a miss; the next Store overwrites it.
		return nil, false, nil //nolint:nilerr // corrupt cache entries are not fatal
	}
	return jobs, true, nil
}

// Store writes the catalog with the configured TTL.
func (c *JobCatalogCache) Store(ctx context.Context, jobs []*model.Job) error {
	if jobs == nil {
		jobs = []*model.Job{}
	}
	b, err := json.Marshal(jobs)
	if err != nil {
		return fmt.Errorf("marshal job catalog: %w", err)
	}
	return c.cache.Set(ctx, c.Key(), b, c.ttl)
}

// Invalidate removes the cached catalog. It should be called after jobs change.
func (c *JobCatalogCache) Invalidate(ctx context.Context) error {
	_, err := c.cache.Delete(ctx, c.Key())
	return err
}

// Key returns the cache key holding the catalog.
func (c *JobCatalogCache) Key() string {
	return c.prefix + "jobs:catalog"
}
