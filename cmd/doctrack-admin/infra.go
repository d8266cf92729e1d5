package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/target/doctrack-api/config"
	"github.com/target/doctrack-api/internal/bootstrap"
	"github.com/target/doctrack-api/internal/core"
	"github.com/target/doctrack-api/internal/data"
	"github.com/target/doctrack-api/internal/data/database"
	"github.com/target/doctrack-api/internal/domain/model"
)

var errRedisNotConfigured = errors.New("redis not configured")

// withDatabase connects, runs fn under a timeout, and closes the connection.
func withDatabase(
	cmdCtx *commandContext,
	timeout time.Duration,
	fn func(ctx context.Context, db *sql.DB, dialect database.Dialect) error,
) error {
	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, timeout)
	defer cancel()

	db, dialect, err := bootstrap.ConnectDB(bootstrap.DatabaseConfig{
		DBConfig: cmdCtx.Config.DB,
		Logger:   cmdCtx.Logger,
	})
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			cmdCtx.Logger.Warn("db close failed", "error", closeErr)
		}
	}()

	return fn(ctx, db, dialect)
}

// maybeConnectRedis returns a connected client when configuration is present.
//
//nolint:ireturn // returning redis.UniversalClient keeps sentinel/cluster support flexible.
func maybeConnectRedis(logger *slog.Logger, cfg *config.RedisConfig) (redis.UniversalClient, error) {
	if !hasRedisConfig(cfg) {
		return nil, errRedisNotConfigured
	}
	client, err := bootstrap.ConnectRedis(bootstrap.DatabaseConfig{RedisConfig: *cfg, Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return client, nil
}

func hasRedisConfig(cfg *config.RedisConfig) bool {
	if cfg == nil || !cfg.Enabled {
		return false
	}
	if cfg.UseCluster {
		return len(cfg.ClusterNodes) > 0 || cfg.URI != ""
	}
	if cfg.UseSentinel {
		return len(cfg.SentinelNodes) > 0
	}
	return cfg.URI != ""
}

// optionalJobCache connects to Redis when it is configured so seeding can invalidate
// the job catalog. Connection failures are logged and seeding continues without it.
func optionalJobCache(cmdCtx *commandContext) (*core.JobCatalogCache, func()) {
	client, err := maybeConnectRedis(cmdCtx.Logger, &cmdCtx.Config.Redis)
	if err != nil {
		if !errors.Is(err, errRedisNotConfigured) {
			cmdCtx.Logger.Warn("job catalog cache unavailable; skipping invalidation", "error", err)
		}
		return nil, func() {}
	}
	closeFn := func() {
		if closeErr := client.Close(); closeErr != nil {
			cmdCtx.Logger.Warn("redis close failed", "error", closeErr)
		}
	}
	return newJobCache(data.NewRedisCacheRepo(client), cmdCtx.Config.Cache), closeFn
}

func toRows(jobs []*model.Job, err error) ([]*jobRow, error) {
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	rows := make([]*jobRow, 0, len(jobs))
	for _, j := range jobs {
		rows = append(rows, &jobRow{ID: j.ID, Title: j.Title, Description: j.Description})
	}
	return rows, nil
}
