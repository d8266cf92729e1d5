package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/redis/go-redis/v9"

	"github.com/target/doctrack-api/config"
	amqpadapter "github.com/target/doctrack-api/internal/adapters/amqp"
	"github.com/target/doctrack-api/internal/bootstrap"
	"github.com/target/doctrack-api/internal/data/database"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger()
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}
	cfgPtr := &cfg
	logger = bootstrap.ConfigureLogger(cfgPtr)

	logStartupInfo(ctx, logger, cfgPtr)

	infra, err := initInfrastructure(ctx, cfgPtr, logger)
	if err != nil {
		return err
	}
	defer infra.close(ctx, logger)

	if cfg.DB.ProvisionSchema {
		if err = bootstrap.ProvisionSchema(ctx, infra.db, infra.dialect, logger); err != nil {
			return err
		}
	} else {
		logger.InfoContext(ctx, "skipping schema provisioning on startup", "reason", "disabled via config")
	}

	services := bootstrap.NewServices(&bootstrap.ServiceDeps{
		Config:      cfgPtr,
		DB:          infra.db,
		Dialect:     infra.dialect,
		RedisClient: infra.redis,
		Events:      infra.events,
		Logger:      logger,
	})
	defer func() {
		if cerr := services.Observability.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close metrics sink failed", "error", cerr)
		}
	}()

	return bootstrap.RunServicesWithShutdown(ctx, &bootstrap.ServiceOrchestrationConfig{
		Config:   cfgPtr,
		Services: services,
		DB:       infra.db,
		Logger:   logger,
	})
}

func logStartupInfo(ctx context.Context, logger *slog.Logger, cfg *config.AppConfig) {
	logger.InfoContext(ctx, "starting doctrack service",
		"addr", cfg.HTTP.Addr,
		"db_driver", cfg.DB.Driver,
		"redis_enabled", cfg.Redis.Enabled,
		"events_enabled", cfg.Events.Enabled,
		"metrics_enabled", cfg.Observability.Metrics.IsEnabled(),
		"dev", cfg.IsDev)
}

// infrastructure holds the shared connections used by the service runtime.
type infrastructure struct {
	db      *sql.DB
	dialect database.Dialect
	redis   redis.UniversalClient
	events  *amqpadapter.Publisher
}

func (i *infrastructure) close(ctx context.Context, logger *slog.Logger) {
	if i.events != nil {
		if err := i.events.Close(); err != nil {
			logger.ErrorContext(ctx, "close events publisher failed", "error", err)
		}
	}
	if i.redis != nil {
		if err := i.redis.Close(); err != nil {
			logger.ErrorContext(ctx, "close redis failed", "error", err)
		}
	}
	if i.db != nil {
		if err := i.db.Close(); err != nil {
			logger.ErrorContext(ctx, "close database failed", "error", err)
		}
	}
}

// initInfrastructure connects the database and the optional Redis and RabbitMQ
// dependencies. Anything already opened is closed when a later step fails.
func initInfrastructure(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) (*infrastructure, error) {
	dbCfg := bootstrap.DatabaseConfig{
		DBConfig:    cfg.DB,
		RedisConfig: cfg.Redis,
		Logger:      logger,
	}

	db, dialect, err := bootstrap.ConnectDB(dbCfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}
	infra := &infrastructure{db: db, dialect: dialect}

	if cfg.Redis.Enabled {
		infra.redis, err = bootstrap.ConnectRedis(dbCfg)
		if err != nil {
			return nil, closeOnError(ctx, infra, logger, fmt.Errorf("connect redis: %w", err))
		}
	}

	infra.events, err = bootstrap.ConnectEvents(cfg.Events, logger)
	if err != nil {
		return nil, closeOnError(ctx, infra, logger, err)
	}

	return infra, nil
}

func closeOnError(ctx context.Context, infra *infrastructure, logger *slog.Logger, err error) error {
	var closeErr error
	if infra.redis != nil {
		closeErr = errors.Join(closeErr, infra.redis.Close())
	}
	if cerr := infra.db.Close(); cerr != nil {
		closeErr = errors.Join(closeErr, fmt.Errorf("close database: %w", cerr))
	}
	if closeErr != nil {
		logger.ErrorContext(ctx, "cleanup after startup failure", "error", closeErr)
		return errors.Join(err, closeErr)
	}
	return err
}
