package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/target/doctrack-api/config"
	amqpadapter "github.com/target/doctrack-api/internal/adapters/amqp"
	"github.com/target/doctrack-api/internal/core"
	"github.com/target/doctrack-api/internal/data"
	"github.com/target/doctrack-api/internal/data/database"
	"github.com/target/doctrack-api/internal/observability/statsd"
	"github.com/target/doctrack-api/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Auth          *service.AuthService
	Documents     *service.DocumentService
	Jobs          *service.JobService
	JobCache      *core.JobCatalogCache
	Observability ObservabilityContainer
}

// ObservabilityContainer groups shared observability dependencies.
type ObservabilityContainer struct {
	MetricsSink   *statsd.Client
	MetricsConfig config.ObservabilityMetricsConfig
}

// Close releases observability resources.
func (o ObservabilityContainer) Close() error {
	if o.MetricsSink == nil {
		return nil
	}
	return o.MetricsSink.Close()
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	Dialect     database.Dialect
	RedisClient redis.UniversalClient  // Optional: enables the job catalog cache
	Events      *amqpadapter.Publisher // Optional: enables document lifecycle events
	Logger      *slog.Logger
}

// serviceRepositories groups data adapters backing service ports.
type serviceRepositories struct {
	Users     *data.UserRepo
	Jobs      *data.JobRepo
	Documents *data.DocumentRepo
	Cache     *data.RedisCacheRepo
}

// buildObservability configures the statsd sink. A sink that cannot be dialed is
// logged and left disabled so metrics never block startup.
func buildObservability(logger *slog.Logger, cfg config.ObservabilityConfig) ObservabilityContainer {
	obsLogger := logger
	if obsLogger == nil {
		obsLogger = slog.Default()
	}

	var metricsSink *statsd.Client
	if cfg.Metrics.IsEnabled() {
		client, err := statsd.NewClient(statsd.Config{
			Enabled: true,
			Address: cfg.Metrics.StatsdAddress,
			Prefix:  cfg.Metrics.Prefix,
			Logger:  obsLogger,
		})
		if err != nil {
			obsLogger.Error("failed to initialise statsd client", "error", err)
		} else {
			metricsSink = client
		}
	}

	return ObservabilityContainer{
		MetricsSink:   metricsSink,
		MetricsConfig: cfg.Metrics,
	}
}

// buildRepositories builds repositories backing service ports; no business rules here.
func buildRepositories(db *sql.DB, dialect database.Dialect, rdb redis.UniversalClient) *serviceRepositories {
	repos := &serviceRepositories{
		Users:     data.NewUserRepo(db, dialect),
		Jobs:      data.NewJobRepo(db, dialect),
		Documents: data.NewDocumentRepo(db, dialect),
	}
	if rdb != nil {
		repos.Cache = data.NewRedisCacheRepo(rdb)
	}
	return repos
}

func newJobCatalogCache(repos *serviceRepositories, cfg config.CacheConfig) *core.JobCatalogCache {
	if repos.Cache == nil {
		return nil
	}
	cacheCfg := core.DefaultJobCatalogCacheConfig()
	if cfg.JobsTTL > 0 {
		cacheCfg.TTL = cfg.JobsTTL
	}
	if cfg.KeyPrefix != "" {
		cacheCfg.KeyPrefix = cfg.KeyPrefix
	}
	return core.NewJobCatalogCache(repos.Cache, cacheCfg)
}

// NewServices wires the domain services from repositories and optional adapters.
func NewServices(deps *ServiceDeps) ServiceContainer {
	if deps == nil {
		return ServiceContainer{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	appCfg := deps.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	observability := buildObservability(logger, appCfg.Observability)
	repos := buildRepositories(deps.DB, deps.Dialect, deps.RedisClient)
	jobCache := newJobCatalogCache(repos, appCfg.Cache)

	jobOpts := service.JobServiceOptions{
		Repo:   repos.Jobs,
		Cache:  jobCache,
		Logger: logger,
	}
	docOpts := service.DocumentServiceOptions{
		Repo:   repos.Documents,
		Logger: logger,
	}
	if observability.MetricsSink != nil {
		jobOpts.Metrics = observability.MetricsSink
		docOpts.Metrics = observability.MetricsSink
	}
	if deps.Events != nil {
		docOpts.Events = deps.Events
	}

	return ServiceContainer{
		Auth: service.MustNewAuthService(service.AuthServiceOptions{
			Users:  repos.Users,
			Jobs:   repos.Jobs,
			Logger: logger,
		}),
		Documents:     service.MustNewDocumentService(docOpts),
		Jobs:          service.MustNewJobService(jobOpts),
		JobCache:      jobCache,
		Observability: observability,
	}
}

// ServiceOrchestrationConfig contains configuration for service orchestration.
type ServiceOrchestrationConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	DB       *sql.DB
	Logger   *slog.Logger
	// Signals overrides the OS signals that trigger shutdown (tests).
	Signals []os.Signal
}

// RunServicesWithShutdown serves HTTP until ctx is canceled, a shutdown signal
// arrives, or the server fails, then drains in-flight requests.
func RunServicesWithShutdown(ctx context.Context, cfg *ServiceOrchestrationConfig) error {
	if cfg == nil {
		return errors.New("service orchestration config is required")
	}
	if cfg.Config == nil {
		return errors.New("service orchestration config missing AppConfig")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var health func(context.Context) error
	if cfg.DB != nil {
		health = cfg.DB.PingContext
	}

	server, errCh, err := StartHTTPServer(&HTTPServerConfig{
		Config:      cfg.Config,
		Services:    cfg.Services,
		HealthCheck: health,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("start http server: %w", err)
	}

	runErr := waitForShutdown(ctx, logger, errCh, cfg.Signals)

	if shutdownErr := ShutdownHTTPServer(ShutdownConfig{Context: ctx, Server: server, Logger: logger}); shutdownErr != nil {
		runErr = errors.Join(runErr, fmt.Errorf("shutdown http server: %w", shutdownErr))
	}
	return runErr
}

// waitForShutdown blocks until a signal, context cancellation, or server failure.
func waitForShutdown(ctx context.Context, logger *slog.Logger, errCh <-chan error, signals []os.Signal) error {
	if len(signals) == 0 {
		signals = []os.Signal{syscall.SIGINT, syscall.SIGTERM}
	}
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, signals...)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		logger.Info("shutdown signal received", "signal", sig.String())
		return nil
	case <-ctx.Done():
		logger.Info("context canceled, shutting down")
		return nil
	case err, ok := <-errCh:
		if !ok || err == nil {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	}
}
