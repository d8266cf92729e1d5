package main

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/target/doctrack-api/config"
	"github.com/target/doctrack-api/internal/bootstrap"
	"github.com/target/doctrack-api/internal/core"
	"github.com/target/doctrack-api/internal/data"
	"github.com/target/doctrack-api/internal/data/database"
	"github.com/target/doctrack-api/internal/devseed"
	"github.com/target/doctrack-api/internal/schema"
)

type commandFn func(ctx *commandContext, args []string) error

type command struct {
	name        string
	description string
	run         commandFn
}

type commandContext struct {
	Ctx    context.Context
	Logger *slog.Logger
	Config config.AppConfig
	Out    io.Writer
	In     io.Reader
}

const defaultCommandTimeout = 5 * time.Minute

func main() {
	logger := bootstrap.InitLogger()

	if len(os.Args) < 2 {
		if err := printUsage(os.Stdout); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when no command is provided
	}

	cmdName := os.Args[1]
	cmd, ok := commands()[cmdName]
	if !ok {
		if err := writef(os.Stderr, "unknown command %q\n\n", cmdName); err != nil {
			logger.Error("print unknown command message failed", "error", err)
		}
		if err := printUsage(os.Stderr); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when command is unknown
	}

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		logger.ErrorContext(context.Background(), "load config", "error", err)
		os.Exit(1) //nolint:forbidigo // CLI must signal configuration load failure to shell scripts
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmdCtx := &commandContext{
		Ctx:    ctx,
		Logger: logger,
		Config: cfg,
		Out:    os.Stdout,
		In:     os.Stdin,
	}
	if runErr := cmd.run(cmdCtx, os.Args[2:]); runErr != nil {
		logger.ErrorContext(cmdCtx.Ctx, "command failed", "command", cmdName, "error", runErr)
		stop()
		os.Exit(1) //nolint:forbidigo // CLI must propagate command execution failure to callers
	}
}

func commands() map[string]command {
	return map[string]command{
		"schema": {
			name:        "schema",
			description: "Create any missing tables and indexes",
			run:         runSchema,
		},
		"seed": {
			name:        "seed",
			description: "Provision the schema and load development data",
			run:         runSeed,
		},
		"cache-clear": {
			name:        "cache-clear",
			description: "Remove the cached job catalog from Redis",
			run:         runCacheClear,
		},
		"list-jobs": {
			name:        "list-jobs",
			description: "List jobs, optionally only those assigned to a user",
			run:         runListJobs,
		},
	}
}

func printUsage(w io.Writer) error {
	if err := writef(w, "Usage: doctrack-admin <command> [flags]\n\n"); err != nil {
		return err
	}
	if err := writef(w, "Available commands:\n"); err != nil {
		return err
	}
	cmds := commands()
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := writef(w, "  %-14s %s\n", name, cmds[name].description); err != nil {
			return err
		}
	}
	return nil
}

type schemaOptions struct {
	Timeout time.Duration
}

type seedOptions struct {
	Timeout     time.Duration
	Reset       bool
	Yes         bool
	AllowRemote bool
}

type cacheClearOptions struct {
	DryRun bool
}

type listJobsOptions struct {
	UserID int64
	JSON   bool
}

func runSchema(cmdCtx *commandContext, args []string) error {
	opts, err := parseSchemaFlags(args)
	if err != nil {
		return err
	}

	return withDatabase(cmdCtx, opts.Timeout, func(ctx context.Context, db *sql.DB, dialect database.Dialect) error {
		if provisionErr := bootstrap.ProvisionSchema(ctx, db, dialect, cmdCtx.Logger); provisionErr != nil {
			return provisionErr
		}
		return writef(cmdCtx.Out, "schema provisioned (%s)\n", dialect)
	})
}

func runSeed(cmdCtx *commandContext, args []string) error {
	opts, err := parseSeedFlags(args)
	if err != nil {
		return err
	}

	if _, guardErr := guardRemoteHost(cmdCtx, opts.AllowRemote, "seed development data on the configured database"); guardErr != nil {
		return guardErr
	}
	if opts.Reset {
		if confirmErr := confirmAction(cmdCtx, opts.Yes, "delete every row in "+describeTarget(cmdCtx.Config.DB)); confirmErr != nil {
			return confirmErr
		}
	}

	return withDatabase(cmdCtx, opts.Timeout, func(ctx context.Context, db *sql.DB, dialect database.Dialect) error {
		if provisionErr := bootstrap.ProvisionSchema(ctx, db, dialect, cmdCtx.Logger); provisionErr != nil {
			return provisionErr
		}
		if opts.Reset {
			cmdCtx.Logger.InfoContext(ctx, "truncating tables before seeding")
			if truncErr := schema.Truncate(ctx, db); truncErr != nil {
				return truncErr
			}
		}

		cache, closeCache := optionalJobCache(cmdCtx)
		defer closeCache()

		sum, seedErr := devseed.Run(ctx, devseed.Options{
			DB:      db,
			Dialect: dialect,
			Cache:   cache,
			Logger:  cmdCtx.Logger,
		})
		if seedErr != nil {
			return fmt.Errorf("seed data: %w", seedErr)
		}
		return writef(cmdCtx.Out, "seeded users=%d jobs=%d assignments=%d documents=%d\n",
			sum.Users, sum.Jobs, sum.Links, sum.Documents)
	})
}

func runCacheClear(cmdCtx *commandContext, args []string) error {
	opts, err := parseCacheClearFlags(args)
	if err != nil {
		return err
	}

	client, err := maybeConnectRedis(cmdCtx.Logger, &cmdCtx.Config.Redis)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := client.Close(); closeErr != nil {
			cmdCtx.Logger.Warn("redis close failed", "error", closeErr)
		}
	}()

	cache := newJobCache(data.NewRedisCacheRepo(client), cmdCtx.Config.Cache)
	if opts.DryRun {
		present, existsErr := data.NewRedisCacheRepo(client).Exists(cmdCtx.Ctx, cache.Key())
		if existsErr != nil {
			return fmt.Errorf("check cache key: %w", existsErr)
		}
		return writef(cmdCtx.Out, "dry run: %s present=%t\n", cache.Key(), present)
	}

	if invErr := cache.Invalidate(cmdCtx.Ctx); invErr != nil {
		return fmt.Errorf("clear job catalog cache: %w", invErr)
	}
	return writef(cmdCtx.Out, "cleared %s\n", cache.Key())
}

func runListJobs(cmdCtx *commandContext, args []string) error {
	opts, err := parseListJobsFlags(args)
	if err != nil {
		return err
	}

	return withDatabase(cmdCtx, defaultCommandTimeout, func(ctx context.Context, db *sql.DB, dialect database.Dialect) error {
		repo := data.NewJobRepo(db, dialect)

		var (
			jobs    []*jobRow
			listErr error
		)
		if opts.UserID > 0 {
			jobs, listErr = toRows(repo.ListByUser(ctx, opts.UserID))
		} else {
			jobs, listErr = toRows(repo.List(ctx))
		}
		if listErr != nil {
			return listErr
		}

		if opts.JSON {
			enc := json.NewEncoder(cmdCtx.Out)
			enc.SetIndent("", "  ")
			return enc.Encode(jobs)
		}
		return printJobs(cmdCtx.Out, jobs)
	})
}

func parseSchemaFlags(args []string) (schemaOptions, error) {
	fs := flag.NewFlagSet("schema", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := schemaOptions{Timeout: defaultCommandTimeout}
	fs.DurationVar(&opts.Timeout, "timeout", defaultCommandTimeout, "Maximum duration to wait for provisioning to complete")

	if err := fs.Parse(args); err != nil {
		return schemaOptions{}, err
	}
	if opts.Timeout <= 0 {
		return schemaOptions{}, errors.New("--timeout must be greater than zero")
	}
	return opts, nil
}

func parseSeedFlags(args []string) (seedOptions, error) {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := seedOptions{Timeout: defaultCommandTimeout}
	fs.DurationVar(&opts.Timeout, "timeout", defaultCommandTimeout, "Maximum duration to wait for seeding to complete")
	fs.BoolVar(&opts.Reset, "reset", false, "Delete all rows before seeding")
	fs.BoolVar(&opts.Yes, "yes", false, "Skip confirmation prompt")
	fs.BoolVar(
		&opts.AllowRemote,
		"allow-remote",
		false,
		"Permit running against database hosts that do not look local",
	)

	if err := fs.Parse(args); err != nil {
		return seedOptions{}, err
	}
	if opts.Timeout <= 0 {
		return seedOptions{}, errors.New("--timeout must be greater than zero")
	}
	return opts, nil
}

func parseCacheClearFlags(args []string) (cacheClearOptions, error) {
	fs := flag.NewFlagSet("cache-clear", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts cacheClearOptions
	fs.BoolVar(&opts.DryRun, "dry-run", false, "Report whether the key exists without deleting it")

	if err := fs.Parse(args); err != nil {
		return cacheClearOptions{}, err
	}
	return opts, nil
}

func parseListJobsFlags(args []string) (listJobsOptions, error) {
	fs := flag.NewFlagSet("list-jobs", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts listJobsOptions
	fs.Int64Var(&opts.UserID, "user", 0, "Only list jobs assigned to this user id")
	fs.BoolVar(&opts.JSON, "json", false, "Print JSON instead of a table")

	if err := fs.Parse(args); err != nil {
		return listJobsOptions{}, err
	}
	if opts.UserID < 0 {
		return listJobsOptions{}, errors.New("--user must be a positive id")
	}
	return opts, nil
}

// guardRemoteHost refuses destructive commands against a Postgres host that does not look local
// unless --allow-remote is set. SQLite files are always local.
func guardRemoteHost(cmdCtx *commandContext, allow bool, action string) (bool, error) {
	dbCfg := cmdCtx.Config.DB
	if dbCfg.Driver != config.DriverPostgres {
		return false, nil
	}
	remote := isLikelyRemoteHost(dbCfg.Host)
	if !remote {
		return false, nil
	}
	if !allow {
		return true, fmt.Errorf(
			"refusing to %s: potentially remote database host %q; re-run with --allow-remote if this is intentional",
			action,
			dbCfg.Host,
		)
	}
	cmdCtx.Logger.Warn("running against remote database host", "host", dbCfg.Host, "action", action)
	return true, nil
}

func isLikelyRemoteHost(host string) bool {
	h := strings.ToLower(strings.TrimSpace(host))
	if h == "" {
		return false
	}
	if h == "localhost" || h == "127.0.0.1" || h == "::1" {
		return false
	}
	if strings.HasSuffix(h, ".local") {
		return false
	}
	if ip := net.ParseIP(h); ip != nil {
		return !ip.IsLoopback()
	}
	return true
}

func describeTarget(cfg config.DBConfig) string {
	if cfg.Driver == config.DriverPostgres {
		return fmt.Sprintf("database %q on %s:%d", cfg.Name, cfg.Host, cfg.Port)
	}
	return fmt.Sprintf("sqlite database %s", cfg.Path)
}

func confirmAction(cmdCtx *commandContext, yes bool, action string) error {
	if yes {
		return nil
	}
	if err := writef(cmdCtx.Out, "This will %s.\nContinue? [y/N]: ", action); err != nil {
		return fmt.Errorf("print confirmation prompt: %w", err)
	}
	resp, err := bufio.NewReader(cmdCtx.In).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read confirmation: %w", err)
	}
	resp = strings.ToLower(strings.TrimSpace(resp))
	if resp == "y" || resp == "yes" {
		return nil
	}
	return errors.New("aborted by user")
}

type jobRow struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

func printJobs(w io.Writer, jobs []*jobRow) error {
	if len(jobs) == 0 {
		return writef(w, "No jobs found\n")
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if err := writef(tw, "ID\tTITLE\tDESCRIPTION\n"); err != nil {
		return err
	}
	for _, j := range jobs {
		if err := writef(tw, "%d\t%s\t%s\n", j.ID, j.Title, j.Description); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

// newJobCache mirrors the catalog cache configuration used by the API server so
// both resolve the same key.
func newJobCache(repo core.CacheRepository, cfg config.CacheConfig) *core.JobCatalogCache {
	cacheCfg := core.DefaultJobCatalogCacheConfig()
	if cfg.JobsTTL > 0 {
		cacheCfg.TTL = cfg.JobsTTL
	}
	if cfg.KeyPrefix != "" {
		cacheCfg.KeyPrefix = cfg.KeyPrefix
	}
	return core.NewJobCatalogCache(repo, cacheCfg)
}
