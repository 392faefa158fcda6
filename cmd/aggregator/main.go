// Package main is the entry point of the rating aggregator.
//
// One invocation is one run: it loads the roster, executes the requested
// mode (a single platform's collection, all platforms, the username
// verifier, or the artifact check), writes the rating log files, and
// exits. The downstream leaderboard tooling picks the artifacts up from
// the log directory.
//
// Usage:
//
//	aggregator <codechef|codeforces|leetcode|gfg|hackerrank|all|build-leaderboard|verify>
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/coderank-hub/coderank/config"
	"github.com/coderank-hub/coderank/internal/infrastructure/external/codechef"
	"github.com/coderank-hub/coderank/internal/infrastructure/external/codeforces"
	"github.com/coderank-hub/coderank/internal/infrastructure/external/geeksforgeeks"
	"github.com/coderank-hub/coderank/internal/infrastructure/external/hackerrank"
	"github.com/coderank-hub/coderank/internal/infrastructure/external/httpapi"
	"github.com/coderank-hub/coderank/internal/infrastructure/external/leetcode"
	"github.com/coderank-hub/coderank/internal/infrastructure/persistence/postgres"
	"github.com/coderank-hub/coderank/internal/infrastructure/persistence/redis"
	"github.com/coderank-hub/coderank/internal/roster"
	"github.com/coderank-hub/coderank/internal/runner"
	"github.com/coderank-hub/coderank/internal/scrape"
	"github.com/coderank-hub/coderank/internal/verify"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. CONFIGURATION
	// ─────────────────────────────────────────────────────────────────────────
	// .env is a development convenience; its absence is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if len(args) == 0 {
		return fmt.Errorf("usage: aggregator <mode>")
	}
	mode, err := runner.ParseMode(args[0])
	if err != nil {
		return err
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. LOGGING
	// ─────────────────────────────────────────────────────────────────────────
	log := setupLogger(cfg)
	log.Info("starting rating aggregator",
		"env", string(cfg.App.Environment),
		"version", cfg.App.Version,
		"mode", string(mode),
	)

	// build-leaderboard only reads the artifact files; it needs neither
	// the roster store nor the platform clients.
	if mode == runner.ModeBuildLeaderboard {
		driver := runner.New(nil, nil, nil, nil, cfg.Scrape.LogDir, log)
		return driver.Run(ctx, mode)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 3. DATABASE (roster store)
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("connecting to database...")
	dbConn, err := postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer dbConn.Close()

	migrator := postgres.NewMigrator(dbConn)
	if err := migrator.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	health, err := dbConn.Health(ctx)
	if err != nil {
		return fmt.Errorf("database health check: %w", err)
	}
	if !health.Healthy {
		return fmt.Errorf("database unhealthy: %s", health.Error)
	}
	log.Info("database schema is up to date",
		"ping", health.PingLatency.String(),
		"pool_conns", health.TotalConns,
	)

	rosterRepo := postgres.NewRosterRepository(dbConn)

	// ─────────────────────────────────────────────────────────────────────────
	// 4. ROSTER LOAD
	// ─────────────────────────────────────────────────────────────────────────
	// A malformed roster row aborts here, before any collector runs.
	if _, err := os.Stat(cfg.Roster.CSVPath); err == nil {
		loader := roster.NewLoader(rosterRepo, log)
		if _, err := loader.LoadAndStore(ctx, cfg.Roster.CSVPath); err != nil {
			return err
		}
	} else {
		log.Warn("roster CSV not found, using stored roster", "path", cfg.Roster.CSVPath)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. REDIS (optional snapshot cache)
	// ─────────────────────────────────────────────────────────────────────────
	var snapshots runner.SnapshotPublisher
	if cfg.Redis.Enabled {
		log.Info("connecting to Redis...")
		redisCfg := redis.DefaultConfig()
		redisCfg.Host = cfg.Redis.Host
		redisCfg.Port = cfg.Redis.Port
		redisCfg.Password = cfg.Redis.Password
		redisCfg.DB = cfg.Redis.DB
		redisCfg.PoolSize = cfg.Redis.PoolSize
		redisCfg.MinIdleConns = cfg.Redis.MinIdleConns
		redisCfg.DialTimeout = cfg.Redis.DialTimeout
		redisCfg.ReadTimeout = cfg.Redis.ReadTimeout
		redisCfg.WriteTimeout = cfg.Redis.WriteTimeout

		cache, err := redis.NewCache(redisCfg)
		if err != nil {
			log.Warn("failed to connect to Redis, snapshot publishing disabled", "error", err)
		} else {
			defer cache.Close()
			snapshots = redis.NewSnapshotCacheWithTTL(cache, cfg.Redis.SnapshotTTL)
			log.Info("Redis connection established")
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 6. PLATFORM CLIENTS AND COLLECTORS
	// ─────────────────────────────────────────────────────────────────────────
	httpClient := httpapi.NewClient(clientConfig(cfg, log, true))

	collectors := []scrape.Collector{
		scrape.NewCodeChef(
			codechef.NewClient(cfg.Platforms.CodeChefBaseURL, httpClient),
			cfg.Scrape.LogDir, log),
		scrape.NewCodeforces(
			codeforces.NewClient(cfg.Platforms.CodeforcesBaseURL, httpClient),
			cfg.Scrape.ChunkSize, cfg.Scrape.LogDir, log),
		scrape.NewLeetCode(
			leetcode.NewClient(cfg.Platforms.LeetCodeBaseURL, httpClient),
			cfg.Scrape.LogDir, log),
		scrape.NewGeeksforGeeks(
			geeksforgeeks.NewClient(cfg.Platforms.GfgContestBaseURL, cfg.Platforms.GfgPracticeBaseURL, httpClient),
			cfg.Scrape.PageCeiling, cfg.Scrape.LogDir, log),
		scrape.NewHackerRank(
			hackerrank.NewClient(cfg.Platforms.HackerRankBaseURL, httpClient),
			cfg.Scrape.Contests, cfg.Scrape.PageLimit, cfg.Scrape.OffsetCeiling,
			cfg.Scrape.LogDir, log),
	}

	// The verifier needs redirects surfaced, not followed.
	verifyCfg := verify.DefaultConfig()
	verifyCfg.LogDir = cfg.Scrape.LogDir
	verifyCfg.Logger = log
	verifier := verify.New(rosterRepo, httpapi.NewClient(clientConfig(cfg, log, false)), verifyCfg)

	// ─────────────────────────────────────────────────────────────────────────
	// 7. RUN
	// ─────────────────────────────────────────────────────────────────────────
	driver := runner.New(rosterRepo, collectors, snapshots, verifier, cfg.Scrape.LogDir, log)
	return driver.Run(ctx, mode)
}

// clientConfig maps the HTTP section of the config onto a platform client.
func clientConfig(cfg *config.Config, log *slog.Logger, followRedirects bool) httpapi.ClientConfig {
	c := httpapi.DefaultClientConfig()
	c.Timeout = cfg.HTTP.RequestTimeout
	c.FollowRedirects = followRedirects
	c.MaxRetries = cfg.HTTP.MaxRetries
	c.RetryBaseDelay = cfg.HTTP.RetryBaseDelay
	c.RateLimiterConfig.RequestsPerSecond = cfg.HTTP.RequestsPerSecond
	c.RateLimiterConfig.BurstSize = cfg.HTTP.BurstSize
	c.RateLimiterConfig.MinInterval = cfg.HTTP.MinInterval
	c.CircuitBreakerConfig.FailureThreshold = cfg.HTTP.CircuitBreakerThreshold
	c.CircuitBreakerConfig.Timeout = cfg.HTTP.CircuitBreakerTimeout
	c.CircuitBreakerConfig.HalfOpenMaxRetries = cfg.HTTP.CircuitBreakerHalfOpenMax
	c.Logger = log
	c.Debug = cfg.App.Debug
	return c
}

// setupLogger configures structured logging per environment.
func setupLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Observability.LogLevel),
	}
	if cfg.App.Debug {
		opts.Level = slog.LevelDebug
	}

	var handler slog.Handler
	if cfg.Observability.LogFormat == "json" && cfg.IsProduction() {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	log := slog.New(handler)
	slog.SetDefault(log)

	return log
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
