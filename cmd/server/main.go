// Package main is the entry point of the school records API.
//
// The binary loads configuration from the environment (and an optional .env
// file), opens the configured PostgreSQL store, optionally connects the Redis
// record cache, and serves the JSON API until it receives a shutdown signal.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/schoolapp/school-records/config"
	"github.com/schoolapp/school-records/internal/application"
	"github.com/schoolapp/school-records/internal/domain/shared"
	"github.com/schoolapp/school-records/internal/infrastructure/persistence/postgres"
	"github.com/schoolapp/school-records/internal/infrastructure/persistence/redis"
	"github.com/schoolapp/school-records/internal/infrastructure/persistence/repository"
	"github.com/schoolapp/school-records/internal/infrastructure/persistence/sqlstore"
	"github.com/schoolapp/school-records/internal/infrastructure/persistence/store"
	httpserver "github.com/schoolapp/school-records/internal/interface/http"
	"github.com/schoolapp/school-records/internal/interface/http/handlers"
	"github.com/schoolapp/school-records/pkg/circuitbreaker"
	"github.com/schoolapp/school-records/pkg/logger"
	"github.com/schoolapp/school-records/pkg/retry"
	"github.com/schoolapp/school-records/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN
// ══════════════════════════════════════════════════════════════════════════════

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. Configuration & logging
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := setupLogger(cfg)
	log.Info("starting school records API",
		"env", cfg.App.Environment,
		"version", cfg.App.Version,
		"timezone", cfg.App.Timezone,
		"driver", cfg.Database.Driver,
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 2. Database
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("connecting to database...")
	db, closeDB, err := openStore(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer func() {
		log.Info("closing database connection...")
		closeDB()
	}()
	log.Info("database connection established")

	if cfg.Database.BootstrapSchema {
		log.Info("bootstrapping schema...")
		if err := postgres.Bootstrap(ctx, db); err != nil {
			return fmt.Errorf("failed to bootstrap schema: %w", err)
		}
	}

	if err := repository.CheckMappings(ctx, db); err != nil {
		return fmt.Errorf("schema does not match record mappings: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 3. Redis record cache (optional)
	// ─────────────────────────────────────────────────────────────────────────
	var recordCache shared.RecordCache = shared.NopCache{}
	var redisCache *redis.Cache

	if !cfg.Redis.Disabled {
		log.Info("connecting to Redis...")
		redisCache, err = redis.NewCache(redisConfig(cfg.Redis))
		if err != nil {
			log.Warn("Redis unavailable, continuing without record cache", "error", err)
		} else {
			defer redisCache.Close()
			breaker := circuitbreaker.New("record-cache",
				circuitbreaker.WithFailureThreshold(cfg.Redis.BreakerThreshold),
				circuitbreaker.WithCoolDown(cfg.Redis.BreakerCoolDown),
				circuitbreaker.WithOnStateChange(func(name string, from, to circuitbreaker.State) {
					log.Warn("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
				}),
			)
			recordCache = redis.NewRecordCache(redisCache, cfg.Redis.TTL).WithBreaker(breaker)
			log.Info("Redis connection established", "ttl", cfg.Redis.TTL.String())
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 4. Application
	// ─────────────────────────────────────────────────────────────────────────
	facade := application.NewFacade(application.Repositories{
		Teachers: repository.NewTeacherRepository(db),
		Students: repository.NewStudentRepository(db),
		Courses:  repository.NewCourseRepository(db),
	}, application.Options{
		Clock:    timeutil.NewSystemClock(cfg.App.Location),
		Cache:    recordCache,
		Policies: cfg.Policies.Application(),
		Logger:   log,
	})

	// ─────────────────────────────────────────────────────────────────────────
	// 5. HTTP server
	// ─────────────────────────────────────────────────────────────────────────
	healthCfg := handlers.HealthConfig{
		Version:     cfg.App.Version,
		Store:       db,
		StoreDriver: cfg.Database.Driver,
		Mappings: func(ctx context.Context) error {
			return repository.CheckMappings(ctx, db)
		},
	}
	if redisCache != nil {
		healthCfg.Cache = redisCache
	}

	httpConfig := httpserver.DefaultConfig()
	httpConfig.Host = cfg.HTTP.Host
	httpConfig.Port = cfg.HTTP.Port
	httpConfig.ReadTimeout = cfg.HTTP.ReadTimeout
	httpConfig.WriteTimeout = cfg.HTTP.WriteTimeout
	httpConfig.IdleTimeout = cfg.HTTP.IdleTimeout
	httpConfig.Version = cfg.App.Version

	httpServer := httpserver.NewServer(httpConfig, httpserver.Dependencies{
		Records:       facade,
		Location:      cfg.App.Location,
		Logger:        log,
		Health:        handlers.NewServiceHealth(healthCfg),
	})

	errCh := httpServer.StartAsync()

	// ─────────────────────────────────────────────────────────────────────────
	// 6. Graceful shutdown
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("school records API is running", "http_address", cfg.HTTP.Addr())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		log.Error("service error", "error", err)
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
	}

	log.Info("starting graceful shutdown...", "timeout", cfg.App.ShutdownTimeout.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to stop HTTP server gracefully", "error", err)
		log.Warn("shutdown completed with errors")
		return nil
	}

	log.Info("shutdown completed successfully")
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// pingStore is a store that the health endpoint can ping.
type pingStore interface {
	store.Store
	Ping(ctx context.Context) error
}

// openStore connects the configured driver, retrying while the database is
// unreachable, and returns the store with its close function.
func openStore(ctx context.Context, cfg config.DatabaseConfig, log *slog.Logger) (pingStore, func(), error) {
	db, err := retry.DoWithData(ctx, func(ctx context.Context) (pingStore, error) {
		connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
		return connect(connectCtx, cfg)
	},
		retry.WithMaxAttempts(cfg.ConnectAttempts),
		retry.WithInitialDelay(500*time.Millisecond),
		retry.WithMaxDelay(10*time.Second),
		retry.WithJitter(0.2),
		retry.WithOnRetry(func(attempt int, err error, delay time.Duration) {
			log.Warn("database not reachable, retrying", "attempt", attempt, "delay", delay.String(), "error", err)
		}),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	switch s := db.(type) {
	case *sqlstore.DB:
		return s, func() { _ = s.Close() }, nil
	case *postgres.Connection:
		return s, s.Close, nil
	default:
		return db, func() {}, nil
	}
}

func connect(ctx context.Context, cfg config.DatabaseConfig) (pingStore, error) {
	if cfg.Driver == config.DriverPostgres {
		return sqlstore.Open(ctx, sqlstore.Config{
			DSN:             cfg.URL,
			MaxOpenConns:    cfg.MaxConns,
			MaxIdleConns:    cfg.MinConns,
			ConnMaxLifetime: cfg.ConnMaxLifetime,
			ConnMaxIdleTime: cfg.ConnMaxIdleTime,
		})
	}

	pgCfg := postgres.Config{
		URL:             cfg.URL,
		MaxConns:        int32(cfg.MaxConns),
		MinConns:        int32(cfg.MinConns),
		MaxConnLifetime: cfg.ConnMaxLifetime,
		MaxConnIdleTime: cfg.ConnMaxIdleTime,
		ConnectTimeout:  cfg.ConnectTimeout,
	}
	if _, err := pgCfg.PoolConfig(); err != nil {
		return nil, retry.Permanent(err)
	}
	return postgres.NewConnection(ctx, pgCfg)
}

func redisConfig(cfg config.RedisConfig) redis.Config {
	return redis.Config{
		URL:          cfg.URL,
		Host:         cfg.Host,
		Port:         cfg.Port,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
}

// setupLogger builds the process logger and installs it as the slog default.
func setupLogger(cfg *config.Config) *slog.Logger {
	log := logger.New(logger.Options{
		Level:     logger.ParseLevel(cfg.Observability.LogLevel),
		Format:    cfg.Observability.LogFormat,
		Output:    os.Stdout,
		AddSource: cfg.App.Debug,
		Service:   cfg.App.Name,
	})
	slog.SetDefault(log)
	return log
}
