// Package main is the entry point for the Student Roster Hub server.
//
// Layering follows Clean Architecture and DDD:
// - Domain: record schema, validation, duplicate detection
// - Application: mutation orchestration, authentication
// - Infrastructure: PostgreSQL record store, Redis sessions, event bus
// - Interface: REST API
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/roster-hub/student-roster-hub/config"
	"github.com/roster-hub/student-roster-hub/internal/application/authn"
	"github.com/roster-hub/student-roster-hub/internal/application/roster"
	"github.com/roster-hub/student-roster-hub/internal/domain/account"
	"github.com/roster-hub/student-roster-hub/internal/infrastructure/messaging"
	"github.com/roster-hub/student-roster-hub/internal/infrastructure/persistence/postgres"
	"github.com/roster-hub/student-roster-hub/internal/infrastructure/persistence/redis"
	"github.com/roster-hub/student-roster-hub/internal/infrastructure/scheduler"
	"github.com/roster-hub/student-roster-hub/internal/infrastructure/scheduler/jobs"
	"github.com/roster-hub/student-roster-hub/internal/infrastructure/service"
	httpserver "github.com/roster-hub/student-roster-hub/internal/interface/http"
	"github.com/roster-hub/student-roster-hub/pkg/logger"
	"github.com/roster-hub/student-roster-hub/pkg/retry"
)

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
	// 1. CONFIGURATION
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. LOGGING
	// ─────────────────────────────────────────────────────────────────────────
	log := setupLogger(cfg)
	log.Info("starting Student Roster Hub",
		logger.String("env", string(cfg.App.Environment)),
		logger.String("version", cfg.App.Version),
		logger.Bool("debug", cfg.App.Debug),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. DATABASE (PostgreSQL/Supabase)
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("connecting to database...")

	var dbConn *postgres.Connection
	err = retry.DatabaseRetrier().Do(ctx, func(ctx context.Context) error {
		var connErr error
		dbConn, connErr = postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
		return retry.Retryable(connErr)
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		log.Info("closing database connection...")
		dbConn.Close()
	}()

	if err := dbConn.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	log.Info("database connection established")

	// ─────────────────────────────────────────────────────────────────────────
	// 4. MIGRATIONS
	// ─────────────────────────────────────────────────────────────────────────
	if cfg.Database.AutoMigrate {
		log.Info("running database migrations...")
		migrator := postgres.NewMigrator(dbConn)
		if err := migrator.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		log.Info("migrations completed")
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. REDIS SESSIONS (optional)
	// ─────────────────────────────────────────────────────────────────────────
	var sessionStore account.SessionStore
	var redisCache *redis.Cache

	if !cfg.Redis.Disabled {
		log.Info("connecting to Redis...")
		err = retry.CacheRetrier().Do(ctx, func(ctx context.Context) error {
			var cacheErr error
			redisCache, cacheErr = connectRedis(cfg)
			return retry.Retryable(cacheErr)
		})
		if err != nil {
			log.Warn("failed to connect to Redis, sessions fall back to memory", logger.Err(err))
		} else {
			defer redisCache.Close()
			sessionStore = redis.NewSessionStore(redisCache)
			log.Info("Redis connection established")
		}
	}
	if sessionStore == nil {
		sessionStore = authn.NewMemorySessionStore()
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 6. REPOSITORIES
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing repositories...")
	studentRepo := postgres.NewStudentRepository(dbConn)
	accountRepo := postgres.NewAccountRepository(dbConn)

	// ─────────────────────────────────────────────────────────────────────────
	// 7. EVENT BUS
	// ─────────────────────────────────────────────────────────────────────────
	eventBus := messaging.NewInMemoryEventBus(slog.Default())
	defer func() {
		_ = eventBus.Close()
	}()

	auditor := service.NewEventAuditor(log)
	if err := eventBus.SubscribeAll(auditor.Handle); err != nil {
		return fmt.Errorf("failed to subscribe event auditor: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 8. APPLICATION LAYER
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing application layer...")

	var notifiers []roster.Notifier
	var feed *service.NotificationFeed
	if cfg.Features.IsEnabled(config.FeatureNotifyLog) {
		notifiers = append(notifiers, service.NewLogNotifier(log))
	}
	if cfg.Features.IsEnabled(config.FeatureNotifyFeed) {
		feed = service.NewNotificationFeed(50)
		notifiers = append(notifiers, feed)
	}
	notifier := service.NewMultiNotifier(notifiers...)

	orchestrator := roster.New(studentRepo, notifier, eventBus, log)

	tokens := authn.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	authService := authn.NewService(accountRepo, sessionStore, tokens, eventBus, log)

	// Initial snapshot load. A failed load is not fatal: the snapshot stays
	// empty and the next successful mutation or refresh fills it.
	if err := orchestrator.Refresh(ctx); err != nil {
		log.Warn("initial roster load failed", logger.Err(err))
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 9. BACKGROUND JOBS
	// ─────────────────────────────────────────────────────────────────────────
	jobRunner := scheduler.New(slog.Default())

	if interval := cfg.Jobs.RosterRefreshInterval; interval > 0 {
		if err := jobRunner.Register(jobs.NewRefreshRosterJob(orchestrator, log), scheduler.Every(interval)); err != nil {
			return fmt.Errorf("failed to register roster refresh job: %w", err)
		}
	}
	if hour := cfg.Jobs.StatsDigestHour; hour >= 0 {
		if err := jobRunner.Register(jobs.NewStatsDigestJob(orchestrator, log), scheduler.DailyAt(hour, 0)); err != nil {
			return fmt.Errorf("failed to register stats digest job: %w", err)
		}
	}

	if err := jobRunner.Start(ctx); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer func() {
		_ = jobRunner.Stop()
	}()

	// ─────────────────────────────────────────────────────────────────────────
	// 10. HTTP SERVER
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing HTTP server...")

	httpConfig := httpserver.DefaultConfig()
	httpConfig.Host = cfg.HTTP.Host
	httpConfig.Port = cfg.HTTP.Port
	httpConfig.ReadTimeout = cfg.HTTP.ReadTimeout
	httpConfig.WriteTimeout = cfg.HTTP.WriteTimeout
	httpConfig.IdleTimeout = cfg.HTTP.IdleTimeout
	httpConfig.EnableCORS = cfg.HTTP.EnableCORS
	httpConfig.AllowedOrigins = cfg.HTTP.AllowedOrigins
	httpConfig.RateLimitPerMinute = cfg.HTTP.RateLimitPerMinute
	httpConfig.EnableSignup = cfg.Features.IsEnabled(config.FeatureAuthOpenSignup)
	httpConfig.EnableStats = cfg.Features.IsEnabled(config.FeatureRosterStats)

	httpDeps := httpserver.Dependencies{
		Roster:        orchestrator,
		Auth:          authService,
		Feed:          feed,
		Logger:        log,
		HealthChecker: &healthChecker{db: dbConn, cache: redisCache},
	}

	server := httpserver.NewServer(httpConfig, httpDeps)

	// ─────────────────────────────────────────────────────────────────────────
	// 11. RUN & GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	errCh := server.StartAsync()

	log.Info("Student Roster Hub is running", logger.String("http_address", server.Address()))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", logger.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", logger.Err(err))
			return err
		}
	}

	log.Info("starting graceful shutdown...", logger.String("timeout", cfg.App.ShutdownTimeout.String()))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to stop HTTP server gracefully", logger.Err(err))
		return err
	}

	log.Info("shutdown completed successfully")
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// setupLogger configures the structured logger.
func setupLogger(cfg *config.Config) *logger.Logger {
	opts := logger.DefaultOptions()
	opts.Level = logger.ParseLevel(cfg.Observability.LogLevel)
	if cfg.App.Debug {
		opts.Level = logger.LevelDebug
	}
	return logger.New(opts)
}

// connectRedis builds the cache from URL or individual settings.
func connectRedis(cfg *config.Config) (*redis.Cache, error) {
	if cfg.Redis.URL != "" {
		return redis.NewCacheFromURL(cfg.Redis.URL)
	}

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
	return redis.NewCache(redisCfg)
}

// healthChecker reports backend health for the health endpoints.
type healthChecker struct {
	db    *postgres.Connection
	cache *redis.Cache
}

func (h *healthChecker) Check(ctx context.Context) httpserver.HealthStatus {
	if err := h.db.Ping(ctx); err != nil {
		return httpserver.HealthStatus{
			Healthy: false,
			Ready:   false,
			Message: "database unreachable: " + err.Error(),
		}
	}

	// Cache is optional; report degraded but healthy.
	if h.cache != nil {
		if err := h.cache.Ping(ctx); err != nil {
			return httpserver.HealthStatus{
				Healthy: true,
				Ready:   true,
				Message: "cache unreachable, sessions degraded",
			}
		}
	}

	return httpserver.HealthStatus{Healthy: true, Ready: true}
}
