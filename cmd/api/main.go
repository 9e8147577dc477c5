package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quoteflow_backend/internal/catalog"
	"quoteflow_backend/internal/distance"
	"quoteflow_backend/internal/events"
	apphttp "quoteflow_backend/internal/http"
	"quoteflow_backend/internal/http/router"
	"quoteflow_backend/internal/quotes"
	"quoteflow_backend/platform/config"
	"quoteflow_backend/platform/db"
	"quoteflow_backend/platform/logger"
	"quoteflow_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Optional Redis cache for distance lookups
	cache := initCache(cfg, log)
	if cache != nil {
		defer func() {
			_ = cache.Close()
		}()
	}

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)
	subscribeDiagnostics(eventBus, log)

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	catalogModule := catalog.NewModule(pool, val, log)
	distanceModule := distance.NewModule(cfg, cache, val, log)
	quotesModule := quotes.NewModule(pool, catalogModule.Service(), distanceModule.Service(), eventBus, val, log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:             cfg,
		Logger:             log,
		Health:             db.NewPoolAdapter(pool),
		EventBus:           eventBus,
		PublicRateLimitRPS: cfg.PublicRateLimitRPS,
		PublicRateBurst:    cfg.PublicRateBurst,
		Modules: []apphttp.Module{
			catalogModule,
			distanceModule,
			quotesModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = shutdownCtx
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

// initCache connects to Redis when REDIS_URL is configured. Distance lookups
// work without it; they just go to the collaborator every time.
func initCache(cfg config.RedisConfig, log *logger.Logger) *redis.Client {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; distance lookup caching disabled")
		return nil
	}

	opts, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		log.Error("invalid REDIS_URL; distance lookup caching disabled", "error", err)
		return nil
	}

	return redis.NewClient(opts)
}

// subscribeDiagnostics logs domain events that operators care about.
func subscribeDiagnostics(bus events.Bus, log *logger.Logger) {
	bus.Subscribe(events.QuoteSubmitted{}.EventName(), events.HandlerFunc(func(_ context.Context, event events.Event) error {
		if submitted, ok := event.(events.QuoteSubmitted); ok {
			log.Info("quote submitted event",
				"quote_id", submitted.QuoteID,
				"total_cents", submitted.TotalCents,
				"services", len(submitted.ServiceIDs),
			)
		}
		return nil
	}))

	bus.Subscribe(events.FormulaEvaluationFailed{}.EventName(), events.HandlerFunc(func(_ context.Context, event events.Event) error {
		if failure, ok := event.(events.FormulaEvaluationFailed); ok {
			log.Warn("formula needs operator attention",
				"service_id", failure.ServiceID,
				"reason", failure.Reason,
			)
		}
		return nil
	}))
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
