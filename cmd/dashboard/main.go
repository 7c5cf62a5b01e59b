package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	limiterredis "github.com/ulule/limiter/v3/drivers/store/redis"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	"go.uber.org/zap"

	_ "github.com/mymatch/dashboard/docs"
	"github.com/mymatch/dashboard/internal/config"
	"github.com/mymatch/dashboard/internal/handlers"
	"github.com/mymatch/dashboard/internal/hub"
	"github.com/mymatch/dashboard/internal/logic"
	"github.com/mymatch/dashboard/internal/scoring"
	"github.com/mymatch/dashboard/internal/store"
	"github.com/mymatch/dashboard/internal/worker"
)

// sessionStore is what both the dashboard and the readiness probe need
type sessionStore interface {
	logic.SessionStore
	handlers.Pinger
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Sessions and rate limiting share Redis when it is configured
	var (
		sessions   sessionStore
		limitStore limiter.Store
	)
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			sugar.Fatalw("Failed to parse Redis URL", "error", err)
		}
		redisClient := redis.NewClient(opts)
		defer redisClient.Close()

		pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
		err = redisClient.Ping(pingCtx).Err()
		pingCancel()
		if err != nil {
			sugar.Fatalw("Failed to connect to Redis", "error", err)
		}

		sessions = store.NewRedisStore(redisClient, cfg.SessionTTL)
		limitStore, err = limiterredis.NewStoreWithOptions(redisClient, limiter.StoreOptions{Prefix: "mymatch:limit"})
		if err != nil {
			sugar.Fatalw("Failed to create rate limit store", "error", err)
		}
		sugar.Infow("Sessions stored in Redis", "ttl", cfg.SessionTTL)
	} else {
		mem := store.NewMemoryStore(cfg.SessionTTL)
		go mem.RunJanitor(ctx, time.Minute)
		sessions = mem
		limitStore = memory.NewStore()
		sugar.Infow("Sessions stored in memory", "ttl", cfg.SessionTTL)
	}

	rate, err := limiter.NewRateFromFormatted(cfg.PredictRateLimit)
	if err != nil {
		sugar.Fatalw("Invalid PREDICT_RATE_LIMIT", "value", cfg.PredictRateLimit, "error", err)
	}

	scoringClient := scoring.New(scoring.Config{
		BaseURL: cfg.ScoringURL,
		Timeout: cfg.ScoringTimeout,
		Logger:  logger,
	})

	events := hub.NewHub(logger)
	go events.Run(ctx)

	dashboard := logic.New(logic.Config{
		Scoring:            scoringClient,
		Store:              sessions,
		Notifier:           events,
		Logger:             logger,
		SettleDelay:        cfg.SettleDelay,
		SettleMaxDelay:     cfg.SettleMaxDelay,
		SettleMaxAttempts:  cfg.SettleMaxAttempts,
		ReportHistoryLimit: cfg.ReportHistoryLimit,
	})

	// Reconcile jobs may wait through the whole settle backoff
	pool := worker.NewPool(worker.PoolConfig{
		WorkerCount: cfg.WorkerCount,
		QueueSize:   cfg.QueueSize,
		JobTimeout:  cfg.ScoringTimeout + 2*cfg.SettleMaxDelay*time.Duration(cfg.SettleMaxAttempts),
		Reconciler:  dashboard,
		Logger:      logger,
	})
	dashboard.AttachQueue(pool)
	pool.Start(ctx)

	h := handlers.New(handlers.Config{
		Dashboard:      dashboard,
		Scoring:        scoringClient,
		Events:         events,
		Store:          sessions,
		Queue:          pool,
		PredictLimiter: limiter.New(limitStore, rate),
		SecureCookies:  cfg.IsProduction(),
		Logger:         logger,
	})

	srv := &http.Server{
		Addr: fmt.Sprintf(":%d", cfg.Port),
		Handler: h.Router(handlers.RouterConfig{
			AllowedOrigins: cfg.AllowedOrigins,
			RequestTimeout: 30 * time.Second,
			Logger:         logger,
		}),
		ReadTimeout: 15 * time.Second,
		// PDF exports and inline reconciles can outlast a short write timeout
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	serverErrors := make(chan error, 1)
	go func() {
		sugar.Infow("Dashboard listening", "addr", srv.Addr, "scoring", cfg.ScoringURL, "env", cfg.Env)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			sugar.Errorw("Server error", "error", err)
		}
	case sig := <-shutdown:
		sugar.Infow("Shutting down", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			sugar.Warnw("Graceful shutdown failed", "error", err)
			if err := srv.Close(); err != nil {
				sugar.Errorw("Could not stop server", "error", err)
			}
		}
	}

	pool.Stop()
	cancel()
	sugar.Info("Shutdown complete")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
