package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/utafrali/CafeCart/internal/catalog"
	"github.com/utafrali/CafeCart/internal/config"
	handler "github.com/utafrali/CafeCart/internal/handler/http"
	"github.com/utafrali/CafeCart/internal/pubsub"
	redisrepo "github.com/utafrali/CafeCart/internal/repository/redis"
	"github.com/utafrali/CafeCart/internal/store"
	"github.com/utafrali/CafeCart/pkg/health"
)

// App wires together all dependencies and runs the cart service.
type App struct {
	cfg         *config.Config
	logger      *slog.Logger
	rdb         *redis.Client
	cartStore   *store.CartStore
	broadcaster *pubsub.Broadcaster
	stopListen  func()
	httpServer  *http.Server
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize Redis client.
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to Redis",
		slog.String("addr", cfg.RedisAddr),
		slog.Int("db", cfg.RedisDB),
	)

	// Build the dependency graph.
	repo := redisrepo.NewSlotRepository(rdb, cfg.SlotKey, logger)
	broadcaster := pubsub.NewBroadcaster(rdb, cfg.ChangesChan, logger)
	cartStore := store.New(ctx, repo, broadcaster, logger,
		store.WithCheckoutDelay(cfg.CheckoutDelay))
	menu := catalog.New(catalog.DefaultMenu())

	logger.Info("cart context ready",
		slog.String("origin", cartStore.Origin()),
		slog.String("slot", repo.Key()),
		slog.Int("item_count", cartStore.ItemCount()),
	)

	// Listen for changes made by other contexts sharing the slot. The
	// handler filters out this context's own notifications.
	stopListen, err := broadcaster.Subscribe(context.Background(), func(n pubsub.Notification) {
		cartStore.HandleNotification(context.Background(), n)
	})
	if err != nil {
		return nil, fmt.Errorf("subscribe to cart changes: %w", err)
	}

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("redis", func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})

	// HTTP router.
	router := handler.NewRouter(cartStore, menu, healthHandler, logger)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:         cfg,
		logger:      logger,
		rdb:         rdb,
		cartStore:   cartStore,
		broadcaster: broadcaster,
		stopListen:  stopListen,
		httpServer:  httpServer,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	// Graceful HTTP server shutdown with a 10-second deadline.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	// Stop the change listener before closing its connection.
	a.stopListen()

	// Close Redis client.
	if err := a.rdb.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}
