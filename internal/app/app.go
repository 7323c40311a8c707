package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/verdantleaf/storefront/internal/client"
	"github.com/verdantleaf/storefront/internal/config"
	"github.com/verdantleaf/storefront/internal/event"
	handler "github.com/verdantleaf/storefront/internal/handler/http"
	"github.com/verdantleaf/storefront/internal/repository/memory"
	redisrepo "github.com/verdantleaf/storefront/internal/repository/redis"
	"github.com/verdantleaf/storefront/internal/service"
	"github.com/verdantleaf/storefront/pkg/health"
	"github.com/verdantleaf/storefront/pkg/httpclient"
	pkgkafka "github.com/verdantleaf/storefront/pkg/kafka"
	"github.com/verdantleaf/storefront/pkg/tracing"
)

// App wires together all dependencies and runs the storefront service.
type App struct {
	cfg          *config.Config
	logger       *slog.Logger
	rdb          *redis.Client
	producer     *pkgkafka.Producer
	authConsumer *pkgkafka.Consumer
	sessions     *memory.SessionStore
	httpServer   *http.Server
	shutdownTr   func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize tracing.
	shutdownTr, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:  "storefront",
		Environment:  cfg.Environment,
		OTLPEndpoint: cfg.TracingEndpoint,
		SampleRate:   cfg.TracingSample,
		Enabled:      cfg.TracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

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

	// Initialize Kafka producer.
	kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
	producer := pkgkafka.NewProducer(kafkaCfg, logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	// Downstream HTTP clients, each behind its own circuit breaker.
	profileDoer := newBreakerClient("profile", cfg, logger)
	settingsDoer := newBreakerClient("settings", cfg, logger)
	orderDoer := newBreakerClient("order", cfg, logger)

	profileAPI := client.NewProfileAPI(cfg.ProfileServiceURL, profileDoer)
	settingsAPI := client.NewSettingsAPI(cfg.SettingsServiceURL, settingsDoer)
	orderAPI := client.NewOrderAPI(cfg.OrderServiceURL, orderDoer)

	// Build the dependency graph.
	cartTTL := time.Duration(cfg.CartTTL) * time.Hour
	checkoutTTL := time.Duration(cfg.CheckoutTTL) * time.Minute

	cartRepo := redisrepo.NewCartRepository(rdb, cartTTL)
	sessions := memory.NewSessionStore()
	eventProducer := event.NewProducer(producer, logger)

	cartService := service.NewCartService(cartRepo, eventProducer, logger)
	checkoutService := service.NewCheckoutService(
		sessions, cartService,
		profileAPI, settingsAPI, orderAPI,
		eventProducer, logger, checkoutTTL,
	)

	// Consume authentication events to clear carts on login.
	authConsumer := event.NewAuthConsumer(cfg.KafkaBrokers, cfg.ConsumerGroup, cartService, logger)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("redis", func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})
	healthHandler.Register("kafka", func(ctx context.Context) error {
		return pkgkafka.PingBrokers(ctx, cfg.KafkaBrokers)
	})

	// HTTP router.
	router := handler.NewRouter(cartService, checkoutService, healthHandler, logger)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:          cfg,
		logger:       logger,
		rdb:          rdb,
		producer:     producer,
		authConsumer: authConsumer,
		sessions:     sessions,
		httpServer:   httpServer,
		shutdownTr:   shutdownTr,
	}, nil
}

// newBreakerClient builds a retrying HTTP client wrapped in a named circuit
// breaker configured from the environment.
func newBreakerClient(name string, cfg *config.Config, logger *slog.Logger) *httpclient.CircuitBreakerClient {
	cbCfg := httpclient.DefaultCircuitBreakerConfig(name)
	cbCfg.MaxRequests = cfg.CBMaxRequests
	cbCfg.Interval = time.Duration(cfg.CBIntervalSec) * time.Second
	cbCfg.Timeout = time.Duration(cfg.CBTimeoutSec) * time.Second

	return httpclient.NewCircuitBreakerClient(httpclient.New(httpclient.DefaultConfig()), cbCfg, logger)
}

// Run starts the HTTP server and background workers, blocking until the
// context is canceled.
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

	go func() {
		if err := a.authConsumer.Start(ctx); err != nil && ctx.Err() == nil {
			errCh <- fmt.Errorf("auth consumer: %w", err)
		}
	}()

	// Expired checkout sessions are swept periodically; Get also drops them
	// lazily, the sweep just bounds memory.
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := a.sessions.Sweep(); n > 0 {
					a.logger.Debug("swept expired checkout sessions", slog.Int("count", n))
				}
			}
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

	if err := a.authConsumer.Close(); err != nil {
		a.logger.Error("kafka consumer close error", slog.String("error", err.Error()))
	}

	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
	}

	if err := a.rdb.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
	}

	if err := a.shutdownTr(shutdownCtx); err != nil {
		a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}
