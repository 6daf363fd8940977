package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/clutchparts/search-service/internal/cache"
	"github.com/clutchparts/search-service/internal/config"
	"github.com/clutchparts/search-service/internal/event"
	"github.com/clutchparts/search-service/internal/fulltext"
	esengine "github.com/clutchparts/search-service/internal/fulltext/elasticsearch"
	"github.com/clutchparts/search-service/internal/fulltext/memory"
	handler "github.com/clutchparts/search-service/internal/handler/http"
	pgrepo "github.com/clutchparts/search-service/internal/repository/postgres"
	"github.com/clutchparts/search-service/internal/search"
	"github.com/clutchparts/search-service/pkg/database"
	"github.com/clutchparts/search-service/pkg/health"
	pkgkafka "github.com/clutchparts/search-service/pkg/kafka"
	"github.com/clutchparts/search-service/pkg/tracing"
)

// App wires together all dependencies and runs the search service.
type App struct {
	cfg             *config.Config
	logger          *slog.Logger
	pool            *pgxpool.Pool
	redisClient     *redis.Client
	producer        *pkgkafka.Producer
	consumers       []*pkgkafka.Consumer
	httpServer      *http.Server
	shutdownTracing func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	shutdownTracing, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:  "search-service",
		Environment:  cfg.Environment,
		OTLPEndpoint: cfg.OTLPEndpoint,
		SampleRate:   cfg.TraceSampleRate,
		Enabled:      cfg.TracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	// Catalog read model.
	pool, err := database.NewPostgresPool(ctx, cfg.Postgres(), logger)
	if err != nil {
		return nil, fmt.Errorf("init postgres pool: %w", err)
	}
	if err := database.RunMigrations(ctx, pool, migrationFiles, logger); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	catalogRepo := pgrepo.NewCatalogRepository(pool)

	// Result cache.
	var (
		store       cache.Store
		redisClient *redis.Client
	)
	if cfg.CacheEnabled {
		redisClient, err = database.NewRedisClient(ctx, cfg.Redis())
		if err != nil {
			return nil, fmt.Errorf("init redis client: %w", err)
		}
		store = cache.NewRedisStore(redisClient, logger)
		logger.Info("redis result cache initialized", slog.String("addr", cfg.Redis().Addr()))
	}

	ttl := cache.TTLPolicy{
		Indexed:  cfg.CacheTTLIndexed,
		Fallback: cfg.CacheTTLFallback,
		Empty:    cfg.CacheTTLEmpty,
	}

	// Search telemetry.
	var (
		producer *pkgkafka.Producer
		notifier search.Notifier
	)
	if cfg.KafkaEnabled {
		producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		notifier = event.NewSearchProducer(producer, logger)
	}

	resolver := search.NewResolver(catalogRepo, cfg.ScanLimit, cfg.CategoryLimit, logger)
	enricher := search.NewEnricher(catalogRepo, cfg.ImageBaseURL)
	searchService := search.NewService(resolver, enricher, store, ttl, notifier, logger)

	// Full-text browse engine.
	var (
		browseEngine fulltext.Engine
		esEngine     *esengine.Engine
	)
	switch cfg.BrowseEngine {
	case "elasticsearch":
		esEngine, err = esengine.New(cfg.ElasticsearchURL, cfg.ElasticsearchIndex, logger)
		if err != nil {
			return nil, fmt.Errorf("init elasticsearch engine: %w", err)
		}
		browseEngine = esEngine
		logger.Info("elasticsearch browse engine initialized",
			slog.String("url", cfg.ElasticsearchURL),
			slog.String("index", cfg.ElasticsearchIndex),
		)
	case "memory":
		browseEngine = memory.New()
		logger.Info("in-memory browse engine initialized")
	default:
		logger.Info("browse engine disabled")
	}

	// Catalog sync consumers feed the browse index.
	var consumers []*pkgkafka.Consumer
	if cfg.KafkaEnabled && browseEngine != nil {
		eventConsumer := event.NewConsumer(browseEngine, logger)
		topics := []string{
			event.TopicPartUpserted,
			event.TopicPartDeleted,
		}
		for _, topic := range topics {
			consumerCfg := pkgkafka.ConsumerConfig{
				Brokers:  cfg.KafkaBrokers,
				GroupID:  "search-service",
				Topic:    topic,
				MinBytes: 1,
				MaxBytes: 10e6,
			}
			consumers = append(consumers, pkgkafka.NewConsumer(consumerCfg, eventConsumer.Handle, logger))
		}
		logger.Info("kafka consumers initialized",
			slog.Any("brokers", cfg.KafkaBrokers),
			slog.Int("topic_count", len(topics)),
		)
	}

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	if redisClient != nil {
		healthHandler.Register("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}
	if esEngine != nil {
		healthHandler.Register("elasticsearch", esEngine.Ping)
	}
	if cfg.KafkaEnabled {
		healthHandler.Register("kafka", func(ctx context.Context) error {
			return pkgkafka.PingBrokers(ctx, cfg.KafkaBrokers)
		})
	}

	router := handler.NewRouter(searchService, browseEngine, healthHandler, logger)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:             cfg,
		logger:          logger,
		pool:            pool,
		redisClient:     redisClient,
		producer:        producer,
		consumers:       consumers,
		httpServer:      httpServer,
		shutdownTracing: shutdownTracing,
	}, nil
}

// Run starts the HTTP server and Kafka consumers, blocking until the context
// is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1+len(a.consumers))

	for _, c := range a.consumers {
		go func() {
			if err := c.Start(ctx); err != nil {
				errCh <- fmt.Errorf("kafka consumer: %w", err)
			}
		}()
	}

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

	var errs []error

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	for _, c := range a.consumers {
		if err := c.Close(); err != nil {
			a.logger.Error("kafka consumer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	a.pool.Close()

	if err := a.shutdownTracing(shutdownCtx); err != nil {
		a.logger.Error("tracing shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
