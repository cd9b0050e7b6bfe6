package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/utafrali/storefront/internal/catalog"
	"github.com/utafrali/storefront/internal/config"
	"github.com/utafrali/storefront/internal/domain"
	handler "github.com/utafrali/storefront/internal/handler/http"
	"github.com/utafrali/storefront/internal/notify"
	"github.com/utafrali/storefront/internal/render"
	"github.com/utafrali/storefront/internal/repository"
	"github.com/utafrali/storefront/internal/repository/memory"
	redisrepo "github.com/utafrali/storefront/internal/repository/redis"
	"github.com/utafrali/storefront/internal/service"
	"github.com/utafrali/storefront/internal/state"
	"github.com/utafrali/storefront/pkg/database"
	"github.com/utafrali/storefront/pkg/health"
	"github.com/utafrali/storefront/pkg/middleware"
	"github.com/utafrali/storefront/pkg/tracing"
)

// App wires together all dependencies and runs the storefront.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	rdb            *redis.Client
	httpServer     *http.Server
	unsubscribe    func()
	tracerShutdown tracing.ShutdownFunc
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize OpenTelemetry tracing.
	tracerShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    "storefront",
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTELEndpoint,
		SampleRate:     cfg.OTELSampleRate,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	// Load the product catalog.
	cat, err := loadCatalog(cfg.CatalogFile)
	if err != nil {
		return nil, err
	}
	logger.Info("catalog loaded",
		slog.Int("products", cat.Len()),
		slog.Any("categories", cat.Categories()),
	)

	healthHandler := health.NewHandler()

	// Initialize the snapshot backend.
	var (
		repo repository.SnapshotRepository
		rdb  *redis.Client
	)
	switch cfg.SnapshotBackend {
	case config.BackendRedis:
		rdb, err = database.NewRedisClient(ctx, database.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		logger.Info("connected to Redis",
			slog.String("addr", cfg.RedisAddr),
			slog.Int("db", cfg.RedisDB),
		)
		repo = redisrepo.NewSnapshotRepository(rdb, cfg.SnapshotTTLDuration())
		healthHandler.Register("redis", database.PingChecker(rdb))
		database.SetSlowCommandLogging(time.Duration(cfg.SlowCommandMillis)*time.Millisecond, logger)
	default:
		repo = memory.NewSnapshotRepository(cfg.SnapshotTTLDuration())
		logger.Info("using in-memory snapshot store")
	}

	logger.Info("readiness checks registered", slog.Any("checks", healthHandler.Names()))

	// Metrics registry.
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if rdb != nil {
		reg.MustRegister(database.NewPoolStatsCollector(rdb, "storefront"))
	}
	metrics := service.NewMetrics(reg)

	// Build the dependency graph.
	notifier := notify.NewNotifier(cfg.NoticeDepth, cfg.NoticeTTL())
	counters := notify.NewCounterSync()
	unsubscribe := counters.Subscribe(metrics.ObserveCounters)
	svc := service.NewStorefrontService(state.NewStore(repo), cat, notifier, counters, metrics, logger)

	renderer, err := render.New()
	if err != nil {
		unsubscribe()
		return nil, err
	}

	h := handler.NewStorefrontHandler(svc, cat, renderer, logger, domain.Dollars(int64(cfg.DefaultMaxPrice)), cfg.PerPage)
	router := handler.NewRouter(h, healthHandler, middleware.NewHTTPMetrics(reg, "storefront"), reg, logger, handler.RouterConfig{
		SecureCookies: cfg.SecureCookies,
		SessionMaxAge: cfg.SnapshotTTLDuration(),
		CORSOrigins:   cfg.CORSOrigins,
		PprofCIDRs:    cfg.PprofCIDRs,
		MutationRPS:   cfg.MutationRPS,
		MutationBurst: cfg.MutationBurst,
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		rdb:            rdb,
		httpServer:     httpServer,
		unsubscribe:    unsubscribe,
		tracerShutdown: tracerShutdown,
	}, nil
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		cat, err := catalog.Default()
		if err != nil {
			return nil, fmt.Errorf("load default catalog: %w", err)
		}
		return cat, nil
	}
	cat, err := catalog.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", path, err)
	}
	return cat, nil
}

// Handler returns the root HTTP handler.
func (a *App) Handler() http.Handler {
	return a.httpServer.Handler
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		_ = a.Shutdown()
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	// 1. Stop accepting requests and drain in-flight ones (10s budget).
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	a.unsubscribe()

	// 2. Flush spans (3s budget).
	if a.tracerShutdown != nil {
		tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer tracerCancel()
		if err := a.tracerShutdown(tracerCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	// 3. Close Redis client.
	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
