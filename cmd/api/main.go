package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	_ "github.com/ghuser/itemcatalog/docs/swagger"
	"github.com/ghuser/itemcatalog/pkg/app"
	"github.com/ghuser/itemcatalog/pkg/config"
	"github.com/ghuser/itemcatalog/pkg/database"
	"github.com/ghuser/itemcatalog/pkg/events"
	"github.com/ghuser/itemcatalog/pkg/httpx"
	"github.com/ghuser/itemcatalog/pkg/logger"
	"github.com/ghuser/itemcatalog/pkg/redisdb"
	"github.com/ghuser/itemcatalog/pkg/telemetry"
	itemApi "github.com/ghuser/itemcatalog/services/item/application/api"
	domainevents "github.com/ghuser/itemcatalog/services/item/domain/events"
)

// @title					Item Catalog API
// @version				1.0
// @description			CRUD REST API for the items catalog.
// @license.name			MIT
// @license.url			https://opensource.org/licenses/MIT
// @host					localhost:8080
// @BasePath				/api
// @schemes				http https
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := config.ValidateForProduction(cfg); err != nil {
		slog.Error("production config validation failed", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg)

	ctx := context.Background()
	otelShutdown, metricsHandler, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		os.Exit(1)
	}
	defer otelShutdown(ctx) //nolint:errcheck

	// Sentry is optional: log and continue on failure.
	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	a := &app.Application{Config: cfg, Logger: log}
	checks := httpx.HealthChecks{}

	switch cfg.StoreDriver {
	case config.StorePostgres:
		db, err := database.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Error("failed to connect to database", "error", err)
			os.Exit(1) //nolint:gocritic // intentional: startup failure, deferred flushes are best-effort
		}
		defer db.Close() //nolint:errcheck
		a.Db = db
		checks["database"] = db
		log.Info("database pool connected")

		if cfg.EventsEnabled {
			bus, err := events.NewEventBus(db.DB(), cfg.ServiceName, log)
			if err != nil {
				log.Error("failed to setup event bus", "error", err)
				os.Exit(1) //nolint:gocritic
			}
			defer bus.Close() //nolint:errcheck
			if err := bus.InitTopics(domainevents.Topics...); err != nil {
				log.Error("failed to initialize event topics", "error", err)
				os.Exit(1) //nolint:gocritic
			}
			a.EventBus = bus
			checks["event_bus"] = bus
		}
	case config.StoreRedis:
		rdb, err := redisdb.New(ctx, cfg.RedisURL)
		if err != nil {
			log.Error("failed to connect to redis", "error", err)
			os.Exit(1) //nolint:gocritic
		}
		defer rdb.Close() //nolint:errcheck
		a.Redis = rdb
		checks["redis"] = rdb
		log.Info("redis connected")
	case config.StoreFile:
		log.Info("using file store", "path", cfg.DataFile)
	}

	r := httpx.NewRouter(
		httpx.ServerConfig{
			ServiceName:        cfg.ServiceName,
			IsDevelopment:      cfg.IsDevelopment(),
			CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		},
		logger.Middleware(log),
		logger.Recovery(log, cfg.IsDevelopment()),
		telemetry.SentryMiddleware(cfg),
		otelhttp.NewMiddleware(cfg.ServiceName),
	)

	r.Get("/", httpx.IndexHandler(cfg.ServiceVersion, map[string]string{
		"items":   "/api/items",
		"health":  "/health",
		"metrics": "/metrics",
		"docs":    "/swagger/index.html",
	}))
	r.Get("/health", httpx.HealthHandler(checks))
	r.Get("/metrics", metricsHandler.ServeHTTP)
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	var routeErr error
	r.Route("/api", func(r chi.Router) {
		routeErr = registerRoutes(r, a)
	})
	if routeErr != nil {
		log.Error("failed to register routes", "error", routeErr)
		os.Exit(1) //nolint:gocritic
	}

	srv := httpx.NewServer(cfg.HTTPAddr, r)

	go func() {
		log.Info("server listening", "addr", srv.Addr, "env", cfg.Environment, "store", cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

// registerRoutes mounts all service routes under /api.
func registerRoutes(r chi.Router, a *app.Application) error {
	return itemApi.ItemRoutes(r, a)
}
