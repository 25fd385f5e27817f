package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/ghuser/itemcatalog/pkg/app"
	"github.com/ghuser/itemcatalog/pkg/config"
	"github.com/ghuser/itemcatalog/pkg/database"
	"github.com/ghuser/itemcatalog/pkg/events"
	"github.com/ghuser/itemcatalog/pkg/logger"
	"github.com/ghuser/itemcatalog/pkg/telemetry"
	itemEvents "github.com/ghuser/itemcatalog/services/item/domain/events"
)

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

	if cfg.StoreDriver != config.StorePostgres || !cfg.EventsEnabled {
		log.Error("worker requires STORE_DRIVER=postgres and EVENTS_ENABLED=true",
			"store", cfg.StoreDriver, "events_enabled", cfg.EventsEnabled)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	otelShutdown, _, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer otelShutdown(context.Background()) //nolint:errcheck

	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer db.Close() //nolint:errcheck
	log.Info("database pool connected")

	eventBus, err := events.NewEventBus(db.DB(), cfg.ServiceName, log)
	if err != nil {
		log.Error("failed to setup event bus", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer eventBus.Close() //nolint:errcheck

	a := &app.Application{
		Config:   cfg,
		Db:       db,
		Logger:   log,
		EventBus: eventBus,
	}

	if err := registerSubscribers(ctx, a); err != nil {
		log.Error("failed to register subscribers", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker...")
	cancel()

	// EventBus.Close() (via defer) waits up to 30s for in-flight handlers.
	log.Info("worker stopped")
}

// registerSubscribers subscribes the audit handler to every item topic.
func registerSubscribers(ctx context.Context, a *app.Application) error {
	processed, err := otel.Meter("github.com/ghuser/itemcatalog/cmd/worker").Int64Counter(
		"items.events.processed",
		metric.WithDescription("Item change events handled by the worker"),
	)
	if err != nil {
		return fmt.Errorf("create counter: %w", err)
	}

	for _, topic := range itemEvents.Topics {
		errCh, err := a.EventBus.Subscribe(ctx, topic, handleItemChanged(a.Logger, topic, processed))
		if err != nil {
			return err
		}

		// Drain subscriber errors so the channel never blocks.
		go func(topic string) {
			for err := range errCh {
				a.Logger.ErrorContext(ctx, "subscriber error", "topic", topic, "error", err)
			}
		}(topic)
	}

	a.Logger.Info("event subscribers registered", "topics", itemEvents.Topics)
	return nil
}

// handleItemChanged writes one audit line per item change.
// Handlers must be idempotent; EventBus retries up to 3x on failure.
func handleItemChanged(log logger.Logger, topic string, processed metric.Int64Counter) func(context.Context, *message.Message) error {
	return func(ctx context.Context, msg *message.Message) error {
		var evt itemEvents.ItemChangedEvent
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			return fmt.Errorf("decode %s: %w", topic, err)
		}

		log.InfoContext(ctx, "item audit",
			"topic", topic,
			"event_id", evt.EventID,
			"item_id", evt.ItemID,
			"name", evt.Name,
			"category", evt.Category,
			"price", evt.Price,
			"stock", evt.Stock,
			"fields", evt.Fields,
			"occurred_at", evt.OccurredAt,
		)
		processed.Add(ctx, 1, metric.WithAttributes(attribute.String("topic", topic)))
		return nil
	}
}
