package app

import (
	"github.com/ghuser/itemcatalog/pkg/config"
	"github.com/ghuser/itemcatalog/pkg/database"
	"github.com/ghuser/itemcatalog/pkg/events"
	"github.com/ghuser/itemcatalog/pkg/logger"
	"github.com/ghuser/itemcatalog/pkg/redisdb"
)

// Application holds shared infrastructure dependencies for all services.
// Pass to every service's route function during server initialization.
//
// Which connections are set depends on Config.StoreDriver: Db (and EventBus
// when events are enabled) for postgres, Redis for redis, neither for file.
//
// Logging: app.Logger is backed by a trace-aware handler. Use the context
// methods and trace_id, span_id and request_id are injected automatically:
//
//	app.Logger.InfoContext(ctx, "item created", "item_id", id)
//	app.Logger.ErrorContext(ctx, "failed to save", "error", err)
//
// Use app.Logger.Info/Error (no context) only for startup and shutdown messages.
type Application struct {
	Config   *config.Config
	Db       *database.Database
	Logger   logger.Logger
	EventBus *events.EventBus
	Redis    *redisdb.Client
}
