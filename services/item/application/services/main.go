package services

import (
	"errors"
	"fmt"

	"github.com/ghuser/itemcatalog/pkg/app"
	"github.com/ghuser/itemcatalog/pkg/config"
	"github.com/ghuser/itemcatalog/services/item/domain/repositories"
	"github.com/ghuser/itemcatalog/services/item/infrastructure/persistence/file"
	"github.com/ghuser/itemcatalog/services/item/infrastructure/persistence/postgres"
	"github.com/ghuser/itemcatalog/services/item/infrastructure/persistence/redis"
)

// Services is the application-layer service container for this bounded context.
// It wires domain services with their infrastructure implementations.
type Services struct {
	Item *ItemService
}

// New wires all item application services with the store selected by
// a.Config.StoreDriver.
func New(a *app.Application) (*Services, error) {
	repo, err := NewRepository(a)
	if err != nil {
		return nil, err
	}
	return &Services{
		Item: NewItemService(repo, a.Logger),
	}, nil
}

// NewRepository returns the ItemRepository for the configured store driver.
func NewRepository(a *app.Application) (repositories.ItemRepository, error) {
	if a.Config == nil {
		return nil, errors.New("item services: missing config")
	}
	switch a.Config.StoreDriver {
	case config.StorePostgres:
		if a.Db == nil {
			return nil, errors.New("item services: postgres driver needs a database")
		}
		return postgres.NewItemRepository(a.Db, a.EventBus), nil
	case config.StoreFile:
		return file.NewItemRepository(a.Config.DataFile), nil
	case config.StoreRedis:
		if a.Redis == nil {
			return nil, errors.New("item services: redis driver needs a redis client")
		}
		return redis.NewItemRepository(a.Redis), nil
	default:
		return nil, fmt.Errorf("item services: unknown store driver %q", a.Config.StoreDriver)
	}
}
