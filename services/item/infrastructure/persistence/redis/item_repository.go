// Package redis stores items as Redis hashes.
//
// Keyspace:
//
//	items:seq    INCR counter handing out ids
//	items:ids    set of live ids
//	items:names  hash name -> id, keeps names unique
//	item:{id}    hash with the item's fields
//
// Writes run in WATCH/MULTI transactions. A concurrent change to a watched key
// aborts the write with redis.TxFailedErr; it is not retried.
package redis

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ghuser/itemcatalog/pkg/redisdb"
	itemdomain "github.com/ghuser/itemcatalog/services/item/domain"
	"github.com/ghuser/itemcatalog/services/item/domain/models"
	"github.com/ghuser/itemcatalog/services/item/domain/repositories"
	"github.com/ghuser/itemcatalog/services/item/infrastructure/persistence/memquery"
)

const (
	keySeq   = "items:seq"
	keyIDs   = "items:ids"
	keyNames = "items:names"
)

func itemKey(id int64) string { return "item:" + strconv.FormatInt(id, 10) }

// ItemRepository implements repositories.ItemRepository on Redis.
type ItemRepository struct {
	rdb *redis.Client
	now func() time.Time
}

var _ repositories.ItemRepository = (*ItemRepository)(nil)

func NewItemRepository(client *redisdb.Client) *ItemRepository {
	return &ItemRepository{rdb: client.Redis(), now: models.Now}
}

// List returns one page of items matching opts.
func (r *ItemRepository) List(ctx context.Context, opts repositories.ListOptions) ([]*models.Item, error) {
	items, err := r.loadAll(ctx)
	if err != nil {
		return nil, err
	}
	return memquery.Select(items, opts), nil
}

func (r *ItemRepository) Count(ctx context.Context, f repositories.Filter) (int, error) {
	items, err := r.loadAll(ctx)
	if err != nil {
		return 0, err
	}
	return memquery.Count(items, f), nil
}

// FindByID retrieves an Item by ID. Returns a NotFoundError if absent.
func (r *ItemRepository) FindByID(ctx context.Context, id int64) (*models.Item, error) {
	return r.get(ctx, r.rdb, id)
}

func (r *ItemRepository) Exists(ctx context.Context, id int64) (bool, error) {
	ok, err := r.rdb.SIsMember(ctx, keyIDs, id).Result()
	if err != nil {
		return false, mapError(err, "check item exists")
	}
	return ok, nil
}

func (r *ItemRepository) Create(ctx context.Context, f models.ItemFields) (*models.Item, error) {
	created, err := r.BulkCreate(ctx, []models.ItemFields{f})
	if err != nil {
		return nil, err
	}
	return created[0], nil
}

// BulkCreate queues every item in one MULTI. Names are checked against the
// index and against each other before anything is written.
func (r *ItemRepository) BulkCreate(ctx context.Context, batch []models.ItemFields) ([]*models.Item, error) {
	if len(batch) == 0 {
		return []*models.Item{}, nil
	}
	var created []*models.Item
	err := r.rdb.Watch(ctx, func(tx *redis.Tx) error {
		seen := make(map[string]struct{}, len(batch))
		names := make([]string, 0, len(batch))
		for _, f := range batch {
			if _, dup := seen[f.Name]; dup {
				return itemdomain.ErrItemAlreadyExists
			}
			seen[f.Name] = struct{}{}
			names = append(names, f.Name)
		}
		taken, err := tx.HMGet(ctx, keyNames, names...).Result()
		if err != nil {
			return mapError(err, "check item names")
		}
		for _, v := range taken {
			if v != nil {
				return itemdomain.ErrItemAlreadyExists
			}
		}

		// Ids are reserved before MULTI so an aborted batch leaves a gap
		// rather than handing the same id out twice.
		last, err := tx.IncrBy(ctx, keySeq, int64(len(batch))).Result()
		if err != nil {
			return mapError(err, "reserve item ids")
		}
		first := last - int64(len(batch)) + 1

		now := r.now()
		created = make([]*models.Item, 0, len(batch))
		for i, f := range batch {
			created = append(created, models.NewItem(first+int64(i), f, now))
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for _, it := range created {
				pipe.HSet(ctx, itemKey(it.ID), toHash(it))
				pipe.SAdd(ctx, keyIDs, it.ID)
				pipe.HSet(ctx, keyNames, it.Name, it.ID)
			}
			return nil
		})
		return err
	}, keyNames)
	if err != nil {
		return nil, mapError(err, "create items")
	}
	return created, nil
}

// Update overwrites every mutable field of an existing Item.
func (r *ItemRepository) Update(ctx context.Context, id int64, f models.ItemFields) (*models.Item, error) {
	return r.modify(ctx, id, "update item", func(it *models.Item, now time.Time) {
		it.Replace(f, now)
	})
}

// PartialUpdate writes only the fields present in p.
func (r *ItemRepository) PartialUpdate(ctx context.Context, id int64, p models.ItemPatch) (*models.Item, error) {
	if p.IsEmpty() {
		return nil, itemdomain.ErrNothingToUpdate
	}
	return r.modify(ctx, id, "patch item", func(it *models.Item, now time.Time) {
		it.Apply(p, now)
	})
}

// modify loads item id under WATCH, applies fn and writes the result together
// with the name index.
func (r *ItemRepository) modify(ctx context.Context, id int64, op string, fn func(*models.Item, time.Time)) (*models.Item, error) {
	key := itemKey(id)
	var item *models.Item
	err := r.rdb.Watch(ctx, func(tx *redis.Tx) error {
		current, err := r.get(ctx, tx, id)
		if err != nil {
			return err
		}
		oldName := current.Name
		fn(current, r.now())

		if current.Name != oldName {
			owner, err := tx.HGet(ctx, keyNames, current.Name).Result()
			switch {
			case errors.Is(err, redis.Nil):
			case err != nil:
				return mapError(err, "check item name")
			case owner != strconv.FormatInt(id, 10):
				return itemdomain.ErrItemAlreadyExists
			}
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, toHash(current))
			if current.Name != oldName {
				pipe.HDel(ctx, keyNames, oldName)
				pipe.HSet(ctx, keyNames, current.Name, id)
			}
			return nil
		})
		if err != nil {
			return err
		}
		item = current
		return nil
	}, key, keyNames)
	if err != nil {
		return nil, mapError(err, op)
	}
	return item, nil
}

// Delete removes an item and returns its last state.
func (r *ItemRepository) Delete(ctx context.Context, id int64) (*models.Item, error) {
	key := itemKey(id)
	var item *models.Item
	err := r.rdb.Watch(ctx, func(tx *redis.Tx) error {
		current, err := r.get(ctx, tx, id)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			pipe.SRem(ctx, keyIDs, id)
			pipe.HDel(ctx, keyNames, current.Name)
			return nil
		})
		if err != nil {
			return err
		}
		item = current
		return nil
	}, key, keyNames)
	if err != nil {
		return nil, mapError(err, "delete item")
	}
	return item, nil
}

// Categories returns the distinct categories in ascending order.
func (r *ItemRepository) Categories(ctx context.Context) ([]string, error) {
	items, err := r.loadAll(ctx)
	if err != nil {
		return nil, err
	}
	return memquery.Categories(items), nil
}

func (r *ItemRepository) get(ctx context.Context, c redis.Cmdable, id int64) (*models.Item, error) {
	h, err := c.HGetAll(ctx, itemKey(id)).Result()
	if err != nil {
		return nil, mapError(err, "query item")
	}
	if len(h) == 0 {
		return nil, itemdomain.NotFound(id)
	}
	return fromHash(id, h)
}

// loadAll fetches every live item with one pipelined round trip.
func (r *ItemRepository) loadAll(ctx context.Context) ([]*models.Item, error) {
	ids, err := r.rdb.SMembers(ctx, keyIDs).Result()
	if err != nil {
		return nil, mapError(err, "list item ids")
	}
	if len(ids) == 0 {
		return []*models.Item{}, nil
	}

	cmds := make([]*redis.MapStringStringCmd, len(ids))
	_, err = r.rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, raw := range ids {
			cmds[i] = pipe.HGetAll(ctx, "item:"+raw)
		}
		return nil
	})
	if err != nil {
		return nil, mapError(err, "load items")
	}

	items := make([]*models.Item, 0, len(ids))
	for i, cmd := range cmds {
		h := cmd.Val()
		if len(h) == 0 {
			// deleted between SMEMBERS and HGETALL
			continue
		}
		id, err := strconv.ParseInt(ids[i], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("decode item id %q: %w", ids[i], err)
		}
		it, err := fromHash(id, h)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, nil
}

func toHash(it *models.Item) map[string]any {
	return map[string]any{
		"name":        it.Name,
		"description": it.Description,
		"price":       it.Price.String(),
		"category":    it.Category,
		"stock":       it.Stock,
		"created_at":  it.CreatedAt.Format(time.RFC3339Nano),
		"updated_at":  it.UpdatedAt.Format(time.RFC3339Nano),
	}
}

func fromHash(id int64, h map[string]string) (*models.Item, error) {
	price, err := models.ParsePrice(h["price"])
	if err != nil {
		return nil, fmt.Errorf("decode item %d: %w", id, err)
	}
	stock, err := strconv.Atoi(h["stock"])
	if err != nil {
		return nil, fmt.Errorf("decode item %d stock: %w", id, err)
	}
	created, err := time.Parse(time.RFC3339Nano, h["created_at"])
	if err != nil {
		return nil, fmt.Errorf("decode item %d created_at: %w", id, err)
	}
	updated, err := time.Parse(time.RFC3339Nano, h["updated_at"])
	if err != nil {
		return nil, fmt.Errorf("decode item %d updated_at: %w", id, err)
	}
	return &models.Item{
		ID:          id,
		Name:        h["name"],
		Description: h["description"],
		Price:       price,
		Category:    h["category"],
		Stock:       stock,
		CreatedAt:   created.UTC(),
		UpdatedAt:   updated.UTC(),
	}, nil
}

// mapError passes domain errors through, reports connection failures as
// ErrStoreUnavailable and wraps everything else with op.
func mapError(err error, op string) error {
	var nf *itemdomain.NotFoundError
	if errors.As(err, &nf) ||
		errors.Is(err, itemdomain.ErrItemAlreadyExists) ||
		errors.Is(err, itemdomain.ErrStoreUnavailable) {
		return err
	}
	var netErr net.Error
	if errors.Is(err, syscall.ECONNREFUSED) || errors.As(err, &netErr) {
		return fmt.Errorf("%w: %s: %w", itemdomain.ErrStoreUnavailable, op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
