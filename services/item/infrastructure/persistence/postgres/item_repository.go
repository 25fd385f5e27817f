package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ghuser/itemcatalog/pkg/database"
	"github.com/ghuser/itemcatalog/pkg/events"
	itemdomain "github.com/ghuser/itemcatalog/services/item/domain"
	domainevents "github.com/ghuser/itemcatalog/services/item/domain/events"
	"github.com/ghuser/itemcatalog/services/item/domain/models"
	"github.com/ghuser/itemcatalog/services/item/domain/repositories"
	"github.com/ghuser/itemcatalog/services/item/infrastructure/persistence/postgres/db"
)

const eventVersion = 1

// ItemRepository implements repositories.ItemRepository against PostgreSQL.
type ItemRepository struct {
	db  *database.Database
	bus *events.EventBus
	now func() time.Time
}

var _ repositories.ItemRepository = (*ItemRepository)(nil)

// NewItemRepository returns an ItemRepository backed by the given connection pool
// and event bus. When bus is non-nil every write publishes an item change event
// inside its transaction.
func NewItemRepository(database *database.Database, bus *events.EventBus) *ItemRepository {
	return &ItemRepository{db: database, bus: bus, now: models.Now}
}

// List returns one page of items matching opts.
func (r *ItemRepository) List(ctx context.Context, opts repositories.ListOptions) ([]*models.Item, error) {
	query, args := buildListQuery(opts)
	rows, err := r.db.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "list items")
	}
	defer rows.Close() //nolint:errcheck

	items := make([]*models.Item, 0)
	for rows.Next() {
		row, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, rowToItem(row))
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "list items")
	}
	return items, nil
}

// Count returns the number of items matching f.
func (r *ItemRepository) Count(ctx context.Context, f repositories.Filter) (int, error) {
	query, args := buildCountQuery(f)
	var total int64
	if err := r.db.DB().QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, mapError(err, "count items")
	}
	return int(total), nil
}

// FindByID retrieves an Item by ID. Returns a NotFoundError if absent.
func (r *ItemRepository) FindByID(ctx context.Context, id int64) (*models.Item, error) {
	row, err := db.New(r.db.DB()).GetItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, itemdomain.NotFound(id)
		}
		return nil, mapError(err, "query item")
	}
	return rowToItem(row), nil
}

// Exists reports whether an item with the given ID exists.
func (r *ItemRepository) Exists(ctx context.Context, id int64) (bool, error) {
	exists, err := db.New(r.db.DB()).ItemExists(ctx, id)
	if err != nil {
		return false, mapError(err, "check item exists")
	}
	return exists, nil
}

// Create persists a new Item and publishes item.created within the same transaction.
// Returns ErrItemAlreadyExists on unique constraint violations.
func (r *ItemRepository) Create(ctx context.Context, f models.ItemFields) (*models.Item, error) {
	created, err := r.BulkCreate(ctx, []models.ItemFields{f})
	if err != nil {
		return nil, err
	}
	return created[0], nil
}

// BulkCreate inserts every item in one transaction; any failure rolls back all rows.
func (r *ItemRepository) BulkCreate(ctx context.Context, batch []models.ItemFields) ([]*models.Item, error) {
	created := make([]*models.Item, 0, len(batch))
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		q := db.New(tx)
		now := r.now()
		for _, f := range batch {
			row, err := q.InsertItem(ctx, db.InsertItemParams{
				Name:        f.Name,
				Description: f.Description,
				Price:       f.Price.Decimal(),
				Category:    f.Category,
				Stock:       int32(f.Stock), //nolint:gosec // bounded by models.MaxStock
				CreatedAt:   now,
			})
			if err != nil {
				return mapError(err, "insert item")
			}
			item := rowToItem(row)
			if err := r.publish(ctx, tx, domainevents.TopicItemCreated, item, nil); err != nil {
				return err
			}
			created = append(created, item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Update overwrites every mutable field of an existing Item.
func (r *ItemRepository) Update(ctx context.Context, id int64, f models.ItemFields) (*models.Item, error) {
	var item *models.Item
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		row, err := db.New(tx).UpdateItem(ctx, db.UpdateItemParams{
			ID:          id,
			Name:        f.Name,
			Description: f.Description,
			Price:       f.Price.Decimal(),
			Category:    f.Category,
			Stock:       int32(f.Stock), //nolint:gosec // bounded by models.MaxStock
			UpdatedAt:   r.now(),
		})
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return itemdomain.NotFound(id)
			}
			return mapError(err, "update item")
		}
		item = rowToItem(row)
		return r.publish(ctx, tx, domainevents.TopicItemUpdated, item, fieldNames(models.MutableFields))
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// PartialUpdate writes only the fields present in p.
func (r *ItemRepository) PartialUpdate(ctx context.Context, id int64, p models.ItemPatch) (*models.Item, error) {
	query, args, ok := buildPatchQuery(id, p, r.now())
	if !ok {
		return nil, itemdomain.ErrNothingToUpdate
	}

	var item *models.Item
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		row, err := scanItem(tx.QueryRowContext(ctx, query, args...))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return itemdomain.NotFound(id)
			}
			return mapError(err, "patch item")
		}
		item = rowToItem(row)
		return r.publish(ctx, tx, domainevents.TopicItemUpdated, item, fieldNames(p.Fields()))
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// Delete removes an item and returns its last state.
// Returns ErrItemReferenced when a foreign key blocks the delete.
func (r *ItemRepository) Delete(ctx context.Context, id int64) (*models.Item, error) {
	var item *models.Item
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		row, err := db.New(tx).DeleteItem(ctx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return itemdomain.NotFound(id)
			}
			return mapError(err, "delete item")
		}
		item = rowToItem(row)
		return r.publish(ctx, tx, domainevents.TopicItemDeleted, item, nil)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// Categories returns the distinct categories in ascending order.
func (r *ItemRepository) Categories(ctx context.Context) ([]string, error) {
	cats, err := db.New(r.db.DB()).ListCategories(ctx)
	if err != nil {
		return nil, mapError(err, "list categories")
	}
	if cats == nil {
		cats = []string{}
	}
	return cats, nil
}

func (r *ItemRepository) publish(ctx context.Context, tx *sql.Tx, topic string, item *models.Item, fields []string) error {
	if r.bus == nil {
		return nil
	}
	event := domainevents.ItemChangedEvent{
		EventID:    uuid.New(),
		Version:    eventVersion,
		ItemID:     item.ID,
		Name:       item.Name,
		Category:   item.Category,
		Price:      item.Price.String(),
		Stock:      item.Stock,
		Fields:     fields,
		OccurredAt: item.UpdatedAt,
	}
	msg, err := events.NewMessage(ctx, event, map[string]string{
		"event_id":      event.EventID.String(),
		"event_version": strconv.Itoa(eventVersion),
	})
	if err != nil {
		return fmt.Errorf("build %s event: %w", topic, err)
	}
	if err := r.bus.PublishTx(tx, topic, msg); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}
	return nil
}

func fieldNames(fs []models.Field) []string {
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = string(f)
	}
	return out
}

// mapError translates driver errors into domain sentinels. Anything
// unrecognized is wrapped with op.
func mapError(err error, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return itemdomain.ErrItemAlreadyExists
		case "23503":
			return itemdomain.ErrItemReferenced
		case "23502":
			return fmt.Errorf("%w: %s", itemdomain.ErrRequiredField, pgErr.ColumnName)
		case "22003":
			return itemdomain.ErrValueOutOfRange
		case "23514":
			return fmt.Errorf("%w: %s", itemdomain.ErrInvalidItem, pgErr.ConstraintName)
		}
	}
	if errors.Is(err, syscall.ECONNREFUSED) || pgconn.SafeToRetry(err) {
		return fmt.Errorf("%w: %s: %w", itemdomain.ErrStoreUnavailable, op, err)
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return fmt.Errorf("%w: %s: %w", itemdomain.ErrStoreUnavailable, op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(s scanner) (db.Item, error) {
	var i db.Item
	err := s.Scan(
		&i.ID,
		&i.Name,
		&i.Description,
		&i.Price,
		&i.Category,
		&i.Stock,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

// rowToItem maps a db.Item to a domain models.Item.
func rowToItem(row db.Item) *models.Item {
	return &models.Item{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		Price:       models.NewPrice(row.Price),
		Category:    row.Category,
		Stock:       int(row.Stock),
		CreatedAt:   row.CreatedAt.UTC(),
		UpdatedAt:   row.UpdatedAt.UTC(),
	}
}
