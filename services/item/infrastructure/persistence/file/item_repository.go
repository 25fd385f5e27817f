// Package file implements the item repository on a single JSON document.
//
// Every read re-loads the document. Writes are serialized by a process-local
// mutex and replace the document atomically (temp file + rename). There is no
// cross-process locking: concurrent writers in different processes follow
// last-write-wins.
package file

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ghuser/itemcatalog/services/item/domain"
	"github.com/ghuser/itemcatalog/services/item/domain/models"
	"github.com/ghuser/itemcatalog/services/item/domain/repositories"
	"github.com/ghuser/itemcatalog/services/item/infrastructure/persistence/memquery"
)

// ItemRepository implements repositories.ItemRepository on a JSON file.
type ItemRepository struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

// NewItemRepository returns a repository stored at path. The file is created
// on the first write; until then reads are served from the seed items.
func NewItemRepository(path string) *ItemRepository {
	return &ItemRepository{path: path, now: models.Now}
}

var _ repositories.ItemRepository = (*ItemRepository)(nil)

// document is the on-disk layout. NextID only grows, so deleted ids are
// never handed out again.
type document struct {
	NextID int64    `json:"next_id"`
	Items  []record `json:"items"`
}

type record struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Price       models.Price `json:"price"`
	Category    string       `json:"category"`
	Stock       int          `json:"stock"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// legacyRecord also accepts the camelCase timestamps of plain-array files.
type legacyRecord struct {
	record
	CreatedAtCamel *time.Time `json:"createdAt"`
	UpdatedAtCamel *time.Time `json:"updatedAt"`
}

func toRecord(it *models.Item) record {
	return record{
		ID:          it.ID,
		Name:        it.Name,
		Description: it.Description,
		Price:       it.Price,
		Category:    it.Category,
		Stock:       it.Stock,
		CreatedAt:   it.CreatedAt,
		UpdatedAt:   it.UpdatedAt,
	}
}

func (r record) item() *models.Item {
	return &models.Item{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Category:    r.Category,
		Stock:       r.Stock,
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
	}
}

// seedItems are served when the data file does not exist yet.
func seedItems() []*models.Item {
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	seed := []models.ItemFields{
		{Name: "Laptop Gaming", Description: "High-performance gaming laptop with RTX graphics", Price: models.MustParsePrice("15000000"), Category: "electronics", Stock: 5},
		{Name: "Wireless Mouse", Description: "Ergonomic wireless mouse with RGB lighting", Price: models.MustParsePrice("250000"), Category: "accessories", Stock: 20},
		{Name: "Mechanical Keyboard", Description: "RGB mechanical keyboard with blue switches", Price: models.MustParsePrice("800000"), Category: "accessories", Stock: 15},
	}
	items := make([]*models.Item, len(seed))
	for i, f := range seed {
		items[i] = models.NewItem(int64(i+1), f, at)
	}
	return items
}

// load reads the current document. A missing file yields the seed items.
func (r *ItemRepository) load() ([]*models.Item, int64, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		items := seedItems()
		return items, nextID(items), nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("read items file: %w", err)
	}
	return decode(data)
}

func decode(data []byte) ([]*models.Item, int64, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return []*models.Item{}, 1, nil
	}

	if trimmed[0] == '[' {
		var legacy []legacyRecord
		if err := json.Unmarshal(trimmed, &legacy); err != nil {
			return nil, 0, fmt.Errorf("decode items file: %w", err)
		}
		items := make([]*models.Item, len(legacy))
		for i, l := range legacy {
			rec := l.record
			if l.CreatedAtCamel != nil && rec.CreatedAt.IsZero() {
				rec.CreatedAt = *l.CreatedAtCamel
			}
			if l.UpdatedAtCamel != nil && rec.UpdatedAt.IsZero() {
				rec.UpdatedAt = *l.UpdatedAtCamel
			}
			items[i] = rec.item()
		}
		return items, nextID(items), nil
	}

	var doc document
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, 0, fmt.Errorf("decode items file: %w", err)
	}
	items := make([]*models.Item, len(doc.Items))
	for i, rec := range doc.Items {
		items[i] = rec.item()
	}
	return items, max(doc.NextID, nextID(items)), nil
}

func nextID(items []*models.Item) int64 {
	var top int64
	for _, it := range items {
		top = max(top, it.ID)
	}
	return top + 1
}

// save writes the document to a temp file in the same directory and renames
// it over the data file.
func (r *ItemRepository) save(items []*models.Item, next int64) error {
	doc := document{NextID: next, Items: make([]record, len(items))}
	for i, it := range items {
		doc.Items[i] = toRecord(it)
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode items file: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".items-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // no-op after a successful rename

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("replace items file: %w", err)
	}
	return nil
}

// mutate runs fn on the loaded items under the write lock and saves the
// result when fn succeeds.
func (r *ItemRepository) mutate(ctx context.Context, fn func(items []*models.Item, next int64) ([]*models.Item, int64, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	items, next, err := r.load()
	if err != nil {
		return err
	}
	items, next, err = fn(items, next)
	if err != nil {
		return err
	}
	return r.save(items, next)
}

func (r *ItemRepository) read(ctx context.Context) ([]*models.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	items, _, err := r.load()
	return items, err
}

func indexOf(items []*models.Item, id int64) int {
	for i, it := range items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// nameTaken reports whether an item other than exceptID already uses name.
func nameTaken(items []*models.Item, name string, exceptID int64) bool {
	for _, it := range items {
		if it.Name == name && it.ID != exceptID {
			return true
		}
	}
	return false
}

// List returns one page of items matching opts.
func (r *ItemRepository) List(ctx context.Context, opts repositories.ListOptions) ([]*models.Item, error) {
	items, err := r.read(ctx)
	if err != nil {
		return nil, err
	}
	return memquery.Select(items, opts), nil
}

// Count returns the number of items matching f.
func (r *ItemRepository) Count(ctx context.Context, f repositories.Filter) (int, error) {
	items, err := r.read(ctx)
	if err != nil {
		return 0, err
	}
	return memquery.Count(items, f), nil
}

func (r *ItemRepository) FindByID(ctx context.Context, id int64) (*models.Item, error) {
	items, err := r.read(ctx)
	if err != nil {
		return nil, err
	}
	if i := indexOf(items, id); i >= 0 {
		return items[i], nil
	}
	return nil, domain.NotFound(id)
}

func (r *ItemRepository) Exists(ctx context.Context, id int64) (bool, error) {
	items, err := r.read(ctx)
	if err != nil {
		return false, err
	}
	return indexOf(items, id) >= 0, nil
}

func (r *ItemRepository) Create(ctx context.Context, f models.ItemFields) (*models.Item, error) {
	created, err := r.BulkCreate(ctx, []models.ItemFields{f})
	if err != nil {
		return nil, err
	}
	return created[0], nil
}

// BulkCreate appends every item in one write. A name already stored or
// repeated within the batch fails the whole batch with ErrItemAlreadyExists.
func (r *ItemRepository) BulkCreate(ctx context.Context, batch []models.ItemFields) ([]*models.Item, error) {
	var created []*models.Item
	err := r.mutate(ctx, func(items []*models.Item, next int64) ([]*models.Item, int64, error) {
		now := r.now()
		created = make([]*models.Item, 0, len(batch))
		for _, f := range batch {
			if nameTaken(items, f.Name, 0) {
				return nil, 0, domain.ErrItemAlreadyExists
			}
			it := models.NewItem(next, f, now)
			next++
			items = append(items, it)
			created = append(created, it.Clone())
		}
		return items, next, nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *ItemRepository) Update(ctx context.Context, id int64, f models.ItemFields) (*models.Item, error) {
	return r.change(ctx, id, func(it *models.Item, now time.Time) { it.Replace(f, now) })
}

func (r *ItemRepository) PartialUpdate(ctx context.Context, id int64, p models.ItemPatch) (*models.Item, error) {
	if p.IsEmpty() {
		return nil, domain.ErrNothingToUpdate
	}
	return r.change(ctx, id, func(it *models.Item, now time.Time) { it.Apply(p, now) })
}

func (r *ItemRepository) change(ctx context.Context, id int64, apply func(*models.Item, time.Time)) (*models.Item, error) {
	var updated *models.Item
	err := r.mutate(ctx, func(items []*models.Item, next int64) ([]*models.Item, int64, error) {
		i := indexOf(items, id)
		if i < 0 {
			return nil, 0, domain.NotFound(id)
		}
		changed := items[i].Clone()
		apply(changed, r.now())
		if nameTaken(items, changed.Name, id) {
			return nil, 0, domain.ErrItemAlreadyExists
		}
		items[i] = changed
		updated = changed.Clone()
		return items, next, nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the item. Its id is not reused.
func (r *ItemRepository) Delete(ctx context.Context, id int64) (*models.Item, error) {
	var deleted *models.Item
	err := r.mutate(ctx, func(items []*models.Item, next int64) ([]*models.Item, int64, error) {
		i := indexOf(items, id)
		if i < 0 {
			return nil, 0, domain.NotFound(id)
		}
		deleted = items[i]
		return append(items[:i], items[i+1:]...), next, nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

func (r *ItemRepository) Categories(ctx context.Context) ([]string, error) {
	items, err := r.read(ctx)
	if err != nil {
		return nil, err
	}
	return memquery.Categories(items), nil
}
