package repositories

import (
	"context"
	"math"

	"github.com/ghuser/itemcatalog/services/item/domain/models"
)

// Pagination bounds for list queries.
const (
	DefaultLimit = 50
	MaxLimit     = 100
	MaxOffset    = math.MaxInt32
)

// SortField is a whitelisted column a list may be ordered by.
type SortField string

const (
	SortByID        SortField = "id"
	SortByName      SortField = "name"
	SortByPrice     SortField = "price"
	SortByCategory  SortField = "category"
	SortByStock     SortField = "stock"
	SortByCreatedAt SortField = "created_at"
	SortByUpdatedAt SortField = "updated_at"
)

// SortFields is the complete whitelist, in documentation order.
var SortFields = []SortField{SortByID, SortByName, SortByPrice, SortByCategory, SortByStock, SortByCreatedAt, SortByUpdatedAt}

// Valid reports whether f is on the whitelist.
func (f SortField) Valid() bool {
	for _, s := range SortFields {
		if f == s {
			return true
		}
	}
	return false
}

// SortOrder is ASC or DESC.
type SortOrder string

const (
	SortAsc  SortOrder = "ASC"
	SortDesc SortOrder = "DESC"
)

func (o SortOrder) Valid() bool { return o == SortAsc || o == SortDesc }

// Filter narrows a list or count. Zero values mean "no filter".
type Filter struct {
	Category string // exact match
	Search   string // case-insensitive substring of name or description
}

// ListOptions contains filter, sort and pagination parameters for list queries.
type ListOptions struct {
	Filter    Filter
	SortBy    SortField
	SortOrder SortOrder
	Limit     int // Maximum number of records to return
	Offset    int // Number of records to skip
}

// DefaultListOptions returns the options used when a caller supplies none.
func DefaultListOptions() ListOptions {
	return ListOptions{
		SortBy:    SortByCreatedAt,
		SortOrder: SortDesc,
		Limit:     DefaultLimit,
	}
}

// Normalize clamps out-of-range values so a repository never runs an
// unbounded or unsafe query, whatever the caller passed.
func (o ListOptions) Normalize() ListOptions {
	switch {
	case o.Limit <= 0:
		o.Limit = DefaultLimit
	case o.Limit > MaxLimit:
		o.Limit = MaxLimit
	}
	switch {
	case o.Offset < 0:
		o.Offset = 0
	case o.Offset > MaxOffset:
		o.Offset = MaxOffset
	}
	if !o.SortBy.Valid() {
		o.SortBy = SortByCreatedAt
	}
	if !o.SortOrder.Valid() {
		o.SortOrder = SortDesc
	}
	return o
}

// ItemRepository is the persistence interface for the Item aggregate.
// The domain layer owns this interface; infrastructure implements it.
//
// Absence is reported as a *domain.NotFoundError (errors.Is ErrItemNotFound),
// never as a nil item with a nil error.
type ItemRepository interface {
	// List returns one page of items matching opts.Filter.
	List(ctx context.Context, opts ListOptions) ([]*models.Item, error)

	// Count returns the number of items matching f, ignoring pagination.
	Count(ctx context.Context, f Filter) (int, error)

	FindByID(ctx context.Context, id int64) (*models.Item, error)
	Exists(ctx context.Context, id int64) (bool, error)

	// Create assigns an id and both timestamps.
	Create(ctx context.Context, f models.ItemFields) (*models.Item, error)

	// BulkCreate persists all items or none.
	BulkCreate(ctx context.Context, fs []models.ItemFields) ([]*models.Item, error)

	// Update overwrites every mutable field.
	Update(ctx context.Context, id int64, f models.ItemFields) (*models.Item, error)

	// PartialUpdate overwrites the fields present in p. Returns
	// domain.ErrNothingToUpdate when p is empty.
	PartialUpdate(ctx context.Context, id int64, p models.ItemPatch) (*models.Item, error)

	// Delete removes the item and returns its last state.
	Delete(ctx context.Context, id int64) (*models.Item, error)

	// Categories returns the distinct categories in ascending order.
	Categories(ctx context.Context) ([]string, error)
}
