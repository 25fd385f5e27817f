package services

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/ghuser/itemcatalog/pkg/logger"
	itemdomain "github.com/ghuser/itemcatalog/services/item/domain"
	"github.com/ghuser/itemcatalog/services/item/domain/models"
	"github.com/ghuser/itemcatalog/services/item/domain/repositories"
	domainsvcs "github.com/ghuser/itemcatalog/services/item/domain/services"
)

var tracer = otel.Tracer("github.com/ghuser/itemcatalog/services/item")

// Pagination describes where a page sits in the full matching set.
type Pagination struct {
	CurrentPage int  `json:"currentPage" example:"1"`
	TotalPages  int  `json:"totalPages" example:"3"`
	TotalCount  int  `json:"totalCount" example:"120"`
	Limit       int  `json:"limit" example:"50"`
	Offset      int  `json:"offset" example:"0"`
	HasNextPage bool `json:"hasNextPage" example:"true"`
	HasPrevPage bool `json:"hasPrevPage" example:"false"`
} // @name Pagination

// ListResult is one page of items plus its pagination.
type ListResult struct {
	Items      []*models.Item
	Pagination Pagination
}

// NewPagination derives page numbers from a total count and normalized options.
func NewPagination(total int, opts repositories.ListOptions) Pagination {
	opts = opts.Normalize()
	totalPages := (total + opts.Limit - 1) / opts.Limit
	current := opts.Offset/opts.Limit + 1
	return Pagination{
		CurrentPage: current,
		TotalPages:  totalPages,
		TotalCount:  total,
		Limit:       opts.Limit,
		Offset:      opts.Offset,
		HasNextPage: current < totalPages,
		HasPrevPage: current > 1,
	}
}

// ItemService orchestrates item reads and writes. Inputs arrive already
// validated; domain invariants are re-checked before every write. Event
// publishing is handled by the repository layer (outbox pattern).
type ItemService struct {
	repo repositories.ItemRepository
	log  logger.Logger
}

// NewItemService returns an ItemService wired with the given repository.
func NewItemService(repo repositories.ItemRepository, log logger.Logger) *ItemService {
	return &ItemService{repo: repo, log: log.With("component", "item_service")}
}

// List fetches one page and the total matching count concurrently.
func (s *ItemService) List(ctx context.Context, opts repositories.ListOptions) (*ListResult, error) {
	ctx, span := s.start(ctx, "List",
		attribute.Int("item.limit", opts.Limit),
		attribute.Int("item.offset", opts.Offset),
		attribute.String("item.sort_by", string(opts.SortBy)),
	)
	defer span.End()

	opts = opts.Normalize()

	var (
		items []*models.Item
		total int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.repo.List(gctx, opts)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.repo.Count(gctx, opts.Filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, s.fail(ctx, span, "list items", err)
	}

	return &ListResult{Items: items, Pagination: NewPagination(total, opts)}, nil
}

// Get returns the item with id or a NotFoundError.
func (s *ItemService) Get(ctx context.Context, id int64) (*models.Item, error) {
	ctx, span := s.start(ctx, "Get", attribute.Int64("item.id", id))
	defer span.End()

	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, span, "get item", err)
	}
	return item, nil
}

// Categories returns the distinct categories in ascending order.
func (s *ItemService) Categories(ctx context.Context) ([]string, error) {
	ctx, span := s.start(ctx, "Categories")
	defer span.End()

	cats, err := s.repo.Categories(ctx)
	if err != nil {
		return nil, s.fail(ctx, span, "list categories", err)
	}
	return cats, nil
}

// Create persists a new item. The repository assigns id and timestamps.
func (s *ItemService) Create(ctx context.Context, f models.ItemFields) (*models.Item, error) {
	ctx, span := s.start(ctx, "Create")
	defer span.End()

	if err := domainsvcs.ValidateFields(f); err != nil {
		return nil, s.fail(ctx, span, "create item", err)
	}
	item, err := s.repo.Create(ctx, f)
	if err != nil {
		return nil, s.fail(ctx, span, "create item", err)
	}
	span.SetAttributes(attribute.Int64("item.id", item.ID))
	return item, nil
}

// BulkCreate persists every item or none.
func (s *ItemService) BulkCreate(ctx context.Context, batch []models.ItemFields) ([]*models.Item, error) {
	ctx, span := s.start(ctx, "BulkCreate", attribute.Int("item.count", len(batch)))
	defer span.End()

	for i, f := range batch {
		if err := domainsvcs.ValidateFields(f); err != nil {
			return nil, s.fail(ctx, span, "bulk create items", fmt.Errorf("item %d: %w", i, err))
		}
	}
	items, err := s.repo.BulkCreate(ctx, batch)
	if err != nil {
		return nil, s.fail(ctx, span, "bulk create items", err)
	}
	return items, nil
}

// Replace overwrites every mutable field of item id.
func (s *ItemService) Replace(ctx context.Context, id int64, f models.ItemFields) (*models.Item, error) {
	ctx, span := s.start(ctx, "Replace", attribute.Int64("item.id", id))
	defer span.End()

	if err := domainsvcs.ValidateFields(f); err != nil {
		return nil, s.fail(ctx, span, "replace item", err)
	}
	item, err := s.repo.Update(ctx, id, f)
	if err != nil {
		return nil, s.fail(ctx, span, "replace item", err)
	}
	return item, nil
}

// Patch overwrites the fields present in p.
func (s *ItemService) Patch(ctx context.Context, id int64, p models.ItemPatch) (*models.Item, error) {
	ctx, span := s.start(ctx, "Patch", attribute.Int64("item.id", id))
	defer span.End()

	if err := domainsvcs.ValidatePatch(p); err != nil {
		return nil, s.fail(ctx, span, "patch item", err)
	}
	item, err := s.repo.PartialUpdate(ctx, id, p)
	if err != nil {
		return nil, s.fail(ctx, span, "patch item", err)
	}
	return item, nil
}

// Delete removes item id and returns its last state.
func (s *ItemService) Delete(ctx context.Context, id int64) (*models.Item, error) {
	ctx, span := s.start(ctx, "Delete", attribute.Int64("item.id", id))
	defer span.End()

	item, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, span, "delete item", err)
	}
	return item, nil
}

func (s *ItemService) start(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, "ItemService."+op, trace.WithAttributes(attrs...))
}

// fail records err on the span, logs it and wraps it with op. Caller
// mistakes (missing item, duplicate name, invalid fields) are logged at warn.
// Error classification is left to errhttp, so sentinels stay reachable via
// errors.Is.
func (s *ItemService) fail(ctx context.Context, span trace.Span, op string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, op)
	if isClientError(err) {
		s.log.WarnContext(ctx, op+" rejected", "error", err)
	} else {
		s.log.ErrorContext(ctx, op+" failed", "error", err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isClientError(err error) bool {
	for _, target := range []error{
		itemdomain.ErrItemNotFound,
		itemdomain.ErrItemAlreadyExists,
		itemdomain.ErrItemReferenced,
		itemdomain.ErrInvalidItem,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
