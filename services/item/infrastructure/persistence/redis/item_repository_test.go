package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/ghuser/itemcatalog/pkg/redisdb"
	itemdomain "github.com/ghuser/itemcatalog/services/item/domain"
	"github.com/ghuser/itemcatalog/services/item/domain/models"
	"github.com/ghuser/itemcatalog/services/item/domain/repositories"
)

func setupRepo(t *testing.T) (*ItemRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	repo := NewItemRepository(redisdb.Wrap(client))
	tick := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.now = func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}
	return repo, mr
}

func sample(name, category, price string, stock int) models.ItemFields {
	return models.ItemFields{Name: name, Price: models.MustParsePrice(price), Category: category, Stock: stock}
}

func TestItemRepository_CreateAndFind(t *testing.T) {
	repo, mr := setupRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, models.ItemFields{
		Name: "Wireless Mouse", Description: "2.4GHz", Price: models.MustParsePrice("250000"),
		Category: "accessories", Stock: 20,
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), created.ID)
	require.True(t, created.CreatedAt.Equal(created.UpdatedAt))

	require.Equal(t, "250000.00", mr.HGet("item:1", "price"))
	require.Equal(t, "1", mr.HGet(keyNames, "Wireless Mouse"))

	got, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Wireless Mouse", got.Name)
	require.Equal(t, "2.4GHz", got.Description)
	require.True(t, got.Price.Equal(created.Price))
	require.Equal(t, 20, got.Stock)
	require.True(t, got.CreatedAt.Equal(created.CreatedAt))

	exists, err := repo.Exists(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, exists)

	_, err = repo.FindByID(ctx, 99)
	var nf *itemdomain.NotFoundError
	require.ErrorAs(t, err, &nf)
	require.Equal(t, int64(99), nf.ID)
}

func TestItemRepository_UniqueNames(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, sample("Laptop", "electronics", "10", 1))
	require.NoError(t, err)

	_, err = repo.Create(ctx, sample("Laptop", "electronics", "12", 1))
	require.ErrorIs(t, err, itemdomain.ErrItemAlreadyExists)

	_, err = repo.BulkCreate(ctx, []models.ItemFields{
		sample("Pen", "office", "1", 1),
		sample("Pen", "office", "1", 1),
	})
	require.ErrorIs(t, err, itemdomain.ErrItemAlreadyExists)

	total, err := repo.Count(ctx, repositories.Filter{})
	require.NoError(t, err)
	require.Equal(t, 1, total, "a rejected batch must write nothing")
}

func TestItemRepository_BulkCreate(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	created, err := repo.BulkCreate(ctx, []models.ItemFields{
		sample("A", "x", "1", 1),
		sample("B", "y", "2", 2),
		sample("C", "x", "3", 3),
	})
	require.NoError(t, err)
	require.Len(t, created, 3)
	for i, it := range created {
		require.Equal(t, int64(i+1), it.ID)
	}

	empty, err := repo.BulkCreate(ctx, nil)
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestItemRepository_UpdateAndPatch(t *testing.T) {
	repo, mr := setupRepo(t)
	ctx := context.Background()

	a, err := repo.Create(ctx, sample("Old", "x", "5", 1))
	require.NoError(t, err)
	_, err = repo.Create(ctx, sample("Taken", "x", "5", 1))
	require.NoError(t, err)

	replaced, err := repo.Update(ctx, a.ID, sample("New", "y", "7.5", 4))
	require.NoError(t, err)
	require.Equal(t, "New", replaced.Name)
	require.Equal(t, "7.50", replaced.Price.String())
	require.True(t, replaced.CreatedAt.Equal(a.CreatedAt))
	require.True(t, replaced.UpdatedAt.After(a.UpdatedAt))
	require.Empty(t, mr.HGet(keyNames, "Old"), "old name must be released")
	require.Equal(t, "1", mr.HGet(keyNames, "New"))

	taken := "Taken"
	_, err = repo.PartialUpdate(ctx, a.ID, models.ItemPatch{Name: &taken})
	require.ErrorIs(t, err, itemdomain.ErrItemAlreadyExists)

	stock := 0
	patched, err := repo.PartialUpdate(ctx, a.ID, models.ItemPatch{Stock: &stock})
	require.NoError(t, err)
	require.Equal(t, 0, patched.Stock)
	require.Equal(t, "New", patched.Name)

	same := "New"
	_, err = repo.PartialUpdate(ctx, a.ID, models.ItemPatch{Name: &same})
	require.NoError(t, err, "keeping the own name is not a conflict")

	_, err = repo.PartialUpdate(ctx, a.ID, models.ItemPatch{})
	require.ErrorIs(t, err, itemdomain.ErrNothingToUpdate)

	_, err = repo.Update(ctx, 42, sample("Ghost", "x", "1", 1))
	require.ErrorIs(t, err, itemdomain.ErrItemNotFound)
	_, err = repo.PartialUpdate(ctx, 42, models.ItemPatch{Stock: &stock})
	require.ErrorIs(t, err, itemdomain.ErrItemNotFound)
}

func TestItemRepository_Delete(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	a, err := repo.Create(ctx, sample("Lamp", "home", "30", 2))
	require.NoError(t, err)

	deleted, err := repo.Delete(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, "Lamp", deleted.Name)

	_, err = repo.Delete(ctx, a.ID)
	require.ErrorIs(t, err, itemdomain.ErrItemNotFound)

	exists, err := repo.Exists(ctx, a.ID)
	require.NoError(t, err)
	require.False(t, exists)

	again, err := repo.Create(ctx, sample("Lamp", "home", "30", 2))
	require.NoError(t, err, "a deleted item's name is free again")
	require.Equal(t, int64(2), again.ID, "ids are never reused")
}

func TestItemRepository_ListCountCategories(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	cats, err := repo.Categories(ctx)
	require.NoError(t, err)
	require.NotNil(t, cats)
	require.Empty(t, cats)

	_, err = repo.BulkCreate(ctx, []models.ItemFields{
		sample("Laptop Gaming", "electronics", "15000000", 5),
		sample("Wireless Mouse", "accessories", "250000", 20),
		sample("Mechanical Keyboard", "accessories", "800000", 15),
	})
	require.NoError(t, err)

	items, err := repo.List(ctx, repositories.ListOptions{
		Filter: repositories.Filter{Category: "accessories"},
		SortBy: repositories.SortByPrice, SortOrder: repositories.SortDesc, Limit: 1,
	})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "Mechanical Keyboard", items[0].Name)

	total, err := repo.Count(ctx, repositories.Filter{Search: "mouse"})
	require.NoError(t, err)
	require.Equal(t, 1, total)

	cats, err = repo.Categories(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"accessories", "electronics"}, cats)
}

func TestItemRepository_CorruptHash(t *testing.T) {
	repo, mr := setupRepo(t)
	mr.HSet("item:1", "name", "Broken", "price", "abc", "stock", "1",
		"created_at", "2024-01-01T00:00:00Z", "updated_at", "2024-01-01T00:00:00Z")
	_, err := mr.SAdd(keyIDs, "1")
	require.NoError(t, err)

	_, err = repo.List(context.Background(), repositories.DefaultListOptions())
	require.Error(t, err)
	require.False(t, errors.Is(err, itemdomain.ErrStoreUnavailable))
}

func TestItemRepository_StoreUnavailable(t *testing.T) {
	repo, mr := setupRepo(t)
	mr.Close()

	_, err := repo.FindByID(context.Background(), 1)
	require.ErrorIs(t, err, itemdomain.ErrStoreUnavailable)

	_, err = repo.Create(context.Background(), sample("X", "y", "1", 1))
	require.ErrorIs(t, err, itemdomain.ErrStoreUnavailable)
}

func TestMapError(t *testing.T) {
	require.ErrorIs(t, mapError(itemdomain.NotFound(3), "op"), itemdomain.ErrItemNotFound)
	require.ErrorIs(t, mapError(itemdomain.ErrItemAlreadyExists, "op"), itemdomain.ErrItemAlreadyExists)

	err := mapError(redis.TxFailedErr, "update item")
	require.ErrorIs(t, err, redis.TxFailedErr)
	require.EqualError(t, err, "update item: redis: transaction failed")
}
