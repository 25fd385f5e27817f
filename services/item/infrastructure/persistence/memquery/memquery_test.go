package memquery

import (
	"reflect"
	"testing"
	"time"

	"github.com/ghuser/itemcatalog/services/item/domain/models"
	"github.com/ghuser/itemcatalog/services/item/domain/repositories"
)

func fixture() []*models.Item {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	mk := func(id int64, name, desc, price, cat string, stock int, age time.Duration) *models.Item {
		return &models.Item{
			ID: id, Name: name, Description: desc, Price: models.MustParsePrice(price),
			Category: cat, Stock: stock, CreatedAt: base.Add(age), UpdatedAt: base.Add(age),
		}
	}
	return []*models.Item{
		mk(1, "Laptop Gaming", "Fast laptop", "15000000", "electronics", 5, 0),
		mk(2, "Wireless Mouse", "Ergonomic", "250000", "accessories", 20, time.Hour),
		mk(3, "Mechanical Keyboard", "100%_clicky", "800000", "accessories", 15, 2*time.Hour),
		mk(4, "USB Cable", "", "250000", "accessories", 100, 2*time.Hour),
	}
}

func ids(items []*models.Item) []int64 {
	out := make([]int64, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestSelect(t *testing.T) {
	tests := []struct {
		name string
		opts repositories.ListOptions
		want []int64
	}{
		{
			name: "defaults order newest first with id tie break",
			opts: repositories.DefaultListOptions(),
			want: []int64{4, 3, 2, 1},
		},
		{
			name: "price ascending ties by id",
			opts: repositories.ListOptions{SortBy: repositories.SortByPrice, SortOrder: repositories.SortAsc, Limit: 10},
			want: []int64{2, 4, 3, 1},
		},
		{
			name: "category filter",
			opts: repositories.ListOptions{Filter: repositories.Filter{Category: "electronics"}, Limit: 10},
			want: []int64{1},
		},
		{
			name: "search is case insensitive over name and description",
			opts: repositories.ListOptions{Filter: repositories.Filter{Search: "ERGO"}, Limit: 10},
			want: []int64{2},
		},
		{
			name: "search treats wildcards literally",
			opts: repositories.ListOptions{Filter: repositories.Filter{Search: "%_"}, SortBy: repositories.SortByID, SortOrder: repositories.SortAsc, Limit: 10},
			want: []int64{3},
		},
		{
			name: "paging",
			opts: repositories.ListOptions{SortBy: repositories.SortByID, SortOrder: repositories.SortAsc, Limit: 2, Offset: 1},
			want: []int64{2, 3},
		},
		{
			name: "offset beyond end",
			opts: repositories.ListOptions{Limit: 2, Offset: 10},
			want: []int64{},
		},
		{
			name: "invalid options are normalized",
			opts: repositories.ListOptions{SortBy: "description", SortOrder: "sideways", Limit: 1000, Offset: -3},
			want: []int64{4, 3, 2, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Select(fixture(), tt.opts))
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSelect_ReturnsCopies(t *testing.T) {
	items := fixture()
	page := Select(items, repositories.DefaultListOptions())
	page[0].Name = "changed"
	for _, it := range items {
		if it.Name == "changed" {
			t.Fatal("Select must not hand out stored items")
		}
	}
}

func TestCount(t *testing.T) {
	if got := Count(fixture(), repositories.Filter{Category: "accessories"}); got != 3 {
		t.Fatalf("got %d, want 3", got)
	}
	if got := Count(fixture(), repositories.Filter{}); got != 4 {
		t.Fatalf("got %d, want 4", got)
	}
}

func TestCategories(t *testing.T) {
	got := Categories(fixture())
	want := []string{"accessories", "electronics"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if got := Categories(nil); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}
