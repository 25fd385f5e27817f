package validation

import (
	"net/url"
	"reflect"
	"testing"

	"github.com/ghuser/itemcatalog/services/item/domain/repositories"
)

func TestValidateQuery_Defaults(t *testing.T) {
	opts, err := ValidateQuery(url.Values{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts != repositories.DefaultListOptions() {
		t.Fatalf("got %+v, want defaults", opts)
	}
}

func TestValidateQuery_Valid(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  repositories.ListOptions
	}{
		{
			name:  "category and lowercase sort order",
			query: "category=accessories&sortBy=price&sortOrder=asc",
			want: repositories.ListOptions{
				Filter: repositories.Filter{Category: "accessories"},
				SortBy: repositories.SortByPrice, SortOrder: repositories.SortAsc, Limit: 50,
			},
		},
		{
			name:  "page derives offset",
			query: "page=3&limit=10",
			want: repositories.ListOptions{
				SortBy: repositories.SortByCreatedAt, SortOrder: repositories.SortDesc, Limit: 10, Offset: 20,
			},
		},
		{
			name:  "explicit offset wins over page",
			query: "page=3&limit=10&offset=5",
			want: repositories.ListOptions{
				SortBy: repositories.SortByCreatedAt, SortOrder: repositories.SortDesc, Limit: 10, Offset: 5,
			},
		},
		{
			name:  "page with default limit",
			query: "page=2",
			want: repositories.ListOptions{
				SortBy: repositories.SortByCreatedAt, SortOrder: repositories.SortDesc, Limit: 50, Offset: 50,
			},
		},
		{
			name:  "derived offset capped",
			query: "page=2147483647&limit=100",
			want: repositories.ListOptions{
				SortBy: repositories.SortByCreatedAt, SortOrder: repositories.SortDesc, Limit: 100, Offset: repositories.MaxOffset,
			},
		},
		{
			name:  "search and mixed case order",
			query: "search=Mouse&sortOrder=Desc&sortBy=name",
			want: repositories.ListOptions{
				Filter: repositories.Filter{Search: "Mouse"},
				SortBy: repositories.SortByName, SortOrder: repositories.SortDesc, Limit: 50,
			},
		},
		{
			name:  "unknown params ignored",
			query: "limit=2&foo=bar",
			want: repositories.ListOptions{
				SortBy: repositories.SortByCreatedAt, SortOrder: repositories.SortDesc, Limit: 2,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, _ := url.ParseQuery(tt.query)
			got, err := ValidateQuery(q)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestValidateQuery_Errors(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"limit above cap", "limit=101", []string{"limit: Must be less than or equal to 100"}},
		{"limit zero", "limit=0", []string{"limit: Must be greater than or equal to 1"}},
		{"negative offset", "offset=-1", []string{"offset: Must be greater than or equal to 0"}},
		{"page zero", "page=0", []string{"page: Must be greater than or equal to 1"}},
		{"non numeric limit", "limit=ten", []string{"limit: Must be a number"}},
		{"fractional limit", "limit=2.5", []string{"limit: Must be an integer"}},
		{"empty limit", "limit=", []string{"limit: Must be a number"}},
		{"sortBy outside whitelist", "sortBy=description", []string{"sortBy: Must be one of [id, name, price, category, stock, created_at, updated_at]"}},
		{"sortBy injection", "sortBy=name%3B+DROP+TABLE+items", []string{"sortBy: Must be one of [id, name, price, category, stock, created_at, updated_at]"}},
		{"bad sort order", "sortOrder=up", []string{"sortOrder: Must be one of [ASC, DESC]"}},
		{"long search", "search=" + repeat("s", 101), []string{"search: Maximum length is 100"}},
		{"long category", "category=" + repeat("c", 51), []string{"category: Maximum length is 50"}},
		{"empty category", "category=", []string{"category: Must not be empty"}},
		{"repeated limit", "limit=1&limit=2", []string{"limit: Must be a single value"}},
		{
			"collects all in order",
			"sortOrder=x&limit=500&sortBy=y&offset=z",
			[]string{
				"limit: Must be less than or equal to 100",
				"offset: Must be a number",
				"sortBy: Must be one of [id, name, price, category, stock, created_at, updated_at]",
				"sortOrder: Must be one of [ASC, DESC]",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatalf("bad test query: %v", err)
			}
			_, err = ValidateQuery(q)
			if got := details(t, err); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("details mismatch\n got: %q\nwant: %q", got, tt.want)
			}
		})
	}
}

func repeat(s string, n int) string {
	out := make([]byte, 0, len(s)*n)
	for i := 0; i < n; i++ {
		out = append(out, s...)
	}
	return string(out)
}
