package repository

import (
	"reflect"
	"testing"

	"product-catalog/internal/catalog"

	"github.com/shopspring/decimal"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestBuildWhere(t *testing.T) {
	tests := []struct {
		name     string
		query    catalog.ListQuery
		want     string
		wantArgs []any
	}{
		{
			name:  "no filters",
			query: catalog.ListQuery{},
			want:  "",
		},
		{
			name:     "category only",
			query:    catalog.ListQuery{Category: "Tools"},
			want:     " WHERE category = $1",
			wantArgs: []any{"Tools"},
		},
		{
			name:  "search spans all four columns with one arg",
			query: catalog.ListQuery{Search: "widget"},
			want: " WHERE (name ILIKE $1 OR description ILIKE $1" +
				" OR sku ILIKE $1 OR category ILIKE $1)",
			wantArgs: []any{"%widget%"},
		},
		{
			name:     "price bounds",
			query:    catalog.ListQuery{MinPrice: dec("5"), MaxPrice: dec("10")},
			want:     " WHERE price >= $1 AND price <= $2",
			wantArgs: []any{*dec("5"), *dec("10")},
		},
		{
			name:  "all filters keep positional order",
			query: catalog.ListQuery{Category: "Tools", Search: "w", MinPrice: dec("1"), MaxPrice: dec("2")},
			want: " WHERE category = $1 AND (name ILIKE $2 OR description ILIKE $2" +
				" OR sku ILIKE $2 OR category ILIKE $2) AND price >= $3 AND price <= $4",
			wantArgs: []any{"Tools", "%w%", *dec("1"), *dec("2")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, args := buildWhere(tt.query)
			if got != tt.want {
				t.Fatalf("want %q, got %q", tt.want, got)
			}
			if len(tt.wantArgs) == 0 {
				if len(args) != 0 {
					t.Fatalf("want no args, got %v", args)
				}
				return
			}
			if !reflect.DeepEqual(args, tt.wantArgs) {
				t.Fatalf("want args %v, got %v", tt.wantArgs, args)
			}
		})
	}
}

func TestBuildOrderBy(t *testing.T) {
	tests := []struct {
		name  string
		query catalog.ListQuery
		want  string
	}{
		{
			name:  "createdAt desc",
			query: catalog.ListQuery{SortBy: catalog.SortByCreatedAt, SortOrder: catalog.SortDesc},
			want:  " ORDER BY created_at DESC, id",
		},
		{
			name:  "price asc",
			query: catalog.ListQuery{SortBy: catalog.SortByPrice, SortOrder: catalog.SortAsc},
			want:  " ORDER BY price ASC, id",
		},
		{
			name:  "camelCase field maps to snake_case column",
			query: catalog.ListQuery{SortBy: catalog.SortByUpdatedAt, SortOrder: catalog.SortAsc},
			want:  " ORDER BY updated_at ASC, id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := buildOrderBy(tt.query); got != tt.want {
				t.Fatalf("want %q, got %q", tt.want, got)
			}
		})
	}
}

func TestSortColumnsCoverWhitelist(t *testing.T) {
	fields := []catalog.SortField{
		catalog.SortByName, catalog.SortByPrice, catalog.SortByCreatedAt,
		catalog.SortByUpdatedAt, catalog.SortByCategory, catalog.SortByQuantity,
	}
	for _, f := range fields {
		if _, ok := sortColumns[f]; !ok {
			t.Fatalf("sort field %q has no column mapping", f)
		}
	}
}

func TestLikePattern(t *testing.T) {
	tests := []struct {
		term string
		want string
	}{
		{"widget", "%widget%"},
		{"100%", `%100\%%`},
		{"a_b", `%a\_b%`},
		{`back\slash`, `%back\\slash%`},
	}

	for _, tt := range tests {
		if got := likePattern(tt.term); got != tt.want {
			t.Fatalf("likePattern(%q): want %q, got %q", tt.term, tt.want, got)
		}
	}
}
