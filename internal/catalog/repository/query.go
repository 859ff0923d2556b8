package repository

import (
	"fmt"
	"strings"

	"product-catalog/internal/catalog"
)

// sortColumns whitelists the sortable columns. User input never reaches a
// SQL identifier directly.
var sortColumns = map[catalog.SortField]string{
	catalog.SortByName:      "name",
	catalog.SortByPrice:     "price",
	catalog.SortByCreatedAt: "created_at",
	catalog.SortByUpdatedAt: "updated_at",
	catalog.SortByCategory:  "category",
	catalog.SortByQuantity:  "quantity",
}

// searchColumns are the fields a substring search matches against.
var searchColumns = []string{"name", "description", "sku", "category"}

// buildWhere renders the filter predicate of a normalized ListQuery into a
// WHERE clause with positional arguments. List and Count share it so the
// reported total always matches the fetched page.
func buildWhere(q catalog.ListQuery) (string, []any) {
	var (
		conds []string
		args  []any
	)

	if q.Category != "" {
		args = append(args, q.Category)
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}
	if q.Search != "" {
		args = append(args, likePattern(q.Search))
		n := len(args)
		ors := make([]string, 0, len(searchColumns))
		for _, col := range searchColumns {
			ors = append(ors, fmt.Sprintf("%s ILIKE $%d", col, n))
		}
		conds = append(conds, "("+strings.Join(ors, " OR ")+")")
	}
	if q.MinPrice != nil {
		args = append(args, *q.MinPrice)
		conds = append(conds, fmt.Sprintf("price >= $%d", len(args)))
	}
	if q.MaxPrice != nil {
		args = append(args, *q.MaxPrice)
		conds = append(conds, fmt.Sprintf("price <= $%d", len(args)))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// buildOrderBy renders the ORDER BY clause for a normalized query, with a
// deterministic id tie-break.
func buildOrderBy(q catalog.ListQuery) string {
	column := sortColumns[q.SortBy]
	direction := "DESC"
	if q.SortOrder == catalog.SortAsc {
		direction = "ASC"
	}
	return fmt.Sprintf(" ORDER BY %s %s, id", column, direction)
}

// likePattern wraps a search term for a substring ILIKE match, escaping the
// pattern metacharacters so user input matches literally.
func likePattern(term string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
	return "%" + escaped + "%"
}
