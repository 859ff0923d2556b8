package catalog

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	DefaultSortBy    = SortByCreatedAt
	DefaultSortOrder = SortDesc
)

type SortField string

const (
	SortByName      SortField = "name"
	SortByPrice     SortField = "price"
	SortByCreatedAt SortField = "createdAt"
	SortByUpdatedAt SortField = "updatedAt"
	SortByCategory  SortField = "category"
	SortByQuantity  SortField = "quantity"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ListQuery is the filter/sort/page vocabulary shared by the service and the
// repository. Zero-valued SortBy/SortOrder mean "use the default"; Page and
// Limit are expected to be filled in by the caller (the HTTP layer applies
// DefaultPage/DefaultLimit for absent parameters).
type ListQuery struct {
	Page      int
	Limit     int
	Category  string
	Search    string
	MinPrice  *decimal.Decimal
	MaxPrice  *decimal.Decimal
	SortBy    SortField
	SortOrder SortOrder
}

// Normalize applies defaults and validates ranges. Out-of-range values are
// rejected, not clamped, so a caller never silently receives a different
// page size than it asked for.
func (q ListQuery) Normalize() (ListQuery, error) {
	fields := map[string]string{}

	if q.Page < 1 {
		fields["page"] = "must be a positive integer"
	}
	if q.Limit < 1 || q.Limit > MaxLimit {
		fields["limit"] = fmt.Sprintf("must be between 1 and %d", MaxLimit)
	}
	if q.SortBy == "" {
		q.SortBy = DefaultSortBy
	} else if !validSortField(q.SortBy) {
		fields["sortBy"] = "must be one of name, price, createdAt, updatedAt, category, quantity"
	}
	if q.SortOrder == "" {
		q.SortOrder = DefaultSortOrder
	} else if q.SortOrder != SortAsc && q.SortOrder != SortDesc {
		fields["sortOrder"] = "must be asc or desc"
	}
	if q.MinPrice != nil && q.MaxPrice != nil && q.MinPrice.GreaterThan(*q.MaxPrice) {
		fields["minPrice"] = "must not exceed maxPrice"
	}

	if len(fields) > 0 {
		return ListQuery{}, &ValidationError{Fields: fields}
	}
	return q, nil
}

// Offset is the row offset for the normalized page.
func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

func validSortField(f SortField) bool {
	switch f {
	case SortByName, SortByPrice, SortByCreatedAt, SortByUpdatedAt, SortByCategory, SortByQuantity:
		return true
	}
	return false
}

// Pagination is the metadata returned alongside a page of results.
type Pagination struct {
	Page       int   `json:"page" example:"1"`
	Limit      int   `json:"limit" example:"10"`
	Total      int64 `json:"total" example:"42"`
	TotalPages int   `json:"totalPages" example:"5"`
	HasNext    bool  `json:"hasNext" example:"true"`
	HasPrev    bool  `json:"hasPrev" example:"false"`
}

// NewPagination computes page metadata from a total count. An empty result
// set has zero pages and neither neighbor; a page past the end is legal and
// simply has no next page.
func NewPagination(page, limit int, total int64) Pagination {
	totalPages := 0
	if total > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1 && total > 0,
	}
}
