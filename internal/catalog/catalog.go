package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound          = errors.New("product not found")
	ErrSKUExists         = errors.New("sku already exists")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrUnavailable       = errors.New("storage unavailable")
)

const (
	MaxNameLen     = 255
	MaxSKULen      = 100
	MaxCategoryLen = 100
)

func init() {
	// The storefront contract serializes price as a plain JSON number.
	decimal.MarshalJSONWithoutQuotes = true
}

// Product is the catalog entity. InStock is derived from Quantity and is
// recomputed by the persistence layer on every write that touches Quantity;
// it is never accepted from a caller.
type Product struct {
	ID          uuid.UUID       `json:"id" example:"7c9e6679-7425-40de-944b-e07fc1f90ae7"`
	Name        string          `json:"name" example:"Widget"`
	Description *string         `json:"description" example:"A useful widget"`
	Price       decimal.Decimal `json:"price" swaggertype:"number" example:"9.99"`
	SKU         string          `json:"sku" example:"W-1"`
	Category    string          `json:"category" example:"Tools"`
	InStock     bool            `json:"inStock" example:"true"`
	Quantity    int             `json:"quantity" example:"5"`
	ImageURL    *string         `json:"imageUrl" example:"https://cdn.example.com/w1.png"`
	CreatedAt   time.Time       `json:"createdAt" example:"2026-02-24T12:00:00Z"`
	UpdatedAt   time.Time       `json:"updatedAt" example:"2026-02-24T12:00:00Z"`
}

// CreateInput carries the caller-supplied fields for a new product.
type CreateInput struct {
	Name        string
	Description *string
	Price       decimal.Decimal
	SKU         string
	Category    string
	Quantity    int
	ImageURL    *string
}

// Patch carries a partial update. Nil fields are left untouched. There is
// deliberately no InStock field: the derived flag cannot be set directly.
type Patch struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	SKU         *string
	Category    *string
	Quantity    *int
	ImageURL    *string
}

func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Price == nil &&
		p.SKU == nil && p.Category == nil && p.Quantity == nil && p.ImageURL == nil
}

// StockOp selects how SetStock combines its quantity argument with the
// current stock level.
type StockOp string

const (
	StockSet      StockOp = "set"
	StockAdd      StockOp = "add"
	StockSubtract StockOp = "subtract"
)

func ParseStockOp(raw string) (StockOp, bool) {
	switch StockOp(raw) {
	case StockSet, StockAdd, StockSubtract:
		return StockOp(raw), true
	default:
		return "", false
	}
}

// ValidationError reports precondition violations keyed by field name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewValidationError builds a single-field validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}
