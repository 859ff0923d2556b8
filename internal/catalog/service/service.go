package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"product-catalog/internal/catalog"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

const (
	ReserveAccepted = "accepted"
	ReserveRejected = "rejected"
)

type Repository interface {
	Create(ctx context.Context, in catalog.CreateInput) (catalog.Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (catalog.Product, error)
	GetBySKU(ctx context.Context, sku string) (catalog.Product, error)
	List(ctx context.Context, q catalog.ListQuery) ([]catalog.Product, error)
	Count(ctx context.Context, q catalog.ListQuery) (int64, error)
	Update(ctx context.Context, id uuid.UUID, patch catalog.Patch) (catalog.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetQuantity(ctx context.Context, id uuid.UUID, quantity int) (catalog.Product, error)
	AddQuantity(ctx context.Context, id uuid.UUID, delta int) (catalog.Product, error)
	FindLowStock(ctx context.Context, threshold int) ([]catalog.Product, error)
	FindByCategory(ctx context.Context, category string) ([]catalog.Product, error)
	Search(ctx context.Context, term string) ([]catalog.Product, error)
}

type Service struct {
	repo         Repository
	logger       *slog.Logger
	created      prometheus.Counter
	deleted      prometheus.Counter
	reservations *prometheus.CounterVec
}

func New(repo Repository, logger *slog.Logger, created, deleted prometheus.Counter, reservations *prometheus.CounterVec) *Service {
	return &Service{
		repo:         repo,
		logger:       logger,
		created:      created,
		deleted:      deleted,
		reservations: reservations,
	}
}

func (s *Service) CreateProduct(ctx context.Context, in catalog.CreateInput) (catalog.Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.SKU = strings.TrimSpace(in.SKU)
	in.Category = strings.TrimSpace(in.Category)

	fields := map[string]string{}
	validateName(fields, in.Name)
	validateSKU(fields, in.SKU)
	validateCategory(fields, in.Category)
	validatePrice(fields, in.Price)
	if in.Quantity < 0 {
		fields["quantity"] = "must not be negative"
	}
	if len(fields) > 0 {
		return catalog.Product{}, &catalog.ValidationError{Fields: fields}
	}

	// Pre-check for a friendlier conflict error; the unique index remains
	// the final authority when two creates race.
	if _, err := s.repo.GetBySKU(ctx, in.SKU); err == nil {
		return catalog.Product{}, catalog.ErrSKUExists
	} else if !errors.Is(err, catalog.ErrNotFound) {
		return catalog.Product{}, fmt.Errorf("check sku: %w", err)
	}

	product, err := s.repo.Create(ctx, in)
	if err != nil {
		if errors.Is(err, catalog.ErrSKUExists) {
			return catalog.Product{}, catalog.ErrSKUExists
		}
		return catalog.Product{}, fmt.Errorf("repo create: %w", err)
	}

	s.created.Inc()
	return product, nil
}

func (s *Service) GetProduct(ctx context.Context, id uuid.UUID) (catalog.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return catalog.Product{}, catalog.ErrNotFound
		}
		return catalog.Product{}, fmt.Errorf("repo get: %w", err)
	}
	return product, nil
}

func (s *Service) GetProductBySKU(ctx context.Context, sku string) (catalog.Product, error) {
	product, err := s.repo.GetBySKU(ctx, strings.TrimSpace(sku))
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return catalog.Product{}, catalog.ErrNotFound
		}
		return catalog.Product{}, fmt.Errorf("repo get by sku: %w", err)
	}
	return product, nil
}

func (s *Service) ListProducts(ctx context.Context, q catalog.ListQuery) ([]catalog.Product, catalog.Pagination, error) {
	q, err := q.Normalize()
	if err != nil {
		return nil, catalog.Pagination{}, err
	}

	items, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, catalog.Pagination{}, fmt.Errorf("repo list: %w", err)
	}

	total, err := s.repo.Count(ctx, q)
	if err != nil {
		return nil, catalog.Pagination{}, fmt.Errorf("repo count: %w", err)
	}

	return items, catalog.NewPagination(q.Page, q.Limit, total), nil
}

func (s *Service) UpdateProduct(ctx context.Context, id uuid.UUID, patch catalog.Patch) (catalog.Product, error) {
	if patch.IsEmpty() {
		return catalog.Product{}, catalog.NewValidationError("body", "at least one updatable field is required")
	}

	fields := map[string]string{}
	if patch.Name != nil {
		*patch.Name = strings.TrimSpace(*patch.Name)
		validateName(fields, *patch.Name)
	}
	if patch.SKU != nil {
		*patch.SKU = strings.TrimSpace(*patch.SKU)
		validateSKU(fields, *patch.SKU)
	}
	if patch.Category != nil {
		*patch.Category = strings.TrimSpace(*patch.Category)
		validateCategory(fields, *patch.Category)
	}
	if patch.Price != nil {
		validatePrice(fields, *patch.Price)
	}
	if patch.Quantity != nil && *patch.Quantity < 0 {
		fields["quantity"] = "must not be negative"
	}
	if len(fields) > 0 {
		return catalog.Product{}, &catalog.ValidationError{Fields: fields}
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return catalog.Product{}, catalog.ErrNotFound
		}
		return catalog.Product{}, fmt.Errorf("repo get: %w", err)
	}

	if patch.SKU != nil && *patch.SKU != current.SKU {
		if _, err := s.repo.GetBySKU(ctx, *patch.SKU); err == nil {
			return catalog.Product{}, catalog.ErrSKUExists
		} else if !errors.Is(err, catalog.ErrNotFound) {
			return catalog.Product{}, fmt.Errorf("check sku: %w", err)
		}
	}

	product, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrNotFound):
			return catalog.Product{}, catalog.ErrNotFound
		case errors.Is(err, catalog.ErrSKUExists):
			return catalog.Product{}, catalog.ErrSKUExists
		}
		return catalog.Product{}, fmt.Errorf("repo update: %w", err)
	}

	s.logStockout(product)
	return product, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return catalog.ErrNotFound
		}
		return fmt.Errorf("repo delete: %w", err)
	}

	s.deleted.Inc()
	return nil
}

// SetStock applies a stock mutation. Set writes an absolute value; add and
// subtract go through a single conditional update so a result below zero is
// rejected in full, never clamped or partially applied.
func (s *Service) SetStock(ctx context.Context, id uuid.UUID, quantity int, op catalog.StockOp) (catalog.Product, error) {
	if quantity < 0 {
		return catalog.Product{}, catalog.NewValidationError("quantity", "must not be negative")
	}

	var (
		product catalog.Product
		err     error
	)
	switch op {
	case catalog.StockSet:
		product, err = s.repo.SetQuantity(ctx, id, quantity)
	case catalog.StockAdd:
		product, err = s.repo.AddQuantity(ctx, id, quantity)
	case catalog.StockSubtract:
		product, err = s.repo.AddQuantity(ctx, id, -quantity)
	default:
		return catalog.Product{}, catalog.NewValidationError("operation", "must be set, add or subtract")
	}
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrNotFound):
			return catalog.Product{}, catalog.ErrNotFound
		case errors.Is(err, catalog.ErrInsufficientStock):
			return catalog.Product{}, catalog.ErrInsufficientStock
		}
		return catalog.Product{}, fmt.Errorf("repo stock update: %w", err)
	}

	s.logStockout(product)
	return product, nil
}

// ReserveStock attempts to take quantity units of stock. Insufficient stock
// is a normal business outcome reported as a false return, not an error.
// The decrement is atomic at the storage layer, so concurrent reservations
// on the same product never oversell.
func (s *Service) ReserveStock(ctx context.Context, id uuid.UUID, quantity int) (bool, error) {
	if quantity < 1 {
		return false, catalog.NewValidationError("quantity", "must be at least 1")
	}

	product, err := s.repo.AddQuantity(ctx, id, -quantity)
	if err != nil {
		if errors.Is(err, catalog.ErrInsufficientStock) {
			s.reservations.WithLabelValues(ReserveRejected).Inc()
			return false, nil
		}
		if errors.Is(err, catalog.ErrNotFound) {
			return false, catalog.ErrNotFound
		}
		return false, fmt.Errorf("repo reserve: %w", err)
	}

	s.reservations.WithLabelValues(ReserveAccepted).Inc()
	s.logStockout(product)
	return true, nil
}

func (s *Service) FindLowStock(ctx context.Context, threshold int) ([]catalog.Product, error) {
	if threshold < 0 {
		return nil, catalog.NewValidationError("threshold", "must not be negative")
	}

	items, err := s.repo.FindLowStock(ctx, threshold)
	if err != nil {
		return nil, fmt.Errorf("repo low stock: %w", err)
	}
	return items, nil
}

func (s *Service) FindByCategory(ctx context.Context, category string) ([]catalog.Product, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, catalog.NewValidationError("category", "is required")
	}

	items, err := s.repo.FindByCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("repo find by category: %w", err)
	}
	return items, nil
}

func (s *Service) SearchProducts(ctx context.Context, term string) ([]catalog.Product, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, catalog.NewValidationError("q", "is required")
	}

	items, err := s.repo.Search(ctx, term)
	if err != nil {
		return nil, fmt.Errorf("repo search: %w", err)
	}
	return items, nil
}

func (s *Service) logStockout(p catalog.Product) {
	if p.Quantity == 0 {
		s.logger.Warn("product out of stock",
			"product_id", p.ID,
			"sku", p.SKU,
		)
	}
}

func validateName(fields map[string]string, name string) {
	switch {
	case name == "":
		fields["name"] = "is required"
	case len(name) > catalog.MaxNameLen:
		fields["name"] = fmt.Sprintf("must be at most %d characters", catalog.MaxNameLen)
	}
}

func validateSKU(fields map[string]string, sku string) {
	switch {
	case sku == "":
		fields["sku"] = "is required"
	case len(sku) > catalog.MaxSKULen:
		fields["sku"] = fmt.Sprintf("must be at most %d characters", catalog.MaxSKULen)
	}
}

func validateCategory(fields map[string]string, category string) {
	switch {
	case category == "":
		fields["category"] = "is required"
	case len(category) > catalog.MaxCategoryLen:
		fields["category"] = fmt.Sprintf("must be at most %d characters", catalog.MaxCategoryLen)
	}
}

func validatePrice(fields map[string]string, price decimal.Decimal) {
	switch {
	case !price.IsPositive():
		fields["price"] = "must be greater than zero"
	case !price.Equal(price.Round(2)):
		fields["price"] = "must have at most 2 decimal places"
	}
}
