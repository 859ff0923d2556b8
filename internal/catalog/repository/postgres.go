package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"product-catalog/internal/catalog"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const healthCheckTimeout = 2 * time.Second

const (
	pqUniqueViolation = "23505"
	pqConnectionClass = "08"
	productColumns    = "id, name, description, price, sku, category, in_stock, quantity, image_url, created_at, updated_at"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, in catalog.CreateInput) (catalog.Product, error) {
	query := `
		INSERT INTO products (id, name, description, price, sku, category, in_stock, quantity, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7 > 0, $7, $8)
		RETURNING ` + productColumns

	row := r.db.QueryRowContext(ctx, query,
		uuid.New(), in.Name, in.Description, in.Price, in.SKU, in.Category, in.Quantity, in.ImageURL,
	)
	p, err := scanProduct(row)
	if err != nil {
		return catalog.Product{}, fmt.Errorf("insert product: %w", classify(err))
	}
	return p, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (catalog.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return catalog.Product{}, catalog.ErrNotFound
		}
		return catalog.Product{}, fmt.Errorf("get product %s: %w", id, classify(err))
	}
	return p, nil
}

func (r *PostgresRepository) GetBySKU(ctx context.Context, sku string) (catalog.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE sku = $1`

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, sku))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return catalog.Product{}, catalog.ErrNotFound
		}
		return catalog.Product{}, fmt.Errorf("get product by sku %q: %w", sku, classify(err))
	}
	return p, nil
}

func (r *PostgresRepository) List(ctx context.Context, q catalog.ListQuery) ([]catalog.Product, error) {
	where, args := buildWhere(q)
	args = append(args, q.Limit, q.Offset())
	query := fmt.Sprintf(`SELECT %s FROM products%s%s LIMIT $%d OFFSET $%d`,
		productColumns, where, buildOrderBy(q), len(args)-1, len(args))

	return r.queryProducts(ctx, query, args...)
}

func (r *PostgresRepository) Count(ctx context.Context, q catalog.ListQuery) (int64, error) {
	where, args := buildWhere(q)

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`+where, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count products: %w", classify(err))
	}
	return total, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id uuid.UUID, patch catalog.Patch) (catalog.Product, error) {
	sets := []string{}
	args := []any{}

	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Name != nil {
		set("name", *patch.Name)
	}
	if patch.Description != nil {
		set("description", *patch.Description)
	}
	if patch.Price != nil {
		set("price", *patch.Price)
	}
	if patch.SKU != nil {
		set("sku", *patch.SKU)
	}
	if patch.Category != nil {
		set("category", *patch.Category)
	}
	if patch.Quantity != nil {
		// quantity and its derived flag change in the same statement.
		args = append(args, *patch.Quantity)
		sets = append(sets, fmt.Sprintf("quantity = $%d, in_stock = $%d > 0", len(args), len(args)))
	}
	if patch.ImageURL != nil {
		set("image_url", *patch.ImageURL)
	}
	sets = append(sets, "updated_at = now()")

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE products SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), productColumns)

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return catalog.Product{}, catalog.ErrNotFound
		}
		return catalog.Product{}, fmt.Errorf("update product %s: %w", id, classify(err))
	}
	return p, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product %s: %w", id, classify(err))
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return catalog.ErrNotFound
	}

	return nil
}

func (r *PostgresRepository) SetQuantity(ctx context.Context, id uuid.UUID, quantity int) (catalog.Product, error) {
	query := `
		UPDATE products
		SET quantity = $2, in_stock = $2 > 0, updated_at = now()
		WHERE id = $1
		RETURNING ` + productColumns

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id, quantity))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return catalog.Product{}, catalog.ErrNotFound
		}
		return catalog.Product{}, fmt.Errorf("set quantity for %s: %w", id, classify(err))
	}
	return p, nil
}

// AddQuantity applies a signed stock delta as a single conditional update,
// so concurrent decrements on the same product cannot drive quantity below
// zero or lose an update. A delta that would go negative changes nothing and
// reports ErrInsufficientStock.
func (r *PostgresRepository) AddQuantity(ctx context.Context, id uuid.UUID, delta int) (catalog.Product, error) {
	query := `
		UPDATE products
		SET quantity = quantity + $2, in_stock = quantity + $2 > 0, updated_at = now()
		WHERE id = $1 AND quantity + $2 >= 0
		RETURNING ` + productColumns

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id, delta))
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return catalog.Product{}, fmt.Errorf("add quantity for %s: %w", id, classify(err))
	}

	// Zero rows means either the product is gone or the guard rejected the
	// delta; a follow-up lookup tells the two apart.
	if _, lookupErr := r.GetByID(ctx, id); lookupErr != nil {
		return catalog.Product{}, lookupErr
	}
	return catalog.Product{}, catalog.ErrInsufficientStock
}

func (r *PostgresRepository) FindLowStock(ctx context.Context, threshold int) ([]catalog.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE quantity <= $1 ORDER BY quantity, id`
	return r.queryProducts(ctx, query, threshold)
}

func (r *PostgresRepository) FindByCategory(ctx context.Context, category string) ([]catalog.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE category = $1 ORDER BY created_at DESC, id`
	return r.queryProducts(ctx, query, category)
}

func (r *PostgresRepository) Search(ctx context.Context, term string) ([]catalog.Product, error) {
	pattern := likePattern(term)
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE name ILIKE $1 OR description ILIKE $1 OR sku ILIKE $1 OR category ILIKE $1
		ORDER BY created_at DESC, id`
	return r.queryProducts(ctx, query, pattern)
}

func (r *PostgresRepository) Health() error {
	ctx, cancel := context.WithTimeout(context.Background(), healthCheckTimeout)
	defer cancel()
	return r.db.PingContext(ctx)
}

func (r *PostgresRepository) queryProducts(ctx context.Context, query string, args ...any) ([]catalog.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", classify(err))
	}
	defer rows.Close()

	list := make([]catalog.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", classify(err))
	}

	return list, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(row scanner) (catalog.Product, error) {
	var p catalog.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.SKU, &p.Category,
		&p.InStock, &p.Quantity, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

// classify translates driver-level failures into the domain taxonomy: a
// unique-constraint violation on sku is a conflict regardless of which
// statement raced, and connection-class failures are retryable by the
// caller.
func classify(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch {
		case pqErr.Code == pqUniqueViolation:
			return catalog.ErrSKUExists
		case pqErr.Code.Class() == pqConnectionClass:
			return fmt.Errorf("%w: %v", catalog.ErrUnavailable, err)
		}
		return err
	}

	var netErr net.Error
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, context.DeadlineExceeded) || errors.As(err, &netErr) {
		return fmt.Errorf("%w: %v", catalog.ErrUnavailable, err)
	}

	return err
}
