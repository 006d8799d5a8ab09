package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"catalog-stock/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const productColumns = `
	p.id, p.name, p.description, p.active, p.price, p.created_at, p.thumbnail,
	p.stock_quantity, p.category_id, p.height, p.width, p.depth, p.version,
	c.id, c.name, c.code
`

type productRepository struct {
	db  *sql.DB
	uow *SQLUnitOfWork
}

// NewProductRepository creates a repository whose writes are registered with uow
func NewProductRepository(db *sql.DB, uow *SQLUnitOfWork) ProductRepository {
	return &productRepository{db: db, uow: uow}
}

func (r *productRepository) UnitOfWork() UnitOfWork {
	return r.uow
}

// GetByID retrieves a product and its category using parameterized queries
func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.id = $1
	`

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, persistenceError("get product", err)
	}

	return product, nil
}

func (r *productRepository) GetAll(ctx context.Context) ([]*domain.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		ORDER BY p.name ASC
	`

	return r.queryProducts(ctx, "list products", query)
}

func (r *productRepository) GetByCategoryID(ctx context.Context, categoryID uuid.UUID) ([]*domain.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.category_id = $1
		ORDER BY p.name ASC
	`

	return r.queryProducts(ctx, "list products by category", query, categoryID)
}

func (r *productRepository) queryProducts(ctx context.Context, op, query string, args ...any) ([]*domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, persistenceError(op, err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, persistenceError(op, err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, persistenceError(op, err)
	}

	return products, nil
}

func (r *productRepository) Add(product *domain.Product) {
	r.uow.register(productInsert{product: product})
}

func (r *productRepository) Update(product *domain.Product) {
	r.uow.register(productUpdate{product: product})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var (
		s                    domain.ProductSnapshot
		stock                sql.NullInt64
		height, width, depth decimal.NullDecimal
		categoryID           uuid.NullUUID
		categoryName         sql.NullString
		categoryCode         sql.NullInt64
	)

	err := row.Scan(
		&s.ID,
		&s.Name,
		&s.Description,
		&s.Active,
		&s.Price,
		&s.CreatedAt,
		&s.Thumbnail,
		&stock,
		&s.CategoryID,
		&height,
		&width,
		&depth,
		&s.Version,
		&categoryID,
		&categoryName,
		&categoryCode,
	)
	if err != nil {
		return nil, err
	}

	s.Stock = domain.UntrackedStock()
	if stock.Valid {
		s.Stock = domain.TrackedStock(int(stock.Int64))
	}

	if height.Valid && width.Valid && depth.Valid {
		d, err := domain.NewDimensions(height.Decimal, width.Decimal, depth.Decimal)
		if err != nil {
			return nil, fmt.Errorf("stored dimensions of product %s: %w", s.ID, err)
		}
		s.Dimensions = &d
	}

	if categoryID.Valid {
		c, err := domain.RehydrateCategory(categoryID.UUID, categoryName.String, int(categoryCode.Int64))
		if err != nil {
			return nil, fmt.Errorf("stored category of product %s: %w", s.ID, err)
		}
		s.Category = c
	}

	return domain.RehydrateProduct(s), nil
}

// productRow flattens optional product state into nullable column values
type productRow struct {
	stock                sql.NullInt64
	height, width, depth decimal.NullDecimal
}

func toRow(s domain.ProductSnapshot) productRow {
	var row productRow
	if count, tracked := s.Stock.Quantity(); tracked {
		row.stock = sql.NullInt64{Int64: int64(count), Valid: true}
	}
	if s.Dimensions != nil {
		row.height = decimal.NewNullDecimal(s.Dimensions.Height())
		row.width = decimal.NewNullDecimal(s.Dimensions.Width())
		row.depth = decimal.NewNullDecimal(s.Dimensions.Depth())
	}
	return row
}

type productInsert struct {
	product *domain.Product
}

func (c productInsert) apply(ctx context.Context, tx *sql.Tx) (int64, error) {
	query := `
		INSERT INTO products (id, name, description, active, price, created_at, thumbnail,
			stock_quantity, category_id, height, width, depth, version, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	s := c.product.Snapshot()
	row := toRow(s)

	result, err := tx.ExecContext(
		ctx,
		query,
		s.ID,
		s.Name,
		s.Description,
		s.Active,
		s.Price,
		s.CreatedAt,
		s.Thumbnail,
		row.stock,
		s.CategoryID,
		row.height,
		row.width,
		row.depth,
		s.Version,
		time.Now(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create product: %w", err)
	}

	return result.RowsAffected()
}

type productUpdate struct {
	product *domain.Product
}

func (c productUpdate) key() string {
	return "product:" + c.product.ID.String()
}

// apply writes the product only if its stored version still matches the one it was
// loaded with
func (c productUpdate) apply(ctx context.Context, tx *sql.Tx) (int64, error) {
	query := `
		UPDATE products
		SET name = $2, description = $3, active = $4, price = $5, thumbnail = $6,
		    stock_quantity = $7, category_id = $8, height = $9, width = $10, depth = $11,
		    version = version + 1, updated_at = $12
		WHERE id = $1 AND version = $13
	`

	s := c.product.Snapshot()
	row := toRow(s)

	result, err := tx.ExecContext(
		ctx,
		query,
		s.ID,
		s.Name,
		s.Description,
		s.Active,
		s.Price,
		s.Thumbnail,
		row.stock,
		s.CategoryID,
		row.height,
		row.width,
		row.depth,
		time.Now(),
		s.Version,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return 0, ErrConcurrentUpdate
	}

	return rowsAffected, nil
}
