package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"catalog-stock/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrCategoryCodeTaken is returned by Commit when a category code is already in use
var ErrCategoryCodeTaken = errors.New("category with this code already exists")

const uniqueViolation = "23505"

// GetCategories retrieves all categories ordered by code
func (r *productRepository) GetCategories(ctx context.Context) ([]*domain.Category, error) {
	query := `
		SELECT id, name, code
		FROM categories
		ORDER BY code ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, persistenceError("list categories", err)
	}
	defer rows.Close()

	categories := []*domain.Category{}
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, persistenceError("list categories", err)
		}
		categories = append(categories, category)
	}

	if err = rows.Err(); err != nil {
		return nil, persistenceError("list categories", err)
	}

	return categories, nil
}

func (r *productRepository) GetCategoryByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	query := `
		SELECT id, name, code
		FROM categories
		WHERE id = $1
	`

	category, err := scanCategory(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, persistenceError("get category", err)
	}

	return category, nil
}

func (r *productRepository) AddCategory(category *domain.Category) {
	r.uow.register(categoryInsert{category: category})
}

func (r *productRepository) UpdateCategory(category *domain.Category) {
	r.uow.register(categoryUpdate{category: category})
}

func scanCategory(row rowScanner) (*domain.Category, error) {
	var (
		id   uuid.UUID
		name string
		code int
	)
	if err := row.Scan(&id, &name, &code); err != nil {
		return nil, err
	}
	return domain.RehydrateCategory(id, name, code)
}

func codeTaken(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

type categoryInsert struct {
	category *domain.Category
}

func (c categoryInsert) apply(ctx context.Context, tx *sql.Tx) (int64, error) {
	query := `
		INSERT INTO categories (id, name, code, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
	`

	result, err := tx.ExecContext(ctx, query, c.category.ID, c.category.Name(), c.category.Code(), time.Now())
	if err != nil {
		if codeTaken(err) {
			return 0, ErrCategoryCodeTaken
		}
		return 0, fmt.Errorf("failed to create category: %w", err)
	}

	return result.RowsAffected()
}

type categoryUpdate struct {
	category *domain.Category
}

func (c categoryUpdate) key() string {
	return "category:" + c.category.ID.String()
}

func (c categoryUpdate) apply(ctx context.Context, tx *sql.Tx) (int64, error) {
	query := `
		UPDATE categories
		SET name = $2, code = $3, updated_at = $4
		WHERE id = $1
	`

	result, err := tx.ExecContext(ctx, query, c.category.ID, c.category.Name(), c.category.Code(), time.Now())
	if err != nil {
		if codeTaken(err) {
			return 0, ErrCategoryCodeTaken
		}
		return 0, fmt.Errorf("failed to update category: %w", err)
	}

	return result.RowsAffected()
}
