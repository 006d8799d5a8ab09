package repository

import (
	"context"
	"errors"
	"fmt"

	"catalog-stock/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")

	// ErrConcurrentUpdate means the product changed after it was loaded. The commit is
	// rolled back and the caller may reload and retry.
	ErrConcurrentUpdate = errors.New("product was modified concurrently")
)

// PersistenceError wraps a storage failure during commit or load
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func persistenceError(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}

// UnitOfWork applies every pending change registered through a repository atomically
type UnitOfWork interface {
	// Commit returns true iff at least one change was persisted
	Commit(ctx context.Context) (bool, error)
}

// ProductRepository loads catalog aggregates and registers changes with its UnitOfWork.
// Add and Update never write immediately.
type ProductRepository interface {
	// GetByID returns ErrProductNotFound when no product has id
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	GetAll(ctx context.Context) ([]*domain.Product, error)
	GetByCategoryID(ctx context.Context, categoryID uuid.UUID) ([]*domain.Product, error)
	GetCategories(ctx context.Context) ([]*domain.Category, error)
	// GetCategoryByID returns ErrCategoryNotFound when no category has id
	GetCategoryByID(ctx context.Context, id uuid.UUID) (*domain.Category, error)

	Add(product *domain.Product)
	Update(product *domain.Product)
	AddCategory(category *domain.Category)
	UpdateCategory(category *domain.Category)

	UnitOfWork() UnitOfWork
}
