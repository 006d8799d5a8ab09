package service

import (
	"context"
	"errors"

	"catalog-stock/internal/domain"
	"catalog-stock/internal/repository"

	"github.com/google/uuid"
)

// mockUnitOfWork records what was registered and how often Commit ran
type mockUnitOfWork struct {
	updated    []*domain.Product
	added      []*domain.Product
	categories []*domain.Category
	commits    int
	persist    bool
	err        error
	calls      *[]string
}

func (u *mockUnitOfWork) Commit(ctx context.Context) (bool, error) {
	u.commits++
	*u.calls = append(*u.calls, "commit")
	if u.err != nil {
		return false, u.err
	}
	return u.persist, nil
}

// mockProductRepository keeps aggregates in memory. Loads return copies so a test can
// tell whether a change reached the store.
type mockProductRepository struct {
	products   map[uuid.UUID]domain.ProductSnapshot
	categories map[uuid.UUID]*domain.Category
	uow        *mockUnitOfWork
	loadErr    error
	calls      []string
}

func newMockProductRepository() *mockProductRepository {
	r := &mockProductRepository{
		products:   make(map[uuid.UUID]domain.ProductSnapshot),
		categories: make(map[uuid.UUID]*domain.Category),
	}
	r.uow = &mockUnitOfWork{persist: true, calls: &r.calls}
	return r
}

func (r *mockProductRepository) store(p *domain.Product) {
	r.products[p.ID] = p.Snapshot()
}

func (r *mockProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	r.calls = append(r.calls, "get")
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	s, ok := r.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	return domain.RehydrateProduct(s), nil
}

func (r *mockProductRepository) GetAll(ctx context.Context) ([]*domain.Product, error) {
	var out []*domain.Product
	for _, s := range r.products {
		out = append(out, domain.RehydrateProduct(s))
	}
	return out, nil
}

func (r *mockProductRepository) GetByCategoryID(ctx context.Context, categoryID uuid.UUID) ([]*domain.Product, error) {
	var out []*domain.Product
	for _, s := range r.products {
		if s.CategoryID == categoryID {
			out = append(out, domain.RehydrateProduct(s))
		}
	}
	return out, nil
}

func (r *mockProductRepository) GetCategories(ctx context.Context) ([]*domain.Category, error) {
	var out []*domain.Category
	for _, c := range r.categories {
		out = append(out, c)
	}
	return out, nil
}

func (r *mockProductRepository) GetCategoryByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	c, ok := r.categories[id]
	if !ok {
		return nil, repository.ErrCategoryNotFound
	}
	return c, nil
}

func (r *mockProductRepository) Add(product *domain.Product) {
	r.calls = append(r.calls, "add")
	r.uow.added = append(r.uow.added, product)
}

func (r *mockProductRepository) Update(product *domain.Product) {
	r.calls = append(r.calls, "update")
	r.uow.updated = append(r.uow.updated, product)
}

func (r *mockProductRepository) AddCategory(category *domain.Category) {
	r.calls = append(r.calls, "add_category")
	r.uow.categories = append(r.uow.categories, category)
}

func (r *mockProductRepository) UpdateCategory(category *domain.Category) {
	r.calls = append(r.calls, "update_category")
	r.uow.categories = append(r.uow.categories, category)
}

func (r *mockProductRepository) UnitOfWork() repository.UnitOfWork {
	return r.uow
}

type mockNotifier struct {
	events []domain.Event
	err    error
	calls  *[]string
}

func (n *mockNotifier) PublishEvent(ctx context.Context, event domain.Event) error {
	if n.calls != nil {
		*n.calls = append(*n.calls, "publish")
	}
	if n.err != nil {
		return n.err
	}
	n.events = append(n.events, event)
	return nil
}

var errStorage = errors.New("connection reset")
