package service

import (
	"context"
	"errors"
	"time"

	"catalog-stock/internal/domain"
	"catalog-stock/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const MessageInvalidQuantity = "quantity must be greater than zero"

// ProductView is the read projection of a product
type ProductView struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Active        bool            `json:"active"`
	Price         decimal.Decimal `json:"price"`
	CreatedAt     time.Time       `json:"created_at"`
	Thumbnail     string          `json:"thumbnail"`
	StockQuantity *int            `json:"stock_quantity"`
	CategoryID    uuid.UUID       `json:"category_id"`
	Category      *CategoryView   `json:"category,omitempty"`
	Dimensions    *DimensionsView `json:"dimensions,omitempty"`
}

type CategoryView struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Code int       `json:"code"`
}

type DimensionsView struct {
	Height decimal.Decimal `json:"height"`
	Width  decimal.Decimal `json:"width"`
	Depth  decimal.Decimal `json:"depth"`
}

// ProductInput carries the attributes of a new product. Stock is never set on creation.
type ProductInput struct {
	Name        string
	Description string
	Active      bool
	Price       decimal.Decimal
	Thumbnail   string
	CategoryID  uuid.UUID
	Dimensions  *DimensionsView
}

// ProductUpdate lists the mutable attributes; nil fields are left alone
type ProductUpdate struct {
	Description *string
	Active      *bool
	Dimensions  *DimensionsView
}

// CatalogService is the application boundary used by the HTTP layer
type CatalogService interface {
	IncreaseStock(ctx context.Context, productID uuid.UUID, quantity int) (StockResult, error)
	ReduceStock(ctx context.Context, productID uuid.UUID, quantity int) (StockResult, error)

	GetByID(ctx context.Context, id uuid.UUID) (*ProductView, error)
	GetAll(ctx context.Context) ([]ProductView, error)
	GetByCategoryID(ctx context.Context, categoryID uuid.UUID) ([]ProductView, error)
	Add(ctx context.Context, input ProductInput) (uuid.UUID, error)
	Update(ctx context.Context, id uuid.UUID, update ProductUpdate) (bool, error)
	ChangeCategory(ctx context.Context, productID, categoryID uuid.UUID) (bool, error)

	GetCategories(ctx context.Context) ([]CategoryView, error)
	AddCategory(ctx context.Context, name string, code int) (uuid.UUID, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, name string, code int) (bool, error)
}

type catalogService struct {
	products repository.ProductRepository
	stock    StockService
	logger   *zap.Logger
}

// NewCatalogService creates a CatalogService. products and stock must share one unit of
// work.
func NewCatalogService(products repository.ProductRepository, stock StockService, logger *zap.Logger) CatalogService {
	return &catalogService{
		products: products,
		stock:    stock,
		logger:   logger,
	}
}

func (s *catalogService) IncreaseStock(ctx context.Context, productID uuid.UUID, quantity int) (StockResult, error) {
	if quantity <= 0 {
		return failure(MessageInvalidQuantity), nil
	}
	return s.stock.IncreaseStock(ctx, productID, quantity)
}

func (s *catalogService) ReduceStock(ctx context.Context, productID uuid.UUID, quantity int) (StockResult, error) {
	if quantity <= 0 {
		return failure(MessageInvalidQuantity), nil
	}
	return s.stock.ReduceStock(ctx, productID, quantity)
}

func (s *catalogService) GetByID(ctx context.Context, id uuid.UUID) (*ProductView, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	view := toProductView(product)
	return &view, nil
}

func (s *catalogService) GetAll(ctx context.Context) ([]ProductView, error) {
	products, err := s.products.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return toProductViews(products), nil
}

func (s *catalogService) GetByCategoryID(ctx context.Context, categoryID uuid.UUID) ([]ProductView, error) {
	products, err := s.products.GetByCategoryID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	return toProductViews(products), nil
}

// Add creates a product in an existing category and returns its id
func (s *catalogService) Add(ctx context.Context, input ProductInput) (uuid.UUID, error) {
	category, err := s.products.GetCategoryByID(ctx, input.CategoryID)
	if err != nil {
		return uuid.Nil, err
	}

	dimensions, err := toDimensions(input.Dimensions)
	if err != nil {
		return uuid.Nil, err
	}

	product, err := domain.NewProduct(
		input.Name,
		input.Description,
		input.Active,
		input.Price,
		time.Now().UTC(),
		input.Thumbnail,
		category.ID,
		dimensions,
	)
	if err != nil {
		return uuid.Nil, err
	}
	if err := product.ChangeCategory(category); err != nil {
		return uuid.Nil, err
	}

	s.products.Add(product)
	if _, err := s.products.UnitOfWork().Commit(ctx); err != nil {
		return uuid.Nil, err
	}

	s.logger.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("category_id", category.ID.String()),
	)

	return product.ID, nil
}

// Update applies the non-nil fields of update. It reports whether anything was stored;
// an update that changes nothing does not touch the database.
func (s *catalogService) Update(ctx context.Context, id uuid.UUID, update ProductUpdate) (bool, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return false, err
	}

	changed := false

	if update.Description != nil && *update.Description != product.Description() {
		if err := product.ChangeDescription(*update.Description); err != nil {
			return false, err
		}
		changed = true
	}

	if update.Active != nil && *update.Active != product.Active() {
		if *update.Active {
			product.Activate()
		} else {
			product.Deactivate()
		}
		changed = true
	}

	if update.Dimensions != nil {
		dimensions, err := toDimensions(update.Dimensions)
		if err != nil {
			return false, err
		}
		if product.Dimensions() == nil || !product.Dimensions().Equal(*dimensions) {
			product.SetDimensions(dimensions)
			changed = true
		}
	}

	if !changed {
		return false, nil
	}

	s.products.Update(product)
	return s.products.UnitOfWork().Commit(ctx)
}

func (s *catalogService) ChangeCategory(ctx context.Context, productID, categoryID uuid.UUID) (bool, error) {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return false, err
	}

	category, err := s.products.GetCategoryByID(ctx, categoryID)
	if err != nil {
		return false, err
	}

	if product.CategoryID() == category.ID {
		return false, nil
	}

	if err := product.ChangeCategory(category); err != nil {
		return false, err
	}
	s.products.Update(product)

	return s.products.UnitOfWork().Commit(ctx)
}

func (s *catalogService) GetCategories(ctx context.Context) ([]CategoryView, error) {
	categories, err := s.products.GetCategories(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]CategoryView, 0, len(categories))
	for _, c := range categories {
		views = append(views, toCategoryView(c))
	}
	return views, nil
}

func (s *catalogService) AddCategory(ctx context.Context, name string, code int) (uuid.UUID, error) {
	category, err := domain.NewCategory(name, code)
	if err != nil {
		return uuid.Nil, err
	}

	s.products.AddCategory(category)
	if _, err := s.products.UnitOfWork().Commit(ctx); err != nil {
		return uuid.Nil, err
	}

	s.logger.Info("Category created", zap.String("category_id", category.ID.String()), zap.Int("code", code))

	return category.ID, nil
}

// UpdateCategory replaces name and code of an existing category
func (s *catalogService) UpdateCategory(ctx context.Context, id uuid.UUID, name string, code int) (bool, error) {
	if _, err := s.products.GetCategoryByID(ctx, id); err != nil {
		return false, err
	}

	category, err := domain.RehydrateCategory(id, name, code)
	if err != nil {
		return false, err
	}

	s.products.UpdateCategory(category)
	return s.products.UnitOfWork().Commit(ctx)
}

func toDimensions(v *DimensionsView) (*domain.Dimensions, error) {
	if v == nil {
		return nil, nil
	}
	d, err := domain.NewDimensions(v.Height, v.Width, v.Depth)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func toCategoryView(c *domain.Category) CategoryView {
	return CategoryView{ID: c.ID, Name: c.Name(), Code: c.Code()}
}

func toProductView(p *domain.Product) ProductView {
	view := ProductView{
		ID:          p.ID,
		Name:        p.Name(),
		Description: p.Description(),
		Active:      p.Active(),
		Price:       p.Price(),
		CreatedAt:   p.CreatedAt(),
		Thumbnail:   p.Thumbnail(),
		CategoryID:  p.CategoryID(),
	}
	if count, tracked := p.Stock().Quantity(); tracked {
		view.StockQuantity = &count
	}
	if c := p.Category(); c != nil {
		cv := toCategoryView(c)
		view.Category = &cv
	}
	if d := p.Dimensions(); d != nil {
		view.Dimensions = &DimensionsView{Height: d.Height(), Width: d.Width(), Depth: d.Depth()}
	}
	return view
}

func toProductViews(products []*domain.Product) []ProductView {
	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, toProductView(p))
	}
	return views
}

// IsNotFound reports whether err means the requested product or category does not exist
func IsNotFound(err error) bool {
	return errors.Is(err, repository.ErrProductNotFound) || errors.Is(err, repository.ErrCategoryNotFound)
}
