package domain

import (
	"fmt"
	"time"

	"catalog-stock/internal/assertion"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Prices are stored as NUMERIC(12,2)
const PricePlaces = 2

var maxPrice = decimal.RequireFromString("9999999999.99")

// Product is the catalog aggregate root. State changes only through its methods so the
// invariants checked at construction keep holding.
type Product struct {
	Entity
	name        string
	description string
	active      bool
	price       decimal.Decimal
	createdAt   time.Time
	thumbnail   string
	stock       Stock
	categoryID  uuid.UUID
	category    *Category
	dimensions  *Dimensions
	version     int
}

// ProductSnapshot is the flat persisted form of a Product
type ProductSnapshot struct {
	ID          uuid.UUID
	Name        string
	Description string
	Active      bool
	Price       decimal.Decimal
	CreatedAt   time.Time
	Thumbnail   string
	Stock       Stock
	CategoryID  uuid.UUID
	Category    *Category
	Dimensions  *Dimensions
	Version     int
}

// NewProduct creates a product with a fresh id and untracked stock
func NewProduct(
	name, description string,
	active bool,
	price decimal.Decimal,
	createdAt time.Time,
	thumbnail string,
	categoryID uuid.UUID,
	dimensions *Dimensions,
) (*Product, error) {
	p := &Product{
		Entity:      newEntity(),
		name:        name,
		description: description,
		active:      active,
		price:       price,
		createdAt:   createdAt,
		thumbnail:   thumbnail,
		stock:       UntrackedStock(),
		categoryID:  categoryID,
		dimensions:  dimensions,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// RehydrateProduct rebuilds a stored product under its existing id. It trusts the
// snapshot and skips validation so rows written before a rule change still load.
func RehydrateProduct(s ProductSnapshot) *Product {
	return &Product{
		Entity:      Entity{ID: s.ID},
		name:        s.Name,
		description: s.Description,
		active:      s.Active,
		price:       s.Price,
		createdAt:   s.CreatedAt,
		thumbnail:   s.Thumbnail,
		stock:       s.Stock,
		categoryID:  s.CategoryID,
		category:    s.Category,
		dimensions:  s.Dimensions,
		version:     s.Version,
	}
}

// Snapshot exports the current state
func (p *Product) Snapshot() ProductSnapshot {
	return ProductSnapshot{
		ID:          p.ID,
		Name:        p.name,
		Description: p.description,
		Active:      p.active,
		Price:       p.price,
		CreatedAt:   p.createdAt,
		Thumbnail:   p.thumbnail,
		Stock:       p.stock,
		CategoryID:  p.categoryID,
		Category:    p.category,
		Dimensions:  p.dimensions,
		Version:     p.version,
	}
}

func (p *Product) EntityKind() string { return "Product" }
func (p *Product) Name() string { return p.name }
func (p *Product) Description() string { return p.description }
func (p *Product) Active() bool { return p.active }
func (p *Product) Price() decimal.Decimal { return p.price }
func (p *Product) CreatedAt() time.Time { return p.createdAt }
func (p *Product) Thumbnail() string { return p.thumbnail }
func (p *Product) Stock() Stock { return p.stock }
func (p *Product) CategoryID() uuid.UUID { return p.categoryID }
func (p *Product) Category() *Category { return p.category }
func (p *Product) Dimensions() *Dimensions { return p.dimensions }

// Version is the optimistic concurrency token the product was loaded with
func (p *Product) Version() int { return p.version }

func (p *Product) Activate() {
	p.active = true
}

func (p *Product) Deactivate() {
	p.active = false
}

// ChangeDescription replaces the description after checking it is not blank
func (p *Product) ChangeDescription(description string) error {
	if err := assertion.Empty(description, "Product Description cannot be empty"); err != nil {
		return err
	}
	p.description = description
	return nil
}

// ChangeCategory moves the product to category, keeping the id and reference in step
func (p *Product) ChangeCategory(category *Category) error {
	if err := assertion.Nil(category, "Product Category cannot be empty"); err != nil {
		return err
	}
	p.category = category
	p.categoryID = category.ID
	return nil
}

// SetDimensions replaces the dimensions; nil clears them
func (p *Product) SetDimensions(dimensions *Dimensions) {
	p.dimensions = dimensions
}

// CheckStockQuantity reports whether stock is tracked and covers quantity
func (p *Product) CheckStockQuantity(quantity int) bool {
	return p.stock.Covers(quantity)
}

// CanReduceStock reports whether |quantity| units can be removed. A quantity whose
// magnitude exceeds MaxStockQuantity can never be covered.
func (p *Product) CanReduceStock(quantity int) bool {
	units, ok := StockUnits(quantity)
	return ok && p.CheckStockQuantity(units)
}

// ReduceStock removes |quantity| units. The sign of quantity is ignored.
func (p *Product) ReduceStock(quantity int) error {
	if !p.CanReduceStock(quantity) {
		return ErrInsufficientStock
	}

	units, _ := StockUnits(quantity)
	count, _ := p.stock.Quantity()
	p.stock = TrackedStock(count - units)
	return nil
}

// IncreaseStock adds |quantity| units. A product that did not track stock starts
// tracking at |quantity|. The count never grows past MaxStockQuantity.
func (p *Product) IncreaseStock(quantity int) error {
	units, ok := StockUnits(quantity)
	count, _ := p.stock.Quantity()
	if !ok || count > MaxStockQuantity-units {
		return ErrStockLimitExceeded
	}

	p.stock = TrackedStock(count + units)
	return nil
}

// Validate checks the full invariant set, stopping at the first violation
func (p *Product) Validate() error {
	if err := assertion.Empty(p.name, "Product Name cannot be empty"); err != nil {
		return err
	}
	if err := assertion.Empty(p.description, "Product Description cannot be empty"); err != nil {
		return err
	}
	if err := assertion.Empty(p.thumbnail, "Product Thumbnail cannot be empty"); err != nil {
		return err
	}
	if err := assertion.Different(p.categoryID, uuid.Nil, "Product Category cannot be empty"); err != nil {
		return err
	}
	return assertion.First(
		assertion.DecimalLessThan(p.price, decimal.Zero, "Product Price cannot be negative"),
		assertion.DecimalPlaces(p.price, PricePlaces, "Product Price cannot have more than 2 decimal places"),
		assertion.DecimalGreaterThan(p.price, maxPrice, "Product Price is too large"),
	)
}

func (p *Product) String() string {
	return fmt.Sprintf("%s %s (stock %s)", describe(p), p.name, p.stock)
}
