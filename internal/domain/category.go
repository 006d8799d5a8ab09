package domain

import (
	"fmt"

	"catalog-stock/internal/assertion"

	"github.com/google/uuid"
)

// Category groups products. Products reference their category; a category does not own
// its products.
type Category struct {
	Entity
	name string
	code int
}

// NewCategory creates a category with a fresh id
func NewCategory(name string, code int) (*Category, error) {
	c := &Category{Entity: newEntity(), name: name, code: code}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// RehydrateCategory rebuilds a stored category under its existing id
func RehydrateCategory(id uuid.UUID, name string, code int) (*Category, error) {
	if err := assertion.EmptyUUID(id, "Category Id cannot be empty"); err != nil {
		return nil, err
	}
	c := &Category{Entity: Entity{ID: id}, name: name, code: code}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Category) EntityKind() string { return "Category" }
func (c *Category) Name() string { return c.name }
func (c *Category) Code() int { return c.code }

// Validate checks the category invariants
func (c *Category) Validate() error {
	if err := assertion.Empty(c.name, "Category Name cannot be empty"); err != nil {
		return err
	}
	return assertion.LessThanOrEqual(c.code, 0, "Category Code must be greater than zero")
}

func (c *Category) String() string {
	return fmt.Sprintf("%s [%d]", c.name, c.code)
}
