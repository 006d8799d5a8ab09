package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// Identifiable is implemented by every entity in the catalog
type Identifiable interface {
	EntityID() uuid.UUID
	EntityKind() string
}

// Entity carries the identity shared by catalog entities. Embed it by value.
type Entity struct {
	ID uuid.UUID
}

func newEntity() Entity {
	return Entity{ID: uuid.New()}
}

// EntityID returns the entity identifier
func (e Entity) EntityID() uuid.UUID {
	return e.ID
}

// SameEntity reports whether a and b are the same kind of entity with the same id.
// Two nil values are considered the same.
func SameEntity(a, b Identifiable) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.EntityKind() == b.EntityKind() && a.EntityID() == b.EntityID()
}

func describe(e Identifiable) string {
	return fmt.Sprintf("%s [Id=%s]", e.EntityKind(), e.EntityID())
}
