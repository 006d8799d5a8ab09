package domain

import (
	"time"

	"github.com/google/uuid"
)

// LowStockThreshold is the count below which a reduction raises ProductStockLowEvent
const LowStockThreshold = 10

const EventProductStockLow = "product.stock_low"

// Event is a fact about an aggregate that other parts of the system may react to
type Event interface {
	AggregateID() uuid.UUID
	OccurredAt() time.Time
	EventName() string
}

// DomainEvent holds the fields shared by every event. They are set once on creation.
type DomainEvent struct {
	aggregateID uuid.UUID
	occurredAt  time.Time
}

func newDomainEvent(aggregateID uuid.UUID) DomainEvent {
	return DomainEvent{aggregateID: aggregateID, occurredAt: time.Now().UTC()}
}

func (e DomainEvent) AggregateID() uuid.UUID { return e.aggregateID }
func (e DomainEvent) OccurredAt() time.Time { return e.occurredAt }

// ProductStockLowEvent is raised when a reduction leaves fewer than LowStockThreshold units
type ProductStockLowEvent struct {
	DomainEvent
	QuantityLeft int `json:"quantity_left"`
}

func NewProductStockLowEvent(productID uuid.UUID, quantityLeft int) ProductStockLowEvent {
	return ProductStockLowEvent{
		DomainEvent:  newDomainEvent(productID),
		QuantityLeft: quantityLeft,
	}
}

func (ProductStockLowEvent) EventName() string { return EventProductStockLow }

// IsLowStock reports whether quantity is below LowStockThreshold
func IsLowStock(quantity int) bool {
	return quantity < LowStockThreshold
}
