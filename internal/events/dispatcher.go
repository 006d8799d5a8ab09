package events

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// Handler reacts to one kind of message
type Handler interface {
	Handle(ctx context.Context, msg Message) error
}

// HandlerFunc adapts a function to Handler
type HandlerFunc func(ctx context.Context, msg Message) error

func (f HandlerFunc) Handle(ctx context.Context, msg Message) error {
	return f(ctx, msg)
}

// Dispatcher fans messages out to in-process handlers by event name and forwards every
// message to the configured downstream publishers
type Dispatcher struct {
	mu         sync.RWMutex
	handlers   map[string][]Handler
	downstream []Publisher
	logger     *zap.Logger
}

func NewDispatcher(logger *zap.Logger, downstream ...Publisher) *Dispatcher {
	return &Dispatcher{
		handlers:   make(map[string][]Handler),
		downstream: downstream,
		logger:     logger,
	}
}

// Subscribe registers handler for messages named eventName
func (d *Dispatcher) Subscribe(eventName string, handler Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[eventName] = append(d.handlers[eventName], handler)
}

// Publish forwards msg downstream, then runs local handlers. A downstream failure is
// returned so the outbox keeps the message; handler failures are logged only because
// handlers run again on redelivery anyway.
func (d *Dispatcher) Publish(ctx context.Context, msg Message) error {
	var errs []error
	for _, p := range d.downstream {
		if err := p.Publish(ctx, msg); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	d.mu.RLock()
	handlers := append([]Handler(nil), d.handlers[msg.Name]...)
	d.mu.RUnlock()

	for _, h := range handlers {
		if err := h.Handle(ctx, msg); err != nil {
			d.logger.Error("Event handler failed",
				zap.String("event", msg.Name),
				zap.String("event_id", msg.ID.String()),
				zap.Error(err),
			)
		}
	}
	return nil
}
