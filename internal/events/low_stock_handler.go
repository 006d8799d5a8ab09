package events

import (
	"context"
	"errors"
	"fmt"

	"catalog-stock/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProductLoader loads a product by id
type ProductLoader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
}

// LowStockAlertHandler turns product.stock_low messages into purchasing alerts
type LowStockAlertHandler struct {
	products func() ProductLoader
	logger   *zap.Logger
}

// NewLowStockAlertHandler takes a factory because each alert runs in its own
// repository scope
func NewLowStockAlertHandler(products func() ProductLoader, logger *zap.Logger) *LowStockAlertHandler {
	return &LowStockAlertHandler{products: products, logger: logger}
}

func (h *LowStockAlertHandler) Handle(ctx context.Context, msg Message) error {
	payload, err := DecodeStockLow(msg)
	if err != nil {
		return err
	}

	product, err := h.products().GetByID(ctx, msg.AggregateID)
	if err != nil {
		return fmt.Errorf("failed to load product %s: %w", msg.AggregateID, err)
	}
	if product == nil {
		return errors.New("product not found")
	}

	h.logger.Warn("Product stock is low",
		zap.String("product_id", product.ID.String()),
		zap.String("product", product.Name()),
		zap.Int("quantity_left", payload.QuantityLeft),
		zap.Int("threshold", domain.LowStockThreshold),
	)
	return nil
}
