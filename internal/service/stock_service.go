package service

import (
	"context"
	"errors"
	"fmt"

	"catalog-stock/internal/domain"
	"catalog-stock/internal/events"
	"catalog-stock/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Failure messages carried by StockResult
const (
	MessageProductNotFound   = "product not found"
	MessageInsufficientStock = "insufficient stock"
	MessageNotPersisted      = "stock change was not persisted"
	MessageStockLimit        = "stock limit exceeded"
)

// StockResult is the outcome of a stock adjustment. Callers must not branch on the
// failure reason; Message is for humans.
type StockResult struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	StockQuantity *int   `json:"stock_quantity,omitempty"`
}

func failure(message string) StockResult {
	return StockResult{Message: message}
}

func applied(message string, stock domain.Stock) StockResult {
	result := StockResult{Success: true, Message: message}
	if count, tracked := stock.Quantity(); tracked {
		result.StockQuantity = &count
	}
	return result
}

// StockService adjusts the stock of one product per call, end to end.
// Business outcomes (unknown product, insufficient stock) come back as a failed
// StockResult; storage failures come back as an error.
type StockService interface {
	IncreaseStock(ctx context.Context, productID uuid.UUID, quantity int) (StockResult, error)
	ReduceStock(ctx context.Context, productID uuid.UUID, quantity int) (StockResult, error)
}

type stockService struct {
	products repository.ProductRepository
	notifier events.Notifier
	logger   *zap.Logger
}

// NewStockService creates a StockService. Non-positive quantities are not rejected here;
// that guard belongs to the caller.
func NewStockService(products repository.ProductRepository, notifier events.Notifier, logger *zap.Logger) StockService {
	return &stockService{
		products: products,
		notifier: notifier,
		logger:   logger,
	}
}

func (s *stockService) load(ctx context.Context, productID uuid.UUID) (*domain.Product, bool, error) {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return product, true, nil
}

func (s *stockService) IncreaseStock(ctx context.Context, productID uuid.UUID, quantity int) (StockResult, error) {
	product, found, err := s.load(ctx, productID)
	if err != nil {
		return StockResult{}, err
	}
	if !found {
		return failure(MessageProductNotFound), nil
	}

	if err := product.IncreaseStock(quantity); err != nil {
		if errors.Is(err, domain.ErrStockLimitExceeded) {
			return failure(MessageStockLimit), nil
		}
		return StockResult{}, err
	}

	units, _ := domain.StockUnits(quantity)
	return s.commit(ctx, product, fmt.Sprintf("Stock increased by %d units", units))
}

// ReduceStock checks the stock before touching the aggregate, so an insufficient stock
// never reaches Product.ReduceStock and nothing is registered or committed
func (s *stockService) ReduceStock(ctx context.Context, productID uuid.UUID, quantity int) (StockResult, error) {
	product, found, err := s.load(ctx, productID)
	if err != nil {
		return StockResult{}, err
	}
	if !found {
		return failure(MessageProductNotFound), nil
	}

	if !product.CanReduceStock(quantity) {
		return failure(MessageInsufficientStock), nil
	}

	if err := product.ReduceStock(quantity); err != nil {
		return StockResult{}, err
	}

	if left, tracked := product.Stock().Quantity(); tracked && domain.IsLowStock(left) {
		if err := s.notifier.PublishEvent(ctx, domain.NewProductStockLowEvent(product.ID, left)); err != nil {
			return StockResult{}, fmt.Errorf("failed to publish low stock event: %w", err)
		}
	}

	units, _ := domain.StockUnits(quantity)
	return s.commit(ctx, product, fmt.Sprintf("Stock reduced by %d units", units))
}

func (s *stockService) commit(ctx context.Context, product *domain.Product, message string) (StockResult, error) {
	s.products.Update(product)

	persisted, err := s.products.UnitOfWork().Commit(ctx)
	if err != nil {
		s.logger.Error("Failed to commit stock change",
			zap.String("product_id", product.ID.String()),
			zap.Error(err),
		)
		return StockResult{}, err
	}
	if !persisted {
		return failure(MessageNotPersisted), nil
	}

	s.logger.Info(message,
		zap.String("product_id", product.ID.String()),
		zap.Stringer("stock", product.Stock()),
	)

	return applied(message, product.Stock()), nil
}
