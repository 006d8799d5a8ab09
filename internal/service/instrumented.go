package service

import (
	"context"

	"catalog-stock/internal/domain"
	"catalog-stock/internal/metrics"

	"github.com/google/uuid"
)

type instrumentedStockService struct {
	next    StockService
	metrics *metrics.Metrics
}

// WithMetrics counts every adjustment by operation and outcome, and every reduction that
// leaves the product below the low-stock threshold
func WithMetrics(next StockService, m *metrics.Metrics) StockService {
	if m == nil {
		return next
	}
	return &instrumentedStockService{next: next, metrics: m}
}

func (s *instrumentedStockService) IncreaseStock(ctx context.Context, productID uuid.UUID, quantity int) (StockResult, error) {
	result, err := s.next.IncreaseStock(ctx, productID, quantity)
	s.observe("increase", result, err)
	return result, err
}

func (s *instrumentedStockService) ReduceStock(ctx context.Context, productID uuid.UUID, quantity int) (StockResult, error) {
	result, err := s.next.ReduceStock(ctx, productID, quantity)
	s.observe("reduce", result, err)
	if err == nil && result.Success && result.StockQuantity != nil && domain.IsLowStock(*result.StockQuantity) {
		s.metrics.LowStockEvents.Inc()
	}
	return result, err
}

func (s *instrumentedStockService) observe(operation string, result StockResult, err error) {
	outcome := metrics.OutcomeApplied
	switch {
	case err != nil:
		outcome = metrics.OutcomeFailed
	case !result.Success:
		outcome = metrics.OutcomeRejected
	}
	s.metrics.StockAdjustments.WithLabelValues(operation, outcome).Inc()
}
