package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ekaradag/shopsync/internal/domain"
	"github.com/ekaradag/shopsync/internal/repository"
)

// OrderService accepts checkout orders, including replays of orders
// queued while the client was offline.
type OrderService struct {
	orders repository.OrderRepository
	logger *zap.Logger

	// onReceived is a metric hook (nil = no-op).
	onReceived func()
}

func NewOrderService(orders repository.OrderRepository, logger *zap.Logger, onReceived func()) *OrderService {
	if onReceived == nil {
		onReceived = func() {}
	}
	return &OrderService{orders: orders, logger: logger, onReceived: onReceived}
}

// Submit validates and persists an order. Submitting an ID that already
// exists returns the original receipt, so replaying clients cannot create
// duplicate orders.
func (s *OrderService) Submit(ctx context.Context, o *domain.Order) (*domain.OrderReceipt, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}

	receipt, err := s.orders.Save(ctx, o)
	if err != nil {
		return nil, fmt.Errorf("save order: %w", err)
	}

	s.onReceived()
	s.logger.Info("order accepted",
		zap.String("order_id", o.ID),
		zap.Float64("total", o.Total),
	)
	return receipt, nil
}
