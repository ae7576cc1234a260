package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ekaradag/shopsync/internal/domain"
	"github.com/ekaradag/shopsync/internal/repository"
)

// SaleService is the explicit, persistence-backed owner of the storefront
// sale state. Handlers read and write through it; nothing caches the
// state beyond a single request.
type SaleService struct {
	sales  repository.SaleRepository
	logger *zap.Logger
}

func NewSaleService(sales repository.SaleRepository, logger *zap.Logger) *SaleService {
	return &SaleService{sales: sales, logger: logger}
}

func (s *SaleService) Status(ctx context.Context) (*domain.Sale, error) {
	return s.sales.Get(ctx)
}

// Start activates a sale with the given discount. An invalid discount is
// rejected before any write happens.
func (s *SaleService) Start(ctx context.Context, req domain.StartSaleRequest) (*domain.Sale, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	sale := &domain.Sale{
		Active:    true,
		Discount:  req.Discount,
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.sales.Set(ctx, sale); err != nil {
		return nil, fmt.Errorf("start sale: %w", err)
	}
	s.logger.Info("sale started", zap.Int("discount", req.Discount))
	return sale, nil
}

func (s *SaleService) End(ctx context.Context) (*domain.Sale, error) {
	sale := &domain.Sale{
		Active:    false,
		Discount:  0,
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.sales.Set(ctx, sale); err != nil {
		return nil, fmt.Errorf("end sale: %w", err)
	}
	s.logger.Info("sale ended")
	return sale, nil
}
