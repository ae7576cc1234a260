package repository

import (
	"context"

	"github.com/ekaradag/shopsync/internal/domain"
)

// SaleRepository persists the storefront-wide sale state.
// There is exactly one row; Set replaces it wholesale.
type SaleRepository interface {
	Get(ctx context.Context) (*domain.Sale, error)
	Set(ctx context.Context, sale *domain.Sale) error
}
