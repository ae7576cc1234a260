package repository

import (
	"context"

	"github.com/ekaradag/shopsync/internal/domain"
)

// OrderRepository persists replayed checkout orders.
//
// Save is idempotent on the caller-supplied order ID: a client that crashed
// mid-replay may submit the same order again, and must receive the original
// receipt rather than a duplicate row.
type OrderRepository interface {
	Save(ctx context.Context, o *domain.Order) (*domain.OrderReceipt, error)
	GetReceipt(ctx context.Context, id string) (*domain.OrderReceipt, error)
}
