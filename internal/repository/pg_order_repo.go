package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ekaradag/shopsync/internal/domain"
)

type pgOrderRepository struct {
	pool *pgxpool.Pool
}

// NewPgOrderRepository returns an OrderRepository backed by PostgreSQL.
func NewPgOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &pgOrderRepository{pool: pool}
}

func (r *pgOrderRepository) Save(ctx context.Context, o *domain.Order) (*domain.OrderReceipt, error) {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return nil, fmt.Errorf("marshal order items: %w", err)
	}

	// ON CONFLICT DO NOTHING keeps the first submission authoritative;
	// a replayed duplicate gets the stored receipt back.
	_, err = r.pool.Exec(ctx, `
		INSERT INTO orders
			(id, total, payment_method, items, status, created_at, processed_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (id) DO NOTHING`,
		o.ID, o.Total, o.PaymentMethod, items,
		domain.OrderConfirmed, o.CreatedAt, time.Now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	return r.GetReceipt(ctx, o.ID)
}

func (r *pgOrderRepository) GetReceipt(ctx context.Context, id string) (*domain.OrderReceipt, error) {
	var receipt domain.OrderReceipt
	err := r.pool.QueryRow(ctx, `
		SELECT id, status, processed_at FROM orders WHERE id = $1`, id).
		Scan(&receipt.ID, &receipt.Status, &receipt.ProcessedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order receipt: %w", err)
	}
	return &receipt, nil
}
