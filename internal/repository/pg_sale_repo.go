package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ekaradag/shopsync/internal/domain"
)

type pgSaleRepository struct {
	pool *pgxpool.Pool
}

// NewPgSaleRepository returns a SaleRepository backed by PostgreSQL.
// The migrations seed the single sale_state row, so Get never has to
// invent a default.
func NewPgSaleRepository(pool *pgxpool.Pool) SaleRepository {
	return &pgSaleRepository{pool: pool}
}

func (r *pgSaleRepository) Get(ctx context.Context) (*domain.Sale, error) {
	var sale domain.Sale
	err := r.pool.QueryRow(ctx, `
		SELECT active, discount, updated_at FROM sale_state WHERE id = 1`).
		Scan(&sale.Active, &sale.Discount, &sale.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get sale state: %w", err)
	}
	return &sale, nil
}

func (r *pgSaleRepository) Set(ctx context.Context, sale *domain.Sale) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE sale_state SET active = $1, discount = $2, updated_at = $3 WHERE id = 1`,
		sale.Active, sale.Discount, sale.UpdatedAt)
	if err != nil {
		return fmt.Errorf("set sale state: %w", err)
	}
	return nil
}
