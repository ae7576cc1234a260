package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ekaradag/shopsync/internal/domain"
)

type pgSubscriptionRepository struct {
	pool *pgxpool.Pool
}

// NewPgSubscriptionRepository returns a SubscriptionRepository backed by PostgreSQL.
func NewPgSubscriptionRepository(pool *pgxpool.Pool) SubscriptionRepository {
	return &pgSubscriptionRepository{pool: pool}
}

func (r *pgSubscriptionRepository) Upsert(ctx context.Context, sub *domain.Subscription) error {
	prefs, err := json.Marshal(sub.Preferences)
	if err != nil {
		return fmt.Errorf("marshal preferences: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO subscriptions
			(endpoint, p256dh, auth, preferences, expiration_time, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (endpoint) DO UPDATE SET
			p256dh          = EXCLUDED.p256dh,
			auth            = EXCLUDED.auth,
			preferences     = EXCLUDED.preferences,
			expiration_time = EXCLUDED.expiration_time,
			updated_at      = EXCLUDED.updated_at`,
		sub.Endpoint, sub.Keys.P256dh, sub.Keys.Auth, prefs,
		sub.ExpirationTime, sub.CreatedAt, sub.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert subscription: %w", err)
	}
	return nil
}

func (r *pgSubscriptionRepository) UpdatePreferences(ctx context.Context, endpoint string, prefs domain.Preferences) error {
	data, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("marshal preferences: %w", err)
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE subscriptions SET preferences = $1, updated_at = NOW()
		WHERE endpoint = $2`, data, endpoint)
	if err != nil {
		return fmt.Errorf("update preferences: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *pgSubscriptionRepository) GetByEndpoint(ctx context.Context, endpoint string) (*domain.Subscription, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT endpoint, p256dh, auth, preferences, expiration_time, created_at, updated_at
		FROM subscriptions WHERE endpoint = $1`, endpoint)

	sub, err := scanSubscription(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return sub, err
}

func (r *pgSubscriptionRepository) Delete(ctx context.Context, endpoint string) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM subscriptions WHERE endpoint = $1`, endpoint)
	if err != nil {
		return fmt.Errorf("delete subscription: %w", err)
	}
	return nil
}

func (r *pgSubscriptionRepository) ListByCategory(ctx context.Context, category domain.Category) ([]*domain.Subscription, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT endpoint, p256dh, auth, preferences, expiration_time, created_at, updated_at
		FROM subscriptions
		WHERE (preferences->'categories'->>$1)::boolean IS TRUE`, string(category))
	if err != nil {
		return nil, fmt.Errorf("list subscriptions by category: %w", err)
	}
	defer rows.Close()

	var subs []*domain.Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

func scanSubscription(row pgx.Row) (*domain.Subscription, error) {
	var sub domain.Subscription
	var prefs []byte
	err := row.Scan(
		&sub.Endpoint, &sub.Keys.P256dh, &sub.Keys.Auth,
		&prefs, &sub.ExpirationTime, &sub.CreatedAt, &sub.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(prefs, &sub.Preferences); err != nil {
		return nil, fmt.Errorf("unmarshal preferences: %w", err)
	}
	return &sub, nil
}
