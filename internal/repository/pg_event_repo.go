package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ekaradag/shopsync/internal/domain"
)

type pgCampaignEventRepository struct {
	pool *pgxpool.Pool
}

// NewPgCampaignEventRepository returns a CampaignEventRepository backed by
// PostgreSQL. Rows are insert-only; there is no update path.
func NewPgCampaignEventRepository(pool *pgxpool.Pool) CampaignEventRepository {
	return &pgCampaignEventRepository{pool: pool}
}

func (r *pgCampaignEventRepository) Append(ctx context.Context, e *domain.CampaignEvent) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO campaign_events
			(id, campaign_id, notification_id, event, category, occurred_at, metadata)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		e.ID, e.CampaignID, e.NotificationID, e.Event, e.Category, e.OccurredAt, []byte(e.Metadata),
	)
	if err != nil {
		return fmt.Errorf("insert campaign event: %w", err)
	}
	return nil
}

func (r *pgCampaignEventRepository) ListByCampaign(ctx context.Context, campaignID string) ([]*domain.CampaignEvent, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, campaign_id, notification_id, event, category, occurred_at, metadata
		FROM campaign_events
		WHERE campaign_id = $1
		ORDER BY occurred_at ASC`, campaignID)
	if err != nil {
		return nil, fmt.Errorf("list campaign events: %w", err)
	}
	defer rows.Close()

	var events []*domain.CampaignEvent
	for rows.Next() {
		e, err := scanCampaignEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func scanCampaignEvent(row pgx.Row) (*domain.CampaignEvent, error) {
	var e domain.CampaignEvent
	var metadata []byte
	err := row.Scan(&e.ID, &e.CampaignID, &e.NotificationID, &e.Event, &e.Category, &e.OccurredAt, &metadata)
	if err != nil {
		return nil, err
	}
	e.Metadata = metadata
	return &e, nil
}
