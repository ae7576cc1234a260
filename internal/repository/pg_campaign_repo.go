package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ekaradag/shopsync/internal/domain"
)

type pgCampaignRepository struct {
	pool *pgxpool.Pool
}

// NewPgCampaignRepository returns a CampaignRepository backed by PostgreSQL.
func NewPgCampaignRepository(pool *pgxpool.Pool) CampaignRepository {
	return &pgCampaignRepository{pool: pool}
}

func (r *pgCampaignRepository) Create(ctx context.Context, c *domain.Campaign) error {
	actions, err := json.Marshal(c.Actions)
	if err != nil {
		return fmt.Errorf("marshal actions: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO campaigns
			(id, title, body, category, ttl_seconds, actions, icon, image, badge, url,
			 send_at, status, audience_count, success_count, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`,
		c.ID, c.Title, c.Body, c.Category, c.TTLSeconds, actions,
		c.Icon, c.Image, c.Badge, c.URL,
		c.SendAt, c.Status, c.AudienceCount, c.SuccessCount, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert campaign: %w", err)
	}
	return nil
}

func (r *pgCampaignRepository) GetByID(ctx context.Context, id string) (*domain.Campaign, error) {
	row := r.pool.QueryRow(ctx, selectCampaign+` WHERE id = $1`, id)

	c, err := scanCampaign(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return c, err
}

func (r *pgCampaignRepository) List(ctx context.Context, f domain.CampaignFilter) ([]*domain.Campaign, int, error) {
	var conditions []string
	var args []any

	if f.Status != nil {
		args = append(args, *f.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM campaigns"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count campaigns: %w", err)
	}

	offset := (f.Page - 1) * f.Limit
	args = append(args, f.Limit, offset)
	query := fmt.Sprintf(`%s%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		selectCampaign, where, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list campaigns: %w", err)
	}
	defer rows.Close()

	campaigns, err := scanCampaigns(rows)
	return campaigns, total, err
}

func (r *pgCampaignRepository) ClaimForDispatch(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE campaigns SET status = 'sent'
		WHERE id = $1 AND status = 'scheduled'`, id)
	if err != nil {
		return fmt.Errorf("claim campaign: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Either the row does not exist or someone already claimed it.
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return domain.ErrAlreadySent
	}
	return nil
}

func (r *pgCampaignRepository) FinishDispatch(ctx context.Context, id string, audience, success int, sentAt time.Time) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE campaigns
		SET audience_count = $1, success_count = $2, sent_at = $3
		WHERE id = $4`, audience, success, sentAt, id)
	if err != nil {
		return fmt.Errorf("finish dispatch: %w", err)
	}
	return nil
}

func (r *pgCampaignRepository) FindPendingScheduled(ctx context.Context) ([]*domain.Campaign, error) {
	rows, err := r.pool.Query(ctx, selectCampaign+`
		WHERE status = 'scheduled'
		ORDER BY send_at ASC NULLS FIRST
		LIMIT 500`)
	if err != nil {
		return nil, fmt.Errorf("find pending scheduled: %w", err)
	}
	defer rows.Close()
	return scanCampaigns(rows)
}

func (r *pgCampaignRepository) FindDueScheduled(ctx context.Context, now time.Time) ([]*domain.Campaign, error) {
	rows, err := r.pool.Query(ctx, selectCampaign+`
		WHERE status = 'scheduled'
		  AND (send_at IS NULL OR send_at <= $1)
		LIMIT 500`, now)
	if err != nil {
		return nil, fmt.Errorf("find due scheduled: %w", err)
	}
	defer rows.Close()
	return scanCampaigns(rows)
}

// ---- helpers ----

const selectCampaign = `
	SELECT id, title, body, category, ttl_seconds, actions, icon, image, badge, url,
	       send_at, status, audience_count, success_count, created_at, sent_at
	FROM campaigns`

func scanCampaign(row pgx.Row) (*domain.Campaign, error) {
	var c domain.Campaign
	var actions []byte
	err := row.Scan(
		&c.ID, &c.Title, &c.Body, &c.Category, &c.TTLSeconds, &actions,
		&c.Icon, &c.Image, &c.Badge, &c.URL,
		&c.SendAt, &c.Status, &c.AudienceCount, &c.SuccessCount,
		&c.CreatedAt, &c.SentAt,
	)
	if err != nil {
		return nil, err
	}
	if len(actions) > 0 {
		if err := json.Unmarshal(actions, &c.Actions); err != nil {
			return nil, fmt.Errorf("unmarshal actions: %w", err)
		}
	}
	return &c, nil
}

func scanCampaigns(rows pgx.Rows) ([]*domain.Campaign, error) {
	var result []*domain.Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}
