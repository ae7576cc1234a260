package repository

import (
	"context"
	"time"

	"github.com/ekaradag/shopsync/internal/domain"
)

// CampaignRepository defines all persistence operations for campaigns.
// The pgx implementation is in pg_campaign_repo.go.
type CampaignRepository interface {
	Create(ctx context.Context, c *domain.Campaign) error
	GetByID(ctx context.Context, id string) (*domain.Campaign, error)
	List(ctx context.Context, filter domain.CampaignFilter) ([]*domain.Campaign, int, error)

	// ClaimForDispatch atomically transitions the campaign from scheduled
	// to sent. It returns domain.ErrAlreadySent if another caller won the
	// claim, making dispatch at-most-once even when a timer and the sweep
	// fire for the same campaign.
	ClaimForDispatch(ctx context.Context, id string) error

	// FinishDispatch stores the final audience/success counts after fan-out.
	FinishDispatch(ctx context.Context, id string, audience, success int, sentAt time.Time) error

	// FindPendingScheduled returns every campaign still in status
	// scheduled, due or not. Used by the scheduler to rehydrate timers
	// after a restart.
	FindPendingScheduled(ctx context.Context) ([]*domain.Campaign, error)

	// FindDueScheduled returns scheduled campaigns whose send time has
	// passed (or that have none). Used by the periodic sweep.
	FindDueScheduled(ctx context.Context, now time.Time) ([]*domain.Campaign, error)
}

// CampaignEventRepository is the append-only campaign event log.
type CampaignEventRepository interface {
	Append(ctx context.Context, e *domain.CampaignEvent) error
	ListByCampaign(ctx context.Context, campaignID string) ([]*domain.CampaignEvent, error)
}
