package repository

import (
	"context"

	"github.com/ekaradag/shopsync/internal/domain"
)

// SubscriptionRepository defines all persistence operations for push
// subscriptions. The pgx implementation is in pg_subscription_repo.go.
// Tests use a hand-written mock (mock_subscription_repo.go).
//
// Preference updates are last-write-wins: the client always submits the
// full next preference state, so no read-modify-write is performed here.
type SubscriptionRepository interface {
	Upsert(ctx context.Context, sub *domain.Subscription) error
	UpdatePreferences(ctx context.Context, endpoint string, prefs domain.Preferences) error
	GetByEndpoint(ctx context.Context, endpoint string) (*domain.Subscription, error)
	Delete(ctx context.Context, endpoint string) error

	// ListByCategory returns every subscription opted into the category.
	// Quiet hours, mute, and expiry are evaluated by the audience filter,
	// not here.
	ListByCategory(ctx context.Context, category domain.Category) ([]*domain.Subscription, error)
}
