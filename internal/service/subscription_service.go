package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ekaradag/shopsync/internal/domain"
	"github.com/ekaradag/shopsync/internal/repository"
)

// SubscriptionService owns the subscribe / preference / unsubscribe flows.
type SubscriptionService struct {
	subs   repository.SubscriptionRepository
	logger *zap.Logger
}

func NewSubscriptionService(subs repository.SubscriptionRepository, logger *zap.Logger) *SubscriptionService {
	return &SubscriptionService{subs: subs, logger: logger}
}

// Save upserts a subscription keyed by endpoint. Re-subscribing an
// existing endpoint replaces its keys and expiration; preferences default
// to everything-enabled when the client does not supply any.
func (s *SubscriptionService) Save(ctx context.Context, req domain.SaveSubscriptionRequest) (*domain.Subscription, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	prefs := domain.DefaultPreferences()
	if req.Preferences != nil {
		prefs = *req.Preferences
	}

	now := time.Now().UTC()
	sub := &domain.Subscription{
		Endpoint:       req.Endpoint,
		Keys:           req.Keys,
		Preferences:    prefs,
		ExpirationTime: req.ExpirationTime,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.subs.Upsert(ctx, sub); err != nil {
		return nil, fmt.Errorf("save subscription: %w", err)
	}
	return sub, nil
}

// UpdatePreferences replaces the subscription's preferences wholesale.
// The client computes the full next state, so last write wins by design.
func (s *SubscriptionService) UpdatePreferences(ctx context.Context, req domain.UpdatePreferencesRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	return s.subs.UpdatePreferences(ctx, req.Endpoint, req.Preferences)
}

func (s *SubscriptionService) GetPreferences(ctx context.Context, endpoint string) (*domain.Preferences, error) {
	if endpoint == "" {
		return nil, domain.ErrInvalidEndpoint
	}
	sub, err := s.subs.GetByEndpoint(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	return &sub.Preferences, nil
}

// Delete removes a subscription. Deleting an unknown endpoint is not an
// error: the caller's goal state is already reached.
func (s *SubscriptionService) Delete(ctx context.Context, endpoint string) error {
	if endpoint == "" {
		return domain.ErrInvalidEndpoint
	}
	return s.subs.Delete(ctx, endpoint)
}
