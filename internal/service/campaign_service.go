package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ekaradag/shopsync/internal/dispatch"
	"github.com/ekaradag/shopsync/internal/domain"
	"github.com/ekaradag/shopsync/internal/repository"
)

// Dispatcher is the slice of the dispatch engine the service needs.
type Dispatcher interface {
	Dispatch(ctx context.Context, c *domain.Campaign) (*dispatch.Result, error)
}

// Armer is the slice of the scheduler the service needs.
type Armer interface {
	Arm(c *domain.Campaign)
}

// CampaignService coordinates campaign persistence, immediate dispatch,
// and deferred scheduling. HTTP handlers depend on this service, not on
// the engine or scheduler directly.
type CampaignService struct {
	campaigns  repository.CampaignRepository
	events     repository.CampaignEventRepository
	dispatcher Dispatcher
	scheduler  Armer
	logger     *zap.Logger
}

func NewCampaignService(
	campaigns repository.CampaignRepository,
	events repository.CampaignEventRepository,
	dispatcher Dispatcher,
	scheduler Armer,
	logger *zap.Logger,
) *CampaignService {
	return &CampaignService{
		campaigns:  campaigns,
		events:     events,
		dispatcher: dispatcher,
		scheduler:  scheduler,
		logger:     logger,
	}
}

// Create validates and persists a campaign, then either dispatches it
// immediately (sendAt absent or already due) or hands it to the scheduler.
// The returned Result is non-nil only when the campaign was dispatched now.
//
// The campaign is persisted before any dispatch so that a crash between
// the two leaves a scheduled row for the recovery sweep, never a sent
// notification with no record.
func (s *CampaignService) Create(ctx context.Context, req domain.CreateCampaignRequest) (*domain.Campaign, *dispatch.Result, error) {
	if err := req.Validate(); err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	ttl := req.TTLSeconds
	if ttl == 0 {
		ttl = domain.DefaultTTLSeconds
	}

	c := &domain.Campaign{
		ID:         uuid.New().String(),
		Title:      req.Title,
		Body:       req.Body,
		Category:   req.Category,
		TTLSeconds: ttl,
		Actions:    req.Actions,
		Icon:       req.Icon,
		Image:      req.Image,
		Badge:      req.Badge,
		URL:        req.URL,
		SendAt:     req.SendAt,
		Status:     domain.CampaignScheduled,
		CreatedAt:  now,
	}

	if err := s.campaigns.Create(ctx, c); err != nil {
		return nil, nil, fmt.Errorf("persist campaign: %w", err)
	}

	if c.Due(now) {
		result, err := s.dispatcher.Dispatch(ctx, c)
		if err != nil {
			return nil, nil, fmt.Errorf("dispatch campaign: %w", err)
		}
		c.Status = domain.CampaignSent
		c.AudienceCount = result.AudienceCount
		c.SuccessCount = result.SuccessCount
		return c, result, nil
	}

	s.scheduler.Arm(c)
	return c, nil, nil
}

func (s *CampaignService) GetByID(ctx context.Context, id string) (*domain.Campaign, error) {
	return s.campaigns.GetByID(ctx, id)
}

func (s *CampaignService) List(ctx context.Context, filter domain.CampaignFilter) ([]*domain.Campaign, int, error) {
	return s.campaigns.List(ctx, filter)
}

// RecordEvent appends one interaction record to the campaign event log.
func (s *CampaignService) RecordEvent(ctx context.Context, req domain.RecordEventRequest) (*domain.CampaignEvent, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	e := &domain.CampaignEvent{
		ID:             uuid.New().String(),
		CampaignID:     req.CampaignID,
		NotificationID: req.NotificationID,
		Event:          req.Event,
		Category:       req.Category,
		OccurredAt:     time.Now().UTC(),
		Metadata:       req.Metadata,
	}
	if err := s.events.Append(ctx, e); err != nil {
		return nil, fmt.Errorf("append campaign event: %w", err)
	}
	return e, nil
}
