package repository

import (
	"context"
	"sync"

	"github.com/ekaradag/shopsync/internal/domain"
)

// MockCampaignEventRepository is a hand-written, in-memory implementation of
// CampaignEventRepository used in unit tests.
type MockCampaignEventRepository struct {
	mu     sync.RWMutex
	events []*domain.CampaignEvent

	AppendErr error
}

func NewMockCampaignEventRepository() *MockCampaignEventRepository {
	return &MockCampaignEventRepository{}
}

func (m *MockCampaignEventRepository) Append(_ context.Context, e *domain.CampaignEvent) error {
	if m.AppendErr != nil {
		return m.AppendErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *e
	m.events = append(m.events, &clone)
	return nil
}

func (m *MockCampaignEventRepository) ListByCampaign(_ context.Context, campaignID string) ([]*domain.CampaignEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.CampaignEvent
	for _, e := range m.events {
		if e.CampaignID != nil && *e.CampaignID == campaignID {
			clone := *e
			result = append(result, &clone)
		}
	}
	return result, nil
}

// All returns every appended event regardless of campaign.
func (m *MockCampaignEventRepository) All() []*domain.CampaignEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.CampaignEvent(nil), m.events...)
}
