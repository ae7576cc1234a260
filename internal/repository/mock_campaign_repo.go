package repository

import (
	"context"
	"sync"
	"time"

	"github.com/ekaradag/shopsync/internal/domain"
)

// MockCampaignRepository is a hand-written, in-memory implementation of
// CampaignRepository used in unit tests.
type MockCampaignRepository struct {
	mu        sync.RWMutex
	campaigns map[string]*domain.Campaign

	CreateErr error
	ClaimErr  error
}

func NewMockCampaignRepository() *MockCampaignRepository {
	return &MockCampaignRepository{campaigns: make(map[string]*domain.Campaign)}
}

func (m *MockCampaignRepository) Create(_ context.Context, c *domain.Campaign) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *c
	m.campaigns[c.ID] = &clone
	return nil
}

func (m *MockCampaignRepository) GetByID(_ context.Context, id string) (*domain.Campaign, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.campaigns[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *c
	return &clone, nil
}

func (m *MockCampaignRepository) List(_ context.Context, f domain.CampaignFilter) ([]*domain.Campaign, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Campaign
	for _, c := range m.campaigns {
		if f.Status != nil && c.Status != *f.Status {
			continue
		}
		clone := *c
		result = append(result, &clone)
	}
	return result, len(result), nil
}

func (m *MockCampaignRepository) ClaimForDispatch(_ context.Context, id string) error {
	if m.ClaimErr != nil {
		return m.ClaimErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.campaigns[id]
	if !ok {
		return domain.ErrNotFound
	}
	if c.Status != domain.CampaignScheduled {
		return domain.ErrAlreadySent
	}
	c.Status = domain.CampaignSent
	return nil
}

func (m *MockCampaignRepository) FinishDispatch(_ context.Context, id string, audience, success int, sentAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.campaigns[id]
	if !ok {
		return domain.ErrNotFound
	}
	c.AudienceCount = audience
	c.SuccessCount = success
	c.SentAt = &sentAt
	return nil
}

func (m *MockCampaignRepository) FindPendingScheduled(_ context.Context) ([]*domain.Campaign, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Campaign
	for _, c := range m.campaigns {
		if c.Status == domain.CampaignScheduled {
			clone := *c
			result = append(result, &clone)
		}
	}
	return result, nil
}

func (m *MockCampaignRepository) FindDueScheduled(_ context.Context, now time.Time) ([]*domain.Campaign, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Campaign
	for _, c := range m.campaigns {
		if c.Status == domain.CampaignScheduled && c.Due(now) {
			clone := *c
			result = append(result, &clone)
		}
	}
	return result, nil
}
