package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/ekaradag/shopsync/internal/domain"
)

// MockSubscriptionRepository is a hand-written, in-memory implementation of
// SubscriptionRepository used in unit tests. No mock-generation library needed.
type MockSubscriptionRepository struct {
	mu   sync.RWMutex
	subs map[string]*domain.Subscription

	// Optional error overrides, set in tests to simulate failure paths.
	UpsertErr error
	ListErr   error
	DeleteErr error

	// Deleted records every endpoint removed, in order.
	Deleted []string
}

func NewMockSubscriptionRepository() *MockSubscriptionRepository {
	return &MockSubscriptionRepository{subs: make(map[string]*domain.Subscription)}
}

func (m *MockSubscriptionRepository) Upsert(_ context.Context, sub *domain.Subscription) error {
	if m.UpsertErr != nil {
		return m.UpsertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *sub
	m.subs[sub.Endpoint] = &clone
	return nil
}

func (m *MockSubscriptionRepository) UpdatePreferences(_ context.Context, endpoint string, prefs domain.Preferences) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	sub, ok := m.subs[endpoint]
	if !ok {
		return domain.ErrNotFound
	}
	sub.Preferences = prefs
	return nil
}

func (m *MockSubscriptionRepository) GetByEndpoint(_ context.Context, endpoint string) (*domain.Subscription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sub, ok := m.subs[endpoint]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *sub
	return &clone, nil
}

func (m *MockSubscriptionRepository) Delete(_ context.Context, endpoint string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.subs, endpoint)
	m.Deleted = append(m.Deleted, endpoint)
	return nil
}

func (m *MockSubscriptionRepository) ListByCategory(_ context.Context, category domain.Category) ([]*domain.Subscription, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Subscription
	for _, sub := range m.subs {
		if sub.Preferences.Categories[category] {
			clone := *sub
			result = append(result, &clone)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Endpoint < result[j].Endpoint })
	return result, nil
}

func (m *MockSubscriptionRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.subs)
}
