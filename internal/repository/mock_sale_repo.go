package repository

import (
	"context"
	"sync"
	"time"

	"github.com/ekaradag/shopsync/internal/domain"
)

// MockSaleRepository is a hand-written, in-memory implementation of
// SaleRepository used in unit tests. It starts with the same inactive
// state the migrations seed.
type MockSaleRepository struct {
	mu   sync.RWMutex
	sale domain.Sale

	SetErr error
}

func NewMockSaleRepository() *MockSaleRepository {
	return &MockSaleRepository{sale: domain.Sale{UpdatedAt: time.Now().UTC()}}
}

func (m *MockSaleRepository) Get(_ context.Context) (*domain.Sale, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	clone := m.sale
	return &clone, nil
}

func (m *MockSaleRepository) Set(_ context.Context, sale *domain.Sale) error {
	if m.SetErr != nil {
		return m.SetErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sale = *sale
	return nil
}
