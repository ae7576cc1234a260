package push

import (
	"context"
	"sync"

	"github.com/ekaradag/shopsync/internal/domain"
)

// MockSender is a hand-written Sender used in unit tests. Per-endpoint
// errors are configured up front; every delivery attempt is recorded.
type MockSender struct {
	mu sync.Mutex

	// Errs maps endpoint → error returned for that endpoint. Endpoints
	// not present succeed.
	Errs map[string]error

	// Sent records the endpoints delivered to, in completion order.
	Sent []string

	// LastMessage holds the most recent payload bytes, shared across
	// recipients by construction.
	LastMessage []byte

	// LastTTL holds the most recent TTL passed to Send.
	LastTTL int
}

func NewMockSender() *MockSender {
	return &MockSender{Errs: make(map[string]error)}
}

func (m *MockSender) Send(_ context.Context, sub *domain.Subscription, message []byte, ttlSeconds int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastMessage = message
	m.LastTTL = ttlSeconds
	if err, ok := m.Errs[sub.Endpoint]; ok {
		return err
	}
	m.Sent = append(m.Sent, sub.Endpoint)
	return nil
}

func (m *MockSender) SentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Sent)
}
