package checkout

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/ekaradag/shopsync/internal/bus"
	"github.com/ekaradag/shopsync/internal/domain"
)

// slowSubmitter stalls each submission and tracks how many are in
// flight at once.
type slowSubmitter struct {
	delay    time.Duration
	inFlight atomic.Int64
	maxSeen  atomic.Int64
}

func (s *slowSubmitter) Submit(_ context.Context, payload json.RawMessage) (*domain.OrderReceipt, error) {
	n := s.inFlight.Add(1)
	for {
		m := s.maxSeen.Load()
		if n <= m || s.maxSeen.CompareAndSwap(m, n) {
			break
		}
	}
	time.Sleep(s.delay)
	s.inFlight.Add(-1)

	var body struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(payload, &body)
	return &domain.OrderReceipt{ID: body.ID, Status: domain.OrderConfirmed, ProcessedAt: time.Now()}, nil
}

func TestTrigger_ConcurrentRequestsNeverOverlapPasses(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "queue.json"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	base := time.Now().Add(-time.Hour)
	for i, id := range []string{"a", "b", "c"} {
		if err := store.Enqueue(testItem(id, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("enqueue %s: %v", id, err)
		}
	}

	submitter := &slowSubmitter{delay: 30 * time.Millisecond}
	coordinator := NewCoordinator(store, submitter, bus.New(), zap.NewNop())
	trigger := NewTrigger(coordinator, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go trigger.Run(ctx)

	// A storm of sync requests from every source at once: connectivity
	// edge, ticker, and explicit commands.
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			trigger.Request()
		}()
	}
	wg.Wait()

	deadline := time.Now().Add(3 * time.Second)
	for store.Len() > 0 {
		if time.Now().After(deadline) {
			t.Fatalf("queue did not drain, %d items left", store.Len())
		}
		time.Sleep(5 * time.Millisecond)
	}

	if got := submitter.maxSeen.Load(); got != 1 {
		t.Errorf("expected at most one submission in flight, saw %d", got)
	}
}
