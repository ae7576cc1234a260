package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/ekaradag/shopsync/internal/bus"
	"github.com/ekaradag/shopsync/internal/domain"
)

// fakeSubmitter answers per payload and records submission order.
type fakeSubmitter struct {
	errs      map[string]error
	submitted []string
}

func (f *fakeSubmitter) Submit(_ context.Context, payload json.RawMessage) (*domain.OrderReceipt, error) {
	var body struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(payload, &body)
	f.submitted = append(f.submitted, body.ID)
	if err := f.errs[body.ID]; err != nil {
		return nil, err
	}
	return &domain.OrderReceipt{ID: body.ID, Status: domain.OrderConfirmed, ProcessedAt: time.Now()}, nil
}

func drainEvents(ch <-chan bus.Event) []bus.Event {
	var out []bus.Event
	for {
		select {
		case e := <-ch:
			out = append(out, e)
		default:
			return out
		}
	}
}

func newTestCoordinator(t *testing.T, submitter OrderSubmitter) (*Coordinator, *Store, <-chan bus.Event) {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "queue.json"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	events := bus.New()
	ch := events.Subscribe()
	return NewCoordinator(store, submitter, events, zap.NewNop()), store, ch
}

func TestCoordinator_Replay_StopsOnFirstFailure(t *testing.T) {
	submitter := &fakeSubmitter{errs: map[string]error{"b": errors.New("connection refused")}}
	coordinator, store, ch := newTestCoordinator(t, submitter)

	base := time.Now().Add(-time.Hour)
	for i, id := range []string{"a", "b", "c"} {
		if err := store.Enqueue(testItem(id, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("enqueue %s: %v", id, err)
		}
	}

	if err := coordinator.Replay(context.Background()); err == nil {
		t.Fatal("expected replay to surface the submission error")
	}

	// a submitted and removed, b failed and stopped the pass, c untouched.
	if len(submitter.submitted) != 2 || submitter.submitted[0] != "a" || submitter.submitted[1] != "b" {
		t.Fatalf("unexpected submissions: %v", submitter.submitted)
	}
	if store.Len() != 2 {
		t.Fatalf("expected 2 items left, got %d", store.Len())
	}

	events := drainEvents(ch)
	last := events[len(events)-1]
	pending, ok := last.(bus.SyncPending)
	if !ok {
		t.Fatalf("expected final event to be SyncPending, got %T", last)
	}
	if pending.Count != 2 {
		t.Errorf("expected pending count 2, got %d", pending.Count)
	}
}

func TestCoordinator_Replay_DropsExpiredOrders(t *testing.T) {
	submitter := &fakeSubmitter{}
	coordinator, store, ch := newTestCoordinator(t, submitter)

	now := time.Now()
	coordinator.now = func() time.Time { return now }

	if err := store.Enqueue(testItem("stale", now.Add(-73*time.Hour))); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if err := store.Enqueue(testItem("fresh", now.Add(-time.Hour))); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	if err := coordinator.Replay(context.Background()); err != nil {
		t.Fatalf("replay: %v", err)
	}

	// The stale order must never reach the server.
	if len(submitter.submitted) != 1 || submitter.submitted[0] != "fresh" {
		t.Fatalf("unexpected submissions: %v", submitter.submitted)
	}
	if store.Len() != 0 {
		t.Fatalf("expected empty queue, got %d", store.Len())
	}

	var expired *bus.SyncComplete
	for _, e := range drainEvents(ch) {
		if c, ok := e.(bus.SyncComplete); ok && !c.Success {
			expired = &c
			break
		}
	}
	if expired == nil {
		t.Fatal("expected a failed SyncComplete for the expired order")
	}
	if expired.OrderID != "stale" || expired.Reason != "expired" {
		t.Errorf("unexpected expiry event: %+v", expired)
	}
}

func TestCoordinator_Replay_EmptyQueue(t *testing.T) {
	coordinator, _, ch := newTestCoordinator(t, &fakeSubmitter{})

	if err := coordinator.Replay(context.Background()); err != nil {
		t.Fatalf("replay: %v", err)
	}

	events := drainEvents(ch)
	if len(events) != 1 {
		t.Fatalf("expected exactly one event, got %d", len(events))
	}
	if pending, ok := events[0].(bus.SyncPending); !ok || pending.Count != 0 {
		t.Fatalf("expected SyncPending{0}, got %+v", events[0])
	}
}

func TestCoordinator_Replay_SuccessCarriesReceipt(t *testing.T) {
	coordinator, store, ch := newTestCoordinator(t, &fakeSubmitter{})

	if err := store.Enqueue(testItem("ok", time.Now().Add(-time.Minute))); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if err := coordinator.Replay(context.Background()); err != nil {
		t.Fatalf("replay: %v", err)
	}

	var done *bus.SyncComplete
	for _, e := range drainEvents(ch) {
		if c, ok := e.(bus.SyncComplete); ok {
			done = &c
			break
		}
	}
	if done == nil || !done.Success {
		t.Fatalf("expected successful SyncComplete, got %+v", done)
	}
	if done.Receipt == nil || done.Receipt.Status != domain.OrderConfirmed {
		t.Errorf("expected confirmed receipt, got %+v", done.Receipt)
	}
}
