package scheduler_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ekaradag/shopsync/internal/dispatch"
	"github.com/ekaradag/shopsync/internal/domain"
	"github.com/ekaradag/shopsync/internal/repository"
	"github.com/ekaradag/shopsync/internal/scheduler"
)

// fakeDispatcher records dispatch calls and mimics the engine's claim
// semantics against the shared mock repository.
type fakeDispatcher struct {
	mu      sync.Mutex
	repo    *repository.MockCampaignRepository
	calls   []string
	ctxErrs []error
	fired   chan string
}

func newFakeDispatcher(repo *repository.MockCampaignRepository) *fakeDispatcher {
	return &fakeDispatcher{repo: repo, fired: make(chan string, 16)}
}

func (f *fakeDispatcher) Dispatch(ctx context.Context, c *domain.Campaign) (*dispatch.Result, error) {
	if err := f.repo.ClaimForDispatch(ctx, c.ID); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.calls = append(f.calls, c.ID)
	f.ctxErrs = append(f.ctxErrs, ctx.Err())
	f.mu.Unlock()
	f.fired <- c.ID
	return &dispatch.Result{}, nil
}

func (f *fakeDispatcher) lastCtxErr() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.ctxErrs) == 0 {
		return nil
	}
	return f.ctxErrs[len(f.ctxErrs)-1]
}

func (f *fakeDispatcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func scheduledCampaign(t *testing.T, repo *repository.MockCampaignRepository, id string, sendAt *time.Time) *domain.Campaign {
	t.Helper()
	c := &domain.Campaign{
		ID:       id,
		Title:    "Scheduled drop",
		Body:     "New arrivals",
		Category: domain.CategoryNewProducts,
		Status:   domain.CampaignScheduled,
		SendAt:   sendAt,
	}
	require.NoError(t, repo.Create(context.Background(), c))
	return c
}

func waitFired(t *testing.T, d *fakeDispatcher, within time.Duration) string {
	t.Helper()
	select {
	case id := <-d.fired:
		return id
	case <-time.After(within):
		t.Fatalf("no dispatch within %v", within)
		return ""
	}
}

func TestScheduler_Arm_FutureCampaignFiresAtSendAt(t *testing.T) {
	repo := repository.NewMockCampaignRepository()
	d := newFakeDispatcher(repo)
	s := scheduler.New(repo, d, time.Hour, zap.NewNop(), nil)

	sendAt := time.Now().Add(120 * time.Millisecond)
	c := scheduledCampaign(t, repo, "camp-1", &sendAt)

	start := time.Now()
	s.Arm(c)
	assert.Equal(t, 1, s.Pending())

	waitFired(t, d, time.Second)
	elapsed := time.Since(start)
	assert.GreaterOrEqual(t, elapsed, 100*time.Millisecond, "fired too early")
	assert.Equal(t, 0, s.Pending())
}

func TestScheduler_Arm_DueCampaignFiresImmediately(t *testing.T) {
	repo := repository.NewMockCampaignRepository()
	d := newFakeDispatcher(repo)
	s := scheduler.New(repo, d, time.Hour, zap.NewNop(), nil)

	past := time.Now().Add(-time.Minute)
	s.Arm(scheduledCampaign(t, repo, "camp-overdue", &past))

	assert.Equal(t, "camp-overdue", waitFired(t, d, time.Second))
	assert.Equal(t, 0, s.Pending())
}

func TestScheduler_Rehydrate_ReArmsPersistedSchedules(t *testing.T) {
	repo := repository.NewMockCampaignRepository()

	// Campaigns persisted by a previous process whose timers died with it.
	future := time.Now().Add(150 * time.Millisecond)
	overdue := time.Now().Add(-time.Hour)
	scheduledCampaign(t, repo, "camp-future", &future)
	scheduledCampaign(t, repo, "camp-overdue", &overdue)

	// Simulated restart: a fresh scheduler with an empty registry.
	d := newFakeDispatcher(repo)
	s := scheduler.New(repo, d, time.Hour, zap.NewNop(), nil)
	start := time.Now()
	require.NoError(t, s.Rehydrate(context.Background()))

	first := waitFired(t, d, time.Second)
	assert.Equal(t, "camp-overdue", first, "overdue campaign dispatches right away")

	second := waitFired(t, d, time.Second)
	assert.Equal(t, "camp-future", second)
	assert.GreaterOrEqual(t, time.Since(start), 130*time.Millisecond,
		"future campaign must wait for its send time, not dispatch on rehydrate")
}

func TestScheduler_Rehydrate_DispatchesWithCallerContext(t *testing.T) {
	repo := repository.NewMockCampaignRepository()
	overdue := time.Now().Add(-time.Hour)
	scheduledCampaign(t, repo, "camp-overdue", &overdue)

	d := newFakeDispatcher(repo)
	s := scheduler.New(repo, d, time.Hour, zap.NewNop(), nil)

	// A context cancelled before Run starts must still reach the
	// immediate dispatches fired during rehydration.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, s.Rehydrate(ctx))

	waitFired(t, d, time.Second)
	assert.Error(t, d.lastCtxErr(), "overdue dispatch must observe lifecycle cancellation")
}

func TestScheduler_Rehydrate_IgnoresSentCampaigns(t *testing.T) {
	repo := repository.NewMockCampaignRepository()
	c := scheduledCampaign(t, repo, "camp-done", nil)
	require.NoError(t, repo.ClaimForDispatch(context.Background(), c.ID))

	d := newFakeDispatcher(repo)
	s := scheduler.New(repo, d, time.Hour, zap.NewNop(), nil)
	require.NoError(t, s.Rehydrate(context.Background()))

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, d.callCount())
	assert.Equal(t, 0, s.Pending())
}

func TestScheduler_TimerAndSweepOverlapDispatchesOnce(t *testing.T) {
	repo := repository.NewMockCampaignRepository()
	d := newFakeDispatcher(repo)
	s := scheduler.New(repo, d, 30*time.Millisecond, zap.NewNop(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	// Due immediately: both the armed timer and the sweep will see it.
	past := time.Now().Add(-time.Second)
	s.Arm(scheduledCampaign(t, repo, "camp-race", &past))

	waitFired(t, d, time.Second)
	// Let several sweep ticks pass over the now-sent campaign.
	time.Sleep(120 * time.Millisecond)
	assert.Equal(t, 1, d.callCount(), "claim must keep dispatch at-most-once")
}

func TestScheduler_SweepPicksUpUnarmedDueCampaign(t *testing.T) {
	repo := repository.NewMockCampaignRepository()
	d := newFakeDispatcher(repo)
	s := scheduler.New(repo, d, 20*time.Millisecond, zap.NewNop(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	// Never armed: stands in for a campaign created right before a crash.
	past := time.Now().Add(-time.Second)
	scheduledCampaign(t, repo, "camp-orphan", &past)

	assert.Equal(t, "camp-orphan", waitFired(t, d, time.Second))
}

func TestScheduler_GaugeTracksRegistry(t *testing.T) {
	repo := repository.NewMockCampaignRepository()
	d := newFakeDispatcher(repo)

	var mu sync.Mutex
	var last int
	gauge := func(n int) {
		mu.Lock()
		last = n
		mu.Unlock()
	}
	s := scheduler.New(repo, d, time.Hour, zap.NewNop(), gauge)

	future := time.Now().Add(time.Hour)
	s.Arm(scheduledCampaign(t, repo, "camp-1", &future))

	mu.Lock()
	got := last
	mu.Unlock()
	assert.Equal(t, 1, got)
	assert.Equal(t, 1, s.Pending())
}
