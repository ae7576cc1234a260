// Package scheduler defers campaign dispatch to a future instant and
// recovers pending schedules after a restart.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ekaradag/shopsync/internal/dispatch"
	"github.com/ekaradag/shopsync/internal/domain"
	"github.com/ekaradag/shopsync/internal/repository"
)

// Dispatcher is the slice of the dispatch engine the scheduler needs.
type Dispatcher interface {
	Dispatch(ctx context.Context, c *domain.Campaign) (*dispatch.Result, error)
}

// Scheduler arms one in-process timer per future campaign and sweeps the
// database on an interval as a safety net.
//
// The timer registry is a derived cache: the campaign rows are the
// authoritative record of what is scheduled. Rehydrate rebuilds the
// registry from them on startup, and the repository's dispatch claim makes
// a timer and a sweep firing for the same campaign harmless.
//
// Only one process may own a given campaign's timer; multi-instance
// deployments need a claim or lease on top of this.
type Scheduler struct {
	campaigns  repository.CampaignRepository
	dispatcher Dispatcher
	sweep      time.Duration
	logger     *zap.Logger
	gauge      func(pending int)

	mu      sync.Mutex
	timers  map[string]*time.Timer
	baseCtx context.Context
}

// New constructs a Scheduler. gauge is optional (nil = no-op) and receives
// the registry size after every change.
func New(
	campaigns repository.CampaignRepository,
	dispatcher Dispatcher,
	sweep time.Duration,
	logger *zap.Logger,
	gauge func(int),
) *Scheduler {
	if gauge == nil {
		gauge = func(int) {}
	}
	return &Scheduler{
		campaigns:  campaigns,
		dispatcher: dispatcher,
		sweep:      sweep,
		logger:     logger,
		gauge:      gauge,
		timers:     make(map[string]*time.Timer),
		baseCtx:    context.Background(),
	}
}

// Arm registers a deferred trigger for the campaign. A campaign that is
// already due fires immediately. Re-arming an ID replaces its timer.
func (s *Scheduler) Arm(c *domain.Campaign) {
	delay := time.Duration(0)
	if c.SendAt != nil {
		delay = time.Until(*c.SendAt)
	}
	if delay <= 0 {
		go s.fire(c.ID)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.timers[c.ID]; ok {
		old.Stop()
	}
	id := c.ID
	s.timers[id] = time.AfterFunc(delay, func() { s.fire(id) })
	s.gauge(len(s.timers))
	s.logger.Info("campaign armed",
		zap.String("campaign_id", id), zap.Duration("in", delay))
}

// Rehydrate re-arms every campaign still marked scheduled. In-memory
// timers are lost across restarts; this runs once on startup so persisted
// schedules are never orphaned. Overdue campaigns fire immediately.
func (s *Scheduler) Rehydrate(ctx context.Context) error {
	// Overdue campaigns fire before Run is called; bind the lifecycle
	// context now so those dispatches observe shutdown cancellation.
	s.mu.Lock()
	s.baseCtx = ctx
	s.mu.Unlock()

	pending, err := s.campaigns.FindPendingScheduled(ctx)
	if err != nil {
		return err
	}
	for _, c := range pending {
		s.Arm(c)
	}
	if len(pending) > 0 {
		s.logger.Info("rehydrated scheduled campaigns", zap.Int("count", len(pending)))
	}
	return nil
}

// Run ticks every sweep interval and dispatches any campaign that is due
// but has no live timer (timer drift, or a campaign created immediately
// before a crash). Stops cleanly when ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	s.mu.Lock()
	s.baseCtx = ctx
	s.mu.Unlock()

	ticker := time.NewTicker(s.sweep)
	defer ticker.Stop()

	s.logger.Info("scheduler started", zap.Duration("sweep_interval", s.sweep))

	for {
		select {
		case <-ctx.Done():
			s.stopAll()
			s.logger.Info("scheduler stopping")
			return
		case <-ticker.C:
			s.poll(ctx)
		}
	}
}

// Pending returns the number of armed timers.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

func (s *Scheduler) poll(ctx context.Context) {
	due, err := s.campaigns.FindDueScheduled(ctx, time.Now().UTC())
	if err != nil {
		s.logger.Error("scheduler sweep error", zap.Error(err))
		return
	}
	for _, c := range due {
		s.dispatchOnce(ctx, c)
	}
}

// fire is the timer callback: drop the timer, re-read the campaign, and
// dispatch if it is still scheduled.
func (s *Scheduler) fire(id string) {
	s.mu.Lock()
	delete(s.timers, id)
	s.gauge(len(s.timers))
	ctx := s.baseCtx
	s.mu.Unlock()

	c, err := s.campaigns.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to load campaign for dispatch",
			zap.String("campaign_id", id), zap.Error(err))
		return
	}
	if c.Status != domain.CampaignScheduled {
		return
	}
	s.dispatchOnce(ctx, c)
}

func (s *Scheduler) dispatchOnce(ctx context.Context, c *domain.Campaign) {
	_, err := s.dispatcher.Dispatch(ctx, c)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrAlreadySent):
		// Timer and sweep raced; the claim already settled it.
		s.logger.Debug("campaign already dispatched", zap.String("campaign_id", c.ID))
	default:
		s.logger.Error("scheduled dispatch failed",
			zap.String("campaign_id", c.ID), zap.Error(err))
	}
}

func (s *Scheduler) stopAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
	s.gauge(0)
}
