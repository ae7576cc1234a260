// Package dispatch fans a campaign out to its eligible audience.
package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/ekaradag/shopsync/internal/audience"
	"github.com/ekaradag/shopsync/internal/domain"
	"github.com/ekaradag/shopsync/internal/push"
	"github.com/ekaradag/shopsync/internal/repository"
)

// MetricHooks carries the metric callback functions injected by main.
// Using a struct keeps the engine constructor signature clean.
type MetricHooks struct {
	OnSent       func(category domain.Category)
	OnFailed     func(category domain.Category)
	OnPruned     func()
	OnDispatched func(category domain.Category, elapsed time.Duration)
}

func (h *MetricHooks) fillNoops() {
	if h.OnSent == nil {
		h.OnSent = func(domain.Category) {}
	}
	if h.OnFailed == nil {
		h.OnFailed = func(domain.Category) {}
	}
	if h.OnPruned == nil {
		h.OnPruned = func() {}
	}
	if h.OnDispatched == nil {
		h.OnDispatched = func(domain.Category, time.Duration) {}
	}
}

// Result is the outcome of one campaign fan-out.
type Result struct {
	AudienceCount int `json:"audience_count"`
	SuccessCount  int `json:"success_count"`
}

// Engine delivers a campaign to every eligible subscription.
//
// Fan-out is concurrent but bounded: at most `concurrency` sends are in
// flight, and a shared token-bucket limiter caps the outbound rate to the
// push service. Individual delivery failures never abort the pass.
type Engine struct {
	subs      repository.SubscriptionRepository
	campaigns repository.CampaignRepository
	events    repository.CampaignEventRepository
	sender    push.Sender

	concurrency int
	limiter     *rate.Limiter
	logger      *zap.Logger
	hooks       MetricHooks
	now         func() time.Time
}

func NewEngine(
	subs repository.SubscriptionRepository,
	campaigns repository.CampaignRepository,
	events repository.CampaignEventRepository,
	sender push.Sender,
	concurrency int,
	sendsPerSec int,
	logger *zap.Logger,
	hooks MetricHooks,
) *Engine {
	if concurrency < 1 {
		concurrency = 1
	}
	hooks.fillNoops()
	return &Engine{
		subs:        subs,
		campaigns:   campaigns,
		events:      events,
		sender:      sender,
		concurrency: concurrency,
		// burst == rate: prevents any "saved up" burst above the limit
		limiter: rate.NewLimiter(rate.Limit(sendsPerSec), sendsPerSec),
		logger:  logger,
		hooks:   hooks,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Dispatch claims the campaign, fans the payload out to the eligible
// audience, prunes dead endpoints, and records the outcome.
//
// The claim is the single-dispatch guard: if the campaign was already
// sent, domain.ErrAlreadySent is returned and nothing is delivered. A
// claim that then fails mid-fan-out is not rolled back; re-sending to an
// unknown subset of the audience would be worse than under-delivering.
func (e *Engine) Dispatch(ctx context.Context, c *domain.Campaign) (*Result, error) {
	start := e.now()
	log := e.logger.With(
		zap.String("campaign_id", c.ID),
		zap.String("category", string(c.Category)),
	)

	if err := e.campaigns.ClaimForDispatch(ctx, c.ID); err != nil {
		return nil, err
	}

	subs, err := e.subs.ListByCategory(ctx, c.Category)
	if err != nil {
		return nil, fmt.Errorf("load audience: %w", err)
	}
	eligible := audience.Filter(subs, c.Category, start)

	message, notificationID, err := buildMessage(c)
	if err != nil {
		return nil, err
	}

	ttl := c.TTLSeconds
	if ttl == 0 {
		ttl = domain.DefaultTTLSeconds
	}

	var success atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for _, sub := range eligible {
		sub := sub
		g.Go(func() error {
			if err := e.limiter.Wait(gctx); err != nil {
				return err // ctx cancelled while waiting
			}
			e.deliver(gctx, log, c, sub, message, ttl, &success)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Warn("fan-out interrupted", zap.Error(err))
	}

	result := &Result{
		AudienceCount: len(eligible),
		SuccessCount:  int(success.Load()),
	}

	e.record(ctx, log, c, notificationID, result)

	elapsed := e.now().Sub(start)
	e.hooks.OnDispatched(c.Category, elapsed)
	log.Info("campaign dispatched",
		zap.Int("audience", result.AudienceCount),
		zap.Int("delivered", result.SuccessCount),
		zap.Duration("elapsed", elapsed),
	)
	return result, nil
}

// deliver sends to one subscription and classifies the outcome: success,
// gone endpoint (pruned), or transient failure (logged, not retried within
// this dispatch).
func (e *Engine) deliver(
	ctx context.Context,
	log *zap.Logger,
	c *domain.Campaign,
	sub *domain.Subscription,
	message []byte,
	ttl int,
	success *atomic.Int64,
) {
	err := e.sender.Send(ctx, sub, message, ttl)
	switch {
	case err == nil:
		success.Add(1)
		e.hooks.OnSent(c.Category)

	case errors.Is(err, push.ErrEndpointGone):
		// Stale push target: prune silently, independent of campaign
		// bookkeeping. Not counted as a failure.
		if delErr := e.subs.Delete(ctx, sub.Endpoint); delErr != nil {
			log.Warn("failed to prune gone subscription",
				zap.String("endpoint", sub.Endpoint), zap.Error(delErr))
			return
		}
		e.hooks.OnPruned()
		log.Debug("pruned gone subscription", zap.String("endpoint", sub.Endpoint))

	default:
		e.hooks.OnFailed(c.Category)
		log.Warn("push delivery failed",
			zap.String("endpoint", sub.Endpoint), zap.Error(err))
	}
}

// record appends the deliver event and stores the final counts. Failures
// here are logged but do not fail the dispatch: the pushes are already out.
func (e *Engine) record(ctx context.Context, log *zap.Logger, c *domain.Campaign, notificationID string, result *Result) {
	metadata, _ := json.Marshal(map[string]int{
		"audience":  result.AudienceCount,
		"delivered": result.SuccessCount,
	})

	campaignID := c.ID
	event := &domain.CampaignEvent{
		ID:             uuid.New().String(),
		CampaignID:     &campaignID,
		NotificationID: &notificationID,
		Event:          domain.EventDeliver,
		Category:       c.Category,
		OccurredAt:     e.now(),
		Metadata:       metadata,
	}
	if err := e.events.Append(ctx, event); err != nil {
		log.Error("failed to append deliver event", zap.Error(err))
	}

	if err := e.campaigns.FinishDispatch(ctx, c.ID, result.AudienceCount, result.SuccessCount, e.now()); err != nil {
		log.Error("failed to store dispatch counts", zap.Error(err))
	}
}

// buildMessage marshals the shared payload once per campaign.
func buildMessage(c *domain.Campaign) ([]byte, string, error) {
	notificationID := uuid.New().String()
	payload := push.Payload{
		Title:   c.Title,
		Body:    c.Body,
		Icon:    c.Icon,
		Image:   c.Image,
		Badge:   c.Badge,
		Actions: c.Actions,
		Data: push.PayloadData{
			CampaignID:     c.ID,
			NotificationID: notificationID,
			Category:       c.Category,
			URL:            c.URL,
		},
	}
	message, err := json.Marshal(payload)
	if err != nil {
		return nil, "", fmt.Errorf("marshal payload: %w", err)
	}
	return message, notificationID, nil
}
