package checkout

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/ekaradag/shopsync/internal/bus"
	"github.com/ekaradag/shopsync/internal/domain"
)

// ExpiryThreshold is how long a queued order stays replayable. Anything
// older is dropped with a terminal failure instead of being submitted,
// since payment details that stale should not be charged silently.
const ExpiryThreshold = 72 * time.Hour

// OrderSubmitter posts one queued order to the server and returns the
// receipt. Submitting the same order ID twice returns the original
// receipt, which is what makes replay after a crash safe.
type OrderSubmitter interface {
	Submit(ctx context.Context, payload json.RawMessage) (*domain.OrderReceipt, error)
}

// Coordinator drains the durable queue against the server. It is safe
// to invoke Replay repeatedly; each pass picks up where the last one
// stopped.
type Coordinator struct {
	store     *Store
	submitter OrderSubmitter
	events    *bus.Bus
	logger    *zap.Logger
	now       func() time.Time
}

func NewCoordinator(store *Store, submitter OrderSubmitter, events *bus.Bus, logger *zap.Logger) *Coordinator {
	return &Coordinator{
		store:     store,
		submitter: submitter,
		events:    events,
		logger:    logger,
		now:       time.Now,
	}
}

// Replay walks the queue oldest-first. Expired items are dropped with a
// failure event. A submission error stops the pass immediately and
// leaves the failed item and everything behind it queued, preserving
// submission order across passes. The pass always ends with a pending
// count event.
func (c *Coordinator) Replay(ctx context.Context) error {
	items := c.store.ListAll()

	var passErr error
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			passErr = err
			break
		}

		if c.now().Sub(item.QueuedAt) > ExpiryThreshold {
			if err := c.store.DeleteByID(item.ID); err != nil {
				passErr = err
				break
			}
			c.logger.Warn("queued order expired",
				zap.String("order_id", item.ID),
				zap.Time("queued_at", item.QueuedAt),
			)
			c.events.Publish(bus.SyncComplete{
				Success: false,
				OrderID: item.ID,
				Reason:  "expired",
			})
			continue
		}

		receipt, err := c.submitter.Submit(ctx, item.Payload)
		if err != nil {
			c.logger.Info("replay pass stopped",
				zap.String("order_id", item.ID),
				zap.Error(err),
			)
			passErr = err
			break
		}

		if err := c.store.DeleteByID(item.ID); err != nil {
			// The server has the order; the idempotent ID means the
			// retry on the next pass will just fetch the same receipt.
			passErr = err
			break
		}
		c.logger.Info("queued order submitted",
			zap.String("order_id", item.ID),
			zap.String("status", receipt.Status),
		)
		c.events.Publish(bus.SyncComplete{
			Success: true,
			OrderID: item.ID,
			Receipt: receipt,
		})
	}

	c.events.Publish(bus.SyncPending{Count: c.store.Len()})
	return passErr
}
