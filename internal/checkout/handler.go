package checkout

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ekaradag/shopsync/internal/bus"
	"github.com/ekaradag/shopsync/internal/domain"
)

// CommandHandler connects the storefront page's commands to the queue
// and the sync trigger.
type CommandHandler struct {
	store   *Store
	trigger *Trigger
	events  *bus.Bus
	logger  *zap.Logger
	now     func() time.Time
}

func NewCommandHandler(store *Store, trigger *Trigger, events *bus.Bus, logger *zap.Logger) *CommandHandler {
	return &CommandHandler{
		store:   store,
		trigger: trigger,
		events:  events,
		logger:  logger,
		now:     time.Now,
	}
}

// Handle processes one command. The switch is exhaustive over the
// closed bus.Command set; an unknown command is a programming error.
func (h *CommandHandler) Handle(cmd bus.Command) error {
	switch c := cmd.(type) {
	case bus.QueueCheckout:
		item := domain.QueueItem{
			ID:       c.ID,
			Payload:  c.Payload,
			QueuedAt: h.now(),
		}
		if err := h.store.Enqueue(item); err != nil {
			return fmt.Errorf("queue checkout: %w", err)
		}
		h.logger.Info("checkout queued", zap.String("order_id", c.ID))
		h.events.Publish(bus.SyncPending{Count: h.store.Len()})
		return nil

	case bus.SyncStatusRequest:
		h.events.Publish(bus.SyncPending{Count: h.store.Len()})
		return nil

	case bus.TriggerSync:
		h.trigger.Request()
		return nil

	default:
		return fmt.Errorf("unknown command %T", cmd)
	}
}
