package checkout

import (
	"context"

	"go.uber.org/zap"
)

// Trigger serialises replay passes. Any number of sources may request a
// sync; at most one pass runs at a time, and requests arriving during a
// pass coalesce into a single rerun afterwards.
type Trigger struct {
	coordinator *Coordinator
	kick        chan struct{}
	logger      *zap.Logger
}

func NewTrigger(coordinator *Coordinator, logger *zap.Logger) *Trigger {
	return &Trigger{
		coordinator: coordinator,
		// Buffer of one: a kick during a running pass is remembered,
		// further kicks fold into it.
		kick:   make(chan struct{}, 1),
		logger: logger,
	}
}

// Request asks for a replay pass. Never blocks.
func (t *Trigger) Request() {
	select {
	case t.kick <- struct{}{}:
	default:
	}
}

// Run owns the replay loop until ctx is cancelled.
func (t *Trigger) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.kick:
			if err := t.coordinator.Replay(ctx); err != nil {
				t.logger.Debug("replay pass incomplete", zap.Error(err))
			}
		}
	}
}
