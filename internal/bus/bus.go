package bus

import (
	"encoding/json"
	"sync"

	"github.com/ekaradag/shopsync/internal/domain"
)

// Command is a request sent from the storefront page to the agent.
// The set is closed; handlers switch exhaustively over it.
type Command interface{ isCommand() }

// QueueCheckout asks the agent to persist a checkout order for later
// submission. Payload is the full order JSON.
type QueueCheckout struct {
	ID      string
	Payload json.RawMessage
}

// SyncStatusRequest asks for the current pending-queue depth.
type SyncStatusRequest struct{}

// TriggerSync asks the agent to attempt a replay pass now.
type TriggerSync struct{}

func (QueueCheckout) isCommand()     {}
func (SyncStatusRequest) isCommand() {}
func (TriggerSync) isCommand()       {}

// Event is a broadcast from the agent back to every subscriber.
type Event interface{ isEvent() }

// SyncPending reports how many orders are still waiting to be submitted.
type SyncPending struct {
	Count int
}

// SyncComplete reports the outcome of one queued order: either a receipt
// from the server or a terminal failure reason such as "expired".
type SyncComplete struct {
	Success bool
	OrderID string
	Receipt *domain.OrderReceipt
	Reason  string
}

func (SyncPending) isEvent()  {}
func (SyncComplete) isEvent() {}

// Bus is a small in-process pub/sub fabric between the storefront page
// and the sync agent. Events are fanned out to every subscriber; a slow
// subscriber drops events rather than blocking the publisher.
type Bus struct {
	mu     sync.Mutex
	subs   []chan Event
	closed bool
}

func New() *Bus {
	return &Bus{}
}

// Subscribe registers a new listener. The returned channel is buffered;
// callers should drain it promptly. Subscribing to a closed bus returns
// an already-closed channel.
func (b *Bus) Subscribe() <-chan Event {
	ch := make(chan Event, 16)
	b.mu.Lock()
	if b.closed {
		close(ch)
	} else {
		b.subs = append(b.subs, ch)
	}
	b.mu.Unlock()
	return ch
}

// Publish broadcasts an event to all subscribers without blocking.
// Publishing to a closed bus is a no-op.
func (b *Bus) Publish(e Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

// Close closes every subscriber channel so draining loops terminate.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for _, ch := range b.subs {
		close(ch)
	}
	b.subs = nil
}
