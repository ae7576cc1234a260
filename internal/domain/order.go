package domain

import (
	"encoding/json"
	"time"
)

// OrderItem is one line of a checkout order.
type OrderItem struct {
	ProductID string  `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// Order is a checkout submission. The ID is caller-supplied so an offline
// client can replay the same order after a crash without creating a
// duplicate server-side.
type Order struct {
	ID            string      `json:"id"`
	Total         float64     `json:"total"`
	PaymentMethod string      `json:"paymentMethod"`
	Items         []OrderItem `json:"items"`
	CreatedAt     time.Time   `json:"createdAt"`
}

func (o *Order) Validate() error {
	if o.ID == "" {
		return ErrInvalidOrderID
	}
	if o.Total < 0 {
		return ErrInvalidOrderTotal
	}
	if o.PaymentMethod == "" {
		return ErrInvalidPaymentMethod
	}
	return nil
}

// OrderReceipt is the server's acknowledgement of a processed order.
type OrderReceipt struct {
	ID          string    `json:"id"`
	Status      string    `json:"status"`
	ProcessedAt time.Time `json:"processedAt"`
}

// OrderConfirmed is the only receipt status the server currently issues.
const OrderConfirmed = "confirmed"

// QueueItem is one pending offline action in the client's durable queue.
// The payload is opaque to the queue; only the replay coordinator
// interprets it as an order. At most one item exists per ID.
type QueueItem struct {
	ID       string          `json:"id"`
	Payload  json.RawMessage `json:"payload"`
	QueuedAt time.Time       `json:"queuedAt"`
}
