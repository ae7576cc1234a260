package push

import (
	"context"
	"errors"

	"github.com/ekaradag/shopsync/internal/domain"
)

// ErrEndpointGone signals that the push service reported the endpoint as
// permanently invalid (404/410). The dispatch engine prunes the
// subscription on this error; it is never surfaced to users.
var ErrEndpointGone = errors.New("push endpoint gone")

// Payload is the notification document delivered to the client.
// It is built once per campaign and shared across all recipients.
type Payload struct {
	Title   string                      `json:"title"`
	Body    string                      `json:"body"`
	Icon    string                      `json:"icon,omitempty"`
	Image   string                      `json:"image,omitempty"`
	Badge   string                      `json:"badge,omitempty"`
	Actions []domain.NotificationAction `json:"actions,omitempty"`
	Data    PayloadData                 `json:"data"`
}

// PayloadData is the structured data block the client-side notification
// handler uses for routing and event reporting.
type PayloadData struct {
	CampaignID     string          `json:"campaignId"`
	NotificationID string          `json:"notificationId"`
	Category       domain.Category `json:"category"`
	URL            string          `json:"url,omitempty"`
}

// Sender abstracts delivery to the push service. Mocking this interface in
// tests gives full control over per-endpoint outcomes without real
// web-push calls.
type Sender interface {
	Send(ctx context.Context, sub *domain.Subscription, message []byte, ttlSeconds int) error
}
