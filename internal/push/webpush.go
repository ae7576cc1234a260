package push

import (
	"context"
	"fmt"
	"net/http"
	"time"

	webpush "github.com/SherClockHolmes/webpush-go"

	"github.com/ekaradag/shopsync/internal/domain"
)

// WebPushSender delivers messages over the Web Push protocol with VAPID
// authentication. Delivery is at-most-once per attempt; the push service
// may still drop messages after their TTL.
type WebPushSender struct {
	subscriber   string // mailto: contact required by VAPID
	vapidPublic  string
	vapidPrivate string
	httpClient   *http.Client
}

func NewWebPushSender(subscriber, vapidPublic, vapidPrivate string, timeout time.Duration) *WebPushSender {
	return &WebPushSender{
		subscriber:   subscriber,
		vapidPublic:  vapidPublic,
		vapidPrivate: vapidPrivate,
		httpClient:   &http.Client{Timeout: timeout},
	}
}

func (s *WebPushSender) Send(ctx context.Context, sub *domain.Subscription, message []byte, ttlSeconds int) error {
	resp, err := webpush.SendNotificationWithContext(ctx, message, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.Keys.P256dh,
			Auth:   sub.Keys.Auth,
		},
	}, &webpush.Options{
		HTTPClient:      s.httpClient,
		Subscriber:      s.subscriber,
		VAPIDPublicKey:  s.vapidPublic,
		VAPIDPrivateKey: s.vapidPrivate,
		TTL:             ttlSeconds,
	})
	if err != nil {
		return fmt.Errorf("send push: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound, resp.StatusCode == http.StatusGone:
		return ErrEndpointGone
	case resp.StatusCode >= 400:
		return fmt.Errorf("unexpected push service status: %d", resp.StatusCode)
	}
	return nil
}

// compile-time check that WebPushSender implements Sender
var _ Sender = (*WebPushSender)(nil)
