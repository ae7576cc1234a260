package domain

import "errors"

// Sentinel errors used throughout the application.
// Handlers translate these to HTTP status codes via a single mapError function.
var (
	ErrNotFound    = errors.New("not found")
	ErrAlreadySent = errors.New("campaign has already been dispatched")

	ErrInvalidTitle    = errors.New("title must be between 1 and 256 characters")
	ErrInvalidBody     = errors.New("body must be between 1 and 2048 characters")
	ErrInvalidCategory = errors.New("invalid category: must be flashSales, newProducts, or orderUpdates")
	ErrInvalidTTL      = errors.New("ttl must not be negative")

	ErrInvalidEndpoint = errors.New("endpoint must be an https URL")
	ErrInvalidKeys     = errors.New("subscription keys p256dh and auth are required")

	ErrInvalidEvent       = errors.New("invalid event: must be deliver, open, click, or dismiss")
	ErrMissingEventTarget = errors.New("event requires a campaignId or notificationId")

	ErrInvalidOrderID       = errors.New("order id must not be empty")
	ErrInvalidOrderTotal    = errors.New("order total must not be negative")
	ErrInvalidPaymentMethod = errors.New("payment method must not be empty")

	ErrInvalidDiscount = errors.New("discount must be between 1 and 99")

	ErrInvalidQueueItem = errors.New("queue item id must not be empty")
)
