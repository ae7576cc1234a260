package domain

import (
	"encoding/json"
	"time"
)

// CampaignStatus tracks the lifecycle of a campaign.
// The only transition is scheduled → sent, and it happens exactly once.
type CampaignStatus string

const (
	CampaignScheduled CampaignStatus = "scheduled"
	CampaignSent      CampaignStatus = "sent"
)

// DefaultTTLSeconds is applied when a campaign does not specify a
// push transport time-to-live.
const DefaultTTLSeconds = 86400

// NotificationAction is one button rendered on the delivered notification.
type NotificationAction struct {
	Action string `json:"action"`
	Title  string `json:"title"`
	Icon   string `json:"icon,omitempty"`
}

// Campaign is a single notification descriptor targeted at a
// category-defined audience. Once sent it is immutable except for the
// final audience/success counts written by the dispatch engine.
type Campaign struct {
	ID         string               `json:"id"`
	Title      string               `json:"title"`
	Body       string               `json:"body"`
	Category   Category             `json:"category"`
	TTLSeconds int                  `json:"ttl_seconds"`
	Actions    []NotificationAction `json:"actions,omitempty"`
	Icon       string               `json:"icon,omitempty"`
	Image      string               `json:"image,omitempty"`
	Badge      string               `json:"badge,omitempty"`
	URL        string               `json:"url,omitempty"`

	SendAt        *time.Time     `json:"send_at,omitempty"`
	Status        CampaignStatus `json:"status"`
	AudienceCount int            `json:"audience_count"`
	SuccessCount  int            `json:"success_count"`
	CreatedAt     time.Time      `json:"created_at"`
	SentAt        *time.Time     `json:"sent_at,omitempty"`
}

// Due reports whether the campaign should be dispatched now rather than
// deferred. A campaign without a send time is always due.
func (c *Campaign) Due(now time.Time) bool {
	return c.SendAt == nil || !c.SendAt.After(now)
}

// CreateCampaignRequest is the inbound payload for POST /send-notification.
type CreateCampaignRequest struct {
	Title      string               `json:"title"`
	Body       string               `json:"body"`
	Category   Category             `json:"category"`
	TTLSeconds int                  `json:"ttl,omitempty"`
	Actions    []NotificationAction `json:"actions,omitempty"`
	Icon       string               `json:"icon,omitempty"`
	Image      string               `json:"image,omitempty"`
	Badge      string               `json:"badge,omitempty"`
	URL        string               `json:"url,omitempty"`
	SendAt     *time.Time           `json:"sendAt,omitempty"`
}

func (r *CreateCampaignRequest) Validate() error {
	if r.Title == "" || len(r.Title) > 256 {
		return ErrInvalidTitle
	}
	if r.Body == "" || len(r.Body) > 2048 {
		return ErrInvalidBody
	}
	if !r.Category.IsValid() {
		return ErrInvalidCategory
	}
	if r.TTLSeconds < 0 {
		return ErrInvalidTTL
	}
	return nil
}

// CampaignFilter holds query parameters for paginated campaign listing.
type CampaignFilter struct {
	Status *CampaignStatus
	Page   int
	Limit  int
}

// EventType classifies one recorded campaign interaction.
type EventType string

const (
	EventDeliver EventType = "deliver"
	EventOpen    EventType = "open"
	EventClick   EventType = "click"
	EventDismiss EventType = "dismiss"
)

func (e EventType) IsValid() bool {
	switch e {
	case EventDeliver, EventOpen, EventClick, EventDismiss:
		return true
	}
	return false
}

// CampaignEvent is one append-only record in the campaign event log.
// Events are write-once and never mutated.
type CampaignEvent struct {
	ID             string          `json:"id"`
	CampaignID     *string         `json:"campaign_id,omitempty"`
	NotificationID *string         `json:"notification_id,omitempty"`
	Event          EventType       `json:"event"`
	Category       Category        `json:"category"`
	OccurredAt     time.Time       `json:"occurred_at"`
	Metadata       json.RawMessage `json:"metadata,omitempty"`
}

// RecordEventRequest is the inbound payload for POST /campaign-events.
// At least one of campaignId / notificationId must be present.
type RecordEventRequest struct {
	CampaignID     *string         `json:"campaignId,omitempty"`
	NotificationID *string         `json:"notificationId,omitempty"`
	Event          EventType       `json:"event"`
	Category       Category        `json:"category"`
	Metadata       json.RawMessage `json:"metadata,omitempty"`
}

func (r *RecordEventRequest) Validate() error {
	if !r.Event.IsValid() {
		return ErrInvalidEvent
	}
	if r.CampaignID == nil && r.NotificationID == nil {
		return ErrMissingEventTarget
	}
	if r.Category != "" && !r.Category.IsValid() {
		return ErrInvalidCategory
	}
	return nil
}
