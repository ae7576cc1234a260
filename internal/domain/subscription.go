package domain

import (
	"strings"
	"time"
)

// Category is a notification topic a subscriber can opt in or out of.
type Category string

const (
	CategoryFlashSales   Category = "flashSales"
	CategoryNewProducts  Category = "newProducts"
	CategoryOrderUpdates Category = "orderUpdates"
)

func (c Category) IsValid() bool {
	switch c {
	case CategoryFlashSales, CategoryNewProducts, CategoryOrderUpdates:
		return true
	}
	return false
}

// SubscriptionKeys holds the client's push encryption material.
// The server never interprets these; they are passed verbatim to the
// push transport.
type SubscriptionKeys struct {
	P256dh string `json:"p256dh"`
	Auth   string `json:"auth"`
}

// QuietHours is a daily local-time window during which pushes are suppressed.
// Start and End use "HH:MM" wall-clock form in the given IANA timezone.
// A window with Start > End wraps midnight.
type QuietHours struct {
	Enabled  bool   `json:"enabled"`
	Start    string `json:"start"`
	End      string `json:"end"`
	Timezone string `json:"timezone"`
}

// Preferences is the full opt-in state for one subscription.
// Updates replace the whole struct (last write wins); there is no
// per-field patching.
type Preferences struct {
	Categories map[Category]bool `json:"categories"`
	QuietHours QuietHours        `json:"quietHours"`
	MutedUntil *time.Time        `json:"mutedUntil,omitempty"`
}

// DefaultPreferences is the state a fresh subscription starts with:
// every category enabled, no quiet hours, not muted.
func DefaultPreferences() Preferences {
	return Preferences{
		Categories: map[Category]bool{
			CategoryFlashSales:   true,
			CategoryNewProducts:  true,
			CategoryOrderUpdates: true,
		},
	}
}

// Subscription is one push endpoint and its delivery preferences.
// The endpoint URL is the unique key.
type Subscription struct {
	Endpoint       string           `json:"endpoint"`
	Keys           SubscriptionKeys `json:"keys"`
	Preferences    Preferences      `json:"preferences"`
	ExpirationTime *time.Time       `json:"expirationTime,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// SaveSubscriptionRequest is the inbound payload for POST /save-subscription.
// Preferences are optional; omitted means DefaultPreferences.
type SaveSubscriptionRequest struct {
	Endpoint       string           `json:"endpoint"`
	Keys           SubscriptionKeys `json:"keys"`
	ExpirationTime *time.Time       `json:"expirationTime,omitempty"`
	Preferences    *Preferences     `json:"preferences,omitempty"`
}

func (r *SaveSubscriptionRequest) Validate() error {
	if !strings.HasPrefix(r.Endpoint, "https://") {
		return ErrInvalidEndpoint
	}
	if r.Keys.P256dh == "" || r.Keys.Auth == "" {
		return ErrInvalidKeys
	}
	if r.Preferences != nil {
		return r.Preferences.Validate()
	}
	return nil
}

// UpdatePreferencesRequest replaces a subscription's preferences wholesale.
type UpdatePreferencesRequest struct {
	Endpoint    string      `json:"endpoint"`
	Preferences Preferences `json:"preferences"`
}

func (r *UpdatePreferencesRequest) Validate() error {
	if r.Endpoint == "" {
		return ErrInvalidEndpoint
	}
	return r.Preferences.Validate()
}

// Validate rejects unknown categories. Quiet-hours times are deliberately
// not validated here: the audience filter treats a malformed window as
// disabled rather than failing the subscription.
func (p *Preferences) Validate() error {
	for c := range p.Categories {
		if !c.IsValid() {
			return ErrInvalidCategory
		}
	}
	return nil
}
