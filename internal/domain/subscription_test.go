package domain_test

import (
	"testing"

	"github.com/ekaradag/shopsync/internal/domain"
)

func validSaveRequest() domain.SaveSubscriptionRequest {
	return domain.SaveSubscriptionRequest{
		Endpoint: "https://push.example.com/send/abc123",
		Keys:     domain.SubscriptionKeys{P256dh: "pk", Auth: "auth"},
	}
}

func TestSaveSubscriptionRequest_Validate(t *testing.T) {
	t.Run("valid request passes", func(t *testing.T) {
		r := validSaveRequest()
		if err := r.Validate(); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("non-https endpoint rejected", func(t *testing.T) {
		r := validSaveRequest()
		r.Endpoint = "http://push.example.com/send/abc123"
		if err := r.Validate(); err != domain.ErrInvalidEndpoint {
			t.Fatalf("expected ErrInvalidEndpoint, got %v", err)
		}
	})

	t.Run("empty endpoint rejected", func(t *testing.T) {
		r := validSaveRequest()
		r.Endpoint = ""
		if err := r.Validate(); err != domain.ErrInvalidEndpoint {
			t.Fatalf("expected ErrInvalidEndpoint, got %v", err)
		}
	})

	t.Run("missing keys rejected", func(t *testing.T) {
		r := validSaveRequest()
		r.Keys.Auth = ""
		if err := r.Validate(); err != domain.ErrInvalidKeys {
			t.Fatalf("expected ErrInvalidKeys, got %v", err)
		}
	})

	t.Run("unknown category in supplied preferences rejected", func(t *testing.T) {
		r := validSaveRequest()
		r.Preferences = &domain.Preferences{
			Categories: map[domain.Category]bool{"weeklyDigest": true},
		}
		if err := r.Validate(); err != domain.ErrInvalidCategory {
			t.Fatalf("expected ErrInvalidCategory, got %v", err)
		}
	})
}

func TestUpdatePreferencesRequest_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		r := domain.UpdatePreferencesRequest{
			Endpoint:    "https://push.example.com/send/abc123",
			Preferences: domain.DefaultPreferences(),
		}
		if err := r.Validate(); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("empty endpoint rejected", func(t *testing.T) {
		r := domain.UpdatePreferencesRequest{Preferences: domain.DefaultPreferences()}
		if err := r.Validate(); err != domain.ErrInvalidEndpoint {
			t.Fatalf("expected ErrInvalidEndpoint, got %v", err)
		}
	})

	t.Run("malformed quiet hours are accepted at write time", func(t *testing.T) {
		// The audience filter treats a malformed window as disabled;
		// preference updates must not fail because of it.
		r := domain.UpdatePreferencesRequest{
			Endpoint: "https://push.example.com/send/abc123",
			Preferences: domain.Preferences{
				Categories: map[domain.Category]bool{domain.CategoryFlashSales: true},
				QuietHours: domain.QuietHours{Enabled: true, Start: "25:99", End: "8"},
			},
		}
		if err := r.Validate(); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})
}

func TestDefaultPreferences(t *testing.T) {
	p := domain.DefaultPreferences()
	for _, c := range []domain.Category{domain.CategoryFlashSales, domain.CategoryNewProducts, domain.CategoryOrderUpdates} {
		if !p.Categories[c] {
			t.Fatalf("expected category %q to default to enabled", c)
		}
	}
	if p.QuietHours.Enabled {
		t.Fatal("expected quiet hours to default to disabled")
	}
	if p.MutedUntil != nil {
		t.Fatal("expected no default mute")
	}
}
