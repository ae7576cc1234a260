package domain_test

import (
	"strings"
	"testing"
	"time"

	"github.com/ekaradag/shopsync/internal/domain"
)

func TestCreateCampaignRequest_Validate(t *testing.T) {
	valid := domain.CreateCampaignRequest{
		Title:    "Flash Sale",
		Body:     "Everything 20% off for the next hour",
		Category: domain.CategoryFlashSales,
	}

	t.Run("valid request passes", func(t *testing.T) {
		if err := valid.Validate(); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("empty title", func(t *testing.T) {
		r := valid
		r.Title = ""
		if err := r.Validate(); err != domain.ErrInvalidTitle {
			t.Fatalf("expected ErrInvalidTitle, got %v", err)
		}
	})

	t.Run("title too long", func(t *testing.T) {
		r := valid
		r.Title = strings.Repeat("x", 257)
		if err := r.Validate(); err != domain.ErrInvalidTitle {
			t.Fatalf("expected ErrInvalidTitle, got %v", err)
		}
	})

	t.Run("empty body", func(t *testing.T) {
		r := valid
		r.Body = ""
		if err := r.Validate(); err != domain.ErrInvalidBody {
			t.Fatalf("expected ErrInvalidBody, got %v", err)
		}
	})

	t.Run("unknown category", func(t *testing.T) {
		r := valid
		r.Category = "weeklyDigest"
		if err := r.Validate(); err != domain.ErrInvalidCategory {
			t.Fatalf("expected ErrInvalidCategory, got %v", err)
		}
	})

	t.Run("negative ttl", func(t *testing.T) {
		r := valid
		r.TTLSeconds = -1
		if err := r.Validate(); err != domain.ErrInvalidTTL {
			t.Fatalf("expected ErrInvalidTTL, got %v", err)
		}
	})

	t.Run("all known categories accepted", func(t *testing.T) {
		for _, c := range []domain.Category{domain.CategoryFlashSales, domain.CategoryNewProducts, domain.CategoryOrderUpdates} {
			r := valid
			r.Category = c
			if err := r.Validate(); err != nil {
				t.Fatalf("category %q: expected no error, got %v", c, err)
			}
		}
	})
}

func TestCampaign_Due(t *testing.T) {
	now := time.Now().UTC()
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	tests := []struct {
		name   string
		sendAt *time.Time
		want   bool
	}{
		{"no send time is due", nil, true},
		{"past send time is due", &past, true},
		{"future send time is not due", &future, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := domain.Campaign{SendAt: tc.sendAt}
			if got := c.Due(now); got != tc.want {
				t.Fatalf("Due() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestRecordEventRequest_Validate(t *testing.T) {
	id := "campaign-1"

	t.Run("valid", func(t *testing.T) {
		r := domain.RecordEventRequest{CampaignID: &id, Event: domain.EventClick, Category: domain.CategoryFlashSales}
		if err := r.Validate(); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("unknown event type", func(t *testing.T) {
		r := domain.RecordEventRequest{CampaignID: &id, Event: "hover"}
		if err := r.Validate(); err != domain.ErrInvalidEvent {
			t.Fatalf("expected ErrInvalidEvent, got %v", err)
		}
	})

	t.Run("missing both ids", func(t *testing.T) {
		r := domain.RecordEventRequest{Event: domain.EventOpen}
		if err := r.Validate(); err != domain.ErrMissingEventTarget {
			t.Fatalf("expected ErrMissingEventTarget, got %v", err)
		}
	})

	t.Run("notification id alone is enough", func(t *testing.T) {
		nid := "notif-1"
		r := domain.RecordEventRequest{NotificationID: &nid, Event: domain.EventDismiss}
		if err := r.Validate(); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})
}

func TestOrder_Validate(t *testing.T) {
	valid := domain.Order{ID: "order-1", Total: 49.90, PaymentMethod: "card"}

	t.Run("valid order passes", func(t *testing.T) {
		if err := valid.Validate(); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("missing id", func(t *testing.T) {
		o := valid
		o.ID = ""
		if err := o.Validate(); err != domain.ErrInvalidOrderID {
			t.Fatalf("expected ErrInvalidOrderID, got %v", err)
		}
	})

	t.Run("negative total", func(t *testing.T) {
		o := valid
		o.Total = -1
		if err := o.Validate(); err != domain.ErrInvalidOrderTotal {
			t.Fatalf("expected ErrInvalidOrderTotal, got %v", err)
		}
	})

	t.Run("missing payment method", func(t *testing.T) {
		o := valid
		o.PaymentMethod = ""
		if err := o.Validate(); err != domain.ErrInvalidPaymentMethod {
			t.Fatalf("expected ErrInvalidPaymentMethod, got %v", err)
		}
	})
}

func TestStartSaleRequest_Validate(t *testing.T) {
	tests := []struct {
		discount int
		wantErr  bool
	}{
		{0, true},
		{1, false},
		{50, false},
		{99, false},
		{100, true},
		{-5, true},
	}

	for _, tc := range tests {
		r := domain.StartSaleRequest{Discount: tc.discount}
		err := r.Validate()
		if tc.wantErr && err != domain.ErrInvalidDiscount {
			t.Fatalf("discount %d: expected ErrInvalidDiscount, got %v", tc.discount, err)
		}
		if !tc.wantErr && err != nil {
			t.Fatalf("discount %d: expected no error, got %v", tc.discount, err)
		}
	}
}
