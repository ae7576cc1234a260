package domain

import "time"

// Sale is the storefront-wide flash sale state. A single row exists;
// it is owned by the persistence layer and read through the sale service,
// never cached in process globals.
type Sale struct {
	Active    bool      `json:"isActive"`
	Discount  int       `json:"discount"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StartSaleRequest is the inbound payload for POST /start-sale.
type StartSaleRequest struct {
	Discount int `json:"discount"`
}

func (r *StartSaleRequest) Validate() error {
	if r.Discount < 1 || r.Discount > 99 {
		return ErrInvalidDiscount
	}
	return nil
}
