// Package payments wraps the payment processor's REST API. The rest of the
// service consumes it through the Client interface so tests and the
// reconciler never touch the wire format.
package payments

import (
	"context"
	"errors"
)

// ErrNotFound marks a processor lookup that returned resource_missing.
// Anything else (network failure, 5xx, breaker open) is a transient error.
var ErrNotFound = errors.New("payments: resource missing")

type Price struct {
	ID         string `json:"id"`
	Active     bool   `json:"active"`
	ProductID  string `json:"product"`
	Currency   string `json:"currency"`
	UnitAmount int64  `json:"unit_amount"`
	Recurring  bool   `json:"-"`
}

type Product struct {
	ID     string `json:"id"`
	Active bool   `json:"active"`
	Name   string `json:"name"`
}

type Coupon struct {
	ID         string   `json:"id"`
	Valid      bool     `json:"valid"`
	PercentOff *float64 `json:"percent_off"`
	AmountOff  *int64   `json:"amount_off"`
	Currency   string   `json:"currency"`
}

type Customer struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type SessionLineItem struct {
	PriceID  string
	Quantity int
}

type SessionParams struct {
	Mode       string // "payment" or "subscription"
	LineItems  []SessionLineItem
	CustomerID string // empty for guest checkout; the processor collects the email
	CouponID   string
	SuccessURL string
	CancelURL  string
	Metadata   map[string]string
}

type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type Client interface {
	RetrievePrice(ctx context.Context, id string) (*Price, error)
	RetrieveProduct(ctx context.Context, id string) (*Product, error)
	RetrieveCoupon(ctx context.Context, code string) (*Coupon, error)
	CreateCheckoutSession(ctx context.Context, params SessionParams) (*CheckoutSession, error)
	FindOrCreateCustomer(ctx context.Context, email, userID string) (*Customer, error)
}
