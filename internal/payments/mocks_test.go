package payments

import (
	"context"
	"errors"
)

// MockClient implements Client for testing
type MockClient struct {
	Prices   map[string]*Price
	Products map[string]*Product
	Coupons  map[string]*Coupon

	PriceErr   error
	ProductErr error
	CouponErr  error

	Customer    *Customer
	CustomerErr error

	Session        *CheckoutSession
	SessionErr     error
	CreatedParams  *SessionParams // captures the params passed to CreateCheckoutSession
	CustomerLookup []string       // captures emails looked up
}

func (m *MockClient) RetrievePrice(_ context.Context, id string) (*Price, error) {
	if m.PriceErr != nil {
		return nil, m.PriceErr
	}
	price, ok := m.Prices[id]
	if !ok {
		return nil, ErrNotFound
	}
	return price, nil
}

func (m *MockClient) RetrieveProduct(_ context.Context, id string) (*Product, error) {
	if m.ProductErr != nil {
		return nil, m.ProductErr
	}
	product, ok := m.Products[id]
	if !ok {
		return nil, ErrNotFound
	}
	return product, nil
}

func (m *MockClient) RetrieveCoupon(_ context.Context, code string) (*Coupon, error) {
	if m.CouponErr != nil {
		return nil, m.CouponErr
	}
	coupon, ok := m.Coupons[code]
	if !ok {
		return nil, ErrNotFound
	}
	return coupon, nil
}

func (m *MockClient) CreateCheckoutSession(_ context.Context, params SessionParams) (*CheckoutSession, error) {
	m.CreatedParams = &params
	if m.SessionErr != nil {
		return nil, m.SessionErr
	}
	if m.Session != nil {
		return m.Session, nil
	}
	return &CheckoutSession{ID: "cs_test_123", URL: "https://checkout.example.com/cs_test_123"}, nil
}

func (m *MockClient) FindOrCreateCustomer(_ context.Context, email, _ string) (*Customer, error) {
	m.CustomerLookup = append(m.CustomerLookup, email)
	if m.CustomerErr != nil {
		return nil, m.CustomerErr
	}
	if m.Customer != nil {
		return m.Customer, nil
	}
	return nil, errors.New("no customer configured")
}
