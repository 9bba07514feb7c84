package http

import (
	"context"
	"time"

	"github.com/pdxfresh/checkout-service/domain"
	"github.com/pdxfresh/checkout-service/internal/payments"
	"github.com/pdxfresh/checkout-service/internal/ratelimit"
	"github.com/pdxfresh/checkout-service/internal/service"
	"github.com/pdxfresh/checkout-service/internal/webhook"
)

// MockValidator implements CartValidator for testing
type MockValidator struct {
	Result domain.ValidationResult
	Items  []domain.CartItem
}

func (m *MockValidator) ValidateCart(_ context.Context, items []domain.CartItem) domain.ValidationResult {
	m.Items = items
	return m.Result
}

// MockLimiter implements RateLimiter for testing
type MockLimiter struct {
	Result ratelimit.Result
	Err    error
	Calls  []string
}

func (m *MockLimiter) Check(_ context.Context, identifier string, _ int, _ string) (ratelimit.Result, error) {
	m.Calls = append(m.Calls, identifier)
	if m.Err != nil {
		return ratelimit.Result{}, m.Err
	}
	return m.Result, nil
}

func allowAll() *MockLimiter {
	return &MockLimiter{Result: ratelimit.Result{
		Allowed:   true,
		Remaining: 29,
		ResetAt:   time.Now().Add(time.Minute),
	}}
}

// MockCheckoutStarter implements CheckoutStarter for testing
type MockCheckoutStarter struct {
	URL     string
	Err     error
	Request *service.CheckoutRequest
}

func (m *MockCheckoutStarter) Checkout(_ context.Context, req service.CheckoutRequest) (string, error) {
	m.Request = &req
	if m.Err != nil {
		return "", m.Err
	}
	return m.URL, nil
}

// MockCouponRetriever implements CouponRetriever for testing
type MockCouponRetriever struct {
	Coupon *payments.Coupon
	Err    error
}

func (m *MockCouponRetriever) RetrieveCoupon(_ context.Context, _ string) (*payments.Coupon, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Coupon, nil
}

// MockProcessor implements EventProcessor for testing
type MockProcessor struct {
	Err      error
	Payloads [][]byte
}

func (m *MockProcessor) Process(_ context.Context, payload []byte) error {
	m.Payloads = append(m.Payloads, payload)
	return m.Err
}

// MockFailureWriter implements FailureWriter for testing
type MockFailureWriter struct {
	Created []*domain.WebhookFailure
	Err     error
}

func (m *MockFailureWriter) CreateFailure(_ context.Context, failure *domain.WebhookFailure) error {
	if m.Err != nil {
		return m.Err
	}
	m.Created = append(m.Created, failure)
	return nil
}

// MockSweeper implements RetrySweeper for testing
type MockSweeper struct {
	Summary webhook.Summary
	Err     error
	Runs    int
}

func (m *MockSweeper) Run(_ context.Context) (webhook.Summary, error) {
	m.Runs++
	if m.Err != nil {
		return webhook.Summary{}, m.Err
	}
	return m.Summary, nil
}
