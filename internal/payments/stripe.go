package payments

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker/v2"
)

const defaultBaseURL = "https://api.stripe.com/v1"

// StripeClient talks to the processor's REST API. All calls go through a
// circuit breaker so a flapping processor fails fast instead of holding
// every validation request until timeout; callers treat a breaker-open
// error like any other transient failure (fail closed).
type StripeClient struct {
	http    *resty.Client
	breaker *gobreaker.CircuitBreaker[*resty.Response]
}

func NewStripeClient(apiKey string, opts ...StripeOption) *StripeClient {
	httpClient := resty.New().
		SetBaseURL(defaultBaseURL).
		SetAuthToken(apiKey).
		SetTimeout(10 * time.Second)

	breaker := gobreaker.NewCircuitBreaker[*resty.Response](gobreaker.Settings{
		Name:    "stripe",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	c := &StripeClient{http: httpClient, breaker: breaker}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type StripeOption func(*StripeClient)

// WithBaseURL points the client at a different API host (tests).
func WithBaseURL(url string) StripeOption {
	return func(c *StripeClient) {
		c.http.SetBaseURL(url)
	}
}

// apiError is the processor's error envelope.
type apiError struct {
	Err struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *StripeClient) do(ctx context.Context, method, path string, form map[string]string, out any) error {
	resp, err := c.breaker.Execute(func() (*resty.Response, error) {
		req := c.http.R().
			SetContext(ctx).
			SetResult(out).
			SetError(&apiError{})
		if form != nil {
			req.SetFormData(form)
		}
		r, execErr := req.Execute(method, path)
		if execErr != nil {
			return nil, execErr
		}
		// 5xx counts against the breaker; client errors do not.
		if r.StatusCode() >= http.StatusInternalServerError {
			return nil, fmt.Errorf("status %d", r.StatusCode())
		}
		return r, nil
	})
	if err != nil {
		return fmt.Errorf("payments: %s %s: %w", method, path, err)
	}

	if resp.IsError() {
		if apiErr, ok := resp.Error().(*apiError); ok && apiErr.Err.Code == "resource_missing" {
			return fmt.Errorf("payments: %s %s: %w", method, path, ErrNotFound)
		}
		return fmt.Errorf("payments: %s %s: status %d", method, path, resp.StatusCode())
	}
	return nil
}

type priceResponse struct {
	ID         string `json:"id"`
	Active     bool   `json:"active"`
	Product    string `json:"product"`
	Currency   string `json:"currency"`
	UnitAmount int64  `json:"unit_amount"`
	Recurring  *struct {
		Interval string `json:"interval"`
	} `json:"recurring"`
}

func (c *StripeClient) RetrievePrice(ctx context.Context, id string) (*Price, error) {
	var pr priceResponse
	if err := c.do(ctx, http.MethodGet, "/prices/"+id, nil, &pr); err != nil {
		return nil, err
	}
	return &Price{
		ID:         pr.ID,
		Active:     pr.Active,
		ProductID:  pr.Product,
		Currency:   pr.Currency,
		UnitAmount: pr.UnitAmount,
		Recurring:  pr.Recurring != nil,
	}, nil
}

func (c *StripeClient) RetrieveProduct(ctx context.Context, id string) (*Product, error) {
	var product Product
	if err := c.do(ctx, http.MethodGet, "/products/"+id, nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *StripeClient) RetrieveCoupon(ctx context.Context, code string) (*Coupon, error) {
	var coupon Coupon
	if err := c.do(ctx, http.MethodGet, "/coupons/"+code, nil, &coupon); err != nil {
		return nil, err
	}
	return &coupon, nil
}

func (c *StripeClient) CreateCheckoutSession(ctx context.Context, params SessionParams) (*CheckoutSession, error) {
	form := map[string]string{
		"mode":        params.Mode,
		"success_url": params.SuccessURL,
		"cancel_url":  params.CancelURL,
	}
	for i, item := range params.LineItems {
		form[fmt.Sprintf("line_items[%d][price]", i)] = item.PriceID
		form[fmt.Sprintf("line_items[%d][quantity]", i)] = strconv.Itoa(item.Quantity)
	}
	if params.CustomerID != "" {
		form["customer"] = params.CustomerID
	}
	if params.CouponID != "" {
		form["discounts[0][coupon]"] = params.CouponID
	}
	for k, v := range params.Metadata {
		form[fmt.Sprintf("metadata[%s]", k)] = v
	}

	var session CheckoutSession
	if err := c.do(ctx, http.MethodPost, "/checkout/sessions", form, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

type customerListResponse struct {
	Data []Customer `json:"data"`
}

// FindOrCreateCustomer resolves the processor-side customer record backing
// an authenticated purchaser, creating one tagged with the user id when
// none exists yet.
func (c *StripeClient) FindOrCreateCustomer(ctx context.Context, email, userID string) (*Customer, error) {
	var list customerListResponse
	err := c.do(ctx, http.MethodGet, "/customers?email="+url.QueryEscape(email)+"&limit=1", nil, &list)
	if err != nil {
		return nil, err
	}
	if len(list.Data) > 0 {
		return &list.Data[0], nil
	}

	var customer Customer
	form := map[string]string{
		"email":            email,
		"metadata[userId]": userID,
	}
	if err := c.do(ctx, http.MethodPost, "/customers", form, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}
