package service

import (
	"context"
	"fmt"

	"github.com/pdxfresh/checkout-service/domain"
	"github.com/pdxfresh/checkout-service/internal/payments"
)

// ValidationFailedError carries the per-item errors of a cart that did not
// pass validation, so the HTTP layer can return them verbatim.
type ValidationFailedError struct {
	Errors []domain.ItemError
}

func (e *ValidationFailedError) Error() string {
	return fmt.Sprintf("cart validation failed with %d item error(s)", len(e.Errors))
}

// SessionBuilder assembles a hosted checkout session from validated items.
type SessionBuilder interface {
	Build(ctx context.Context, req payments.BuildRequest) (string, error)
}

// CheckoutRequest is the service-level checkout input. Either Items is
// populated, or the legacy single PriceID+Mode pair is.
type CheckoutRequest struct {
	Items []domain.CartItem

	// Legacy form: a single price with an explicit mode.
	PriceID string
	Mode    string

	UserID      string
	Email       string
	CouponCode  string
	SuccessPath string
	CancelPath  string
}

type CheckoutService struct {
	validation *ValidationService
	builder    SessionBuilder
}

func NewCheckoutService(validation *ValidationService, builder SessionBuilder) *CheckoutService {
	return &CheckoutService{
		validation: validation,
		builder:    builder,
	}
}

// Checkout validates the items and requests a hosted session, returning
// its redirect URL. The legacy price+mode form is folded into a single
// synthesized item so it runs the same validation pipeline. A processor
// rejection at the session stage means either a race with a deactivation
// or a validation bypass; both surface as the same error.
func (s *CheckoutService) Checkout(ctx context.Context, req CheckoutRequest) (string, error) {
	items := req.Items
	if len(items) == 0 && req.PriceID != "" {
		item := domain.CartItem{PriceID: req.PriceID, Quantity: 1}
		if req.Mode == "subscription" {
			item.ProductType = domain.ProductTypeSubscription
		}
		items = []domain.CartItem{item}
	}
	if len(items) == 0 {
		return "", &ValidationFailedError{Errors: []domain.ItemError{
			{Error: "No items to check out"},
		}}
	}

	result := s.validation.ValidateCart(ctx, items)
	if !result.Valid {
		return "", &ValidationFailedError{Errors: result.Errors}
	}

	url, err := s.builder.Build(ctx, payments.BuildRequest{
		Items:       items,
		UserID:      req.UserID,
		Email:       req.Email,
		CouponCode:  req.CouponCode,
		SuccessPath: req.SuccessPath,
		CancelPath:  req.CancelPath,
	})
	if err != nil {
		return "", fmt.Errorf("build checkout session: %w", err)
	}
	return url, nil
}
