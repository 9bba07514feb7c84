package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/pdxfresh/checkout-service/domain"
	"github.com/pdxfresh/checkout-service/internal/service"
	"github.com/pdxfresh/checkout-service/internal/validate"
)

// CheckoutStarter validates a cart and creates a hosted session.
type CheckoutStarter interface {
	Checkout(ctx context.Context, req service.CheckoutRequest) (string, error)
}

type CheckoutHandler struct {
	checkout CheckoutStarter
}

func NewCheckoutHandler(checkout CheckoutStarter) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout}
}

// CheckoutRequestDTO accepts either the items form or the legacy single
// priceId+mode pair.
type CheckoutRequestDTO struct {
	Items       []domain.CartItem `json:"items,omitempty"`
	CouponCode  string            `json:"couponCode,omitempty"`
	SuccessPath string            `json:"successPath,omitempty"`
	CancelPath  string            `json:"cancelPath,omitempty"`

	PriceID string `json:"priceId,omitempty"`
	Mode    string `json:"mode,omitempty"`
}

type CheckoutResponseDTO struct {
	URL string `json:"url"`
}

type ValidationFailureDTO struct {
	Valid  bool               `json:"valid"`
	Errors []domain.ItemError `json:"errors"`
}

// POST /checkout
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if len(req.Items) > validate.MaxItems {
		respondError(w, http.StatusBadRequest, "too_many_items", "items array is limited to 100 entries")
		return
	}

	url, err := h.checkout.Checkout(r.Context(), service.CheckoutRequest{
		Items:       req.Items,
		PriceID:     req.PriceID,
		Mode:        req.Mode,
		UserID:      getUserIDFromContext(r.Context()),
		Email:       getUserEmailFromContext(r.Context()),
		CouponCode:  req.CouponCode,
		SuccessPath: req.SuccessPath,
		CancelPath:  req.CancelPath,
	})

	var validationErr *service.ValidationFailedError
	if errors.As(err, &validationErr) {
		respondJSON(w, http.StatusBadRequest, ValidationFailureDTO{
			Valid:  false,
			Errors: validationErr.Errors,
		})
		return
	}
	if err != nil {
		log.Printf("checkout failed: %v", err)
		respondError(w, http.StatusInternalServerError, "checkout_failed",
			"Unable to start checkout. Please try again.")
		return
	}

	respondJSON(w, http.StatusOK, CheckoutResponseDTO{URL: url})
}
