package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/pdxfresh/checkout-service/internal/payments"
)

// CouponRetriever resolves a coupon code via the payment processor.
type CouponRetriever interface {
	RetrieveCoupon(ctx context.Context, code string) (*payments.Coupon, error)
}

type CouponHandler struct {
	client  CouponRetriever
	limiter RateLimiter
	limit   int
	window  string
}

func NewCouponHandler(client CouponRetriever, limiter RateLimiter, limit int, window string) *CouponHandler {
	return &CouponHandler{
		client:  client,
		limiter: limiter,
		limit:   limit,
		window:  window,
	}
}

type ValidateCouponRequestDTO struct {
	Code string `json:"code"`
}

type CouponResponseDTO struct {
	Code            string   `json:"code"`
	Valid           bool     `json:"valid"`
	DiscountPercent *float64 `json:"discountPercent,omitempty"`
	DiscountAmount  *int64   `json:"discountAmount,omitempty"`
}

// POST /coupons/validate
func (h *CouponHandler) ValidateCoupon(w http.ResponseWriter, r *http.Request) {
	if getUserIDFromContext(r.Context()) == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
		return
	}

	if !allowRequest(w, r, h.limiter, "coupon-validate", h.limit, h.window) {
		return
	}

	var req ValidateCouponRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
		respondError(w, http.StatusBadRequest, "missing_code", "code is required")
		return
	}

	coupon, err := h.client.RetrieveCoupon(r.Context(), req.Code)
	if errors.Is(err, payments.ErrNotFound) {
		respondError(w, http.StatusNotFound, "coupon_not_found", "coupon not found")
		return
	}
	if err != nil {
		log.Printf("coupon lookup failed for %s: %v", req.Code, err)
		respondError(w, http.StatusInternalServerError, "coupon_lookup_failed",
			"Unable to validate coupon. Please try again.")
		return
	}
	if !coupon.Valid {
		respondError(w, http.StatusBadRequest, "coupon_invalid", "coupon is no longer valid")
		return
	}

	respondJSON(w, http.StatusOK, CouponResponseDTO{
		Code:            req.Code,
		Valid:           true,
		DiscountPercent: coupon.PercentOff,
		DiscountAmount:  coupon.AmountOff,
	})
}
