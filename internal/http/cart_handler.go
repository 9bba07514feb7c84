package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/pdxfresh/checkout-service/domain"
	"github.com/pdxfresh/checkout-service/internal/ratelimit"
	"github.com/pdxfresh/checkout-service/internal/validate"
)

// CartValidator runs the full validation pipeline over a cart.
type CartValidator interface {
	ValidateCart(ctx context.Context, items []domain.CartItem) domain.ValidationResult
}

// RateLimiter gates how often a client may call an endpoint.
type RateLimiter interface {
	Check(ctx context.Context, identifier string, limit int, window string) (ratelimit.Result, error)
}

type CartHandler struct {
	validator CartValidator
	limiter   RateLimiter
	limit     int
	window    string
}

func NewCartHandler(validator CartValidator, limiter RateLimiter, limit int, window string) *CartHandler {
	return &CartHandler{
		validator: validator,
		limiter:   limiter,
		limit:     limit,
		window:    window,
	}
}

type ValidateCartRequestDTO struct {
	Items []domain.CartItem `json:"items"`
}

// POST /cart/validate
func (h *CartHandler) ValidateCart(w http.ResponseWriter, r *http.Request) {
	if !allowRequest(w, r, h.limiter, "cart-validate", h.limit, h.window) {
		return
	}

	var req ValidateCartRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if len(req.Items) == 0 {
		respondError(w, http.StatusBadRequest, "empty_cart", "items array must not be empty")
		return
	}
	if len(req.Items) > validate.MaxItems {
		respondError(w, http.StatusBadRequest, "too_many_items",
			fmt.Sprintf("items array is limited to %d entries", validate.MaxItems))
		return
	}

	result := h.validator.ValidateCart(r.Context(), req.Items)
	if !result.Valid {
		respondJSON(w, http.StatusBadRequest, result)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// allowRequest applies the rate limit and writes the 429 when exceeded.
// A limiter backend failure is logged and the request allowed: the limiter
// is advisory, and a dead Redis must not take checkout down with it.
func allowRequest(w http.ResponseWriter, r *http.Request, limiter RateLimiter, scope string, limit int, window string) bool {
	identifier := fmt.Sprintf("%s:%s", scope, clientIdentifier(r))
	result, err := limiter.Check(r.Context(), identifier, limit, window)
	if err != nil {
		log.Printf("rate limit check failed for %s: %v", identifier, err)
		return true
	}

	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

	if !result.Allowed {
		retryAfter := int(time.Until(result.ResetAt).Seconds()) + 1
		w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
		respondError(w, http.StatusTooManyRequests, "rate_limit_exceeded",
			"too many requests, please slow down")
		return false
	}
	return true
}
