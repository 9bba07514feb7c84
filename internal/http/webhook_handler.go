package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/pdxfresh/checkout-service/domain"
	"github.com/pdxfresh/checkout-service/internal/webhook"
)

const maxWebhookBodySize = 1 << 20 // 1MB

// EventProcessor handles one verified callback payload.
type EventProcessor interface {
	Process(ctx context.Context, payload []byte) error
}

// FailureWriter records callbacks whose processing failed.
type FailureWriter interface {
	CreateFailure(ctx context.Context, failure *domain.WebhookFailure) error
}

type WebhookHandler struct {
	processor EventProcessor
	failures  FailureWriter
	secret    string
	now       func() time.Time
}

func NewWebhookHandler(processor EventProcessor, failures FailureWriter, secret string) *WebhookHandler {
	return &WebhookHandler{
		processor: processor,
		failures:  failures,
		secret:    secret,
		now:       time.Now,
	}
}

// POST /webhooks/stripe
//
// A processing failure is recorded for the retry engine and acknowledged
// with 200 so the provider does not run its own retries in parallel with
// ours.
func (h *WebhookHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBodySize))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_body", "could not read request body")
		return
	}

	sigErr := webhook.VerifySignature(payload, r.Header.Get("Stripe-Signature"), h.secret, h.now())
	if errors.Is(sigErr, webhook.ErrStaleTimestamp) {
		respondError(w, http.StatusBadRequest, "stale_timestamp", "webhook timestamp outside tolerance")
		return
	}
	if sigErr != nil {
		respondError(w, http.StatusBadRequest, "invalid_signature", "signature verification failed")
		return
	}

	var envelope struct {
		ID   string `json:"id"`
		Type string `json:"type"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil || envelope.ID == "" {
		respondError(w, http.StatusBadRequest, "invalid_event", "malformed event payload")
		return
	}

	if procErr := h.processor.Process(r.Context(), payload); procErr != nil {
		log.Printf("webhook processing failed for event %s: %v", envelope.ID, procErr)
		h.recordFailure(r.Context(), envelope.ID, envelope.Type, payload, procErr)
	}

	respondJSON(w, http.StatusOK, map[string]bool{"received": true})
}

func (h *WebhookHandler) recordFailure(ctx context.Context, eventID, eventType string, payload []byte, procErr error) {
	failure := &domain.WebhookFailure{
		ID:           uuid.New(),
		EventID:      eventID,
		EventType:    eventType,
		EventData:    payload,
		ErrorMessage: procErr.Error(),
	}
	if err := h.failures.CreateFailure(ctx, failure); err != nil {
		// Worst case: the provider's own retry redelivers the event.
		log.Printf("failed to record webhook failure for event %s: %v", eventID, err)
	}
}
