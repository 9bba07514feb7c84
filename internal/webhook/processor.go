// Package webhook processes payment-provider callbacks: the live intake
// path and the retry sweep both run events through the same Processor, so
// a replay behaves identically to the original delivery.
package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/pdxfresh/checkout-service/internal/publisher"
)

// Event is the provider's callback envelope.
type Event struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Created int64  `json:"created"`
	Data    struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

// checkoutSession is the slice of the session object the processor reads.
type checkoutSession struct {
	ID              string `json:"id"`
	AmountTotal     int64  `json:"amount_total"`
	Currency        string `json:"currency"`
	CustomerDetails struct {
		Email string `json:"email"`
	} `json:"customer_details"`
	Metadata map[string]string `json:"metadata"`
}

type Processor struct {
	publisher publisher.EventPublisher
}

func NewProcessor(pub publisher.EventPublisher) *Processor {
	return &Processor{publisher: pub}
}

// Process dispatches one event payload. Unknown event types are
// acknowledged and ignored so new provider events never pile up as
// failures.
func (p *Processor) Process(ctx context.Context, payload []byte) error {
	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("parse event payload: %w", err)
	}

	switch event.Type {
	case "checkout.session.completed":
		return p.handleSessionCompleted(ctx, event)
	case "invoice.payment_succeeded":
		log.Printf("invoice paid, event %s", event.ID)
		return nil
	case "invoice.payment_failed":
		log.Printf("invoice payment failed, event %s", event.ID)
		return nil
	default:
		log.Printf("ignoring event %s of type %s", event.ID, event.Type)
		return nil
	}
}

func (p *Processor) handleSessionCompleted(ctx context.Context, event Event) error {
	var session checkoutSession
	if err := json.Unmarshal(event.Data.Object, &session); err != nil {
		return fmt.Errorf("parse session object for event %s: %w", event.ID, err)
	}
	if session.ID == "" {
		return fmt.Errorf("event %s has no session id", event.ID)
	}

	completed := publisher.OrderCompleted{
		SessionID:     session.ID,
		UserID:        session.Metadata["userId"],
		CustomerEmail: session.CustomerDetails.Email,
		AmountTotal:   session.AmountTotal,
		Currency:      session.Currency,
		Metadata:      session.Metadata,
		CompletedAt:   time.Unix(event.Created, 0).UTC(),
	}

	if err := p.publisher.PublishOrderCompleted(ctx, completed); err != nil {
		return fmt.Errorf("publish completion for session %s: %w", session.ID, err)
	}

	log.Printf("checkout session %s completed, event %s", session.ID, event.ID)
	return nil
}
