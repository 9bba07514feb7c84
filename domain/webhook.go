package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// MaxWebhookRetries caps replay attempts per failure record. A record that
// reaches the cap is left in the store for manual intervention, never
// silently dropped.
const MaxWebhookRetries = 3

type FailureStatus string

const (
	FailureStatusPending   FailureStatus = "PENDING"
	FailureStatusExhausted FailureStatus = "EXHAUSTED"
)

// WebhookFailure records a payment-provider callback whose processing
// failed. EventData holds the original payload verbatim so a replay runs
// through the exact same processing as the live delivery.
type WebhookFailure struct {
	ID           uuid.UUID
	EventID      string
	EventType    string
	EventData    json.RawMessage
	RetryCount   int
	LastRetryAt  *time.Time
	ErrorMessage string
	CreatedAt    time.Time
}

func (f WebhookFailure) Status() FailureStatus {
	if f.RetryCount >= MaxWebhookRetries {
		return FailureStatusExhausted
	}
	return FailureStatusPending
}

// CanRetry reports whether the retry engine may pick this record up again.
func (f WebhookFailure) CanRetry() bool {
	return f.RetryCount < MaxWebhookRetries
}
