package webhook

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/pdxfresh/checkout-service/domain"
)

const (
	// BatchSize bounds how many failures one sweep replays.
	BatchSize = 10

	// MaxRecordAge excludes failures older than a day; anything that old
	// is operator territory.
	MaxRecordAge = 24 * time.Hour
)

// FailureStore is the slice of the repository the retry engine needs.
type FailureStore interface {
	PendingFailures(ctx context.Context, limit int, since time.Time) ([]domain.WebhookFailure, error)
	MarkRetryFailed(ctx context.Context, id uuid.UUID, errorMessage string) error
	DeleteFailure(ctx context.Context, id uuid.UUID) error
}

// EventProcessor replays a stored payload; implemented by Processor.
type EventProcessor interface {
	Process(ctx context.Context, payload []byte) error
}

// RetryOutcome is the per-record result of one sweep.
type RetryOutcome struct {
	EventID string `json:"eventId"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Summary aggregates one sweep. A sweep never fails because individual
// replays failed; SuccessCount and FailCount tell the story.
type Summary struct {
	Processed    int            `json:"processed"`
	SuccessCount int            `json:"successCount"`
	FailCount    int            `json:"failCount"`
	Results      []RetryOutcome `json:"results"`
}

type RetryEngine struct {
	store     FailureStore
	processor EventProcessor
	now       func() time.Time
}

func NewRetryEngine(store FailureStore, processor EventProcessor) *RetryEngine {
	return &RetryEngine{
		store:     store,
		processor: processor,
		now:       time.Now,
	}
}

// Run performs one sweep: fetch a bounded batch of pending failures,
// oldest first, and replay each through the live processing path. Success
// deletes the record; failure bumps its retry count. Bookkeeping errors
// are logged and skipped so one bad record cannot abort the batch.
func (e *RetryEngine) Run(ctx context.Context) (Summary, error) {
	since := e.now().Add(-MaxRecordAge)
	failures, err := e.store.PendingFailures(ctx, BatchSize, since)
	if err != nil {
		return Summary{}, fmt.Errorf("fetch pending failures: %w", err)
	}

	summary := Summary{Results: make([]RetryOutcome, 0, len(failures))}
	for _, failure := range failures {
		summary.Processed++
		outcome := e.replay(ctx, failure)
		if outcome.Success {
			summary.SuccessCount++
		} else {
			summary.FailCount++
		}
		summary.Results = append(summary.Results, outcome)
	}
	return summary, nil
}

func (e *RetryEngine) replay(ctx context.Context, failure domain.WebhookFailure) RetryOutcome {
	err := e.processor.Process(ctx, failure.EventData)
	if err == nil {
		if delErr := e.store.DeleteFailure(ctx, failure.ID); delErr != nil {
			log.Printf("failed to delete resolved failure %s: %v", failure.ID, delErr)
		}
		return RetryOutcome{EventID: failure.EventID, Success: true}
	}

	log.Printf("retry of event %s failed (attempt %d): %v", failure.EventID, failure.RetryCount+1, err)
	if markErr := e.store.MarkRetryFailed(ctx, failure.ID, err.Error()); markErr != nil {
		log.Printf("failed to record retry failure for %s: %v", failure.ID, markErr)
	}
	return RetryOutcome{EventID: failure.EventID, Success: false, Error: err.Error()}
}
