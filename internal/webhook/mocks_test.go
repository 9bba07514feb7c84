package webhook

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pdxfresh/checkout-service/domain"
	"github.com/pdxfresh/checkout-service/internal/publisher"
)

// MockFailureStore implements FailureStore for testing
type MockFailureStore struct {
	Failures []domain.WebhookFailure

	PendingErr error
	MarkErr    error
	DeleteErr  error

	Deleted []uuid.UUID
	Marked  map[uuid.UUID]string
}

func (m *MockFailureStore) PendingFailures(_ context.Context, limit int, _ time.Time) ([]domain.WebhookFailure, error) {
	if m.PendingErr != nil {
		return nil, m.PendingErr
	}
	if len(m.Failures) > limit {
		return m.Failures[:limit], nil
	}
	return m.Failures, nil
}

func (m *MockFailureStore) MarkRetryFailed(_ context.Context, id uuid.UUID, errorMessage string) error {
	if m.MarkErr != nil {
		return m.MarkErr
	}
	if m.Marked == nil {
		m.Marked = make(map[uuid.UUID]string)
	}
	m.Marked[id] = errorMessage
	return nil
}

func (m *MockFailureStore) DeleteFailure(_ context.Context, id uuid.UUID) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.Deleted = append(m.Deleted, id)
	return nil
}

// MockEventProcessor implements EventProcessor for testing
type MockEventProcessor struct {
	// FailEventIDs maps event id to the error its replay should return.
	FailEventIDs map[string]error
	Processed    []string
}

func (m *MockEventProcessor) Process(_ context.Context, payload []byte) error {
	// Payloads in these tests are the bare event id.
	id := string(payload)
	m.Processed = append(m.Processed, id)
	if err, ok := m.FailEventIDs[id]; ok {
		return err
	}
	return nil
}

// MockPublisher implements publisher.EventPublisher for testing
type MockPublisher struct {
	Published []publisher.OrderCompleted
	Err       error
}

func (m *MockPublisher) PublishOrderCompleted(_ context.Context, event publisher.OrderCompleted) error {
	if m.Err != nil {
		return m.Err
	}
	m.Published = append(m.Published, event)
	return nil
}
