package webhook

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/pdxfresh/checkout-service/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func failureRecord(eventID string, retryCount int) domain.WebhookFailure {
	return domain.WebhookFailure{
		ID:         uuid.New(),
		EventID:    eventID,
		EventType:  "checkout.session.completed",
		EventData:  []byte(eventID),
		RetryCount: retryCount,
	}
}

func TestRun_SuccessDeletesRecord(t *testing.T) {
	record := failureRecord("evt_1", 1)
	store := &MockFailureStore{Failures: []domain.WebhookFailure{record}}
	processor := &MockEventProcessor{}
	engine := NewRetryEngine(store, processor)

	summary, err := engine.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, 1, summary.SuccessCount)
	assert.Equal(t, 0, summary.FailCount)
	assert.Equal(t, []uuid.UUID{record.ID}, store.Deleted)
	assert.Empty(t, store.Marked)
}

func TestRun_FailureIncrementsRetryCount(t *testing.T) {
	record := failureRecord("evt_1", 2)
	store := &MockFailureStore{Failures: []domain.WebhookFailure{record}}
	processor := &MockEventProcessor{FailEventIDs: map[string]error{
		"evt_1": errors.New("still broken"),
	}}
	engine := NewRetryEngine(store, processor)

	summary, err := engine.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, summary.FailCount)
	assert.Equal(t, "still broken", store.Marked[record.ID])
	assert.Empty(t, store.Deleted)
	require.Len(t, summary.Results, 1)
	assert.False(t, summary.Results[0].Success)
	assert.Equal(t, "still broken", summary.Results[0].Error)
}

func TestRun_OneFailureDoesNotAbortBatch(t *testing.T) {
	first := failureRecord("evt_1", 0)
	second := failureRecord("evt_2", 0)
	third := failureRecord("evt_3", 0)
	store := &MockFailureStore{Failures: []domain.WebhookFailure{first, second, third}}
	processor := &MockEventProcessor{FailEventIDs: map[string]error{
		"evt_2": errors.New("boom"),
	}}
	engine := NewRetryEngine(store, processor)

	summary, err := engine.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, summary.Processed)
	assert.Equal(t, 2, summary.SuccessCount)
	assert.Equal(t, 1, summary.FailCount)
	assert.Equal(t, []string{"evt_1", "evt_2", "evt_3"}, processor.Processed, "batch order preserved")
}

func TestRun_BatchBounded(t *testing.T) {
	store := &MockFailureStore{}
	for i := 0; i < BatchSize+5; i++ {
		store.Failures = append(store.Failures, failureRecord(uuid.NewString(), 0))
	}
	processor := &MockEventProcessor{}
	engine := NewRetryEngine(store, processor)

	summary, err := engine.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, BatchSize, summary.Processed)
}

func TestRun_StoreErrorPropagates(t *testing.T) {
	store := &MockFailureStore{PendingErr: errors.New("db down")}
	engine := NewRetryEngine(store, &MockEventProcessor{})

	_, err := engine.Run(context.Background())

	assert.Error(t, err)
}

func TestRun_EmptySweep(t *testing.T) {
	engine := NewRetryEngine(&MockFailureStore{}, &MockEventProcessor{})

	summary, err := engine.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, summary.Processed)
	assert.NotNil(t, summary.Results)
}

func TestRun_BookkeepingErrorDoesNotAbort(t *testing.T) {
	record := failureRecord("evt_1", 0)
	store := &MockFailureStore{
		Failures:  []domain.WebhookFailure{record},
		DeleteErr: errors.New("delete failed"),
	}
	engine := NewRetryEngine(store, &MockEventProcessor{})

	summary, err := engine.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, summary.SuccessCount, "replay success counts even when cleanup fails")
}
