package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pdxfresh/checkout-service/domain"
)

// CreateFailure records a callback whose processing failed so the retry
// engine can replay it later.
func (r *Repository) CreateFailure(ctx context.Context, failure *domain.WebhookFailure) error {
	query := `INSERT INTO webhook_failures (id, event_id, event_type, event_data, retry_count, last_retry_at, error_message, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())`

	_, err := r.db.ExecContext(ctx, query,
		failure.ID,
		failure.EventID,
		failure.EventType,
		[]byte(failure.EventData),
		failure.RetryCount,
		failure.LastRetryAt,
		failure.ErrorMessage)
	if err != nil {
		return fmt.Errorf("insert webhook failure: %w", err)
	}
	return nil
}

// PendingFailures returns up to limit records still eligible for retry
// (retry_count below the cap) created since the given time, oldest first so
// no record starves.
func (r *Repository) PendingFailures(ctx context.Context, limit int, since time.Time) ([]domain.WebhookFailure, error) {
	query := `SELECT id, event_id, event_type, event_data, retry_count, last_retry_at, error_message, created_at
	          FROM webhook_failures
	          WHERE retry_count < $1 AND created_at >= $2
	          ORDER BY created_at ASC
	          LIMIT $3`

	rows, err := r.db.QueryContext(ctx, query, domain.MaxWebhookRetries, since, limit)
	if err != nil {
		return nil, fmt.Errorf("query pending failures: %w", err)
	}
	defer rows.Close()

	var failures []domain.WebhookFailure
	for rows.Next() {
		var f domain.WebhookFailure
		var data []byte
		if err := rows.Scan(&f.ID, &f.EventID, &f.EventType, &data, &f.RetryCount, &f.LastRetryAt, &f.ErrorMessage, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan webhook failure: %w", err)
		}
		f.EventData = data
		failures = append(failures, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate webhook failures: %w", err)
	}
	return failures, nil
}

// MarkRetryFailed increments the retry count and records the latest error.
// A single-statement update, so no lock discipline is needed around it.
func (r *Repository) MarkRetryFailed(ctx context.Context, id uuid.UUID, errorMessage string) error {
	query := `UPDATE webhook_failures
	          SET retry_count = retry_count + 1,
	              last_retry_at = NOW(),
	              error_message = $2
	          WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, id, errorMessage)
	if err != nil {
		return fmt.Errorf("mark retry failed: %w", err)
	}
	return nil
}

// DeleteFailure removes a record after a successful replay.
func (r *Repository) DeleteFailure(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM webhook_failures WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete webhook failure: %w", err)
	}
	return nil
}
