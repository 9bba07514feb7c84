// Package ratelimit bounds how often a client may hit the validation and
// coupon endpoints. The counter backing the limiter is pluggable: the
// in-memory implementation covers a single-process deployment, the Redis
// one is for horizontal scaling. Either way the limiter is advisory, not a
// security boundary on its own.
package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// Counter tracks request counts per identifier within a rolling window.
type Counter interface {
	// Increment bumps the count for key, starting a fresh window when none
	// is active, and returns the new count and when the window resets.
	Increment(ctx context.Context, key string, window time.Duration) (int64, time.Time, error)

	// Reset clears the count for key.
	Reset(ctx context.Context, key string) error
}

// Result reports the outcome of a limit check. Remaining and ResetAt are
// populated regardless of outcome so callers can surface retry-after hints.
type Result struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

type Limiter struct {
	counter Counter
}

func NewLimiter(counter Counter) *Limiter {
	return &Limiter{counter: counter}
}

// Check increments the identifier's counter and reports whether the call is
// within limit for the given window spec ("30s", "1m", "1h", "1d").
func (l *Limiter) Check(ctx context.Context, identifier string, limit int, window string) (Result, error) {
	dur, err := ParseWindow(window)
	if err != nil {
		return Result{}, err
	}

	count, resetAt, err := l.counter.Increment(ctx, identifier, dur)
	if err != nil {
		return Result{}, fmt.Errorf("rate limit increment: %w", err)
	}

	remaining := limit - int(count)
	if remaining < 0 {
		remaining = 0
	}

	return Result{
		Allowed:   count <= int64(limit),
		Remaining: remaining,
		ResetAt:   resetAt,
	}, nil
}

// ParseWindow parses a compact duration spec: a positive integer followed
// by s, m, h or d.
func ParseWindow(spec string) (time.Duration, error) {
	spec = strings.TrimSpace(spec)
	if len(spec) < 2 {
		return 0, fmt.Errorf("invalid window spec %q", spec)
	}

	unit := spec[len(spec)-1]
	digits := spec[:len(spec)-1]
	for _, r := range digits {
		if !unicode.IsDigit(r) {
			return 0, fmt.Errorf("invalid window spec %q", spec)
		}
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid window spec %q", spec)
	}

	switch unit {
	case 's':
		return time.Duration(n) * time.Second, nil
	case 'm':
		return time.Duration(n) * time.Minute, nil
	case 'h':
		return time.Duration(n) * time.Hour, nil
	case 'd':
		return time.Duration(n) * 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("invalid window unit %q", string(unit))
	}
}
