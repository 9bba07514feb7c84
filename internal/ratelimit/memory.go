package ratelimit

import (
	"context"
	"sync"
	"time"
)

// SweepInterval is how often the background sweep evicts expired entries.
const SweepInterval = 5 * time.Minute

type entry struct {
	count   int64
	resetAt time.Time
}

// MemoryCounter is a process-local Counter. Entries are created on the
// first request in a window and evicted once the window has passed, so the
// map stays bounded by the number of distinct identifiers per sweep period.
type MemoryCounter struct {
	mu      sync.Mutex
	entries map[string]*entry

	now func() time.Time

	stopSweep chan struct{}
	wg        sync.WaitGroup
}

func NewMemoryCounter() *MemoryCounter {
	c := &MemoryCounter{
		entries:   make(map[string]*entry),
		now:       time.Now,
		stopSweep: make(chan struct{}),
	}

	c.wg.Add(1)
	go c.sweepLoop()

	return c
}

func (c *MemoryCounter) Increment(_ context.Context, key string, window time.Duration) (int64, time.Time, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	e, ok := c.entries[key]
	if !ok || !now.Before(e.resetAt) {
		e = &entry{count: 0, resetAt: now.Add(window)}
		c.entries[key] = e
	}
	e.count++
	return e.count, e.resetAt, nil
}

func (c *MemoryCounter) Reset(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

func (c *MemoryCounter) sweepLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.evictExpired()
		case <-c.stopSweep:
			return
		}
	}
}

func (c *MemoryCounter) evictExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, e := range c.entries {
		if !now.Before(e.resetAt) {
			delete(c.entries, key)
		}
	}
}

// Close stops the background sweep.
func (c *MemoryCounter) Close() {
	close(c.stopSweep)
	c.wg.Wait()
}
