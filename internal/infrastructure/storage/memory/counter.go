package memory

import (
	"context"
	"sync"

	"backoffice/internal/core/numerator"
)

var _ numerator.Counter = (*Counter)(nil)

// Counter is an in-memory numerator.Counter.
type Counter struct {
	mu     sync.Mutex
	values map[string]int64
}

// NewCounter creates a counter starting every key at zero.
func NewCounter() *Counter {
	return &Counter{values: make(map[string]int64)}
}

// Next returns the next value for key, starting at 1.
func (c *Counter) Next(_ context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key]++
	return c.values[key], nil
}

// Set overrides the last issued value for key.
func (c *Counter) Set(_ context.Context, key string, value int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
	return nil
}
