// Package numerator provides domain contracts for business code counters.
// Implementations live in infrastructure layer.
package numerator

import (
	"context"
)

// Counter hands out strictly increasing integers per key.
// It backs the "next code" endpoints of catalogs that number their codes.
type Counter interface {
	// Next returns the next value for key, starting at 1.
	Next(ctx context.Context, key string) (int64, error)
}
