// Package tx abstracts transactions so catalog services work the same over
// PostgreSQL and the in-memory store.
package tx

import (
	"context"
)

// Manager runs fn as one unit of work. Nested calls join the outer one.
type Manager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ReadOnlyManager adds read-only transactions.
type ReadOnlyManager interface {
	Manager
	ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}
