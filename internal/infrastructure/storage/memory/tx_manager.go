// Package memory provides in-memory storage for the catalog backend, used by
// tests and by the server when no database is configured.
package memory

import (
	"context"
	"sync"

	"backoffice/internal/core/tx"
)

var _ tx.Manager = (*TxManager)(nil)

// TxManager serializes transactions with a single mutex.
// There is no rollback: repositories apply writes immediately, and the
// catalog service performs its writes as the last step of a transaction.
type TxManager struct {
	mu sync.Mutex
}

// NewTxManager creates a new transaction manager.
func NewTxManager() *TxManager {
	return &TxManager{}
}

type txKey struct{}

// RunInTransaction executes fn while holding the store lock.
// Nested calls reuse the outer transaction.
func (m *TxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	return fn(context.WithValue(ctx, txKey{}, struct{}{}))
}
