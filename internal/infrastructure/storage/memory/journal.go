package memory

import (
	"context"
	"slices"
	"sync"

	"backoffice/internal/domain/audit"
)

var _ audit.Journal = (*Journal)(nil)

// Journal keeps audit entries in memory.
type Journal struct {
	mu      sync.RWMutex
	entries []audit.Entry
}

// NewJournal creates an empty journal.
func NewJournal() *Journal {
	return &Journal{}
}

// Record implements audit.Journal.
func (j *Journal) Record(_ context.Context, entry audit.Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	entry.Changes = slices.Clone(entry.Changes)
	j.entries = append(j.entries, entry)
	return nil
}

// History implements audit.Journal. Entries are returned newest first.
func (j *Journal) History(_ context.Context, entityType, entityID string, limit int) ([]audit.Entry, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	var out []audit.Entry
	for i := len(j.entries) - 1; i >= 0; i-- {
		e := j.entries[i]
		if e.EntityType != entityType || e.EntityID != entityID {
			continue
		}
		out = append(out, e)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}
