// Package audit records the lifecycle history of catalog records.
package audit

import (
	"context"
	"encoding/json"
	"reflect"
	"time"
)

// Action represents the type of audited operation.
type Action string

const (
	ActionCreate     Action = "create"
	ActionUpdate     Action = "update"
	ActionRetire     Action = "retire"
	ActionReactivate Action = "reactivate"
)

// Entry is a single journal line.
type Entry struct {
	ID         string          `json:"id"`
	EntityType string          `json:"entidad"`
	EntityID   string          `json:"entidad_id"`
	Action     Action          `json:"accion"`
	Changes    json.RawMessage `json:"cambios,omitempty"`
	CreatedAt  time.Time       `json:"fecha"`
}

// Journal persists and reads audit entries.
type Journal interface {
	Record(ctx context.Context, entry Entry) error
	History(ctx context.Context, entityType, entityID string, limit int) ([]Entry, error)
}

// Snapshot converts any JSON-serializable value into a generic map.
func Snapshot(v any) map[string]any {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

// Diff calculates the difference between old and new entity states.
func Diff(oldState, newState map[string]any) map[string]any {
	changes := make(map[string]any)

	for key, newVal := range newState {
		oldVal, exists := oldState[key]
		if !exists {
			changes[key] = map[string]any{"old": nil, "new": newVal}
		} else if !reflect.DeepEqual(oldVal, newVal) {
			changes[key] = map[string]any{"old": oldVal, "new": newVal}
		}
	}

	for key, oldVal := range oldState {
		if _, exists := newState[key]; !exists {
			changes[key] = map[string]any{"old": oldVal, "new": nil}
		}
	}

	return changes
}
