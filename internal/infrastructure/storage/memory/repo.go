package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"backoffice/internal/core/apperror"
	"backoffice/internal/core/entity"
	"backoffice/internal/domain"
	"backoffice/internal/domain/filter"
)

// Repo is a generic in-memory catalog repository preserving insertion order.
// Stored and returned values are deep copies.
type Repo[T entity.Entity[T]] struct {
	entityName string

	mu    sync.RWMutex
	order []string
	rows  map[string]T
}

// NewRepo creates an empty repository.
func NewRepo[T entity.Entity[T]](entityName string) *Repo[T] {
	return &Repo[T]{
		entityName: entityName,
		rows:       make(map[string]T),
	}
}

// Create implements domain.CatalogRepository.
func (r *Repo[T]) Create(_ context.Context, e T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rows[e.EntityID()]; exists {
		return apperror.NewConflict("registro duplicado").WithDetail("id", e.EntityID())
	}
	r.rows[e.EntityID()] = e.Clone()
	r.order = append(r.order, e.EntityID())
	return nil
}

// GetByID implements domain.CatalogRepository.
func (r *Repo[T]) GetByID(_ context.Context, id string) (T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.rows[id]
	if !ok {
		var zero T
		return zero, apperror.NewNotFound(r.entityName, id)
	}
	return e.Clone(), nil
}

// FindByCode implements domain.CatalogRepository.
func (r *Repo[T]) FindByCode(_ context.Context, code string) ([]T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []T
	for _, id := range r.order {
		if e := r.rows[id]; e.Code() == code {
			out = append(out, e.Clone())
		}
	}
	return out, nil
}

// Update implements domain.CatalogRepository.
func (r *Repo[T]) Update(_ context.Context, e T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[e.EntityID()]; !ok {
		return apperror.NewNotFound(r.entityName, e.EntityID())
	}
	r.rows[e.EntityID()] = e.Clone()
	return nil
}

// SetRetired implements domain.CatalogRepository.
func (r *Repo[T]) SetRetired(_ context.Context, id string, retired bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.rows[id]
	if !ok {
		return apperror.NewNotFound(r.entityName, id)
	}
	r.rows[id] = e.WithRetired(retired)
	return nil
}

// List implements domain.CatalogRepository.
func (r *Repo[T]) List(_ context.Context, f domain.ListFilter) ([]T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]T, 0, len(r.order))
	for _, id := range r.order {
		e := r.rows[id]
		if !f.State.Matches(e.IsRetired()) {
			continue
		}
		ok, err := matchItems(e, f.Items)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, e.Clone())
		}
	}
	return out, nil
}

// CountActive implements domain.ActiveCounter.
func (r *Repo[T]) CountActive(_ context.Context, field string, value any) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item := filter.Eq(field, value)
	var n int64
	for _, id := range r.order {
		e := r.rows[id]
		if e.IsRetired() {
			continue
		}
		ok, err := matchItems(e, []filter.Item{item})
		if err != nil {
			return 0, err
		}
		if ok {
			n++
		}
	}
	return n, nil
}

// Len returns the number of stored records in any state.
func (r *Repo[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// matchItems evaluates filter items against the JSON form of e, so fields
// are addressed by their wire names.
func matchItems[T any](e T, items []filter.Item) (bool, error) {
	if len(items) == 0 {
		return true, nil
	}

	raw, err := json.Marshal(e)
	if err != nil {
		return false, fmt.Errorf("marshal for filter: %w", err)
	}
	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(raw, &fields); err != nil {
		return false, fmt.Errorf("unmarshal for filter: %w", err)
	}

	for _, item := range items {
		got, present := fields[item.Field]
		isNull := !present || bytes.Equal(got, []byte("null"))

		switch item.Operator {
		case filter.IsNull:
			if !isNull {
				return false, nil
			}
		case filter.IsNotNull:
			if isNull {
				return false, nil
			}
		case filter.Equal, filter.NotEqual:
			want, err := json.Marshal(item.Value)
			if err != nil {
				return false, fmt.Errorf("marshal filter value %s: %w", item.Field, err)
			}
			eq := !isNull && bytes.Equal(got, want)
			if eq != (item.Operator == filter.Equal) {
				return false, nil
			}
		default:
			return false, fmt.Errorf("unsupported operator %q", item.Operator)
		}
	}
	return true, nil
}
