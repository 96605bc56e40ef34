// Package domain provides core business logic interfaces and types.
package domain

import (
	"context"

	"backoffice/internal/core/entity"
	"backoffice/internal/domain/filter"
)

// --- Filter ---

// ListFilter contains common filtering options for list operations.
type ListFilter struct {
	// State selects active, retired or all records
	State filter.State

	// Items are additional equality filters (e.g. rubro_id on sub-rubros)
	Items []filter.Item
}

// DefaultListFilter returns sensible defaults.
func DefaultListFilter() ListFilter {
	return ListFilter{State: filter.Active}
}

// --- Repository Interfaces ---

// CatalogRepository defines persistence for soft-deletable catalog entities.
type CatalogRepository[T entity.Entity[T]] interface {
	// Create inserts a new entity (ID already assigned)
	Create(ctx context.Context, e T) error

	// GetByID retrieves entity by ID regardless of its state
	GetByID(ctx context.Context, id string) (T, error)

	// FindByCode returns every record holding code, active or retired
	FindByCode(ctx context.Context, code string) ([]T, error)

	// Update replaces all stored fields of an existing entity
	Update(ctx context.Context, e T) error

	// SetRetired sets or clears the soft-delete flag
	SetRetired(ctx context.Context, id string, retired bool) error

	// List retrieves entities matching the filter in insertion order
	List(ctx context.Context, f ListFilter) ([]T, error)

	// ActiveCounter is used by parents to detect active dependents
	ActiveCounter
}

// ActiveCounter counts active records whose field equals value.
type ActiveCounter interface {
	CountActive(ctx context.Context, field string, value any) (int64, error)
}

// --- Hooks ---

// HookEvent represents lifecycle event type.
type HookEvent string

const (
	BeforeCreate HookEvent = "before_create"
	AfterCreate  HookEvent = "after_create"
	BeforeUpdate HookEvent = "before_update"
	AfterUpdate  HookEvent = "after_update"
	BeforeRetire HookEvent = "before_retire"
	AfterRetire  HookEvent = "after_retire"
)

// Hook is a function that runs at specific lifecycle points.
type Hook[T any] func(ctx context.Context, entity T) error

// HookRegistry stores lifecycle hooks for an entity type.
type HookRegistry[T any] struct {
	hooks map[HookEvent][]Hook[T]
}

// NewHookRegistry creates an empty hook registry.
func NewHookRegistry[T any]() *HookRegistry[T] {
	return &HookRegistry[T]{
		hooks: make(map[HookEvent][]Hook[T]),
	}
}

// On registers a hook for the specified event.
func (r *HookRegistry[T]) On(event HookEvent, hook Hook[T]) {
	r.hooks[event] = append(r.hooks[event], hook)
}

// Run executes all hooks for the specified event, stopping at the first error.
func (r *HookRegistry[T]) Run(ctx context.Context, event HookEvent, entity T) error {
	for _, hook := range r.hooks[event] {
		if err := hook(ctx, entity); err != nil {
			return err
		}
	}
	return nil
}

// OnBeforeCreate registers a hook to run before create.
func (r *HookRegistry[T]) OnBeforeCreate(hook Hook[T]) {
	r.On(BeforeCreate, hook)
}

// OnAfterCreate registers a hook to run after create.
func (r *HookRegistry[T]) OnAfterCreate(hook Hook[T]) {
	r.On(AfterCreate, hook)
}

// OnBeforeUpdate registers a hook to run before update.
func (r *HookRegistry[T]) OnBeforeUpdate(hook Hook[T]) {
	r.On(BeforeUpdate, hook)
}

// OnAfterUpdate registers a hook to run after update.
func (r *HookRegistry[T]) OnAfterUpdate(hook Hook[T]) {
	r.On(AfterUpdate, hook)
}

// OnBeforeRetire registers a hook to run before a record is retired,
// either through DELETE or through a patch that sets baja_logica.
func (r *HookRegistry[T]) OnBeforeRetire(hook Hook[T]) {
	r.On(BeforeRetire, hook)
}

// OnAfterRetire registers a hook to run after retire.
func (r *HookRegistry[T]) OnAfterRetire(hook Hook[T]) {
	r.On(AfterRetire, hook)
}
