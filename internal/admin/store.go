package admin

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"backoffice/internal/core/entity"
	"backoffice/internal/domain/filter"
)

// Reactivation is the pending "reactivate the retired record instead" offer
// created when a create collides with a retired record's code.
type Reactivation[T entity.Entity[T]] struct {
	InactiveID string
	Pending    T
}

// Store is the client-side lifecycle engine for one entity type.
//
// Network operations are serialized by opMu, so overlapping calls run one
// after another. State is guarded by mu and readers never wait on the network.
// Operations never return errors: failures are reported to the Notifier and
// the boolean result says whether the operation took effect.
type Store[T entity.Entity[T]] struct {
	svc    Service[T]
	desc   Descriptor
	notify Notifier

	opMu sync.Mutex

	mu       sync.RWMutex
	items    []T
	loading  bool
	selected *T
	conflict *Reactivation[T]
}

// NewStore creates an empty store.
func NewStore[T entity.Entity[T]](svc Service[T], desc Descriptor, notify Notifier) *Store[T] {
	return &Store[T]{svc: svc, desc: desc, notify: notify}
}

// Descriptor returns the entity descriptor.
func (s *Store[T]) Descriptor() Descriptor {
	return s.desc
}

// Load replaces the collection with every record (all states).
// On failure the previous collection is kept.
func (s *Store[T]) Load(ctx context.Context) bool {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.setLoading(true)
	defer s.setLoading(false)

	items, err := s.svc.List(ctx, filter.All)
	if err != nil {
		s.notify.Error(s.desc.LoadFailed(), err)
		return false
	}

	cloned := make([]T, len(items))
	for i, e := range items {
		cloned[i] = e.Clone()
	}

	s.mu.Lock()
	s.items = cloned
	s.mu.Unlock()
	return true
}

// Save updates draft when it has an id and creates it otherwise.
//
// Only 201 counts as a successful create. A collision with a retired record
// is captured as a pending Reactivation (see ConfirmReactivation).
func (s *Store[T]) Save(ctx context.Context, draft T) bool {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.setLoading(true)
	defer s.setLoading(false)

	s.mu.Lock()
	s.conflict = nil
	s.mu.Unlock()

	if id := draft.EntityID(); id != "" {
		updated, err := s.svc.Update(ctx, id, draft.Mutable())
		if err != nil {
			s.handleSaveError(err, draft)
			return false
		}
		s.mu.Lock()
		s.upsert(updated)
		s.selected = nil
		s.mu.Unlock()
		s.notify.Success(s.desc.Updated(), fmt.Sprintf("Código: %s", updated.Code()))
		return true
	}

	created, status, err := s.svc.Create(ctx, draft)
	if err != nil {
		s.handleSaveError(err, draft)
		return false
	}
	if status != http.StatusCreated {
		s.notify.Warn("Creación no confirmada",
			fmt.Sprintf("El servidor respondió %d al crear %s.", status, s.desc.withArticle()))
		return false
	}

	s.mu.Lock()
	s.items = append(s.items, created.Clone())
	s.selected = nil
	s.mu.Unlock()
	s.notify.Success(s.desc.Created(), fmt.Sprintf("Código: %s", created.Code()))
	return true
}

func (s *Store[T]) handleSaveError(err error, draft T) {
	c, ok := DecodeConflict(err)
	if !ok {
		s.notify.Error(s.desc.SaveFailed(), err)
		return
	}

	switch c.Kind {
	case ConflictDuplicateRetired:
		s.mu.Lock()
		s.conflict = &Reactivation[T]{InactiveID: c.InactiveID, Pending: draft.Clone()}
		s.mu.Unlock()
	case ConflictDuplicateActive:
		field := c.Field
		if field == "" {
			field = "código"
		}
		s.notify.Warn("Conflicto", fmt.Sprintf("El %s '%s' ya está en uso activo.", field, draft.Code()))
	case ConflictHasActiveChildren:
		s.notify.Warn("Bloqueo de Baja", c.Message)
	default:
		s.notify.Error(s.desc.SaveFailed(), err)
	}
}

// ConfirmReactivation reactivates the retired record behind the pending
// conflict, applying the draft's mutable fields. The conflict is cleared
// whatever the outcome.
func (s *Store[T]) ConfirmReactivation(ctx context.Context) bool {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.Lock()
	c := s.conflict
	s.conflict = nil
	s.mu.Unlock()

	if c == nil || c.InactiveID == "" {
		s.notify.Error("Error", "No se encontró ID para reactivar.")
		return false
	}

	s.setLoading(true)
	defer s.setLoading(false)

	patch := c.Pending.Mutable().With(entity.FieldRetired, false)
	updated, err := s.svc.Update(ctx, c.InactiveID, patch)
	if err != nil {
		s.notify.Error(s.desc.ReactivateFailed(), err)
		return false
	}

	s.mu.Lock()
	s.upsert(updated)
	s.selected = nil
	s.mu.Unlock()
	s.notify.Success(s.desc.Reactivated(),
		fmt.Sprintf("%s (Código: %s)", s.desc.Reactivated(), updated.Code()))
	return true
}

// CancelReactivation drops the pending conflict and the selection.
func (s *Store[T]) CancelReactivation() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conflict = nil
	s.selected = nil
}

// ToggleRetired flips the soft-delete flag of e through a partial update.
func (s *Store[T]) ToggleRetired(ctx context.Context, e T) bool {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.setLoading(true)
	defer s.setLoading(false)

	retire := !e.IsRetired()
	updated, err := s.svc.Update(ctx, e.EntityID(), entity.Patch{entity.FieldRetired: retire})
	if err != nil {
		s.handleStateError(err, "Error al cambiar estado")
		return false
	}

	s.mu.Lock()
	s.upsert(updated)
	s.mu.Unlock()

	if retire {
		s.notify.Success(s.desc.RetiredTitle(), fmt.Sprintf("Código: %s", updated.Code()))
	} else {
		s.notify.Success(s.desc.Reactivated(), fmt.Sprintf("Código: %s", updated.Code()))
	}
	return true
}

// Retire soft-deletes the record through the DELETE endpoint and marks the
// local entry retired.
func (s *Store[T]) Retire(ctx context.Context, id string) bool {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.setLoading(true)
	defer s.setLoading(false)

	if err := s.svc.Retire(ctx, id); err != nil {
		s.handleStateError(err, s.desc.RetireFailed())
		return false
	}

	s.mu.Lock()
	for i := range s.items {
		if s.items[i].EntityID() == id {
			s.items[i] = s.items[i].WithRetired(true)
		}
	}
	s.mu.Unlock()

	s.notify.Success(s.desc.RetiredTitle(), "")
	return true
}

func (s *Store[T]) handleStateError(err error, title string) {
	if c, ok := DecodeConflict(err); ok && c.Kind == ConflictHasActiveChildren {
		s.notify.Warn("Bloqueo de Baja", c.Message)
		return
	}
	s.notify.Error(title, err)
}

// Select puts a copy of e in the editor.
func (s *Store[T]) Select(e T) {
	c := e.Clone()
	s.mu.Lock()
	s.selected = &c
	s.mu.Unlock()
}

// SelectForClone puts a new draft based on e in the editor: id and code are
// cleared and the draft is active.
func (s *Store[T]) SelectForClone(e T) {
	c := entity.CloneDraft(e)
	s.mu.Lock()
	s.selected = &c
	s.mu.Unlock()
}

// ClearSelection empties the editor.
func (s *Store[T]) ClearSelection() {
	s.mu.Lock()
	s.selected = nil
	s.mu.Unlock()
}

// Items returns a copy of the whole collection in server order.
func (s *Store[T]) Items() []T {
	return s.filtered(func(T) bool { return true })
}

// Active returns the records that are not retired.
func (s *Store[T]) Active() []T {
	return s.filtered(func(e T) bool { return !e.IsRetired() })
}

// Retired returns the soft-deleted records.
func (s *Store[T]) Retired() []T {
	return s.filtered(func(e T) bool { return e.IsRetired() })
}

// Find returns a copy of the record with the given id.
func (s *Store[T]) Find(id string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.items {
		if e.EntityID() == id {
			return e.Clone(), true
		}
	}
	var zero T
	return zero, false
}

// Selected returns the record in the editor, if any.
func (s *Store[T]) Selected() (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected == nil {
		var zero T
		return zero, false
	}
	return (*s.selected).Clone(), true
}

// Conflict returns the pending reactivation offer, if any.
func (s *Store[T]) Conflict() (Reactivation[T], bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.conflict == nil {
		return Reactivation[T]{}, false
	}
	return Reactivation[T]{InactiveID: s.conflict.InactiveID, Pending: s.conflict.Pending.Clone()}, true
}

// IsLoading reports whether a request of any store operation is in flight.
func (s *Store[T]) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *Store[T]) filtered(keep func(T) bool) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, 0, len(s.items))
	for _, e := range s.items {
		if keep(e) {
			out = append(out, e.Clone())
		}
	}
	return out
}

func (s *Store[T]) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

// upsert replaces the entry with e's id or appends it. Callers hold mu.
func (s *Store[T]) upsert(e T) {
	for i := range s.items {
		if s.items[i].EntityID() == e.EntityID() {
			s.items[i] = e.Clone()
			return
		}
	}
	s.items = append(s.items, e.Clone())
}
