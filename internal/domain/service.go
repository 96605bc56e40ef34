// Package domain provides core business logic interfaces and types.
package domain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"backoffice/internal/core/apperror"
	"backoffice/internal/core/entity"
	"backoffice/internal/core/id"
	"backoffice/internal/core/numerator"
	"backoffice/internal/core/tx"
	"backoffice/internal/domain/audit"
	"backoffice/pkg/logger"
)

// CatalogService provides the lifecycle rules shared by every catalog:
// code uniqueness among active records, soft delete, reactivation and
// anti-orphan checks on retirement.
type CatalogService[T entity.Entity[T]] struct {
	repo      CatalogRepository[T]
	txManager tx.Manager
	counter   numerator.Counter
	journal   audit.Journal
	validate  *validator.Validate
	hooks     *HookRegistry[T]
	updatable map[string]struct{}

	// entityName for error messages; counterKey for NextCode
	entityName string
	counterKey string
}

// CatalogServiceConfig configures the catalog service.
type CatalogServiceConfig[T entity.Entity[T]] struct {
	Repo       CatalogRepository[T]
	TxManager  tx.Manager
	Counter    numerator.Counter // Optional - catalogs without counters leave it nil
	Journal    audit.Journal     // Optional
	Validator  *validator.Validate
	EntityName string
	CounterKey string
}

// NewCatalogService creates a new catalog service.
func NewCatalogService[T entity.Entity[T]](cfg CatalogServiceConfig[T]) *CatalogService[T] {
	v := cfg.Validator
	if v == nil {
		v = NewValidator()
	}
	return &CatalogService[T]{
		repo:       cfg.Repo,
		txManager:  cfg.TxManager,
		counter:    cfg.Counter,
		journal:    cfg.Journal,
		validate:   v,
		hooks:      NewHookRegistry[T](),
		updatable:  entity.UpdatableFields[T](),
		entityName: cfg.EntityName,
		counterKey: cfg.CounterKey,
	}
}

// Hooks returns the hook registry for external registration.
func (s *CatalogService[T]) Hooks() *HookRegistry[T] {
	return s.hooks
}

// EntityName returns the human label used in messages.
func (s *CatalogService[T]) EntityName() string {
	return s.entityName
}

// HasCounter reports whether NextCode is available.
func (s *CatalogService[T]) HasCounter() bool {
	return s.counter != nil && s.counterKey != ""
}

func (s *CatalogService[T]) normalizeGetErr(err error, entityID string) error {
	if err == nil {
		return nil
	}
	if apperror.IsNotFound(err) {
		return apperror.NewNotFound(s.entityName, entityID)
	}
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewInternal(err).WithDetail("entity", s.entityName).WithDetail("id", entityID)
}

// Create validates and inserts a new record. A code already held by an
// active record yields EXISTE_ACTIVO; one held only by retired records
// yields EXISTE_INACTIVO carrying the id to reactivate.
func (s *CatalogService[T]) Create(ctx context.Context, e T) (T, error) {
	e = normalize(e.WithID(id.New().String()).WithRetired(false))

	if err := ValidateStruct(s.validate, e); err != nil {
		return e, err
	}

	if err := s.hooks.Run(ctx, BeforeCreate, e); err != nil {
		return e, err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.checkCodeForCreate(ctx, e); err != nil {
			return err
		}
		if err := s.repo.Create(ctx, e); err != nil {
			return fmt.Errorf("create %s: %w", s.entityName, err)
		}
		return nil
	})
	if err != nil {
		return e, err
	}

	s.record(ctx, e.EntityID(), audit.ActionCreate, nil, e)
	if err := s.hooks.Run(ctx, AfterCreate, e); err != nil {
		logger.Warn(ctx, "after-create hook failed", "entity", s.entityName, "error", err)
	}

	return e, nil
}

func (s *CatalogService[T]) checkCodeForCreate(ctx context.Context, e T) error {
	existing, err := s.repo.FindByCode(ctx, e.Code())
	if err != nil {
		return fmt.Errorf("find %s by code: %w", s.entityName, err)
	}

	var retired *T
	for i := range existing {
		if !existing[i].IsRetired() {
			return apperror.NewDuplicateActive(s.entityName, "código")
		}
		if retired == nil {
			retired = &existing[i]
		}
	}
	if retired != nil {
		return apperror.NewDuplicateRetired(s.entityName, "código", (*retired).EntityID())
	}
	return nil
}

// checkActiveCode enforces that no other active record holds e's code.
func (s *CatalogService[T]) checkActiveCode(ctx context.Context, e T) error {
	existing, err := s.repo.FindByCode(ctx, e.Code())
	if err != nil {
		return fmt.Errorf("find %s by code: %w", s.entityName, err)
	}
	for _, other := range existing {
		if other.EntityID() != e.EntityID() && !other.IsRetired() {
			return apperror.NewDuplicateActive(s.entityName, "código")
		}
	}
	return nil
}

// GetByID retrieves entity by ID.
func (s *CatalogService[T]) GetByID(ctx context.Context, entityID string) (T, error) {
	var e T
	err := s.readOnly(ctx, func(ctx context.Context) error {
		var err error
		e, err = s.repo.GetByID(ctx, entityID)
		return err
	})
	if err != nil {
		return e, s.normalizeGetErr(err, entityID)
	}
	return e, nil
}

// readOnly runs fn in a read-only transaction when the manager offers one.
// Inside an outer transaction the outer one is reused.
func (s *CatalogService[T]) readOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	if ro, ok := s.txManager.(tx.ReadOnlyManager); ok {
		return ro.ReadOnly(ctx, fn)
	}
	return fn(ctx)
}

// IsActive reports whether the record exists and is not retired.
func (s *CatalogService[T]) IsActive(ctx context.Context, entityID string) (bool, error) {
	e, err := s.repo.GetByID(ctx, entityID)
	if apperror.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return !e.IsRetired(), nil
}

// IsActiveCode reports whether an active record holds code.
func (s *CatalogService[T]) IsActiveCode(ctx context.Context, code string) (bool, error) {
	existing, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return false, err
	}
	for _, e := range existing {
		if !e.IsRetired() {
			return true, nil
		}
	}
	return false, nil
}

// List retrieves entities with filtering.
func (s *CatalogService[T]) List(ctx context.Context, f ListFilter) ([]T, error) {
	var items []T
	err := s.readOnly(ctx, func(ctx context.Context) error {
		var err error
		items, err = s.repo.List(ctx, f)
		return err
	})
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("list %s: %w", s.entityName, err))
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Update applies a partial update. Keys outside the entity's update model are
// ignored. Retiring through a patch runs the same anti-orphan hooks as Retire;
// reactivating or changing the code re-checks active-code uniqueness.
func (s *CatalogService[T]) Update(ctx context.Context, entityID string, patch entity.Patch) (T, error) {
	var zero T

	changes := make(entity.Patch, len(patch))
	for k, v := range patch {
		if _, ok := s.updatable[k]; ok {
			changes[k] = v
		}
	}
	if len(changes) == 0 {
		return zero, apperror.NewValidation("No hay datos para actualizar")
	}

	var before, after T
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.repo.GetByID(ctx, entityID)
		if err != nil {
			return s.normalizeGetErr(err, entityID)
		}
		before = existing

		updated, err := ApplyPatch(existing, changes)
		if err != nil {
			return err
		}
		updated = normalize(updated)
		if err := ValidateStruct(s.validate, updated); err != nil {
			return err
		}

		retiring := !existing.IsRetired() && updated.IsRetired()
		reactivating := existing.IsRetired() && !updated.IsRetired()

		if retiring {
			if err := s.hooks.Run(ctx, BeforeRetire, existing); err != nil {
				return err
			}
		}
		if !updated.IsRetired() && (reactivating || updated.Code() != existing.Code()) {
			if err := s.checkActiveCode(ctx, updated); err != nil {
				return err
			}
		}
		if err := s.hooks.Run(ctx, BeforeUpdate, updated); err != nil {
			return err
		}

		if err := s.repo.Update(ctx, updated); err != nil {
			return fmt.Errorf("update %s: %w", s.entityName, err)
		}
		after = updated
		return nil
	})
	if err != nil {
		return zero, err
	}

	action := audit.ActionUpdate
	switch {
	case !before.IsRetired() && after.IsRetired():
		action = audit.ActionRetire
	case before.IsRetired() && !after.IsRetired():
		action = audit.ActionReactivate
	}
	s.record(ctx, entityID, action, before, after)

	if err := s.hooks.Run(ctx, AfterUpdate, after); err != nil {
		logger.Warn(ctx, "after-update hook failed", "entity", s.entityName, "error", err)
	}

	return after, nil
}

// Retire performs the soft delete behind DELETE. Retiring a record that is
// already retired is a client error.
func (s *CatalogService[T]) Retire(ctx context.Context, entityID string) error {
	var existing T
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		existing, err = s.repo.GetByID(ctx, entityID)
		if err != nil {
			return s.normalizeGetErr(err, entityID)
		}
		if existing.IsRetired() {
			return apperror.NewAlreadyRetired(s.entityName, entityID)
		}

		if err := s.hooks.Run(ctx, BeforeRetire, existing); err != nil {
			return err
		}

		if err := s.repo.SetRetired(ctx, entityID, true); err != nil {
			return fmt.Errorf("retire %s: %w", s.entityName, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.record(ctx, entityID, audit.ActionRetire, existing, existing.WithRetired(true))
	if err := s.hooks.Run(ctx, AfterRetire, existing.WithRetired(true)); err != nil {
		logger.Warn(ctx, "after-retire hook failed", "entity", s.entityName, "error", err)
	}
	return nil
}

// NextCode returns the next value of the catalog's code counter.
func (s *CatalogService[T]) NextCode(ctx context.Context) (int64, error) {
	if !s.HasCounter() {
		return 0, apperror.NewNotFound("Contador de "+s.entityName, s.counterKey)
	}
	n, err := s.counter.Next(ctx, s.counterKey)
	if err != nil {
		return 0, apperror.NewInternal(err).WithDetail("counter", s.counterKey)
	}
	return n, nil
}

// History returns the audit journal for a record, newest first.
func (s *CatalogService[T]) History(ctx context.Context, entityID string, limit int) ([]audit.Entry, error) {
	var entries []audit.Entry
	err := s.readOnly(ctx, func(ctx context.Context) error {
		if _, err := s.GetByID(ctx, entityID); err != nil {
			return err
		}
		if s.journal == nil {
			return nil
		}
		var err error
		if entries, err = s.journal.History(ctx, s.entityName, entityID, limit); err != nil {
			return apperror.NewInternal(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []audit.Entry{}
	}
	return entries, nil
}

// record writes a journal entry. Journal failures never fail the operation.
func (s *CatalogService[T]) record(ctx context.Context, entityID string, action audit.Action, before, after any) {
	if s.journal == nil {
		return
	}

	var oldState map[string]any
	if before != nil {
		oldState = audit.Snapshot(before)
	}
	changes, err := json.Marshal(audit.Diff(oldState, audit.Snapshot(after)))
	if err != nil {
		logger.Warn(ctx, "audit diff failed", "entity", s.entityName, "error", err)
		return
	}

	err = s.journal.Record(ctx, audit.Entry{
		ID:         id.New().String(),
		EntityType: s.entityName,
		EntityID:   entityID,
		Action:     action,
		Changes:    changes,
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		logger.Warn(ctx, "audit record failed", "entity", s.entityName, "id", entityID, "error", err)
	}
}

// Normalizer is implemented by entities that canonicalize values before
// validation (e.g. rounding prices).
type Normalizer[T any] interface {
	Normalize() T
}

func normalize[T entity.Entity[T]](e T) T {
	if n, ok := any(e).(Normalizer[T]); ok {
		return n.Normalize()
	}
	return e
}

// ApplyPatch merges patch over the JSON form of e and decodes the result.
// The identifier of e is preserved whatever the patch contains.
func ApplyPatch[T entity.Entity[T]](e T, patch entity.Patch) (T, error) {
	raw, err := json.Marshal(e)
	if err != nil {
		return e, apperror.NewInternal(fmt.Errorf("marshal entity: %w", err))
	}
	merged := make(map[string]json.RawMessage)
	if err := json.Unmarshal(raw, &merged); err != nil {
		return e, apperror.NewInternal(fmt.Errorf("unmarshal entity: %w", err))
	}
	for k, v := range patch {
		encoded, err := json.Marshal(v)
		if err != nil {
			return e, apperror.NewValidation("valor inválido").WithDetail("field", k)
		}
		merged[k] = encoded
	}

	raw, err = json.Marshal(merged)
	if err != nil {
		return e, apperror.NewInternal(fmt.Errorf("marshal patch: %w", err))
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return e, apperror.NewValidation("tipo de dato inválido").WithDetail("field", typeErr.Field)
		}
		return e, apperror.NewValidation("datos inválidos").WithCause(err)
	}
	return out.WithID(e.EntityID()), nil
}
