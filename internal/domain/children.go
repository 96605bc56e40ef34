package domain

import (
	"context"
	"fmt"

	"backoffice/internal/core/apperror"
	"backoffice/internal/core/entity"
)

// ChildRef describes a dependent catalog that must not be orphaned:
// records of Counter whose Field equals Value(parent) block the parent's retirement.
type ChildRef[T entity.Entity[T]] struct {
	Counter ActiveCounter
	Field   string
	Value   func(parent T) any
	Message string
}

// GuardChildren registers a before-retire hook per reference. The first
// reference with active dependents aborts the retirement with a 409.
func (s *CatalogService[T]) GuardChildren(refs ...ChildRef[T]) {
	for _, ref := range refs {
		ref := ref
		s.hooks.OnBeforeRetire(func(ctx context.Context, parent T) error {
			var key any = parent.EntityID()
			if ref.Value != nil {
				key = ref.Value(parent)
			}
			n, err := ref.Counter.CountActive(ctx, ref.Field, key)
			if err != nil {
				return fmt.Errorf("count active %s: %w", ref.Field, err)
			}
			if n > 0 {
				return apperror.NewHasActiveChildren(ref.Message).WithDetail("count", n)
			}
			return nil
		})
	}
}
