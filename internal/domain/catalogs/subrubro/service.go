package subrubro

import (
	"context"

	"backoffice/internal/core/apperror"
	"backoffice/internal/core/numerator"
	"backoffice/internal/core/tx"
	"backoffice/internal/domain"
	"backoffice/internal/domain/audit"
)

// MsgHasProducts blocks retiring a sub-rubro that classifies active products.
const MsgHasProducts = "No se puede dar de baja el Sub-Rubro porque tiene Productos activos asociados."

// Service provides business logic for the SubRubro catalog.
type Service struct {
	*domain.CatalogService[SubRubro]
	rubros RubroLookup
}

// RubroLookup resolves the parent rubro of a sub-rubro.
type RubroLookup interface {
	IsActive(ctx context.Context, id string) (bool, error)
}

// Deps bundles the collaborators of the service.
type Deps struct {
	Repo      Repository
	TxManager tx.Manager
	Counter   numerator.Counter
	Journal   audit.Journal

	// Products counts active products by subrubro_id
	Products domain.ActiveCounter

	// Rubros is optional; when set the parent must exist and be active
	Rubros RubroLookup
}

// NewService creates a new SubRubro service.
func NewService(d Deps) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[SubRubro]{
		Repo:       d.Repo,
		TxManager:  d.TxManager,
		Counter:    d.Counter,
		Journal:    d.Journal,
		EntityName: Label,
		CounterKey: CounterKey,
	})

	svc := &Service{CatalogService: base, rubros: d.Rubros}

	if d.Products != nil {
		base.GuardChildren(domain.ChildRef[SubRubro]{
			Counter: d.Products,
			Field:   "subrubro_id",
			Message: MsgHasProducts,
		})
	}
	base.Hooks().OnBeforeCreate(svc.checkParent)
	base.Hooks().OnBeforeUpdate(svc.checkParent)

	return svc
}

// checkParent rejects references to unknown or retired rubros.
func (s *Service) checkParent(ctx context.Context, sr SubRubro) error {
	if s.rubros == nil || sr.RubroID == nil || *sr.RubroID == "" || sr.IsRetired() {
		return nil
	}
	ok, err := s.rubros.IsActive(ctx, *sr.RubroID)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.NewValidation("El Rubro indicado no existe o está dado de baja").
			WithDetail("field", FieldRubroID)
	}
	return nil
}
