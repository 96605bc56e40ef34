package rubro

import (
	"backoffice/internal/core/numerator"
	"backoffice/internal/core/tx"
	"backoffice/internal/domain"
	"backoffice/internal/domain/audit"
)

// MsgHasSubRubros blocks retiring a rubro that still groups active sub-rubros.
const MsgHasSubRubros = "No se puede dar de baja el Rubro porque tiene Sub-Rubros activos asociados."

// Service provides business logic for the Rubro catalog.
type Service struct {
	*domain.CatalogService[Rubro]
}

// Deps bundles the collaborators of the service.
type Deps struct {
	Repo      Repository
	TxManager tx.Manager
	Counter   numerator.Counter
	Journal   audit.Journal

	// SubRubros counts active sub-rubros by rubro_id
	SubRubros domain.ActiveCounter
}

// NewService creates a new Rubro service.
func NewService(d Deps) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[Rubro]{
		Repo:       d.Repo,
		TxManager:  d.TxManager,
		Counter:    d.Counter,
		Journal:    d.Journal,
		EntityName: Label,
		CounterKey: CounterKey,
	})

	if d.SubRubros != nil {
		base.GuardChildren(domain.ChildRef[Rubro]{
			Counter: d.SubRubros,
			Field:   "rubro_id",
			Message: MsgHasSubRubros,
		})
	}

	return &Service{CatalogService: base}
}
