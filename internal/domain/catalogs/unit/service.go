package unit

import (
	"backoffice/internal/core/tx"
	"backoffice/internal/domain"
	"backoffice/internal/domain/audit"
)

// MsgHasProducts blocks retiring a unit still used by active products.
const MsgHasProducts = "No se puede dar de baja la Unidad de Medida porque tiene Productos activos asociados."

// Service provides business logic for Unit catalog.
// Uses composition with domain.CatalogService for common CRUD operations.
type Service struct {
	*domain.CatalogService[Unit]
}

// NewService creates a new Unit service. products may be nil.
func NewService(repo Repository, txm tx.Manager, journal audit.Journal, products domain.ActiveCounter) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[Unit]{
		Repo:       repo,
		TxManager:  txm,
		Journal:    journal,
		EntityName: Label,
	})

	// Products reference units by code, not by id.
	if products != nil {
		base.GuardChildren(domain.ChildRef[Unit]{
			Counter: products,
			Field:   "unidad_medida",
			Value:   func(u Unit) any { return u.CodigoUnidad },
			Message: MsgHasProducts,
		})
	}

	return &Service{CatalogService: base}
}
