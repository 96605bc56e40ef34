package taxcondition

import (
	"context"

	"backoffice/internal/core/apperror"
	"backoffice/internal/core/tx"
	"backoffice/internal/core/types"
	"backoffice/internal/domain"
	"backoffice/internal/domain/audit"
)

// MsgHasProducts is returned when retiring a condition referenced by active products.
const MsgHasProducts = "No se puede dar de baja la Condición IVA porque tiene Productos activos asociados."

// Service provides business logic for the tax condition catalog.
type Service struct {
	*domain.CatalogService[TaxCondition]
}

// NewService creates a new TaxCondition service. products may be nil.
func NewService(repo Repository, txm tx.Manager, journal audit.Journal, products domain.ActiveCounter) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[TaxCondition]{
		Repo:       repo,
		TxManager:  txm,
		Journal:    journal,
		EntityName: Label,
	})

	if products != nil {
		base.GuardChildren(domain.ChildRef[TaxCondition]{
			Counter: products,
			Field:   "condicion_iva_id",
			Message: MsgHasProducts,
		})
	}
	base.Hooks().OnBeforeCreate(validateRate)
	base.Hooks().OnBeforeUpdate(validateRate)

	return &Service{CatalogService: base}
}

var hundred = types.MustMoney("100")

func validateRate(_ context.Context, t TaxCondition) error {
	if t.Alicuota.IsNegative() || t.Alicuota.GreaterThan(hundred) {
		return apperror.NewValidation("La alícuota debe estar entre 0 y 100").
			WithDetail("field", FieldRate)
	}
	return nil
}
