package product

import (
	"context"

	"backoffice/internal/core/apperror"
	"backoffice/internal/core/tx"
	"backoffice/internal/domain"
	"backoffice/internal/domain/audit"
)

// Lookup reports whether a referenced record is usable (exists and is active).
type Lookup interface {
	IsActive(ctx context.Context, key string) (bool, error)
}

// LookupFunc adapts a function to Lookup.
type LookupFunc func(ctx context.Context, key string) (bool, error)

func (f LookupFunc) IsActive(ctx context.Context, key string) (bool, error) { return f(ctx, key) }

// Deps bundles the collaborators of the service. Lookups are optional.
type Deps struct {
	Repo      Repository
	TxManager tx.Manager
	Journal   audit.Journal

	Units         Lookup // by unit code
	TaxConditions Lookup // by id
	SubRubros     Lookup // by id
}

// Service provides business logic for the Product catalog.
type Service struct {
	*domain.CatalogService[Product]
	deps Deps
}

// NewService creates a new Product service.
func NewService(d Deps) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[Product]{
		Repo:       d.Repo,
		TxManager:  d.TxManager,
		Journal:    d.Journal,
		EntityName: Label,
	})

	svc := &Service{CatalogService: base, deps: d}

	base.Hooks().OnBeforeCreate(svc.validate)
	base.Hooks().OnBeforeUpdate(svc.validate)

	return svc
}

// validate enforces kit consistency and, for active products, that every
// reference points to an active record.
func (s *Service) validate(ctx context.Context, p Product) error {
	if !p.EsKit && len(p.ComponentesKit) > 0 {
		return apperror.NewValidation("Solo un kit puede tener componentes").
			WithDetail("field", FieldKitComponents)
	}
	for _, c := range p.ComponentesKit {
		if c.ProductoID == p.ID {
			return apperror.NewValidation("Un kit no puede contenerse a sí mismo").
				WithDetail("field", FieldKitComponents)
		}
		if !c.Cantidad.IsPositive() {
			return apperror.NewValidation("La cantidad de cada componente debe ser positiva").
				WithDetail("field", FieldKitComponents)
		}
	}

	if p.IsRetired() {
		return nil
	}

	if err := checkRef(ctx, s.deps.Units, FieldUnit, &p.UnidadMedida,
		"La Unidad de Medida indicada no existe o está dada de baja"); err != nil {
		return err
	}
	if err := checkRef(ctx, s.deps.TaxConditions, FieldTaxCondition, p.CondicionIVAID,
		"La Condición IVA indicada no existe o está dada de baja"); err != nil {
		return err
	}
	return checkRef(ctx, s.deps.SubRubros, FieldSubRubro, p.SubRubroID,
		"El Sub-Rubro indicado no existe o está dado de baja")
}

func checkRef(ctx context.Context, l Lookup, field string, key *string, message string) error {
	if l == nil || key == nil || *key == "" {
		return nil
	}
	ok, err := l.IsActive(ctx, *key)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.NewValidation(message).
			WithDetail("field", field)
	}
	return nil
}
