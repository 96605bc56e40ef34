package app

import (
	"backoffice/internal/domain/catalogs/product"
	"backoffice/internal/domain/catalogs/rubro"
	"backoffice/internal/domain/catalogs/subrubro"
	"backoffice/internal/domain/catalogs/taxcondition"
	"backoffice/internal/domain/catalogs/unit"
	v1 "backoffice/internal/infrastructure/http/v1"
)

// NewCatalogs builds the catalog services over s and links the references
// between them: parents refuse retirement while active children point at
// them, and children check that their parents exist and are active.
func NewCatalogs(s *Storage) v1.Catalogs {
	rubros := rubro.NewService(rubro.Deps{
		Repo:      s.Rubros,
		TxManager: s.TxManager,
		Counter:   s.Counter,
		Journal:   s.Journal,
		SubRubros: s.SubRubros,
	})

	subs := subrubro.NewService(subrubro.Deps{
		Repo:      s.SubRubros,
		TxManager: s.TxManager,
		Counter:   s.Counter,
		Journal:   s.Journal,
		Products:  s.Products,
		Rubros:    rubros,
	})

	units := unit.NewService(s.Units, s.TxManager, s.Journal, s.Products)
	ivas := taxcondition.NewService(s.TaxConditions, s.TxManager, s.Journal, s.Products)

	products := product.NewService(product.Deps{
		Repo:          s.Products,
		TxManager:     s.TxManager,
		Journal:       s.Journal,
		Units:         product.LookupFunc(units.IsActiveCode),
		TaxConditions: ivas,
		SubRubros:     subs,
	})

	return v1.Catalogs{
		Rubros:        rubros,
		SubRubros:     subs,
		Units:         units,
		TaxConditions: ivas,
		Products:      products,
	}
}
