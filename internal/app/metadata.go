package app

import (
	"backoffice/internal/domain/catalogs/product"
	"backoffice/internal/domain/catalogs/rubro"
	"backoffice/internal/domain/catalogs/subrubro"
	"backoffice/internal/domain/catalogs/taxcondition"
	"backoffice/internal/domain/catalogs/unit"
	"backoffice/internal/metadata"
)

// Catalog names as used in URLs and by the admin CLI.
const (
	NameRubros        = "rubros"
	NameSubRubros     = "subrubros"
	NameUnits         = "unidades-medida"
	NameTaxConditions = "condiciones-iva"
	NameProducts      = "productos"
)

// NewMetadataRegistry describes every catalog.
func NewMetadataRegistry() *metadata.Registry {
	reg := metadata.NewRegistry()
	reg.Register(metadata.Inspect[rubro.Rubro](NameRubros, rubro.Plural, rubro.Path))
	reg.Register(metadata.Inspect[subrubro.SubRubro](NameSubRubros, subrubro.Plural, subrubro.Path))
	reg.Register(metadata.Inspect[unit.Unit](NameUnits, unit.Plural, unit.Path))
	reg.Register(metadata.Inspect[taxcondition.TaxCondition](NameTaxConditions, taxcondition.Plural, taxcondition.Path))
	reg.Register(metadata.Inspect[product.Product](NameProducts, product.Plural, product.Path))
	return reg
}
