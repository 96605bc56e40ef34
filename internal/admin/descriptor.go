// Package admin is the client side of the catalog back office: typed entity
// services over the REST API and the Store lifecycle engine that drives
// create, update, retirement and the reactivation workflow.
package admin

import (
	"fmt"

	"backoffice/internal/domain/catalogs/product"
	"backoffice/internal/domain/catalogs/rubro"
	"backoffice/internal/domain/catalogs/subrubro"
	"backoffice/internal/domain/catalogs/taxcondition"
	"backoffice/internal/domain/catalogs/unit"
)

// Descriptor parameterizes an EntityService and a Store for one entity type.
type Descriptor struct {
	// Label is the singular human name used in messages ("Condición IVA")
	Label string
	// Plural is used when loading ("Condiciones IVA")
	Plural string
	// Feminine selects "creada" over "creado" and "la" over "el"
	Feminine bool
	// Path is the collection path without trailing slash ("/condiciones-iva")
	Path string
	// HasCounter reports whether the backend exposes {Path}/codigo/next
	HasCounter bool
}

var (
	Rubros = Descriptor{
		Label: rubro.Label, Plural: rubro.Plural, Feminine: rubro.Feminine,
		Path: rubro.Path, HasCounter: true,
	}
	SubRubros = Descriptor{
		Label: subrubro.Label, Plural: subrubro.Plural, Feminine: subrubro.Feminine,
		Path: subrubro.Path, HasCounter: true,
	}
	Units = Descriptor{
		Label: unit.Label, Plural: unit.Plural, Feminine: unit.Feminine,
		Path: unit.Path,
	}
	TaxConditions = Descriptor{
		Label: taxcondition.Label, Plural: taxcondition.Plural, Feminine: taxcondition.Feminine,
		Path: taxcondition.Path,
	}
	Products = Descriptor{
		Label: product.Label, Plural: product.Plural, Feminine: product.Feminine,
		Path: product.Path,
	}
)

func (d Descriptor) participle(stem string) string {
	if d.Feminine {
		return fmt.Sprintf("%s %sa", d.Label, stem)
	}
	return fmt.Sprintf("%s %so", d.Label, stem)
}

func (d Descriptor) withArticle() string {
	if d.Feminine {
		return "la " + d.Label
	}
	return "el " + d.Label
}

// Created returns "Rubro creado" / "Condición IVA creada".
func (d Descriptor) Created() string { return d.participle("cread") }

// Updated returns "Rubro actualizado" / "Condición IVA actualizada".
func (d Descriptor) Updated() string { return d.participle("actualizad") }

// Reactivated returns "Rubro reactivado" / "Condición IVA reactivada".
func (d Descriptor) Reactivated() string { return d.participle("reactivad") }

// RetiredTitle returns "Rubro dado de baja" / "Condición IVA dada de baja".
func (d Descriptor) RetiredTitle() string { return d.participle("dad") + " de baja" }

// LoadFailed returns "Error al cargar Rubros".
func (d Descriptor) LoadFailed() string { return "Error al cargar " + d.Plural }

// SaveFailed returns "Error al guardar el Rubro" / "Error al guardar la Condición IVA".
func (d Descriptor) SaveFailed() string { return "Error al guardar " + d.withArticle() }

// ReactivateFailed returns "Error al reactivar el Rubro".
func (d Descriptor) ReactivateFailed() string { return "Error al reactivar " + d.withArticle() }

// RetireFailed returns "Error al dar de baja el Rubro".
func (d Descriptor) RetireFailed() string { return "Error al dar de baja " + d.withArticle() }
