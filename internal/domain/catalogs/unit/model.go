// Package unit provides the Unit of Measure catalog (unidades de medida).
// Products reference a unit by its code.
package unit

import (
	"backoffice/internal/core/entity"
)

const (
	Path     = "/unidades-medida"
	Label    = "Unidad de Medida"
	Plural   = "Unidades de Medida"
	Feminine = true

	FieldCode = "codigo_unidad"
	FieldName = "nombre"
)

// Unit represents a measurement unit (e.g. KG, UN).
type Unit struct {
	entity.Record

	CodigoUnidad string `db:"codigo_unidad" json:"codigo_unidad" validate:"required,max=4"`
	Nombre       string `db:"nombre" json:"nombre" validate:"required,max=30"`
}

var _ entity.Entity[Unit] = Unit{}

func (u Unit) Code() string      { return u.CodigoUnidad }
func (u Unit) CodeField() string { return FieldCode }

func (u Unit) Mutable() entity.Patch {
	return entity.Patch{FieldName: u.Nombre}
}

func (u Unit) WithID(id string) Unit {
	u.ID = id
	return u
}

func (u Unit) WithCode(code string) Unit {
	u.CodigoUnidad = code
	return u
}

func (u Unit) WithRetired(retired bool) Unit {
	u.Retired = retired
	return u
}

func (u Unit) Clone() Unit { return u }
