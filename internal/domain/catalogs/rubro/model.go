// Package rubro provides the Rubro catalog (top-level product category).
package rubro

import (
	"backoffice/internal/core/entity"
)

const (
	Path     = "/rubros"
	Label    = "Rubro"
	Plural   = "Rubros"
	Feminine = false

	// CounterKey names the sys_sequences row behind /codigo/next.
	CounterKey = "rubros"

	FieldCode = "codigo"
	FieldName = "nombre"
)

// Rubro groups sub-rubros.
type Rubro struct {
	entity.Record

	Codigo string `db:"codigo" json:"codigo" validate:"required,max=3"`
	Nombre string `db:"nombre" json:"nombre" validate:"required,max=30"`
}

// Compile-time check
var _ entity.Entity[Rubro] = Rubro{}

func (r Rubro) Code() string      { return r.Codigo }
func (r Rubro) CodeField() string { return FieldCode }

// Mutable implements entity.Entity. The code is fixed once created.
func (r Rubro) Mutable() entity.Patch {
	return entity.Patch{FieldName: r.Nombre}
}

func (r Rubro) WithID(id string) Rubro {
	r.ID = id
	return r
}

func (r Rubro) WithCode(code string) Rubro {
	r.Codigo = code
	return r
}

func (r Rubro) WithRetired(retired bool) Rubro {
	r.Retired = retired
	return r
}

func (r Rubro) Clone() Rubro { return r }
