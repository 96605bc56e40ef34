// Package subrubro provides the Sub-Rubro catalog.
// A sub-rubro optionally belongs to a rubro and classifies products.
package subrubro

import (
	"backoffice/internal/core/entity"
)

const (
	Path       = "/subrubros"
	Label      = "Sub-Rubro"
	Plural     = "Sub-Rubros"
	Feminine   = false
	CounterKey = "subrubros"

	FieldCode    = "codigo_subrubro"
	FieldName    = "nombre"
	FieldRubroID = "rubro_id"
)

// SubRubro represents a second-level category.
type SubRubro struct {
	entity.Record

	CodigoSubRubro string  `db:"codigo_subrubro" json:"codigo_subrubro" validate:"required,max=10"`
	Nombre         string  `db:"nombre" json:"nombre" validate:"required,max=50"`
	RubroID        *string `db:"rubro_id" json:"rubro_id,omitempty"`
}

var _ entity.Entity[SubRubro] = SubRubro{}

func (s SubRubro) Code() string      { return s.CodigoSubRubro }
func (s SubRubro) CodeField() string { return FieldCode }

// Mutable implements entity.Entity. Sub-rubros accept a new code on update.
func (s SubRubro) Mutable() entity.Patch {
	p := entity.Patch{
		FieldCode: s.CodigoSubRubro,
		FieldName: s.Nombre,
	}
	if s.RubroID != nil {
		p[FieldRubroID] = *s.RubroID
	} else {
		p[FieldRubroID] = nil
	}
	return p
}

func (s SubRubro) WithID(id string) SubRubro {
	s.ID = id
	return s
}

func (s SubRubro) WithCode(code string) SubRubro {
	s.CodigoSubRubro = code
	return s
}

func (s SubRubro) WithRetired(retired bool) SubRubro {
	s.Retired = retired
	return s
}

func (s SubRubro) Clone() SubRubro {
	if s.RubroID != nil {
		v := *s.RubroID
		s.RubroID = &v
	}
	return s
}
