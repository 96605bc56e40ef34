// Package taxcondition provides the tax condition catalog (condiciones IVA).
package taxcondition

import (
	"backoffice/internal/core/entity"
	"backoffice/internal/core/types"
)

const (
	Path     = "/condiciones-iva"
	Label    = "Condición IVA"
	Plural   = "Condiciones IVA"
	Feminine = true

	FieldCode = "codigo_iva"
	FieldName = "nombre"
	FieldRate = "alicuota"
)

// TaxCondition is a VAT regime with its rate in percent (e.g. 21.00).
type TaxCondition struct {
	entity.Record

	CodigoIVA string      `db:"codigo_iva" json:"codigo_iva" validate:"required,max=4"`
	Nombre    string      `db:"nombre" json:"nombre" validate:"required,max=30"`
	Alicuota  types.Money `db:"alicuota" json:"alicuota"`
}

var _ entity.Entity[TaxCondition] = TaxCondition{}

func (t TaxCondition) Code() string      { return t.CodigoIVA }
func (t TaxCondition) CodeField() string { return FieldCode }

func (t TaxCondition) Mutable() entity.Patch {
	return entity.Patch{
		FieldName: t.Nombre,
		FieldRate: t.Alicuota,
	}
}

func (t TaxCondition) WithID(id string) TaxCondition {
	t.ID = id
	return t
}

func (t TaxCondition) WithCode(code string) TaxCondition {
	t.CodigoIVA = code
	return t
}

func (t TaxCondition) WithRetired(retired bool) TaxCondition {
	t.Retired = retired
	return t
}

func (t TaxCondition) Clone() TaxCondition { return t }

// Normalize rounds the rate to the price scale.
func (t TaxCondition) Normalize() TaxCondition {
	t.Alicuota = types.Quantize(t.Alicuota)
	return t
}
