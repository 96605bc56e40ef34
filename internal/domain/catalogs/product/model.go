// Package product provides the Product catalog.
//
// A product carries prices (held at 4 decimal places), logistics units,
// per-warehouse stock and an optional kit composition. It references a unit
// of measure by code and, optionally, a tax condition and a sub-rubro by id.
package product

import (
	"slices"

	"backoffice/internal/core/entity"
	"backoffice/internal/core/types"
)

const (
	Path     = "/productos"
	Label    = "Producto"
	Plural   = "Productos"
	Feminine = false

	FieldCode          = "sku"
	FieldUnit          = "unidad_medida"
	FieldTaxCondition  = "condicion_iva_id"
	FieldSubRubro      = "subrubro_id"
	FieldKitComponents = "componentes_kit"
)

// MinimumPackage describes the smallest sellable package.
type MinimumPackage struct {
	Descripcion string         `json:"descripcion" validate:"required"`
	Unidades    types.Quantity `json:"unidades"`
}

// WarehouseStock is the on-hand quantity in one warehouse.
type WarehouseStock struct {
	DepositoID string         `json:"deposito_id" validate:"required"`
	StockReal  types.Quantity `json:"stock_real"`
}

// KitComponent is one line of a kit.
type KitComponent struct {
	ProductoID string         `json:"producto_id" validate:"required"`
	Cantidad   types.Quantity `json:"cantidad"`
}

// Product represents a sellable item.
type Product struct {
	entity.Record

	// Identification
	SKU           string  `db:"sku" json:"sku" validate:"required,max=8"`
	Nombre        string  `db:"nombre" json:"nombre" validate:"required,max=30"`
	CodigoBAS     *string `db:"codigo_bas" json:"codigo_bas,omitempty" validate:"omitempty,max=8"`
	Observaciones *string `db:"observaciones" json:"observaciones,omitempty" validate:"omitempty,max=60"`

	// Prices
	PrecioCosto     types.Money `db:"precio_costo" json:"precio_costo"`
	MonedaCosto     string      `db:"moneda_costo" json:"moneda_costo" validate:"required"`
	PrecioBaseVenta types.Money `db:"precio_base_venta" json:"precio_base_venta"`

	// Logistics
	UnidadMedida        string         `db:"unidad_medida" json:"unidad_medida" validate:"required"`
	UnidadMinimaPedido  types.Quantity `db:"unidad_minima_pedido" json:"unidad_minima_pedido"`
	UnidadMinimaEmpaque MinimumPackage `db:"unidad_minima_empaque" json:"unidad_minima_empaque"`

	// Stock
	StockMinimoPedido types.Quantity   `db:"stock_minimo_pedido" json:"stock_minimo_pedido"`
	StockDepositos    []WarehouseStock `db:"stock_depositos" json:"stock_depositos" validate:"dive"`
	StockComprometido types.Quantity   `db:"stock_comprometido" json:"stock_comprometido"`
	StockEntrante     types.Quantity   `db:"stock_entrante" json:"stock_entrante"`

	// Kits
	EsKit          bool           `db:"es_kit" json:"es_kit"`
	ComponentesKit []KitComponent `db:"componentes_kit" json:"componentes_kit" validate:"dive"`

	// References
	CondicionIVAID *string `db:"condicion_iva_id" json:"condicion_iva_id,omitempty"`
	SubRubroID     *string `db:"subrubro_id" json:"subrubro_id,omitempty"`
}

var _ entity.Entity[Product] = Product{}

func (p Product) Code() string      { return p.SKU }
func (p Product) CodeField() string { return FieldCode }

// Mutable implements entity.Entity. Products accept a new SKU on update.
func (p Product) Mutable() entity.Patch {
	c := p.Clone()
	return entity.Patch{
		FieldCode:               c.SKU,
		"nombre":                c.Nombre,
		"codigo_bas":            c.CodigoBAS,
		"observaciones":         c.Observaciones,
		"precio_costo":          c.PrecioCosto,
		"moneda_costo":          c.MonedaCosto,
		"precio_base_venta":     c.PrecioBaseVenta,
		FieldUnit:               c.UnidadMedida,
		"unidad_minima_pedido":  c.UnidadMinimaPedido,
		"unidad_minima_empaque": c.UnidadMinimaEmpaque,
		"stock_minimo_pedido":   c.StockMinimoPedido,
		"stock_depositos":       c.StockDepositos,
		"stock_comprometido":    c.StockComprometido,
		"stock_entrante":        c.StockEntrante,
		"es_kit":                c.EsKit,
		FieldKitComponents:      c.ComponentesKit,
		FieldTaxCondition:       c.CondicionIVAID,
		FieldSubRubro:           c.SubRubroID,
	}
}

func (p Product) WithID(id string) Product {
	p.ID = id
	return p
}

func (p Product) WithCode(code string) Product {
	p.SKU = code
	return p
}

func (p Product) WithRetired(retired bool) Product {
	p.Retired = retired
	return p
}

// Clone returns a deep copy: slices and optional fields are not shared.
func (p Product) Clone() Product {
	p.CodigoBAS = cloneString(p.CodigoBAS)
	p.Observaciones = cloneString(p.Observaciones)
	p.CondicionIVAID = cloneString(p.CondicionIVAID)
	p.SubRubroID = cloneString(p.SubRubroID)
	p.StockDepositos = slices.Clone(p.StockDepositos)
	p.ComponentesKit = slices.Clone(p.ComponentesKit)
	return p
}

// Normalize rounds prices to 4 decimal places and replaces nil slices so
// they encode as [] rather than null.
func (p Product) Normalize() Product {
	p.PrecioCosto = types.Quantize(p.PrecioCosto)
	p.PrecioBaseVenta = types.Quantize(p.PrecioBaseVenta)
	if p.StockDepositos == nil {
		p.StockDepositos = []WarehouseStock{}
	}
	if p.ComponentesKit == nil {
		p.ComponentesKit = []KitComponent{}
	}
	return p
}

// TotalStock sums the real stock over every warehouse.
func (p Product) TotalStock() types.Quantity {
	var total types.Quantity
	for _, d := range p.StockDepositos {
		total += d.StockReal
	}
	return total
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
