package product

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"backoffice/internal/core/entity"
	"backoffice/internal/core/types"
)

func strPtr(s string) *string { return &s }

func sample() Product {
	return Product{
		Record:         entity.Record{ID: "p1", Retired: true},
		SKU:            "SKU1",
		Nombre:         "Tornillo",
		CodigoBAS:      strPtr("B1"),
		PrecioCosto:    types.MustMoney("1.23456"),
		StockDepositos: []WarehouseStock{{DepositoID: "D1", StockReal: 10_000}, {DepositoID: "D2", StockReal: 25_000}},
		ComponentesKit: []KitComponent{{ProductoID: "p2", Cantidad: 10_000}},
		SubRubroID:     strPtr("s1"),
	}
}

func TestProduct_CloneIsDeep(t *testing.T) {
	p := sample()
	c := p.Clone()

	c.StockDepositos[0].DepositoID = "X"
	c.ComponentesKit[0].ProductoID = "X"
	*c.CodigoBAS = "X"
	*c.SubRubroID = "X"

	assert.Equal(t, "D1", p.StockDepositos[0].DepositoID)
	assert.Equal(t, "p2", p.ComponentesKit[0].ProductoID)
	assert.Equal(t, "B1", *p.CodigoBAS)
	assert.Equal(t, "s1", *p.SubRubroID)
}

func TestProduct_CloneDraft(t *testing.T) {
	d := entity.CloneDraft(sample())

	assert.Empty(t, d.ID)
	assert.Empty(t, d.SKU)
	assert.False(t, d.Retired)
	assert.Equal(t, "Tornillo", d.Nombre)
	assert.Len(t, d.StockDepositos, 2)
}

func TestProduct_Mutable(t *testing.T) {
	p := sample()
	m := p.Mutable()

	assert.Equal(t, "SKU1", m[FieldCode])
	assert.NotContains(t, m, "id")
	assert.NotContains(t, m, entity.FieldRetired)

	deps := m["stock_depositos"].([]WarehouseStock)
	deps[0].DepositoID = "X"
	assert.Equal(t, "D1", p.StockDepositos[0].DepositoID)
}

func TestProduct_NormalizeAndTotals(t *testing.T) {
	p := sample().Normalize()
	assert.Equal(t, "1.2346", p.PrecioCosto.String())
	assert.Equal(t, types.Quantity(35_000), p.TotalStock())

	empty := Product{}.Normalize()
	assert.NotNil(t, empty.StockDepositos)
	assert.NotNil(t, empty.ComponentesKit)
}
