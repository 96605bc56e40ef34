package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice/internal/domain/catalogs/product"
	"backoffice/internal/domain/catalogs/subrubro"
)

func TestInspect_SubRubro(t *testing.T) {
	def := Inspect[subrubro.SubRubro]("subrubros", subrubro.Label, subrubro.Path)

	assert.Equal(t, "codigo_subrubro", def.CodeField)
	assert.Equal(t, "/subrubros", def.Path)

	id, ok := def.Field("id")
	require.True(t, ok)
	assert.True(t, id.ReadOnly)

	code, ok := def.Field("codigo_subrubro")
	require.True(t, ok)
	assert.Equal(t, FieldDef{Name: "codigo_subrubro", Type: TypeString, Required: true, MaxLength: 10}, code)

	parent, ok := def.Field("rubro_id")
	require.True(t, ok)
	assert.Equal(t, TypeReference, parent.Type)
	assert.True(t, parent.Optional)
}

func TestInspect_ProductTypesAndLists(t *testing.T) {
	def := Inspect[product.Product]("productos", product.Label, product.Path)

	price, _ := def.Field("precio_costo")
	assert.Equal(t, TypeMoney, price.Type)
	assert.Equal(t, 4, price.Scale)

	qty, _ := def.Field("stock_comprometido")
	assert.Equal(t, TypeQuantity, qty.Type)

	kit, _ := def.Field("es_kit")
	assert.Equal(t, TypeBoolean, kit.Type)

	pkg, _ := def.Field("unidad_minima_empaque")
	assert.Equal(t, TypeObject, pkg.Type)

	names := make([]string, 0, len(def.Lists))
	for _, l := range def.Lists {
		names = append(names, l.Name)
	}
	assert.Equal(t, []string{"stock_depositos", "componentes_kit"}, names)
	assert.Equal(t, "producto_id", def.Lists[1].Columns[0].Name)
	assert.Equal(t, TypeReference, def.Lists[1].Columns[0].Type)
}

func TestRegistry_KeepsOrder(t *testing.T) {
	reg := NewRegistry()
	reg.Register(EntityDef{Name: "b"})
	reg.Register(EntityDef{Name: "a"})
	reg.Register(EntityDef{Name: "b", Label: "B"})

	list := reg.List()
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].Name)
	assert.Equal(t, "B", list[0].Label)

	_, ok := reg.Get("missing")
	assert.False(t, ok)
}
