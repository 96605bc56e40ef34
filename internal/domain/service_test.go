package domain_test

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice/internal/core/apperror"
	"backoffice/internal/core/entity"
	"backoffice/internal/core/types"
	"backoffice/internal/domain"
	"backoffice/internal/domain/audit"
	"backoffice/internal/domain/catalogs/product"
	"backoffice/internal/domain/catalogs/rubro"
	"backoffice/internal/domain/catalogs/subrubro"
	"backoffice/internal/domain/catalogs/taxcondition"
	"backoffice/internal/domain/filter"
	"backoffice/internal/infrastructure/storage/memory"
)

type fixture struct {
	txm      *memory.TxManager
	journal  *memory.Journal
	rubros   *rubro.Service
	subs     *subrubro.Service
	ivas     *taxcondition.Service
	products *product.Service
	subRepo  *memory.Repo[subrubro.SubRubro]
	prodRepo *memory.Repo[product.Product]
}

func newFixture() *fixture {
	f := &fixture{
		txm:      memory.NewTxManager(),
		journal:  memory.NewJournal(),
		subRepo:  memory.NewRepo[subrubro.SubRubro](subrubro.Label),
		prodRepo: memory.NewRepo[product.Product](product.Label),
	}
	counter := memory.NewCounter()

	f.rubros = rubro.NewService(rubro.Deps{
		Repo:      memory.NewRepo[rubro.Rubro](rubro.Label),
		TxManager: f.txm,
		Counter:   counter,
		Journal:   f.journal,
		SubRubros: f.subRepo,
	})
	f.subs = subrubro.NewService(subrubro.Deps{
		Repo:      f.subRepo,
		TxManager: f.txm,
		Counter:   counter,
		Journal:   f.journal,
		Products:  f.prodRepo,
		Rubros:    f.rubros,
	})
	f.ivas = taxcondition.NewService(memory.NewRepo[taxcondition.TaxCondition](taxcondition.Label), f.txm, f.journal, f.prodRepo)
	f.products = product.NewService(product.Deps{
		Repo:          f.prodRepo,
		TxManager:     f.txm,
		Journal:       f.journal,
		TaxConditions: f.ivas,
		SubRubros:     f.subs,
	})
	return f
}

func newProduct(sku string) product.Product {
	return product.Product{
		SKU:                 sku,
		Nombre:              "Producto " + sku,
		PrecioCosto:         types.MustMoney("10.123456"),
		MonedaCosto:         "ARS",
		PrecioBaseVenta:     types.MustMoney("15"),
		UnidadMedida:        "UN",
		UnidadMinimaEmpaque: product.MinimumPackage{Descripcion: "Caja", Unidades: types.NewQuantityFromFloat64(12)},
	}
}

func requireCode(t *testing.T, err error, code string, status int) *apperror.AppError {
	t.Helper()
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok, "expected AppError, got %v", err)
	assert.Equal(t, code, appErr.Code)
	assert.Equal(t, status, appErr.HTTPStatus)
	return appErr
}

func TestCreate_AssignsIDAndForcesActive(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	in := rubro.Rubro{Codigo: "A1", Nombre: "Foo"}
	in.ID = "client-supplied"
	in.Retired = true

	got, err := f.rubros.Create(ctx, in)
	require.NoError(t, err)
	assert.NotEmpty(t, got.ID)
	assert.NotEqual(t, "client-supplied", got.ID)
	assert.False(t, got.Retired)

	stored, err := f.rubros.GetByID(ctx, got.ID)
	require.NoError(t, err)
	assert.Equal(t, got, stored)
}

func TestCreate_DuplicateActive(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.rubros.Create(ctx, rubro.Rubro{Codigo: "A1", Nombre: "Foo"})
	require.NoError(t, err)

	_, err = f.rubros.Create(ctx, rubro.Rubro{Codigo: "A1", Nombre: "Bar"})
	appErr := requireCode(t, err, apperror.CodeDuplicateActive, http.StatusConflict)
	assert.Equal(t, "código", appErr.Details[apperror.DetailField])
}

func TestCreate_DuplicateRetiredCarriesInactiveID(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	old, err := f.rubros.Create(ctx, rubro.Rubro{Codigo: "A1", Nombre: "Foo"})
	require.NoError(t, err)
	require.NoError(t, f.rubros.Retire(ctx, old.ID))

	_, err = f.rubros.Create(ctx, rubro.Rubro{Codigo: "A1", Nombre: "Baz"})
	appErr := requireCode(t, err, apperror.CodeDuplicateRetired, http.StatusConflict)
	assert.Equal(t, old.ID, appErr.Details[apperror.DetailInactiveID])
}

func TestCreate_Validation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	tests := []struct {
		name  string
		in    rubro.Rubro
		field string
	}{
		{"code too long", rubro.Rubro{Codigo: "ABCD", Nombre: "x"}, "codigo"},
		{"missing name", rubro.Rubro{Codigo: "A"}, "nombre"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.rubros.Create(ctx, tt.in)
			appErr := requireCode(t, err, apperror.CodeValidation, http.StatusBadRequest)
			assert.Contains(t, appErr.Details, tt.field)
		})
	}
}

func TestUpdate_IgnoresUnknownFieldsAndRejectsEmpty(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	r, err := f.rubros.Create(ctx, rubro.Rubro{Codigo: "A1", Nombre: "Foo"})
	require.NoError(t, err)

	_, err = f.rubros.Update(ctx, r.ID, entity.Patch{})
	requireCode(t, err, apperror.CodeValidation, http.StatusBadRequest)

	// codigo is not part of the rubro update model
	_, err = f.rubros.Update(ctx, r.ID, entity.Patch{"codigo": "Z9", "id": "other"})
	requireCode(t, err, apperror.CodeValidation, http.StatusBadRequest)

	got, err := f.rubros.Update(ctx, r.ID, entity.Patch{"nombre": "Nuevo", "codigo": "Z9"})
	require.NoError(t, err)
	assert.Equal(t, "Nuevo", got.Nombre)
	assert.Equal(t, "A1", got.Codigo)
	assert.Equal(t, r.ID, got.ID)
}

func TestUpdate_NotFound(t *testing.T) {
	f := newFixture()
	_, err := f.rubros.Update(context.Background(), "missing", entity.Patch{"nombre": "x"})
	appErr := requireCode(t, err, apperror.CodeNotFound, http.StatusNotFound)
	assert.Equal(t, "Rubro no encontrado", appErr.Message)
}

func TestUpdate_ReactivationKeepsActiveCodeUnique(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	old, err := f.rubros.Create(ctx, rubro.Rubro{Codigo: "A1", Nombre: "Old"})
	require.NoError(t, err)
	require.NoError(t, f.rubros.Retire(ctx, old.ID))

	// The retired record does not block a fresh create of another code.
	_, err = f.rubros.Create(ctx, rubro.Rubro{Codigo: "B2", Nombre: "Other"})
	require.NoError(t, err)

	got, err := f.rubros.Update(ctx, old.ID, entity.Patch{"nombre": "Baz", entity.FieldRetired: false})
	require.NoError(t, err)
	assert.False(t, got.Retired)
	assert.Equal(t, "Baz", got.Nombre)
}

func TestUpdate_CodeChangeConflicts(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.subs.Create(ctx, subrubro.SubRubro{CodigoSubRubro: "S1", Nombre: "Uno"})
	require.NoError(t, err)
	second, err := f.subs.Create(ctx, subrubro.SubRubro{CodigoSubRubro: "S2", Nombre: "Dos"})
	require.NoError(t, err)

	_, err = f.subs.Update(ctx, second.ID, entity.Patch{"codigo_subrubro": "S1"})
	requireCode(t, err, apperror.CodeDuplicateActive, http.StatusConflict)
}

func TestRetire_BlockedByActiveChildren(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	iva, err := f.ivas.Create(ctx, taxcondition.TaxCondition{CodigoIVA: "GRA", Nombre: "Gravado", Alicuota: types.MustMoney("21")})
	require.NoError(t, err)

	p := newProduct("P1")
	p.CondicionIVAID = &iva.ID
	created, err := f.products.Create(ctx, p)
	require.NoError(t, err)

	err = f.ivas.Retire(ctx, iva.ID)
	appErr := requireCode(t, err, apperror.CodeHasActiveChildren, http.StatusConflict)
	assert.Equal(t, taxcondition.MsgHasProducts, appErr.Details[apperror.DetailMessage])

	// Same rule through a retiring patch.
	_, err = f.ivas.Update(ctx, iva.ID, entity.Patch{entity.FieldRetired: true})
	requireCode(t, err, apperror.CodeHasActiveChildren, http.StatusConflict)

	// Once the product is retired the condition can go.
	require.NoError(t, f.products.Retire(ctx, created.ID))
	require.NoError(t, f.ivas.Retire(ctx, iva.ID))
}

func TestRetire_AlreadyRetired(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	r, err := f.rubros.Create(ctx, rubro.Rubro{Codigo: "A1", Nombre: "Foo"})
	require.NoError(t, err)
	require.NoError(t, f.rubros.Retire(ctx, r.ID))

	err = f.rubros.Retire(ctx, r.ID)
	requireCode(t, err, apperror.CodeAlreadyRetired, http.StatusBadRequest)
}

func TestList_FiltersByState(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	a, err := f.rubros.Create(ctx, rubro.Rubro{Codigo: "A", Nombre: "A"})
	require.NoError(t, err)
	_, err = f.rubros.Create(ctx, rubro.Rubro{Codigo: "B", Nombre: "B"})
	require.NoError(t, err)
	require.NoError(t, f.rubros.Retire(ctx, a.ID))

	tests := []struct {
		state filter.State
		want  []string
	}{
		{filter.Active, []string{"B"}},
		{filter.Retired, []string{"A"}},
		{filter.All, []string{"A", "B"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			items, err := f.rubros.List(ctx, domain.ListFilter{State: tt.state})
			require.NoError(t, err)
			codes := make([]string, 0, len(items))
			for _, it := range items {
				codes = append(codes, it.Codigo)
			}
			assert.Equal(t, tt.want, codes)
		})
	}
}

func TestNextCode(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	n, err := f.rubros.NextCode(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = f.rubros.NextCode(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	// Sub-rubros count independently.
	n, err = f.subs.NextCode(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = f.ivas.NextCode(ctx)
	requireCode(t, err, apperror.CodeNotFound, http.StatusNotFound)
}

func TestHistory_RecordsLifecycle(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	r, err := f.rubros.Create(ctx, rubro.Rubro{Codigo: "A1", Nombre: "Foo"})
	require.NoError(t, err)
	_, err = f.rubros.Update(ctx, r.ID, entity.Patch{"nombre": "Bar"})
	require.NoError(t, err)
	require.NoError(t, f.rubros.Retire(ctx, r.ID))
	_, err = f.rubros.Update(ctx, r.ID, entity.Patch{entity.FieldRetired: false})
	require.NoError(t, err)

	entries, err := f.rubros.History(ctx, r.ID, 0)
	require.NoError(t, err)
	require.Len(t, entries, 4)

	actions := []audit.Action{entries[0].Action, entries[1].Action, entries[2].Action, entries[3].Action}
	assert.Equal(t, []audit.Action{audit.ActionReactivate, audit.ActionRetire, audit.ActionUpdate, audit.ActionCreate}, actions)

	var diff map[string]map[string]any
	require.NoError(t, json.Unmarshal(entries[2].Changes, &diff))
	assert.Equal(t, "Foo", diff["nombre"]["old"])
	assert.Equal(t, "Bar", diff["nombre"]["new"])
}

func TestProduct_NormalizesPricesAndChecksReferences(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	got, err := f.products.Create(ctx, newProduct("P1"))
	require.NoError(t, err)
	assert.Equal(t, "10.1235", got.PrecioCosto.StringFixed(4))
	assert.NotNil(t, got.StockDepositos)

	missing := "nope"
	p := newProduct("P2")
	p.SubRubroID = &missing
	_, err = f.products.Create(ctx, p)
	appErr := requireCode(t, err, apperror.CodeValidation, http.StatusBadRequest)
	assert.Equal(t, product.FieldSubRubro, appErr.Details["field"])

	kit := newProduct("P3")
	kit.ComponentesKit = []product.KitComponent{{ProductoID: got.ID, Cantidad: types.NewQuantityFromFloat64(1)}}
	_, err = f.products.Create(ctx, kit)
	requireCode(t, err, apperror.CodeValidation, http.StatusBadRequest)

	kit.EsKit = true
	_, err = f.products.Create(ctx, kit)
	require.NoError(t, err)
}

func TestCreate_ConcurrentSameCodeKeepsOneActive(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	const workers = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.rubros.Create(ctx, rubro.Rubro{Codigo: "A1", Nombre: "Foo"}); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	active, err := f.rubros.List(ctx, domain.DefaultListFilter())
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

// readOnlyTx records which calls ran in a read-only transaction.
type readOnlyTx struct {
	*memory.TxManager
	mu       sync.Mutex
	readOnly int
}

type readOnlyKey struct{}

func (m *readOnlyTx) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(readOnlyKey{}) != nil {
		return fn(ctx)
	}
	m.mu.Lock()
	m.readOnly++
	m.mu.Unlock()
	return fn(context.WithValue(ctx, readOnlyKey{}, true))
}

func (m *readOnlyTx) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.readOnly
}

func TestReads_UseReadOnlyTransactions(t *testing.T) {
	ctx := context.Background()
	txm := &readOnlyTx{TxManager: memory.NewTxManager()}
	svc := rubro.NewService(rubro.Deps{
		Repo:      memory.NewRepo[rubro.Rubro](rubro.Label),
		TxManager: txm,
		Journal:   memory.NewJournal(),
	})

	created, err := svc.Create(ctx, rubro.Rubro{Codigo: "A1", Nombre: "Foo"})
	require.NoError(t, err)
	assert.Zero(t, txm.count(), "writes use read-write transactions")

	_, err = svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, txm.count())

	_, err = svc.List(ctx, domain.DefaultListFilter())
	require.NoError(t, err)
	assert.Equal(t, 2, txm.count())

	// history and its existence check share one transaction
	entries, err := svc.History(ctx, created.ID, 10)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, 3, txm.count())

	_, err = svc.GetByID(ctx, "missing")
	assert.True(t, apperror.IsNotFound(err))
}
