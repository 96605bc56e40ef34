package catalog_repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice/internal/core/apperror"
	"backoffice/internal/core/entity"
	"backoffice/internal/domain"
	"backoffice/internal/domain/catalogs/rubro"
	"backoffice/internal/domain/catalogs/subrubro"
	"backoffice/internal/domain/filter"
)

func newSubRubroRepo() *Repo[subrubro.SubRubro] {
	return NewRepo[subrubro.SubRubro](nil, "cat_subrubros", subrubro.Label)
}

func TestListQuery_States(t *testing.T) {
	repo := newSubRubroRepo()
	base := "SELECT id, baja_logica, codigo_subrubro, nombre, rubro_id FROM cat_subrubros"

	tests := []struct {
		name     string
		state    filter.State
		wantSQL  string
		wantArgs []any
	}{
		{"active", filter.Active, base + " WHERE baja_logica = $1 ORDER BY seq", []any{false}},
		{"retired", filter.Retired, base + " WHERE baja_logica = $1 ORDER BY seq", []any{true}},
		{"all", filter.All, base + " ORDER BY seq", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := repo.listQuery(domain.ListFilter{State: tt.state})
			require.NoError(t, err)

			sql, args, err := q.ToSql()
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, sql)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestListQuery_Items(t *testing.T) {
	repo := newSubRubroRepo()

	q, err := repo.listQuery(domain.ListFilter{
		State: filter.Active,
		Items: []filter.Item{filter.Eq("rubro_id", "r1")},
	})
	require.NoError(t, err)

	sql, args, err := q.ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "WHERE baja_logica = $1 AND rubro_id = $2 ORDER BY seq")
	assert.Equal(t, []any{false, "r1"}, args)
}

func TestApplyFilters_Operators(t *testing.T) {
	repo := newSubRubroRepo()

	tests := []struct {
		name    string
		item    filter.Item
		wantSQL string
	}{
		{"null", filter.Item{Field: "rubro_id", Operator: filter.IsNull}, "rubro_id IS NULL"},
		{"not null", filter.Item{Field: "rubro_id", Operator: filter.IsNotNull}, "rubro_id IS NOT NULL"},
		{"neq keeps nulls", filter.Item{Field: "rubro_id", Operator: filter.NotEqual, Value: "r1"}, "(rubro_id <> $1 OR rubro_id IS NULL)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := repo.applyFilters(repo.baseSelect(), []filter.Item{tt.item})
			require.NoError(t, err)

			sql, _, err := q.ToSql()
			require.NoError(t, err)
			assert.Contains(t, sql, "WHERE "+tt.wantSQL)
		})
	}
}

func TestApplyFilters_RejectsUnknownColumn(t *testing.T) {
	repo := newSubRubroRepo()

	_, err := repo.applyFilters(repo.baseSelect(), []filter.Item{filter.Eq("nombre; DROP TABLE x", 1)})

	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestCountActiveQuery(t *testing.T) {
	repo := newSubRubroRepo()

	q, err := repo.countActiveQuery("rubro_id", "r1")
	require.NoError(t, err)

	sql, args, err := q.ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*) FROM cat_subrubros WHERE baja_logica = $1 AND rubro_id = $2", sql)
	assert.Equal(t, []any{false, "r1"}, args)
}

func TestWriteQueries(t *testing.T) {
	repo := NewRepo[rubro.Rubro](nil, "cat_rubros", rubro.Label)
	r := rubro.Rubro{Record: entity.Record{ID: "id-1"}, Codigo: "001", Nombre: "Bebidas"}

	sql, args, err := repo.insertQuery(r).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO cat_rubros (baja_logica,codigo,id,nombre) VALUES ($1,$2,$3,$4)", sql)
	assert.Equal(t, []any{false, "001", "id-1", "Bebidas"}, args)

	sql, args, err = repo.updateQuery(r).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "UPDATE cat_rubros SET baja_logica = $1, codigo = $2, nombre = $3 WHERE id = $4", sql)
	assert.Equal(t, []any{false, "001", "Bebidas", "id-1"}, args)
}

func TestNewRepo_CodeColumn(t *testing.T) {
	assert.Equal(t, "codigo", NewRepo[rubro.Rubro](nil, "cat_rubros", rubro.Label).codeColumn)
	assert.Equal(t, "codigo_subrubro", newSubRubroRepo().codeColumn)
}
