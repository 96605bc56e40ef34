package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice/internal/core/apperror"
	"backoffice/internal/core/entity"
	"backoffice/internal/domain"
	"backoffice/internal/domain/audit"
	"backoffice/internal/domain/catalogs/subrubro"
	"backoffice/internal/domain/filter"
)

func sub(id, code string, rubroID *string, retired bool) subrubro.SubRubro {
	return subrubro.SubRubro{
		Record:         entity.Record{ID: id, Retired: retired},
		CodigoSubRubro: code,
		Nombre:         "n" + code,
		RubroID:        rubroID,
	}
}

func ptr(s string) *string { return &s }

func seed(t *testing.T) *Repo[subrubro.SubRubro] {
	t.Helper()
	repo := NewRepo[subrubro.SubRubro](subrubro.Label)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, sub("1", "S1", ptr("r1"), false)))
	require.NoError(t, repo.Create(ctx, sub("2", "S2", ptr("r1"), true)))
	require.NoError(t, repo.Create(ctx, sub("3", "S3", nil, false)))
	require.NoError(t, repo.Create(ctx, sub("4", "S1", ptr("r2"), true)))
	return repo
}

func ids(items []subrubro.SubRubro) []string {
	out := make([]string, len(items))
	for i, e := range items {
		out[i] = e.ID
	}
	return out
}

func TestRepo_ListByState(t *testing.T) {
	repo := seed(t)
	ctx := context.Background()

	tests := []struct {
		state filter.State
		want  []string
	}{
		{filter.Active, []string{"1", "3"}},
		{filter.Retired, []string{"2", "4"}},
		{filter.All, []string{"1", "2", "3", "4"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			got, err := repo.List(ctx, domain.ListFilter{State: tt.state})
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestRepo_ListFilters(t *testing.T) {
	repo := seed(t)
	ctx := context.Background()

	got, err := repo.List(ctx, domain.ListFilter{State: filter.All, Items: []filter.Item{filter.Eq("rubro_id", "r1")}})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, ids(got))

	got, err = repo.List(ctx, domain.ListFilter{State: filter.All, Items: []filter.Item{{Field: "rubro_id", Operator: filter.IsNull}}})
	require.NoError(t, err)
	assert.Equal(t, []string{"3"}, ids(got))

	got, err = repo.List(ctx, domain.ListFilter{State: filter.All, Items: []filter.Item{{Field: "rubro_id", Operator: filter.NotEqual, Value: "r1"}}})
	require.NoError(t, err)
	assert.Equal(t, []string{"3", "4"}, ids(got))
}

func TestRepo_CountActive(t *testing.T) {
	repo := seed(t)

	n, err := repo.CountActive(context.Background(), "rubro_id", "r1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = repo.CountActive(context.Background(), "rubro_id", "r2")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRepo_FindByCodeInInsertionOrder(t *testing.T) {
	repo := seed(t)

	got, err := repo.FindByCode(context.Background(), "S1")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "4"}, ids(got))
}

func TestRepo_CopiesValues(t *testing.T) {
	repo := seed(t)
	ctx := context.Background()

	got, err := repo.GetByID(ctx, "1")
	require.NoError(t, err)
	*got.RubroID = "changed"

	again, err := repo.GetByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "r1", *again.RubroID)
}

func TestRepo_Errors(t *testing.T) {
	repo := seed(t)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, "missing")
	assert.True(t, apperror.IsNotFound(err))
	assert.True(t, apperror.IsNotFound(repo.Update(ctx, sub("missing", "X", nil, false))))
	assert.True(t, apperror.IsNotFound(repo.SetRetired(ctx, "missing", true)))
	assert.Error(t, repo.Create(ctx, sub("1", "Z", nil, false)))
	assert.Equal(t, 4, repo.Len())
}

func TestRepo_SetRetired(t *testing.T) {
	repo := seed(t)
	ctx := context.Background()

	require.NoError(t, repo.SetRetired(ctx, "2", false))
	got, err := repo.GetByID(ctx, "2")
	require.NoError(t, err)
	assert.False(t, got.Retired)
}

func TestJournal_HistoryNewestFirst(t *testing.T) {
	j := NewJournal()
	ctx := context.Background()
	for _, a := range []audit.Action{audit.ActionCreate, audit.ActionUpdate, audit.ActionRetire} {
		require.NoError(t, j.Record(ctx, audit.Entry{EntityType: "Rubro", EntityID: "1", Action: a}))
	}
	require.NoError(t, j.Record(ctx, audit.Entry{EntityType: "Rubro", EntityID: "2", Action: audit.ActionCreate}))

	got, err := j.History(ctx, "Rubro", "1", 0)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, audit.ActionRetire, got[0].Action)

	got, err = j.History(ctx, "Rubro", "1", 2)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestCounter(t *testing.T) {
	c := NewCounter()
	ctx := context.Background()

	n, _ := c.Next(ctx, "rubros")
	assert.Equal(t, int64(1), n)
	require.NoError(t, c.Set(ctx, "rubros", 41))
	n, _ = c.Next(ctx, "rubros")
	assert.Equal(t, int64(42), n)
	n, _ = c.Next(ctx, "otros")
	assert.Equal(t, int64(1), n)
}

func TestTxManager_Nested(t *testing.T) {
	m := NewTxManager()
	calls := 0
	err := m.RunInTransaction(context.Background(), func(ctx context.Context) error {
		return m.RunInTransaction(ctx, func(context.Context) error {
			calls++
			return nil
		})
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, m.RunInTransaction(ctx, func(context.Context) error { return nil }), context.Canceled)
}
