package app_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice/internal/admin"
	"backoffice/internal/app"
	"backoffice/internal/domain/audit"
	"backoffice/internal/domain/catalogs/rubro"
	"backoffice/internal/domain/catalogs/subrubro"
	"backoffice/internal/domain/filter"
	"backoffice/internal/infrastructure/apiclient"
	v1 "backoffice/internal/infrastructure/http/v1"
	"backoffice/internal/infrastructure/notify"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	storage := app.NewMemoryStorage()
	srv := httptest.NewServer(v1.NewRouter(v1.RouterConfig{
		Catalogs:      app.NewCatalogs(storage),
		Storage:       storage,
		StorageDriver: storage.Driver,
		Metadata:      app.NewMetadataRegistry(),
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newClient(t *testing.T, srv *httptest.Server) *apiclient.Client {
	t.Helper()
	client, err := apiclient.New(apiclient.Config{BaseURL: srv.URL, HTTPClient: srv.Client()})
	require.NoError(t, err)
	return client
}

func TestLifecycle_ReactivationOverHTTP(t *testing.T) {
	ctx := context.Background()
	client := newClient(t, newServer(t))
	rec := notify.NewRecorder()
	svc := admin.NewEntityService[rubro.Rubro](client, admin.Rubros)
	store := admin.NewStore[rubro.Rubro](svc, admin.Rubros, rec)

	require.True(t, store.Save(ctx, rubro.Rubro{Codigo: "A1", Nombre: "Foo"}))
	items := store.Items()
	require.Len(t, items, 1)
	id := items[0].ID
	require.NotEmpty(t, id)

	// duplicate of an active record
	assert.False(t, store.Save(ctx, rubro.Rubro{Codigo: "A1", Nombre: "Bar"}))
	n, _ := rec.Last()
	assert.Equal(t, notify.Notification{Severity: notify.SeverityWarn, Title: "Conflicto",
		Detail: "El código 'A1' ya está en uso activo."}, n)

	require.True(t, store.Retire(ctx, id))
	assert.Len(t, store.Retired(), 1)

	// duplicate of a retired record offers reactivation
	assert.False(t, store.Save(ctx, rubro.Rubro{Codigo: "A1", Nombre: "Baz"}))
	c, ok := store.Conflict()
	require.True(t, ok)
	assert.Equal(t, id, c.InactiveID)

	require.True(t, store.ConfirmReactivation(ctx))
	got, found := store.Find(id)
	require.True(t, found)
	assert.False(t, got.Retired)
	assert.Equal(t, "Baz", got.Nombre)

	// the server agrees
	require.True(t, store.Load(ctx))
	assert.Len(t, store.Active(), 1)
	assert.Empty(t, store.Retired())

	history, err := svc.History(ctx, id, 10)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, audit.ActionReactivate, history[0].Action)
	assert.Equal(t, audit.ActionCreate, history[2].Action)

	limited, err := svc.History(ctx, id, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestLifecycle_RetireBlockedByActiveChildren(t *testing.T) {
	ctx := context.Background()
	client := newClient(t, newServer(t))
	rec := notify.NewRecorder()
	rubros := admin.NewStore[rubro.Rubro](admin.NewEntityService[rubro.Rubro](client, admin.Rubros), admin.Rubros, rec)
	subs := admin.NewStore[subrubro.SubRubro](admin.NewEntityService[subrubro.SubRubro](client, admin.SubRubros), admin.SubRubros, rec)

	require.True(t, rubros.Save(ctx, rubro.Rubro{Codigo: "R1", Nombre: "Bebidas"}))
	parent := rubros.Items()[0]
	require.True(t, subs.Save(ctx, subrubro.SubRubro{CodigoSubRubro: "S1", Nombre: "Gaseosas", RubroID: &parent.ID}))

	assert.False(t, rubros.Retire(ctx, parent.ID))
	n, _ := rec.Last()
	assert.Equal(t, notify.Notification{Severity: notify.SeverityWarn, Title: "Bloqueo de Baja", Detail: rubro.MsgHasSubRubros}, n)

	child := subs.Items()[0]
	require.True(t, subs.ToggleRetired(ctx, child))
	assert.True(t, rubros.Retire(ctx, parent.ID))
}

func TestEntityService_ListByStateAndParent(t *testing.T) {
	ctx := context.Background()
	client := newClient(t, newServer(t))
	rubros := admin.NewEntityService[rubro.Rubro](client, admin.Rubros)
	subs := admin.NewEntityService[subrubro.SubRubro](client, admin.SubRubros)

	r1, status, err := rubros.Create(ctx, rubro.Rubro{Codigo: "R1", Nombre: "Uno"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, status)
	r2, _, err := rubros.Create(ctx, rubro.Rubro{Codigo: "R2", Nombre: "Dos"})
	require.NoError(t, err)
	require.NoError(t, rubros.Retire(ctx, r2.ID))

	active, err := rubros.List(ctx, filter.Active)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "R1", active[0].Codigo)

	retired, err := rubros.List(ctx, filter.Retired)
	require.NoError(t, err)
	require.Len(t, retired, 1)
	assert.Equal(t, "R2", retired[0].Codigo)

	all, err := rubros.List(ctx, filter.All)
	require.NoError(t, err)
	assert.Equal(t, []string{"R1", "R2"}, []string{all[0].Codigo, all[1].Codigo})

	_, _, err = subs.Create(ctx, subrubro.SubRubro{CodigoSubRubro: "S1", Nombre: "a", RubroID: &r1.ID})
	require.NoError(t, err)
	_, _, err = subs.Create(ctx, subrubro.SubRubro{CodigoSubRubro: "S2", Nombre: "b"})
	require.NoError(t, err)

	children, err := subs.ListWhere(ctx, filter.Active, url.Values{subrubro.FieldRubroID: {r1.ID}})
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, "S1", children[0].CodigoSubRubro)

	first, err := rubros.NextCode(ctx)
	require.NoError(t, err)
	second, err := rubros.NextCode(ctx)
	require.NoError(t, err)
	assert.Equal(t, first+1, second)

	_, err = admin.NewEntityService[rubro.Rubro](client, admin.Units).NextCode(ctx)
	assert.Error(t, err)
}

func getJSON(t *testing.T, srv *httptest.Server, method, path, body string) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func TestRouter_WireContract(t *testing.T) {
	srv := newServer(t)

	status, created := getJSON(t, srv, http.MethodPost, "/rubros/", `{"codigo":"A1","nombre":"Foo","baja_logica":true}`)
	require.Equal(t, http.StatusCreated, status)
	id, _ := created["id"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, false, created["baja_logica"], "creates are always active")

	status, body := getJSON(t, srv, http.MethodPost, "/rubros/", `{"codigo":"A1","nombre":"Bar"}`)
	assert.Equal(t, http.StatusConflict, status)
	detail, _ := body["detail"].(map[string]any)
	assert.Equal(t, "EXISTE_ACTIVO", detail["status"])
	assert.Equal(t, "código", detail["campo"])
	assert.NotEmpty(t, detail["message"])

	status, _ = getJSON(t, srv, http.MethodDelete, "/rubros/"+id, "")
	assert.Equal(t, http.StatusNoContent, status)

	status, body = getJSON(t, srv, http.MethodPost, "/rubros", `{"codigo":"A1","nombre":"Bar"}`)
	assert.Equal(t, http.StatusConflict, status)
	detail, _ = body["detail"].(map[string]any)
	assert.Equal(t, "EXISTE_INACTIVO", detail["status"])
	assert.Equal(t, id, detail["id_inactivo"])

	status, body = getJSON(t, srv, http.MethodPatch, "/rubros/"+id, `{"baja_logica":false}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Foo", body["nombre"], "fields absent from the patch are kept")

	status, body = getJSON(t, srv, http.MethodGet, "/rubros/?estado=borrados", "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.IsType(t, "", body["detail"])

	status, body = getJSON(t, srv, http.MethodGet, "/rubros/missing", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.IsType(t, "", body["detail"])

	status, body = getJSON(t, srv, http.MethodGet, "/rubros/codigo/next", "")
	assert.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, body["codigo"])

	status, _ = getJSON(t, srv, http.MethodGet, "/unidades-medida/codigo/next", "")
	assert.Equal(t, http.StatusNotFound, status)

	status, body = getJSON(t, srv, http.MethodGet, "/health/ready", "")
	assert.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, body)
}

func TestRouter_Metadata(t *testing.T) {
	srv := newServer(t)

	status, body := getJSON(t, srv, http.MethodGet, "/meta/rubros", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "rubros", body["name"])
	assert.Equal(t, rubro.Path, body["path"])

	status, _ = getJSON(t, srv, http.MethodGet, "/meta/desconocido", "")
	assert.Equal(t, http.StatusNotFound, status)

	resp, err := srv.Client().Get(srv.URL + "/meta")
	require.NoError(t, err)
	defer resp.Body.Close()
	var defs []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&defs))
	assert.Len(t, defs, 5)
}
