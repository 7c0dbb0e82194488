package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astromechza/tld-buddy/pkg/kv"
)

type brokenKV struct{}

func (brokenKV) Get(context.Context, string) ([]byte, error) { return nil, errors.New("connection reset") }
func (brokenKV) Set(context.Context, string, []byte) error   { return errors.New("connection reset") }
func (brokenKV) Close() error                                { return nil }

type testServer struct {
	*httptest.Server
	registry *prometheus.Registry
	store    kv.Store
	dataDir  string
}

func newTestServer(t *testing.T, password string, store kv.Store) *testServer {
	t.Helper()
	if store == nil {
		store = kv.NewMemory()
	}
	ts := &testServer{registry: prometheus.NewRegistry(), store: store, dataDir: t.TempDir()}
	ts.Server = httptest.NewServer(NewHandler(Options{
		Password: password,
		DataDir:  ts.dataDir,
		Store:    store,
		Registry: ts.registry,
	}))
	t.Cleanup(ts.Close)
	return ts
}

func (ts *testServer) do(t *testing.T, method, path, body string, cookies ...*http.Cookie) (*http.Response, string) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(t, err)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(raw)
}

func sessionCookie(password string) *http.Cookie {
	return &http.Cookie{Name: SessionCookie, Value: SessionToken(password)}
}

func TestSessionToken(t *testing.T) {
	token := SessionToken("hunter2")
	assert.Len(t, token, 64)
	assert.Equal(t, token, SessionToken("hunter2"))
	assert.NotEqual(t, token, SessionToken("hunter3"))

	assert.True(t, ValidSessionToken("hunter2", token))
	assert.False(t, ValidSessionToken("hunter3", token))
	assert.False(t, ValidSessionToken("hunter2", "not-hex"))
	assert.False(t, ValidSessionToken("hunter2", ""))
	assert.False(t, ValidSessionToken("", SessionToken("")))
}

func TestLogin(t *testing.T) {
	ts := newTestServer(t, "hunter2", nil)

	resp, _ := ts.do(t, http.MethodPost, "/api/auth/login", `{"password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Empty(t, resp.Cookies())

	resp, _ = ts.do(t, http.MethodPost, "/api/auth/login", `{}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = ts.do(t, http.MethodPost, "/api/auth/login", `nope`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body := ts.do(t, http.MethodPost, "/api/auth/login", `{"password":"hunter2"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"ok":true}`, body)
	require.Len(t, resp.Cookies(), 1)
	c := resp.Cookies()[0]
	assert.Equal(t, SessionCookie, c.Name)
	assert.Equal(t, SessionToken("hunter2"), c.Value)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, 30*24*60*60, c.MaxAge)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.False(t, c.Secure)

	assert.Equal(t, 2.0, counterValue(t, ts.registry, "tldbuddy_auth_failures_total"))
}

func counterValue(t *testing.T, registry *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := registry.Gather()
	require.NoError(t, err)
	total := 0.0
	for _, f := range families {
		if f.GetName() == name {
			for _, m := range f.GetMetric() {
				total += m.GetCounter().GetValue()
			}
		}
	}
	return total
}

func TestLoginWithoutConfiguredPassword(t *testing.T) {
	ts := newTestServer(t, "", nil)
	resp, _ := ts.do(t, http.MethodPost, "/api/auth/login", `{"password":""}`)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestSecureCookie(t *testing.T) {
	srv := httptest.NewServer(NewHandler(Options{Password: "pw", SecureCookie: true, Store: kv.NewMemory()}))
	t.Cleanup(srv.Close)
	resp, err := http.Post(srv.URL+"/api/auth/login", "application/json", strings.NewReader(`{"password":"pw"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Len(t, resp.Cookies(), 1)
	assert.True(t, resp.Cookies()[0].Secure)
}

func TestCheck(t *testing.T) {
	ts := newTestServer(t, "hunter2", nil)
	_, body := ts.do(t, http.MethodGet, "/api/auth/check", "")
	assert.JSONEq(t, `{"authenticated":false}`, body)
	_, body = ts.do(t, http.MethodGet, "/api/auth/check", "", &http.Cookie{Name: SessionCookie, Value: "garbage"})
	assert.JSONEq(t, `{"authenticated":false}`, body)
	_, body = ts.do(t, http.MethodGet, "/api/auth/check", "", sessionCookie("hunter2"))
	assert.JSONEq(t, `{"authenticated":true}`, body)
}

func TestDataRequiresSession(t *testing.T) {
	ts := newTestServer(t, "hunter2", nil)
	resp, _ := ts.do(t, http.MethodGet, "/api/data", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp, _ = ts.do(t, http.MethodPut, "/api/data", `{}`, sessionCookie("other"))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	_, err := ts.store.Get(context.Background(), DataKey)
	assert.ErrorIs(t, err, kv.ErrNotFound)
}

func TestGetDataDefaultsWhenMissing(t *testing.T) {
	ts := newTestServer(t, "hunter2", nil)
	resp, body := ts.do(t, http.MethodGet, "/api/data", "", sessionCookie("hunter2"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{
		"runs": [], "currentRunId": null, "currentMapId": null, "markers": [],
		"enabledPOIs": [], "poiPins": [], "stashedItems": [], "recentMapIds": []
	}`, body)
}

func TestGetDataDefaultsOnBackendError(t *testing.T) {
	ts := newTestServer(t, "hunter2", brokenKV{})
	resp, body := ts.do(t, http.MethodGet, "/api/data", "", sessionCookie("hunter2"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"runs":[]`)
}

func TestPutThenGetData(t *testing.T) {
	ts := newTestServer(t, "hunter2", nil)
	resp, body := ts.do(t, http.MethodPut, "/api/data", "{\n  \"runs\": [{\"id\": \"run-1\"}],\n  \"extra\": 1\n}", sessionCookie("hunter2"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"ok":true}`, body)

	stored, err := ts.store.Get(context.Background(), DataKey)
	require.NoError(t, err)
	assert.Equal(t, `{"runs":[{"id":"run-1"}],"extra":1}`, string(stored))

	_, body = ts.do(t, http.MethodGet, "/api/data", "", sessionCookie("hunter2"))
	assert.Equal(t, `{"runs":[{"id":"run-1"}],"extra":1}`, body)
}

func TestPutDataRejectsInvalidJSON(t *testing.T) {
	ts := newTestServer(t, "hunter2", nil)
	resp, _ := ts.do(t, http.MethodPut, "/api/data", `{"runs":`, sessionCookie("hunter2"))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPutDataBackendFailure(t *testing.T) {
	ts := newTestServer(t, "hunter2", brokenKV{})
	resp, body := ts.do(t, http.MethodPut, "/api/data", `{}`, sessionCookie("hunter2"))
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, body, "Failed to save data")
}

func TestCatalogFiles(t *testing.T) {
	ts := newTestServer(t, "", nil)
	require.NoError(t, os.WriteFile(filepath.Join(ts.dataDir, "maps.json"), []byte(`[{"id":"mystery-lake"}]`), 0o600))

	resp, body := ts.do(t, http.MethodGet, "/data/maps.json", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[{"id":"mystery-lake"}]`, body)

	resp, _ = ts.do(t, http.MethodGet, "/data/items.json", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = ts.do(t, http.MethodGet, "/data/secrets.json", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t, "hunter2", nil)
	ts.do(t, http.MethodGet, "/api/data", "", sessionCookie("hunter2"))
	ts.do(t, http.MethodPut, "/api/data", `{}`, sessionCookie("hunter2"))
	ts.do(t, http.MethodGet, "/api/data", "", sessionCookie("hunter2"))

	resp, body := ts.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `tldbuddy_data_reads_total{result="miss"} 1`)
	assert.Contains(t, body, `tldbuddy_data_reads_total{result="hit"} 1`)
	assert.Contains(t, body, `tldbuddy_data_writes_total{result="ok"} 1`)
}
