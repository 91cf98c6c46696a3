package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeblew999/geowidget/internal/config"
)

func newServer(t *testing.T) *Server {
	t.Helper()
	srv, err := New(Config{Host: "localhost", Port: "8086", DataDir: t.TempDir()})
	require.NoError(t, err)
	return srv
}

func get(srv *Server, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestRoot(t *testing.T) {
	srv := newServer(t)

	rec := get(srv, "/")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "geowidget", body["service"])

	assert.Equal(t, http.StatusNotFound, get(srv, "/nope").Code)
}

func TestInfoReportsEngine(t *testing.T) {
	app := config.Default()
	app.Palette.Engine = "builtin"
	srv, err := New(Config{DataDir: t.TempDir(), App: app})
	require.NoError(t, err)

	rec := get(srv, "/api/v1/info")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"builtin"`)
	assert.Contains(t, rec.Body.String(), `"db":false`)
}

func TestBadEngine(t *testing.T) {
	app := config.Default()
	app.Palette.Engine = "nope"
	_, err := New(Config{DataDir: t.TempDir(), App: app})
	assert.Error(t, err)
}

func TestOpenAPIIncludesEditorRoutes(t *testing.T) {
	srv := newServer(t)
	doc := srv.OpenAPI()

	var editorPaths []string
	for p := range doc.Paths {
		if strings.HasPrefix(p, "/api/v1/editor/") {
			editorPaths = append(editorPaths, p)
		}
	}
	assert.Len(t, editorPaths, 4)
	assert.Contains(t, doc.Paths, "/api/v1/classify")
	assert.Equal(t, "color", doc.Components.Schemas.Map()["ChoroplethOptions"].Properties["outline"].Extensions["x-input"])
}

func TestEndToEnd(t *testing.T) {
	srv := newServer(t)
	ts := httptest.NewServer(srv)
	defer ts.Close()

	do := func(method, path, body string) (*http.Response, map[string]any) {
		t.Helper()
		req, err := http.NewRequest(method, ts.URL+path, strings.NewReader(body))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		var out map[string]any
		_ = json.NewDecoder(resp.Body).Decode(&out)
		return resp, out
	}

	resp, _ := do(http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = do(http.MethodPost, "/api/v1/maps", `{"id":"e2e","name":"End to end"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	fc := `{"type":"FeatureCollection","features":[` +
		`{"type":"Feature","geometry":{"type":"Point","coordinates":[0,0]},"properties":{"v":1}},` +
		`{"type":"Feature","geometry":{"type":"Point","coordinates":[1,1]},"properties":{"v":2}},` +
		`{"type":"Feature","geometry":{"type":"Point","coordinates":[2,2]},"properties":{"v":3}}]}`
	resp, layer := do(http.MethodPost, "/api/v1/maps/e2e/layers/choropleth",
		`{"id":"v","column":"v","method":"equal_interval","classes":2,"palette":"Blues","data":`+fc+`}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.IsType(t, map[string]any{}, layer["layer"])
	assert.Equal(t, "circle", layer["layer"].(map[string]any)["type"])
	assert.NotEmpty(t, layer["calls"])

	resp, calls := do(http.MethodGet, "/api/v1/maps/e2e/calls", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, calls["calls"])

	resp, _ = do(http.MethodDelete, "/api/v1/maps/e2e", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
