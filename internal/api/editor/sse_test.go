package editor

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeblew999/geowidget/internal/service"
	"github.com/joeblew999/geowidget/internal/widget"
)

// newServer serves the editor routes over humago, which the SSE responses
// need to reach the underlying http.ResponseWriter.
func newServer(t *testing.T) (*httptest.Server, *service.MapService) {
	t.Helper()
	h, maps := newHandler(t)
	mux := http.NewServeMux()
	h.RegisterRoutes(humago.New(mux, huma.DefaultConfig("Editor", "1.0.0")))
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	_, err := maps.Create(service.MapConfig{ID: "m"})
	require.NoError(t, err)
	return srv, maps
}

func readEvents(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/event-stream")
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func postSignals(t *testing.T, url string, signals map[string]any) string {
	t.Helper()
	body, err := json.Marshal(signals)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	return readEvents(t, resp)
}

func TestChoroplethStreamsLegendAndSignals(t *testing.T) {
	srv, maps := newServer(t)
	url := srv.URL + "/api/v1/editor/maps/m/choropleth"

	events := postSignals(t, url, map[string]any{
		"source": "points.geojson", "layerid": "pop", "column": "v",
		"method": "equal_interval", "classes": 2, "palette": "Blues",
	})
	assert.Contains(t, events, "event: datastar-patch-elements")
	assert.Contains(t, events, "selector #legend")
	assert.Contains(t, events, `id="legend-pop"`)
	assert.Contains(t, events, "event: datastar-patch-signals")
	assert.Contains(t, events, `"breaks":[`)
	assert.Contains(t, events, `"colors":[`)
	assert.Contains(t, events, `"success":"Layer 'pop' classified into 2 classes"`)
	assert.Contains(t, events, "layer-changed")
	assert.NotContains(t, events, "selector #layer-pop")

	state, ok := maps.Get("m")
	require.True(t, ok)
	require.Len(t, state.Layers, 1)
	assert.Equal(t, "Blues", state.Layers[0].Choropleth.Palette)

	// restyling replaces the layer card
	events = postSignals(t, url, map[string]any{
		"source": "points.geojson", "layerid": "pop", "column": "v",
		"method": "equal_interval", "classes": 2, "palette": "Reds",
	})
	assert.Contains(t, events, "selector #layer-pop")
	assert.Contains(t, events, `class="layer-card"`)

	state, _ = maps.Get("m")
	require.Len(t, state.Layers, 1)
	assert.Equal(t, "Reds", state.Layers[0].Choropleth.Palette)
}

func TestFailedRestyleKeepsLayer(t *testing.T) {
	srv, maps := newServer(t)
	url := srv.URL + "/api/v1/editor/maps/m/choropleth"

	postSignals(t, url, map[string]any{
		"source": "points.geojson", "layerid": "c1", "column": "v",
		"method": "equal_interval", "classes": 2, "palette": "Blues",
	})
	before, ok := maps.Get("m")
	require.True(t, ok)
	require.Len(t, before.Layers, 1)

	events := postSignals(t, url, map[string]any{
		"source": "points.geojson", "layerid": "c1", "column": "missing", "categorical": true,
	})
	assert.Contains(t, events, `"error":`)
	assert.NotContains(t, events, `"success":`)

	after, _ := maps.Get("m")
	require.Len(t, after.Layers, 1)
	assert.Equal(t, "c1", after.Layers[0].ID)
	assert.Equal(t, "Blues", after.Layers[0].Choropleth.Palette)
	assert.Len(t, after.Calls, len(before.Calls))
}

func TestPaletteSelectStreamsOptions(t *testing.T) {
	srv, _ := newServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/editor/palettes/select?engine=builtin")
	require.NoError(t, err)
	events := readEvents(t, resp)

	assert.Contains(t, events, "selector #palette-select")
	assert.Contains(t, events, "Choose a palette")
	assert.Contains(t, events, `<option value="Blues">Blues</option>`)
	assert.Contains(t, events, `<option value="Blues_r">Blues (reversed)</option>`)
}

func TestChoroplethFormStreamsFields(t *testing.T) {
	srv, _ := newServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/editor/maps/m/choropleth/form?source=points.geojson")
	require.NoError(t, err)
	events := readEvents(t, resp)

	assert.Contains(t, events, "selector #choropleth-form")
	assert.Contains(t, events, `id="choropleth-form"`)
	assert.Contains(t, events, `data-bind="column"`)
	assert.Contains(t, events, `type="color"`)
	assert.Contains(t, events, `id="palette-select"`)
	assert.Contains(t, events, "palettes/select")
	assert.NotContains(t, events, `data-bind="id"`)
	assert.NotContains(t, events, `data-bind="data"`)
	assert.Contains(t, events, `"source":"points.geojson"`)
	assert.Contains(t, events, `"outline":"#000000"`)
}

func TestStreamFollowsMapChanges(t *testing.T) {
	srv, maps := newServer(t)
	_, _, err := maps.Update("m", func(m *widget.Map) error {
		_, err := m.AddMarker(widget.MarkerOptions{ID: "pin", Lng: 1, Lat: 2})
		return err
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/v1/editor/maps/m/stream", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	scanner := bufio.NewScanner(resp.Body)
	readUntil := func(marker string) string {
		var seen strings.Builder
		for scanner.Scan() {
			seen.WriteString(scanner.Text() + "\n")
			if strings.Contains(scanner.Text(), marker) {
				break
			}
		}
		return seen.String()
	}

	initial := readUntil(`id="layer-pin"`)
	assert.Contains(t, initial, `"callCount":`)
	assert.Contains(t, initial, "selector #layers")

	_, _, err = maps.Update("m", func(m *widget.Map) error {
		_, err := m.AddMarker(widget.MarkerOptions{ID: "pin2", Lng: 3, Lat: 4})
		return err
	})
	require.NoError(t, err)

	changed := readUntil("map-calls")
	assert.Contains(t, changed, `id="layer-pin2"`)
}
