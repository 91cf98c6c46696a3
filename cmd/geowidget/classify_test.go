package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeblew999/geowidget/internal/config"
	"github.com/joeblew999/geowidget/internal/style"
	"github.com/joeblew999/geowidget/internal/widget"
)

const tracts = `{"type":"FeatureCollection","features":[` +
	`{"type":"Feature","geometry":{"type":"Point","coordinates":[0,0]},"properties":{"pop":0}},` +
	`{"type":"Feature","geometry":{"type":"Point","coordinates":[1,0]},"properties":{"pop":10}},` +
	`{"type":"Feature","geometry":{"type":"Point","coordinates":[2,0]},"properties":{"pop":"n/a"}},` +
	`{"type":"Feature","geometry":{"type":"Point","coordinates":[3,0]},"properties":{"pop":20}},` +
	`{"type":"Feature","geometry":{"type":"Point","coordinates":[4,0]},"properties":{"pop":30}}` +
	`]}`

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tracts.geojson")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestClassifyFile(t *testing.T) {
	path := writeFile(t, tracts)

	res, err := classifyFile(path, "pop", config.Default(), widget.ClassifyOptions{
		Method:  "equal_interval",
		Classes: 3,
		Palette: "Blues",
	})
	require.NoError(t, err)

	assert.Equal(t, []float64{0, 10, 20, 30}, res.Breaks)
	assert.Len(t, res.Colors, 3)
	assert.Len(t, res.Legend, 3)
	assert.Equal(t, style.Expression{"step", style.Get("pop"),
		res.Colors[0], 10.0, res.Colors[1], 20.0, res.Colors[2]}, res.Expression)
}

func TestClassifyFileErrors(t *testing.T) {
	_, err := classifyFile(filepath.Join(t.TempDir(), "missing.geojson"), "pop", config.Default(), widget.ClassifyOptions{})
	assert.Error(t, err)

	_, err = classifyFile(writeFile(t, "{"), "pop", config.Default(), widget.ClassifyOptions{})
	assert.Error(t, err)

	_, err = classifyFile(writeFile(t, tracts), "missing", config.Default(), widget.ClassifyOptions{})
	assert.Error(t, err)
}
