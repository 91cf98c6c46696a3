package templates

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeblew999/geowidget/internal/style"
)

func TestRenderLegend(t *testing.T) {
	r := New()
	html, err := r.Render("legend", map[string]any{
		"LayerID": "pop",
		"Items": []style.LegendItem{
			{Label: "0 - 20", Color: "#440154"},
			{Label: "20 - 40", Color: "#3b528b"},
		},
	})
	require.NoError(t, err)
	assert.Contains(t, html, `id="legend-pop"`)
	assert.Contains(t, html, "background: #440154")
	assert.Contains(t, html, "20 - 40")
}

func TestRenderEscapes(t *testing.T) {
	html, err := New().Render("empty-state", map[string]string{"Title": "<b>", "Message": "x"})
	require.NoError(t, err)
	assert.Contains(t, html, "&lt;b&gt;")
}

func TestRenderUnknown(t *testing.T) {
	_, err := New().Render("nope", nil)
	assert.Error(t, err)
}

func TestReload(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.html"), []byte(`{{define "greeting"}}hi {{.}}{{end}}`), 0644))

	r, err := NewFromDir(dir)
	require.NoError(t, err)
	out, err := r.Render("greeting", "there")
	require.NoError(t, err)
	assert.Equal(t, "hi there", out)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.html"), []byte(`{{define "greeting"}}bye{{end}}`), 0644))
	require.NoError(t, r.Reload(dir))
	out, err = r.Render("greeting", nil)
	require.NoError(t, err)
	assert.Equal(t, "bye", out)
}
