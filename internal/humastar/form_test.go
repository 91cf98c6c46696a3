package humastar

import (
	"reflect"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeblew999/geowidget/internal/templates"
)

type layerForm struct {
	ID      string   `json:"id" card:"id"`
	Name    string   `json:"name" doc:"Layer name"`
	Kind    string   `json:"kind" enum:"fill,line"`
	Color   string   `json:"color,omitempty" default:"#ff0000" input:"color"`
	Palette string   `json:"palette,omitempty" input:"sse" sse:"/palettes, palette-select"`
	Opacity float64  `json:"opacity,omitempty" minimum:"0" maximum:"1"`
	Zoom    int      `json:"zoom,omitempty" signal:"z"`
	Visible bool     `json:"visible"`
	Tags    []string `json:"tags,omitempty"`
}

func newLayerForm(t *testing.T) Form {
	t.Helper()
	_, api := humatest.New(t)
	schema := InjectExtensions(api, reflect.TypeFor[layerForm]())
	require.NotNil(t, schema)
	assert.Equal(t, "color", schema.Properties["color"].Extensions["x-input"])
	assert.Equal(t, "z", schema.Properties["zoom"].Extensions["x-signal"])
	assert.Equal(t, "id", schema.Properties["id"].Extensions["x-card"])
	return NewForm("layer-form", schema, "new")
}

func TestNewForm(t *testing.T) {
	form := newLayerForm(t)

	var signals, kinds []string
	for _, f := range form.Fields {
		signals = append(signals, f.Signal)
		kinds = append(kinds, f.Kind)
	}
	// required fields first; id, and the tags array, have no input
	assert.Equal(t, []string{"newkind", "newname", "newvisible", "newcolor", "newopacity", "newpalette", "newz"}, signals)
	assert.Equal(t, []string{"select", "text", "checkbox", "color", "number", "sse", "number"}, kinds)

	bySignal := map[string]FormField{}
	for _, f := range form.Fields {
		bySignal[f.Signal] = f
	}
	assert.Equal(t, []string{"fill", "line"}, bySignal["newkind"].Options)
	assert.Equal(t, "Layer name", bySignal["newname"].Label)
	assert.True(t, bySignal["newname"].Required)
	assert.False(t, bySignal["newvisible"].Required)
	assert.Equal(t, "0.1", bySignal["newopacity"].Step)
	require.NotNil(t, bySignal["newopacity"].Max)
	assert.Equal(t, 1.0, *bySignal["newopacity"].Max)
	assert.Equal(t, "1", bySignal["newz"].Step)
	assert.Equal(t, "/palettes", bySignal["newpalette"].URL)
	assert.Equal(t, "palette-select", bySignal["newpalette"].ElementID)
}

func TestFormSignals(t *testing.T) {
	form := newLayerForm(t)

	signals := form.Signals()
	assert.Equal(t, "#ff0000", signals["newcolor"])
	assert.Equal(t, false, signals["newvisible"])
	assert.Equal(t, 0, signals["newopacity"])
	assert.Equal(t, "", signals["newname"])
	assert.NotContains(t, signals, "newid")
	assert.Equal(t, "@get('/palettes')", form.DataInit())
}

func TestFormRender(t *testing.T) {
	form := newLayerForm(t)

	html, err := form.Render(templates.New())
	require.NoError(t, err)
	assert.Contains(t, html, `id="layer-form"`)
	assert.Contains(t, html, `data-bind="newname"`)
	assert.Contains(t, html, `<option value="fill">fill</option>`)
	assert.Contains(t, html, `type="checkbox" data-bind="newvisible"`)
	assert.Contains(t, html, `type="color"`)
	assert.Contains(t, html, `<select id="palette-select" data-bind="newpalette"><option value="">Loading...</option></select>`)
	assert.Contains(t, html, `min="0" max="1" step="0.1"`)
	assert.Contains(t, html, "data-init=")
	assert.NotContains(t, html, "newid")
}
