package editor

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/joeblew999/geowidget/internal/colormap"
	"github.com/joeblew999/geowidget/internal/humastar"
)

// PaletteSelectInput selects the engine whose palettes are listed.
type PaletteSelectInput struct {
	Engine string `query:"engine" enum:"full,builtin" default:"full" doc:"Palette engine"`
}

// PaletteSelect fills the palette <select> with the engine's palettes.
func (h *MapHandler) PaletteSelect(ctx context.Context, input *PaletteSelectInput) (*huma.StreamResponse, error) {
	engine, err := colormap.NewEngine(input.Engine)
	if err != nil {
		return nil, huma.Error400BadRequest(err.Error())
	}
	names := engine.Palettes()
	options := make([]humastar.SelectOptionData, 0, 2*len(names))
	for _, name := range names {
		options = append(options,
			humastar.SelectOptionData{Value: name, Label: name},
			humastar.SelectOptionData{Value: name + "_r", Label: name + " (reversed)"},
		)
	}
	return h.Handler.Stream(func(sse humastar.SSE) {
		sse.Patch(h.RenderSelect("Choose a palette", options), "#palette-select")
	}), nil
}
