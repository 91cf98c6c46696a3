package editor

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/joeblew999/geowidget/internal/humastar"
)

type ChoroplethFormInput struct {
	MapIDInput
	Source string `query:"source" doc:"Source file the form classifies"`
}

// ChoroplethForm replaces #choropleth-form with the choropleth editor form
// and resets its signals.
func (h *MapHandler) ChoroplethForm(ctx context.Context, input *ChoroplethFormInput) (*huma.StreamResponse, error) {
	if _, ok := h.maps.Get(input.ID); !ok {
		return nil, huma.Error404NotFound("map not found")
	}
	html, err := h.form.Render(h.Renderer)
	if err != nil {
		return nil, huma.Error500InternalServerError("rendering form", err)
	}
	signals := h.form.Signals()
	signals["source"] = input.Source
	signals["layerid"] = ""

	return h.Handler.Stream(func(sse humastar.SSE) {
		sse.Replace(html, "#"+h.form.ID)
		sse.Signals(signals)
	}), nil
}
