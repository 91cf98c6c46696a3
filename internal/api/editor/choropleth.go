package editor

import (
	"context"
	"errors"
	"fmt"

	"github.com/danielgtaylor/huma/v2"

	"github.com/joeblew999/geowidget/internal/humastar"
	"github.com/joeblew999/geowidget/internal/widget"
)

type ChoroplethInput struct {
	MapIDInput
	RawBody []byte
}

// ChoroplethOptions reads the choropleth form signals.
func ChoroplethOptions(s humastar.Signals) widget.ChoroplethOptions {
	return widget.ChoroplethOptions{
		ID:           s.String("layerid"),
		Column:       s.String("column"),
		Method:       s.String("method"),
		Classes:      s.Int("classes"),
		Palette:      s.String("palette"),
		ManualBreaks: s.Floats("breaks"),
		Categorical:  s.Bool("categorical"),
		Outline:      s.String("outline"),
		Opacity:      s.Float("opacity"),
		FitBounds:    s.Bool("fitbounds"),
	}
}

// Choropleth adds or restyles a choropleth layer from editor signals and
// patches its legend. A restyle replaces the layer's card in place.
func (h *MapHandler) Choropleth(ctx context.Context, input *ChoroplethInput) (*huma.StreamResponse, error) {
	signals, err := (&humastar.SignalsInput{RawBody: input.RawBody}).Decode()
	if err != nil {
		return nil, err
	}
	opts := ChoroplethOptions(signals)
	source := signals.String("source")
	if source == "" {
		return nil, huma.Error400BadRequest("Source is required")
	}
	if opts.Column == "" {
		return nil, huma.Error400BadRequest("Column is required")
	}

	return h.Handler.Stream(func(sse humastar.SSE) {
		data, err := h.sources.Load(ctx, source)
		if err != nil {
			sse.Error(err.Error())
			return
		}
		opts.Data = data

		var (
			layer    widget.Layer
			restyled bool
		)
		_, _, err = h.maps.Update(input.ID, func(m *widget.Map) error {
			if opts.ID != "" {
				_, restyled = m.Layer(opts.ID)
			}
			if restyled {
				// classify first so a bad restyle queues nothing
				if _, err := m.ChoroplethFor(opts); err != nil {
					return err
				}
				if err := m.RemoveLayer(opts.ID); err != nil {
					return err
				}
			}
			l, err := m.AddChoropleth(opts)
			layer = l
			return err
		})
		if err != nil {
			sse.Error(message(err))
			return
		}

		legend, err := h.Renderer.Render("legend", map[string]any{
			"LayerID": layer.ID, "Title": layer.Choropleth.Column, "Items": layer.Legend,
		})
		if err == nil {
			sse.Patch(legend, "#legend")
		}
		if restyled {
			sse.Replace(h.renderCard(layer), "#layer-"+layer.ID)
		}
		sse.Signals(map[string]any{
			"layerid": layer.ID,
			"breaks":  layer.Choropleth.Breaks,
			"colors":  layer.Choropleth.Colors,
		})
		sse.Success(fmt.Sprintf("Layer '%s' classified into %d classes", layer.ID, len(layer.Choropleth.Colors)))
		sse.DispatchCustomEvent("layer-changed", map[string]any{"action": "classified", "id": layer.ID})
	}), nil
}

// message turns a widget error into an editor-facing message.
func message(err error) string {
	switch {
	case errors.Is(err, widget.ErrNoFeatures):
		return "The source has no features"
	case errors.Is(err, widget.ErrColumnRequired):
		return "Column is required"
	default:
		return err.Error()
	}
}
