package api

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/paulmach/orb/geojson"

	"github.com/joeblew999/geowidget/internal/humastar"
	"github.com/joeblew999/geowidget/internal/widget"
)

// LayerSource names a source file to load instead of inline data.
type LayerSource struct {
	Source string `json:"source,omitempty" doc:"Source file to load when data is omitted" example:"counties.geojson"`
}

type GeoJSONBody struct {
	widget.GeoJSONOptions
	LayerSource
}

type ChoroplethBody struct {
	widget.ChoroplethOptions
	LayerSource
}

type HeatmapBody struct {
	widget.HeatmapOptions
	LayerSource
}

type LayerIDInput struct {
	MapIDInput
	Layer string `path:"layer" doc:"Layer ID" example:"population"`
}

type PatchLayerInput struct {
	LayerIDInput
	Body struct {
		Visible *bool    `json:"visible,omitempty" doc:"Show or hide the layer"`
		Opacity *float64 `json:"opacity,omitempty" minimum:"0" maximum:"1" doc:"Layer opacity (0-1)"`
	}
}

// LayerBody is a layer together with the frontend calls that created or
// changed it.
type LayerBody struct {
	Layer widget.Layer  `json:"layer" doc:"Layer state"`
	Calls []widget.Call `json:"calls" doc:"Frontend calls queued by this request"`
	mapID string
}

var layerActions = []humastar.ActionDef{
	{Rel: "edit", Pattern: "/api/v1/maps/%s/layers/%s", Method: "PATCH", Title: "Change visibility or opacity"},
	{Rel: "delete", Pattern: "/api/v1/maps/%s/layers/%s", Method: "DELETE", Title: "Remove layer"},
}

// Actions implements humastar.Actor.
func (b LayerBody) Actions() []humastar.Action {
	return humastar.ActionsFor(layerActions, b.mapID, b.Layer.ID)
}

type LayerOutput struct {
	Body LayerBody
}

type ControlOutput struct {
	Body struct {
		Control widget.Control `json:"control" doc:"Added control"`
		Calls   []widget.Call  `json:"calls" doc:"Frontend calls queued by this request"`
	}
}

// RegisterLayers registers layer and control routes.
func (h *APIHandler) RegisterLayers(api huma.API) {
	huma.Post(api, "/api/v1/maps/{id}/layers/geojson", h.AddGeoJSON, huma.OperationTags("layers"), created)
	huma.Post(api, "/api/v1/maps/{id}/layers/choropleth", h.AddChoropleth, huma.OperationTags("layers"), created)
	huma.Post(api, "/api/v1/maps/{id}/layers/heatmap", h.AddHeatmap, huma.OperationTags("layers"), created)
	huma.Post(api, "/api/v1/maps/{id}/layers/markers", h.AddMarker, huma.OperationTags("layers"), created)
	huma.Patch(api, "/api/v1/maps/{id}/layers/{layer}", h.PatchLayer, huma.OperationTags("layers"))
	huma.Delete(api, "/api/v1/maps/{id}/layers/{layer}", h.DeleteLayer, huma.OperationTags("layers"))
	huma.Post(api, "/api/v1/maps/{id}/controls", h.AddControl, huma.OperationTags("layers"), created)
}

func (h *APIHandler) AddGeoJSON(ctx context.Context, input *struct {
	MapIDInput
	Body GeoJSONBody
}) (*LayerOutput, error) {
	opts := input.Body.GeoJSONOptions
	if err := h.resolveData(ctx, input.Body.Source, &opts.Data); err != nil {
		return nil, err
	}
	return h.addLayer(input.ID, func(m *widget.Map) (widget.Layer, error) { return m.AddGeoJSON(opts) })
}

func (h *APIHandler) AddChoropleth(ctx context.Context, input *struct {
	MapIDInput
	Body ChoroplethBody
}) (*LayerOutput, error) {
	opts := input.Body.ChoroplethOptions
	if err := h.resolveData(ctx, input.Body.Source, &opts.Data); err != nil {
		return nil, err
	}
	return h.addLayer(input.ID, func(m *widget.Map) (widget.Layer, error) { return m.AddChoropleth(opts) })
}

func (h *APIHandler) AddHeatmap(ctx context.Context, input *struct {
	MapIDInput
	Body HeatmapBody
}) (*LayerOutput, error) {
	opts := input.Body.HeatmapOptions
	if err := h.resolveData(ctx, input.Body.Source, &opts.Data); err != nil {
		return nil, err
	}
	return h.addLayer(input.ID, func(m *widget.Map) (widget.Layer, error) { return m.AddHeatmap(opts) })
}

func (h *APIHandler) AddMarker(ctx context.Context, input *struct {
	MapIDInput
	Body widget.MarkerOptions
}) (*LayerOutput, error) {
	return h.addLayer(input.ID, func(m *widget.Map) (widget.Layer, error) { return m.AddMarker(input.Body) })
}

func (h *APIHandler) PatchLayer(ctx context.Context, input *PatchLayerInput) (*LayerOutput, error) {
	var layer widget.Layer
	_, calls, err := h.svc.Maps.Update(input.ID, func(m *widget.Map) error {
		if _, ok := m.Layer(input.Layer); !ok {
			return widget.ErrLayerNotFound
		}
		if input.Body.Visible != nil {
			if err := m.SetVisibility(input.Layer, *input.Body.Visible); err != nil {
				return err
			}
		}
		if input.Body.Opacity != nil {
			if err := m.SetOpacity(input.Layer, *input.Body.Opacity); err != nil {
				return err
			}
		}
		layer, _ = m.Layer(input.Layer)
		return nil
	})
	if err != nil {
		return nil, toHTTPError(err)
	}
	return &LayerOutput{Body: LayerBody{Layer: layer, Calls: calls, mapID: input.ID}}, nil
}

func (h *APIHandler) DeleteLayer(ctx context.Context, input *LayerIDInput) (*struct{ Body CallsBody }, error) {
	state, calls, err := h.svc.Maps.Update(input.ID, func(m *widget.Map) error {
		return m.RemoveLayer(input.Layer)
	})
	if err != nil {
		return nil, toHTTPError(err)
	}
	return &struct{ Body CallsBody }{Body: CallsBody{Calls: calls, Total: len(state.Calls)}}, nil
}

func (h *APIHandler) AddControl(ctx context.Context, input *struct {
	MapIDInput
	Body widget.ControlOptions
}) (*ControlOutput, error) {
	var control widget.Control
	_, calls, err := h.svc.Maps.Update(input.ID, func(m *widget.Map) error {
		c, err := m.AddControl(input.Body)
		control = c
		return err
	})
	if err != nil {
		return nil, toHTTPError(err)
	}
	out := &ControlOutput{}
	out.Body.Control = control
	out.Body.Calls = calls
	return out, nil
}

func (h *APIHandler) addLayer(id string, add func(*widget.Map) (widget.Layer, error)) (*LayerOutput, error) {
	var layer widget.Layer
	_, calls, err := h.svc.Maps.Update(id, func(m *widget.Map) error {
		l, err := add(m)
		layer = l
		return err
	})
	if err != nil {
		return nil, toHTTPError(err)
	}
	return &LayerOutput{Body: LayerBody{Layer: layer, Calls: calls, mapID: id}}, nil
}

// resolveData loads the named source into data when no inline data was sent.
func (h *APIHandler) resolveData(ctx context.Context, source string, data **geojson.FeatureCollection) error {
	if *data != nil || source == "" {
		return nil
	}
	if h.svc.Sources == nil {
		return huma.Error503ServiceUnavailable("sources not available")
	}
	fc, err := h.svc.Sources.Load(ctx, source)
	if err != nil {
		return toHTTPError(err)
	}
	*data = fc
	return nil
}
