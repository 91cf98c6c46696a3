package api

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/paulmach/orb"

	"github.com/joeblew999/geowidget/internal/humastar"
	"github.com/joeblew999/geowidget/internal/service"
	"github.com/joeblew999/geowidget/internal/widget"
)

var mapActions = []humastar.ActionDef{
	{Rel: "delete", Pattern: "/api/v1/maps/%s", Method: "DELETE", Title: "Delete map"},
	{Rel: "add-choropleth", Pattern: "/api/v1/maps/%s/layers/choropleth", Method: "POST", Title: "Add choropleth layer"},
	{Rel: "add-geojson", Pattern: "/api/v1/maps/%s/layers/geojson", Method: "POST", Title: "Add GeoJSON layer"},
	{Rel: "calls", Pattern: "/api/v1/maps/%s/calls", Method: "GET", Title: "Frontend calls"},
}

// MapBody is a map snapshot with its hypermedia actions.
type MapBody struct {
	widget.MapState
}

// Actions implements humastar.Actor.
func (b MapBody) Actions() []humastar.Action {
	return humastar.ActionsFor(mapActions, b.ID)
}

type MapOutput struct {
	Body MapBody
}

type ListMapsInput struct {
	Offset int `query:"offset" minimum:"0" default:"0" doc:"Items to skip"`
	Limit  int `query:"limit" minimum:"1" maximum:"100" default:"20" doc:"Page size"`
}

type MapsOutput struct {
	Body humastar.PageBody[service.MapSummary]
}

type ViewInput struct {
	MapIDInput
	Body struct {
		Center []float64 `json:"center,omitempty" minItems:"2" maxItems:"2" doc:"Center [lng, lat]"`
		Zoom   *float64  `json:"zoom,omitempty" minimum:"0" maximum:"24" doc:"Zoom level"`
		Bounds []float64 `json:"bounds,omitempty" minItems:"4" maxItems:"4" doc:"Fit to [minLng, minLat, maxLng, maxLat]"`
	}
}

type CallsInput struct {
	MapIDInput
	Since int `query:"since" minimum:"0" doc:"Skip the first N calls"`
}

type CallsBody struct {
	Calls []widget.Call `json:"calls" doc:"Queued frontend calls after since"`
	Total int           `json:"total" doc:"Total number of queued calls"`
}

// RegisterMaps registers map CRUD routes.
func (h *APIHandler) RegisterMaps(api huma.API) {
	huma.Get(api, "/api/v1/maps", h.ListMaps, huma.OperationTags("maps"))
	huma.Post(api, "/api/v1/maps", h.CreateMap, huma.OperationTags("maps"), created)
	huma.Get(api, "/api/v1/maps/{id}", h.GetMap, huma.OperationTags("maps"))
	huma.Delete(api, "/api/v1/maps/{id}", h.DeleteMap, huma.OperationTags("maps"))
	huma.Put(api, "/api/v1/maps/{id}/view", h.PutView, huma.OperationTags("maps"))
	huma.Get(api, "/api/v1/maps/{id}/calls", h.GetCalls, huma.OperationTags("maps"))
}

func (h *APIHandler) ListMaps(ctx context.Context, input *ListMapsInput) (*MapsOutput, error) {
	return &MapsOutput{Body: humastar.Page(h.svc.Maps.List(), input.Offset, input.Limit)}, nil
}

func (h *APIHandler) CreateMap(ctx context.Context, input *struct{ Body service.MapConfig }) (*MapOutput, error) {
	state, err := h.svc.Maps.Create(input.Body)
	if err != nil {
		return nil, toHTTPError(err)
	}
	return &MapOutput{Body: MapBody{state}}, nil
}

func (h *APIHandler) GetMap(ctx context.Context, input *MapIDInput) (*MapOutput, error) {
	state, ok := h.svc.Maps.Get(input.ID)
	if !ok {
		return nil, huma.Error404NotFound("map not found")
	}
	return &MapOutput{Body: MapBody{state}}, nil
}

func (h *APIHandler) DeleteMap(ctx context.Context, input *MapIDInput) (*struct{ Body MessageBody }, error) {
	if err := h.svc.Maps.Delete(input.ID); err != nil {
		return nil, toHTTPError(err)
	}
	return &struct{ Body MessageBody }{Body: MessageBody{Message: "Map deleted"}}, nil
}

func (h *APIHandler) PutView(ctx context.Context, input *ViewInput) (*MapOutput, error) {
	state, _, err := h.svc.Maps.Update(input.ID, func(m *widget.Map) error {
		if c := input.Body.Center; len(c) == 2 {
			if err := m.SetCenter(c[0], c[1]); err != nil {
				return err
			}
		}
		if input.Body.Zoom != nil {
			if err := m.SetZoom(*input.Body.Zoom); err != nil {
				return err
			}
		}
		if b := input.Body.Bounds; len(b) == 4 {
			m.FitBounds(orb.Bound{Min: orb.Point{b[0], b[1]}, Max: orb.Point{b[2], b[3]}})
		}
		return nil
	})
	if err != nil {
		return nil, toHTTPError(err)
	}
	return &MapOutput{Body: MapBody{state}}, nil
}

func (h *APIHandler) GetCalls(ctx context.Context, input *CallsInput) (*struct{ Body CallsBody }, error) {
	calls, total, err := h.svc.Maps.CallsSince(input.ID, input.Since)
	if err != nil {
		return nil, toHTTPError(err)
	}
	return &struct{ Body CallsBody }{Body: CallsBody{Calls: calls, Total: total}}, nil
}
