// Package editor contains Datastar SSE handlers for the map editor UI.
package editor

import (
	"reflect"

	"github.com/danielgtaylor/huma/v2"

	"github.com/joeblew999/geowidget/internal/humastar"
	"github.com/joeblew999/geowidget/internal/service"
	"github.com/joeblew999/geowidget/internal/templates"
	"github.com/joeblew999/geowidget/internal/widget"
)

// MapHandler streams map changes to the editor and applies editor actions.
type MapHandler struct {
	humastar.Handler
	maps    *service.MapService
	sources *service.SourceService
	form    humastar.Form
}

// NewMapHandler creates a new editor map handler.
func NewMapHandler(maps *service.MapService, sources *service.SourceService, renderer *templates.Renderer) *MapHandler {
	return &MapHandler{
		Handler: humastar.Handler{Renderer: renderer},
		maps:    maps,
		sources: sources,
	}
}

func (h *MapHandler) RegisterRoutes(api huma.API) {
	schema := humastar.InjectExtensions(api, reflect.TypeFor[widget.ChoroplethOptions]())
	h.form = humastar.NewForm("choropleth-form", schema, "")

	huma.Get(api, "/api/v1/editor/maps/{id}/stream", h.Stream, huma.OperationTags("editor"))
	huma.Post(api, "/api/v1/editor/maps/{id}/choropleth", h.Choropleth, huma.OperationTags("editor"))
	huma.Get(api, "/api/v1/editor/maps/{id}/choropleth/form", h.ChoroplethForm, huma.OperationTags("editor"))
	huma.Get(api, "/api/v1/editor/palettes/select", h.PaletteSelect, huma.OperationTags("editor"))
}

type MapIDInput struct {
	ID string `path:"id" doc:"Map ID"`
}

// LayerCardData is the view model of the layer-card fragment.
type LayerCardData struct {
	ID      string
	Type    string
	Column  string
	Palette string
	Legend  any
}

func cardData(l widget.Layer) LayerCardData {
	card := LayerCardData{ID: l.ID, Type: string(l.Type)}
	if l.Choropleth != nil {
		card.Column = l.Choropleth.Column
		card.Palette = l.Choropleth.Palette
	}
	if len(l.Legend) > 0 {
		card.Legend = l.Legend
	}
	return card
}

func (h *MapHandler) renderLayers(layers []widget.Layer) string {
	items := make([]any, 0, len(layers))
	for _, l := range layers {
		items = append(items, cardData(l))
	}
	return h.RenderList("layer-card", items, "No layers", "Add a layer to get started")
}

func (h *MapHandler) renderCard(l widget.Layer) string {
	html, _ := h.Renderer.Render("layer-card", cardData(l))
	return html
}
