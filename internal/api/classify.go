package api

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/paulmach/orb/geojson"

	"github.com/joeblew999/geowidget/internal/classify"
	"github.com/joeblew999/geowidget/internal/colormap"
	"github.com/joeblew999/geowidget/internal/style"
	"github.com/joeblew999/geowidget/internal/widget"
)

type PalettesBody struct {
	Engine   string   `json:"engine" doc:"Active palette engine" example:"full"`
	Palettes []string `json:"palettes" doc:"Palette names; append _r for the reversed ramp"`
	Methods  []string `json:"methods" doc:"Classification methods"`
}

type PaletteInput struct {
	Name string `path:"name" doc:"Palette name" example:"viridis"`
	K    int    `query:"k" minimum:"1" maximum:"256" default:"5" doc:"Number of colors"`
}

type PaletteBody struct {
	Name   string   `json:"name" doc:"Palette name"`
	Colors []string `json:"colors" doc:"Hex colors"`
}

// ClassifyRequest classifies either explicit values or a numeric property
// of inline features.
type ClassifyRequest struct {
	widget.ClassifyOptions
	Column string                     `json:"column" required:"true" minLength:"1" doc:"Property used in the step expression" example:"pop"`
	Values []float64                  `json:"values,omitempty" doc:"Sample values"`
	Data   *geojson.FeatureCollection `json:"data,omitempty" doc:"Features whose column is classified when values is empty"`
}

type ClassifyBody struct {
	widget.Choropleth
	Legend []style.LegendItem `json:"legend" doc:"Legend entries"`
}

// RegisterClassification registers palette and classification routes.
func (h *APIHandler) RegisterClassification(api huma.API) {
	huma.Get(api, "/api/v1/palettes", h.ListPalettes, huma.OperationTags("classification"))
	huma.Get(api, "/api/v1/palettes/{name}", h.GetPalette, huma.OperationTags("classification"))
	huma.Post(api, "/api/v1/classify", h.Classify, huma.OperationTags("classification"))
}

func (h *APIHandler) ListPalettes(ctx context.Context, input *struct{}) (*struct{ Body PalettesBody }, error) {
	methods := []string{}
	for _, m := range h.svc.Classifier.Methods() {
		methods = append(methods, string(m))
	}
	return &struct{ Body PalettesBody }{Body: PalettesBody{
		Engine:   h.svc.Palettes.Name(),
		Palettes: h.svc.Palettes.Palettes(),
		Methods:  methods,
	}}, nil
}

func (h *APIHandler) GetPalette(ctx context.Context, input *PaletteInput) (*struct{ Body PaletteBody }, error) {
	colors, err := h.svc.Palettes.Sample(input.Name, input.K)
	if err != nil {
		if errors.Is(err, colormap.ErrUnknownPalette) {
			return nil, huma.Error404NotFound(err.Error())
		}
		return nil, toHTTPError(err)
	}
	return &struct{ Body PaletteBody }{Body: PaletteBody{Name: input.Name, Colors: colors}}, nil
}

func (h *APIHandler) Classify(ctx context.Context, input *struct{ Body ClassifyRequest }) (*struct{ Body ClassifyBody }, error) {
	req := input.Body
	sample := req.Values
	if len(sample) == 0 && req.Data != nil {
		sample = widget.NumericColumn(req.Data, req.Column)
	}
	sample = classify.Finite(sample)

	m := h.scratch()
	c, err := m.Classify(req.Column, sample, req.ClassifyOptions)
	if err != nil {
		return nil, toHTTPError(err)
	}
	return &struct{ Body ClassifyBody }{Body: ClassifyBody{Choropleth: *c, Legend: m.Legend(c)}}, nil
}
