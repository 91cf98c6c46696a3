package api

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/joeblew999/geowidget/internal/db"
	"github.com/joeblew999/geowidget/internal/service"
)

type SourceNameInput struct {
	Name string `path:"name" doc:"Source file name" example:"counties.geojson"`
}

type ColumnsBody struct {
	Source  string      `json:"source" doc:"Source file name"`
	Columns []db.Column `json:"columns" doc:"Property columns"`
}

// RegisterSources registers source listing routes.
func (h *APIHandler) RegisterSources(api huma.API) {
	huma.Get(api, "/api/v1/sources", h.GetSources, huma.OperationTags("sources"))
	huma.Get(api, "/api/v1/sources/{name}/columns", h.GetSourceColumns, huma.OperationTags("sources"))
}

func (h *APIHandler) GetSources(ctx context.Context, input *struct{}) (*struct{ Body []service.SourceFile }, error) {
	if h.svc.Sources == nil {
		return &struct{ Body []service.SourceFile }{Body: []service.SourceFile{}}, nil
	}
	sources, err := h.svc.Sources.List()
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to list sources", err)
	}
	return &struct{ Body []service.SourceFile }{Body: sources}, nil
}

func (h *APIHandler) GetSourceColumns(ctx context.Context, input *SourceNameInput) (*struct{ Body ColumnsBody }, error) {
	if h.svc.Sources == nil {
		return nil, huma.Error404NotFound("source not found")
	}
	cols, err := h.svc.Sources.Columns(ctx, input.Name)
	if err != nil {
		return nil, toHTTPError(err)
	}
	return &struct{ Body ColumnsBody }{Body: ColumnsBody{Source: input.Name, Columns: cols}}, nil
}
