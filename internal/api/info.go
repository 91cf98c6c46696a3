package api

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
)

type InfoHandler struct {
	dataDir string
	engine  string
	dbOK    bool
}

func NewInfoHandler(dataDir, engine string, dbOK bool) *InfoHandler {
	return &InfoHandler{dataDir: dataDir, engine: engine, dbOK: dbOK}
}

func (h *InfoHandler) RegisterRoutes(api huma.API) {
	huma.Get(api, "/api/v1/info", h.GetInfo, huma.OperationTags("health"))
}

type InfoBody struct {
	Name          string   `json:"name" doc:"Service name"`
	Version       string   `json:"version" doc:"Service version"`
	DataDir       string   `json:"data_dir" doc:"Data directory path"`
	DB            bool     `json:"db" doc:"Whether database is available"`
	PaletteEngine string   `json:"palette_engine" doc:"Active palette engine"`
	Features      []string `json:"features" doc:"Available features"`
}

func (h *InfoHandler) GetInfo(ctx context.Context, input *struct{}) (*struct{ Body InfoBody }, error) {
	features := []string{"choropleth", "heatmap", "markers", "geojson"}
	if h.dbOK {
		features = append(features, "geoparquet", "duckdb")
	}
	return &struct{ Body InfoBody }{Body: InfoBody{
		Name:          "geowidget",
		Version:       Version,
		DataDir:       h.dataDir,
		DB:            h.dbOK,
		PaletteEngine: h.engine,
		Features:      features,
	}}, nil
}
