// Package api defines the Huma API routes and handlers.
package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/joeblew999/geowidget/internal/classify"
	"github.com/joeblew999/geowidget/internal/colormap"
	"github.com/joeblew999/geowidget/internal/humastar"
	"github.com/joeblew999/geowidget/internal/service"
	"github.com/joeblew999/geowidget/internal/widget"
)

// Version is the API version reported by /health and /api/v1/info.
const Version = "1.0.0"

// Services holds the service dependencies for API handlers.
type Services struct {
	Maps       *service.MapService
	Sources    *service.SourceService
	Palettes   colormap.Engine
	Classifier *classify.Classifier
	Defaults   widget.Defaults
}

// Types

type MapIDInput struct {
	ID string `path:"id" doc:"Map ID" example:"population"`
}

type MessageBody struct {
	Message string `json:"message" doc:"Result message"`
}

type HealthBody struct {
	Status  string `json:"status" doc:"Health status" example:"ok"`
	Version string `json:"version" doc:"API version" example:"1.0.0"`
}

// APIHandler holds all REST API handlers. Methods named Register* are
// auto-discovered by huma.AutoRegister.
type APIHandler struct {
	svc *Services
}

func NewAPIHandler(svc *Services) *APIHandler {
	if svc.Palettes == nil {
		svc.Palettes = colormap.NewFullPaletteEngine()
	}
	if svc.Classifier == nil {
		svc.Classifier = &classify.Classifier{}
	}
	if svc.Defaults == (widget.Defaults{}) {
		svc.Defaults = widget.DefaultDefaults()
	}
	return &APIHandler{svc: svc}
}

// RegisterRoutes registers every REST route on api.
func RegisterRoutes(api huma.API, svc *Services) {
	huma.AutoRegister(api, NewAPIHandler(svc))
}

// RegisterHealth registers health check routes.
func (h *APIHandler) RegisterHealth(api huma.API) {
	huma.Get(api, "/health", h.GetHealth, huma.OperationTags("health"))
}

// created sets 201 as the success status.
func created(op *huma.Operation) {
	op.DefaultStatus = http.StatusCreated
}

// Handlers

func (h *APIHandler) GetHealth(ctx context.Context, input *struct{}) (*struct{ Body HealthBody }, error) {
	return &struct{ Body HealthBody }{Body: HealthBody{Status: "ok", Version: Version}}, nil
}

// scratch returns a detached widget carrying the configured palettes,
// classifier and defaults, for stateless classification.
func (h *APIHandler) scratch() *widget.Map {
	return widget.New("",
		widget.WithPalettes(h.svc.Palettes),
		widget.WithClassifier(h.svc.Classifier),
		widget.WithDefaults(h.svc.Defaults),
	)
}

// Config returns the Huma configuration for the geowidget API served at
// serverURL, with RFC 8288 Link headers enabled.
func Config(serverURL string) huma.Config {
	cfg := huma.DefaultConfig("geowidget API", Version)
	cfg.Info.Description = "Map widget API: layers, choropleth classification, palettes and frontend call queues."
	cfg.Servers = []*huma.Server{{URL: serverURL, Description: "Local server"}}
	// Disable $schema property in responses (cleaner JSON)
	cfg.CreateHooks = []func(huma.Config) huma.Config{}
	cfg.Transformers = append(cfg.Transformers, humastar.LinkTransformer())
	return cfg
}
