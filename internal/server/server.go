// Package server wires the geowidget HTTP server.
package server

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"go.uber.org/zap"

	"github.com/joeblew999/geowidget/internal/api"
	"github.com/joeblew999/geowidget/internal/api/editor"
	"github.com/joeblew999/geowidget/internal/classify"
	"github.com/joeblew999/geowidget/internal/config"
	"github.com/joeblew999/geowidget/internal/humastar"
	"github.com/joeblew999/geowidget/internal/service"
	"github.com/joeblew999/geowidget/internal/templates"
)

// Config holds the server configuration.
type Config struct {
	Host    string
	Port    string
	DataDir string
	App     *config.Config // classification and palette defaults
	DB      *sql.DB        // optional; GeoParquet sources need it
	Logger  *zap.Logger
}

// Server is the geowidget HTTP server.
type Server struct {
	config   Config
	mux      *http.ServeMux
	humaAPI  huma.API
	services *api.Services
	renderer *templates.Renderer
	log      *zap.Logger
}

// New creates a new server.
func New(cfg Config) (*Server, error) {
	if cfg.App == nil {
		cfg.App = config.Default()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	engine, err := cfg.App.Palettes()
	if err != nil {
		return nil, err
	}
	mapOpts, err := cfg.App.MapOptions()
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	humaAPI := humago.New(mux, api.Config(fmt.Sprintf("http://%s:%s", cfg.Host, cfg.Port)))

	bus := service.NewEventBus()
	services := &api.Services{
		Maps:       service.NewMapService(cfg.DataDir, bus, cfg.Logger, mapOpts...),
		Sources:    service.NewSourceService(cfg.DataDir, cfg.DB, cfg.Logger),
		Palettes:   engine,
		Classifier: &classify.Classifier{},
		Defaults:   cfg.App.MapDefaults(),
	}

	s := &Server{
		config:   cfg,
		mux:      mux,
		humaAPI:  humaAPI,
		services: services,
		renderer: templates.New(),
		log:      cfg.Logger.Named("server"),
	}
	s.routes()
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// OpenAPI returns the generated OpenAPI document.
func (s *Server) OpenAPI() *huma.OpenAPI {
	return s.humaAPI.OpenAPI()
}

func (s *Server) routes() {
	api.RegisterRoutes(s.humaAPI, s.services)
	api.NewInfoHandler(s.config.DataDir, s.services.Palettes.Name(), s.config.DB != nil).RegisterRoutes(s.humaAPI)

	editor.NewMapHandler(s.services.Maps, s.services.Sources, s.renderer).RegisterRoutes(s.humaAPI)

	// Links are derived from the registered operations, so this runs last.
	humastar.AutoLinks(s.humaAPI)

	s.mux.HandleFunc("/", s.handleRoot)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	for _, link := range humastar.RootLinks() {
		w.Header().Add("Link", link)
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]string{
		"service": "geowidget",
		"status":  "running",
	}); err != nil {
		s.log.Warn("writing root response", zap.Error(err))
	}
}
