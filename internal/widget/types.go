// Package widget is the per-map registry behind an interactive map widget.
//
// A Map records its sources, layers, controls and markers, and queues one
// Call per frontend instruction. The frontend replays the calls in order;
// the registry is the snapshot it restores from.
package widget

import (
	"errors"
	"maps"
	"slices"

	"github.com/paulmach/orb/geojson"

	"github.com/joeblew999/geowidget/internal/classify"
	"github.com/joeblew999/geowidget/internal/style"
)

var (
	ErrDuplicateLayer   = errors.New("layer already exists")
	ErrLayerNotFound    = errors.New("layer not found")
	ErrDuplicateControl = errors.New("control already exists")
	ErrUnknownControl   = errors.New("unknown control kind")
	ErrNoFeatures       = errors.New("feature collection is empty")
	ErrColumnRequired   = errors.New("column is required")
	ErrInvalidOpacity   = errors.New("opacity must be between 0 and 1")
	ErrInvalidPosition  = errors.New("invalid coordinates")
	ErrInvalidZoom      = errors.New("zoom must be between 0 and 24")
	ErrInvalidCorner    = errors.New("invalid control position")
)

// Marker is a layer type handled outside the renderer's style.
const Marker style.LayerType = "marker"

// Call is one queued frontend instruction.
type Call struct {
	Method string `json:"method" doc:"Frontend method name" example:"addLayer"`
	Args   []any  `json:"args" doc:"Positional arguments"`
}

// Source is a data source registered with the renderer.
type Source struct {
	ID   string                     `json:"id" doc:"Source identifier"`
	Type string                     `json:"type" doc:"Source type" example:"geojson"`
	Data *geojson.FeatureCollection `json:"data,omitempty" doc:"Inline GeoJSON data"`
}

// Choropleth is the classification snapshot of a choropleth layer.
type Choropleth struct {
	Column     string           `json:"column" doc:"Classified property"`
	Method     classify.Method  `json:"method" doc:"Classification method"`
	Classes    int              `json:"classes" doc:"Number of classes"`
	Palette    string           `json:"palette" doc:"Palette name"`
	Breaks     []float64        `json:"breaks,omitempty" doc:"Class boundaries"`
	Categories []string         `json:"categories,omitempty" doc:"Category values for categorical layers"`
	Colors     []string         `json:"colors" doc:"Class colors"`
	Expression style.Expression `json:"expression" doc:"Color expression"`
	Summary    classify.Summary `json:"summary" doc:"Per-class statistics"`
}

// Layer is a registered map layer.
type Layer struct {
	ID         string             `json:"id" doc:"Layer identifier"`
	Type       style.LayerType    `json:"type" enum:"fill,line,circle,heatmap,marker" doc:"Layer type"`
	Source     string             `json:"source,omitempty" doc:"Source identifier"`
	Paint      map[string]any     `json:"paint,omitempty" doc:"Paint properties"`
	Layout     map[string]any     `json:"layout,omitempty" doc:"Layout properties"`
	Visible    bool               `json:"visible" doc:"Whether the layer is shown"`
	Opacity    float64            `json:"opacity" doc:"Layer opacity (0-1)"`
	Legend     []style.LegendItem `json:"legend,omitempty" doc:"Legend entries"`
	Choropleth *Choropleth        `json:"choropleth,omitempty" doc:"Classification snapshot"`
	Position   []float64          `json:"position,omitempty" doc:"Marker [lng, lat]"`
	Popup      string             `json:"popup,omitempty" doc:"Marker popup HTML"`
}

// clone copies the layer so snapshots do not share its paint or layout.
func (l *Layer) clone() Layer {
	c := *l
	c.Paint = maps.Clone(l.Paint)
	c.Layout = maps.Clone(l.Layout)
	c.Legend = slices.Clone(l.Legend)
	c.Position = slices.Clone(l.Position)
	return c
}

// Control is a map UI control.
type Control struct {
	Kind     string `json:"kind" enum:"navigation,scale,fullscreen,geolocate,legend" doc:"Control kind"`
	Position string `json:"position" enum:"top-left,top-right,bottom-left,bottom-right" doc:"Corner"`
	LayerID  string `json:"layerId,omitempty" doc:"Layer whose legend is shown (legend controls)"`
}

// MapState is the serializable snapshot of a Map.
type MapState struct {
	ID       string    `json:"id" doc:"Map identifier"`
	Name     string    `json:"name,omitempty" doc:"Display name"`
	Center   []float64 `json:"center" doc:"Map center [lng, lat]"`
	Zoom     float64   `json:"zoom" doc:"Zoom level"`
	Style    string    `json:"style,omitempty" doc:"Basemap style URL"`
	Sources  []Source  `json:"sources" doc:"Registered sources"`
	Layers   []Layer   `json:"layers" doc:"Layers in draw order"`
	Controls []Control `json:"controls" doc:"UI controls"`
	Calls    []Call    `json:"calls" doc:"Queued frontend calls"`
}

// GeoJSONOptions configures AddGeoJSON.
type GeoJSONOptions struct {
	ID        string                     `json:"id,omitempty" doc:"Layer identifier (generated when empty)"`
	Data      *geojson.FeatureCollection `json:"data,omitempty" doc:"GeoJSON FeatureCollection"`
	Type      style.LayerType            `json:"type,omitempty" enum:"fill,line,circle" doc:"Layer type (detected from geometry when empty)"`
	Color     string                     `json:"color,omitempty" default:"#3388ff" doc:"Color (CSS)"`
	Outline   string                     `json:"outline,omitempty" doc:"Outline color (CSS)"`
	Width     float64                    `json:"width,omitempty" minimum:"0" doc:"Line width or circle radius"`
	Opacity   float64                    `json:"opacity,omitempty" minimum:"0" maximum:"1" doc:"Opacity (0-1)"`
	FitBounds bool                       `json:"fitBounds,omitempty" doc:"Zoom to the data"`
}

// ChoroplethOptions configures AddChoropleth.
type ChoroplethOptions struct {
	ID           string                     `json:"id,omitempty" card:"id" doc:"Layer identifier (generated when empty)"`
	Data         *geojson.FeatureCollection `json:"data,omitempty" doc:"GeoJSON FeatureCollection"`
	Column       string                     `json:"column" required:"true" doc:"Property to classify"`
	Method       string                     `json:"method,omitempty" doc:"quantile, equal_interval or manual"`
	Classes      int                        `json:"classes,omitempty" minimum:"0" maximum:"64" doc:"Number of classes"`
	Palette      string                     `json:"palette,omitempty" input:"sse" sse:"/api/v1/editor/palettes/select,palette-select" doc:"Palette name"`
	ManualBreaks []float64                  `json:"manualBreaks,omitempty" doc:"Breaks for the manual method"`
	Categorical  bool                       `json:"categorical,omitempty" doc:"Color distinct values instead of numeric classes"`
	Outline      string                     `json:"outline,omitempty" default:"#000000" input:"color" doc:"Outline color (CSS)"`
	Opacity      float64                    `json:"opacity,omitempty" minimum:"0" maximum:"1" doc:"Opacity (0-1)"`
	FitBounds    bool                       `json:"fitBounds,omitempty" doc:"Zoom to the data"`
}

// ClassifyOptions selects how a sample is classified and colored.
// Zero values fall back to the map defaults.
type ClassifyOptions struct {
	Method       string    `json:"method,omitempty" doc:"quantile, equal_interval, manual or a registered method"`
	Classes      int       `json:"classes,omitempty" minimum:"0" maximum:"64" doc:"Number of classes"`
	Palette      string    `json:"palette,omitempty" doc:"Palette name"`
	ManualBreaks []float64 `json:"manualBreaks,omitempty" doc:"Breaks for the manual method"`
}

// HeatmapOptions configures AddHeatmap.
type HeatmapOptions struct {
	ID        string                     `json:"id,omitempty" doc:"Layer identifier (generated when empty)"`
	Data      *geojson.FeatureCollection `json:"data,omitempty" doc:"Point features"`
	Weight    string                     `json:"weight,omitempty" doc:"Numeric property used as weight"`
	Radius    float64                    `json:"radius,omitempty" minimum:"0" doc:"Radius in pixels"`
	Intensity float64                    `json:"intensity,omitempty" minimum:"0" doc:"Intensity multiplier"`
	Palette   string                     `json:"palette,omitempty" doc:"Palette name"`
	Opacity   float64                    `json:"opacity,omitempty" minimum:"0" maximum:"1" doc:"Opacity (0-1)"`
	FitBounds bool                       `json:"fitBounds,omitempty" doc:"Zoom to the data"`
}

// MarkerOptions configures AddMarker.
type MarkerOptions struct {
	ID    string  `json:"id,omitempty" doc:"Marker identifier (generated when empty)"`
	Lng   float64 `json:"lng" minimum:"-180" maximum:"180" doc:"Longitude"`
	Lat   float64 `json:"lat" minimum:"-90" maximum:"90" doc:"Latitude"`
	Color string  `json:"color,omitempty" default:"#3388ff" doc:"Marker color (CSS)"`
	Popup string  `json:"popup,omitempty" doc:"Popup HTML"`
}

// ControlOptions configures AddControl.
type ControlOptions struct {
	Kind     string `json:"kind" required:"true" enum:"navigation,scale,fullscreen,geolocate,legend" doc:"Control kind"`
	Position string `json:"position,omitempty" enum:"top-left,top-right,bottom-left,bottom-right" default:"top-right" doc:"Corner"`
	LayerID  string `json:"layerId,omitempty" doc:"Layer whose legend is shown (legend controls)"`
}
