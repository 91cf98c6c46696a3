// Package service holds the map store, source loading and change events
// shared by the REST API and the editor stream.
package service

import (
	"errors"
)

var (
	ErrMapNotFound       = errors.New("map not found")
	ErrDuplicateMap      = errors.New("map already exists")
	ErrSourceNotFound    = errors.New("source not found")
	ErrInvalidSourceName = errors.New("invalid source name")
	ErrUnsupportedSource = errors.New("unsupported source type")
	ErrDBUnavailable     = errors.New("database not available")
)

// MapConfig is the input for creating a map.
type MapConfig struct {
	ID     string    `json:"id,omitempty" doc:"Unique map identifier (derived from name when empty)" example:"population"`
	Name   string    `json:"name" required:"true" minLength:"1" maxLength:"100" doc:"Display name" example:"Population"`
	Center []float64 `json:"center,omitempty" minItems:"2" maxItems:"2" doc:"Initial center [lng, lat]" example:"[0,0]"`
	Zoom   float64   `json:"zoom,omitempty" minimum:"0" maximum:"24" default:"2" doc:"Initial zoom"`
	Style  string    `json:"style,omitempty" doc:"Basemap style URL"`
}

// MapSummary is a map listing entry.
type MapSummary struct {
	ID     string `json:"id" doc:"Map identifier"`
	Name   string `json:"name" doc:"Display name"`
	Layers int    `json:"layers" doc:"Number of layers"`
	Calls  int    `json:"calls" doc:"Number of queued calls"`
}

// SourceFile represents a source data file (GeoJSON, GeoParquet).
type SourceFile struct {
	Name     string `json:"name" doc:"File name" example:"counties.geojson"`
	Size     string `json:"size" doc:"Human-readable file size" example:"1.2 MB"`
	FileType string `json:"fileType" doc:"File type: GeoJSON or GeoParquet" example:"GeoJSON"`
}
