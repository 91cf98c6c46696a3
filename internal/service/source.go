package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/paulmach/orb/geojson"
	"go.uber.org/zap"

	"github.com/joeblew999/geowidget/internal/classify"
	"github.com/joeblew999/geowidget/internal/db"
	"github.com/joeblew999/geowidget/internal/widget"
)

// Supported source file extensions and their types.
var extToType = map[string]string{
	".geojson":    "GeoJSON",
	".json":       "GeoJSON",
	".parquet":    "GeoParquet",
	".geoparquet": "GeoParquet",
}

// SourceService lists and loads source data files.
type SourceService struct {
	sourcesDir string
	db         *sql.DB
	log        *zap.Logger
}

// NewSourceService creates a source service over <dataDir>/sources.
// conn may be nil, in which case GeoParquet sources are unavailable.
func NewSourceService(dataDir string, conn *sql.DB, log *zap.Logger) *SourceService {
	if log == nil {
		log = zap.NewNop()
	}
	return &SourceService{
		sourcesDir: filepath.Join(dataDir, "sources"),
		db:         conn,
		log:        log.Named("sources"),
	}
}

// List returns all available source files.
func (s *SourceService) List() ([]SourceFile, error) {
	entries, err := os.ReadDir(s.sourcesDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []SourceFile{}, nil
		}
		return nil, err
	}

	files := []SourceFile{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		ext := strings.ToLower(filepath.Ext(entry.Name()))
		fileType, ok := extToType[ext]
		if !ok {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		files = append(files, SourceFile{
			Name:     entry.Name(),
			Size:     formatSize(info.Size()),
			FileType: fileType,
		})
	}

	return files, nil
}

// Load reads a source file as a FeatureCollection.
func (s *SourceService) Load(ctx context.Context, name string) (*geojson.FeatureCollection, error) {
	path, fileType, err := s.resolve(name)
	if err != nil {
		return nil, err
	}

	switch fileType {
	case "GeoJSON":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}
		s.log.Debug("source loaded", zap.String("name", name), zap.Int("features", len(fc.Features)))
		return fc, nil
	default:
		if s.db == nil {
			return nil, ErrDBUnavailable
		}
		fc, err := db.ReadFeatures(ctx, s.db, path, db.DefaultGeometryColumn)
		if err != nil {
			return nil, err
		}
		s.log.Debug("source loaded", zap.String("name", name), zap.Int("features", len(fc.Features)))
		return fc, nil
	}
}

// Columns describes the property columns of a source.
func (s *SourceService) Columns(ctx context.Context, name string) ([]db.Column, error) {
	path, fileType, err := s.resolve(name)
	if err != nil {
		return nil, err
	}
	if fileType == "GeoParquet" {
		if s.db == nil {
			return nil, ErrDBUnavailable
		}
		cols, err := db.Columns(ctx, s.db, path)
		if err != nil {
			return nil, err
		}
		return slices.DeleteFunc(cols, func(c db.Column) bool { return c.Name == db.DefaultGeometryColumn }), nil
	}

	fc, err := s.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	return PropertyColumns(fc), nil
}

// PropertyColumns describes the properties found on a collection's features,
// sorted by name.
func PropertyColumns(fc *geojson.FeatureCollection) []db.Column {
	names := map[string]bool{}
	for _, f := range fc.Features {
		for k := range f.Properties {
			names[k] = true
		}
	}

	cols := make([]db.Column, 0, len(names))
	for name := range names {
		values := widget.Column(fc, name)
		cols = append(cols, db.Column{
			Name:    name,
			Type:    valueType(values),
			Numeric: len(classify.FromValues(values)) > 0,
		})
	}
	slices.SortFunc(cols, func(a, b db.Column) int { return strings.Compare(a.Name, b.Name) })
	return cols
}

func valueType(values []any) string {
	for _, v := range values {
		switch v.(type) {
		case nil:
			continue
		case float64, int, int64:
			return "number"
		case string:
			return "string"
		case bool:
			return "boolean"
		default:
			return "object"
		}
	}
	return "null"
}

// resolve maps a source name to a path inside the sources directory.
func (s *SourceService) resolve(name string) (string, string, error) {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidSourceName, name)
	}
	fileType, ok := extToType[strings.ToLower(filepath.Ext(name))]
	if !ok {
		return "", "", fmt.Errorf("%w: %q", ErrUnsupportedSource, name)
	}
	path := filepath.Join(s.sourcesDir, name)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", "", fmt.Errorf("%w: %q", ErrSourceNotFound, name)
		}
		return "", "", err
	}
	return path, fileType, nil
}

// SourcesDir returns the path to the sources directory.
func (s *SourceService) SourcesDir() string {
	return s.sourcesDir
}

// formatSize returns a human-readable file size.
func formatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
