package widget

import (
	"slices"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/joeblew999/geowidget/internal/classify"
	"github.com/joeblew999/geowidget/internal/style"
)

// Bounds returns the bounding box of every feature geometry.
func Bounds(fc *geojson.FeatureCollection) (orb.Bound, bool) {
	var (
		bound orb.Bound
		found bool
	)
	if fc == nil {
		return bound, false
	}
	for _, f := range fc.Features {
		if f == nil || f.Geometry == nil {
			continue
		}
		if !found {
			bound = f.Geometry.Bound()
			found = true
			continue
		}
		bound = bound.Union(f.Geometry.Bound())
	}
	return bound, found
}

// DetectLayerType picks fill, line or circle from the first geometry.
func DetectLayerType(fc *geojson.FeatureCollection) style.LayerType {
	if fc == nil {
		return style.Fill
	}
	for _, f := range fc.Features {
		if f == nil || f.Geometry == nil {
			continue
		}
		switch f.Geometry.(type) {
		case orb.Point, orb.MultiPoint:
			return style.Circle
		case orb.LineString, orb.MultiLineString:
			return style.Line
		default:
			return style.Fill
		}
	}
	return style.Fill
}

// Column collects the raw property values of a column.
func Column(fc *geojson.FeatureCollection, column string) []any {
	values := make([]any, 0, len(fc.Features))
	for _, f := range fc.Features {
		if f == nil {
			continue
		}
		values = append(values, f.Properties[column])
	}
	return values
}

// NumericColumn returns the finite numeric values of a column.
func NumericColumn(fc *geojson.FeatureCollection, column string) []float64 {
	return classify.FromValues(Column(fc, column))
}

// Categories returns the distinct non-empty string values of a column, sorted.
func Categories(fc *geojson.FeatureCollection, column string) []string {
	seen := map[string]bool{}
	var out []string
	for _, v := range Column(fc, column) {
		s, ok := v.(string)
		if !ok || s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	slices.Sort(out)
	return out
}

func empty(fc *geojson.FeatureCollection) bool {
	return fc == nil || len(fc.Features) == 0
}
