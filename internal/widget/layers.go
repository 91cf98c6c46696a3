package widget

import (
	"fmt"

	"github.com/paulmach/orb/geojson"

	"github.com/joeblew999/geowidget/internal/classify"
	"github.com/joeblew999/geowidget/internal/style"
)

const (
	categoryFallback = "#cccccc"
	defaultOutline   = "#000000"
	heatmapPalette   = "YlOrRd"
	heatmapColors    = 5
)

// AddGeoJSON adds a single-color vector layer.
func (m *Map) AddGeoJSON(opts GeoJSONOptions) (Layer, error) {
	if empty(opts.Data) {
		return Layer{}, ErrNoFeatures
	}
	id := m.layerID(opts.ID, "geojson")

	layerType := opts.Type
	if layerType == "" {
		layerType = DetectLayerType(opts.Data)
	}
	color := opts.Color
	if color == "" {
		color = m.defaults.Color
	}
	opacity := m.opacityOr(opts.Opacity)

	l := &Layer{
		ID:      id,
		Type:    layerType,
		Source:  id,
		Visible: true,
		Opacity: opacity,
		Layout:  map[string]any{"visibility": "visible"},
		Paint: style.Paint(layerType, style.PaintOptions{
			Color:        color,
			Opacity:      opacity,
			OutlineColor: opts.Outline,
			Width:        opts.Width,
		}),
	}
	if err := m.addVectorLayer(l, opts.Data, opts.FitBounds); err != nil {
		return Layer{}, err
	}
	return *l, nil
}

// AddChoropleth classifies a numeric column, samples a palette and adds a
// layer colored by the resulting step expression. With Categorical set the
// column's distinct string values are colored with a match expression.
func (m *Map) AddChoropleth(opts ChoroplethOptions) (Layer, error) {
	snap, err := m.ChoroplethFor(opts)
	if err != nil {
		return Layer{}, err
	}
	id := m.layerID(opts.ID, "choropleth")

	layerType := DetectLayerType(opts.Data)
	outline := opts.Outline
	if outline == "" && layerType != style.Line {
		outline = defaultOutline
	}
	opacity := m.opacityOr(opts.Opacity)

	l := &Layer{
		ID:      id,
		Type:    layerType,
		Source:  id,
		Visible: true,
		Opacity: opacity,
		Layout:  map[string]any{"visibility": "visible"},
		Paint: style.Paint(layerType, style.PaintOptions{
			Color:        snap.Expression,
			Opacity:      opacity,
			OutlineColor: outline,
		}),
		Choropleth: snap,
	}
	l.Legend = m.Legend(snap)

	if err := m.addVectorLayer(l, opts.Data, opts.FitBounds); err != nil {
		return Layer{}, err
	}
	return *l, nil
}

// ChoroplethFor returns the classification AddChoropleth would apply for
// opts, without changing the map.
func (m *Map) ChoroplethFor(opts ChoroplethOptions) (*Choropleth, error) {
	if empty(opts.Data) {
		return nil, ErrNoFeatures
	}
	if opts.Column == "" {
		return nil, ErrColumnRequired
	}
	palette := opts.Palette
	if palette == "" {
		palette = m.defaults.Palette
	}
	if opts.Categorical {
		return m.categorical(opts, palette)
	}
	return m.classified(opts, palette)
}

func (m *Map) classified(opts ChoroplethOptions, palette string) (*Choropleth, error) {
	return m.Classify(opts.Column, NumericColumn(opts.Data, opts.Column), ClassifyOptions{
		Method:       opts.Method,
		Classes:      opts.Classes,
		Palette:      palette,
		ManualBreaks: opts.ManualBreaks,
	})
}

// Classify computes breaks for sample with the map's classifier, samples
// one palette color per class and builds the step expression over field.
func (m *Map) Classify(field string, sample []float64, opts ClassifyOptions) (*Choropleth, error) {
	method, err := m.method(opts)
	if err != nil {
		return nil, err
	}
	k := opts.Classes
	if k == 0 {
		k = m.defaults.Classes
		if method == classify.Manual && len(opts.ManualBreaks) > 1 {
			k = len(opts.ManualBreaks) - 1
		}
	}
	palette := opts.Palette
	if palette == "" {
		palette = m.defaults.Palette
	}

	breaks, err := m.classifier.Breaks(sample, method, k, opts.ManualBreaks)
	if err != nil {
		return nil, fmt.Errorf("classifying %q: %w", field, err)
	}
	colors, err := m.palettes.Sample(palette, len(breaks)-1)
	if err != nil {
		return nil, err
	}

	return &Choropleth{
		Column:     field,
		Method:     method,
		Classes:    k,
		Palette:    palette,
		Breaks:     breaks,
		Colors:     colors,
		Expression: style.BuildStepExpression(field, breaks, colors),
		Summary:    classify.Summarize(sample, breaks),
	}, nil
}

// Legend returns the legend entries of a classification.
func (m *Map) Legend(c *Choropleth) []style.LegendItem {
	if c.Categories != nil {
		return style.CategoryLegend(c.Categories, c.Colors)
	}
	return style.BuildLegend(c.Breaks, c.Colors, m.defaults.Precision)
}

func (m *Map) categorical(opts ChoroplethOptions, palette string) (*Choropleth, error) {
	cats := Categories(opts.Data, opts.Column)
	if len(cats) == 0 {
		return nil, fmt.Errorf("classifying %q: %w", opts.Column, classify.ErrEmptySample)
	}
	colors, err := m.palettes.Sample(palette, len(cats))
	if err != nil {
		return nil, err
	}
	return &Choropleth{
		Column:     opts.Column,
		Classes:    len(cats),
		Palette:    palette,
		Categories: cats,
		Colors:     colors,
		Expression: style.BuildMatchExpression(opts.Column, cats, colors, categoryFallback),
		Summary:    classify.Summary{Count: len(cats)},
	}, nil
}

// method resolves the classification method. Supplying manual breaks
// without a method selects the manual method.
func (m *Map) method(opts ClassifyOptions) (classify.Method, error) {
	if opts.Method == "" {
		if len(opts.ManualBreaks) > 0 {
			return classify.Manual, nil
		}
		return m.defaults.Method, nil
	}
	return m.classifier.ParseMethod(opts.Method)
}

// AddHeatmap adds a heatmap layer over point features.
func (m *Map) AddHeatmap(opts HeatmapOptions) (Layer, error) {
	if empty(opts.Data) {
		return Layer{}, ErrNoFeatures
	}
	id := m.layerID(opts.ID, "heatmap")

	palette := opts.Palette
	if palette == "" {
		palette = heatmapPalette
	}
	colors, err := m.palettes.Sample(palette, heatmapColors)
	if err != nil {
		return Layer{}, err
	}
	opacity := m.opacityOr(opts.Opacity)

	paint := style.Paint(style.Heatmap, style.PaintOptions{Opacity: opacity, Width: opts.Radius})
	paint["heatmap-color"] = style.HeatmapColor(colors)
	if opts.Intensity > 0 {
		paint["heatmap-intensity"] = opts.Intensity
	}
	if opts.Weight != "" {
		paint["heatmap-weight"] = heatmapWeight(opts.Weight, NumericColumn(opts.Data, opts.Weight))
	}

	l := &Layer{
		ID:      id,
		Type:    style.Heatmap,
		Source:  id,
		Visible: true,
		Opacity: opacity,
		Layout:  map[string]any{"visibility": "visible"},
		Paint:   paint,
	}
	if err := m.addVectorLayer(l, opts.Data, opts.FitBounds); err != nil {
		return Layer{}, err
	}
	return *l, nil
}

// heatmapWeight scales a property linearly onto [0, 1].
func heatmapWeight(field string, sample []float64) any {
	if len(sample) == 0 {
		return 1.0
	}
	breaks, _ := classify.ComputeBreaks(sample, classify.EqualInterval, 1, nil)
	lo, hi := breaks[0], breaks[1]
	if lo == hi {
		return 1.0
	}
	return style.Expression{"interpolate", style.Expression{"linear"}, style.Get(field), lo, 0.0, hi, 1.0}
}

// AddMarker adds a point marker.
func (m *Map) AddMarker(opts MarkerOptions) (Layer, error) {
	if opts.Lng < -180 || opts.Lng > 180 || opts.Lat < -90 || opts.Lat > 90 {
		return Layer{}, fmt.Errorf("%w: [%g, %g]", ErrInvalidPosition, opts.Lng, opts.Lat)
	}
	id := m.layerID(opts.ID, "marker")
	color := opts.Color
	if color == "" {
		color = m.defaults.Color
	}

	l := &Layer{
		ID:       id,
		Type:     Marker,
		Visible:  true,
		Opacity:  1,
		Paint:    map[string]any{"color": color},
		Position: []float64{opts.Lng, opts.Lat},
		Popup:    opts.Popup,
	}
	if err := m.addLayer(l); err != nil {
		return Layer{}, err
	}
	m.queue("addMarker", id, l.Position, map[string]any{"color": color, "popup": opts.Popup})
	return *l, nil
}

func (m *Map) layerID(id, prefix string) string {
	if id != "" {
		return id
	}
	return m.nextID(prefix)
}

// addVectorLayer registers the layer with its own GeoJSON source and
// queues addSource, addLayer and optionally fitBounds.
func (m *Map) addVectorLayer(l *Layer, data *geojson.FeatureCollection, fit bool) error {
	if err := m.addLayer(l); err != nil {
		return err
	}
	src := Source{ID: l.Source, Type: "geojson", Data: data}
	m.sources[src.ID] = src

	m.queue("addSource", src.ID, map[string]any{"type": src.Type, "data": data})
	m.queue("addLayer", layerSpec(l))
	if fit {
		if b, ok := Bounds(data); ok {
			m.FitBounds(b)
		}
	}
	return nil
}

// layerSpec is the renderer's layer definition.
func layerSpec(l *Layer) map[string]any {
	spec := map[string]any{
		"id":     l.ID,
		"type":   string(l.Type),
		"source": l.Source,
		"paint":  l.Paint,
	}
	if len(l.Layout) > 0 {
		spec["layout"] = l.Layout
	}
	return spec
}
