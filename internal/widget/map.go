package widget

import (
	"fmt"
	"slices"

	"github.com/paulmach/orb"

	"github.com/joeblew999/geowidget/internal/classify"
	"github.com/joeblew999/geowidget/internal/colormap"
	"github.com/joeblew999/geowidget/internal/style"
)

// Defaults are the values used when an option is left empty.
type Defaults struct {
	Method    classify.Method
	Classes   int
	Palette   string
	Precision int
	Opacity   float64
	Color     string
}

// DefaultDefaults returns the stock defaults.
func DefaultDefaults() Defaults {
	return Defaults{
		Method:    classify.Quantile,
		Classes:   5,
		Palette:   "viridis",
		Precision: 2,
		Opacity:   0.8,
		Color:     "#3388ff",
	}
}

// Option configures a Map.
type Option func(*Map)

// WithPalettes sets the palette engine.
func WithPalettes(e colormap.Engine) Option {
	return func(m *Map) { m.palettes = e }
}

// WithClassifier sets the classifier, e.g. one with external methods registered.
func WithClassifier(c *classify.Classifier) Option {
	return func(m *Map) { m.classifier = c }
}

// WithDefaults overrides the option defaults.
func WithDefaults(d Defaults) Option {
	return func(m *Map) { m.defaults = d }
}

// WithName sets the display name.
func WithName(name string) Option {
	return func(m *Map) { m.name = name }
}

// WithView sets the initial center and zoom without queueing calls.
func WithView(lng, lat, zoom float64) Option {
	return func(m *Map) {
		m.center = orb.Point{lng, lat}
		m.zoom = zoom
	}
}

// WithStyle sets the basemap style URL.
func WithStyle(url string) Option {
	return func(m *Map) { m.style = url }
}

// Map is one widget instance. It is not safe for concurrent use.
type Map struct {
	id     string
	name   string
	center orb.Point
	zoom   float64
	style  string

	sources  map[string]Source
	layers   map[string]*Layer
	order    []string
	controls []Control
	calls    []Call

	palettes   colormap.Engine
	classifier *classify.Classifier
	defaults   Defaults
}

// New creates an empty map.
func New(id string, opts ...Option) *Map {
	m := &Map{
		id:         id,
		zoom:       2,
		sources:    make(map[string]Source),
		layers:     make(map[string]*Layer),
		palettes:   colormap.NewFullPaletteEngine(),
		classifier: &classify.Classifier{},
		defaults:   DefaultDefaults(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Restore rebuilds a map from a snapshot.
func Restore(state MapState, opts ...Option) *Map {
	m := New(state.ID, opts...)
	m.name = state.Name
	if len(state.Center) == 2 {
		m.center = orb.Point{state.Center[0], state.Center[1]}
	}
	m.zoom = state.Zoom
	m.style = state.Style
	for _, s := range state.Sources {
		m.sources[s.ID] = s
	}
	for _, l := range state.Layers {
		m.layers[l.ID] = &l
		m.order = append(m.order, l.ID)
	}
	m.controls = slices.Clone(state.Controls)
	m.calls = slices.Clone(state.Calls)
	return m
}

// ID returns the map identifier.
func (m *Map) ID() string { return m.id }

// Name returns the display name.
func (m *Map) Name() string { return m.name }

// State returns a snapshot of the map.
func (m *Map) State() MapState {
	s := MapState{
		ID:       m.id,
		Name:     m.name,
		Center:   []float64{m.center.Lon(), m.center.Lat()},
		Zoom:     m.zoom,
		Style:    m.style,
		Sources:  make([]Source, 0, len(m.sources)),
		Layers:   m.Layers(),
		Controls: slices.Clone(m.controls),
		Calls:    m.Calls(),
	}
	if s.Controls == nil {
		s.Controls = []Control{}
	}
	for _, id := range m.sourceOrder() {
		s.Sources = append(s.Sources, m.sources[id])
	}
	return s
}

// Layers returns the layers in draw order.
func (m *Map) Layers() []Layer {
	out := make([]Layer, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.layers[id].clone())
	}
	return out
}

// Layer returns a layer by id.
func (m *Map) Layer(id string) (Layer, bool) {
	l, ok := m.layers[id]
	if !ok {
		return Layer{}, false
	}
	return l.clone(), true
}

// Controls returns the registered controls.
func (m *Map) Controls() []Control {
	return slices.Clone(m.controls)
}

// Calls returns every queued call.
func (m *Map) Calls() []Call {
	return m.CallsSince(0)
}

// CallsSince returns the calls queued after the first n.
func (m *Map) CallsSince(n int) []Call {
	if n < 0 {
		n = 0
	}
	if n >= len(m.calls) {
		return []Call{}
	}
	return slices.Clone(m.calls[n:])
}

// CallCount returns the number of queued calls.
func (m *Map) CallCount() int { return len(m.calls) }

// Defaults returns the option defaults.
func (m *Map) Defaults() Defaults { return m.defaults }

// Palettes returns the map's palette engine.
func (m *Map) Palettes() colormap.Engine { return m.palettes }

// SetCenter moves the map center.
func (m *Map) SetCenter(lng, lat float64) error {
	if lng < -180 || lng > 180 || lat < -90 || lat > 90 {
		return fmt.Errorf("%w: [%g, %g]", ErrInvalidPosition, lng, lat)
	}
	m.center = orb.Point{lng, lat}
	m.queue("setCenter", []float64{lng, lat})
	return nil
}

// SetZoom sets the zoom level.
func (m *Map) SetZoom(zoom float64) error {
	if zoom < 0 || zoom > 24 {
		return fmt.Errorf("%w: got %g", ErrInvalidZoom, zoom)
	}
	m.zoom = zoom
	m.queue("setZoom", zoom)
	return nil
}

// FitBounds zooms the frontend to a bounding box.
func (m *Map) FitBounds(b orb.Bound) {
	m.center = b.Center()
	m.queue("fitBounds", [][]float64{{b.Min.Lon(), b.Min.Lat()}, {b.Max.Lon(), b.Max.Lat()}})
}

// RemoveLayer removes a layer and, when no other layer uses it, its source.
func (m *Map) RemoveLayer(id string) error {
	l, ok := m.layers[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrLayerNotFound, id)
	}
	delete(m.layers, id)
	m.order = slices.DeleteFunc(m.order, func(s string) bool { return s == id })
	m.controls = slices.DeleteFunc(m.controls, func(c Control) bool { return c.LayerID == id })

	if l.Type == Marker {
		m.queue("removeMarker", id)
		return nil
	}
	m.queue("removeLayer", id)
	if l.Source != "" && !m.sourceInUse(l.Source) {
		delete(m.sources, l.Source)
		m.queue("removeSource", l.Source)
	}
	return nil
}

// SetVisibility shows or hides a layer.
func (m *Map) SetVisibility(id string, visible bool) error {
	l, ok := m.layers[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrLayerNotFound, id)
	}
	l.Visible = visible
	value := "none"
	if visible {
		value = "visible"
	}
	if l.Type == Marker {
		m.queue("setMarkerVisibility", id, visible)
		return nil
	}
	if l.Layout == nil {
		l.Layout = map[string]any{}
	}
	l.Layout["visibility"] = value
	m.queue("setLayoutProperty", id, "visibility", value)
	return nil
}

// SetOpacity changes a layer's opacity.
func (m *Map) SetOpacity(id string, opacity float64) error {
	l, ok := m.layers[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrLayerNotFound, id)
	}
	if opacity < 0 || opacity > 1 {
		return fmt.Errorf("%w: %g", ErrInvalidOpacity, opacity)
	}
	l.Opacity = opacity
	if l.Type == Marker {
		m.queue("setMarkerOpacity", id, opacity)
		return nil
	}
	prop := style.OpacityProperty(l.Type)
	if l.Paint == nil {
		l.Paint = map[string]any{}
	}
	l.Paint[prop] = opacity
	m.queue("setPaintProperty", id, prop, opacity)
	return nil
}

func (m *Map) queue(method string, args ...any) {
	if args == nil {
		args = []any{}
	}
	m.calls = append(m.calls, Call{Method: method, Args: args})
}

func (m *Map) sourceInUse(source string) bool {
	for _, l := range m.layers {
		if l.Source == source {
			return true
		}
	}
	return false
}

// sourceOrder lists sources in the order their first layer was added,
// followed by any orphans in id order.
func (m *Map) sourceOrder() []string {
	seen := make(map[string]bool, len(m.sources))
	var ids []string
	for _, lid := range m.order {
		src := m.layers[lid].Source
		if _, ok := m.sources[src]; ok && !seen[src] {
			seen[src] = true
			ids = append(ids, src)
		}
	}
	var rest []string
	for id := range m.sources {
		if !seen[id] {
			rest = append(rest, id)
		}
	}
	slices.Sort(rest)
	return append(ids, rest...)
}

// nextID returns prefix-N for the smallest N not already taken.
func (m *Map) nextID(prefix string) string {
	for n := len(m.order) + 1; ; n++ {
		id := fmt.Sprintf("%s-%d", prefix, n)
		if _, taken := m.layers[id]; !taken {
			return id
		}
	}
}

func (m *Map) addLayer(l *Layer) error {
	if _, exists := m.layers[l.ID]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateLayer, l.ID)
	}
	m.layers[l.ID] = l
	m.order = append(m.order, l.ID)
	return nil
}

func (m *Map) opacityOr(o float64) float64 {
	if o > 0 {
		return o
	}
	return m.defaults.Opacity
}
