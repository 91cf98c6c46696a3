package style

// LayerType is a renderer layer type.
type LayerType string

const (
	Fill    LayerType = "fill"
	Line    LayerType = "line"
	Circle  LayerType = "circle"
	Heatmap LayerType = "heatmap"
)

// PaintOptions are the shared paint knobs for vector layers.
type PaintOptions struct {
	Color        any     // hex string or Expression
	Opacity      float64 // 0-1
	OutlineColor string  // fill outline / circle stroke
	Width        float64 // line width or circle radius
}

// Paint returns the paint dictionary for a layer type.
// Zero Width leaves the renderer default in place.
func Paint(t LayerType, o PaintOptions) map[string]any {
	paint := map[string]any{}
	switch t {
	case Fill:
		paint["fill-color"] = o.Color
		paint["fill-opacity"] = o.Opacity
		if o.OutlineColor != "" {
			paint["fill-outline-color"] = o.OutlineColor
		}
	case Line:
		paint["line-color"] = o.Color
		paint["line-opacity"] = o.Opacity
		if o.Width > 0 {
			paint["line-width"] = o.Width
		}
	case Circle:
		paint["circle-color"] = o.Color
		paint["circle-opacity"] = o.Opacity
		if o.Width > 0 {
			paint["circle-radius"] = o.Width
		}
		if o.OutlineColor != "" {
			paint["circle-stroke-color"] = o.OutlineColor
			paint["circle-stroke-width"] = 1.0
		}
	case Heatmap:
		paint["heatmap-opacity"] = o.Opacity
		if o.Width > 0 {
			paint["heatmap-radius"] = o.Width
		}
	}
	return paint
}

// OpacityProperty returns the paint property that controls a layer's opacity.
func OpacityProperty(t LayerType) string {
	return string(t) + "-opacity"
}

// HeatmapColor is a heatmap-color interpolation over density using colors
// spread evenly from transparent at zero density.
func HeatmapColor(colors []string) Expression {
	expr := Expression{"interpolate", Expression{"linear"}, Expression{"heatmap-density"}, 0.0, "rgba(0,0,0,0)"}
	n := len(colors)
	for i, c := range colors {
		expr = append(expr, float64(i+1)/float64(n), c)
	}
	return expr
}
