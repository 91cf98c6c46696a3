package widget

import (
	"fmt"
	"slices"
)

var controlKinds = []string{"navigation", "scale", "fullscreen", "geolocate", "legend"}

var controlPositions = []string{"top-left", "top-right", "bottom-left", "bottom-right"}

// AddControl adds a UI control. Legend controls show the legend of LayerID.
func (m *Map) AddControl(opts ControlOptions) (Control, error) {
	if !slices.Contains(controlKinds, opts.Kind) {
		return Control{}, fmt.Errorf("%w: %q", ErrUnknownControl, opts.Kind)
	}
	pos := opts.Position
	if pos == "" {
		pos = "top-right"
	}
	if !slices.Contains(controlPositions, pos) {
		return Control{}, fmt.Errorf("%w: %q", ErrInvalidCorner, pos)
	}

	c := Control{Kind: opts.Kind, Position: pos, LayerID: opts.LayerID}
	extra := map[string]any{}
	if c.Kind == "legend" {
		l, ok := m.layers[c.LayerID]
		if !ok {
			return Control{}, fmt.Errorf("%w: %q", ErrLayerNotFound, c.LayerID)
		}
		extra["layerId"] = l.ID
		extra["items"] = l.Legend
	} else {
		c.LayerID = ""
	}

	for _, existing := range m.controls {
		if existing.Kind == c.Kind && existing.LayerID == c.LayerID {
			return Control{}, fmt.Errorf("%w: %s", ErrDuplicateControl, c.Kind)
		}
	}

	m.controls = append(m.controls, c)
	m.queue("addControl", c.Kind, c.Position, extra)
	return c, nil
}
