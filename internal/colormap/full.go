package colormap

import (
	"fmt"
	"math"
	"slices"

	"github.com/lucasb-eyer/go-colorful"
)

type paletteKind int

const (
	continuous paletteKind = iota
	listed
)

// palette is a keypoint table. Continuous palettes place their stops
// evenly on [0, 1] and blend between neighbours; listed palettes pick
// the nearest entry.
type palette struct {
	kind  paletteKind
	stops []colorful.Color
}

func (p palette) at(t float64) colorful.Color {
	t = clamp01(t)
	n := len(p.stops)
	if p.kind == listed {
		return p.stops[min(int(t*float64(n)), n-1)]
	}

	pos := t * float64(n-1)
	lower := int(math.Floor(pos))
	if lower >= n-1 {
		return p.stops[n-1]
	}
	return p.stops[lower].BlendRgb(p.stops[lower+1], pos-float64(lower))
}

// FullPaletteEngine samples continuous and qualitative palettes by
// interpolation. Names ending in "_r" are sampled reversed.
type FullPaletteEngine struct {
	palettes map[string]palette
}

// NewFullPaletteEngine returns an engine over the built-in catalogue.
func NewFullPaletteEngine() *FullPaletteEngine {
	e := &FullPaletteEngine{palettes: make(map[string]palette, len(continuousHex)+len(listedHex))}
	for name, hexes := range continuousHex {
		e.palettes[name] = palette{kind: continuous, stops: mustParse(hexes)}
	}
	for name, hexes := range listedHex {
		e.palettes[name] = palette{kind: listed, stops: mustParse(hexes)}
	}
	return e
}

// Name returns the engine kind.
func (e *FullPaletteEngine) Name() string { return EngineFull }

// Palettes returns the sorted palette names, without reversed aliases.
func (e *FullPaletteEngine) Palettes() []string {
	names := make([]string, 0, len(e.palettes))
	for name := range e.palettes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// At evaluates a palette at position t in [0, 1].
func (e *FullPaletteEngine) At(name string, t float64) (colorful.Color, error) {
	base, reversed := splitReversed(name)
	p, ok := e.palettes[base]
	if !ok {
		return colorful.Color{}, fmt.Errorf("%w: %q", ErrUnknownPalette, name)
	}
	if reversed {
		t = 1 - t
	}
	return p.at(t), nil
}

// Sample evaluates the palette at k evenly spaced positions.
func (e *FullPaletteEngine) Sample(name string, k int) ([]string, error) {
	if err := checkCount(k); err != nil {
		return nil, err
	}
	base, reversed := splitReversed(name)
	p, ok := e.palettes[base]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPalette, name)
	}

	colors := make([]string, 0, k)
	for _, t := range Positions(k) {
		colors = append(colors, Hex(p.at(t)))
	}
	// a reversed palette mirrors the forward ramp
	if reversed {
		slices.Reverse(colors)
	}
	return colors, nil
}

func mustParse(hexes []string) []colorful.Color {
	out := make([]colorful.Color, len(hexes))
	for i, h := range hexes {
		c, err := colorful.Hex(h)
		if err != nil {
			panic("colormap: bad palette color " + h + ": " + err.Error())
		}
		out[i] = c
	}
	return out
}

var _ Engine = (*FullPaletteEngine)(nil)
