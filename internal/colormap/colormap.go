// Package colormap samples named palettes into discrete hex color ramps.
//
// Two engines implement [Engine]: [FullPaletteEngine] interpolates a large
// palette catalogue, [BuiltinPaletteTable] is a small pre-sampled fallback.
// Pick one with [NewEngine] at startup.
package colormap

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

var (
	ErrUnknownPalette    = errors.New("unknown palette")
	ErrInvalidClassCount = errors.New("color count must be at least 1")
	ErrUnknownEngine     = errors.New("unknown palette engine")
)

// Engine kinds accepted by NewEngine.
const (
	EngineFull    = "full"
	EngineBuiltin = "builtin"
)

// Engine maps a palette name and a class count to k hex colors.
type Engine interface {
	Name() string
	Palettes() []string
	Sample(name string, k int) ([]string, error)
}

// NewEngine returns the engine registered under kind.
func NewEngine(kind string) (Engine, error) {
	switch kind {
	case EngineFull, "":
		return NewFullPaletteEngine(), nil
	case EngineBuiltin:
		return NewBuiltinPaletteTable(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, kind)
}

// Positions returns k evenly spaced sample positions in [0, 1].
// A single color is sampled at the middle of the palette.
func Positions(k int) []float64 {
	if k < 1 {
		return nil
	}
	if k == 1 {
		return []float64{0.5}
	}
	pos := make([]float64, k)
	for i := range pos {
		pos[i] = float64(i) / float64(k-1)
	}
	return pos
}

// Hex formats a color as #rrggbb, rounding each channel of c*255.
func Hex(c colorful.Color) string {
	return c.Clamped().Hex()
}

// splitReversed strips a trailing "_r" from a palette name.
func splitReversed(name string) (string, bool) {
	if base, ok := strings.CutSuffix(name, "_r"); ok && base != "" {
		return base, true
	}
	return name, false
}

func checkCount(k int) error {
	if k < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidClassCount, k)
	}
	return nil
}

func clamp01(t float64) float64 {
	return math.Max(0, math.Min(1, t))
}
