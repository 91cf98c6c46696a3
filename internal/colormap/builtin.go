package colormap

import (
	"fmt"
	"slices"
)

// builtinSize is the number of colors per builtin ramp.
const builtinSize = 5

var builtinTable = map[string][]string{
	"viridis": {"#440154", "#3b528b", "#21918c", "#5ec962", "#fde725"},
	"Blues":   {"#eff3ff", "#bdd7e7", "#6baed6", "#3182bd", "#08519c"},
	"Reds":    {"#fee5d9", "#fcae91", "#fb6a4a", "#de2d26", "#a50f15"},
	"YlOrRd":  {"#ffffb2", "#fecc5c", "#fd8d3c", "#f03b20", "#bd0026"},
}

// BuiltinPaletteTable serves pre-sampled five color ramps.
// It does not interpolate: fewer colors are picked by index and more
// colors repeat the last entry.
type BuiltinPaletteTable struct {
	table map[string][]string
}

// NewBuiltinPaletteTable returns the fallback engine.
func NewBuiltinPaletteTable() *BuiltinPaletteTable {
	return &BuiltinPaletteTable{table: builtinTable}
}

// Name returns the engine kind.
func (b *BuiltinPaletteTable) Name() string { return EngineBuiltin }

// Palettes returns the sorted palette names.
func (b *BuiltinPaletteTable) Palettes() []string {
	names := make([]string, 0, len(b.table))
	for name := range b.table {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Sample returns k colors from the named ramp.
func (b *BuiltinPaletteTable) Sample(name string, k int) ([]string, error) {
	if err := checkCount(k); err != nil {
		return nil, err
	}
	ramp, ok := b.table[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPalette, name)
	}

	n := len(ramp)
	if k > n {
		out := slices.Clone(ramp)
		for len(out) < k {
			out = append(out, ramp[n-1])
		}
		return out, nil
	}

	out := make([]string, k)
	for i := range out {
		out[i] = ramp[i*n/k]
	}
	return out, nil
}

var _ Engine = (*BuiltinPaletteTable)(nil)
