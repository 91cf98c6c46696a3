package colormap

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hexPattern = regexp.MustCompile(`^#[0-9a-f]{6}$`)

func TestFullViridisFive(t *testing.T) {
	e := NewFullPaletteEngine()
	colors, err := e.Sample("viridis", 5)
	require.NoError(t, err)
	require.Len(t, colors, 5)

	seen := map[string]bool{}
	for _, c := range colors {
		assert.Regexp(t, hexPattern, c)
		seen[c] = true
	}
	assert.Len(t, seen, 5, "colors must be distinct")
	assert.Equal(t, "#440154", colors[0])
	assert.Equal(t, "#20908c", colors[2])
	assert.Equal(t, "#fde725", colors[4])
}

func TestFullSingleColorIsMidpoint(t *testing.T) {
	e := NewFullPaletteEngine()
	colors, err := e.Sample("viridis", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"#20908c"}, colors)
}

func TestFullEndpoints(t *testing.T) {
	e := NewFullPaletteEngine()
	colors, err := e.Sample("Blues", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"#f7fbff", "#08306b"}, colors)
}

func TestFullReversed(t *testing.T) {
	e := NewFullPaletteEngine()
	fwd, err := e.Sample("YlOrRd", 6)
	require.NoError(t, err)
	rev, err := e.Sample("YlOrRd_r", 6)
	require.NoError(t, err)
	for i := range fwd {
		assert.Equal(t, fwd[i], rev[len(rev)-1-i])
	}
}

func TestFullListed(t *testing.T) {
	e := NewFullPaletteEngine()
	colors, err := e.Sample("tab10", 3)
	require.NoError(t, err)
	// positions 0, 0.5, 1 -> entries 0, 5, 9
	assert.Equal(t, []string{"#1f77b4", "#8c564b", "#17becf"}, colors)
}

func TestFullManyColors(t *testing.T) {
	e := NewFullPaletteEngine()
	for _, name := range e.Palettes() {
		colors, err := e.Sample(name, 20)
		require.NoError(t, err, name)
		require.Len(t, colors, 20)
		for _, c := range colors {
			assert.Regexp(t, hexPattern, c)
		}
	}
}

func TestUnknownPalette(t *testing.T) {
	for _, e := range []Engine{NewFullPaletteEngine(), NewBuiltinPaletteTable()} {
		_, err := e.Sample("nonexistent_xyz", 3)
		assert.ErrorIs(t, err, ErrUnknownPalette, e.Name())
	}
}

func TestInvalidCount(t *testing.T) {
	for _, e := range []Engine{NewFullPaletteEngine(), NewBuiltinPaletteTable()} {
		_, err := e.Sample("viridis", 0)
		assert.ErrorIs(t, err, ErrInvalidClassCount, e.Name())
	}
}

func TestBuiltinSubsample(t *testing.T) {
	b := NewBuiltinPaletteTable()

	five, err := b.Sample("Blues", 5)
	require.NoError(t, err)
	assert.Equal(t, builtinTable["Blues"], five)

	// floor(i*5/3) = 0, 1, 3
	three, err := b.Sample("Blues", 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"#eff3ff", "#bdd7e7", "#3182bd"}, three)

	one, err := b.Sample("viridis", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"#440154"}, one)
}

func TestBuiltinPadsWithLastColor(t *testing.T) {
	b := NewBuiltinPaletteTable()
	colors, err := b.Sample("Reds", 7)
	require.NoError(t, err)
	require.Len(t, colors, 7)
	assert.Equal(t, builtinTable["Reds"], colors[:5])
	assert.Equal(t, "#a50f15", colors[5])
	assert.Equal(t, "#a50f15", colors[6])
}

func TestNewEngine(t *testing.T) {
	full, err := NewEngine("full")
	require.NoError(t, err)
	assert.Equal(t, EngineFull, full.Name())

	builtin, err := NewEngine("builtin")
	require.NoError(t, err)
	assert.Equal(t, []string{"Blues", "Reds", "YlOrRd", "viridis"}, builtin.Palettes())

	_, err = NewEngine("matplotlib")
	assert.ErrorIs(t, err, ErrUnknownEngine)
}

func TestPositions(t *testing.T) {
	assert.Nil(t, Positions(0))
	assert.Equal(t, []float64{0.5}, Positions(1))
	assert.Equal(t, []float64{0, 0.25, 0.5, 0.75, 1}, Positions(5))
}

func TestSampleIsDeterministic(t *testing.T) {
	e := NewFullPaletteEngine()
	a, _ := e.Sample("Spectral", 7)
	b, _ := e.Sample("Spectral", 7)
	assert.Equal(t, a, b)
}
