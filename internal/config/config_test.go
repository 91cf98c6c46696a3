package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeblew999/geowidget/internal/classify"
	"github.com/joeblew999/geowidget/internal/colormap"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "full", cfg.Palette.Engine)
	assert.Equal(t, "viridis", cfg.Palette.Default)
	assert.Equal(t, "quantile", cfg.Classification.Method)
	assert.Equal(t, 5, cfg.Classification.Classes)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "geowidget.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
palette:
  engine: builtin
  default: Blues
classification:
  method: equal_interval
  classes: 4
legend:
  precision: 0
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "builtin", cfg.Palette.Engine)
	assert.Equal(t, "Blues", cfg.Palette.Default)

	d := cfg.MapDefaults()
	assert.Equal(t, classify.EqualInterval, d.Method)
	assert.Equal(t, 4, d.Classes)
	assert.Equal(t, 0, d.Precision)

	engine, err := cfg.Palettes()
	require.NoError(t, err)
	assert.Equal(t, colormap.EngineBuiltin, engine.Name())
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("GEOWIDGET_CLASSIFICATION_CLASSES", "7")
	t.Setenv("GEOWIDGET_PALETTE_DEFAULT", "magma_r")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Classification.Classes)
	assert.Equal(t, "magma_r", cfg.Palette.Default)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"engine", func(c *Config) { c.Palette.Engine = "gpu" }, "palette.engine"},
		{"palette", func(c *Config) { c.Palette.Default = "rainbow" }, "palette.default"},
		{"builtin palette", func(c *Config) { c.Palette.Engine = "builtin"; c.Palette.Default = "magma" }, "palette.default"},
		{"method", func(c *Config) { c.Classification.Method = "jenks" }, "classification.method"},
		{"classes", func(c *Config) { c.Classification.Classes = 0 }, "classification.classes"},
		{"precision", func(c *Config) { c.Legend.Precision = -1 }, "legend.precision"},
		{"level", func(c *Config) { c.Logging.Level = "trace" }, "logging.level"},
		{"format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := Validate(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	assert.NoError(t, Validate(Default()))
}
