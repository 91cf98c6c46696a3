// Package config loads the domain defaults for maps and logging.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/viper"

	"github.com/joeblew999/geowidget/internal/classify"
	"github.com/joeblew999/geowidget/internal/colormap"
	"github.com/joeblew999/geowidget/internal/widget"
)

// EnvPrefix prefixes environment overrides, e.g. GEOWIDGET_PALETTE_DEFAULT.
const EnvPrefix = "GEOWIDGET"

// Config represents the complete application configuration.
type Config struct {
	Palette        PaletteConfig        `mapstructure:"palette"`
	Classification ClassificationConfig `mapstructure:"classification"`
	Legend         LegendConfig         `mapstructure:"legend"`
	Logging        LoggingConfig        `mapstructure:"logging"`
}

// PaletteConfig selects the palette engine and default palette.
type PaletteConfig struct {
	Engine  string `mapstructure:"engine"`
	Default string `mapstructure:"default"`
}

// ClassificationConfig holds the default choropleth classification.
type ClassificationConfig struct {
	Method  string `mapstructure:"method"`
	Classes int    `mapstructure:"classes"`
}

// LegendConfig controls legend labels.
type LegendConfig struct {
	Precision int `mapstructure:"precision"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads the optional file at path over the defaults. GEOWIDGET_*
// environment variables take precedence over both.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read configuration: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := Validate(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// Default returns the configuration with only defaults applied.
func Default() *Config {
	d := widget.DefaultDefaults()
	return &Config{
		Palette:        PaletteConfig{Engine: colormap.EngineFull, Default: d.Palette},
		Classification: ClassificationConfig{Method: string(d.Method), Classes: d.Classes},
		Legend:         LegendConfig{Precision: d.Precision},
		Logging:        LoggingConfig{Level: "info", Format: "console"},
	}
}

// setDefaults configures default values for all configuration options.
func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("palette.engine", d.Palette.Engine)
	v.SetDefault("palette.default", d.Palette.Default)

	v.SetDefault("classification.method", d.Classification.Method)
	v.SetDefault("classification.classes", d.Classification.Classes)

	v.SetDefault("legend.precision", d.Legend.Precision)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
}

// Validate rejects values the services cannot use.
func Validate(c *Config) error {
	var errs []error

	engine, err := colormap.NewEngine(c.Palette.Engine)
	if err != nil {
		errs = append(errs, fmt.Errorf("palette.engine: %w", err))
	} else if !slices.Contains(engine.Palettes(), strings.TrimSuffix(c.Palette.Default, "_r")) {
		errs = append(errs, fmt.Errorf("palette.default: %w: %q", colormap.ErrUnknownPalette, c.Palette.Default))
	}

	if _, err := (&classify.Classifier{}).ParseMethod(c.Classification.Method); err != nil {
		errs = append(errs, fmt.Errorf("classification.method: %w", err))
	}
	if c.Classification.Classes < 1 {
		errs = append(errs, fmt.Errorf("classification.classes: %w", classify.ErrInvalidClassCount))
	}
	if c.Legend.Precision < 0 || c.Legend.Precision > 10 {
		errs = append(errs, fmt.Errorf("legend.precision: must be between 0 and 10, got %d", c.Legend.Precision))
	}
	if !slices.Contains([]string{"debug", "info", "warn", "error"}, c.Logging.Level) {
		errs = append(errs, fmt.Errorf("logging.level: unknown level %q", c.Logging.Level))
	}
	if !slices.Contains([]string{"console", "json"}, c.Logging.Format) {
		errs = append(errs, fmt.Errorf("logging.format: unknown format %q", c.Logging.Format))
	}

	return errors.Join(errs...)
}

// Palettes returns the configured palette engine.
func (c *Config) Palettes() (colormap.Engine, error) {
	return colormap.NewEngine(c.Palette.Engine)
}

// MapDefaults converts the configuration to widget defaults.
func (c *Config) MapDefaults() widget.Defaults {
	d := widget.DefaultDefaults()
	d.Method = classify.Method(c.Classification.Method)
	d.Classes = c.Classification.Classes
	d.Palette = c.Palette.Default
	d.Precision = c.Legend.Precision
	return d
}

// MapOptions returns the widget options every map is created with.
func (c *Config) MapOptions() ([]widget.Option, error) {
	engine, err := c.Palettes()
	if err != nil {
		return nil, err
	}
	return []widget.Option{
		widget.WithPalettes(engine),
		widget.WithDefaults(c.MapDefaults()),
	}, nil
}
