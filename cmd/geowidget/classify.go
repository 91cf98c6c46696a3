package main

import (
	"fmt"
	"os"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/paulmach/orb/geojson"
	"github.com/spf13/cobra"

	"github.com/joeblew999/geowidget/internal/classify"
	"github.com/joeblew999/geowidget/internal/colormap"
	"github.com/joeblew999/geowidget/internal/config"
	"github.com/joeblew999/geowidget/internal/style"
	"github.com/joeblew999/geowidget/internal/widget"
)

// classifyResult is the output of the classify command.
type classifyResult struct {
	widget.Choropleth `yaml:",inline"`
	Legend            []style.LegendItem `json:"legend" yaml:"legend"`
}

// classifyFile runs the choropleth pipeline over one property of a
// GeoJSON FeatureCollection file.
func classifyFile(path, column string, app *config.Config, opts widget.ClassifyOptions) (*classifyResult, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	fc, err := geojson.UnmarshalFeatureCollection(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	values := make([]any, 0, len(fc.Features))
	for _, f := range fc.Features {
		values = append(values, f.Properties[column])
	}

	mapOpts, err := app.MapOptions()
	if err != nil {
		return nil, err
	}
	m := widget.New("", mapOpts...)
	c, err := m.Classify(column, classify.FromValues(values), opts)
	if err != nil {
		return nil, err
	}
	return &classifyResult{Choropleth: *c, Legend: m.Legend(c)}, nil
}

func classifyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify <file.geojson>",
		Short: "Classify a numeric property and print breaks, colors and the step expression",
		Args:  cobra.ExactArgs(1),
		Run: humacli.WithOptions(func(cmd *cobra.Command, args []string, opts *Options) {
			app, err := config.Load(opts.Config)
			if err != nil {
				fatal("Error loading config: %v", err)
			}
			flags := cmd.Flags()
			column, _ := flags.GetString("column")
			method, _ := flags.GetString("method")
			classes, _ := flags.GetInt("classes")
			palette, _ := flags.GetString("palette")
			breaks, _ := flags.GetFloat64Slice("breaks")
			useYAML, _ := flags.GetBool("yaml")

			res, err := classifyFile(args[0], column, app, widget.ClassifyOptions{
				Method:       method,
				Classes:      classes,
				Palette:      palette,
				ManualBreaks: breaks,
			})
			if err != nil {
				fatal("Error classifying: %v", err)
			}
			if err := printOut(res, useYAML); err != nil {
				fatal("Error marshaling result: %v", err)
			}
		}),
	}
	flags := cmd.Flags()
	flags.String("column", "", "Property to classify")
	flags.String("method", "", "quantile, equal_interval or manual (config default when empty)")
	flags.Int("classes", 0, "Number of classes (config default when 0)")
	flags.String("palette", "", "Palette name (config default when empty)")
	flags.Float64Slice("breaks", nil, "Breaks for the manual method")
	flags.BoolP("yaml", "y", false, "Output as YAML instead of JSON")
	_ = cmd.MarkFlagRequired("column")
	return cmd
}

func palettesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "palettes",
		Short: "List palette names of an engine",
		Run: func(cmd *cobra.Command, args []string) {
			kind, _ := cmd.Flags().GetString("engine")
			engine, err := colormap.NewEngine(kind)
			if err != nil {
				fatal("%v", err)
			}
			for _, name := range engine.Palettes() {
				fmt.Println(name)
			}
		},
	}
	cmd.Flags().String("engine", colormap.EngineFull, "Palette engine (full or builtin)")
	return cmd
}
