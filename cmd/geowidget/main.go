package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/joeblew999/geowidget/internal/config"
	"github.com/joeblew999/geowidget/internal/db"
	"github.com/joeblew999/geowidget/internal/logging"
	"github.com/joeblew999/geowidget/internal/server"
)

// Options defines all CLI flags and env vars for the server.
// Flags: --host, --port, --data-dir, --config
// Env vars: SERVICE_HOST, SERVICE_PORT, SERVICE_DATA_DIR, SERVICE_CONFIG
type Options struct {
	Host    string `doc:"Host to bind to" default:"0.0.0.0"`
	Port    int    `doc:"Port to listen on" short:"p" default:"8086"`
	DataDir string `doc:"Directory for maps and sources" default:".data"`
	Config  string `doc:"Path to a YAML/JSON/TOML configuration file" short:"c"`
}

func newServer(opts *Options, app *config.Config, log *zap.Logger) (*server.Server, error) {
	conn, err := db.Get(db.Config{DataDir: opts.DataDir, DBName: "geowidget"})
	if err != nil {
		log.Warn("duckdb unavailable, parquet sources disabled", zap.Error(err))
		conn = nil
	}
	return server.New(server.Config{
		Host:    opts.Host,
		Port:    fmt.Sprintf("%d", opts.Port),
		DataDir: opts.DataDir,
		App:     app,
		DB:      conn,
		Logger:  log,
	})
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

// printOut writes v as indented JSON, or YAML when asYAML is set.
func printOut(v any, asYAML bool) error {
	var (
		out []byte
		err error
	)
	if asYAML {
		out, err = yaml.Marshal(v)
	} else {
		out, err = json.MarshalIndent(v, "", "  ")
	}
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func main() {
	cli := humacli.New(func(hooks humacli.Hooks, opts *Options) {
		app, err := config.Load(opts.Config)
		if err != nil {
			fatal("Error loading config: %v", err)
		}
		log, err := logging.New(app.Logging)
		if err != nil {
			fatal("Error creating logger: %v", err)
		}
		srv, err := newServer(opts, app, log)
		if err != nil {
			fatal("Error creating server: %v", err)
		}

		hooks.OnStart(func() {
			defer log.Sync()
			defer db.Close()

			addr := fmt.Sprintf("%s:%d", opts.Host, opts.Port)
			displayHost := opts.Host
			if displayHost == "0.0.0.0" {
				displayHost = "localhost"
			}
			baseURL := fmt.Sprintf("http://%s:%d", displayHost, opts.Port)

			log.Info("server starting",
				zap.String("url", baseURL),
				zap.String("data_dir", opts.DataDir),
				zap.String("palette_engine", app.Palette.Engine),
				zap.String("docs", baseURL+"/docs"),
			)
			if err := http.ListenAndServe(addr, srv); err != nil {
				log.Fatal("server error", zap.Error(err))
			}
		})
	})

	cli.Root().Use = "geowidget"
	cli.Root().Short = "Map widget service with choropleth classification"
	cli.Root().Version = "1.0.0"

	// spec subcommand: export OpenAPI spec
	specCmd := &cobra.Command{
		Use:   "spec",
		Short: "Export OpenAPI spec (JSON by default, --yaml for YAML)",
		Run: humacli.WithOptions(func(cmd *cobra.Command, args []string, opts *Options) {
			app, err := config.Load(opts.Config)
			if err != nil {
				fatal("Error loading config: %v", err)
			}
			srv, err := server.New(server.Config{Host: opts.Host, Port: fmt.Sprintf("%d", opts.Port), DataDir: opts.DataDir, App: app})
			if err != nil {
				fatal("Error creating server: %v", err)
			}
			useYAML, _ := cmd.Flags().GetBool("yaml")
			if err := printOut(srv.OpenAPI(), useYAML); err != nil {
				fatal("Error marshaling spec: %v", err)
			}
		}),
	}
	specCmd.Flags().BoolP("yaml", "y", false, "Output as YAML instead of JSON")
	cli.Root().AddCommand(specCmd)

	cli.Root().AddCommand(classifyCommand(), palettesCommand())

	cli.Run()
}
