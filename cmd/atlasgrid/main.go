// AtlasGrid generates atlas grids: lattices of named, numbered map sheets
// covering an extent, optionally reduced to the sheets needed for an area
// of interest.
//
// Build:
//   go build -o atlasgrid ./cmd/atlasgrid
//
// The GEOS engine needs libgeos at build and run time; use --engine rect
// for rectangle-only areas of interest without it.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/piwi3910/AtlasGrid/internal/engine"
	"github.com/piwi3910/AtlasGrid/internal/geometry"
	"github.com/piwi3910/AtlasGrid/internal/model"
	"github.com/piwi3910/AtlasGrid/internal/project"
)

// exitCancelled is the conventional status for a run stopped by SIGINT.
const exitCancelled = 130

// app holds state shared by all subcommands.
type app struct {
	configPath string
	logLevel   string

	config model.AppConfig
	custom []model.PagePreset
	logger *slog.Logger
}

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{}
	root := a.rootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		if errors.Is(err, engine.ErrCancelled) {
			fmt.Fprintln(os.Stderr, "cancelled")
			return exitCancelled
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "atlasgrid",
		Short:         "Generate atlas grids of map sheets",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", project.DefaultConfigPath(), "Application config file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error (default from config)")

	root.AddCommand(a.generateCmd(), a.compareCmd(), a.presetsCmd())
	return root
}

// setup loads the config and custom presets and configures logging.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := project.LoadAppConfig(a.configPath)
	if err != nil {
		return fmt.Errorf("load config %s: %w", a.configPath, err)
	}
	a.config = cfg

	a.custom, err = project.LoadCustomPresets(a.presetsPath())
	if err != nil {
		return fmt.Errorf("load presets: %w", err)
	}

	level := cfg.LogLevel
	if cmd.Flags().Changed("log-level") {
		level = a.logLevel
	}
	var lvl slog.Level
	if level != "" {
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return fmt.Errorf("invalid log level %q", level)
		}
	}
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(a.logger)
	return nil
}

// presetsPath keeps custom presets next to the config file.
func (a *app) presetsPath() string {
	return filepath.Join(filepath.Dir(a.configPath), "presets.json")
}

func newEngine(name string) (geometry.Engine, error) {
	switch name {
	case "", "geos":
		return geometry.NewGEOSEngine(), nil
	case "rect":
		return geometry.NewRectEngine(), nil
	}
	return nil, fmt.Errorf("unknown geometry engine %q (must be geos or rect)", name)
}
