// Package cli implements the polaroid command line.
package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/gogpu/polaroid"
	"github.com/gogpu/polaroid/internal/config"
	"github.com/gogpu/polaroid/raster"
)

var (
	version = "dev"

	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "polaroid",
	Short: "Compose a photo and a caption into a polaroid print",
	Long: `polaroid places a photo in a white print frame, adds a caption below it
and exports the result as a PNG or JPEG picture.

Use "polaroid render" for a one-shot export or "polaroid serve" to edit
compositions over HTTP.

Configuration: ~/.polaroid/config.yaml (see "polaroid config init").`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		setupLogging(cmd.ErrOrStderr(), verbose)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "polaroid %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.polaroid/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.AddCommand(versionCmd)
}

// SetVersion sets the version reported by "polaroid version".
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// setupLogging routes polaroid and gg logs to w.
func setupLogging(w io.Writer, debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	l := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	polaroid.SetLogger(l)
	raster.SetLogger(l)
}

func newLoader() (*config.Loader, error) {
	if configPath != "" {
		return config.NewLoaderWithPath(configPath), nil
	}
	return config.NewLoader()
}

func loadConfig() (*config.Config, error) {
	l, err := newLoader()
	if err != nil {
		return nil, err
	}
	return l.Load()
}

// newRenderer builds a rasterizer from the configuration. format overrides
// the configured export format when not empty.
func newRenderer(cfg *config.Config, format polaroid.Format) (*raster.Renderer, error) {
	if format == "" {
		format = cfg.ExportFormat()
	}
	opts := []raster.Option{
		raster.WithFormat(format),
		raster.WithJPEGQuality(cfg.Export.JPEGQuality),
	}
	for family, path := range cfg.Fonts {
		opts = append(opts, raster.WithFontFile(family, path))
	}
	if cfg.Export.ComplexShaping {
		opts = append(opts, raster.WithComplexShaping())
	}
	return raster.New(opts...)
}

func newManager(cfg *config.Config, r polaroid.Rasterizer) *polaroid.Manager {
	return polaroid.NewManager(
		polaroid.WithRasterizer(r),
		polaroid.WithFrame(cfg.Frame),
		polaroid.WithStyle(cfg.Style),
	)
}
