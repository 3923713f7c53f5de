// Command meshviewer opens a window with an orbit camera around a cube,
// a torus or a mesh loaded from a file or URL.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/toxichemicals/GO/meshviewer/config"
)

func init() {
	// GLFW event handling must run on the main thread.
	runtime.LockOSThread()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		shape      string
		modelURL   string
		debug      bool
	)

	cmd := &cobra.Command{
		Use:   "meshviewer",
		Short: "Interactive mesh viewer with an orbit camera",
		Long: `meshviewer renders a procedural cube, a torus or a glTF/OBJ mesh.

Drag with the left mouse button to orbit, drag with the right button to pan
and scroll to zoom. R resets the camera, C toggles back face culling, V
toggles vsync and Esc quits.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			setupLogging(debug)

			cfg, err := config.Load(configPath)
			if err != nil {
				slog.Error("config", "err", err)
				return err
			}
			if cmd.Flags().Changed("shape") {
				cfg.Scene.Shape = shape
			}
			if modelURL != "" {
				cfg.Scene.URL = modelURL
				if !cmd.Flags().Changed("shape") {
					cfg.Scene.Shape = config.ShapeURL
				}
			}
			if err := cfg.Validate(); err != nil {
				slog.Error("invalid options", "err", err)
				return err
			}

			if err := run(cmd.Context(), cfg); err != nil {
				slog.Error("viewer failed", "err", err)
				return err
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&configPath, "config", "c", "", "path to a TOML config file")
	f.StringVar(&shape, "shape", config.ShapeTorus, fmt.Sprintf("scene shape: %s, %s or %s", config.ShapeCube, config.ShapeTorus, config.ShapeURL))
	f.StringVar(&modelURL, "model", "", "glTF, GLB or OBJ file path or http(s) URL to load")
	f.BoolVar(&debug, "debug", false, "enable debug logging")
	return cmd
}

func setupLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func run(ctx context.Context, cfg config.Config) error {
	v := NewViewer(cfg)
	defer v.Shutdown()

	if err := v.Init(ctx); err != nil {
		return err
	}
	v.Run(ctx)
	return nil
}
