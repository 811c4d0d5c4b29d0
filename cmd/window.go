package cmd

import (
	"github.com/spf13/cobra"

	"github.com/bnema/zoompan/internal/canvas"
	"github.com/bnema/zoompan/internal/config"
	"github.com/bnema/zoompan/internal/input"
	"github.com/bnema/zoompan/internal/window"
)

var (
	windowWidth  int
	windowHeight int
)

var windowCmd = &cobra.Command{
	Use:   "window",
	Short: "Open the canvas in a desktop window",
	Long: `Open the canvas in a desktop window. Unlike the terminal viewer the window
receives fractional touchpad offsets, so touchpad auto-detection works.

Keys: t touchpad mode, a alternative mode, m middle-button pan,
d auto-detect, c zoom around cursor, Z/P LockView locks, r reset, q quit.

Requires a build with -tags ebiten.`,
	RunE: runWindow,
}

func init() {
	windowCmd.Flags().IntVar(&windowWidth, "width", 1280, "Window width in pixels")
	windowCmd.Flags().IntVar(&windowHeight, "height", 800, "Window height in pixels")
	rootCmd.AddCommand(windowCmd)
}

func runWindow(cmd *cobra.Command, args []string) error {
	if !window.Available {
		return window.ErrUnavailable
	}

	cfg := config.Get()
	store := config.Options()
	world, err := canvas.NewWorld(cfg.Viewer, store, input.Size{
		Width:  float64(windowWidth),
		Height: float64(windowHeight),
	})
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()
	return window.Run(ctx, world, store, windowWidth, windowHeight)
}
