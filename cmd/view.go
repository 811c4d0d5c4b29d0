package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/bnema/zoompan/internal/canvas"
	"github.com/bnema/zoompan/internal/config"
	"github.com/bnema/zoompan/internal/input"
	"github.com/bnema/zoompan/internal/logger"
	"github.com/bnema/zoompan/internal/ui"
)

var viewLogFile string

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Open the canvas in the terminal",
	Long: `Open the canvas in the terminal. The mouse wheel zooms or pans depending on
the pan-zoom mode, middle-button drags pan when middle-mouse-pan is on and
left-button drags move tokens. Press ? for the key bindings.

Terminals report wheel notches only, so touchpad scrolling arrives as a
series of mouse notches.`,
	RunE: runView,
}

func init() {
	viewCmd.Flags().StringVar(&viewLogFile, "log-file", "", "Write logs to this file while the viewer runs")
	rootCmd.AddCommand(viewCmd)
}

func runView(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	store := config.Options()

	// Log lines would scribble over the alternate screen
	var out io.Writer = io.Discard
	if viewLogFile != "" {
		f, err := os.OpenFile(viewLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		out = f
	}
	logger.SetOutput(out)
	defer logger.SetOutput(os.Stderr)

	world, err := canvas.NewWorld(cfg.Viewer, store, input.Size{})
	if err != nil {
		return err
	}
	viewer := ui.NewViewer(world, store, ui.CellGeometry{
		CellWidth:  cfg.Viewer.CellWidth,
		CellHeight: cfg.Viewer.CellHeight,
	})

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	runner := ui.NewProgramRunner(ui.DefaultProgramConfig())
	return runner.Run(ctx, viewer)
}
