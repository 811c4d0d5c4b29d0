package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bnema/zoompan/internal/config"
	"github.com/bnema/zoompan/internal/logger"
)

var (
	configPath string
	logLevel   string

	rootCmd = &cobra.Command{
		Use:   "zoompan",
		Short: "zoompan - wheel and drag remapping for canvas viewers",
		Long: `zoompan remaps mouse wheel, touchpad and middle-button input on a 2D canvas.
It zooms around the cursor, pans with the wheel or a middle-button drag,
pans at the viewport edge while dragging and keeps working alongside LockView.

The canvas can be opened in the terminal, in a window or over SSH.`,
		SilenceUsage:      true,
		PersistentPreRunE: initConfig,
	}
)

// Execute runs the root command
func Execute() error {
	rootCmd.Version = Version
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s\n" .Version}}`)

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $HOME/.config/zoompan/zoompan.toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
}

// initConfig loads the config file and applies the log level. The flag
// wins over the config file, which wins over LOG_LEVEL.
func initConfig(cmd *cobra.Command, args []string) error {
	if configPath != "" {
		config.SetConfigPath(configPath)
	}
	if err := config.Init(); err != nil {
		return err
	}

	switch {
	case logLevel != "":
		logger.SetLevel(logLevel)
	case config.Get().Logging.LogLevel != "":
		logger.SetLevel(config.Get().Logging.LogLevel)
	}
	return nil
}

// signalContext returns a context cancelled on SIGINT or SIGTERM
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigCh)
		select {
		case sig := <-sigCh:
			logger.Debugf("received %s, shutting down", sig)
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}
