package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bnema/zoompan/internal/config"
	"github.com/bnema/zoompan/internal/logger"
	"github.com/bnema/zoompan/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the terminal viewer over SSH",
	Long: `Serve the terminal viewer over SSH. Every session gets its own canvas and
its own copy of the options, so mode toggles stay local to the session.

Only keys listed in the authorized keys file are accepted unless
--allow-any-key is set.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntP("port", "p", 0, "Port to listen on")
	serveCmd.Flags().StringP("bind", "b", "", "Bind address")
	serveCmd.Flags().String("authorized-keys", "", "Path to an authorized_keys file")
	serveCmd.Flags().Bool("allow-any-key", false, "Accept any public key")
	serveCmd.Flags().Int("max-sessions", 0, "Maximum concurrent sessions, 0 for no limit")

	// Bind flags to viper
	_ = viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	_ = viper.BindPFlag("server.bind_address", serveCmd.Flags().Lookup("bind"))
	_ = viper.BindPFlag("server.ssh_authorized_keys_path", serveCmd.Flags().Lookup("authorized-keys"))
	_ = viper.BindPFlag("server.allow_any_key", serveCmd.Flags().Lookup("allow-any-key"))
	_ = viper.BindPFlag("server.max_sessions", serveCmd.Flags().Lookup("max-sessions"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	srv, err := server.New(cfg.Server, cfg.Viewer, config.Options())
	if err != nil {
		return err
	}
	if cfg.Server.AllowAnyKey {
		logger.Warn("accepting any public key")
	}
	logger.Infof("SSH host key: %s", cfg.Server.HostKeyPath)

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()
	return srv.ListenAndServe(ctx)
}
