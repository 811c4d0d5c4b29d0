package cmd

import (
	"fmt"
	"os"
	"reflect"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bnema/zoompan/internal/config"
	"github.com/bnema/zoompan/internal/logger"
	"github.com/bnema/zoompan/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage zoompan configuration",
	Long:  `Manage zoompan configuration: input options, viewer scene and SSH server settings.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()
		out := cmd.OutOrStdout()

		fmt.Fprintln(out, ui.HeaderStyle.Render("zoompan configuration"))
		fmt.Fprintln(out, ui.SubtleStyle.Render("Config file: "+config.GetConfigPath()))
		fmt.Fprintln(out, ui.CreateSeparator(50, ""))

		fmt.Fprintln(out, ui.TitleStyle.Render("[options]"))
		store := config.Options()
		for _, opt := range config.Schema {
			if opt.Hidden {
				continue
			}
			v, err := store.Get(opt.Name)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, "  "+ui.FormatOption(opt.Name, fmt.Sprint(v), reflect.DeepEqual(v, opt.Default)))
		}

		fmt.Fprintln(out, "\n"+ui.TitleStyle.Render("[viewer]"))
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "  Scene\t%vx%v, grid %v\n", cfg.Viewer.SceneWidth, cfg.Viewer.SceneHeight, cfg.Viewer.GridSize)
		fmt.Fprintf(w, "  Cell size\t%vx%v px\n", cfg.Viewer.CellWidth, cfg.Viewer.CellHeight)
		fmt.Fprintf(w, "  Tokens\t%d\n", cfg.Viewer.Tokens)
		fmt.Fprintf(w, "  Game master\t%v\n", cfg.Viewer.GameMaster)
		fmt.Fprintf(w, "  Wheel rate limit\t%d ms\n", cfg.Viewer.WheelRateLimit)
		fmt.Fprintf(w, "  Frame interval\t%d ms\n", cfg.Viewer.FrameInterval)
		fmt.Fprintf(w, "  LockView\t%v\n", cfg.Viewer.LockViewEnabled)
		if err := w.Flush(); err != nil {
			return err
		}

		fmt.Fprintln(out, "\n"+ui.TitleStyle.Render("[server]"))
		w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "  Listen\t%s:%d\n", cfg.Server.BindAddress, cfg.Server.Port)
		fmt.Fprintf(w, "  Host key\t%s\n", cfg.Server.HostKeyPath)
		fmt.Fprintf(w, "  Authorized keys\t%s\n", cfg.Server.AuthorizedKeysPath)
		fmt.Fprintf(w, "  Allow any key\t%v\n", cfg.Server.AllowAnyKey)
		fmt.Fprintf(w, "  Max sessions\t%d\n", cfg.Server.MaxSessions)
		return w.Flush()
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <option>",
	Short: "Print the value of an option",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := config.Options().Get(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), v)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <option> <value>",
	Short: "Set an option and save the configuration",
	Long: `Set an option and save the configuration.

Choices are matched case-insensitively, so "touchpad" selects Touchpad.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, value := args[0], args[1]
		store := config.Options()
		if err := store.Set(name, value); err != nil {
			return err
		}
		if err := config.Save(); err != nil {
			return err
		}
		v, _ := store.Get(name)
		fmt.Fprintln(cmd.OutOrStdout(), ui.FormatResult(true, fmt.Sprintf("%s = %v", name, v)))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration file with defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := config.GetConfigPath()
		if _, err := os.Stat(configPath); err == nil {
			force, _ := cmd.Flags().GetBool("force")
			if !force {
				logger.Infof("Configuration file already exists at: %s", configPath)
				logger.Info("Use --force to overwrite")
				return nil
			}
		}

		if err := config.Save(); err != nil {
			return err
		}

		logger.Infof("Configuration initialized at: %s", configPath)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every option with its type and description",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "Option\tType\tDefault\tDescription")
		for _, opt := range config.Schema {
			if opt.Hidden {
				continue
			}
			fmt.Fprintf(w, "%s\t%s\t%v\t%s\n", opt.Name, opt.Kind, opt.Default, opt.Hint)
		}
		return w.Flush()
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	configInitCmd.Flags().Bool("force", false, "Force overwrite existing configuration")

	rootCmd.AddCommand(configCmd)
}
