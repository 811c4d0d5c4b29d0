// Package config handles configuration management using Viper
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the application configuration. Input remapping options
// live under [options] and are accessed through the Store, see options.go.
type Config struct {
	Viewer  ViewerConfig  `mapstructure:"viewer"`
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ViewerConfig describes the scene shown by the reference viewers
type ViewerConfig struct {
	SceneWidth      float64 `mapstructure:"scene_width"`
	SceneHeight     float64 `mapstructure:"scene_height"`
	GridSize        float64 `mapstructure:"grid_size"`
	CellWidth       float64 `mapstructure:"cell_width"`  // Pixels per terminal column
	CellHeight      float64 `mapstructure:"cell_height"` // Pixels per terminal row
	Tokens          int     `mapstructure:"tokens"`
	GameMaster      bool    `mapstructure:"game_master"`
	WheelRateLimit  int     `mapstructure:"wheel_rate_limit_ms"`
	FrameInterval   int     `mapstructure:"frame_interval_ms"`
	LockViewEnabled bool    `mapstructure:"lock_view_enabled"` // Simulate the LockView module claiming the drag-pan hook
}

// ServerConfig contains settings for serving the viewer over SSH
type ServerConfig struct {
	Port               int    `mapstructure:"port"`
	BindAddress        string `mapstructure:"bind_address"`
	HostKeyPath        string `mapstructure:"ssh_host_key_path"`
	AuthorizedKeysPath string `mapstructure:"ssh_authorized_keys_path"`
	AllowAnyKey        bool   `mapstructure:"allow_any_key"`
	MaxSessions        int    `mapstructure:"max_sessions"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	LogLevel string `mapstructure:"log_level"` // Overrides LOG_LEVEL env var when set
}

var (
	// DefaultConfig provides sensible defaults
	DefaultConfig = Config{
		Viewer: ViewerConfig{
			SceneWidth:     4000,
			SceneHeight:    3000,
			GridSize:       100,
			CellWidth:      10,
			CellHeight:     20,
			Tokens:         6,
			GameMaster:     false,
			WheelRateLimit: 50,
			FrameInterval:  16,
		},
		Server: ServerConfig{
			Port:               23235,
			BindAddress:        "0.0.0.0",
			HostKeyPath:        ".ssh/zoompan_host_ed25519",
			AuthorizedKeysPath: "",
			AllowAnyKey:        false,
			MaxSessions:        4,
		},
		Logging: LoggingConfig{
			LogLevel: "",
		},
	}

	// Global config instance
	cfg *Config

	// Global option store, bound to the global viper instance by Init
	store *Store

	// Override config path if set
	configPathOverride string
)

// SetConfigPath allows overriding the config path
func SetConfigPath(path string) {
	configPathOverride = path
}

// Init initializes the configuration system
func Init() error {
	viper.SetConfigName("zoompan")
	viper.SetConfigType("toml")

	if configPathOverride != "" {
		viper.SetConfigFile(configPathOverride)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "zoompan"))
		}
		viper.AddConfigPath(".") // Current directory (lowest priority)
	}

	viper.SetDefault("viewer.scene_width", DefaultConfig.Viewer.SceneWidth)
	viper.SetDefault("viewer.scene_height", DefaultConfig.Viewer.SceneHeight)
	viper.SetDefault("viewer.grid_size", DefaultConfig.Viewer.GridSize)
	viper.SetDefault("viewer.cell_width", DefaultConfig.Viewer.CellWidth)
	viper.SetDefault("viewer.cell_height", DefaultConfig.Viewer.CellHeight)
	viper.SetDefault("viewer.tokens", DefaultConfig.Viewer.Tokens)
	viper.SetDefault("viewer.game_master", DefaultConfig.Viewer.GameMaster)
	viper.SetDefault("viewer.wheel_rate_limit_ms", DefaultConfig.Viewer.WheelRateLimit)
	viper.SetDefault("viewer.frame_interval_ms", DefaultConfig.Viewer.FrameInterval)
	viper.SetDefault("viewer.lock_view_enabled", DefaultConfig.Viewer.LockViewEnabled)

	viper.SetDefault("server.port", DefaultConfig.Server.Port)
	viper.SetDefault("server.bind_address", DefaultConfig.Server.BindAddress)
	viper.SetDefault("server.ssh_host_key_path", DefaultConfig.Server.HostKeyPath)
	viper.SetDefault("server.ssh_authorized_keys_path", DefaultConfig.Server.AuthorizedKeysPath)
	viper.SetDefault("server.allow_any_key", DefaultConfig.Server.AllowAnyKey)
	viper.SetDefault("server.max_sessions", DefaultConfig.Server.MaxSessions)

	viper.SetDefault("logging.log_level", DefaultConfig.Logging.LogLevel)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, use defaults
	}

	cfg = &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	store = NewStore(viper.GetViper())
	store.Migrate()

	return nil
}

// Get returns the current configuration
func Get() *Config {
	if cfg == nil {
		// Return defaults if not initialized
		return &DefaultConfig
	}
	return cfg
}

// Set sets the current configuration (for testing)
func Set(c *Config) {
	cfg = c
}

// Options returns the global option store. Before Init it is backed by a
// private viper instance holding only defaults.
func Options() *Store {
	if store == nil {
		store = NewStore(viper.New())
	}
	return store
}

// Save saves the current configuration to file
func Save() error {
	configPath := GetConfigPath()

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := viper.WriteConfigAs(configPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() string {
	if configPathOverride != "" {
		return configPathOverride
	}

	if viper.ConfigFileUsed() != "" {
		return viper.ConfigFileUsed()
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "zoompan.toml"
	}

	return filepath.Join(home, ".config", "zoompan", "zoompan.toml")
}
