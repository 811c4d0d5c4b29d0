package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/zoompan/internal/config"
	"github.com/bnema/zoompan/internal/window"
)

// Helper function to execute cobra commands in tests
func executeCommand(root *cobra.Command, args ...string) (string, error) {
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

// withHome points HOME at a fresh directory and resets viper
func withHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	viper.Reset()
	t.Cleanup(viper.Reset)
	return home
}

func configFile(home string) string {
	return filepath.Join(home, ".config", "zoompan", "zoompan.toml")
}

func TestConfigInit(t *testing.T) {
	home := withHome(t)

	t.Run("creates config file when it doesn't exist", func(t *testing.T) {
		_, err := executeCommand(rootCmd, "config", "init")
		require.NoError(t, err)
		assert.FileExists(t, configFile(home))
	})

	t.Run("doesn't overwrite existing config without force", func(t *testing.T) {
		require.NoError(t, os.WriteFile(configFile(home), []byte("test = true\n"), 0o600))
		viper.Reset()

		_, err := executeCommand(rootCmd, "config", "init")
		require.NoError(t, err)

		content, _ := os.ReadFile(configFile(home))
		assert.Equal(t, "test = true\n", string(content))
	})

	t.Run("overwrites with force flag", func(t *testing.T) {
		viper.Reset()

		_, err := executeCommand(rootCmd, "config", "init", "--force")
		require.NoError(t, err)

		content, _ := os.ReadFile(configFile(home))
		assert.Contains(t, string(content), "pan-zoom-mode")
	})
}

func TestConfigSetGet(t *testing.T) {
	home := withHome(t)

	out, err := executeCommand(rootCmd, "config", "set", "pan-zoom-mode", "trackpad")
	require.NoError(t, err)
	assert.Contains(t, out, "pan-zoom-mode = Touchpad")

	content, err := os.ReadFile(configFile(home))
	require.NoError(t, err)
	assert.Contains(t, string(content), "Touchpad")

	// A fresh load reads the saved value back
	viper.Reset()
	out, err = executeCommand(rootCmd, "config", "get", "pan-zoom-mode")
	require.NoError(t, err)
	assert.Equal(t, "Touchpad\n", out)
}

func TestConfigSetRejectsBadValues(t *testing.T) {
	home := withHome(t)

	_, err := executeCommand(rootCmd, "config", "set", "pan-zoom-mode", "joystick")
	assert.ErrorIs(t, err, config.ErrInvalidChoice)

	_, err = executeCommand(rootCmd, "config", "set", "no-such-option", "1")
	assert.ErrorIs(t, err, config.ErrUnknownOption)

	assert.NoFileExists(t, configFile(home))
}

func TestConfigShow(t *testing.T) {
	withHome(t)

	out, err := executeCommand(rootCmd, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "zoom-around-cursor")
	assert.Contains(t, out, "23235")
	// Legacy options stay out of sight
	assert.NotContains(t, out, "touchpad-scroll")
}

func TestConfigList(t *testing.T) {
	withHome(t)

	out, err := executeCommand(rootCmd, "config", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "pad-value-when-dragging")
	assert.Contains(t, out, "choice")
}

func TestConfigMigratesOnLoad(t *testing.T) {
	home := withHome(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(configFile(home)), 0o750))
	require.NoError(t, os.WriteFile(configFile(home), []byte("[options]\n\"touchpad-scroll\" = true\n"), 0o600))

	out, err := executeCommand(rootCmd, "config", "get", "pan-zoom-mode")
	require.NoError(t, err)
	assert.Equal(t, "Touchpad\n", out)
}

func TestSetupAnswers(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		store := config.NewStore(viper.New())
		answers := answersFrom(store.Snapshot())
		assert.Equal(t, config.ModeMouse, answers.Mode)
		assert.Equal(t, "0", answers.ZoomSpeed)
		assert.Equal(t, "1", answers.PanSpeed)

		answers.Mode = config.ModeAlternative
		answers.PanSpeed = "2.5"
		answers.MiddleMousePan = true
		require.NoError(t, answers.apply(store))

		snap := store.Snapshot()
		assert.Equal(t, config.ModeAlternative, snap.PanZoomMode)
		assert.Equal(t, 2.5, snap.PanSpeedMultiplier)
		assert.True(t, snap.MiddleMousePan)
	})

	t.Run("invalid number", func(t *testing.T) {
		store := config.NewStore(viper.New())
		answers := answersFrom(store.Snapshot())
		answers.ZoomSpeed = "fast"
		assert.ErrorIs(t, answers.apply(store), config.ErrInvalidValue)
	})

	t.Run("validators", func(t *testing.T) {
		assert.NoError(t, validateOption(config.OptPanSpeedMultiplier)("1.5"))
		assert.Error(t, validateOption(config.OptPanSpeedMultiplier)("x"))
		assert.ErrorIs(t, validateOption("nope")("1"), config.ErrUnknownOption)
	})
}

func TestWindowUnavailable(t *testing.T) {
	withHome(t)
	if window.Available {
		t.Skip("built with window support")
	}
	_, err := executeCommand(rootCmd, "window")
	assert.ErrorIs(t, err, window.ErrUnavailable)
}
