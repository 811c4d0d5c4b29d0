// Package ui provides the terminal viewer and the shared styling of the zoompan CLI
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette - consistent across the application
var (
	ColorPrimary   = lipgloss.Color("39")  // Bright blue
	ColorSecondary = lipgloss.Color("205") // Pink/magenta
	ColorSuccess   = lipgloss.Color("82")  // Green
	ColorWarning   = lipgloss.Color("214") // Orange
	ColorError     = lipgloss.Color("196") // Red
	ColorInfo      = lipgloss.Color("86")  // Cyan

	ColorText   = lipgloss.Color("252") // Light gray
	ColorSubtle = lipgloss.Color("241") // Medium gray
	ColorMuted  = lipgloss.Color("238") // Dark gray
	ColorGrid   = lipgloss.Color("236")
)

// Base styles
var (
	SubtleStyle = lipgloss.NewStyle().
			Foreground(ColorSubtle)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			MarginBottom(1)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			Background(ColorMuted).
			Padding(0, 1)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError)

	InfoStyle = lipgloss.NewStyle().
			Foreground(ColorInfo)
)

// Viewer styles
var (
	GridStyle = lipgloss.NewStyle().
			Foreground(ColorGrid)

	TokenStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSecondary)

	ControlledTokenStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorSuccess)

	HoveredTokenStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorWarning)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Background(ColorMuted)

	ModeBadgeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("0")).
			Background(ColorPrimary).
			Padding(0, 1)

	LockedBadgeStyle = ModeBadgeStyle.
				Background(ColorError)

	ControlKeyStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)
)

// Icons
var (
	IconSuccess = "✓"
	IconError   = "✗"
	IconToken   = "●"
	IconLock    = "#"
)

// FormatOption renders one option line of config show
func FormatOption(name, value string, isDefault bool) string {
	v := InfoStyle.Render(value)
	if !isDefault {
		v = WarningStyle.Render(value)
	}
	return ControlKeyStyle.Render(name) + " = " + v
}

// FormatResult renders a success or failure line
func FormatResult(success bool, message string) string {
	if success {
		return SuccessStyle.Render(IconSuccess) + " " + message
	}
	return ErrorStyle.Render(IconError) + " " + message
}

// CreateSeparator creates a horizontal line separator
func CreateSeparator(width int, char string) string {
	if width <= 0 {
		width = 50
	}
	if char == "" {
		char = "─"
	}
	return lipgloss.NewStyle().
		Foreground(ColorSubtle).
		Render(strings.Repeat(char, width))
}
