package input

import (
	"fmt"
	"strings"

	"github.com/bnema/zoompan/internal/config"
)

// Mode is an input scheme deciding how wheel events map to camera operations
type Mode int

const (
	// ModeMouse zooms on plain scroll and rotates with ctrl or shift
	ModeMouse Mode = iota
	// ModeTouchpad pans on scroll, zooms on pinch (ctrl+scroll) and rotates with shift
	ModeTouchpad
	// ModeAlternative pans on scroll, pans horizontally with shift and rotates with alt
	ModeAlternative
)

// Modes lists every mode in declaration order
var Modes = []Mode{ModeMouse, ModeTouchpad, ModeAlternative}

func (m Mode) String() string {
	switch m {
	case ModeMouse:
		return config.ModeMouse
	case ModeTouchpad:
		return config.ModeTouchpad
	case ModeAlternative:
		return config.ModeAlternative
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode maps a configured value to a Mode. Unknown values fall back to
// ModeMouse, the option's default.
func ParseMode(s string) Mode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "touchpad":
		return ModeTouchpad
	case "alternative":
		return ModeAlternative
	default:
		return ModeMouse
	}
}

// SelectMode resolves the effective mode of one event. With auto-detection
// off the configured mode always applies. With it on, mouse events use
// ModeMouse and touchpad events keep Alternative when configured, otherwise
// use Touchpad.
func SelectMode(autoDetect, isTouchpad bool, configured Mode) Mode {
	if !autoDetect {
		return configured
	}
	if !isTouchpad {
		return ModeMouse
	}
	if configured == ModeAlternative {
		return ModeAlternative
	}
	return ModeTouchpad
}

// ToggleTouchpad switches between Touchpad and Mouse. Alternative goes to Touchpad.
func ToggleTouchpad(m Mode) Mode {
	if m == ModeMouse || m == ModeAlternative {
		return ModeTouchpad
	}
	return ModeMouse
}

// ToggleAlternative switches between Alternative and Mouse. Touchpad goes to Alternative.
func ToggleAlternative(m Mode) Mode {
	if m == ModeMouse || m == ModeTouchpad {
		return ModeAlternative
	}
	return ModeMouse
}
