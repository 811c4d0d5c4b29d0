// Package window runs the canvas viewer in a desktop window. The window
// itself needs the ebiten build tag; the event translation here does not.
package window

import (
	"errors"
	"math"

	"github.com/bnema/zoompan/internal/input"
)

// ErrUnavailable is returned by Run in builds without window support
var ErrUnavailable = errors.New("window support not built in, rebuild with -tags ebiten")

// Offsets reported by the windowing system are in lines. A mouse notch is
// one line, which browsers report as 100px of deltaY and a legacy
// wheelDelta of 120.
const (
	pixelsPerLine     = 100
	legacyPerLine     = 120
	touchpadLegacyMul = -3 // Chromium's wheelDeltaY for a touchpad pixel delta
)

// Modifiers are the keys held during a wheel event
type Modifiers struct {
	Shift, Ctrl, Alt, Meta bool
}

// WheelEvent converts wheel offsets at cursor into an input wheel event.
// Positive yoff scrolls up. It returns nil when both offsets are zero.
func WheelEvent(xoff, yoff float64, cursor input.Point, mods Modifiers) *input.WheelEvent {
	if xoff == 0 && yoff == 0 {
		return nil
	}
	ev := &input.WheelEvent{
		DeltaX:   -xoff * pixelsPerLine,
		DeltaY:   -yoff * pixelsPerLine,
		ClientX:  cursor.X,
		ClientY:  cursor.Y,
		ShiftKey: mods.Shift,
		CtrlKey:  mods.Ctrl,
		AltKey:   mods.Alt,
		MetaKey:  mods.Meta,
	}

	switch {
	case isNotch(xoff) && isNotch(yoff) && xoff == 0:
		// Vertical mouse notch
		ev.DeltaMode = input.DeltaPixel
		ev.WheelDelta = input.Float(yoff * legacyPerLine)
		ev.WheelDeltaY = input.Float(yoff * legacyPerLine)
	case isNotch(xoff) && isNotch(yoff) && yoff == 0:
		// Horizontal mouse notch. A zero wheelDeltaY would read as a touchpad.
		ev.DeltaMode = input.DeltaLine
	default:
		// Continuous scrolling
		ev.DeltaMode = input.DeltaPixel
		ev.WheelDelta = input.Float(touchpadLegacyMul * ev.DeltaY)
		ev.WheelDeltaY = input.Float(touchpadLegacyMul * ev.DeltaY)
	}
	return ev
}

func isNotch(v float64) bool {
	return v == math.Trunc(v)
}
