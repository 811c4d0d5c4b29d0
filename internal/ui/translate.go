package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bnema/zoompan/internal/input"
)

// Terminal wheel ticks are reported like a browser's mouse notch: 100px of
// deltaY and a legacy wheelDelta of 120 pointing the other way
const (
	notchDelta       = 100
	legacyNotchDelta = 120
)

// CellGeometry maps terminal cells to virtual screen pixels
type CellGeometry struct {
	CellWidth  float64
	CellHeight float64
}

// ScreenPoint returns the pixel at the center of cell (x, y)
func (g CellGeometry) ScreenPoint(x, y int) input.Point {
	return input.Point{
		X: (float64(x) + 0.5) * g.CellWidth,
		Y: (float64(y) + 0.5) * g.CellHeight,
	}
}

// Cell returns the cell containing the pixel p
func (g CellGeometry) Cell(p input.Point) (x, y int) {
	return int(p.X / g.CellWidth), int(p.Y / g.CellHeight)
}

// IsWheel reports whether msg is a wheel tick
func IsWheel(msg tea.MouseMsg) bool {
	return tea.MouseEvent(msg).IsWheel()
}

// WheelEventFromMouse converts a terminal wheel tick. It returns nil for
// anything else.
func WheelEventFromMouse(msg tea.MouseMsg, g CellGeometry) *input.WheelEvent {
	p := g.ScreenPoint(msg.X, msg.Y)
	ev := &input.WheelEvent{
		DeltaMode: input.DeltaPixel,
		ClientX:   p.X,
		ClientY:   p.Y,
		ShiftKey:  msg.Shift,
		CtrlKey:   msg.Ctrl,
		AltKey:    msg.Alt,
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		ev.DeltaY = -notchDelta
		ev.WheelDelta = input.Float(legacyNotchDelta)
		ev.WheelDeltaY = input.Float(legacyNotchDelta)
	case tea.MouseButtonWheelDown:
		ev.DeltaY = notchDelta
		ev.WheelDelta = input.Float(-legacyNotchDelta)
		ev.WheelDeltaY = input.Float(-legacyNotchDelta)
	case tea.MouseButtonWheelLeft:
		// No legacy vertical field: a zero wheelDeltaY would look like a touchpad
		ev.DeltaX = -notchDelta
		ev.DeltaMode = input.DeltaLine
	case tea.MouseButtonWheelRight:
		ev.DeltaX = notchDelta
		ev.DeltaMode = input.DeltaLine
	default:
		return nil
	}
	return ev
}

// PointerButton maps a terminal button to an input button
func PointerButton(b tea.MouseButton) (input.Button, bool) {
	switch b {
	case tea.MouseButtonLeft:
		return input.ButtonLeft, true
	case tea.MouseButtonMiddle:
		return input.ButtonMiddle, true
	case tea.MouseButtonRight:
		return input.ButtonRight, true
	}
	return 0, false
}
