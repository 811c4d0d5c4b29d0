package input

import "math"

// Point is a position in screen pixels or world units depending on context
type Point struct {
	X, Y float64
}

// Add returns p+q
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p-q
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Distance returns the Euclidean distance between p and q
func (p Point) Distance(q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

// Size is a width/height pair
type Size struct {
	Width, Height float64
}

// DeltaMode is the unit of a wheel event's deltas
type DeltaMode int

const (
	DeltaPixel DeltaMode = iota
	DeltaLine
	DeltaPage
)

// WheelEvent is one raw wheel tick as delivered by the platform
type WheelEvent struct {
	DeltaX    float64
	DeltaY    float64
	DeltaMode DeltaMode

	// Legacy high-resolution fields. Platforms that do not report them leave
	// the pointers nil.
	WheelDelta  *float64
	WheelDeltaY *float64

	ClientX, ClientY float64

	ShiftKey bool
	CtrlKey  bool
	MetaKey  bool
	AltKey   bool

	defaultPrevented bool
}

// PreventDefault marks the event as consumed so the platform skips its own
// handling (browser zoom, page scroll)
func (e *WheelEvent) PreventDefault() {
	e.defaultPrevented = true
}

// DefaultPrevented reports whether PreventDefault was called
func (e *WheelEvent) DefaultPrevented() bool {
	return e.defaultPrevented
}

// Client returns the cursor position in screen pixels
func (e *WheelEvent) Client() Point {
	return Point{X: e.ClientX, Y: e.ClientY}
}

// CtrlOrMeta reports whether ctrl or meta is held; meta (cmd, win) behaves like ctrl
func (e *WheelEvent) CtrlOrMeta() bool {
	return e.CtrlKey || e.MetaKey
}

// Float returns a pointer to v, for the legacy wheel fields
func Float(v float64) *float64 {
	return &v
}

// Button identifies a mouse button, numbered like DOM MouseEvent.button
type Button int

const (
	ButtonLeft Button = iota
	ButtonMiddle
	ButtonRight
)

func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonMiddle:
		return "middle"
	case ButtonRight:
		return "right"
	default:
		return "unknown"
	}
}

// PointerEvent is a button or move event on the canvas
type PointerEvent struct {
	Button Button
	Screen Point // Position in screen pixels
	Local  Point // Position in the canvas layer's coordinates

	// Interaction data filled in by the drag emulator before dispatch
	Origin      Point
	Destination Point

	// Set by the host when an earlier handler already consumed the event
	DefaultPrevented bool
}
