package input

import (
	"time"

	"github.com/bnema/zoompan/internal/config"
	"github.com/bnema/zoompan/internal/intercept"
)

// Names used by the host integration
const (
	// ModuleID namespaces scene flags and owns interception registrations
	ModuleID = "zoom-pan-options"

	// BoardElementID is the id of the canvas surface element
	BoardElementID = "board"

	// LockViewModuleID is the third-party module whose camera locks the guard honors
	LockViewModuleID = "LockView"

	// Interception targets
	TargetWheel         = "MouseManager.prototype._onWheel"
	TargetDragCanvasPan = "Canvas.prototype._onDragCanvasPan"

	// CoreMaxZoom is handed to the host so its own clamp never undercuts ours
	CoreMaxZoom = 999
)

// CameraState is the host camera at the time of the read
type CameraState struct {
	Pivot Point
	Scale float64
}

// PanRequest is a partial camera update. Nil fields stay unchanged.
type PanRequest struct {
	X     *float64
	Y     *float64
	Scale *float64
}

// SceneDimensions describes the active scene
type SceneDimensions struct {
	Width, Height float64
	GridSize      float64
}

// Camera is the host camera surface the engines drive
type Camera interface {
	CameraState() CameraState
	Pan(req PanRequest)
	AnimatePan(req PanRequest, duration time.Duration)
	ScreenToWorld(p Point) Point
}

// Layer is the active canvas layer
type Layer interface {
	// Placeable reports whether the layer holds rotatable placeables
	Placeable() bool
	// ControllableObjects reports whether rotation targets the controlled set
	// rather than the hovered object
	ControllableObjects() bool
	ControlledCount() int
	HasHover() bool
	// Rotate turns the layer's selection by one wheel step
	Rotate(delta float64, fine bool)
}

// Host is everything the core consumes from the rendering engine
type Host interface {
	Camera
	Ready() bool
	ViewportSize() Size
	SceneDimensions() SceneDimensions
	HoveredElementID(p Point) string
	SceneFlag(namespace, key string) (any, bool)
	ActiveLayer() Layer
	IsGM() bool
	// WheelRateLimit is the minimum gap between two rotation steps
	WheelRateLimit() time.Duration
	// FrameInterval is the duration of one render tick
	FrameInterval() time.Duration
	SetCoreMaxZoom(scale float64)
}

// DragAction names a drag-gesture callback
type DragAction string

const (
	ActionClickRight     DragAction = "clickRight"
	ActionDragRight      DragAction = "dragRight"
	ActionDragRightStart DragAction = "dragRightStart"
	ActionDragRightMove  DragAction = "dragRightMove"
	ActionDragRightDrop  DragAction = "dragRightDrop"
)

// CallbackResult is the outcome of a host drag callback
type CallbackResult int

const (
	// CallbackNone means no callback was bound or it returned nothing
	CallbackNone CallbackResult = iota
	CallbackHandled
	CallbackRefused
	// CallbackPrevented is CallbackHandled with the event's default
	// prevented: a drop keeps the gesture alive for a later stage
	CallbackPrevented
)

func (r CallbackResult) handled() bool {
	return r == CallbackHandled || r == CallbackPrevented
}

// InteractionManager is the host's drag-gesture dispatcher
type InteractionManager interface {
	Can(action DragAction, ev PointerEvent) bool
	Callback(action DragAction, ev PointerEvent) CallbackResult
	Cancel(ev PointerEvent)
	// DragResistance returns the configured resistance, 0 when unset
	DragResistance() float64
	SetDragResistance(r float64)
}

// MoveSubscriber is implemented by hosts that route pointer-move events only
// while a listener is registered
type MoveSubscriber interface {
	SubscribeMove()
	UnsubscribeMove()
}

// MouseDownFilter sees every mouse-down at the document root. Returning
// false swallows the event.
type MouseDownFilter func(b Button) bool

// Document is the root element of the host page
type Document interface {
	MouseDownFilter() MouseDownFilter
	SetMouseDownFilter(f MouseDownFilter)
}

// Interceptor registers replacements for host functions
type Interceptor interface {
	Register(owner, target string, handler intercept.Handler, mode intercept.Mode) error
	OnConflict(fn func(intercept.Conflict))
}

// Settings provides a typed configuration snapshot per event
type Settings interface {
	Snapshot() config.Snapshot
}

// SettingsFunc adapts a function to Settings
type SettingsFunc func() config.Snapshot

// Snapshot calls f
func (f SettingsFunc) Snapshot() config.Snapshot {
	return f()
}

// StaticSettings always returns snap
func StaticSettings(snap config.Snapshot) Settings {
	return SettingsFunc(func() config.Snapshot { return snap })
}

// ChangeNotifier is implemented by settings sources that report option changes
type ChangeNotifier interface {
	OnChange(name string, fn func(any))
}
