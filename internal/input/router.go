package input

import (
	"fmt"

	"github.com/bnema/zoompan/internal/config"
	"github.com/bnema/zoompan/internal/logger"
)

// Operation is the camera operation a wheel event maps to
type Operation int

const (
	OpIgnore Operation = iota
	OpRotate
	OpZoom
	OpPanHorizontal
	OpPan
)

func (o Operation) String() string {
	switch o {
	case OpIgnore:
		return "ignore"
	case OpRotate:
		return "rotate"
	case OpZoom:
		return "zoom"
	case OpPanHorizontal:
		return "pan-horizontal"
	case OpPan:
		return "pan"
	default:
		return fmt.Sprintf("Operation(%d)", int(o))
	}
}

// Decision is the routing outcome of one wheel event
type Decision struct {
	Op   Operation
	Mode Mode

	// OpRotate
	Delta float64
	Fine  bool

	// OpPan and OpPanHorizontal
	DeltaX, DeltaY float64

	// Applied is false when a gate (rate limit, camera lock) stopped the operation
	Applied bool
}

// NormalizedDelta returns the rotation delta of ev. The legacy wheelDelta
// points the opposite way of deltaY; platforms without it use deltaY.
func NormalizedDelta(ev *WheelEvent) float64 {
	if ev.WheelDelta != nil {
		return -*ev.WheelDelta
	}
	return ev.DeltaY
}

// Classify maps an event to an operation under mode. Rules apply in order
// and the last one always matches.
func Classify(ev *WheelEvent, mode Mode) Decision {
	shift, alt, ctrl := ev.ShiftKey, ev.AltKey, ev.CtrlOrMeta()
	d := Decision{Mode: mode}

	switch {
	case mode == ModeMouse && (ctrl || shift):
		d.Op, d.Delta, d.Fine = OpRotate, NormalizedDelta(ev), shift
	case mode == ModeTouchpad && shift:
		d.Op, d.Delta, d.Fine = OpRotate, NormalizedDelta(ev), !ctrl
	case mode == ModeAlternative && alt && (ctrl || shift):
		d.Op, d.Delta, d.Fine = OpRotate, NormalizedDelta(ev), shift

	case mode == ModeMouse,
		mode == ModeTouchpad && ctrl,
		mode == ModeAlternative && ctrl:
		d.Op = OpZoom

	case mode == ModeAlternative && shift:
		d.Op, d.DeltaX, d.DeltaY = OpPanHorizontal, ev.DeltaY, 0

	default:
		d.Op, d.DeltaX, d.DeltaY = OpPan, ev.DeltaX, ev.DeltaY
	}
	return d
}

// Router dispatches wheel events to the rotate, zoom and pan handlers
type Router struct {
	host     Host
	settings Settings
	guard    *Guard
	limiter  *RateLimiter
	zoom     *ZoomEngine
	pan      *PanEngine
}

// NewRouter wires a router from its engines
func NewRouter(host Host, settings Settings, guard *Guard, limiter *RateLimiter, zoom *ZoomEngine, pan *PanEngine) *Router {
	return &Router{
		host:     host,
		settings: settings,
		guard:    guard,
		limiter:  limiter,
		zoom:     zoom,
		pan:      pan,
	}
}

// ResolveMode returns the effective mode of ev under snap
func ResolveMode(ev *WheelEvent, snap config.Snapshot) Mode {
	configured := ParseMode(snap.PanZoomMode)
	if !snap.AutoDetectTouchpad {
		return configured
	}
	return SelectMode(true, IsTouchpad(ev), configured)
}

// Handle routes one wheel event
func (r *Router) Handle(ev *WheelEvent) Decision {
	snap := r.settings.Snapshot()
	mode := ResolveMode(ev, snap)

	// Keep the browser from zooming the whole page
	if ev.CtrlOrMeta() {
		ev.PreventDefault()
	}

	if !r.host.Ready() || r.host.HoveredElementID(ev.Client()) != BoardElementID {
		return Decision{Op: OpIgnore, Mode: mode}
	}
	ev.PreventDefault()

	if ev.DeltaX == 0 && ev.DeltaY == 0 {
		return Decision{Op: OpIgnore, Mode: mode}
	}

	d := Classify(ev, mode)
	switch d.Op {
	case OpRotate:
		d.Applied = r.rotate(d)
	case OpZoom:
		d.Applied = r.zoom.Zoom(ev, snap)
	case OpPanHorizontal, OpPan:
		d.Applied = r.pan.Pan(d.DeltaX, d.DeltaY, snap)
	}
	return d
}

func (r *Router) rotate(d Decision) bool {
	layer := r.host.ActiveLayer()
	if layer == nil || !layer.Placeable() {
		return false
	}
	if !r.limiter.Allow(LayerHasTarget(layer)) {
		return false
	}
	// Rotation shares LockView's zoom lock
	if !r.guard.ZoomAllowed() {
		return false
	}
	logger.Debugf("rotating selection by %v (fine=%v)", d.Delta, d.Fine)
	layer.Rotate(d.Delta, d.Fine)
	return true
}
