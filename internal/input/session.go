package input

import (
	"fmt"
	"time"

	"github.com/bnema/zoompan/internal/config"
	"github.com/bnema/zoompan/internal/intercept"
	"github.com/bnema/zoompan/internal/logger"
)

// Session owns all mutable remapping state for one canvas: the rotation
// clock, the drag gesture, the compatibility flag and the autopan clock.
// A Session is not safe for concurrent use; the host calls it from its
// event loop.
type Session struct {
	host     Host
	settings Settings
	manager  InteractionManager
	now      func() time.Time

	guard   *Guard
	limiter *RateLimiter
	router  *Router
	edge    *EdgePanner
	drag    *DragEmulator

	autoscroll autoscrollBlocker
}

// SessionOption configures a Session
type SessionOption func(*Session)

// WithClock replaces time.Now, mainly for tests
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) {
		s.now = now
	}
}

// WithInteractionManager enables the middle-click drag emulator
func WithInteractionManager(m InteractionManager) SessionOption {
	return func(s *Session) {
		s.manager = m
	}
}

// WithDocument lets the session suppress middle-click autoscroll
func WithDocument(doc Document) SessionOption {
	return func(s *Session) {
		s.autoscroll.doc = doc
	}
}

// NewSession wires every handler for host
func NewSession(host Host, settings Settings, opts ...SessionOption) *Session {
	s := &Session{
		host:     host,
		settings: settings,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.guard = NewGuard(host)
	s.limiter = NewRateLimiter(host.WheelRateLimit(), s.now)
	s.router = NewRouter(host, settings, s.guard, s.limiter,
		NewZoomEngine(host, s.guard), NewPanEngine(host, s.guard))
	s.edge = NewEdgePanner(host, s.guard, s.now)
	if s.manager != nil {
		s.drag = NewDragEmulator(s.manager, s.now,
			func() float64 { return DefaultDragResistance(host.SceneDimensions().GridSize) },
			host.FrameInterval)
	}
	return s
}

// Setup installs the session's overrides on the host and applies the
// settings that act outside event handlers
func (s *Session) Setup(reg Interceptor) error {
	reg.OnConflict(func(c intercept.Conflict) {
		s.guard.OnConflict(c, s.host.IsGM(), s.settings.Snapshot().DisableLockViewFix)
	})

	err := reg.Register(ModuleID, TargetWheel, func(_ intercept.Func, args ...any) any {
		if len(args) == 0 {
			return nil
		}
		ev, ok := args[0].(*WheelEvent)
		if !ok {
			return nil
		}
		return s.HandleWheel(ev)
	}, intercept.Override)
	if err != nil {
		return fmt.Errorf("failed to override %s: %w", TargetWheel, err)
	}

	err = reg.Register(ModuleID, TargetDragCanvasPan, func(_ intercept.Func, args ...any) any {
		if len(args) == 0 {
			return nil
		}
		p, ok := args[0].(Point)
		if !ok {
			return nil
		}
		s.HandleDragPan(p)
		return nil
	}, intercept.Override)
	if err != nil {
		return fmt.Errorf("failed to override %s: %w", TargetDragCanvasPan, err)
	}

	// Our zoom engine bounds the scale itself; a high core limit keeps the
	// host from clamping below it
	s.host.SetCoreMaxZoom(CoreMaxZoom)

	snap := s.settings.Snapshot()
	s.SetMiddleMousePan(snap.MiddleMousePan)
	s.UpdateDragResistance()

	if n, ok := s.settings.(ChangeNotifier); ok {
		n.OnChange(config.OptMiddleMousePan, func(v any) {
			active, _ := v.(bool)
			s.SetMiddleMousePan(active)
		})
		n.OnChange(config.OptDragResistanceMode, func(any) {
			s.UpdateDragResistance()
		})
	}

	logger.Debug("input remapping installed", "mode", snap.PanZoomMode, "middle_mouse_pan", snap.MiddleMousePan)
	return nil
}

// HandleWheel routes one wheel event
func (s *Session) HandleWheel(ev *WheelEvent) Decision {
	return s.router.Handle(ev)
}

// HandleDragPan runs edge autopan for a drag at screen point p
func (s *Session) HandleDragPan(p Point) (dx, dy float64) {
	return s.edge.OnDragPosition(p, s.settings.Snapshot())
}

// PointerDown feeds a button press to the drag emulator. It returns true
// when the event was consumed and must not reach the host.
func (s *Session) PointerDown(ev PointerEvent) bool {
	if s.drag == nil || !s.settings.Snapshot().MiddleMousePan {
		return false
	}
	return s.drag.ButtonDown(ev)
}

// PointerMove feeds a pointer move to the drag emulator
func (s *Session) PointerMove(ev PointerEvent) {
	if s.drag == nil {
		return
	}
	s.drag.Move(ev)
}

// PointerUp feeds a button release to the drag emulator. It returns true
// when the event was consumed. A gesture in progress always gets its
// release, even when middle-mouse-pan was turned off since it started.
func (s *Session) PointerUp(ev PointerEvent) bool {
	if s.drag == nil {
		return false
	}
	if !s.drag.Active() && !s.settings.Snapshot().MiddleMousePan {
		return false
	}
	return s.drag.ButtonUp(ev)
}

// CancelDrag aborts a middle-click drag from the host's cancel hook
func (s *Session) CancelDrag(ev PointerEvent) {
	if s.drag == nil {
		return
	}
	s.drag.Cancel(ev)
}

// OnCanvasPan must be called after every camera change; the Scaling
// resistance depends on the zoom level
func (s *Session) OnCanvasPan() {
	s.UpdateDragResistance()
}

// UpdateDragResistance pushes the configured drag resistance to the host
func (s *Session) UpdateDragResistance() {
	if s.manager == nil {
		return
	}
	mode := s.settings.Snapshot().DragResistanceMode
	s.manager.SetDragResistance(DragResistance(mode, s.host.CameraState().Scale))
}

// SetMiddleMousePan turns middle-click autoscroll suppression on or off.
// Turning it off cancels a gesture in progress.
func (s *Session) SetMiddleMousePan(active bool) {
	s.autoscroll.set(active)
	if !active && s.drag != nil && s.drag.Active() {
		s.drag.Cancel(PointerEvent{Button: ButtonMiddle})
	}
}

// Guard returns the compatibility guard
func (s *Session) Guard() *Guard {
	return s.guard
}

// Drag returns the drag emulator, nil without an interaction manager
func (s *Session) Drag() *DragEmulator {
	return s.drag
}
