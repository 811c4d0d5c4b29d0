package input

import (
	"fmt"
	"time"

	"github.com/bnema/zoompan/internal/logger"
)

// DragState is the stage of a drag gesture. States are ordered; a gesture
// only moves forward until it is dropped or cancelled.
type DragState int

const (
	StateHover DragState = iota
	StateClicked
	StateGrabbed
	StateDrag
	StateDrop
)

func (s DragState) String() string {
	switch s {
	case StateHover:
		return "HOVER"
	case StateClicked:
		return "CLICKED"
	case StateGrabbed:
		return "GRABBED"
	case StateDrag:
		return "DRAG"
	case StateDrop:
		return "DROP"
	default:
		return fmt.Sprintf("DragState(%d)", int(s))
	}
}

// Gesture is the full state of one middle-button drag
type Gesture struct {
	State           DragState
	Origin          Point // Button-down position in layer coordinates
	ScreenOrigin    Point
	Destination     Point
	StartTime       time.Time
	RightEquivalent bool // The gesture replays the host's right-button workflow
	Listening       bool // A pointer-move listener is registered
	LastMove        time.Time
	PriorState      DragState // State before the pending button-up
}

// DragInputKind tags a DragInput
type DragInputKind int

const (
	InputButtonDown DragInputKind = iota
	InputMove
	InputButtonUp
	InputCallback
	InputSettle
	InputCancel
)

// DragInput is one event fed to Transition
type DragInput struct {
	Kind   DragInputKind
	Button Button
	Time   time.Time
	Local  Point
	Screen Point

	// InputMove
	Resistance    float64
	FrameInterval time.Duration

	// InputCallback
	Action DragAction
	Result CallbackResult

	// InputSettle
	DefaultPrevented bool
}

// EffectKind tags an Effect
type EffectKind int

const (
	// EffectListen registers the pointer-move listener
	EffectListen EffectKind = iota
	// EffectUnlisten removes the pointer-move listener
	EffectUnlisten
	// EffectDispatch invokes a host callback; its result comes back as InputCallback
	EffectDispatch
	// EffectSettle finishes a button-up once pending callbacks have run
	EffectSettle
	// EffectCancel asks the host to cancel its interaction workflow
	EffectCancel
)

// Effect is a side effect requested by Transition
type Effect struct {
	Kind   EffectKind
	Action DragAction
}

// Transition advances g by one input. can reports whether the host permits
// an action; dispatches it refuses are dropped. Transition has no side
// effects of its own: callbacks, listener changes and cancellation are
// returned as effects for the caller to run.
func Transition(g Gesture, in DragInput, can func(DragAction) bool) (Gesture, []Effect) {
	switch in.Kind {
	case InputButtonDown:
		return buttonDown(g, in, can)
	case InputMove:
		return move(g, in, can)
	case InputButtonUp:
		return buttonUp(g, in, can)
	case InputCallback:
		return callbackResult(g, in), nil
	case InputSettle:
		return settle(g, in)
	case InputCancel:
		return cancel(g)
	}
	return g, nil
}

func buttonDown(g Gesture, in DragInput, can func(DragAction) bool) (Gesture, []Effect) {
	if in.Button != ButtonMiddle {
		return g, nil
	}
	if g.State != StateHover && g.State != StateClicked && g.State != StateDrag {
		return g, nil
	}

	g.StartTime = in.Time
	g.Origin = in.Local
	g.ScreenOrigin = in.Screen

	if !can(ActionClickRight) {
		return g, nil
	}
	g.RightEquivalent = true
	if g.State == StateHover {
		g.State = StateClicked
	}

	var effects []Effect
	if g.State < StateDrag && can(ActionDragRight) {
		if g.Listening {
			effects = append(effects, Effect{Kind: EffectUnlisten})
		}
		g.Listening = true
		effects = append(effects, Effect{Kind: EffectListen})
	}
	return g, effects
}

func move(g Gesture, in DragInput, can func(DragAction) bool) (Gesture, []Effect) {
	if !g.Listening {
		return g, nil
	}
	if g.State != StateClicked && g.State != StateGrabbed && g.State != StateDrag {
		return g, nil
	}

	// Limit dragging to one update per frame
	if !g.LastMove.IsZero() && in.Time.Sub(g.LastMove) < in.FrameInterval {
		return g, nil
	}
	g.LastMove = in.Time
	g.Destination = in.Local

	if g.State == StateDrag {
		return g, dispatch(ActionDragRightMove, can)
	}
	if g.Origin.Distance(g.Destination) >= in.Resistance {
		return g, dispatch(ActionDragRightStart, can)
	}
	return g, nil
}

func buttonUp(g Gesture, in DragInput, can func(DragAction) bool) (Gesture, []Effect) {
	if in.Button != ButtonMiddle {
		return g, nil
	}
	g.PriorState = g.State
	g.Destination = in.Local

	var effects []Effect
	if g.State >= StateDrag && g.RightEquivalent {
		effects = append(effects, dispatch(ActionDragRightDrop, can)...)
	}
	return g, append(effects, Effect{Kind: EffectSettle})
}

func callbackResult(g Gesture, in DragInput) Gesture {
	switch in.Action {
	case ActionDragRightStart:
		if in.Result.handled() {
			g.State = StateDrag
		} else {
			g.State = StateGrabbed
		}
	case ActionDragRightMove:
		if in.Result.handled() {
			g.State = StateDrag
		}
	case ActionDragRightDrop:
		if in.Result != CallbackRefused {
			g.State = StateDrop
		}
	}
	return g
}

func settle(g Gesture, in DragInput) (Gesture, []Effect) {
	// A prevented default means another handler continues a multi-stage
	// workflow with this gesture
	if in.DefaultPrevented {
		g.State = g.PriorState
		return g, nil
	}
	return cancel(g)
}

func cancel(g Gesture) (Gesture, []Effect) {
	var effects []Effect
	if g.Listening {
		effects = append(effects, Effect{Kind: EffectUnlisten})
	}
	effects = append(effects, Effect{Kind: EffectCancel})
	return Gesture{State: StateHover}, effects
}

func dispatch(action DragAction, can func(DragAction) bool) []Effect {
	if !can(action) {
		return nil
	}
	return []Effect{{Kind: EffectDispatch, Action: action}}
}

// DragEmulator replays the host's right-button drag workflow for the
// middle button by running Transition against an InteractionManager
type DragEmulator struct {
	manager InteractionManager
	now     func() time.Time
	gesture Gesture

	// Resistance used when the manager has none configured
	fallbackResistance func() float64
	frameInterval      func() time.Duration
}

// NewDragEmulator creates an emulator dispatching to manager
func NewDragEmulator(manager InteractionManager, now func() time.Time, fallbackResistance func() float64, frameInterval func() time.Duration) *DragEmulator {
	if now == nil {
		now = time.Now
	}
	if fallbackResistance == nil {
		fallbackResistance = func() float64 { return 0 }
	}
	if frameInterval == nil {
		frameInterval = func() time.Duration { return 0 }
	}
	return &DragEmulator{
		manager:            manager,
		now:                now,
		fallbackResistance: fallbackResistance,
		frameInterval:      frameInterval,
	}
}

// Gesture returns a copy of the current gesture
func (d *DragEmulator) Gesture() Gesture {
	return d.gesture
}

// State returns the current gesture state
func (d *DragEmulator) State() DragState {
	return d.gesture.State
}

// Listening reports whether the pointer-move listener is registered
func (d *DragEmulator) Listening() bool {
	return d.gesture.Listening
}

// Active reports whether a gesture is in progress
func (d *DragEmulator) Active() bool {
	return d.gesture.Listening || d.gesture.State != StateHover
}

// ButtonDown handles a pointer-down. It reports whether the event belongs
// to the emulator; other buttons must continue to the host.
func (d *DragEmulator) ButtonDown(ev PointerEvent) bool {
	if ev.Button != ButtonMiddle {
		return false
	}
	d.run(DragInput{
		Kind:   InputButtonDown,
		Button: ev.Button,
		Time:   d.now(),
		Local:  ev.Local,
		Screen: ev.Screen,
	}, ev)
	return true
}

// Move handles a pointer-move
func (d *DragEmulator) Move(ev PointerEvent) {
	if !d.gesture.Listening {
		return
	}
	d.run(DragInput{
		Kind:          InputMove,
		Time:          d.now(),
		Local:         ev.Local,
		Screen:        ev.Screen,
		Resistance:    d.resistance(),
		FrameInterval: d.frameInterval(),
	}, ev)
}

// ButtonUp handles a pointer-up and reports whether it belonged to the emulator
func (d *DragEmulator) ButtonUp(ev PointerEvent) bool {
	if ev.Button != ButtonMiddle {
		return false
	}
	d.run(DragInput{
		Kind:             InputButtonUp,
		Button:           ev.Button,
		Time:             d.now(),
		Local:            ev.Local,
		Screen:           ev.Screen,
		DefaultPrevented: ev.DefaultPrevented,
	}, ev)
	return true
}

// Cancel aborts the gesture from the host's cancel hook
func (d *DragEmulator) Cancel(ev PointerEvent) {
	d.run(DragInput{Kind: InputCancel, Time: d.now()}, ev)
}

func (d *DragEmulator) resistance() float64 {
	if r := d.manager.DragResistance(); r > 0 {
		return r
	}
	return d.fallbackResistance()
}

// run feeds in through Transition and executes the resulting effects.
// Callback results and settle requests are queued behind the current
// effects so they observe the state the callbacks left behind.
func (d *DragEmulator) run(in DragInput, ev PointerEvent) {
	// Callbacks may prevent the default while the release is in flight
	prevented := in.DefaultPrevented
	queue := []DragInput{in}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]

		can := func(action DragAction) bool {
			ok := d.manager.Can(action, d.withInteraction(ev))
			if !ok {
				logger.Debugf("drag action %s disallowed in state %s", action, d.gesture.State)
			}
			return ok
		}

		before := d.gesture.State
		var effects []Effect
		d.gesture, effects = Transition(d.gesture, next, can)
		if before != d.gesture.State {
			logger.Debugf("middle-click drag %s -> %s", before, d.gesture.State)
		}

		for _, eff := range effects {
			switch eff.Kind {
			case EffectListen:
				if sub, ok := d.manager.(MoveSubscriber); ok {
					sub.SubscribeMove()
				}
			case EffectUnlisten:
				if sub, ok := d.manager.(MoveSubscriber); ok {
					sub.UnsubscribeMove()
				}
			case EffectDispatch:
				result := d.manager.Callback(eff.Action, d.withInteraction(ev))
				if result == CallbackPrevented {
					prevented = true
				}
				queue = append(queue, DragInput{Kind: InputCallback, Action: eff.Action, Result: result})
			case EffectSettle:
				queue = append(queue, DragInput{Kind: InputSettle, DefaultPrevented: prevented})
			case EffectCancel:
				d.manager.Cancel(d.withInteraction(ev))
			}
		}
	}
}

func (d *DragEmulator) withInteraction(ev PointerEvent) PointerEvent {
	ev.Origin = d.gesture.Origin
	ev.Destination = d.gesture.Destination
	return ev
}
