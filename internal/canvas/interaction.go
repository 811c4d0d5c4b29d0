package canvas

import (
	"github.com/bnema/zoompan/internal/input"
)

// dragSpeedModifier damps right-drag panning like the host's own handler
const dragSpeedModifier = 0.8

// Call is one recorded drag callback
type Call struct {
	Action input.DragAction
	Event  input.PointerEvent
}

// Interactions is the canvas drag-gesture manager. Right-button drags pan
// the camera; every callback is recorded.
type Interactions struct {
	canvas     *Canvas
	resistance float64

	denied  map[input.DragAction]bool
	results map[input.DragAction]input.CallbackResult

	calls        []Call
	listeners    int
	subscribes   int
	unsubscribes int
	cancels      int
}

func newInteractions(c *Canvas) *Interactions {
	return &Interactions{
		canvas:  c,
		denied:  make(map[input.DragAction]bool),
		results: make(map[input.DragAction]input.CallbackResult),
	}
}

// Deny makes Can refuse action
func (m *Interactions) Deny(action input.DragAction) {
	m.denied[action] = true
}

// Allow reverts Deny
func (m *Interactions) Allow(action input.DragAction) {
	delete(m.denied, action)
}

// SetResult forces the result of an action's callback
func (m *Interactions) SetResult(action input.DragAction, r input.CallbackResult) {
	m.results[action] = r
}

// Can implements input.InteractionManager
func (m *Interactions) Can(action input.DragAction, _ input.PointerEvent) bool {
	return !m.denied[action]
}

// Callback implements input.InteractionManager
func (m *Interactions) Callback(action input.DragAction, ev input.PointerEvent) input.CallbackResult {
	m.calls = append(m.calls, Call{Action: action, Event: ev})
	if r, ok := m.results[action]; ok {
		return r
	}

	if action == input.ActionDragRightMove {
		cam := m.canvas.CameraState()
		d := ev.Destination.Sub(ev.Origin)
		m.canvas.Pan(input.PanRequest{
			X: input.Float(cam.Pivot.X - d.X*dragSpeedModifier),
			Y: input.Float(cam.Pivot.Y - d.Y*dragSpeedModifier),
		})
	}
	return input.CallbackHandled
}

// Cancel implements input.InteractionManager
func (m *Interactions) Cancel(input.PointerEvent) {
	m.cancels++
}

// DragResistance implements input.InteractionManager
func (m *Interactions) DragResistance() float64 {
	return m.resistance
}

// SetDragResistance implements input.InteractionManager
func (m *Interactions) SetDragResistance(r float64) {
	m.resistance = r
}

// SubscribeMove implements input.MoveSubscriber
func (m *Interactions) SubscribeMove() {
	m.listeners++
	m.subscribes++
}

// UnsubscribeMove implements input.MoveSubscriber
func (m *Interactions) UnsubscribeMove() {
	if m.listeners > 0 {
		m.listeners--
	}
	m.unsubscribes++
}

// Calls returns the recorded callbacks in order
func (m *Interactions) Calls() []Call {
	return m.calls
}

// Actions returns the recorded callback actions in order
func (m *Interactions) Actions() []input.DragAction {
	out := make([]input.DragAction, len(m.calls))
	for i, c := range m.calls {
		out[i] = c.Action
	}
	return out
}

// Listeners returns the number of registered move listeners
func (m *Interactions) Listeners() int {
	return m.listeners
}

// Subscriptions returns how often listeners were added and removed
func (m *Interactions) Subscriptions() (subscribes, unsubscribes int) {
	return m.subscribes, m.unsubscribes
}

// Cancels returns how often Cancel ran
func (m *Interactions) Cancels() int {
	return m.cancels
}
