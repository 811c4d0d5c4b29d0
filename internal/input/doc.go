// Package input remaps raw wheel and pointer events into camera operations.
//
// A Session sits between a host canvas and its input events. Wheel events
// are classified per the configured input scheme (Mouse, Touchpad or
// Alternative, optionally picked per event by the touchpad heuristic) and
// routed to one of:
//
//   - rotation of the active layer's selection, rate limited
//   - zoom anchored at the cursor, clamped to the configured bounds
//   - pan scaled by the pan speed multiplier
//
// Drag-position updates feed the edge autopan, and middle-button events
// feed an emulation of the host's right-button drag workflow. The drag
// workflow is an explicit state machine: Transition is pure and returns the
// side effects DragEmulator executes against the host.
//
// The host is consumed through the Host, InteractionManager and Document
// interfaces; the core never mutates the camera directly and only sends
// PanRequest values.
package input
