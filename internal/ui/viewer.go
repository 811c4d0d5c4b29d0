package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bnema/zoompan/internal/canvas"
	"github.com/bnema/zoompan/internal/config"
	"github.com/bnema/zoompan/internal/input"
	"github.com/bnema/zoompan/internal/logger"
)

// statusRows is the height of the status bar and help line under the board
const statusRows = 2

// clearNoticeMsg expires the notice with the given sequence number
type clearNoticeMsg struct{ seq int }

// Viewer is the terminal canvas viewer
type Viewer struct {
	world    *canvas.World
	store    *config.Store
	geometry CellGeometry
	keys     KeyMap
	help     help.Model

	width, height int

	// Buttons pressed and not yet released
	pressed     map[input.Button]bool
	lastPointer input.Point

	lastDecision input.Decision
	notice       string
	noticeSeq    int
}

// NewViewer creates a viewer over world. Option changes go through store.
func NewViewer(world *canvas.World, store *config.Store, geometry CellGeometry) *Viewer {
	if geometry.CellWidth <= 0 {
		geometry.CellWidth = config.DefaultConfig.Viewer.CellWidth
	}
	if geometry.CellHeight <= 0 {
		geometry.CellHeight = config.DefaultConfig.Viewer.CellHeight
	}
	return &Viewer{
		world:    world,
		store:    store,
		geometry: geometry,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		pressed:  make(map[input.Button]bool),
	}
}

// Init implements tea.Model
func (v *Viewer) Init() tea.Cmd {
	return tea.SetWindowTitle("zoompan")
}

// Update implements tea.Model
func (v *Viewer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.resize(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v, v.handleKey(msg)

	case tea.MouseMsg:
		v.handleMouse(msg)
		return v, nil

	case tea.BlurMsg:
		v.cancelPointer()
		return v, nil

	case clearNoticeMsg:
		if msg.seq == v.noticeSeq {
			v.notice = ""
		}
		return v, nil
	}
	return v, nil
}

func (v *Viewer) resize(width, height int) {
	v.width, v.height = width, height
	v.help.Width = width
	rows := height - statusRows
	if rows < 0 {
		rows = 0
	}
	v.world.Canvas.Resize(input.Size{
		Width:  float64(width) * v.geometry.CellWidth,
		Height: float64(rows) * v.geometry.CellHeight,
	})
}

func (v *Viewer) handleKey(msg tea.KeyMsg) tea.Cmd {
	snap := v.store.Snapshot()

	switch {
	case key.Matches(msg, v.keys.Quit):
		return tea.Quit

	case key.Matches(msg, v.keys.Help):
		v.help.ShowAll = !v.help.ShowAll
		return nil

	case key.Matches(msg, v.keys.ToggleTouchpad):
		mode := input.ToggleTouchpad(input.ParseMode(snap.PanZoomMode))
		return v.setOption(config.OptPanZoomMode, mode.String(), fmt.Sprintf("%s mode", mode))

	case key.Matches(msg, v.keys.ToggleAlternative):
		mode := input.ToggleAlternative(input.ParseMode(snap.PanZoomMode))
		return v.setOption(config.OptPanZoomMode, mode.String(), fmt.Sprintf("%s mode", mode))

	case key.Matches(msg, v.keys.ToggleMiddlePan):
		return v.setOption(config.OptMiddleMousePan, !snap.MiddleMousePan,
			fmt.Sprintf("middle-button pan %s", onOff(!snap.MiddleMousePan)))

	case key.Matches(msg, v.keys.ToggleAutoDetect):
		return v.setOption(config.OptAutoDetectTouchpad, !snap.AutoDetectTouchpad,
			fmt.Sprintf("touchpad auto-detect %s", onOff(!snap.AutoDetectTouchpad)))

	case key.Matches(msg, v.keys.ToggleCursorZoom):
		return v.setOption(config.OptZoomAroundCursor, !snap.ZoomAroundCursor,
			fmt.Sprintf("zoom around cursor %s", onOff(!snap.ZoomAroundCursor)))

	case key.Matches(msg, v.keys.LockZoom):
		return v.toggleLock("lockZoom", "zoom lock")

	case key.Matches(msg, v.keys.LockPan):
		return v.toggleLock("lockPan", "pan lock")

	case key.Matches(msg, v.keys.Cancel):
		if !v.cancelPointer() {
			return nil
		}
		return v.notify("drag cancelled")

	case key.Matches(msg, v.keys.Reset):
		v.world.ResetView()
		return v.notify("view reset")
	}
	return nil
}

func (v *Viewer) setOption(name string, value any, notice string) tea.Cmd {
	if err := v.store.Set(name, value); err != nil {
		logger.Warnf("failed to set %s: %v", name, err)
		return v.notify(err.Error())
	}
	return v.notify(notice)
}

func (v *Viewer) toggleLock(flag, label string) tea.Cmd {
	locked := v.world.ToggleLock(flag)
	return v.notify(fmt.Sprintf("LockView %s %s", label, onOff(locked)))
}

func (v *Viewer) notify(text string) tea.Cmd {
	v.notice = text
	v.noticeSeq++
	seq := v.noticeSeq
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return clearNoticeMsg{seq: seq}
	})
}

func (v *Viewer) handleMouse(msg tea.MouseMsg) {
	if IsWheel(msg) {
		if msg.Action != tea.MouseActionPress {
			return
		}
		if ev := WheelEventFromMouse(msg, v.geometry); ev != nil {
			v.lastDecision = v.world.Wheel(ev)
		}
		return
	}

	screen := v.geometry.ScreenPoint(msg.X, msg.Y)
	v.lastPointer = screen
	ev := input.PointerEvent{Screen: screen, Local: v.world.Canvas.ScreenToWorld(screen)}

	switch msg.Action {
	case tea.MouseActionPress:
		button, ok := PointerButton(msg.Button)
		if !ok {
			return
		}
		ev.Button = button
		v.pressed[button] = true
		v.world.PointerDown(ev, msg.Ctrl)

	case tea.MouseActionMotion:
		v.world.PointerMove(ev)

	case tea.MouseActionRelease:
		button, ok := PointerButton(msg.Button)
		if !ok {
			// X10 terminals report releases without the button
			button, ok = v.heldButton()
			if !ok {
				return
			}
		}
		ev.Button = button
		delete(v.pressed, button)
		v.world.PointerUp(ev)
	}
}

// cancelPointer aborts a drag in progress and forgets held buttons. It
// reports whether anything was held.
func (v *Viewer) cancelPointer() bool {
	button, ok := v.heldButton()
	if !ok {
		return false
	}
	ev := input.PointerEvent{Button: button, Screen: v.lastPointer, Local: v.world.Canvas.ScreenToWorld(v.lastPointer)}
	v.world.CancelPointer(ev)
	clear(v.pressed)
	return true
}

func (v *Viewer) heldButton() (input.Button, bool) {
	for _, b := range []input.Button{input.ButtonMiddle, input.ButtonLeft, input.ButtonRight} {
		if v.pressed[b] {
			return b, true
		}
	}
	return 0, false
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// View implements tea.Model
func (v *Viewer) View() string {
	if v.width == 0 || v.height == 0 {
		return "loading..."
	}
	helpView := v.help.View(v.keys)
	rows := v.height - 1 - strings.Count(helpView, "\n") - 1
	return v.renderBoard(rows) + "\n" + v.renderStatus() + "\n" + helpView
}
