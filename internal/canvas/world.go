package canvas

import (
	"fmt"
	"math"
	"time"

	"github.com/bnema/zoompan/internal/config"
	"github.com/bnema/zoompan/internal/input"
	"github.com/bnema/zoompan/internal/intercept"
	"github.com/bnema/zoompan/internal/logger"
)

// World is a canvas with the input layer installed, ready for a viewer
type World struct {
	Canvas   *Canvas
	Registry *intercept.Registry
	Session  *input.Session

	// Token held by a left-button drag
	dragging string
}

// NewWorld builds a scene from cfg, seeds its tokens and installs the input
// layer configured by store
func NewWorld(cfg config.ViewerConfig, store *config.Store, viewport input.Size) (*World, error) {
	c := New(Options{
		Viewport: viewport,
		Scene: input.SceneDimensions{
			Width:    cfg.SceneWidth,
			Height:   cfg.SceneHeight,
			GridSize: cfg.GridSize,
		},
		GameMaster:     cfg.GameMaster,
		WheelRateLimit: time.Duration(cfg.WheelRateLimit) * time.Millisecond,
		FrameInterval:  time.Duration(cfg.FrameInterval) * time.Millisecond,
	})
	seedTokens(c.Tokens(), cfg.Tokens, c.SceneDimensions())

	reg := intercept.NewRegistry()
	c.Install(reg)

	session := input.NewSession(c, store,
		input.WithInteractionManager(c.Interactions()),
		input.WithDocument(c.Document()),
	)
	c.OnPan(session.OnCanvasPan)

	if cfg.LockViewEnabled {
		// LockView claims the drag-pan hook first; ours displaces it in Setup
		err := reg.Register(input.LockViewModuleID, input.TargetDragCanvasPan, func(intercept.Func, ...any) any {
			return nil
		}, intercept.Override)
		if err != nil {
			return nil, fmt.Errorf("failed to register LockView handler: %w", err)
		}
	}

	if err := session.Setup(reg); err != nil {
		return nil, fmt.Errorf("failed to set up input layer: %w", err)
	}

	logger.Debugf("world ready: %d tokens, scene %vx%v, grid %v",
		cfg.Tokens, cfg.SceneWidth, cfg.SceneHeight, c.SceneDimensions().GridSize)
	return &World{Canvas: c, Registry: reg, Session: session}, nil
}

// Wheel dispatches a wheel event through the host's wheel hook
func (w *World) Wheel(ev *input.WheelEvent) input.Decision {
	d, _ := w.Registry.Call(input.TargetWheel, ev).(input.Decision)
	return d
}

// DragPan dispatches a drag position through the host's drag-pan hook
func (w *World) DragPan(p input.Point) {
	w.Registry.Call(input.TargetDragCanvasPan, p)
}

// PointerDown runs a button press through the input layer, then the
// document, then token selection. toggle adds or removes the token under
// the pointer from the selection instead of replacing it.
func (w *World) PointerDown(ev input.PointerEvent, toggle bool) {
	if w.Session.PointerDown(ev) {
		return
	}
	w.Canvas.Document().MouseDown(ev.Button)

	if ev.Button != input.ButtonLeft {
		return
	}
	layer := w.Canvas.Tokens()
	tok, ok := layer.At(ev.Local)
	if !ok {
		if !toggle {
			layer.ReleaseAll()
		}
		return
	}
	if toggle {
		layer.Control(tok.ID, !tok.Controlled)
	} else {
		layer.ReleaseAll()
		layer.Control(tok.ID, true)
	}
	w.dragging = tok.ID
}

// PointerMove updates the hover, feeds the drag emulator and moves a held
// token. Moving a token near the viewport edge autopans.
func (w *World) PointerMove(ev input.PointerEvent) {
	layer := w.Canvas.Tokens()
	if tok, ok := layer.At(ev.Local); ok {
		layer.SetHover(tok.ID)
	} else {
		layer.SetHover("")
	}

	w.Session.PointerMove(ev)

	if w.dragging == "" {
		return
	}
	if tok, ok := layer.Get(w.dragging); ok {
		tok.Position = ev.Local
	}
	w.DragPan(ev.Screen)
}

// PointerUp ends a middle-click drag or drops a held token on the grid
func (w *World) PointerUp(ev input.PointerEvent) {
	if w.Session.PointerUp(ev) {
		return
	}
	if ev.Button == input.ButtonLeft && w.dragging != "" {
		if tok, ok := w.Canvas.Tokens().Get(w.dragging); ok {
			tok.Position = SnapToCell(ev.Local, w.Canvas.SceneDimensions().GridSize)
		}
		w.dragging = ""
	}
}

// CancelPointer aborts whatever the pointer is doing: a middle-click drag
// goes through the input layer's cancel hook and a held token snaps back
// onto the grid
func (w *World) CancelPointer(ev input.PointerEvent) {
	if d := w.Session.Drag(); d != nil && d.Active() {
		w.Session.CancelDrag(ev)
	}
	if w.dragging == "" {
		return
	}
	if tok, ok := w.Canvas.Tokens().Get(w.dragging); ok {
		tok.Position = SnapToCell(tok.Position, w.Canvas.SceneDimensions().GridSize)
	}
	w.dragging = ""
}

// Dragging returns the id of the token held by a left-button drag
func (w *World) Dragging() string {
	return w.dragging
}

// SnapToCell returns the center of the grid cell containing p
func SnapToCell(p input.Point, grid float64) input.Point {
	if grid <= 0 {
		return p
	}
	return input.Point{
		X: math.Floor(p.X/grid)*grid + grid/2,
		Y: math.Floor(p.Y/grid)*grid + grid/2,
	}
}

// ToggleLock flips a LockView camera lock flag (lockZoom, lockPan) and
// returns its new value
func (w *World) ToggleLock(flag string) bool {
	raw, _ := w.Canvas.SceneFlag(input.LockViewModuleID, flag)
	locked, _ := raw.(bool)
	w.Canvas.SetSceneFlag(input.LockViewModuleID, flag, !locked)
	return !locked
}

// ResetView centers the camera at scale 1
func (w *World) ResetView() {
	scene := w.Canvas.SceneDimensions()
	w.Canvas.Pan(input.PanRequest{
		X:     input.Float(scene.Width / 2),
		Y:     input.Float(scene.Height / 2),
		Scale: input.Float(1),
	})
}

// seedTokens lays n tokens out on a loose grid over the scene
func seedTokens(l *TokenLayer, n int, scene input.SceneDimensions) {
	if n <= 0 {
		return
	}
	cols := int(math.Ceil(math.Sqrt(float64(n))))
	rows := int(math.Ceil(float64(n) / float64(cols)))
	stepX := scene.Width / float64(cols+1)
	stepY := scene.Height / float64(rows+1)

	for i := 0; i < n; i++ {
		col, row := i%cols, i/cols
		// Snap to cell centers so tokens sit on the grid
		x := math.Floor(stepX*float64(col+1)/scene.GridSize)*scene.GridSize + scene.GridSize/2
		y := math.Floor(stepY*float64(row+1)/scene.GridSize)*scene.GridSize + scene.GridSize/2
		l.Add(&Token{
			ID:       fmt.Sprintf("token-%d", i+1),
			Position: input.Point{X: x, Y: y},
			Radius:   scene.GridSize * 0.4,
		})
	}
}
