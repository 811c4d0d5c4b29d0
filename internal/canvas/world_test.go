package canvas

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/zoompan/internal/config"
	"github.com/bnema/zoompan/internal/input"
)

func newTestWorld(t *testing.T, mutate func(*config.ViewerConfig)) *World {
	t.Helper()
	cfg := config.DefaultConfig.Viewer
	if mutate != nil {
		mutate(&cfg)
	}
	w, err := NewWorld(cfg, config.NewStore(viper.New()), input.Size{Width: 1000, Height: 800})
	require.NoError(t, err)
	return w
}

func at(w *World, x, y float64) input.PointerEvent {
	screen := input.Point{X: x, Y: y}
	return input.PointerEvent{Button: input.ButtonLeft, Screen: screen, Local: w.Canvas.ScreenToWorld(screen)}
}

func TestNewWorldSeedsTokens(t *testing.T) {
	w := newTestWorld(t, nil)

	tokens := w.Canvas.Tokens().All()
	require.Len(t, tokens, 6)
	assert.Equal(t, "token-1", tokens[0].ID)
	assert.Equal(t, input.Point{X: 1050, Y: 1050}, tokens[0].Position)
	assert.Equal(t, 40.0, tokens[0].Radius)

	assert.NotNil(t, w.Session.Drag())
	assert.False(t, w.Session.Guard().Conflicting())
}

func TestNewWorldLockView(t *testing.T) {
	tests := []struct {
		name   string
		gm     bool
		active bool
	}{
		{name: "player", gm: false, active: true},
		{name: "game master", gm: true, active: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWorld(t, func(c *config.ViewerConfig) {
				c.LockViewEnabled = true
				c.GameMaster = tt.gm
			})
			assert.Equal(t, tt.active, w.Session.Guard().Conflicting())
		})
	}
}

func TestWorldWheel(t *testing.T) {
	w := newTestWorld(t, nil)

	d := w.Wheel(&input.WheelEvent{DeltaY: -100, ClientX: 500, ClientY: 400})
	assert.Equal(t, input.OpZoom, d.Op)
	assert.InDelta(t, 1.05, w.Canvas.CameraState().Scale, 1e-9)
}

func TestWorldToggleLock(t *testing.T) {
	w := newTestWorld(t, nil)

	assert.True(t, w.ToggleLock("lockPan"))
	raw, ok := w.Canvas.SceneFlag(input.LockViewModuleID, "lockPan")
	require.True(t, ok)
	assert.Equal(t, true, raw)
	assert.False(t, w.ToggleLock("lockPan"))
}

func TestWorldResetView(t *testing.T) {
	w := newTestWorld(t, nil)
	w.Canvas.Pan(input.PanRequest{X: input.Float(10), Scale: input.Float(2)})

	w.ResetView()
	cam := w.Canvas.CameraState()
	assert.Equal(t, input.Point{X: 2000, Y: 1500}, cam.Pivot)
	assert.Equal(t, 1.0, cam.Scale)
}

func TestWorldTokenDrag(t *testing.T) {
	w := newTestWorld(t, nil)
	layer := w.Canvas.Tokens()
	layer.Add(&Token{ID: "hero", Position: w.Canvas.ScreenToWorld(input.Point{X: 300, Y: 300}), Radius: 40})

	w.PointerDown(at(w, 300, 300), false)
	assert.Equal(t, "hero", w.Dragging())
	hero, _ := layer.Get("hero")
	assert.True(t, hero.Controlled)

	move := at(w, 420, 310)
	w.PointerMove(move)
	assert.Equal(t, move.Local, hero.Position)
	h, ok := layer.Hovered()
	require.True(t, ok)
	assert.Equal(t, "hero", h.ID)

	w.PointerUp(at(w, 420, 310))
	assert.Empty(t, w.Dragging())
	assert.Equal(t, SnapToCell(move.Local, 100), hero.Position)
}

func TestWorldSelection(t *testing.T) {
	w := newTestWorld(t, nil)
	layer := w.Canvas.Tokens()
	layer.Add(&Token{ID: "a", Position: w.Canvas.ScreenToWorld(input.Point{X: 300, Y: 300}), Radius: 40})
	layer.Add(&Token{ID: "b", Position: w.Canvas.ScreenToWorld(input.Point{X: 600, Y: 300}), Radius: 40})

	w.PointerDown(at(w, 300, 300), false)
	w.PointerUp(at(w, 300, 300))
	w.PointerDown(at(w, 600, 300), true)
	w.PointerUp(at(w, 600, 300))
	assert.Len(t, layer.Controlled(), 2)

	// Toggling a selected token releases it
	w.PointerDown(at(w, 600, 300), true)
	w.PointerUp(at(w, 600, 300))
	require.Len(t, layer.Controlled(), 1)
	assert.Equal(t, "a", layer.Controlled()[0].ID)

	// A plain click on empty board clears the selection
	w.PointerDown(at(w, 10, 10), false)
	assert.Empty(t, layer.Controlled())
}

func TestWorldMiddleClickSkipsSelection(t *testing.T) {
	w := newTestWorld(t, nil)
	w.Canvas.Tokens().Add(&Token{ID: "hero", Position: w.Canvas.ScreenToWorld(input.Point{X: 300, Y: 300}), Radius: 40})
	ev := at(w, 300, 300)
	ev.Button = input.ButtonMiddle

	w.PointerDown(ev, false)
	assert.Empty(t, w.Dragging())
	assert.Empty(t, w.Canvas.Tokens().Controlled())
}

func TestWorldCancelPointer(t *testing.T) {
	t.Run("middle drag", func(t *testing.T) {
		store := config.NewStore(viper.New())
		require.NoError(t, store.Set(config.OptMiddleMousePan, true))
		w, err := NewWorld(config.DefaultConfig.Viewer, store, input.Size{Width: 1000, Height: 800})
		require.NoError(t, err)

		down := at(w, 500, 400)
		down.Button = input.ButtonMiddle
		w.PointerDown(down, false)
		move := at(w, 500, 460)
		move.Button = input.ButtonMiddle
		w.PointerMove(move)
		require.Equal(t, input.StateDrag, w.Session.Drag().State())

		w.CancelPointer(move)
		assert.Equal(t, input.StateHover, w.Session.Drag().State())
		assert.Equal(t, 0, w.Canvas.Interactions().Listeners())
		assert.Equal(t, 1, w.Canvas.Interactions().Cancels())

		// Nothing in progress: no second cancel
		w.CancelPointer(move)
		assert.Equal(t, 1, w.Canvas.Interactions().Cancels())
	})

	t.Run("held token", func(t *testing.T) {
		w := newTestWorld(t, nil)
		layer := w.Canvas.Tokens()
		layer.Add(&Token{ID: "hero", Position: w.Canvas.ScreenToWorld(input.Point{X: 300, Y: 300}), Radius: 40})

		w.PointerDown(at(w, 300, 300), false)
		move := at(w, 420, 310)
		w.PointerMove(move)
		w.CancelPointer(move)

		assert.Empty(t, w.Dragging())
		hero, _ := layer.Get("hero")
		assert.Equal(t, SnapToCell(move.Local, 100), hero.Position)
	})
}

func TestSnapToCell(t *testing.T) {
	tests := []struct {
		in   input.Point
		want input.Point
	}{
		{input.Point{X: 10, Y: 10}, input.Point{X: 50, Y: 50}},
		{input.Point{X: 199, Y: 100}, input.Point{X: 150, Y: 150}},
		{input.Point{X: -10, Y: -110}, input.Point{X: -50, Y: -150}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SnapToCell(tt.in, 100))
	}
	assert.Equal(t, input.Point{X: 3, Y: 4}, SnapToCell(input.Point{X: 3, Y: 4}, 0))
}
