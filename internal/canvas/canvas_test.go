package canvas

import (
	"testing"
	"time"

	"github.com/bnema/zoompan/internal/input"
	"github.com/bnema/zoompan/internal/intercept"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCanvas() *Canvas {
	return New(Options{
		Viewport: input.Size{Width: 1000, Height: 800},
		Scene:    input.SceneDimensions{Width: 4000, Height: 3000, GridSize: 100},
	})
}

func TestNewDefaults(t *testing.T) {
	c := newTestCanvas()

	cam := c.CameraState()
	assert.Equal(t, input.Point{X: 2000, Y: 1500}, cam.Pivot)
	assert.Equal(t, 1.0, cam.Scale)
	assert.True(t, c.Ready())
	assert.Equal(t, defaultFrameInterval, c.FrameInterval())

	lo, hi := c.CoreBounds()
	assert.Equal(t, DefaultCoreMinScale, lo)
	assert.Equal(t, float64(DefaultCoreMaxScale), hi)
}

func TestScreenToWorldRoundTrip(t *testing.T) {
	c := newTestCanvas()
	c.Pan(input.PanRequest{X: input.Float(100), Y: input.Float(200), Scale: input.Float(2)})

	tests := []struct {
		name   string
		screen input.Point
		world  input.Point
	}{
		{"center maps to pivot", input.Point{X: 500, Y: 400}, input.Point{X: 100, Y: 200}},
		{"origin", input.Point{X: 0, Y: 0}, input.Point{X: -150, Y: 0}},
		{"bottom right", input.Point{X: 1000, Y: 800}, input.Point{X: 350, Y: 400}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := c.ScreenToWorld(tt.screen)
			assert.InDelta(t, tt.world.X, w.X, 1e-9)
			assert.InDelta(t, tt.world.Y, w.Y, 1e-9)

			s := c.WorldToScreen(w)
			assert.InDelta(t, tt.screen.X, s.X, 1e-9)
			assert.InDelta(t, tt.screen.Y, s.Y, 1e-9)
		})
	}
}

func TestPanIsPartialAndClamped(t *testing.T) {
	c := newTestCanvas()

	c.Pan(input.PanRequest{X: input.Float(10)})
	assert.Equal(t, input.Point{X: 10, Y: 1500}, c.CameraState().Pivot)
	assert.Equal(t, 1.0, c.CameraState().Scale)

	c.Pan(input.PanRequest{Scale: input.Float(50)})
	assert.Equal(t, float64(DefaultCoreMaxScale), c.CameraState().Scale)

	c.SetCoreMaxZoom(input.CoreMaxZoom)
	c.Pan(input.PanRequest{Scale: input.Float(50)})
	assert.Equal(t, 50.0, c.CameraState().Scale)

	c.Pan(input.PanRequest{Scale: input.Float(0.001)})
	assert.Equal(t, DefaultCoreMinScale, c.CameraState().Scale)

	assert.Len(t, c.Pans(), 4)
}

func TestAnimatePanRecordsDuration(t *testing.T) {
	c := newTestCanvas()
	var notified int
	c.OnPan(func() { notified++ })

	c.AnimatePan(input.PanRequest{X: input.Float(1), Y: input.Float(2)}, 200*time.Millisecond)

	require.Len(t, c.Animations(), 1)
	assert.Equal(t, 200*time.Millisecond, c.Animations()[0].Duration)
	assert.Equal(t, input.Point{X: 1, Y: 2}, c.CameraState().Pivot)
	assert.Equal(t, 1, notified)

	c.ResetHistory()
	assert.Empty(t, c.Pans())
	assert.Empty(t, c.Animations())
}

func TestHoveredElement(t *testing.T) {
	c := newTestCanvas()

	assert.Equal(t, input.BoardElementID, c.HoveredElementID(input.Point{X: 10, Y: 10}))
	assert.Equal(t, "", c.HoveredElementID(input.Point{X: -1, Y: 10}))

	c.SetHoveredElement("sidebar")
	assert.Equal(t, "sidebar", c.HoveredElementID(input.Point{X: 10, Y: 10}))

	c.SetHoveredElement("")
	assert.Equal(t, input.BoardElementID, c.HoveredElementID(input.Point{X: 10, Y: 10}))
}

func TestSceneFlags(t *testing.T) {
	c := newTestCanvas()

	_, ok := c.SceneFlag("LockView", "lockPan")
	assert.False(t, ok)

	c.SetSceneFlag("LockView", "lockPan", true)
	v, ok := c.SceneFlag("LockView", "lockPan")
	assert.True(t, ok)
	assert.Equal(t, true, v)

	c.UnsetSceneFlag("LockView", "lockPan")
	_, ok = c.SceneFlag("LockView", "lockPan")
	assert.False(t, ok)
}

func TestCoreWheelZoomsWithoutOverride(t *testing.T) {
	c := newTestCanvas()
	reg := intercept.NewRegistry()
	c.Install(reg)

	reg.Call(input.TargetWheel, &input.WheelEvent{DeltaY: -100})
	assert.InDelta(t, 1.05, c.CameraState().Scale, 1e-9)

	reg.Call(input.TargetWheel, &input.WheelEvent{DeltaY: 100})
	assert.InDelta(t, 1.0, c.CameraState().Scale, 1e-9)

	assert.Nil(t, reg.Call(input.TargetDragCanvasPan, input.Point{}))
}

func TestTokenRotation(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(l *TokenLayer)
		delta      float64
		fine       bool
		wantA      float64
		wantB      float64
		controlled bool
	}{
		{
			name:       "controlled tokens rotate coarse",
			setup:      func(l *TokenLayer) { l.Control("a", true); l.Control("b", true) },
			delta:      120,
			wantA:      45,
			wantB:      45,
			controlled: true,
		},
		{
			name:  "hovered token rotates fine backwards",
			setup: func(l *TokenLayer) { l.SetHover("b") },
			delta: -3,
			fine:  true,
			wantB: 345,
		},
		{
			name:  "nothing to rotate",
			setup: func(l *TokenLayer) {},
			delta: 100,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewTokenLayer()
			l.Add(&Token{ID: "a", Radius: 10})
			l.Add(&Token{ID: "b", Position: input.Point{X: 100}, Radius: 10})
			tt.setup(l)

			assert.Equal(t, tt.controlled, l.ControlledCount() > 0)
			l.Rotate(tt.delta, tt.fine)

			a, _ := l.Get("a")
			b, _ := l.Get("b")
			assert.Equal(t, tt.wantA, a.Rotation)
			assert.Equal(t, tt.wantB, b.Rotation)
		})
	}
}

func TestTokenLayerHitTest(t *testing.T) {
	l := NewTokenLayer()
	l.Add(&Token{ID: "a", Position: input.Point{X: 50, Y: 50}, Radius: 20})

	tok, ok := l.At(input.Point{X: 60, Y: 55})
	require.True(t, ok)
	assert.Equal(t, "a", tok.ID)

	_, ok = l.At(input.Point{X: 200, Y: 200})
	assert.False(t, ok)
}

func TestInteractionsRightDragPans(t *testing.T) {
	c := newTestCanvas()
	m := c.Interactions()

	ev := input.PointerEvent{
		Origin:      input.Point{X: 100, Y: 100},
		Destination: input.Point{X: 110, Y: 90},
	}
	assert.Equal(t, input.CallbackHandled, m.Callback(input.ActionDragRightMove, ev))
	assert.InDelta(t, 2000-8, c.CameraState().Pivot.X, 1e-9)
	assert.InDelta(t, 1500+8, c.CameraState().Pivot.Y, 1e-9)

	m.Deny(input.ActionDragRight)
	assert.False(t, m.Can(input.ActionDragRight, ev))
	m.Allow(input.ActionDragRight)
	assert.True(t, m.Can(input.ActionDragRight, ev))

	m.SetResult(input.ActionDragRightStart, input.CallbackRefused)
	assert.Equal(t, input.CallbackRefused, m.Callback(input.ActionDragRightStart, ev))

	assert.Equal(t, []input.DragAction{input.ActionDragRightMove, input.ActionDragRightStart}, m.Actions())
}

func TestDocumentFilter(t *testing.T) {
	d := &Document{}
	assert.True(t, d.MouseDown(input.ButtonMiddle))

	d.SetMouseDownFilter(func(b input.Button) bool { return b != input.ButtonMiddle })
	assert.False(t, d.MouseDown(input.ButtonMiddle))
	assert.True(t, d.MouseDown(input.ButtonLeft))
}
