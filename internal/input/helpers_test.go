package input_test

import (
	"time"

	"github.com/bnema/zoompan/internal/canvas"
	"github.com/bnema/zoompan/internal/config"
	"github.com/bnema/zoompan/internal/input"
)

// fakeClock is a manually advanced clock
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.t = c.t.Add(d)
}

// newHost returns a 1000x800 viewer over a 4000x3000 scene, camera centered
// at scale 1, with the core max zoom already lifted
func newHost() *canvas.Canvas {
	c := canvas.New(canvas.Options{
		Viewport: input.Size{Width: 1000, Height: 800},
		Scene:    input.SceneDimensions{Width: 4000, Height: 3000, GridSize: 100},
	})
	c.SetCoreMaxZoom(input.CoreMaxZoom)
	return c
}

func defaults() config.Snapshot {
	return config.DefaultSnapshot()
}

// wheel builds a wheel event over the board
func wheel(dx, dy float64) *input.WheelEvent {
	return &input.WheelEvent{
		DeltaX:    dx,
		DeltaY:    dy,
		DeltaMode: input.DeltaLine,
		ClientX:   500,
		ClientY:   400,
	}
}

func middle(x, y float64) input.PointerEvent {
	p := input.Point{X: x, Y: y}
	return input.PointerEvent{Button: input.ButtonMiddle, Screen: p, Local: p}
}

func lastPan(c *canvas.Canvas) (input.PanRequest, bool) {
	pans := c.Pans()
	if len(pans) == 0 {
		return input.PanRequest{}, false
	}
	return pans[len(pans)-1], true
}
