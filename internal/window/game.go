//go:build ebiten

package window

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/bnema/zoompan/internal/canvas"
	"github.com/bnema/zoompan/internal/config"
	"github.com/bnema/zoompan/internal/input"
	"github.com/bnema/zoompan/internal/logger"
)

// Available reports whether this build can open a window
const Available = true

var (
	colorBackground = color.RGBA{0x1e, 0x1e, 0x2e, 0xff}
	colorOutside    = color.RGBA{0x11, 0x11, 0x1b, 0xff}
	colorGrid       = color.RGBA{0x45, 0x47, 0x5a, 0xff}
	colorToken      = color.RGBA{0x89, 0xb4, 0xfa, 0xff}
	colorControlled = color.RGBA{0xa6, 0xe3, 0xa1, 0xff}
	colorHovered    = color.RGBA{0xf9, 0xe2, 0xaf, 0xff}
)

var buttons = []struct {
	ebiten ebiten.MouseButton
	input  input.Button
}{
	{ebiten.MouseButtonLeft, input.ButtonLeft},
	{ebiten.MouseButtonMiddle, input.ButtonMiddle},
	{ebiten.MouseButtonRight, input.ButtonRight},
}

// Game is the ebiten game drawing a world
type Game struct {
	ctx   context.Context
	world *canvas.World
	store *config.Store

	cursor       input.Point
	focused      bool
	lastDecision input.Decision
	notice       string
}

// Run opens a window of the given size and blocks until it is closed or
// ctx ends
func Run(ctx context.Context, world *canvas.World, store *config.Store, width, height int) error {
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowTitle("zoompan")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	g := &Game{ctx: ctx, world: world, store: store}
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("window exited: %w", err)
	}
	return nil
}

// Update implements ebiten.Game
func (g *Game) Update() error {
	if g.ctx.Err() != nil {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	g.handleKeys()

	x, y := ebiten.CursorPosition()
	cursor := input.Point{X: float64(x), Y: float64(y)}

	xoff, yoff := ebiten.Wheel()
	if ev := WheelEvent(xoff, yoff, cursor, modifiers()); ev != nil {
		g.lastDecision = g.world.Wheel(ev)
	}

	ev := input.PointerEvent{Screen: cursor, Local: g.world.Canvas.ScreenToWorld(cursor)}
	if focused := ebiten.IsFocused(); focused != g.focused {
		g.focused = focused
		if !focused {
			// Releases happen elsewhere once the window loses focus
			ev.Button = input.ButtonMiddle
			g.world.CancelPointer(ev)
			return nil
		}
	}
	for _, b := range buttons {
		ev.Button = b.input
		if inpututil.IsMouseButtonJustPressed(b.ebiten) {
			g.world.PointerDown(ev, ebiten.IsKeyPressed(ebiten.KeyControl))
		}
	}
	if cursor != g.cursor {
		g.world.PointerMove(ev)
		g.cursor = cursor
	}
	for _, b := range buttons {
		ev.Button = b.input
		if inpututil.IsMouseButtonJustReleased(b.ebiten) {
			g.world.PointerUp(ev)
		}
	}
	return nil
}

func modifiers() Modifiers {
	return Modifiers{
		Shift: ebiten.IsKeyPressed(ebiten.KeyShift),
		Ctrl:  ebiten.IsKeyPressed(ebiten.KeyControl),
		Alt:   ebiten.IsKeyPressed(ebiten.KeyAlt),
		Meta:  ebiten.IsKeyPressed(ebiten.KeyMeta),
	}
}

func (g *Game) handleKeys() {
	snap := g.store.Snapshot()
	shift := ebiten.IsKeyPressed(ebiten.KeyShift)

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyT):
		g.set(config.OptPanZoomMode, input.ToggleTouchpad(input.ParseMode(snap.PanZoomMode)).String())
	case inpututil.IsKeyJustPressed(ebiten.KeyA):
		g.set(config.OptPanZoomMode, input.ToggleAlternative(input.ParseMode(snap.PanZoomMode)).String())
	case inpututil.IsKeyJustPressed(ebiten.KeyM):
		g.set(config.OptMiddleMousePan, !snap.MiddleMousePan)
	case inpututil.IsKeyJustPressed(ebiten.KeyD):
		g.set(config.OptAutoDetectTouchpad, !snap.AutoDetectTouchpad)
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		g.set(config.OptZoomAroundCursor, !snap.ZoomAroundCursor)
	case inpututil.IsKeyJustPressed(ebiten.KeyZ) && shift:
		g.notice = fmt.Sprintf("zoom lock %v", g.world.ToggleLock("lockZoom"))
	case inpututil.IsKeyJustPressed(ebiten.KeyP) && shift:
		g.notice = fmt.Sprintf("pan lock %v", g.world.ToggleLock("lockPan"))
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		g.world.ResetView()
		g.notice = "view reset"
	}
}

func (g *Game) set(name string, value any) {
	if err := g.store.Set(name, value); err != nil {
		logger.Warnf("failed to set %s: %v", name, err)
		g.notice = err.Error()
		return
	}
	g.notice = fmt.Sprintf("%s = %v", name, value)
}

// Draw implements ebiten.Game
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colorOutside)
	c := g.world.Canvas
	cam := c.CameraState()
	scene := c.SceneDimensions()

	// Scene rectangle
	tl := c.WorldToScreen(input.Point{})
	br := c.WorldToScreen(input.Point{X: scene.Width, Y: scene.Height})
	vector.DrawFilledRect(screen, float32(tl.X), float32(tl.Y), float32(br.X-tl.X), float32(br.Y-tl.Y), colorBackground, false)

	if grid := scene.GridSize; grid > 0 && grid*cam.Scale >= 4 {
		for x := 0.0; x <= scene.Width; x += grid {
			p := c.WorldToScreen(input.Point{X: x})
			vector.StrokeLine(screen, float32(p.X), float32(tl.Y), float32(p.X), float32(br.Y), 1, colorGrid, false)
		}
		for y := 0.0; y <= scene.Height; y += grid {
			p := c.WorldToScreen(input.Point{Y: y})
			vector.StrokeLine(screen, float32(tl.X), float32(p.Y), float32(br.X), float32(p.Y), 1, colorGrid, false)
		}
	}

	hovered, _ := c.Tokens().Hovered()
	for _, t := range c.Tokens().All() {
		p := c.WorldToScreen(t.Position)
		clr := colorToken
		switch {
		case t.Controlled:
			clr = colorControlled
		case t == hovered:
			clr = colorHovered
		}
		r := float32(t.Radius * cam.Scale)
		vector.DrawFilledCircle(screen, float32(p.X), float32(p.Y), r, clr, true)
		// Facing marker
		rad := (t.Rotation - 90) * math.Pi / 180
		vector.StrokeLine(screen, float32(p.X), float32(p.Y),
			float32(p.X+math.Cos(rad)*float64(r)), float32(p.Y+math.Sin(rad)*float64(r)), 2, colorOutside, true)
	}

	ebitenutil.DebugPrint(screen, g.status())
}

func (g *Game) status() string {
	snap := g.store.Snapshot()
	cam := g.world.Canvas.CameraState()
	s := fmt.Sprintf("%s  x%.2f  (%.0f, %.0f)  mmb:%v", snap.PanZoomMode, cam.Scale, cam.Pivot.X, cam.Pivot.Y, snap.MiddleMousePan)
	if d := g.world.Session.Drag(); d != nil && d.State() != input.StateHover {
		s += fmt.Sprintf("  drag:%s", d.State())
	}
	if g.lastDecision.Op != input.OpIgnore {
		s += fmt.Sprintf("  last:%s", g.lastDecision.Op)
		if !g.lastDecision.Applied {
			s += " (blocked)"
		}
	}
	if g.notice != "" {
		s += "\n" + g.notice
	}
	return s
}

// Layout implements ebiten.Game. The canvas viewport follows the window.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	size := input.Size{Width: float64(outsideWidth), Height: float64(outsideHeight)}
	if g.world.Canvas.ViewportSize() != size {
		g.world.Canvas.Resize(size)
	}
	return outsideWidth, outsideHeight
}
