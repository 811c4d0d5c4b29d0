// Package canvas is an in-memory canvas host. It keeps the camera, scene and
// layer state the input package drives and is shared by the terminal viewer,
// the window viewer and the tests.
package canvas

import (
	"math"
	"time"

	"github.com/bnema/zoompan/internal/input"
	"github.com/bnema/zoompan/internal/intercept"
	"github.com/bnema/zoompan/internal/logger"
)

const (
	// DefaultCoreMinScale and DefaultCoreMaxScale are the host's own bounds
	// before the input layer raises the maximum
	DefaultCoreMinScale = 0.1
	DefaultCoreMaxScale = 3

	// coreZoomStep is the host's built-in zoom factor per wheel tick
	coreZoomStep = 1.05

	defaultFrameInterval = time.Second / 60
)

// Options configures a Canvas
type Options struct {
	Viewport       input.Size
	Scene          input.SceneDimensions
	Scale          float64
	Pivot          *input.Point // Defaults to the scene center
	GameMaster     bool
	WheelRateLimit time.Duration
	FrameInterval  time.Duration
}

// Animation is a recorded animated pan
type Animation struct {
	Request  input.PanRequest
	Duration time.Duration
}

// Canvas implements input.Host
type Canvas struct {
	viewport input.Size
	scene    input.SceneDimensions
	pivot    input.Point
	scale    float64
	minScale float64
	maxScale float64

	ready         bool
	gm            bool
	rateLimit     time.Duration
	frameInterval time.Duration
	hoverOverride string

	flags map[string]map[string]any

	layer        *TokenLayer
	interactions *Interactions
	document     *Document

	pans       []input.PanRequest
	animations []Animation
	onPan      []func()
}

// New creates a ready canvas
func New(opts Options) *Canvas {
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	if opts.Scene.GridSize <= 0 {
		opts.Scene.GridSize = 100
	}
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = defaultFrameInterval
	}
	pivot := input.Point{X: opts.Scene.Width / 2, Y: opts.Scene.Height / 2}
	if opts.Pivot != nil {
		pivot = *opts.Pivot
	}

	c := &Canvas{
		viewport:      opts.Viewport,
		scene:         opts.Scene,
		pivot:         pivot,
		scale:         opts.Scale,
		minScale:      DefaultCoreMinScale,
		maxScale:      DefaultCoreMaxScale,
		ready:         true,
		gm:            opts.GameMaster,
		rateLimit:     opts.WheelRateLimit,
		frameInterval: opts.FrameInterval,
		flags:         make(map[string]map[string]any),
		document:      &Document{},
	}
	c.layer = NewTokenLayer()
	c.interactions = newInteractions(c)
	return c
}

// Install defines the host's built-in handlers for the interception targets
// the input layer overrides
func (c *Canvas) Install(reg *intercept.Registry) {
	reg.Define(input.TargetWheel, func(args ...any) any {
		if len(args) == 0 {
			return nil
		}
		if ev, ok := args[0].(*input.WheelEvent); ok {
			c.coreWheel(ev)
		}
		return nil
	})
	reg.Define(input.TargetDragCanvasPan, func(args ...any) any {
		// The core autopan only runs while dragging placeables, which this
		// host does not animate
		return nil
	})
}

// coreWheel zooms around the screen center, the host's behavior without the
// input layer
func (c *Canvas) coreWheel(ev *input.WheelEvent) {
	if ev.DeltaY == 0 {
		return
	}
	scale := c.scale * coreZoomStep
	if ev.DeltaY > 0 {
		scale = c.scale / coreZoomStep
	}
	c.Pan(input.PanRequest{Scale: input.Float(scale)})
}

// CameraState implements input.Camera
func (c *Canvas) CameraState() input.CameraState {
	return input.CameraState{Pivot: c.pivot, Scale: c.scale}
}

// Pan applies a partial camera update, clamping the scale to the core bounds
func (c *Canvas) Pan(req input.PanRequest) {
	if req.X != nil {
		c.pivot.X = *req.X
	}
	if req.Y != nil {
		c.pivot.Y = *req.Y
	}
	if req.Scale != nil {
		c.scale = math.Min(math.Max(*req.Scale, c.minScale), c.maxScale)
	}
	c.pans = append(c.pans, req)
	for _, fn := range c.onPan {
		fn()
	}
}

// AnimatePan records the animation and applies its end state. The reference
// host has no animation clock.
func (c *Canvas) AnimatePan(req input.PanRequest, duration time.Duration) {
	c.animations = append(c.animations, Animation{Request: req, Duration: duration})
	c.Pan(req)
}

// OnPan registers fn to run after every camera change
func (c *Canvas) OnPan(fn func()) {
	c.onPan = append(c.onPan, fn)
}

// Pans returns every pan request in order, animated ones included
func (c *Canvas) Pans() []input.PanRequest {
	return c.pans
}

// Animations returns every animated pan in order
func (c *Canvas) Animations() []Animation {
	return c.animations
}

// ResetHistory clears the recorded pans and animations
func (c *Canvas) ResetHistory() {
	c.pans = nil
	c.animations = nil
}

// ScreenToWorld converts a screen position to world coordinates
func (c *Canvas) ScreenToWorld(p input.Point) input.Point {
	return input.Point{
		X: (p.X-c.viewport.Width/2)/c.scale + c.pivot.X,
		Y: (p.Y-c.viewport.Height/2)/c.scale + c.pivot.Y,
	}
}

// WorldToScreen is the inverse of ScreenToWorld
func (c *Canvas) WorldToScreen(p input.Point) input.Point {
	return input.Point{
		X: (p.X-c.pivot.X)*c.scale + c.viewport.Width/2,
		Y: (p.Y-c.pivot.Y)*c.scale + c.viewport.Height/2,
	}
}

// Ready implements input.Host
func (c *Canvas) Ready() bool { return c.ready }

// SetReady toggles readiness, as during a scene load
func (c *Canvas) SetReady(ready bool) { c.ready = ready }

// ViewportSize implements input.Host
func (c *Canvas) ViewportSize() input.Size { return c.viewport }

// Resize changes the viewport
func (c *Canvas) Resize(size input.Size) { c.viewport = size }

// SceneDimensions implements input.Host
func (c *Canvas) SceneDimensions() input.SceneDimensions { return c.scene }

// HoveredElementID returns the board id inside the viewport and "" outside,
// unless an override is set
func (c *Canvas) HoveredElementID(p input.Point) string {
	if c.hoverOverride != "" {
		return c.hoverOverride
	}
	if p.X < 0 || p.Y < 0 || p.X > c.viewport.Width || p.Y > c.viewport.Height {
		return ""
	}
	return input.BoardElementID
}

// SetHoveredElement forces the hovered element id, e.g. a UI panel over the
// board. An empty id restores hit testing.
func (c *Canvas) SetHoveredElement(id string) { c.hoverOverride = id }

// SceneFlag implements input.Host
func (c *Canvas) SceneFlag(namespace, key string) (any, bool) {
	ns, ok := c.flags[namespace]
	if !ok {
		return nil, false
	}
	v, ok := ns[key]
	return v, ok
}

// SetSceneFlag stores a scene flag
func (c *Canvas) SetSceneFlag(namespace, key string, value any) {
	ns, ok := c.flags[namespace]
	if !ok {
		ns = make(map[string]any)
		c.flags[namespace] = ns
	}
	ns[key] = value
}

// UnsetSceneFlag removes a scene flag
func (c *Canvas) UnsetSceneFlag(namespace, key string) {
	delete(c.flags[namespace], key)
}

// ActiveLayer implements input.Host
func (c *Canvas) ActiveLayer() input.Layer {
	if c.layer == nil {
		return nil
	}
	return c.layer
}

// Tokens returns the token layer
func (c *Canvas) Tokens() *TokenLayer { return c.layer }

// IsGM implements input.Host
func (c *Canvas) IsGM() bool { return c.gm }

// WheelRateLimit implements input.Host
func (c *Canvas) WheelRateLimit() time.Duration { return c.rateLimit }

// FrameInterval implements input.Host
func (c *Canvas) FrameInterval() time.Duration { return c.frameInterval }

// SetCoreMaxZoom raises the host's own maximum scale
func (c *Canvas) SetCoreMaxZoom(scale float64) {
	logger.Debugf("core max zoom set to %v", scale)
	c.maxScale = scale
}

// CoreBounds returns the host's scale interval
func (c *Canvas) CoreBounds() (lo, hi float64) {
	return c.minScale, c.maxScale
}

// Interactions returns the drag-gesture manager
func (c *Canvas) Interactions() *Interactions { return c.interactions }

// Document returns the document root
func (c *Canvas) Document() *Document { return c.document }
