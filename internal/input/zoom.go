package input

import (
	"math"

	"github.com/bnema/zoompan/internal/config"
	"github.com/bnema/zoompan/internal/logger"
	"github.com/spf13/cast"
)

const (
	// zoomStep is the scale ratio of one wheel tick. Zooming out divides by
	// it instead of multiplying by 0.95 so an in-tick and an out-tick cancel.
	zoomStep = 1.05

	// zoomDeltaScale converts wheel delta to exponent units for speed-based zoom
	zoomDeltaScale = 0.01

	// Scene flag keys overriding the configured zoom bounds
	FlagMinZoom = "minZoom"
	FlagMaxZoom = "maxZoom"
)

// ScaleRatio returns the factor one wheel event multiplies the scale by.
// A zero multiplier gives fixed 5% ticks; anything else scales continuously
// with the delta.
func ScaleRatio(deltaY, multiplier float64) float64 {
	if multiplier == 0 {
		if deltaY < 0 {
			return zoomStep
		}
		return 1 / zoomStep
	}
	return math.Pow(zoomStep, -deltaY*zoomDeltaScale*multiplier)
}

// ZoomBounds returns the allowed scale interval. Scene flags take
// precedence over the configured overrides.
func ZoomBounds(flags FlagSource, snap config.Snapshot) (lo, hi float64) {
	lo, hi = snap.MinZoom, snap.MaxZoom
	if flags == nil {
		return lo, hi
	}
	if v, ok := sceneZoomFlag(flags, FlagMinZoom); ok {
		lo = v
	}
	if v, ok := sceneZoomFlag(flags, FlagMaxZoom); ok {
		hi = v
	}
	return lo, hi
}

func sceneZoomFlag(flags FlagSource, key string) (float64, bool) {
	raw, ok := flags.SceneFlag(ModuleID, key)
	if !ok || raw == nil {
		return 0, false
	}
	v, err := cast.ToFloat64E(raw)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

// AnchoredPivot returns the pivot that keeps the world point under the
// cursor fixed when the scale is multiplied by ratio
func AnchoredPivot(pivot, cursor Point, ratio float64) Point {
	d := cursor.Sub(pivot)
	k := (ratio - 1) / ratio
	return Point{X: pivot.X + d.X*k, Y: pivot.Y + d.Y*k}
}

// ZoomEngine scales the camera around the cursor
type ZoomEngine struct {
	host  Host
	guard *Guard
}

// NewZoomEngine creates a zoom engine for host
func NewZoomEngine(host Host, guard *Guard) *ZoomEngine {
	return &ZoomEngine{host: host, guard: guard}
}

// Zoom applies one wheel event and reports whether a pan was requested
func (z *ZoomEngine) Zoom(ev *WheelEvent, snap config.Snapshot) bool {
	if z.guard != nil && !z.guard.ZoomAllowed() {
		return false
	}
	if ev.DeltaY == 0 {
		return false
	}

	ratio := ScaleRatio(ev.DeltaY, snap.ZoomSpeedMultiplier)
	cam := z.host.CameraState()
	scale := ratio * cam.Scale

	if !snap.ZoomAroundCursor {
		z.host.Pan(PanRequest{Scale: Float(scale)})
		return true
	}

	lo, hi := ZoomBounds(z.host, snap)
	if scale > hi || scale < lo {
		logger.Infof("scale exceeds limit (%v), bounding to interval [%v, %v]", scale, lo, hi)
		z.host.Pan(PanRequest{Scale: Float(math.Min(math.Max(scale, lo), hi))})
		return true
	}

	cursor := z.host.ScreenToWorld(ev.Client())
	pivot := AnchoredPivot(cam.Pivot, cursor, ratio)
	z.host.Pan(PanRequest{X: Float(pivot.X), Y: Float(pivot.Y), Scale: Float(scale)})
	return true
}
