package input

import (
	"github.com/bnema/zoompan/internal/config"
)

// PanEngine moves the camera by wheel deltas
type PanEngine struct {
	host  Host
	guard *Guard
}

// NewPanEngine creates a pan engine for host
func NewPanEngine(host Host, guard *Guard) *PanEngine {
	return &PanEngine{host: host, guard: guard}
}

// Pan shifts the pivot by (dx, dy) screen pixels converted to world units,
// so the on-screen pan distance does not depend on the zoom level
func (p *PanEngine) Pan(dx, dy float64, snap config.Snapshot) bool {
	if p.guard != nil && !p.guard.PanAllowed() {
		return false
	}
	cam := p.host.CameraState()
	if cam.Scale <= 0 {
		return false
	}
	multiplier := snap.PanSpeedMultiplier / cam.Scale
	invert := 1.0
	if snap.InvertVerticalScroll {
		invert = -1
	}
	p.host.Pan(PanRequest{
		X: Float(cam.Pivot.X + dx*multiplier),
		Y: Float(cam.Pivot.Y + dy*multiplier*invert),
	})
	return true
}
