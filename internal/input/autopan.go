package input

import (
	"time"

	"github.com/bnema/zoompan/internal/config"
)

const (
	// AutopanInterval is both the autopan throttle and its animation length
	AutopanInterval = 200 * time.Millisecond
)

// Edge is a set of viewport edges
type Edge int

const (
	EdgeNone Edge = 0
	EdgeLeft Edge = 1 << iota
	EdgeRight
	EdgeTop
	EdgeBottom
)

func (e Edge) String() string {
	if e == EdgeNone {
		return "none"
	}
	s := ""
	for _, part := range []struct {
		edge Edge
		name string
	}{{EdgeLeft, "left"}, {EdgeRight, "right"}, {EdgeTop, "top"}, {EdgeBottom, "bottom"}} {
		if e&part.edge != 0 {
			if s != "" {
				s += "+"
			}
			s += part.name
		}
	}
	return s
}

// EdgesAt returns the viewport edges within pad pixels of p
func EdgesAt(p Point, viewport Size, pad float64) Edge {
	edge := EdgeNone
	if p.X < pad {
		edge |= EdgeLeft
	} else if p.X > viewport.Width-pad {
		edge |= EdgeRight
	}
	if p.Y < pad {
		edge |= EdgeTop
	} else if p.Y > viewport.Height-pad {
		edge |= EdgeBottom
	}
	return edge
}

// EdgePanner scrolls the canvas while a drag hovers near the viewport edge
type EdgePanner struct {
	host  Host
	guard *Guard
	now   func() time.Time
	last  time.Time
}

// NewEdgePanner creates an edge panner for host
func NewEdgePanner(host Host, guard *Guard, now func() time.Time) *EdgePanner {
	if now == nil {
		now = time.Now
	}
	return &EdgePanner{host: host, guard: guard, now: now}
}

// OnDragPosition handles one drag-position update at screen point p and
// returns the applied shift in world units
func (e *EdgePanner) OnDragPosition(p Point, snap config.Snapshot) (dx, dy float64) {
	if e.guard != nil && !e.guard.PanAllowed() {
		return 0, 0
	}

	now := e.now()
	if !e.last.IsZero() && now.Sub(e.last) <= AutopanInterval {
		return 0, 0
	}
	e.last = now

	cam := e.host.CameraState()
	if cam.Scale <= 0 {
		return 0, 0
	}
	shift := e.host.SceneDimensions().GridSize * snap.ShiftWhenDragging / cam.Scale

	edge := EdgesAt(p, e.host.ViewportSize(), snap.PadWhenDragging)
	switch {
	case edge&EdgeLeft != 0:
		dx = -shift
	case edge&EdgeRight != 0:
		dx = shift
	}
	switch {
	case edge&EdgeTop != 0:
		dy = -shift
	case edge&EdgeBottom != 0:
		dy = shift
	}

	if dx == 0 && dy == 0 {
		return 0, 0
	}
	e.host.AnimatePan(PanRequest{
		X: Float(cam.Pivot.X + dx),
		Y: Float(cam.Pivot.Y + dy),
	}, AutopanInterval)
	return dx, dy
}
