package input

import "time"

// DefaultWheelRateLimit applies when the host does not report its own limit
const DefaultWheelRateLimit = 50 * time.Millisecond

// RateLimiter throttles rotation steps so a fast wheel does not spin
// placeables out of control. It is not safe for concurrent use; each
// Session owns one and calls it from its event loop.
type RateLimiter struct {
	now   func() time.Time
	limit time.Duration
	last  time.Time
}

// NewRateLimiter creates a limiter accepting one step per limit
func NewRateLimiter(limit time.Duration, now func() time.Time) *RateLimiter {
	if limit <= 0 {
		limit = DefaultWheelRateLimit
	}
	if now == nil {
		now = time.Now
	}
	return &RateLimiter{now: now, limit: limit}
}

// Allow reports whether a rotation may run now and, if so, records it.
// Without a target it refuses without touching the clock.
func (r *RateLimiter) Allow(hasTarget bool) bool {
	if !hasTarget {
		return false
	}
	t := r.now()
	if !r.last.IsZero() && t.Sub(r.last) < r.limit {
		return false
	}
	r.last = t
	return true
}

// Limit returns the configured minimum gap
func (r *RateLimiter) Limit() time.Duration {
	return r.limit
}

// LayerHasTarget reports whether a rotation on layer would affect anything.
// Layers with controllable objects rotate their controlled set, the others
// rotate the hovered object.
func LayerHasTarget(layer Layer) bool {
	if layer == nil {
		return false
	}
	if layer.ControllableObjects() {
		return layer.ControlledCount() > 0
	}
	return layer.HasHover()
}
