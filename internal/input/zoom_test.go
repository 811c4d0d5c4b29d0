package input_test

import (
	"math"
	"testing"

	"github.com/bnema/zoompan/internal/input"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScaleRatio(t *testing.T) {
	assert.Equal(t, 1.05, input.ScaleRatio(-100, 0))
	assert.InDelta(t, 1/1.05, input.ScaleRatio(100, 0), 1e-12)
	assert.InDelta(t, 1.0, input.ScaleRatio(-3, 0)*input.ScaleRatio(3, 0), 1e-12)

	// Speed-based zoom scales with the delta
	assert.InDelta(t, math.Pow(1.05, 2), input.ScaleRatio(-100, 2), 1e-12)
	assert.InDelta(t, math.Pow(1.05, -0.5), input.ScaleRatio(50, 1), 1e-12)
}

func TestZoomIdempotence(t *testing.T) {
	for _, start := range []float64{0.4, 1, 1.7, 2.9} {
		host := newHost()
		host.Pan(input.PanRequest{Scale: input.Float(start)})
		engine := input.NewZoomEngine(host, nil)
		snap := defaults()
		snap.ZoomAroundCursor = false

		require.True(t, engine.Zoom(wheel(0, -100), snap))
		require.True(t, engine.Zoom(wheel(0, 100), snap))
		assert.InDelta(t, start, host.CameraState().Scale, 1e-9, "start %v", start)
	}
}

func TestZoomKeepsCursorAnchored(t *testing.T) {
	cursors := []input.Point{{X: 0, Y: 0}, {X: 123, Y: 456}, {X: 999, Y: 1}, {X: 500, Y: 400}}
	for _, multiplier := range []float64{0, 0.5, 3} {
		for _, p := range cursors {
			host := newHost()
			host.Pan(input.PanRequest{X: input.Float(1234), Y: input.Float(987), Scale: input.Float(1.3)})
			engine := input.NewZoomEngine(host, nil)
			snap := defaults()
			snap.ZoomSpeedMultiplier = multiplier

			before := host.ScreenToWorld(p)
			ev := wheel(0, -60)
			ev.ClientX, ev.ClientY = p.X, p.Y
			require.True(t, engine.Zoom(ev, snap))
			after := host.ScreenToWorld(p)

			assert.InDelta(t, before.X, after.X, 1e-6, "cursor %v multiplier %v", p, multiplier)
			assert.InDelta(t, before.Y, after.Y, 1e-6, "cursor %v multiplier %v", p, multiplier)
			assert.NotEqual(t, 1.3, host.CameraState().Scale)
		}
	}
}

func TestZoomClampsToBounds(t *testing.T) {
	tests := []struct {
		name  string
		start float64
		delta float64
		want  float64
	}{
		{"above max", 3, -100, 3},
		{"below min", 1.0 / 3, 100, 1.0 / 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host := newHost()
			host.Pan(input.PanRequest{Scale: input.Float(tt.start)})
			pivot := host.CameraState().Pivot
			engine := input.NewZoomEngine(host, nil)

			ev := wheel(0, tt.delta)
			ev.ClientX, ev.ClientY = 10, 10
			require.True(t, engine.Zoom(ev, defaults()))

			assert.InDelta(t, tt.want, host.CameraState().Scale, 1e-12)
			assert.Equal(t, pivot, host.CameraState().Pivot, "clamped zoom leaves the pivot")
			pan, _ := lastPan(host)
			assert.Nil(t, pan.X)
			assert.Nil(t, pan.Y)
		})
	}
}

func TestZoomSceneFlagsOverrideConfig(t *testing.T) {
	host := newHost()
	snap := defaults()

	lo, hi := input.ZoomBounds(host, snap)
	assert.InDelta(t, 1.0/3, lo, 1e-12)
	assert.Equal(t, 3.0, hi)

	host.SetSceneFlag(input.ModuleID, input.FlagMaxZoom, 8)
	host.SetSceneFlag(input.ModuleID, input.FlagMinZoom, "0.5")
	lo, hi = input.ZoomBounds(host, snap)
	assert.Equal(t, 0.5, lo)
	assert.Equal(t, 8.0, hi)

	// Non-positive flags are treated as unset
	host.SetSceneFlag(input.ModuleID, input.FlagMaxZoom, 0)
	_, hi = input.ZoomBounds(host, snap)
	assert.Equal(t, 3.0, hi)

	// The raised scene bound lets the zoom go past the configured max
	host.SetSceneFlag(input.ModuleID, input.FlagMaxZoom, 8)
	host.Pan(input.PanRequest{Scale: input.Float(3)})
	engine := input.NewZoomEngine(host, nil)
	require.True(t, engine.Zoom(wheel(0, -100), snap))
	assert.InDelta(t, 3.15, host.CameraState().Scale, 1e-9)
}

func TestZoomWithoutCursorAnchor(t *testing.T) {
	host := newHost()
	pivot := host.CameraState().Pivot
	snap := defaults()
	snap.ZoomAroundCursor = false

	ev := wheel(0, -100)
	ev.ClientX, ev.ClientY = 0, 0
	require.True(t, input.NewZoomEngine(host, nil).Zoom(ev, snap))

	assert.Equal(t, pivot, host.CameraState().Pivot)
	assert.InDelta(t, 1.05, host.CameraState().Scale, 1e-12)
}

func TestZoomIgnoresHorizontalOnlyDelta(t *testing.T) {
	host := newHost()
	assert.False(t, input.NewZoomEngine(host, nil).Zoom(wheel(10, 0), defaults()))
	assert.Empty(t, host.Pans())
}

func TestAnchoredPivotIdentity(t *testing.T) {
	pivot := input.Point{X: 10, Y: 20}
	assert.Equal(t, pivot, input.AnchoredPivot(pivot, input.Point{X: 500, Y: -3}, 1))
	assert.Equal(t, pivot, input.AnchoredPivot(pivot, pivot, 2))
}
