package input_test

import (
	"testing"
	"time"

	"github.com/bnema/zoompan/internal/canvas"
	"github.com/bnema/zoompan/internal/input"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiter(t *testing.T) {
	clock := newFakeClock()
	rl := input.NewRateLimiter(50*time.Millisecond, clock.Now)

	assert.True(t, rl.Allow(true), "first step always passes")

	clock.Advance(30 * time.Millisecond)
	assert.False(t, rl.Allow(true), "second step inside the window")

	clock.Advance(20 * time.Millisecond)
	assert.True(t, rl.Allow(true), "window elapsed")
}

func TestRateLimiterWithoutTarget(t *testing.T) {
	clock := newFakeClock()
	rl := input.NewRateLimiter(50*time.Millisecond, clock.Now)

	assert.False(t, rl.Allow(false))
	// A refused step without a target must not start the window
	assert.True(t, rl.Allow(true))
}

func TestRateLimiterDefault(t *testing.T) {
	rl := input.NewRateLimiter(0, nil)
	assert.Equal(t, input.DefaultWheelRateLimit, rl.Limit())
}

func TestLayerHasTarget(t *testing.T) {
	layer := canvas.NewTokenLayer()
	layer.Add(&canvas.Token{ID: "a", Radius: 10})

	assert.False(t, input.LayerHasTarget(nil))
	assert.False(t, input.LayerHasTarget(layer))

	layer.Control("a", true)
	assert.True(t, input.LayerHasTarget(layer))
}
