package input

import (
	"strconv"
	"strings"
)

// IsTouchpad guesses whether a wheel event came from a touchpad. It is a
// heuristic with known false positives, so it only applies when the user
// opts into auto-detection.
func IsTouchpad(ev *WheelEvent) bool {
	if ev.WheelDeltaY != nil {
		// Chromium reports wheelDeltaY as exactly -3x deltaY for touchpads
		if *ev.WheelDeltaY == -3*ev.DeltaY {
			return true
		}
	} else if ev.DeltaMode == DeltaPixel {
		return true
	}

	// Mice scroll one axis at a time
	if ev.DeltaX != 0 && ev.DeltaY != 0 {
		return true
	}

	// Precise fractional deltas come from continuous movement, not notches
	return fractionDigits(ev.DeltaX) > 1 || fractionDigits(ev.DeltaY) > 1
}

// fractionDigits counts the digits after the decimal point in the shortest
// decimal form of v
func fractionDigits(v float64) int {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	_, frac, ok := strings.Cut(s, ".")
	if !ok {
		return 0
	}
	return len(frac)
}
