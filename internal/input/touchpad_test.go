package input_test

import (
	"testing"

	"github.com/bnema/zoompan/internal/input"
	"github.com/stretchr/testify/assert"
)

func TestIsTouchpad(t *testing.T) {
	tests := []struct {
		name string
		ev   input.WheelEvent
		want bool
	}{
		{
			name: "chromium touchpad ratio",
			ev:   input.WheelEvent{DeltaY: 4, WheelDeltaY: input.Float(-12), DeltaMode: input.DeltaPixel},
			want: true,
		},
		{
			name: "chromium mouse notch",
			ev:   input.WheelEvent{DeltaY: 100, WheelDeltaY: input.Float(-120), DeltaMode: input.DeltaPixel},
			want: false,
		},
		{
			name: "pixel mode without legacy field",
			ev:   input.WheelEvent{DeltaY: 3, DeltaMode: input.DeltaPixel},
			want: true,
		},
		{
			name: "line mode mouse",
			ev:   input.WheelEvent{DeltaY: 3, DeltaMode: input.DeltaLine},
			want: false,
		},
		{
			name: "both axes",
			ev:   input.WheelEvent{DeltaX: 1, DeltaY: 3, DeltaMode: input.DeltaLine},
			want: true,
		},
		{
			name: "fractional delta",
			ev:   input.WheelEvent{DeltaY: 1.25, DeltaMode: input.DeltaLine},
			want: true,
		},
		{
			name: "one fractional digit",
			ev:   input.WheelEvent{DeltaY: 1.5, DeltaMode: input.DeltaLine},
			want: false,
		},
		{
			name: "fractional horizontal delta with legacy field",
			ev:   input.WheelEvent{DeltaX: -0.333, WheelDeltaY: input.Float(120)},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := tt.ev
			assert.Equal(t, tt.want, input.IsTouchpad(&ev))
		})
	}
}
