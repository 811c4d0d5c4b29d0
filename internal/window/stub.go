//go:build !ebiten

package window

import (
	"context"

	"github.com/bnema/zoompan/internal/canvas"
	"github.com/bnema/zoompan/internal/config"
)

// Available reports whether this build can open a window
const Available = false

// Run always fails in this build
func Run(_ context.Context, _ *canvas.World, _ *config.Store, _, _ int) error {
	return ErrUnavailable
}
