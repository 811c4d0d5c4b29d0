package input

import "github.com/bnema/zoompan/internal/config"

const (
	// responsiveResistance makes almost any movement start a drag
	responsiveResistance = 0.1
	// scalingResistance is the screen-space resistance of the Scaling mode,
	// roughly one percent of a typical viewport width
	scalingResistance = 20
)

// DragResistance returns the resistance the drag-resistance mode asks for at
// scale. A zero result means "unset", leaving the host default in place.
func DragResistance(mode string, scale float64) float64 {
	switch mode {
	case config.ResistanceResponsive:
		return responsiveResistance
	case config.ResistanceScaling:
		if scale <= 0 {
			return 0
		}
		return scalingResistance / scale
	default:
		return 0
	}
}

// DefaultDragResistance is the host's own resistance: a quarter grid space
func DefaultDragResistance(gridSize float64) float64 {
	return gridSize / 4
}
