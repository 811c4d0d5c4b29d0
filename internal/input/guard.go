package input

import (
	"slices"

	"github.com/bnema/zoompan/internal/intercept"
	"github.com/bnema/zoompan/internal/logger"
	"github.com/spf13/cast"
)

// FlagSource reads namespaced scene flags
type FlagSource interface {
	SceneFlag(namespace, key string) (any, bool)
}

// Guard honors LockView's camera locks when our drag-pan override displaced
// LockView's own. It only activates for players; the GM is never locked.
type Guard struct {
	flags       FlagSource
	conflicting bool
}

// NewGuard creates an inactive guard reading locks from flags
func NewGuard(flags FlagSource) *Guard {
	return &Guard{flags: flags}
}

// OnConflict inspects an interception conflict and activates the guard when
// LockView lost the drag-pan hook to this module
func (g *Guard) OnConflict(c intercept.Conflict, isGM, optedOut bool) {
	pair := (c.Owner == ModuleID && c.Other == LockViewModuleID) ||
		(c.Owner == LockViewModuleID && c.Other == ModuleID)
	if !pair || !slices.Contains(c.Targets, TargetDragCanvasPan) {
		return
	}
	if isGM || optedOut {
		logger.Debugf("ignoring %s conflict (gm=%v, opted out=%v)", LockViewModuleID, isGM, optedOut)
		return
	}
	logger.Infof("conflict with %s detected, honoring its zoom and pan locks", LockViewModuleID)
	g.conflicting = true
}

// Conflicting reports whether the guard is active
func (g *Guard) Conflicting() bool {
	return g.conflicting
}

// SetConflicting forces the guard state
func (g *Guard) SetConflicting(v bool) {
	g.conflicting = v
}

// ZoomAllowed reports whether zooming (and rotating) is permitted
func (g *Guard) ZoomAllowed() bool {
	return !g.locked("lockZoom")
}

// PanAllowed reports whether panning is permitted
func (g *Guard) PanAllowed() bool {
	return !g.locked("lockPan")
}

func (g *Guard) locked(key string) bool {
	if !g.conflicting || g.flags == nil {
		return false
	}
	v, ok := g.flags.SceneFlag(LockViewModuleID, key)
	if !ok {
		return false
	}
	if cast.ToBool(v) {
		logger.Debugf("%s.%s is set, suppressing camera change", LockViewModuleID, key)
		return true
	}
	return false
}
