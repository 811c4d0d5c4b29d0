package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/zoompan/internal/canvas"
	"github.com/bnema/zoompan/internal/input"
)

// renderBoard draws rows terminal rows of the scene
func (v *Viewer) renderBoard(rows int) string {
	if rows <= 0 {
		return ""
	}
	c := v.world.Canvas
	cam := c.CameraState()
	scene := c.SceneDimensions()
	grid := scene.GridSize
	// World extent of one cell
	spanX := v.geometry.CellWidth / cam.Scale
	spanY := v.geometry.CellHeight / cam.Scale

	tokens := c.Tokens().All()
	hovered, _ := c.Tokens().Hovered()

	var b strings.Builder
	for y := 0; y < rows; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x := 0; x < v.width; x++ {
			p := c.ScreenToWorld(v.geometry.ScreenPoint(x, y))
			if tok := tokenAt(tokens, p); tok != nil {
				b.WriteString(tokenStyle(tok, hovered).Render(IconToken))
				continue
			}
			if p.X < 0 || p.Y < 0 || p.X > scene.Width || p.Y > scene.Height {
				b.WriteByte(' ')
				continue
			}
			b.WriteString(gridGlyph(p, grid, spanX, spanY))
		}
	}
	return b.String()
}

func tokenAt(tokens []*canvas.Token, p input.Point) *canvas.Token {
	for _, t := range tokens {
		if t.Contains(p) {
			return t
		}
	}
	return nil
}

func tokenStyle(t, hovered *canvas.Token) lipgloss.Style {
	switch {
	case t.Controlled:
		return ControlledTokenStyle
	case t == hovered:
		return HoveredTokenStyle
	default:
		return TokenStyle
	}
}

// gridGlyph returns the grid line character for a cell centered at p
func gridGlyph(p input.Point, grid, spanX, spanY float64) string {
	if grid <= 0 {
		return " "
	}
	vertical := crossesLine(p.X, grid, spanX)
	horizontal := crossesLine(p.Y, grid, spanY)
	switch {
	case vertical && horizontal:
		return GridStyle.Render("┼")
	case vertical:
		return GridStyle.Render("│")
	case horizontal:
		return GridStyle.Render("─")
	default:
		return " "
	}
}

// crossesLine reports whether [v-span/2, v+span/2) contains a multiple of grid
func crossesLine(v, grid, span float64) bool {
	if span >= grid {
		return true
	}
	return math.Floor((v-span/2)/grid) != math.Floor((v+span/2)/grid)
}

func (v *Viewer) renderStatus() string {
	snap := v.store.Snapshot()
	c := v.world.Canvas
	cam := c.CameraState()
	guard := v.world.Session.Guard()

	parts := []string{
		ModeBadgeStyle.Render(snap.PanZoomMode),
	}
	if guard.Conflicting() && (!guard.ZoomAllowed() || !guard.PanAllowed()) {
		parts = append(parts, LockedBadgeStyle.Render(IconLock+" LockView"))
	}
	parts = append(parts,
		fmt.Sprintf(" x%.2f  (%.0f, %.0f)", cam.Scale, cam.Pivot.X, cam.Pivot.Y),
		fmt.Sprintf("  mmb:%s", onOff(snap.MiddleMousePan)),
	)
	if d := v.world.Session.Drag(); d != nil && d.State() != input.StateHover {
		parts = append(parts, fmt.Sprintf("  drag:%s", d.State()))
	}
	if v.lastDecision.Op != input.OpIgnore {
		applied := ""
		if !v.lastDecision.Applied {
			applied = " (blocked)"
		}
		parts = append(parts, fmt.Sprintf("  last:%s%s", v.lastDecision.Op, applied))
	}
	if v.notice != "" {
		parts = append(parts, "  "+InfoStyle.Render(v.notice))
	}

	line := lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	return StatusBarStyle.Width(v.width).MaxHeight(1).Render(line)
}
