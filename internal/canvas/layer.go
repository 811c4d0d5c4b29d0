package canvas

import (
	"math"
	"sort"

	"github.com/bnema/zoompan/internal/input"
)

const (
	fineRotation   = 15
	coarseRotation = 45
)

// Token is a rotatable placeable
type Token struct {
	ID         string
	Position   input.Point // World coordinates of the center
	Radius     float64
	Rotation   float64 // Degrees in [0, 360)
	Controlled bool
}

// Contains reports whether the world point p is on the token
func (t *Token) Contains(p input.Point) bool {
	return t.Position.Distance(p) <= t.Radius
}

// TokenLayer implements input.Layer over a set of tokens
type TokenLayer struct {
	tokens map[string]*Token
	hover  string
}

// NewTokenLayer creates an empty layer
func NewTokenLayer() *TokenLayer {
	return &TokenLayer{tokens: make(map[string]*Token)}
}

// Add places a token, replacing any with the same id
func (l *TokenLayer) Add(t *Token) {
	l.tokens[t.ID] = t
}

// Get returns a token by id
func (l *TokenLayer) Get(id string) (*Token, bool) {
	t, ok := l.tokens[id]
	return t, ok
}

// All returns the tokens sorted by id
func (l *TokenLayer) All() []*Token {
	out := make([]*Token, 0, len(l.tokens))
	for _, t := range l.tokens {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// At returns the token under the world point p
func (l *TokenLayer) At(p input.Point) (*Token, bool) {
	for _, t := range l.All() {
		if t.Contains(p) {
			return t, true
		}
	}
	return nil, false
}

// SetHover marks the token under the pointer, "" for none
func (l *TokenLayer) SetHover(id string) {
	l.hover = id
}

// Hovered returns the hovered token
func (l *TokenLayer) Hovered() (*Token, bool) {
	if l.hover == "" {
		return nil, false
	}
	return l.Get(l.hover)
}

// Control toggles a token's controlled flag
func (l *TokenLayer) Control(id string, controlled bool) {
	if t, ok := l.tokens[id]; ok {
		t.Controlled = controlled
	}
}

// ReleaseAll clears every controlled flag
func (l *TokenLayer) ReleaseAll() {
	for _, t := range l.tokens {
		t.Controlled = false
	}
}

// Controlled returns the controlled tokens sorted by id
func (l *TokenLayer) Controlled() []*Token {
	var out []*Token
	for _, t := range l.All() {
		if t.Controlled {
			out = append(out, t)
		}
	}
	return out
}

// Placeable implements input.Layer
func (l *TokenLayer) Placeable() bool { return true }

// ControllableObjects implements input.Layer
func (l *TokenLayer) ControllableObjects() bool { return true }

// ControlledCount implements input.Layer
func (l *TokenLayer) ControlledCount() int { return len(l.Controlled()) }

// HasHover implements input.Layer
func (l *TokenLayer) HasHover() bool {
	_, ok := l.Hovered()
	return ok
}

// Rotate turns the controlled tokens, or the hovered one when nothing is
// controlled, by one step in the direction of delta
func (l *TokenLayer) Rotate(delta float64, fine bool) {
	if delta == 0 {
		return
	}
	step := float64(coarseRotation)
	if fine {
		step = fineRotation
	}
	step = math.Copysign(step, delta)

	targets := l.Controlled()
	if len(targets) == 0 {
		if t, ok := l.Hovered(); ok {
			targets = []*Token{t}
		}
	}
	for _, t := range targets {
		t.Rotation = math.Mod(t.Rotation+step+360, 360)
	}
}
