// Package intercept lets packages replace or wrap named host functions.
//
// A host defines the original implementation of each target with Define and
// routes calls through Call. Packages register replacements with Register:
//
//   - Override replaces the original outright. It never sees the wrapped chain.
//   - Wrapper must call through to the wrapped function.
//   - Mixed may call through or short-circuit.
//
// Wrappers run outermost first (Wrapper before Mixed, then registration
// order), and the innermost function is the latest Override or, when none is
// registered, the original. Two owners fighting over one target is a
// conflict: the registration still succeeds (the latest Override wins) and
// every conflict listener is told which owners collided.
package intercept

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/bnema/zoompan/internal/logger"
)

var (
	// ErrInvalidMode is returned for an unknown registration mode
	ErrInvalidMode = errors.New("invalid interception mode")
	// ErrNilHandler is returned when registering a nil handler
	ErrNilHandler = errors.New("nil handler")
)

// Mode selects how a handler composes with the target
type Mode int

const (
	Override Mode = iota
	Mixed
	Wrapper
)

func (m Mode) String() string {
	switch m {
	case Override:
		return "OVERRIDE"
	case Mixed:
		return "MIXED"
	case Wrapper:
		return "WRAPPER"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Func is a callable target
type Func func(args ...any) any

// Handler is a registered replacement. wrapped is the next function in the
// chain and is nil for Override handlers.
type Handler func(wrapped Func, args ...any) any

// Conflict describes two owners registering incompatible handlers on a target
type Conflict struct {
	Owner   string   // Owner already holding the target
	Other   string   // Owner whose registration caused the conflict
	Target  string   // Target both registered on
	Targets []string // Every target the two owners currently collide on
}

type registration struct {
	owner   string
	handler Handler
	mode    Mode
	seq     int
}

type target struct {
	original Func
	regs     []registration
}

// Registry holds the interception chains of a host
type Registry struct {
	mu        sync.RWMutex
	targets   map[string]*target
	listeners []func(Conflict)
	seq       int
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		targets: make(map[string]*target),
	}
}

// Define sets the original implementation of a target
func (r *Registry) Define(name string, fn Func) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.target(name).original = fn
}

func (r *Registry) target(name string) *target {
	t, ok := r.targets[name]
	if !ok {
		t = &target{}
		r.targets[name] = t
	}
	return t
}

// OnConflict registers a listener for conflicts detected by later registrations
func (r *Registry) OnConflict(fn func(Conflict)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, fn)
}

// Register adds a handler for target on behalf of owner
func (r *Registry) Register(owner, name string, handler Handler, mode Mode) error {
	if handler == nil {
		return ErrNilHandler
	}
	if mode < Override || mode > Wrapper {
		return fmt.Errorf("%w: %d", ErrInvalidMode, int(mode))
	}

	r.mu.Lock()
	t := r.target(name)
	var rivals []string
	for _, reg := range t.regs {
		if reg.owner == owner {
			continue
		}
		if collides(reg.mode, mode) {
			rivals = append(rivals, reg.owner)
		}
	}
	r.seq++
	t.regs = append(t.regs, registration{owner: owner, handler: handler, mode: mode, seq: r.seq})

	var conflicts []Conflict
	for _, rival := range rivals {
		conflicts = append(conflicts, Conflict{
			Owner:   rival,
			Other:   owner,
			Target:  name,
			Targets: r.sharedTargets(rival, owner),
		})
	}
	listeners := append([]func(Conflict){}, r.listeners...)
	r.mu.Unlock()

	logger.Debugf("registered %s handler on %s for %s", mode, name, owner)
	for _, c := range conflicts {
		logger.Warnf("interception conflict on %s between %s and %s", c.Target, c.Owner, c.Other)
		for _, fn := range listeners {
			fn(c)
		}
	}
	return nil
}

// collides reports whether an existing registration and a new one cannot
// both take effect. Overrides exclude each other, and a Mixed wrapper can
// short-circuit an Override.
func collides(existing, added Mode) bool {
	switch {
	case existing == Override && added == Override:
		return true
	case existing == Override && added == Mixed, existing == Mixed && added == Override:
		return true
	}
	return false
}

// sharedTargets lists the targets where a and b hold colliding handlers.
// Callers hold r.mu.
func (r *Registry) sharedTargets(a, b string) []string {
	var names []string
	for name, t := range r.targets {
		var modesA, modesB []Mode
		for _, reg := range t.regs {
			switch reg.owner {
			case a:
				modesA = append(modesA, reg.mode)
			case b:
				modesB = append(modesB, reg.mode)
			}
		}
	search:
		for _, ma := range modesA {
			for _, mb := range modesB {
				if collides(ma, mb) {
					names = append(names, name)
					break search
				}
			}
		}
	}
	sort.Strings(names)
	return names
}

// Registered reports whether owner holds a handler on target
func (r *Registry) Registered(owner, name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.targets[name]
	if !ok {
		return false
	}
	for _, reg := range t.regs {
		if reg.owner == owner {
			return true
		}
	}
	return false
}

// Unregister removes every handler owner holds on target
func (r *Registry) Unregister(owner, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.targets[name]
	if !ok {
		return
	}
	kept := t.regs[:0]
	for _, reg := range t.regs {
		if reg.owner != owner {
			kept = append(kept, reg)
		}
	}
	t.regs = kept
}

// Call invokes target through its chain. Calling an undefined target
// without handlers returns nil.
func (r *Registry) Call(name string, args ...any) any {
	fn := r.chain(name)
	if fn == nil {
		return nil
	}
	return fn(args...)
}

// chain builds the callable for target from a snapshot of its registrations
func (r *Registry) chain(name string) Func {
	r.mu.RLock()
	t, ok := r.targets[name]
	if !ok {
		r.mu.RUnlock()
		return nil
	}
	inner := t.original
	var wrappers []registration
	var override *registration
	for i := range t.regs {
		reg := t.regs[i]
		if reg.mode == Override {
			if override == nil || reg.seq > override.seq {
				override = &reg
			}
			continue
		}
		wrappers = append(wrappers, reg)
	}
	r.mu.RUnlock()

	if override != nil {
		h := override.handler
		inner = func(args ...any) any { return h(nil, args...) }
	}
	if inner == nil {
		inner = func(...any) any { return nil }
	}

	// Outermost first: Wrapper before Mixed, then registration order
	sort.SliceStable(wrappers, func(i, j int) bool {
		if wrappers[i].mode != wrappers[j].mode {
			return wrappers[i].mode == Wrapper
		}
		return wrappers[i].seq < wrappers[j].seq
	})
	for i := len(wrappers) - 1; i >= 0; i-- {
		h, next := wrappers[i].handler, inner
		inner = func(args ...any) any { return h(next, args...) }
	}

	return inner
}
