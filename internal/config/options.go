package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/bnema/zoompan/internal/logger"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

var (
	// ErrUnknownOption is returned for option names outside the schema
	ErrUnknownOption = errors.New("unknown option")
	// ErrInvalidChoice is returned when an enumerated option gets a value outside its choices
	ErrInvalidChoice = errors.New("invalid choice")
	// ErrInvalidValue is returned when a value cannot be converted to the option's kind
	ErrInvalidValue = errors.New("invalid value")
)

// Kind is the value type of an option
type Kind int

const (
	KindBool Kind = iota
	KindNumber
	KindChoice
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindChoice:
		return "choice"
	default:
		return "unknown"
	}
}

// Option names
const (
	OptZoomAroundCursor     = "zoom-around-cursor"
	OptMiddleMousePan       = "middle-mouse-pan"
	OptMinMaxZoomOverride   = "min-max-zoom-override"
	OptMaxZoomOverride      = "max-zoom-override"
	OptMinZoomOverride      = "min-zoom-override"
	OptDragResistanceMode   = "drag-resistance-mode"
	OptPanZoomMode          = "pan-zoom-mode"
	OptAutoDetectTouchpad   = "auto-detect-touchpad"
	OptZoomSpeedMultiplier  = "zoom-speed-multiplier"
	OptPanSpeedMultiplier   = "pan-speed-multiplier"
	OptInvertVerticalScroll = "invert-vertical-scroll"
	OptPadWhenDragging      = "pad-value-when-dragging"
	OptShiftWhenDragging    = "shift-value-when-dragging"
	OptDisableLockViewFix   = "disable-lock-view-compatibility-fix"
	OptLegacyTouchpadScroll = "touchpad-scroll"
)

// Choices of the enumerated options
const (
	ModeMouse       = "Mouse"
	ModeTouchpad    = "Touchpad"
	ModeAlternative = "Alternative"

	ResistanceDefault    = "Foundry Default"
	ResistanceResponsive = "Responsive"
	ResistanceScaling    = "Scaling"
)

// Option describes one named setting
type Option struct {
	Name    string
	Kind    Kind
	Default any
	Choices []string
	Aliases map[string]string // lowercase alias -> canonical choice
	Hidden  bool              // Not offered by setup or config show
	Hint    string
}

// Schema lists every option with its type and default
var Schema = []Option{
	{Name: OptZoomAroundCursor, Kind: KindBool, Default: true,
		Hint: "Center zooming around the cursor"},
	{Name: OptMiddleMousePan, Kind: KindBool, Default: false,
		Hint: "Pan by dragging with the middle mouse button"},
	{Name: OptMinMaxZoomOverride, Kind: KindNumber, Default: 0.0, Hidden: true,
		Hint: "Legacy combined zoom bound, 0 when unset; migrated at startup"},
	{Name: OptMaxZoomOverride, Kind: KindNumber, Default: 3.0,
		Hint: "Maximum zoom scale"},
	{Name: OptMinZoomOverride, Kind: KindNumber, Default: 1.0 / 3.0,
		Hint: "Minimum zoom scale"},
	{Name: OptDragResistanceMode, Kind: KindChoice, Default: ResistanceScaling,
		Choices: []string{ResistanceDefault, ResistanceResponsive, ResistanceScaling},
		Aliases: map[string]string{"default": ResistanceDefault},
		Hint:    "Distance the cursor must travel before a click becomes a drag"},
	{Name: OptPanZoomMode, Kind: KindChoice, Default: ModeMouse,
		Choices: []string{ModeMouse, ModeTouchpad, ModeAlternative},
		Aliases: map[string]string{"default": ModeMouse, "alt": ModeAlternative, "trackpad": ModeTouchpad},
		Hint:    "Input scheme used to interpret wheel events"},
	{Name: OptAutoDetectTouchpad, Kind: KindBool, Default: false,
		Hint: "Guess per event whether a touchpad or a mouse produced it"},
	{Name: OptZoomSpeedMultiplier, Kind: KindNumber, Default: 0.0,
		Hint: "0 zooms 5% per tick; other values scale zoom with the wheel delta"},
	{Name: OptPanSpeedMultiplier, Kind: KindNumber, Default: 1.0,
		Hint: "Multiplies pan distance"},
	{Name: OptInvertVerticalScroll, Kind: KindBool, Default: false,
		Hint: "Invert vertical panning"},
	{Name: OptPadWhenDragging, Kind: KindNumber, Default: 50.0,
		Hint: "Pixels from the viewport edge that trigger autopan while dragging"},
	{Name: OptShiftWhenDragging, Kind: KindNumber, Default: 3.0,
		Hint: "Grid spaces moved per autopan step"},
	{Name: OptDisableLockViewFix, Kind: KindBool, Default: false, Hidden: true,
		Hint: "Turn off the LockView compatibility workaround"},
	{Name: OptLegacyTouchpadScroll, Kind: KindBool, Default: false, Hidden: true,
		Hint: "Legacy touchpad toggle; migrated to pan-zoom-mode"},
}

// Lookup returns the schema entry for name
func Lookup(name string) (Option, bool) {
	for _, opt := range Schema {
		if opt.Name == name {
			return opt, true
		}
	}
	return Option{}, false
}

// Normalize converts raw into the option's kind, resolving choice aliases
func (o Option) Normalize(raw any) (any, error) {
	switch o.Kind {
	case KindBool:
		v, err := cast.ToBoolE(raw)
		if err != nil {
			return nil, fmt.Errorf("%w for %s: %v", ErrInvalidValue, o.Name, err)
		}
		return v, nil
	case KindNumber:
		v, err := cast.ToFloat64E(raw)
		if err != nil {
			return nil, fmt.Errorf("%w for %s: %v", ErrInvalidValue, o.Name, err)
		}
		return v, nil
	case KindChoice:
		v, err := cast.ToStringE(raw)
		if err != nil {
			return nil, fmt.Errorf("%w for %s: %v", ErrInvalidValue, o.Name, err)
		}
		for _, choice := range o.Choices {
			if strings.EqualFold(choice, v) {
				return choice, nil
			}
		}
		if canonical, ok := o.Aliases[strings.ToLower(v)]; ok {
			return canonical, nil
		}
		return nil, fmt.Errorf("%w for %s: %q (want one of %s)", ErrInvalidChoice, o.Name, v, strings.Join(o.Choices, ", "))
	}
	return nil, fmt.Errorf("%w for %s", ErrInvalidValue, o.Name)
}

// Snapshot is a typed view of every option, resolved once per event
type Snapshot struct {
	ZoomAroundCursor     bool
	MiddleMousePan       bool
	MaxZoom              float64
	MinZoom              float64
	DragResistanceMode   string
	PanZoomMode          string
	AutoDetectTouchpad   bool
	ZoomSpeedMultiplier  float64
	PanSpeedMultiplier   float64
	InvertVerticalScroll bool
	PadWhenDragging      float64
	ShiftWhenDragging    float64
	DisableLockViewFix   bool
}

// DefaultSnapshot returns the snapshot of an untouched store
func DefaultSnapshot() Snapshot {
	return NewStore(viper.New()).Snapshot()
}

// Store gives named, validated access to the options kept in a viper instance
type Store struct {
	mu        sync.RWMutex
	v         *viper.Viper
	listeners map[string][]func(any)
}

// NewStore binds a store to v and registers the schema defaults on it
func NewStore(v *viper.Viper) *Store {
	if v == nil {
		v = viper.New()
	}
	for _, opt := range Schema {
		v.SetDefault(optionKey(opt.Name), opt.Default)
	}
	return &Store{
		v:         v,
		listeners: make(map[string][]func(any)),
	}
}

func optionKey(name string) string {
	return "options." + name
}

// Get returns the current value of an option
func (s *Store) Get(name string) (any, error) {
	opt, ok := Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownOption, name)
	}
	s.mu.RLock()
	raw := s.v.Get(optionKey(name))
	s.mu.RUnlock()

	v, err := opt.Normalize(raw)
	if err != nil {
		// A hand-edited file can hold garbage; the default keeps handlers working
		logger.Debugf("option %s holds %v, using default: %v", name, raw, err)
		return opt.Default, nil
	}
	return v, nil
}

// Set validates and stores an option value, then notifies change listeners
func (s *Store) Set(name string, value any) error {
	opt, ok := Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownOption, name)
	}
	v, err := opt.Normalize(value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.v.Set(optionKey(name), v)
	fns := append([]func(any){}, s.listeners[name]...)
	s.mu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
	return nil
}

// OnChange registers fn to run after every successful Set of name
func (s *Store) OnChange(name string, fn func(any)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[name] = append(s.listeners[name], fn)
}

func (s *Store) getBool(name string) bool {
	v, _ := s.Get(name)
	b, _ := v.(bool)
	return b
}

func (s *Store) getNumber(name string) float64 {
	v, _ := s.Get(name)
	f, _ := v.(float64)
	return f
}

func (s *Store) getString(name string) string {
	v, _ := s.Get(name)
	str, _ := v.(string)
	return str
}

// Snapshot resolves every option into a typed struct
func (s *Store) Snapshot() Snapshot {
	return Snapshot{
		ZoomAroundCursor:     s.getBool(OptZoomAroundCursor),
		MiddleMousePan:       s.getBool(OptMiddleMousePan),
		MaxZoom:              s.getNumber(OptMaxZoomOverride),
		MinZoom:              s.getNumber(OptMinZoomOverride),
		DragResistanceMode:   s.getString(OptDragResistanceMode),
		PanZoomMode:          s.getString(OptPanZoomMode),
		AutoDetectTouchpad:   s.getBool(OptAutoDetectTouchpad),
		ZoomSpeedMultiplier:  s.getNumber(OptZoomSpeedMultiplier),
		PanSpeedMultiplier:   s.getNumber(OptPanSpeedMultiplier),
		InvertVerticalScroll: s.getBool(OptInvertVerticalScroll),
		PadWhenDragging:      s.getNumber(OptPadWhenDragging),
		ShiftWhenDragging:    s.getNumber(OptShiftWhenDragging),
		DisableLockViewFix:   s.getBool(OptDisableLockViewFix),
	}
}

// Migrate rewrites legacy options into their replacements. It reports
// whether anything changed.
func (s *Store) Migrate() bool {
	migrated := false

	if old := s.getNumber(OptMinMaxZoomOverride); old > 0 {
		logger.Infof("migrating %s to %s and %s", OptMinMaxZoomOverride, OptMaxZoomOverride, OptMinZoomOverride)
		logger.Infof("old setting value was: %v", old)
		_ = s.Set(OptMaxZoomOverride, old)
		_ = s.Set(OptMinZoomOverride, 1/old)
		_ = s.Set(OptMinMaxZoomOverride, 0)
		migrated = true
	}

	if s.getBool(OptLegacyTouchpadScroll) {
		logger.Infof("migrating %s to %s=%s", OptLegacyTouchpadScroll, OptPanZoomMode, ModeTouchpad)
		_ = s.Set(OptPanZoomMode, ModeTouchpad)
		_ = s.Set(OptLegacyTouchpadScroll, false)
		migrated = true
	}

	return migrated
}

// Clone returns a detached store holding the current option values.
// Listeners are not copied.
func (s *Store) Clone() *Store {
	c := NewStore(viper.New())
	for _, opt := range Schema {
		v, _ := s.Get(opt.Name)
		c.v.Set(optionKey(opt.Name), v)
	}
	return c
}
