package sculpt

import "fmt"

// Mode selects the deformation applied by a stroke.
type Mode int

const (
	ModePush Mode = iota
	ModePull
	ModeGrab
	ModePinch
	ModeSmooth
)

var modeNames = [...]string{
	ModePush:   "Push",
	ModePull:   "Pull",
	ModeGrab:   "Grab",
	ModePinch:  "Pinch",
	ModeSmooth: "Smooth",
}

// Modes returns every mode in display order.
func Modes() []Mode {
	return []Mode{ModePush, ModePull, ModeGrab, ModePinch, ModeSmooth}
}

func (m Mode) String() string {
	if m.Valid() {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

func (m Mode) Valid() bool {
	return m >= ModePush && m <= ModeSmooth
}

// ParseMode maps a mode name to its Mode. Names are case-sensitive.
func ParseMode(name string) (Mode, error) {
	for i, n := range modeNames {
		if n == name {
			return Mode(i), nil
		}
	}
	return ModePush, fmt.Errorf("%q: %w", name, ErrUnknownMode)
}

// MarshalText encodes the mode by name so prefs files stay readable.
func (m Mode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%d: %w", int(m), ErrUnknownMode)
	}
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
