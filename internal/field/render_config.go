package field

import (
	"fmt"
	"image/color"
	"strings"
)

// Mode is the page's light/dark display mode.
type Mode int

const (
	Light Mode = iota
	Dark
)

func (m Mode) String() string {
	if m == Dark {
		return "dark"
	}
	return "light"
}

// Toggle returns the other mode.
func (m Mode) Toggle() Mode {
	if m == Dark {
		return Light
	}
	return Dark
}

// ParseMode accepts "light" or "dark" (case-insensitive). An empty string
// is light.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "light":
		return Light, nil
	case "dark":
		return Dark, nil
	}
	return Light, fmt.Errorf("field: unknown mode %q (want light or dark)", s)
}

func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *Mode) UnmarshalText(b []byte) error {
	v, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Palette holds the colors one mode draws with. Link alpha is replaced per
// line by the distance falloff.
type Palette struct {
	Particle   color.NRGBA
	Link       color.NRGBA
	Background color.NRGBA
}

var (
	LightPalette = Palette{
		Particle:   color.NRGBA{R: 235, G: 37, B: 37, A: 153},
		Link:       color.NRGBA{R: 37, G: 99, B: 235, A: 255},
		Background: color.NRGBA{R: 255, G: 255, B: 255, A: 255},
	}
	DarkPalette = Palette{
		Particle:   color.NRGBA{R: 195, G: 66, B: 19, A: 255},
		Link:       color.NRGBA{R: 100, G: 150, B: 255, A: 255},
		Background: color.NRGBA{R: 10, G: 10, B: 10, A: 255},
	}
)

func (m Mode) Palette() Palette {
	if m == Dark {
		return DarkPalette
	}
	return LightPalette
}

// RenderConfig is passed to every Draw call. It replaces reading a global
// display-mode flag from inside the field.
type RenderConfig struct {
	Mode Mode
	// Palette overrides the mode's palette when non-nil.
	Palette *Palette
}

func (c RenderConfig) palette() Palette {
	if c.Palette != nil {
		return *c.Palette
	}
	return c.Mode.Palette()
}

// alpha converts an opacity in [0,1] to an 8-bit alpha.
func alpha(opacity float64) uint8 {
	if opacity <= 0 {
		return 0
	}
	if opacity >= 1 {
		return 255
	}
	return uint8(opacity*255 + 0.5)
}
