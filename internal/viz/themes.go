package viz

import (
	"fmt"
	"image/color"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/driftfield/internal/field"
)

// Theme defines the panel colors for one display mode.
type Theme struct {
	Name      string
	Primary   lipgloss.Color
	Accent    lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Border    lipgloss.Color
	Recording lipgloss.Color
}

var (
	ThemeLight = Theme{
		Name:      "light",
		Primary:   hex(field.LightPalette.Link),
		Accent:    hex(field.LightPalette.Particle),
		Text:      lipgloss.Color("#1f2937"),
		Muted:     lipgloss.Color("#6b7280"),
		Border:    lipgloss.Color("#d1d5db"),
		Recording: lipgloss.Color("#dc2626"),
	}

	ThemeDark = Theme{
		Name:      "dark",
		Primary:   hex(field.DarkPalette.Link),
		Accent:    hex(field.DarkPalette.Particle),
		Text:      lipgloss.Color("#e5e7eb"),
		Muted:     lipgloss.Color("#666688"),
		Border:    lipgloss.Color("#444466"),
		Recording: lipgloss.Color("#ff4444"),
	}
)

// ThemeFor returns the theme matching a display mode.
func ThemeFor(m field.Mode) Theme {
	if m == field.Dark {
		return ThemeDark
	}
	return ThemeLight
}

func hex(c color.NRGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}
