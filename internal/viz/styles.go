package viz

import "github.com/charmbracelet/lipgloss"

const panelWidth = 36

type styles struct {
	canvas    lipgloss.Style
	stats     lipgloss.Style
	header    lipgloss.Style
	label     lipgloss.Style
	value     lipgloss.Style
	graph     lipgloss.Style
	help      lipgloss.Style
	running   lipgloss.Style
	paused    lipgloss.Style
	recording lipgloss.Style
	selected  lipgloss.Style
	overlay   lipgloss.Style
}

func newStyles(th Theme) styles {
	return styles{
		canvas: lipgloss.NewStyle().Padding(1, 2),
		stats: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(th.Border).
			Padding(1, 2).
			Width(panelWidth),
		header:    lipgloss.NewStyle().Foreground(th.Primary).Bold(true).MarginBottom(1),
		label:     lipgloss.NewStyle().Foreground(th.Muted).Width(12),
		value:     lipgloss.NewStyle().Foreground(th.Text),
		graph:     lipgloss.NewStyle().Foreground(th.Primary).Padding(1, 0),
		help:      lipgloss.NewStyle().Foreground(th.Muted).MarginTop(1),
		running:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff88")),
		paused:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffaa00")),
		recording: lipgloss.NewStyle().Bold(true).Foreground(th.Recording),
		selected:  lipgloss.NewStyle().Foreground(th.Accent).Bold(true),
		overlay: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(th.Border).
			Padding(1, 2),
	}
}
