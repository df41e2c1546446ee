package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/driftfield/internal/config"
	"github.com/san-kum/driftfield/internal/field"
)

// Menu lists the presets and launches a live Model for the chosen one.
type Menu struct {
	opts    Options
	presets []string
	cursor  int
	live    *Model
	size    *tea.WindowSizeMsg
	err     error
	styles  styles
}

func NewMenu(opts Options) Menu {
	opts = opts.withDefaults()
	return Menu{
		opts:    opts,
		presets: config.ListPresets(),
		styles:  newStyles(ThemeFor(opts.Mode)),
	}
}

func (m Menu) Init() tea.Cmd { return nil }

func (m Menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.live != nil {
		next, cmd := m.live.Update(msg)
		live := next.(Model)
		m.live = &live
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.size = &msg
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.presets)-1 {
				m.cursor++
			}
		case "enter", " ":
			return m.start()
		}
	}
	return m, nil
}

func (m Menu) start() (tea.Model, tea.Cmd) {
	name := m.presets[m.cursor]
	opts := m.opts
	opts.Params = field.DefaultParams().Merge(config.GetPreset(name).Params)
	opts.Title = "driftfield · " + name

	live, err := NewModel(opts)
	if err != nil {
		m.err = err
		return m, nil
	}
	if m.size != nil {
		live.resize(m.size.Width, m.size.Height)
	}
	opts.Logger.Info("preset selected", "preset", name)
	m.live = &live
	return m, live.Init()
}

// Selected is the preset under the cursor.
func (m Menu) Selected() string { return m.presets[m.cursor] }

// Live is the running model, or nil while the menu is shown.
func (m Menu) Live() *Model { return m.live }

func (m Menu) View() string {
	if m.live != nil {
		return m.live.View()
	}

	st := m.styles
	var s strings.Builder
	s.WriteString(st.header.Render("DRIFTFIELD") + "\n")
	for i, name := range m.presets {
		line := fmt.Sprintf("%-10s %s", name, config.GetPreset(name).Description)
		if i == m.cursor {
			s.WriteString(st.selected.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + st.value.Render(line) + "\n")
		}
	}
	if m.err != nil {
		s.WriteString("\n" + st.recording.Render(m.err.Error()) + "\n")
	}
	s.WriteString(st.help.Render("↑↓:Select  Enter:Start  Q:Quit"))
	return lipgloss.NewStyle().Padding(1, 2).Render(s.String())
}
