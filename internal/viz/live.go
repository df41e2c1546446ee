package viz

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/driftfield/internal/export"
	"github.com/san-kum/driftfield/internal/field"
	"github.com/san-kum/driftfield/internal/render"
)

const (
	defaultCols     = 80
	defaultRows     = 22
	historyCapacity = 120
	minCols         = 10
	minRows         = 4
)

// canvas origin inside the view, from the canvas style padding
const (
	canvasLeft = 2
	canvasTop  = 1
)

type TickMsg time.Time

type Options struct {
	Params  field.Params
	Seed    int64
	Mode    field.Mode
	Scale   float64
	FPS     int
	GIFPath string
	// SnapshotDir receives terminal snapshots from the s key.
	SnapshotDir string
	Title       string
	Logger      *log.Logger
}

func (o Options) withDefaults() Options {
	if o.Params == (field.Params{}) {
		o.Params = field.DefaultParams()
	}
	if o.Scale <= 0 {
		o.Scale = 5
	}
	if o.FPS <= 0 {
		o.FPS = 60
	}
	if o.GIFPath == "" {
		o.GIFPath = "driftfield.gif"
	}
	if o.Title == "" {
		o.Title = "driftfield"
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	return o
}

// Model is the live field view.
type Model struct {
	opts Options
	log  *log.Logger

	surface *render.BrailleSurface
	tee     *render.Tee
	field   *field.Field

	mode          field.Mode
	styles        styles
	width, height int
	running       bool
	showHelp      bool

	raster    *render.RasterSurface
	recorder  *render.GIFRecorder
	recording bool

	frame       int
	stats       field.Stats
	linkHistory []float64
	frameTime   time.Duration
	status      string
}

func NewModel(opts Options) (Model, error) {
	opts = opts.withDefaults()
	pal := opts.Mode.Palette()

	surface := render.NewBrailleSurface(defaultCols, defaultRows, opts.Scale, pal.Background)
	tee := render.NewTee(surface)
	f, err := field.Attach(tee, field.WithParams(opts.Params), field.WithSeed(opts.Seed))
	if err != nil {
		return Model{}, err
	}

	return Model{
		opts:        opts,
		log:         opts.Logger,
		surface:     surface,
		tee:         tee,
		field:       f,
		mode:        opts.Mode,
		styles:      newStyles(ThemeFor(opts.Mode)),
		width:       defaultCols + panelWidth + 2*canvasLeft,
		height:      defaultRows + 2*canvasTop,
		running:     true,
		linkHistory: make([]float64, 0, historyCapacity),
	}, nil
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.opts.FPS), func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles input events and steps the field.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.recording {
				m.stopRecording()
			}
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.field.Resize()
			m.log.Debug("regenerated", "particles", len(m.field.Particles()))
		case "t":
			m.setMode(m.mode.Toggle())
		case "s":
			m.snapshot()
		case "g":
			if m.recording {
				m.stopRecording()
			} else {
				m.startRecording()
			}
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case tea.MouseMsg:
		m.pointer(msg)
	case tea.BlurMsg:
		m.field.PointerLeave()
	case TickMsg:
		if m.running {
			start := time.Now()
			m.step()
			m.frameTime = time.Since(start)
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) step() {
	m.stats = m.field.Step(field.RenderConfig{Mode: m.mode})
	m.frame++

	m.linkHistory = append(m.linkHistory, float64(m.stats.Links))
	if len(m.linkHistory) > historyCapacity {
		m.linkHistory = m.linkHistory[1:]
	}

	if m.recording {
		m.recorder.Capture(m.raster.Image())
	}
}

// resize fits the canvas into the terminal beside the stats panel.
func (m *Model) resize(w, h int) {
	m.width, m.height = w, h
	cols := max(w-panelWidth-2*canvasLeft-1, minCols)
	rows := max(h-2*canvasTop, minRows)
	if c, r := m.surface.Cells(); c == cols && r == rows {
		return
	}
	m.surface.SetCells(cols, rows)
	m.field.Resize()
	m.log.Debug("resized", "cols", cols, "rows", rows, "particles", len(m.field.Particles()))
}

// pointer maps a terminal cell to field units. Anything outside the
// canvas is a leave.
func (m *Model) pointer(msg tea.MouseMsg) {
	cols, rows := m.surface.Cells()
	col, row := msg.X-canvasLeft, msg.Y-canvasTop
	if col < 0 || row < 0 || col >= cols || row >= rows {
		m.field.PointerLeave()
		return
	}
	x, y := m.surface.CellCenter(col, row)
	m.field.PointerMove(x, y)
}

func (m *Model) setMode(mode field.Mode) {
	m.mode = mode
	m.styles = newStyles(ThemeFor(mode))
	bg := mode.Palette().Background
	m.surface.SetBackground(bg)
	if m.raster != nil {
		m.raster.Background = bg
	}
}

// snapshot saves the Braille canvas as it is on screen.
func (m *Model) snapshot() {
	path := filepath.Join(m.opts.SnapshotDir, fmt.Sprintf("driftfield-%06d.svg", m.frame))
	if err := export.SaveCanvasSVG(path, m.surface.Canvas(), 4); err != nil {
		m.status = "snapshot: " + err.Error()
		m.log.Error("snapshot failed", "err", err)
		return
	}
	m.status = "saved " + path
	m.log.Info("snapshot saved", "path", path, "frame", m.frame)
}

func (m *Model) startRecording() {
	w, h := m.surface.RenderedSize()
	m.raster = render.NewRasterSurface(w, h, m.mode.Palette().Background)
	m.tee.Attach(m.raster)
	m.recorder = render.NewGIFRecorder(m.opts.FPS)
	m.recording = true
	m.status = "recording"
	m.log.Info("gif recording started", "width", w, "height", h)
}

func (m *Model) stopRecording() {
	m.tee.Detach()
	m.recording = false
	frames := m.recorder.Len()
	if err := m.recorder.Save(m.opts.GIFPath); err != nil {
		m.status = "gif: " + err.Error()
		m.log.Error("gif save failed", "err", err)
	} else {
		m.status = fmt.Sprintf("saved %s (%d frames)", m.opts.GIFPath, frames)
		m.log.Info("gif saved", "path", m.opts.GIFPath, "frames", frames)
	}
	m.raster, m.recorder = nil, nil
}

// Field exposes the underlying field for callers that drive the model
// directly.
func (m Model) Field() *field.Field { return m.field }

func (m Model) Mode() field.Mode { return m.mode }

func (m Model) Recording() bool { return m.recording }

// View renders the canvas and the stats panel.
func (m Model) View() string {
	st := m.styles
	canvasView := st.canvas.Render(m.surface.String())

	var s strings.Builder
	s.WriteString(st.header.Render(strings.ToUpper(m.opts.Title)) + "\n")

	switch {
	case m.recording:
		s.WriteString(st.recording.Render(fmt.Sprintf("● REC %d", m.recorder.Len())))
	case m.running:
		s.WriteString(st.running.Render("RUNNING"))
	default:
		s.WriteString(st.paused.Render("PAUSED"))
	}
	s.WriteString("\n\n")

	if len(m.linkHistory) > 1 {
		chart := asciigraph.Plot(m.linkHistory, asciigraph.Height(4), asciigraph.Width(panelWidth-10), asciigraph.Caption("links"))
		s.WriteString(st.graph.Render(chart) + "\n\n")
	}

	w, h := m.field.Size()
	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("Particles", fmt.Sprintf("%d", m.stats.Particles))
	row("Links", fmt.Sprintf("%d", m.stats.Links))
	row("Repelled", fmt.Sprintf("%d", m.stats.Repelled))
	if p := m.field.Pointer(); p.Active {
		row("Pointer", fmt.Sprintf("%.0f, %.0f", p.X, p.Y))
	} else {
		row("Pointer", "-")
	}
	row("Surface", fmt.Sprintf("%.0fx%.0f", w, h))
	row("Mode", m.mode.String())
	row("Frame", fmt.Sprintf("%d", m.frame))
	row("Frame time", fmt.Sprintf("%.2fms", float64(m.frameTime.Microseconds())/1000))

	if m.status != "" {
		s.WriteString("\n" + st.value.Render(m.status) + "\n")
	}
	s.WriteString(st.help.Render("─────────────────────\nSP:Pause R:Regen Q:Quit\nT:Mode   G:Record S:Snap\n?:Help"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, st.stats.Render(s.String()))
	if m.showHelp {
		return lipgloss.JoinVertical(lipgloss.Left, st.overlay.Render(helpText), mainView)
	}
	return mainView
}

const helpText = `KEYBOARD SHORTCUTS

Space   Pause/Resume
R       Regenerate particles
T       Toggle light/dark mode
G       Toggle GIF recording
S       Save an SVG snapshot
?       Toggle this help
Q       Quit

Mouse   Repel particles`
