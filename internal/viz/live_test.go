package viz

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/driftfield/internal/field"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	dir := t.TempDir()
	m, err := NewModel(Options{Seed: 1, GIFPath: filepath.Join(dir, "out.gif"), SnapshotDir: dir})
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModelTickSteps(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, TickMsg(time.Now()))
	m = update(t, m, TickMsg(time.Now()))

	if m.frame != 2 {
		t.Errorf("expected 2 frames, got %d", m.frame)
	}
	if len(m.linkHistory) != 2 {
		t.Errorf("expected 2 history points, got %d", len(m.linkHistory))
	}
	if m.stats.Particles != len(m.field.Particles()) {
		t.Errorf("stats particles %d, field has %d", m.stats.Particles, len(m.field.Particles()))
	}
}

func TestModelPause(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, key(" "))
	m = update(t, m, TickMsg(time.Now()))

	if m.frame != 0 {
		t.Errorf("paused model stepped %d frames", m.frame)
	}
	if !strings.Contains(m.View(), "PAUSED") {
		t.Error("view should show PAUSED")
	}
}

func TestModelToggleMode(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, key("t"))
	if m.Mode() != field.Dark {
		t.Errorf("expected dark mode, got %s", m.Mode())
	}
	m = update(t, m, key("t"))
	if m.Mode() != field.Light {
		t.Errorf("expected light mode, got %s", m.Mode())
	}
}

func TestModelWindowResize(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, tea.WindowSizeMsg{Width: 140, Height: 40})

	cols, rows := m.surface.Cells()
	if cols != 140-panelWidth-2*canvasLeft-1 || rows != 40-2*canvasTop {
		t.Errorf("unexpected canvas %dx%d", cols, rows)
	}
	w, h := m.field.Size()
	if w != float64(cols*2)*5 || h != float64(rows*4)*5 {
		t.Errorf("field size %.0fx%.0f does not follow the canvas", w, h)
	}
	if len(m.field.Particles()) != field.Count(w, h) {
		t.Errorf("expected %d particles, got %d", field.Count(w, h), len(m.field.Particles()))
	}
}

func TestModelMouse(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, tea.MouseMsg{X: canvasLeft + 3, Y: canvasTop + 2, Action: tea.MouseActionMotion})

	p := m.field.Pointer()
	if !p.Active {
		t.Fatal("pointer should be active over the canvas")
	}
	wantX, wantY := m.surface.CellCenter(3, 2)
	if p.X != wantX || p.Y != wantY {
		t.Errorf("pointer at %.1f,%.1f, want %.1f,%.1f", p.X, p.Y, wantX, wantY)
	}

	m = update(t, m, tea.MouseMsg{X: 500, Y: 2, Action: tea.MouseActionMotion})
	if m.field.Pointer().Active {
		t.Error("moving off the canvas should clear the pointer")
	}

	m = update(t, m, tea.MouseMsg{X: canvasLeft, Y: canvasTop, Action: tea.MouseActionMotion})
	m = update(t, m, tea.BlurMsg{})
	if m.field.Pointer().Active {
		t.Error("blur should clear the pointer")
	}
}

func TestModelRecordGIF(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, key("g"))
	if !m.Recording() {
		t.Fatal("expected recording")
	}
	for i := 0; i < 3; i++ {
		m = update(t, m, TickMsg(time.Now()))
	}
	if m.recorder.Len() != 3 {
		t.Errorf("expected 3 captured frames, got %d", m.recorder.Len())
	}
	m = update(t, m, key("g"))
	if m.Recording() {
		t.Fatal("expected recording to stop")
	}

	info, err := os.Stat(m.opts.GIFPath)
	if err != nil || info.Size() == 0 {
		t.Errorf("gif not written: %v", err)
	}
}

func TestModelSnapshot(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, TickMsg(time.Now()))
	m = update(t, m, key("s"))

	path := filepath.Join(m.opts.SnapshotDir, "driftfield-000001.svg")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("snapshot not written: %v", err)
	}
	if !strings.Contains(string(data), "<svg") {
		t.Error("expected an SVG document")
	}
	if !strings.Contains(m.status, path) {
		t.Errorf("expected status to name the file, got %q", m.status)
	}
}

func TestModelHelpAndQuit(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, key("?"))
	if !strings.Contains(m.View(), "KEYBOARD SHORTCUTS") {
		t.Error("help overlay missing")
	}

	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestMenuStartsPreset(t *testing.T) {
	menu := NewMenu(Options{Seed: 2})
	next, _ := menu.Update(key("j"))
	menu = next.(Menu)
	if menu.Selected() != "default" {
		t.Fatalf("expected cursor on default, got %s", menu.Selected())
	}

	next, _ = menu.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	menu = next.(Menu)
	next, cmd := menu.Update(tea.KeyMsg{Type: tea.KeyEnter})
	menu = next.(Menu)
	if menu.Live() == nil || cmd == nil {
		t.Fatal("enter should start the live model")
	}
	if !strings.Contains(menu.View(), "DRIFTFIELD · DEFAULT") {
		t.Error("live view should carry the preset title")
	}
}
