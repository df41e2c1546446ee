package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/san-kum/driftfield/internal/field"
	"github.com/san-kum/driftfield/internal/render"
)

const (
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// LiveRenderer prints a Braille surface to a plain terminal after every
// frame, at most frameRate times a second.
type LiveRenderer struct {
	out       io.Writer
	surface   *render.BrailleSurface
	title     string
	frameRate int
	lastFrame time.Time
	printed   int
}

func NewLiveRenderer(out io.Writer, surface *render.BrailleSurface, title string, frameRate int) *LiveRenderer {
	if frameRate <= 0 {
		frameRate = 30
	}
	return &LiveRenderer{
		out:       out,
		surface:   surface,
		title:     title,
		frameRate: frameRate,
	}
}

// OnFrame matches field.Animator's OnFrame hook.
func (r *LiveRenderer) OnFrame(frame int, st field.Stats) {
	elapsed := time.Since(r.lastFrame)
	if elapsed < time.Second/time.Duration(r.frameRate) {
		return
	}
	r.lastFrame = time.Now()
	r.render(frame, st)
}

func (r *LiveRenderer) render(frame int, st field.Stats) {
	cols, _ := r.surface.Cells()

	var b strings.Builder
	b.WriteString(clearScreen)
	b.WriteString(fmt.Sprintf("  %s  frame=%d\n", r.title, frame))
	b.WriteString("  " + strings.Repeat("-", cols) + "\n")

	for _, line := range strings.Split(strings.TrimRight(r.surface.String(), "\n"), "\n") {
		b.WriteString("  ")
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("  " + strings.Repeat("-", cols) + "\n")
	b.WriteString(fmt.Sprintf("  particles=%d links=%d repelled=%d\n", st.Particles, st.Links, st.Repelled))

	io.WriteString(r.out, b.String())
	r.printed++
}

// Printed is the number of frames actually written.
func (r *LiveRenderer) Printed() int { return r.printed }

func (r *LiveRenderer) Start() { io.WriteString(r.out, hideCursor) }
func (r *LiveRenderer) Stop()  { io.WriteString(r.out, showCursor) }
