package render

import (
	"image/color"
	"math"

	"github.com/san-kum/driftfield/internal/field"
)

// BrailleSurface puts a field on a terminal. Each character cell holds 2x4
// Braille dots and each dot covers Scale x Scale field units, so a terminal
// box of cols x rows cells renders as (2*cols*Scale) x (4*rows*Scale).
type BrailleSurface struct {
	canvas     *Canvas
	cols, rows int
	scale      float64
	background color.NRGBA
}

var _ field.Surface = (*BrailleSurface)(nil)

func NewBrailleSurface(cols, rows int, scale float64, bg color.NRGBA) *BrailleSurface {
	if scale <= 0 {
		scale = 1
	}
	s := &BrailleSurface{cols: cols, rows: rows, scale: scale, background: bg}
	s.canvas = s.newCanvas(cols, rows)
	return s
}

func (s *BrailleSurface) newCanvas(cols, rows int) *Canvas {
	c := NewCanvas(max(cols, 0), max(rows, 0))
	c.Background, _ = toColorful(s.background)
	c.Clear()
	return c
}

// SetCells records a new host size in character cells. The drawing buffer
// follows on the field's next Resize.
func (s *BrailleSurface) SetCells(cols, rows int) {
	s.cols, s.rows = max(cols, 0), max(rows, 0)
}

func (s *BrailleSurface) Cells() (cols, rows int) { return s.cols, s.rows }

func (s *BrailleSurface) Scale() float64 { return s.scale }

// SetBackground changes the color cells fade from; it applies from the next
// clear.
func (s *BrailleSurface) SetBackground(bg color.NRGBA) {
	s.background = bg
	s.canvas.Background, _ = toColorful(bg)
}

func (s *BrailleSurface) RenderedSize() (int, int) {
	return int(float64(s.cols*2) * s.scale), int(float64(s.rows*4) * s.scale)
}

func (s *BrailleSurface) SetBufferSize(w, h int) {
	cols := int(math.Ceil(float64(w) / (2 * s.scale)))
	rows := int(math.Ceil(float64(h) / (4 * s.scale)))
	if cols == s.canvas.Width && rows == s.canvas.Height {
		return
	}
	s.canvas = s.newCanvas(cols, rows)
}

func (s *BrailleSurface) Context() field.Context { return s }

func (s *BrailleSurface) Canvas() *Canvas { return s.canvas }

// CellCenter maps a character cell to field coordinates.
func (s *BrailleSurface) CellCenter(col, row int) (x, y float64) {
	return (float64(col*2) + 1) * s.scale, (float64(row*4) + 2) * s.scale
}

func (s *BrailleSurface) ClearRect(x, y, w, h float64) {
	x0, y0 := int(math.Floor(x/s.scale)), int(math.Floor(y/s.scale))
	x1, y1 := int(math.Ceil((x+w)/s.scale)), int(math.Ceil((y+h)/s.scale))
	if x0 <= 0 && y0 <= 0 && x1 >= s.canvas.Width*2 && y1 >= s.canvas.Height*4 {
		s.canvas.Clear()
		return
	}
	for dy := y0; dy < y1; dy++ {
		for dx := x0; dx < x1; dx++ {
			s.canvas.Unset(dx, dy)
		}
	}
}

func (s *BrailleSurface) FillCircle(cx, cy, r float64, fill color.NRGBA) {
	clr, a := toColorful(fill)
	s.canvas.FillDisc(cx/s.scale, cy/s.scale, r/s.scale, clr, a)
}

func (s *BrailleSurface) StrokeLine(x0, y0, x1, y1, _ float64, stroke color.NRGBA) {
	clr, a := toColorful(stroke)
	s.canvas.DrawLine(
		int(math.Floor(x0/s.scale)), int(math.Floor(y0/s.scale)),
		int(math.Floor(x1/s.scale)), int(math.Floor(y1/s.scale)),
		clr, a,
	)
}

// String renders the current frame with cell colors.
func (s *BrailleSurface) String() string { return s.canvas.Render() }
