package render

import (
	"image"
	"image/color"

	"github.com/san-kum/driftfield/internal/field"
)

type OpKind int

const (
	OpClear OpKind = iota
	OpCircle
	OpLine
)

// Op is one recorded drawing call.
type Op struct {
	Kind           OpKind
	X0, Y0, X1, Y1 float64
	R, Width       float64
	Color          color.NRGBA
}

// Tape is a headless surface that records the drawing calls of the current
// frame. A full clear starts a new frame.
type Tape struct {
	Width, Height int
	BufW, BufH    int
	Frames        int
	Ops           []Op
}

var _ field.Surface = (*Tape)(nil)

func NewTape(width, height int) *Tape {
	return &Tape{Width: width, Height: height}
}

// SetSize changes the rendered size reported to the field.
func (t *Tape) SetSize(width, height int) { t.Width, t.Height = width, height }

func (t *Tape) RenderedSize() (int, int) { return t.Width, t.Height }

func (t *Tape) SetBufferSize(w, h int) { t.BufW, t.BufH = w, h }

func (t *Tape) Context() field.Context { return t }

func (t *Tape) ClearRect(x, y, w, h float64) {
	if x <= 0 && y <= 0 && w >= float64(t.BufW) && h >= float64(t.BufH) {
		t.Ops = t.Ops[:0]
		t.Frames++
	}
	t.Ops = append(t.Ops, Op{Kind: OpClear, X0: x, Y0: y, X1: x + w, Y1: y + h})
}

func (t *Tape) FillCircle(cx, cy, r float64, fill color.NRGBA) {
	t.Ops = append(t.Ops, Op{Kind: OpCircle, X0: cx, Y0: cy, R: r, Color: fill})
}

func (t *Tape) StrokeLine(x0, y0, x1, y1, width float64, stroke color.NRGBA) {
	t.Ops = append(t.Ops, Op{Kind: OpLine, X0: x0, Y0: y0, X1: x1, Y1: y1, Width: width, Color: stroke})
}

func (t *Tape) Circles() []Op { return t.filter(OpCircle) }

func (t *Tape) Lines() []Op { return t.filter(OpLine) }

func (t *Tape) filter(kind OpKind) []Op {
	var out []Op
	for _, op := range t.Ops {
		if op.Kind == kind {
			out = append(out, op)
		}
	}
	return out
}

// Replay draws the recorded frame onto another context.
func (t *Tape) Replay(ctx field.Context) {
	for _, op := range t.Ops {
		switch op.Kind {
		case OpClear:
			ctx.ClearRect(op.X0, op.Y0, op.X1-op.X0, op.Y1-op.Y0)
		case OpCircle:
			ctx.FillCircle(op.X0, op.Y0, op.R, op.Color)
		case OpLine:
			ctx.StrokeLine(op.X0, op.Y0, op.X1, op.Y1, op.Width, op.Color)
		}
	}
}

// SVG renders the recorded frame as a standalone document on bg.
func (t *Tape) SVG(bg color.NRGBA) []byte {
	s := NewSVGSurface(t.Width, t.Height, bg)
	s.SetBufferSize(t.BufW, t.BufH)
	t.Replay(s)
	return s.Bytes()
}

// Raster renders the recorded frame into a fresh RGBA image on bg.
func (t *Tape) Raster(bg color.NRGBA) *image.RGBA {
	s := NewRasterSurface(t.BufW, t.BufH, bg)
	s.ClearRect(0, 0, float64(t.BufW), float64(t.BufH))
	t.Replay(s)
	return s.Image()
}
