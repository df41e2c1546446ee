package render

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"
	"github.com/san-kum/driftfield/internal/field"
)

// SVGSurface renders each frame as a standalone SVG document. A full clear
// starts a new document; Bytes closes and returns it.
type SVGSurface struct {
	width, height int
	bufW, bufH    int
	Background    color.NRGBA
	Title         string

	buf    bytes.Buffer
	canvas *svg.SVG
	open   bool
}

var _ field.Surface = (*SVGSurface)(nil)

func NewSVGSurface(width, height int, bg color.NRGBA) *SVGSurface {
	s := &SVGSurface{width: width, height: height, Background: bg}
	s.canvas = svg.New(&s.buf)
	return s
}

// SetSize changes the rendered size reported to the field.
func (s *SVGSurface) SetSize(width, height int) { s.width, s.height = width, height }

func (s *SVGSurface) RenderedSize() (int, int) { return s.width, s.height }

func (s *SVGSurface) SetBufferSize(w, h int) { s.bufW, s.bufH = w, h }

func (s *SVGSurface) Context() field.Context { return s }

func (s *SVGSurface) begin() {
	s.buf.Reset()
	s.canvas.Start(s.bufW, s.bufH)
	if s.Title != "" {
		s.canvas.Title(s.Title)
	}
	s.open = true
}

func (s *SVGSurface) ClearRect(x, y, w, h float64) {
	full := x <= 0 && y <= 0 && int(math.Ceil(w)) >= s.bufW && int(math.Ceil(h)) >= s.bufH
	if full || !s.open {
		s.begin()
	}
	s.canvas.Rect(round(x), round(y), round(w), round(h), fillStyle(s.Background))
}

func (s *SVGSurface) FillCircle(cx, cy, r float64, fill color.NRGBA) {
	if !s.open {
		s.begin()
	}
	s.canvas.Circle(round(cx), round(cy), max(round(r), 1), fillStyle(fill))
}

func (s *SVGSurface) StrokeLine(x0, y0, x1, y1, width float64, stroke color.NRGBA) {
	if !s.open {
		s.begin()
	}
	s.canvas.Line(round(x0), round(y0), round(x1), round(y1), strokeStyle(stroke, width))
}

// Bytes finishes the current document and returns it.
func (s *SVGSurface) Bytes() []byte {
	if !s.open {
		s.begin()
	}
	s.canvas.End()
	s.open = false
	return s.buf.Bytes()
}

// WriteTo writes the finished document to w.
func (s *SVGSurface) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(s.Bytes())
	return int64(n), err
}

func fillStyle(c color.NRGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("fill:rgb(%d,%d,%d)", c.R, c.G, c.B)
	}
	return fmt.Sprintf("fill:rgb(%d,%d,%d);fill-opacity:%.3f", c.R, c.G, c.B, float64(c.A)/255)
}

func strokeStyle(c color.NRGBA, width float64) string {
	return fmt.Sprintf("stroke:rgb(%d,%d,%d);stroke-opacity:%.3f;stroke-width:%g", c.R, c.G, c.B, float64(c.A)/255, width)
}

func round(v float64) int { return int(math.Round(v)) }
