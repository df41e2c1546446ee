package window

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/san-kum/driftfield/internal/field"
)

// Surface draws onto whichever screen image the current Draw call was
// given. Drawing calls outside a Draw are dropped.
type Surface struct {
	width, height int
	bufW, bufH    int
	Background    color.NRGBA

	target *ebiten.Image
}

var _ field.Surface = (*Surface)(nil)

func NewSurface(width, height int, bg color.NRGBA) *Surface {
	return &Surface{width: width, height: height, Background: bg}
}

func (s *Surface) SetSize(width, height int) { s.width, s.height = width, height }

func (s *Surface) RenderedSize() (int, int) { return s.width, s.height }

func (s *Surface) SetBufferSize(w, h int) { s.bufW, s.bufH = w, h }

func (s *Surface) Context() field.Context { return s }

func (s *Surface) bind(screen *ebiten.Image) { s.target = screen }

func (s *Surface) ClearRect(x, y, w, h float64) {
	if s.target == nil {
		return
	}
	if x <= 0 && y <= 0 && int(w) >= s.bufW && int(h) >= s.bufH {
		s.target.Fill(s.Background)
		return
	}
	vector.DrawFilledRect(s.target, float32(x), float32(y), float32(w), float32(h), s.Background, false)
}

func (s *Surface) FillCircle(cx, cy, r float64, fill color.NRGBA) {
	if s.target == nil {
		return
	}
	vector.DrawFilledCircle(s.target, float32(cx), float32(cy), float32(r), fill, true)
}

func (s *Surface) StrokeLine(x0, y0, x1, y1, width float64, stroke color.NRGBA) {
	if s.target == nil {
		return
	}
	vector.StrokeLine(s.target, float32(x0), float32(y0), float32(x1), float32(y1), float32(width), stroke, true)
}
