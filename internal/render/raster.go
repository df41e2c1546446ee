package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/san-kum/driftfield/internal/field"
	"golang.org/x/image/vector"
)

// kappa places cubic control points for a quarter circle.
const kappa = 0.5522847498

// RasterSurface draws frames into an RGBA image with anti-aliased shapes.
type RasterSurface struct {
	width, height int
	Background    color.NRGBA

	img *image.RGBA
	z   *vector.Rasterizer
}

var _ field.Surface = (*RasterSurface)(nil)

func NewRasterSurface(width, height int, bg color.NRGBA) *RasterSurface {
	s := &RasterSurface{width: width, height: height, Background: bg}
	s.SetBufferSize(width, height)
	return s
}

func (s *RasterSurface) SetSize(width, height int) { s.width, s.height = width, height }

func (s *RasterSurface) RenderedSize() (int, int) { return s.width, s.height }

func (s *RasterSurface) SetBufferSize(w, h int) {
	w, h = max(w, 0), max(h, 0)
	if s.img != nil && s.img.Bounds().Dx() == w && s.img.Bounds().Dy() == h {
		return
	}
	s.img = image.NewRGBA(image.Rect(0, 0, w, h))
	s.z = vector.NewRasterizer(w, h)
}

func (s *RasterSurface) Context() field.Context { return s }

// Image is the frame buffer. It is reused across frames.
func (s *RasterSurface) Image() *image.RGBA { return s.img }

func (s *RasterSurface) empty() bool {
	b := s.img.Bounds()
	return b.Dx() == 0 || b.Dy() == 0
}

func (s *RasterSurface) ClearRect(x, y, w, h float64) {
	r := image.Rect(
		int(math.Floor(x)), int(math.Floor(y)),
		int(math.Ceil(x+w)), int(math.Ceil(y+h)),
	).Intersect(s.img.Bounds())
	draw.Draw(s.img, r, image.NewUniform(s.Background), image.Point{}, draw.Src)
}

// clip returns the pixel rectangle covering a shape's float bounds, limited
// to the image, and resets the rasterizer to that size. Shapes are then
// drawn relative to its Min corner.
func (s *RasterSurface) clip(minX, minY, maxX, maxY float64) image.Rectangle {
	b := s.img.Bounds()
	// clamp before converting so far off-surface or non-finite shapes stay empty
	if !(maxX > 0 && maxY > 0 && minX < float64(b.Max.X) && minY < float64(b.Max.Y)) {
		return image.Rectangle{}
	}
	r := image.Rect(
		int(math.Floor(max(minX, 0))), int(math.Floor(max(minY, 0))),
		int(math.Ceil(min(maxX, float64(b.Max.X)))), int(math.Ceil(min(maxY, float64(b.Max.Y)))),
	).Intersect(b)
	if !r.Empty() {
		s.z.Reset(r.Dx(), r.Dy())
	}
	return r
}

func (s *RasterSurface) FillCircle(cx, cy, r float64, fill color.NRGBA) {
	if s.empty() || !(r > 0) {
		return
	}
	b := s.clip(cx-r, cy-r, cx+r, cy+r)
	if b.Empty() {
		return
	}

	x, y := float32(cx-float64(b.Min.X)), float32(cy-float64(b.Min.Y))
	k, rr := float32(r*kappa), float32(r)
	s.z.MoveTo(x+rr, y)
	s.z.CubeTo(x+rr, y+k, x+k, y+rr, x, y+rr)
	s.z.CubeTo(x-k, y+rr, x-rr, y+k, x-rr, y)
	s.z.CubeTo(x-rr, y-k, x-k, y-rr, x, y-rr)
	s.z.CubeTo(x+k, y-rr, x+rr, y-k, x+rr, y)
	s.z.ClosePath()
	s.z.Draw(s.img, b, image.NewUniform(fill), image.Point{})
}

func (s *RasterSurface) StrokeLine(x0, y0, x1, y1, width float64, stroke color.NRGBA) {
	length := math.Hypot(x1-x0, y1-y0)
	if s.empty() || !(length > 0) || !(width > 0) {
		return
	}

	// offset both ends by half the width along the line normal
	nx := -(y1 - y0) / length * width / 2
	ny := (x1 - x0) / length * width / 2
	ax, ay := math.Abs(nx), math.Abs(ny)
	b := s.clip(min(x0, x1)-ax, min(y0, y1)-ay, max(x0, x1)+ax, max(y0, y1)+ay)
	if b.Empty() {
		return
	}

	ox, oy := float64(b.Min.X), float64(b.Min.Y)
	s.z.MoveTo(float32(x0+nx-ox), float32(y0+ny-oy))
	s.z.LineTo(float32(x1+nx-ox), float32(y1+ny-oy))
	s.z.LineTo(float32(x1-nx-ox), float32(y1-ny-oy))
	s.z.LineTo(float32(x0-nx-ox), float32(y0-ny-oy))
	s.z.ClosePath()
	s.z.Draw(s.img, b, image.NewUniform(stroke), image.Point{})
}
