package render

import (
	"image/color"

	"github.com/san-kum/driftfield/internal/field"
)

// Tee sends every drawing call to a primary surface and any number of
// mirrors. Size comes from the primary; buffer resizes reach all of them.
type Tee struct {
	primary field.Surface
	mirrors []field.Surface
	ctxs    []field.Context
}

var _ field.Surface = (*Tee)(nil)

func NewTee(primary field.Surface, mirrors ...field.Surface) *Tee {
	t := &Tee{primary: primary}
	for _, m := range mirrors {
		t.Attach(m)
	}
	return t
}

// Attach adds a mirror. Its buffer is synced to the primary's rendered
// size immediately.
func (t *Tee) Attach(m field.Surface) {
	if m == nil || m.Context() == nil {
		return
	}
	m.SetBufferSize(t.primary.RenderedSize())
	t.mirrors = append(t.mirrors, m)
	t.ctxs = nil
}

// Detach removes every mirror.
func (t *Tee) Detach() {
	t.mirrors = nil
	t.ctxs = nil
}

func (t *Tee) RenderedSize() (int, int) { return t.primary.RenderedSize() }

func (t *Tee) SetBufferSize(w, h int) {
	t.primary.SetBufferSize(w, h)
	for _, m := range t.mirrors {
		m.SetBufferSize(w, h)
	}
}

func (t *Tee) Context() field.Context {
	if t.primary.Context() == nil {
		return nil
	}
	return t
}

func (t *Tee) contexts() []field.Context {
	if t.ctxs == nil {
		t.ctxs = append(t.ctxs, t.primary.Context())
		for _, m := range t.mirrors {
			t.ctxs = append(t.ctxs, m.Context())
		}
	}
	return t.ctxs
}

func (t *Tee) ClearRect(x, y, w, h float64) {
	for _, c := range t.contexts() {
		c.ClearRect(x, y, w, h)
	}
}

func (t *Tee) FillCircle(cx, cy, r float64, fill color.NRGBA) {
	for _, c := range t.contexts() {
		c.FillCircle(cx, cy, r, fill)
	}
}

func (t *Tee) StrokeLine(x0, y0, x1, y1, width float64, stroke color.NRGBA) {
	for _, c := range t.contexts() {
		c.StrokeLine(x0, y0, x1, y1, width, stroke)
	}
}
