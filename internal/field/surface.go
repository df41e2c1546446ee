package field

import "image/color"

// Surface is the host element the field is drawn on.
//
// RenderedSize reports the size the host currently displays the surface at.
// SetBufferSize resizes the backing drawing buffer; the field always syncs
// it to the rendered size before the first draw and on every resize, since
// a mismatch shows up as blurry or clipped output.
type Surface interface {
	RenderedSize() (width, height int)
	SetBufferSize(width, height int)
	// Context returns the 2D drawing context, or nil if the surface has none.
	Context() Context
}

// Context is an immediate-mode 2D drawing context.
type Context interface {
	ClearRect(x, y, width, height float64)
	FillCircle(cx, cy, r float64, fill color.NRGBA)
	StrokeLine(x0, y0, x1, y1, width float64, stroke color.NRGBA)
}
