package sim

import "github.com/san-kum/driftfield/internal/field"

type Move struct{ X, Y float64 }

func (a Move) Apply(f *field.Field, _ *field.RenderConfig) { f.PointerMove(a.X, a.Y) }

type Leave struct{}

func (Leave) Apply(f *field.Field, _ *field.RenderConfig) { f.PointerLeave() }

// Resize changes the surface's rendered size, then lets the field
// re-measure and regenerate.
type Resize struct {
	Surface       Resizable
	Width, Height int
}

func (a Resize) Apply(f *field.Field, _ *field.RenderConfig) {
	if a.Surface != nil {
		a.Surface.SetSize(a.Width, a.Height)
	}
	f.Resize()
}

type SetMode struct{ Mode field.Mode }

func (a SetMode) Apply(_ *field.Field, rc *field.RenderConfig) { rc.Mode = a.Mode }
