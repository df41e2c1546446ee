package field

import (
	"math"
	"math/rand"
	"time"
)

// Field owns the particle set, the pointer state and the surface size.
// A nil *Field is inert: every method is a no-op.
type Field struct {
	surface Surface
	ctx     Context
	params  Params
	rng     *rand.Rand

	width, height float64
	particles     []Particle
	pointer       Pointer
}

// Stats describes one drawn frame.
type Stats struct {
	Particles  int
	Links      int
	PairChecks int
	Repelled   int
}

type Option func(*Field)

func WithParams(p Params) Option {
	return func(f *Field) { f.params = p }
}

// WithRand injects the random source used for particle generation and for
// the push direction when the pointer sits exactly on a particle.
func WithRand(rng *rand.Rand) Option {
	return func(f *Field) { f.rng = rng }
}

func WithSeed(seed int64) Option {
	return WithRand(rand.New(rand.NewSource(seed)))
}

// Attach measures the surface and populates the field.
//
// A nil surface yields a nil *Field and no error, leaving the component
// inert. A surface without a drawing context fails with ErrNoContext.
func Attach(s Surface, opts ...Option) (*Field, error) {
	if s == nil {
		return nil, nil
	}
	ctx := s.Context()
	if ctx == nil {
		return nil, ErrNoContext
	}
	f := &Field{
		surface: s,
		ctx:     ctx,
		params:  DefaultParams(),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.rng == nil {
		f.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	f.pointer.Radius = f.params.InteractionRadius
	f.Resize()
	return f, nil
}

// Resize re-measures the surface, syncs the drawing buffer to it and
// regenerates every particle. Displacement in flight is discarded.
func (f *Field) Resize() {
	if f == nil {
		return
	}
	w, h := f.surface.RenderedSize()
	f.surface.SetBufferSize(w, h)
	f.width, f.height = float64(w), float64(h)

	n := f.params.Count(f.width, f.height)
	f.particles = make([]Particle, n)
	for i := range f.particles {
		f.particles[i] = newParticle(f.rng, f.width, f.height, f.params)
	}
}

func (f *Field) PointerMove(x, y float64) {
	if f == nil {
		return
	}
	f.pointer.X, f.pointer.Y = x, y
	f.pointer.Active = true
}

func (f *Field) PointerLeave() {
	if f == nil {
		return
	}
	f.pointer.X, f.pointer.Y = 0, 0
	f.pointer.Active = false
}

// Update advances every particle by one frame.
func (f *Field) Update() {
	if f == nil {
		return
	}
	f.update()
}

func (f *Field) update() int {
	repelled := 0
	for i := range f.particles {
		if f.updateParticle(&f.particles[i]) {
			repelled++
		}
	}
	return repelled
}

func (f *Field) updateParticle(p *Particle) bool {
	repelled := false
	if f.pointer.Active {
		dx := f.pointer.X - p.X
		dy := f.pointer.Y - p.Y
		dist := math.Hypot(dx, dy)
		radius := f.pointer.Radius
		if dist < radius {
			var ux, uy float64
			if dist == 0 {
				// no direction to normalize; push at full force any way
				theta := f.rng.Float64() * 2 * math.Pi
				ux, uy = math.Cos(theta), math.Sin(theta)
			} else {
				ux, uy = dx/dist, dy/dist
			}
			force := (radius - dist) / radius
			push := force * p.Density * f.params.RepelScale
			p.X -= ux * push
			p.Y -= uy * push
			repelled = true
		}
	}

	p.X += (p.BaseX - p.X) * f.params.Ease
	p.Y += (p.BaseY - p.Y) * f.params.Ease

	p.BaseX += p.SpeedX
	p.BaseY += p.SpeedY

	// bounce only while heading further out
	if (p.BaseX < 0 && p.SpeedX < 0) || (p.BaseX > f.width && p.SpeedX > 0) {
		p.SpeedX = -p.SpeedX
	}
	if (p.BaseY < 0 && p.SpeedY < 0) || (p.BaseY > f.height && p.SpeedY > 0) {
		p.SpeedY = -p.SpeedY
	}
	return repelled
}

// Draw clears the surface and paints the particles and their connective
// lines. It does not advance the simulation.
func (f *Field) Draw(cfg RenderConfig) Stats {
	if f == nil {
		return Stats{}
	}
	pal := cfg.palette()
	f.ctx.ClearRect(0, 0, f.width, f.height)

	for i := range f.particles {
		p := &f.particles[i]
		f.ctx.FillCircle(p.X, p.Y, p.Size, pal.Particle)
	}

	st := Stats{Particles: len(f.particles)}
	base := float64(pal.Link.A) / 255
	for i := 0; i < len(f.particles); i++ {
		a := &f.particles[i]
		for j := i + 1; j < len(f.particles); j++ {
			b := &f.particles[j]
			st.PairChecks++
			dist := math.Hypot(a.X-b.X, a.Y-b.Y)
			if dist >= f.params.LinkDistance {
				continue
			}
			c := pal.Link
			c.A = alpha(f.params.LinkOpacityAt(dist) * base)
			f.ctx.StrokeLine(a.X, a.Y, b.X, b.Y, f.params.LineWidth, c)
			st.Links++
		}
	}
	return st
}

// Step runs one frame: Update followed by Draw.
func (f *Field) Step(cfg RenderConfig) Stats {
	if f == nil {
		return Stats{}
	}
	repelled := f.update()
	st := f.Draw(cfg)
	st.Repelled = repelled
	return st
}

// Particles returns a copy of the current particle set.
func (f *Field) Particles() []Particle {
	if f == nil {
		return nil
	}
	out := make([]Particle, len(f.particles))
	copy(out, f.particles)
	return out
}

func (f *Field) Pointer() Pointer {
	if f == nil {
		return Pointer{}
	}
	return f.pointer
}

func (f *Field) Size() (width, height float64) {
	if f == nil {
		return 0, 0
	}
	return f.width, f.height
}

func (f *Field) Params() Params {
	if f == nil {
		return Params{}
	}
	return f.params
}

// LinkOpacityAt is the line opacity for two particles dist apart:
// (1 - dist/LinkDistance) * LinkOpacity, and 0 at or beyond the threshold.
func (p Params) LinkOpacityAt(dist float64) float64 {
	if p.LinkDistance <= 0 || dist >= p.LinkDistance {
		return 0
	}
	if dist < 0 {
		dist = 0
	}
	return (1 - dist/p.LinkDistance) * p.LinkOpacity
}
