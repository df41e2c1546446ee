package metrics

import "github.com/san-kum/driftfield/internal/sim"

// Containment is the fraction of particle-frames whose base lies inside
// the surface. Bouncing keeps this near 1; excursions are at most one
// drift step past an edge.
type Containment struct {
	name   string
	inside int
	total  int
}

func NewContainment() *Containment {
	return &Containment{name: "containment"}
}

func (c *Containment) Name() string { return c.name }

func (c *Containment) Observe(fr sim.Frame) {
	for _, p := range fr.Particles {
		c.total++
		if p.BaseX >= 0 && p.BaseX <= fr.Width && p.BaseY >= 0 && p.BaseY <= fr.Height {
			c.inside++
		}
	}
}

func (c *Containment) Value() float64 {
	if c.total == 0 {
		return 1
	}
	return float64(c.inside) / float64(c.total)
}

func (c *Containment) Reset() {
	c.inside = 0
	c.total = 0
}

// Finite is the fraction of frames in which every particle coordinate is
// finite.
type Finite struct {
	name    string
	ok      int
	samples int
}

func NewFinite() *Finite {
	return &Finite{name: "finite"}
}

func (f *Finite) Name() string { return f.name }

func (f *Finite) Observe(fr sim.Frame) {
	f.samples++
	for _, p := range fr.Particles {
		if !p.Finite() {
			return
		}
	}
	f.ok++
}

func (f *Finite) Value() float64 {
	if f.samples == 0 {
		return 1
	}
	return float64(f.ok) / float64(f.samples)
}

func (f *Finite) Reset() {
	f.ok = 0
	f.samples = 0
}
