package metrics

import "github.com/san-kum/driftfield/internal/sim"

// Displacement averages, over frames, the mean distance between each
// particle's drawn position and its base.
type Displacement struct {
	name    string
	sum     float64
	samples int
	peak    float64
}

func NewDisplacement() *Displacement {
	return &Displacement{name: "displacement"}
}

func (d *Displacement) Name() string { return d.name }

func (d *Displacement) Observe(fr sim.Frame) {
	if len(fr.Particles) == 0 {
		d.samples++
		return
	}
	total := 0.0
	for _, p := range fr.Particles {
		v := p.Displacement()
		total += v
		if v > d.peak {
			d.peak = v
		}
	}
	d.sum += total / float64(len(fr.Particles))
	d.samples++
}

func (d *Displacement) Value() float64 {
	if d.samples == 0 {
		return 0
	}
	return d.sum / float64(d.samples)
}

// Peak is the largest single-particle displacement seen.
func (d *Displacement) Peak() float64 { return d.peak }

func (d *Displacement) Reset() {
	d.sum = 0
	d.samples = 0
	d.peak = 0
}
