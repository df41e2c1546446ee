package metrics

import "github.com/san-kum/driftfield/internal/sim"

// LinkDensity is the mean number of links drawn per frame.
type LinkDensity struct {
	name    string
	sum     float64
	samples int
}

func NewLinkDensity() *LinkDensity {
	return &LinkDensity{name: "link_density"}
}

func (l *LinkDensity) Name() string { return l.name }

func (l *LinkDensity) Observe(fr sim.Frame) {
	l.sum += float64(fr.Stats.Links)
	l.samples++
}

func (l *LinkDensity) Value() float64 {
	if l.samples == 0 {
		return 0
	}
	return l.sum / float64(l.samples)
}

func (l *LinkDensity) Reset() {
	l.sum = 0
	l.samples = 0
}
