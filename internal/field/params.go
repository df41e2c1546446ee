package field

import "math"

const (
	DefaultMaxParticles      = 100
	DefaultAreaPerParticle   = 15000.0
	DefaultInteractionRadius = 150.0
	DefaultLinkDistance      = 120.0
	DefaultLinkOpacity       = 0.2
	DefaultEase              = 0.05
	DefaultRepelScale        = 0.6
	DefaultDrift             = 0.25
	DefaultLineWidth         = 1.0
)

// Params holds the tunables of the field. The zero value is not useful;
// start from DefaultParams.
type Params struct {
	MaxParticles      int     `yaml:"max_particles" json:"max_particles"`
	AreaPerParticle   float64 `yaml:"area_per_particle" json:"area_per_particle"`
	InteractionRadius float64 `yaml:"interaction_radius" json:"interaction_radius"`
	LinkDistance      float64 `yaml:"link_distance" json:"link_distance"`
	LinkOpacity       float64 `yaml:"link_opacity" json:"link_opacity"`
	Ease              float64 `yaml:"ease" json:"ease"`
	RepelScale        float64 `yaml:"repel_scale" json:"repel_scale"`
	SizeMin           float64 `yaml:"size_min" json:"size_min"`
	SizeMax           float64 `yaml:"size_max" json:"size_max"`
	DensityMin        float64 `yaml:"density_min" json:"density_min"`
	DensityMax        float64 `yaml:"density_max" json:"density_max"`
	Drift             float64 `yaml:"drift" json:"drift"`
	LineWidth         float64 `yaml:"line_width" json:"line_width"`
}

func DefaultParams() Params {
	return Params{
		MaxParticles:      DefaultMaxParticles,
		AreaPerParticle:   DefaultAreaPerParticle,
		InteractionRadius: DefaultInteractionRadius,
		LinkDistance:      DefaultLinkDistance,
		LinkOpacity:       DefaultLinkOpacity,
		Ease:              DefaultEase,
		RepelScale:        DefaultRepelScale,
		SizeMin:           1,
		SizeMax:           4,
		DensityMin:        1,
		DensityMax:        31,
		Drift:             DefaultDrift,
		LineWidth:         DefaultLineWidth,
	}
}

// Merge returns p with every non-zero field of o applied on top.
func (p Params) Merge(o Params) Params {
	if o.MaxParticles != 0 {
		p.MaxParticles = o.MaxParticles
	}
	if o.AreaPerParticle != 0 {
		p.AreaPerParticle = o.AreaPerParticle
	}
	if o.InteractionRadius != 0 {
		p.InteractionRadius = o.InteractionRadius
	}
	if o.LinkDistance != 0 {
		p.LinkDistance = o.LinkDistance
	}
	if o.LinkOpacity != 0 {
		p.LinkOpacity = o.LinkOpacity
	}
	if o.Ease != 0 {
		p.Ease = o.Ease
	}
	if o.RepelScale != 0 {
		p.RepelScale = o.RepelScale
	}
	if o.SizeMin != 0 {
		p.SizeMin = o.SizeMin
	}
	if o.SizeMax != 0 {
		p.SizeMax = o.SizeMax
	}
	if o.DensityMin != 0 {
		p.DensityMin = o.DensityMin
	}
	if o.DensityMax != 0 {
		p.DensityMax = o.DensityMax
	}
	if o.Drift != 0 {
		p.Drift = o.Drift
	}
	if o.LineWidth != 0 {
		p.LineWidth = o.LineWidth
	}
	return p
}

// Count is the particle population for a width x height surface under the
// default density cap: min(100, floor(w*h/15000)).
func Count(width, height float64) int {
	return DefaultParams().Count(width, height)
}

// Count is min(MaxParticles, floor(w*h/AreaPerParticle)), never negative.
func (p Params) Count(width, height float64) int {
	if !(width > 0 && height > 0 && p.AreaPerParticle > 0) || p.MaxParticles <= 0 {
		return 0
	}
	n := math.Floor(width * height / p.AreaPerParticle)
	if math.IsNaN(n) {
		return 0
	}
	if n >= float64(p.MaxParticles) {
		return p.MaxParticles
	}
	return int(n)
}
