package field

import (
	"math"
	"math/rand"
)

// Particle is a single animated point. X, Y is where it is drawn; BaseX,
// BaseY is its slowly drifting home that X, Y eases back toward.
type Particle struct {
	X, Y         float64
	BaseX, BaseY float64
	SpeedX       float64
	SpeedY       float64
	Size         float64
	Density      float64
}

// Finite reports whether every coordinate of p is a finite number.
func (p Particle) Finite() bool {
	for _, v := range [...]float64{p.X, p.Y, p.BaseX, p.BaseY, p.SpeedX, p.SpeedY} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Displacement is the distance between the drawn and the base position.
func (p Particle) Displacement() float64 {
	return math.Hypot(p.X-p.BaseX, p.Y-p.BaseY)
}

func newParticle(rng *rand.Rand, width, height float64, pr Params) Particle {
	x := rng.Float64() * width
	y := rng.Float64() * height
	return Particle{
		X:       x,
		Y:       y,
		BaseX:   x,
		BaseY:   y,
		Size:    pr.SizeMin + rng.Float64()*(pr.SizeMax-pr.SizeMin),
		Density: pr.DensityMin + rng.Float64()*(pr.DensityMax-pr.DensityMin),
		SpeedX:  (rng.Float64()*2 - 1) * pr.Drift,
		SpeedY:  (rng.Float64()*2 - 1) * pr.Drift,
	}
}

// Pointer is the last known pointer position in surface coordinates.
type Pointer struct {
	X, Y   float64
	Active bool
	Radius float64
}
