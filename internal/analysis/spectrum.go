package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// minAmplitude is the floor below which a spectrum counts as flat.
const minAmplitude = 1e-9

// PowerSpectrum returns the one-sided amplitude spectrum of series after
// removing its mean. Bin k is k cycles per len(series) samples.
func PowerSpectrum(series []float64) []float64 {
	n := len(series)
	if n < 2 {
		return nil
	}

	mean := 0.0
	for _, v := range series {
		mean += v
	}
	mean /= float64(n)

	centered := make([]float64, n)
	for i, v := range series {
		centered[i] = v - mean
	}

	coeffs := fft.FFTReal(centered)
	ps := make([]float64, n/2)
	for k := range ps {
		ps[k] = cmplx.Abs(coeffs[k]) / float64(n)
	}
	return ps
}

// DominantPeriod returns the period, in samples, of the strongest
// non-constant component of series. It reports false for a flat series.
func DominantPeriod(series []float64) (float64, bool) {
	ps := PowerSpectrum(series)
	best := 0
	for k := 1; k < len(ps); k++ {
		if ps[k] > ps[best] {
			best = k
		}
	}
	if best == 0 || ps[best] < minAmplitude || math.IsNaN(ps[best]) {
		return 0, false
	}
	return float64(len(series)) / float64(best), true
}
