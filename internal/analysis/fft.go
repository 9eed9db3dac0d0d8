package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

// Spectrum is a one-sided amplitude spectrum.
type Spectrum struct {
	Freqs []float64
	Power []float64
}

// PowerSpectrum removes the mean, applies a Hann window and returns bins
// 0..n/2 for samples taken every dt seconds. Any length is accepted.
func PowerSpectrum(samples []float64, dt float64) Spectrum {
	n := len(samples)
	if n < 2 || !(dt > 0) {
		return Spectrum{}
	}

	x := make([]float64, n)
	mean := 0.0
	for _, v := range samples {
		mean += v
	}
	mean /= float64(n)
	for i, v := range samples {
		x[i] = v - mean
	}
	window.Apply(x, window.Hann)

	coeffs := fft.FFTReal(x)

	bins := n/2 + 1
	s := Spectrum{
		Freqs: make([]float64, bins),
		Power: make([]float64, bins),
	}
	for k := 0; k < bins; k++ {
		s.Freqs[k] = float64(k) / (float64(n) * dt)
		s.Power[k] = cmplx.Abs(coeffs[k])
	}
	return s
}

// DominantFrequency returns the strongest non-DC frequency and its amplitude.
func DominantFrequency(samples []float64, dt float64) (freq, power float64) {
	s := PowerSpectrum(samples, dt)
	best := -1
	for k := 1; k < len(s.Power); k++ {
		if best < 0 || s.Power[k] > s.Power[best] {
			best = k
		}
	}
	if best < 0 {
		return 0, 0
	}
	return s.Freqs[best], s.Power[best]
}

// SpectralPeakRatio compares the dominant bin with the mean of the others;
// a large ratio means a clean oscillation.
func SpectralPeakRatio(samples []float64, dt float64) float64 {
	s := PowerSpectrum(samples, dt)
	if len(s.Power) < 3 {
		return 0
	}
	peak, sum := 0.0, 0.0
	for _, p := range s.Power[1:] {
		sum += p
		peak = math.Max(peak, p)
	}
	rest := (sum - peak) / float64(len(s.Power)-2)
	if rest == 0 {
		return math.Inf(1)
	}
	return peak / rest
}
