package analysis

import (
	"errors"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

var ErrTooFewSamples = errors.New("analysis: too few samples")

// PowerSpectrum returns the magnitudes of the non-negative frequency bins
// after removing the mean and zero padding to a power of two.
func PowerSpectrum(data []float64) []float64 {
	n := 1
	for n < len(data) {
		n *= 2
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	if len(data) > 0 {
		mean /= float64(len(data))
	}

	padded := make([]float64, n)
	for i, v := range data {
		padded[i] = v - mean
	}

	spectrum := fft.FFTReal(padded)
	ps := make([]float64, n/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantFrequency returns the frequency, in cycles per unit x, of the
// largest non-zero spectral bin of samples spaced interval apart.
func DominantFrequency(data []float64, interval float64) (float64, error) {
	if len(data) < 4 {
		return 0, ErrTooFewSamples
	}

	ps := PowerSpectrum(data)
	best := 1
	for i := 2; i < len(ps); i++ {
		if ps[i] > ps[best] {
			best = i
		}
	}

	n := 2 * len(ps)
	return float64(best) / (float64(n) * interval), nil
}
