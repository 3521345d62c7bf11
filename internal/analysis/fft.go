package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns the magnitude of the first half of the spectrum of
// series after removing its mean and zero-padding to a power of two.
func PowerSpectrum(series []float64) []float64 {
	if len(series) == 0 {
		return nil
	}

	mean := 0.0
	for _, v := range series {
		mean += v
	}
	mean /= float64(len(series))

	n := 1
	for n < len(series) {
		n *= 2
	}
	padded := make([]float64, n)
	for i, v := range series {
		padded[i] = v - mean
	}

	spectrum := fft.FFTReal(padded)
	ps := make([]float64, n/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantPeriod estimates the strongest oscillation period of series in
// generations. It reports false for flat or too-short series.
func DominantPeriod(series []float64) (float64, bool) {
	ps := PowerSpectrum(series)
	if len(ps) < 2 {
		return 0, false
	}

	maxPower := 0.0
	maxIdx := 0
	for i := 1; i < len(ps); i++ {
		if ps[i] > maxPower {
			maxPower = ps[i]
			maxIdx = i
		}
	}
	if maxIdx == 0 || maxPower < 1e-9 {
		return 0, false
	}

	return float64(2*len(ps)) / float64(maxIdx), true
}
