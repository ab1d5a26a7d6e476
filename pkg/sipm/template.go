package sipm

import "math"

// computeTemplate precomputes the normalized single-photoelectron pulse
// shape: a two-exponential difference, or a three-exponential blend when
// a slow falling component is configured, peak-normalized to 1.
// Recomputed whenever a shape-affecting property changes.
func computeTemplate(p SensorProperties) []float64 {
	n := p.NSamples()
	shape := make([]float64, n)

	tr := p.RisingTime / p.SamplingTime
	tff := p.FallingTimeFast / p.SamplingTime

	if p.hasSlowComponent() {
		tfs := p.FallingTimeSlow / p.SamplingTime
		fs := p.SlowComponentFraction
		for i := 0; i < n; i++ {
			shape[i] = (1-fs)*math.Exp(-float64(i)/tff) + fs*math.Exp(-float64(i)/tfs) - math.Exp(-float64(i)/tr)
		}
	} else {
		for i := 0; i < n; i++ {
			shape[i] = math.Exp(-float64(i)/tff) - math.Exp(-float64(i)/tr)
		}
	}

	peak := shape[0]
	for _, v := range shape {
		if v > peak {
			peak = v
		}
	}
	if peak != 0 {
		for i := range shape {
			shape[i] /= peak
		}
	}
	return shape
}
