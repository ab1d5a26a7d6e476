package sipm

// AnalogSignal is a rendered waveform: evenly-spaced samples at the
// sensor's configured sampling time, starting at t=0.
type AnalogSignal struct {
	Samples      []float64
	SamplingTime float64
}

// Duration returns the signal's total length in the sensor's time units.
func (a AnalogSignal) Duration() float64 {
	return float64(len(a.Samples)) * a.SamplingTime
}

// renderSignal superposes the sensor's pulse template at every hit's
// (time, amplitude), with per-hit cell-to-cell gain variation and
// additive electronic noise. Hits whose pulse runs past the end of the
// window are clipped: only the template samples that land before sample N
// contribute.
func renderSignal(s *Sensor) AnalogSignal {
	p := s.Properties
	n := p.NSamples()
	samples := make([]float64, n)

	for _, h := range s.buffer.Hits {
		gain := 1.0
		if p.Ccgv > 0 {
			gain = 1 + s.Rng.Gaussian(0, p.Ccgv)
			if gain < 0 {
				gain = 0
			}
		}
		amplitude := h.Amplitude * gain
		start := int(h.Time / p.SamplingTime)
		for j, v := range s.template {
			idx := start + j
			if idx < 0 {
				continue
			}
			if idx >= n {
				break
			}
			samples[idx] += amplitude * v
		}
	}

	if p.Snr > 0 {
		sigma := 1 / p.Snr
		noise := s.Rng.GaussianN(0, sigma, n)
		for i := range samples {
			samples[i] += noise[i]
		}
	}

	return AnalogSignal{Samples: samples, SamplingTime: p.SamplingTime}
}
