package sipm

// Result collects one event's output record: its index and echoed
// photon inputs, the scalar quantities extracted from the rendered
// waveform over its integration window (integral, peak amplitude and
// time, time-over-threshold and time-of-arrival), and any non-fatal
// warning raised while processing it.
type Result struct {
	Idx         uint64
	Times       []float64
	Wavelengths []float64
	Integral    float64
	Peak        float64
	ToP         float64
	ToA         float64
	ToT         float64
	Warning     string
}

// window converts an integration start/gate pair into a clamped
// [lo, hi) sample range for the given signal.
func window(sig AnalogSignal, start, gate float64) (int, int) {
	n := len(sig.Samples)
	lo := int(start / sig.SamplingTime)
	hi := n
	if gate > 0 {
		hi = lo + int(gate/sig.SamplingTime)
	}
	if lo < 0 {
		lo = 0
	}
	if hi > n {
		hi = n
	}
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

// Analyze computes Result over [start, start+gate) using threshold to
// determine arrival and time-over-threshold; a gate of zero or less extends
// the window to the end of the signal. ToA is the time of the first
// sample at or above threshold in the window, or -1 if the signal never
// crosses it; ToT is the total time spent at or above threshold.
func Analyze(sig AnalogSignal, start, gate, threshold float64) Result {
	lo, hi := window(sig, start, gate)

	var r Result
	r.ToA = -1
	for i := lo; i < hi; i++ {
		v := sig.Samples[i]
		r.Integral += v * sig.SamplingTime
		if v > r.Peak {
			r.Peak = v
			r.ToP = float64(i) * sig.SamplingTime
		}
		if v >= threshold {
			if r.ToA < 0 {
				r.ToA = float64(i) * sig.SamplingTime
			}
			r.ToT += sig.SamplingTime
		}
	}
	return r
}
