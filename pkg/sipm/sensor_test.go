package sipm

import "testing"

func quietProperties() SensorProperties {
	return SensorProperties{
		NSideCells:      10,
		SamplingTime:    1,
		SignalLength:    500,
		RisingTime:      1,
		FallingTimeFast: 50,
		CellRecovery:    100,
	}
}

// TestQuietBaselineProducesZeroSignal checks that with no photons, all
// noise off, and zero SNR noise, the rendered signal is all-zero with no
// hits.
func TestQuietBaselineProducesZeroSignal(t *testing.T) {
	p := quietProperties()
	rng := &scriptedPRNG{}
	s, err := NewSensor(p, rng)
	if err != nil {
		t.Fatalf("NewSensor: %v", err)
	}

	if err := s.RunEvent(); err != nil {
		t.Fatalf("RunEvent: %v", err)
	}

	if len(s.Hits()) != 0 {
		t.Fatalf("expected no hits, got %d", len(s.Hits()))
	}
	sig := s.Signal()
	if len(sig.Samples) != p.NSamples() {
		t.Fatalf("len(signal) = %d, want %d", len(sig.Samples), p.NSamples())
	}
	for i, v := range sig.Samples {
		if v != 0 {
			t.Fatalf("sample %d = %v, want 0", i, v)
		}
	}
}

// TestSinglePhotoelectronRendersTemplate checks that a single photon at
// t=0 with no noise renders exactly the pulse template.
func TestSinglePhotoelectronRendersTemplate(t *testing.T) {
	p := quietProperties()
	rng := &scriptedPRNG{}
	s, err := NewSensor(p, rng)
	if err != nil {
		t.Fatalf("NewSensor: %v", err)
	}
	s.AddPhoton(0)

	if err := s.RunEvent(); err != nil {
		t.Fatalf("RunEvent: %v", err)
	}

	hits := s.Hits()
	if len(hits) != 1 {
		t.Fatalf("expected 1 hit, got %d", len(hits))
	}
	if s.Debug().NPe != 1 {
		t.Fatalf("nPe = %d, want 1", s.Debug().NPe)
	}

	sig := s.Signal()
	template := computeTemplate(p)
	for i, v := range template {
		if diff := sig.Samples[i] - v; diff > 1e-9 || diff < -1e-9 {
			t.Fatalf("sample %d = %v, want template value %v", i, sig.Samples[i], v)
		}
	}
}

// TestInvariantHitsWithinBounds checks that every hit's time and cell
// fall within the signal window and grid.
func TestInvariantHitsWithinBounds(t *testing.T) {
	p := quietProperties()
	p.Dcr = 1e6
	p.Xt = 0.3
	p.Ap = 0.4
	p.TauApFast = 20
	p.TauApSlow = 100
	rng := NewPRNG(42)
	s, err := NewSensor(p, rng)
	if err != nil {
		t.Fatalf("NewSensor: %v", err)
	}
	s.AddPhoton(10)
	s.AddPhoton(200)

	if err := s.RunEvent(); err != nil {
		t.Fatalf("RunEvent: %v", err)
	}

	for i, h := range s.Hits() {
		if h.Time < 0 || h.Time >= p.SignalLength {
			t.Fatalf("hit %d time = %v out of [0, %v)", i, h.Time, p.SignalLength)
		}
		if h.Row < 0 || h.Row >= int32(p.NSideCells) || h.Col < 0 || h.Col >= int32(p.NSideCells) {
			t.Fatalf("hit %d cell (%d,%d) out of bounds", i, h.Row, h.Col)
		}
	}
}

// TestInvariantHitCountsSumToBufferLength checks that the per-origin hit
// counters always sum to the hit buffer's length.
func TestInvariantHitCountsSumToBufferLength(t *testing.T) {
	p := quietProperties()
	p.Dcr = 1e6
	p.Xt = 0.3
	rng := NewPRNG(7)
	s, err := NewSensor(p, rng)
	if err != nil {
		t.Fatalf("NewSensor: %v", err)
	}
	s.AddPhoton(50)

	if err := s.RunEvent(); err != nil {
		t.Fatalf("RunEvent: %v", err)
	}

	c := s.Debug()
	total := c.NPe + c.NDcr + c.NXt + c.NAp
	if total != len(s.Hits()) {
		t.Fatalf("nPe+nDcr+nXt+nAp = %d, hit buffer length = %d", total, len(s.Hits()))
	}
}

// TestResetStateIsIdempotent checks that repeated ResetState calls leave
// identical observable state.
func TestResetStateIsIdempotent(t *testing.T) {
	p := quietProperties()
	rng := &scriptedPRNG{}
	s, err := NewSensor(p, rng)
	if err != nil {
		t.Fatalf("NewSensor: %v", err)
	}
	s.AddPhoton(10)
	_ = s.RunEvent()

	s.ResetState()
	first := s.Hits()
	firstSig := s.Signal()
	s.ResetState()
	second := s.Hits()
	secondSig := s.Signal()

	if len(first) != 0 || len(second) != 0 {
		t.Fatal("expected empty hit buffer after ResetState")
	}
	if len(firstSig.Samples) != len(secondSig.Samples) {
		t.Fatal("ResetState should leave identical observable state across repeated calls")
	}
}

// TestDeterminismGivenSameSeed checks that identical seeds and inputs
// produce bit-identical signals.
func TestDeterminismGivenSameSeed(t *testing.T) {
	p := quietProperties()
	p.Dcr = 1e5
	p.Xt = 0.2
	p.Ap = 0.1
	p.TauApFast = 20
	p.TauApSlow = 100
	p.Snr = 10

	run := func() []float64 {
		s, err := NewSensor(p, NewPRNG(123))
		if err != nil {
			t.Fatalf("NewSensor: %v", err)
		}
		s.AddPhoton(30)
		s.AddPhoton(80)
		if err := s.RunEvent(); err != nil {
			t.Fatalf("RunEvent: %v", err)
		}
		return s.Signal().Samples
	}

	a := run()
	b := run()
	if len(a) != len(b) {
		t.Fatalf("signal lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sample %d differs between runs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestMissingWavelengthsWithSpectrumPdeIsReported(t *testing.T) {
	p := quietProperties()
	p.PdeType = SpectrumPde
	p.PdeSpectrum = []PdePoint{{Lambda: 400, P: 0.2}, {Lambda: 500, P: 0.3}}
	rng := &scriptedPRNG{}
	s, err := NewSensor(p, rng)
	if err != nil {
		t.Fatalf("NewSensor: %v", err)
	}
	s.AddPhoton(10)

	if err := s.RunEvent(); err == nil {
		t.Fatal("expected an error when spectrum PDE is selected without wavelengths")
	}
}
