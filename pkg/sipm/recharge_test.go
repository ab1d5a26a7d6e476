package sipm

import "testing"

// TestResolveRechargeSecondHitAmplitude checks that two hits on the same
// cell separated by exactly CellRecovery leave the second hit's amplitude
// at 1 - e^-1.
func TestResolveRechargeSecondHitAmplitude(t *testing.T) {
	p := validProperties()
	p.CellRecovery = 100
	rng := &scriptedPRNG{}
	s, err := NewSensor(p, rng)
	if err != nil {
		t.Fatalf("NewSensor: %v", err)
	}

	s.buffer.Append(Hit{Time: 0, Amplitude: 1, Row: 3, Col: 3, Origin: Photoelectron}, -1)
	s.buffer.Append(Hit{Time: 100, Amplitude: 1, Row: 3, Col: 3, Origin: Photoelectron}, -1)

	resolveRecharge(s)

	want := 1 - expNeg(1)
	got := s.buffer.Hits[1].Amplitude
	if diff := got - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("second hit amplitude = %v, want %v", got, want)
	}
	if s.buffer.Hits[0].Amplitude != 1 {
		t.Fatalf("first hit amplitude = %v, want 1 (no prior hit on its cell)", s.buffer.Hits[0].Amplitude)
	}
}

func TestResolveRechargeLeavesDifferentCellsUnaffected(t *testing.T) {
	p := validProperties()
	rng := &scriptedPRNG{}
	s, err := NewSensor(p, rng)
	if err != nil {
		t.Fatalf("NewSensor: %v", err)
	}
	s.buffer.Append(Hit{Time: 0, Amplitude: 1, Row: 1, Col: 1, Origin: Photoelectron}, -1)
	s.buffer.Append(Hit{Time: 1, Amplitude: 1, Row: 2, Col: 2, Origin: Photoelectron}, -1)

	resolveRecharge(s)

	for i, h := range s.buffer.Hits {
		if h.Amplitude != 1 {
			t.Fatalf("hit %d amplitude = %v, want 1 (different cells don't interact)", i, h.Amplitude)
		}
	}
}

func TestResolveRechargeDoesNotReorderBuffer(t *testing.T) {
	p := validProperties()
	rng := &scriptedPRNG{}
	s, err := NewSensor(p, rng)
	if err != nil {
		t.Fatalf("NewSensor: %v", err)
	}
	s.buffer.Append(Hit{Time: 50, Amplitude: 1, Row: 1, Col: 1, Origin: Photoelectron}, -1)
	s.buffer.Append(Hit{Time: 10, Amplitude: 1, Row: 2, Col: 2, Origin: Photoelectron}, -1)

	resolveRecharge(s)

	if s.buffer.Hits[0].Time != 50 || s.buffer.Hits[1].Time != 10 {
		t.Fatal("resolveRecharge must not reorder HitBuffer entries, only scale amplitudes")
	}
}
