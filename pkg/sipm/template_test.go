package sipm

import "testing"

// TestComputeTemplateInvariants checks that max(template) == 1 and
// template[0] is near zero by construction.
func TestComputeTemplateInvariants(t *testing.T) {
	p := validProperties()
	shape := computeTemplate(p)

	if len(shape) != p.NSamples() {
		t.Fatalf("len(template) = %d, want %d", len(shape), p.NSamples())
	}
	if shape[0] > 0.01 || shape[0] < -0.01 {
		t.Fatalf("template[0] = %v, want near zero", shape[0])
	}

	peak := shape[0]
	for _, v := range shape {
		if v > peak {
			peak = v
		}
	}
	if diff := peak - 1; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("max(template) = %v, want 1", peak)
	}
}

func TestComputeTemplateWithSlowComponent(t *testing.T) {
	p := validProperties()
	p.FallingTimeSlow = 200
	p.SlowComponentFraction = 0.3
	shape := computeTemplate(p)

	peak := shape[0]
	for _, v := range shape {
		if v > peak {
			peak = v
		}
	}
	if diff := peak - 1; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("max(template) = %v, want 1", peak)
	}
}
