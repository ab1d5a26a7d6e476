package sipm

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
)

// HitDistribution selects how a freshly generated hit is placed on the
// sensor's row/col grid. Marshals to/from its name, following the same
// enumerated-selector pattern used elsewhere in this codebase.
type HitDistribution int

const (
	Uniform HitDistribution = iota
	Circle
	Gaussian
)

var hitDistributionStrings = []string{"uniform", "circle", "gaussian"}

func (h HitDistribution) String() string {
	if h < Uniform || h > Gaussian {
		return "UNKNOWN"
	}
	return hitDistributionStrings[h]
}

func (h HitDistribution) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.String())
}

func (h *HitDistribution) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for i, v := range hitDistributionStrings {
		if v == s {
			*h = HitDistribution(i)
			return nil
		}
	}
	return fmt.Errorf("invalid HitDistribution: %s", s)
}

// PdeType selects how photo-detection efficiency is evaluated for an
// incoming photon.
type PdeType int

const (
	NoPde PdeType = iota
	ScalarPde
	SpectrumPde
)

var pdeTypeStrings = []string{"none", "scalar", "spectrum"}

func (p PdeType) String() string {
	if p < NoPde || p > SpectrumPde {
		return "UNKNOWN"
	}
	return pdeTypeStrings[p]
}

func (p PdeType) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *PdeType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for i, v := range pdeTypeStrings {
		if v == s {
			*p = PdeType(i)
			return nil
		}
	}
	return fmt.Errorf("invalid PdeType: %s", s)
}

// PdePoint is one (wavelength, efficiency) sample of a tabulated PDE
// spectrum, used with linear interpolation by evaluatePde.
type PdePoint struct {
	Lambda float64 `json:"lambda"`
	P      float64 `json:"p"`
}

// SensorProperties is the read-only-during-an-event snapshot a Sensor is
// built from. Field names mirror the named doubles of a named-property
// store (Size, SamplingTime, SignalLength, ...).
type SensorProperties struct {
	NSideCells            int              `json:"n_side_cells"`
	SamplingTime          float64          `json:"sampling_time"`
	SignalLength          float64          `json:"signal_length"`
	RisingTime            float64          `json:"rising_time"`
	FallingTimeFast       float64          `json:"falling_time_fast"`
	FallingTimeSlow       float64          `json:"falling_time_slow"`
	SlowComponentFraction float64          `json:"slow_component_fraction"`
	Dcr                   float64          `json:"dcr"`
	Xt                    float64          `json:"xt"`
	Ap                    float64          `json:"ap"`
	TauApFast             float64          `json:"tau_ap_fast"`
	TauApSlow             float64          `json:"tau_ap_slow"`
	ApSlowFraction        float64          `json:"ap_slow_fraction"`
	CellRecovery          float64          `json:"cell_recovery"`
	Ccgv                  float64          `json:"ccgv"`
	Snr                   float64          `json:"snr"`
	PdeType               PdeType          `json:"pde_type"`
	Pde                   float64          `json:"pde"`
	PdeSpectrum           []PdePoint       `json:"pde_spectrum"`
	HitDistribution       HitDistribution  `json:"hit_distribution"`
}

// NSamples returns N = L/Δt, the number of samples in a rendered signal.
func (p SensorProperties) NSamples() int {
	return int(p.SignalLength / p.SamplingTime)
}

func (p SensorProperties) hasSlowComponent() bool {
	return p.FallingTimeSlow > 0 && p.SlowComponentFraction > 0
}

func (p SensorProperties) hasDcr() bool { return p.Dcr > 0 }
func (p SensorProperties) hasXt() bool  { return p.Xt > 0 }
func (p SensorProperties) hasAp() bool  { return p.Ap > 0 }

// Validate enforces non-negative rates and probabilities, fractional
// values in [0,1], a usable sampling grid, and a non-empty spectrum table
// when spectrum PDE is selected.
func (p SensorProperties) Validate() error {
	check := func(field string, cond bool, msg string) error {
		if !cond {
			return &ErrConfigurationInvalid{Field: field, Err: fmt.Errorf("%s", msg)}
		}
		return nil
	}

	if err := check("n_side_cells", p.NSideCells > 0, "must be positive"); err != nil {
		return err
	}
	if err := check("sampling_time", p.SamplingTime > 0 && isFinite(p.SamplingTime), "must be > 0"); err != nil {
		return err
	}
	if err := check("signal_length", p.SignalLength > 0 && isFinite(p.SignalLength), "must be > 0"); err != nil {
		return err
	}
	if err := check("n_samples", p.NSamples() >= 1, "signal_length/sampling_time must be >= 1"); err != nil {
		return err
	}
	for _, f := range []struct {
		name string
		val  float64
	}{
		{"dcr", p.Dcr}, {"xt", p.Xt}, {"ap", p.Ap},
		{"tau_ap_fast", p.TauApFast}, {"tau_ap_slow", p.TauApSlow},
		{"cell_recovery", p.CellRecovery}, {"rising_time", p.RisingTime},
		{"falling_time_fast", p.FallingTimeFast}, {"falling_time_slow", p.FallingTimeSlow},
	} {
		if err := check(f.name, f.val >= 0 && isFinite(f.val), "must be non-negative and finite"); err != nil {
			return err
		}
	}
	for _, f := range []struct {
		name string
		val  float64
	}{
		{"ccgv", p.Ccgv}, {"slow_component_fraction", p.SlowComponentFraction},
		{"ap_slow_fraction", p.ApSlowFraction}, {"pde", p.Pde},
	} {
		if err := check(f.name, f.val >= 0 && f.val <= 1, "must be in [0,1]"); err != nil {
			return err
		}
	}
	if p.PdeType == SpectrumPde && len(p.PdeSpectrum) == 0 {
		return &ErrConfigurationInvalid{Field: "pde_spectrum", Err: fmt.Errorf("spectrum PDE selected but the spectrum table is empty")}
	}
	return nil
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// shapeFields lists the named properties that invalidate the cached pulse
// template when changed.
var shapeFields = map[string]bool{
	"SamplingTime":          true,
	"SignalLength":          true,
	"RisingTime":            true,
	"FallingTimeFast":       true,
	"FallingTimeSlow":       true,
	"SlowComponentFraction": true,
}

// SetField applies a named-double update by field name, returning
// whether the change invalidates the pulse template.
func (p *SensorProperties) SetField(name string, val float64) (shapeChanged bool, err error) {
	switch name {
	case "Size":
		p.NSideCells = int(val)
	case "SamplingTime":
		p.SamplingTime = val
	case "SignalLength":
		p.SignalLength = val
	case "RisingTime":
		p.RisingTime = val
	case "FallingTimeFast":
		p.FallingTimeFast = val
	case "FallingTimeSlow":
		p.FallingTimeSlow = val
	case "SlowComponentFraction":
		p.SlowComponentFraction = val
	case "Dcr":
		p.Dcr = val
	case "Xt":
		p.Xt = val
	case "Ap":
		p.Ap = val
	case "TauApFast":
		p.TauApFast = val
	case "TauApSlow":
		p.TauApSlow = val
	case "ApSlowFraction":
		p.ApSlowFraction = val
	case "CellRecovery":
		p.CellRecovery = val
	case "Ccgv":
		p.Ccgv = val
	case "Snr":
		p.Snr = val
	case "Pde":
		p.Pde = val
	default:
		return false, fmt.Errorf("unknown property: %s", name)
	}
	return shapeFields[name], nil
}

// evaluatePde linearly interpolates the tabulated PDE spectrum at the
// given wavelength, extrapolating along the nearest endpoint segment for
// out-of-range queries.
func evaluatePde(spectrum []PdePoint, lambda float64) float64 {
	n := len(spectrum)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return spectrum[0].P
	}
	if lambda <= spectrum[0].Lambda {
		return interpAt(spectrum, 0, 1, lambda)
	}
	if lambda >= spectrum[n-1].Lambda {
		return interpAt(spectrum, n-2, n-1, lambda)
	}
	i := sort.Search(n, func(i int) bool { return spectrum[i].Lambda >= lambda })
	if spectrum[i].Lambda == lambda {
		return spectrum[i].P
	}
	return interpAt(spectrum, i-1, i, lambda)
}

func interpAt(spectrum []PdePoint, i0, i1 int, lambda float64) float64 {
	a, b := spectrum[i0], spectrum[i1]
	if b.Lambda == a.Lambda {
		return a.P
	}
	weight := (lambda - a.Lambda) / (b.Lambda - a.Lambda)
	return a.P + weight*(b.P-a.P)
}
