package sipm

import "errors"

// EventCounters totals hits by origin for the last event, reset on every
// RunEvent / ResetState.
type EventCounters struct {
	NPhotons    int
	NPe         int
	NDcr        int
	NXt         int
	NAp         int
	NCellsFired int
}

// Sensor owns everything needed to simulate one SiPM: its property
// snapshot, cached pulse template, PRNG, hit buffer and last rendered
// signal. A Sensor is single-threaded — nothing inside RunEvent may
// suspend or block except for memory allocation.
type Sensor struct {
	Properties SensorProperties
	Rng        PRNG

	template []float64
	buffer   HitBuffer

	photonTimes       []float64
	photonWavelengths []float64
	hasWavelengths    bool

	counters EventCounters
	signal   AnalogSignal
}

// NewSensor builds a Sensor from a validated property snapshot and PRNG.
func NewSensor(p SensorProperties, rng PRNG) (*Sensor, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	s := &Sensor{Properties: p, Rng: rng}
	s.template = computeTemplate(p)
	return s, nil
}

// SetProperty updates a single named double on the Sensor's properties,
// recomputing the cached pulse template if the change affects pulse
// shape.
func (s *Sensor) SetProperty(name string, val float64) error {
	next := s.Properties
	shapeChanged, err := next.SetField(name, val)
	if err != nil {
		return err
	}
	if err := next.Validate(); err != nil {
		return err
	}
	s.Properties = next
	if shapeChanged {
		s.template = computeTemplate(s.Properties)
	}
	return nil
}

// SetProperties replaces the Sensor's entire property snapshot, always
// recomputing the pulse template.
func (s *Sensor) SetProperties(p SensorProperties) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.Properties = p
	s.template = computeTemplate(p)
	return nil
}

// AddPhoton appends a single photon with no wavelength information.
func (s *Sensor) AddPhoton(time float64) {
	s.photonTimes = append(s.photonTimes, time)
	s.photonWavelengths = append(s.photonWavelengths, 0)
}

// AddPhotonWithWavelength appends a single photon carrying a wavelength,
// for use with spectrum PDE.
func (s *Sensor) AddPhotonWithWavelength(time, wavelength float64) {
	s.photonTimes = append(s.photonTimes, time)
	s.photonWavelengths = append(s.photonWavelengths, wavelength)
	s.hasWavelengths = true
}

// AddPhotons appends a batch of photons with no wavelength information.
func (s *Sensor) AddPhotons(times []float64) {
	s.photonTimes = append(s.photonTimes, times...)
	for range times {
		s.photonWavelengths = append(s.photonWavelengths, 0)
	}
}

// AddPhotonsWithWavelengths appends a batch of photons with wavelengths.
func (s *Sensor) AddPhotonsWithWavelengths(times, wavelengths []float64) {
	s.photonTimes = append(s.photonTimes, times...)
	s.photonWavelengths = append(s.photonWavelengths, wavelengths...)
	s.hasWavelengths = true
}

// RunEvent executes the event pipeline in a fixed order: reset
// counters/buffer, dark counts (if enabled), photoelectrons, cross-talk
// (if enabled), recharge resolution, after-pulses (if enabled), render.
func (s *Sensor) RunEvent() error {
	s.buffer.Reset()
	s.counters = EventCounters{NPhotons: len(s.photonTimes)}

	if s.Properties.PdeType == SpectrumPde && !s.hasWavelengths {
		return &ErrConfigurationInvalid{
			Field: "pde_type",
			Err:   errMissingWavelengthsForSensor,
		}
	}

	s.buffer.Reserve(len(s.photonTimes) * 4)

	if s.Properties.hasDcr() {
		addDarkCounts(s)
	}
	if err := addPhotoelectrons(s); err != nil {
		return err
	}
	if s.Properties.hasXt() {
		addCrossTalk(s)
	}
	resolveRecharge(s)
	if s.Properties.hasAp() {
		addAfterPulses(s)
	}
	s.signal = renderSignal(s)
	return nil
}

// Signal returns the waveform rendered by the last RunEvent.
func (s *Sensor) Signal() AnalogSignal { return s.signal }

// Hits returns all hits generated during the last event.
func (s *Sensor) Hits() []Hit {
	out := make([]Hit, len(s.buffer.Hits))
	copy(out, s.buffer.Hits)
	return out
}

// HitsGraph returns, for each hit, the buffer index of its parent hit, or
// -1 for a primary photoelectron or dark count.
func (s *Sensor) HitsGraph() []int32 {
	out := make([]int32, len(s.buffer.Parent))
	copy(out, s.buffer.Parent)
	return out
}

// Debug returns the per-origin hit counters for the last event.
func (s *Sensor) Debug() EventCounters { return s.counters }

// ResetState clears buffers, photon lists and counters so the Sensor can
// be reused for a new event. Idempotent: two successive calls leave
// identical observable state.
func (s *Sensor) ResetState() {
	s.buffer.Reset()
	s.photonTimes = s.photonTimes[:0]
	s.photonWavelengths = s.photonWavelengths[:0]
	s.hasWavelengths = false
	s.counters = EventCounters{}
	s.signal = AnalogSignal{}
}

var errMissingWavelengthsForSensor = errors.New("spectrum PDE selected but no wavelengths were supplied for this event")
