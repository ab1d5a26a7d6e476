package sipm

// addDarkCounts generates thermally-induced dark-count hits over the full
// signal window: an exponential inter-arrival process whose mean, in
// nanoseconds, is 1e9/DCR (DCR is specified in Hz). Generation
// starts before t=0 so hits arriving just after the window opens are not
// systematically under-sampled, matching the original's "seed from
// before the window" walk.
func addDarkCounts(s *Sensor) {
	p := s.Properties
	meanDcr := 1e9 / p.Dcr
	t := -100.0
	for t < p.SignalLength {
		t += s.Rng.Exponential(meanDcr)
		if t <= 0 || t >= p.SignalLength {
			continue
		}
		row, col := hitCell(p, s.Rng)
		s.buffer.Append(Hit{
			Time:      t,
			Amplitude: 1,
			Row:       row,
			Col:       col,
			Origin:    DarkCount,
		}, -1)
		s.counters.NDcr++
	}
}

// addPhotoelectrons converts each arriving photon into a hit, applying the
// configured PDE filter. A photon survives the filter when a
// fresh uniform draw is below the detection probability for its
// wavelength (spectrum mode) or the scalar PDE value; NoPde always
// detects. Every surviving photon becomes a primary hit with no parent.
func addPhotoelectrons(s *Sensor) error {
	p := s.Properties
	for i, t := range s.photonTimes {
		detected := true
		switch p.PdeType {
		case ScalarPde:
			detected = s.Rng.Uniform() < p.Pde
		case SpectrumPde:
			lambda := s.photonWavelengths[i]
			pde := evaluatePde(p.PdeSpectrum, lambda)
			detected = s.Rng.Uniform() < pde
		case NoPde:
			detected = true
		}
		if !detected {
			continue
		}
		row, col := hitCell(p, s.Rng)
		s.buffer.Append(Hit{
			Time:      t,
			Amplitude: 1,
			Row:       row,
			Col:       col,
			Origin:    Photoelectron,
		}, -1)
		s.counters.NPe++
	}
	return nil
}

// addCrossTalk expands the buffer with optical cross-talk children,
// pinned to the geometric generation scheme: for each existing hit,
// repeatedly draw a uniform test value and, while the running product of
// draws exceeds exp(-Xt), emit one cross-talk child on a random
// neighbouring cell at the same time as its parent. This walks a cursor to
// buffer.Len() rather than snapshotting the length up front, so
// cross-talk children of cross-talk children are also produced within the
// same pass.
func addCrossTalk(s *Sensor) {
	p := s.Properties
	m := int32(p.NSideCells)
	threshold := expNeg(p.Xt)

	for i := 0; i < s.buffer.Len(); i++ {
		parent := s.buffer.Hits[i]
		product := s.Rng.Uniform()
		for product > threshold {
			dr, dc := neighbourOffset(s.Rng)
			row := parent.Row + dr
			col := parent.Col + dc
			if isInSensor(row, col, m) {
				s.buffer.Append(Hit{
					Time:      parent.Time,
					Amplitude: 1,
					Row:       row,
					Col:       col,
					Origin:    OpticalCrosstalk,
				}, int32(i))
				s.counters.NXt++
			}
			product *= s.Rng.Uniform()
		}
	}
}

// addAfterPulses expands the buffer with after-pulse children: for each
// hit, draw a child count from Poisson(Ap); for each child, pick
// its time constant by a Bernoulli(ApSlowFraction) draw and its delay
// from the corresponding exponential, landing on the same cell as its
// parent with amplitude scaled by the parent's (already recharge-resolved)
// amplitude. Children are only considered for further after-pulsing if
// the pass cursor reaches them, matching the cross-talk pass's
// self-expanding walk.
func addAfterPulses(s *Sensor) {
	p := s.Properties
	for i := 0; i < s.buffer.Len(); i++ {
		parent := s.buffer.Hits[i]
		n := s.Rng.Poisson(p.Ap)
		for k := uint64(0); k < n; k++ {
			tau := p.TauApFast
			if s.Rng.Uniform() < p.ApSlowFraction {
				tau = p.TauApSlow
			}
			delay := s.Rng.Exponential(tau)
			t := parent.Time + delay
			if t >= p.SignalLength {
				continue
			}
			amplitude := parent.Amplitude * (1 - expNeg(delay/p.CellRecovery))
			s.buffer.Append(Hit{
				Time:      t,
				Amplitude: amplitude,
				Row:       parent.Row,
				Col:       parent.Col,
				Origin:    AfterPulse,
			}, int32(i))
			s.counters.NAp++
		}
	}
}
