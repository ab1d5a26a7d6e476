package sipm

import (
	"sort"

	"golang.org/x/exp/maps"
)

// resolveRecharge walks every hit in time order and scales each one's
// amplitude by the fraction of its cell's full-scale gain that had
// recovered since that cell's previous hit: a cell hit twice within
// CellRecovery produces a second pulse smaller than the first.
//
// Hits are visited through a sorted index permutation rather than by
// physically reordering HitBuffer.Hits/Parent — the buffer's indices are
// load-bearing (Parent entries and the caller-facing HitsGraph reference
// them) and sorting it in place would invalidate every reference taken
// before the sort. The sort is stable so hits recorded at identical times
// keep their insertion order (parents always precede the children
// appended after them at the same timestamp).
func resolveRecharge(s *Sensor) {
	n := s.buffer.Len()
	if n == 0 {
		return
	}
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return s.buffer.Hits[order[a]].Time < s.buffer.Hits[order[b]].Time
	})

	recovery := s.Properties.CellRecovery
	lastFired := make(map[int32]float64)

	for _, idx := range order {
		h := &s.buffer.Hits[idx]
		id := h.ID(int32(s.Properties.NSideCells))
		if last, fired := lastFired[id]; fired {
			recovered := 1 - expNeg((h.Time-last)/recovery)
			if recovered < 0 {
				recovered = 0
			}
			h.Amplitude *= recovered
		}
		lastFired[id] = h.Time
	}

	s.counters.NCellsFired = len(maps.Keys(lastFired))
}
