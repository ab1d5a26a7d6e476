package sipm

import "testing"

func TestBatchDriverRunsAllQueuedEvents(t *testing.T) {
	cfg := Configuration{
		NumWorkers:       4,
		Seed:             99,
		IntegrationGate:  0,
		IntegrationStart: 0,
		Threshold:        0.5,
	}
	props := quietProperties()
	driver := NewBatchDriver(cfg, props)

	for i := 0; i < 20; i++ {
		driver.PushBack(EventInput{Times: []float64{float64(i) + 1}})
	}

	if err := driver.RunSimulation(); err != nil {
		t.Fatalf("RunSimulation: %v", err)
	}

	results := driver.Results()
	if len(results) != 20 {
		t.Fatalf("got %d results, want 20", len(results))
	}

	seen := make([]bool, 20)
	for _, r := range results {
		if r.Err != nil {
			t.Fatalf("event %d failed: %v", r.Idx, r.Err)
		}
		if r.Idx < 0 || r.Idx >= 20 {
			t.Fatalf("result index %d out of range", r.Idx)
		}
		seen[r.Idx] = true
	}
	for i, ok := range seen {
		if !ok {
			t.Fatalf("event %d never produced a result", i)
		}
	}
}

func TestBatchDriverDowngradesMissingWavelengths(t *testing.T) {
	cfg := Configuration{NumWorkers: 1, Seed: 1, Threshold: 0.5}
	props := quietProperties()
	props.PdeType = SpectrumPde
	props.PdeSpectrum = []PdePoint{{Lambda: 400, P: 0.5}, {Lambda: 500, P: 0.5}}

	driver := NewBatchDriver(cfg, props)
	driver.PushBack(EventInput{Times: []float64{10}})

	if err := driver.RunSimulation(); err != nil {
		t.Fatalf("RunSimulation: %v", err)
	}

	results := driver.Results()
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	r := results[0]
	if r.Err != nil {
		t.Fatalf("expected the missing-wavelengths event to be downgraded, not failed: %v", r.Err)
	}
	if r.Result.Warning == "" {
		t.Fatal("expected a warning on the downgraded event's Result")
	}
	if r.Result.Idx != uint64(r.Idx) {
		t.Fatalf("Result.Idx = %d, want %d", r.Result.Idx, r.Idx)
	}
	if len(r.Result.Times) != 1 || r.Result.Times[0] != 10 {
		t.Fatalf("Result.Times = %v, want [10]", r.Result.Times)
	}
}

func TestBatchDriverClearEmptiesQueueAndResults(t *testing.T) {
	cfg := Configuration{NumWorkers: 1, Seed: 1, Threshold: 0.5}
	driver := NewBatchDriver(cfg, quietProperties())
	driver.PushBack(EventInput{Times: []float64{1}})
	_ = driver.RunSimulation()

	driver.Clear()
	if len(driver.events) != 0 || len(driver.Results()) != 0 {
		t.Fatal("Clear should empty both the event queue and prior results")
	}
}
