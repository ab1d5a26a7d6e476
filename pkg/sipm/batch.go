package sipm

import (
	"fmt"
	"sync"
)

// EventInput is one event's worth of photon arrivals queued for
// simulation: parallel Times/Wavelengths slices, with HasWavelengths
// marking whether Wavelengths is meaningful.
type EventInput struct {
	Times          []float64
	Wavelengths    []float64
	HasWavelengths bool
}

// BatchResult pairs one event's analysis result with its index in the
// queued event list, since RunSimulation gives no ordering guarantee
// across workers — callers that need original order re-sort on Idx.
type BatchResult struct {
	Idx      int
	Result   Result
	Hits     []Hit
	Counters EventCounters
	Err      error
}

// BatchDriver fans a queue of events out across a worker pool, one Sensor
// and PRNG per worker: concurrency is only safe across whole Sensor
// instances, never within one. Events reach the workers over a jobs
// channel; each worker appends its results to a mutex-guarded slice.
type BatchDriver struct {
	Properties       SensorProperties
	NumWorkers       int
	Seed             uint64
	IntegrationStart float64
	IntegrationGate  float64
	Threshold        float64

	events []EventInput

	mu      sync.Mutex
	results []BatchResult
}

// NewBatchDriver builds a driver from a Configuration and a resolved
// SensorProperties snapshot.
func NewBatchDriver(cfg Configuration, props SensorProperties) *BatchDriver {
	n := cfg.NumWorkers
	if n < 1 {
		n = 1
	}
	return &BatchDriver{
		Properties:       props,
		NumWorkers:       n,
		Seed:             cfg.Seed,
		IntegrationStart: cfg.IntegrationStart,
		IntegrationGate:  cfg.IntegrationGate,
		Threshold:        cfg.Threshold,
	}
}

// PushBack queues one event for simulation.
func (d *BatchDriver) PushBack(e EventInput) {
	d.events = append(d.events, e)
}

// AddEvents queues a batch of photon-time-only events.
func (d *BatchDriver) AddEvents(times [][]float64) {
	for _, t := range times {
		d.PushBack(EventInput{Times: t})
	}
}

// Clear empties the queued events and any prior results.
func (d *BatchDriver) Clear() {
	d.events = nil
	d.results = nil
}

type job struct {
	idx   int
	event EventInput
}

func worker(id int, d *BatchDriver, jobs <-chan job, wg *sync.WaitGroup) {
	defer wg.Done()

	props := d.Properties
	rng := NewPRNG(d.Seed + uint64(id)*0x9E3779B97F4A7C15)
	sensor, err := NewSensor(props, rng)
	if err != nil {
		logger.Error(fmt.Sprintf("worker %d: building sensor: %v", id, err))
		return
	}

	for j := range jobs {
		sensor.ResetState()

		hasWavelengths := j.event.HasWavelengths && len(j.event.Wavelengths) == len(j.event.Times)
		var warning string
		if props.PdeType == SpectrumPde && !hasWavelengths {
			warning = (&ErrMissingWavelengths{EventIndex: j.idx}).Error()
			logger.Info(warning, "batch")
			downgraded := props
			downgraded.PdeType = NoPde
			_ = sensor.SetProperties(downgraded)
		} else if sensor.Properties.PdeType != props.PdeType {
			_ = sensor.SetProperties(props)
		}

		if hasWavelengths {
			sensor.AddPhotonsWithWavelengths(j.event.Times, j.event.Wavelengths)
		} else {
			sensor.AddPhotons(j.event.Times)
		}

		res := BatchResult{Idx: j.idx}
		if err := sensor.RunEvent(); err != nil {
			res.Err = err
		} else {
			res.Result = Analyze(sensor.Signal(), d.IntegrationStart, d.IntegrationGate, d.Threshold)
			res.Result.Idx = uint64(j.idx)
			res.Result.Times = j.event.Times
			res.Result.Wavelengths = j.event.Wavelengths
			res.Result.Warning = warning
			res.Hits = sensor.Hits()
			res.Counters = sensor.Debug()
		}

		d.mu.Lock()
		d.results = append(d.results, res)
		d.mu.Unlock()
	}
}

// RunSimulation drains the queued events across NumWorkers goroutines and
// collects their results. Results() returns whatever order the workers
// finished in; callers needing input order must sort by BatchResult.Idx.
func (d *BatchDriver) RunSimulation() error {
	d.results = d.results[:0]

	jobs := make(chan job)
	var wg sync.WaitGroup
	wg.Add(d.NumWorkers)
	for w := 0; w < d.NumWorkers; w++ {
		go worker(w, d, jobs, &wg)
	}

	for i, e := range d.events {
		jobs <- job{idx: i, event: e}
	}
	close(jobs)
	wg.Wait()
	return nil
}

// Results returns the collected per-event results from the last
// RunSimulation call.
func (d *BatchDriver) Results() []BatchResult {
	return d.results
}
