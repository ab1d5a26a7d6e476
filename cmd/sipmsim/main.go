package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/next-exp/sipmsim/pkg/sipm"
)

var logger RunLogger

func init() {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	logger = RunLogger{
		InfoLog:  slog.New(NewHandler(os.Stdout, opts)),
		ErrorLog: slog.New(slog.NewJSONHandler(os.Stderr, opts)),
	}
}

// eventFile is the on-disk photon-batch format read from
// Configuration.PhotonsFile: one entry per event, each a list of photon
// arrival times and, optionally, matching wavelengths.
type eventFile struct {
	Times       []float64 `json:"times"`
	Wavelengths []float64 `json:"wavelengths,omitempty"`
}

func main() {
	configFilename := flag.String("config", "", "Configuration file path")
	flag.Parse()

	cfg, err := sipm.LoadConfiguration(*configFilename)
	if err != nil {
		logger.Error(fmt.Sprintf("reading configuration file: %v", err))
		os.Exit(1)
	}
	sipm.SetLogger(logger)

	if cfg.Verbosity > 0 {
		logger.Info(fmt.Sprintf("loaded configuration from %s", *configFilename), "main")
	}

	properties, err := loadProperties(cfg)
	if err != nil {
		logger.Error(fmt.Sprintf("loading sensor properties: %v", err))
		os.Exit(1)
	}

	events, err := loadEvents(cfg.PhotonsFile)
	if err != nil {
		logger.Error(fmt.Sprintf("loading photon events: %v", err))
		os.Exit(1)
	}

	driver := sipm.NewBatchDriver(cfg, properties)
	for _, e := range events {
		driver.PushBack(e)
	}

	logger.Info(fmt.Sprintf("running %d events across %d workers", len(events), driver.NumWorkers), "main")
	start := time.Now()
	if err := driver.RunSimulation(); err != nil {
		logger.Error(fmt.Sprintf("running simulation: %v", err))
		os.Exit(1)
	}
	elapsed := time.Since(start)
	logger.Info(fmt.Sprintf("finished in %s", elapsed), "main")

	results := driver.Results()
	summarize(results)

	if cfg.OutputFile != "" {
		if err := writeResults(cfg.OutputFile, results); err != nil {
			logger.Error(fmt.Sprintf("writing results: %v", err))
			os.Exit(1)
		}
	}
}

func loadProperties(cfg sipm.Configuration) (sipm.SensorProperties, error) {
	if cfg.UseDB {
		store, err := sipm.ConnectPropertiesStore(cfg)
		if err != nil {
			return sipm.SensorProperties{}, err
		}
		defer store.Close()
		return store.Load(cfg.PropertiesProfile)
	}

	data, err := os.ReadFile(cfg.PropertiesFile)
	if err != nil {
		return sipm.SensorProperties{}, fmt.Errorf("reading properties file: %w", err)
	}

	profiles := make(map[string]sipm.SensorProperties)
	if err := json.Unmarshal(data, &profiles); err == nil && len(profiles) > 0 {
		store := sipm.NewMapPropertiesStore(profiles)
		return store.Load(cfg.PropertiesProfile)
	}

	var p sipm.SensorProperties
	if err := json.Unmarshal(data, &p); err != nil {
		return sipm.SensorProperties{}, fmt.Errorf("parsing properties file: %w", err)
	}
	return p, p.Validate()
}

func loadEvents(filename string) ([]sipm.EventInput, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading photons file: %w", err)
	}
	var raw []eventFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing photons file: %w", err)
	}
	events := make([]sipm.EventInput, len(raw))
	for i, e := range raw {
		events[i] = sipm.EventInput{
			Times:          e.Times,
			Wavelengths:    e.Wavelengths,
			HasWavelengths: len(e.Wavelengths) > 0,
		}
	}
	return events, nil
}

func summarize(results []sipm.BatchResult) {
	integrals := make([]float64, 0, len(results))
	peaks := make([]float64, 0, len(results))
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			continue
		}
		integrals = append(integrals, r.Result.Integral)
		peaks = append(peaks, r.Result.Peak)
	}
	if len(integrals) == 0 {
		logger.Info(fmt.Sprintf("%d events, all failed", failed), "main")
		return
	}
	meanIntegral, varIntegral := stat.MeanVariance(integrals, nil)
	meanPeak, varPeak := stat.MeanVariance(peaks, nil)
	logger.Info(fmt.Sprintf(
		"%d events (%d failed): integral mean=%.4f std=%.4f, peak mean=%.4f std=%.4f",
		len(results), failed, meanIntegral, math.Sqrt(varIntegral), meanPeak, math.Sqrt(varPeak),
	), "main")
}

func writeResults(filename string, results []sipm.BatchResult) error {
	type record struct {
		Idx         int                `json:"idx"`
		Times       []float64          `json:"times,omitempty"`
		Wavelengths []float64          `json:"wavelengths,omitempty"`
		Integral    float64            `json:"integral"`
		Peak        float64            `json:"peak"`
		ToP         float64            `json:"top"`
		ToA         float64            `json:"toa"`
		ToT         float64            `json:"tot"`
		Warning     string             `json:"warning,omitempty"`
		Counters    sipm.EventCounters `json:"counters"`
		Error       string             `json:"error,omitempty"`
	}
	out := make([]record, len(results))
	for i, r := range results {
		rec := record{
			Idx:         r.Idx,
			Times:       r.Result.Times,
			Wavelengths: r.Result.Wavelengths,
			Integral:    r.Result.Integral,
			Peak:        r.Result.Peak,
			ToP:         r.Result.ToP,
			ToA:         r.Result.ToA,
			ToT:         r.Result.ToT,
			Warning:     r.Result.Warning,
			Counters:    r.Counters,
		}
		if r.Err != nil {
			rec.Error = r.Err.Error()
		}
		out[i] = rec
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}
