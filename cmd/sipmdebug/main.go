package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/next-exp/sipmsim/pkg/sipm"
)

// This is the single-event debug driver: it runs one event through a
// Sensor with one loaded property set and prints its per-origin counters,
// its hit list with each hit's parent index and the analysis result, and,
// with -dump-signal, every rendered sample. It is grounded on the
// decoder's measureAlgos sweep tool, narrowed to one event; it does not
// sweep property values.
func main() {
	configFilename := flag.String("config", "", "Configuration file path")
	photonsFilename := flag.String("event", "", "Single-event JSON photon file ({\"times\":[...]})")
	dumpSignal := flag.Bool("dump-signal", false, "Print every rendered sample")
	flag.Parse()

	logHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	slogger := slog.New(logHandler)

	cfg, err := sipm.LoadConfiguration(*configFilename)
	if err != nil {
		slogger.Error("reading configuration file", "err", err)
		os.Exit(1)
	}

	properties, err := loadSingleProfile(cfg)
	if err != nil {
		slogger.Error("loading sensor properties", "err", err)
		os.Exit(1)
	}

	event, err := loadSingleEvent(*photonsFilename)
	if err != nil {
		slogger.Error("loading event", "err", err)
		os.Exit(1)
	}

	rng := sipm.NewPRNG(cfg.Seed)
	sensor, err := sipm.NewSensor(properties, rng)
	if err != nil {
		slogger.Error("building sensor", "err", err)
		os.Exit(1)
	}

	if event.HasWavelengths {
		sensor.AddPhotonsWithWavelengths(event.Times, event.Wavelengths)
	} else {
		sensor.AddPhotons(event.Times)
	}

	if err := sensor.RunEvent(); err != nil {
		slogger.Error("running event", "err", err)
		os.Exit(1)
	}

	counters := sensor.Debug()
	fmt.Printf("photons=%d pe=%d dcr=%d xt=%d ap=%d\n",
		counters.NPhotons, counters.NPe, counters.NDcr, counters.NXt, counters.NAp)

	for i, h := range sensor.Hits() {
		parent := sensor.HitsGraph()[i]
		fmt.Printf("hit %3d: t=%.4f amp=%.4f row=%d col=%d origin=%s parent=%d\n",
			i, h.Time, h.Amplitude, h.Row, h.Col, h.Origin, parent)
	}

	result := sipm.Analyze(sensor.Signal(), cfg.IntegrationStart, cfg.IntegrationGate, cfg.Threshold)
	fmt.Printf("integral=%.4f peak=%.4f top=%.4f toa=%.4f tot=%.4f\n",
		result.Integral, result.Peak, result.ToP, result.ToA, result.ToT)

	if *dumpSignal {
		sig := sensor.Signal()
		for i, v := range sig.Samples {
			fmt.Printf("%.4f\t%.6f\n", float64(i)*sig.SamplingTime, v)
		}
	}
}

func loadSingleProfile(cfg sipm.Configuration) (sipm.SensorProperties, error) {
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
	var p sipm.SensorProperties
	if err := json.Unmarshal(data, &p); err != nil {
		return sipm.SensorProperties{}, fmt.Errorf("parsing properties file: %w", err)
	}
	return p, p.Validate()
}

func loadSingleEvent(filename string) (sipm.EventInput, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return sipm.EventInput{}, fmt.Errorf("reading event file: %w", err)
	}
	var raw struct {
		Times       []float64 `json:"times"`
		Wavelengths []float64 `json:"wavelengths,omitempty"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return sipm.EventInput{}, fmt.Errorf("parsing event file: %w", err)
	}
	return sipm.EventInput{
		Times:          raw.Times,
		Wavelengths:    raw.Wavelengths,
		HasWavelengths: len(raw.Wavelengths) > 0,
	}, nil
}
