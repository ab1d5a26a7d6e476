package sipm

import (
	"encoding/json"
	"os"
)

// Configuration holds the run-level settings consumed by the cmd/sipmsim
// and cmd/sipmdebug binaries: which files to read and write, how many
// workers to run the batch over, and the integration window used to turn a
// rendered waveform into a result record. SensorProperties (the physics
// parameters) is loaded separately, since it is its own read/write
// key-value surface.
type Configuration struct {
	Verbosity         int     `json:"verbosity"`
	PropertiesFile    string  `json:"properties_file"`
	PhotonsFile       string  `json:"photons_file"`
	OutputFile        string  `json:"output_file"`
	NumWorkers        int     `json:"num_workers"`
	Seed              uint64  `json:"seed"`
	IntegrationStart  float64 `json:"integration_start"`
	IntegrationGate   float64 `json:"integration_gate"`
	Threshold         float64 `json:"threshold"`
	UseDB             bool    `json:"use_db"`
	PropertiesProfile string  `json:"properties_profile"`
	Host              string  `json:"host"`
	User              string  `json:"user"`
	Passwd            string  `json:"pass"`
	DBName            string  `json:"dbname"`
}

// LoadConfiguration reads a JSON configuration file, filling in defaults
// for any field the file omits.
func LoadConfiguration(filename string) (Configuration, error) {
	config := Configuration{
		Verbosity:        0,
		NumWorkers:       1,
		Seed:             1,
		IntegrationStart: 0,
		IntegrationGate:  0,
		Threshold:        0.5,
		UseDB:            false,
		Host:             "localhost",
		DBName:           "sipmsim",
	}

	if filename == "" {
		return config, nil
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, err
	}
	if err := json.Unmarshal(data, &config); err != nil {
		return config, err
	}
	return config, nil
}
