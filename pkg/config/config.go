// Package config loads run settings from the environment
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Run holds the settings shared by every command line mode. Flags override
// the environment.
type Run struct {
	// Seed of the random streams; 0 draws a fresh one
	Seed      int64  `env:"PHOTON_SEED"`
	Photons   int    `env:"PHOTON_COUNT" envDefault:"10000"`
	Bins      int    `env:"PHOTON_BINS" envDefault:"50"`
	Config    string `env:"PHOTON_CONFIG" envDefault:"configs/collimator.yaml"`
	LogLevel  string `env:"PHOTON_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"PHOTON_LOG_FORMAT" envDefault:"console"`
}

// ParseEnv loads configuration from environment variables
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadRun returns the run settings from the environment
func LoadRun() (Run, error) {
	var run Run
	if err := ParseEnv(&run); err != nil {
		return Run{}, err
	}
	if run.Photons < 0 {
		return Run{}, fmt.Errorf("PHOTON_COUNT %d must not be negative", run.Photons)
	}
	if run.Bins <= 0 {
		return Run{}, fmt.Errorf("PHOTON_BINS %d must be positive", run.Bins)
	}
	return run, nil
}
