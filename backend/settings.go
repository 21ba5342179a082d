package backend

import (
	"fmt"
	"log/slog"

	"github.com/katalvlaran/mtc/parameterization"
)

// Settings controls a run. Fields a backend does not use are ignored.
type Settings struct {
	Chains               int
	TuningIterations     int
	SimulationIterations int
	Seed                 uint64
	// Means gives the synthetic backend the center of each parameter's
	// draws, by parameter name. Missing parameters are centered at 0.
	Means map[string]float64
	// Trace is the CSV file read by the replay backend.
	Trace string
	// Build holds extra parameterization options, such as fixed baselines.
	Build  []parameterization.Option
	Logger *slog.Logger
}

// DefaultSettings returns four chains of 20000 tuning and 50000 simulation
// iterations.
func DefaultSettings() Settings {
	return Settings{
		Chains:               4,
		TuningIterations:     20000,
		SimulationIterations: 50000,
		Seed:                 1,
		Logger:               slog.Default(),
	}
}

func (s Settings) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

func (s Settings) validate(b Backend) error {
	if s.Chains < 1 {
		return fmt.Errorf("%w: %d chains", ErrInvalidSettings, s.Chains)
	}
	if b == Synthetic && (s.SimulationIterations < 1 || s.TuningIterations < 0) {
		return fmt.Errorf("%w: %d tuning, %d simulation iterations",
			ErrInvalidSettings, s.TuningIterations, s.SimulationIterations)
	}
	if b == Replay && s.Trace == "" {
		return fmt.Errorf("%w: replay needs a trace file", ErrInvalidSettings)
	}
	return nil
}
