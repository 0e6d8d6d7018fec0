package fairalpha

import "fmt"

// Config controls strategy selection and search tuning.
type Config struct {
	FlatMaxK      int     // Largest k handled by the flat search (default: 40)
	FlatSteps     int     // Candidates scanned below alpha by the flat search (default: 500)
	Tolerance     float64 // Binary search stops once |achieved - target| ≤ this (default: 1e-4)
	Step          float64 // Fixed bound nudge after each halving (default: 1e-6)
	MaxIterations int     // Hard cap on binary search halvings (default: 1128)
	Workers       int     // Concurrent calibrations in a Sweep (0 = one per level)
}

// DefaultMaxIterations covers the float64 exponent span plus its mantissa bits.
const DefaultMaxIterations = 1074 + 53 + 1

// DefaultConfig returns the calibration defaults.
func DefaultConfig() Config {
	return Config{
		FlatMaxK:      40,
		FlatSteps:     500,
		Tolerance:     0.0001,
		Step:          0.000001,
		MaxIterations: DefaultMaxIterations,
		Workers:       4,
	}
}

// Validate rejects tuning values the strategies cannot run with.
func (c Config) Validate() error {
	if c.FlatMaxK < MinK-1 {
		return fmt.Errorf("flat search upper bound %d is below the minimum k %d", c.FlatMaxK, MinK)
	}
	if c.FlatSteps <= 0 {
		return fmt.Errorf("flat search needs a positive step count, got %d", c.FlatSteps)
	}
	if !(c.Tolerance >= 0) {
		return fmt.Errorf("tolerance must be non-negative, got %g", c.Tolerance)
	}
	if !(c.Step >= 0) {
		return fmt.Errorf("step must be non-negative, got %g", c.Step)
	}
	if c.MaxIterations <= 0 {
		return fmt.Errorf("max iterations must be positive, got %d", c.MaxIterations)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	return nil
}
