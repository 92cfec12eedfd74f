package solver

import (
	"errors"
	"fmt"
)

var ErrInvalidConfig = errors.New("solver: invalid configuration")

// Config holds the parameters of a value iteration run.
type Config struct {
	GridSize             int     `yaml:"grid_size" json:"grid_size"`
	DiscountFactor       float64 `yaml:"discount_factor" json:"discount_factor"`
	ConvergenceThreshold float64 `yaml:"convergence_threshold" json:"convergence_threshold"`
	MaxIterations        int     `yaml:"max_iterations" json:"max_iterations"`
	ArrivalProbability   float64 `yaml:"arrival_probability" json:"arrival_probability"`
	// Number of sweep workers, 0 uses GOMAXPROCS and 1 runs serially
	Parallelism int `yaml:"parallelism" json:"parallelism"`
}

func DefaultConfig() Config {
	return Config{
		GridSize:             5,
		DiscountFactor:       0.9,
		ConvergenceThreshold: 1e-3,
		MaxIterations:        100,
		ArrivalProbability:   0.2,
		Parallelism:          0,
	}
}

// Validate rejects out of range parameters. Values are never clamped.
func (c Config) Validate() error {
	if c.GridSize <= 0 {
		return fmt.Errorf("%w: grid size must be positive, got %d", ErrInvalidConfig, c.GridSize)
	}
	if !(c.DiscountFactor > 0 && c.DiscountFactor < 1) {
		return fmt.Errorf("%w: discount factor must be in (0, 1), got %v", ErrInvalidConfig, c.DiscountFactor)
	}
	if !(c.ConvergenceThreshold > 0) {
		return fmt.Errorf("%w: convergence threshold must be positive, got %v", ErrInvalidConfig, c.ConvergenceThreshold)
	}
	if c.MaxIterations <= 0 {
		return fmt.Errorf("%w: max iterations must be positive, got %d", ErrInvalidConfig, c.MaxIterations)
	}
	if !(c.ArrivalProbability >= 0 && c.ArrivalProbability <= 1) {
		return fmt.Errorf("%w: arrival probability must be in [0, 1], got %v", ErrInvalidConfig, c.ArrivalProbability)
	}
	if c.Parallelism < 0 {
		return fmt.Errorf("%w: parallelism must not be negative, got %d", ErrInvalidConfig, c.Parallelism)
	}
	return nil
}
