package common

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/zeu5/taxi-mdp/solver"
	"github.com/zeu5/taxi-mdp/util"
	"gopkg.in/yaml.v2"
)

// EnvPrefix prefixes every environment variable read by ApplyEnv.
const EnvPrefix = "TAXI_"

var ErrInvalidFlags = errors.New("common: invalid flags")

type Flags struct {
	Solver   solver.Config `yaml:"solver" json:"solver"`
	SavePath string        `yaml:"save_path" json:"save_path"`
	RunFlags `yaml:"run" json:"run"`
	// number of experiments run in parallel by simulate
	Parallelism int  `yaml:"parallelism" json:"parallelism"`
	Verbose     bool `yaml:"verbose" json:"verbose"`

	// dump the last episode of every experiment to <save-path>/traces
	RecordTraces bool `yaml:"record_traces" json:"record_traces"`

	PolicyPath  string  `yaml:"policy_path" json:"policy_path"`
	GridPath    string  `yaml:"grid_path" json:"grid_path"`
	Temperature float64 `yaml:"temperature" json:"temperature"`
}

type RunFlags struct {
	NumRuns              int    `yaml:"num_runs" json:"num_runs"`
	Episodes             int    `yaml:"episodes" json:"episodes"`
	Horizon              int    `yaml:"horizon" json:"horizon"`
	MaxConsecutiveErrors int    `yaml:"max_consecutive_errors" json:"max_consecutive_errors"`
	Seed                 uint64 `yaml:"seed" json:"seed"`
}

func DefaultFlags() *Flags {
	return &Flags{
		Solver:   solver.DefaultConfig(),
		SavePath: "results",
		RunFlags: RunFlags{
			NumRuns:              1,
			Episodes:             1000,
			Horizon:              100,
			MaxConsecutiveErrors: 20,
			Seed:                 0,
		},
		Parallelism:  3,
		Verbose:      false,
		RecordTraces: false,
		Temperature:  0.5,
	}
}

// Validate checks the solver configuration and the rollout parameters.
// Nothing is clamped.
func (f *Flags) Validate() error {
	if err := f.Solver.Validate(); err != nil {
		return err
	}
	if f.NumRuns <= 0 {
		return fmt.Errorf("%w: number of runs must be positive, got %d", ErrInvalidFlags, f.NumRuns)
	}
	if f.Episodes <= 0 {
		return fmt.Errorf("%w: episodes must be positive, got %d", ErrInvalidFlags, f.Episodes)
	}
	if f.Horizon <= 0 {
		return fmt.Errorf("%w: horizon must be positive, got %d", ErrInvalidFlags, f.Horizon)
	}
	if f.MaxConsecutiveErrors <= 0 {
		return fmt.Errorf("%w: max consecutive errors must be positive, got %d", ErrInvalidFlags, f.MaxConsecutiveErrors)
	}
	if f.Parallelism <= 0 {
		return fmt.Errorf("%w: parallelism must be positive, got %d", ErrInvalidFlags, f.Parallelism)
	}
	if !(f.Temperature > 0) || math.IsInf(f.Temperature, 1) {
		return fmt.Errorf("%w: temperature must be positive and finite, got %v", ErrInvalidFlags, f.Temperature)
	}
	return nil
}

func (f *Flags) Record() error {
	return util.SaveJson(path.Join(f.SavePath, "config.json"), f)
}

// LoadFile overlays the YAML file at p on f. Keys missing from the file keep
// their current values.
func (f *Flags) LoadFile(p string) error {
	data, err := os.ReadFile(p)
	if err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, f); err != nil {
		return fmt.Errorf("error parsing config file: %w", err)
	}
	return nil
}

// LoadEnv loads the given dotenv files (".env" when none are given) into the
// process environment and then applies the TAXI_* variables. A missing
// dotenv file is not an error.
func (f *Flags) LoadEnv(files ...string) error {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("error loading env file: %w", err)
	}
	return f.ApplyEnv(os.LookupEnv)
}

// LoadEnvFile applies the TAXI_* variables of a dotenv file without touching
// the process environment.
func (f *Flags) LoadEnvFile(p string) error {
	vars, err := godotenv.Read(p)
	if err != nil {
		return fmt.Errorf("error loading env file: %w", err)
	}
	return f.ApplyEnv(func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	})
}

// ApplyEnv sets every field whose TAXI_* variable lookup finds.
func (f *Flags) ApplyEnv(lookup func(string) (string, bool)) error {
	ints := map[string]*int{
		"GRID_SIZE":              &f.Solver.GridSize,
		"MAX_ITERATIONS":         &f.Solver.MaxIterations,
		"SOLVER_PARALLELISM":     &f.Solver.Parallelism,
		"NUM_RUNS":               &f.NumRuns,
		"EPISODES":               &f.Episodes,
		"HORIZON":                &f.Horizon,
		"MAX_CONSECUTIVE_ERRORS": &f.MaxConsecutiveErrors,
		"PARALLELISM":            &f.Parallelism,
	}
	floats := map[string]*float64{
		"DISCOUNT_FACTOR":       &f.Solver.DiscountFactor,
		"CONVERGENCE_THRESHOLD": &f.Solver.ConvergenceThreshold,
		"ARRIVAL_PROBABILITY":   &f.Solver.ArrivalProbability,
		"TEMPERATURE":           &f.Temperature,
	}
	strs := map[string]*string{
		"SAVE_PATH":   &f.SavePath,
		"POLICY_PATH": &f.PolicyPath,
		"GRID_PATH":   &f.GridPath,
	}

	for name, dst := range ints {
		if v, ok := lookup(EnvPrefix + name); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid %s%s: %w", EnvPrefix, name, err)
			}
			*dst = n
		}
	}
	for name, dst := range floats {
		if v, ok := lookup(EnvPrefix + name); ok {
			x, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("invalid %s%s: %w", EnvPrefix, name, err)
			}
			*dst = x
		}
	}
	for name, dst := range strs {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = v
		}
	}
	if v, ok := lookup(EnvPrefix + "SEED"); ok {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %sSEED: %w", EnvPrefix, err)
		}
		f.Seed = seed
	}
	if v, ok := lookup(EnvPrefix + "VERBOSE"); ok {
		verbose, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %sVERBOSE: %w", EnvPrefix, err)
		}
		f.Verbose = verbose
	}
	return nil
}
