package cmd

import (
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/zeu5/taxi-mdp/benchmarks/common"
)

var (
	infoLog  = log.New(os.Stdout, "INFO\t", log.Ldate|log.Ltime)
	errorLog = log.New(os.Stderr, "ERROR\t", log.Ldate|log.Ltime|log.Lshortfile)
)

var (
	flags      *common.Flags = common.DefaultFlags()
	configPath string
	envPath    string

	gridSize             int
	discountFactor       float64
	convergenceThreshold float64
	maxIterations        int
	arrivalProbability   float64
	solverParallelism    int

	savePath     string
	policyPath   string
	gridPath     string
	verbose      bool
	recordTraces bool
	temperature  float64

	numRuns              int
	episodes             int
	horizon              int
	maxConsecutiveErrors int
	seed                 uint64
	parallelism          int
)

func AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file")
	cmd.PersistentFlags().StringVar(&envPath, "env-file", ".env", "dotenv file with TAXI_* overrides")

	cmd.PersistentFlags().IntVar(&gridSize, "grid-size", flags.Solver.GridSize, "Grid size N of the N×N world")
	cmd.PersistentFlags().Float64Var(&discountFactor, "discount-factor", flags.Solver.DiscountFactor, "Discount factor, in (0, 1)")
	cmd.PersistentFlags().Float64Var(&convergenceThreshold, "convergence-threshold", flags.Solver.ConvergenceThreshold, "Stop once max_delta falls below this value")
	cmd.PersistentFlags().IntVar(&maxIterations, "max-iterations", flags.Solver.MaxIterations, "Maximum number of sweeps")
	cmd.PersistentFlags().Float64Var(&arrivalProbability, "arrival-probability", flags.Solver.ArrivalProbability, "Probability that a passenger appears next to an empty taxi")
	cmd.PersistentFlags().IntVar(&solverParallelism, "solver-parallelism", flags.Solver.Parallelism, "Sweep workers, 0 uses all CPUs")

	cmd.PersistentFlags().StringVar(&savePath, "save-path", flags.SavePath, "Path to save results")
	cmd.PersistentFlags().StringVar(&policyPath, "policy", flags.PolicyPath, "Policy JSON file (default <save-path>/policy.json)")
	cmd.PersistentFlags().StringVar(&gridPath, "grid", flags.GridPath, "Write the empty-taxi policy grid to this file")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", flags.Verbose, "Print every sweep")
	cmd.PersistentFlags().BoolVar(&recordTraces, "record-traces", flags.RecordTraces, "Record the last episode of every experiment")
	cmd.PersistentFlags().Float64Var(&temperature, "temperature", flags.Temperature, "Softmax temperature of the SoftMax experiment")

	cmd.PersistentFlags().IntVar(&numRuns, "num-runs", flags.NumRuns, "Number of runs")
	cmd.PersistentFlags().IntVar(&episodes, "episodes", flags.Episodes, "Number of episodes")
	cmd.PersistentFlags().IntVar(&horizon, "horizon", flags.Horizon, "Horizon")
	cmd.PersistentFlags().IntVar(&maxConsecutiveErrors, "max-consecutive-errors", flags.MaxConsecutiveErrors, "Maximum number of consecutive errors")
	cmd.PersistentFlags().Uint64Var(&seed, "seed", flags.Seed, "Seed of the environment and policy random sources")
	cmd.PersistentFlags().IntVar(&parallelism, "parallelism", flags.Parallelism, "Number of parallel experiments")
}

// UpdateFlags copies the flags set on the command line over the loaded
// configuration.
func UpdateFlags(cmd *cobra.Command) {
	changed := cmd.Flags().Changed

	if changed("grid-size") {
		flags.Solver.GridSize = gridSize
	}
	if changed("discount-factor") {
		flags.Solver.DiscountFactor = discountFactor
	}
	if changed("convergence-threshold") {
		flags.Solver.ConvergenceThreshold = convergenceThreshold
	}
	if changed("max-iterations") {
		flags.Solver.MaxIterations = maxIterations
	}
	if changed("arrival-probability") {
		flags.Solver.ArrivalProbability = arrivalProbability
	}
	if changed("solver-parallelism") {
		flags.Solver.Parallelism = solverParallelism
	}

	if changed("save-path") {
		flags.SavePath = savePath
	}
	if changed("policy") {
		flags.PolicyPath = policyPath
	}
	if changed("grid") {
		flags.GridPath = gridPath
	}
	if changed("verbose") {
		flags.Verbose = verbose
	}
	if changed("record-traces") {
		flags.RecordTraces = recordTraces
	}
	if changed("temperature") {
		flags.Temperature = temperature
	}

	if changed("num-runs") {
		flags.NumRuns = numRuns
	}
	if changed("episodes") {
		flags.Episodes = episodes
	}
	if changed("horizon") {
		flags.Horizon = horizon
	}
	if changed("max-consecutive-errors") {
		flags.MaxConsecutiveErrors = maxConsecutiveErrors
	}
	if changed("seed") {
		flags.Seed = seed
	}
	if changed("parallelism") {
		flags.Parallelism = parallelism
	}
}
