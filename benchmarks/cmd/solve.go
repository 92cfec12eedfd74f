package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/zeu5/taxi-mdp/analysis"
	"github.com/zeu5/taxi-mdp/mdp"
	"github.com/zeu5/taxi-mdp/policies"
	"github.com/zeu5/taxi-mdp/solver"
	"github.com/zeu5/taxi-mdp/util"
)

func SolveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Solve the taxi MDP and export the policy",
		RunE: func(cmd *cobra.Command, args []string) error {
			sv, result, err := runSolver(cmd.Context())
			if err != nil {
				return err
			}
			table := policies.FromResult(result)
			printStatistics(os.Stdout, table)

			out := policyFile()
			if err := table.Record(out); err != nil {
				errorLog.Printf("error saving policy: %s", err)
				return err
			}
			infoLog.Printf("Policy exported to %s", out)

			if flags.GridPath != "" {
				if err := table.RecordGrid(flags.GridPath); err != nil {
					errorLog.Printf("error saving policy grid: %s", err)
					return err
				}
				infoLog.Printf("Policy grid exported to %s", flags.GridPath)
			}

			chart := path.Join(flags.SavePath, "convergence.html")
			if err := analysis.RenderConvergence(chart, result.Deltas); err != nil {
				errorLog.Printf("error rendering convergence chart: %s", err)
			} else {
				infoLog.Printf("Convergence chart written to %s", chart)
			}
			if err := util.SaveJson(path.Join(flags.SavePath, "solve.json"), solveSummary(sv, result)); err != nil {
				errorLog.Printf("error saving solve summary: %s", err)
			}

			fmt.Println()
			analysis.NewGridPrinter(colorOutput()).Print(os.Stdout, table, mdp.None)
			return nil
		},
	}
	return cmd
}

// runSolver solves with the configured parameters, reporting progress on a
// live status line, or one line per sweep when verbose.
func runSolver(ctx context.Context) (*solver.Solver, *solver.Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	printer := util.NewTerminalPrinter(100 * time.Millisecond)
	status := printer.NewOutput()

	observer := func(p solver.Progress) {
		status.TrySet(fmt.Sprintf("Iteration %d: max_delta=%.6f", p.Sweep, p.MaxDelta))
	}
	if flags.Verbose {
		observer = func(p solver.Progress) {
			fmt.Printf("Iteration %d: max_delta=%.6f\n", p.Sweep, p.MaxDelta)
		}
	}

	sv, err := solver.NewSolver(flags.Solver, solver.WithObserver(observer))
	if err != nil {
		errorLog.Printf("error creating solver: %s", err)
		return nil, nil, err
	}
	infoLog.Printf("Solving %dx%d grid, %d states, p=%g, gamma=%g",
		flags.Solver.GridSize, flags.Solver.GridSize, sv.Space().Len(),
		flags.Solver.ArrivalProbability, flags.Solver.DiscountFactor)

	if !flags.Verbose {
		printer.Start(ctx)
	}
	start := time.Now()
	result := sv.Solve()
	elapsed := time.Since(start)
	if !flags.Verbose {
		status.Set(fmt.Sprintf("Iteration %d: max_delta=%.6f", result.Iterations, result.FinalDelta))
		printer.Stop()
	}

	if result.Converged {
		infoLog.Printf("Value iteration converged after %d iterations (%s)", result.Iterations, elapsed)
	} else {
		infoLog.Printf("Value iteration did not converge within %d iterations, max_delta=%.6f (%s)",
			flags.Solver.MaxIterations, result.FinalDelta, elapsed)
	}
	return sv, result, nil
}

type solveRecord struct {
	Config     solver.Config  `json:"config"`
	States     int            `json:"states"`
	Status     string         `json:"status"`
	Iterations int            `json:"iterations"`
	FinalDelta float64        `json:"final_delta"`
	Deltas     []float64      `json:"deltas"`
	Policy     policies.Stats `json:"policy"`
}

func solveSummary(sv *solver.Solver, result *solver.Result) *solveRecord {
	return &solveRecord{
		Config:     sv.Config(),
		States:     result.Space.Len(),
		Status:     result.Status(),
		Iterations: result.Iterations,
		FinalDelta: result.FinalDelta,
		Deltas:     result.Deltas,
		Policy:     policies.FromResult(result).Statistics(),
	}
}

func printStatistics(w io.Writer, table *policies.Table) {
	stats := table.Statistics()
	fmt.Fprintln(w, "Policy Statistics:")
	fmt.Fprintf(w, "  Total states: %d\n", stats.TotalStates)
	fmt.Fprintf(w, "  Coverage: %.1f%%\n", stats.Coverage*100)
	fmt.Fprintln(w, "  Action distribution:")
	if stats.TotalStates == 0 {
		return
	}
	for _, a := range mdp.Actions {
		count := stats.ActionDistribution[a.String()]
		fmt.Fprintf(w, "    %-5s %6d (%.1f%%)\n", a, count, 100*float64(count)/float64(stats.TotalStates))
	}
	if invalid := stats.ActionDistribution[mdp.Action(-1).String()]; invalid > 0 {
		fmt.Fprintf(w, "    %-5s %6d\n", "other", invalid)
	}
}

func colorOutput() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}
