package cmd

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/zeu5/taxi-mdp/benchmarks/taxi"
	"github.com/zeu5/taxi-mdp/core"
	"github.com/zeu5/taxi-mdp/policies"
)

func SimulateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Roll out the value iteration policy against baselines in the stochastic taxi world",
		Long: "Roll out the value iteration policy against baselines in the stochastic taxi world.\n" +
			"Uses the policy file when one exists, otherwise solves first.",
		RunE: func(cmd *cobra.Command, args []string) error {
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt) // channel for interrupts from os

			doneCh := make(chan struct{}) // channel for done signal from application
			defer close(doneCh)

			ctx, cancel := context.WithCancel(context.Background())
			go func() {
				select {
				case <-sigCh:
				case <-doneCh:
				}
				cancel()
			}()

			cmp, err := prepareComparison(ctx)
			if err != nil {
				return err
			}
			err = cmp.Run(ctx, flags.NumRuns, &core.RunConfig{
				Episodes:                   flags.Episodes,
				Horizon:                    flags.Horizon,
				ThresholdConsecutiveErrors: flags.MaxConsecutiveErrors,
			}, flags.Parallelism)
			if errors.Is(err, context.Canceled) {
				infoLog.Printf("Simulation interrupted")
				return nil
			}
			return err
		},
	}
	return cmd
}

func prepareComparison(ctx context.Context) (*core.ParallelComparison, error) {
	file := policyFile()
	table, err := policies.ReadTable(file, flags.Solver.GridSize)
	switch {
	case err == nil:
		if err := table.Validate(); err != nil {
			errorLog.Printf("policy %s: %s", file, err)
			return nil, err
		}
		if stats := table.Statistics(); stats.Coverage < 1 {
			infoLog.Printf("Policy %s covers %.1f%% of the states, missing states drive north", file, stats.Coverage*100)
		}
		infoLog.Printf("Simulating policy %s", file)
		return taxi.PrepareComparison(flags, table), nil
	case errors.Is(err, fs.ErrNotExist):
		infoLog.Printf("No policy at %s, solving", file)
	default:
		errorLog.Printf("error reading policy: %s", err)
		return nil, err
	}

	sv, result, err := runSolver(ctx)
	if err != nil {
		return nil, err
	}
	return taxi.PrepareSolvedComparison(flags, result, sv.Backup()), nil
}
