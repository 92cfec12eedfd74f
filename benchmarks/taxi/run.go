package taxi

import (
	"os"

	"github.com/zeu5/taxi-mdp/analysis"
	"github.com/zeu5/taxi-mdp/benchmarks/common"
	"github.com/zeu5/taxi-mdp/core"
	"github.com/zeu5/taxi-mdp/mdp"
	"github.com/zeu5/taxi-mdp/policies"
	"github.com/zeu5/taxi-mdp/solver"
)

func environmentConstructor(flags *common.Flags) *EnvironmentConstructor {
	return NewEnvironmentConstructor(EnvironmentConfig{
		GridSize:           flags.Solver.GridSize,
		ArrivalProbability: flags.Solver.ArrivalProbability,
		Seed:               flags.Seed,
	})
}

func addAnalyses(cmp *core.ParallelComparison, flags *common.Flags) {
	cmp.AddAnalysis("Rewards", analysis.NewRewardAnalyzerConstructor(), analysis.NewRewardComparatorConstructor(flags.SavePath, os.Stdout))
	cmp.AddAnalysis("Errors", analysis.NewErrorAnalyzerConstructor(flags.SavePath, os.Stderr), analysis.NewNoOpComparatorConstructor())
	if flags.RecordTraces {
		cmp.AddAnalysis("Traces", analysis.NewTraceAnalyzerConstructor(flags.SavePath, flags.Episodes-1, os.Stderr), analysis.NewNoOpComparatorConstructor())
	}
}

// PrepareComparison compares the greedy policy of table against uniformly
// random driving and a Q-learner trained during the rollouts.
func PrepareComparison(flags *common.Flags, table *policies.Table) *core.ParallelComparison {
	cmp := core.NewParallelComparison()
	env := environmentConstructor(flags)
	addAnalyses(cmp, flags)

	cmp.AddExperiment(&core.ParallelExperiment{
		Name:        "ValueIteration",
		Environment: env,
		Policy:      policies.NewGreedyPolicyConstructor(table, mdp.North),
	})
	cmp.AddExperiment(&core.ParallelExperiment{
		Name:        "Random",
		Environment: env,
		Policy:      &policies.RandomPolicyConstructor{Seed: flags.Seed},
	})
	cmp.AddExperiment(&core.ParallelExperiment{
		Name:        "QLearning",
		Environment: env,
		Policy:      policies.NewQLearningPolicyConstructor(0.1, flags.Solver.DiscountFactor, 0.1, flags.Seed),
	})
	return cmp
}

// PrepareSolvedComparison adds a softmax experiment over the Q-values of a
// freshly solved value table.
func PrepareSolvedComparison(flags *common.Flags, result *solver.Result, backup *solver.Backup) *core.ParallelComparison {
	cmp := PrepareComparison(flags, policies.FromResult(result))
	cmp.AddExperiment(&core.ParallelExperiment{
		Name:        "SoftMax",
		Environment: environmentConstructor(flags),
		Policy:      policies.NewSoftMaxPolicyConstructor(result, backup, flags.Temperature, flags.Seed),
	})
	return cmp
}
