package analysis_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zeu5/taxi-mdp/analysis"
	"github.com/zeu5/taxi-mdp/core"
	"github.com/zeu5/taxi-mdp/mdp"
	"github.com/zeu5/taxi-mdp/policies"
	"github.com/zeu5/taxi-mdp/util"
)

func pos(x, y int) mdp.Position {
	return mdp.Position{X: x, Y: y}
}

// episode builds a trace that picks up at (0, 0), fumbles once and delivers
// at (0, 1).
func episode() (*core.EpisodeContext, *core.Trace) {
	eCtx := core.NewEpisodeContext(context.Background())
	waiting := mdp.NewState(pos(0, 0), mdp.NewWaiting(pos(0, 0), pos(0, 1)))
	actions := []mdp.Action{mdp.Drop, mdp.Pick, mdp.North, mdp.Drop}
	state := waiting
	for _, a := range actions {
		next, r := mdp.Apply(state, a, 2)
		eCtx.Trace.AddStep(&core.Step{State: state, Action: a, Reward: r, NextState: next})
		state = next
	}
	return eCtx, eCtx.Trace
}

func TestRewardAnalyzer(t *testing.T) {
	a := analysis.NewRewardAnalyzerConstructor().NewAnalyzer("exp", 0)
	eCtx, trace := episode()
	a.Analyze(eCtx, trace)
	a.Analyze(eCtx, trace)

	dir := t.TempDir()
	out := new(bytes.Buffer)
	cmp := analysis.NewRewardComparatorConstructor(dir, out).NewComparator(3)
	cmp.Compare([]string{"Good", "Failed"}, []core.DataSet{a.DataSet(), nil})

	require.Contains(t, out.String(), "Failed           no data")
	require.Contains(t, out.String(), "reward     4.000 ± 0.000")

	var records map[string]struct {
		Summary  analysis.RewardSummary `json:"summary"`
		Episodes struct {
			TotalRewards   []float64 `json:"total_rewards"`
			Deliveries     []int     `json:"deliveries"`
			InvalidActions []int     `json:"invalid_actions"`
			Timesteps      []int     `json:"timesteps"`
		} `json:"episodes"`
	}
	require.NoError(t, util.ReadJson(filepath.Join(dir, "3", "rewards.json"), &records))
	require.Len(t, records, 1)
	good := records["Good"]
	// -5 + 0 - 1 + 10
	require.Equal(t, []float64{4, 4}, good.Episodes.TotalRewards)
	require.Equal(t, []int{1, 1}, good.Episodes.Deliveries)
	require.Equal(t, []int{1, 1}, good.Episodes.InvalidActions)
	require.Equal(t, []int{4, 8}, good.Episodes.Timesteps)
	require.Equal(t, 2, good.Summary.Episodes)
	require.Equal(t, 1.0, good.Summary.MeanDeliveries)

	html, err := os.ReadFile(filepath.Join(dir, "3", "rewards.html"))
	require.NoError(t, err)
	require.Contains(t, string(html), "Episode reward")

	a.Reset()
	require.NotPanics(t, func() {
		analysis.NewRewardComparator(t.TempDir(), out).Compare([]string{"Empty"}, []core.DataSet{a.DataSet()})
	})
}

func TestRenderConvergence(t *testing.T) {
	p := filepath.Join(t.TempDir(), "charts", "convergence.html")
	require.NoError(t, analysis.RenderConvergence(p, []float64{10, 4.5, 0.9, 0.01}))
	html, err := os.ReadFile(p)
	require.NoError(t, err)
	require.Contains(t, string(html), "max_delta")
	require.Contains(t, string(html), "log")
}

func TestGridPrinter(t *testing.T) {
	table := policies.NewTable(map[mdp.State]mdp.Action{
		mdp.NewState(pos(0, 0), mdp.NewInTaxi(pos(1, 1))): mdp.East,
		mdp.NewState(pos(1, 0), mdp.NewInTaxi(pos(1, 1))): mdp.North,
		mdp.NewState(pos(0, 1), mdp.NewInTaxi(pos(1, 1))): mdp.East,
		mdp.NewState(pos(1, 1), mdp.NewInTaxi(pos(1, 1))): mdp.Drop,
	}, 2)
	out := new(bytes.Buffer)
	analysis.NewGridPrinter(false).Print(out, table, mdp.NewInTaxi(pos(1, 1)))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	require.Equal(t, "Policy (in_taxi), grid 2x2", lines[0])
	require.Equal(t, "| → | D |", lines[1])
	require.Equal(t, "| → | ↑ |", lines[2])

	colored := new(bytes.Buffer)
	analysis.PrintPolicyGrid(colored, table, mdp.None)
	require.Contains(t, colored.String(), "\x1b[")
	require.Contains(t, colored.String(), "?")
}

func TestTraceAndErrorAnalyzers(t *testing.T) {
	dir := t.TempDir()
	eCtx, trace := episode()
	eCtx.Run = 1
	eCtx.Episode = 2

	out := new(bytes.Buffer)
	analysis.NewTraceAnalyzerConstructor(dir, 2, out).NewAnalyzer("Random", 1).Analyze(eCtx, trace)
	bs, err := os.ReadFile(filepath.Join(dir, "traces", "1_Random_trace_2.txt"))
	require.NoError(t, err)
	require.Contains(t, string(bs), "Action: pick")
	require.Contains(t, string(bs), "Total reward: 4")

	errs := analysis.NewErrorAnalyzerConstructor(dir, out).NewAnalyzer("Random", 1)
	errs.Analyze(eCtx, trace)
	_, err = os.Stat(filepath.Join(dir, "errors", "1_Random_error_2.txt"))
	require.True(t, os.IsNotExist(err))

	eCtx.Error(errors.New("boom"))
	errs.Analyze(eCtx, trace)
	bs, err = os.ReadFile(filepath.Join(dir, "errors", "1_Random_error_2.txt"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(bs), "Error: boom\n"))
	require.Empty(t, out.String())
}

// A save path that cannot hold directories makes every dump fail; the
// failures are reported instead of dropped.
func TestAnalyzers_WriteErrors(t *testing.T) {
	blocked := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocked, []byte("x"), 0644))
	eCtx, trace := episode()
	eCtx.Error(errors.New("boom"))

	out := new(bytes.Buffer)
	analysis.NewTraceAnalyzer(blocked, 0, out).Analyze(eCtx, trace)
	require.Contains(t, out.String(), "error writing "+filepath.Join(blocked, "traces", "0_trace_0.txt"))

	out.Reset()
	analysis.NewErrorAnalyzer(blocked, out).Analyze(eCtx, trace)
	require.Contains(t, out.String(), "error writing "+filepath.Join(blocked, "errors", "0_error_0.txt"))

	// a nil writer swallows the failure
	require.NotPanics(t, func() {
		analysis.NewErrorAnalyzer(blocked, nil).Analyze(eCtx, trace)
	})
}
