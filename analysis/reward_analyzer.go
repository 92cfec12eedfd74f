package analysis

import (
	"fmt"
	"io"
	"os"
	"path"
	"strconv"

	"github.com/zeu5/taxi-mdp/core"
	"github.com/zeu5/taxi-mdp/mdp"
	"github.com/zeu5/taxi-mdp/util"
	"gonum.org/v1/gonum/stat"
)

type rewardDataset struct {
	TotalRewards   []float64 `json:"total_rewards"`
	Deliveries     []int     `json:"deliveries"`
	InvalidActions []int     `json:"invalid_actions"`
	Timesteps      []int     `json:"timesteps"`
}

func (r *rewardDataset) Copy() *rewardDataset {
	return &rewardDataset{
		TotalRewards:   util.CopyFloatSlice(r.TotalRewards),
		Deliveries:     util.CopyIntSlice(r.Deliveries),
		InvalidActions: util.CopyIntSlice(r.InvalidActions),
		Timesteps:      util.CopyIntSlice(r.Timesteps),
	}
}

// RewardAnalyzer records the undiscounted return of every episode together
// with the number of deliveries and rejected pick/drop actions.
type RewardAnalyzer struct {
	dataset *rewardDataset
}

var _ core.Analyzer = &RewardAnalyzer{}

func NewRewardAnalyzer() *RewardAnalyzer {
	return &RewardAnalyzer{
		dataset: &rewardDataset{
			TotalRewards:   make([]float64, 0),
			Deliveries:     make([]int, 0),
			InvalidActions: make([]int, 0),
			Timesteps:      make([]int, 0),
		},
	}
}

func (r *RewardAnalyzer) Analyze(_ *core.EpisodeContext, trace *core.Trace) {
	deliveries := 0
	invalid := 0
	for i := 0; i < trace.Len(); i++ {
		switch trace.Step(i).Reward {
		case mdp.DeliveryReward:
			deliveries++
		case mdp.InvalidPenalty:
			invalid++
		}
	}
	lastTimeStep := 0
	if l := len(r.dataset.Timesteps); l > 0 {
		lastTimeStep = r.dataset.Timesteps[l-1]
	}
	r.dataset.TotalRewards = append(r.dataset.TotalRewards, trace.TotalReward())
	r.dataset.Deliveries = append(r.dataset.Deliveries, deliveries)
	r.dataset.InvalidActions = append(r.dataset.InvalidActions, invalid)
	r.dataset.Timesteps = append(r.dataset.Timesteps, lastTimeStep+trace.Len())
}

func (r *RewardAnalyzer) DataSet() core.DataSet {
	return r.dataset.Copy()
}

func (r *RewardAnalyzer) Reset() {
	r.dataset = NewRewardAnalyzer().dataset
}

type RewardAnalyzerConstructor struct{}

var _ core.AnalyzerConstructor = &RewardAnalyzerConstructor{}

func NewRewardAnalyzerConstructor() *RewardAnalyzerConstructor {
	return &RewardAnalyzerConstructor{}
}

func (c *RewardAnalyzerConstructor) NewAnalyzer(_ string, _ int) core.Analyzer {
	return NewRewardAnalyzer()
}

// RewardSummary aggregates one experiment's episodes.
type RewardSummary struct {
	Episodes       int     `json:"episodes"`
	MeanReward     float64 `json:"mean_reward"`
	StdDevReward   float64 `json:"stddev_reward"`
	MeanDeliveries float64 `json:"mean_deliveries"`
	MeanInvalid    float64 `json:"mean_invalid_actions"`
}

func summarize(d *rewardDataset) RewardSummary {
	s := RewardSummary{Episodes: len(d.TotalRewards)}
	if s.Episodes == 0 {
		return s
	}
	s.MeanReward, s.StdDevReward = stat.MeanStdDev(d.TotalRewards, nil)
	if s.Episodes < 2 {
		s.StdDevReward = 0
	}
	s.MeanDeliveries = stat.Mean(toFloats(d.Deliveries), nil)
	s.MeanInvalid = stat.Mean(toFloats(d.InvalidActions), nil)
	return s
}

func toFloats(in []int) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = float64(v)
	}
	return out
}

// RewardComparator writes rewards.json and rewards.html for one run and
// prints a summary line per experiment. Experiments that failed have a nil
// dataset and are skipped.
type RewardComparator struct {
	savePath string
	out      io.Writer
}

var _ core.Comparator = &RewardComparator{}

func NewRewardComparator(savePath string, out io.Writer) *RewardComparator {
	return &RewardComparator{
		savePath: savePath,
		out:      out,
	}
}

type rewardRecord struct {
	Summary  RewardSummary  `json:"summary"`
	Episodes *rewardDataset `json:"episodes"`
}

func (c *RewardComparator) Compare(experimentNames []string, datasets []core.DataSet) {
	names := make([]string, 0, len(experimentNames))
	records := make(map[string]*rewardRecord)
	for i, name := range experimentNames {
		ds, ok := datasets[i].(*rewardDataset)
		if !ok || ds == nil {
			fmt.Fprintf(c.out, "%-16s no data\n", name)
			continue
		}
		names = append(names, name)
		records[name] = &rewardRecord{Summary: summarize(ds), Episodes: ds}
	}

	for _, name := range names {
		s := records[name].Summary
		fmt.Fprintf(c.out, "%-16s episodes %5d  reward %9.3f ± %-8.3f deliveries %6.3f  invalid %6.3f\n",
			name, s.Episodes, s.MeanReward, s.StdDevReward, s.MeanDeliveries, s.MeanInvalid)
	}

	if err := util.SaveJson(path.Join(c.savePath, "rewards.json"), records); err != nil {
		fmt.Fprintf(c.out, "error saving rewards: %s\n", err)
		return
	}
	if len(names) == 0 {
		return
	}
	file, err := os.Create(path.Join(c.savePath, "rewards.html"))
	if err != nil {
		fmt.Fprintf(c.out, "error saving reward chart: %s\n", err)
		return
	}
	defer file.Close()

	series := make([]chartSeries, len(names))
	for i, name := range names {
		series[i] = chartSeries{Name: name, Rewards: records[name].Episodes.TotalRewards, Deliveries: records[name].Episodes.Deliveries}
	}
	if err := renderRewards(file, series); err != nil {
		fmt.Fprintf(c.out, "error rendering reward chart: %s\n", err)
	}
}

type RewardComparatorConstructor struct {
	savePath string
	out      io.Writer
}

var _ core.ComparatorConstructor = &RewardComparatorConstructor{}

// Each run writes into its own <savePath>/<run> directory.
func NewRewardComparatorConstructor(savePath string, out io.Writer) *RewardComparatorConstructor {
	return &RewardComparatorConstructor{
		savePath: savePath,
		out:      out,
	}
}

func (c *RewardComparatorConstructor) NewComparator(run int) core.Comparator {
	return NewRewardComparator(path.Join(c.savePath, strconv.Itoa(run)), c.out)
}
