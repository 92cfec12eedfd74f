package analysis

import (
	"fmt"
	"io"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/zeu5/taxi-mdp/util"
)

type chartSeries struct {
	Name       string
	Rewards    []float64
	Deliveries []int
}

func episodeAxis(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%d", i)
	}
	return out
}

// renderRewards draws the per-episode return and deliveries of every
// experiment on one page.
func renderRewards(w io.Writer, series []chartSeries) error {
	numEpisodes := 0
	for _, s := range series {
		if len(s.Rewards) > numEpisodes {
			numEpisodes = len(s.Rewards)
		}
	}

	rewards := charts.NewLine()
	rewards.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Episode reward"}),
		charts.WithInitializationOpts(opts.Initialization{Theme: "shine"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "episode"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "reward"}),
	)
	rewards.SetXAxis(episodeAxis(numEpisodes))

	deliveries := charts.NewLine()
	deliveries.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Deliveries per episode"}),
		charts.WithInitializationOpts(opts.Initialization{Theme: "shine"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "episode"}),
	)
	deliveries.SetXAxis(episodeAxis(numEpisodes))

	for _, s := range series {
		rItems := make([]opts.LineData, len(s.Rewards))
		for i, r := range s.Rewards {
			rItems[i] = opts.LineData{Value: r}
		}
		rewards.AddSeries(s.Name, rItems)

		dItems := make([]opts.LineData, len(s.Deliveries))
		for i, d := range s.Deliveries {
			dItems[i] = opts.LineData{Value: d}
		}
		deliveries.AddSeries(s.Name, dItems)
	}

	page := components.NewPage()
	page.AddCharts(rewards, deliveries)
	return page.Render(w)
}

// RenderConvergence writes an HTML line chart of the per-sweep max_delta
// history to p. The y axis is logarithmic unless a delta is zero.
func RenderConvergence(p string, deltas []float64) error {
	if err := util.EnsureDir(p); err != nil {
		return err
	}
	file, err := os.Create(p)
	if err != nil {
		return err
	}
	defer file.Close()
	return renderConvergence(file, deltas)
}

func renderConvergence(w io.Writer, deltas []float64) error {
	axisType := "log"
	items := make([]opts.LineData, len(deltas))
	sweeps := make([]string, len(deltas))
	for i, d := range deltas {
		if d <= 0 {
			axisType = "value"
		}
		items[i] = opts.LineData{Value: d}
		sweeps[i] = fmt.Sprintf("%d", i+1)
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Value iteration convergence"}),
		charts.WithInitializationOpts(opts.Initialization{Theme: "shine"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "sweep"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "max_delta", Type: axisType}),
	)
	line.SetXAxis(sweeps).AddSeries("max_delta", items)
	return line.Render(w)
}
