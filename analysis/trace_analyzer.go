package analysis

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/zeu5/taxi-mdp/core"
	"github.com/zeu5/taxi-mdp/util"
)

// TraceAnalyzer dumps episode traces to <savePath>/traces as text files.
type TraceAnalyzer struct {
	savePath string
	exp      string
	// failed writes are reported here
	out io.Writer
	// will save the trace to the file only after the episode number exceeds this threshold
	thresholdEpisode int
}

var _ core.Analyzer = &TraceAnalyzer{}

func NewTraceAnalyzer(savePath string, threshold int, out io.Writer) *TraceAnalyzer {
	return &TraceAnalyzer{
		savePath:         path.Join(savePath, "traces"),
		thresholdEpisode: threshold,
		out:              out,
	}
}

func (a *TraceAnalyzer) Analyze(ctx *core.EpisodeContext, trace *core.Trace) {
	if ctx.Episode < a.thresholdEpisode {
		return
	}
	fileName := fmt.Sprintf("%d_trace_%d.txt", ctx.Run, ctx.Episode)
	if a.exp != "" {
		fileName = fmt.Sprintf("%d_%s_trace_%d.txt", ctx.Run, a.exp, ctx.Episode)
	}
	writeDump(a.out, path.Join(a.savePath, fileName), traceToString(trace))
}

// writeDump writes content to p, creating the directory first. Errors go to
// out since analyzers have no error return.
func writeDump(out io.Writer, p, content string) {
	err := util.EnsureDir(p)
	if err == nil {
		err = os.WriteFile(p, []byte(content), 0644)
	}
	if err != nil && out != nil {
		fmt.Fprintf(out, "error writing %s: %s\n", p, err)
	}
}

func traceToString(trace *core.Trace) string {
	buf := new(bytes.Buffer)
	for i := 0; i < trace.Len(); i++ {
		fmt.Fprintf(buf, "Step %d\n%s\n", i, stepToString(trace.Step(i)))
	}
	fmt.Fprintf(buf, "Total reward: %g\n", trace.TotalReward())
	return buf.String()
}

func stepToString(step *core.Step) string {
	return fmt.Sprintf(
		"State: %s\nAction: %s\nReward: %g\nNext State: %s\n",
		step.State, step.Action, step.Reward, step.NextState,
	)
}

func (a *TraceAnalyzer) DataSet() core.DataSet {
	return nil
}

func (a *TraceAnalyzer) Reset() {
	// do nothing
}

type TraceAnalyzerConstructor struct {
	SavePath         string
	ThresholdEpisode int
	Out              io.Writer
}

var _ core.AnalyzerConstructor = &TraceAnalyzerConstructor{}

func NewTraceAnalyzerConstructor(savePath string, thresholdEpisode int, out io.Writer) *TraceAnalyzerConstructor {
	return &TraceAnalyzerConstructor{
		SavePath:         savePath,
		ThresholdEpisode: thresholdEpisode,
		Out:              out,
	}
}

func (c *TraceAnalyzerConstructor) NewAnalyzer(exp string, _ int) core.Analyzer {
	a := NewTraceAnalyzer(c.SavePath, c.ThresholdEpisode, c.Out)
	a.exp = exp
	return a
}
