package analysis

import (
	"fmt"
	"io"
	"path"

	"github.com/zeu5/taxi-mdp/core"
)

// ErrorAnalyzer writes the partial trace of every failed episode to
// <savePath>/errors.
type ErrorAnalyzer struct {
	savePath string
	exp      string
	out      io.Writer
}

var _ core.Analyzer = &ErrorAnalyzer{}

func NewErrorAnalyzer(savePath string, out io.Writer) *ErrorAnalyzer {
	return &ErrorAnalyzer{
		savePath: path.Join(savePath, "errors"),
		out:      out,
	}
}

func (a *ErrorAnalyzer) Analyze(ctx *core.EpisodeContext, trace *core.Trace) {
	err := trace.Error()
	if err == nil {
		return
	}
	content := fmt.Sprintf("Error: %s\n", err) + traceToString(trace)

	fileName := fmt.Sprintf("%d_error_%d.txt", ctx.Run, ctx.Episode)
	if a.exp != "" {
		fileName = fmt.Sprintf("%d_%s_error_%d.txt", ctx.Run, a.exp, ctx.Episode)
	}
	writeDump(a.out, path.Join(a.savePath, fileName), content)
}

func (a *ErrorAnalyzer) DataSet() core.DataSet {
	return nil
}

func (a *ErrorAnalyzer) Reset() {
	// do nothing
}

type ErrorAnalyzerConstructor struct {
	SavePath string
	Out      io.Writer
}

var _ core.AnalyzerConstructor = &ErrorAnalyzerConstructor{}

func NewErrorAnalyzerConstructor(savePath string, out io.Writer) *ErrorAnalyzerConstructor {
	return &ErrorAnalyzerConstructor{
		SavePath: savePath,
		Out:      out,
	}
}

func (e *ErrorAnalyzerConstructor) NewAnalyzer(exp string, _ int) core.Analyzer {
	a := NewErrorAnalyzer(e.SavePath, e.Out)
	a.exp = exp
	return a
}
