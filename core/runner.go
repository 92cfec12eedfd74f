package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/zeu5/taxi-mdp/util"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

var (
	ErrTooManyErrors = errors.New("too many errors")
)

type experimentRunContext struct {
	run       int
	ctx       context.Context
	analyzers map[string]Analyzer

	output *util.ParallelOutput

	*RunConfig
}

type ExperimentResult struct {
	CompletedEpisodes int
	TotalEpisodes     int
	ErrorEpisodes     int
	TotalTimeSteps    int

	Error    error
	Datasets map[string]DataSet
}

func (r *ExperimentResult) IsError() bool {
	return r.Error != nil
}

// runEpisode plays one episode of at most horizon steps
func (e *Experiment) runEpisode(eCtx *EpisodeContext) {
	state, err := e.Environment.Reset()
	if err != nil {
		eCtx.Error(err)
		return
	}
	for step := 0; step < eCtx.Horizon; step++ {
		select {
		case <-eCtx.Context.Done():
			eCtx.Error(eCtx.Context.Err())
			return
		default:
		}

		sCtx := &StepContext{Step: step, EpisodeContext: eCtx}
		action := e.Policy.PickAction(sCtx, state)
		nextState, reward, err := e.Environment.Step(action, sCtx)
		if err != nil {
			eCtx.Error(err)
			return
		}
		e.Policy.UpdateStep(sCtx, state, action, reward, nextState)
		eCtx.Trace.AddStep(&Step{
			State:     state,
			Action:    action,
			Reward:    reward,
			NextState: nextState,
		})
		state = nextState
	}
	e.Policy.UpdateEpisode(eCtx)
}

func (e *Experiment) run(ctx *experimentRunContext) *ExperimentResult {
	result := &ExperimentResult{
		Datasets: make(map[string]DataSet),
	}
	e.Policy.Reset()

	consecutiveErrors := 0
EpisodeLoop:
	for episode := 0; episode < ctx.Episodes; episode++ {
		select {
		case <-ctx.ctx.Done():
			result.Error = ctx.ctx.Err()
			break EpisodeLoop
		default:
		}

		ctx.output.TrySet(fmt.Sprintf(
			"Experiment: %s, Run %d, Episode %d/%d, Timesteps: %d, Error: %d",
			e.Name, ctx.run, episode, ctx.Episodes, result.TotalTimeSteps, result.ErrorEpisodes,
		))
		eCtx := NewEpisodeContext(ctx.ctx)
		eCtx.Run = ctx.run
		eCtx.Episode = episode
		eCtx.Horizon = ctx.Horizon
		eCtx.Experiment = e.Name
		eCtx.StartTimeStep = result.TotalTimeSteps

		e.Policy.ResetEpisode(eCtx)
		e.runEpisode(eCtx)

		if eCtx.IsError() {
			result.ErrorEpisodes++
			if consecutiveErrors++; consecutiveErrors >= ctx.ThresholdConsecutiveErrors {
				result.Error = fmt.Errorf("%w: %s", ErrTooManyErrors, eCtx.Err())
				break EpisodeLoop
			}
		} else {
			consecutiveErrors = 0
			result.TotalTimeSteps += eCtx.Trace.Len()
			result.CompletedEpisodes++
		}
		result.TotalEpisodes++

		for _, a := range ctx.analyzers {
			a.Analyze(eCtx, eCtx.Trace)
		}
	}

	status := "done"
	if result.Error != nil {
		status = result.Error.Error()
	}
	ctx.output.Set(fmt.Sprintf(
		"Experiment: %s, Run %d, Episodes: %d, Timesteps: %d, Error: %d, %s",
		e.Name, ctx.run, result.TotalEpisodes, result.TotalTimeSteps, result.ErrorEpisodes, status,
	))

	for name, a := range ctx.analyzers {
		result.Datasets[name] = a.DataSet()
	}

	e.Policy.Reset()
	return result
}

// parallelWorker is a worker that runs experiments
type parallelWorker struct {
	id int
}

// parallelWork is a struct that contains all the information needed to run an experiment
type parallelWork struct {
	experiment *ParallelExperiment
	// position of the experiment in the comparison, used as the environment
	// instance so seeding does not depend on scheduling
	index      int
	comp       *ParallelComparison
	runNumber  int
	output     *util.ParallelOutput
	rConfig    *RunConfig
	// slot the worker writes the result to
	result **ExperimentResult
	wg     *sync.WaitGroup
}

// Worker main loop that consumes work until the channel is closed. A
// cancelled context makes the remaining experiments return early.
func (w *parallelWorker) run(ctx context.Context, workCh <-chan *parallelWork) {
	for work := range workCh {
		*work.result = w.runWork(ctx, work)
		work.wg.Done()
	}
}

// Run an experiment by constructing the experiment context, *Experiment
func (w *parallelWorker) runWork(ctx context.Context, work *parallelWork) *ExperimentResult {
	eCtx := &experimentRunContext{
		run:       work.runNumber,
		ctx:       ctx,
		analyzers: make(map[string]Analyzer),
		output:    work.output,
		RunConfig: work.rConfig,
	}

	for name, aC := range work.comp.Analyzers {
		eCtx.analyzers[name] = aC.NewAnalyzer(work.experiment.Name, work.runNumber)
	}

	exp := &Experiment{
		Name:        work.experiment.Name,
		Environment: work.experiment.Environment.NewEnvironment(work.index),
		Policy:      work.experiment.Policy.NewPolicy(),
	}

	return exp.run(eCtx)
}

// Run executes every experiment once per run on a pool of parallelism
// workers, then hands the analyzer datasets to the comparators.
func (c *ParallelComparison) Run(ctx context.Context, runs int, rConfig *RunConfig, parallelism int) error {
	if parallelism < 1 {
		parallelism = 1
	}
	analyzerNames := maps.Keys(c.Analyzers)
	slices.Sort(analyzerNames)

	for run := 0; run < runs; run++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		printer := util.NewTerminalPrinter(200 * time.Millisecond)
		printer.Write(fmt.Sprintf("Run %d\n", run))

		outputs := make([]*util.ParallelOutput, len(c.Experiments))
		for i := range c.Experiments {
			outputs[i] = printer.NewOutput()
		}
		printer.Start(ctx)

		workCh := make(chan *parallelWork, parallelism)
		for i := 0; i < parallelism; i++ {
			w := &parallelWorker{id: i}
			go w.run(ctx, workCh)
		}

		results := make([]*ExperimentResult, len(c.Experiments))
		wg := new(sync.WaitGroup)
		for i, e := range c.Experiments {
			wg.Add(1)
			select {
			case <-ctx.Done():
				wg.Done()
				close(workCh)
				wg.Wait()
				printer.Stop()
				return ctx.Err()
			case workCh <- &parallelWork{
				experiment: e,
				index:      i,
				comp:       c,
				runNumber:  run,
				output:     outputs[i],
				rConfig:    rConfig,
				result:     &results[i],
				wg:         wg,
			}:
			}
		}

		wg.Wait()
		close(workCh)
		printer.Stop()

		// Gather datasets to run comparisons
		experimentNames := make([]string, len(c.Experiments))
		datasets := make(map[string][]DataSet)
		for i, e := range c.Experiments {
			experimentNames[i] = e.Name
			for _, name := range analyzerNames {
				if results[i].IsError() {
					datasets[name] = append(datasets[name], nil)
				} else {
					datasets[name] = append(datasets[name], results[i].Datasets[name])
				}
			}
		}
		for _, name := range analyzerNames {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			c.Comparators[name].NewComparator(run).Compare(experimentNames, datasets[name])
		}
	}
	return nil
}
