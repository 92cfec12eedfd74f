package util

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/gosuri/uilive"
	"github.com/mattn/go-isatty"
)

// TerminalPrinter redraws a block of status lines in place. When stdout is
// not a terminal it stays quiet until Stop and then prints each line once.
type TerminalPrinter struct {
	parallelOutputs []*ParallelOutput
	frequency       time.Duration
	doneCh          chan struct{}
	stoppedCh       chan struct{}
	once            *sync.Once

	live    bool
	out     io.Writer
	writer  *uilive.Writer
	writers []io.Writer
}

func NewTerminalPrinter(frequency time.Duration) *TerminalPrinter {
	live := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	return NewTerminalPrinterTo(os.Stdout, frequency, live)
}

// NewTerminalPrinterTo writes to out, redrawing in place only when live.
func NewTerminalPrinterTo(out io.Writer, frequency time.Duration, live bool) *TerminalPrinter {
	writer := uilive.New()
	writer.Out = out
	return &TerminalPrinter{
		parallelOutputs: make([]*ParallelOutput, 0),
		frequency:       frequency,
		doneCh:          make(chan struct{}),
		stoppedCh:       make(chan struct{}),
		once:            new(sync.Once),

		live:    live,
		out:     out,
		writer:  writer,
		writers: make([]io.Writer, 0),
	}
}

// NewOutput adds a status line. Must be called before Start.
func (t *TerminalPrinter) NewOutput() *ParallelOutput {
	out := NewParallelOutput()
	t.parallelOutputs = append(t.parallelOutputs, out)
	if t.live {
		t.writers = append(t.writers, t.writer.Newline())
	}
	return out
}

func (p *TerminalPrinter) Start(ctx context.Context) {
	if !p.live {
		close(p.stoppedCh)
		return
	}
	p.writer.Start()
	go func() {
		defer close(p.stoppedCh)
		for {
			select {
			case <-p.doneCh:
				p.print()
				p.writer.Stop()
				return
			case <-ctx.Done():
				p.print()
				p.writer.Stop()
				return
			case <-time.After(p.frequency):
				p.print()
			}
		}
	}()
}

// Stop blocks until the final state of every line has been written.
func (p *TerminalPrinter) Stop() {
	p.once.Do(func() {
		close(p.doneCh)
		<-p.stoppedCh
		if !p.live {
			for _, output := range p.parallelOutputs {
				fmt.Fprintln(p.out, output.Get())
			}
		}
	})
}

// Write prints a line above the redrawn block.
func (p *TerminalPrinter) Write(out string) {
	fmt.Fprintf(p.out, "%s", out)
}

func (p *TerminalPrinter) print() {
	for i, output := range p.parallelOutputs {
		fmt.Fprint(p.writers[i], output.Get()+"\n")
	}
	p.writer.Flush()
}

// PARALLEL OUTPUT
// used to update and print experiment outputs
type ParallelOutput struct {
	mu        *sync.Mutex
	printable string
}

func NewParallelOutput() *ParallelOutput {
	return &ParallelOutput{
		mu:        new(sync.Mutex),
		printable: "",
	}
}

// Set the output string (blocking)
func (p *ParallelOutput) Set(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.printable = s
}

// Try to set the output string (non-blocking)
func (p *ParallelOutput) TrySet(s string) bool {
	success := p.mu.TryLock()
	if success {
		defer p.mu.Unlock()
		p.printable = s
		return true
	}
	return false
}

// Get the output string (blocking)
func (p *ParallelOutput) Get() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.printable
}
