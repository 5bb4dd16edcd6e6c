package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"
)

// RunnerConfig describes a multi-step command
type RunnerConfig struct {
	Title   string  // e.g., "Connectivity Check"
	Command string  // e.g., "fluxvision check"
	Params  []Param // shown in the header
	Steps   []string
	Output  io.Writer // default: os.Stdout

	// Explain converts a failure into the message and troubleshooting hint
	// shown in the result box. Defaults to err.Error() with no hint.
	Explain func(err error) (message, hint string)
}

// Operation is the work a Runner executes. It reports progress through
// onStep and returns the details for the success box.
type Operation func(ctx context.Context, onStep StepCallback) ([]Param, error)

// Runner orchestrates header, step progress and result output for a command
type Runner struct {
	config   RunnerConfig
	progress *Progress
	out      io.Writer
	width    int
}

// NewRunner creates a runner for the given command
func NewRunner(config RunnerConfig) *Runner {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	if config.Explain == nil {
		config.Explain = func(err error) (string, string) { return err.Error(), "" }
	}
	return &Runner{
		config:   config,
		progress: NewProgress(config.Steps...),
		out:      config.Output,
		width:    GetTerminalWidth(),
	}
}

// SetWidth overrides the terminal width
func (r *Runner) SetWidth(width int) *Runner {
	r.width = width
	return r
}

// Run prints the header, executes op and prints its result. The error from
// op is returned unchanged.
func (r *Runner) Run(ctx context.Context, op Operation) error {
	start := time.Now()

	header := NewHeader(r.config.Title, r.config.Command, r.config.Params...).SetWidth(r.width)
	_, _ = fmt.Fprintln(r.out, header.Render())
	_, _ = fmt.Fprintln(r.out)

	details, err := op(ctx, r.onStep)
	duration := time.Since(start).Round(time.Millisecond)

	_, _ = fmt.Fprintln(r.out)
	if len(r.progress.Steps) > 0 {
		_, _ = fmt.Fprintln(r.out, r.progress.RenderBar())
		_, _ = fmt.Fprintln(r.out)
	}

	if err != nil {
		message, hint := r.config.Explain(err)
		result := NewFailureResult(r.config.Title+" failed", message, hint).SetWidth(r.width)
		_, _ = fmt.Fprintln(r.out, result.Render())
		return err
	}

	details = append(details, Param{Key: "Duration", Value: duration.String()})
	result := NewSuccessResult(r.config.Title+" complete", details...).SetWidth(r.width)
	_, _ = fmt.Fprintln(r.out, result.Render())
	return nil
}

func (r *Runner) onStep(stepNumber int, status StepStatus, message string) {
	if stepNumber < 1 || stepNumber > len(r.progress.Steps) {
		return
	}
	r.progress.UpdateStep(stepNumber, status, message)

	line := r.progress.RenderStep(r.progress.Steps[stepNumber-1])
	switch status {
	case StepRunning:
		// overwritten when the step finishes
		_, _ = fmt.Fprint(r.out, line+"\r")
	case StepPending:
	default:
		_, _ = fmt.Fprintln(r.out, line)
	}
}
