// Package proc spawns external programs for the shell and keeps the running
// total of time spent in them.
package proc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"
)

var (
	// ErrInvalidCommand is returned when the program can't be found or
	// started.
	ErrInvalidCommand = errors.New("invalid command")

	// ErrInterrupted is returned when the wait for a program was cut short.
	ErrInterrupted = errors.New("command forcefully exited")
)

// TimeSource returns the current time.
type TimeSource func() time.Time

// Request describes one program invocation.
type Request struct {
	// Argv holds the program name followed by its arguments.
	Argv []string
	// Dir is the working directory of the child.
	Dir string
	// Env holds KEY=value pairs for the child, nil inherits the shell's.
	Env []string

	// Streams the child inherits when it isn't on that end of a pipe.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// PipeSource captures the child's output instead of inheriting it.
	PipeSource bool
	// PipeSink feeds PipeInput to the child instead of inheriting input.
	PipeSink  bool
	PipeInput string
}

// Result is the outcome of a program that was started.
type Result struct {
	// Output holds what the child wrote when Request.PipeSource was set.
	Output   string
	ExitCode int
	Elapsed  time.Duration
}

// Runner starts programs one at a time and totals the wall time they take.
type Runner struct {
	now   TimeSource
	total time.Duration
}

// NewRunner creates a runner. A nil now uses time.Now.
func NewRunner(now TimeSource) *Runner {
	if now == nil {
		now = time.Now
	}
	return &Runner{now: now}
}

// Total returns the time spent in children so far.
func (r *Runner) Total() time.Duration {
	return r.total
}

// Run starts the program and blocks until it exits or ctx is done. Time is
// added to the total for every program that started, whatever its exit
// status, unless the wait was interrupted.
func (r *Runner) Run(ctx context.Context, req Request) (*Result, error) {
	if len(req.Argv) == 0 {
		return nil, fmt.Errorf("%w: empty command", ErrInvalidCommand)
	}

	cmd := exec.CommandContext(ctx, req.Argv[0], req.Argv[1:]...)
	cmd.Dir = req.Dir
	cmd.Env = req.Env
	cmd.Stderr = req.Stderr

	var captured bytes.Buffer
	if req.PipeSource {
		cmd.Stdout = &captured
	} else {
		cmd.Stdout = req.Stdout
	}

	if req.PipeSink {
		cmd.Stdin = strings.NewReader(req.PipeInput)
	} else {
		cmd.Stdin = req.Stdin
	}

	start := r.now()
	if err := cmd.Start(); err != nil {
		if ctx.Err() != nil {
			return nil, ErrInterrupted
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidCommand, strings.Join(req.Argv, " "), err)
	}

	waitErr := cmd.Wait()
	if ctx.Err() != nil {
		return nil, ErrInterrupted
	}

	result := &Result{
		Elapsed: r.now().Sub(start),
	}
	if result.Elapsed < 0 {
		result.Elapsed = 0
	}
	r.total += result.Elapsed

	var exitErr *exec.ExitError
	switch {
	case waitErr == nil:
	case errors.As(waitErr, &exitErr):
		result.ExitCode = exitErr.ExitCode()
	default:
		// Copying the streams failed, the child still ran.
		result.ExitCode = -1
	}

	if req.PipeSource {
		result.Output = captured.String()
	}

	return result, nil
}
