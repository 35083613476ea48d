// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/matt-FFFFFF/opwatch/internal/ctxlog"
	"github.com/matt-FFFFFF/opwatch/internal/parser"
	"github.com/matt-FFFFFF/opwatch/internal/progress"
	"github.com/matt-FFFFFF/opwatch/internal/pump"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultGracePeriod is how long a cancelled process has to exit after
	// being interrupted before it is killed.
	DefaultGracePeriod = 5 * time.Second
	// DefaultDrainTimeout bounds how long output is read after the process
	// exits, in case a grandchild still holds the pipes open.
	DefaultDrainTimeout = 2 * time.Second
	// DefaultTailLines is the number of output lines kept for failure messages.
	DefaultTailLines = 5

	maxErrorLineLength = 200
)

var (
	// ErrCouldNotStartProcess is returned when the process could not be started.
	ErrCouldNotStartProcess = errors.New("could not start process")
	// ErrFailedToCreatePipe is returned when the operating system pipe could not be created.
	ErrFailedToCreatePipe = errors.New("failed to create pipe")
	// ErrProcessFailed is returned when the process exits with an unexpected code.
	ErrProcessFailed = errors.New("process failed")
	// ErrFailedToReadOutput is returned when the process output could not be read.
	ErrFailedToReadOutput = errors.New("failed to read process output")
	// ErrCancelled is returned when the context was cancelled before the process finished.
	ErrCancelled = errors.New("operation cancelled")
)

// Command is an external tool whose output reports progress.
type Command struct {
	Path             string            // Executable name or path. Bare names are looked up in PATH.
	Args             []string          // Arguments, not including the executable.
	Env              map[string]string // Added to the current environment.
	Dir              string            // Working directory, defaults to the current one.
	Format           string            // Output format, see parser.Lookup.
	SuccessExitCodes []int             // Defaults to 0.
	GracePeriod      time.Duration     // Defaults to DefaultGracePeriod.
	DrainTimeout     time.Duration     // Defaults to DefaultDrainTimeout.
	TailLines        int               // Defaults to DefaultTailLines.
	Echo             io.Writer         // Receives output lines that carry no progress. Optional.
}

// Parser returns the parser for the command's output format.
func (c *Command) Parser() (parser.LineParser, error) {
	return parser.Lookup(c.Format) //nolint:wrapcheck
}

// Run starts the process and blocks until it has finished and its output has
// been drained. The tracker always ends in a terminal state and the returned
// error matches it: nil for Completed, ErrCancelled for Cancelled.
func (c *Command) Run(ctx context.Context, tracker *progress.Tracker) error {
	ctx = ctxlog.With(ctx, "command", filepath.Base(c.Path))

	p, err := c.Parser()
	if err != nil {
		tracker.Fail(err)
		return err
	}

	if ctx.Err() != nil {
		tracker.Cancel()
		return errors.Join(ErrCancelled, ctx.Err())
	}

	path, err := exec.LookPath(c.Path)
	if err != nil {
		return c.fail(tracker, errors.Join(ErrCouldNotStartProcess, err))
	}

	rOut, wOut, err := os.Pipe()
	if err != nil {
		return c.fail(tracker, errors.Join(ErrFailedToCreatePipe, err))
	}

	rErr, wErr, err := os.Pipe()
	if err != nil {
		closeAll(rOut, wOut)
		return c.fail(tracker, errors.Join(ErrFailedToCreatePipe, err))
	}

	stdin, err := os.Open(os.DevNull)
	if err != nil {
		closeAll(rOut, wOut, rErr, wErr)
		return c.fail(tracker, errors.Join(ErrCouldNotStartProcess, err))
	}

	ctxlog.Debug(ctx, "starting process", "path", path, "args", c.Args, "cwd", c.Dir)

	ps, err := os.StartProcess(path, slices.Concat([]string{filepath.Base(path)}, c.Args), &os.ProcAttr{
		Dir:   c.Dir,
		Env:   c.environ(),
		Files: []*os.File{stdin, wOut, wErr},
	})

	// The child holds its own copies. Closing ours lets the readers see EOF.
	closeAll(stdin, wOut, wErr)

	if err != nil {
		closeAll(rOut, rErr)
		return c.fail(tracker, errors.Join(ErrCouldNotStartProcess, err))
	}

	ctxlog.Debug(ctx, "process started", "pid", ps.Pid)
	tracker.Start()

	tail := pump.NewTail(cmpPositive(c.TailLines, DefaultTailLines))
	feeder := parser.NewFeeder(p, tracker)

	var echoMu sync.Mutex

	handle := func(line string) {
		tail.Add(line)

		if !feeder.Feed(line) && c.Echo != nil {
			echoMu.Lock()
			fmt.Fprintln(c.Echo, line) //nolint:errcheck
			echoMu.Unlock()
		}
	}

	// Output is drained even after cancellation so the final lines reach the
	// tail and Echo. The tracker is already Cancelled by then and ignores them.
	g, gctx := errgroup.WithContext(context.WithoutCancel(ctx))
	g.Go(func() error { return pump.Run(gctx, rOut, handle) })
	g.Go(func() error { return pump.Run(gctx, rErr, handle) })

	done := make(chan struct{})
	stopped := make(chan error, 1)

	go c.watchdog(ctx, ps, tracker, done, stopped)

	state, waitErr := ps.Wait()
	close(done)

	drain := time.AfterFunc(cmpPositive(c.DrainTimeout, DefaultDrainTimeout), func() {
		ctxlog.Debug(ctx, "output still open after process exit, closing")
		closeAll(rOut, rErr)
	})
	readErr := g.Wait()

	drain.Stop()
	closeAll(rOut, rErr)

	if errors.Is(readErr, os.ErrClosed) {
		readErr = nil
	}

	exitCode := -1
	if state != nil {
		exitCode = state.ExitCode()
	}

	ctxlog.Debug(ctx, "process finished",
		"exitCode", exitCode,
		"lines", feeder.Lines(),
		"progressLines", feeder.Matched(),
	)

	var stopErr error

	select {
	case stopErr = <-stopped:
	default:
	}

	successCodes := c.SuccessExitCodes
	if len(successCodes) == 0 {
		successCodes = []int{0}
	}

	switch {
	case stopErr != nil:
		tracker.Cancel()
		return errors.Join(ErrCancelled, stopErr)
	case waitErr != nil:
		return c.fail(tracker, errors.Join(ErrProcessFailed, waitErr))
	case readErr != nil:
		// A failed read closes the pipes, so a non-zero exit code is usually a
		// consequence of it and not the cause.
		err := errors.Join(ErrFailedToReadOutput, readErr)
		if !slices.Contains(successCodes, exitCode) {
			err = fmt.Errorf("%w (exit code %d)", err, exitCode)
		}

		return c.fail(tracker, err)
	case !slices.Contains(successCodes, exitCode):
		err := fmt.Errorf("%w: exit code %d", ErrProcessFailed, exitCode)
		if last := tail.Last(maxErrorLineLength); last != "" {
			err = fmt.Errorf("%w: %s", err, last)
		}

		return c.fail(tracker, err)
	}

	tracker.Complete("")

	return nil
}

// watchdog cancels the tracker and interrupts the process when ctx is
// cancelled, then kills it if it has not exited once the grace period is
// over. The reason for stopping the process is sent on stopped.
func (c *Command) watchdog(
	ctx context.Context, ps *os.Process, tracker *progress.Tracker, done <-chan struct{}, stopped chan<- error,
) {
	cancelled := ctx.Done()

	var grace <-chan time.Time

	for {
		select {
		case <-done:
			return

		case <-cancelled:
			cancelled = nil
			stopped <- context.Cause(ctx)

			tracker.Cancel()
			ctxlog.Info(ctx, "context done, interrupting process", "pid", ps.Pid)

			if err := ps.Signal(os.Interrupt); err != nil {
				ctxlog.Debug(ctx, "interrupt failed, killing process", "error", err)
				killPs(ctx, ps)

				return
			}

			grace = time.After(cmpPositive(c.GracePeriod, DefaultGracePeriod))

		case <-grace:
			ctxlog.Warn(ctx, "process did not exit after interrupt, killing", "pid", ps.Pid)
			killPs(ctx, ps)

			return
		}
	}
}

func (c *Command) fail(tracker *progress.Tracker, err error) error {
	tracker.Fail(err)
	return err
}

func (c *Command) environ() []string {
	env := os.Environ()
	for k, v := range c.Env {
		env = append(env, k+"="+v)
	}

	return env
}

func killPs(ctx context.Context, ps *os.Process) {
	if err := ps.Kill(); err != nil {
		if errors.Is(err, os.ErrProcessDone) {
			ctxlog.Debug(ctx, "process already done", "pid", ps.Pid)
			return
		}

		ctxlog.Error(ctx, "process kill error", "pid", ps.Pid, "error", err)

		return
	}

	ctxlog.Info(ctx, "process killed", "pid", ps.Pid)
}

func closeAll(files ...*os.File) {
	for _, f := range files {
		_ = f.Close()
	}
}

func cmpPositive[T int | time.Duration](v, def T) T {
	if v > 0 {
		return v
	}

	return def
}
