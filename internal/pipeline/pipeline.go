// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package pipeline

import (
	"bytes"
	"context"
	"errors"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/matt-FFFFFF/opwatch/internal/config"
	"github.com/matt-FFFFFF/opwatch/internal/ctxlog"
	"github.com/matt-FFFFFF/opwatch/internal/progress"
	"github.com/matt-FFFFFF/opwatch/internal/render"
	"github.com/matt-FFFFFF/opwatch/internal/throttle"
	"github.com/matt-FFFFFF/opwatch/internal/tui"
)

// tuiInterval bounds how often the interactive view receives snapshots.
const tuiInterval = 100 * time.Millisecond

// Work performs the tracked operation. It should leave t terminal; if it
// does not, Run finishes the tracker from the returned error.
type Work func(ctx context.Context, t *progress.Tracker) error

// Options describe one tracked operation and where its progress goes.
type Options struct {
	Config    config.Config
	Operation progress.Operation
	// Total is the expected amount of work. Zero means unknown.
	Total float64
	// Out receives the rendered progress.
	Out io.Writer
	// Log receives log records held back while the TUI owns the terminal.
	Log io.Writer
	// Colour enables ANSI colours in JSON output.
	Colour bool
	// ProgramOptions are passed to the TUI program.
	ProgramOptions []tea.ProgramOption
	// TrackerOptions are appended to the options Run derives from Config.
	TrackerOptions []progress.Option
}

// Run creates the tracker, wires it to the output selected by
// o.Config.Output and runs work. It returns the final snapshot and the
// error from work.
func Run(ctx context.Context, o Options, work Work) (progress.Snapshot, error) {
	if o.Out == nil {
		o.Out = io.Discard
	}

	if o.Config.Output == config.OutputTUI {
		return runTUI(ctx, o, work)
	}

	var sink progress.Observer = render.NewWriter(o.Out, o.Config.BarLength)
	if o.Config.Output == config.OutputJSON {
		sink = render.NewJSON(o.Out, o.Colour)
	}

	gate := throttle.New(ctx, sink, o.Config.ThrottleInterval)
	t := newTracker(ctx, o, gate)

	err := work(ctx, t)
	finish(t, err)

	ctxlog.Debug(ctx, "delivery finished",
		"delivered", gate.Delivered(),
		"dropped", gate.Dropped(),
		"failed", gate.Failed(),
	)

	return t.Snapshot(), err
}

func runTUI(ctx context.Context, o Options, work Work) (progress.Snapshot, error) {
	buf := new(bytes.Buffer)
	ctx = ctxlog.Redirect(ctx, buf)

	runner := tui.NewRunner(append([]tea.ProgramOption{tea.WithOutput(o.Out)}, o.ProgramOptions...)...)

	async := progress.NewAsync(ctx, runner.Observer(), progress.DefaultAsyncBuffer)
	gate := throttle.New(ctx, async, tuiInterval)
	t := newTracker(ctx, o, gate)

	err := runner.Run(ctx, func(ctx context.Context) error {
		err := work(ctx, t)
		finish(t, err)
		async.Close()

		return err
	})

	if o.Log != nil {
		buf.WriteTo(o.Log) //nolint:errcheck
	}

	return t.Snapshot(), err
}

func newTracker(ctx context.Context, o Options, gate *throttle.Gate) *progress.Tracker {
	opts := []progress.Option{
		progress.WithSmoothing(o.Config.SmoothingWeight),
		progress.WithObservers(gate),
	}

	if o.Total > 0 {
		opts = append(opts, progress.WithTotal(o.Total))
	}

	return progress.NewTracker(ctx, o.Operation, append(opts, o.TrackerOptions...)...)
}

// finish moves t to the terminal state matching err. It is a no-op when
// work already did so.
func finish(t *progress.Tracker, err error) {
	switch {
	case err == nil:
		t.Complete("")
	case errors.Is(err, context.Canceled):
		t.Cancel()
	default:
		t.Fail(err)
	}
}
