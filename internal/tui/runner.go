// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package tui

import (
	"context"
	"errors"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/matt-FFFFFF/opwatch/internal/progress"
)

// Runner manages the TUI application and its progress integration.
type Runner struct {
	model    *Model
	program  *tea.Program
	reporter *Reporter
	mutex    sync.Mutex
}

// Reporter is a progress.Observer that forwards snapshots to the TUI.
// Observe blocks until the program accepts the message, so wrap it in
// progress.NewAsync when the producer must not wait for the terminal.
type Reporter struct {
	program *tea.Program
	closed  bool
	mutex   sync.RWMutex
}

var _ progress.Observer = (*Reporter)(nil)

// NewReporter creates a Reporter for program.
func NewReporter(program *tea.Program) *Reporter {
	return &Reporter{
		program: program,
	}
}

// Observe implements progress.Observer.
func (r *Reporter) Observe(s progress.Snapshot) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	if r.closed || r.program == nil {
		return
	}

	r.program.Send(SnapshotMsg{Snapshot: s})
}

// Close stops forwarding.
func (r *Reporter) Close() {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.closed = true
}

// NewRunner creates a TUI runner. Options are passed to tea.NewProgram.
func NewRunner(opts ...tea.ProgramOption) *Runner {
	model := NewModel()
	program := tea.NewProgram(model, opts...)

	return &Runner{
		model:    model,
		program:  program,
		reporter: NewReporter(program),
	}
}

// Observer returns the observer that feeds this TUI.
func (r *Runner) Observer() progress.Observer {
	return r.reporter
}

// Model returns the TUI model, e.g. to read the final snapshots after Run.
func (r *Runner) Model() *Model {
	return r.model
}

// Run shows the TUI while work runs. Quitting the TUI cancels the context
// passed to work; Run always waits for work to return.
func (r *Runner) Run(ctx context.Context, work func(ctx context.Context) error) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	workDone := make(chan error, 1)

	go func() {
		err := work(ctx)
		workDone <- err

		r.program.Send(WorkDoneMsg{Err: err})
	}()

	_, tuiErr := r.program.Run()

	r.reporter.Close()
	cancel()

	workErr := <-workDone

	return errors.Join(workErr, tuiErr)
}
