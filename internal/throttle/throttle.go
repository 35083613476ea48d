// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package throttle

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/matt-FFFFFF/opwatch/internal/ctxlog"
	"github.com/matt-FFFFFF/opwatch/internal/progress"
)

// DefaultInterval is the minimum time between two forwarded snapshots.
const DefaultInterval = 5 * time.Second

// Gate is a progress.Observer that forwards to next at most once per interval.
type Gate struct {
	ctx      context.Context
	next     progress.Observer
	interval time.Duration
	now      func() time.Time

	mu       sync.Mutex
	last     time.Time
	sent     bool
	finished bool

	delivered atomic.Int64
	dropped   atomic.Int64
	failed    atomic.Int64
}

var _ progress.Observer = (*Gate)(nil)

// Option configures a Gate.
type Option func(g *Gate)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(g *Gate) {
		g.now = now
	}
}

// New wraps next. A non-positive interval means DefaultInterval.
func New(ctx context.Context, next progress.Observer, interval time.Duration, opts ...Option) *Gate {
	if interval <= 0 {
		interval = DefaultInterval
	}

	g := &Gate{
		ctx:      ctx,
		next:     next,
		interval: interval,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Observe implements progress.Observer.
// Snapshots arriving after a terminal one are dropped.
func (g *Gate) Observe(s progress.Snapshot) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.finished {
		g.dropped.Add(1)
		return
	}

	now := g.now()
	terminal := s.Status.IsTerminal()

	if !terminal && g.sent && now.Sub(g.last) < g.interval {
		g.dropped.Add(1)
		return
	}

	g.sent = true
	g.last = now
	g.finished = terminal

	g.forward(s)
}

// Interval returns the minimum time between forwarded snapshots.
func (g *Gate) Interval() time.Duration {
	return g.interval
}

// Delivered is the number of snapshots handed to the next observer.
func (g *Gate) Delivered() int64 {
	return g.delivered.Load()
}

// Dropped is the number of snapshots suppressed by the gate.
func (g *Gate) Dropped() int64 {
	return g.dropped.Load()
}

// Failed is the number of forwarded snapshots whose delivery panicked or
// returned an error.
func (g *Gate) Failed() int64 {
	return g.failed.Load()
}

func (g *Gate) forward(s progress.Snapshot) {
	g.delivered.Add(1)

	defer func() {
		if r := recover(); r != nil {
			g.failed.Add(1)
			ctxlog.Error(g.ctx, "progress delivery failed",
				"status", s.Status.String(),
				"panic", fmt.Sprint(r),
			)
		}
	}()

	if d, ok := g.next.(Deliverer); ok {
		if err := d.Deliver(s); err != nil {
			g.failed.Add(1)
			ctxlog.Warn(g.ctx, "progress delivery failed",
				"status", s.Status.String(),
				"error", err,
			)
		}

		return
	}

	g.next.Observe(s)
}
