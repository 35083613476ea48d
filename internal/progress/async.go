// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package progress

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/matt-FFFFFF/opwatch/internal/ctxlog"
)

// DefaultAsyncBuffer is the queue size used when NewAsync is given a size below one.
const DefaultAsyncBuffer = 16

// Async is an Observer that hands snapshots to another observer on its own
// goroutine. It keeps production order. Intermediate snapshots are dropped
// while the queue is full; terminal snapshots are always queued.
type Async struct {
	ctx     context.Context
	next    Observer
	ch      chan Snapshot
	done    chan struct{}
	mu      sync.RWMutex
	closed  bool
	once    sync.Once
	dropped atomic.Int64
}

var _ Observer = (*Async)(nil)

// NewAsync starts the forwarding goroutine. Call Close to stop it.
func NewAsync(ctx context.Context, next Observer, bufferSize int) *Async {
	if bufferSize < 1 {
		bufferSize = DefaultAsyncBuffer
	}

	if next == nil {
		next = NullObserver{}
	}

	a := &Async{
		ctx:  ctx,
		next: next,
		ch:   make(chan Snapshot, bufferSize),
		done: make(chan struct{}),
	}

	go a.run()

	return a
}

// Observe implements Observer. Snapshots received after Close are discarded.
func (a *Async) Observe(s Snapshot) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.closed {
		return
	}

	if s.Status.IsTerminal() {
		a.ch <- s
		return
	}

	select {
	case a.ch <- s:
	default:
		a.dropped.Add(1)
		ctxlog.Debug(a.ctx, "async queue full, dropping snapshot", "status", s.Status.String())
	}
}

// Dropped returns the number of intermediate snapshots discarded because the
// queue was full.
func (a *Async) Dropped() int64 {
	return a.dropped.Load()
}

// Close stops accepting snapshots and waits until the queued ones have been
// forwarded. It is safe to call more than once.
func (a *Async) Close() {
	a.once.Do(func() {
		a.mu.Lock()
		a.closed = true
		close(a.ch)
		a.mu.Unlock()
	})

	<-a.done
}

func (a *Async) run() {
	defer close(a.done)

	for s := range a.ch {
		safeObserve(a.ctx, 0, a.next, s)
	}
}
