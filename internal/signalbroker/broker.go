// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package signalbroker maps shutdown signals onto the life of one command.
// The first signal cancels the running operation so it can end as
// Cancelled; a second one forces the process to exit.
package signalbroker

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/matt-FFFFFF/opwatch/internal/ctxlog"
)

// shutdownSignals is used when Listen is given no signals. os.Interrupt is
// SIGINT on Unix and Ctrl+C on Windows.
var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT}

// Broker relays shutdown signals until it is stopped.
type Broker struct {
	signals chan os.Signal
	once    sync.Once
	notify  bool
}

// Listen subscribes a new Broker to sigs.
func Listen(ctx context.Context, sigs ...os.Signal) *Broker {
	if len(sigs) == 0 {
		sigs = shutdownSignals
	}

	b := newBroker(make(chan os.Signal, 1))
	b.notify = true

	ctxlog.Debug(ctx, "listening for shutdown signals", "signals", sigs)
	signal.Notify(b.signals, sigs...)

	return b
}

func newBroker(ch chan os.Signal) *Broker {
	return &Broker{signals: ch}
}

// Run blocks until the broker is stopped or a second signal arrives.
// The first signal calls cancel and the second calls force, if set.
func (b *Broker) Run(ctx context.Context, cancel context.CancelFunc, force func()) {
	var first os.Signal

	for sig := range b.signals {
		if first == nil {
			first = sig

			ctxlog.Warn(ctx, "signal received, cancelling; send it again to exit now", "signal", sig.String())
			cancel()

			continue
		}

		ctxlog.Warn(ctx, "second signal received, forcing exit", "signal", sig.String(), "first", first.String())

		if force != nil {
			force()
		}

		return
	}
}

// Stop unsubscribes the broker and ends Run. It is safe to call more than once.
func (b *Broker) Stop() {
	b.once.Do(func() {
		if b.notify {
			signal.Stop(b.signals)
		}

		close(b.signals)
	})
}
