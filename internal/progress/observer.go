// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package progress

// Observer receives snapshots from a Tracker.
// Observe is called synchronously on the goroutine that produced the update,
// so it should return quickly. Wrap slow observers with NewAsync.
type Observer interface {
	Observe(s Snapshot)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(s Snapshot)

// Observe implements Observer.
func (f ObserverFunc) Observe(s Snapshot) {
	f(s)
}

// NullObserver discards every snapshot.
type NullObserver struct{}

// Observe implements Observer by doing nothing.
func (NullObserver) Observe(Snapshot) {}
