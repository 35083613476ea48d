// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package progress turns raw progress facts about one long-running operation
// into a stream of immutable Snapshots delivered to registered Observers.
//
// A Tracker is owned by the code running the operation. It accepts updates
// from any goroutine, derives percentage, a smoothed speed and an ETA, and
// calls every Observer synchronously in registration order. An Observer that
// panics is logged and skipped; the others still receive the snapshot.
//
// Every tracker ends in exactly one terminal state (Completed, Failed or
// Cancelled). The terminal snapshot is the last one any observer sees.
package progress
