// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package tui provides a real-time Terminal User Interface (TUI) for watching
// tracked operations. Each operation gets a row with its status, an animated
// progress bar and a digest of size, speed and ETA.
//
// Snapshots reach the TUI through a Reporter, which is a progress.Observer
// that forwards to the bubbletea program.
package tui
