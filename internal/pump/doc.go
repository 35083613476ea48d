// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package pump drains line-oriented output on a dedicated goroutine.
//
// Progress tools redraw their status line with a carriage return, so lines
// are terminated by either '\r' or '\n'. Empty lines are skipped.
// The package also provides a Tail of the most recent lines, used for
// failure messages, and byte counting readers and writers for operations
// that report raw byte totals instead of text.
package pump
