// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package parser turns single lines of tool output into progress facts.
//
// Every parse function is pure: it takes one line and returns a fact and true,
// or false when the line carries no progress. Lines that look like progress but
// contain a malformed number are treated the same as unrelated lines.
// A Feeder binds a LineParser to a progress.Tracker.
package parser
