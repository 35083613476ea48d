// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package runner starts an external tool, pumps its output through a parser
// into a progress.Tracker, and maps the way the process ends to the tracker's
// terminal state:
//
//   - success exit code: Complete
//   - other exit code, start failure or read error: Fail, with the last output line
//   - context cancellation: Cancel
package runner
