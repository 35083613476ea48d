// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package ctxlog carries a *slog.Logger through a context.Context.
//
// Trackers, gates and pumps log through the logger found in the context they
// were created with, so a caller can tag every line belonging to one tracked
// operation by attaching attributes once with With.
//
// The default logger writes to stderr through PrettyHandler. The level is read
// from the OPWATCH_LOG_LEVEL environment variable and defaults to WARN.
package ctxlog
