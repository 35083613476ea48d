// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package pipeline connects a tracker to the configured output: the
// throttle gate, the async hand-off and a text, JSON or interactive renderer.
package pipeline
