// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package render formats progress snapshots for people.
//
// Text renders a status block with a unicode progress bar, sizes, speed and
// ETA. Writer and JSON are observers that write each snapshot they receive
// to an io.Writer, as text or as colourised JSON.
package render
