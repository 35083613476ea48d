// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package throttle limits how often snapshots reach a slow observer,
// such as a chat message that is edited in place.
//
// A Gate forwards the first snapshot, then at most one snapshot per interval.
// Terminal snapshots are always forwarded, so the final state is never lost.
package throttle
