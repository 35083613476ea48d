// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package parser

import (
	"sync/atomic"

	"github.com/matt-FFFFFF/opwatch/internal/progress"
)

// Feeder applies the facts parsed from each line to a tracker.
// It is safe to feed lines from several goroutines, e.g. stdout and stderr.
type Feeder struct {
	parser  LineParser
	tracker *progress.Tracker
	lines   atomic.Int64
	matched atomic.Int64
}

// NewFeeder binds p to t.
func NewFeeder(p LineParser, t *progress.Tracker) *Feeder {
	return &Feeder{parser: p, tracker: t}
}

// Feed parses line and updates the tracker. It reports whether the line
// carried progress, whether or not the tracker accepted it: a terminal
// tracker ignores updates but the line is still progress output.
// A header duration is ignored when the tracker already knows its total,
// so a duration supplied by the caller takes precedence.
func (f *Feeder) Feed(line string) bool {
	f.lines.Add(1)

	fact, ok := f.parser.Parse(line)
	if !ok {
		return false
	}

	if _, isDuration := fact.(DurationFact); isDuration && f.tracker.Snapshot().Total != nil {
		return true
	}

	var u progress.Update
	if sf, ok := fact.(snapshotFact); ok {
		u = sf.UpdateFrom(f.tracker.Snapshot())
	} else {
		u = fact.Update()
	}

	if f.tracker.Update(u) {
		f.matched.Add(1)
	}

	return true
}

// Lines is the number of lines fed so far.
func (f *Feeder) Lines() int64 {
	return f.lines.Load()
}

// Matched is the number of lines that updated the tracker.
func (f *Feeder) Matched() int64 {
	return f.matched.Load()
}
