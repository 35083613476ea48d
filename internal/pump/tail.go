// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package pump

import (
	"strings"
	"sync"
	"unicode/utf8"
)

// Tail keeps the last lines seen on a stream.
// It is safe for concurrent use.
type Tail struct {
	mu    sync.RWMutex
	lines []string
	next  int
	full  bool
}

// NewTail returns a Tail holding up to size lines. A size below one is treated as one.
func NewTail(size int) *Tail {
	return &Tail{lines: make([]string, max(size, 1))}
}

// Add records line, evicting the oldest line when full.
func (t *Tail) Add(line string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.lines[t.next] = line
	t.next = (t.next + 1) % len(t.lines)

	if t.next == 0 {
		t.full = true
	}
}

// Lines returns the retained lines, oldest first.
func (t *Tail) Lines() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if !t.full {
		return append([]string(nil), t.lines[:t.next]...)
	}

	out := make([]string, 0, len(t.lines))
	out = append(out, t.lines[t.next:]...)

	return append(out, t.lines[:t.next]...)
}

// Last returns the most recent line, or "" if none was added.
// If maxLength > 3 and the line has more runes than that, it is cut on a rune
// boundary and ends in "...".
func (t *Tail) Last(maxLength int) string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if !t.full && t.next == 0 {
		return ""
	}

	last := t.lines[(t.next-1+len(t.lines))%len(t.lines)]
	last = strings.TrimSpace(last)

	if maxLength > 3 && utf8.RuneCountInString(last) > maxLength {
		return string([]rune(last)[:maxLength-3]) + "..."
	}

	return last
}

// String joins the retained lines with newlines.
func (t *Tail) String() string {
	return strings.Join(t.Lines(), "\n")
}
