// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package pump

import (
	"io"
	"sync/atomic"

	"github.com/matt-FFFFFF/opwatch/internal/progress"
)

// ReportFunc receives the running byte total after each read or write.
type ReportFunc func(total int64)

// CountingReader counts the bytes read through it.
type CountingReader struct {
	r      io.Reader
	n      atomic.Int64
	report ReportFunc
}

// NewCountingReader wraps r. report may be nil.
func NewCountingReader(r io.Reader, report ReportFunc) *CountingReader {
	return &CountingReader{r: r, report: report}
}

// Read implements io.Reader.
func (c *CountingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if n > 0 {
		total := c.n.Add(int64(n))
		if c.report != nil {
			c.report(total)
		}
	}

	return n, err //nolint:wrapcheck
}

// Count is the number of bytes read so far.
func (c *CountingReader) Count() int64 {
	return c.n.Load()
}

// CountingWriter counts the bytes written through it.
type CountingWriter struct {
	w      io.Writer
	n      atomic.Int64
	report ReportFunc
}

// NewCountingWriter wraps w. report may be nil.
func NewCountingWriter(w io.Writer, report ReportFunc) *CountingWriter {
	return &CountingWriter{w: w, report: report}
}

// Write implements io.Writer.
func (c *CountingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	if n > 0 {
		total := c.n.Add(int64(n))
		if c.report != nil {
			c.report(total)
		}
	}

	return n, err //nolint:wrapcheck
}

// Count is the number of bytes written so far.
func (c *CountingWriter) Count() int64 {
	return c.n.Load()
}

// TrackBytes returns a ReportFunc that moves t's current counter to the byte total.
func TrackBytes(t *progress.Tracker) ReportFunc {
	return func(total int64) {
		t.Update(progress.Counter(float64(total)))
	}
}
