// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package pump

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/matt-FFFFFF/opwatch/internal/progress"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountingReader(t *testing.T) {
	var reports []int64
	r := NewCountingReader(iotest.HalfReader(strings.NewReader("0123456789")), func(n int64) {
		reports = append(reports, n)
	})

	b, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "0123456789", string(b))
	assert.Equal(t, int64(10), r.Count())
	require.NotEmpty(t, reports)
	assert.Equal(t, int64(10), reports[len(reports)-1])
	assert.IsIncreasing(t, reports)
}

func TestCountingWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewCountingWriter(&buf, nil)

	_, err := io.WriteString(w, "hello ")
	require.NoError(t, err)
	_, err = io.WriteString(w, "world")
	require.NoError(t, err)

	assert.Equal(t, int64(11), w.Count())
	assert.Equal(t, "hello world", buf.String())
}

func TestTrackBytes(t *testing.T) {
	tr := progress.NewTracker(context.Background(), progress.OperationUpload, progress.WithTotal(10))
	r := NewCountingReader(strings.NewReader("0123456789"), TrackBytes(tr))

	_, err := io.Copy(io.Discard, r)
	require.NoError(t, err)

	s := tr.Snapshot()
	assert.Equal(t, progress.StatusInProgress, s.Status)
	assert.InDelta(t, 100.0, s.PercentageOr(0), 1e-9)
}
