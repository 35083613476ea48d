// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEstimator_InvalidAlpha(t *testing.T) {
	for _, alpha := range []float64{0, -1, 1.5} {
		assert.InDelta(t, DefaultSmoothing, NewEstimator(alpha).Alpha(), 1e-12)
	}

	assert.InDelta(t, 1.0, NewEstimator(1).Alpha(), 1e-12)
}

func TestEstimator_FirstSampleIsTakenAsIs(t *testing.T) {
	e := NewEstimator(0.3)

	_, ok := e.Value()
	assert.False(t, ok)

	assert.InDelta(t, 100.0, e.Add(100), 1e-9)

	v, ok := e.Value()
	require.True(t, ok)
	assert.InDelta(t, 100.0, v, 1e-9)
}

func TestEstimator_Weighting(t *testing.T) {
	e := NewEstimator(0.3)
	e.Add(100)
	assert.InDelta(t, 130.0, e.Add(200), 1e-9)
	assert.InDelta(t, 91.0, e.Add(0), 1e-9)
}

func TestEstimator_ConvergesToConstantRate(t *testing.T) {
	e := NewEstimator(DefaultSmoothing)
	e.Add(1000)

	for range 50 {
		e.Add(50)
	}

	v, _ := e.Value()
	assert.InDelta(t, 50.0, v, 0.01)
}
