// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package progress

// DefaultSmoothing is the weight given to the newest rate sample.
const DefaultSmoothing = 0.3

// Estimator is an exponentially weighted moving average of rate samples.
// The first sample is taken as-is. It is not safe for concurrent use;
// the Tracker guards it with its own lock.
type Estimator struct {
	alpha  float64
	value  float64
	primed bool
}

// NewEstimator returns an Estimator with weight alpha for the newest sample.
// Values outside (0, 1] fall back to DefaultSmoothing.
func NewEstimator(alpha float64) *Estimator {
	if alpha <= 0 || alpha > 1 {
		alpha = DefaultSmoothing
	}

	return &Estimator{alpha: alpha}
}

// Add folds a sample into the average and returns the new value.
func (e *Estimator) Add(sample float64) float64 {
	if !e.primed {
		e.value = sample
		e.primed = true

		return e.value
	}

	e.value = e.alpha*sample + (1-e.alpha)*e.value

	return e.value
}

// Value returns the current average and whether any sample was added.
func (e *Estimator) Value() (float64, bool) {
	return e.value, e.primed
}

// Alpha returns the smoothing weight in use.
func (e *Estimator) Alpha() float64 {
	return e.alpha
}
