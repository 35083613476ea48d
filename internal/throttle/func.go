// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package throttle

import (
	"context"
	"time"

	"github.com/matt-FFFFFF/opwatch/internal/progress"
)

// Deliverer is an observer whose delivery can fail, e.g. a network call.
// A Gate logs and counts the errors instead of propagating them.
type Deliverer interface {
	progress.Observer
	Deliver(s progress.Snapshot) error
}

// Func adapts an error-returning delivery function to a Deliverer.
type Func func(s progress.Snapshot) error

var _ Deliverer = Func(nil)

// Deliver implements Deliverer.
func (f Func) Deliver(s progress.Snapshot) error {
	return f(s)
}

// Observe implements progress.Observer and discards the error.
func (f Func) Observe(s progress.Snapshot) {
	_ = f(s)
}

// NewFunc is a shorthand for New(ctx, Func(fn), interval, opts...).
func NewFunc(ctx context.Context, fn func(s progress.Snapshot) error, interval time.Duration, opts ...Option) *Gate {
	return New(ctx, Func(fn), interval, opts...)
}
