// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package progress

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"maps"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/matt-FFFFFF/opwatch/internal/ctxlog"
)

// ErrUnknownFailure is recorded when Fail is called with a nil error.
var ErrUnknownFailure = errors.New("unknown failure")

const (
	// minSpeed is the smallest rate used for an ETA. Anything slower yields no ETA.
	minSpeed = 1e-9
	// maxETASeconds keeps the ETA inside the range of time.Duration.
	maxETASeconds = float64(math.MaxInt64) / float64(time.Second)
)

// Update carries new facts about an operation. Nil fields leave the
// corresponding state unchanged.
type Update struct {
	// Current is the amount of work done, in the operation's unit.
	Current *float64
	// Total is the amount of work expected. Zero or negative totals are ignored.
	Total *float64
	// Percent overrides the percentage derived from Current and Total.
	Percent *float64
	// Speed is a rate reported by the tool itself. When set it is used as the
	// next sample instead of the rate measured from successive Current values.
	Speed *float64
	// Message replaces the status text when non-empty.
	Message string
	// Details are merged into the snapshot's display-only fields.
	Details map[string]string
}

// Counters returns an Update with both counters set.
func Counters(current, total float64) Update {
	return Update{Current: &current, Total: &total}
}

// Counter returns an Update that only moves the current counter.
func Counter(current float64) Update {
	return Update{Current: &current}
}

// Tracker accumulates the progress of a single operation.
// All methods are safe for concurrent use. Observers must not call Update,
// Complete, Fail or Cancel on the tracker that is notifying them.
type Tracker struct {
	ctx context.Context
	now func() time.Time

	mu        sync.Mutex
	snap      Snapshot
	observers []Observer
	speed     *Estimator
	started   bool
	lastAt    time.Time
	lastValue float64

	// notifyMu is taken before mu is released so that snapshots reach
	// observers in the order they were committed.
	notifyMu sync.Mutex
	done     chan struct{}
}

// Option configures a Tracker.
type Option func(t *Tracker)

// WithTotal sets the expected amount of work, e.g. the file size in bytes or
// the media duration in seconds.
func WithTotal(total float64) Option {
	return func(t *Tracker) {
		if total > 0 {
			t.snap.Total = ptr(total)
		}
	}
}

// WithSmoothing sets the EWMA weight of the newest speed sample.
func WithSmoothing(alpha float64) Option {
	return func(t *Tracker) {
		t.speed = NewEstimator(alpha)
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		t.now = now
	}
}

// WithID sets the operation ID instead of generating a random one.
func WithID(id uuid.UUID) Option {
	return func(t *Tracker) {
		t.snap.OperationID = id
	}
}

// WithObservers registers observers at construction time.
func WithObservers(observers ...Observer) Option {
	return func(t *Tracker) {
		for _, o := range observers {
			if o != nil {
				t.observers = append(t.observers, o)
			}
		}
	}
}

// NewTracker creates a Pending tracker for one operation.
func NewTracker(ctx context.Context, op Operation, opts ...Option) *Tracker {
	t := &Tracker{
		now:   time.Now,
		speed: NewEstimator(DefaultSmoothing),
		done:  make(chan struct{}),
		snap: Snapshot{
			OperationID: uuid.New(),
			Operation:   op,
			Status:      StatusPending,
			Message:     fmt.Sprintf("Starting %s...", strings.ToLower(op.Title())),
		},
	}

	for _, opt := range opts {
		opt(t)
	}

	start := t.now()
	t.snap.StartedAt = start
	t.snap.UpdatedAt = start
	t.lastAt = start
	t.ctx = ctxlog.With(ctx,
		"operation", op.String(),
		"operationID", t.snap.OperationID.String(),
	)

	return t
}

// ID returns the operation ID.
func (t *Tracker) ID() uuid.UUID {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.snap.OperationID
}

// Register appends an observer. It only receives snapshots produced after
// registration.
func (t *Tracker) Register(o Observer) {
	if o == nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.observers = append(t.observers, o)
}

// Snapshot returns a copy of the current state.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.snap.clone()
}

// Done is closed once the terminal snapshot has been delivered to every observer.
func (t *Tracker) Done() <-chan struct{} {
	return t.done
}

// Start delivers the initial Pending snapshot. It is optional and only has an
// effect once, before any update.
func (t *Tracker) Start() bool {
	return t.commit(func(time.Time) bool {
		if t.started || t.snap.Status != StatusPending {
			return false
		}

		t.started = true

		return true
	})
}

// Update applies u, recomputes percentage, speed and ETA, and notifies the
// observers. It returns false, without notifying, once the tracker is terminal.
func (t *Tracker) Update(u Update) bool {
	return t.commit(func(now time.Time) bool {
		t.apply(u, now)
		return true
	})
}

// Complete moves the tracker to Completed. If the total is known the counters
// are set to it and the percentage to 100. An empty message gets a default.
func (t *Tracker) Complete(message string) bool {
	return t.commit(func(time.Time) bool {
		s := &t.snap
		s.Status = StatusCompleted
		s.ETA = nil

		if s.Total != nil {
			s.Current = ptr(*s.Total)
			s.Percentage = ptr(100.0)
		} else if s.Percentage != nil {
			s.Percentage = ptr(100.0)
		}

		s.Message = cmp.Or(message, s.Operation.Title()+" completed successfully")

		return true
	})
}

// Fail moves the tracker to Failed and records err.
func (t *Tracker) Fail(err error) bool {
	if err == nil {
		err = ErrUnknownFailure
	}

	return t.commit(func(time.Time) bool {
		s := &t.snap
		s.Status = StatusFailed
		s.ETA = nil
		s.Err = err.Error()
		s.Message = fmt.Sprintf("%s failed: %s", s.Operation.Title(), s.Err)

		return true
	})
}

// Cancel moves the tracker to Cancelled. Cancelling a terminal tracker is a no-op.
func (t *Tracker) Cancel() bool {
	return t.commit(func(time.Time) bool {
		s := &t.snap
		s.Status = StatusCancelled
		s.ETA = nil
		s.Message = s.Operation.Title() + " was cancelled"

		return true
	})
}

// commit runs fn under the state lock. If fn reports a change the resulting
// snapshot is delivered to the observers registered at that moment.
func (t *Tracker) commit(fn func(now time.Time) bool) bool {
	t.mu.Lock()

	if t.snap.Status.IsTerminal() {
		t.mu.Unlock()
		return false
	}

	now := t.now()
	if !fn(now) {
		t.mu.Unlock()
		return false
	}

	t.started = true
	t.snap.UpdatedAt = now
	snap := t.snap.clone()
	observers := t.observers

	t.notifyMu.Lock()
	t.mu.Unlock()

	defer t.notifyMu.Unlock()

	ctxlog.Debug(t.ctx, "progress", "snapshot", snap.String(), "observers", len(observers))

	for i, o := range observers {
		safeObserve(t.ctx, i, o, snap)
	}

	if snap.Status.IsTerminal() {
		close(t.done)
	}

	return true
}

func (t *Tracker) apply(u Update, now time.Time) {
	s := &t.snap

	if s.Status == StatusPending && u.Message == "" {
		s.Message = s.Operation.Title() + " in progress..."
	}

	s.Status = StatusInProgress

	if u.Total != nil && *u.Total > 0 && !math.IsInf(*u.Total, 0) {
		s.Total = ptr(*u.Total)
		if s.Current != nil && *s.Current > *s.Total {
			s.Current = ptr(*s.Total)
		}
	}

	switch {
	case u.Current != nil && !math.IsNaN(*u.Current):
		current := math.Max(*u.Current, 0)
		if s.Total != nil {
			current = math.Min(current, *s.Total)
		}

		t.sample(current, now, u.Speed)
		s.Current = &current
	case u.Speed != nil && *u.Speed >= 0:
		t.speed.Add(*u.Speed)
	}

	if v, ok := t.speed.Value(); ok {
		s.Speed = ptr(v)
	}

	t.applyPercentage(u.Percent)
	s.ETA = t.eta()

	if u.Message != "" {
		s.Message = u.Message
	}

	if len(u.Details) > 0 {
		details := make(map[string]string, len(s.Details)+len(u.Details))
		maps.Copy(details, s.Details)
		maps.Copy(details, u.Details)
		s.Details = details
	}
}

// sample feeds one rate sample into the estimator. The first sample is
// measured from the tracker's start, which gives the instantaneous rate.
func (t *Tracker) sample(current float64, now time.Time, reported *float64) {
	dt := now.Sub(t.lastAt).Seconds()

	switch {
	case reported != nil && *reported >= 0:
		t.speed.Add(*reported)
	case dt > 0:
		t.speed.Add(math.Max(current-t.lastValue, 0) / dt)
	default:
		// Same instant as the previous sample: fold the delta into the next one.
		return
	}

	t.lastAt = now
	t.lastValue = current
}

func (t *Tracker) applyPercentage(explicit *float64) {
	s := &t.snap

	var pct float64

	switch {
	case explicit != nil:
		pct = *explicit
	case s.Current != nil && s.Total != nil:
		pct = *s.Current / *s.Total * 100
	default:
		return
	}

	if math.IsNaN(pct) {
		return
	}

	pct = math.Min(math.Max(pct, 0), 100)

	if s.Percentage != nil && pct < *s.Percentage {
		return
	}

	s.Percentage = &pct
}

func (t *Tracker) eta() *time.Duration {
	s := t.snap
	if s.Total == nil || s.Current == nil || s.Speed == nil || *s.Speed <= minSpeed {
		return nil
	}

	secs := (*s.Total - *s.Current) / *s.Speed
	if math.IsNaN(secs) || secs < 0 || secs > maxETASeconds {
		return nil
	}

	return ptr(time.Duration(secs * float64(time.Second)))
}

// safeObserve calls o.Observe and contains any panic so the remaining
// observers still run.
func safeObserve(ctx context.Context, index int, o Observer, s Snapshot) {
	defer func() {
		if r := recover(); r != nil {
			ctxlog.Error(ctx, "observer failed",
				"observer", index,
				"status", s.Status.String(),
				"panic", fmt.Sprint(r),
			)
		}
	}()

	o.Observe(s.clone())
}
