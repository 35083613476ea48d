// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package progress

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTracker(t *testing.T, op Operation, opts ...Option) (*Tracker, *recorder, *fakeClock) {
	t.Helper()

	clock := newFakeClock()
	rec := &recorder{}
	opts = append([]Option{WithClock(clock.Now), WithObservers(rec)}, opts...)

	return NewTracker(context.Background(), op, opts...), rec, clock
}

func TestNewTracker_Pending(t *testing.T) {
	id := uuid.New()
	tr, rec, clock := newTestTracker(t, OperationDownload, WithID(id), WithTotal(1000))

	s := tr.Snapshot()
	assert.Equal(t, id, s.OperationID)
	assert.Equal(t, id, tr.ID())
	assert.Equal(t, StatusPending, s.Status)
	assert.Equal(t, "Starting download...", s.Message)
	assert.Equal(t, clock.Now(), s.StartedAt)
	require.NotNil(t, s.Total)
	assert.InDelta(t, 1000.0, *s.Total, 1e-9)
	assert.Nil(t, s.Percentage)
	assert.Empty(t, rec.all())
}

func TestTracker_Start(t *testing.T) {
	tr, rec, _ := newTestTracker(t, OperationUpload)

	assert.True(t, tr.Start())
	assert.False(t, tr.Start())

	snaps := rec.all()
	require.Len(t, snaps, 1)
	assert.Equal(t, StatusPending, snaps[0].Status)
}

func TestTracker_UpdateComputesSpeedAndETA(t *testing.T) {
	tr, rec, clock := newTestTracker(t, OperationDownload, WithTotal(1000))

	clock.Advance(time.Second)
	require.True(t, tr.Update(Counter(100)))

	s := rec.last()
	assert.Equal(t, StatusInProgress, s.Status)
	assert.Equal(t, "Download in progress...", s.Message)
	require.NotNil(t, s.Percentage)
	assert.InDelta(t, 10.0, *s.Percentage, 1e-9)
	require.NotNil(t, s.Speed)
	assert.InDelta(t, 100.0, *s.Speed, 1e-9)
	require.NotNil(t, s.ETA)
	assert.Equal(t, 9*time.Second, *s.ETA)

	clock.Advance(time.Second)
	require.True(t, tr.Update(Counter(300)))

	s = rec.last()
	assert.InDelta(t, 30.0, *s.Percentage, 1e-9)
	assert.InDelta(t, 130.0, *s.Speed, 1e-9)
	assert.InDelta(t, (700.0 / 130.0), s.ETA.Seconds(), 1e-6)
	assert.Equal(t, 2*time.Second, s.Elapsed())
}

func TestTracker_SameInstantUpdatesFoldIntoNextSample(t *testing.T) {
	tr, rec, clock := newTestTracker(t, OperationDownload, WithTotal(1000))

	tr.Update(Counter(0))
	assert.Nil(t, rec.last().Speed)
	assert.Nil(t, rec.last().ETA)

	clock.Advance(2 * time.Second)
	tr.Update(Counter(200))
	assert.InDelta(t, 100.0, *rec.last().Speed, 1e-9)
}

func TestTracker_ReportedSpeedReplacesSample(t *testing.T) {
	tr, rec, clock := newTestTracker(t, OperationDownload, WithTotal(1000))

	clock.Advance(time.Second)

	speed := 40.0
	current := 100.0
	tr.Update(Update{Current: &current, Speed: &speed})

	assert.InDelta(t, 40.0, *rec.last().Speed, 1e-9)
	assert.Equal(t, 22500*time.Millisecond, *rec.last().ETA)
}

func TestTracker_UnknownTotal(t *testing.T) {
	tr, rec, clock := newTestTracker(t, OperationUpload)

	clock.Advance(time.Second)
	tr.Update(Counter(512))

	s := rec.last()
	assert.Nil(t, s.Percentage)
	assert.Nil(t, s.Total)
	assert.Nil(t, s.ETA)
	require.NotNil(t, s.Speed)
	assert.InDelta(t, 512.0, *s.Speed, 1e-9)
}

func TestTracker_CurrentIsClampedToTotal(t *testing.T) {
	tr, rec, clock := newTestTracker(t, OperationDownload)

	clock.Advance(time.Second)
	tr.Update(Counters(1500, 1000))

	s := rec.last()
	assert.InDelta(t, 1000.0, *s.Current, 1e-9)
	assert.InDelta(t, 100.0, *s.Percentage, 1e-9)

	tr.Update(Counter(-5))
	assert.InDelta(t, 0.0, *rec.last().Current, 1e-9)
}

func TestTracker_PercentageIsMonotonic(t *testing.T) {
	tr, rec, clock := newTestTracker(t, OperationConversion)

	for _, pct := range []float64{10, 50, 40, 60, 120, 80} {
		clock.Advance(time.Second)
		tr.Update(Update{Percent: &pct})
	}

	var got []float64
	for _, s := range rec.all() {
		got = append(got, *s.Percentage)
	}

	assert.Equal(t, []float64{10, 50, 50, 60, 100, 100}, got)
}

func TestTracker_TotalIgnoredWhenNotPositive(t *testing.T) {
	tr, rec, _ := newTestTracker(t, OperationDownload, WithTotal(0))

	tr.Update(Counters(10, -1))
	assert.Nil(t, rec.last().Total)
	assert.Nil(t, rec.last().Percentage)
}

func TestTracker_MessageAndDetails(t *testing.T) {
	tr, rec, _ := newTestTracker(t, OperationConversion)

	tr.Update(Update{Message: "Encoding", Details: map[string]string{"bitrate": "1000kbits/s"}})
	tr.Update(Update{Details: map[string]string{"speed": "2.0x"}})

	s := rec.last()
	assert.Equal(t, "Encoding", s.Message)
	assert.Equal(t, map[string]string{"bitrate": "1000kbits/s", "speed": "2.0x"}, s.Details)

	first := rec.all()[0]
	assert.Equal(t, map[string]string{"bitrate": "1000kbits/s"}, first.Details)
}

func TestTracker_Complete(t *testing.T) {
	tr, rec, clock := newTestTracker(t, OperationDownload, WithTotal(1000))

	clock.Advance(time.Second)
	tr.Update(Counter(400))
	require.True(t, tr.Complete(""))

	s := rec.last()
	assert.Equal(t, StatusCompleted, s.Status)
	assert.InDelta(t, 100.0, *s.Percentage, 1e-9)
	assert.InDelta(t, 1000.0, *s.Current, 1e-9)
	assert.Nil(t, s.ETA)
	assert.Equal(t, "Download completed successfully", s.Message)

	select {
	case <-tr.Done():
	default:
		t.Fatal("Done not closed after completion")
	}
}

func TestTracker_CompleteWithoutTotal(t *testing.T) {
	tr, rec, _ := newTestTracker(t, OperationUpload)

	tr.Update(Counter(10))
	tr.Complete("done")

	s := rec.last()
	assert.Nil(t, s.Percentage)
	assert.Equal(t, "done", s.Message)
}

func TestTracker_Fail(t *testing.T) {
	tr, rec, _ := newTestTracker(t, OperationConversion)

	require.True(t, tr.Fail(errors.New("exit status 1")))

	s := rec.last()
	assert.Equal(t, StatusFailed, s.Status)
	assert.Equal(t, "exit status 1", s.Err)
	assert.Equal(t, "Conversion failed: exit status 1", s.Message)
}

func TestTracker_FailNilError(t *testing.T) {
	tr, rec, _ := newTestTracker(t, OperationGeneric)

	tr.Fail(nil)
	assert.Equal(t, ErrUnknownFailure.Error(), rec.last().Err)
}

func TestTracker_TerminalStatesAreFinal(t *testing.T) {
	tests := []struct {
		name     string
		finish   func(tr *Tracker) bool
		expected Status
	}{
		{name: "complete", finish: func(tr *Tracker) bool { return tr.Complete("") }, expected: StatusCompleted},
		{name: "fail", finish: func(tr *Tracker) bool { return tr.Fail(errors.New("boom")) }, expected: StatusFailed},
		{name: "cancel", finish: func(tr *Tracker) bool { return tr.Cancel() }, expected: StatusCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, rec, _ := newTestTracker(t, OperationDownload, WithTotal(10))

			tr.Update(Counter(5))
			require.True(t, tt.finish(tr))

			assert.False(t, tr.Update(Counter(6)))
			assert.False(t, tr.Complete(""))
			assert.False(t, tr.Fail(errors.New("late")))
			assert.False(t, tr.Cancel())
			assert.False(t, tr.Start())

			snaps := rec.all()
			require.Len(t, snaps, 2)
			assert.Equal(t, tt.expected, snaps[1].Status)
			assert.Equal(t, tt.expected, tr.Snapshot().Status)
		})
	}
}

func TestTracker_ObserverPanicIsContained(t *testing.T) {
	tr, first, _ := newTestTracker(t, OperationDownload)

	var panics atomic.Int32

	tr.Register(ObserverFunc(func(Snapshot) {
		panics.Add(1)
		panic("renderer exploded")
	}))

	second := &recorder{}
	third := &recorder{}
	tr.Register(second)
	tr.Register(third)

	const updates = 5

	for i := range updates {
		assert.NotPanics(t, func() { assert.True(t, tr.Update(Counters(float64(i+1), 10))) })
	}

	assert.NotPanics(t, func() { assert.True(t, tr.Complete("done")) })

	<-tr.Done()

	assert.Equal(t, int32(updates+1), panics.Load())

	for name, rec := range map[string]*recorder{"first": first, "second": second, "third": third} {
		snaps := rec.all()
		require.Len(t, snaps, updates+1, name)

		for i, s := range snaps[:updates] {
			assert.Equal(t, StatusInProgress, s.Status, name)
			assert.InDelta(t, float64(i+1), *s.Current, 1e-9, name)
		}

		assert.Equal(t, StatusCompleted, snaps[updates].Status, name)
		assert.Equal(t, "done", snaps[updates].Message, name)
	}
}

func TestTracker_ObserversCannotMutateState(t *testing.T) {
	tr, _, _ := newTestTracker(t, OperationDownload)

	tr.Register(ObserverFunc(func(s Snapshot) {
		*s.Percentage = 99
		s.Details["x"] = "y"
	}))

	tr.Update(Update{Current: ptr(1.0), Total: ptr(10.0), Details: map[string]string{"a": "b"}})

	s := tr.Snapshot()
	assert.InDelta(t, 10.0, *s.Percentage, 1e-9)
	assert.Equal(t, map[string]string{"a": "b"}, s.Details)
}

func TestTracker_RegisterOnlySeesLaterSnapshots(t *testing.T) {
	tr, _, _ := newTestTracker(t, OperationDownload)
	tr.Update(Counter(1))

	late := &recorder{}
	tr.Register(late)
	tr.Register(nil)
	tr.Update(Counter(2))

	require.Len(t, late.all(), 1)
	assert.InDelta(t, 2.0, *late.last().Current, 1e-9)
}

func TestTracker_ConcurrentUpdatesKeepOrder(t *testing.T) {
	tr := NewTracker(context.Background(), OperationDownload, WithTotal(1000))
	rec := &recorder{}
	tr.Register(rec)

	var wg sync.WaitGroup
	for g := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 100 {
				tr.Update(Counter(float64(g*100 + i)))
			}
		}()
	}
	wg.Wait()
	tr.Complete("")

	snaps := rec.all()
	require.Len(t, snaps, 801)

	prev := 0.0
	for _, s := range snaps {
		pct := s.PercentageOr(0)
		assert.GreaterOrEqual(t, pct, prev)
		prev = pct
	}

	assert.Equal(t, StatusCompleted, snaps[len(snaps)-1].Status)
	for _, s := range snaps[:len(snaps)-1] {
		assert.False(t, s.Status.IsTerminal())
	}
}

func TestTracker_ConcurrentTerminalCallsNotifyOnce(t *testing.T) {
	tr, rec, _ := newTestTracker(t, OperationDownload)

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(2)
		go func() { defer wg.Done(); tr.Cancel() }()
		go func() { defer wg.Done(); tr.Complete("") }()
	}
	wg.Wait()

	terminal := 0
	for _, s := range rec.all() {
		if s.Status.IsTerminal() {
			terminal++
		}
	}

	assert.Equal(t, 1, terminal)
}
