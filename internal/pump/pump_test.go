// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package pump

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"testing/iotest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type lines struct {
	mu  sync.Mutex
	got []string
}

func (l *lines) handle(line string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.got = append(l.got, line)
}

func (l *lines) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]string(nil), l.got...)
}

func TestRun_SplitsOnCarriageReturnAndNewline(t *testing.T) {
	input := "header\n" +
		"size=1kB time=00:00:01.00 bitrate=8 speed=1x\r" +
		"size=2kB time=00:00:02.00 bitrate=8 speed=1x\r" +
		"windows line\r\n" +
		"\n   \n" +
		"no terminator"

	l := &lines{}
	require.NoError(t, Run(context.Background(), strings.NewReader(input), l.handle))

	assert.Equal(t, []string{
		"header",
		"size=1kB time=00:00:01.00 bitrate=8 speed=1x",
		"size=2kB time=00:00:02.00 bitrate=8 speed=1x",
		"windows line",
		"no terminator",
	}, l.all())
}

func TestRun_SmallReads(t *testing.T) {
	l := &lines{}
	r := iotest.OneByteReader(strings.NewReader("a\rb\nc"))

	require.NoError(t, Run(context.Background(), r, l.handle))
	assert.Equal(t, []string{"a", "b", "c"}, l.all())
}

func TestRun_ReadError(t *testing.T) {
	boom := errors.New("broken pipe")
	r := io.MultiReader(strings.NewReader("one\n"), iotest.ErrReader(boom))

	l := &lines{}
	err := Run(context.Background(), r, l.handle)

	require.ErrorIs(t, err, ErrRead)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"one"}, l.all())
}

func TestRun_LineTooLong(t *testing.T) {
	r := strings.NewReader(strings.Repeat("x", MaxLineSize+1))

	err := Run(context.Background(), r, func(string) {})
	require.ErrorIs(t, err, ErrRead)
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := Run(ctx, strings.NewReader("a\nb\n"), func(string) { called = true })

	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestStart_WaitReturnsAtEOF(t *testing.T) {
	pr, pw := io.Pipe()
	l := &lines{}
	p := Start(context.Background(), pr, l.handle)

	_, err := io.WriteString(pw, "first\rsecond\n")
	require.NoError(t, err)
	require.NoError(t, pw.Close())

	require.NoError(t, p.Wait())
	assert.Equal(t, []string{"first", "second"}, l.all())
}

func TestStart_StopUnblocksPendingRead(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	l := &lines{}
	p := Start(context.Background(), pr, l.handle)

	_, err := io.WriteString(pw, "one\n")
	require.NoError(t, err)

	require.Eventually(t, func() bool { return len(l.all()) == 1 }, time.Second, time.Millisecond)
	require.NoError(t, p.Stop())

	select {
	case <-p.Done():
	default:
		t.Fatal("pump still running after Stop")
	}
}

func TestStart_ParentCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pr, pw := io.Pipe()
	defer pw.Close()

	p := Start(ctx, pr, func(string) {})
	cancel()

	require.ErrorIs(t, p.Wait(), context.Canceled)
}
