// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package pump

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
)

const (
	initialBufferSize = 64 * 1024
	// MaxLineSize is the longest line the pump accepts.
	MaxLineSize = 1024 * 1024
)

// ErrRead is returned when the stream fails before EOF.
var ErrRead = errors.New("error reading output stream")

// Handler receives each non-empty line, without its terminator.
type Handler func(line string)

// ScanLines is a bufio.SplitFunc that ends a line at '\r' or '\n'.
// A "\r\n" pair yields an empty token, which Run skips.
func ScanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}

	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return i + 1, data[:i], nil
	}

	if atEOF {
		return len(data), data, nil
	}

	return 0, nil, nil
}

// Run calls handle for every line read from r until EOF, a read error or
// the cancellation of ctx. EOF returns nil; cancellation returns ctx.Err().
// If r is an io.Closer it is closed on cancellation to unblock a pending read.
func Run(ctx context.Context, r io.Reader, handle Handler) error {
	if c, ok := r.(io.Closer); ok {
		stop := context.AfterFunc(ctx, func() {
			_ = c.Close()
		})
		defer stop()
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, initialBufferSize), MaxLineSize)
	sc.Split(ScanLines)

	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		handle(line)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := sc.Err(); err != nil {
		return errors.Join(ErrRead, err)
	}

	return nil
}

// Pump is a Run in progress on its own goroutine.
type Pump struct {
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

// Start runs Run on a new goroutine.
func Start(ctx context.Context, r io.Reader, handle Handler) *Pump {
	ctx, cancel := context.WithCancel(ctx)
	p := &Pump{
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(p.done)
		defer cancel()

		p.err = Run(ctx, r, handle)
	}()

	return p
}

// Done is closed when the pump has stopped.
func (p *Pump) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the pump stops and returns the result of Run.
func (p *Pump) Wait() error {
	<-p.done
	return p.err
}

// Stop cancels the pump and waits for it. A pump stopped this way returns nil.
// A pending read is only interrupted when the reader is an io.Closer.
func (p *Pump) Stop() error {
	p.cancel()

	err := p.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}

	return err
}
