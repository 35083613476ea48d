// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package render

import (
	"encoding/json"
	"errors"
	"io"
	"sync"

	"github.com/TylerBrock/colorjson"
	"github.com/matt-FFFFFF/opwatch/internal/progress"
)

var (
	// ErrWrite is returned when a rendered snapshot cannot be written.
	ErrWrite = errors.New("error writing snapshot")
	// ErrMarshal is returned when a snapshot cannot be encoded.
	ErrMarshal = errors.New("error marshaling snapshot")
)

// Writer writes a text block per snapshot, separated by blank lines.
type Writer struct {
	mu       sync.Mutex
	w        io.Writer
	renderer *Renderer
}

// NewWriter returns a Writer that renders to w.
func NewWriter(w io.Writer, barLength int) *Writer {
	return &Writer{
		w:        w,
		renderer: NewRenderer(w, barLength),
	}
}

// Deliver renders s and writes it.
func (w *Writer) Deliver(s progress.Snapshot) error {
	text := w.renderer.Text(s) + "\n\n"

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, err := io.WriteString(w.w, text); err != nil {
		return errors.Join(ErrWrite, err)
	}

	return nil
}

// Observe implements progress.Observer.
func (w *Writer) Observe(s progress.Snapshot) {
	_ = w.Deliver(s)
}

// JSON writes one JSON object per snapshot and line.
type JSON struct {
	mu        sync.Mutex
	w         io.Writer
	formatter *colorjson.Formatter
}

// NewJSON returns a JSON observer. colour enables ANSI colours.
func NewJSON(w io.Writer, colour bool) *JSON {
	f := colorjson.NewFormatter()
	f.DisabledColor = !colour

	return &JSON{w: w, formatter: f}
}

// Deliver encodes s and writes it.
func (j *JSON) Deliver(s progress.Snapshot) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return errors.Join(ErrMarshal, err)
	}

	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return errors.Join(ErrMarshal, err)
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	b, err := j.formatter.Marshal(obj)
	if err != nil {
		return errors.Join(ErrMarshal, err)
	}

	if _, err := j.w.Write(append(b, '\n')); err != nil {
		return errors.Join(ErrWrite, err)
	}

	return nil
}

// Observe implements progress.Observer.
func (j *JSON) Observe(s progress.Snapshot) {
	_ = j.Deliver(s)
}
