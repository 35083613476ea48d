// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/matt-FFFFFF/opwatch/internal/progress"
)

const labelWidth = 10

// Renderer turns snapshots into multi-line status blocks.
// Colours follow the capabilities of the writer passed to NewRenderer.
type Renderer struct {
	barLength int
	title     lipgloss.Style
	label     lipgloss.Style
	message   lipgloss.Style
	bar       lipgloss.Style
	errText   lipgloss.Style
	statuses  map[progress.Status]lipgloss.Style
}

// NewRenderer returns a Renderer for output written to w.
// A barLength below one means DefaultBarLength.
func NewRenderer(w io.Writer, barLength int) *Renderer {
	if barLength < 1 {
		barLength = DefaultBarLength
	}

	lr := lipgloss.NewRenderer(w)
	title := lr.NewStyle().Bold(true)

	return &Renderer{
		barLength: barLength,
		title:     title,
		label:     lr.NewStyle().Faint(true).Width(labelWidth),
		message:   lr.NewStyle().Italic(true),
		bar:       lr.NewStyle().Foreground(lipgloss.Color("12")),
		errText:   lr.NewStyle().Foreground(lipgloss.Color("9")),
		statuses: map[progress.Status]lipgloss.Style{
			progress.StatusPending:    title.Foreground(lipgloss.Color("12")),
			progress.StatusInProgress: title.Foreground(lipgloss.Color("11")),
			progress.StatusCompleted:  title.Foreground(lipgloss.Color("10")),
			progress.StatusFailed:     title.Foreground(lipgloss.Color("9")),
			progress.StatusCancelled:  title.Foreground(lipgloss.Color("8")),
		},
	}
}

// Title is the heading for s, e.g. "✅ Download Complete".
func Title(s progress.Snapshot) string {
	op := s.Operation.Title()

	switch s.Status {
	case progress.StatusCompleted:
		return "✅ " + op + " Complete"
	case progress.StatusFailed:
		return "❌ " + op + " Failed"
	case progress.StatusCancelled:
		return "⏹️ " + op + " Cancelled"
	default:
		return "⏳ " + op
	}
}

// Text renders s as a status block without a trailing newline.
func (r *Renderer) Text(s progress.Snapshot) string {
	style, ok := r.statuses[s.Status]
	if !ok {
		style = r.title
	}

	lines := []string{style.Render(Title(s))}

	if s.Message != "" {
		lines = append(lines, r.message.Render(s.Message))
	}

	if s.Status == progress.StatusInProgress && s.Percentage != nil && *s.Percentage > 0 {
		lines = append(lines, r.field("Progress",
			fmt.Sprintf("%s %.1f%%", r.bar.Render(Bar(*s.Percentage, r.barLength)), *s.Percentage)))
	}

	if v := amount(s); v != "" {
		lines = append(lines, r.field(amountLabel(s.Operation), v))
	}

	if v := speed(s); v != "" {
		lines = append(lines, r.field("Speed", v))
	}

	if s.ETA != nil && *s.ETA > 0 {
		lines = append(lines, r.field("ETA", FormatDuration(*s.ETA)))
	}

	if s.Err != "" {
		lines = append(lines, r.field("Error", r.errText.Render(s.Err)))
	}

	return strings.Join(lines, "\n")
}

func (r *Renderer) field(name, value string) string {
	return r.label.Render(name) + value
}

func amountLabel(op progress.Operation) string {
	if op == progress.OperationConversion {
		return "Time"
	}

	return "Size"
}

func amount(s progress.Snapshot) string {
	if s.Current == nil {
		return ""
	}

	format := FormatBytes
	if s.Operation == progress.OperationConversion {
		format = FormatClock
	}

	if s.Total == nil {
		return format(*s.Current)
	}

	return format(*s.Current) + " / " + format(*s.Total)
}

func speed(s progress.Snapshot) string {
	if s.Operation == progress.OperationConversion {
		if v, ok := s.Details["speed"]; ok {
			return v
		}

		if s.Speed != nil {
			return fmt.Sprintf("%.1fx", *s.Speed)
		}

		return ""
	}

	if s.Speed == nil {
		return ""
	}

	return FormatSpeed(*s.Speed)
}

// Summary is a one-line digest of the counters, speed and ETA of s,
// e.g. "1.0 MB / 2.0 MB · 512.0 KB/s · ETA 2s".
func Summary(s progress.Snapshot) string {
	var parts []string

	if v := amount(s); v != "" {
		parts = append(parts, v)
	}

	if v := speed(s); v != "" {
		parts = append(parts, v)
	}

	if s.ETA != nil && *s.ETA > 0 {
		parts = append(parts, "ETA "+FormatDuration(*s.ETA))
	}

	return strings.Join(parts, " · ")
}
