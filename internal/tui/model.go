// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package tui

import (
	"sync"

	bar "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/matt-FFFFFF/opwatch/internal/progress"
)

const (
	defaultBarWidth = 40
	maxBarWidth     = 80
	barPadding      = 4
)

// operationView is one row of the TUI.
type operationView struct {
	snap progress.Snapshot
	bar  bar.Model
}

// Styles contains the lipgloss styles used by the TUI.
type Styles struct {
	Title     lipgloss.Style
	Running   lipgloss.Style
	Success   lipgloss.Style
	Failed    lipgloss.Style
	Cancelled lipgloss.Style
	Detail    lipgloss.Style
	Help      lipgloss.Style
}

// NewStyles creates the default styles.
func NewStyles() *Styles {
	return &Styles{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).MarginBottom(1),
		Running:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11")),
		Success:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		Failed:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		Cancelled: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("8")),
		Detail:    lipgloss.NewStyle().Faint(true).PaddingLeft(2),
		Help:      lipgloss.NewStyle().Faint(true).MarginTop(1),
	}
}

// Model is the bubbletea model. Operations are listed in the order their
// first snapshot arrived.
type Model struct {
	mu       sync.RWMutex
	ops      map[uuid.UUID]*operationView
	order    []uuid.UUID
	barWidth int
	styles   *Styles
	done     bool
	err      error
	quitting bool
}

// NewModel creates an empty model.
func NewModel() *Model {
	return &Model{
		ops:      make(map[uuid.UUID]*operationView),
		barWidth: defaultBarWidth,
		styles:   NewStyles(),
	}
}

// Snapshots returns the latest snapshot of every operation, in display order.
func (m *Model) Snapshots() []progress.Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]progress.Snapshot, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.ops[id].snap)
	}

	return out
}

func (m *Model) upsert(s progress.Snapshot) *operationView {
	v, ok := m.ops[s.OperationID]
	if !ok {
		v = &operationView{
			bar: bar.New(bar.WithDefaultGradient(), bar.WithWidth(m.barWidth)),
		}
		m.ops[s.OperationID] = v
		m.order = append(m.order, s.OperationID)
	}

	v.snap = s

	return v
}

func (m *Model) setWidth(width int) {
	m.barWidth = min(max(width-barPadding, 10), maxBarWidth)
	for _, v := range m.ops {
		v.bar.Width = m.barWidth
	}
}

func (m *Model) statusStyle(s progress.Status) lipgloss.Style {
	switch s {
	case progress.StatusCompleted:
		return m.styles.Success
	case progress.StatusFailed:
		return m.styles.Failed
	case progress.StatusCancelled:
		return m.styles.Cancelled
	default:
		return m.styles.Running
	}
}
