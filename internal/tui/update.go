// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/matt-FFFFFF/opwatch/internal/progress"
	"github.com/matt-FFFFFF/opwatch/internal/render"
)

// SnapshotMsg carries a snapshot into the bubbletea program.
type SnapshotMsg struct {
	Snapshot progress.Snapshot
}

// WorkDoneMsg reports that the watched work has returned.
type WorkDoneMsg struct {
	Err error
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.mu.Lock()
			m.quitting = true
			m.mu.Unlock()

			return m, tea.Quit
		}

		return m, nil

	case tea.WindowSizeMsg:
		m.mu.Lock()
		m.setWidth(msg.Width)
		m.mu.Unlock()

		return m, nil

	case SnapshotMsg:
		m.mu.Lock()
		m.upsert(msg.Snapshot)
		m.mu.Unlock()

		return m, nil

	case WorkDoneMsg:
		m.mu.Lock()
		m.done = true
		m.err = msg.Err
		m.mu.Unlock()

		return m, tea.Quit
	}

	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var b strings.Builder

	b.WriteString(m.styles.Title.Render("opwatch"))
	b.WriteString("\n")

	if len(m.order) == 0 {
		b.WriteString(m.styles.Detail.Render("Waiting for progress..."))
		b.WriteString("\n")
	}

	for _, id := range m.order {
		v := m.ops[id]
		s := v.snap

		b.WriteString(m.statusStyle(s.Status).Render(render.Title(s)))
		b.WriteString("\n  ")
		b.WriteString(v.bar.ViewAs(s.PercentageOr(0) / 100))
		b.WriteString("\n")

		details := []string{s.Message, render.Summary(s)}
		if s.Err != "" && !strings.Contains(s.Message, s.Err) {
			details = append(details, s.Err)
		}

		for _, line := range details {
			if line != "" {
				b.WriteString(m.styles.Detail.Render(line))
				b.WriteString("\n")
			}
		}
	}

	switch {
	case m.quitting && !m.done:
		b.WriteString(m.styles.Help.Render("Cancelling..."))
	case m.done && m.err != nil:
		b.WriteString(m.styles.Failed.Render("Finished with errors"))
	case m.done:
		b.WriteString(m.styles.Help.Render("Done."))
	default:
		b.WriteString(m.styles.Help.Render("'q' to cancel and quit"))
	}

	b.WriteString("\n")

	return b.String()
}
