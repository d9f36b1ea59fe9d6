package ui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case analysisDoneMsg:
		m.report = msg.report
		m.table = buildDuplicateTable(m.report, m.marked)
		m.state = "browsing"
		return m, nil

	case previewDoneMsg:
		m.preview = msg.result
		m.state = "confirm"
		return m, nil

	case applyDoneMsg:
		m.result = msg.result
		m.state = "done"
		return m, nil

	case errMsg:
		m.err = msg.err
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.state {
	case "browsing":
		return m.updateBrowsing(msg)

	case "confirm":
		switch msg.String() {
		case "y", "Y":
			return m, performApply(m.executor, deleteOperations(m.report, m.marked))
		case "n", "N", "esc":
			m.preview = nil
			m.state = "browsing"
			return m, nil
		case "q":
			return m, tea.Quit
		}

	case "done":
		switch msg.String() {
		case "q", "enter", "esc":
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m Model) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit

	case " ":
		if i := m.table.Cursor(); i >= 0 && i < len(m.report.Duplicates) {
			path := m.report.Duplicates[i].Duplicate
			if m.marked[path] {
				delete(m.marked, path)
			} else {
				m.marked[path] = true
			}
			m.table.SetRows(duplicateRows(m.report, m.marked))
		}
		return m, nil

	case "a":
		for _, d := range m.report.Duplicates {
			m.marked[d.Duplicate] = true
		}
		m.table.SetRows(duplicateRows(m.report, m.marked))
		return m, nil

	case "n":
		m.marked = make(map[string]bool)
		m.table.SetRows(duplicateRows(m.report, m.marked))
		return m, nil

	case "d", "enter":
		if len(m.marked) > 0 {
			return m, performPreview(m.executor, deleteOperations(m.report, m.marked))
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}
