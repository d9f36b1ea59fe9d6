// Package ui implements the interactive duplicate review screen for
// DriveSweep. It is presentation glue only: analysis comes from the core
// analyzer and every mutation goes through the ordinary executor path, a
// dry-run preview first and a confirmed real run after.
package ui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/drivesweep/drivesweep/internal/core"
	"github.com/drivesweep/drivesweep/internal/model"
)

// Model represents the review screen state.
type Model struct {
	analyzer  *core.Analyzer
	executor  *core.Executor
	drivePath string

	state   string // "scanning", "browsing", "confirm", "done"
	spinner spinner.Model
	table   table.Model

	report  *model.AnalysisReport
	marked  map[string]bool // duplicate path -> marked for deletion
	preview *model.OperationResult
	result  *model.OperationResult

	width  int
	height int
	err    error
}

// NewModel builds the initial review model for one drive path.
func NewModel(analyzer *core.Analyzer, executor *core.Executor, drivePath string) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	return Model{
		analyzer:  analyzer,
		executor:  executor,
		drivePath: drivePath,
		state:     "scanning",
		spinner:   s,
		marked:    make(map[string]bool),
	}
}

// Init starts the spinner and kicks off the analysis.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, performAnalysis(m.analyzer, m.drivePath))
}

// Run drives the review screen to completion and returns the result of the
// confirmed run, or nil when the user quit without deleting anything.
func Run(analyzer *core.Analyzer, executor *core.Executor, drivePath string) (*model.OperationResult, error) {
	p := tea.NewProgram(NewModel(analyzer, executor, drivePath), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	if m, ok := final.(Model); ok {
		if m.err != nil {
			return nil, m.err
		}
		return m.result, nil
	}
	return nil, nil
}
