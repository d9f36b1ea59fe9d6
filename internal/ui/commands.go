package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/drivesweep/drivesweep/internal/core"
	"github.com/drivesweep/drivesweep/internal/model"
)

// Messages
type analysisDoneMsg struct {
	report *model.AnalysisReport
}

type previewDoneMsg struct {
	result *model.OperationResult
}

type applyDoneMsg struct {
	result *model.OperationResult
}

type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

func performAnalysis(analyzer *core.Analyzer, drivePath string) tea.Cmd {
	return func() tea.Msg {
		report, err := analyzer.Analyze(drivePath)
		if err != nil {
			return errMsg{err}
		}
		return analysisDoneMsg{report: report}
	}
}

func performPreview(executor *core.Executor, ops []model.Operation) tea.Cmd {
	return func() tea.Msg {
		result, err := executor.Execute(context.Background(), ops, true)
		if err != nil {
			return errMsg{err}
		}
		return previewDoneMsg{result: result}
	}
}

func performApply(executor *core.Executor, ops []model.Operation) tea.Cmd {
	return func() tea.Msg {
		result, err := executor.Execute(context.Background(), ops, false)
		if err != nil {
			return errMsg{err}
		}
		return applyDoneMsg{result: result}
	}
}

// deleteOperations turns the marked duplicates into delete operations, in
// report order so the executor sees a deterministic batch.
func deleteOperations(report *model.AnalysisReport, marked map[string]bool) []model.Operation {
	var ops []model.Operation
	for _, d := range report.Duplicates {
		if marked[d.Duplicate] {
			ops = append(ops, model.NewDelete(d.Duplicate))
		}
	}
	return ops
}

func buildDuplicateTable(report *model.AnalysisReport, marked map[string]bool) table.Model {
	columns := []table.Column{
		{Title: " ", Width: 3},
		{Title: "Duplicate", Width: 42},
		{Title: "Size", Width: 10},
		{Title: "Original", Width: 42},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(duplicateRows(report, marked)),
		table.WithFocused(true),
		table.WithHeight(tableHeight(len(report.Duplicates))),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

func duplicateRows(report *model.AnalysisReport, marked map[string]bool) []table.Row {
	rows := make([]table.Row, 0, len(report.Duplicates))
	for _, d := range report.Duplicates {
		check := "☐"
		if marked[d.Duplicate] {
			check = "☑"
		}
		rows = append(rows, table.Row{
			check,
			truncatePath(d.Duplicate, 42),
			humanize.IBytes(uint64(d.Size)),
			truncatePath(d.Original, 42),
		})
	}
	return rows
}

func tableHeight(rows int) int {
	if rows > 15 {
		return 15
	}
	if rows < 1 {
		return 1
	}
	return rows
}

func truncatePath(path string, width int) string {
	if len(path) <= width {
		return path
	}
	return "..." + path[len(path)-(width-3):]
}
