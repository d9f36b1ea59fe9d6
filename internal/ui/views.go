package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// View renders the review screen.
func (m Model) View() string {
	var s strings.Builder

	header := titleStyle.Render("DriveSweep Duplicate Review")
	s.WriteString("\n")
	s.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, header))
	s.WriteString("\n\n")

	var content string
	switch m.state {
	case "scanning":
		content = m.renderScanning()
	case "browsing":
		content = m.renderBrowsing()
	case "confirm":
		content = m.renderConfirm()
	case "done":
		content = m.renderDone()
	}

	s.WriteString(lipgloss.NewStyle().Padding(0, 3).Render(content))

	if m.err != nil {
		s.WriteString("\n\n")
		s.WriteString(lipgloss.NewStyle().Padding(0, 3).Render(
			errorStyle.Render(fmt.Sprintf("Error: %v", m.err))))
	}

	s.WriteString("\n\n")
	return s.String()
}

func (m Model) renderScanning() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render("Scanning..."))
	s.WriteString("\n\n")
	s.WriteString("  " + m.spinner.View() + " Analyzing " + m.drivePath)
	s.WriteString("\n\n")
	s.WriteString(dimStyle.Render("Walking the tree and fingerprinting files..."))

	return s.String()
}

func (m Model) renderBrowsing() string {
	var s strings.Builder

	stats := fmt.Sprintf("%d files, %d folders, %s scanned",
		m.report.FileCount,
		m.report.FolderCount,
		humanize.IBytes(uint64(m.report.TotalSize)))
	s.WriteString(headerStyle.Render("Duplicates") + "  " + dimStyle.Render(stats))
	s.WriteString("\n\n")

	if len(m.report.Duplicates) == 0 {
		s.WriteString("  " + successStyle.Render("No duplicates found"))
		s.WriteString("\n\n")
		s.WriteString(dimStyle.Render("Press q to exit"))
		return s.String()
	}

	s.WriteString(m.table.View())
	s.WriteString("\n\n")

	if n := len(m.marked); n > 0 {
		s.WriteString("  " + warningStyle.Render(fmt.Sprintf(
			"Marked: %d of %d (%s to reclaim)",
			n, len(m.report.Duplicates), humanize.IBytes(uint64(m.markedSize())))))
		s.WriteString("\n\n")
	}

	s.WriteString(dimStyle.Render(
		"↑/↓ Navigate • Space: Mark • a: Mark All • n: Unmark All • d: Delete Marked • q: Quit"))

	return s.String()
}

func (m Model) renderConfirm() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render("Confirm Deletion"))
	s.WriteString("\n\n")

	s.WriteString(fmt.Sprintf("  Will delete %d duplicate files, reclaiming %s.\n\n",
		m.preview.Summary.Total, humanize.IBytes(uint64(m.markedSize()))))

	shown := 0
	for _, op := range m.preview.Deleted {
		if shown >= 10 {
			s.WriteString(dimStyle.Render(fmt.Sprintf(
				"    ... and %d more\n", len(m.preview.Deleted)-shown)))
			break
		}
		s.WriteString("    • " + op.Path + "\n")
		shown++
	}

	s.WriteString("\n")
	s.WriteString("  " + warningStyle.Render("⚠️  This cannot be undone. Originals are kept."))
	s.WriteString("\n\n")
	s.WriteString(dimStyle.Render("y: Delete • n/esc: Back"))

	return s.String()
}

func (m Model) renderDone() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render("Done"))
	s.WriteString("\n\n")

	s.WriteString("  " + successStyle.Render(fmt.Sprintf(
		"✓ Deleted %d of %d files", m.result.Summary.Successful, m.result.Summary.Total)))
	s.WriteString("\n")

	if m.result.Summary.Failed > 0 {
		s.WriteString("\n")
		s.WriteString("  " + errorStyle.Render(fmt.Sprintf("%d failed:", m.result.Summary.Failed)))
		s.WriteString("\n")
		for _, e := range m.result.Errors {
			s.WriteString("    ✗ " + e.Path + ": " + e.Message + "\n")
		}
	}

	s.WriteString("\n")
	s.WriteString(dimStyle.Render("Press q to exit"))

	return s.String()
}

func (m Model) markedSize() int64 {
	var size int64
	for _, d := range m.report.Duplicates {
		if m.marked[d.Duplicate] {
			size += d.Size
		}
	}
	return size
}
