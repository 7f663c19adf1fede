package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// RenderTable renders a bordered table with a bold header row.
func RenderTable(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(MutedStyle).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers(headers...).
		Rows(rows...)

	return t.Render()
}

// PageBanner writes the page position line that tops every paged list, such
// as "Page 2/4 | Showing 3 items (Total: 10)".
func PageBanner(w io.Writer, page, totalPages, shown, total int) {
	info := fmt.Sprintf("Page %d/%d | Showing %d items (Total: %d)",
		page, totalPages, shown, total)

	rule := strings.Repeat("═", TerminalWidth)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, Center(info, TerminalWidth))
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w)
}
