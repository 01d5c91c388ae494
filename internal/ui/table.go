package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// column is one fixed-width cell of a list row. A zero width takes the space
// left over by the fixed columns.
type column struct {
	label string
	width int
}

// layoutColumns resolves flexible widths for the given total width.
func layoutColumns(cols []column, total int) []column {
	fixed, flex := 0, 0
	for _, c := range cols {
		if c.width == 0 {
			flex++
			continue
		}
		fixed += c.width + 1
	}
	out := append([]column(nil), cols...)
	if flex == 0 {
		return out
	}
	share := max((total-fixed)/flex-1, 8)
	for i := range out {
		if out[i].width == 0 {
			out[i].width = share
		}
	}
	return out
}

// cell is the rendered text of one column and its style.
type cell struct {
	text  string
	style lipgloss.Style
}

// renderList renders a header row and the window of rows around cursor that
// fits in height lines.
func (m Model) renderList(cols []column, rows [][]cell, cursor, width, height int) string {
	styles := m.theme.Styles()
	cols = layoutColumns(cols, width)

	var b strings.Builder
	headers := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = fit(c.label, c.width)
	}
	b.WriteString(styles.MutedText.Bold(true).Render(strings.Join(headers, " ")))

	visible := max(height-1, 1)
	start := 0
	if cursor >= visible {
		start = cursor - visible + 1
	}
	end := min(start+visible, len(rows))

	for i := start; i < end; i++ {
		b.WriteString("\n")
		parts := make([]string, len(cols))
		for j, c := range cols {
			var value cell
			if j < len(rows[i]) {
				value = rows[i][j]
			}
			text := fit(value.text, c.width)
			if i == cursor {
				parts[j] = styles.Selected.Render(text)
				continue
			}
			parts[j] = value.style.Render(text)
		}
		sep := " "
		if i == cursor {
			sep = styles.Selected.Render(" ")
		}
		b.WriteString(strings.Join(parts, sep))
	}
	return b.String()
}
