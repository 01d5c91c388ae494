package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// bar collects the segments of a one-line strip (header, command bar) drawn
// on a single surface color. Every character, separators included, is
// painted: an ANSI reset between two styled pieces would otherwise show the
// terminal background through the gap.
type bar struct {
	surface  lipgloss.Style
	styles   Styles
	segments []string
}

func newBar(theme Theme) *bar {
	return &bar{
		surface: lipgloss.NewStyle().Background(lipgloss.Color(theme.Surface)),
		styles:  theme.Styles().WithBackground(theme.Surface),
	}
}

// paint renders text in style on the bar surface. Runs of spaces are painted
// as surface so a multi-word label keeps its background.
func (b *bar) paint(text string, style lipgloss.Style) string {
	if text == "" {
		return ""
	}
	var out strings.Builder
	for i, word := range strings.Split(text, " ") {
		if i > 0 {
			out.WriteString(b.surface.Render(" "))
		}
		if word != "" {
			out.WriteString(style.Render(word))
		}
	}
	return out.String()
}

// add appends one segment made of already painted pieces.
func (b *bar) add(pieces ...string) {
	if seg := strings.Join(pieces, ""); seg != "" {
		b.segments = append(b.segments, seg)
	}
}

// hint appends a "key:desc" command segment.
func (b *bar) hint(key, desc string, descStyle lipgloss.Style) {
	b.add(b.paint(key, b.styles.AccentText), b.paint(":", b.styles.FaintText), b.paint(desc, descStyle))
}

// join paints sep between already painted parts.
func (b *bar) join(parts []string, sep string) string {
	return strings.Join(parts, b.surface.Render(sep))
}

// render lays the segments out gap cells apart and fills one line of width.
func (b *bar) render(width, gap int) string {
	line := b.join(b.segments, strings.Repeat(" ", max(gap, 1)))
	return b.styles.Header.Width(width).MaxHeight(1).Render(line)
}
