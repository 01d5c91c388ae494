package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/reel/internal/format"
	"github.com/five82/reel/internal/instance"
)

// renderStatus shows the server version and its health checks.
func (m Model) renderStatus() string {
	snap := m.status.Snapshot()
	hasData := snap.HasData && snap.Instance == m.inst.Name
	if msg := m.emptyState(snap.Loading, hasData, snap.LastError, ""); msg != "" {
		return m.renderEmpty("Status", msg)
	}

	styles := m.theme.Styles()
	now := m.now()
	width := max(m.width-4, 20)

	var b strings.Builder
	label := func(s string) string { return styles.MutedText.Render(fmt.Sprintf("%-12s", s)) }

	b.WriteString(label("Instance") + styles.Text.Bold(true).Render(m.inst.Name) + "\n")
	b.WriteString(label("URL") + styles.Text.Render(instance.NormalizeURL(m.inst.URL)) + "\n")
	if sys := snap.Data.System; sys != nil {
		b.WriteString(label("Version") + styles.Text.Render(strings.TrimSpace(sys.AppName+" "+sys.Version)) + "\n")
		if sys.Branch != "" {
			b.WriteString(label("Branch") + styles.Text.Render(sys.Branch) + "\n")
		}
		if sys.OsName != "" {
			b.WriteString(label("OS") + styles.Text.Render(sys.OsName) + "\n")
		}
		if sys.StartTime != nil {
			b.WriteString(label("Started") + styles.Text.Render(format.RelativeDate(sys.StartTime, now)) + "\n")
		}
	}
	if snap.LastError != nil {
		b.WriteString(label("Last error") + styles.DangerText.Render(truncate(describeError(snap.LastError), width-12)) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.AccentText.Bold(true).Render("Health"))
	b.WriteString("\n")
	if len(snap.Data.Health) == 0 {
		b.WriteString(styles.SuccessText.Render("✓ No issues reported"))
	}
	for _, check := range snap.Data.Health {
		color := lipgloss.Color(m.theme.Palette(format.HealthLevel(check.Type)))
		b.WriteString(lipgloss.NewStyle().Foreground(color).Render(fmt.Sprintf("%-8s", format.Humanize(check.Type))))
		b.WriteString(styles.Text.Render(truncate(check.Message, max(width-8, 10))))
		b.WriteString("\n")
		if check.Source != "" {
			b.WriteString(styles.FaintText.Render("        " + check.Source))
			b.WriteString("\n")
		}
	}

	return m.renderTitledBox("Status", b.String(), m.width, m.contentHeight(), true)
}
