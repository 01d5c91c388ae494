package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/reel/internal/instance"
)

// instancePicker lists the configured instances for switching.
type instancePicker struct {
	list    []instance.Instance
	cursor  int
	loading bool
	err     error
}

// load fills the picker and places the cursor on current.
func (p *instancePicker) load(list []instance.Instance, err error, current instance.Instance) {
	p.loading = false
	p.err = err
	p.list = list
	p.cursor = 0
	for i, inst := range list {
		if inst.Same(current) {
			p.cursor = i
			break
		}
	}
}

func (p instancePicker) selected() (instance.Instance, bool) {
	if p.cursor < 0 || p.cursor >= len(p.list) {
		return instance.Instance{}, false
	}
	return p.list[p.cursor], true
}

func (m Model) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Instances):
		m.overlay = overlayNone
	case key.Matches(msg, m.keys.Up):
		m.picker.cursor = clamp(m.picker.cursor-1, 0, len(m.picker.list)-1)
	case key.Matches(msg, m.keys.Down):
		m.picker.cursor = clamp(m.picker.cursor+1, 0, len(m.picker.list)-1)
	case key.Matches(msg, m.keys.Open):
		inst, ok := m.picker.selected()
		if !ok {
			return m, nil
		}
		if inst.Same(m.inst) {
			m.overlay = overlayNone
			return m, nil
		}
		return m, switchInstanceCmd(m.ctx, m.session, inst)
	}
	return m, nil
}

func (m Model) renderPicker() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Radarr instances"))
	b.WriteString("\n\n")

	switch {
	case m.picker.loading:
		b.WriteString(styles.MutedText.Render(m.spinner.View() + " Loading..."))
	case m.picker.err != nil:
		b.WriteString(styles.DangerText.Render(describeError(m.picker.err)))
	case len(m.picker.list) == 0:
		b.WriteString(styles.MutedText.Render("No instances configured"))
	}

	width := min(64, max(m.width-8, 20))
	for i, inst := range m.picker.list {
		marker := "  "
		if inst.Same(m.inst) {
			marker = styles.SuccessText.Render("● ")
		}
		name := inst.Name
		if inst.IsDefault {
			name += " (default)"
		}
		line := fit(name, 22) + " " + truncateMiddle(instance.NormalizeURL(inst.URL), max(width-30, 10))
		if i == m.picker.cursor {
			line = styles.Selected.Render(line)
		} else {
			line = styles.Text.Render(line)
		}
		b.WriteString(marker + line + "\n")
	}

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2).
		Width(width + 4)

	return lipgloss.Place(m.width, m.contentHeight(), lipgloss.Center, lipgloss.Center, modal.Render(b.String()))
}
