package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/reel/internal/instance"
	"github.com/five82/reel/internal/radarr"
	"github.com/five82/reel/internal/state"
)

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which compact mode is used.
	LayoutCompactWidth = 100

	// LayoutWideWidth is the minimum width to show secondary columns.
	LayoutWideWidth = 130
)

// noteTTL is how long a notification stays on screen.
const noteTTL = 6 * time.Second

type notification struct {
	id    int
	text  string
	isErr bool
}

type noteExpiredMsg int

// withNote shows text on the notification line until it expires.
func (m Model) withNote(text string) (Model, tea.Cmd) {
	return m.notify(text, false)
}

// withError logs err and shows it on the notification line.
func (m Model) withError(err error) (Model, tea.Cmd) {
	if err == nil {
		return m, nil
	}
	m.log.Warn().Err(err).Str("instance", m.inst.Name).Msg("request failed")
	return m.notify(describeError(err), true)
}

func (m Model) notify(text string, isErr bool) (Model, tea.Cmd) {
	m.noteSeq++
	id := m.noteSeq
	m.note = notification{id: id, text: text, isErr: isErr}
	return m, tea.Tick(noteTTL, func(time.Time) tea.Msg { return noteExpiredMsg(id) })
}

// describeError turns an error into one notification line.
func describeError(err error) string {
	var apiErr *radarr.APIError
	var cfgErr *instance.ConfigurationError
	switch {
	case errors.As(err, &cfgErr):
		return "Configuration: " + cfgErr.Err.Error()
	case errors.As(err, &apiErr) && radarr.IsUnauthorized(err):
		return fmt.Sprintf("%s rejected the API key", apiErr.Instance)
	default:
		return err.Error()
	}
}

// viewMeta summarizes the fetch state of one view.
type viewMeta struct {
	loading  bool
	updated  time.Time
	err      error
	offline  bool
}

func metaOf[T any](s state.Snapshot[T]) viewMeta {
	return viewMeta{
		loading:  s.Loading,
		updated:  s.LastUpdated,
		err:      s.LastError,
		offline:  s.IsOffline(),
	}
}

func (m Model) meta(v View) viewMeta {
	switch v {
	case ViewQueue:
		return metaOf(m.queue.Snapshot())
	case ViewStatus:
		return metaOf(m.status.Snapshot())
	case ViewSearch:
		return metaOf(m.results.Snapshot())
	default:
		return metaOf(m.movieStore(v).Snapshot())
	}
}

func (m Model) loading() bool          { return m.meta(m.view).loading }
func (m Model) lastUpdated() time.Time { return m.meta(m.view).updated }
func (m Model) currentError() error    { return m.meta(m.view).err }
func (m Model) offline() bool          { return m.meta(m.view).offline }

// handleCurrent applies a resolved or switched instance and loads the
// active view against it.
func (m Model) handleCurrent(msg currentMsg) (tea.Model, tea.Cmd) {
	m.resolved = true
	if msg.err != nil {
		m.inst = instance.Instance{}
		m.instErr = msg.err
		m.log.Warn().Err(msg.err).Msg("no instance selected")
		return m.withError(msg.err)
	}

	changed := !m.inst.Same(msg.inst)
	m.inst = msg.inst
	m.instErr = nil
	if changed {
		for v := range m.cursor {
			m.cursor[v] = 0
		}
	}

	var cmds []tea.Cmd
	if m.view == ViewSearch {
		m.searchInput.Focus()
		cmds = append(cmds, textinput.Blink)
		if changed {
			m.lastQuery = ""
		}
	} else {
		cmds = append(cmds, m.load(m.view))
	}

	if msg.switched {
		m.overlay = overlayNone
		m.log.Info().Str("instance", m.inst.Name).Msg("switched instance")
		var note tea.Cmd
		if msg.saveErr != nil {
			m, note = m.withError(fmt.Errorf("remember %s: %w", m.inst.Name, msg.saveErr))
		} else {
			m, note = m.withNote("Switched to " + m.inst.Name)
		}
		cmds = append(cmds, note)
	}
	return m, tea.Batch(cmds...)
}

// renderHeader renders the status bar with the current instance.
func (m Model) renderHeader() string {
	b := newBar(m.theme)
	styles := b.styles
	compact := m.width < LayoutCompactWidth

	b.add(b.paint("reel", styles.Logo))

	switch {
	case !m.resolved:
		b.add(b.paint("Resolving instance...", styles.WarningText.Bold(true)))
	case m.inst.IsZero():
		b.add(b.paint("NO INSTANCE", styles.DangerText))
	default:
		b.add(b.paint("●", m.connectionStyle(styles)), b.paint(" ", styles.Text),
			b.paint(m.inst.Name, styles.Text.Bold(true)))
		if !compact {
			b.add(b.paint(truncateMiddle(instance.NormalizeURL(m.inst.URL), 40), styles.MutedText))
		}
	}

	b.add(m.renderViewTabs(b, compact))

	if m.loading() {
		b.add(b.paint(m.spinner.View(), styles.AccentText))
	} else if updated := m.lastUpdated(); !updated.IsZero() {
		b.add(b.paint(updated.Format("15:04:05"), styles.MutedText))
	}

	return b.render(m.width, 2)
}

func (m Model) connectionStyle(styles Styles) lipgloss.Style {
	switch {
	case m.offline():
		return styles.DangerText
	case m.currentError() != nil:
		return styles.WarningText
	default:
		return styles.SuccessText
	}
}

func (m Model) renderViewTabs(b *bar, compact bool) string {
	tabs := make([]string, 0, len(viewOrder))
	for i, v := range viewOrder {
		label := v.Title()
		if v == ViewSearch {
			label = "Search"
		}
		if compact {
			label = label[:1]
		}
		if i < 6 {
			label = fmt.Sprintf("%d %s", i+1, label)
		}
		style := b.styles.MutedText
		if v == m.view {
			style = b.styles.AccentText.Bold(true)
		}
		tabs = append(tabs, b.paint(label, style))
	}
	return b.join(tabs, " · ")
}

// renderCommandBar renders the key hints for the active view.
func (m Model) renderCommandBar() string {
	type cmd struct{ key, desc string }
	var commands []cmd

	switch {
	case m.overlay == overlayDetail:
		commands = []cmd{{"j/k", "Scroll"}, {"esc", "Close"}}
	case m.overlay == overlayInstances:
		commands = []cmd{{"j/k", "Navigate"}, {"enter", "Use"}, {"esc", "Cancel"}}
	case m.overlay == overlayRemove:
		commands = []cmd{{"y", "Confirm"}, {"space", "Toggle blocklist"}, {"esc", "Cancel"}}
	case m.overlay == overlayAdd:
		commands = []cmd{{"j/k", "Field"}, {"h/l", "Change"}, {"space", "Toggle"}, {"enter", "Add"}, {"esc", "Cancel"}}
	case m.view == ViewSearch && m.searchInput.Focused():
		commands = []cmd{{"enter", "Search"}, {"tab", "Results"}, {"esc", "Back"}}
	case m.view == ViewSearch:
		commands = []cmd{{"j/k", "Navigate"}, {"enter", "Add"}, {"/", "Edit search"}, {"?", "More"}}
	case m.view == ViewQueue:
		commands = []cmd{{"j/k", "Navigate"}, {"x", "Remove"}, {"b", "Blocklist"}, {"r", "Refresh"}, {"i", "Instance"}, {"?", "More"}}
	case m.view == ViewStatus:
		commands = []cmd{{"r", "Refresh"}, {"i", "Instance"}, {"?", "More"}}
	default:
		commands = []cmd{{"j/k", "Navigate"}, {"enter", "Details"}, {"r", "Refresh"}, {"/", "Search"}, {"i", "Instance"}, {"?", "More"}}
	}

	b := newBar(m.theme)
	for _, c := range commands {
		b.hint(c.key, c.desc, b.styles.MutedText)
	}
	b.hint("T", m.theme.Name, b.styles.FaintText)
	return b.render(m.width, 2)
}

// renderNotification renders the single notification line.
func (m Model) renderNotification() string {
	styles := m.theme.Styles()
	if m.note.text == "" {
		return lipgloss.NewStyle().Width(m.width).Render("")
	}
	style := styles.SuccessText
	prefix := "✓ "
	if m.note.isErr {
		style = styles.DangerText
		prefix = "✗ "
	}
	return lipgloss.NewStyle().Width(m.width).Padding(0, 1).
		Render(style.Render(truncate(prefix+m.note.text, max(m.width-2, 1))))
}

// renderTitledBox draws content in a rounded border with title set into the
// top edge.
func (m Model) renderTitledBox(title, content string, width, height int, focused bool) string {
	borderColor := m.theme.Border
	if focused {
		borderColor = m.theme.BorderFocus
	}
	border := lipgloss.RoundedBorder()
	edge := lipgloss.NewStyle().Foreground(lipgloss.Color(borderColor))
	titleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Accent)).Bold(true)

	width = max(width, 8)
	inner := width - 2
	title = truncate(title, inner-4)
	fill := max(inner-lipgloss.Width(title)-3, 0)
	top := edge.Render(border.TopLeft+border.Top+" ") +
		titleStyle.Render(title) +
		edge.Render(" "+strings.Repeat(border.Top, fill)+border.TopRight)

	body := lipgloss.NewStyle().
		Border(border, false, true, true, true).
		BorderForeground(lipgloss.Color(borderColor)).
		Width(inner).
		Height(max(height-2, 1)).
		MaxHeight(max(height-1, 2)).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, top, body)
}

// renderEmpty renders a centered placeholder message inside the content box.
func (m Model) renderEmpty(title, message string) string {
	styles := m.theme.Styles()
	body := lipgloss.Place(max(m.width-4, 1), max(m.contentHeight()-4, 1),
		lipgloss.Center, lipgloss.Center, styles.MutedText.Render(message))
	return m.renderTitledBox(title, body, m.width, m.contentHeight(), true)
}

// emptyState returns the placeholder message for a view that has nothing to
// show, or "" when rows are available.
func (m Model) emptyState(loading, hasData bool, err error, empty string) string {
	switch {
	case !m.resolved:
		return "Resolving Radarr instance..."
	case m.inst.IsZero():
		path := m.configPath
		if path == "" {
			path = "the config file"
		}
		return fmt.Sprintf("No Radarr instance configured.\nAdd one to %s and restart.", path)
	case err != nil && !hasData:
		return fmt.Sprintf("%s\n\nPress r to retry.", describeError(err))
	case loading && !hasData:
		return m.spinner.View() + " Loading..."
	case !hasData:
		return empty
	}
	return ""
}

// truncateMiddle truncates a string in the middle, preserving start and end.
func truncateMiddle(s string, limit int) string {
	r := []rune(s)
	if limit <= 0 {
		return ""
	}
	if len(r) <= limit {
		return s
	}
	if limit <= 5 {
		return string(r[:limit])
	}
	endLen := (limit - 3) * 2 / 3
	startLen := limit - 3 - endLen
	return string(r[:startLen]) + "..." + string(r[len(r)-endLen:])
}
