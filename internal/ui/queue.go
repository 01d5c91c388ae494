package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/reel/internal/format"
	"github.com/five82/reel/internal/radarr"
)

const progressBarWidth = 10

func (m Model) visibleQueue() []radarr.QueueItem {
	snap := m.queue.Snapshot()
	if snap.Instance != m.inst.Name {
		return nil
	}
	return snap.Data
}

func (m Model) selectedQueueItem() (radarr.QueueItem, bool) {
	items := m.visibleQueue()
	cur := m.cursor[ViewQueue]
	if cur < 0 || cur >= len(items) {
		return radarr.QueueItem{}, false
	}
	return items[cur], true
}

// queueTitle prefers the linked movie's title over the release name.
func queueTitle(q radarr.QueueItem) string {
	if q.Movie != nil && q.Movie.Title != "" {
		return format.MovieTitle(q.Movie.Title, q.Movie.Year)
	}
	if q.Title != "" {
		return q.Title
	}
	return fmt.Sprintf("Queue item %d", q.ID)
}

func (m Model) renderQueue() string {
	snap := m.queue.Snapshot()
	items := m.visibleQueue()
	hasData := snap.HasData && snap.Instance == m.inst.Name

	title := "Queue"
	if hasData {
		title = fmt.Sprintf("Queue (%d)", len(items))
	}
	if msg := m.emptyState(snap.Loading, hasData && len(items) > 0, snap.LastError, "The download queue is empty."); msg != "" {
		return m.renderEmpty(title, msg)
	}

	styles := m.theme.Styles()
	now := m.now()
	wide := m.width >= LayoutWideWidth

	cols := []column{{"Title", 0}, {"Status", 16}, {"Progress", progressBarWidth + 5}, {"Size", 10}, {"Time left", 10}}
	if wide {
		cols = append(cols, column{"Client", 14}, column{"Quality", 14})
	}

	rows := make([][]cell, 0, len(items))
	for _, q := range items {
		label, color := format.QueueStatus(q)
		progress := format.Progress(q)
		size := format.UnknownSize
		bar := "-"
		if progress.Known {
			size = format.Bytes(int64(q.Size))
			bar = progressBar(progress.Percent, progressBarWidth)
		}
		row := []cell{
			{queueTitle(q), styles.Text},
			{label, lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Palette(color)))},
			{bar, styles.AccentText},
			{size, styles.MutedText},
			{format.TimeRemaining(q, now), styles.MutedText},
		}
		if wide {
			row = append(row, cell{q.DownloadClient, styles.FaintText}, cell{q.Quality.Quality.Name, styles.FaintText})
		}
		rows = append(rows, row)
	}

	// The selected item's warnings go under the list.
	listHeight := m.contentHeight() - 2
	var footer string
	if q, ok := m.selectedQueueItem(); ok {
		if summary := q.Summary(); summary != "" {
			footer = "\n" + styles.WarningText.Render(truncate(summary, max(m.width-4, 10)))
			listHeight--
		}
	}

	body := m.renderList(cols, rows, m.cursor[ViewQueue], m.width-4, listHeight) + footer
	return m.renderTitledBox(title, body, m.width, m.contentHeight(), true)
}

// progressBar renders a fixed-width bar followed by the percentage.
func progressBar(percent, width int) string {
	percent = clamp(percent, 0, 100)
	filled := percent * width / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + fmt.Sprintf(" %d%%", percent)
}

func (m Model) handleQueueKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Remove), key.Matches(msg, m.keys.Blocklist):
		item, ok := m.selectedQueueItem()
		if !ok {
			return m, nil
		}
		m.removing = &item
		m.removeOpts = radarr.RemoveOptions{
			RemoveFromClient: true,
			Blocklist:        key.Matches(msg, m.keys.Blocklist),
		}
		m.overlay = overlayRemove
		return m, nil
	}
	return m, nil
}

func (m Model) handleRemoveKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Back), msg.String() == "n":
		m.overlay = overlayNone
		m.removing = nil
		return m, nil
	case key.Matches(msg, m.keys.Toggle):
		m.removeOpts.Blocklist = !m.removeOpts.Blocklist
		return m, nil
	case msg.String() == "c":
		m.removeOpts.RemoveFromClient = !m.removeOpts.RemoveFromClient
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		if m.removing == nil {
			m.overlay = overlayNone
			return m, nil
		}
		m.busy = true
		return m, m.removeQueueItem(*m.removing, m.removeOpts)
	}
	return m, nil
}

// handleRemoved closes the confirmation and refreshes the queue. An item the
// server no longer knows was already removed, so it is not an error.
func (m Model) handleRemoved(msg removedMsg) (tea.Model, tea.Cmd) {
	m.busy = false
	m.overlay = overlayNone
	m.removing = nil

	var note tea.Cmd
	switch {
	case msg.err == nil:
		m.log.Info().Str("instance", msg.instance).Str("title", msg.title).Msg("removed queue item")
		m, note = m.withNote("Removed " + msg.title)
	case radarr.IsNotFound(msg.err):
		m.log.Debug().Str("instance", msg.instance).Str("title", msg.title).Msg("queue item already gone")
		m, note = m.withNote(msg.title + " was already removed")
	default:
		return m.withError(msg.err)
	}
	if msg.instance != m.inst.Name {
		return m, note
	}
	return m, tea.Batch(note, m.load(ViewQueue))
}

func (m Model) renderRemoveConfirm() string {
	styles := m.theme.Styles()
	if m.removing == nil {
		return m.renderQueue()
	}

	check := func(on bool) string {
		if on {
			return styles.SuccessText.Render("[x]")
		}
		return styles.MutedText.Render("[ ]")
	}

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Remove from queue?"))
	b.WriteString("\n\n")
	b.WriteString(styles.Text.Render(queueTitle(*m.removing)))
	b.WriteString("\n")
	if m.removing.Title != "" && m.removing.Movie != nil {
		b.WriteString(styles.FaintText.Render(truncate(m.removing.Title, 56)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(check(m.removeOpts.RemoveFromClient) + styles.Text.Render(" Remove from download client") + styles.FaintText.Render("  (c)"))
	b.WriteString("\n")
	b.WriteString(check(m.removeOpts.Blocklist) + styles.Text.Render(" Blocklist release") + styles.FaintText.Render("  (space)"))
	b.WriteString("\n\n")
	if m.busy {
		b.WriteString(styles.WarningText.Render(m.spinner.View() + " Removing..."))
	} else {
		b.WriteString(styles.AccentText.Render("y") + styles.MutedText.Render(" confirm  ") +
			styles.AccentText.Render("esc") + styles.MutedText.Render(" cancel"))
	}

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Danger)).
		Padding(1, 2).
		Width(min(64, max(m.width-4, 20)))

	return lipgloss.Place(m.width, m.contentHeight(), lipgloss.Center, lipgloss.Center, modal.Render(b.String()))
}
