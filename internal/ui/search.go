package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/reel/internal/format"
	"github.com/five82/reel/internal/radarr"
)

func (m Model) visibleResults() []radarr.MovieLookup {
	snap := m.results.Snapshot()
	if snap.Instance != m.inst.Name {
		return nil
	}
	return snap.Data
}

func (m Model) selectedResult() (radarr.MovieLookup, bool) {
	results := m.visibleResults()
	cur := m.cursor[ViewSearch]
	if cur < 0 || cur >= len(results) {
		return radarr.MovieLookup{}, false
	}
	return results[cur], true
}

// handleSearchInputKey handles keys while the search field has focus.
func (m Model) handleSearchInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		term := strings.TrimSpace(m.searchInput.Value())
		if term == "" {
			return m, nil
		}
		m.searchInput.Blur()
		if term == m.lastQuery && len(m.visibleResults()) > 0 {
			return m, nil
		}
		m.lastQuery = term
		m.cursor[ViewSearch] = 0
		return m, m.lookup(term)
	case tea.KeyEsc, tea.KeyTab, tea.KeyDown:
		m.searchInput.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// handleSearchKey handles keys on the result list.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.searchInput.Focus()
		return m, textinput.Blink
	case key.Matches(msg, m.keys.Open):
		result, ok := m.selectedResult()
		if !ok {
			return m, nil
		}
		if result.Added() {
			return m.withNote(format.MovieTitle(result.Title, result.Year) + " is already in the library")
		}
		m.form = newAddForm(result)
		m.overlay = overlayAdd
		return m, m.loadChoices()
	}
	return m, nil
}

func (m Model) renderSearch() string {
	styles := m.theme.Styles()
	snap := m.results.Snapshot()
	results := m.visibleResults()
	hasData := snap.HasData && snap.Instance == m.inst.Name

	input := m.searchInput.View()
	if !m.searchInput.Focused() {
		input = styles.MutedText.Render(m.searchInput.Prompt) + styles.Text.Render(m.searchInput.Value())
	}

	title := "Search & Add"
	if hasData && m.lastQuery != "" {
		title = fmt.Sprintf("Search & Add (%d)", len(results))
	}

	height := m.contentHeight() - 2
	var body string
	if msg := m.emptyState(snap.Loading, hasData && len(results) > 0, snap.LastError, m.searchHint(hasData)); msg != "" {
		body = lipgloss.Place(max(m.width-4, 1), max(height-2, 1), lipgloss.Center, lipgloss.Center, styles.MutedText.Render(msg))
	} else {
		body = m.renderList(m.resultColumns(results), m.resultRows(results), m.cursor[ViewSearch], m.width-4, height-2)
	}

	return m.renderTitledBox(title, input+"\n\n"+body, m.width, m.contentHeight(), true)
}

func (m Model) searchHint(hasData bool) string {
	if hasData && m.lastQuery != "" {
		return fmt.Sprintf("No movies match %q.", m.lastQuery)
	}
	return "Type a title and press enter."
}

func (m Model) resultColumns([]radarr.MovieLookup) []column {
	cols := []column{{"Title", 0}, {"Status", 12}, {"Runtime", 8}, {"Ratings", 22}}
	if m.width >= LayoutWideWidth {
		cols = append(cols, column{"Genres", 24})
	}
	return cols
}

func (m Model) resultRows(results []radarr.MovieLookup) [][]cell {
	styles := m.theme.Styles()
	wide := m.width >= LayoutWideWidth
	rows := make([][]cell, 0, len(results))
	for _, r := range results {
		status := cell{"Not added", styles.MutedText}
		if r.Added() {
			status = cell{"In library", styles.SuccessText}
		}
		row := []cell{
			{format.MovieTitle(r.Title, r.Year), styles.Text},
			status,
			{format.Runtime(r.Runtime), styles.MutedText},
			{format.Ratings(r.Ratings), styles.FaintText},
		}
		if wide {
			row = append(row, cell{format.Genres(r.Genres, 3), styles.FaintText})
		}
		rows = append(rows, row)
	}
	return rows
}

// Add form

type addField int

const (
	fieldProfile addField = iota
	fieldFolder
	fieldMonitored
	fieldSearch
	fieldCount
)

// addForm collects the placement choices for one lookup result.
type addForm struct {
	lookup     radarr.MovieLookup
	profiles   []radarr.QualityProfile
	folders    []radarr.RootFolder
	profileIdx int
	folderIdx  int
	monitored  bool
	search     bool
	field      addField
	loaded     bool
	busy       bool
}

func newAddForm(lookup radarr.MovieLookup) addForm {
	return addForm{lookup: lookup, monitored: true, search: true}
}

func (f *addForm) setChoices(data addChoices) {
	f.profiles = data.Profiles
	f.folders = data.Folders
	f.profileIdx = clamp(f.profileIdx, 0, len(f.profiles)-1)
	f.folderIdx = clamp(f.folderIdx, 0, len(f.folders)-1)
	f.loaded = true
}

// options returns the add options, or false while a profile or root folder is
// still missing.
func (f addForm) options() (radarr.AddOptions, bool) {
	if len(f.profiles) == 0 || len(f.folders) == 0 {
		return radarr.AddOptions{}, false
	}
	return radarr.AddOptions{
		QualityProfileID: f.profiles[f.profileIdx].ID,
		RootFolderPath:   f.folders[f.folderIdx].Path,
		Monitored:        f.monitored,
		SearchOnAdd:      f.search,
	}, true
}

func (f *addForm) cycle(delta int) {
	switch f.field {
	case fieldProfile:
		if n := len(f.profiles); n > 0 {
			f.profileIdx = (f.profileIdx + delta + n) % n
		}
	case fieldFolder:
		if n := len(f.folders); n > 0 {
			f.folderIdx = (f.folderIdx + delta + n) % n
		}
	case fieldMonitored:
		f.monitored = !f.monitored
	case fieldSearch:
		f.search = !f.search
	}
}

func (m Model) handleAddKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.form.busy {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Back):
		m.overlay = overlayNone
		return m, nil
	case key.Matches(msg, m.keys.Up):
		m.form.field = (m.form.field + fieldCount - 1) % fieldCount
	case key.Matches(msg, m.keys.Down):
		m.form.field = (m.form.field + 1) % fieldCount
	case key.Matches(msg, m.keys.Left):
		m.form.cycle(-1)
	case key.Matches(msg, m.keys.Right), key.Matches(msg, m.keys.Toggle):
		m.form.cycle(1)
	case key.Matches(msg, m.keys.Open):
		opts, ok := m.form.options()
		if !ok {
			return m, nil
		}
		m.form.busy = true
		return m, m.addMovie(m.form.lookup, opts)
	}
	return m, nil
}

// handleAdded closes the form on success and re-runs the search so the
// result shows as added. Failures keep the form open.
func (m Model) handleAdded(msg addedMsg) (tea.Model, tea.Cmd) {
	m.form.busy = false
	if msg.err != nil {
		return m.withError(msg.err)
	}
	m.overlay = overlayNone
	m.log.Info().Str("instance", msg.instance).Str("title", msg.title).Msg("added movie")
	m, note := m.withNote(fmt.Sprintf("Added %s to %s", msg.title, msg.instance))
	if msg.instance != m.inst.Name {
		return m, note
	}
	return m, tea.Batch(note, m.load(ViewSearch))
}

func (m Model) renderAddForm() string {
	styles := m.theme.Styles()
	f := m.form

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Add " + format.MovieTitle(f.lookup.Title, f.lookup.Year)))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(fmt.Sprintf("to %s", m.inst.Name)))
	b.WriteString("\n\n")

	choices := m.choices.Snapshot()
	switch {
	case choices.LastError != nil && !f.loaded:
		b.WriteString(styles.DangerText.Render(describeError(choices.LastError)))
		b.WriteString("\n")
	case !f.loaded:
		b.WriteString(styles.MutedText.Render(m.spinner.View() + " Loading profiles and folders..."))
		b.WriteString("\n")
	default:
		profile := "none available"
		if len(f.profiles) > 0 {
			profile = f.profiles[f.profileIdx].Name
		}
		folder := "none available"
		if len(f.folders) > 0 {
			rf := f.folders[f.folderIdx]
			folder = fmt.Sprintf("%s (%s free)", rf.Path, format.Bytes(rf.FreeSpace))
		}
		m.writeFormRow(&b, fieldProfile, "Quality profile", "‹ "+profile+" ›")
		m.writeFormRow(&b, fieldFolder, "Root folder", "‹ "+folder+" ›")
		m.writeFormRow(&b, fieldMonitored, "Monitored", yesNo(f.monitored))
		m.writeFormRow(&b, fieldSearch, "Search on add", yesNo(f.search))
	}

	b.WriteString("\n")
	if f.busy {
		b.WriteString(styles.WarningText.Render(m.spinner.View() + " Adding..."))
	} else {
		b.WriteString(styles.AccentText.Render("enter") + styles.MutedText.Render(" add  ") +
			styles.AccentText.Render("esc") + styles.MutedText.Render(" cancel"))
	}

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2).
		Width(min(72, max(m.width-4, 20)))

	return lipgloss.Place(m.width, m.contentHeight(), lipgloss.Center, lipgloss.Center, modal.Render(b.String()))
}

func (m Model) writeFormRow(b *strings.Builder, field addField, label, value string) {
	styles := m.theme.Styles()
	valueStyle := styles.Text
	marker := "  "
	if m.form.field == field {
		valueStyle = styles.Selected
		marker = styles.AccentText.Render("› ")
	}
	b.WriteString(marker)
	b.WriteString(styles.MutedText.Render(fmt.Sprintf("%-17s", label)))
	b.WriteString(valueStyle.Render(value))
	b.WriteString("\n")
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
