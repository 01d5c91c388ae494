package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/reel/internal/format"
	"github.com/five82/reel/internal/radarr"
)

// visibleMovies returns the rows of v fetched from the current instance.
func (m Model) visibleMovies(v View) []radarr.Movie {
	snap := m.movieStore(v).Snapshot()
	if snap.Instance != m.inst.Name {
		return nil
	}
	return snap.Data
}

func (m Model) selectedMovie() (radarr.Movie, bool) {
	movies := m.visibleMovies(m.view)
	cur := m.cursor[m.view]
	if cur < 0 || cur >= len(movies) {
		return radarr.Movie{}, false
	}
	return movies[cur], true
}

var emptyMessages = map[View]string{
	ViewLibrary:     "The library is empty.\nPress / to search for a movie to add.",
	ViewMissing:     "Nothing is missing. Every monitored movie has a file.",
	ViewCalendar:    "No releases in this window.",
	ViewUnmonitored: "Every movie in the library is monitored.",
}

// renderMovies renders one of the movie list views.
func (m Model) renderMovies(v View) string {
	snap := m.movieStore(v).Snapshot()
	movies := m.visibleMovies(v)
	hasData := snap.HasData && snap.Instance == m.inst.Name

	title := v.Title()
	if hasData {
		title = fmt.Sprintf("%s (%d)", title, len(movies))
	}
	if v == ViewCalendar {
		window := m.calendarWindow()
		title += fmt.Sprintf("  %s - %s", window.start.Format("Jan 2"), window.end.AddDate(0, 0, -1).Format("Jan 2"))
	}

	if msg := m.emptyState(snap.Loading, hasData && len(movies) > 0, snap.LastError, emptyMessages[v]); msg != "" {
		return m.renderEmpty(title, msg)
	}

	cols, rows := m.movieRows(v, movies)
	body := m.renderList(cols, rows, m.cursor[v], m.width-4, m.contentHeight()-2)
	return m.renderTitledBox(title, body, m.width, m.contentHeight(), true)
}

func (m Model) movieRows(v View, movies []radarr.Movie) ([]column, [][]cell) {
	styles := m.theme.Styles()
	now := m.now()
	wide := m.width >= LayoutWideWidth

	var cols []column
	switch v {
	case ViewMissing, ViewCalendar:
		cols = []column{{"Title", 0}, {"Release", 12}, {"Date", 13}, {"Status", 13}}
	case ViewUnmonitored:
		cols = []column{{"Title", 0}, {"Status", 13}, {"Added", 16}}
	default:
		cols = []column{{"Title", 0}, {"Status", 13}, {"Quality", 16}, {"Size", 10}}
	}
	if wide {
		cols = append(cols, column{"Genres", 24})
	}

	rows := make([][]cell, 0, len(movies))
	for _, mv := range movies {
		avail := format.Availability(mv, now)
		status := cell{avail.Label, lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Palette(avail.Color)))}
		title := cell{format.MovieTitle(mv.Title, mv.Year), styles.Text}

		var row []cell
		switch v {
		case ViewMissing, ViewCalendar:
			row = []cell{title, {avail.DateKind, styles.MutedText}, {format.Date(avail.Date), styles.Text}, status}
		case ViewUnmonitored:
			row = []cell{title, status, {format.RelativeDate(mv.Added, now), styles.MutedText}}
		default:
			size := "-"
			if mv.SizeOnDisk > 0 {
				size = format.Bytes(mv.SizeOnDisk)
			}
			row = []cell{title, status, {format.QualityName(mv), styles.MutedText}, {size, styles.MutedText}}
		}
		if wide {
			row = append(row, cell{format.Genres(mv.Genres, 3), styles.FaintText})
		}
		rows = append(rows, row)
	}
	return cols, rows
}

// openDetail shows the selected movie with its history.
func (m Model) openDetail() (tea.Model, tea.Cmd) {
	movie, ok := m.selectedMovie()
	if !ok {
		return m, nil
	}
	m.overlay = overlayDetail
	m.detailViewport.GotoTop()
	cmd := m.loadDetail(movie.ID)
	m.refreshDetailViewport()
	return m, cmd
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Quit):
		m.overlay = overlayNone
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		if movie, ok := m.selectedMovie(); ok {
			return m, m.loadDetail(movie.ID)
		}
		return m, nil
	case key.Matches(msg, m.keys.Top):
		m.detailViewport.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.detailViewport.GotoBottom()
		return m, nil
	}
	var cmd tea.Cmd
	m.detailViewport, cmd = m.detailViewport.Update(msg)
	return m, cmd
}

func (m Model) renderDetail() string {
	title := "Movie"
	if movie, ok := m.selectedMovie(); ok {
		title = format.MovieTitle(movie.Title, movie.Year)
	}
	return m.renderTitledBox(title, m.detailViewport.View(), m.overlayWidth(), m.contentHeight(), true)
}

// refreshDetailViewport re-renders the detail body into the viewport.
func (m *Model) refreshDetailViewport() {
	if !m.ready || m.overlay != overlayDetail {
		return
	}
	m.detailViewport.SetContent(m.detailContent(max(m.detailViewport.Width, 20)))
}

func (m Model) detailContent(width int) string {
	styles := m.theme.Styles()
	snap := m.detail.Snapshot()

	movie, ok := m.selectedMovie()
	if !ok {
		return styles.MutedText.Render("No movie selected")
	}
	// The store keeps the previous movie's data while the next one loads.
	fresh := snap.HasData && snap.Data.Movie != nil && snap.Data.Movie.ID == movie.ID
	if fresh {
		movie = *snap.Data.Movie
	}

	now := m.now()
	avail := format.Availability(movie, now)
	label := func(s string) string { return styles.MutedText.Render(fmt.Sprintf("%-14s", s)) }

	var b strings.Builder
	line := func(name, value string) {
		if strings.TrimSpace(value) == "" {
			return
		}
		b.WriteString(label(name))
		b.WriteString(styles.Text.Render(value))
		b.WriteString("\n")
	}

	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Palette(avail.Color))).Bold(true).Render(avail.Label))
	if !movie.Monitored {
		b.WriteString(styles.FaintText.Render("  (unmonitored)"))
	}
	b.WriteString("\n\n")

	line("Runtime", format.Runtime(movie.Runtime))
	line("Genres", format.Genres(movie.Genres, 0))
	line("Studio", movie.Studio)
	line("Certification", movie.Certification)
	line("Ratings", format.Ratings(movie.Ratings))
	line("In cinemas", dateOrEmpty(movie.InCinemas))
	line("Digital", dateOrEmpty(movie.DigitalRelease))
	line("Physical", dateOrEmpty(movie.PhysicalRelease))
	line("Path", movie.Path)
	if movie.MovieFile != nil {
		line("File", movie.MovieFile.RelativePath)
		line("Quality", format.QualityName(movie))
		line("Size", format.Bytes(movie.MovieFile.Size))
		line("Imported", format.RelativeDate(movie.MovieFile.DateAdded, now))
	}

	if overview := strings.TrimSpace(movie.Overview); overview != "" {
		b.WriteString("\n")
		for _, l := range wrap(overview, width) {
			b.WriteString(styles.Text.Render(l))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(styles.AccentText.Bold(true).Render("History"))
	b.WriteString("\n")
	switch {
	case snap.LastError != nil && !snap.Loading:
		b.WriteString(styles.DangerText.Render(describeError(snap.LastError)))
	case !fresh:
		b.WriteString(styles.MutedText.Render(m.spinner.View() + " Loading..."))
	case len(snap.Data.History) == 0:
		b.WriteString(styles.MutedText.Render("No history"))
	default:
		for _, h := range snap.Data.History {
			when := h.Date
			b.WriteString(styles.MutedText.Render(fmt.Sprintf("%-16s", format.RelativeDate(&when, now))))
			b.WriteString(styles.InfoText.Render(fmt.Sprintf("%-18s", format.Humanize(h.EventType))))
			b.WriteString(styles.Text.Render(truncate(h.SourceTitle, max(width-36, 10))))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func dateOrEmpty(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return format.Date(t)
}
