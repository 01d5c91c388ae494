package ui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/five82/reel/internal/instance"
	"github.com/five82/reel/internal/radarr"
)

var (
	home   = instance.Instance{Name: "Home", URL: "http://home:7878", APIKey: "k1", IsDefault: true}
	remote = instance.Instance{Name: "Remote", URL: "https://remote.example.com", APIKey: "k2"}
)

type fakeFetcher struct {
	radarr.Fetcher // unimplemented methods panic

	mu       sync.Mutex
	movies   []radarr.Movie
	missing  []radarr.Movie
	queue    []radarr.QueueItem
	lookup   []radarr.MovieLookup
	profiles []radarr.QualityProfile
	folders  []radarr.RootFolder
	err      error

	calendarRange radarr.CalendarRange
	term          string
	added         *radarr.AddOptions
	removed       []int64
}

func (f *fakeFetcher) Movies(context.Context) ([]radarr.Movie, error) {
	return append([]radarr.Movie(nil), f.movies...), f.err
}

func (f *fakeFetcher) WantedMissing(context.Context) ([]radarr.Movie, error) {
	return append([]radarr.Movie(nil), f.missing...), f.err
}

func (f *fakeFetcher) Calendar(_ context.Context, window radarr.CalendarRange) ([]radarr.Movie, error) {
	f.mu.Lock()
	f.calendarRange = window
	f.mu.Unlock()
	return append([]radarr.Movie(nil), f.movies...), f.err
}

func (f *fakeFetcher) Queue(context.Context) ([]radarr.QueueItem, error) {
	return f.queue, f.err
}

func (f *fakeFetcher) LookupMovies(_ context.Context, term string) ([]radarr.MovieLookup, error) {
	f.mu.Lock()
	f.term = term
	f.mu.Unlock()
	return f.lookup, f.err
}

func (f *fakeFetcher) QualityProfiles(context.Context) ([]radarr.QualityProfile, error) {
	return f.profiles, nil
}

func (f *fakeFetcher) RootFolders(context.Context) ([]radarr.RootFolder, error) {
	return f.folders, nil
}

func (f *fakeFetcher) AddMovie(_ context.Context, lookup radarr.MovieLookup, opts radarr.AddOptions) (*radarr.Movie, error) {
	f.mu.Lock()
	f.added = &opts
	f.mu.Unlock()
	movie := lookup.Movie
	movie.ID = 99
	return &movie, nil
}

func (f *fakeFetcher) RemoveQueueItem(_ context.Context, id int64, _ radarr.RemoveOptions) error {
	f.mu.Lock()
	f.removed = append(f.removed, id)
	f.mu.Unlock()
	return f.err
}

type fakeSession struct {
	list     []instance.Instance
	current  instance.Instance
	err      error
	fetchers map[string]*fakeFetcher
	switched []string
}

func (s *fakeSession) Instances() ([]instance.Instance, error) { return s.list, s.err }

func (s *fakeSession) Current(context.Context) (instance.Instance, error) {
	return s.current, s.err
}

func (s *fakeSession) Switch(_ context.Context, inst instance.Instance) error {
	s.switched = append(s.switched, inst.Name)
	s.current = inst
	return nil
}

func (s *fakeSession) Client(inst instance.Instance) (radarr.Fetcher, error) {
	f, ok := s.fetchers[inst.Name]
	if !ok {
		return nil, errors.New("unknown instance")
	}
	return f, nil
}

var fixedNow = time.Date(2024, 6, 15, 14, 30, 0, 0, time.UTC)

func newTestModel(t *testing.T, session *fakeSession) Model {
	t.Helper()
	m := New(Options{
		Session:   session,
		PrefsPath: t.TempDir() + "/prefs.toml",
		Logger:    zerolog.Nop(),
		Now:       func() time.Time { return fixedNow },
	})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 140, Height: 40})
	return updated.(Model)
}

func withInstance(m Model, inst instance.Instance) Model {
	m.inst = inst
	m.resolved = true
	return m
}

func apply(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	updated, _ := m.Update(msg)
	return updated.(Model)
}

func movie(id int64, sortTitle string, monitored bool) radarr.Movie {
	return radarr.Movie{ID: id, Title: sortTitle, SortTitle: sortTitle, Monitored: monitored}
}

func TestLibraryLoadsSorted(t *testing.T) {
	f := &fakeFetcher{movies: []radarr.Movie{movie(1, "zodiac", true), movie(2, "alien", true), movie(3, "matrix", false)}}
	session := &fakeSession{fetchers: map[string]*fakeFetcher{"Home": f}}
	m := withInstance(newTestModel(t, session), home)

	m = apply(t, m, m.load(ViewLibrary)())

	got := m.visibleMovies(ViewLibrary)
	if len(got) != 3 || got[0].SortTitle != "alien" || got[2].SortTitle != "zodiac" {
		t.Fatalf("library = %+v, want sorted by sort title", got)
	}
	if !strings.Contains(m.View(), "Library (3)") {
		t.Fatalf("View() missing library title:\n%s", m.View())
	}
}

func TestUnmonitoredFiltersLibrary(t *testing.T) {
	f := &fakeFetcher{movies: []radarr.Movie{movie(1, "zodiac", true), movie(2, "heat", false), movie(3, "alien", false)}}
	session := &fakeSession{fetchers: map[string]*fakeFetcher{"Home": f}}
	m := withInstance(newTestModel(t, session), home)

	m = apply(t, m, m.load(ViewUnmonitored)())

	got := m.visibleMovies(ViewUnmonitored)
	if len(got) != 2 || got[0].SortTitle != "alien" || got[1].SortTitle != "heat" {
		t.Fatalf("unmonitored = %+v, want [alien heat]", got)
	}
}

func TestCalendarWindow(t *testing.T) {
	f := &fakeFetcher{}
	session := &fakeSession{fetchers: map[string]*fakeFetcher{"Home": f}}
	m := withInstance(newTestModel(t, session), home)

	m.load(ViewCalendar)()

	wantStart := time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2024, 7, 14, 0, 0, 0, 0, time.UTC)
	if !f.calendarRange.Start.Equal(wantStart) || !f.calendarRange.End.Equal(wantEnd) {
		t.Fatalf("calendar range = %v - %v, want %v - %v", f.calendarRange.Start, f.calendarRange.End, wantStart, wantEnd)
	}
	if !f.calendarRange.Unmonitored {
		t.Fatalf("calendar should include unmonitored movies")
	}
}

func TestCalendarSortsByRelease(t *testing.T) {
	late := fixedNow.AddDate(0, 0, 10)
	early := fixedNow.AddDate(0, 0, -3)
	movies := []radarr.Movie{
		{ID: 1, Title: "Undated"},
		{ID: 2, Title: "Late", DigitalRelease: &late},
		{ID: 3, Title: "Early", InCinemas: &early},
	}
	sortByRelease(movies)
	if movies[0].ID != 3 || movies[1].ID != 2 || movies[2].ID != 1 {
		t.Fatalf("order = %d %d %d, want 3 2 1", movies[0].ID, movies[1].ID, movies[2].ID)
	}
}

func TestStaleResponseAfterInstanceSwitchIsDropped(t *testing.T) {
	homeF := &fakeFetcher{movies: []radarr.Movie{movie(1, "home movie", true)}}
	remoteF := &fakeFetcher{movies: []radarr.Movie{movie(2, "remote movie", true)}}
	session := &fakeSession{fetchers: map[string]*fakeFetcher{"Home": homeF, "Remote": remoteF}}
	m := withInstance(newTestModel(t, session), home)

	homeCmd := m.load(ViewLibrary)
	m = withInstance(m, remote)
	remoteCmd := m.load(ViewLibrary)

	m = apply(t, m, remoteCmd())
	m = apply(t, m, homeCmd())

	got := m.visibleMovies(ViewLibrary)
	if len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("library = %+v, want only the remote movie", got)
	}
}

func TestNoInstanceRendersConfigHint(t *testing.T) {
	session := &fakeSession{err: &instance.ConfigurationError{Err: instance.ErrNoInstancesConfigured}}
	m := newTestModel(t, session)
	m.configPath = "/home/me/.config/reel/config.toml"

	m = apply(t, m, resolveCurrentCmd(context.Background(), session)())

	if !m.inst.IsZero() || m.instErr == nil {
		t.Fatalf("expected empty instance and an error, got %+v %v", m.inst, m.instErr)
	}
	view := m.View()
	if !strings.Contains(view, "No Radarr instance configured") || !strings.Contains(view, "config.toml") {
		t.Fatalf("View() missing config hint:\n%s", view)
	}
	if !m.note.isErr {
		t.Fatalf("expected an error notification")
	}
}

func TestSwitchViewKeyLoads(t *testing.T) {
	f := &fakeFetcher{queue: []radarr.QueueItem{{ID: 7, Title: "release", Size: 100, SizeLeft: 25}}}
	session := &fakeSession{fetchers: map[string]*fakeFetcher{"Home": f}}
	m := withInstance(newTestModel(t, session), home)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("3")})
	m = updated.(Model)
	if m.view != ViewQueue || cmd == nil {
		t.Fatalf("view = %v, cmd nil = %v; want queue with a fetch", m.view, cmd == nil)
	}
	m = apply(t, m, cmd())
	if items := m.visibleQueue(); len(items) != 1 || items[0].ID != 7 {
		t.Fatalf("queue = %+v", items)
	}
	if !strings.Contains(m.View(), "75%") {
		t.Fatalf("View() missing progress:\n%s", m.View())
	}
}

func TestRemoveQueueItem(t *testing.T) {
	f := &fakeFetcher{queue: []radarr.QueueItem{{ID: 7, Title: "release"}}}
	session := &fakeSession{fetchers: map[string]*fakeFetcher{"Home": f}}
	m := withInstance(newTestModel(t, session), home)
	m.view = ViewQueue
	m = apply(t, m, m.load(ViewQueue)())

	m = apply(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("b")})
	if m.overlay != overlayRemove || m.removing == nil || !m.removeOpts.Blocklist {
		t.Fatalf("expected blocklist confirmation, overlay=%v opts=%+v", m.overlay, m.removeOpts)
	}

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	m = updated.(Model)
	if cmd == nil || !m.busy {
		t.Fatalf("confirm should start the removal")
	}
	msg := cmd()
	if len(f.removed) != 1 || f.removed[0] != 7 {
		t.Fatalf("removed = %v, want [7]", f.removed)
	}

	m = apply(t, m, msg)
	if m.overlay != overlayNone || m.busy || m.note.isErr {
		t.Fatalf("after removal overlay=%v busy=%v note=%+v", m.overlay, m.busy, m.note)
	}
}

func TestRemoveAlreadyGoneIsNotAnError(t *testing.T) {
	session := &fakeSession{fetchers: map[string]*fakeFetcher{"Home": {}}}
	m := withInstance(newTestModel(t, session), home)
	m.overlay = overlayRemove

	notFound := &radarr.APIError{Instance: "Home", Method: "DELETE", Path: "/api/v3/queue/7", StatusCode: 404}
	updated, cmd := m.Update(removedMsg{instance: "Home", title: "Heat (1995)", err: notFound})
	m = updated.(Model)

	if m.note.isErr || !strings.Contains(m.note.text, "already removed") {
		t.Fatalf("note = %+v, want already removed", m.note)
	}
	if cmd == nil {
		t.Fatalf("expected a queue refresh")
	}
}

func TestRemoveFailureShowsError(t *testing.T) {
	session := &fakeSession{fetchers: map[string]*fakeFetcher{"Home": {}}}
	m := withInstance(newTestModel(t, session), home)

	serverErr := &radarr.APIError{Instance: "Home", Method: "DELETE", Path: "/api/v3/queue/7", StatusCode: 500}
	m = apply(t, m, removedMsg{instance: "Home", title: "Heat (1995)", err: serverErr})

	if !m.note.isErr || !strings.Contains(m.note.text, "500") {
		t.Fatalf("note = %+v, want the server error", m.note)
	}
}

func TestSearchAndAdd(t *testing.T) {
	candidate := radarr.MovieLookup{Movie: radarr.Movie{TmdbID: 603, Title: "The Matrix", Year: 1999}}
	f := &fakeFetcher{
		lookup:   []radarr.MovieLookup{candidate},
		profiles: []radarr.QualityProfile{{ID: 1, Name: "Any"}, {ID: 4, Name: "HD-1080p"}},
		folders:  []radarr.RootFolder{{ID: 1, Path: "/movies"}},
	}
	session := &fakeSession{fetchers: map[string]*fakeFetcher{"Home": f}}
	m := withInstance(newTestModel(t, session), home)

	updated, _ := m.switchView(ViewSearch)
	m = updated.(Model)
	if !m.searchInput.Focused() {
		t.Fatalf("search input should be focused")
	}
	m.searchInput.SetValue("matrix")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	m = apply(t, m, cmd())
	if f.term != "matrix" || len(m.visibleResults()) != 1 {
		t.Fatalf("term=%q results=%d", f.term, len(m.visibleResults()))
	}

	updated, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	if m.overlay != overlayAdd {
		t.Fatalf("enter on a result should open the add form")
	}
	m = apply(t, m, cmd())

	m = apply(t, m, tea.KeyMsg{Type: tea.KeyRight})
	updated, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	m = apply(t, m, cmd())

	if f.added == nil || f.added.QualityProfileID != 4 || f.added.RootFolderPath != "/movies" || !f.added.Monitored || !f.added.SearchOnAdd {
		t.Fatalf("added with %+v", f.added)
	}
	if m.overlay != overlayNone || !strings.Contains(m.note.text, "Added The Matrix (1999) to Home") {
		t.Fatalf("overlay=%v note=%+v", m.overlay, m.note)
	}
}

func TestSearchResultAlreadyAdded(t *testing.T) {
	f := &fakeFetcher{lookup: []radarr.MovieLookup{{Movie: radarr.Movie{ID: 3, Title: "Heat", Year: 1995}}}}
	session := &fakeSession{fetchers: map[string]*fakeFetcher{"Home": f}}
	m := withInstance(newTestModel(t, session), home)
	m.view = ViewSearch
	m.lastQuery = "heat"
	m = apply(t, m, m.load(ViewSearch)())

	m = apply(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.overlay != overlayNone || !strings.Contains(m.note.text, "already in the library") {
		t.Fatalf("overlay=%v note=%+v", m.overlay, m.note)
	}
}

func TestInstancePickerSwitches(t *testing.T) {
	session := &fakeSession{
		list:     []instance.Instance{home, remote},
		current:  home,
		fetchers: map[string]*fakeFetcher{"Home": {}, "Remote": {}},
	}
	m := withInstance(newTestModel(t, session), home)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("i")})
	m = updated.(Model)
	m = apply(t, m, cmd())
	if m.overlay != overlayInstances || m.picker.cursor != 0 {
		t.Fatalf("overlay=%v cursor=%d", m.overlay, m.picker.cursor)
	}

	m = apply(t, m, tea.KeyMsg{Type: tea.KeyDown})
	updated, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	m = apply(t, m, cmd())

	if m.inst.Name != "Remote" || m.overlay != overlayNone {
		t.Fatalf("inst=%q overlay=%v", m.inst.Name, m.overlay)
	}
	if len(session.switched) != 1 || session.switched[0] != "Remote" {
		t.Fatalf("switched = %v", session.switched)
	}
}

func TestAPIErrorKeepsPreviousData(t *testing.T) {
	f := &fakeFetcher{movies: []radarr.Movie{movie(1, "heat", true)}}
	session := &fakeSession{fetchers: map[string]*fakeFetcher{"Home": f}}
	m := withInstance(newTestModel(t, session), home)
	m = apply(t, m, m.load(ViewLibrary)())

	f.err = &radarr.APIError{Instance: "Home", Method: "GET", Path: "/api/v3/movie", Err: errors.New("connection refused")}
	m = apply(t, m, m.load(ViewLibrary)())

	if len(m.visibleMovies(ViewLibrary)) != 1 {
		t.Fatalf("previous data should survive a failed refresh")
	}
	if !m.note.isErr {
		t.Fatalf("expected an error notification")
	}
}
