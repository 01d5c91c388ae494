package ui

import (
	"context"
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/five82/reel/internal/format"
	"github.com/five82/reel/internal/instance"
	"github.com/five82/reel/internal/radarr"
	"github.com/five82/reel/internal/state"
)

// Messages

type currentMsg struct {
	inst     instance.Instance
	err      error
	switched bool
	saveErr  error
}

type moviesMsg struct {
	view   View
	tag    state.Tag
	movies []radarr.Movie
	err    error
}

type queueMsg struct {
	tag   state.Tag
	items []radarr.QueueItem
	err   error
}

type statusData struct {
	System *radarr.SystemStatus
	Health []radarr.HealthCheck
}

type statusMsg struct {
	tag  state.Tag
	data statusData
	err  error
}

type lookupMsg struct {
	tag     state.Tag
	results []radarr.MovieLookup
	err     error
}

type detailData struct {
	Movie   *radarr.Movie
	History []radarr.HistoryRecord
}

type detailMsg struct {
	tag  state.Tag
	data detailData
	err  error
}

type addChoices struct {
	Profiles []radarr.QualityProfile
	Folders  []radarr.RootFolder
}

type choicesMsg struct {
	tag  state.Tag
	data addChoices
	err  error
}

type addedMsg struct {
	instance string
	title    string
	movie    *radarr.Movie
	err      error
}

type removedMsg struct {
	instance string
	title    string
	err      error
}

type instancesMsg struct {
	list []instance.Instance
	err  error
}

type errMsg struct{ err error }

// Commands

func resolveCurrentCmd(ctx context.Context, session Session) tea.Cmd {
	return func() tea.Msg {
		if session == nil {
			return currentMsg{err: &instance.ConfigurationError{Err: instance.ErrNoInstancesConfigured}}
		}
		inst, err := session.Current(ctx)
		return currentMsg{inst: inst, err: err}
	}
}

func switchInstanceCmd(ctx context.Context, session Session, inst instance.Instance) tea.Cmd {
	return func() tea.Msg {
		err := session.Switch(ctx, inst)
		return currentMsg{inst: inst, switched: true, saveErr: err}
	}
}

func listInstancesCmd(session Session) tea.Cmd {
	return func() tea.Msg {
		if session == nil {
			return instancesMsg{err: &instance.ConfigurationError{Err: instance.ErrNoInstancesConfigured}}
		}
		list, err := session.Instances()
		return instancesMsg{list: list, err: err}
	}
}

// client returns a client for the current instance, or a command reporting
// why none is available.
func (m Model) client() (radarr.Fetcher, tea.Cmd) {
	if m.inst.IsZero() || m.session == nil {
		return nil, nil
	}
	c, err := m.session.Client(m.inst)
	if err != nil {
		return nil, func() tea.Msg { return errMsg{err: err} }
	}
	return c, nil
}

func (m Model) movieStore(v View) *state.Store[movieList] {
	switch v {
	case ViewMissing:
		return m.missing
	case ViewCalendar:
		return m.calendar
	case ViewUnmonitored:
		return m.unmonitored
	default:
		return m.library
	}
}

// load starts a fresh fetch for v against the current instance.
func (m Model) load(v View) tea.Cmd {
	c, errCmd := m.client()
	if c == nil {
		return errCmd
	}
	ctx := m.ctx
	name := m.inst.Name

	switch v {
	case ViewQueue:
		tag := m.queue.Begin(name)
		return func() tea.Msg {
			items, err := c.Queue(ctx)
			return queueMsg{tag: tag, items: items, err: err}
		}

	case ViewStatus:
		tag := m.status.Begin(name)
		return func() tea.Msg {
			data, err := fetchStatus(ctx, c)
			return statusMsg{tag: tag, data: data, err: err}
		}

	case ViewSearch:
		if m.lastQuery == "" {
			return nil
		}
		return m.lookup(m.lastQuery)

	default:
		tag := m.movieStore(v).Begin(name)
		window := m.calendarWindow()
		return func() tea.Msg {
			movies, err := fetchMovies(ctx, c, v, window)
			return moviesMsg{view: v, tag: tag, movies: movies, err: err}
		}
	}
}

func (m Model) lookup(term string) tea.Cmd {
	c, errCmd := m.client()
	if c == nil {
		return errCmd
	}
	ctx := m.ctx
	tag := m.results.Begin(m.inst.Name)
	return func() tea.Msg {
		results, err := c.LookupMovies(ctx, term)
		return lookupMsg{tag: tag, results: results, err: err}
	}
}

func (m Model) loadDetail(id int64) tea.Cmd {
	c, errCmd := m.client()
	if c == nil {
		return errCmd
	}
	ctx := m.ctx
	tag := m.detail.Begin(m.inst.Name)
	return func() tea.Msg {
		var data detailData
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			movie, err := c.Movie(gctx, id)
			data.Movie = movie
			return err
		})
		g.Go(func() error {
			history, err := c.History(gctx, radarr.HistoryQuery{MovieID: id})
			data.History = history
			return err
		})
		err := g.Wait()
		return detailMsg{tag: tag, data: data, err: err}
	}
}

func (m Model) loadChoices() tea.Cmd {
	c, errCmd := m.client()
	if c == nil {
		return errCmd
	}
	ctx := m.ctx
	tag := m.choices.Begin(m.inst.Name)
	return func() tea.Msg {
		var data addChoices
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			profiles, err := c.QualityProfiles(gctx)
			data.Profiles = profiles
			return err
		})
		g.Go(func() error {
			folders, err := c.RootFolders(gctx)
			data.Folders = folders
			return err
		})
		err := g.Wait()
		return choicesMsg{tag: tag, data: data, err: err}
	}
}

func (m Model) addMovie(lookup radarr.MovieLookup, opts radarr.AddOptions) tea.Cmd {
	c, errCmd := m.client()
	if c == nil {
		return errCmd
	}
	ctx, name := m.ctx, m.inst.Name
	return func() tea.Msg {
		movie, err := c.AddMovie(ctx, lookup, opts)
		return addedMsg{instance: name, title: format.MovieTitle(lookup.Title, lookup.Year), movie: movie, err: err}
	}
}

func (m Model) removeQueueItem(item radarr.QueueItem, opts radarr.RemoveOptions) tea.Cmd {
	c, errCmd := m.client()
	if c == nil {
		return errCmd
	}
	ctx, name := m.ctx, m.inst.Name
	return func() tea.Msg {
		err := c.RemoveQueueItem(ctx, item.ID, opts)
		return removedMsg{instance: name, title: queueTitle(item), err: err}
	}
}

func fetchStatus(ctx context.Context, c radarr.Fetcher) (statusData, error) {
	var data statusData
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		status, err := c.SystemStatus(gctx)
		data.System = status
		return err
	})
	g.Go(func() error {
		health, err := c.Health(gctx)
		data.Health = health
		return err
	})
	err := g.Wait()
	return data, err
}

type calendarWindow struct {
	start, end time.Time
}

func (m Model) calendarWindow() calendarWindow {
	today := m.now()
	start := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	return calendarWindow{
		start: start.AddDate(0, 0, -m.daysBefore),
		end:   start.AddDate(0, 0, m.daysAfter+1),
	}
}

// fetchMovies loads and orders the movie list backing v.
func fetchMovies(ctx context.Context, c radarr.Fetcher, v View, window calendarWindow) ([]radarr.Movie, error) {
	switch v {
	case ViewMissing:
		movies, err := c.WantedMissing(ctx)
		if err != nil {
			return nil, err
		}
		format.SortMovies(movies)
		return movies, nil

	case ViewCalendar:
		movies, err := c.Calendar(ctx, radarr.CalendarRange{Start: window.start, End: window.end, Unmonitored: true})
		if err != nil {
			return nil, err
		}
		sortByRelease(movies)
		return movies, nil

	case ViewUnmonitored:
		movies, err := c.Movies(ctx)
		if err != nil {
			return nil, err
		}
		out := movies[:0]
		for _, mv := range movies {
			if !mv.Monitored {
				out = append(out, mv)
			}
		}
		format.SortMovies(out)
		return out, nil

	default:
		movies, err := c.Movies(ctx)
		if err != nil {
			return nil, err
		}
		format.SortMovies(movies)
		return movies, nil
	}
}

// sortByRelease orders movies by the release date the availability
// classification uses. Movies without a date go last.
func sortByRelease(movies []radarr.Movie) {
	sort.SliceStable(movies, func(i, j int) bool {
		di, _ := format.ReleaseDate(movies[i])
		dj, _ := format.ReleaseDate(movies[j])
		switch {
		case di == nil:
			return false
		case dj == nil:
			return true
		default:
			return di.Before(*dj)
		}
	})
}
