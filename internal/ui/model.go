package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/five82/reel/internal/instance"
	"github.com/five82/reel/internal/prefs"
	"github.com/five82/reel/internal/radarr"
	"github.com/five82/reel/internal/state"
)

// Session is the UI's view of configured instances and their clients.
type Session interface {
	Instances() ([]instance.Instance, error)
	Current(ctx context.Context) (instance.Instance, error)
	Switch(ctx context.Context, inst instance.Instance) error
	Client(inst instance.Instance) (radarr.Fetcher, error)
}

// Options configures the UI.
type Options struct {
	Context    context.Context
	Session    Session
	View       View
	ThemeName  string
	PrefsPath  string
	ConfigPath string
	// Calendar window around today.
	DaysBefore int
	DaysAfter  int
	Logger     zerolog.Logger
	// Now overrides the clock in tests.
	Now func() time.Time
}

type overlay int

const (
	overlayNone overlay = iota
	overlayHelp
	overlayDetail
	overlayInstances
	overlayRemove
	overlayAdd
)

type movieList = []radarr.Movie

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx        context.Context
	session    Session
	prefsPath  string
	configPath string
	daysBefore int
	daysAfter  int
	log        zerolog.Logger
	now        func() time.Time

	// UI state
	theme   Theme
	keys    keyMap
	view    View
	overlay overlay
	width   int
	height  int
	ready   bool
	spinner spinner.Model
	cursor  map[View]int
	note    notification
	noteSeq int

	// Current instance. instErr is set when no instance could be selected; the
	// views then render an empty state pointing at the config file.
	inst     instance.Instance
	instErr  error
	resolved bool

	// Per-view data
	library     *state.Store[movieList]
	missing     *state.Store[movieList]
	calendar    *state.Store[movieList]
	unmonitored *state.Store[movieList]
	queue       *state.Store[[]radarr.QueueItem]
	status      *state.Store[statusData]
	results     *state.Store[[]radarr.MovieLookup]
	detail      *state.Store[detailData]
	choices     *state.Store[addChoices]

	// Search
	searchInput textinput.Model
	lastQuery   string

	// Overlays
	detailViewport viewport.Model
	picker         instancePicker
	removing       *radarr.QueueItem
	removeOpts     radarr.RemoveOptions
	form           addForm
	busy           bool
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	themeName := opts.ThemeName
	if themeName == "" {
		themeName = prefs.DefaultTheme
	}
	daysBefore, daysAfter := opts.DaysBefore, opts.DaysAfter
	if daysBefore <= 0 {
		daysBefore = 7
	}
	if daysAfter <= 0 {
		daysAfter = 28
	}

	theme := GetTheme(themeName)
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Accent))

	input := textinput.New()
	input.Placeholder = "Movie title, tmdb:603 or imdb:tt0133093"
	input.Prompt = "Search: "
	input.CharLimit = 120

	return Model{
		ctx:         ctx,
		session:     opts.Session,
		prefsPath:   opts.PrefsPath,
		configPath:  opts.ConfigPath,
		daysBefore:  daysBefore,
		daysAfter:   daysAfter,
		log:         opts.Logger,
		now:         now,
		theme:       theme,
		keys:        DefaultKeyMap(),
		view:        opts.View,
		spinner:     spin,
		cursor:      make(map[View]int),
		library:     state.NewStore(state.CloneSlice[radarr.Movie]),
		missing:     state.NewStore(state.CloneSlice[radarr.Movie]),
		calendar:    state.NewStore(state.CloneSlice[radarr.Movie]),
		unmonitored: state.NewStore(state.CloneSlice[radarr.Movie]),
		queue:       state.NewStore(state.CloneSlice[radarr.QueueItem]),
		status:      state.NewStore[statusData](nil),
		results:     state.NewStore(state.CloneSlice[radarr.MovieLookup]),
		detail:      state.NewStore[detailData](nil),
		choices:     state.NewStore[addChoices](nil),
		searchInput: input,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, resolveCurrentCmd(m.ctx, m.session))
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.searchInput.Width = max(msg.Width-12, 10)
		if !m.ready {
			m.detailViewport = viewport.New(m.overlayWidth()-4, m.contentHeight()-4)
		} else {
			m.detailViewport.Width = m.overlayWidth() - 4
			m.detailViewport.Height = m.contentHeight() - 4
		}
		m.ready = true
		m.refreshDetailViewport()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case currentMsg:
		return m.handleCurrent(msg)

	case moviesMsg:
		if m.movieStore(msg.view).Apply(msg.tag, msg.movies, msg.err) {
			m.clampCursor(msg.view)
			if msg.err != nil {
				return m.withError(msg.err)
			}
		}
		return m, nil

	case queueMsg:
		if m.queue.Apply(msg.tag, msg.items, msg.err) {
			m.clampCursor(ViewQueue)
			if msg.err != nil {
				return m.withError(msg.err)
			}
		}
		return m, nil

	case statusMsg:
		if m.status.Apply(msg.tag, msg.data, msg.err) && msg.err != nil {
			return m.withError(msg.err)
		}
		return m, nil

	case lookupMsg:
		if m.results.Apply(msg.tag, msg.results, msg.err) {
			m.cursor[ViewSearch] = 0
			if msg.err != nil {
				return m.withError(msg.err)
			}
		}
		return m, nil

	case detailMsg:
		if m.detail.Apply(msg.tag, msg.data, msg.err) {
			m.refreshDetailViewport()
			if msg.err != nil {
				return m.withError(msg.err)
			}
		}
		return m, nil

	case choicesMsg:
		if m.choices.Apply(msg.tag, msg.data, msg.err) {
			if msg.err != nil {
				return m.withError(msg.err)
			}
			m.form.setChoices(msg.data)
		}
		return m, nil

	case addedMsg:
		return m.handleAdded(msg)

	case removedMsg:
		return m.handleRemoved(msg)

	case instancesMsg:
		m.picker.load(msg.list, msg.err, m.inst)
		if msg.err != nil {
			return m.withError(msg.err)
		}
		return m, nil

	case errMsg:
		return m.withError(msg.err)

	case noteExpiredMsg:
		if int(msg) == m.note.id {
			m.note = notification{}
		}
		return m, nil
	}

	if m.view == ViewSearch && m.overlay == overlayNone {
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	switch m.overlay {
	case overlayHelp:
		return m.renderHelp()
	case overlayDetail:
		return m.renderFrame(m.renderDetail())
	case overlayInstances:
		return m.renderFrame(m.renderPicker())
	case overlayRemove:
		return m.renderFrame(m.renderRemoveConfirm())
	case overlayAdd:
		return m.renderFrame(m.renderAddForm())
	}
	return m.renderFrame(m.renderContent())
}

func (m Model) renderFrame(content string) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderCommandBar(),
		content,
		m.renderNotification(),
	)
}

// renderContent renders the main content area based on current view.
func (m Model) renderContent() string {
	switch m.view {
	case ViewQueue:
		return m.renderQueue()
	case ViewStatus:
		return m.renderStatus()
	case ViewSearch:
		return m.renderSearch()
	default:
		return m.renderMovies(m.view)
	}
}

// contentHeight is the space between the header rows and the notification
// line.
func (m Model) contentHeight() int {
	return max(m.height-3, 3)
}

func (m Model) overlayWidth() int {
	return max(m.width, 20)
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.overlay {
	case overlayHelp:
		m.overlay = overlayNone
		return m, nil
	case overlayDetail:
		return m.handleDetailKey(msg)
	case overlayInstances:
		return m.handlePickerKey(msg)
	case overlayRemove:
		return m.handleRemoveKey(msg)
	case overlayAdd:
		return m.handleAddKey(msg)
	}

	if m.view == ViewSearch && m.searchInput.Focused() {
		return m.handleSearchInputKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.overlay = overlayHelp
		return m, nil
	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.spinner.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Accent))
		if err := prefs.SaveTheme(m.prefsPath, m.theme.Name); err != nil {
			m.log.Warn().Err(err).Msg("save theme")
		}
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		return m, m.load(m.view)
	case key.Matches(msg, m.keys.Instances):
		m.overlay = overlayInstances
		m.picker = instancePicker{loading: true}
		return m, listInstancesCmd(m.session)
	case key.Matches(msg, m.keys.NextView):
		return m.switchView(m.view.next())
	case key.Matches(msg, m.keys.PrevView):
		return m.switchView(m.view.prev())
	case key.Matches(msg, m.keys.ViewLibrary):
		return m.switchView(ViewLibrary)
	case key.Matches(msg, m.keys.ViewMissing):
		return m.switchView(ViewMissing)
	case key.Matches(msg, m.keys.ViewQueue):
		return m.switchView(ViewQueue)
	case key.Matches(msg, m.keys.ViewCalendar):
		return m.switchView(ViewCalendar)
	case key.Matches(msg, m.keys.ViewUnmonitored):
		return m.switchView(ViewUnmonitored)
	case key.Matches(msg, m.keys.ViewStatus):
		return m.switchView(ViewStatus)
	case key.Matches(msg, m.keys.ViewSearch):
		return m.switchView(ViewSearch)
	}

	if m.moveCursor(msg) {
		return m, nil
	}

	switch m.view {
	case ViewQueue:
		return m.handleQueueKey(msg)
	case ViewSearch:
		return m.handleSearchKey(msg)
	case ViewStatus:
		return m, nil
	default:
		if key.Matches(msg, m.keys.Open) {
			return m.openDetail()
		}
	}
	return m, nil
}

// switchView mounts v, which always triggers a fresh fetch.
func (m Model) switchView(v View) (tea.Model, tea.Cmd) {
	m.view = v
	if v == ViewSearch {
		m.searchInput.Focus()
		return m, textinput.Blink
	}
	return m, m.load(v)
}

// moveCursor applies navigation keys to the active list.
func (m *Model) moveCursor(msg tea.KeyMsg) bool {
	count := m.rowCount(m.view)
	cur := m.cursor[m.view]
	page := max(m.contentHeight()-3, 1)

	switch {
	case key.Matches(msg, m.keys.Up):
		cur--
	case key.Matches(msg, m.keys.Down):
		cur++
	case key.Matches(msg, m.keys.Top):
		cur = 0
	case key.Matches(msg, m.keys.Bottom):
		cur = count - 1
	case key.Matches(msg, m.keys.PageUp):
		cur -= page
	case key.Matches(msg, m.keys.PageDown):
		cur += page
	default:
		return false
	}
	m.cursor[m.view] = clamp(cur, 0, count-1)
	return true
}

func (m *Model) clampCursor(v View) {
	m.cursor[v] = clamp(m.cursor[v], 0, m.rowCount(v)-1)
}

func (m Model) rowCount(v View) int {
	switch v {
	case ViewQueue:
		return len(m.queue.Snapshot().Data)
	case ViewSearch:
		return len(m.results.Snapshot().Data)
	case ViewStatus:
		return 0
	default:
		return len(m.visibleMovies(v))
	}
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	return err
}
