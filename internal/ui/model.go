package ui

import (
	"log/slog"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"locsearch/internal/coords"
	"locsearch/internal/debounce"
	"locsearch/internal/domain"
	"locsearch/internal/eventbus"
	"locsearch/internal/geocode"
	"locsearch/internal/search"
	"locsearch/internal/selection"
	"locsearch/internal/ui/views"
)

// Options configures the picker model
type Options struct {
	Client         geocode.Client
	Bus            eventbus.EventBus
	Logger         *slog.Logger
	Backend        string
	Delay          time.Duration
	RequestTimeout time.Duration
	Policy         selection.Policy
	ShowFlags      bool
	Origin         *coords.Point
	Once           bool
	InitialQuery   string
	OnSelect       func(domain.Location)

	// DebounceOptions replace the debounce timer source
	DebounceOptions []debounce.Option
	// Send delivers messages to the running program. SetProgram sets it.
	Send func(tea.Msg)
}

// Model represents the UI state
type Model struct {
	orch     *search.Orchestrator
	logger   *slog.Logger
	backend  string
	once     bool
	initial  string
	onSelect func(domain.Location)

	input    textinput.Model
	spinner  spinner.Model
	help     help.Model
	keys     keyMap
	renderer *views.Renderer
	origin   *coords.Point
	pager    *Pager

	width  int
	height int

	selections []domain.Location
	quitting   bool

	sendMu sync.Mutex
	send   func(tea.Msg)
}

// NewModel creates a new UI model
func NewModel(opts Options) *Model {
	m := &Model{
		logger:   opts.Logger,
		backend:  opts.Backend,
		once:     opts.Once,
		initial:  opts.InitialQuery,
		onSelect: opts.OnSelect,
		help:     help.New(),
		keys:     newKeyMap(),
		renderer: views.NewRenderer(opts.ShowFlags, opts.Origin),
		origin:   opts.Origin,
		send:     opts.Send,
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}

	m.input = textinput.New()
	m.input.Placeholder = "Search for a place"
	m.input.Prompt = "› "
	m.input.PromptStyle = m.renderer.Styles().Prompt
	m.input.Focus()

	m.spinner = spinner.New()
	m.spinner.Spinner = spinner.Dot
	m.spinner.Style = m.renderer.Styles().Loading

	m.orch = search.New(search.Options{
		Client:          opts.Client,
		Bus:             opts.Bus,
		Logger:          m.logger,
		Delay:           opts.Delay,
		RequestTimeout:  opts.RequestTimeout,
		Policy:          opts.Policy,
		Dispatch:        m.dispatch,
		OnSelect:        m.selected,
		DebounceOptions: opts.DebounceOptions,
	})
	return m
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.sendMu.Lock()
	m.send = p.Send
	m.sendMu.Unlock()
	m.pager = NewPager(p)
}

// dispatch runs on the debounce timer goroutine; it only posts a message
func (m *Model) dispatch(query string) {
	m.sendMu.Lock()
	send := m.send
	m.sendMu.Unlock()
	if send == nil {
		m.logger.Warn("search due but no program attached", "query", query)
		return
	}
	send(searchDueMsg{query: query})
}

func (m *Model) selected(loc domain.Location) {
	m.selections = append(m.selections, loc)
	if m.onSelect != nil {
		m.onSelect(loc)
	}
}

// Selections returns the locations committed during this session
func (m *Model) Selections() []domain.Location {
	return m.selections
}

// Close releases timers and in-flight requests. Safe to call twice.
func (m *Model) Close() {
	m.orch.Close()
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	if m.initial != "" {
		m.input.SetValue(m.initial)
		m.input.CursorEnd()
		m.orch.OnInput(m.initial)
	}
	return textinput.Blink
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.input.Width = max(msg.Width-lenPrompt(m.input.Prompt)-1, 10)
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tea.MouseMsg:
		return m, m.handleMouse(msg)

	case searchDueMsg:
		req, ok := m.orch.Begin(msg.query)
		if !ok {
			return m, nil
		}
		return m, tea.Batch(m.fetchCmd(req), m.spinner.Tick)

	case searchResultMsg:
		m.orch.Apply(msg.resp)
		return m, nil

	case spinner.TickMsg:
		if !m.orch.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case pagerMsg:
		if msg.err != nil {
			m.logger.Warn("pager failed", "what", msg.what, "err", msg.err)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()

	case key.Matches(msg, m.keys.Details):
		result, ok := m.orch.Active()
		if !ok {
			return nil
		}
		return m.pager.showCmd("details", views.RenderDetails(m.renderer.Styles(), result, m.origin))

	case key.Matches(msg, m.keys.Help) && m.input.Value() == "":
		return m.pager.showCmd("help", m.renderer.RenderHelp())

	case key.Matches(msg, m.keys.Down, m.keys.Up, m.keys.Select, m.keys.Dismiss):
		return m.navigate(func() { m.orch.HandleKey(selection.ParseKey(msg.String())) })
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if v := m.input.Value(); v != before {
		m.orch.OnInput(v)
	}
	return cmd
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return nil
	}
	row := msg.Y - views.ResultsOffset
	if row < 0 || row >= m.renderer.VisibleRows(m.viewState()) {
		return nil
	}
	return m.navigate(func() { m.orch.Click(row) })
}

// navigate runs a selection change and quits after a commit in once mode
func (m *Model) navigate(step func()) tea.Cmd {
	committed := len(m.selections)
	step()
	if m.input.Value() != m.orch.Query() {
		m.input.SetValue(m.orch.Query())
	}
	if m.once && len(m.selections) > committed {
		return m.quit()
	}
	return nil
}

func (m *Model) fetchCmd(req search.Request) tea.Cmd {
	return func() tea.Msg {
		return searchResultMsg{resp: m.orch.Fetch(req)}
	}
}

func (m *Model) quit() tea.Cmd {
	m.quitting = true
	m.orch.Close()
	return tea.Quit
}

func (m *Model) viewState() views.ViewState {
	return views.ViewState{
		Width:            m.width,
		Height:           m.height,
		Input:            m.input.View(),
		Query:            m.orch.Query(),
		Results:          m.orch.Results(),
		Selection:        m.orch.Selection(),
		Loading:          m.orch.Loading(),
		Spinner:          m.spinner.View(),
		Expanded:         m.orch.Expanded(),
		ActiveDescendant: m.orch.ActiveDescendant(),
		Backend:          m.backend,
		Selections:       m.selections,
		Help:             m.help.View(m.keys),
	}
}

// View renders the UI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	return m.renderer.Render(m.viewState())
}

func lenPrompt(p string) int {
	return len([]rune(p))
}
