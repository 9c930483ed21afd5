package ui

import (
	"context"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/five82/roster/internal/prefs"
	"github.com/five82/roster/internal/randomuser"
	"github.com/five82/roster/internal/table"
)

// Controller is the table controller the UI drives.
type Controller = table.Controller[randomuser.User]

// Options configures the UI.
type Options struct {
	Context      context.Context
	Controller   *Controller
	Logger       *log.Logger
	PageSizes    []int
	RefreshEvery time.Duration
	ThemeName    string
	PrefsPath    string
	// Source labels the data source in the header, typically the API URL.
	Source string
}

// natModal is the state of the nationality filter modal.
type natModal struct {
	open     bool
	cursor   int
	selected map[string]bool
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx          context.Context
	ctrl         *Controller
	logger       *log.Logger
	prefsPath    string
	pageSizes    []int
	refreshEvery time.Duration
	source       string

	// UI state
	theme   Theme
	keys    keyMap
	help    help.Model
	spinner spinner.Model
	width   int
	height  int
	ready   bool

	// Table state
	columns     []column
	activeCol   int
	selectedRow int
	lastUpdated time.Time
	notice      string

	// Help overlay
	showHelp bool

	// Search dropdown for the active column
	searching   bool
	searchInput textinput.Model

	// Nationality filter modal
	nat natModal
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Nightfox"
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	pageSizes := slices.Clone(opts.PageSizes)
	if len(pageSizes) == 0 {
		pageSizes = []int{8, 20, 50, 100}
	}
	slices.Sort(pageSizes)

	theme := GetTheme(themeName)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	input := textinput.New()
	input.Prompt = "› "
	input.CharLimit = 64
	input.Width = 28

	return Model{
		ctx:          ctx,
		ctrl:         opts.Controller,
		logger:       logger,
		prefsPath:    prefsPath,
		pageSizes:    pageSizes,
		refreshEvery: opts.RefreshEvery,
		source:       opts.Source,
		theme:        theme,
		keys:         DefaultKeyMap(),
		help:         help.New(),
		spinner:      sp,
		columns:      defaultColumns(),
		searchInput:  input,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.fetch(m.ctrl.Start())}
	if m.refreshEvery > 0 {
		cmds = append(cmds, refreshTickCmd(m.refreshEvery))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true
		return m, nil

	case spinner.TickMsg:
		if !m.ctrl.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case fetchResultMsg:
		return m.handleFetchResult(msg)

	case refreshTickMsg:
		var cmd tea.Cmd
		if !m.ctrl.Loading() && !m.searching && !m.nat.open {
			cmd = m.fetch(m.ctrl.Refresh())
		}
		return m, tea.Batch(cmd, refreshTickCmd(m.refreshEvery))
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.nat.open {
		return m.renderNatModal()
	}
	return m.renderMain()
}

func (m Model) handleFetchResult(msg fetchResultMsg) (tea.Model, tea.Cmd) {
	switch m.ctrl.Complete(msg.result) {
	case table.OutcomeAccepted:
		m.lastUpdated = time.Now()
		m.notice = ""
		if n := len(m.ctrl.Records()); m.selectedRow >= n {
			m.selectedRow = max(n-1, 0)
		}
	case table.OutcomeFailed:
		m.logger.Warn("page fetch failed", "page", msg.result.Query.Page, "error", msg.result.Err)
	}
	return m, nil
}

// fetch turns a dispatched request into a command and keeps the spinner
// running while it is in flight.
func (m Model) fetch(req *table.Request[randomuser.User]) tea.Cmd {
	if req == nil {
		return nil
	}
	ctx := m.ctx
	return tea.Batch(
		func() tea.Msg { return fetchResultMsg{result: req.Do(ctx)} },
		m.spinner.Tick,
	)
}

// dispatch handles the (request, error) pair returned by controller updates.
func (m *Model) dispatch(req *table.Request[randomuser.User], err error) tea.Cmd {
	if err != nil {
		m.notice = err.Error()
		m.logger.Warn("rejected view change", "error", err)
		return nil
	}
	return m.fetch(req)
}

// Messages

type fetchResultMsg struct {
	result table.Result[randomuser.User]
}

type refreshTickMsg time.Time

// Commands

func refreshTickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return refreshTickMsg(t)
	})
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	return err
}
