package ui

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/vnamon/internal/axis"
	"github.com/five82/vnamon/internal/cache"
	"github.com/five82/vnamon/internal/render"
	"github.com/five82/vnamon/internal/state"
	"github.com/five82/vnamon/internal/syncer"
)

// Options configures the UI.
type Options struct {
	Context context.Context
	Store   *state.Store
	Target  *syncer.Target
	Axes    *axis.Controller
	Events  <-chan syncer.Event
	// Refresh re-derives the series from the cache. It may block on disk.
	Refresh func()
	// SavePrefs persists preferences with the given theme name.
	SavePrefs  func(theme string) error
	ThemeName  string
	LogPath    string
	ExportDir  string
	RedrawTick time.Duration
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx        context.Context
	store      *state.Store
	target     *syncer.Target
	axes       *axis.Controller
	events     <-chan syncer.Event
	refresh    func()
	savePrefs  func(string) error
	logPath    string
	exportDir  string
	redrawTick time.Duration

	// UI state
	keys        keyMap
	theme       Theme
	currentView render.View
	width       int
	height      int
	ready       bool
	modal       Modal
	showHelp    bool
	// pendingAlert holds a bad-folder alert until the open dialog closes.
	pendingAlert bool

	// Data state
	snapshot    state.Snapshot
	lastUpdated time.Time
	folder      string

	// Log overlay
	showLogs    bool
	logViewport viewport.Model

	// Transient status line
	notice      string
	noticeIsErr bool
}

// New creates a new Bubble Tea model. When no folder is set the folder
// prompt is open from the start.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	redrawTick := opts.RedrawTick
	if redrawTick <= 0 {
		redrawTick = DefaultUIInterval
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = DefaultThemeName
	}

	target := opts.Target
	if target == nil {
		target = &syncer.Target{}
	}
	axes := opts.Axes
	if axes == nil {
		axes = axis.NewController()
	}

	m := Model{
		ctx:         ctx,
		store:       opts.Store,
		target:      target,
		axes:        axes,
		events:      opts.Events,
		refresh:     opts.Refresh,
		savePrefs:   opts.SavePrefs,
		logPath:     opts.LogPath,
		exportDir:   opts.ExportDir,
		redrawTick:  redrawTick,
		keys:        DefaultKeyMap(),
		theme:       GetTheme(themeName),
		currentView: render.FrequencyTrend,
		logViewport: viewport.New(0, 0),
	}

	if dir, ok := target.Get(); ok {
		m.folder = dir
	} else {
		m.modal = newFolderModal("")
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tickCmd(m.redrawTick),
	}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if cmd := waitForEventCmd(m.events); cmd != nil {
		cmds = append(cmds, cmd)
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
		m.ready = true
		m.resizeLogViewport()
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		m.lastUpdated = time.Now()
		return m, nil

	case eventMsg:
		m.handleEvent(msg.event)
		return m, waitForEventCmd(m.events)

	case folderChosenMsg:
		return m.setFolder(msg.name)

	case controlsAppliedMsg:
		return m.applyControls(msg)

	case openFolderMsg:
		m.modal = newFolderModal(m.folder)
		return m, nil

	case logLinesMsg:
		m.handleLogLines(msg)
		return m, nil

	case exportMsg:
		m.handleExport(msg)
		return m, nil

	case prefsSavedMsg:
		if msg.err != nil {
			m.setNotice("Could not save preferences: "+msg.err.Error(), true)
		}
		return m, nil
	}

	if m.modal != nil {
		return m.updateModal(msg)
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

	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}

	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) && msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// Any key closes help
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.modal != nil {
		return m.updateModal(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		return m, savePrefsCmd(m.savePrefs, m.theme.Name)

	case key.Matches(msg, m.keys.Logs):
		m.showLogs = !m.showLogs
		if m.showLogs {
			return m, loadLogsCmd(m.logPath)
		}
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		m.showLogs = false
		m.notice = ""
		return m, nil

	case key.Matches(msg, m.keys.Folder):
		m.modal = newFolderModal(m.folder)
		return m, nil

	case key.Matches(msg, m.keys.Controls):
		smoothing := state.DefaultSmoothing
		if m.store != nil {
			smoothing = m.store.Smoothing()
		}
		m.modal = newControlsModal(m.axes.Ranges(), smoothing)
		return m, nil

	case key.Matches(msg, m.keys.Export):
		m.setNotice("Exporting charts...", false)
		return m, exportCmd(m.exportDir, m.renderData())
	}

	if m.showLogs {
		var cmd tea.Cmd
		m.logViewport, cmd = m.logViewport.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.NextChart):
		m.currentView = render.Views[(int(m.currentView)+1)%len(render.Views)]
	case key.Matches(msg, m.keys.PrevChart):
		n := len(render.Views)
		m.currentView = render.Views[(int(m.currentView)+n-1)%n]
	case key.Matches(msg, m.keys.FrequencyChart):
		m.currentView = render.FrequencyTrend
	case key.Matches(msg, m.keys.ImpedanceChart):
		m.currentView = render.ImpedanceTrend
	case key.Matches(msg, m.keys.SweepChart):
		m.currentView = render.LatestS11
	}
	return m, nil
}

// handleTick processes the redraw tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.ctx.Err() != nil {
		return m, tea.Quit
	}

	var cmds []tea.Cmd
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}

	// The worker clears the target on its own when the folder is rejected.
	if dir, ok := m.target.Get(); ok {
		m.folder = dir
	} else {
		m.folder = ""
	}

	if m.showLogs {
		cmds = append(cmds, loadLogsCmd(m.logPath))
	}

	cmds = append(cmds, tickCmd(m.redrawTick))
	return m, tea.Batch(cmds...)
}

// handleEvent reacts to sync events. A dialog the user is typing into is
// never replaced: the folder prompt already asks for a new name, and the
// alert waits until any other dialog closes.
func (m *Model) handleEvent(ev syncer.Event) {
	switch ev := ev.(type) {
	case syncer.BadFolder:
		log.Printf("%v", ev)
		m.folder = ""
		switch m.modal.(type) {
		case nil:
			m.modal = newBadFolderAlert()
		case *folderModal:
			m.setNotice("Folder name does not exist on server", true)
		case *alertModal:
		default:
			m.pendingAlert = true
		}
	}
}

// updateModal forwards msg to the open dialog and shows a queued alert once
// it closes.
func (m Model) updateModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var closed bool
	m.modal, cmd, closed = m.modal.Update(msg, m.keys)
	if closed {
		m.modal = nil
		if m.pendingAlert {
			m.pendingAlert = false
			m.modal = newBadFolderAlert()
		}
	}
	return m, cmd
}

// setFolder points the worker at a new measurement folder.
func (m Model) setFolder(name string) (tea.Model, tea.Cmd) {
	if !m.target.Set(name) {
		return m, nil
	}
	m.folder = name
	m.setNotice("Watching folder "+name, false)
	return m, savePrefsCmd(m.savePrefs, m.theme.Name)
}

// applyControls applies every accepted range edit and the smoothing width.
// Rejected input leaves the previous value in place.
func (m Model) applyControls(msg controlsAppliedMsg) (tea.Model, tea.Cmd) {
	changed := false
	for _, kind := range axis.Kinds {
		if _, ok := m.axes.Apply(kind, msg.minText[kind], msg.maxText[kind]); ok {
			changed = true
		}
	}

	var cmds []tea.Cmd
	if strings.TrimSpace(msg.smoothing) != "" {
		if w, err := axis.ParseSmoothing(msg.smoothing); err == nil && m.store != nil && m.store.SetSmoothing(w) {
			changed = true
			cmds = append(cmds, refreshCmd(m.refresh, m.store))
		}
	}

	if !changed {
		return m, nil
	}
	cmds = append(cmds, savePrefsCmd(m.savePrefs, m.theme.Name))
	return m, tea.Batch(cmds...)
}

func (m *Model) handleLogLines(msg logLinesMsg) {
	if msg.err != nil {
		m.logViewport.SetContent(fmt.Sprintf("Could not read %s: %v", m.logPath, msg.err))
		return
	}
	if len(msg.lines) == 0 {
		m.logViewport.SetContent("Log is empty.")
		return
	}
	atBottom := m.logViewport.AtBottom()
	m.logViewport.SetContent(strings.Join(msg.lines, "\n"))
	if atBottom {
		m.logViewport.GotoBottom()
	}
}

func (m *Model) handleExport(msg exportMsg) {
	if msg.err != nil {
		m.setNotice("Export failed: "+msg.err.Error(), true)
		return
	}
	m.setNotice(fmt.Sprintf("Exported %d charts to %s", len(msg.files), m.exportDir), false)
}

func (m *Model) setNotice(text string, isErr bool) {
	m.notice = text
	m.noticeIsErr = isErr
}

func (m *Model) resizeLogViewport() {
	m.logViewport.Width = m.width
	h := m.height - 3
	if h < 1 {
		h = 1
	}
	m.logViewport.Height = h
}

// renderData collects what the PNG exporter needs from the current snapshot.
func (m Model) renderData() render.Data {
	data := render.Data{Ranges: m.axes.Ranges()}
	if m.snapshot.HasTrend {
		data.Trend = m.snapshot.Trend
	}
	if m.snapshot.HasSpectrum {
		spectrum := m.snapshot.Spectrum
		data.Spectrum = &spectrum
	}
	return data
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")

	if m.showLogs {
		b.WriteString(m.renderLogs())
		return b.String()
	}

	b.WriteString(m.renderTabs())
	b.WriteString("\n")
	b.WriteString(m.renderChart())
	return b.String()
}

func (m Model) renderLogs() string {
	styles := m.theme.Styles()
	title := styles.AccentText.Bold(true).Render("Log") + "  " +
		styles.MutedText.Render(truncateMiddle(m.logPath, m.width/2))
	return title + "\n" + m.logViewport.View()
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type eventMsg struct{ event syncer.Event }

type logLinesMsg struct {
	lines []string
	err   error
}

type exportMsg struct {
	files []string
	err   error
}

type prefsSavedMsg struct{ err error }

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// waitForEventCmd blocks for the next sync event. A closed channel ends the
// chain.
func waitForEventCmd(events <-chan syncer.Event) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return eventMsg{event: ev}
	}
}

func refreshCmd(refresh func(), store *state.Store) tea.Cmd {
	return func() tea.Msg {
		if refresh != nil {
			refresh()
		}
		return snapshotMsg(store.Snapshot())
	}
}

func savePrefsCmd(save func(string) error, theme string) tea.Cmd {
	if save == nil {
		return nil
	}
	return func() tea.Msg {
		return prefsSavedMsg{err: save(theme)}
	}
}

func loadLogsCmd(path string) tea.Cmd {
	return func() tea.Msg {
		if path == "" {
			return logLinesMsg{}
		}
		lines, err := cache.Tail(path, LogTailLines)
		return logLinesMsg{lines: lines, err: err}
	}
}

func exportCmd(dir string, data render.Data) tea.Cmd {
	return func() tea.Msg {
		files, err := render.WriteAll(dir, data, render.Size{})
		return exportMsg{files: files, err: err}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
