// Package tui provides a Bubble Tea terminal user interface for studio-images.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/handiism/studio-images/internal/config"
	"github.com/handiism/studio-images/internal/download"
	"github.com/handiism/studio-images/internal/logging"
	"github.com/handiism/studio-images/internal/model"
	"github.com/handiism/studio-images/internal/naming"
	"github.com/handiism/studio-images/internal/store"
)

// Palette
var (
	accent = lipgloss.Color("#7C9EFF")
	mint   = lipgloss.Color("#6EE7B7")
	coral  = lipgloss.Color("#F87171")
	amber  = lipgloss.Color("#FBBF24")
	sky    = lipgloss.Color("#93C5FD")
	slate  = lipgloss.Color("#94A3B8")
)

// Styles for the TUI
var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(accent).MarginBottom(1)
	subtitleStyle = lipgloss.NewStyle().Foreground(sky)
	successStyle  = lipgloss.NewStyle().Foreground(mint)
	errorStyle    = lipgloss.NewStyle().Foreground(coral)
	warningStyle  = lipgloss.NewStyle().Foreground(amber)
	infoStyle     = lipgloss.NewStyle().Foreground(sky)
	dimStyle      = lipgloss.NewStyle().Foreground(slate)
	boxStyle      = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 2)
)

// logMarks maps event levels to their line style and bullet.
var logMarks = map[download.ProgressLevel]struct {
	style lipgloss.Style
	mark  string
}{
	download.LevelInfo:    {infoStyle, "›"},
	download.LevelVerbose: {dimStyle, "·"},
	download.LevelWarning: {warningStyle, "!"},
	download.LevelError:   {errorStyle, "✗"},
	download.LevelSuccess: {successStyle, "✓"},
}

// maxLogs is how many progress lines stay on screen.
const maxLogs = 10

// State represents the current UI state.
type State int

const (
	StateConfirm State = iota
	StateRunning
	StateComplete
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   download.ProgressLevel
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state      State
	limitInput textinput.Model
	spinner    spinner.Model
	progress   progress.Model
	settings   *config.Settings
	store      store.Store
	logs       []LogEntry
	stats      model.RunStats
	err        error

	// Run context
	ctx    context.Context
	cancel context.CancelFunc

	manager *download.Manager
	events  chan download.ProgressEvent

	processed int32
	total     int32

	// Options
	dryRun   bool
	update   bool
	idSuffix bool
	verbose  bool

	width  int
	height int
}

// NewModel creates a new TUI model. The toggles start from settings.
func NewModel(settings *config.Settings, st store.Store) Model {
	ti := textinput.New()
	ti.Placeholder = "0 = all"
	ti.Focus()
	ti.CharLimit = 9
	ti.Width = 12
	if settings.Limit > 0 {
		ti.SetValue(strconv.Itoa(settings.Limit))
	}

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = lipgloss.NewStyle().Foreground(accent)

	prog := progress.New(progress.WithGradient(string(accent), string(mint)))
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:      StateConfirm,
		limitInput: ti,
		spinner:    sp,
		progress:   prog,
		settings:   settings,
		store:      st,
		logs:       make([]LogEntry, 0),
		ctx:        ctx,
		cancel:     cancel,
		dryRun:     settings.DryRun,
		update:     settings.PersistMode == config.PersistUpdate,
		idSuffix:   settings.Policy() == naming.PolicyIDSuffix,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// ProgressMsg carries one event emitted by the running manager.
	ProgressMsg struct {
		Event download.ProgressEvent
	}

	// RunDoneMsg is sent when the run returns.
	RunDoneMsg struct {
		Stats model.RunStats
		Err   error
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(max(msg.Width-20, 20), 80)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			if m.state == StateConfirm {
				return m, tea.Quit
			}
			if m.state == StateRunning {
				// The run stops before the next studio and reports back.
				m.cancel()
			}

		case "enter":
			if m.state == StateConfirm {
				return m.start()
			}

		case "d":
			if m.state == StateConfirm {
				m.dryRun = !m.dryRun
			}

		case "u":
			if m.state == StateConfirm {
				m.update = !m.update
			}

		case "n":
			if m.state == StateConfirm {
				m.idSuffix = !m.idSuffix
			}

		case "v":
			if m.state == StateConfirm {
				m.verbose = !m.verbose
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				// Reset for a new run
				m.state = StateConfirm
				m.logs = nil
				m.err = nil
				m.stats = model.RunStats{}
				m.processed = 0
				m.total = 0
				m.manager = nil
				m.events = nil
				m.ctx, m.cancel = context.WithCancel(context.Background())
				m.limitInput.Focus()
			}

		default:
			if m.state == StateConfirm && isLimitKey(msg) {
				var cmd tea.Cmd
				m.limitInput, cmd = m.limitInput.Update(msg)
				cmds = append(cmds, cmd)
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ProgressMsg:
		if msg.Event.Level != download.LevelVerbose || m.verbose {
			m.logs = append(m.logs, LogEntry{
				Message: msg.Event.Message,
				Level:   msg.Event.Level,
			})
			if len(m.logs) > maxLogs {
				m.logs = m.logs[len(m.logs)-maxLogs:]
			}
		}
		cmds = append(cmds, waitForEvent(m.events))

	case RunDoneMsg:
		m.stats = msg.Stats
		if m.manager != nil {
			m.processed, m.total = m.manager.GetProgress()
		}
		switch {
		case m.ctx.Err() != nil:
			m.state = StateError
			m.err = fmt.Errorf("cancelled by user")
		case msg.Err != nil:
			m.state = StateError
			m.err = msg.Err
		default:
			m.state = StateComplete
		}

	case TickMsg:
		if m.manager != nil && m.state == StateRunning {
			m.processed, m.total = m.manager.GetProgress()

			var percent float64
			if m.total > 0 {
				percent = float64(m.processed) / float64(m.total)
			}
			cmds = append(cmds, m.progress.SetPercent(percent), tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// isLimitKey reports whether a key edits the numeric limit field.
func isLimitKey(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyBackspace, tea.KeyDelete, tea.KeyLeft, tea.KeyRight:
		return true
	case tea.KeyRunes:
		for _, r := range msg.Runes {
			if r < '0' || r > '9' {
				return false
			}
		}
		return true
	}
	return false
}

// runSettings copies the base settings and applies the toggles.
func (m Model) runSettings() (*config.Settings, error) {
	settings := *m.settings
	settings.DryRun = m.dryRun
	settings.PersistMode = config.PersistLog
	if m.update {
		settings.PersistMode = config.PersistUpdate
	}
	settings.NamingPolicy = string(naming.PolicyPlain)
	if m.idSuffix {
		settings.NamingPolicy = string(naming.PolicyIDSuffix)
	}

	settings.Limit = 0
	if v := strings.TrimSpace(m.limitInput.Value()); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid limit %q: %w", v, err)
		}
		settings.Limit = limit
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &settings, nil
}

// start creates the manager and launches the run.
func (m Model) start() (tea.Model, tea.Cmd) {
	settings, err := m.runSettings()
	if err != nil {
		m.state = StateError
		m.err = err
		return m, nil
	}

	// The log file still receives every event; the console belongs to the UI.
	logger, err := logging.New(settings.LogFile, m.verbose, nil)
	if err != nil {
		m.state = StateError
		m.err = fmt.Errorf("open log file: %w", err)
		return m, nil
	}

	events := make(chan download.ProgressEvent, 100)
	manager := download.NewManager(settings, m.store, func(event download.ProgressEvent) {
		logger.Handle(event)
		events <- event
	})

	m.state = StateRunning
	m.manager = manager
	m.events = events
	m.limitInput.Blur()

	return m, tea.Batch(
		runManager(m.ctx, manager, events, logger),
		waitForEvent(events),
		tickProgress(),
		m.spinner.Tick,
	)
}

// runManager runs the manager in the background. The events channel is
// closed once Run returns, so no event is lost.
func runManager(ctx context.Context, manager *download.Manager, events chan download.ProgressEvent, logger *logging.Logger) tea.Cmd {
	return func() tea.Msg {
		stats, err := manager.Run(ctx)
		close(events)
		logger.Close()
		return RunDoneMsg{Stats: stats, Err: err}
	}
}

// waitForEvent returns a command that delivers the next progress event.
func waitForEvent(events <-chan download.ProgressEvent) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return nil
		}
		return ProgressMsg{Event: event}
	}
}

// tickProgress returns a command to tick progress updates.
func tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("📷 Studio Images"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Download studio images with SEO filenames"))
	b.WriteString("\n\n")

	switch m.state {
	case StateConfirm:
		b.WriteString(m.viewConfirm())
	case StateRunning:
		b.WriteString(m.viewRunning())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func checkbox(on bool) string {
	if on {
		return "[×]"
	}
	return "[ ]"
}

func (m Model) viewConfirm() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render(fmt.Sprintf("Source: %s (table %s)", m.settings.SupabaseURL, m.settings.Table)))
	b.WriteString("\n\n")
	b.WriteString("Limit: ")
	b.WriteString(m.limitInput.View())
	b.WriteString("\n\n")

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s Dry run, no downloads or writes (d)\n", checkbox(m.dryRun)))
	b.WriteString(fmt.Sprintf("  %s Update studio records (u)\n", checkbox(m.update)))
	b.WriteString(fmt.Sprintf("  %s Append studio id to filenames (n)\n", checkbox(m.idSuffix)))
	b.WriteString(fmt.Sprintf("  %s Verbose/debug output (v)\n", checkbox(m.verbose)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Uploads path: %s", m.settings.UploadsDir)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewRunning() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	if m.total == 0 {
		b.WriteString(subtitleStyle.Render("Fetching studios..."))
	} else {
		b.WriteString(subtitleStyle.Render("Processing studios..."))
	}
	b.WriteString("\n\n")

	var percent float64
	if m.total > 0 {
		percent = float64(m.processed) / float64(m.total)
	}
	b.WriteString(m.progress.ViewAs(percent))
	b.WriteString("\n")
	b.WriteString(infoStyle.Render(fmt.Sprintf("Studios: %d/%d", m.processed, m.total)))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	title := "✨ Run Complete!"
	if m.dryRun {
		title = "✨ Dry Run Complete!"
	}

	body := fmt.Sprintf(
		"%s\n\n"+
			"Run: %s\n"+
			"Studios: %d\n"+
			"Downloaded: %d\n"+
			"Skipped: %d\n"+
			"Errors: %d\n"+
			"Size: %.2f MB",
		title,
		m.stats.RunID,
		m.stats.Total,
		m.stats.Downloaded,
		m.stats.Skipped,
		m.stats.Errors,
		float64(m.stats.Bytes)/1024/1024,
	)
	if m.update {
		body += fmt.Sprintf("\nUpdated: %d", m.stats.Updated)
	}

	return boxStyle.Render(body) + "\n\n" + m.renderLogs()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("❌ Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}
	if m.stats.Processed() > 0 {
		b.WriteString("\n\n")
		b.WriteString(dimStyle.Render(fmt.Sprintf("Processed %d of %d studios before stopping", m.stats.Processed(), m.stats.Total)))
	}
	b.WriteString("\n")

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder
	for _, entry := range m.logs {
		lm, ok := logMarks[entry.Level]
		if !ok {
			lm = logMarks[download.LevelVerbose]
		}
		b.WriteString(lm.style.Render(lm.mark + " " + entry.Message))
		b.WriteByte('\n')
	}
	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateConfirm:
		return "enter: start • 0-9: limit • d: dry run • u: update • n: id suffix • v: verbose • esc: quit"
	case StateRunning:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: new run • q: quit"
	}
	return ""
}

// Run starts the TUI application.
func Run(settings *config.Settings, st store.Store) error {
	p := tea.NewProgram(NewModel(settings, st), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
