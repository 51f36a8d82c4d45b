package tui

import (
	"fmt"
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/randomizedcoder/go-parasect/internal/probe"
	"github.com/randomizedcoder/go-parasect/internal/search"
	"github.com/randomizedcoder/go-parasect/internal/stats"
)

// recentResults is the number of completed probes kept for the
// "Recent Probes" panel.
const recentResults = 8

// =============================================================================
// Messages
// =============================================================================

// TickMsg is sent periodically to update the display.
type TickMsg time.Time

// EventMsg carries one coordinator event into the TUI loop.
type EventMsg struct {
	Event search.Event
}

// QuitMsg signals the TUI should exit.
type QuitMsg struct{}

// =============================================================================
// Model
// =============================================================================

// completedProbe is one row of the recent-results panel.
type completedProbe struct {
	Index    int64
	Outcome  probe.Outcome
	Duration time.Duration
	Stale    bool
}

// Model represents the TUI state.
type Model struct {
	// Configuration
	rng         search.Range
	parallelism int
	command     string
	metricsAddr string

	// Current state
	snapshot   stats.Snapshot
	running    map[int64]time.Time // index -> dispatch time
	recent     []completedProbe
	startTime  time.Time
	lastUpdate time.Time

	// Display options
	width  int
	height int

	// Stats source (for fetching snapshots)
	statsSource StatsSource

	// Quit flag
	quitting bool
}

// StatsSource provides tracked search statistics.
type StatsSource interface {
	Sample()
	GetSnapshot() stats.Snapshot
}

// Config holds TUI configuration.
type Config struct {
	Range       search.Range
	Parallelism int
	Command     string
	MetricsAddr string
	StatsSource StatsSource
}

// New creates a new TUI model.
func New(cfg Config) Model {
	return Model{
		rng:         cfg.Range,
		parallelism: cfg.Parallelism,
		command:     cfg.Command,
		metricsAddr: cfg.MetricsAddr,
		statsSource: cfg.StatsSource,
		running:     make(map[int64]time.Time),
		startTime:   time.Now(),
		lastUpdate:  time.Now(),
		width:       80,
		height:      24,
	}
}

// =============================================================================
// Bubble Tea Interface
// =============================================================================

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	// Note: tea.WithAltScreen() is passed when creating the program,
	// so we don't need tea.EnterAltScreen here.
	return tickCmd()
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "r":
			// Force refresh
			return m, tickCmd()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case TickMsg:
		// Fetch the latest snapshot
		if m.statsSource != nil {
			m.statsSource.Sample()
			m.snapshot = m.statsSource.GetSnapshot()
		}
		m.lastUpdate = time.Now()
		return m, tickCmd()

	case EventMsg:
		return m.applyEvent(msg.Event)

	case QuitMsg:
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

// applyEvent folds one coordinator event into the display state.
func (m Model) applyEvent(ev search.Event) (tea.Model, tea.Cmd) {
	switch e := ev.(type) {
	case search.ProbeDispatched:
		m.running[e.Index] = time.Now()

	case search.ProbeCompleted:
		delete(m.running, e.Index)
		m.recent = append(m.recent, completedProbe{
			Index:    e.Index,
			Outcome:  e.Outcome,
			Duration: e.Duration,
			Stale:    e.Stale,
		})
		if len(m.recent) > recentResults {
			m.recent = m.recent[len(m.recent)-recentResults:]
		}

	case search.SearchFinished:
		// Grab a final snapshot so the closing frame is accurate.
		if m.statsSource != nil {
			m.snapshot = m.statsSource.GetSnapshot()
		}
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the TUI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return m.renderDashboard()
}

// =============================================================================
// Commands
// =============================================================================

// tickCmd returns a command that sends a tick after 500ms.
func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// =============================================================================
// Accessors
// =============================================================================

// Elapsed returns the time since the search started.
func (m Model) Elapsed() time.Duration {
	return time.Since(m.startTime)
}

// RunningIndices returns the in-flight probe indices in ascending order.
func (m Model) RunningIndices() []int64 {
	out := make([]int64, 0, len(m.running))
	for idx := range m.running {
		out = append(out, idx)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// runningProbe is one row of the active-slot table.
type runningProbe struct {
	Index   int64
	State   probe.State
	Elapsed time.Duration
}

// RunningProbes returns one row per occupied slot, ascending by index,
// with the time each probe has been running so far.
func (m Model) RunningProbes() []runningProbe {
	out := make([]runningProbe, 0, len(m.running))
	for idx, since := range m.running {
		out = append(out, runningProbe{
			Index:   idx,
			State:   probe.StateRunning,
			Elapsed: time.Since(since),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// =============================================================================
// Reporter Adapter
// =============================================================================

// Reporter forwards coordinator events into a running Bubble Tea
// program. Program.Send is safe from other goroutines, so Publish can
// be called directly from the coordinator loop. It implements
// search.Reporter.
type Reporter struct {
	program *tea.Program
}

// NewReporter creates a reporter bound to the given program.
func NewReporter(p *tea.Program) *Reporter {
	return &Reporter{program: p}
}

// Publish implements search.Reporter.
func (r *Reporter) Publish(ev search.Event) {
	if r.program != nil {
		r.program.Send(EventMsg{Event: ev})
	}
}

// SendQuit sends a quit message to the TUI.
func SendQuit(p *tea.Program) {
	if p != nil {
		p.Send(QuitMsg{})
	}
}

// =============================================================================
// Formatting Helpers (used by view.go)
// =============================================================================

// formatDuration formats a duration as HH:MM:SS.
func formatDuration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// formatNumber formats a number with K/M suffixes.
func formatNumber(n int64) string {
	if n >= 1_000_000 {
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	}
	if n >= 1_000 {
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	}
	return fmt.Sprintf("%d", n)
}

// formatRate formats a rate with appropriate precision.
func formatRate(rate float64) string {
	if rate >= 1000 {
		return fmt.Sprintf("%.1fK/s", rate/1000)
	}
	if rate >= 1 {
		return fmt.Sprintf("%.1f/s", rate)
	}
	return fmt.Sprintf("%.2f/s", rate)
}

// formatElapsed formats a still-running probe's elapsed time.
func formatElapsed(d time.Duration) string {
	if d < time.Second {
		return formatMs(d)
	}
	return fmt.Sprintf("%.1f s", d.Seconds())
}

// formatMs formats a duration as milliseconds.
func formatMs(d time.Duration) string {
	ms := d.Milliseconds()
	if ms == 0 && d > 0 {
		return fmt.Sprintf("%d µs", d.Microseconds())
	}
	return fmt.Sprintf("%d ms", ms)
}
