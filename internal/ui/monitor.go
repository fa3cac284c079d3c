// Package ui implements the live terminal monitor for watched training
// runs.
package ui

import (
	"fmt"
	"strings"

	gauge "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"trainwatch/internal/progress"
	"trainwatch/internal/stopwatch"
	"trainwatch/internal/track"
	"trainwatch/internal/watch"
)

// EventMsg wraps one metric update for the tea runtime.
type EventMsg progress.Event

// DoneMsg signals that the watched run finished.
type DoneMsg struct {
	Summary *watch.Summary
	Err     error
}

const (
	defaultMonitorWidth  = 72
	defaultMonitorHeight = 14
	maxScrollback        = 500
)

// Monitor is the root model: a spinner while the run is live, a gauge
// showing how much of the patience budget is burned, and a scrollback
// of metric updates.
type Monitor struct {
	metric   string
	patience int

	events <-chan progress.Event
	cancel func() // stops the watched run

	spinner  spinner.Model
	gauge    gauge.Model
	viewport viewport.Model

	lines   []string
	last    *progress.Event
	summary *watch.Summary
	err     error
	width   int
}

// Ensure Monitor implements tea.Model.
var _ tea.Model = (*Monitor)(nil)

// NewMonitor creates a monitor consuming metric updates from events.
// cancel is invoked when the user quits before the run ends.
func NewMonitor(metric string, patience int, events <-chan progress.Event, cancel func()) *Monitor {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccent))

	vp := viewport.New(defaultMonitorWidth, defaultMonitorHeight)

	return &Monitor{
		metric:   metric,
		patience: patience,
		events:   events,
		cancel:   cancel,
		spinner:  sp,
		gauge:    gauge.New(gauge.WithDefaultGradient()),
		viewport: vp,
		width:    defaultMonitorWidth,
	}
}

// Init implements tea.Model.
func (m *Monitor) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitForEvent())
}

// waitForEvent delivers the next metric update from the watch loop.
func (m *Monitor) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return nil
		}
		return EventMsg(ev)
	}
}

// Update implements tea.Model.
func (m *Monitor) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case EventMsg:
		ev := progress.Event(msg)
		m.last = &ev
		m.lines = append(m.lines, m.formatEvent(ev))
		if len(m.lines) > maxScrollback {
			m.lines = m.lines[len(m.lines)-maxScrollback:]
		}
		m.viewport.SetContent(strings.Join(m.lines, "\n"))
		m.viewport.GotoBottom()
		return m, m.waitForEvent()

	case DoneMsg:
		m.summary = msg.Summary
		m.err = msg.Err
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.summary == nil && m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		w := msg.Width - 4
		if w < 40 {
			w = 40
		}
		h := msg.Height - 8
		if h < 6 {
			h = 6
		}
		m.viewport.Width = w
		m.viewport.Height = h
		m.gauge.Width = w
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m *Monitor) View() string {
	var b strings.Builder

	header := Styles.Title.Render(fmt.Sprintf("Watching %s", m.metric))
	if m.summary == nil {
		header = m.spinner.View() + " " + header
	}
	if m.last != nil {
		header += Styles.Muted.Render(fmt.Sprintf("  elapsed %s", stopwatch.FormatDuration(m.last.Elapsed)))
	}
	b.WriteString(header + "\n")

	b.WriteString(m.gaugeLine() + "\n")
	b.WriteString(Styles.Box.Render(m.viewport.View()) + "\n")

	switch {
	case m.err != nil:
		b.WriteString(Styles.Bad.Render(fmt.Sprintf("Error: %v", m.err)) + "\n")
	case m.summary != nil:
		b.WriteString(m.summaryLine() + "\n")
	}
	b.WriteString(Styles.Muted.Render("q: quit"))
	return b.String()
}

// gaugeLine renders the burned share of the patience budget.
func (m *Monitor) gaugeLine() string {
	streak := 0
	if m.last != nil {
		streak = m.last.BadStreak
	}
	// The run stops once the streak exceeds patience, so the gauge is
	// full at patience+1.
	pct := float64(streak) / float64(m.patience+1)
	if pct > 1 {
		pct = 1
	}
	label := fmt.Sprintf("patience %d/%d ", streak, m.patience)
	return Styles.Normal.Render(label) + m.gauge.ViewAs(pct)
}

func (m *Monitor) summaryLine() string {
	s := m.summary
	line := fmt.Sprintf("%s after %d update(s)", s.StopReason, s.Updates)
	if s.HasBest {
		line += fmt.Sprintf(", best %s %g", m.metric, s.BestScore)
	}
	style := Styles.Good
	if s.StopReason == watch.StopEarlyStopped {
		style = Styles.Bad
	}
	return style.Render(line)
}

// formatEvent renders one scrollback line for a metric update.
func (m *Monitor) formatEvent(ev progress.Event) string {
	line := fmt.Sprintf("%s %s=%g best=%g streak=%d",
		ev.Timestamp.Format("15:04:05"), ev.Metric, ev.Score, ev.Best, ev.BadStreak)
	switch ev.Outcome {
	case track.OutcomeSuccess:
		return Styles.Good.Render("↑ " + line)
	case track.OutcomeFail:
		return Styles.Bad.Render("✗ " + line)
	default:
		return Styles.Warn.Render("· " + line)
	}
}
