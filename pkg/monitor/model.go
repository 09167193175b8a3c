package monitor

import (
	"fmt"
	"strings"
	"time"

	"lockladder/pkg/concurrency/lock"
	"lockladder/pkg/monitor/base"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const refreshEvery = 100 * time.Millisecond

// tickMsg triggers a snapshot refresh.
type tickMsg time.Time

// Model is the bubbletea model for the live lock monitor. It polls the
// coordinator's diagnostic snapshot on a fixed interval and renders one
// row per touched level.
type Model struct {
	coord     *lock.Coordinator
	scenario  string
	levelView viewport.Model
	help      help.Model
	keys      keyMap

	width    int
	height   int
	paused   bool
	showHelp bool

	snap      lock.Snapshot
	startedAt time.Time
}

// NewModel builds a monitor over the given coordinator. The scenario
// name is display-only.
func NewModel(coord *lock.Coordinator, scenario string) Model {
	vp := viewport.New(80, 16)
	vp.Style = tableStyle

	return Model{
		coord:     coord,
		scenario:  scenario,
		levelView: vp,
		help:      help.New(),
		keys:      keys,
		snap:      coord.Snapshot(),
		startedAt: time.Now(),
	}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(refreshEvery, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.levelView.Width = msg.Width - 4
		m.levelView.Height = msg.Height - 9

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Pause):
			m.paused = !m.paused

		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp

		default:
			var cmd tea.Cmd
			m.levelView, cmd = m.levelView.Update(msg)
			return m, cmd
		}

	case tickMsg:
		if !m.paused {
			m.snap = m.coord.Snapshot()
			m.levelView.SetContent(m.renderLevels())
		}
		return m, tick()
	}

	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	title := titleStyle.Render("LockLadder Monitor")
	badge := scenarioBadgeStyle.Render(m.scenario)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, title, badge))
	b.WriteString("\n")

	b.WriteString(m.levelView.View())
	b.WriteString("\n")

	b.WriteString(m.renderStatusBar())
	b.WriteString("\n")

	if m.showHelp {
		b.WriteString(helpStyle.Render(m.help.FullHelpView(m.keys.FullHelp())))
	} else {
		b.WriteString(helpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp())))
	}

	return b.String()
}

// renderLevels renders one row per touched level, idle rows dimmed.
func (m Model) renderLevels() string {
	var b strings.Builder

	header := fmt.Sprintf("%-6s %-8s %-7s %-14s %-14s %-12s %-10s",
		"LEVEL", "READERS", "WRITER", "PENDING-W", "PENDING-R", "GRANTS", "WAITS")
	b.WriteString(tableHeaderStyle.Render(header))
	b.WriteString("\n")

	if len(m.snap.Levels) == 0 {
		b.WriteString(idleRowStyle.Render("no levels touched yet"))
		return b.String()
	}

	for _, ls := range m.snap.Levels {
		writer := "-"
		if ls.ActiveWriter {
			writer = writerCellStyle.Render("WRITE")
		}

		readers := fmt.Sprintf("%d", ls.Readers)
		if ls.Readers > 0 {
			readers = readerCellStyle.Render(readers)
		}

		row := fmt.Sprintf("%-6s %-8s %-7s %s %-3d %s %-3d %-12s %-10s",
			ls.Level.String(),
			readers,
			writer,
			queueCellStyle.Render(base.Bar(ls.PendingWriters, 8)),
			ls.PendingWriters,
			queueCellStyle.Render(base.Bar(ls.PendingReaders, 8)),
			ls.PendingReaders,
			fmt.Sprintf("r:%d w:%d", ls.ReadGrants, ls.WriteGrants),
			fmt.Sprintf("r:%d w:%d", ls.ReadWaits, ls.WriteWaits),
		)

		style := rowStyle
		if ls.Idle() {
			style = idleRowStyle
		}
		b.WriteString(style.Render(row))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) renderStatusBar() string {
	uptime := time.Since(m.startedAt).Round(time.Second)

	status := fmt.Sprintf("uptime %s │ acquires %d │ releases %d │ waiting writers %d │ waiting readers %d",
		uptime,
		m.snap.AcquireCalls,
		m.snap.ReleaseCalls,
		m.snap.TotalPendingWriters(),
		m.snap.TotalPendingReaders(),
	)

	bar := statusBarStyle.Render(status)
	if m.paused {
		bar = lipgloss.JoinHorizontal(lipgloss.Top, pausedStyle.Render("PAUSED"), bar)
	}
	return bar
}
