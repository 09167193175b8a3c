package monitor

import (
	"lockladder/pkg/monitor/base"

	"github.com/charmbracelet/lipgloss"
)

var (
	palette = base.DarkPalette

	primaryColor   = palette.Primary
	secondaryColor = palette.Secondary
	accentColor    = palette.Accent
	warningColor   = palette.Warning
	errorColor     = palette.Error

	bgDark   = lipgloss.Color("#0F172A")
	bgMedium = lipgloss.Color("#1E293B")
	bgLight  = lipgloss.Color("#334155")

	textPrimary   = lipgloss.Color("#F8FAFC")
	textSecondary = lipgloss.Color("#CBD5E1")
	textMuted     = palette.Muted
)

// Styles for the monitor's UI regions
var (
	titleStyle = lipgloss.NewStyle().
			Background(primaryColor).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true).
			Padding(0, 2).
			MarginBottom(1)

	scenarioBadgeStyle = lipgloss.NewStyle().
				Background(secondaryColor).
				Foreground(bgDark).
				Bold(true).
				Padding(0, 1).
				MarginRight(2)

	statusBarStyle = lipgloss.NewStyle().
			Background(bgMedium).
			Foreground(textSecondary).
			Padding(0, 1)

	tableHeaderStyle = lipgloss.NewStyle().
				Foreground(secondaryColor).
				Bold(true).
				Padding(0, 1)

	rowStyle = lipgloss.NewStyle().
			Foreground(textPrimary).
			Padding(0, 1)

	idleRowStyle = lipgloss.NewStyle().
			Foreground(textMuted).
			Padding(0, 1)

	writerCellStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)

	readerCellStyle = lipgloss.NewStyle().
			Foreground(accentColor)

	queueCellStyle = lipgloss.NewStyle().
			Foreground(warningColor)

	tableStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(bgLight).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(textMuted).
			MarginTop(1).
			Padding(0, 1)

	pausedStyle = lipgloss.NewStyle().
			Background(warningColor).
			Foreground(bgDark).
			Bold(true).
			Padding(0, 1)
)
