package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	primary   = lipgloss.Color("#7C3AED") // Purple
	secondary = lipgloss.Color("#10B981") // Green
	muted     = lipgloss.Color("#6B7280") // Gray
	warning   = lipgloss.Color("#F59E0B") // Amber
	errColor  = lipgloss.Color("#EF4444") // Red
	white     = lipgloss.Color("#FFFFFF")

	appStyle = lipgloss.NewStyle().
			Padding(1, 2)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primary).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primary)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(muted).
			Italic(true)

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(muted).
			Padding(0, 1)

	focusedPaneStyle = paneStyle.
				BorderForeground(secondary)

	selectedStyle = lipgloss.NewStyle().
			Background(primary).
			Foreground(white).
			Bold(true)

	tabStyle = lipgloss.NewStyle().
			Foreground(muted).
			Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Background(primary).
			Foreground(white).
			Bold(true).
			Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#1F2937")).
			Foreground(white).
			Padding(0, 1)

	successStyle = lipgloss.NewStyle().
			Foreground(secondary).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(errColor).
			Bold(true)

	progressStyle = lipgloss.NewStyle().
			Foreground(warning)

	mutedStyle = lipgloss.NewStyle().
			Foreground(muted)
)
