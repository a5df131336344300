package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	colorPrimary   = lipgloss.Color("#4F46E5")
	colorMuted     = lipgloss.Color("#666666")
	colorSuccess   = lipgloss.Color("#2ECC71")
	colorWarning   = lipgloss.Color("#F39C12")
	colorError     = lipgloss.Color("#E74C3C")
	colorFg        = lipgloss.Color("#C0CAF5")
	colorSubtle    = lipgloss.Color("#414868")
	colorHighlight = lipgloss.Color("#7AA2F7")
	colorSelection = lipgloss.Color("#1E3A8A")
	colorNow       = lipgloss.Color("#EF4444")
)

// Styles
var (
	// Tabs
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(colorPrimary).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(colorMuted).
				Padding(0, 2)

	// Panels
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSubtle).
			Padding(1, 2)

	activePanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Padding(1, 2)

	// Text
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorFg)

	successStyle = lipgloss.NewStyle().
			Foreground(colorSuccess)

	warningStyle = lipgloss.NewStyle().
			Foreground(colorWarning)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	highlightStyle = lipgloss.NewStyle().
			Foreground(colorHighlight)

	// Header/footer
	headerStyle = lipgloss.NewStyle().
			Padding(0, 1)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 1)

	// List items
	selectedItemStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	normalItemStyle = lipgloss.NewStyle().
			Foreground(colorFg)

	// Week grid
	buttonStyle = lipgloss.NewStyle().
			Foreground(colorFg).
			Background(colorSubtle).
			Padding(0, 1)

	dayHeaderStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Bold(true)

	todayHeaderStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true).
				Underline(true)

	slotLabelStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	gridLineStyle = lipgloss.NewStyle().
			Foreground(colorSubtle)

	cursorCellStyle = lipgloss.NewStyle().
			Background(colorSubtle)

	selectionCellStyle = lipgloss.NewStyle().
				Background(colorSelection).
				Foreground(colorFg)

	nowMarkerStyle = lipgloss.NewStyle().
			Foreground(colorNow).
			Bold(true)

	formErrorStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true)
)

// eventStyle colors a session card by its category.
func eventStyle(color string, completed bool) lipgloss.Style {
	s := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color(color))
	if completed {
		s = s.Faint(true)
	}
	return s
}

func dot(color string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("●")
}
