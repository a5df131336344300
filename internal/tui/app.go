package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/sadopc/studygrid/internal/config"
	"github.com/sadopc/studygrid/internal/export"
	"github.com/sadopc/studygrid/internal/log"
	"github.com/sadopc/studygrid/internal/schedule"
	"github.com/sadopc/studygrid/internal/store"
)

type exportFormat int

const (
	formatCSV exportFormat = iota
	formatJSON
	formatICS
)

var exportFormats = [...]struct {
	label string
	ext   string
	write func([]schedule.Block, map[string]store.Course, string) error
}{
	formatCSV:  {"CSV", ".csv", export.ToCSV},
	formatJSON: {"JSON", ".json", export.ToJSON},
	formatICS:  {"iCalendar", ".ics", export.ToICS},
}

// App is the root Bubble Tea model.
type App struct {
	store  *store.Store
	zones  *zone.Manager
	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  exportFormat
	exportDir     string

	week     weekModel
	courses  coursesModel
	summary  summaryModel
	settings settingsModel

	help     help.Model
	status   string
	statusOK bool
}

// Option customizes an App.
type Option func(*App)

// WithClock replaces time.Now for the week view.
func WithClock(now func() time.Time) Option {
	return func(a *App) {
		a.week = newWeekModel(a.store, a.zones, a.week.rowsPer, a.week.mouse, now)
		a.summary.setWeek(a.week.week)
	}
}

// WithExportDir sets where exports are written. Defaults to the home directory.
func WithExportDir(dir string) Option {
	return func(a *App) { a.exportDir = dir }
}

func NewApp(s *store.Store, cfg config.Config, opts ...Option) App {
	h := help.New()
	h.ShowAll = false
	zones := zone.New()
	week := newWeekModel(s, zones, cfg.SlotHeight, cfg.MouseEnabled(), time.Now)

	a := App{
		store:      s,
		zones:      zones,
		activeView: viewWeek,
		week:       week,
		courses:    newCoursesModel(s),
		summary:    newSummaryModel(s, week.week),
		settings:   newSettingsModel(s, cfg),
		help:       h,
	}
	for _, opt := range opts {
		opt(&a)
	}
	return a
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.week.refresh(),
		a.week.mount(),
		tickCmd(),
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(30*time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.week.setSize(a.width, contentHeight)
		a.courses.setSize(a.width, contentHeight)
		a.summary.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.MouseMsg:
		return a.updateMouse(msg)

	case tea.KeyMsg:
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Sequence(a.week.unmount(), tea.Quit)
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			return a.switchView(viewWeek)
		case key.Matches(msg, keys.Tab2):
			return a.switchView(viewCourses)
		case key.Matches(msg, keys.Tab3):
			return a.switchView(viewSummary)
		case key.Matches(msg, keys.Tab4):
			return a.switchView(viewSettings)
		case key.Matches(msg, keys.Tab):
			return a.switchView((a.activeView + 1) % viewState(len(viewNames)))
		}

	case tickMsg:
		a.week.setNow(time.Time(msg))
		return a, tickCmd()

	case statusMsg:
		a.status = msg.text
		a.statusOK = !msg.isError
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.statusOK = true
		a.exportPicking = false
		return a, nil

	case weekDataMsg, settingsSavedMsg:
		// Grid data and settings changes belong to the week view whichever tab is active.
		var cmd tea.Cmd
		a.week, cmd = a.week.update(msg)
		return a, cmd
	}

	return a.updateActiveView(msg)
}

// updateMouse routes mouse input to the week view. While a drag is in
// progress the release is delivered regardless of where it happens.
func (a App) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	a.week.top = lipgloss.Height(a.renderHeader())
	if a.week.selecting() && msg.Action == tea.MouseActionRelease {
		var cmd tea.Cmd
		a.week, cmd = a.week.update(msg)
		return a, cmd
	}
	if a.activeView != viewWeek || a.exportPicking {
		return a, nil
	}
	var cmd tea.Cmd
	a.week, cmd = a.week.update(msg)
	return a, cmd
}

// switchView changes tabs, releasing the mouse when leaving the week view
// and acquiring it when entering.
func (a App) switchView(v viewState) (tea.Model, tea.Cmd) {
	if v == a.activeView {
		return a, a.refreshCurrentView()
	}
	var cmds []tea.Cmd
	if a.activeView == viewWeek {
		cmds = append(cmds, a.week.unmount())
	}
	a.activeView = v
	if v == viewWeek {
		cmds = append(cmds, a.week.mount())
	}
	if v == viewSummary {
		a.summary.setWeek(a.week.week)
	}
	cmds = append(cmds, a.refreshCurrentView())
	return a, tea.Batch(cmds...)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewWeek:
		a.week, cmd = a.week.update(msg)
	case viewCourses:
		a.courses, cmd = a.courses.update(msg)
	case viewSummary:
		a.summary, cmd = a.summary.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewWeek:
		return a.week.formActive()
	case viewCourses:
		return a.courses.formActive
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewWeek:
		return a.week.refresh()
	case viewCourses:
		return a.courses.refresh()
	case viewSummary:
		return a.summary.refresh()
	case viewSettings:
		return a.settings.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewWeek:
		content = a.week.view()
	case viewCourses:
		content = a.courses.view()
	case viewSummary:
		content = a.summary.view()
	case viewSettings:
		content = a.settings.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(a.height-headerHeight-footerHeight, 1)

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		MaxHeight(contentHeight).
		Render(content)

	return a.zones.Scan(lipgloss.JoinVertical(lipgloss.Left, header, content, footer))
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("studygrid")
	gap := max(a.width-lipgloss.Width(title)-lipgloss.Width(tabRow)-4, 1)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		style := successStyle
		if !a.statusOK {
			style = errorStyle
		}
		status = style.Render(" " + a.status)
	}

	selecting := ""
	if a.week.selecting() {
		selecting = warningStyle.Render(" ● selecting")
	}

	left := footerStyle.Render(helpView)
	right := selecting + status

	gap := max(a.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export " + a.week.week.Label() + " week")
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range exportFormats {
		cursor := "  "
		style := normalItemStyle
		if exportFormat(i) == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f.label))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	return activePanelStyle.Width(a.width - 4).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if int(a.exportCursor) < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

// doExport writes the displayed week in the chosen format.
func (a App) doExport(format exportFormat) tea.Cmd {
	f := exportFormats[format]
	week := a.week.week
	dir := a.exportDir
	return func() tea.Msg {
		blocks, err := a.store.ListBlocks(week.Start(), week.End())
		if err != nil {
			return errorStatus("Export", err)
		}
		courses, err := a.store.ListCourses()
		if err != nil {
			return errorStatus("Export", err)
		}

		if dir == "" {
			dir, _ = os.UserHomeDir()
		}
		path := filepath.Join(dir, "studygrid-week-"+week.Start().Format("2006-01-02")+f.ext)
		if err := f.write(blocks, export.CourseMap(courses), path); err != nil {
			return errorStatus(fmt.Sprintf("%s export", f.label), err)
		}
		log.Info("week exported", "path", path)
		return exportDoneMsg{path: path}
	}
}
