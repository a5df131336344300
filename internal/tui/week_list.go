package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/sadopc/studygrid/internal/schedule"
)

// The list mode shows the displayed week as one card per day with the
// day's sessions in start order, each with a completion check.

func (m *weekModel) toggleMode() {
	m.listMode = !m.listMode
	m.selector.Cancel()
}

// listCursor returns the index of the selected event, falling back to the
// first event when the selection no longer exists.
func (m weekModel) listCursor() int {
	if len(m.events) == 0 {
		return -1
	}
	return max(schedule.FindEvent(m.events, m.listSel), 0)
}

func (m weekModel) listEvent() (schedule.CalendarEvent, bool) {
	i := m.listCursor()
	if i < 0 {
		return schedule.CalendarEvent{}, false
	}
	return m.events[i], true
}

func (m *weekModel) moveListCursor(dy int) {
	i := m.listCursor()
	if i < 0 {
		m.listSel = ""
		return
	}
	m.listSel = m.events[clamp(i+dy, 0, len(m.events)-1)].ID
}

func (m weekModel) updateListKeys(msg tea.KeyMsg) (weekModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		m.moveListCursor(-1)
		return m, nil
	case key.Matches(msg, keys.Down):
		m.moveListCursor(1)
		return m, nil
	}

	e, ok := m.listEvent()
	switch {
	case !ok && (key.Matches(msg, keys.Enter) || key.Matches(msg, keys.Toggle) || key.Matches(msg, keys.Delete)):
		return m, statusCmd(statusMsg{text: "No sessions this week"})
	case key.Matches(msg, keys.Enter):
		return m.openEdit(e)
	case key.Matches(msg, keys.Toggle):
		return m, m.toggle(e)
	case key.Matches(msg, keys.Delete):
		return m.deleteEvent(e)
	}
	return m, nil
}

func (m weekModel) updateListMouse(msg tea.MouseMsg) (weekModel, tea.Cmd) {
	if msg.Action != tea.MouseActionPress {
		return m, nil
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.moveListCursor(-1)
	case tea.MouseButtonWheelDown:
		m.moveListCursor(1)
	case tea.MouseButtonLeft:
		if id, ok := m.clickButton(msg); ok {
			return m.runButton(id)
		}
		if m.zones == nil {
			return m, nil
		}
		for _, e := range m.events {
			if z := m.zones.Get(zonePrefix + "check-" + e.ID); z != nil && z.InBounds(msg) {
				m.listSel = e.ID
				return m, m.toggle(e)
			}
			if z := m.zones.Get(zonePrefix + "item-" + e.ID); z != nil && z.InBounds(msg) {
				m.listSel = e.ID
				return m.openEdit(e)
			}
		}
	}
	return m, nil
}

func (m weekModel) renderList() []string {
	width := max(m.width-2, 24)
	sel := m.listCursor()
	selLine := 0

	var lines []string
	for d, date := range m.week {
		header := date.Format("Monday, January 2")
		style := dayHeaderStyle
		if sameDay(date, m.today) {
			header += "  Today"
			style = todayHeaderStyle
		}
		lines = append(lines, style.Render(header))

		empty := true
		for i, e := range m.events {
			if e.Day != d {
				continue
			}
			if i == sel {
				selLine = len(lines)
			}
			lines = append(lines, m.renderListItem(e, i == sel, width))
			empty = false
		}
		if empty {
			lines = append(lines, mutedStyle.Render("    No study sessions scheduled"))
		}
		lines = append(lines, "")
	}

	if m.height == 0 {
		return lines
	}
	visible := max(m.height-2, 1)
	offset := clamp(selLine-visible+1, 0, max(len(lines)-visible, 0))
	return lines[offset:min(offset+visible, len(lines))]
}

func (m weekModel) renderListItem(e schedule.CalendarEvent, selected bool, width int) string {
	course := m.course(e.CourseID)
	name := course.Name
	if name == "" {
		name = "Unknown Course"
	}
	color := course.Color
	if color == "" {
		color = e.Color
	}

	cursor, style := "  ", normalItemStyle
	if selected {
		cursor, style = "> ", selectedItemStyle
	}
	check, checkStyle := "[ ]", mutedStyle
	if e.Completed {
		check, checkStyle = "[✓]", successStyle
	}

	bar := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("▌")
	text := fmt.Sprintf("%s – %s  %s · %s", clock12(e.StartMinutes()), clock12(e.EndMinutes()), e.Title, name)
	text = ansi.Truncate(text, max(width-8, 1), "…")
	return cursor + bar + " " + m.mark("check-"+e.ID, checkStyle.Render(check)) + " " + m.mark("item-"+e.ID, style.Render(text))
}

// clock12 renders minutes of day on a 12-hour clock, e.g. "9:30 AM".
func clock12(minutes int) string {
	return time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(minutes) * time.Minute).Format("3:04 PM")
}
