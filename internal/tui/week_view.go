package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/sadopc/studygrid/internal/schedule"
)

func (m weekModel) view() string {
	if m.form != nil {
		return m.renderForm()
	}
	if m.listMode {
		rows := append([]string{m.renderToolbar(), ""}, m.renderList()...)
		return strings.Join(rows, "\n")
	}
	rows := []string{m.renderToolbar(), m.renderDayHeader()}
	rows = append(rows, m.renderGrid()...)
	rows = append(rows, "", m.renderLegend())
	return strings.Join(rows, "\n")
}

func (m weekModel) mark(id, s string) string {
	if m.zones == nil {
		return s
	}
	return m.zones.Mark(zonePrefix+id, s)
}

func (m weekModel) renderToolbar() string {
	modeLabel := "☰ list"
	if m.listMode {
		modeLabel = "▦ grid"
	}
	buttons := []string{
		m.mark("prev", buttonStyle.Render("‹ prev")),
		m.mark("today", buttonStyle.Render("today")),
		m.mark("next", buttonStyle.Render("next ›")),
		m.mark("new", buttonStyle.Render("+ session")),
		m.mark("mode", buttonStyle.Render(modeLabel)),
	}
	label := titleStyle.Render(m.week.Label())
	rng := mutedStyle.Render(fmt.Sprintf("%s – %s", m.week[0].Format("Jan 2"), m.week[6].Format("Jan 2")))

	parts := []string{strings.Join(buttons, " "), "  ", label, " ", rng}
	if m.selector.Active() {
		lo, hi := m.selector.Anchor(), m.selector.Current()
		if hi.Minutes < lo.Minutes {
			lo, hi = hi, lo
		}
		parts = append(parts, "  ", highlightStyle.Render(fmt.Sprintf("selecting %s–%s",
			schedule.FormatMinutes(lo.Minutes), schedule.FormatMinutes(schedule.SlotEnd(hi.Minutes, m.grid.Interval)))))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m weekModel) renderDayHeader() string {
	colW := m.colWidth()
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", labelWidth))
	for _, d := range m.week {
		text := ansi.Truncate(d.Format("Mon 2"), colW-1, "")
		style := dayHeaderStyle
		if sameDay(d, m.today) {
			style = todayHeaderStyle
		}
		b.WriteString(" " + lipgloss.NewStyle().Width(colW-1).Render(style.Render(text)))
	}
	return b.String()
}

func (m weekModel) renderGrid() []string {
	colW := m.colWidth()
	rows := m.visibleSlots() * m.rowsPer

	columns := make([][]string, len(m.week))
	for d := range m.week {
		columns[d] = m.renderColumn(d, colW, rows)
	}

	lines := make([]string, rows)
	for r := range rows {
		var b strings.Builder
		if r%m.rowsPer == 0 {
			slot := m.slots[m.scroll+r/m.rowsPer]
			b.WriteString(slotLabelStyle.Render(fmt.Sprintf("%-*s", labelWidth, slot.Label)))
		} else {
			b.WriteString(strings.Repeat(" ", labelWidth))
		}
		for d := range columns {
			b.WriteString(columns[d][r])
		}
		lines[r] = b.String()
	}
	return lines
}

func (m weekModel) renderColumn(day, colW, rows int) []string {
	out := make([]string, rows)
	for r := range rows {
		slot := m.slots[m.scroll+r/m.rowsPer]
		cell := schedule.Cell{Day: day, Minutes: slot.Minutes()}
		out[r] = m.renderCell(cell, r%m.rowsPer == 0, colW)
	}

	cursor := m.cursorCell()
	for _, e := range schedule.EventsOn(m.events, day) {
		top, height, ok := m.rowSpan(e, rows)
		if !ok {
			continue
		}
		focused := day == cursor.Day && e.StartMinutes() < cursor.Minutes+m.grid.Interval && e.EndMinutes() > cursor.Minutes
		for i, line := range m.renderCard(e, colW, height, focused) {
			out[top+i] = line
		}
	}
	return out
}

func (m weekModel) renderCell(c schedule.Cell, firstRow bool, colW int) string {
	sep := gridLineStyle.Render("│")
	width := colW - 1

	switch {
	case m.selector.Contains(c):
		return sep + selectionCellStyle.Render(strings.Repeat(" ", width))
	case m.isNow(c) && firstRow:
		marker := ansi.Truncate("▶ "+m.today.Format("15:04")+" "+strings.Repeat("─", width), width, "")
		return sep + nowMarkerStyle.Render(marker)
	case c == m.cursorCell():
		return sep + cursorCellStyle.Render(strings.Repeat(" ", width))
	case firstRow:
		return sep + gridLineStyle.Render(strings.Repeat("╌", width))
	}
	return sep + strings.Repeat(" ", width)
}

// rowSpan converts an event's geometry to terminal rows of the visible
// window, clipping events that extend past it. Events with no positive
// height or entirely outside the window are hidden.
func (m weekModel) rowSpan(e schedule.CalendarEvent, rows int) (top, height int, ok bool) {
	unit := float64(m.rowsPer)
	h := schedule.Height(e, m.grid.Interval, unit)
	if h <= 0 {
		return 0, 0, false
	}
	t := int(math.Round(schedule.Top(e, m.grid.StartHour, m.grid.Interval, unit))) - m.scroll*m.rowsPer
	end := t + max(int(math.Round(h)), 1)
	if end <= 0 || t >= rows {
		return 0, 0, false
	}
	t = max(t, 0)
	end = min(end, rows)
	return t, end - t, true
}

func (m weekModel) renderCard(e schedule.CalendarEvent, colW, height int, focused bool) []string {
	width := colW - 1
	title := e.Title
	if e.Completed {
		title = "✓ " + title
	}
	lines := []string{title, e.StartTime + "–" + e.EndTime}
	course := m.course(e.CourseID)
	if course.Name != "" {
		lines = append(lines, course.Name)
	}
	if e.Completed {
		lines = append(lines, "Completed")
	}

	barColor := e.Color
	if course.Color != "" {
		barColor = course.Color
	}
	bar := "▌"
	if focused {
		bar = "▶"
	}
	bar = lipgloss.NewStyle().Foreground(lipgloss.Color(barColor)).Render(bar)
	style := eventStyle(e.Color, e.Completed).Width(width).Bold(focused)

	out := make([]string, height)
	for i := range out {
		text := ""
		if i < len(lines) {
			text = ansi.Truncate(lines[i], width, "…")
		}
		out[i] = bar + style.Render(text)
	}
	return out
}

func (m weekModel) renderLegend() string {
	items := make([]string, 0, len(schedule.Categories())+1)
	for _, c := range schedule.Categories() {
		items = append(items, eventStyle(c.Color(), false).Render("  ")+" "+c.Label())
	}
	items = append(items, mutedStyle.Render("✓ completed"))
	return strings.Join(items, "   ")
}

func (m weekModel) course(id string) schedule.Course {
	return m.courseIdx[id]
}

// isNow reports whether c is the slot of today's column containing the current time.
func (m weekModel) isNow(c schedule.Cell) bool {
	if !sameDay(m.week[c.Day], m.today) {
		return false
	}
	minutes := m.today.Hour()*60 + m.today.Minute()
	return minutes >= c.Minutes && minutes < c.Minutes+m.grid.Interval
}
