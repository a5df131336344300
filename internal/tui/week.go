package tui

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	zone "github.com/lrstanley/bubblezone"

	"github.com/sadopc/studygrid/internal/log"
	"github.com/sadopc/studygrid/internal/schedule"
	"github.com/sadopc/studygrid/internal/store"
)

const (
	labelWidth   = 6
	minColWidth  = 8
	chromeRows   = 4 // toolbar, day header, blank, legend
	zonePrefix   = "week-"
	actionSave   = "save"
	actionToggle = "toggle"
	actionDelete = "delete"
)

// weekModel is the grid view: one column per day of the displayed week and
// one row band per time slot.
type weekModel struct {
	store  *store.Store
	zones  *zone.Manager
	width  int
	height int
	top    int // screen row of the view's first line

	now       func() time.Time
	today     time.Time
	weekStart time.Weekday
	grid      schedule.GridConfig
	slots     []schedule.TimeSlot
	rowsPer   int // terminal rows per slot
	week      schedule.Week

	events    []schedule.CalendarEvent
	courses   []store.Course
	courseIdx map[string]schedule.Course

	selector schedule.Selector
	dialog   schedule.Dialog
	bridge   *sessionBridge

	cursorDay  int
	cursorSlot int
	scroll     int // first visible slot
	mouse      bool

	listMode bool   // day cards instead of the time grid
	listSel  string // event ID under the list cursor

	form    *huh.Form
	fields  *schedule.FormState // form values (survive value copies)
	action  *string
	formErr string
}

func newWeekModel(s *store.Store, zones *zone.Manager, rowsPer int, mouse bool, now func() time.Time) weekModel {
	if now == nil {
		now = time.Now
	}
	if rowsPer < 1 {
		rowsPer = 1
	}
	grid := schedule.DefaultGridConfig()
	slots, _ := grid.Slots()
	today := now()
	week := schedule.CurrentWeek(today, time.Sunday)
	bridge := &sessionBridge{store: s, week: week}
	action := actionSave

	m := weekModel{
		store:     s,
		zones:     zones,
		now:       now,
		today:     today,
		weekStart: time.Sunday,
		grid:      grid,
		slots:     slots,
		rowsPer:   rowsPer,
		week:      week,
		selector:  schedule.NewSelector(grid.Interval),
		dialog:    schedule.NewDialog(bridge.callbacks()),
		bridge:    bridge,
		mouse:     mouse,
		fields:    &schedule.FormState{},
		action:    &action,
	}
	m.cursorDay = max(week.Index(today), 0)
	m.cursorSlot = m.slotFor(today.Hour()*60 + today.Minute())
	return m
}

func (m *weekModel) setSize(w, h int) {
	m.width = w
	m.height = h
	m.ensureVisible()
}

func (m *weekModel) setNow(t time.Time) { m.today = t }

func (m weekModel) formActive() bool { return m.form != nil }

func (m weekModel) selecting() bool { return m.selector.Active() }

// mount acquires mouse motion reporting for drag selection.
func (m weekModel) mount() tea.Cmd {
	if !m.mouse {
		return nil
	}
	return tea.EnableMouseCellMotion
}

// unmount drops any drag in progress and releases the mouse.
func (m *weekModel) unmount() tea.Cmd {
	m.selector.Cancel()
	if !m.mouse {
		return nil
	}
	return tea.DisableMouse
}

func (m *weekModel) setWeek(w schedule.Week) {
	m.week = w
	m.bridge.week = w
	m.events = nil
	m.selector.Cancel()
}

type weekDataMsg struct {
	start     time.Time
	blocks    []schedule.Block
	courses   []store.Course
	grid      schedule.GridConfig
	weekStart time.Weekday
	err       error
}

func (m weekModel) refresh() tea.Cmd {
	week := m.week
	return func() tea.Msg {
		grid, weekStart, err := m.store.GridSettings()
		if err != nil {
			log.Error("grid settings invalid, using defaults", err)
		}
		if weekStart != week[0].Weekday() {
			week = schedule.CurrentWeek(week[3], weekStart)
		}
		msg := weekDataMsg{start: week.Start(), grid: grid, weekStart: weekStart}
		msg.blocks, err = m.store.ListBlocks(week.Start(), week.End())
		if err != nil {
			msg.err = fmt.Errorf("list sessions: %w", err)
			return msg
		}
		msg.courses, err = m.store.ListCourses()
		if err != nil {
			msg.err = fmt.Errorf("list courses: %w", err)
		}
		return msg
	}
}

func (m weekModel) update(msg tea.Msg) (weekModel, tea.Cmd) {
	// Loads land even while the form is open; the form never sees them.
	switch msg := msg.(type) {
	case weekDataMsg:
		return m.applyData(msg)
	case settingsSavedMsg:
		return m, m.refresh()
	}

	if m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tea.MouseMsg:
		return m.updateMouse(msg)

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m weekModel) applyData(msg weekDataMsg) (weekModel, tea.Cmd) {
	if msg.err != nil {
		return m, statusCmd(errorStatus("Load week", msg.err))
	}
	m.applyGrid(msg.grid, msg.weekStart)
	if !msg.start.Equal(m.week.Start()) {
		return m, nil // stale: the week changed while loading
	}
	m.courses = msg.courses
	display := displayCourses(msg.courses)
	m.courseIdx = schedule.CourseIndex(display)
	m.dialog.SetCourses(display)
	m.events = schedule.ToCalendarEvents(msg.blocks, m.weekStart)
	return m, nil
}

func (m *weekModel) applyGrid(grid schedule.GridConfig, weekStart time.Weekday) {
	if grid != m.grid {
		slots, err := grid.Slots()
		if err != nil {
			log.Error("apply grid", err)
		} else {
			m.grid = grid
			m.slots = slots
			m.selector = schedule.NewSelector(grid.Interval)
			m.cursorSlot = clamp(m.cursorSlot, 0, len(slots)-1)
			m.ensureVisible()
		}
	}
	if weekStart != m.weekStart {
		m.weekStart = weekStart
		m.setWeek(schedule.CurrentWeek(m.week[3], weekStart))
	}
}

func (m weekModel) updateKeys(msg tea.KeyMsg) (weekModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.ViewMode):
		m.toggleMode()
		return m, nil
	case key.Matches(msg, keys.New):
		return m.newSession()
	case key.Matches(msg, keys.PrevWeek):
		m.setWeek(m.week.Navigate(schedule.Backward))
		return m, m.refresh()
	case key.Matches(msg, keys.NextWeek):
		m.setWeek(m.week.Navigate(schedule.Forward))
		return m, m.refresh()
	case key.Matches(msg, keys.Today):
		return m.jumpToday()
	}
	if m.listMode {
		return m.updateListKeys(msg)
	}

	switch {
	case key.Matches(msg, keys.Back):
		m.selector.Cancel()
	case key.Matches(msg, keys.ExtendUp):
		m.extend(-1)
	case key.Matches(msg, keys.ExtendDown):
		m.extend(1)
	case key.Matches(msg, keys.Up):
		m.moveCursor(0, -1)
	case key.Matches(msg, keys.Down):
		m.moveCursor(0, 1)
	case key.Matches(msg, keys.Left):
		m.moveCursor(-1, 0)
	case key.Matches(msg, keys.Right):
		m.moveCursor(1, 0)
	case key.Matches(msg, keys.Enter):
		return m.activate(m.cursorCell())
	case key.Matches(msg, keys.Toggle):
		if i := m.eventAt(m.cursorCell()); i >= 0 {
			return m, m.toggle(m.events[i])
		}
		return m, statusCmd(statusMsg{text: "No session under the cursor"})
	case key.Matches(msg, keys.Delete):
		return m.deleteAt(m.cursorCell())
	}
	return m, nil
}

func (m weekModel) updateMouse(msg tea.MouseMsg) (weekModel, tea.Cmd) {
	if m.listMode {
		return m.updateListMouse(msg)
	}
	cell, onCell := m.cellAt(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.scrollBy(-1)
		case tea.MouseButtonWheelDown:
			m.scrollBy(1)
		case tea.MouseButtonLeft:
			if id, ok := m.clickButton(msg); ok {
				return m.runButton(id)
			}
			if !onCell {
				return m, nil
			}
			m.cursorDay, m.cursorSlot = cell.Day, m.slotFor(cell.Minutes)
			if i := m.eventAt(cell); i >= 0 {
				return m.openEdit(m.events[i])
			}
			m.selector.Press(cell)
		}

	case tea.MouseActionMotion:
		if m.selector.Active() && onCell {
			m.selector.Enter(cell)
			if cell.Day == m.selector.Anchor().Day {
				m.cursorSlot = m.slotFor(cell.Minutes)
			}
		}

	case tea.MouseActionRelease:
		if !m.selector.Active() {
			return m, nil
		}
		span, ok := m.selector.Release(cell, onCell)
		if !ok {
			return m, nil
		}
		return m.openCreate(schedule.FormFromSpan(span, displayCourses(m.courses)))
	}
	return m, nil
}

var weekButtons = []string{"prev", "today", "next", "new", "mode"}

func (m weekModel) clickButton(msg tea.MouseMsg) (string, bool) {
	if m.zones == nil {
		return "", false
	}
	for _, id := range weekButtons {
		if z := m.zones.Get(zonePrefix + id); z != nil && z.InBounds(msg) {
			return id, true
		}
	}
	return "", false
}

func (m weekModel) runButton(id string) (weekModel, tea.Cmd) {
	switch id {
	case "prev":
		m.setWeek(m.week.Navigate(schedule.Backward))
		return m, m.refresh()
	case "next":
		m.setWeek(m.week.Navigate(schedule.Forward))
		return m, m.refresh()
	case "today":
		return m.jumpToday()
	case "new":
		return m.newSession()
	case "mode":
		m.toggleMode()
	}
	return m, nil
}

// activate is the keyboard click: it finishes a keyboard selection, opens
// the session under the cell or starts a one-slot session there.
func (m weekModel) activate(cell schedule.Cell) (weekModel, tea.Cmd) {
	if !m.selector.Active() {
		if i := m.eventAt(cell); i >= 0 {
			return m.openEdit(m.events[i])
		}
		m.selector.Press(cell)
	}
	span, ok := m.selector.Release(cell, true)
	if !ok {
		return m, nil
	}
	return m.openCreate(schedule.FormFromSpan(span, displayCourses(m.courses)))
}

func (m weekModel) newSession() (weekModel, tea.Cmd) {
	m.selector.Cancel()
	span := schedule.SlotSpan(m.cursorDay, m.slots[m.cursorSlot].Minutes(), m.grid.Interval)
	return m.openCreate(schedule.FormFromSpan(span, displayCourses(m.courses)))
}

func (m weekModel) jumpToday() (weekModel, tea.Cmd) {
	now := m.now()
	m.today = now
	m.setWeek(schedule.CurrentWeek(now, m.weekStart))
	m.cursorDay = max(m.week.Index(now), 0)
	m.cursorSlot = m.slotFor(now.Hour()*60 + now.Minute())
	m.ensureVisible()
	return m, m.refresh()
}

func (m weekModel) deleteAt(cell schedule.Cell) (weekModel, tea.Cmd) {
	i := m.eventAt(cell)
	if i < 0 {
		return m, statusCmd(statusMsg{text: "No session under the cursor"})
	}
	return m.deleteEvent(m.events[i])
}

func (m weekModel) deleteEvent(e schedule.CalendarEvent) (weekModel, tea.Cmd) {
	if err := m.dialog.OpenEdit(e); err != nil {
		return m, statusCmd(errorStatus("Delete session", err))
	}
	events, err := m.dialog.Delete(m.events)
	m.events = events
	if err != nil {
		return m, tea.Batch(statusCmd(errorStatus("Delete session", err)), m.refresh())
	}
	return m, tea.Batch(statusCmd(statusMsg{text: "Session deleted"}), m.refresh())
}

func (m weekModel) toggle(e schedule.CalendarEvent) tea.Cmd {
	if err := m.dialog.ToggleCompletion(e); err != nil {
		return statusCmd(errorStatus("Toggle completion", err))
	}
	text := "Session marked done"
	if e.Completed {
		text = "Session reopened"
	}
	return tea.Batch(statusCmd(statusMsg{text: text}), m.refresh())
}

func (m weekModel) openCreate(prefill schedule.FormState) (weekModel, tea.Cmd) {
	if err := m.dialog.OpenCreate(prefill); err != nil {
		return m, statusCmd(errorStatus("New session", err))
	}
	m.formErr = ""
	return m.buildForm()
}

func (m weekModel) openEdit(e schedule.CalendarEvent) (weekModel, tea.Cmd) {
	m.selector.Cancel()
	if err := m.dialog.OpenEdit(e); err != nil {
		return m, statusCmd(errorStatus("Edit session", err))
	}
	m.formErr = ""
	return m.buildForm()
}

func (m weekModel) updateForm(msg tea.Msg) (weekModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "esc" {
		m.dialog.Close()
		m.form = nil
		m.formErr = ""
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		return m.commitForm()
	case huh.StateAborted:
		m.dialog.Close()
		m.form = nil
		return m, nil
	}
	return m, cmd
}

// commitForm applies the submitted form through the dialog controller.
// Validation failures reopen the form with the message above it.
func (m weekModel) commitForm() (weekModel, tea.Cmd) {
	m.form = nil

	switch *m.action {
	case actionDelete:
		events, err := m.dialog.Delete(m.events)
		m.events = events
		if err != nil {
			return m, tea.Batch(statusCmd(errorStatus("Delete session", err)), m.refresh())
		}
		return m, tea.Batch(statusCmd(statusMsg{text: "Session deleted"}), m.refresh())
	case actionToggle:
		e, _ := m.dialog.Editing()
		m.dialog.Close()
		return m, m.toggle(e)
	}

	events, err := m.dialog.Save(m.events, *m.fields)
	var verr *schedule.ValidationError
	if errors.As(err, &verr) && m.dialog.Open() {
		m.formErr = verr.Error()
		return m.buildForm()
	}
	m.events = events
	m.formErr = ""
	if err != nil {
		return m, tea.Batch(statusCmd(errorStatus("Save session", err)), m.refresh())
	}
	return m, tea.Batch(statusCmd(statusMsg{text: "Session saved"}), m.refresh())
}

// --- Grid geometry ---

func (m weekModel) cursorCell() schedule.Cell {
	return schedule.Cell{Day: m.cursorDay, Minutes: m.slots[m.cursorSlot].Minutes()}
}

func (m *weekModel) moveCursor(dx, dy int) {
	if dx != 0 {
		m.selector.Cancel()
	}
	m.cursorDay = clamp(m.cursorDay+dx, 0, 6)
	m.cursorSlot = clamp(m.cursorSlot+dy, 0, len(m.slots)-1)
	m.ensureVisible()
}

// extend grows a keyboard selection from the cursor in direction dir.
func (m *weekModel) extend(dir int) {
	if !m.selector.Active() {
		m.selector.Press(m.cursorCell())
	}
	m.cursorSlot = clamp(m.cursorSlot+dir, 0, len(m.slots)-1)
	m.ensureVisible()
	m.selector.Enter(m.cursorCell())
}

func (m *weekModel) scrollBy(n int) {
	m.scroll = clamp(m.scroll+n, 0, max(len(m.slots)-m.visibleSlots(), 0))
}

func (m *weekModel) ensureVisible() {
	visible := m.visibleSlots()
	if m.cursorSlot < m.scroll {
		m.scroll = m.cursorSlot
	}
	if m.cursorSlot >= m.scroll+visible {
		m.scroll = m.cursorSlot - visible + 1
	}
	m.scroll = clamp(m.scroll, 0, max(len(m.slots)-visible, 0))
}

func (m weekModel) visibleSlots() int {
	if m.height == 0 {
		return len(m.slots)
	}
	n := (m.height - chromeRows) / m.rowsPer
	return clamp(n, 1, len(m.slots))
}

func (m weekModel) colWidth() int {
	return max((m.width-labelWidth)/7, minColWidth)
}

// cellAt maps a screen position to a grid cell.
func (m weekModel) cellAt(x, y int) (schedule.Cell, bool) {
	row := y - m.top - 2
	col := x - labelWidth
	if row < 0 || col < 0 || row >= m.visibleSlots()*m.rowsPer {
		return schedule.Cell{}, false
	}
	day := col / m.colWidth()
	slot := m.scroll + row/m.rowsPer
	if day > 6 || slot >= len(m.slots) {
		return schedule.Cell{}, false
	}
	return schedule.Cell{Day: day, Minutes: m.slots[slot].Minutes()}, true
}

// slotFor returns the index of the slot containing minutes, clamped to the grid.
func (m weekModel) slotFor(minutes int) int {
	idx := 0
	for i, s := range m.slots {
		if s.Minutes() <= minutes {
			idx = i
		}
	}
	return idx
}

// eventAt returns the index of the topmost event overlapping the cell's slot, or -1.
func (m weekModel) eventAt(c schedule.Cell) int {
	for i := len(m.events) - 1; i >= 0; i-- {
		e := m.events[i]
		if e.Day == c.Day && e.StartMinutes() < c.Minutes+m.grid.Interval && e.EndMinutes() > c.Minutes {
			return i
		}
	}
	return -1
}

func displayCourses(courses []store.Course) []schedule.Course {
	out := make([]schedule.Course, len(courses))
	for i, c := range courses {
		out[i] = c.Display()
	}
	return out
}
