package schedule

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// DialogMode is the state of the event dialog.
type DialogMode int

const (
	DialogClosed DialogMode = iota
	DialogCreating
	DialogEditing
)

func (m DialogMode) String() string {
	switch m {
	case DialogCreating:
		return "creating"
	case DialogEditing:
		return "editing"
	}
	return "closed"
}

// Repeat options offered when creating an event.
const (
	RepeatNone   = "none"
	RepeatDaily  = "daily"
	RepeatWeekly = "weekly"

	maxRepeatCount = 52
)

// FormState holds the dialog fields. It is kept apart from CalendarEvent so
// partial input never reaches the event list.
type FormState struct {
	Title       string
	Description string
	CourseID    string
	Category    string // Category tag
	StartTime   string
	EndTime     string
	Day         int
	Repeat      string
	RepeatCount string
}

// DefaultForm returns an empty form preselecting the first course.
func DefaultForm(courses []Course) FormState {
	f := FormState{
		Category:    CategoryLearning.String(),
		Repeat:      RepeatNone,
		RepeatCount: "1",
	}
	if len(courses) > 0 {
		f.CourseID = courses[0].ID
	}
	return f
}

// FormFromSpan prefills a create form with a selected span.
func FormFromSpan(s Span, courses []Course) FormState {
	f := DefaultForm(courses)
	f.StartTime = s.StartTime()
	f.EndTime = s.EndTime()
	f.Day = s.Day
	return f
}

// FormFromEvent prefills an edit form. Events without a course fall back to
// the first course.
func FormFromEvent(e CalendarEvent, courses []Course) FormState {
	f := DefaultForm(courses)
	f.Title = e.Title
	f.Description = e.Description
	f.Category = e.Category.String()
	f.StartTime = e.StartTime
	f.EndTime = e.EndTime
	f.Day = e.Day
	if e.CourseID != "" {
		f.CourseID = e.CourseID
	}
	return f
}

// Callbacks forward committed changes to the external session store. Only
// OnToggleSessionCompletion is required, and only for events that carry
// session references; the others may be nil, in which case the change stays
// local.
type Callbacks struct {
	OnToggleSessionCompletion func(blockID, sessionID string) error
	OnEventCreate             func(CalendarEvent) error
	OnEventUpdate             func(CalendarEvent) error
	OnEventDelete             func(eventID string) error
}

// Dialog is the create/edit controller for calendar events.
type Dialog struct {
	mode    DialogMode
	form    FormState
	editing CalendarEvent
	courses []Course

	callbacks Callbacks
	newID     func() string
}

func NewDialog(cb Callbacks) Dialog {
	return Dialog{callbacks: cb, newID: uuid.NewString}
}

func (d Dialog) Mode() DialogMode { return d.mode }
func (d Dialog) Open() bool       { return d.mode != DialogClosed }

// Form returns the prefill of the open dialog.
func (d Dialog) Form() FormState { return d.form }

// Editing returns the event being edited, if any.
func (d Dialog) Editing() (CalendarEvent, bool) {
	return d.editing, d.mode == DialogEditing
}

// SetCourses updates the courses used for default form values.
func (d *Dialog) SetCourses(courses []Course) { d.courses = courses }

// OpenCreate opens the dialog for a new event.
func (d *Dialog) OpenCreate(prefill FormState) error {
	if d.mode != DialogClosed {
		return ErrDialogBusy
	}
	d.mode = DialogCreating
	d.form = prefill
	d.editing = CalendarEvent{}
	return nil
}

// OpenEdit opens the dialog on an existing event.
func (d *Dialog) OpenEdit(e CalendarEvent) error {
	if d.mode != DialogClosed {
		return ErrDialogBusy
	}
	d.mode = DialogEditing
	d.form = FormFromEvent(e, d.courses)
	d.editing = e
	return nil
}

// Close discards the form without invoking any callback.
func (d *Dialog) Close() {
	d.mode = DialogClosed
	d.form = DefaultForm(d.courses)
	d.editing = CalendarEvent{}
}

// Save validates form and commits it to events. A *ValidationError leaves
// the dialog open and events untouched. Otherwise the updated list is
// returned with the dialog closed; a callback error is returned alongside
// the already-updated list.
func (d *Dialog) Save(events []CalendarEvent, form FormState) ([]CalendarEvent, error) {
	if d.mode == DialogClosed {
		return events, ErrNotEditing
	}
	d.form = form
	ev, err := d.eventFromForm(form)
	if err != nil {
		return events, err
	}

	var cb func(CalendarEvent) error
	out := make([]CalendarEvent, 0, len(events)+1)
	switch d.mode {
	case DialogEditing:
		for _, e := range events {
			if e.ID == ev.ID {
				e = ev
			}
			out = append(out, e)
		}
		cb = d.callbacks.OnEventUpdate
	case DialogCreating:
		out = append(append(out, events...), ev)
		cb = d.callbacks.OnEventCreate
	}
	d.Close()

	if cb != nil {
		if err := cb(ev); err != nil {
			return out, fmt.Errorf("save event %q: %w", ev.Title, err)
		}
	}
	return out, nil
}

// Delete removes the edited event and forwards the deletion.
func (d *Dialog) Delete(events []CalendarEvent) ([]CalendarEvent, error) {
	if d.mode != DialogEditing {
		return events, ErrNotEditing
	}
	id := d.editing.ID
	out := make([]CalendarEvent, 0, len(events))
	for _, e := range events {
		if e.ID != id {
			out = append(out, e)
		}
	}
	d.Close()

	if d.callbacks.OnEventDelete != nil {
		if err := d.callbacks.OnEventDelete(id); err != nil {
			return out, fmt.Errorf("delete event %s: %w", id, err)
		}
	}
	return out, nil
}

// ToggleCompletion asks the store to flip the session's completion. Local
// events are left alone; the new state arrives with the next refresh.
func (d Dialog) ToggleCompletion(e CalendarEvent) error {
	if !e.HasSession() {
		return ErrNoBackReference
	}
	if d.callbacks.OnToggleSessionCompletion == nil {
		return ErrNoToggleHandler
	}
	if err := d.callbacks.OnToggleSessionCompletion(e.BlockID, e.SessionID); err != nil {
		return fmt.Errorf("toggle session %s: %w", e.SessionID, err)
	}
	return nil
}

func (d Dialog) eventFromForm(f FormState) (CalendarEvent, error) {
	title := strings.TrimSpace(f.Title)
	if title == "" {
		return CalendarEvent{}, &ValidationError{Field: "title", Reason: "required"}
	}
	if f.CourseID == "" {
		return CalendarEvent{}, &ValidationError{Field: "course", Reason: "required"}
	}
	start, err := ParseClock(f.StartTime)
	if err != nil {
		return CalendarEvent{}, &ValidationError{Field: "start time", Reason: "use HH:MM"}
	}
	end, err := ParseClock(f.EndTime)
	if err != nil {
		return CalendarEvent{}, &ValidationError{Field: "end time", Reason: "use HH:MM"}
	}
	if end <= start {
		return CalendarEvent{}, &ValidationError{Field: "end time", Reason: "must be after start time"}
	}
	if f.Day < 0 || f.Day > 6 {
		return CalendarEvent{}, &ValidationError{Field: "day", Reason: "must be between 0 and 6"}
	}

	cat := ParseCategory(f.Category)
	ev := CalendarEvent{
		Title:       title,
		Description: strings.TrimSpace(f.Description),
		StartTime:   FormatMinutes(start),
		EndTime:     FormatMinutes(end),
		Day:         f.Day,
		Category:    cat,
		Color:       cat.Color(),
		CourseID:    f.CourseID,
	}

	if d.mode == DialogEditing {
		ev.ID = d.editing.ID
		ev.BlockID = d.editing.BlockID
		ev.SessionID = d.editing.SessionID
		ev.Completed = d.editing.Completed
		return ev, nil
	}

	ev.ID = d.newID()
	if f.Repeat != "" && f.Repeat != RepeatNone {
		count, err := strconv.Atoi(strings.TrimSpace(f.RepeatCount))
		if err != nil || count < 1 || count > maxRepeatCount {
			return CalendarEvent{}, &ValidationError{Field: "repeat count", Reason: fmt.Sprintf("must be between 1 and %d", maxRepeatCount)}
		}
		rule, err := RecurrenceRule(f.Repeat, count)
		if err != nil {
			return CalendarEvent{}, &ValidationError{Field: "repeat", Reason: err.Error()}
		}
		ev.Recurrence = rule
	}
	return ev, nil
}
