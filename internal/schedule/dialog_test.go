package schedule

import (
	"errors"
	"strings"
	"testing"
)

var testCourses = []Course{
	{ID: "c1", Name: "Algorithms", Color: "#4F46E5"},
	{ID: "c2", Name: "Databases", Color: "#EF4444"},
}

type callbackLog struct {
	created []CalendarEvent
	updated []CalendarEvent
	deleted []string
	toggled [][2]string
}

func (l *callbackLog) callbacks() Callbacks {
	return Callbacks{
		OnToggleSessionCompletion: func(blockID, sessionID string) error {
			l.toggled = append(l.toggled, [2]string{blockID, sessionID})
			return nil
		},
		OnEventCreate: func(e CalendarEvent) error {
			l.created = append(l.created, e)
			return nil
		},
		OnEventUpdate: func(e CalendarEvent) error {
			l.updated = append(l.updated, e)
			return nil
		},
		OnEventDelete: func(id string) error {
			l.deleted = append(l.deleted, id)
			return nil
		},
	}
}

func newTestDialog(l *callbackLog) Dialog {
	d := NewDialog(l.callbacks())
	d.SetCourses(testCourses)
	d.newID = func() string { return "local-1" }
	return d
}

func storedEvent() CalendarEvent {
	return CalendarEvent{
		ID:        EventID("b1", "s1"),
		Title:     "Graphs",
		StartTime: "09:00",
		EndTime:   "10:00",
		Day:       1,
		Category:  CategoryReview,
		Color:     CategoryReview.Color(),
		BlockID:   "b1",
		SessionID: "s1",
		CourseID:  "c2",
		Completed: true,
	}
}

// ============================================================
// Opening and closing
// ============================================================

func TestDialogOpenCreate(t *testing.T) {
	var l callbackLog
	d := newTestDialog(&l)
	prefill := FormFromSpan(Span{Day: 2, Start: 600, End: 720}, testCourses)
	if err := d.OpenCreate(prefill); err != nil {
		t.Fatal(err)
	}
	if d.Mode() != DialogCreating {
		t.Fatalf("mode = %v", d.Mode())
	}
	f := d.Form()
	if f.StartTime != "10:00" || f.EndTime != "12:00" || f.Day != 2 || f.CourseID != "c1" {
		t.Fatalf("unexpected prefill %+v", f)
	}
	if err := d.OpenEdit(storedEvent()); !errors.Is(err, ErrDialogBusy) {
		t.Fatalf("expected ErrDialogBusy, got %v", err)
	}
}

func TestDialogOpenEdit(t *testing.T) {
	var l callbackLog
	d := newTestDialog(&l)
	if err := d.OpenEdit(storedEvent()); err != nil {
		t.Fatal(err)
	}
	f := d.Form()
	if f.Title != "Graphs" || f.CourseID != "c2" || f.Category != "review" {
		t.Fatalf("unexpected form %+v", f)
	}
	e, ok := d.Editing()
	if !ok || e.ID != storedEvent().ID {
		t.Fatal("dialog should expose the edited event")
	}
}

func TestDialogCloseDiscards(t *testing.T) {
	var l callbackLog
	d := newTestDialog(&l)
	d.OpenEdit(storedEvent())
	d.Close()
	if d.Open() {
		t.Fatal("dialog should be closed")
	}
	if d.Form().Title != "" || d.Form().CourseID != "c1" {
		t.Fatalf("form should reset to defaults, got %+v", d.Form())
	}
	if len(l.created)+len(l.updated)+len(l.deleted) != 0 {
		t.Fatal("close must not invoke callbacks")
	}
}

// ============================================================
// Save
// ============================================================

func TestDialogSaveEmptyTitle(t *testing.T) {
	var l callbackLog
	d := newTestDialog(&l)
	events := []CalendarEvent{storedEvent()}
	d.OpenCreate(FormFromSpan(Span{Day: 0, Start: 480, End: 540}, testCourses))

	form := d.Form()
	form.Title = "   "
	got, err := d.Save(events, form)

	var vErr *ValidationError
	if !errors.As(err, &vErr) || vErr.Field != "title" {
		t.Fatalf("expected title validation error, got %v", err)
	}
	if len(got) != 1 || got[0] != events[0] {
		t.Fatal("event list must be unchanged")
	}
	if d.Mode() != DialogCreating {
		t.Fatal("dialog must stay open")
	}
	if len(l.created) != 0 {
		t.Fatal("no callback on validation failure")
	}
}

func TestDialogSaveValidation(t *testing.T) {
	base := FormFromSpan(Span{Day: 0, Start: 480, End: 540}, testCourses)
	base.Title = "Read"

	tests := []struct {
		name  string
		edit  func(*FormState)
		field string
	}{
		{"no course", func(f *FormState) { f.CourseID = "" }, "course"},
		{"bad start", func(f *FormState) { f.StartTime = "8am" }, "start time"},
		{"bad end", func(f *FormState) { f.EndTime = "" }, "end time"},
		{"end before start", func(f *FormState) { f.EndTime = "07:00" }, "end time"},
		{"zero length", func(f *FormState) { f.EndTime = f.StartTime }, "end time"},
		{"day out of range", func(f *FormState) { f.Day = 7 }, "day"},
		{"repeat count", func(f *FormState) { f.Repeat = RepeatWeekly; f.RepeatCount = "0" }, "repeat count"},
		{"repeat count too large", func(f *FormState) { f.Repeat = RepeatDaily; f.RepeatCount = "100" }, "repeat count"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var l callbackLog
			d := newTestDialog(&l)
			d.OpenCreate(base)
			f := base
			tt.edit(&f)
			_, err := d.Save(nil, f)
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if vErr.Field != tt.field {
				t.Fatalf("field = %q, want %q", vErr.Field, tt.field)
			}
		})
	}
}

func TestDialogSaveCreate(t *testing.T) {
	var l callbackLog
	d := newTestDialog(&l)
	events := []CalendarEvent{storedEvent()}
	d.OpenCreate(FormFromSpan(Span{Day: 4, Start: 840, End: 930}, testCourses))

	form := d.Form()
	form.Title = "  Practice set 3 "
	form.Category = CategoryPractice.String()
	got, err := d.Save(events, form)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
	e := got[1]
	if e.ID != "local-1" || e.Title != "Practice set 3" || e.Day != 4 {
		t.Fatalf("unexpected event %+v", e)
	}
	if e.StartTime != "14:00" || e.EndTime != "15:30" || e.Color != CategoryPractice.Color() {
		t.Fatalf("unexpected geometry or color %+v", e)
	}
	if e.HasSession() {
		t.Fatal("locally created event has no session reference")
	}
	if len(l.created) != 1 || l.created[0].ID != "local-1" {
		t.Fatalf("create callback not invoked: %+v", l.created)
	}
	if d.Open() {
		t.Fatal("dialog should close after save")
	}
	if len(events) != 1 {
		t.Fatal("input slice must not be modified")
	}
}

func TestDialogSaveEndOfDay(t *testing.T) {
	var l callbackLog
	d := newTestDialog(&l)
	d.OpenCreate(FormFromSpan(SlotSpan(3, 23*60, 60), testCourses))

	form := d.Form()
	if form.EndTime != "24:00" {
		t.Fatalf("prefill end = %q", form.EndTime)
	}
	form.Title = "Late review"
	got, err := d.Save(nil, form)
	if err != nil {
		t.Fatalf("a session ending at midnight should save: %v", err)
	}
	if got[0].EndTime != "24:00" || got[0].EndMinutes() != MinutesPerDay {
		t.Fatalf("end = %s", got[0].EndTime)
	}
}

func TestDialogSaveCreateRecurring(t *testing.T) {
	var l callbackLog
	d := newTestDialog(&l)
	d.OpenCreate(FormFromSpan(Span{Day: 1, Start: 600, End: 660}, testCourses))
	form := d.Form()
	form.Title = "Flashcards"
	form.Repeat = RepeatDaily
	form.RepeatCount = "5"
	got, err := d.Save(nil, form)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got[0].Recurrence, "FREQ=DAILY") || !strings.Contains(got[0].Recurrence, "COUNT=5") {
		t.Fatalf("recurrence = %q", got[0].Recurrence)
	}
}

func TestDialogSaveEdit(t *testing.T) {
	var l callbackLog
	d := newTestDialog(&l)
	other := CalendarEvent{ID: "x", Title: "Other", StartTime: "12:00", EndTime: "13:00"}
	events := []CalendarEvent{storedEvent(), other}
	d.OpenEdit(storedEvent())

	form := d.Form()
	form.Title = "Graphs II"
	form.EndTime = "11:00"
	got, err := d.Save(events, form)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[1] != other {
		t.Fatal("other events must be untouched")
	}
	e := got[0]
	if e.Title != "Graphs II" || e.EndTime != "11:00" {
		t.Fatalf("event not replaced: %+v", e)
	}
	if e.BlockID != "b1" || e.SessionID != "s1" || !e.Completed {
		t.Fatalf("back references lost: %+v", e)
	}
	if len(l.updated) != 1 || l.updated[0].Title != "Graphs II" {
		t.Fatalf("update callback = %+v", l.updated)
	}
	if len(l.created) != 0 {
		t.Fatal("edit must not create")
	}
}

func TestDialogSaveWithoutCallbacks(t *testing.T) {
	d := NewDialog(Callbacks{})
	d.OpenCreate(FormFromSpan(Span{Day: 0, Start: 480, End: 540}, testCourses))
	form := d.Form()
	form.Title = "Local only"
	got, err := d.Save(nil, form)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID == "" {
		t.Fatalf("event should be kept locally with an id: %+v", got)
	}
}

func TestDialogSaveCallbackError(t *testing.T) {
	boom := errors.New("disk full")
	d := NewDialog(Callbacks{OnEventCreate: func(CalendarEvent) error { return boom }})
	d.OpenCreate(FormFromSpan(Span{Day: 0, Start: 480, End: 540}, testCourses))
	form := d.Form()
	form.Title = "Keep me"
	got, err := d.Save(nil, form)
	if !errors.Is(err, boom) {
		t.Fatalf("expected callback error, got %v", err)
	}
	if len(got) != 1 {
		t.Fatal("local change is applied before the callback and not rolled back")
	}
	if d.Open() {
		t.Fatal("dialog closes even when the callback fails")
	}
}

func TestDialogSaveClosed(t *testing.T) {
	d := NewDialog(Callbacks{})
	if _, err := d.Save(nil, FormState{Title: "x"}); !errors.Is(err, ErrNotEditing) {
		t.Fatalf("expected ErrNotEditing, got %v", err)
	}
}

// ============================================================
// Delete
// ============================================================

func TestDialogDelete(t *testing.T) {
	var l callbackLog
	d := newTestDialog(&l)
	events := []CalendarEvent{storedEvent(), {ID: "x"}}
	d.OpenEdit(storedEvent())
	got, err := d.Delete(events)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != "x" {
		t.Fatalf("unexpected events %+v", got)
	}
	if len(l.deleted) != 1 || l.deleted[0] != storedEvent().ID {
		t.Fatalf("delete callback = %v", l.deleted)
	}
	if d.Open() {
		t.Fatal("dialog should close after delete")
	}
}

func TestDialogDeleteWhileCreating(t *testing.T) {
	var l callbackLog
	d := newTestDialog(&l)
	d.OpenCreate(DefaultForm(testCourses))
	events := []CalendarEvent{storedEvent()}
	got, err := d.Delete(events)
	if !errors.Is(err, ErrNotEditing) {
		t.Fatalf("expected ErrNotEditing, got %v", err)
	}
	if len(got) != 1 || len(l.deleted) != 0 {
		t.Fatal("delete outside editing must be a no-op")
	}
}

// ============================================================
// Completion toggle
// ============================================================

func TestDialogToggleTwice(t *testing.T) {
	var l callbackLog
	d := newTestDialog(&l)
	events := []CalendarEvent{storedEvent()}
	before := events[0]

	for i := 0; i < 2; i++ {
		if err := d.ToggleCompletion(events[0]); err != nil {
			t.Fatal(err)
		}
	}
	if len(l.toggled) != 2 {
		t.Fatalf("expected 2 toggles, got %d", len(l.toggled))
	}
	for _, args := range l.toggled {
		if args != [2]string{"b1", "s1"} {
			t.Fatalf("unexpected toggle args %v", args)
		}
	}
	if events[0] != before {
		t.Fatal("toggle must not mutate local events")
	}
	if d.Open() {
		t.Fatal("toggle does not use the dialog")
	}
}

func TestDialogToggleRequiresReference(t *testing.T) {
	var l callbackLog
	d := newTestDialog(&l)
	if err := d.ToggleCompletion(CalendarEvent{ID: "local"}); !errors.Is(err, ErrNoBackReference) {
		t.Fatalf("expected ErrNoBackReference, got %v", err)
	}
	d = NewDialog(Callbacks{})
	if err := d.ToggleCompletion(storedEvent()); !errors.Is(err, ErrNoToggleHandler) {
		t.Fatalf("expected ErrNoToggleHandler, got %v", err)
	}
}
