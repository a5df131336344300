package schedule

import (
	"errors"
	"testing"
	"time"
)

// ============================================================
// Time slots
// ============================================================

func TestGenerateSlotsHourly(t *testing.T) {
	slots, err := GenerateSlots(8, 20, 60)
	if err != nil {
		t.Fatal(err)
	}
	if len(slots) != 13 {
		t.Fatalf("expected 13 slots, got %d", len(slots))
	}
	if slots[0].Label != "08:00" || slots[12].Label != "20:00" {
		t.Fatalf("unexpected bounds %s..%s", slots[0].Label, slots[12].Label)
	}
}

func TestGenerateSlotsHalfHour(t *testing.T) {
	slots, err := GenerateSlots(8, 20, 30)
	if err != nil {
		t.Fatal(err)
	}
	if len(slots) != 24 {
		t.Fatalf("expected 24 slots, got %d", len(slots))
	}
	if slots[0].Label != "08:00" || slots[1].Label != "08:30" || slots[23].Label != "19:30" {
		t.Fatalf("unexpected labels %s %s ... %s", slots[0].Label, slots[1].Label, slots[23].Label)
	}
}

func TestGenerateSlotsEndAtMidnight(t *testing.T) {
	for _, tt := range []struct {
		interval int
		count    int
		last     string
	}{
		{60, 16, "23:00"},
		{30, 32, "23:30"},
	} {
		slots, err := GenerateSlots(8, 24, tt.interval)
		if err != nil {
			t.Fatal(err)
		}
		if len(slots) != tt.count || slots[len(slots)-1].Label != tt.last {
			t.Fatalf("interval %d: %d slots ending %s, want %d ending %s",
				tt.interval, len(slots), slots[len(slots)-1].Label, tt.count, tt.last)
		}
	}
}

func TestGenerateSlotsOrdering(t *testing.T) {
	for start := 0; start < 23; start++ {
		for end := start + 1; end <= 24; end++ {
			for _, interval := range []int{30, 60} {
				slots, err := GenerateSlots(start, end, interval)
				if err != nil {
					t.Fatalf("GenerateSlots(%d, %d, %d): %v", start, end, interval, err)
				}
				if slots[0].Hour != start || slots[0].Minute != 0 {
					t.Fatalf("first slot %+v, want %02d:00", slots[0], start)
				}
				for i := 1; i < len(slots); i++ {
					if slots[i].Minutes() <= slots[i-1].Minutes() {
						t.Fatalf("slots not strictly increasing at %d: %v", i, slots)
					}
				}
			}
		}
	}
}

func TestGenerateSlotsInvalid(t *testing.T) {
	tests := []struct {
		start, end, interval int
		field                string
	}{
		{20, 8, 60, "end hour"},
		{8, 8, 60, "end hour"},
		{8, 20, 15, "interval"},
		{-1, 20, 60, "start hour"},
		{8, 25, 60, "end hour"},
	}
	for _, tt := range tests {
		_, err := GenerateSlots(tt.start, tt.end, tt.interval)
		var cfgErr *ConfigurationError
		if !errors.As(err, &cfgErr) {
			t.Fatalf("GenerateSlots(%d, %d, %d) = %v, want ConfigurationError", tt.start, tt.end, tt.interval, err)
		}
		if cfgErr.Field != tt.field {
			t.Errorf("GenerateSlots(%d, %d, %d) field = %q, want %q", tt.start, tt.end, tt.interval, cfgErr.Field, tt.field)
		}
	}
}

func TestDefaultGridConfig(t *testing.T) {
	cfg := DefaultGridConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	if cfg.StartHour != 8 || cfg.EndHour != 20 || cfg.Interval != 60 {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

// ============================================================
// Week dates
// ============================================================

func TestCurrentWeekSundayStart(t *testing.T) {
	pivot := time.Date(2026, 10, 16, 14, 30, 0, 0, time.UTC) // Friday
	w := CurrentWeek(pivot, time.Sunday)
	if !w[0].Equal(time.Date(2026, 10, 11, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("week starts %v", w[0])
	}
	if w[0].Weekday() != time.Sunday || w[6].Weekday() != time.Saturday {
		t.Fatalf("unexpected weekdays %v..%v", w[0].Weekday(), w[6].Weekday())
	}
	if !w.Contains(pivot) {
		t.Fatal("week should contain pivot")
	}
	if w.Index(pivot) != 5 {
		t.Fatalf("pivot index = %d, want 5", w.Index(pivot))
	}
}

func TestCurrentWeekMondayStart(t *testing.T) {
	pivot := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC) // Sunday
	w := CurrentWeek(pivot, time.Monday)
	if !w[0].Equal(time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("week starts %v", w[0])
	}
	if DayIndex(pivot, time.Monday) != 6 {
		t.Fatalf("sunday should be column 6, got %d", DayIndex(pivot, time.Monday))
	}
}

func TestWeekNavigateRoundTrip(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		loc = time.UTC
	}
	// Spans a DST change in Berlin.
	w := CurrentWeek(time.Date(2026, 10, 22, 12, 0, 0, 0, loc), time.Monday)
	sameWeek := func(a, b Week) bool {
		for i := range a {
			if !a[i].Equal(b[i]) {
				return false
			}
		}
		return true
	}
	if got := w.Navigate(Forward).Navigate(Backward); !sameWeek(got, w) {
		t.Fatalf("round trip changed week: %v != %v", got, w)
	}
	if got := w.Navigate(Backward).Navigate(Forward); !sameWeek(got, w) {
		t.Fatalf("reverse round trip changed week: %v != %v", got, w)
	}
	next := w.Navigate(Forward)
	for i := range next {
		if next[i].Hour() != 0 || next[i].Weekday() != w[i].Weekday() {
			t.Fatalf("day %d not at midnight on same weekday: %v", i, next[i])
		}
	}
}

func TestWeekBounds(t *testing.T) {
	w := CurrentWeek(time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC), time.Sunday)
	if w.Contains(w.End()) {
		t.Fatal("end is exclusive")
	}
	if w.Index(w.End()) != -1 {
		t.Fatal("index outside week should be -1")
	}
	if w.Label() != "October 2026" {
		t.Fatalf("label = %q", w.Label())
	}
}

func TestWeekdays(t *testing.T) {
	days := Weekdays(time.Monday)
	if days[0] != time.Monday || days[6] != time.Sunday {
		t.Fatalf("unexpected order %v", days)
	}
}

// ============================================================
// Categories
// ============================================================

func TestCategoryLookupTotal(t *testing.T) {
	tests := []struct {
		typ  SessionType
		want Category
	}{
		{SessionInitialLearning, CategoryLearning},
		{SessionReview, CategoryReview},
		{SessionPractice, CategoryPractice},
		{SessionExamPrep, CategoryExamPrep},
		{SessionOther, CategoryOther},
		{"lecture", CategoryOther},
	}
	for _, tt := range tests {
		if got := CategoryFor(tt.typ); got != tt.want {
			t.Errorf("CategoryFor(%q) = %v, want %v", tt.typ, got, tt.want)
		}
	}
	for _, c := range Categories() {
		if CategoryFor(SessionTypeFor(c)) != c {
			t.Errorf("category %v does not round trip", c)
		}
		if ParseCategory(c.String()) != c {
			t.Errorf("ParseCategory(%q) != %v", c.String(), c)
		}
		if c.Color() == "" || c.Label() == "" {
			t.Errorf("category %v missing color or label", c)
		}
	}
	if Category(42).Color() != CategoryOther.Color() {
		t.Fatal("out of range category should use the other color")
	}
}

// ============================================================
// Event mapping
// ============================================================

func TestToCalendarEventsEndToEnd(t *testing.T) {
	date := time.Date(2026, 10, 14, 0, 0, 0, 0, time.Local) // Wednesday
	blocks := []Block{{
		ID:   "b1",
		Date: date,
		Sessions: []Session{{
			ID:       "s1",
			CourseID: "c1",
			Title:    "Graphs",
			Start:    time.Date(2026, 10, 14, 9, 0, 0, 0, time.Local),
			End:      time.Date(2026, 10, 14, 9, 45, 0, 0, time.Local),
			Type:     SessionInitialLearning,
		}},
	}}

	events := ToCalendarEvents(blocks, time.Sunday)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	e := events[0]
	if e.Day != 3 {
		t.Fatalf("day = %d, want 3", e.Day)
	}
	if e.StartTime != "09:00" || e.EndTime != "09:45" {
		t.Fatalf("times = %s-%s", e.StartTime, e.EndTime)
	}
	if e.Category != CategoryLearning || e.Color != CategoryLearning.Color() {
		t.Fatalf("category = %v color = %s", e.Category, e.Color)
	}
	if e.BlockID != "b1" || e.SessionID != "s1" || e.CourseID != "c1" {
		t.Fatalf("missing back references: %+v", e)
	}
	if e.ID != EventID("b1", "s1") {
		t.Fatalf("id = %q", e.ID)
	}
}

func TestToCalendarEventsCompletionProjection(t *testing.T) {
	date := time.Date(2026, 10, 12, 0, 0, 0, 0, time.Local)
	s := Session{ID: "s", Start: date.Add(10 * time.Hour), End: date.Add(11 * time.Hour), Completed: true}
	events := ToCalendarEvents([]Block{{ID: "b", Date: date, Sessions: []Session{s}}}, time.Monday)
	if !events[0].Completed {
		t.Fatal("completion should be projected from the session")
	}
	if events[0].Day != 0 {
		t.Fatalf("monday should be column 0 with a monday start, got %d", events[0].Day)
	}
}

func TestToCalendarEventsMidnightTruncation(t *testing.T) {
	date := time.Date(2026, 10, 12, 0, 0, 0, 0, time.Local)
	s := Session{ID: "s", Start: date.Add(23 * time.Hour), End: date.Add(25 * time.Hour)}
	e := ToCalendarEvents([]Block{{ID: "b", Date: date, Sessions: []Session{s}}}, time.Sunday)[0]
	if e.StartTime != "23:00" || e.EndTime != "01:00" {
		t.Fatalf("times = %s-%s", e.StartTime, e.EndTime)
	}
	if Height(e, 60, 1) >= 0 {
		t.Fatal("a session crossing midnight has no positive height")
	}
}

func TestToCalendarEventsEndingAtMidnight(t *testing.T) {
	date := time.Date(2026, 10, 12, 0, 0, 0, 0, time.Local)
	s := Session{ID: "s", Start: date.Add(23 * time.Hour), End: date.AddDate(0, 0, 1)}
	e := ToCalendarEvents([]Block{{ID: "b", Date: date, Sessions: []Session{s}}}, time.Sunday)[0]
	if e.StartTime != "23:00" || e.EndTime != "24:00" {
		t.Fatalf("times = %s-%s", e.StartTime, e.EndTime)
	}
	if Height(e, 60, 1) != 1 {
		t.Fatalf("height = %v, want 1", Height(e, 60, 1))
	}

	// Storing the mapped event again lands on the same instants.
	w := CurrentWeek(date, time.Sunday)
	start, end := SessionTimes(w, e)
	if !start.Equal(s.Start) || !end.Equal(s.End) {
		t.Fatalf("round trip = %v-%v, want %v-%v", start, end, s.Start, s.End)
	}
}

func TestSplitEventID(t *testing.T) {
	b, s, ok := SplitEventID(EventID("block-1", "session-2"))
	if !ok || b != "block-1" || s != "session-2" {
		t.Fatalf("got %q %q %v", b, s, ok)
	}
	if _, _, ok := SplitEventID("local-id"); ok {
		t.Fatal("local ids have no session reference")
	}
}

func TestSessionTimes(t *testing.T) {
	w := CurrentWeek(time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC), time.Sunday)
	start, end := SessionTimes(w, CalendarEvent{Day: 2, StartTime: "14:00", EndTime: "15:30"})
	if !start.Equal(time.Date(2026, 10, 13, 14, 0, 0, 0, time.UTC)) {
		t.Fatalf("start = %v", start)
	}
	if end.Sub(start) != 90*time.Minute {
		t.Fatalf("duration = %v", end.Sub(start))
	}
}

// ============================================================
// Positions
// ============================================================

func TestHeight(t *testing.T) {
	e := CalendarEvent{StartTime: "14:00", EndTime: "15:30"}
	if h := Height(e, 60, 60); h != 90 {
		t.Fatalf("height = %v, want 90", h)
	}
	if h := Height(e, 30, 2); h != 6 {
		t.Fatalf("height = %v, want 6", h)
	}
}

func TestTop(t *testing.T) {
	tests := []struct {
		start     string
		startHour int
		interval  int
		want      float64
	}{
		{"08:00", 8, 60, 0},
		{"09:30", 8, 60, 90},
		{"09:30", 8, 30, 180},
		{"07:00", 8, 60, -60},
	}
	for _, tt := range tests {
		e := CalendarEvent{StartTime: tt.start, EndTime: "23:00"}
		if got := Top(e, tt.startHour, tt.interval, 60); got != tt.want {
			t.Errorf("Top(%s, %d, %d) = %v, want %v", tt.start, tt.startHour, tt.interval, got, tt.want)
		}
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"00:00", 0, true},
		{"09:45", 585, true},
		{"24:00", 1440, true},
		{"9:05", 545, true},
		{"24:30", 0, false},
		{"12:60", 0, false},
		{"noon", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, err := ParseClock(tt.in)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("ParseClock(%q) = %d, %v", tt.in, got, err)
		}
	}
	if FormatMinutes(585) != "09:45" {
		t.Fatalf("FormatMinutes(585) = %q", FormatMinutes(585))
	}
}

// ============================================================
// Selection
// ============================================================

func TestSelectionSymmetric(t *testing.T) {
	a := Cell{Day: 2, Minutes: 9 * 60}
	b := Cell{Day: 2, Minutes: 12 * 60}

	forward := NewSelector(60)
	forward.Press(a)
	forward.Enter(b)

	backward := NewSelector(60)
	backward.Press(b)
	backward.Enter(a)

	for day := 0; day < 7; day++ {
		for m := 8 * 60; m <= 20*60; m += 60 {
			c := Cell{Day: day, Minutes: m}
			if forward.Contains(c) != backward.Contains(c) {
				t.Fatalf("highlight differs at %+v", c)
			}
		}
	}
	if !forward.Contains(Cell{Day: 2, Minutes: 10 * 60}) {
		t.Fatal("middle cell should be highlighted")
	}
	if forward.Contains(Cell{Day: 3, Minutes: 10 * 60}) {
		t.Fatal("other columns are never highlighted")
	}

	s1, _ := forward.Release(b, true)
	s2, _ := backward.Release(a, true)
	if s1 != s2 {
		t.Fatalf("spans differ: %+v vs %+v", s1, s2)
	}
	if s1.Start != 9*60 || s1.End != 13*60 || s1.Day != 2 {
		t.Fatalf("unexpected span %+v", s1)
	}
}

func TestSelectionLastSlotEndsAtMidnight(t *testing.T) {
	for _, interval := range []int{30, 60} {
		s := NewSelector(interval)
		c := Cell{Day: 6, Minutes: MinutesPerDay - interval}
		s.Press(c)
		span, ok := s.Release(c, true)
		if !ok || span.End != MinutesPerDay || span.EndTime() != "24:00" {
			t.Fatalf("interval %d: span = %+v (%s), %v", interval, span, span.EndTime(), ok)
		}
	}
}

func TestSlotSpan(t *testing.T) {
	if got := SlotSpan(2, 9*60, 30); got != (Span{Day: 2, Start: 540, End: 570}) {
		t.Fatalf("SlotSpan = %+v", got)
	}
	if got := SlotSpan(2, 23*60, 60); got.End != MinutesPerDay {
		t.Fatalf("last slot ends at %d", got.End)
	}
}

func TestSelectionSingleClick(t *testing.T) {
	s := NewSelector(30)
	c := Cell{Day: 0, Minutes: 8*60 + 30}
	s.Press(c)
	if s.State() != SelectionSelecting {
		t.Fatal("press should start selecting")
	}
	span, ok := s.Release(c, true)
	if !ok {
		t.Fatal("single click should emit a span")
	}
	if span.StartTime() != "08:30" || span.EndTime() != "09:00" {
		t.Fatalf("span = %s-%s", span.StartTime(), span.EndTime())
	}
	if s.State() != SelectionIdle {
		t.Fatal("release should return to idle")
	}
}

func TestSelectionIgnoresOtherColumns(t *testing.T) {
	s := NewSelector(60)
	s.Press(Cell{Day: 1, Minutes: 600})
	s.Enter(Cell{Day: 4, Minutes: 900})
	if s.Current() != s.Anchor() {
		t.Fatalf("entering another column moved current to %+v", s.Current())
	}
	s.Enter(Cell{Day: 1, Minutes: 720})
	span, ok := s.Release(Cell{Day: 5, Minutes: 800}, true)
	if !ok || span.Day != 1 || span.Start != 600 || span.End != 780 {
		t.Fatalf("span = %+v, %v", span, ok)
	}
}

func TestSelectionReleaseOutsideAborts(t *testing.T) {
	s := NewSelector(60)
	s.Press(Cell{Day: 1, Minutes: 600})
	s.Enter(Cell{Day: 1, Minutes: 720})
	if _, ok := s.Release(Cell{}, false); ok {
		t.Fatal("release outside the grid must not emit a span")
	}
	if s.Active() {
		t.Fatal("selection must end on any release")
	}
}

func TestSelectionIdleEvents(t *testing.T) {
	s := NewSelector(60)
	s.Enter(Cell{Day: 1, Minutes: 600})
	if s.Active() {
		t.Fatal("enter while idle must not start a selection")
	}
	if _, ok := s.Release(Cell{Day: 1, Minutes: 600}, true); ok {
		t.Fatal("release while idle must not emit a span")
	}
	if s.Contains(Cell{}) {
		t.Fatal("idle selector highlights nothing")
	}
}

func TestSelectionCancel(t *testing.T) {
	s := NewSelector(60)
	s.Press(Cell{Day: 3, Minutes: 600})
	s.Cancel()
	if s.Active() || s.Contains(Cell{Day: 3, Minutes: 600}) {
		t.Fatal("cancel should clear the selection")
	}
}

// ============================================================
// Recurrence
// ============================================================

func TestRecurrenceRule(t *testing.T) {
	rule, err := RecurrenceRule(RepeatWeekly, 3)
	if err != nil {
		t.Fatal(err)
	}
	start := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	occ, err := Occurrences(rule, start)
	if err != nil {
		t.Fatal(err)
	}
	if len(occ) != 3 {
		t.Fatalf("expected 3 occurrences, got %d", len(occ))
	}
	if !occ[2].Equal(start.AddDate(0, 0, 14)) {
		t.Fatalf("third occurrence = %v", occ[2])
	}
	if _, err := RecurrenceRule("hourly", 2); err == nil {
		t.Fatal("unknown repeat should fail")
	}
}

func TestOccurrencesWithoutRule(t *testing.T) {
	start := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	occ, err := Occurrences("", start)
	if err != nil || len(occ) != 1 || !occ[0].Equal(start) {
		t.Fatalf("got %v, %v", occ, err)
	}
}
