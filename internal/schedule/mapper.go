package schedule

import "time"

// ToCalendarEvents projects domain blocks onto the grid of a week starting
// on weekStart. Only the time of day of each session is kept, so a session
// that crosses midnight is shown truncated at its start day. A session ending
// exactly at the following midnight keeps its end as "24:00".
func ToCalendarEvents(blocks []Block, weekStart time.Weekday) []CalendarEvent {
	var events []CalendarEvent
	for _, b := range blocks {
		day := DayIndex(b.Date, weekStart)
		for _, s := range b.Sessions {
			cat := CategoryFor(s.Type)
			events = append(events, CalendarEvent{
				ID:          EventID(b.ID, s.ID),
				Title:       s.Title,
				Description: s.Description,
				StartTime:   s.Start.Format(clockLayout),
				EndTime:     endClock(s.Start, s.End),
				Day:         day,
				Category:    cat,
				Color:       cat.Color(),
				BlockID:     b.ID,
				SessionID:   s.ID,
				CourseID:    s.CourseID,
				Completed:   s.Completed,
			})
		}
	}
	return events
}

func endClock(start, end time.Time) string {
	next := atMinutes(start, MinutesPerDay)
	if end.Equal(next) {
		return FormatMinutes(MinutesPerDay)
	}
	return end.Format(clockLayout)
}

// CourseIndex indexes courses by ID for display enrichment.
func CourseIndex(courses []Course) map[string]Course {
	idx := make(map[string]Course, len(courses))
	for _, c := range courses {
		idx[c.ID] = c
	}
	return idx
}

// SessionTimes converts an event's day and clock times into absolute
// timestamps within week, using wall-clock time on that date.
func SessionTimes(w Week, e CalendarEvent) (start, end time.Time) {
	date := w[clampDay(e.Day)]
	return atMinutes(date, e.StartMinutes()), atMinutes(date, e.EndMinutes())
}

func atMinutes(date time.Time, m int) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), m/60, m%60, 0, 0, date.Location())
}

func clampDay(d int) int {
	if d < 0 {
		return 0
	}
	if d > 6 {
		return 6
	}
	return d
}
