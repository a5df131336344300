package schedule

import (
	"strings"
	"time"
)

// Course is the display-only view of a course record.
type Course struct {
	ID    string
	Name  string
	Color string
}

// Session is a study session owned by the domain store.
type Session struct {
	ID          string
	CourseID    string
	Title       string
	Description string
	Start       time.Time
	End         time.Time
	Completed   bool
	Type        SessionType
}

// Block groups the sessions of one calendar day.
type Block struct {
	ID       string
	Date     time.Time
	Sessions []Session
}

// CalendarEvent is a study session projected onto the day/time grid.
type CalendarEvent struct {
	ID          string
	Title       string
	Description string
	StartTime   string // "HH:MM"
	EndTime     string // "HH:MM"
	Day         int    // 0-6, column in the displayed week
	Category    Category
	Color       string

	// Back-references to the originating domain records. Empty for events
	// created locally and not yet refreshed from the store.
	BlockID   string
	SessionID string
	CourseID  string

	// Completed is recomputed from the store on every refresh and never
	// written locally.
	Completed bool

	// Recurrence is an optional RRULE applied when a new event is stored.
	Recurrence string
}

// HasSession reports whether the event points back at a stored session.
func (e CalendarEvent) HasSession() bool {
	return e.BlockID != "" && e.SessionID != ""
}

// StartMinutes and EndMinutes return the event bounds as minutes of day.
func (e CalendarEvent) StartMinutes() int { return MinutesOfDay(e.StartTime) }
func (e CalendarEvent) EndMinutes() int   { return MinutesOfDay(e.EndTime) }

// Covers reports whether the slot starting at minutes falls inside the event.
func (e CalendarEvent) Covers(day, minutes int) bool {
	return e.Day == day && minutes >= e.StartMinutes() && minutes < e.EndMinutes()
}

const eventIDSep = ":"

// EventID builds the identifier of an event mapped from a stored session.
func EventID(blockID, sessionID string) string {
	return blockID + eventIDSep + sessionID
}

// SplitEventID reverses EventID.
func SplitEventID(id string) (blockID, sessionID string, ok bool) {
	blockID, sessionID, ok = strings.Cut(id, eventIDSep)
	if !ok || blockID == "" || sessionID == "" {
		return "", "", false
	}
	return blockID, sessionID, true
}

// FindEvent returns the index of the event with id, or -1.
func FindEvent(events []CalendarEvent, id string) int {
	for i := range events {
		if events[i].ID == id {
			return i
		}
	}
	return -1
}

// EventsOn returns the events of one day column ordered as stored.
func EventsOn(events []CalendarEvent, day int) []CalendarEvent {
	var out []CalendarEvent
	for _, e := range events {
		if e.Day == day {
			out = append(out, e)
		}
	}
	return out
}
