package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/sadopc/studygrid/internal/log"
	"github.com/sadopc/studygrid/internal/schedule"
	"github.com/sadopc/studygrid/internal/store"
)

const (
	productID      = "-//sadopc//studygrid//EN"
	courseProperty = ical.ComponentProperty("X-STUDYGRID-COURSE")
	statusDone     = "COMPLETED"
)

// ImportedSession is one VEVENT occurrence read from an iCalendar file.
type ImportedSession struct {
	UID         string
	Title       string
	Description string
	Course      string
	Type        schedule.SessionType
	Start       time.Time
	End         time.Time
	Completed   bool
}

// ToICS writes one VEVENT per session. The session type goes to CATEGORIES
// and the course name to X-STUDYGRID-COURSE so FromICS can restore both.
func ToICS(blocks []schedule.Block, courses map[string]store.Course, path string) error {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)

	stamp := time.Now().UTC()
	for _, b := range blocks {
		for _, s := range b.Sessions {
			ev := cal.AddEvent(s.ID + "@studygrid")
			ev.SetDtStampTime(stamp)
			ev.SetStartAt(s.Start)
			ev.SetEndAt(s.End)
			ev.SetSummary(s.Title)
			if s.Description != "" {
				ev.SetDescription(s.Description)
			}
			ev.SetProperty(ical.ComponentPropertyCategories, string(s.Type))
			ev.SetProperty(courseProperty, courseName(courses, s.CourseID))
			if s.Completed {
				ev.SetProperty(ical.ComponentPropertyStatus, statusDone)
			}
		}
	}

	if err := os.WriteFile(path, []byte(cal.Serialize()), 0o644); err != nil {
		return fmt.Errorf("write ics file: %w", err)
	}
	return nil
}

// FromICS parses r and returns its timed events, expanding any RRULE into
// separate occurrences. All-day and malformed events are skipped.
func FromICS(r io.Reader) ([]ImportedSession, error) {
	cal, err := ical.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("parse ics: %w", err)
	}

	var out []ImportedSession
	for _, ve := range cal.Events() {
		sessions, err := parseEvent(ve)
		if err != nil {
			log.Error("ics event skipped", err, "uid", ve.Id())
			continue
		}
		out = append(out, sessions...)
	}
	log.Info("ics parse completed", "event_count", len(out))
	return out, nil
}

func parseEvent(ve *ical.VEvent) ([]ImportedSession, error) {
	if p := ve.GetProperty(ical.ComponentPropertyDtStart); p != nil {
		if v, ok := p.ICalParameters["VALUE"]; (ok && len(v) > 0 && v[0] == "DATE") || !strings.Contains(p.Value, "T") {
			return nil, errors.New("all-day event")
		}
	}
	start, err := ve.GetStartAt()
	if err != nil {
		return nil, fmt.Errorf("dtstart: %w", err)
	}
	end, err := ve.GetEndAt()
	if err != nil {
		return nil, fmt.Errorf("dtend: %w", err)
	}
	if !end.After(start) {
		return nil, errors.New("end is not after start")
	}

	base := ImportedSession{
		UID:   ve.Id(),
		Title: property(ve, ical.ComponentPropertySummary),
		Type:  schedule.SessionType(property(ve, ical.ComponentPropertyCategories)),
	}
	base.Description = property(ve, ical.ComponentPropertyDescription)
	base.Course = property(ve, courseProperty)
	base.Completed = property(ve, ical.ComponentPropertyStatus) == statusDone
	if base.Title == "" {
		base.Title = "Untitled"
	}
	if schedule.CategoryFor(base.Type) == schedule.CategoryOther && base.Type != schedule.SessionOther {
		base.Type = schedule.SessionOther
	}

	start, end = start.Local(), end.Local()
	rule := property(ve, ical.ComponentPropertyRrule)
	if rule == "" {
		base.Start, base.End = start, end
		return []ImportedSession{base}, nil
	}

	occurrences, err := schedule.Occurrences(rule, start)
	if err != nil {
		return nil, fmt.Errorf("rrule: %w", err)
	}
	length := end.Sub(start)
	sessions := make([]ImportedSession, 0, len(occurrences))
	for _, at := range occurrences {
		s := base
		s.Start = at
		s.End = at.Add(length)
		sessions = append(sessions, s)
	}
	return sessions, nil
}

func property(ve *ical.VEvent, name ical.ComponentProperty) string {
	if p := ve.GetProperty(name); p != nil {
		return p.Value
	}
	return ""
}

// Import stores sessions in one transaction, creating courses by name when
// they do not exist yet. Sessions without a course name go to fallbackCourse.
// Events imported before are skipped, so importing a file twice adds nothing.
func Import(st *store.Store, sessions []ImportedSession, fallbackCourse string) (int, error) {
	items := make([]store.ImportInput, len(sessions))
	for i, in := range sessions {
		items[i] = store.ImportInput{
			SessionInput: store.SessionInput{
				Title:       in.Title,
				Description: in.Description,
				Start:       in.Start,
				End:         in.End,
				Type:        in.Type,
			},
			UID:       in.UID,
			Course:    in.Course,
			Completed: in.Completed,
		}
	}
	n, err := st.ImportSessions(items, fallbackCourse)
	if err != nil {
		return 0, fmt.Errorf("import sessions: %w", err)
	}
	log.Info("ics import completed", "sessions", n, "skipped", len(sessions)-n)
	return n, nil
}
