package tui

import (
	"fmt"
	"time"

	"github.com/sadopc/studygrid/internal/log"
	"github.com/sadopc/studygrid/internal/schedule"
	"github.com/sadopc/studygrid/internal/store"
)

// sessionBridge implements the dialog callbacks on top of the store. It is
// shared by pointer so value copies of the week model see the current week.
type sessionBridge struct {
	store *store.Store
	week  schedule.Week
}

func (b *sessionBridge) callbacks() schedule.Callbacks {
	return schedule.Callbacks{
		OnToggleSessionCompletion: b.toggle,
		OnEventCreate:             b.create,
		OnEventUpdate:             b.update,
		OnEventDelete:             b.delete,
	}
}

func (b *sessionBridge) toggle(blockID, sessionID string) error {
	return b.store.ToggleSessionCompletion(blockID, sessionID)
}

// create stores e, expanding its recurrence into one session per occurrence.
func (b *sessionBridge) create(e schedule.CalendarEvent) error {
	start, end := schedule.SessionTimes(b.week, e)
	in := sessionInput(e, start, end)
	if e.Recurrence == "" {
		if _, err := b.store.CreateSession(in); err != nil {
			return fmt.Errorf("create session: %w", err)
		}
		log.Info("session created", "title", e.Title, "start", start.Format(time.RFC3339))
		return nil
	}

	starts, err := schedule.Occurrences(e.Recurrence, start)
	if err != nil {
		return err
	}
	length := end.Sub(start)
	for _, at := range starts {
		in.Start, in.End = at, at.Add(length)
		if _, err := b.store.CreateSession(in); err != nil {
			return fmt.Errorf("create session %s: %w", at.Format("2006-01-02"), err)
		}
	}
	log.Info("recurring sessions created", "title", e.Title, "rule", e.Recurrence, "count", len(starts))
	return nil
}

func (b *sessionBridge) update(e schedule.CalendarEvent) error {
	if !e.HasSession() {
		return fmt.Errorf("update %q: %w", e.Title, schedule.ErrNoBackReference)
	}
	start, end := schedule.SessionTimes(b.week, e)
	if err := b.store.UpdateSession(e.SessionID, sessionInput(e, start, end)); err != nil {
		return err
	}
	log.Info("session updated", "id", e.SessionID)
	return nil
}

func (b *sessionBridge) delete(eventID string) error {
	_, sessionID, ok := schedule.SplitEventID(eventID)
	if !ok {
		return fmt.Errorf("delete %s: %w", eventID, schedule.ErrNoBackReference)
	}
	if err := b.store.DeleteSession(sessionID); err != nil {
		return err
	}
	log.Info("session deleted", "id", sessionID)
	return nil
}

func sessionInput(e schedule.CalendarEvent, start, end time.Time) store.SessionInput {
	return store.SessionInput{
		CourseID:    e.CourseID,
		Title:       e.Title,
		Description: e.Description,
		Start:       start,
		End:         end,
		Type:        schedule.SessionTypeFor(e.Category),
	}
}
