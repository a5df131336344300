package store

import (
	"errors"
	"time"

	"github.com/sadopc/studygrid/internal/schedule"
)

var (
	ErrCourseInUse     = errors.New("course has scheduled sessions")
	ErrSessionNotFound = errors.New("session not found")
)

type Course struct {
	ID         string
	Name       string
	Color      string
	Difficulty int // 1-5
	Priority   int // 1-3
	CreatedAt  time.Time
}

// Display returns the fields the schedule grid needs.
func (c Course) Display() schedule.Course {
	return schedule.Course{ID: c.ID, Name: c.Name, Color: c.Color}
}

// SessionInput carries the writable fields of a study session.
type SessionInput struct {
	CourseID    string
	Title       string
	Description string
	Start       time.Time
	End         time.Time
	Type        schedule.SessionType
}

type Setting struct {
	Key   string
	Value string
}

// DailyProgress is planned vs completed study time for one day.
type DailyProgress struct {
	Date             string
	PlannedMinutes   int64
	CompletedMinutes int64
	SessionCount     int
}

// CourseProgress aggregates study time per course.
type CourseProgress struct {
	CourseID         string
	CourseName       string
	CourseColor      string
	PlannedMinutes   int64
	CompletedMinutes int64
	SessionCount     int
}
