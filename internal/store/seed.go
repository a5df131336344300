package store

import (
	"fmt"
	"time"

	"github.com/sadopc/studygrid/internal/schedule"
)

type demoSession struct {
	course   int
	day      int // offset from the week's first day
	start    string
	end      string
	title    string
	typ      schedule.SessionType
	complete bool
}

var demoCourses = []struct {
	name       string
	color      string
	difficulty int
	priority   int
}{
	{"Data Structures & Algorithms", "#4F46E5", 4, 1},
	{"Machine Learning", "#10B981", 5, 2},
	{"Web Development", "#F59E0B", 3, 2},
	{"Database Systems", "#EF4444", 3, 3},
}

var demoSessions = []demoSession{
	{0, 1, "09:00", "10:30", "Binary Trees", schedule.SessionInitialLearning, true},
	{1, 1, "13:00", "14:00", "Linear Regression", schedule.SessionInitialLearning, true},
	{2, 2, "10:00", "11:00", "CSS Grid Practice", schedule.SessionPractice, false},
	{0, 3, "09:00", "09:45", "Tree Traversal Review", schedule.SessionReview, false},
	{3, 3, "15:00", "16:30", "Normalization", schedule.SessionInitialLearning, false},
	{1, 4, "11:00", "12:00", "Gradient Descent Problems", schedule.SessionPractice, false},
	{3, 5, "14:00", "16:00", "Midterm Prep", schedule.SessionExamPrep, false},
}

// Seed fills an empty database with demo courses and a week of sessions
// around now. It does nothing when any course already exists.
func (s *Store) Seed(now time.Time, weekStart time.Weekday) error {
	courses, err := s.ListCourses()
	if err != nil {
		return err
	}
	if len(courses) > 0 {
		return nil
	}

	ids := make([]string, len(demoCourses))
	for i, c := range demoCourses {
		created, err := s.CreateCourse(c.name, c.color, c.difficulty, c.priority)
		if err != nil {
			return fmt.Errorf("seed course %q: %w", c.name, err)
		}
		ids[i] = created.ID
	}

	week := schedule.CurrentWeek(now.In(s.loc), weekStart)
	for _, d := range demoSessions {
		day := week[d.day]
		start, err := at(day, d.start)
		if err != nil {
			return err
		}
		end, err := at(day, d.end)
		if err != nil {
			return err
		}
		sess, err := s.CreateSession(SessionInput{
			CourseID: ids[d.course],
			Title:    d.title,
			Start:    start,
			End:      end,
			Type:     d.typ,
		})
		if err != nil {
			return fmt.Errorf("seed session %q: %w", d.title, err)
		}
		if d.complete {
			if _, err := s.db.Exec(`UPDATE study_sessions SET completed = 1 WHERE id = ?`, sess.ID); err != nil {
				return fmt.Errorf("seed completion: %w", err)
			}
		}
	}
	return nil
}

func at(day time.Time, clock string) (time.Time, error) {
	m, err := schedule.ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), m/60, m%60, 0, 0, day.Location()), nil
}
