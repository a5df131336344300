package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ImportInput is one session read from an external calendar. UID and the
// start time identify it across repeated imports.
type ImportInput struct {
	SessionInput
	UID       string
	Course    string // course name; created when missing
	Completed bool
}

// ImportSessions stores items in a single transaction: either every new
// session is stored or none is. Items whose UID and start were imported
// before, and whose session still exists, are skipped. Courses are matched
// by name and created when missing; items without a course name go to
// fallbackCourse. It returns the number of sessions added.
func (s *Store) ImportSessions(items []ImportInput, fallbackCourse string) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	courseIDs := map[string]string{}
	n := 0
	for _, in := range items {
		start := s.formatTimestamp(in.Start)
		if in.UID != "" {
			seen, err := importedBefore(tx, in.UID, start)
			if err != nil {
				return 0, err
			}
			if seen {
				continue
			}
		}

		name := in.Course
		if name == "" || name == "Unknown" {
			name = fallbackCourse
		}
		courseID, ok := courseIDs[name]
		if !ok {
			if courseID, err = courseForImport(tx, name); err != nil {
				return 0, fmt.Errorf("resolve course %q: %w", name, err)
			}
			courseIDs[name] = courseID
		}
		in.CourseID = courseID
		if err := validateSession(in.SessionInput); err != nil {
			return 0, fmt.Errorf("import %q: %w", in.UID, err)
		}

		blockID, err := s.ensureBlock(tx, in.Start)
		if err != nil {
			return 0, err
		}
		id := uuid.NewString()
		completed := 0
		if in.Completed {
			completed = 1
		}
		if _, err := tx.Exec(
			`INSERT INTO study_sessions (id, block_id, course_id, title, description, start_time, end_time, completed, type)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, blockID, in.CourseID, in.Title, in.Description,
			start, s.formatTimestamp(in.End), completed, string(sessionType(in.Type)),
		); err != nil {
			return 0, fmt.Errorf("import %q: insert session: %w", in.UID, err)
		}
		if in.UID != "" {
			if _, err := tx.Exec(
				`INSERT OR REPLACE INTO imported_events (uid, start_time, session_id) VALUES (?, ?, ?)`,
				in.UID, start, id,
			); err != nil {
				return 0, fmt.Errorf("import %q: record uid: %w", in.UID, err)
			}
		}
		n++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}
	return n, nil
}

func importedBefore(q querier, uid, start string) (bool, error) {
	var one int
	err := q.QueryRow(`
		SELECT 1 FROM imported_events i
		JOIN study_sessions se ON se.id = i.session_id
		WHERE i.uid = ? AND i.start_time = ?`, uid, start,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check import %q: %w", uid, err)
	}
	return true, nil
}

func courseForImport(q querier, name string) (string, error) {
	var id string
	err := q.QueryRow(`SELECT id FROM courses WHERE name = ?`, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}
	id = uuid.NewString()
	if _, err := q.Exec(
		`INSERT INTO courses (id, name, color, difficulty, priority) VALUES (?, ?, ?, ?, ?)`,
		id, name, "#6B7280", 3, 2,
	); err != nil {
		return "", fmt.Errorf("insert course: %w", err)
	}
	return id, nil
}
