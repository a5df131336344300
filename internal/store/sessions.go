package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sadopc/studygrid/internal/schedule"
)

type querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	QueryRow(query string, args ...any) *sql.Row
}

// EnsureBlock returns the id of the block for date's calendar day, creating it if needed.
func (s *Store) EnsureBlock(date time.Time) (string, error) {
	return s.ensureBlock(s.db, date)
}

func (s *Store) ensureBlock(q querier, date time.Time) (string, error) {
	day := s.formatDate(date)
	if _, err := q.Exec(
		`INSERT OR IGNORE INTO study_blocks (id, date) VALUES (?, ?)`, uuid.NewString(), day,
	); err != nil {
		return "", fmt.Errorf("insert block %s: %w", day, err)
	}
	var id string
	if err := q.QueryRow(`SELECT id FROM study_blocks WHERE date = ?`, day).Scan(&id); err != nil {
		return "", fmt.Errorf("get block %s: %w", day, err)
	}
	return id, nil
}

// ListBlocks returns the blocks dated in [from, to) with their sessions ordered by start time.
// Blocks without sessions are omitted.
func (s *Store) ListBlocks(from, to time.Time) ([]schedule.Block, error) {
	rows, err := s.db.Query(`
		SELECT b.id, b.date, se.id, se.course_id, se.title, se.description,
		       se.start_time, se.end_time, se.completed, se.type
		FROM study_blocks b
		JOIN study_sessions se ON se.block_id = b.id
		WHERE b.date >= ? AND b.date < ?
		ORDER BY b.date, se.start_time, se.id`,
		s.formatDate(from), s.formatDate(to),
	)
	if err != nil {
		return nil, fmt.Errorf("list blocks: %w", err)
	}
	defer rows.Close()

	var blocks []schedule.Block
	for rows.Next() {
		var blockID, date, start, end, typ string
		var sess schedule.Session
		var completed int
		if err := rows.Scan(&blockID, &date, &sess.ID, &sess.CourseID, &sess.Title, &sess.Description,
			&start, &end, &completed, &typ); err != nil {
			return nil, err
		}
		sess.Start = s.parseTimestamp(start)
		sess.End = s.parseTimestamp(end)
		sess.Completed = completed == 1
		sess.Type = schedule.SessionType(typ)

		if n := len(blocks); n == 0 || blocks[n-1].ID != blockID {
			blocks = append(blocks, schedule.Block{ID: blockID, Date: s.parseDate(date)})
		}
		last := &blocks[len(blocks)-1]
		last.Sessions = append(last.Sessions, sess)
	}
	return blocks, rows.Err()
}

func (s *Store) CreateSession(in SessionInput) (*schedule.Session, error) {
	if err := validateSession(in); err != nil {
		return nil, err
	}
	blockID, err := s.EnsureBlock(in.Start)
	if err != nil {
		return nil, err
	}
	id := uuid.NewString()
	_, err = s.db.Exec(
		`INSERT INTO study_sessions (id, block_id, course_id, title, description, start_time, end_time, type)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, blockID, in.CourseID, in.Title, in.Description,
		s.formatTimestamp(in.Start), s.formatTimestamp(in.End), string(sessionType(in.Type)),
	)
	if err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}
	return s.GetSession(id)
}

func (s *Store) GetSession(id string) (*schedule.Session, error) {
	sess := &schedule.Session{}
	var start, end, typ string
	var completed int
	err := s.db.QueryRow(
		`SELECT id, course_id, title, description, start_time, end_time, completed, type
		 FROM study_sessions WHERE id = ?`, id,
	).Scan(&sess.ID, &sess.CourseID, &sess.Title, &sess.Description, &start, &end, &completed, &typ)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get session %s: %w", id, ErrSessionNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get session %s: %w", id, err)
	}
	sess.Start = s.parseTimestamp(start)
	sess.End = s.parseTimestamp(end)
	sess.Completed = completed == 1
	sess.Type = schedule.SessionType(typ)
	return sess, nil
}

// UpdateSession rewrites a session's fields, moving it to the block of its new
// start date when the day changed. Completion is left as is.
func (s *Store) UpdateSession(id string, in SessionInput) error {
	if err := validateSession(in); err != nil {
		return err
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	blockID, err := s.ensureBlock(tx, in.Start)
	if err != nil {
		return err
	}
	res, err := tx.Exec(
		`UPDATE study_sessions SET block_id = ?, course_id = ?, title = ?, description = ?,
		 start_time = ?, end_time = ?, type = ? WHERE id = ?`,
		blockID, in.CourseID, in.Title, in.Description,
		s.formatTimestamp(in.Start), s.formatTimestamp(in.End), string(sessionType(in.Type)), id,
	)
	if err != nil {
		return fmt.Errorf("update session %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update session %s: %w", id, ErrSessionNotFound)
	}
	if err := pruneBlocks(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteSession removes the session and its block when the block becomes empty.
func (s *Store) DeleteSession(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`DELETE FROM study_sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete session %s: %w", id, ErrSessionNotFound)
	}
	if err := pruneBlocks(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// ToggleSessionCompletion flips the completed flag of a session inside blockID.
func (s *Store) ToggleSessionCompletion(blockID, sessionID string) error {
	res, err := s.db.Exec(
		`UPDATE study_sessions SET completed = 1 - completed WHERE id = ? AND block_id = ?`,
		sessionID, blockID,
	)
	if err != nil {
		return fmt.Errorf("toggle session %s: %w", sessionID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("toggle session %s in block %s: %w", sessionID, blockID, ErrSessionNotFound)
	}
	return nil
}

// GetDailyProgress sums planned and completed minutes per day in [from, to).
func (s *Store) GetDailyProgress(from, to time.Time) ([]DailyProgress, error) {
	rows, err := s.db.Query(`
		SELECT b.date,
		       COALESCE(SUM(`+minutesExpr+`), 0),
		       COALESCE(SUM(CASE WHEN se.completed = 1 THEN `+minutesExpr+` ELSE 0 END), 0),
		       COUNT(se.id)
		FROM study_blocks b
		JOIN study_sessions se ON se.block_id = b.id
		WHERE b.date >= ? AND b.date < ?
		GROUP BY b.date
		ORDER BY b.date`,
		s.formatDate(from), s.formatDate(to),
	)
	if err != nil {
		return nil, fmt.Errorf("daily progress: %w", err)
	}
	defer rows.Close()

	var out []DailyProgress
	for rows.Next() {
		var d DailyProgress
		if err := rows.Scan(&d.Date, &d.PlannedMinutes, &d.CompletedMinutes, &d.SessionCount); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// GetCourseProgress sums planned and completed minutes per course in [from, to).
func (s *Store) GetCourseProgress(from, to time.Time) ([]CourseProgress, error) {
	rows, err := s.db.Query(`
		SELECT c.id, c.name, c.color,
		       COALESCE(SUM(`+minutesExpr+`), 0),
		       COALESCE(SUM(CASE WHEN se.completed = 1 THEN `+minutesExpr+` ELSE 0 END), 0),
		       COUNT(se.id)
		FROM study_sessions se
		JOIN study_blocks b ON b.id = se.block_id
		JOIN courses c ON c.id = se.course_id
		WHERE b.date >= ? AND b.date < ?
		GROUP BY c.id
		ORDER BY 4 DESC, c.name`,
		s.formatDate(from), s.formatDate(to),
	)
	if err != nil {
		return nil, fmt.Errorf("course progress: %w", err)
	}
	defer rows.Close()

	var out []CourseProgress
	for rows.Next() {
		var p CourseProgress
		if err := rows.Scan(&p.CourseID, &p.CourseName, &p.CourseColor,
			&p.PlannedMinutes, &p.CompletedMinutes, &p.SessionCount); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

const minutesExpr = `CAST(ROUND((julianday(se.end_time) - julianday(se.start_time)) * 1440) AS INTEGER)`

func pruneBlocks(tx *sql.Tx) error {
	_, err := tx.Exec(
		`DELETE FROM study_blocks WHERE id NOT IN (SELECT DISTINCT block_id FROM study_sessions)`,
	)
	if err != nil {
		return fmt.Errorf("prune blocks: %w", err)
	}
	return nil
}

func validateSession(in SessionInput) error {
	switch {
	case in.CourseID == "":
		return &schedule.ValidationError{Field: "course", Reason: "is required"}
	case in.Title == "":
		return &schedule.ValidationError{Field: "title", Reason: "is required"}
	case !in.End.After(in.Start):
		return &schedule.ValidationError{Field: "end time", Reason: "must be after start time"}
	}
	return nil
}

func sessionType(t schedule.SessionType) schedule.SessionType {
	if t == "" {
		return schedule.SessionInitialLearning
	}
	return t
}
