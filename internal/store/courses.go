package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

func (s *Store) CreateCourse(name, color string, difficulty, priority int) (*Course, error) {
	id := uuid.NewString()
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`INSERT INTO courses (id, name, color, difficulty, priority, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, name, color, difficulty, priority, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert course: %w", err)
	}
	return s.GetCourse(id)
}

func (s *Store) GetCourse(id string) (*Course, error) {
	c := &Course{}
	var createdAt string
	err := s.db.QueryRow(
		`SELECT id, name, color, difficulty, priority, created_at FROM courses WHERE id = ?`, id,
	).Scan(&c.ID, &c.Name, &c.Color, &c.Difficulty, &c.Priority, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("get course %s: %w", id, err)
	}
	c.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return c, nil
}

// FindCourseByName returns nil without error when no course has that name.
func (s *Store) FindCourseByName(name string) (*Course, error) {
	courses, err := s.ListCourses()
	if err != nil {
		return nil, err
	}
	for i := range courses {
		if courses[i].Name == name {
			return &courses[i], nil
		}
	}
	return nil, nil
}

// ListCourses orders by priority (1 first), then name.
func (s *Store) ListCourses() ([]Course, error) {
	rows, err := s.db.Query(
		`SELECT id, name, color, difficulty, priority, created_at FROM courses ORDER BY priority, name`,
	)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	var courses []Course
	for rows.Next() {
		var c Course
		var createdAt string
		if err := rows.Scan(&c.ID, &c.Name, &c.Color, &c.Difficulty, &c.Priority, &createdAt); err != nil {
			return nil, err
		}
		c.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

func (s *Store) UpdateCourse(id, name, color string, difficulty, priority int) error {
	_, err := s.db.Exec(
		`UPDATE courses SET name = ?, color = ?, difficulty = ?, priority = ? WHERE id = ?`,
		name, color, difficulty, priority, id,
	)
	if err != nil {
		return fmt.Errorf("update course %s: %w", id, err)
	}
	return nil
}

// DeleteCourse refuses to remove a course that still has sessions.
func (s *Store) DeleteCourse(id string) error {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM study_sessions WHERE course_id = ?`, id).Scan(&n); err != nil {
		return fmt.Errorf("count sessions: %w", err)
	}
	if n > 0 {
		return fmt.Errorf("delete course %s: %w", id, ErrCourseInUse)
	}
	_, err := s.db.Exec(`DELETE FROM courses WHERE id = ?`, id)
	return err
}
