package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const currentVersion = 2

const (
	dateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02T15:04:05"
)

// Store is the SQLite-backed record of courses and study sessions.
type Store struct {
	db  *sql.DB
	loc *time.Location
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
func New(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db, loc: time.Local}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// NewMemory creates an in-memory store for testing.
func NewMemory() (*Store, error) {
	return New(":memory:")
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	var version int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}
	if version < 2 {
		if err := s.migrateV2(); err != nil {
			return err
		}
	}

	_, err = s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func (s *Store) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS courses (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL UNIQUE,
		color       TEXT NOT NULL DEFAULT '#4F46E5',
		difficulty  INTEGER NOT NULL DEFAULT 3,
		priority    INTEGER NOT NULL DEFAULT 2,
		created_at  TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE TABLE IF NOT EXISTS study_blocks (
		id    TEXT PRIMARY KEY,
		date  TEXT NOT NULL UNIQUE
	);

	CREATE TABLE IF NOT EXISTS study_sessions (
		id           TEXT PRIMARY KEY,
		block_id     TEXT NOT NULL REFERENCES study_blocks(id),
		course_id    TEXT NOT NULL REFERENCES courses(id),
		title        TEXT NOT NULL,
		description  TEXT NOT NULL DEFAULT '',
		start_time   TEXT NOT NULL,
		end_time     TEXT NOT NULL,
		completed    INTEGER NOT NULL DEFAULT 0,
		type         TEXT NOT NULL DEFAULT 'initial-learning',
		created_at   TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_block  ON study_sessions(block_id);
	CREATE INDEX IF NOT EXISTS idx_sessions_course ON study_sessions(course_id);

	CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	INSERT OR IGNORE INTO settings (key, value) VALUES
		('start_hour',    '8'),
		('end_hour',      '20'),
		('slot_interval', '60'),
		('week_start',    'sunday');
	`
	_, err := s.db.Exec(ddl)
	return err
}

// migrateV2 records which calendar events were imported so a second
// import of the same file adds nothing.
func (s *Store) migrateV2() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS imported_events (
		uid         TEXT NOT NULL,
		start_time  TEXT NOT NULL,
		session_id  TEXT NOT NULL,
		PRIMARY KEY (uid, start_time)
	);
	`
	_, err := s.db.Exec(ddl)
	return err
}

// DefaultDBPath returns ~/.config/studygrid/studygrid.db
func DefaultDBPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "studygrid", "studygrid.db"), nil
}

func (s *Store) formatDate(t time.Time) string {
	return t.In(s.loc).Format(dateLayout)
}

func (s *Store) formatTimestamp(t time.Time) string {
	return t.In(s.loc).Format(timestampLayout)
}

func (s *Store) parseDate(v string) time.Time {
	t, _ := time.ParseInLocation(dateLayout, v, s.loc)
	return t
}

func (s *Store) parseTimestamp(v string) time.Time {
	t, _ := time.ParseInLocation(timestampLayout, v, s.loc)
	return t
}
