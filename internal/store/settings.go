package store

import (
	"fmt"
	"strconv"
	"time"

	"github.com/sadopc/studygrid/internal/schedule"
)

func (s *Store) GetSetting(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

func (s *Store) GetAllSettings() ([]Setting, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	var settings []Setting
	for rows.Next() {
		var s Setting
		if err := rows.Scan(&s.Key, &s.Value); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

// GridSettings reads the grid bounds and first weekday, falling back to the
// defaults for values that are missing or malformed.
func (s *Store) GridSettings() (schedule.GridConfig, time.Weekday, error) {
	cfg := schedule.DefaultGridConfig()
	weekStart := time.Sunday

	settings, err := s.GetAllSettings()
	if err != nil {
		return cfg, weekStart, err
	}
	for _, kv := range settings {
		switch kv.Key {
		case "start_hour":
			if n, err := strconv.Atoi(kv.Value); err == nil {
				cfg.StartHour = n
			}
		case "end_hour":
			if n, err := strconv.Atoi(kv.Value); err == nil {
				cfg.EndHour = n
			}
		case "slot_interval":
			if n, err := strconv.Atoi(kv.Value); err == nil {
				cfg.Interval = n
			}
		case "week_start":
			if kv.Value == "monday" {
				weekStart = time.Monday
			}
		}
	}
	if err := cfg.Validate(); err != nil {
		return schedule.DefaultGridConfig(), weekStart, err
	}
	return cfg, weekStart, nil
}

// SaveGridSettings validates cfg before persisting it.
func (s *Store) SaveGridSettings(cfg schedule.GridConfig, weekStart time.Weekday) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	start := "sunday"
	if weekStart == time.Monday {
		start = "monday"
	}
	values := []Setting{
		{"start_hour", strconv.Itoa(cfg.StartHour)},
		{"end_hour", strconv.Itoa(cfg.EndHour)},
		{"slot_interval", strconv.Itoa(cfg.Interval)},
		{"week_start", start},
	}
	for _, kv := range values {
		if err := s.SetSetting(kv.Key, kv.Value); err != nil {
			return fmt.Errorf("save %s: %w", kv.Key, err)
		}
	}
	return nil
}
