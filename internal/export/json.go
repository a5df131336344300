package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/studygrid/internal/schedule"
	"github.com/sadopc/studygrid/internal/store"
)

type jsonExport struct {
	ExportedAt string        `json:"exported_at"`
	Count      int           `json:"count"`
	Sessions   []jsonSession `json:"sessions"`
}

type jsonSession struct {
	ID          string `json:"id"`
	BlockID     string `json:"block_id"`
	Date        string `json:"date"`
	Course      string `json:"course"`
	CourseID    string `json:"course_id"`
	Title       string `json:"title"`
	Type        string `json:"type"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Minutes     int    `json:"minutes"`
	Completed   bool   `json:"completed"`
	Description string `json:"description,omitempty"`
}

func ToJSON(blocks []schedule.Block, courses map[string]store.Course, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Sessions:   []jsonSession{},
	}

	for _, b := range blocks {
		for _, s := range b.Sessions {
			export.Sessions = append(export.Sessions, jsonSession{
				ID:          s.ID,
				BlockID:     b.ID,
				Date:        b.Date.Format("2006-01-02"),
				Course:      courseName(courses, s.CourseID),
				CourseID:    s.CourseID,
				Title:       s.Title,
				Type:        string(s.Type),
				StartTime:   s.Start.Format(time.RFC3339),
				EndTime:     s.End.Format(time.RFC3339),
				Minutes:     minutes(s),
				Completed:   s.Completed,
				Description: s.Description,
			})
		}
	}
	export.Count = len(export.Sessions)

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
