package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sadopc/studygrid/internal/schedule"
	"github.com/sadopc/studygrid/internal/store"
)

func ToCSV(blocks []schedule.Block, courses map[string]store.Course, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"Date", "Session ID", "Course", "Title", "Type", "Start", "End", "Minutes", "Completed", "Description"}); err != nil {
		return err
	}

	for _, b := range blocks {
		for _, s := range b.Sessions {
			row := []string{
				b.Date.Format("2006-01-02"),
				s.ID,
				courseName(courses, s.CourseID),
				s.Title,
				string(s.Type),
				s.Start.Format(time.RFC3339),
				s.End.Format(time.RFC3339),
				strconv.Itoa(minutes(s)),
				strconv.FormatBool(s.Completed),
				s.Description,
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	return w.Error()
}

func courseName(courses map[string]store.Course, id string) string {
	if c, ok := courses[id]; ok {
		return c.Name
	}
	return "Unknown"
}

func minutes(s schedule.Session) int {
	return int(s.End.Sub(s.Start).Minutes())
}

// CourseMap indexes courses by id.
func CourseMap(courses []store.Course) map[string]store.Course {
	m := make(map[string]store.Course, len(courses))
	for _, c := range courses {
		m[c.ID] = c
	}
	return m
}
