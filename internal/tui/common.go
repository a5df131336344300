package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/studygrid/internal/log"
)

// viewState represents the currently active view.
type viewState int

const (
	viewWeek viewState = iota
	viewCourses
	viewSummary
	viewSettings
)

var viewNames = []string{"Week", "Courses", "Summary", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

type exportDoneMsg struct {
	path string
}

// settingsSavedMsg tells the week view to reload its grid configuration.
type settingsSavedMsg struct{}

// --- Helpers ---

func statusCmd(msg statusMsg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// errorStatus logs err and turns it into a status line.
func errorStatus(action string, err error) statusMsg {
	log.Error(action, err)
	return statusMsg{text: fmt.Sprintf("%s: %v", action, err), isError: true}
}

func formatHours(minutes int64) string {
	return fmt.Sprintf("%.1fh", float64(minutes)/60)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
