package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/studygrid/internal/schedule"
	"github.com/sadopc/studygrid/internal/store"
)

type summaryModel struct {
	store  *store.Store
	width  int
	height int

	week    schedule.Week
	days    []store.DailyProgress
	courses []store.CourseProgress

	chart barchart.Model
}

func newSummaryModel(s *store.Store, week schedule.Week) summaryModel {
	return summaryModel{
		store: s,
		week:  week,
		chart: barchart.New(60, 12),
	}
}

func (s *summaryModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

// setWeek follows the week shown in the grid.
func (s *summaryModel) setWeek(w schedule.Week) {
	s.week = w
}

type summaryDataMsg struct {
	start   string
	days    []store.DailyProgress
	courses []store.CourseProgress
	err     error
}

func (s summaryModel) refresh() tea.Cmd {
	week := s.week
	return func() tea.Msg {
		msg := summaryDataMsg{start: week.Start().Format("2006-01-02")}
		msg.days, msg.err = s.store.GetDailyProgress(week.Start(), week.End())
		if msg.err != nil {
			return msg
		}
		msg.courses, msg.err = s.store.GetCourseProgress(week.Start(), week.End())
		return msg
	}
}

func (s summaryModel) update(msg tea.Msg) (summaryModel, tea.Cmd) {
	switch msg := msg.(type) {
	case summaryDataMsg:
		if msg.err != nil {
			return s, statusCmd(errorStatus("Load summary", msg.err))
		}
		if msg.start != s.week.Start().Format("2006-01-02") {
			return s, nil
		}
		s.days = msg.days
		s.courses = msg.courses
		s.buildChart()
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left), key.Matches(msg, keys.PrevWeek):
			s.week = s.week.Navigate(schedule.Backward)
			return s, s.refresh()
		case key.Matches(msg, keys.Right), key.Matches(msg, keys.NextWeek):
			s.week = s.week.Navigate(schedule.Forward)
			return s, s.refresh()
		}
	}
	return s, nil
}

// buildChart stacks completed hours under the remaining planned hours per day.
func (s *summaryModel) buildChart() {
	chartWidth := max(s.width-8, 20)
	chartHeight := 12
	if s.height > 30 {
		chartHeight = 16
	}
	s.chart = barchart.New(chartWidth, chartHeight)

	doneStyle := lipgloss.NewStyle().Foreground(colorSuccess)
	plannedStyle := lipgloss.NewStyle().Foreground(colorPrimary)

	var bars []barchart.BarData
	for _, d := range s.week {
		date := d.Format("2006-01-02")
		var planned, done float64
		for _, p := range s.days {
			if p.Date == date {
				planned = float64(p.PlannedMinutes) / 60
				done = float64(p.CompletedMinutes) / 60
			}
		}
		bars = append(bars, barchart.BarData{
			Label: d.Format("Mon 02"),
			Values: []barchart.BarValue{
				{Name: "done", Value: done, Style: doneStyle},
				{Name: "planned", Value: planned - done, Style: plannedStyle},
			},
		})
	}

	s.chart.PushAll(bars)
	s.chart.Draw()
}

func (s summaryModel) totals() (planned, done int64) {
	for _, d := range s.days {
		planned += d.PlannedMinutes
		done += d.CompletedMinutes
	}
	return planned, done
}

func (s summaryModel) view() string {
	w := s.width - 4

	dateLabel := mutedStyle.Render(fmt.Sprintf("%s – %s", s.week[0].Format("Jan 02"), s.week[6].Format("Jan 02, 2006")))
	planned, done := s.totals()
	progress := successStyle.Render(fmt.Sprintf("%s of %s done", formatHours(done), formatHours(planned)))
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Summary"), "  ", dateLabel, "  ", progress,
	)

	legend := fmt.Sprintf("  %s completed  %s planned",
		successStyle.Render("█"), lipgloss.NewStyle().Foreground(colorPrimary).Render("█"))
	nav := mutedStyle.Render("  ←/→: navigate weeks")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", s.chart.View(), "", legend, "", s.renderCourseTable(w), "", s.renderCategoryLegend(), "", nav,
		),
	)
}

func (s summaryModel) renderCourseTable(w int) string {
	if len(s.courses) == 0 {
		return mutedStyle.Render("  No sessions this week")
	}

	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-30s %9s %9s %9s", "Course", "Planned", "Done", "Sessions")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 60))))

	for _, c := range s.courses {
		rows = append(rows, fmt.Sprintf("  %s %-28s %9s %9s %9d",
			dot(c.CourseColor), c.CourseName, formatHours(c.PlannedMinutes), formatHours(c.CompletedMinutes), c.SessionCount,
		))
	}
	return strings.Join(rows, "\n")
}

func (s summaryModel) renderCategoryLegend() string {
	items := make([]string, 0, len(schedule.Categories()))
	for _, c := range schedule.Categories() {
		items = append(items, fmt.Sprintf("%s %s", dot(c.Color()), c.Label()))
	}
	return "  " + strings.Join(items, "  ")
}
