package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/studygrid/internal/schedule"
)

// buildForm renders the open dialog's prefill as a huh form.
func (m weekModel) buildForm() (weekModel, tea.Cmd) {
	*m.fields = m.dialog.Form()
	*m.action = actionSave

	courseOpts := make([]huh.Option[string], 0, len(m.courses))
	for _, c := range m.courses {
		courseOpts = append(courseOpts, huh.NewOption(c.Name, c.ID))
	}
	if len(courseOpts) == 0 {
		courseOpts = append(courseOpts, huh.NewOption("(add a course in the Courses tab)", ""))
	}
	catOpts := make([]huh.Option[string], 0, len(schedule.Categories()))
	for _, c := range schedule.Categories() {
		catOpts = append(catOpts, huh.NewOption(c.Label(), c.String()))
	}
	dayOpts := make([]huh.Option[int], len(m.week))
	for i, d := range m.week {
		dayOpts[i] = huh.NewOption(d.Format("Mon Jan 2"), i)
	}

	groups := []*huh.Group{
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(&m.fields.Title),
			huh.NewInput().Title("Description").Value(&m.fields.Description),
			huh.NewSelect[string]().Title("Course").Options(courseOpts...).Value(&m.fields.CourseID),
			huh.NewSelect[string]().Title("Type").Options(catOpts...).Value(&m.fields.Category),
		),
		huh.NewGroup(
			huh.NewSelect[int]().Title("Day").Options(dayOpts...).Value(&m.fields.Day),
			huh.NewInput().Title("Start (HH:MM)").Value(&m.fields.StartTime),
			huh.NewInput().Title("End (HH:MM)").Value(&m.fields.EndTime),
		),
	}

	if m.dialog.Mode() == schedule.DialogCreating {
		groups = append(groups, huh.NewGroup(
			huh.NewSelect[string]().Title("Repeat").
				Options(
					huh.NewOption("Does not repeat", schedule.RepeatNone),
					huh.NewOption("Daily", schedule.RepeatDaily),
					huh.NewOption("Weekly", schedule.RepeatWeekly),
				).Value(&m.fields.Repeat),
			huh.NewInput().Title("Occurrences (1-52)").Value(&m.fields.RepeatCount),
		).Title("Repeat"))
	} else {
		groups = append(groups, huh.NewGroup(
			huh.NewSelect[string]().Title("Action").
				Options(
					huh.NewOption("Save changes", actionSave),
					huh.NewOption("Toggle completion", actionToggle),
					huh.NewOption("Delete session", actionDelete),
				).Value(m.action),
		))
	}

	m.form = huh.NewForm(groups...).WithShowHelp(true).WithShowErrors(true)
	return m, m.form.Init()
}

func (m weekModel) renderForm() string {
	title := "New Session"
	if m.dialog.Mode() == schedule.DialogEditing {
		title = "Edit Session"
	}
	rows := []string{titleStyle.Render(title)}
	if m.formErr != "" {
		rows = append(rows, formErrorStyle.Render(m.formErr))
	}
	rows = append(rows, "", m.form.View())
	return panelStyle.Width(m.width - 4).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
