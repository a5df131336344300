package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/studygrid/internal/store"
)

var courseColors = []string{"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#3B82F6", "#A855F7", "#F97316", "#14B8A6"}

type coursesModel struct {
	store  *store.Store
	width  int
	height int

	courses []store.Course
	cursor  int

	formActive bool
	form       *huh.Form
	editingID  string // empty when creating

	// Form field pointers (survive value copies)
	formName       *string
	formColor      *string
	formDifficulty *int
	formPriority   *int
}

func newCoursesModel(s *store.Store) coursesModel {
	name, color, difficulty, priority := "", courseColors[0], 3, 2
	return coursesModel{
		store:          s,
		formName:       &name,
		formColor:      &color,
		formDifficulty: &difficulty,
		formPriority:   &priority,
	}
}

func (c *coursesModel) setSize(w, h int) {
	c.width = w
	c.height = h
}

type coursesDataMsg struct {
	courses []store.Course
	err     error
}

func (c coursesModel) refresh() tea.Cmd {
	return func() tea.Msg {
		courses, err := c.store.ListCourses()
		return coursesDataMsg{courses: courses, err: err}
	}
}

func (c coursesModel) update(msg tea.Msg) (coursesModel, tea.Cmd) {
	if c.formActive && c.form != nil {
		return c.updateForm(msg)
	}

	switch msg := msg.(type) {
	case coursesDataMsg:
		if msg.err != nil {
			return c, statusCmd(errorStatus("Load courses", msg.err))
		}
		c.courses = msg.courses
		if c.cursor >= len(c.courses) {
			c.cursor = max(0, len(c.courses)-1)
		}
		return c, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if c.cursor > 0 {
				c.cursor--
			}
		case key.Matches(msg, keys.Down):
			if c.cursor < len(c.courses)-1 {
				c.cursor++
			}
		case key.Matches(msg, keys.New):
			return c.showForm(nil)
		case key.Matches(msg, keys.Enter):
			if len(c.courses) > 0 {
				return c.showForm(&c.courses[c.cursor])
			}
		case key.Matches(msg, keys.Delete):
			if len(c.courses) > 0 {
				return c, c.deleteCourse(c.courses[c.cursor])
			}
		}
	}
	return c, nil
}

func (c coursesModel) deleteCourse(course store.Course) tea.Cmd {
	if err := c.store.DeleteCourse(course.ID); err != nil {
		if errors.Is(err, store.ErrCourseInUse) {
			return statusCmd(statusMsg{text: fmt.Sprintf("%s still has sessions", course.Name), isError: true})
		}
		return statusCmd(errorStatus("Delete course", err))
	}
	return tea.Batch(statusCmd(statusMsg{text: "Deleted " + course.Name}), c.refresh())
}

// showForm opens the course form, prefilled from existing when editing.
func (c coursesModel) showForm(existing *store.Course) (coursesModel, tea.Cmd) {
	*c.formName = ""
	*c.formColor = courseColors[len(c.courses)%len(courseColors)]
	*c.formDifficulty = 3
	*c.formPriority = 2
	c.editingID = ""
	if existing != nil {
		*c.formName = existing.Name
		*c.formColor = existing.Color
		*c.formDifficulty = existing.Difficulty
		*c.formPriority = existing.Priority
		c.editingID = existing.ID
	}

	colorOptions := make([]huh.Option[string], len(courseColors))
	for i, col := range courseColors {
		colorOptions[i] = huh.NewOption(fmt.Sprintf("%s %s", dot(col), col), col)
	}
	difficultyOptions := make([]huh.Option[int], 5)
	for i := range difficultyOptions {
		difficultyOptions[i] = huh.NewOption(stars(i+1), i+1)
	}

	c.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Course Name").Value(c.formName).Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errors.New("name is required")
				}
				return nil
			}),
			huh.NewSelect[string]().Title("Color").Options(colorOptions...).Value(c.formColor),
			huh.NewSelect[int]().Title("Difficulty").Options(difficultyOptions...).Value(c.formDifficulty),
			huh.NewSelect[int]().Title("Priority").
				Options(
					huh.NewOption("High", 1),
					huh.NewOption("Medium", 2),
					huh.NewOption("Low", 3),
				).Value(c.formPriority),
		),
	).WithShowHelp(true).WithShowErrors(true)

	c.formActive = true
	return c, c.form.Init()
}

func (c coursesModel) updateForm(msg tea.Msg) (coursesModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			c.formActive = false
			c.form = nil
			return c, nil
		}
	}

	form, cmd := c.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		c.form = f
	}

	if c.form.State == huh.StateCompleted {
		c.formActive = false
		return c, c.save()
	}
	return c, cmd
}

func (c coursesModel) save() tea.Cmd {
	name := strings.TrimSpace(*c.formName)
	other, err := c.store.FindCourseByName(name)
	if err != nil {
		return statusCmd(errorStatus("Save course", err))
	}
	if other != nil && other.ID != c.editingID {
		return statusCmd(statusMsg{text: fmt.Sprintf("A course named %q already exists", name), isError: true})
	}
	if c.editingID == "" {
		_, err = c.store.CreateCourse(name, *c.formColor, *c.formDifficulty, *c.formPriority)
	} else {
		err = c.store.UpdateCourse(c.editingID, name, *c.formColor, *c.formDifficulty, *c.formPriority)
	}
	if err != nil {
		return statusCmd(errorStatus("Save course", err))
	}
	return tea.Batch(statusCmd(statusMsg{text: "Saved " + name}), c.refresh())
}

func (c coursesModel) view() string {
	w := c.width - 4

	if c.formActive && c.form != nil {
		title := titleStyle.Render("New Course")
		if c.editingID != "" {
			title = titleStyle.Render("Edit Course")
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", c.form.View())
		return panelStyle.Width(w).Render(content)
	}

	title := titleStyle.Render("Courses")
	if len(c.courses) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No courses yet. Press n to create one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-2s %-32s %-12s %-8s", "", "Name", "Difficulty", "Priority")))

	for i, course := range c.courses {
		cursor := "  "
		style := normalItemStyle
		if i == c.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%s %-32s %-12s %-8s",
			cursor, dot(course.Color), course.Name, stars(course.Difficulty), priorityLabel(course.Priority))))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  enter: edit  d: delete"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func stars(n int) string {
	n = clamp(n, 0, 5)
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}

func priorityLabel(p int) string {
	switch p {
	case 1:
		return "High"
	case 3:
		return "Low"
	}
	return "Medium"
}
