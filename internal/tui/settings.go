package tui

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/studygrid/internal/config"
	"github.com/sadopc/studygrid/internal/schedule"
	"github.com/sadopc/studygrid/internal/store"
)

type settingsModel struct {
	store  *store.Store
	cfg    config.Config
	width  int
	height int

	settings   []store.Setting
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	startHour *int
	endHour   *int
	interval  *int
	weekStart *string
}

func newSettingsModel(s *store.Store, cfg config.Config) settingsModel {
	sh, eh, iv, ws := 0, 0, 0, ""
	return settingsModel{
		store:     s,
		cfg:       cfg,
		startHour: &sh,
		endHour:   &eh,
		interval:  &iv,
		weekStart: &ws,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	settings []store.Setting
	err      error
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		settings, err := s.store.GetAllSettings()
		return settingsDataMsg{settings: settings, err: err}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		if msg.err != nil {
			return s, statusCmd(errorStatus("Load settings", msg.err))
		}
		s.settings = msg.settings
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.New):
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	grid, weekStart, _ := s.store.GridSettings()
	*s.startHour = grid.StartHour
	*s.endHour = grid.EndHour
	*s.interval = grid.Interval
	*s.weekStart = "sunday"
	if weekStart == time.Monday {
		*s.weekStart = "monday"
	}

	hourOptions := func(from, to int) []huh.Option[int] {
		opts := make([]huh.Option[int], 0, to-from+1)
		for h := from; h <= to; h++ {
			opts = append(opts, huh.NewOption(fmt.Sprintf("%02d:00", h), h))
		}
		return opts
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().Title("Day starts at").Options(hourOptions(0, 23)...).Value(s.startHour),
			huh.NewSelect[int]().Title("Day ends at").Options(hourOptions(1, 24)...).Value(s.endHour),
			huh.NewSelect[int]().Title("Slot length").
				Options(
					huh.NewOption("60 minutes", 60),
					huh.NewOption("30 minutes", 30),
				).Value(s.interval),
			huh.NewSelect[string]().Title("Week starts on").
				Options(
					huh.NewOption("Sunday", "sunday"),
					huh.NewOption("Monday", "monday"),
				).Value(s.weekStart),
		).Title("Grid"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		return s, s.saveSettings()
	}

	return s, cmd
}

// saveSettings persists the grid only if it forms a valid configuration.
func (s settingsModel) saveSettings() tea.Cmd {
	grid := schedule.GridConfig{StartHour: *s.startHour, EndHour: *s.endHour, Interval: *s.interval}
	weekStart := time.Sunday
	if *s.weekStart == "monday" {
		weekStart = time.Monday
	}
	if err := s.store.SaveGridSettings(grid, weekStart); err != nil {
		return statusCmd(errorStatus("Save settings", err))
	}
	return tea.Batch(
		statusCmd(statusMsg{text: "Settings saved"}),
		func() tea.Msg { return settingsSavedMsg{} },
		s.refresh(),
	)
}

func (s settingsModel) view() string {
	w := s.width - 4
	title := titleStyle.Render("Settings")

	if s.formActive && s.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for _, setting := range s.settings {
		label := lipgloss.NewStyle().Width(24).Render(setting.Key)
		value := highlightStyle.Render(formatSettingValue(setting.Key, setting.Value))
		rows = append(rows, fmt.Sprintf("  %s %s", label, value))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  Config file"))
	for _, kv := range [][2]string{
		{"database", s.cfg.DBPath},
		{"log file", s.cfg.LogFile},
		{"log level", s.cfg.LogLevel},
		{"rows per slot", strconv.Itoa(s.cfg.SlotHeight)},
		{"mouse", strconv.FormatBool(s.cfg.MouseEnabled())},
	} {
		label := lipgloss.NewStyle().Width(24).Render(kv[0])
		rows = append(rows, fmt.Sprintf("  %s %s", label, mutedStyle.Render(kv[1])))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("Press enter to edit the grid"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func formatSettingValue(k, v string) string {
	switch k {
	case "start_hour", "end_hour":
		if h, err := strconv.Atoi(v); err == nil {
			return fmt.Sprintf("%02d:00", h)
		}
	case "slot_interval":
		return v + " min"
	}
	return v
}
