package schedule

import "fmt"

const (
	MinutesPerDay = 24 * 60

	DefaultStartHour = 8
	DefaultEndHour   = 20
	DefaultInterval  = 60
)

// TimeSlot is one row of the grid's time axis.
type TimeSlot struct {
	Hour   int
	Minute int
	Label  string
}

// Minutes returns the slot's offset from midnight.
func (s TimeSlot) Minutes() int { return s.Hour*60 + s.Minute }

// GridConfig describes the vertical axis of the grid.
type GridConfig struct {
	StartHour int
	EndHour   int
	Interval  int // minutes per slot, 30 or 60
}

// DefaultGridConfig returns the 08:00-20:00 hourly grid.
func DefaultGridConfig() GridConfig {
	return GridConfig{StartHour: DefaultStartHour, EndHour: DefaultEndHour, Interval: DefaultInterval}
}

// Validate returns a *ConfigurationError if the grid cannot be generated.
func (c GridConfig) Validate() error {
	if c.StartHour < 0 || c.StartHour > 23 {
		return &ConfigurationError{Field: "start hour", Value: c.StartHour, Reason: "must be between 0 and 23"}
	}
	if c.EndHour < 1 || c.EndHour > 24 {
		return &ConfigurationError{Field: "end hour", Value: c.EndHour, Reason: "must be between 1 and 24"}
	}
	if c.EndHour <= c.StartHour {
		return &ConfigurationError{Field: "end hour", Value: c.EndHour, Reason: fmt.Sprintf("must be after start hour %d", c.StartHour)}
	}
	if c.Interval != 30 && c.Interval != 60 {
		return &ConfigurationError{Field: "interval", Value: c.Interval, Reason: "must be 30 or 60"}
	}
	return nil
}

// Slots generates the time axis for c.
func (c GridConfig) Slots() ([]TimeSlot, error) {
	return GenerateSlots(c.StartHour, c.EndHour, c.Interval)
}

// GenerateSlots discretizes [startHour, endHour] into interval-minute slots.
// Hourly grids include endHour:00 unless that is midnight; half-hour grids
// stop at (endHour-1):30. No slot starts at 24:00.
func GenerateSlots(startHour, endHour, interval int) ([]TimeSlot, error) {
	cfg := GridConfig{StartHour: startHour, EndHour: endHour, Interval: interval}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var slots []TimeSlot
	switch interval {
	case 60:
		last := min(endHour, 23)
		slots = make([]TimeSlot, 0, last-startHour+1)
		for h := startHour; h <= last; h++ {
			slots = append(slots, newSlot(h, 0))
		}
	case 30:
		slots = make([]TimeSlot, 0, 2*(endHour-startHour))
		for h := startHour; h < endHour; h++ {
			slots = append(slots, newSlot(h, 0), newSlot(h, 30))
		}
	}
	return slots, nil
}

func newSlot(h, m int) TimeSlot {
	return TimeSlot{Hour: h, Minute: m, Label: FormatMinutes(h*60 + m)}
}
