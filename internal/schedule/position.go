package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

const clockLayout = "15:04"

// Top returns the offset of e from the first slot, in slotHeight units.
// Events starting before startHour yield negative values.
func Top(e CalendarEvent, startHour, interval int, slotHeight float64) float64 {
	offset := float64(e.StartMinutes() - startHour*60)
	return offset / float64(interval) * slotHeight
}

// Height returns the extent of e in slotHeight units. Zero or negative for
// empty or inverted events.
func Height(e CalendarEvent, interval int, slotHeight float64) float64 {
	duration := float64(e.EndMinutes() - e.StartMinutes())
	return duration / float64(interval) * slotHeight
}

// MinutesOfDay parses "HH:MM". Malformed input yields 0.
func MinutesOfDay(clock string) int {
	m, err := ParseClock(clock)
	if err != nil {
		return 0
	}
	return m
}

// ParseClock parses a 24-hour "HH:MM" string into minutes of day. "24:00"
// is accepted as the end of the day.
func ParseClock(clock string) (int, error) {
	hs, ms, ok := strings.Cut(strings.TrimSpace(clock), ":")
	if !ok {
		return 0, fmt.Errorf("parse clock %q: expected HH:MM", clock)
	}
	h, err := strconv.Atoi(hs)
	if err != nil {
		return 0, fmt.Errorf("parse clock %q: %w", clock, err)
	}
	m, err := strconv.Atoi(ms)
	if err != nil {
		return 0, fmt.Errorf("parse clock %q: %w", clock, err)
	}
	if h < 0 || m < 0 || m > 59 || h > 24 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("parse clock %q: out of range", clock)
	}
	return h*60 + m, nil
}

// FormatMinutes renders minutes of day as zero-padded "HH:MM".
func FormatMinutes(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
