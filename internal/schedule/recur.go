package schedule

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
)

// RecurrenceRule builds the RRULE for a repeat option and occurrence count.
func RecurrenceRule(repeat string, count int) (string, error) {
	var freq rrule.Frequency
	switch repeat {
	case RepeatDaily:
		freq = rrule.DAILY
	case RepeatWeekly:
		freq = rrule.WEEKLY
	default:
		return "", fmt.Errorf("unknown repeat %q", repeat)
	}
	opt := rrule.ROption{Freq: freq, Count: count}
	return opt.RRuleString(), nil
}

// Occurrences expands rule from start. An empty rule yields start alone.
func Occurrences(rule string, start time.Time) ([]time.Time, error) {
	if rule == "" {
		return []time.Time{start}, nil
	}
	opt, err := rrule.StrToROption(rule)
	if err != nil {
		return nil, fmt.Errorf("parse recurrence %q: %w", rule, err)
	}
	if opt.Count == 0 && opt.Until.IsZero() {
		opt.Count = maxRepeatCount
	}
	opt.Dtstart = start
	r, err := rrule.NewRRule(*opt)
	if err != nil {
		return nil, fmt.Errorf("build recurrence %q: %w", rule, err)
	}
	return r.All(), nil
}
