package schedule

import "time"

// Direction is a whole-week navigation step.
type Direction int

const (
	Backward Direction = -1
	Forward  Direction = 1
)

// Week holds the seven consecutive dates shown by the grid. Index 0 is the
// configured first day of the week.
type Week [7]time.Time

// CurrentWeek returns the week containing pivot, starting on the most recent
// start weekday on or before it.
func CurrentWeek(pivot time.Time, start time.Weekday) Week {
	day := midnight(pivot)
	first := day.AddDate(0, 0, -offsetFrom(day.Weekday(), start))

	var w Week
	for i := range w {
		w[i] = first.AddDate(0, 0, i)
	}
	return w
}

// Navigate shifts every date by seven days in dir.
func (w Week) Navigate(dir Direction) Week {
	var out Week
	for i, d := range w {
		out[i] = d.AddDate(0, 0, 7*int(dir))
	}
	return out
}

// Start is the first date of the week at midnight.
func (w Week) Start() time.Time { return w[0] }

// End is the exclusive end of the week.
func (w Week) End() time.Time { return w[6].AddDate(0, 0, 1) }

func (w Week) Contains(t time.Time) bool {
	t = t.In(w[0].Location())
	return !t.Before(w.Start()) && t.Before(w.End())
}

// Index returns the column of t, or -1 when t lies outside the week.
func (w Week) Index(t time.Time) int {
	if !w.Contains(t) {
		return -1
	}
	day := midnight(t.In(w[0].Location()))
	for i, d := range w {
		if d.Equal(day) {
			return i
		}
	}
	return -1
}

// Label names the month of the week's first day, e.g. "October 2026".
func (w Week) Label() string {
	return w[0].Format("January 2006")
}

// DayIndex returns the grid column (0-6) of date for a week starting on start.
func DayIndex(date time.Time, start time.Weekday) int {
	return offsetFrom(date.Weekday(), start)
}

// Weekdays lists the weekdays in column order for a week starting on start.
func Weekdays(start time.Weekday) [7]time.Weekday {
	var out [7]time.Weekday
	for i := range out {
		out[i] = time.Weekday((int(start) + i) % 7)
	}
	return out
}

func offsetFrom(day, start time.Weekday) int {
	return (int(day) - int(start) + 7) % 7
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
