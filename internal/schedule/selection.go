package schedule

// SelectionState is the state of a drag selection.
type SelectionState int

const (
	SelectionIdle SelectionState = iota
	SelectionSelecting
)

func (s SelectionState) String() string {
	if s == SelectionSelecting {
		return "selecting"
	}
	return "idle"
}

// Cell addresses one grid cell by day column and slot start time.
type Cell struct {
	Day     int
	Minutes int
}

// Span is the provisional time range produced by a finished selection.
type Span struct {
	Day   int
	Start int // minutes of day
	End   int // minutes of day, exclusive
}

// SlotSpan is the one-slot span of the slot starting at start. The end is
// capped at midnight so the last slot of the day ends at 24:00.
func SlotSpan(day, start, interval int) Span {
	return Span{Day: day, Start: start, End: SlotEnd(start, interval)}
}

// SlotEnd returns the exclusive end of the slot starting at start.
func SlotEnd(start, interval int) int {
	return min(start+interval, MinutesPerDay)
}

func (s Span) StartTime() string { return FormatMinutes(s.Start) }
func (s Span) EndTime() string   { return FormatMinutes(s.End) }

// Selector tracks a drag selection within a single day column. The zero
// value is not usable; create one with NewSelector.
type Selector struct {
	interval int
	state    SelectionState
	anchor   Cell
	current  Cell
}

func NewSelector(interval int) Selector {
	return Selector{interval: interval}
}

func (s Selector) State() SelectionState { return s.state }
func (s Selector) Active() bool          { return s.state == SelectionSelecting }
func (s Selector) Anchor() Cell          { return s.anchor }
func (s Selector) Current() Cell         { return s.current }

// Press starts a selection at c. A press while already selecting restarts
// the selection, which recovers from a release that was never delivered.
func (s *Selector) Press(c Cell) {
	s.state = SelectionSelecting
	s.anchor = c
	s.current = c
}

// Enter moves the selection's end to c. Cells outside the anchor's column
// are ignored: a selection never changes day.
func (s *Selector) Enter(c Cell) {
	if s.state != SelectionSelecting || c.Day != s.anchor.Day {
		return
	}
	s.current = c
}

// Release ends the selection. When the pointer was released over a cell
// (onCell) the covered span is returned; otherwise the selection is dropped.
// Release while idle returns false.
func (s *Selector) Release(c Cell, onCell bool) (Span, bool) {
	if s.state != SelectionSelecting {
		return Span{}, false
	}
	if onCell {
		s.Enter(c)
	}
	span := s.span()
	s.Cancel()
	if !onCell {
		return Span{}, false
	}
	return span, true
}

// Cancel drops any selection in progress without producing a span.
func (s *Selector) Cancel() {
	s.state = SelectionIdle
	s.anchor = Cell{}
	s.current = Cell{}
}

// Contains reports whether c is highlighted by the current selection.
func (s Selector) Contains(c Cell) bool {
	if s.state != SelectionSelecting || c.Day != s.anchor.Day {
		return false
	}
	lo, hi := s.bounds()
	return c.Minutes >= lo && c.Minutes <= hi
}

func (s Selector) bounds() (lo, hi int) {
	lo, hi = s.anchor.Minutes, s.current.Minutes
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo, hi
}

func (s Selector) span() Span {
	lo, hi := s.bounds()
	return Span{Day: s.anchor.Day, Start: lo, End: SlotEnd(hi, s.interval)}
}
