package roster

import "time"

// Calendar carries the rotation cadence policy: how long a window is,
// which weekday anchors it, and the epoch the week index counts from.
type Calendar struct {
	// WindowLength is the number of days generated per run.
	WindowLength int

	// AnchorWeekday is the weekday a window always starts on.
	AnchorWeekday time.Weekday

	// Epoch is the fixed date week indices are counted from. It should
	// itself fall on the anchor weekday.
	Epoch time.Time
}

// Normalize strips the time-of-day component, keeping the date in UTC.
func Normalize(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateKey formats a day as its canonical map key.
func DateKey(t time.Time) string {
	return Normalize(t).Format("2006-01-02")
}

// WindowStart returns the most recent anchor weekday at or before date,
// normalized to midnight. Idempotent: WindowStart(WindowStart(d)) ==
// WindowStart(d).
func (c Calendar) WindowStart(date time.Time) time.Time {
	d := Normalize(date)
	diff := (int(d.Weekday()) - int(c.AnchorWeekday) + 7) % 7
	return d.AddDate(0, 0, -diff)
}

// WindowEnd returns the last instant of the window beginning at start.
func (c Calendar) WindowEnd(start time.Time) time.Time {
	return Normalize(start).AddDate(0, 0, c.WindowLength-1).
		Add(24*time.Hour - time.Nanosecond)
}

// WeekIndex returns the number of whole windows between the epoch and
// start. Floor division keeps the index stable for dates before the epoch.
func (c Calendar) WeekIndex(start time.Time) int {
	days := int(Normalize(start).Sub(Normalize(c.Epoch)).Hours() / 24)
	idx := days / c.WindowLength
	if days < 0 && days%c.WindowLength != 0 {
		idx--
	}
	return idx
}

// Days enumerates the window's days in chronological order.
func (c Calendar) Days(start time.Time) []time.Time {
	s := Normalize(start)
	days := make([]time.Time, c.WindowLength)
	for i := range days {
		days[i] = s.AddDate(0, 0, i)
	}
	return days
}
