package roster

import "time"

// LeaveIndex answers "is this doctor on leave on this day" in O(1).
// Keys are DateKey strings; values are sets of doctor IDs.
type LeaveIndex map[string]map[string]struct{}

// BuildLeaveIndex indexes the given leaves over the window's days. Both
// leave endpoints are inclusive.
func BuildLeaveIndex(leaves []Leave, days []time.Time) LeaveIndex {
	ix := make(LeaveIndex, len(days))
	for _, day := range days {
		ix[DateKey(day)] = make(map[string]struct{})
	}

	for _, leave := range leaves {
		start := Normalize(leave.Start)
		end := Normalize(leave.End)
		for _, day := range days {
			d := Normalize(day)
			if !d.Before(start) && !d.After(end) {
				ix[DateKey(d)][leave.DoctorID] = struct{}{}
			}
		}
	}

	return ix
}

// OnLeave reports whether the doctor is on leave on the given day.
func (ix LeaveIndex) OnLeave(doctorID string, day time.Time) bool {
	set, ok := ix[DateKey(day)]
	if !ok {
		return false
	}
	_, on := set[doctorID]
	return on
}
