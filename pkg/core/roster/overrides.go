package roster

import "time"

// OverrideIndex provides override lookup by exact (day, duty) slot and by
// day. The by-day view seeds the same-day exclusivity sets before the
// engine's own selection begins.
type OverrideIndex struct {
	bySlot map[string]Override
	byDay  map[string][]Override
}

func slotKey(day time.Time, dutyID string) string {
	return DateKey(day) + "|" + dutyID
}

// BuildOverrideIndex indexes the standing overrides for a window.
func BuildOverrideIndex(overrides []Override) *OverrideIndex {
	ix := &OverrideIndex{
		bySlot: make(map[string]Override, len(overrides)),
		byDay:  make(map[string][]Override),
	}
	for _, o := range overrides {
		key := DateKey(o.Date)
		ix.bySlot[slotKey(o.Date, o.DutyID)] = o
		ix.byDay[key] = append(ix.byDay[key], o)
	}
	return ix
}

// ForSlot returns the override for the exact (day, duty) pair, if any.
func (ix *OverrideIndex) ForSlot(day time.Time, dutyID string) (Override, bool) {
	o, ok := ix.bySlot[slotKey(day, dutyID)]
	return o, ok
}

// ForDay returns all overrides recorded for the given day.
func (ix *OverrideIndex) ForDay(day time.Time) []Override {
	return ix.byDay[DateKey(day)]
}
