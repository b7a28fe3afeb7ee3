// Package grid shapes a window's schedule entries into the day-by-duty
// matrix used by the email and spreadsheet renderers.
package grid

import (
	"sort"
	"time"

	"github.com/ashwinpillai/duty-roster/pkg/core/roster"
	"github.com/ashwinpillai/duty-roster/pkg/db"
)

// Cell is one rendered slot of the grid.
type Cell struct {
	DoctorName string
	ProxyName  string
	ProxyUsed  bool
	Override   bool
}

// Grid is a window's assignments laid out duty-by-day.
type Grid struct {
	Start  time.Time
	End    time.Time
	Days   []time.Time
	Duties []db.Duty
	cells  map[string][]Cell
}

func cellKey(day time.Time, dutyID string) string {
	return roster.DateKey(day) + "|" + dutyID
}

// Cells returns the entries for one (day, duty) slot. Usually zero or one;
// data-entry duplicates are preserved rather than hidden.
func (g *Grid) Cells(day time.Time, dutyID string) []Cell {
	return g.cells[cellKey(day, dutyID)]
}

// Build lays the entries out over the given days. Duties are ordered by
// name; doctor IDs are resolved to display names via the doctors list,
// falling back to the raw ID when unknown.
func Build(entries []db.ScheduleEntry, duties []db.Duty, doctors []db.Doctor, days []time.Time) *Grid {
	namesByID := make(map[string]string, len(doctors))
	for _, doc := range doctors {
		namesByID[doc.ID] = doc.Name
	}

	ordered := make([]db.Duty, len(duties))
	copy(ordered, duties)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Name != ordered[j].Name {
			return ordered[i].Name < ordered[j].Name
		}
		return ordered[i].ID < ordered[j].ID
	})

	g := &Grid{
		Days:   days,
		Duties: ordered,
		cells:  make(map[string][]Cell),
	}
	if len(days) > 0 {
		g.Start = days[0]
		g.End = days[len(days)-1]
	}

	inWindow := make(map[string]bool, len(days))
	for _, day := range days {
		inWindow[roster.DateKey(day)] = true
	}

	for _, entry := range entries {
		if !inWindow[entry.Date] {
			continue
		}

		cell := Cell{
			DoctorName: displayName(namesByID, entry.DoctorID),
			ProxyUsed:  entry.ProxyUsed,
			Override:   entry.IsOverride,
		}
		if entry.ProxyDoctorID != "" {
			cell.ProxyName = displayName(namesByID, entry.ProxyDoctorID)
		} else if entry.ProxyUsed {
			cell.ProxyName = "TBD"
		}

		key := entry.Date + "|" + entry.DutyID
		g.cells[key] = append(g.cells[key], cell)
	}

	return g
}

func displayName(namesByID map[string]string, doctorID string) string {
	if name, ok := namesByID[doctorID]; ok {
		return name
	}
	return doctorID
}
