package roster

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// lastAssignment records the most recent working assignment per doctor,
// used only by the adjacency rule within one generation pass.
type lastAssignment struct {
	dutyID   string
	dutyName string // lowercased
	dateKey  string
}

// generator is the per-run mutable state of the assignment engine.
type generator struct {
	cfg       Config
	eligible  map[string][]Doctor
	leaves    LeaveIndex
	overrides *OverrideIndex

	// Cyclic starting indices per duty, reseeded each run from the week
	// index so regeneration is deterministic.
	primaryPointers map[string]int
	proxyPointers   map[string]int

	lastAssigned map[string]lastAssignment
	warnings     []string
}

// Generate runs the assignment engine over one rotation window. It is a
// pure function of its input snapshot: calling it twice with the same
// Config yields identical output.
func Generate(cfg Config) (*Outcome, error) {
	if cfg.Department == "" {
		return nil, fmt.Errorf("department is required")
	}
	if cfg.Calendar.WindowLength <= 0 {
		return nil, fmt.Errorf("window length must be positive, got %d", cfg.Calendar.WindowLength)
	}

	start := cfg.Calendar.WindowStart(cfg.AnchorDate)
	end := cfg.Calendar.WindowEnd(start)
	days := cfg.Calendar.Days(start)
	weekIndex := cfg.Calendar.WeekIndex(start)

	// Stable duty order: by name, then ID. The duty's position in this
	// order is its ordinal for pointer seeding.
	duties := make([]Duty, len(cfg.Duties))
	copy(duties, cfg.Duties)
	sort.Slice(duties, func(i, j int) bool {
		if duties[i].Name != duties[j].Name {
			return duties[i].Name < duties[j].Name
		}
		return duties[i].ID < duties[j].ID
	})

	g := &generator{
		cfg:             cfg,
		eligible:        EligibleByDuty(duties, cfg.Doctors),
		leaves:          BuildLeaveIndex(cfg.Leaves, days),
		overrides:       BuildOverrideIndex(cfg.Overrides),
		primaryPointers: make(map[string]int, len(duties)),
		proxyPointers:   make(map[string]int, len(duties)),
		lastAssigned:    make(map[string]lastAssignment),
	}

	// Seed both pointers from (weekIndex, duty ordinal). Offsetting the
	// proxy pointer by one keeps the backup search from shadowing the
	// primary rotation.
	for ordinal, duty := range duties {
		n := len(g.eligible[duty.ID])
		if n == 0 {
			continue
		}
		g.primaryPointers[duty.ID] = mod(weekIndex+ordinal, n)
		g.proxyPointers[duty.ID] = mod(weekIndex+ordinal+1, n)
	}

	var assignments []Assignment

	for _, day := range days {
		primaryToday := make(map[string]struct{})
		workingToday := make(map[string]struct{})

		// Overrides already commit doctors for this day; the engine must
		// not double-book them elsewhere.
		for _, o := range g.overrides.ForDay(day) {
			if o.DoctorID != "" {
				primaryToday[o.DoctorID] = struct{}{}
			}
			if o.ProxyDoctorID != "" {
				workingToday[o.ProxyDoctorID] = struct{}{}
			} else if o.DoctorID != "" && !o.ProxyUsed {
				workingToday[o.DoctorID] = struct{}{}
			}
		}

		for _, duty := range duties {
			if _, ok := g.overrides.ForSlot(day, duty.ID); ok {
				continue
			}

			eligible := g.eligible[duty.ID]
			if len(eligible) == 0 {
				g.warnf("No eligible doctors for %s in %s", duty.Name, cfg.Department)
				continue
			}

			a, ok := g.assignDuty(day, duty, eligible, primaryToday, workingToday)
			if !ok {
				continue
			}
			assignments = append(assignments, a)
		}
	}

	return &Outcome{
		WindowStart: start,
		WindowEnd:   end,
		WeekIndex:   weekIndex,
		Assignments: assignments,
		Warnings:    g.warnings,
	}, nil
}

// assignDuty selects the primary and, when the primary is on leave, a
// backup for one (day, duty) slot, updating rotation state in place.
func (g *generator) assignDuty(day time.Time, duty Duty, eligible []Doctor, primaryToday, workingToday map[string]struct{}) (Assignment, bool) {
	primary, onLeave, next, found := g.selectPrimary(day, duty, eligible, primaryToday, workingToday)
	if !found {
		g.warnf("No primary doctor for %s on %s", duty.Name, DateKey(day))
		return Assignment{}, false
	}
	g.primaryPointers[duty.ID] = next

	// An on-leave primary without a proxy still blocks other duties from
	// nominating them again that day.
	primaryToday[primary.ID] = struct{}{}

	a := Assignment{
		Date:       Normalize(day),
		Department: duty.Department,
		DutyID:     duty.ID,
		DutyName:   duty.Name,
		DoctorID:   primary.ID,
		Generated:  true,
	}

	working := primary
	hasWorking := true

	if onLeave {
		// The slot needs proxy cover whether or not one is found; an
		// unfilled proxy renders as TBD downstream.
		a.ProxyUsed = true

		proxy, next, ok := g.findBackup(day, duty, eligible, primary.ID, workingToday)
		if ok {
			a.ProxyDoctorID = proxy.ID
			working = proxy
			g.proxyPointers[duty.ID] = next
		} else if g.cfg.AllowDoubleDutyFallback {
			proxy, next, ok := g.findBackupRelaxed(day, duty, eligible, primary.ID)
			if ok {
				a.ProxyDoctorID = proxy.ID
				working = proxy
				g.proxyPointers[duty.ID] = next
				g.warnf("Fallback proxy assigned for %s on %s (doctor already assigned)", duty.Name, DateKey(day))
			} else {
				hasWorking = false
				g.warnf("No available proxy for %s on %s", duty.Name, DateKey(day))
			}
		} else {
			hasWorking = false
			g.warnf("No available proxy for %s on %s", duty.Name, DateKey(day))
		}
	}

	if hasWorking {
		workingToday[working.ID] = struct{}{}
		g.lastAssigned[working.ID] = lastAssignment{
			dutyID:   duty.ID,
			dutyName: strings.ToLower(duty.Name),
			dateKey:  DateKey(day),
		}
	}

	return a, true
}

// selectPrimary scans the eligible list cyclically from the duty's
// rotation pointer. The first candidate not already primary today is
// taken: on leave, they become the nominal primary (a proxy will work the
// slot); otherwise they must pass the full availability test.
func (g *generator) selectPrimary(day time.Time, duty Duty, eligible []Doctor, primaryToday, workingToday map[string]struct{}) (Doctor, bool, int, bool) {
	n := len(eligible)
	start := g.primaryPointers[duty.ID]

	for i := 0; i < n; i++ {
		pos := (start + i) % n
		candidate := eligible[pos]

		if _, taken := primaryToday[candidate.ID]; taken {
			continue
		}

		if g.leaves.OnLeave(candidate.ID, day) {
			return candidate, true, (pos + 1) % n, true
		}

		if g.available(candidate, day, duty, workingToday) {
			return candidate, false, (pos + 1) % n, true
		}
	}

	return Doctor{}, false, start, false
}

// findBackup searches the same eligible list cyclically from the duty's
// proxy pointer for a candidate passing the full availability test.
func (g *generator) findBackup(day time.Time, duty Duty, eligible []Doctor, primaryID string, workingToday map[string]struct{}) (Doctor, int, bool) {
	return g.scan(eligible, g.proxyPointers[duty.ID], primaryID, func(candidate Doctor) bool {
		return g.available(candidate, day, duty, workingToday)
	})
}

// findBackupRelaxed accepts any candidate who is simply not on leave, even
// if already working another duty today.
func (g *generator) findBackupRelaxed(day time.Time, duty Duty, eligible []Doctor, primaryID string) (Doctor, int, bool) {
	return g.scan(eligible, g.proxyPointers[duty.ID], primaryID, func(candidate Doctor) bool {
		return !g.leaves.OnLeave(candidate.ID, day)
	})
}

// scan is the generic cyclic candidate search shared by the strict and
// relaxed backup passes.
func (g *generator) scan(eligible []Doctor, start int, excludeID string, accept func(Doctor) bool) (Doctor, int, bool) {
	n := len(eligible)
	if n == 0 {
		return Doctor{}, start, false
	}

	for i := 0; i < n; i++ {
		pos := (start + i) % n
		candidate := eligible[pos]
		if candidate.ID == excludeID {
			continue
		}
		if accept(candidate) {
			return candidate, (pos + 1) % n, true
		}
	}

	return Doctor{}, start, false
}

// available is the strict availability test: not already working today,
// not on leave, and not violating the adjacency rule for this duty.
func (g *generator) available(doc Doctor, day time.Time, duty Duty, workingToday map[string]struct{}) bool {
	if _, working := workingToday[doc.ID]; working {
		return false
	}
	if g.leaves.OnLeave(doc.ID, day) {
		return false
	}

	last, ok := g.lastAssigned[doc.ID]
	if !ok {
		return true
	}

	prevKey := DateKey(Normalize(day).AddDate(0, 0, -1))
	if last.dateKey != prevKey {
		return true
	}
	if last.dutyID == duty.ID {
		return false
	}
	if g.isOTDuty(duty.Name) && last.dutyName == strings.ToLower(g.cfg.OTDutyName) {
		return false
	}

	return true
}

func (g *generator) isOTDuty(dutyName string) bool {
	return g.cfg.OTDutyName != "" && strings.EqualFold(dutyName, g.cfg.OTDutyName)
}

func (g *generator) warnf(format string, args ...any) {
	g.warnings = append(g.warnings, fmt.Sprintf(format, args...))
}

// mod is floor modulo: the result is always in [0, n).
func mod(a, n int) int {
	return ((a % n) + n) % n
}
