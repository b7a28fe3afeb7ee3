package roster

import "time"

// Doctor is the engine's view of a doctor. PreferredDuties holds the duty
// IDs the doctor may be assigned to; an empty list means the doctor is
// eligible for every duty in their department.
type Doctor struct {
	ID              string
	Name            string
	Email           string
	PreferredDuties []string
}

// Duty is a recurring daily duty owned by a department.
type Duty struct {
	ID         string
	Name       string
	Department string
}

// Leave is an approved absence, inclusive of both endpoints.
type Leave struct {
	DoctorID string
	Start    time.Time
	End      time.Time
}

// Override is an administrator-forced assignment for one (day, duty) slot.
// The engine never selects for an overridden slot, but the override's
// doctors still count toward same-day exclusivity.
type Override struct {
	Date          time.Time
	DutyID        string
	DoctorID      string
	ProxyDoctorID string
	ProxyUsed     bool
}

// Assignment is one engine-produced schedule entry. ProxyDoctorID is empty
// when the primary works the duty themselves.
type Assignment struct {
	Date          time.Time
	Department    string
	DutyID        string
	DutyName      string
	DoctorID      string
	ProxyDoctorID string
	ProxyUsed     bool
	Generated     bool
}

// WorkingDoctorID returns the doctor who actually covers the slot, or the
// empty string when the primary is on leave and no proxy was found.
func (a Assignment) WorkingDoctorID() string {
	if a.ProxyUsed {
		return a.ProxyDoctorID
	}
	return a.DoctorID
}

// Config is the full input snapshot for one generation run. The engine
// reads it and its own derived state only; it performs no I/O.
type Config struct {
	Department string
	AnchorDate time.Time
	Calendar   Calendar

	Duties    []Duty
	Doctors   []Doctor
	Leaves    []Leave
	Overrides []Override

	// OTDutyName identifies the duty type that must not be worked on two
	// consecutive days even across distinct duty identities. Compared
	// case-insensitively.
	OTDutyName string

	// AllowDoubleDutyFallback permits the relaxed backup search that may
	// double-book a doctor rather than leave a duty uncovered.
	AllowDoubleDutyFallback bool
}

// Outcome is the result of one generation run: the engine-generated
// assignments for the window plus human-readable warnings for every slot
// that degraded or went unfilled.
type Outcome struct {
	WindowStart time.Time
	WindowEnd   time.Time
	WeekIndex   int
	Assignments []Assignment
	Warnings    []string
}
