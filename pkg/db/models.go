package db

// Doctor is a database doctor record. Duties is the broad "can perform"
// list; AllowedDuties, when non-empty, is the narrower preferred list the
// scheduler uses instead.
type Doctor struct {
	ID             string
	Name           string
	Email          string
	Specialization string
	Duties         []string
	AllowedDuties  []string
}

// Duty is a database duty record. A duty belongs to exactly one department.
type Duty struct {
	ID         string
	Name       string
	Department string
}

// Leave is a database leave record. Dates use the 2006-01-02 format and
// are inclusive at both ends. SubstituteID is an optional manually
// designated stand-in; it is informational and never consulted by the
// scheduler's own backup search.
type Leave struct {
	ID           string
	DoctorID     string
	StartDate    string
	EndDate      string
	SubstituteID string
}

// ScheduleEntry is one persisted (day, duty) assignment. Overrides
// (IsOverride) are administrator decisions that regeneration must leave
// untouched; generated rows (IsGenerated) are replaced wholesale when a
// window is regenerated.
type ScheduleEntry struct {
	ID            string
	Date          string
	WindowStart   string
	Department    string
	DutyID        string
	DoctorID      string
	ProxyDoctorID string
	ProxyUsed     bool
	IsGenerated   bool
	IsSent        bool
	IsOverride    bool
	OverrideBy    string
	OverrideNote  string
}
