package db

import "context"

// Store defines the full set of database operations. The postgres.DB type
// implements this interface; services depend on narrower per-service
// subsets declared next to each service.
type Store interface {
	GetDutiesByDepartment(ctx context.Context, department string) ([]Duty, error)
	GetDoctorsByDepartment(ctx context.Context, department string) ([]Doctor, error)
	GetDoctor(ctx context.Context, id string) (*Doctor, error)

	GetLeavesOverlapping(ctx context.Context, department, start, end string) ([]Leave, error)
	InsertLeave(ctx context.Context, leave *Leave) error

	GetOverrides(ctx context.Context, department, start, end string) ([]ScheduleEntry, error)
	UpsertOverride(ctx context.Context, entry *ScheduleEntry) error

	GetScheduleByWindow(ctx context.Context, start, end, department string) ([]ScheduleEntry, error)
	ReplaceGeneratedWindow(ctx context.Context, department, start, end string, entries []ScheduleEntry) error
	MarkEntriesSent(ctx context.Context, ids []string) error
}
