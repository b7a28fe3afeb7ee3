package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ashwinpillai/duty-roster/internal/config"
	"github.com/ashwinpillai/duty-roster/pkg/core/roster"
	"github.com/ashwinpillai/duty-roster/pkg/db"
)

// ViewStore is the persistence surface the view service needs.
type ViewStore interface {
	GetScheduleByWindow(ctx context.Context, start, end, department string) ([]db.ScheduleEntry, error)
	GetDoctorsByDepartment(ctx context.Context, department string) ([]db.Doctor, error)
	GetDutiesByDepartment(ctx context.Context, department string) ([]db.Duty, error)
}

// ViewResult is the read-only window snapshot for display.
type ViewResult struct {
	WindowStart string
	WindowEnd   string
	Entries     []db.ScheduleEntry
	Doctors     []db.Doctor
	Duties      []db.Duty
}

// ViewSchedule reads the persisted schedule for the window containing the
// anchor date. An empty department lists every department's entries. It
// never generates anything; an empty result means the window has not been
// generated yet.
func ViewSchedule(ctx context.Context, store ViewStore, cfg *config.Config, logger *zap.Logger, anchorDate, department string) (*ViewResult, error) {
	anchor, err := parseDate(anchorDate)
	if err != nil {
		return nil, err
	}

	calendar := calendarFromConfig(cfg)
	start := calendar.WindowStart(anchor)
	days := calendar.Days(start)
	startKey := roster.DateKey(start)
	endKey := roster.DateKey(days[len(days)-1])

	logger.Debug("Fetching schedule window",
		zap.String("window_start", startKey),
		zap.String("window_end", endKey),
		zap.String("department", department))

	entries, err := store.GetScheduleByWindow(ctx, startKey, endKey, department)
	if err != nil {
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}

	doctors, err := store.GetDoctorsByDepartment(ctx, department)
	if err != nil {
		return nil, fmt.Errorf("failed to get doctors: %w", err)
	}

	duties, err := store.GetDutiesByDepartment(ctx, department)
	if err != nil {
		return nil, fmt.Errorf("failed to get duties: %w", err)
	}

	return &ViewResult{
		WindowStart: startKey,
		WindowEnd:   endKey,
		Entries:     entries,
		Doctors:     doctors,
		Duties:      duties,
	}, nil
}
