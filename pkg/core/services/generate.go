package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ashwinpillai/duty-roster/internal/config"
	"github.com/ashwinpillai/duty-roster/pkg/core/roster"
	"github.com/ashwinpillai/duty-roster/pkg/db"
	"github.com/ashwinpillai/duty-roster/pkg/notify"
)

// GenerateStore is the persistence surface the generate service needs.
type GenerateStore interface {
	GetDutiesByDepartment(ctx context.Context, department string) ([]db.Duty, error)
	GetDoctorsByDepartment(ctx context.Context, department string) ([]db.Doctor, error)
	GetLeavesOverlapping(ctx context.Context, department, start, end string) ([]db.Leave, error)
	GetOverrides(ctx context.Context, department, start, end string) ([]db.ScheduleEntry, error)
	GetScheduleByWindow(ctx context.Context, start, end, department string) ([]db.ScheduleEntry, error)
	ReplaceGeneratedWindow(ctx context.Context, department, start, end string, entries []db.ScheduleEntry) error
}

// GenerateParams controls one generation run.
type GenerateParams struct {
	Department string
	AnchorDate string
	DryRun     bool
	Notify     bool
}

// GenerateResult reports the outcome of one generation run: the persisted
// window, engine warnings, and per-recipient notification results.
type GenerateResult struct {
	WindowStart   string
	WindowEnd     string
	WeekIndex     int
	Entries       []db.ScheduleEntry
	Warnings      []string
	Notifications []notify.Result
}

// GenerateSchedule regenerates the rotation window containing the anchor
// date for one department. Generated entries for the window are replaced
// wholesale; override entries are preserved and honoured.
func GenerateSchedule(
	ctx context.Context,
	store GenerateStore,
	cfg *config.Config,
	logger *zap.Logger,
	notifier notify.Notifier,
	params GenerateParams,
) (*GenerateResult, error) {
	if params.Department == "" {
		return nil, fmt.Errorf("department is required")
	}

	anchor, err := parseDate(params.AnchorDate)
	if err != nil {
		return nil, err
	}

	calendar := calendarFromConfig(cfg)
	start := calendar.WindowStart(anchor)
	days := calendar.Days(start)
	startKey := roster.DateKey(start)
	endKey := roster.DateKey(days[len(days)-1])

	logger.Info("Generating schedule",
		zap.String("department", params.Department),
		zap.String("window_start", startKey),
		zap.String("window_end", endKey))

	logger.Debug("Fetching duties")
	duties, err := store.GetDutiesByDepartment(ctx, params.Department)
	if err != nil {
		return nil, fmt.Errorf("failed to get duties: %w", err)
	}
	if len(duties) == 0 {
		return nil, fmt.Errorf("no duties configured for department %s", params.Department)
	}

	logger.Debug("Fetching doctors")
	doctors, err := store.GetDoctorsByDepartment(ctx, params.Department)
	if err != nil {
		return nil, fmt.Errorf("failed to get doctors: %w", err)
	}

	logger.Debug("Fetching leaves")
	leaves, err := store.GetLeavesOverlapping(ctx, params.Department, startKey, endKey)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaves: %w", err)
	}

	logger.Debug("Fetching overrides")
	overrideEntries, err := store.GetOverrides(ctx, params.Department, startKey, endKey)
	if err != nil {
		return nil, fmt.Errorf("failed to get overrides: %w", err)
	}

	overrides := rosterOverrides(overrideEntries, logger)
	taken := make(map[string]bool, len(overrides))
	for _, o := range overrides {
		taken[roster.DateKey(o.Date)+"|"+o.DutyID] = true
	}

	standing, err := expandStandingOverrides(cfg, params.Department, duties, days, taken, logger)
	if err != nil {
		return nil, err
	}
	overrides = append(overrides, standing...)

	outcome, err := roster.Generate(roster.Config{
		Department:              params.Department,
		AnchorDate:              anchor,
		Calendar:                calendar,
		Duties:                  rosterDuties(duties),
		Doctors:                 rosterDoctors(doctors),
		Leaves:                  rosterLeaves(leaves, logger),
		Overrides:               overrides,
		OTDutyName:              cfg.OTDutyName,
		AllowDoubleDutyFallback: !cfg.DisableDoubleDutyFallback,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate schedule: %w", err)
	}

	for _, warning := range outcome.Warnings {
		logger.Warn(warning)
	}

	entries := entriesFromAssignments(outcome.Assignments, outcome.WindowStart)
	entries = append(entries, standingEntries(standing, outcome.WindowStart, params.Department)...)

	result := &GenerateResult{
		WindowStart: startKey,
		WindowEnd:   endKey,
		WeekIndex:   outcome.WeekIndex,
		Warnings:    outcome.Warnings,
	}

	if params.DryRun {
		logger.Info("Dry run, schedule not persisted",
			zap.Int("entries", len(entries)))
		result.Entries = entries
		return result, nil
	}

	logger.Debug("Persisting generated window", zap.Int("entries", len(entries)))
	if err := store.ReplaceGeneratedWindow(ctx, params.Department, startKey, endKey, entries); err != nil {
		return nil, fmt.Errorf("failed to persist schedule: %w", err)
	}

	merged, err := store.GetScheduleByWindow(ctx, startKey, endKey, params.Department)
	if err != nil {
		return nil, fmt.Errorf("failed to read back schedule: %w", err)
	}
	result.Entries = merged

	logger.Info("Schedule generated",
		zap.Int("entries", len(merged)),
		zap.Int("warnings", len(outcome.Warnings)))

	if params.Notify && notifier != nil {
		requests := assignmentNotifications(outcome.Assignments, doctorsByID(doctors))
		logger.Info("Dispatching notifications", zap.Int("recipients", len(requests)))
		result.Notifications = notify.Dispatch(ctx, notifier, logger, requests)
	}

	return result, nil
}

// standingEntries materialises expanded standing overrides as generated
// records so the persisted window matches what the engine honoured. They
// are replaced on every regeneration, same as engine output.
func standingEntries(standing []roster.Override, windowStart time.Time, department string) []db.ScheduleEntry {
	assignments := make([]roster.Assignment, len(standing))
	for i, o := range standing {
		assignments[i] = roster.Assignment{
			Date:          o.Date,
			Department:    department,
			DutyID:        o.DutyID,
			DoctorID:      o.DoctorID,
			ProxyDoctorID: o.ProxyDoctorID,
			ProxyUsed:     o.ProxyUsed,
			Generated:     true,
		}
	}
	entries := entriesFromAssignments(assignments, windowStart)
	for i := range entries {
		entries[i].OverrideNote = "standing override"
	}
	return entries
}

// assignmentNotifications builds one message per affected doctor. A proxy
// assignment notifies both the nominal primary and the covering proxy.
func assignmentNotifications(assignments []roster.Assignment, doctors map[string]db.Doctor) []notify.Request {
	var requests []notify.Request
	for _, a := range assignments {
		dateLabel := a.Date.Format("Mon Jan 2 2006")

		if a.ProxyUsed && a.ProxyDoctorID != "" {
			if doc, ok := doctors[a.ProxyDoctorID]; ok {
				requests = append(requests, notify.Request{
					Doctor: doc,
					Message: notify.Message{
						Title: "Proxy Assignment",
						Body:  fmt.Sprintf("You are covering %s on %s as proxy.", a.DutyName, dateLabel),
					},
				})
			}
			if doc, ok := doctors[a.DoctorID]; ok {
				requests = append(requests, notify.Request{
					Doctor: doc,
					Message: notify.Message{
						Title: "Proxy Assigned",
						Body:  fmt.Sprintf("A proxy is covering your %s duty on %s.", a.DutyName, dateLabel),
					},
				})
			}
			continue
		}

		if doc, ok := doctors[a.DoctorID]; ok {
			requests = append(requests, notify.Request{
				Doctor: doc,
				Message: notify.Message{
					Title: "Schedule Assigned",
					Body:  fmt.Sprintf("You are assigned to %s on %s.", a.DutyName, dateLabel),
				},
			})
		}
	}
	return requests
}
