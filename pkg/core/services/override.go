package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ashwinpillai/duty-roster/internal/config"
	"github.com/ashwinpillai/duty-roster/pkg/core/roster"
	"github.com/ashwinpillai/duty-roster/pkg/db"
	"github.com/ashwinpillai/duty-roster/pkg/notify"
)

// OverrideStore is the persistence surface the override service needs.
type OverrideStore interface {
	GetDoctor(ctx context.Context, id string) (*db.Doctor, error)
	UpsertOverride(ctx context.Context, entry *db.ScheduleEntry) error
}

// OverrideParams is one manual assignment for a (day, duty) slot.
type OverrideParams struct {
	Department    string
	Date          string
	DutyID        string
	DoctorID      string
	ProxyDoctorID string
	By            string
	Note          string
	Notify        bool
}

// OverrideResult reports the stored override and any notification outcomes.
type OverrideResult struct {
	Entry         db.ScheduleEntry
	Notifications []notify.Result
}

// ApplyOverride records an administrator's manual assignment. The slot is
// keyed by (department, date, duty); a second override for the same slot
// replaces the first. Regeneration leaves overrides untouched.
func ApplyOverride(
	ctx context.Context,
	store OverrideStore,
	cfg *config.Config,
	logger *zap.Logger,
	notifier notify.Notifier,
	params OverrideParams,
) (*OverrideResult, error) {
	if params.Department == "" {
		return nil, fmt.Errorf("department is required")
	}
	if params.DutyID == "" {
		return nil, fmt.Errorf("duty is required")
	}
	if params.DoctorID == "" {
		return nil, fmt.Errorf("doctor is required")
	}

	date, err := parseDate(params.Date)
	if err != nil {
		return nil, err
	}

	doctor, err := store.GetDoctor(ctx, params.DoctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get doctor %s: %w", params.DoctorID, err)
	}

	var proxy *db.Doctor
	if params.ProxyDoctorID != "" {
		proxy, err = store.GetDoctor(ctx, params.ProxyDoctorID)
		if err != nil {
			return nil, fmt.Errorf("failed to get proxy doctor %s: %w", params.ProxyDoctorID, err)
		}
	}

	calendar := calendarFromConfig(cfg)
	entry := db.ScheduleEntry{
		ID:            uuid.New().String(),
		Date:          roster.DateKey(date),
		WindowStart:   roster.DateKey(calendar.WindowStart(date)),
		Department:    params.Department,
		DutyID:        params.DutyID,
		DoctorID:      params.DoctorID,
		ProxyDoctorID: params.ProxyDoctorID,
		ProxyUsed:     params.ProxyDoctorID != "",
		IsOverride:    true,
		OverrideBy:    params.By,
		OverrideNote:  params.Note,
	}

	logger.Info("Applying override",
		zap.String("department", params.Department),
		zap.String("date", entry.Date),
		zap.String("duty_id", params.DutyID),
		zap.String("doctor_id", params.DoctorID))

	if err := store.UpsertOverride(ctx, &entry); err != nil {
		return nil, fmt.Errorf("failed to store override: %w", err)
	}

	result := &OverrideResult{Entry: entry}

	if params.Notify && notifier != nil {
		dateLabel := date.Format("Mon Jan 2 2006")
		requests := []notify.Request{{
			Doctor: *doctor,
			Message: notify.Message{
				Title: "Schedule Override",
				Body:  fmt.Sprintf("You have been manually assigned a duty on %s.", dateLabel),
			},
		}}
		if proxy != nil {
			requests = append(requests, notify.Request{
				Doctor: *proxy,
				Message: notify.Message{
					Title: "Proxy Assignment",
					Body:  fmt.Sprintf("You are covering a duty as proxy on %s.", dateLabel),
				},
			})
		}
		result.Notifications = notify.Dispatch(ctx, notifier, logger, requests)
	}

	return result, nil
}
