package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"github.com/ashwinpillai/duty-roster/internal/config"
	"github.com/ashwinpillai/duty-roster/pkg/core/roster"
	"github.com/ashwinpillai/duty-roster/pkg/db"
)

const dateLayout = "2006-01-02"

// calendarFromConfig builds the rotation calendar from the configured
// cadence policy.
func calendarFromConfig(cfg *config.Config) roster.Calendar {
	return roster.Calendar{
		WindowLength:  cfg.WindowLengthDays,
		AnchorWeekday: cfg.AnchorWeekday(),
		Epoch:         cfg.Epoch(),
	}
}

// parseDate parses a 2006-01-02 date string as a UTC calendar day.
func parseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// rosterDoctors converts doctor records to the engine's view. The
// preferred eligibility list is the explicit allowed_duties set when
// present, otherwise the broader duties list.
func rosterDoctors(doctors []db.Doctor) []roster.Doctor {
	result := make([]roster.Doctor, len(doctors))
	for i, doc := range doctors {
		preferred := doc.AllowedDuties
		if len(preferred) == 0 {
			preferred = doc.Duties
		}
		result[i] = roster.Doctor{
			ID:              doc.ID,
			Name:            doc.Name,
			Email:           doc.Email,
			PreferredDuties: preferred,
		}
	}
	return result
}

// rosterDuties converts duty records to the engine's view.
func rosterDuties(duties []db.Duty) []roster.Duty {
	result := make([]roster.Duty, len(duties))
	for i, duty := range duties {
		result[i] = roster.Duty{
			ID:         duty.ID,
			Name:       duty.Name,
			Department: duty.Department,
		}
	}
	return result
}

// rosterLeaves converts leave records to the engine's view. Records with
// unparseable dates are skipped with a warning; they cannot affect a
// window they cannot be placed in.
func rosterLeaves(leaves []db.Leave, logger *zap.Logger) []roster.Leave {
	result := make([]roster.Leave, 0, len(leaves))
	for _, leave := range leaves {
		start, err := parseDate(leave.StartDate)
		if err != nil {
			logger.Warn("Skipping leave with invalid start date",
				zap.String("leave_id", leave.ID), zap.Error(err))
			continue
		}
		end, err := parseDate(leave.EndDate)
		if err != nil {
			logger.Warn("Skipping leave with invalid end date",
				zap.String("leave_id", leave.ID), zap.Error(err))
			continue
		}
		result = append(result, roster.Leave{
			DoctorID: leave.DoctorID,
			Start:    start,
			End:      end,
		})
	}
	return result
}

// rosterOverrides converts persisted override entries to the engine's view.
func rosterOverrides(entries []db.ScheduleEntry, logger *zap.Logger) []roster.Override {
	result := make([]roster.Override, 0, len(entries))
	for _, entry := range entries {
		date, err := parseDate(entry.Date)
		if err != nil {
			logger.Warn("Skipping override with invalid date",
				zap.String("entry_id", entry.ID), zap.Error(err))
			continue
		}
		result = append(result, roster.Override{
			Date:          date,
			DutyID:        entry.DutyID,
			DoctorID:      entry.DoctorID,
			ProxyDoctorID: entry.ProxyDoctorID,
			ProxyUsed:     entry.ProxyUsed,
		})
	}
	return result
}

// expandStandingOverrides turns the config's recurrence-rule overrides
// into concrete slots for the window's days. Slots already overridden in
// the database are left alone: an explicit admin decision beats config.
func expandStandingOverrides(
	cfg *config.Config,
	department string,
	duties []db.Duty,
	days []time.Time,
	taken map[string]bool,
	logger *zap.Logger,
) ([]roster.Override, error) {
	if len(days) == 0 {
		return nil, nil
	}

	dutyByName := make(map[string]db.Duty, len(duties))
	for _, duty := range duties {
		dutyByName[strings.ToLower(duty.Name)] = duty
	}

	inWindow := make(map[string]time.Time, len(days))
	for _, day := range days {
		inWindow[roster.DateKey(day)] = day
	}

	// Search a window padded by a week on each side so rules anchored
	// just outside the window still produce their in-window occurrences.
	searchStart := days[0].AddDate(0, 0, -7)
	searchEnd := days[len(days)-1].AddDate(0, 0, 7)

	var expanded []roster.Override
	for i, so := range cfg.StandingOverrides {
		if !strings.EqualFold(so.Department, department) {
			continue
		}

		duty, ok := dutyByName[strings.ToLower(so.DutyName)]
		if !ok {
			logger.Warn("Standing override names unknown duty",
				zap.Int("index", i), zap.String("duty", so.DutyName))
			continue
		}

		rule, err := rrule.StrToRRule(so.RRule)
		if err != nil {
			return nil, fmt.Errorf("failed to parse rrule for standing override %d: %w", i, err)
		}
		rule.DTStart(searchStart)

		for _, occurrence := range rule.Between(searchStart, searchEnd, true) {
			key := occurrence.Format(dateLayout)
			day, ok := inWindow[key]
			if !ok {
				continue
			}
			if taken[key+"|"+duty.ID] {
				continue
			}
			taken[key+"|"+duty.ID] = true

			expanded = append(expanded, roster.Override{
				Date:          day,
				DutyID:        duty.ID,
				DoctorID:      so.DoctorID,
				ProxyDoctorID: so.ProxyDoctorID,
				ProxyUsed:     so.ProxyDoctorID != "",
			})
		}
	}

	return expanded, nil
}

// entriesFromAssignments converts engine output to schedule records.
func entriesFromAssignments(assignments []roster.Assignment, windowStart time.Time) []db.ScheduleEntry {
	entries := make([]db.ScheduleEntry, len(assignments))
	for i, a := range assignments {
		entries[i] = db.ScheduleEntry{
			ID:            uuid.New().String(),
			Date:          roster.DateKey(a.Date),
			WindowStart:   roster.DateKey(windowStart),
			Department:    a.Department,
			DutyID:        a.DutyID,
			DoctorID:      a.DoctorID,
			ProxyDoctorID: a.ProxyDoctorID,
			ProxyUsed:     a.ProxyUsed,
			IsGenerated:   true,
		}
	}
	return entries
}

// doctorsByID indexes doctor records for notification lookups.
func doctorsByID(doctors []db.Doctor) map[string]db.Doctor {
	byID := make(map[string]db.Doctor, len(doctors))
	for _, doc := range doctors {
		byID[doc.ID] = doc
	}
	return byID
}
