package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ashwinpillai/duty-roster/pkg/db"
)

const scheduleColumns = `
	s.id, s.date, s.window_start, s.department, s.duty_id, s.doctor_id,
	s.proxy_doctor_id, s.proxy_used, s.is_generated, s.is_sent,
	s.is_override, s.override_by, s.override_note`

// GetOverrides retrieves the override entries of a department intersecting
// the [start, end] window.
func (d *DB) GetOverrides(ctx context.Context, department, start, end string) ([]db.ScheduleEntry, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT `+scheduleColumns+`
		FROM schedule s
		WHERE s.department = $1
		  AND s.date BETWEEN $2::date AND $3::date
		  AND s.is_override = TRUE
		ORDER BY s.date, s.duty_id
	`, department, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query overrides: %w", err)
	}
	defer rows.Close()

	return collectEntries(rows)
}

// GetScheduleByWindow retrieves all schedule entries (generated and
// override) in the [start, end] window, ordered by day then duty.
// An empty department matches all departments.
func (d *DB) GetScheduleByWindow(ctx context.Context, start, end, department string) ([]db.ScheduleEntry, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT `+scheduleColumns+`
		FROM schedule s
		JOIN duty du ON du.id = s.duty_id
		WHERE s.date BETWEEN $1::date AND $2::date
		  AND ($3 = '' OR s.department = $3)
		ORDER BY s.date, du.name, s.duty_id
	`, start, end, department)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedule window: %w", err)
	}
	defer rows.Close()

	return collectEntries(rows)
}

// ReplaceGeneratedWindow atomically replaces the non-override entries of a
// (department, window) pair with the given set. Overrides are untouched.
// Runs in one transaction so readers never observe a half-written window.
func (d *DB) ReplaceGeneratedWindow(ctx context.Context, department, start, end string, entries []db.ScheduleEntry) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		DELETE FROM schedule
		WHERE department = $1
		  AND date BETWEEN $2::date AND $3::date
		  AND is_override = FALSE
	`, department, start, end)
	if err != nil {
		return fmt.Errorf("failed to delete generated entries: %w", err)
	}

	for _, e := range entries {
		if err := insertEntry(ctx, tx, e); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// UpsertOverride inserts or replaces the entry occupying the override's
// (department, date, duty) slot.
func (d *DB) UpsertOverride(ctx context.Context, entry *db.ScheduleEntry) error {
	proxyID := nullable(entry.ProxyDoctorID)
	overrideBy := nullable(entry.OverrideBy)
	overrideNote := nullable(entry.OverrideNote)

	_, err := d.pool.Exec(ctx, `
		INSERT INTO schedule (
			id, date, window_start, department, duty_id, doctor_id,
			proxy_doctor_id, proxy_used, is_generated, is_sent,
			is_override, override_by, override_note
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (department, date, duty_id) DO UPDATE SET
			doctor_id = EXCLUDED.doctor_id,
			proxy_doctor_id = EXCLUDED.proxy_doctor_id,
			proxy_used = EXCLUDED.proxy_used,
			is_generated = EXCLUDED.is_generated,
			is_sent = EXCLUDED.is_sent,
			is_override = EXCLUDED.is_override,
			override_by = EXCLUDED.override_by,
			override_note = EXCLUDED.override_note
	`, entry.ID, entry.Date, nullable(entry.WindowStart), entry.Department,
		entry.DutyID, entry.DoctorID, proxyID, entry.ProxyUsed,
		entry.IsGenerated, entry.IsSent, entry.IsOverride, overrideBy, overrideNote)
	if err != nil {
		return fmt.Errorf("failed to upsert override: %w", err)
	}

	return nil
}

// MarkEntriesSent flags the given schedule entries as sent.
func (d *DB) MarkEntriesSent(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	_, err := d.pool.Exec(ctx, `
		UPDATE schedule SET is_sent = TRUE WHERE id = ANY($1)
	`, ids)
	if err != nil {
		return fmt.Errorf("failed to mark entries sent: %w", err)
	}
	return nil
}

func insertEntry(ctx context.Context, tx pgx.Tx, e db.ScheduleEntry) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO schedule (
			id, date, window_start, department, duty_id, doctor_id,
			proxy_doctor_id, proxy_used, is_generated, is_sent,
			is_override, override_by, override_note
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, e.ID, e.Date, nullable(e.WindowStart), e.Department, e.DutyID,
		e.DoctorID, nullable(e.ProxyDoctorID), e.ProxyUsed, e.IsGenerated,
		e.IsSent, e.IsOverride, nullable(e.OverrideBy), nullable(e.OverrideNote))
	if err != nil {
		return fmt.Errorf("failed to insert schedule entry: %w", err)
	}
	return nil
}

func collectEntries(rows pgx.Rows) ([]db.ScheduleEntry, error) {
	var entries []db.ScheduleEntry
	for rows.Next() {
		var e db.ScheduleEntry
		var date time.Time
		var windowStart *time.Time
		var proxyID, overrideBy, overrideNote *string
		if err := rows.Scan(&e.ID, &date, &windowStart, &e.Department,
			&e.DutyID, &e.DoctorID, &proxyID, &e.ProxyUsed, &e.IsGenerated,
			&e.IsSent, &e.IsOverride, &overrideBy, &overrideNote); err != nil {
			return nil, fmt.Errorf("failed to scan schedule entry: %w", err)
		}
		e.Date = date.Format("2006-01-02")
		if windowStart != nil {
			e.WindowStart = windowStart.Format("2006-01-02")
		}
		if proxyID != nil {
			e.ProxyDoctorID = *proxyID
		}
		if overrideBy != nil {
			e.OverrideBy = *overrideBy
		}
		if overrideNote != nil {
			e.OverrideNote = *overrideNote
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating schedule entries: %w", err)
	}

	return entries, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
