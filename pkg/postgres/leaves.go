package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/ashwinpillai/duty-roster/pkg/db"
)

// GetLeavesOverlapping retrieves all leaves of a department's doctors that
// intersect the [start, end] window. Dates use the 2006-01-02 format.
func (d *DB) GetLeavesOverlapping(ctx context.Context, department, start, end string) ([]db.Leave, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT l.id, l.doctor_id, l.start_date, l.end_date, l.substitute_id
		FROM leave l
		JOIN doctor doc ON doc.id = l.doctor_id
		WHERE doc.specialization = $1
		  AND l.start_date <= $3::date
		  AND l.end_date >= $2::date
		ORDER BY l.start_date, l.id
	`, department, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaves: %w", err)
	}
	defer rows.Close()

	var leaves []db.Leave
	for rows.Next() {
		var l db.Leave
		var startDate, endDate time.Time
		var substituteID *string
		if err := rows.Scan(&l.ID, &l.DoctorID, &startDate, &endDate, &substituteID); err != nil {
			return nil, fmt.Errorf("failed to scan leave: %w", err)
		}
		l.StartDate = startDate.Format("2006-01-02")
		l.EndDate = endDate.Format("2006-01-02")
		if substituteID != nil {
			l.SubstituteID = *substituteID
		}
		leaves = append(leaves, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating leaves: %w", err)
	}

	return leaves, nil
}

// InsertLeave inserts a new leave record.
func (d *DB) InsertLeave(ctx context.Context, leave *db.Leave) error {
	var substituteID *string
	if leave.SubstituteID != "" {
		substituteID = &leave.SubstituteID
	}

	_, err := d.pool.Exec(ctx, `
		INSERT INTO leave (id, doctor_id, start_date, end_date, substitute_id)
		VALUES ($1, $2, $3, $4, $5)
	`, leave.ID, leave.DoctorID, leave.StartDate, leave.EndDate, substituteID)
	if err != nil {
		return fmt.Errorf("failed to insert leave: %w", err)
	}
	return nil
}
