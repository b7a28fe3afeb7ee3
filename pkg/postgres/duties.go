package postgres

import (
	"context"
	"fmt"

	"github.com/ashwinpillai/duty-roster/pkg/db"
)

// GetDutiesByDepartment retrieves all duties of a department in stable
// name order. An empty department matches all departments.
func (d *DB) GetDutiesByDepartment(ctx context.Context, department string) ([]db.Duty, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, name, department
		FROM duty
		WHERE ($1 = '' OR department = $1)
		ORDER BY name, id
	`, department)
	if err != nil {
		return nil, fmt.Errorf("failed to query duties: %w", err)
	}
	defer rows.Close()

	var duties []db.Duty
	for rows.Next() {
		var duty db.Duty
		if err := rows.Scan(&duty.ID, &duty.Name, &duty.Department); err != nil {
			return nil, fmt.Errorf("failed to scan duty: %w", err)
		}
		duties = append(duties, duty)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating duties: %w", err)
	}

	return duties, nil
}
