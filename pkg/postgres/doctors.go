package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ashwinpillai/duty-roster/pkg/db"
)

// GetDoctorsByDepartment retrieves all doctors of a department, ordered by
// name then ID for stable downstream rotation arithmetic. An empty
// department matches all departments.
func (d *DB) GetDoctorsByDepartment(ctx context.Context, department string) ([]db.Doctor, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, name, email, specialization, duties, allowed_duties
		FROM doctor
		WHERE ($1 = '' OR specialization = $1)
		ORDER BY name, id
	`, department)
	if err != nil {
		return nil, fmt.Errorf("failed to query doctors: %w", err)
	}
	defer rows.Close()

	var doctors []db.Doctor
	for rows.Next() {
		doc, err := scanDoctor(rows)
		if err != nil {
			return nil, err
		}
		doctors = append(doctors, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating doctors: %w", err)
	}

	return doctors, nil
}

// GetDoctor retrieves a single doctor by ID. An unknown ID is an error.
func (d *DB) GetDoctor(ctx context.Context, id string) (*db.Doctor, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, name, email, specialization, duties, allowed_duties
		FROM doctor
		WHERE id = $1
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query doctor: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("error reading doctor: %w", err)
		}
		return nil, fmt.Errorf("doctor %s not found", id)
	}

	doc, err := scanDoctor(rows)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func scanDoctor(rows pgx.Rows) (db.Doctor, error) {
	var doc db.Doctor
	if err := rows.Scan(&doc.ID, &doc.Name, &doc.Email, &doc.Specialization, &doc.Duties, &doc.AllowedDuties); err != nil {
		return db.Doctor{}, fmt.Errorf("failed to scan doctor: %w", err)
	}
	return doc, nil
}
