package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ashwinpillai/duty-roster/pkg/db"
)

// LeaveStore is the persistence surface the leave service needs.
type LeaveStore interface {
	GetDoctor(ctx context.Context, id string) (*db.Doctor, error)
	InsertLeave(ctx context.Context, leave *db.Leave) error
}

// LeaveParams is one leave request. Dates are inclusive at both ends.
// SubstituteID optionally names a preferred stand-in for the record; the
// scheduler still runs its own backup search.
type LeaveParams struct {
	DoctorID     string
	StartDate    string
	EndDate      string
	SubstituteID string
}

// AddLeave records an approved absence. The schedule is not regenerated
// here; run a generation afterwards to reflect the leave.
func AddLeave(ctx context.Context, store LeaveStore, logger *zap.Logger, params LeaveParams) (*db.Leave, error) {
	if params.DoctorID == "" {
		return nil, fmt.Errorf("doctor is required")
	}

	start, err := parseDate(params.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate(params.EndDate)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, fmt.Errorf("leave end date %s is before start date %s", params.EndDate, params.StartDate)
	}

	doctor, err := store.GetDoctor(ctx, params.DoctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get doctor %s: %w", params.DoctorID, err)
	}

	if params.SubstituteID != "" {
		if _, err := store.GetDoctor(ctx, params.SubstituteID); err != nil {
			return nil, fmt.Errorf("failed to get substitute doctor %s: %w", params.SubstituteID, err)
		}
	}

	leave := db.Leave{
		ID:           uuid.New().String(),
		DoctorID:     params.DoctorID,
		StartDate:    params.StartDate,
		EndDate:      params.EndDate,
		SubstituteID: params.SubstituteID,
	}

	logger.Info("Recording leave",
		zap.String("doctor", doctor.Name),
		zap.String("start", params.StartDate),
		zap.String("end", params.EndDate))

	if err := store.InsertLeave(ctx, &leave); err != nil {
		return nil, fmt.Errorf("failed to store leave: %w", err)
	}

	return &leave, nil
}
