package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ashwinpillai/duty-roster/pkg/db"
)

// mockLeaveStore implements LeaveStore for testing
type mockLeaveStore struct {
	doctors  map[string]db.Doctor
	inserted []db.Leave
}

func (m *mockLeaveStore) GetDoctor(ctx context.Context, id string) (*db.Doctor, error) {
	if doc, ok := m.doctors[id]; ok {
		return &doc, nil
	}
	return nil, fmt.Errorf("doctor %s not found", id)
}

func (m *mockLeaveStore) InsertLeave(ctx context.Context, leave *db.Leave) error {
	m.inserted = append(m.inserted, *leave)
	return nil
}

func leaveStore() *mockLeaveStore {
	return &mockLeaveStore{doctors: map[string]db.Doctor{
		"doc-a": {ID: "doc-a", Name: "Dr Ahmed"},
		"doc-b": {ID: "doc-b", Name: "Dr Bose"},
	}}
}

func TestAddLeave(t *testing.T) {
	store := leaveStore()

	leave, err := AddLeave(context.Background(), store, zap.NewNop(), LeaveParams{
		DoctorID:  "doc-a",
		StartDate: "2024-01-03",
		EndDate:   "2024-01-05",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, leave.ID)
	assert.Equal(t, "doc-a", leave.DoctorID)
	require.Len(t, store.inserted, 1)
	assert.Equal(t, *leave, store.inserted[0])
}

func TestAddLeaveSingleDay(t *testing.T) {
	leave, err := AddLeave(context.Background(), leaveStore(), zap.NewNop(), LeaveParams{
		DoctorID:  "doc-a",
		StartDate: "2024-01-03",
		EndDate:   "2024-01-03",
	})
	require.NoError(t, err)
	assert.Equal(t, leave.StartDate, leave.EndDate)
}

func TestAddLeaveWithSubstitute(t *testing.T) {
	leave, err := AddLeave(context.Background(), leaveStore(), zap.NewNop(), LeaveParams{
		DoctorID:     "doc-a",
		StartDate:    "2024-01-03",
		EndDate:      "2024-01-05",
		SubstituteID: "doc-b",
	})
	require.NoError(t, err)
	assert.Equal(t, "doc-b", leave.SubstituteID)
}

func TestAddLeaveValidation(t *testing.T) {
	store := leaveStore()

	_, err := AddLeave(context.Background(), store, zap.NewNop(), LeaveParams{
		DoctorID:  "doc-a",
		StartDate: "2024-01-05",
		EndDate:   "2024-01-03",
	})
	assert.ErrorContains(t, err, "before start date")

	_, err = AddLeave(context.Background(), store, zap.NewNop(), LeaveParams{
		DoctorID:  "doc-x",
		StartDate: "2024-01-03",
		EndDate:   "2024-01-05",
	})
	assert.ErrorContains(t, err, "failed to get doctor")

	_, err = AddLeave(context.Background(), store, zap.NewNop(), LeaveParams{
		DoctorID:     "doc-a",
		StartDate:    "2024-01-03",
		EndDate:      "2024-01-05",
		SubstituteID: "doc-x",
	})
	assert.ErrorContains(t, err, "substitute")

	assert.Empty(t, store.inserted)
}
