package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ashwinpillai/duty-roster/internal/config"
	"github.com/ashwinpillai/duty-roster/pkg/db"
)

// mockGenerateStore implements GenerateStore for testing
type mockGenerateStore struct {
	duties    []db.Duty
	doctors   []db.Doctor
	leaves    []db.Leave
	overrides []db.ScheduleEntry

	replaced        []db.ScheduleEntry
	replacedWindow  [2]string
	getDutiesErr    error
	replaceErr      error
	replaceCalled   bool
	scheduleQueries int
}

func (m *mockGenerateStore) GetDutiesByDepartment(ctx context.Context, department string) ([]db.Duty, error) {
	if m.getDutiesErr != nil {
		return nil, m.getDutiesErr
	}
	return m.duties, nil
}

func (m *mockGenerateStore) GetDoctorsByDepartment(ctx context.Context, department string) ([]db.Doctor, error) {
	return m.doctors, nil
}

func (m *mockGenerateStore) GetLeavesOverlapping(ctx context.Context, department, start, end string) ([]db.Leave, error) {
	return m.leaves, nil
}

func (m *mockGenerateStore) GetOverrides(ctx context.Context, department, start, end string) ([]db.ScheduleEntry, error) {
	return m.overrides, nil
}

func (m *mockGenerateStore) GetScheduleByWindow(ctx context.Context, start, end, department string) ([]db.ScheduleEntry, error) {
	m.scheduleQueries++
	merged := append([]db.ScheduleEntry{}, m.overrides...)
	return append(merged, m.replaced...), nil
}

func (m *mockGenerateStore) ReplaceGeneratedWindow(ctx context.Context, department, start, end string, entries []db.ScheduleEntry) error {
	if m.replaceErr != nil {
		return m.replaceErr
	}
	m.replaceCalled = true
	m.replacedWindow = [2]string{start, end}
	m.replaced = entries
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		DatabaseURL:         "postgres://localhost/test",
		WindowLengthDays:    15,
		WindowAnchorWeekday: "Monday",
		RotationEpoch:       "2024-01-01",
		OTDutyName:          "ot",
	}
}

func medicineStore() *mockGenerateStore {
	return &mockGenerateStore{
		duties: []db.Duty{
			{ID: "d-opd", Name: "OPD", Department: "Medicine"},
			{ID: "d-ward", Name: "Ward", Department: "Medicine"},
		},
		doctors: []db.Doctor{
			{ID: "doc-a", Name: "Dr Ahmed", Email: "ahmed@example.com", Specialization: "Medicine"},
			{ID: "doc-b", Name: "Dr Bose", Email: "bose@example.com", Specialization: "Medicine"},
			{ID: "doc-c", Name: "Dr Carter", Email: "carter@example.com", Specialization: "Medicine"},
		},
	}
}

func TestGenerateSchedule(t *testing.T) {
	store := medicineStore()

	result, err := GenerateSchedule(context.Background(), store, testConfig(), zap.NewNop(), nil, GenerateParams{
		Department: "Medicine",
		AnchorDate: "2024-01-03",
	})
	require.NoError(t, err)

	assert.Equal(t, "2024-01-01", result.WindowStart, "window snaps back to the anchor weekday")
	assert.Equal(t, "2024-01-15", result.WindowEnd)
	assert.True(t, store.replaceCalled)
	assert.Equal(t, [2]string{"2024-01-01", "2024-01-15"}, store.replacedWindow)
	assert.Len(t, store.replaced, 30)
	assert.Len(t, result.Entries, 30, "the merged window is read back after persisting")
	assert.Empty(t, result.Warnings)

	for _, entry := range store.replaced {
		assert.True(t, entry.IsGenerated)
		assert.NotEmpty(t, entry.ID)
		assert.Equal(t, "2024-01-01", entry.WindowStart)
		assert.Equal(t, "Medicine", entry.Department)
	}
}

func TestGenerateScheduleDryRun(t *testing.T) {
	store := medicineStore()

	result, err := GenerateSchedule(context.Background(), store, testConfig(), zap.NewNop(), nil, GenerateParams{
		Department: "Medicine",
		AnchorDate: "2024-01-01",
		DryRun:     true,
	})
	require.NoError(t, err)

	assert.False(t, store.replaceCalled)
	assert.Zero(t, store.scheduleQueries)
	assert.Len(t, result.Entries, 30, "dry run still reports what would be written")
}

func TestGenerateScheduleHonoursOverrides(t *testing.T) {
	store := medicineStore()
	store.overrides = []db.ScheduleEntry{{
		ID:         "ov-1",
		Date:       "2024-01-01",
		DutyID:     "d-opd",
		DoctorID:   "doc-b",
		Department: "Medicine",
		IsOverride: true,
	}}

	_, err := GenerateSchedule(context.Background(), store, testConfig(), zap.NewNop(), nil, GenerateParams{
		Department: "Medicine",
		AnchorDate: "2024-01-01",
	})
	require.NoError(t, err)

	assert.Len(t, store.replaced, 29, "the overridden slot is not regenerated")
	for _, entry := range store.replaced {
		assert.False(t, entry.Date == "2024-01-01" && entry.DutyID == "d-opd")
	}
}

func TestGenerateScheduleStandingOverrides(t *testing.T) {
	store := medicineStore()
	store.duties = store.duties[:1] // OPD only

	cfg := testConfig()
	cfg.StandingOverrides = []config.StandingOverride{{
		RRule:      "FREQ=WEEKLY;BYDAY=MO",
		Department: "Medicine",
		DutyName:   "OPD",
		DoctorID:   "doc-c",
	}}

	_, err := GenerateSchedule(context.Background(), store, cfg, zap.NewNop(), nil, GenerateParams{
		Department: "Medicine",
		AnchorDate: "2024-01-01",
	})
	require.NoError(t, err)

	var pinned []db.ScheduleEntry
	for _, entry := range store.replaced {
		if entry.OverrideNote == "standing override" {
			pinned = append(pinned, entry)
		}
	}

	require.Len(t, pinned, 3, "three Mondays fall in the window")
	dates := map[string]bool{}
	for _, entry := range pinned {
		assert.Equal(t, "doc-c", entry.DoctorID)
		assert.Equal(t, "d-opd", entry.DutyID)
		dates[entry.Date] = true
	}
	assert.Equal(t, map[string]bool{"2024-01-01": true, "2024-01-08": true, "2024-01-15": true}, dates)

	assert.Len(t, store.replaced, 15, "every day of the window is covered")
}

func TestGenerateScheduleErrors(t *testing.T) {
	_, err := GenerateSchedule(context.Background(), medicineStore(), testConfig(), zap.NewNop(), nil, GenerateParams{
		AnchorDate: "2024-01-01",
	})
	assert.ErrorContains(t, err, "department is required")

	_, err = GenerateSchedule(context.Background(), medicineStore(), testConfig(), zap.NewNop(), nil, GenerateParams{
		Department: "Medicine",
		AnchorDate: "not-a-date",
	})
	assert.ErrorContains(t, err, "invalid date")

	store := medicineStore()
	store.duties = nil
	_, err = GenerateSchedule(context.Background(), store, testConfig(), zap.NewNop(), nil, GenerateParams{
		Department: "Medicine",
		AnchorDate: "2024-01-01",
	})
	assert.ErrorContains(t, err, "no duties configured")

	store = medicineStore()
	store.getDutiesErr = errors.New("connection refused")
	_, err = GenerateSchedule(context.Background(), store, testConfig(), zap.NewNop(), nil, GenerateParams{
		Department: "Medicine",
		AnchorDate: "2024-01-01",
	})
	assert.ErrorContains(t, err, "failed to get duties")
}
