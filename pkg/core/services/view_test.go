package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ashwinpillai/duty-roster/pkg/db"
)

// mockViewStore implements ViewStore for testing
type mockViewStore struct {
	entries []db.ScheduleEntry
	doctors []db.Doctor
	duties  []db.Duty

	scheduleDepartment string
	doctorsDepartment  string
	dutiesDepartment   string
}

func (m *mockViewStore) GetScheduleByWindow(ctx context.Context, start, end, department string) ([]db.ScheduleEntry, error) {
	m.scheduleDepartment = department
	var entries []db.ScheduleEntry
	for _, entry := range m.entries {
		if department == "" || entry.Department == department {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

func (m *mockViewStore) GetDoctorsByDepartment(ctx context.Context, department string) ([]db.Doctor, error) {
	m.doctorsDepartment = department
	var doctors []db.Doctor
	for _, doc := range m.doctors {
		if department == "" || doc.Specialization == department {
			doctors = append(doctors, doc)
		}
	}
	return doctors, nil
}

func (m *mockViewStore) GetDutiesByDepartment(ctx context.Context, department string) ([]db.Duty, error) {
	m.dutiesDepartment = department
	var duties []db.Duty
	for _, duty := range m.duties {
		if department == "" || duty.Department == department {
			duties = append(duties, duty)
		}
	}
	return duties, nil
}

func viewStore() *mockViewStore {
	return &mockViewStore{
		entries: []db.ScheduleEntry{
			{ID: "e-1", Date: "2024-01-01", Department: "Medicine", DutyID: "d-opd", DoctorID: "doc-a", IsGenerated: true},
			{ID: "e-2", Date: "2024-01-01", Department: "Surgery", DutyID: "d-ot", DoctorID: "doc-s", IsGenerated: true},
		},
		doctors: []db.Doctor{
			{ID: "doc-a", Name: "Dr Ahmed", Specialization: "Medicine"},
			{ID: "doc-s", Name: "Dr Singh", Specialization: "Surgery"},
		},
		duties: []db.Duty{
			{ID: "d-opd", Name: "OPD", Department: "Medicine"},
			{ID: "d-ot", Name: "OT", Department: "Surgery"},
		},
	}
}

func TestViewSchedule(t *testing.T) {
	store := viewStore()

	result, err := ViewSchedule(context.Background(), store, testConfig(), zap.NewNop(), "2024-01-03", "Medicine")
	require.NoError(t, err)

	assert.Equal(t, "2024-01-01", result.WindowStart)
	assert.Equal(t, "2024-01-15", result.WindowEnd)
	require.Len(t, result.Entries, 1)
	assert.Equal(t, "e-1", result.Entries[0].ID)
	assert.Equal(t, "Medicine", store.scheduleDepartment)
}

func TestViewScheduleAllDepartments(t *testing.T) {
	store := viewStore()

	result, err := ViewSchedule(context.Background(), store, testConfig(), zap.NewNop(), "2024-01-03", "")
	require.NoError(t, err)

	assert.Len(t, result.Entries, 2, "no department filter lists every department")
	assert.Empty(t, store.scheduleDepartment)
	assert.Len(t, result.Doctors, 2, "name resolution still covers all listed doctors")
	assert.Len(t, result.Duties, 2)
}

func TestViewScheduleBadDate(t *testing.T) {
	_, err := ViewSchedule(context.Background(), viewStore(), testConfig(), zap.NewNop(), "tomorrow", "Medicine")
	assert.ErrorContains(t, err, "invalid date")
}
