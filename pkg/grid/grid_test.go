package grid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashwinpillai/duty-roster/pkg/db"
)

func testDays() []time.Time {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	days := make([]time.Time, 3)
	for i := range days {
		days[i] = start.AddDate(0, 0, i)
	}
	return days
}

func TestBuild(t *testing.T) {
	days := testDays()
	duties := []db.Duty{
		{ID: "d-ward", Name: "Ward", Department: "Medicine"},
		{ID: "d-opd", Name: "OPD", Department: "Medicine"},
	}
	doctors := []db.Doctor{
		{ID: "doc-a", Name: "Dr Ahmed"},
		{ID: "doc-b", Name: "Dr Bose"},
	}
	entries := []db.ScheduleEntry{
		{Date: "2024-01-01", DutyID: "d-opd", DoctorID: "doc-a"},
		{Date: "2024-01-01", DutyID: "d-ward", DoctorID: "doc-b", IsOverride: true},
		{Date: "2024-01-02", DutyID: "d-opd", DoctorID: "doc-a", ProxyDoctorID: "doc-b", ProxyUsed: true},
		{Date: "2024-01-02", DutyID: "d-ward", DoctorID: "doc-unknown"},
		{Date: "2024-02-28", DutyID: "d-opd", DoctorID: "doc-a"},
	}

	g := Build(entries, duties, doctors, days)

	assert.Equal(t, days[0], g.Start)
	assert.Equal(t, days[2], g.End)
	require.Len(t, g.Duties, 2)
	assert.Equal(t, "OPD", g.Duties[0].Name, "duties are ordered by name")

	cells := g.Cells(days[0], "d-opd")
	require.Len(t, cells, 1)
	assert.Equal(t, "Dr Ahmed", cells[0].DoctorName)
	assert.False(t, cells[0].Override)

	cells = g.Cells(days[0], "d-ward")
	require.Len(t, cells, 1)
	assert.True(t, cells[0].Override)

	cells = g.Cells(days[1], "d-opd")
	require.Len(t, cells, 1)
	assert.True(t, cells[0].ProxyUsed)
	assert.Equal(t, "Dr Bose", cells[0].ProxyName)

	cells = g.Cells(days[1], "d-ward")
	require.Len(t, cells, 1)
	assert.Equal(t, "doc-unknown", cells[0].DoctorName, "unknown doctors fall back to the raw ID")

	assert.Empty(t, g.Cells(days[2], "d-opd"), "empty slots stay empty")

	outOfWindow := time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC)
	assert.Empty(t, g.Cells(outOfWindow, "d-opd"), "entries outside the window are dropped")
}

func TestBuildProxyWithoutDoctor(t *testing.T) {
	days := testDays()
	entries := []db.ScheduleEntry{
		{Date: "2024-01-01", DutyID: "d-opd", DoctorID: "doc-a", ProxyUsed: true},
	}

	g := Build(entries, []db.Duty{{ID: "d-opd", Name: "OPD"}}, nil, days)

	cells := g.Cells(days[0], "d-opd")
	require.Len(t, cells, 1)
	assert.Equal(t, "TBD", cells[0].ProxyName, "a needed but unfilled proxy renders as TBD")
}
