package roster

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testCalendar() Calendar {
	return Calendar{
		WindowLength:  15,
		AnchorWeekday: time.Monday,
		Epoch:         time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestWindowStart(t *testing.T) {
	cal := testCalendar()

	tests := []struct {
		name string
		date time.Time
		want time.Time
	}{
		{
			name: "monday maps to itself",
			date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			want: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "midweek maps back to monday",
			date: time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC),
			want: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "sunday maps back six days",
			date: time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC),
			want: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "time of day is stripped",
			date: time.Date(2024, 1, 3, 17, 45, 12, 0, time.UTC),
			want: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cal.WindowStart(tt.date)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, cal.WindowStart(got), "WindowStart should be idempotent")
		})
	}
}

func TestWindowEnd(t *testing.T) {
	cal := testCalendar()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	end := cal.WindowEnd(start)

	assert.Equal(t, 2024, end.Year())
	assert.Equal(t, time.January, end.Month())
	assert.Equal(t, 15, end.Day())
	assert.Equal(t, 23, end.Hour())
}

func TestWeekIndex(t *testing.T) {
	cal := testCalendar()

	assert.Equal(t, 0, cal.WeekIndex(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 0, cal.WeekIndex(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 1, cal.WeekIndex(time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 2, cal.WeekIndex(time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, -1, cal.WeekIndex(time.Date(2023, 12, 25, 0, 0, 0, 0, time.UTC)))
}

func TestDays(t *testing.T) {
	cal := testCalendar()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	days := cal.Days(start)

	assert.Len(t, days, 15)
	assert.Equal(t, start, days[0])
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), days[14])
	for i := 1; i < len(days); i++ {
		assert.Equal(t, days[i-1].AddDate(0, 0, 1), days[i])
	}
}

func TestDateKey(t *testing.T) {
	assert.Equal(t, "2024-01-05", DateKey(time.Date(2024, 1, 5, 22, 10, 0, 0, time.UTC)))
}
