package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_ValidConfig(t *testing.T) {
	cfg := &Config{
		DatabaseURL:         "postgres://localhost/duty_roster",
		WindowLengthDays:    15,
		WindowAnchorWeekday: "Monday",
		RotationEpoch:       "2024-01-01",
		OTDutyName:          "ot",
		GmailUserID:         "user@example.com",
		GmailSender:         "sender@example.com",
		StandingOverrides: []StandingOverride{
			{
				RRule:      "FREQ=WEEKLY;BYDAY=SU",
				Department: "Medicine",
				DutyName:   "OPD",
				DoctorID:   "doc-a",
			},
		},
	}

	err := Validate(cfg)
	assert.NoError(t, err)
}

func TestValidate_MinimalConfig(t *testing.T) {
	cfg := &Config{
		DatabaseURL: "postgres://localhost/duty_roster",
	}

	err := Validate(cfg)
	assert.NoError(t, err)
}

func TestValidate_MissingDatabaseURL(t *testing.T) {
	cfg := &Config{}

	err := Validate(cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "DatabaseURL")
}

func TestValidate_BadAnchorWeekday(t *testing.T) {
	cfg := &Config{
		DatabaseURL:         "postgres://localhost/duty_roster",
		WindowAnchorWeekday: "Someday",
	}

	err := Validate(cfg)
	assert.Error(t, err)
}

func TestValidate_BadRRule(t *testing.T) {
	cfg := &Config{
		DatabaseURL: "postgres://localhost/duty_roster",
		StandingOverrides: []StandingOverride{
			{
				RRule:      "FREQ=SOMETIMES",
				Department: "Medicine",
				DutyName:   "OPD",
				DoctorID:   "doc-a",
			},
		},
	}

	err := Validate(cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "rrule")
}

func TestValidate_IncompleteStandingOverride(t *testing.T) {
	cfg := &Config{
		DatabaseURL: "postgres://localhost/duty_roster",
		StandingOverrides: []StandingOverride{
			{RRule: "FREQ=WEEKLY;BYDAY=SU", Department: "Medicine"},
		},
	}

	err := Validate(cfg)
	assert.Error(t, err)
}

func TestLoadFromPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "duty_roster_config.yaml")

	content := `databaseURL: postgres://localhost/duty_roster
windowLength: 10
windowAnchorWeekday: Sunday
rotationEpoch: "2024-01-07"
otDutyName: theatre
standingOverrides:
  - rrule: FREQ=WEEKLY;BYDAY=MO
    department: Medicine
    dutyName: OPD
    doctorID: doc-a
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.WindowLengthDays)
	assert.Equal(t, time.Sunday, cfg.AnchorWeekday())
	assert.Equal(t, time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC), cfg.Epoch())
	assert.Equal(t, "theatre", cfg.OTDutyName)
	require.Len(t, cfg.StandingOverrides, 1)
}

func TestLoadFromPathDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "duty_roster_config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("databaseURL: postgres://localhost/duty_roster\n"), 0o600))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, 15, cfg.WindowLengthDays)
	assert.Equal(t, time.Monday, cfg.AnchorWeekday())
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), cfg.Epoch())
	assert.Equal(t, "ot", cfg.OTDutyName)
	assert.False(t, cfg.DisableDoubleDutyFallback)
}

func TestLoadFromPathMissingFile(t *testing.T) {
	_, err := LoadFromPath(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
