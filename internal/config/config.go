package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"
)

// StandingOverride pins a duty to a doctor on every day matching a
// recurrence rule (e.g. "every Monday the OPD duty goes to doctor X").
// Standing overrides are expanded into concrete override slots for each
// generated window; an explicit database override for the same slot wins.
type StandingOverride struct {
	RRule         string `yaml:"rrule" validate:"required"`
	Department    string `yaml:"department" validate:"required"`
	DutyName      string `yaml:"dutyName" validate:"required"`
	DoctorID      string `yaml:"doctorID" validate:"required"`
	ProxyDoctorID string `yaml:"proxyDoctorID,omitempty"`
	Note          string `yaml:"note,omitempty"`
}

// Config represents the application configuration
type Config struct {
	DatabaseURL string `yaml:"databaseURL" validate:"required"`

	// Rotation cadence policy. All optional; defaults below.
	WindowLengthDays    int    `yaml:"windowLength,omitempty" validate:"omitempty,min=1"`
	WindowAnchorWeekday string `yaml:"windowAnchorWeekday,omitempty" validate:"omitempty,oneof=Sunday Monday Tuesday Wednesday Thursday Friday Saturday"`
	RotationEpoch       string `yaml:"rotationEpoch,omitempty" validate:"omitempty,datetime=2006-01-02"`

	// OTDutyName is the duty name treated as the operating-theatre type
	// for the back-to-back rule. Matched case-insensitively.
	OTDutyName string `yaml:"otDutyName,omitempty"`

	// DisableDoubleDutyFallback turns off the relaxed backup search that
	// may double-book a doctor rather than leave a duty uncovered.
	DisableDoubleDutyFallback bool `yaml:"disableDoubleDutyFallback,omitempty"`

	StandingOverrides []StandingOverride `yaml:"standingOverrides,omitempty" validate:"dive"`

	GmailUserID string `yaml:"gmailUserID,omitempty"`
	GmailSender string `yaml:"gmailSender,omitempty"`
}

const (
	defaultWindowLength  = 15
	defaultAnchorWeekday = time.Monday
	defaultRotationEpoch = "2024-01-01" // a Monday
	defaultOTDutyName    = "ot"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from duty_roster_config.yaml
// It looks for the config file in the current directory first, then in the user's home directory
func Load() (*Config, error) {
	configPath, err := findConfigFile()
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()

	return &cfg, nil
}

// Validate validates the configuration struct and checks rrule syntax
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	for i, override := range cfg.StandingOverrides {
		if _, err := rrule.StrToRRule(override.RRule); err != nil {
			return fmt.Errorf("invalid rrule in standingOverrides[%d]: %w", i, err)
		}
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.WindowLengthDays == 0 {
		c.WindowLengthDays = defaultWindowLength
	}
	if c.WindowAnchorWeekday == "" {
		c.WindowAnchorWeekday = defaultAnchorWeekday.String()
	}
	if c.RotationEpoch == "" {
		c.RotationEpoch = defaultRotationEpoch
	}
	if c.OTDutyName == "" {
		c.OTDutyName = defaultOTDutyName
	}
}

// AnchorWeekday returns the configured window anchor as a time.Weekday.
func (c *Config) AnchorWeekday() time.Weekday {
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if strings.EqualFold(wd.String(), c.WindowAnchorWeekday) {
			return wd
		}
	}
	return defaultAnchorWeekday
}

// Epoch returns the configured rotation epoch. Validation guarantees the
// stored string parses.
func (c *Config) Epoch() time.Time {
	t, err := time.ParseInLocation("2006-01-02", c.RotationEpoch, time.UTC)
	if err != nil {
		t, _ = time.ParseInLocation("2006-01-02", defaultRotationEpoch, time.UTC)
	}
	return t
}

// findConfigFile searches for duty_roster_config.yaml in current directory and home directory
func findConfigFile() (string, error) {
	configFileName := "duty_roster_config.yaml"

	// Check current directory
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file not found in current directory or home directory")
}
