// Package config handles configuration loading and validation for taskstream.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/colonyops/taskstream/internal/core/scoring"
	"github.com/colonyops/taskstream/internal/core/shift"
)

// DefaultShiftName is used when an employee has no shift assignment.
const DefaultShiftName = "1st shift"

// Config holds the application configuration.
type Config struct {
	Shifts       map[string]shift.Window `yaml:"shifts"`
	DefaultShift string                  `yaml:"default_shift"`
	Employees    map[string]Employee     `yaml:"employees"`
	Scoring      Scoring                 `yaml:"scoring"`
	Reminders    Reminders               `yaml:"reminders"`
	DataDir      string                  `yaml:"-"` // set by caller, not from config file
}

// Employee maps an identity to contact info and a shift assignment.
type Employee struct {
	Email string `yaml:"email"`
	Shift string `yaml:"shift"` // empty = default shift
}

// Scoring selects the score policy and its penalty rates.
type Scoring struct {
	Policy    string            `yaml:"policy"` // "penalty" or "bonus"
	Penalties scoring.Penalties `yaml:"penalties"`
}

// Reminders configures reminder derivation and the sweep cadence.
type Reminders struct {
	// LeadFraction is the share of the estimated duration used to place
	// the remaining-time reminder before the planned end.
	LeadFraction float64 `yaml:"lead_fraction"`
	// SweepInterval is how often the reminder sweeps run. Reminder matching
	// is exact-minute, so anything coarser than a minute will skip sends.
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Shifts: map[string]shift.Window{
			DefaultShiftName: {
				Start:      9 * 60,
				End:        18 * 60,
				LunchStart: 13 * 60,
				LunchEnd:   14 * 60,
			},
		},
		DefaultShift: DefaultShiftName,
		Employees:    map[string]Employee{},
		Scoring: Scoring{
			Policy: scoring.PolicyPenalty,
			Penalties: scoring.Penalties{
				PerMinute:        1,
				PointsPerDay:     100,
				MaxDelayPenalty:  1000,
				MaxReworkPenalty: 1500,
			},
		},
		Reminders: Reminders{
			LeadFraction:  0.20,
			SweepInterval: time.Minute,
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided
// dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ShiftFor resolves the shift window for an assignee, falling back to the
// default shift when the employee has no assignment or is unknown.
func (c *Config) ShiftFor(assignee string) (shift.Window, error) {
	name := c.DefaultShift
	if emp, ok := c.Employees[assignee]; ok && emp.Shift != "" {
		name = emp.Shift
	}

	w, ok := c.Shifts[name]
	if !ok {
		return shift.Window{}, fmt.Errorf("shift %q is not configured", name)
	}
	return w, nil
}

// EmailFor returns the configured email for an identity, or empty if unknown.
func (c *Config) EmailFor(identity string) string {
	return c.Employees[identity].Email
}

// Strategy returns the configured scoring strategy.
func (c *Config) Strategy() (scoring.Strategy, error) {
	return scoring.ForPolicy(c.Scoring.Policy)
}
