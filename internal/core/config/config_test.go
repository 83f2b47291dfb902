package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/taskstream/internal/core/scoring"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), "/data")
	require.NoError(t, err)

	assert.Equal(t, "/data", cfg.DataDir)
	assert.Equal(t, DefaultShiftName, cfg.DefaultShift)
	assert.Equal(t, scoring.PolicyPenalty, cfg.Scoring.Policy)
	assert.Equal(t, 0.20, cfg.Reminders.LeadFraction)
	assert.Equal(t, time.Minute, cfg.Reminders.SweepInterval)
}

func TestLoad_FromFile(t *testing.T) {
	content := `
shifts:
  "2nd shift":
    start: "14:00"
    end: "22:00"
    lunch_start: "18:00"
    lunch_end: "18:30"
default_shift: "2nd shift"
employees:
  ada:
    email: ada@example.com
    shift: "2nd shift"
  grace:
    email: grace@example.com
scoring:
  policy: bonus
reminders:
  lead_fraction: 0.25
  sweep_interval: 1m
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path, "/data")
	require.NoError(t, err)

	assert.Equal(t, "2nd shift", cfg.DefaultShift)
	assert.Equal(t, "ada@example.com", cfg.EmailFor("ada"))
	assert.Equal(t, "bonus", cfg.Scoring.Policy)
	assert.Equal(t, 0.25, cfg.Reminders.LeadFraction)

	w, err := cfg.ShiftFor("ada")
	require.NoError(t, err)
	assert.Equal(t, "14:00", w.Start.String())
	assert.Equal(t, "22:00", w.End.String())
}

func TestLoad_InvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name: "default shift undefined",
			content: `
default_shift: "night shift"
`,
			wantErr: `shift "night shift" is not defined`,
		},
		{
			name: "employee references unknown shift",
			content: `
employees:
  ada:
    shift: "night shift"
`,
			wantErr: `shift "night shift" is not defined`,
		},
		{
			name: "unknown scoring policy",
			content: `
scoring:
  policy: grades
`,
			wantErr: "unknown scoring policy",
		},
		{
			name: "lead fraction out of range",
			content: `
reminders:
  lead_fraction: 1.5
  sweep_interval: 1m
`,
			wantErr: "lead_fraction",
		},
		{
			name: "shift window reversed",
			content: `
shifts:
  "1st shift":
    start: "18:00"
    end: "09:00"
    lunch_start: "13:00"
    lunch_end: "14:00"
`,
			wantErr: "must be after shift start",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			_, err := Load(path, "/data")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_ShiftFor(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Shifts["2nd shift"] = cfg.Shifts[DefaultShiftName]
	cfg.Employees["ada"] = Employee{Shift: "2nd shift"}
	cfg.Employees["grace"] = Employee{} // no assignment

	// Assigned shift wins.
	_, err := cfg.ShiftFor("ada")
	require.NoError(t, err)

	// Unassigned and unknown identities fall back to the default shift.
	_, err = cfg.ShiftFor("grace")
	require.NoError(t, err)
	_, err = cfg.ShiftFor("unknown")
	require.NoError(t, err)

	// A dangling default is an error at resolution time.
	cfg.DefaultShift = "night shift"
	_, err = cfg.ShiftFor("unknown")
	assert.ErrorContains(t, err, "not configured")
}

func TestConfig_Strategy(t *testing.T) {
	cfg := DefaultConfig()
	s, err := cfg.Strategy()
	require.NoError(t, err)
	assert.IsType(t, scoring.PenaltyStrategy{}, s)
}
