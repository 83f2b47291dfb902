package config

import (
	"fmt"

	"github.com/hay-kot/criterio"

	"github.com/colonyops/taskstream/internal/core/scoring"
)

// Validate performs structural validation of the configuration. Shift window
// checks are load-bearing: a malformed window would hang the projection loop,
// so it must never reach the engine.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		c.validateShifts(),
		c.validateEmployees(),
		c.validateScoring(),
		c.validateReminders(),
	)
}

func (c *Config) validateShifts() error {
	var errs criterio.FieldErrorsBuilder

	if len(c.Shifts) == 0 {
		errs = errs.Append("shifts", fmt.Errorf("at least one shift is required"))
	}

	for name, w := range c.Shifts {
		if err := w.Validate(); err != nil {
			errs = errs.Append(fmt.Sprintf("shifts[%q]", name), err)
		}
	}

	if _, ok := c.Shifts[c.DefaultShift]; !ok {
		errs = errs.Append("default_shift", fmt.Errorf("shift %q is not defined", c.DefaultShift))
	}

	return errs.ToError()
}

func (c *Config) validateEmployees() error {
	var errs criterio.FieldErrorsBuilder

	for identity, emp := range c.Employees {
		if emp.Shift == "" {
			continue
		}
		if _, ok := c.Shifts[emp.Shift]; !ok {
			errs = errs.Append(fmt.Sprintf("employees[%q].shift", identity), fmt.Errorf("shift %q is not defined", emp.Shift))
		}
	}

	return errs.ToError()
}

func (c *Config) validateScoring() error {
	var errs criterio.FieldErrorsBuilder

	if _, err := scoring.ForPolicy(c.Scoring.Policy); err != nil {
		errs = errs.Append("scoring.policy", err)
	}

	p := c.Scoring.Penalties
	for field, v := range map[string]float64{
		"scoring.penalties.per_minute":         p.PerMinute,
		"scoring.penalties.points_per_day":     p.PointsPerDay,
		"scoring.penalties.max_delay_penalty":  p.MaxDelayPenalty,
		"scoring.penalties.max_rework_penalty": p.MaxReworkPenalty,
	} {
		if v < 0 {
			errs = errs.Append(field, fmt.Errorf("must not be negative, got %v", v))
		}
	}

	return errs.ToError()
}

func (c *Config) validateReminders() error {
	var errs criterio.FieldErrorsBuilder

	if c.Reminders.LeadFraction <= 0 || c.Reminders.LeadFraction > 1 {
		errs = errs.Append("reminders.lead_fraction", fmt.Errorf("must be in (0, 1], got %v", c.Reminders.LeadFraction))
	}
	if c.Reminders.SweepInterval <= 0 {
		errs = errs.Append("reminders.sweep_interval", fmt.Errorf("must be positive, got %v", c.Reminders.SweepInterval))
	}

	return errs.ToError()
}
