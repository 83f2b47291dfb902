// Package shift models daily shift windows and projects work durations
// across them.
package shift

import (
	"fmt"
	"time"
)

// Clock is a time-of-day with minute resolution, stored as minutes since
// midnight. The zero value is midnight.
type Clock int

// ParseClock parses a "15:04" formatted time-of-day.
func ParseClock(s string) (Clock, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("parse time of day %q: %w", s, err)
	}
	return Clock(t.Hour()*60 + t.Minute()), nil
}

// ClockFromDuration normalizes a duration-since-midnight into a time-of-day.
// Upstream systems commonly serialize shift boundaries this way.
func ClockFromDuration(d time.Duration) Clock {
	return Clock(int(d.Minutes()) % (24 * 60))
}

// String formats the clock as "15:04".
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// On anchors the time-of-day to the calendar day of the given instant.
func (c Clock) On(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), int(c)/60, int(c)%60, 0, 0, day.Location())
}

// MarshalYAML implements yaml.Marshaler.
func (c Clock) MarshalYAML() (any, error) {
	return c.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Clock) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseClock(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
