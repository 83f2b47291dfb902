package shift

import (
	"fmt"
	"time"
)

// Project simulates work being performed only during the shift window,
// starting at the given instant, and returns the instant at which the
// estimated hours are exhausted. Time outside the shift and inside the lunch
// break does not consume duration. The result is truncated to whole minutes.
//
// A non-positive duration returns start unchanged.
func (w Window) Project(start time.Time, hours float64) (time.Time, error) {
	if err := w.Validate(); err != nil {
		return time.Time{}, fmt.Errorf("invalid shift window: %w", err)
	}
	if hours <= 0 {
		return start, nil
	}

	cur := start
	remaining := hours

	for remaining > 0 {
		day := cur
		shiftStart := w.Start.On(day)
		shiftEnd := w.End.On(day)

		// Clamp forward to the day's shift start.
		if cur.Before(shiftStart) {
			cur = shiftStart
		}

		// Past today's shift: nothing left to consume, roll to tomorrow.
		if !cur.Before(shiftEnd) {
			cur = w.Start.On(day.AddDate(0, 0, 1))
			continue
		}

		lunchStart := w.LunchStart.On(day)
		lunchEnd := w.LunchEnd.On(day)

		// Morning segment: up to the earlier of lunch start and shift end.
		segEnd := lunchStart
		if shiftEnd.Before(segEnd) {
			segEnd = shiftEnd
		}
		if avail := segEnd.Sub(cur).Hours(); avail > 0 {
			used := min(remaining, avail)
			remaining -= used
			cur = cur.Add(hoursDuration(used))
			if remaining <= 0 {
				break
			}
		}

		// Landing inside lunch skips to its end.
		if !cur.Before(lunchStart) && cur.Before(lunchEnd) {
			cur = lunchEnd
		}

		// Afternoon segment: up to shift end.
		if avail := shiftEnd.Sub(cur).Hours(); avail > 0 {
			used := min(remaining, avail)
			remaining -= used
			cur = cur.Add(hoursDuration(used))
			if remaining <= 0 {
				break
			}
		}

		cur = w.Start.On(day.AddDate(0, 0, 1))
	}

	return cur.Truncate(time.Minute), nil
}

// ReminderAt derives the reminder instant a given fraction of the estimated
// duration before the projected completion, truncated to the minute.
func ReminderAt(planned time.Time, hours, fraction float64) time.Time {
	lead := hoursDuration(hours * fraction)
	return planned.Add(-lead).Truncate(time.Minute)
}

func hoursDuration(h float64) time.Duration {
	return time.Duration(h * float64(time.Hour))
}
