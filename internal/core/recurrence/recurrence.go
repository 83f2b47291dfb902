// Package recurrence expands a work item's recurrence specification into the
// full ordered sequence of future reminder instants.
package recurrence

import (
	"fmt"
	"slices"
	"time"

	"github.com/colonyops/taskstream/internal/core/workitem"
)

// Expand enumerates every reminder instant implied by the recurrence spec,
// bounded by the repeat-until date. Results are strictly increasing, strictly
// after now (the yearly walk also admits instants equal to now), and replace
// the prior reminder list wholesale.
//
// One-time items don't expand periodically; their single reminder is the
// planned end instant, which the service registers when work starts.
func Expand(rec workitem.Recurrence, now, until time.Time) ([]time.Time, error) {
	if rec == nil {
		return nil, nil
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	// Expansion works at hour granularity: reminders land on whole hours,
	// and an in-progress hour still counts as the present. Truncation is in
	// wall-clock terms so half-hour-offset zones keep whole local hours.
	now = time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), 0, 0, 0, now.Location())
	endDate := dateOf(until)

	var out []time.Time

	switch v := rec.(type) {
	case workitem.OneTime:
		return nil, nil
	case workitem.Daily:
		out = expandDaily(v, now, endDate)
	case workitem.Weekly:
		out = expandWeekly(v, now, endDate)
	case workitem.MonthlyByDate:
		out = expandMonthlyByDate(v, now, endDate)
	case workitem.MonthlyByDay:
		out = expandMonthlyByDay(v, now, endDate)
	case workitem.Yearly:
		out = expandYearly(v, now, endDate)
	default:
		return nil, fmt.Errorf("unknown recurrence type %T", rec)
	}

	slices.SortFunc(out, time.Time.Compare)
	out = slices.CompactFunc(out, time.Time.Equal)

	return out, nil
}

func expandDaily(spec workitem.Daily, now, endDate time.Time) []time.Time {
	var out []time.Time

	for day := dateOf(now); !day.After(endDate); day = day.AddDate(0, 0, 1) {
		out = append(out, hoursOnDay(day, spec.Hours, now, endDate, false)...)
	}

	return out
}

func expandWeekly(spec workitem.Weekly, now, endDate time.Time) []time.Time {
	var out []time.Time

	selected := map[time.Weekday]bool{}
	for _, wd := range spec.Weekdays {
		selected[wd] = true
	}

	day := dateOf(now)
	for !day.After(endDate) {
		if selected[day.Weekday()] {
			out = append(out, hoursOnDay(day, spec.Hours, now, endDate, false)...)
		}
		day = day.AddDate(0, 0, 1)
		// Each Monday closes a week; skip ahead so only every Nth week
		// is considered.
		if day.Weekday() == time.Monday {
			day = day.AddDate(0, 0, 7*(spec.Every-1))
		}
	}

	return out
}

func expandMonthlyByDate(spec workitem.MonthlyByDate, now, endDate time.Time) []time.Time {
	var out []time.Time

	month := dateOf(now)
	month = time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location())

	for !month.After(endDate) {
		last := daysInMonth(month.Year(), month.Month(), month.Location())
		for _, d := range spec.Days {
			day := d
			if day == workitem.LastDayOfMonth {
				day = last
			}
			if day > last {
				// No such date this month (e.g. day 31 in April).
				continue
			}
			date := time.Date(month.Year(), month.Month(), day, 0, 0, 0, 0, month.Location())
			out = append(out, hoursOnDay(date, spec.Hours, now, endDate, false)...)
		}
		month = month.AddDate(0, spec.Every, 0)
	}

	return out
}

func expandMonthlyByDay(spec workitem.MonthlyByDay, now, endDate time.Time) []time.Time {
	var out []time.Time

	start := dateOf(now)

	for _, occ := range spec.Occurrences {
		month := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, start.Location())
		for !month.After(endDate) {
			if day, ok := resolveOccurrence(occ, month.Year(), month.Month(), month.Location()); ok {
				out = append(out, hoursOnDay(day, spec.Hours, now, endDate, false)...)
			}
			month = month.AddDate(0, spec.Every, 0)
		}
	}

	return out
}

// resolveOccurrence finds the calendar day for an (weekday, week order) pair
// within the given month: scan forward up to 7 days from the week's anchor
// day, or backward from the month's last day for WeekLast.
func resolveOccurrence(occ workitem.Occurrence, year int, month time.Month, loc *time.Location) (time.Time, bool) {
	step := 1
	anchor, ok := occ.Week.AnchorDay()
	if !ok {
		anchor = daysInMonth(year, month, loc)
		step = -1
	}

	day := time.Date(year, month, anchor, 0, 0, 0, 0, loc)
	for range 7 {
		if day.Weekday() == occ.Weekday {
			return day, true
		}
		day = day.AddDate(0, 0, step)
	}
	return time.Time{}, false
}

func expandYearly(spec workitem.Yearly, now, endDate time.Time) []time.Time {
	var out []time.Time

	for year := now.Year(); year <= endDate.Year(); year += spec.Every {
		for _, m := range spec.Months {
			last := daysInMonth(year, m, now.Location())
			for _, d := range spec.Days {
				day := d
				if day == workitem.LastDayOfMonth {
					day = last
				}
				if day > last {
					// Day 31 in a 30-day month and similar nonsense
					// combinations are silently skipped.
					continue
				}
				date := time.Date(year, m, day, 0, 0, 0, 0, now.Location())
				out = append(out, hoursOnDay(date, spec.Hours, now, endDate, true)...)
			}
		}
	}

	return out
}

// hoursOnDay emits one instant per configured hour on the given day, filtered
// against the expansion window. inclusive admits instants equal to now.
func hoursOnDay(day time.Time, hours []int, now, endDate time.Time, inclusive bool) []time.Time {
	if day.After(endDate) {
		return nil
	}

	var out []time.Time
	for _, h := range hours {
		t := time.Date(day.Year(), day.Month(), day.Day(), h, 0, 0, 0, day.Location())
		if t.After(now) || (inclusive && t.Equal(now)) {
			out = append(out, t)
		}
	}
	return out
}

// dateOf truncates an instant to midnight of its calendar day.
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func daysInMonth(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}
