package workitem

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hay-kot/criterio"
)

// RecurrenceType discriminates the recurrence variants.
type RecurrenceType string

const (
	RecurrenceOneTime RecurrenceType = "one_time"
	RecurrenceDaily   RecurrenceType = "daily"
	RecurrenceWeekly  RecurrenceType = "weekly"
	RecurrenceMonthly RecurrenceType = "monthly"
	RecurrenceYearly  RecurrenceType = "yearly"
)

// LastDayOfMonth is the sentinel day-of-month value meaning "the month's
// actual last day", whatever that resolves to.
const LastDayOfMonth = -1

// WeekOrder selects the Nth occurrence of a weekday within a month.
type WeekOrder string

const (
	WeekFirst  WeekOrder = "first"
	WeekSecond WeekOrder = "second"
	WeekThird  WeekOrder = "third"
	WeekFourth WeekOrder = "fourth"
	WeekLast   WeekOrder = "last"
)

// AnchorDay returns the day of month where the scan for this week order
// starts. WeekLast has no fixed anchor; it resolves against the month's
// actual last day.
func (o WeekOrder) AnchorDay() (int, bool) {
	switch o {
	case WeekFirst:
		return 1, true
	case WeekSecond:
		return 7, true
	case WeekThird:
		return 14, true
	case WeekFourth:
		return 21, true
	default:
		return 0, false
	}
}

// Occurrence pairs a weekday with a week order for monthly-by-day recurrence.
type Occurrence struct {
	Weekday time.Weekday `json:"weekday"`
	Week    WeekOrder    `json:"week"`
}

// Recurrence is a tagged recurrence specification. Each variant carries only
// the fields meaningful for its type, so illegal combinations (a month list
// on a weekly spec, a week order outside monthly-by-day) cannot be
// represented at all.
type Recurrence interface {
	// Type returns the variant discriminator.
	Type() RecurrenceType
	// Validate checks the variant's own fields. Failures reject the save
	// before any expansion runs.
	Validate() error

	isRecurrence()
}

// OneTime never expands periodically; its single reminder is the planned end
// instant, registered when work starts.
type OneTime struct{}

func (OneTime) Type() RecurrenceType { return RecurrenceOneTime }
func (OneTime) Validate() error      { return nil }
func (OneTime) isRecurrence()        {}

// Daily fires every day at each configured hour.
type Daily struct {
	Hours []int `json:"hours"`
}

func (Daily) Type() RecurrenceType { return RecurrenceDaily }
func (Daily) isRecurrence()        {}

func (d Daily) Validate() error {
	return validateHours(d.Hours)
}

// Weekly fires on the selected weekdays, considering only every Nth week.
type Weekly struct {
	Weekdays []time.Weekday `json:"weekdays"`
	Hours    []int          `json:"hours"`
	Every    int            `json:"every"` // week interval, 1 = every week
}

func (Weekly) Type() RecurrenceType { return RecurrenceWeekly }
func (Weekly) isRecurrence()        {}

func (w Weekly) Validate() error {
	var errs criterio.FieldErrorsBuilder
	if len(w.Weekdays) == 0 {
		errs = errs.Append("weekdays", fmt.Errorf("at least one weekday is required"))
	}
	errs = appendHourErrors(errs, w.Hours)
	errs = appendEveryError(errs, w.Every)
	return errs.ToError()
}

// MonthlyByDate fires on fixed days of the month, stepping by Every months.
type MonthlyByDate struct {
	Days  []int `json:"days"` // -1 or 1..31
	Hours []int `json:"hours"`
	Every int   `json:"every"` // month interval, 1 = every month
}

func (MonthlyByDate) Type() RecurrenceType { return RecurrenceMonthly }
func (MonthlyByDate) isRecurrence()        {}

func (m MonthlyByDate) Validate() error {
	var errs criterio.FieldErrorsBuilder
	errs = appendDayErrors(errs, m.Days)
	errs = appendHourErrors(errs, m.Hours)
	errs = appendEveryError(errs, m.Every)
	return errs.ToError()
}

// MonthlyByDay fires on ordinal weekdays ("second Tuesday"), stepping by
// Every months.
type MonthlyByDay struct {
	Occurrences []Occurrence `json:"occurrences"`
	Hours       []int        `json:"hours"`
	Every       int          `json:"every"`
}

func (MonthlyByDay) Type() RecurrenceType { return RecurrenceMonthly }
func (MonthlyByDay) isRecurrence()        {}

func (m MonthlyByDay) Validate() error {
	var errs criterio.FieldErrorsBuilder
	if len(m.Occurrences) == 0 {
		errs = errs.Append("occurrences", fmt.Errorf("at least one weekday occurrence is required"))
	}
	for i, occ := range m.Occurrences {
		switch occ.Week {
		case WeekFirst, WeekSecond, WeekThird, WeekFourth, WeekLast:
		default:
			errs = errs.Append(fmt.Sprintf("occurrences[%d].week", i), fmt.Errorf("unknown week order %q", occ.Week))
		}
		if occ.Weekday < time.Sunday || occ.Weekday > time.Saturday {
			errs = errs.Append(fmt.Sprintf("occurrences[%d].weekday", i), fmt.Errorf("invalid weekday %d", occ.Weekday))
		}
	}
	errs = appendHourErrors(errs, m.Hours)
	errs = appendEveryError(errs, m.Every)
	return errs.ToError()
}

// Yearly fires on every month x day x hour combination, stepping by Every
// years. Combinations that don't form a real date are skipped at expansion.
type Yearly struct {
	Months []time.Month `json:"months"`
	Days   []int        `json:"days"`
	Hours  []int        `json:"hours"`
	Every  int          `json:"every"`
}

func (Yearly) Type() RecurrenceType { return RecurrenceYearly }
func (Yearly) isRecurrence()        {}

func (y Yearly) Validate() error {
	var errs criterio.FieldErrorsBuilder
	if len(y.Months) == 0 {
		errs = errs.Append("months", fmt.Errorf("at least one month is required"))
	}
	seen := map[time.Month]bool{}
	for i, m := range y.Months {
		if m < time.January || m > time.December {
			errs = errs.Append(fmt.Sprintf("months[%d]", i), fmt.Errorf("invalid month %d", m))
			continue
		}
		if seen[m] {
			errs = errs.Append(fmt.Sprintf("months[%d]", i), fmt.Errorf("each month must be unique, %d repeats", m))
		}
		seen[m] = true
	}
	errs = appendDayErrors(errs, y.Days)
	errs = appendHourErrors(errs, y.Hours)
	errs = appendEveryError(errs, y.Every)
	return errs.ToError()
}

// validateHours checks hour-of-day values for range and uniqueness.
func validateHours(hours []int) error {
	var errs criterio.FieldErrorsBuilder
	errs = appendHourErrors(errs, hours)
	return errs.ToError()
}

func appendHourErrors(errs criterio.FieldErrorsBuilder, hours []int) criterio.FieldErrorsBuilder {
	if len(hours) == 0 {
		return errs.Append("hours", fmt.Errorf("at least one hour is required"))
	}
	seen := map[int]bool{}
	for i, h := range hours {
		if h < 0 || h > 23 {
			errs = errs.Append(fmt.Sprintf("hours[%d]", i), fmt.Errorf("hour must be between 0 and 23, got %d", h))
			continue
		}
		if seen[h] {
			errs = errs.Append(fmt.Sprintf("hours[%d]", i), fmt.Errorf("each hour must be unique, %d repeats", h))
		}
		seen[h] = true
	}
	return errs
}

func appendDayErrors(errs criterio.FieldErrorsBuilder, days []int) criterio.FieldErrorsBuilder {
	if len(days) == 0 {
		return errs.Append("days", fmt.Errorf("at least one day of month is required"))
	}
	seen := map[int]bool{}
	for i, d := range days {
		if d != LastDayOfMonth && (d < 1 || d > 31) {
			errs = errs.Append(fmt.Sprintf("days[%d]", i), fmt.Errorf("day must be -1 (last day) or between 1 and 31, got %d", d))
			continue
		}
		if seen[d] {
			errs = errs.Append(fmt.Sprintf("days[%d]", i), fmt.Errorf("each day must be unique, %d repeats", d))
		}
		seen[d] = true
	}
	return errs
}

func appendEveryError(errs criterio.FieldErrorsBuilder, every int) criterio.FieldErrorsBuilder {
	if every < 1 {
		errs = errs.Append("every", fmt.Errorf("interval must be at least 1, got %d", every))
	}
	return errs
}

// recurrenceEnvelope is the persisted wire form of a Recurrence value.
type recurrenceEnvelope struct {
	Kind string          `json:"kind"`
	Spec json.RawMessage `json:"spec,omitempty"`
}

// Envelope kinds. Monthly needs two kinds because both monthly variants
// share a RecurrenceType.
const (
	kindOneTime       = "one_time"
	kindDaily         = "daily"
	kindWeekly        = "weekly"
	kindMonthlyByDate = "monthly_by_date"
	kindMonthlyByDay  = "monthly_by_day"
	kindYearly        = "yearly"
)

// MarshalRecurrence encodes a Recurrence value for storage. A nil recurrence
// is stored as one-time.
func MarshalRecurrence(r Recurrence) ([]byte, error) {
	env := recurrenceEnvelope{}

	switch v := r.(type) {
	case nil, OneTime:
		env.Kind = kindOneTime
	case Daily:
		env.Kind = kindDaily
		spec, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("marshal daily spec: %w", err)
		}
		env.Spec = spec
	case Weekly:
		env.Kind = kindWeekly
		spec, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("marshal weekly spec: %w", err)
		}
		env.Spec = spec
	case MonthlyByDate:
		env.Kind = kindMonthlyByDate
		spec, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("marshal monthly-by-date spec: %w", err)
		}
		env.Spec = spec
	case MonthlyByDay:
		env.Kind = kindMonthlyByDay
		spec, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("marshal monthly-by-day spec: %w", err)
		}
		env.Spec = spec
	case Yearly:
		env.Kind = kindYearly
		spec, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("marshal yearly spec: %w", err)
		}
		env.Spec = spec
	default:
		return nil, fmt.Errorf("unknown recurrence type %T", r)
	}

	return json.Marshal(env)
}

// UnmarshalRecurrence decodes a stored recurrence envelope.
func UnmarshalRecurrence(data []byte) (Recurrence, error) {
	if len(data) == 0 {
		return OneTime{}, nil
	}

	var env recurrenceEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("unmarshal recurrence envelope: %w", err)
	}

	switch env.Kind {
	case kindOneTime, "":
		return OneTime{}, nil
	case kindDaily:
		var v Daily
		if err := json.Unmarshal(env.Spec, &v); err != nil {
			return nil, fmt.Errorf("unmarshal daily spec: %w", err)
		}
		return v, nil
	case kindWeekly:
		var v Weekly
		if err := json.Unmarshal(env.Spec, &v); err != nil {
			return nil, fmt.Errorf("unmarshal weekly spec: %w", err)
		}
		return v, nil
	case kindMonthlyByDate:
		var v MonthlyByDate
		if err := json.Unmarshal(env.Spec, &v); err != nil {
			return nil, fmt.Errorf("unmarshal monthly-by-date spec: %w", err)
		}
		return v, nil
	case kindMonthlyByDay:
		var v MonthlyByDay
		if err := json.Unmarshal(env.Spec, &v); err != nil {
			return nil, fmt.Errorf("unmarshal monthly-by-day spec: %w", err)
		}
		return v, nil
	case kindYearly:
		var v Yearly
		if err := json.Unmarshal(env.Spec, &v); err != nil {
			return nil, fmt.Errorf("unmarshal yearly spec: %w", err)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("unknown recurrence kind %q", env.Kind)
	}
}
