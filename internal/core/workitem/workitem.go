// Package workitem defines work item domain types and interfaces.
package workitem

import (
	"time"
)

// Status represents the lifecycle state of a work item.
type Status string

const (
	StatusTodo        Status = "todo"
	StatusInProgress  Status = "in_progress"
	StatusUnderReview Status = "under_review"
	StatusRework      Status = "rework_needed"
	StatusDone        Status = "done"
)

// transitions encodes the legal lifecycle edges. Done is terminal.
var transitions = map[Status][]Status{
	StatusTodo:        {StatusInProgress},
	StatusInProgress:  {StatusUnderReview},
	StatusUnderReview: {StatusDone, StatusRework},
	StatusRework:      {StatusTodo},
	StatusDone:        {},
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// Terminal reports whether no further transitions are allowed from s.
func (s Status) Terminal() bool {
	return s == StatusDone
}

// CanTransition reports whether the lifecycle allows moving from s to next.
func (s Status) CanTransition(next Status) bool {
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// ActionType identifies an entry in a work item's activity log.
type ActionType string

const (
	ActionPlannedStart ActionType = "planned_start"
	ActionPlannedEnd   ActionType = "planned_end"
	ActionActualEnd    ActionType = "actual_end"
)

// Activity is a single append-only log entry on a work item.
type Activity struct {
	Action ActionType `json:"action"`
	At     time.Time  `json:"at"`
	Note   string     `json:"note,omitempty"`
}

// WorkItem is the central entity: a tracked unit of work with a recurrence
// specification, a simulated completion target, and a quality score.
//
// The derived fields (NextReminders, PlannedEnd, TwentyPercentReminderAt,
// Score) are only ever assigned wholesale by the service layer's recompute
// pipeline; they are never hand-edited or patched incrementally.
type WorkItem struct {
	Key      string `json:"key"`
	Title    string `json:"title"`
	Assignee string `json:"assignee"`
	Reviewer string `json:"reviewer"`
	ReportTo string `json:"report_to,omitempty"`

	Status         Status    `json:"status"`
	EstimatedHours float64   `json:"estimated_hours"`
	ActualHours    float64   `json:"actual_hours,omitempty"`
	StartTime      time.Time `json:"start_time,omitzero"`

	Recurrence  Recurrence `json:"-"`
	RepeatUntil time.Time  `json:"repeat_until,omitzero"` // date bound for expansion

	NextReminders             []time.Time `json:"next_reminders,omitempty"`
	PlannedEnd                time.Time   `json:"planned_end,omitzero"`
	TwentyPercentReminderAt   time.Time   `json:"twenty_percent_reminder_at,omitzero"`
	TwentyPercentReminderSent bool        `json:"twenty_percent_reminder_sent"`
	DeadlineReminderSent      bool        `json:"deadline_reminder_sent"`

	RevisionCount int      `json:"revision_count"`
	ReworkCount   int      `json:"rework_count"`
	Score         *float64 `json:"score,omitempty"`

	Activities []Activity `json:"activities,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LatestActivity returns the latest timestamp among log rows of the given
// action type. The maximum wins, not the first seen: corrections are recorded
// by appending a fresh row, never by rewriting history.
func (w *WorkItem) LatestActivity(action ActionType) (time.Time, bool) {
	var latest time.Time
	found := false
	for _, a := range w.Activities {
		if a.Action != action {
			continue
		}
		if !found || a.At.After(latest) {
			latest = a.At
			found = true
		}
	}
	return latest, found
}

// AppendActivity records a new activity log entry at minute resolution.
func (w *WorkItem) AppendActivity(action ActionType, at time.Time, note string) {
	w.Activities = append(w.Activities, Activity{
		Action: action,
		At:     at.Truncate(time.Minute),
		Note:   note,
	})
}
