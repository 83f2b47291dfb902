// Package taskstream wires the recurrence, projection, and scoring engines
// to stored work items and exposes the lifecycle operations.
package taskstream

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/rs/zerolog"

	"github.com/colonyops/taskstream/internal/core/config"
	"github.com/colonyops/taskstream/internal/core/notify"
	"github.com/colonyops/taskstream/internal/core/recurrence"
	"github.com/colonyops/taskstream/internal/core/scoring"
	"github.com/colonyops/taskstream/internal/core/shift"
	"github.com/colonyops/taskstream/internal/core/validate"
	"github.com/colonyops/taskstream/internal/core/workitem"
)

// ItemService orchestrates work item saves and lifecycle transitions. All
// derived fields flow through here; the engines themselves stay pure.
type ItemService struct {
	items      workitem.Store
	config     *config.Config
	dispatcher notify.Dispatcher
	log        zerolog.Logger
	now        func() time.Time
}

// NewItemService creates a new ItemService.
func NewItemService(items workitem.Store, cfg *config.Config, dispatcher notify.Dispatcher, log zerolog.Logger) *ItemService {
	return &ItemService{
		items:      items,
		config:     cfg,
		dispatcher: dispatcher,
		log:        log.With().Str("component", "items").Logger(),
		now:        time.Now,
	}
}

// Create validates and stores a new work item, expanding its reminder
// schedule from the recurrence specification.
func (s *ItemService) Create(ctx context.Context, item workitem.WorkItem) (workitem.WorkItem, error) {
	if item.Status == "" {
		item.Status = workitem.StatusTodo
	}
	if item.Recurrence == nil {
		item.Recurrence = workitem.OneTime{}
	}

	if err := validate.WorkItem(item); err != nil {
		return workitem.WorkItem{}, err
	}

	if _, err := s.items.Get(ctx, item.Key); err == nil {
		return workitem.WorkItem{}, workitem.ErrDuplicate
	} else if !errors.Is(err, workitem.ErrNotFound) {
		return workitem.WorkItem{}, fmt.Errorf("check existing item: %w", err)
	}

	now := s.now()
	item.CreatedAt = now
	item.UpdatedAt = now

	if err := s.expandReminders(&item, now); err != nil {
		return workitem.WorkItem{}, err
	}

	if err := s.items.Save(ctx, item); err != nil {
		return workitem.WorkItem{}, fmt.Errorf("save work item: %w", err)
	}

	s.log.Info().Str("key", item.Key).Str("status", string(item.Status)).Msg("work item created")

	return item, nil
}

// Update validates and stores changes to an existing work item. A changed
// estimated duration bumps the revision count; changed recurrence
// configuration rebuilds the reminder list from scratch. Validation failure
// rejects the save wholesale, leaving stored state untouched.
func (s *ItemService) Update(ctx context.Context, item workitem.WorkItem) (workitem.WorkItem, error) {
	if err := validate.WorkItem(item); err != nil {
		return workitem.WorkItem{}, err
	}

	old, err := s.items.Get(ctx, item.Key)
	if err != nil {
		return workitem.WorkItem{}, fmt.Errorf("load existing item: %w", err)
	}

	// Re-estimating existing work counts as a revision.
	estimateChanged := old.EstimatedHours != item.EstimatedHours
	if estimateChanged {
		item.RevisionCount = old.RevisionCount + 1
	}

	now := s.now()
	item.CreatedAt = old.CreatedAt
	item.UpdatedAt = now

	if recurrenceChanged(old, item) {
		if err := s.expandReminders(&item, now); err != nil {
			return workitem.WorkItem{}, err
		}
	}

	// A new estimate on in-flight work moves the planned target, so the
	// projection and its reminder instants are derived again.
	if estimateChanged && item.Status == workitem.StatusInProgress {
		if err := s.projectPlannedEnd(&item, now); err != nil {
			return workitem.WorkItem{}, err
		}
	}

	if err := s.items.Save(ctx, item); err != nil {
		return workitem.WorkItem{}, fmt.Errorf("save work item: %w", err)
	}

	return item, nil
}

// Get returns a single work item.
func (s *ItemService) Get(ctx context.Context, key string) (workitem.WorkItem, error) {
	return s.items.Get(ctx, key)
}

// List returns all work items.
func (s *ItemService) List(ctx context.Context) ([]workitem.WorkItem, error) {
	return s.items.List(ctx)
}

// StartNow transitions an item into in-progress, records the start instant,
// and projects the planned completion across the assignee's shift windows.
func (s *ItemService) StartNow(ctx context.Context, key string) (workitem.WorkItem, error) {
	item, err := s.items.Get(ctx, key)
	if err != nil {
		return workitem.WorkItem{}, err
	}

	if !item.Status.CanTransition(workitem.StatusInProgress) {
		return workitem.WorkItem{}, fmt.Errorf("%w: %s -> %s", workitem.ErrInvalidTransition, item.Status, workitem.StatusInProgress)
	}

	now := s.now()
	item.Status = workitem.StatusInProgress
	item.StartTime = now
	item.UpdatedAt = now
	item.AppendActivity(workitem.ActionPlannedStart, now, "")

	if err := s.projectPlannedEnd(&item, now); err != nil {
		return workitem.WorkItem{}, err
	}

	if err := s.items.Save(ctx, item); err != nil {
		return workitem.WorkItem{}, fmt.Errorf("save work item: %w", err)
	}

	s.log.Info().
		Str("key", item.Key).
		Time("planned_end", item.PlannedEnd).
		Msg("work item started")

	return item, nil
}

// SendForReview transitions an in-progress item to under-review and notifies
// the reviewer.
func (s *ItemService) SendForReview(ctx context.Context, key string) (workitem.WorkItem, error) {
	item, err := s.items.Get(ctx, key)
	if err != nil {
		return workitem.WorkItem{}, err
	}

	if !item.Status.CanTransition(workitem.StatusUnderReview) {
		return workitem.WorkItem{}, fmt.Errorf("%w: %s -> %s", workitem.ErrInvalidTransition, item.Status, workitem.StatusUnderReview)
	}

	item.Status = workitem.StatusUnderReview
	item.UpdatedAt = s.now()

	if err := s.items.Save(ctx, item); err != nil {
		return workitem.WorkItem{}, fmt.Errorf("save work item: %w", err)
	}

	s.notifyIdentity(ctx, item, item.Reviewer,
		fmt.Sprintf("Review requested for work item %s", item.Key),
		fmt.Sprintf("Work item %s (assignee %s) has been submitted for your review.", item.Key, item.Assignee),
	)

	return item, nil
}

// MarkComplete transitions an under-review item to done, records the actual
// end instant at minute resolution, and computes the final score under the
// configured policy.
func (s *ItemService) MarkComplete(ctx context.Context, key string) (workitem.WorkItem, error) {
	item, err := s.items.Get(ctx, key)
	if err != nil {
		return workitem.WorkItem{}, err
	}

	if !item.Status.CanTransition(workitem.StatusDone) {
		return workitem.WorkItem{}, fmt.Errorf("%w: %s -> %s", workitem.ErrInvalidTransition, item.Status, workitem.StatusDone)
	}

	now := s.now()
	item.Status = workitem.StatusDone
	item.UpdatedAt = now
	item.AppendActivity(workitem.ActionActualEnd, now, "")

	// Actual duration falls out of the recorded start unless an explicit
	// figure was supplied on an earlier save.
	if item.ActualHours == 0 && !item.StartTime.IsZero() {
		item.ActualHours = now.Truncate(time.Minute).Sub(item.StartTime).Hours()
	}

	strategy, err := s.config.Strategy()
	if err != nil {
		return workitem.WorkItem{}, err
	}
	applyScore(&item, strategy, s.config.Scoring.Penalties)

	if err := s.items.Save(ctx, item); err != nil {
		return workitem.WorkItem{}, fmt.Errorf("save work item: %w", err)
	}

	s.log.Info().Str("key", item.Key).Msg("work item completed")

	return item, nil
}

// ResendForRework sends a reviewed item back to the assignee: the rework
// counter increments, fresh planned start/end activities are appended for the
// next attempt, and the assignee is notified with the reviewer's comments.
// The transient rework state resolves immediately back to to-do.
func (s *ItemService) ResendForRework(ctx context.Context, key, comments string, plannedStart, plannedEnd time.Time) (workitem.WorkItem, error) {
	item, err := s.items.Get(ctx, key)
	if err != nil {
		return workitem.WorkItem{}, err
	}

	if !item.Status.CanTransition(workitem.StatusRework) {
		return workitem.WorkItem{}, fmt.Errorf("%w: %s -> %s", workitem.ErrInvalidTransition, item.Status, workitem.StatusRework)
	}

	item.Status = workitem.StatusTodo
	item.ReworkCount++
	item.UpdatedAt = s.now()
	item.AppendActivity(workitem.ActionPlannedStart, plannedStart, comments)
	item.AppendActivity(workitem.ActionPlannedEnd, plannedEnd, comments)

	if err := s.items.Save(ctx, item); err != nil {
		return workitem.WorkItem{}, fmt.Errorf("save work item: %w", err)
	}

	s.notifyIdentity(ctx, item, item.Assignee,
		fmt.Sprintf("Rework needed for work item %s", item.Key),
		fmt.Sprintf("Work item %s was sent back for rework: %s", item.Key, comments),
	)

	return item, nil
}

// expandReminders rebuilds the reminder list wholesale from the recurrence
// specification. One-time items get their reminder when work starts, not
// here.
func (s *ItemService) expandReminders(item *workitem.WorkItem, now time.Time) error {
	reminders, err := recurrence.Expand(item.Recurrence, now, item.RepeatUntil)
	if err != nil {
		return fmt.Errorf("expand recurrence: %w", err)
	}
	item.NextReminders = reminders
	return nil
}

// projectPlannedEnd runs the shift projection and derives the remaining-time
// reminder. Missing start or duration skips the projection, retaining any
// prior values.
func (s *ItemService) projectPlannedEnd(item *workitem.WorkItem, now time.Time) error {
	if item.StartTime.IsZero() || item.EstimatedHours <= 0 {
		return nil
	}

	window, err := s.config.ShiftFor(item.Assignee)
	if err != nil {
		return err
	}

	plannedEnd, err := window.Project(item.StartTime, item.EstimatedHours)
	if err != nil {
		return fmt.Errorf("project planned end: %w", err)
	}

	item.PlannedEnd = plannedEnd
	item.AppendActivity(workitem.ActionPlannedEnd, plannedEnd, "")
	item.TwentyPercentReminderAt = shift.ReminderAt(plannedEnd, item.EstimatedHours, s.config.Reminders.LeadFraction)
	item.TwentyPercentReminderSent = false
	item.DeadlineReminderSent = false

	// One-time items remind exactly once, at the planned end, and only if
	// that instant is still in the future.
	if item.Recurrence != nil && item.Recurrence.Type() == workitem.RecurrenceOneTime {
		item.NextReminders = nil
		if plannedEnd.After(now) {
			item.NextReminders = []time.Time{plannedEnd}
		}
	}

	return nil
}

// applyScore computes and assigns the final score. Insufficient inputs leave
// the stored score unset.
func applyScore(item *workitem.WorkItem, strategy scoring.Strategy, penalties scoring.Penalties) {
	plannedEnd, _ := item.LatestActivity(workitem.ActionPlannedEnd)
	actualEnd, _ := item.LatestActivity(workitem.ActionActualEnd)

	score, ok := strategy.Score(scoring.Input{
		PlannedEnd:     plannedEnd,
		ActualEnd:      actualEnd,
		EstimatedHours: item.EstimatedHours,
		ActualHours:    item.ActualHours,
		RevisionCount:  item.RevisionCount,
		ReworkCount:    item.ReworkCount,
		Penalties:      penalties,
	})
	if !ok {
		return
	}

	item.Score = &score
}

// notifyIdentity resolves an identity's email and dispatches a notification.
// Unresolvable recipients are logged by the dispatcher, never fatal.
func (s *ItemService) notifyIdentity(ctx context.Context, item workitem.WorkItem, identity, subject, message string) {
	var recipients []string
	if email := s.config.EmailFor(identity); email != "" {
		recipients = append(recipients, email)
	}

	err := s.dispatcher.Send(ctx, notify.Notification{
		ItemKey:    item.Key,
		Subject:    subject,
		Message:    message,
		Recipients: recipients,
	})
	if err != nil {
		s.log.Error().Err(err).Str("key", item.Key).Msg("notification dispatch failed")
	}
}

// recurrenceChanged reports whether the recurrence configuration differs
// between two revisions of an item.
func recurrenceChanged(old, updated workitem.WorkItem) bool {
	if !old.RepeatUntil.Equal(updated.RepeatUntil) {
		return true
	}
	return !reflect.DeepEqual(old.Recurrence, updated.Recurrence)
}
