package taskstream

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/colonyops/taskstream/internal/core/config"
	"github.com/colonyops/taskstream/internal/core/notify"
	"github.com/colonyops/taskstream/internal/core/workitem"
)

// ReminderService runs the periodic reminder sweeps. Matching is
// exact-minute: an item is due when its stored reminder instant equals the
// current minute, so the sweeps must run at least once per minute.
type ReminderService struct {
	items      workitem.Store
	config     *config.Config
	dispatcher notify.Dispatcher
	log        zerolog.Logger
	now        func() time.Time
}

// NewReminderService creates a new ReminderService.
func NewReminderService(items workitem.Store, cfg *config.Config, dispatcher notify.Dispatcher, log zerolog.Logger) *ReminderService {
	return &ReminderService{
		items:      items,
		config:     cfg,
		dispatcher: dispatcher,
		log:        log.With().Str("component", "reminders").Logger(),
		now:        time.Now,
	}
}

// Sweep runs both reminder sweeps once. Per-item failures are logged and
// don't stop the remaining items.
func (s *ReminderService) Sweep(ctx context.Context) {
	if err := s.SweepTwentyPercent(ctx); err != nil {
		s.log.Error().Err(err).Msg("twenty percent sweep failed")
	}
	if err := s.SweepDeadline(ctx); err != nil {
		s.log.Error().Err(err).Msg("deadline sweep failed")
	}
}

// SweepTwentyPercent notifies assignees of in-progress items whose
// remaining-time reminder instant matches the current minute.
func (s *ReminderService) SweepTwentyPercent(ctx context.Context) error {
	minute := s.now().Truncate(time.Minute)

	items, err := s.items.ListDueTwentyPercent(ctx, minute)
	if err != nil {
		return fmt.Errorf("list due items: %w", err)
	}

	for _, item := range items {
		sent := s.send(ctx, item,
			fmt.Sprintf("Reminder: work item %s nearing deadline", item.Key),
			fmt.Sprintf("You're at 20%% remaining time for work item %s. Please plan accordingly.", item.Key),
		)
		if !sent {
			continue
		}
		if err := s.items.MarkTwentyPercentSent(ctx, item.Key); err != nil {
			s.log.Error().Err(err).Str("key", item.Key).Msg("failed to latch reminder flag")
		}
	}

	return nil
}

// SweepDeadline notifies assignees of in-progress items whose planned end
// matches the current minute.
func (s *ReminderService) SweepDeadline(ctx context.Context) error {
	minute := s.now().Truncate(time.Minute)

	items, err := s.items.ListDueDeadline(ctx, minute)
	if err != nil {
		return fmt.Errorf("list due items: %w", err)
	}

	for _, item := range items {
		sent := s.send(ctx, item,
			fmt.Sprintf("Work item %s deadline reached", item.Key),
			fmt.Sprintf("The deadline for work item %s has been reached but it is still in progress. Please review it.", item.Key),
		)
		if !sent {
			continue
		}
		if err := s.items.MarkDeadlineSent(ctx, item.Key); err != nil {
			s.log.Error().Err(err).Str("key", item.Key).Msg("failed to latch reminder flag")
		}
	}

	return nil
}

// send dispatches one reminder. It reports whether the sent flag should be
// latched: an assignee without contact info is logged and left unlatched.
func (s *ReminderService) send(ctx context.Context, item workitem.WorkItem, subject, message string) bool {
	email := s.config.EmailFor(item.Assignee)
	if email == "" {
		s.log.Warn().
			Str("key", item.Key).
			Str("assignee", item.Assignee).
			Msg("assignee has no email configured, skipping reminder")
		return false
	}

	err := s.dispatcher.Send(ctx, notify.Notification{
		ItemKey:    item.Key,
		Subject:    subject,
		Message:    message,
		Recipients: []string{email},
	})
	if err != nil {
		s.log.Error().Err(err).Str("key", item.Key).Msg("reminder dispatch failed")
		return false
	}

	return true
}
