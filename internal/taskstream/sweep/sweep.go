// Package sweep runs the periodic reminder sweeps on a fixed cadence.
package sweep

import (
	"context"
	"time"

	"github.com/colonyops/taskstream/internal/core/logging"
	"github.com/colonyops/taskstream/internal/taskstream"
)

// Start launches the reminder sweep loop. It blocks until the context is
// cancelled. The interval should be one minute: reminder matching is
// exact-minute, so a coarser cadence silently skips sends.
func Start(ctx context.Context, reminders *taskstream.ReminderService, interval time.Duration) {
	log := logging.Component("sweep")
	log.Debug().Dur("interval", interval).Msg("reminder sweep loop started")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debug().Msg("reminder sweep loop stopped")
			return
		case <-ticker.C:
			reminders.Sweep(ctx)
		}
	}
}
