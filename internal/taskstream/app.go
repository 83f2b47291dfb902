package taskstream

import (
	"github.com/colonyops/taskstream/internal/core/config"
	"github.com/colonyops/taskstream/internal/core/notify"
	"github.com/colonyops/taskstream/internal/data/db"
)

// App is the central entry point for all taskstream operations.
// Commands and the TUI consume App instead of cherry-picking raw
// dependencies.
type App struct {
	Items     *ItemService
	Reminders *ReminderService

	Config        *config.Config
	DB            *db.DB
	Notifications notify.Store
}

// NewApp constructs an App from explicit dependencies.
func NewApp(
	items *ItemService,
	reminders *ReminderService,
	cfg *config.Config,
	database *db.DB,
	notifications notify.Store,
) *App {
	return &App{
		Items:         items,
		Reminders:     reminders,
		Config:        cfg,
		DB:            database,
		Notifications: notifications,
	}
}
