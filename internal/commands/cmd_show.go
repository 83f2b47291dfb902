package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/colonyops/taskstream/internal/core/notify"
	"github.com/colonyops/taskstream/internal/core/workitem"
	"github.com/colonyops/taskstream/internal/taskstream"
	"github.com/colonyops/taskstream/pkg/iojson"
	"github.com/urfave/cli/v3"
)

type ShowCmd struct {
	flags *Flags
	app   *taskstream.App

	// flags
	withNotifications bool
}

// NewShowCmd creates a new show command
func NewShowCmd(flags *Flags, app *taskstream.App) *ShowCmd {
	return &ShowCmd{flags: flags, app: app}
}

// Register adds the show command to the application
func (cmd *ShowCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "show",
		Usage:     "Show a single work item as JSON",
		UsageText: "taskstream show <key> [--notifications]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "notifications",
				Aliases:     []string{"n"},
				Usage:       "include notifications recorded for this item",
				Destination: &cmd.withNotifications,
			},
		},
		Action: cmd.run,
	})

	return app
}

// itemDetail is the show output: the stored item plus its recurrence
// envelope, which does not round-trip through the plain struct encoding.
type itemDetail struct {
	workitem.WorkItem
	Recurrence    json.RawMessage       `json:"recurrence,omitempty"`
	Notifications []notify.Notification `json:"notifications,omitempty"`
}

func (cmd *ShowCmd) run(ctx context.Context, c *cli.Command) error {
	key := c.Args().First()
	if key == "" {
		return fmt.Errorf("missing work item key argument")
	}

	item, err := cmd.app.Items.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("get work item: %w", err)
	}

	detail := itemDetail{WorkItem: item}

	if item.Recurrence != nil {
		raw, err := workitem.MarshalRecurrence(item.Recurrence)
		if err != nil {
			return fmt.Errorf("encode recurrence: %w", err)
		}
		detail.Recurrence = raw
	}

	if cmd.withNotifications {
		ns, err := cmd.app.Notifications.ListByItem(ctx, key)
		if err != nil {
			return fmt.Errorf("list notifications: %w", err)
		}
		detail.Notifications = ns
	}

	return iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, detail)
}
