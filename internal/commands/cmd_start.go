package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/colonyops/taskstream/internal/taskstream"
	"github.com/urfave/cli/v3"
)

type StartCmd struct {
	flags *Flags
	app   *taskstream.App
}

// NewStartCmd creates a new start command
func NewStartCmd(flags *Flags, app *taskstream.App) *StartCmd {
	return &StartCmd{flags: flags, app: app}
}

// Register adds the start command to the application
func (cmd *StartCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "start",
		Usage:     "Start working on an item",
		UsageText: "taskstream start <key>",
		Description: `Moves the item to in progress, records the start time, and projects
the planned end across the assignee's shift calendar.`,
		Action: cmd.run,
	})

	return app
}

func (cmd *StartCmd) run(ctx context.Context, c *cli.Command) error {
	key := c.Args().First()
	if key == "" {
		return fmt.Errorf("missing work item key argument")
	}

	item, err := cmd.app.Items.StartNow(ctx, key)
	if err != nil {
		return fmt.Errorf("start work item: %w", err)
	}

	out := c.Root().Writer
	if item.PlannedEnd.IsZero() {
		fmt.Fprintf(out, "Started %s\n", item.Key)
		return nil
	}

	fmt.Fprintf(out, "Started %s, planned end %s\n", item.Key, item.PlannedEnd.Format(time.DateTime))
	return nil
}
