package commands

import (
	"context"
	"fmt"

	"github.com/colonyops/taskstream/internal/taskstream"
	"github.com/urfave/cli/v3"
)

type CompleteCmd struct {
	flags *Flags
	app   *taskstream.App
}

// NewCompleteCmd creates a new complete command
func NewCompleteCmd(flags *Flags, app *taskstream.App) *CompleteCmd {
	return &CompleteCmd{flags: flags, app: app}
}

// Register adds the complete command to the application
func (cmd *CompleteCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "complete",
		Usage:     "Mark a reviewed item as done",
		UsageText: "taskstream complete <key>",
		Description: `Moves the item to done, records the actual end time, and computes the
quality score under the configured scoring policy.`,
		Action: cmd.run,
	})

	return app
}

func (cmd *CompleteCmd) run(ctx context.Context, c *cli.Command) error {
	key := c.Args().First()
	if key == "" {
		return fmt.Errorf("missing work item key argument")
	}

	item, err := cmd.app.Items.MarkComplete(ctx, key)
	if err != nil {
		return fmt.Errorf("complete work item: %w", err)
	}

	out := c.Root().Writer
	if item.Score == nil {
		fmt.Fprintf(out, "Completed %s (no score computed)\n", item.Key)
		return nil
	}

	fmt.Fprintf(out, "Completed %s, score %.2f\n", item.Key, *item.Score)
	return nil
}
