package commands

import (
	"context"
	"fmt"

	"github.com/colonyops/taskstream/internal/taskstream"
	"github.com/urfave/cli/v3"
)

type ReviewCmd struct {
	flags *Flags
	app   *taskstream.App
}

// NewReviewCmd creates a new review command
func NewReviewCmd(flags *Flags, app *taskstream.App) *ReviewCmd {
	return &ReviewCmd{flags: flags, app: app}
}

// Register adds the review command to the application
func (cmd *ReviewCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "review",
		Usage:     "Send an in-progress item for review",
		UsageText: "taskstream review <key>",
		Description: `Moves the item to under review and notifies the reviewer.

The reviewer then either completes the item or sends it back for rework.`,
		Action: cmd.run,
	})

	return app
}

func (cmd *ReviewCmd) run(ctx context.Context, c *cli.Command) error {
	key := c.Args().First()
	if key == "" {
		return fmt.Errorf("missing work item key argument")
	}

	item, err := cmd.app.Items.SendForReview(ctx, key)
	if err != nil {
		return fmt.Errorf("send for review: %w", err)
	}

	fmt.Fprintf(c.Root().Writer, "Sent %s for review by %s\n", item.Key, item.Reviewer)
	return nil
}
