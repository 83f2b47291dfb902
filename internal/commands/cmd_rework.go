package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/colonyops/taskstream/internal/taskstream"
	"github.com/urfave/cli/v3"
)

type ReworkCmd struct {
	flags *Flags
	app   *taskstream.App

	// flags
	comments     string
	plannedStart string
	plannedEnd   string
}

// NewReworkCmd creates a new rework command
func NewReworkCmd(flags *Flags, app *taskstream.App) *ReworkCmd {
	return &ReworkCmd{flags: flags, app: app}
}

// Register adds the rework command to the application
func (cmd *ReworkCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "rework",
		Usage:     "Send a reviewed item back for rework",
		UsageText: "taskstream rework <key> --comments msg [--planned-start t] [--planned-end t]",
		Description: `Rejects an item under review and returns it to the to-do queue with an
incremented rework count. The review comments and any corrected planned
window are recorded in the activity log, and the assignee is notified.

Timestamps use the "2006-01-02 15:04" layout in local time.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "comments",
				Aliases:     []string{"m"},
				Usage:       "review feedback passed to the assignee",
				Required:    true,
				Destination: &cmd.comments,
			},
			&cli.StringFlag{
				Name:        "planned-start",
				Usage:       "corrected planned start for the rework pass",
				Destination: &cmd.plannedStart,
			},
			&cli.StringFlag{
				Name:        "planned-end",
				Usage:       "corrected planned end for the rework pass",
				Destination: &cmd.plannedEnd,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ReworkCmd) run(ctx context.Context, c *cli.Command) error {
	key := c.Args().First()
	if key == "" {
		return fmt.Errorf("missing work item key argument")
	}

	start, err := parseOptionalInstant(cmd.plannedStart)
	if err != nil {
		return fmt.Errorf("parse planned-start: %w", err)
	}

	end, err := parseOptionalInstant(cmd.plannedEnd)
	if err != nil {
		return fmt.Errorf("parse planned-end: %w", err)
	}

	item, err := cmd.app.Items.ResendForRework(ctx, key, cmd.comments, start, end)
	if err != nil {
		return fmt.Errorf("send for rework: %w", err)
	}

	fmt.Fprintf(c.Root().Writer, "Sent %s back to %s for rework (pass %d)\n", item.Key, item.Assignee, item.ReworkCount)
	return nil
}

func parseOptionalInstant(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.ParseInLocation("2006-01-02 15:04", s, time.Local)
}
