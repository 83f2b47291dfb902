package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/colonyops/taskstream/internal/core/workitem"
	"github.com/colonyops/taskstream/internal/taskstream"
	"github.com/colonyops/taskstream/pkg/iojson"
	"github.com/urfave/cli/v3"
)

type UpdateCmd struct {
	flags *Flags
	app   *taskstream.App

	reader iojson.FileReader[itemInput]

	// flags
	title       string
	assignee    string
	reviewer    string
	reportTo    string
	estimate    float64
	actualHours float64
	repeatUntil string
	recurrence  string
}

// NewUpdateCmd creates a new update command
func NewUpdateCmd(flags *Flags, app *taskstream.App) *UpdateCmd {
	return &UpdateCmd{flags: flags, app: app}
}

// Register adds the update command to the application
func (cmd *UpdateCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "update",
		Usage:     "Change fields on an existing work item",
		UsageText: "taskstream update <key> [options]",
		Description: `Loads the item and applies the provided fields on top of its stored
state. A changed estimate counts as a revision, and a changed recurrence
rebuilds the reminder schedule from scratch.

With a key argument, fields come from flags. Without one, a JSON payload
carrying the key is read from --file or piped stdin:

  echo '{"key":"prep-standup","estimated_hours":3}' | taskstream update`,
		Flags: []cli.Flag{
			cmd.reader.Flag(),
			&cli.StringFlag{
				Name:        "title",
				Aliases:     []string{"t"},
				Usage:       "work item title",
				Destination: &cmd.title,
			},
			&cli.StringFlag{
				Name:        "assignee",
				Aliases:     []string{"a"},
				Usage:       "identity responsible for doing the work",
				Destination: &cmd.assignee,
			},
			&cli.StringFlag{
				Name:        "reviewer",
				Aliases:     []string{"r"},
				Usage:       "identity responsible for review (must differ from assignee)",
				Destination: &cmd.reviewer,
			},
			&cli.StringFlag{
				Name:        "report-to",
				Usage:       "identity kept informed of progress",
				Destination: &cmd.reportTo,
			},
			&cli.FloatFlag{
				Name:        "estimate",
				Aliases:     []string{"e"},
				Usage:       "estimated duration in hours",
				Destination: &cmd.estimate,
			},
			&cli.FloatFlag{
				Name:        "actual-hours",
				Usage:       "actual duration in hours (feeds the scoring policy)",
				Destination: &cmd.actualHours,
			},
			&cli.StringFlag{
				Name:        "repeat-until",
				Usage:       "last date covered by recurrence expansion (YYYY-MM-DD)",
				Destination: &cmd.repeatUntil,
			},
			&cli.StringFlag{
				Name:        "recurrence",
				Usage:       `recurrence envelope JSON, e.g. '{"kind":"weekly","spec":{"weekdays":[1],"hours":[10],"every":1}}'`,
				Destination: &cmd.recurrence,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *UpdateCmd) run(ctx context.Context, c *cli.Command) error {
	key := c.Args().First()

	var input itemInput
	if key == "" {
		var err error
		input, err = cmd.reader.Read()
		if err != nil {
			return err
		}
		key = input.Key
		if key == "" {
			return fmt.Errorf("payload is missing the work item key")
		}
	} else {
		input = itemInput{
			Title:          cmd.title,
			Assignee:       cmd.assignee,
			Reviewer:       cmd.reviewer,
			ReportTo:       cmd.reportTo,
			EstimatedHours: cmd.estimate,
			ActualHours:    cmd.actualHours,
			RepeatUntil:    cmd.repeatUntil,
			Recurrence:     json.RawMessage(cmd.recurrence),
		}
	}

	item, err := cmd.app.Items.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("load work item: %w", err)
	}

	if err := overlayInput(&item, input); err != nil {
		return err
	}

	updated, err := cmd.app.Items.Update(ctx, item)
	if err != nil {
		return fmt.Errorf("update work item: %w", err)
	}

	fmt.Fprintf(c.Root().Writer, "Updated %s (revision %d, %d reminder(s) scheduled)\n",
		updated.Key, updated.RevisionCount, len(updated.NextReminders))
	return nil
}

// overlayInput applies the provided fields on top of the stored item. Zero
// values mean "unchanged"; this surface cannot clear a field.
func overlayInput(item *workitem.WorkItem, in itemInput) error {
	if in.Title != "" {
		item.Title = in.Title
	}
	if in.Assignee != "" {
		item.Assignee = in.Assignee
	}
	if in.Reviewer != "" {
		item.Reviewer = in.Reviewer
	}
	if in.ReportTo != "" {
		item.ReportTo = in.ReportTo
	}
	if in.EstimatedHours > 0 {
		item.EstimatedHours = in.EstimatedHours
	}
	if in.ActualHours > 0 {
		item.ActualHours = in.ActualHours
	}
	if in.RepeatUntil != "" {
		until, err := time.ParseInLocation(time.DateOnly, in.RepeatUntil, time.Local)
		if err != nil {
			return fmt.Errorf("parse repeat_until: %w", err)
		}
		item.RepeatUntil = until
	}
	if len(in.Recurrence) > 0 {
		rec, err := workitem.UnmarshalRecurrence(in.Recurrence)
		if err != nil {
			return fmt.Errorf("parse recurrence: %w", err)
		}
		item.Recurrence = rec
	}
	return nil
}
