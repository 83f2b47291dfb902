package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/colonyops/taskstream/internal/core/workitem"
	"github.com/colonyops/taskstream/internal/taskstream"
	"github.com/colonyops/taskstream/pkg/iojson"
	"github.com/colonyops/taskstream/pkg/randid"
	"github.com/urfave/cli/v3"
)

// itemInput is the JSON create/update payload accepted on stdin or via --file.
// Recurrence uses the envelope format, e.g. {"kind":"daily","spec":{"hours":[9,14]}}.
type itemInput struct {
	Key            string          `json:"key"`
	Title          string          `json:"title"`
	Assignee       string          `json:"assignee"`
	Reviewer       string          `json:"reviewer"`
	ReportTo       string          `json:"report_to"`
	EstimatedHours float64         `json:"estimated_hours"`
	ActualHours    float64         `json:"actual_hours"`
	RepeatUntil    string          `json:"repeat_until"`
	Recurrence     json.RawMessage `json:"recurrence"`
}

func (in itemInput) toWorkItem() (workitem.WorkItem, error) {
	item := workitem.WorkItem{
		Key:            in.Key,
		Title:          in.Title,
		Assignee:       in.Assignee,
		Reviewer:       in.Reviewer,
		ReportTo:       in.ReportTo,
		EstimatedHours: in.EstimatedHours,
		ActualHours:    in.ActualHours,
	}

	if in.RepeatUntil != "" {
		until, err := time.ParseInLocation(time.DateOnly, in.RepeatUntil, time.Local)
		if err != nil {
			return item, fmt.Errorf("parse repeat_until: %w", err)
		}
		item.RepeatUntil = until
	}

	if len(in.Recurrence) > 0 {
		rec, err := workitem.UnmarshalRecurrence(in.Recurrence)
		if err != nil {
			return item, fmt.Errorf("parse recurrence: %w", err)
		}
		item.Recurrence = rec
	}

	return item, nil
}

type NewCmd struct {
	flags *Flags
	app   *taskstream.App

	reader iojson.FileReader[itemInput]

	// flags
	key         string
	title       string
	assignee    string
	reviewer    string
	reportTo    string
	estimate    float64
	repeatUntil string
	recurrence  string
}

// NewNewCmd creates a new new command
func NewNewCmd(flags *Flags, app *taskstream.App) *NewCmd {
	return &NewCmd{flags: flags, app: app}
}

// Register adds the new command to the application
func (cmd *NewCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "new",
		Usage:     "Create a new work item",
		UsageText: "taskstream new [options]",
		Description: `Creates a work item and expands its recurrence schedule into
concrete reminder instants.

With --title, the item is built from flags. Without it, a JSON payload
is read from --file or piped stdin:

  echo '{"key":"prep-standup","title":"Prep standup","assignee":"ada",
         "reviewer":"grace","estimated_hours":1,
         "repeat_until":"2026-12-31",
         "recurrence":{"kind":"daily","spec":{"hours":[9]}}}' | taskstream new`,
		Flags: []cli.Flag{
			cmd.reader.Flag(),
			&cli.StringFlag{
				Name:        "key",
				Aliases:     []string{"k"},
				Usage:       "stable item key (generated when omitted)",
				Destination: &cmd.key,
			},
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

func (cmd *NewCmd) run(ctx context.Context, c *cli.Command) error {
	input, err := cmd.buildInput()
	if err != nil {
		return err
	}

	item, err := input.toWorkItem()
	if err != nil {
		return err
	}

	if item.Key == "" {
		item.Key = randid.Generate(10)
	}

	created, err := cmd.app.Items.Create(ctx, item)
	if err != nil {
		return fmt.Errorf("create work item: %w", err)
	}

	fmt.Fprintf(c.Root().Writer, "Created %s (%d reminder(s) scheduled)\n", created.Key, len(created.NextReminders))
	return nil
}

func (cmd *NewCmd) buildInput() (itemInput, error) {
	if cmd.title == "" {
		return cmd.reader.Read()
	}

	return itemInput{
		Key:            cmd.key,
		Title:          cmd.title,
		Assignee:       cmd.assignee,
		Reviewer:       cmd.reviewer,
		ReportTo:       cmd.reportTo,
		EstimatedHours: cmd.estimate,
		RepeatUntil:    cmd.repeatUntil,
		Recurrence:     json.RawMessage(cmd.recurrence),
	}, nil
}
