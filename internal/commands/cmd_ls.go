package commands

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/colonyops/taskstream/internal/core/workitem"
	"github.com/colonyops/taskstream/internal/taskstream"
	"github.com/colonyops/taskstream/pkg/iojson"
	"github.com/urfave/cli/v3"
)

type LsCmd struct {
	flags *Flags
	app   *taskstream.App

	// flags
	jsonOutput bool
	status     string
	assignee   string
}

// NewLsCmd creates a new ls command
func NewLsCmd(flags *Flags, app *taskstream.App) *LsCmd {
	return &LsCmd{flags: flags, app: app}
}

// Register adds the ls command to the application
func (cmd *LsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "ls",
		Usage:     "List work items",
		UsageText: "taskstream ls [--json] [--status s] [--assignee a]",
		Description: `Displays a table of work items with status, planned end, and score.

Use --json for line-delimited JSON output with additional fields like the
next reminder instant.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON lines",
				Destination: &cmd.jsonOutput,
			},
			&cli.StringFlag{
				Name:        "status",
				Aliases:     []string{"s"},
				Usage:       "only show items with this status",
				Destination: &cmd.status,
			},
			&cli.StringFlag{
				Name:        "assignee",
				Aliases:     []string{"a"},
				Usage:       "only show items assigned to this identity",
				Destination: &cmd.assignee,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *LsCmd) run(ctx context.Context, c *cli.Command) error {
	items, err := cmd.app.Items.List(ctx)
	if err != nil {
		return fmt.Errorf("list work items: %w", err)
	}

	items = slices.DeleteFunc(items, func(w workitem.WorkItem) bool {
		if cmd.status != "" && string(w.Status) != cmd.status {
			return true
		}
		if cmd.assignee != "" && w.Assignee != cmd.assignee {
			return true
		}
		return false
	})

	if len(items) == 0 {
		if !cmd.jsonOutput {
			fmt.Fprintf(os.Stderr, "No work items found\n")
		}
		return nil
	}

	slices.SortFunc(items, func(a, b workitem.WorkItem) int {
		return strings.Compare(a.Key, b.Key)
	})

	out := c.Root().Writer

	// JSON output mode
	if cmd.jsonOutput {
		for _, w := range items {
			if err := iojson.WriteLine(out, buildItemInfo(w)); err != nil {
				return fmt.Errorf("encode work item: %w", err)
			}
		}
		return nil
	}

	// Table output mode
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "KEY\tTITLE\tASSIGNEE\tSTATUS\tPLANNED END\tSCORE")

	for _, item := range items {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			item.Key,
			item.Title,
			item.Assignee,
			item.Status,
			formatInstant(item.PlannedEnd),
			formatScore(item.Score),
		)
	}

	return w.Flush()
}

// itemInfo is the JSON output format for taskstream ls --json.
type itemInfo struct {
	Key          string   `json:"key"`
	Title        string   `json:"title"`
	Assignee     string   `json:"assignee"`
	Reviewer     string   `json:"reviewer"`
	Status       string   `json:"status"`
	PlannedEnd   string   `json:"planned_end,omitempty"`
	NextReminder string   `json:"next_reminder,omitempty"`
	Score        *float64 `json:"score,omitempty"`
	ReworkCount  int      `json:"rework_count"`
}

func buildItemInfo(w workitem.WorkItem) itemInfo {
	info := itemInfo{
		Key:         w.Key,
		Title:       w.Title,
		Assignee:    w.Assignee,
		Reviewer:    w.Reviewer,
		Status:      string(w.Status),
		Score:       w.Score,
		ReworkCount: w.ReworkCount,
	}

	if !w.PlannedEnd.IsZero() {
		info.PlannedEnd = w.PlannedEnd.Format(time.DateTime)
	}
	if len(w.NextReminders) > 0 {
		info.NextReminder = w.NextReminders[0].Format(time.DateTime)
	}

	return info
}

func formatInstant(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04")
}

func formatScore(score *float64) string {
	if score == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *score)
}
