package commands

import (
	"context"
	"fmt"

	"github.com/colonyops/taskstream/internal/taskstream"
	"github.com/colonyops/taskstream/internal/taskstream/sweep"
	"github.com/urfave/cli/v3"
)

type SweepCmd struct {
	flags *Flags
	app   *taskstream.App

	// flags
	watch bool
}

// NewSweepCmd creates a new sweep command
func NewSweepCmd(flags *Flags, app *taskstream.App) *SweepCmd {
	return &SweepCmd{flags: flags, app: app}
}

// Register adds the sweep command to the application
func (cmd *SweepCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "sweep",
		Usage:     "Run a reminder sweep",
		UsageText: "taskstream sweep [--watch]",
		Description: `Checks every in-progress item for a due 20% or deadline reminder and
dispatches notifications for exact-minute matches.

A single pass runs by default, suitable for cron. With --watch the sweep
repeats at the configured interval until interrupted.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "watch",
				Aliases:     []string{"w"},
				Usage:       "keep sweeping at the configured interval",
				Destination: &cmd.watch,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *SweepCmd) run(ctx context.Context, c *cli.Command) error {
	if cmd.watch {
		fmt.Fprintf(c.Root().Writer, "Sweeping every %s, press ctrl+c to stop\n", cmd.flags.Config.Reminders.SweepInterval)
		sweep.Start(ctx, cmd.app.Reminders, cmd.flags.Config.Reminders.SweepInterval)
		return nil
	}

	cmd.app.Reminders.Sweep(ctx)
	return nil
}
