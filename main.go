package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/taskstream/internal/commands"
	"github.com/colonyops/taskstream/internal/core/config"
	"github.com/colonyops/taskstream/internal/core/notify"
	"github.com/colonyops/taskstream/internal/data/db"
	"github.com/colonyops/taskstream/internal/data/stores"
	"github.com/colonyops/taskstream/internal/taskstream"
	"github.com/colonyops/taskstream/internal/taskstream/sweep"
	"github.com/colonyops/taskstream/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, build() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	// When installed via `go install module@version`, ldflags aren't set
	// so version remains "dev". Fall back to runtime/debug.BuildInfo which
	// Go populates automatically with the module version and VCS metadata.
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	ctx := context.Background()

	var (
		logCloser   func()
		tsApp       = &taskstream.App{}
		database    *db.DB
		sweepCancel context.CancelFunc
	)

	flags := &commands.Flags{}

	app := &cli.Command{
		Name:      "taskstream",
		Usage:     "Track recurring work items with shift-aware deadlines",
		UsageText: "taskstream [global options] command [command options]",
		Description: `Taskstream is a work item tracker with a recurrence engine. Items carry
a recurrence schedule that expands into concrete reminder instants, a
planned end projected across the assignee's shift calendar, and a
quality score computed on completion.

Run 'taskstream' with no arguments to open the interactive board.
Run 'taskstream sweep --watch' to serve reminders from a long-lived process.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("TASKSTREAM_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to the state dir, e.g. ~/.local/state/taskstream/taskstream.log)",
				Sources:     cli.EnvVars("TASKSTREAM_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("TASKSTREAM_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("TASKSTREAM_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			// Always log to a file so the TUI keeps a clean terminal.
			logFile := flags.LogFile
			if logFile == "" {
				logFile = commands.DefaultLogFile()
			}

			logger, closer, err := logutils.New(flags.LogLevel, logFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer

			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			flags.Config = cfg

			database, err = db.Open(cfg.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("open database: %w", err)
			}

			itemStore := stores.NewWorkItemStore(database)
			notifyStore := stores.NewNotifyStore(database)

			dispatcher := notify.NewOutbox(notifyStore, log.Logger)

			items := taskstream.NewItemService(itemStore, cfg, dispatcher, log.Logger)
			reminders := taskstream.NewReminderService(itemStore, cfg, dispatcher, log.Logger)

			// Start background reminder sweeps for the lifetime of the command
			sweepCtx, cancel := context.WithCancel(context.Background())
			sweepCancel = cancel
			go sweep.Start(sweepCtx, reminders, cfg.Reminders.SweepInterval)

			// Populate the pre-allocated App struct (commands already hold a pointer to it)
			*tsApp = *taskstream.NewApp(items, reminders, cfg, database, notifyStore)

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			// Stop background sweep
			if sweepCancel != nil {
				sweepCancel()
			}

			// Close database connection
			if database != nil {
				if err := database.Close(); err != nil {
					log.Error().Err(err).Msg("failed to close database")
					return err
				}
			}

			// Close log file
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	tuiCmd := commands.NewTuiCmd(flags, tsApp)

	app = commands.NewNewCmd(flags, tsApp).Register(app)
	app = commands.NewUpdateCmd(flags, tsApp).Register(app)
	app = commands.NewLsCmd(flags, tsApp).Register(app)
	app = commands.NewShowCmd(flags, tsApp).Register(app)
	app = commands.NewStartCmd(flags, tsApp).Register(app)
	app = commands.NewReviewCmd(flags, tsApp).Register(app)
	app = commands.NewCompleteCmd(flags, tsApp).Register(app)
	app = commands.NewReworkCmd(flags, tsApp).Register(app)
	app = commands.NewSweepCmd(flags, tsApp).Register(app)

	// Set TUI as default action when no subcommand is provided
	app.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'taskstream --help' for usage", c.Args().First())
		}
		return tuiCmd.Run(ctx, c)
	}

	exitCode := 0
	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Println()
		fmt.Println(err.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
