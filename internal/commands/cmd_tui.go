package commands

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/taskstream/internal/taskstream"
	"github.com/colonyops/taskstream/internal/tui"
)

type TuiCmd struct {
	flags *Flags
	app   *taskstream.App
}

// NewTuiCmd creates a new tui command
func NewTuiCmd(flags *Flags, app *taskstream.App) *TuiCmd {
	return &TuiCmd{flags: flags, app: app}
}

// Run executes the TUI. Exported for use as default command.
func (cmd *TuiCmd) Run(ctx context.Context, _ *cli.Command) error {
	m := tui.New(tui.Deps{Items: cmd.app.Items})

	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}

	return nil
}
