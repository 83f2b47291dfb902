// Package tui implements the Bubble Tea work item board.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/colonyops/taskstream/internal/core/styles"
	"github.com/colonyops/taskstream/internal/core/workitem"
	"github.com/colonyops/taskstream/internal/taskstream"
)

const refreshInterval = 30 * time.Second

// Deps are the services the board reads from and acts on.
type Deps struct {
	Items *taskstream.ItemService
}

// Model is the board model: a table of work items with lifecycle actions
// bound to single keys.
type Model struct {
	deps  Deps
	table table.Model
	items []workitem.WorkItem

	status string
	err    error

	width  int
	height int
}

type itemsLoadedMsg []workitem.WorkItem

type actionDoneMsg struct {
	status string
}

type errMsg struct {
	err error
}

type refreshTickMsg struct{}

// New creates a board model.
func New(deps Deps) Model {
	cols := []table.Column{
		{Title: "KEY", Width: 16},
		{Title: "TITLE", Width: 32},
		{Title: "ASSIGNEE", Width: 12},
		{Title: "STATUS", Width: 14},
		{Title: "PLANNED END", Width: 17},
		{Title: "SCORE", Width: 8},
	}

	t := table.New(
		table.WithColumns(cols),
		table.WithFocused(true),
		table.WithHeight(16),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.ColorSurface).
		BorderBottom(true).
		Bold(true).
		Foreground(styles.ColorPrimary)
	s.Selected = s.Selected.
		Foreground(styles.ColorForeground).
		Background(styles.ColorSurface).
		Bold(false)
	t.SetStyles(s)

	return Model{deps: deps, table: t}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadItems(), refreshTick())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetHeight(max(4, msg.Height-6))
		return m, nil

	case itemsLoadedMsg:
		m.items = msg
		m.err = nil
		m.table.SetRows(buildRows(msg))
		return m, nil

	case actionDoneMsg:
		m.status = msg.status
		m.err = nil
		return m, m.loadItems()

	case errMsg:
		m.err = msg.err
		return m, nil

	case refreshTickMsg:
		return m, tea.Batch(m.loadItems(), refreshTick())

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r":
			m.status = "refreshed"
			return m, m.loadItems()
		case "s":
			return m.runAction("started", m.deps.Items.StartNow)
		case "v":
			return m.runAction("sent for review", m.deps.Items.SendForReview)
		case "c":
			return m.runAction("completed", m.deps.Items.MarkComplete)
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	header := styles.TitleStyle.Render("taskstream") +
		styles.StatusBarStyle.Render(fmt.Sprintf("  %d item(s)", len(m.items)))
	if summary := statusSummary(m.items); summary != "" {
		header += "  " + summary
	}

	footer := styles.HelpStyle.Render("s start • v review • c complete • r refresh • q quit")

	var status string
	switch {
	case m.err != nil:
		status = styles.ErrorStyle.Render(m.err.Error())
	case m.status != "":
		status = styles.SuccessStyle.Render(m.status)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		m.table.View(),
		status,
		footer,
	)
}

// runAction applies a lifecycle operation to the selected row.
func (m Model) runAction(verb string, fn func(context.Context, string) (workitem.WorkItem, error)) (tea.Model, tea.Cmd) {
	row := m.table.SelectedRow()
	if row == nil {
		return m, nil
	}
	key := row[0]

	return m, func() tea.Msg {
		item, err := fn(context.Background(), key)
		if err != nil {
			return errMsg{err: err}
		}
		return actionDoneMsg{status: fmt.Sprintf("%s %s", verb, item.Key)}
	}
}

func (m Model) loadItems() tea.Cmd {
	return func() tea.Msg {
		items, err := m.deps.Items.List(context.Background())
		if err != nil {
			return errMsg{err: err}
		}
		return itemsLoadedMsg(items)
	}
}

func refreshTick() tea.Cmd {
	return tea.Tick(refreshInterval, func(time.Time) tea.Msg {
		return refreshTickMsg{}
	})
}

// statusSummary renders per-state counts in the state's palette color.
func statusSummary(items []workitem.WorkItem) string {
	counts := map[workitem.Status]int{}
	for _, w := range items {
		counts[w.Status]++
	}

	var parts []string
	for _, st := range []workitem.Status{
		workitem.StatusTodo,
		workitem.StatusInProgress,
		workitem.StatusUnderReview,
		workitem.StatusRework,
		workitem.StatusDone,
	} {
		if n := counts[st]; n > 0 {
			parts = append(parts, styles.StatusStyle(st).Render(fmt.Sprintf("%d %s", n, st)))
		}
	}
	return strings.Join(parts, "  ")
}

func buildRows(items []workitem.WorkItem) []table.Row {
	rows := make([]table.Row, 0, len(items))
	for _, w := range items {
		plannedEnd := "-"
		if !w.PlannedEnd.IsZero() {
			plannedEnd = w.PlannedEnd.Format("2006-01-02 15:04")
		}

		score := "-"
		if w.Score != nil {
			score = fmt.Sprintf("%.2f", *w.Score)
		}

		rows = append(rows, table.Row{
			w.Key,
			w.Title,
			w.Assignee,
			string(w.Status),
			plannedEnd,
			score,
		})
	}
	return rows
}
