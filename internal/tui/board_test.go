package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/taskstream/internal/core/workitem"
)

func TestBuildRows(t *testing.T) {
	score := -30.0
	items := []workitem.WorkItem{
		{
			Key:        "prep-standup",
			Title:      "Prep standup",
			Assignee:   "ada",
			Status:     workitem.StatusDone,
			PlannedEnd: time.Date(2026, 3, 2, 12, 30, 0, 0, time.UTC),
			Score:      &score,
		},
		{
			Key:      "write-report",
			Title:    "Write report",
			Assignee: "grace",
			Status:   workitem.StatusTodo,
		},
	}

	rows := buildRows(items)
	require.Len(t, rows, 2)

	assert.Equal(t, "prep-standup", rows[0][0])
	assert.Equal(t, "done", rows[0][3])
	assert.Equal(t, "2026-03-02 12:30", rows[0][4])
	assert.Equal(t, "-30.00", rows[0][5])

	// Unset derived fields render as placeholders.
	assert.Equal(t, "-", rows[1][4])
	assert.Equal(t, "-", rows[1][5])
}

func TestStatusSummary(t *testing.T) {
	summary := statusSummary([]workitem.WorkItem{
		{Key: "a", Status: workitem.StatusTodo},
		{Key: "b", Status: workitem.StatusTodo},
		{Key: "c", Status: workitem.StatusDone},
	})

	assert.Contains(t, summary, "2 todo")
	assert.Contains(t, summary, "1 done")

	assert.Empty(t, statusSummary(nil))
}

func TestModel_Update(t *testing.T) {
	m := New(Deps{})

	next, _ := m.Update(itemsLoadedMsg([]workitem.WorkItem{{Key: "prep-standup", Status: workitem.StatusTodo}}))
	model := next.(Model)
	assert.Len(t, model.items, 1)
	assert.Contains(t, model.View(), "prep-standup")

	next, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	model = next.(Model)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
