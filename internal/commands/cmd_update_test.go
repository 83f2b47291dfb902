package commands

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/taskstream/internal/core/workitem"
)

func storedItem() workitem.WorkItem {
	return workitem.WorkItem{
		Key:            "prep-standup",
		Title:          "Prep standup",
		Status:         workitem.StatusInProgress,
		Assignee:       "ada",
		Reviewer:       "grace",
		EstimatedHours: 2,
		Recurrence:     workitem.Daily{Hours: []int{9}},
	}
}

func TestOverlayInput_AppliesProvidedFields(t *testing.T) {
	item := storedItem()

	err := overlayInput(&item, itemInput{
		EstimatedHours: 3,
		ActualHours:    2.5,
		Recurrence:     json.RawMessage(`{"kind":"weekly","spec":{"weekdays":[1],"hours":[10],"every":1}}`),
	})
	require.NoError(t, err)

	assert.Equal(t, 3.0, item.EstimatedHours)
	assert.Equal(t, 2.5, item.ActualHours)
	assert.Equal(t, workitem.Weekly{Weekdays: []time.Weekday{time.Monday}, Hours: []int{10}, Every: 1}, item.Recurrence)

	// Untouched fields keep their stored values.
	assert.Equal(t, "Prep standup", item.Title)
	assert.Equal(t, "ada", item.Assignee)
	assert.Equal(t, workitem.StatusInProgress, item.Status)
}

func TestOverlayInput_ZeroValuesLeaveItemAlone(t *testing.T) {
	item := storedItem()

	err := overlayInput(&item, itemInput{})
	require.NoError(t, err)

	assert.Equal(t, storedItem(), item)
}

func TestOverlayInput_ParseFailures(t *testing.T) {
	item := storedItem()

	err := overlayInput(&item, itemInput{RepeatUntil: "31-12-2026"})
	assert.ErrorContains(t, err, "parse repeat_until")

	err = overlayInput(&item, itemInput{Recurrence: json.RawMessage(`{"kind":"hourly"}`)})
	assert.ErrorContains(t, err, "parse recurrence")
}
