package commands

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/taskstream/internal/core/workitem"
)

func TestItemInput_ToWorkItem(t *testing.T) {
	in := itemInput{
		Key:            "prep-standup",
		Title:          "Prep standup",
		Assignee:       "ada",
		Reviewer:       "grace",
		EstimatedHours: 1.5,
		RepeatUntil:    "2026-12-31",
		Recurrence:     json.RawMessage(`{"kind":"weekly","spec":{"weekdays":[1],"hours":[10],"every":1}}`),
	}

	item, err := in.toWorkItem()
	require.NoError(t, err)

	assert.Equal(t, "prep-standup", item.Key)
	assert.Equal(t, 1.5, item.EstimatedHours)
	assert.Equal(t, 2026, item.RepeatUntil.Year())
	assert.Equal(t, time.December, item.RepeatUntil.Month())
	assert.Equal(t, workitem.Weekly{Weekdays: []time.Weekday{time.Monday}, Hours: []int{10}, Every: 1}, item.Recurrence)
}

func TestItemInput_ToWorkItem_Defaults(t *testing.T) {
	item, err := itemInput{Key: "k", Title: "t"}.toWorkItem()
	require.NoError(t, err)
	assert.Nil(t, item.Recurrence, "unset recurrence is defaulted by the service, not the command")
	assert.True(t, item.RepeatUntil.IsZero())
}

func TestItemInput_ToWorkItem_ParseFailures(t *testing.T) {
	_, err := itemInput{RepeatUntil: "31-12-2026"}.toWorkItem()
	assert.ErrorContains(t, err, "parse repeat_until")

	_, err = itemInput{Recurrence: json.RawMessage(`{"kind":"hourly"}`)}.toWorkItem()
	assert.ErrorContains(t, err, "parse recurrence")
}
