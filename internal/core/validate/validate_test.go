package validate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/taskstream/internal/core/workitem"
)

func validItem() workitem.WorkItem {
	return workitem.WorkItem{
		Key:            "prep-standup",
		Title:          "Prep standup",
		Assignee:       "ada",
		Reviewer:       "grace",
		Status:         workitem.StatusTodo,
		EstimatedHours: 1,
		Recurrence:     workitem.OneTime{},
	}
}

func TestItemKey(t *testing.T) {
	assert.NoError(t, ItemKey("prep-standup"))
	assert.Error(t, ItemKey(""))
	assert.Error(t, ItemKey("   "))
}

func TestWorkItem(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*workitem.WorkItem)
		wantErr string
	}{
		{
			name:   "valid item",
			mutate: func(w *workitem.WorkItem) {},
		},
		{
			name:    "missing key",
			mutate:  func(w *workitem.WorkItem) { w.Key = " " },
			wantErr: "key is required",
		},
		{
			name:    "reviewer matches assignee",
			mutate:  func(w *workitem.WorkItem) { w.Reviewer = w.Assignee },
			wantErr: "assignee and reviewer cannot be the same",
		},
		{
			name:    "unknown status",
			mutate:  func(w *workitem.WorkItem) { w.Status = "open" },
			wantErr: "unknown status",
		},
		{
			name: "periodic recurrence without repeat until",
			mutate: func(w *workitem.WorkItem) {
				w.Recurrence = workitem.Daily{Hours: []int{9}}
			},
			wantErr: "repeat until date is required",
		},
		{
			name: "periodic recurrence with repeat until",
			mutate: func(w *workitem.WorkItem) {
				w.Recurrence = workitem.Daily{Hours: []int{9}}
				w.RepeatUntil = time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
			},
		},
		{
			name: "recurrence field errors are prefixed",
			mutate: func(w *workitem.WorkItem) {
				w.Recurrence = workitem.MonthlyByDate{Days: []int{0}, Hours: []int{9}, Every: 1}
				w.RepeatUntil = time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
			},
			wantErr: "recurrence.days[0]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := validItem()
			tt.mutate(&item)

			err := WorkItem(item)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
