package workitem

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_CanTransition(t *testing.T) {
	tests := []struct {
		name string
		from Status
		to   Status
		want bool
	}{
		{"todo to in progress", StatusTodo, StatusInProgress, true},
		{"in progress to under review", StatusInProgress, StatusUnderReview, true},
		{"under review to done", StatusUnderReview, StatusDone, true},
		{"under review to rework", StatusUnderReview, StatusRework, true},
		{"rework to todo", StatusRework, StatusTodo, true},
		{"todo to done skips review", StatusTodo, StatusDone, false},
		{"in progress to done skips review", StatusInProgress, StatusDone, false},
		{"done is terminal", StatusDone, StatusTodo, false},
		{"no backwards to in progress", StatusUnderReview, StatusInProgress, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransition(tt.to))
		})
	}
}

func TestStatus_Valid(t *testing.T) {
	for _, s := range []Status{StatusTodo, StatusInProgress, StatusUnderReview, StatusRework, StatusDone} {
		assert.True(t, s.Valid(), "status %q", s)
	}
	assert.False(t, Status("open").Valid())
	assert.False(t, Status("").Valid())
}

func TestStatus_Terminal(t *testing.T) {
	assert.True(t, StatusDone.Terminal())
	assert.False(t, StatusRework.Terminal())
}

func TestWorkItem_LatestActivity(t *testing.T) {
	base := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	item := WorkItem{}
	item.AppendActivity(ActionPlannedEnd, base, "")
	item.AppendActivity(ActionActualEnd, base.Add(time.Hour), "")
	// A correction is appended, not edited in place. The later row wins
	// even though it was recorded after an earlier-timestamped one.
	item.AppendActivity(ActionPlannedEnd, base.Add(2*time.Hour), "replanned")
	item.AppendActivity(ActionPlannedEnd, base.Add(30*time.Minute), "stale")

	got, ok := item.LatestActivity(ActionPlannedEnd)
	require.True(t, ok)
	assert.Equal(t, base.Add(2*time.Hour), got)

	got, ok = item.LatestActivity(ActionActualEnd)
	require.True(t, ok)
	assert.Equal(t, base.Add(time.Hour), got)

	_, ok = item.LatestActivity(ActionPlannedStart)
	assert.False(t, ok)
}

func TestWorkItem_AppendActivity_TruncatesToMinute(t *testing.T) {
	at := time.Date(2026, 3, 2, 10, 15, 42, 123456, time.UTC)

	item := WorkItem{}
	item.AppendActivity(ActionActualEnd, at, "")

	require.Len(t, item.Activities, 1)
	assert.Equal(t, time.Date(2026, 3, 2, 10, 15, 0, 0, time.UTC), item.Activities[0].At)
}
