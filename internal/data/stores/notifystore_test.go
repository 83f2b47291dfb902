package stores

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/taskstream/internal/core/notify"
	"github.com/colonyops/taskstream/internal/data/db"
)

func newTestNotifyStore(t *testing.T) *NotifyStore {
	t.Helper()
	database, err := db.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return NewNotifyStore(database)
}

func TestNotifyStore_SaveAndList(t *testing.T) {
	ctx := context.Background()
	store := newTestNotifyStore(t)
	now := time.Date(2026, 3, 2, 16, 0, 0, 0, time.UTC)

	first := notify.Notification{
		ID:         "n1",
		ItemKey:    "prep-standup",
		Subject:    "Reminder",
		Message:    "20% remaining",
		Recipients: []string{"ada@example.com"},
		CreatedAt:  now,
	}
	second := first
	second.ID = "n2"
	second.Subject = "Deadline"
	second.CreatedAt = now.Add(time.Hour)

	other := first
	other.ID = "n3"
	other.ItemKey = "other-item"

	require.NoError(t, store.Save(ctx, first))
	require.NoError(t, store.Save(ctx, second))
	require.NoError(t, store.Save(ctx, other))

	got, err := store.ListByItem(ctx, "prep-standup")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "n1", got[0].ID)
	assert.Equal(t, "n2", got[1].ID)
	assert.Equal(t, []string{"ada@example.com"}, got[0].Recipients)
	assert.True(t, now.Equal(got[0].CreatedAt))
}

func TestNotifyStore_SaveDuplicateIsNoop(t *testing.T) {
	ctx := context.Background()
	store := newTestNotifyStore(t)

	n := notify.Notification{
		ID:         "n1",
		ItemKey:    "prep-standup",
		Subject:    "Reminder",
		Message:    "20% remaining",
		Recipients: []string{"ada@example.com"},
		CreatedAt:  time.Now(),
	}

	require.NoError(t, store.Save(ctx, n))
	require.NoError(t, store.Save(ctx, n))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestNotifyStore_Count(t *testing.T) {
	ctx := context.Background()
	store := newTestNotifyStore(t)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}
