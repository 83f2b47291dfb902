package stores

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/colonyops/taskstream/internal/core/notify"
	"github.com/colonyops/taskstream/internal/data/db"
)

// NotifyStore implements notify.Store using SQLite.
type NotifyStore struct {
	db *db.DB
}

var _ notify.Store = (*NotifyStore)(nil)

// NewNotifyStore creates a new SQLite-backed notification store.
func NewNotifyStore(db *db.DB) *NotifyStore {
	return &NotifyStore{db: db}
}

// Save persists a dispatched notification. Re-saving the same ID is a no-op,
// so retried dispatches never double-record.
func (s *NotifyStore) Save(ctx context.Context, n notify.Notification) error {
	recipientsJSON, err := json.Marshal(n.Recipients)
	if err != nil {
		return fmt.Errorf("marshal recipients: %w", err)
	}

	_, err = s.db.Conn().ExecContext(ctx, `
		INSERT INTO notifications (id, item_key, subject, message, recipients, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		n.ID, n.ItemKey, n.Subject, n.Message, string(recipientsJSON), n.CreatedAt.UnixNano(),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil
		}
		return fmt.Errorf("save notification: %w", err)
	}

	return nil
}

// ListByItem returns all notifications recorded for a work item, oldest first.
func (s *NotifyStore) ListByItem(ctx context.Context, itemKey string) ([]notify.Notification, error) {
	rows, err := s.db.Conn().QueryContext(ctx, `
		SELECT id, item_key, subject, message, recipients, created_at
		FROM notifications WHERE item_key = ? ORDER BY created_at`,
		itemKey,
	)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []notify.Notification
	for rows.Next() {
		var (
			n              notify.Notification
			recipientsJSON string
			createdAt      int64
		)
		if err := rows.Scan(&n.ID, &n.ItemKey, &n.Subject, &n.Message, &recipientsJSON, &createdAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		if err := json.Unmarshal([]byte(recipientsJSON), &n.Recipients); err != nil {
			return nil, fmt.Errorf("unmarshal recipients: %w", err)
		}
		n.CreatedAt = time.Unix(0, createdAt)
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notifications: %w", err)
	}

	return out, nil
}

// Count returns the total number of recorded notifications.
func (s *NotifyStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.Conn().QueryRowContext(ctx, `SELECT COUNT(*) FROM notifications`).Scan(&count)
	if err != nil && err != sql.ErrNoRows {
		return 0, fmt.Errorf("count notifications: %w", err)
	}
	return count, nil
}
