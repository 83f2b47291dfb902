// Package stores provides SQLite-backed implementations of the domain store
// interfaces.
package stores

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/colonyops/taskstream/internal/core/workitem"
	"github.com/colonyops/taskstream/internal/data/db"
)

// WorkItemStore implements workitem.Store using SQLite.
type WorkItemStore struct {
	db *db.DB
}

var _ workitem.Store = (*WorkItemStore)(nil)

// NewWorkItemStore creates a new SQLite-backed work item store.
func NewWorkItemStore(db *db.DB) *WorkItemStore {
	return &WorkItemStore{db: db}
}

const workItemColumns = `key, title, assignee, reviewer, report_to, status,
	estimated_hours, actual_hours, start_time, recurrence, repeat_until, next_reminders,
	planned_end, twenty_percent_reminder_at, twenty_percent_reminder_sent,
	deadline_reminder_sent, revision_count, rework_count, score, activities,
	created_at, updated_at`

// Get returns a work item by key. Returns ErrNotFound if not found.
func (s *WorkItemStore) Get(ctx context.Context, key string) (workitem.WorkItem, error) {
	row := s.db.Conn().QueryRowContext(ctx,
		`SELECT `+workItemColumns+` FROM work_items WHERE key = ?`, key)

	item, err := scanWorkItem(row)
	if IsNotFoundError(err) {
		return workitem.WorkItem{}, workitem.ErrNotFound
	}
	if err != nil {
		return workitem.WorkItem{}, fmt.Errorf("get work item: %w", err)
	}

	return item, nil
}

// List returns all work items ordered by creation time.
func (s *WorkItemStore) List(ctx context.Context) ([]workitem.WorkItem, error) {
	rows, err := s.db.Conn().QueryContext(ctx,
		`SELECT `+workItemColumns+` FROM work_items ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list work items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectWorkItems(rows)
}

// Save creates or updates a work item.
func (s *WorkItemStore) Save(ctx context.Context, item workitem.WorkItem) error {
	recurrenceJSON, err := workitem.MarshalRecurrence(item.Recurrence)
	if err != nil {
		return fmt.Errorf("marshal recurrence: %w", err)
	}

	remindersJSON, err := marshalInstants(item.NextReminders)
	if err != nil {
		return fmt.Errorf("marshal reminders: %w", err)
	}

	activitiesJSON, err := json.Marshal(item.Activities)
	if err != nil {
		return fmt.Errorf("marshal activities: %w", err)
	}

	var score sql.NullFloat64
	if item.Score != nil {
		score = sql.NullFloat64{Float64: *item.Score, Valid: true}
	}

	_, err = s.db.Conn().ExecContext(ctx, `
		INSERT INTO work_items (`+workItemColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			title = excluded.title,
			assignee = excluded.assignee,
			reviewer = excluded.reviewer,
			report_to = excluded.report_to,
			status = excluded.status,
			estimated_hours = excluded.estimated_hours,
			actual_hours = excluded.actual_hours,
			start_time = excluded.start_time,
			recurrence = excluded.recurrence,
			repeat_until = excluded.repeat_until,
			next_reminders = excluded.next_reminders,
			planned_end = excluded.planned_end,
			twenty_percent_reminder_at = excluded.twenty_percent_reminder_at,
			twenty_percent_reminder_sent = excluded.twenty_percent_reminder_sent,
			deadline_reminder_sent = excluded.deadline_reminder_sent,
			revision_count = excluded.revision_count,
			rework_count = excluded.rework_count,
			score = excluded.score,
			activities = excluded.activities,
			updated_at = excluded.updated_at`,
		item.Key, item.Title, item.Assignee, item.Reviewer, item.ReportTo,
		string(item.Status), item.EstimatedHours, item.ActualHours, toNullTime(item.StartTime),
		string(recurrenceJSON), toNullTime(item.RepeatUntil),
		string(remindersJSON), toNullTime(item.PlannedEnd),
		toNullTime(item.TwentyPercentReminderAt), item.TwentyPercentReminderSent,
		item.DeadlineReminderSent, item.RevisionCount, item.ReworkCount,
		score, string(activitiesJSON),
		item.CreatedAt.UnixNano(), item.UpdatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("save work item: %w", err)
	}

	return nil
}

// Delete removes a work item by key. Returns ErrNotFound if not found.
func (s *WorkItemStore) Delete(ctx context.Context, key string) error {
	res, err := s.db.Conn().ExecContext(ctx, `DELETE FROM work_items WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("delete work item: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete work item: %w", err)
	}
	if affected == 0 {
		return workitem.ErrNotFound
	}

	return nil
}

// ListDueTwentyPercent returns in-progress items whose remaining-time
// reminder instant equals the given minute and hasn't been sent.
func (s *WorkItemStore) ListDueTwentyPercent(ctx context.Context, minute time.Time) ([]workitem.WorkItem, error) {
	rows, err := s.db.Conn().QueryContext(ctx,
		`SELECT `+workItemColumns+` FROM work_items
		WHERE status = ? AND twenty_percent_reminder_sent = 0 AND twenty_percent_reminder_at = ?`,
		string(workitem.StatusInProgress), minute.Truncate(time.Minute).UnixNano())
	if err != nil {
		return nil, fmt.Errorf("list due twenty percent: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectWorkItems(rows)
}

// ListDueDeadline returns in-progress items whose planned end equals the
// given minute and whose deadline reminder hasn't been sent.
func (s *WorkItemStore) ListDueDeadline(ctx context.Context, minute time.Time) ([]workitem.WorkItem, error) {
	rows, err := s.db.Conn().QueryContext(ctx,
		`SELECT `+workItemColumns+` FROM work_items
		WHERE status = ? AND deadline_reminder_sent = 0 AND planned_end = ?`,
		string(workitem.StatusInProgress), minute.Truncate(time.Minute).UnixNano())
	if err != nil {
		return nil, fmt.Errorf("list due deadline: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectWorkItems(rows)
}

// MarkTwentyPercentSent latches the remaining-time reminder flag.
func (s *WorkItemStore) MarkTwentyPercentSent(ctx context.Context, key string) error {
	return s.markSent(ctx, key, "twenty_percent_reminder_sent")
}

// MarkDeadlineSent latches the deadline reminder flag.
func (s *WorkItemStore) MarkDeadlineSent(ctx context.Context, key string) error {
	return s.markSent(ctx, key, "deadline_reminder_sent")
}

func (s *WorkItemStore) markSent(ctx context.Context, key, column string) error {
	res, err := s.db.Conn().ExecContext(ctx,
		`UPDATE work_items SET `+column+` = 1 WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("mark %s: %w", column, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark %s: %w", column, err)
	}
	if affected == 0 {
		return workitem.ErrNotFound
	}

	return nil
}

// scanner abstracts sql.Row and sql.Rows for shared scanning.
type scanner interface {
	Scan(dest ...any) error
}

func scanWorkItem(row scanner) (workitem.WorkItem, error) {
	var (
		item           workitem.WorkItem
		status         string
		startTime      sql.NullInt64
		recurrenceJSON string
		repeatUntil    sql.NullInt64
		remindersJSON  sql.NullString
		plannedEnd     sql.NullInt64
		twentyAt       sql.NullInt64
		score          sql.NullFloat64
		activitiesJSON sql.NullString
		createdAt      int64
		updatedAt      int64
	)

	err := row.Scan(
		&item.Key, &item.Title, &item.Assignee, &item.Reviewer, &item.ReportTo,
		&status, &item.EstimatedHours, &item.ActualHours, &startTime, &recurrenceJSON, &repeatUntil,
		&remindersJSON, &plannedEnd, &twentyAt, &item.TwentyPercentReminderSent,
		&item.DeadlineReminderSent, &item.RevisionCount, &item.ReworkCount,
		&score, &activitiesJSON, &createdAt, &updatedAt,
	)
	if err != nil {
		return workitem.WorkItem{}, err
	}

	item.Status = workitem.Status(status)
	item.StartTime = fromNullTime(startTime)
	item.RepeatUntil = fromNullTime(repeatUntil)
	item.PlannedEnd = fromNullTime(plannedEnd)
	item.TwentyPercentReminderAt = fromNullTime(twentyAt)
	item.CreatedAt = time.Unix(0, createdAt)
	item.UpdatedAt = time.Unix(0, updatedAt)

	if score.Valid {
		v := score.Float64
		item.Score = &v
	}

	item.Recurrence, err = workitem.UnmarshalRecurrence([]byte(recurrenceJSON))
	if err != nil {
		return workitem.WorkItem{}, fmt.Errorf("unmarshal recurrence: %w", err)
	}

	item.NextReminders, err = unmarshalInstants(remindersJSON)
	if err != nil {
		return workitem.WorkItem{}, fmt.Errorf("unmarshal reminders: %w", err)
	}

	if activitiesJSON.Valid && activitiesJSON.String != "" {
		if err := json.Unmarshal([]byte(activitiesJSON.String), &item.Activities); err != nil {
			return workitem.WorkItem{}, fmt.Errorf("unmarshal activities: %w", err)
		}
	}

	return item, nil
}

func collectWorkItems(rows *sql.Rows) ([]workitem.WorkItem, error) {
	var items []workitem.WorkItem
	for rows.Next() {
		item, err := scanWorkItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan work item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate work items: %w", err)
	}
	return items, nil
}

// marshalInstants encodes instants as a JSON array of unix nanoseconds.
func marshalInstants(ts []time.Time) ([]byte, error) {
	nanos := make([]int64, 0, len(ts))
	for _, t := range ts {
		nanos = append(nanos, t.UnixNano())
	}
	return json.Marshal(nanos)
}

func unmarshalInstants(s sql.NullString) ([]time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}

	var nanos []int64
	if err := json.Unmarshal([]byte(s.String), &nanos); err != nil {
		return nil, err
	}

	ts := make([]time.Time, 0, len(nanos))
	for _, n := range nanos {
		ts = append(ts, time.Unix(0, n))
	}
	return ts, nil
}

func toNullTime(t time.Time) sql.NullInt64 {
	if t.IsZero() {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UnixNano(), Valid: true}
}

func fromNullTime(n sql.NullInt64) time.Time {
	if !n.Valid {
		return time.Time{}
	}
	return time.Unix(0, n.Int64)
}
