package workitem

import (
	"context"
	"errors"
	"time"
)

// Store errors.
var (
	ErrNotFound  = errors.New("work item not found")
	ErrDuplicate = errors.New("work item key already exists")
)

// ErrInvalidTransition is returned when a lifecycle operation is invoked on
// an item whose current status doesn't allow it.
var ErrInvalidTransition = errors.New("illegal status transition")

// Store persists work items.
type Store interface {
	Get(ctx context.Context, key string) (WorkItem, error)
	List(ctx context.Context) ([]WorkItem, error)
	Save(ctx context.Context, item WorkItem) error
	Delete(ctx context.Context, key string) error

	// ListDueTwentyPercent returns in-progress items whose 20%-remaining
	// reminder instant equals the given minute and hasn't been sent yet.
	ListDueTwentyPercent(ctx context.Context, minute time.Time) ([]WorkItem, error)
	// ListDueDeadline returns in-progress items whose planned end equals
	// the given minute and whose deadline reminder hasn't been sent yet.
	ListDueDeadline(ctx context.Context, minute time.Time) ([]WorkItem, error)

	// MarkTwentyPercentSent latches the 20% reminder flag for one item.
	MarkTwentyPercentSent(ctx context.Context, key string) error
	// MarkDeadlineSent latches the deadline reminder flag for one item.
	MarkDeadlineSent(ctx context.Context, key string) error
}
