// Package notify defines the notification boundary: how reminder and
// lifecycle messages reach work item collaborators.
package notify

import (
	"context"
	"time"
)

// Notification represents a single message addressed to collaborators of a
// work item.
type Notification struct {
	ID         string    `json:"id"`
	ItemKey    string    `json:"item_key"`
	Subject    string    `json:"subject"`
	Message    string    `json:"message"`
	Recipients []string  `json:"recipients"` // resolved email addresses
	CreatedAt  time.Time `json:"created_at"`
}

// Store persists dispatched notifications to durable storage.
type Store interface {
	Save(ctx context.Context, n Notification) error
	ListByItem(ctx context.Context, itemKey string) ([]Notification, error)
	Count(ctx context.Context) (int64, error)
}

// Dispatcher delivers notifications. Delivery failure for individual
// recipients is not propagated as a hard error; the triggering operation
// must never be blocked by a missing mailbox.
type Dispatcher interface {
	Send(ctx context.Context, n Notification) error
}
