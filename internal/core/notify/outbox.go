package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Outbox is a Dispatcher that records every notification in a store and logs
// the delivery. It stands in for the host platform's mail transport; swapping
// in a real transport only requires another Dispatcher.
type Outbox struct {
	store Store
	log   zerolog.Logger
}

var _ Dispatcher = (*Outbox)(nil)

// NewOutbox creates a store-backed dispatcher.
func NewOutbox(store Store, log zerolog.Logger) *Outbox {
	return &Outbox{
		store: store,
		log:   log.With().Str("component", "notify").Logger(),
	}
}

// Send records the notification. Notifications without any resolvable
// recipient are logged and dropped, never surfaced as an error.
func (o *Outbox) Send(ctx context.Context, n Notification) error {
	if len(n.Recipients) == 0 {
		o.log.Warn().
			Str("item", n.ItemKey).
			Str("subject", n.Subject).
			Msg("no recipients with contact info, dropping notification")
		return nil
	}

	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	if err := o.store.Save(ctx, n); err != nil {
		return fmt.Errorf("save notification: %w", err)
	}

	o.log.Info().
		Str("item", n.ItemKey).
		Str("subject", n.Subject).
		Strs("recipients", n.Recipients).
		Msg("notification dispatched")

	return nil
}
