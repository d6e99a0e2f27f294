package alerting

import (
	"context"
	"errors"
)

// Notification is a rendered alert ready for delivery.
type Notification struct {
	Title string
	Body  string
}

// Notifier delivers a notification to one channel.
type Notifier interface {
	Notify(ctx context.Context, note Notification) error
}

// Fanout delivers to every configured channel. Any channel failure is
// reported so the caller does not advance its dedupe state; at-least-once
// alerting is the chosen tradeoff.
type Fanout []Notifier

// Notify dispatches the notification to all channels.
func (f Fanout) Notify(ctx context.Context, note Notification) error {
	var errs []error
	for _, n := range f {
		if err := n.Notify(ctx, note); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var _ Notifier = (Fanout)(nil)
