package notify

import "context"

// NoopNotifier discards every notification. Used when the queue is not
// configured and in tests that do not assert on notifications.
type NoopNotifier struct{}

var _ Notifier = NoopNotifier{}

func (NoopNotifier) SendInvite(ctx context.Context, payload InvitePayload) error {
	return nil
}

func (NoopNotifier) SendTaskEvent(ctx context.Context, eventType string, payload TaskEventPayload) error {
	return nil
}
