package mocks

import (
	"context"
	"sync"

	"github.com/taskfleet/taskfleet/internal/notify"
)

// RecordedJob captures one enqueued notification for assertions.
type RecordedJob struct {
	Type   string
	Invite notify.InvitePayload
	Event  notify.TaskEventPayload
}

// RecorderNotifier implements notify.Notifier, recording every job
// instead of enqueueing it.
type RecorderNotifier struct {
	mu   sync.Mutex
	Jobs []RecordedJob
	Err  error
}

var _ notify.Notifier = (*RecorderNotifier)(nil)

func (n *RecorderNotifier) SendInvite(ctx context.Context, payload notify.InvitePayload) error {
	if n.Err != nil {
		return n.Err
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Jobs = append(n.Jobs, RecordedJob{Type: notify.TypeInviteEmail, Invite: payload})
	return nil
}

func (n *RecorderNotifier) SendTaskEvent(
	ctx context.Context,
	eventType string,
	payload notify.TaskEventPayload,
) error {
	if n.Err != nil {
		return n.Err
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Jobs = append(n.Jobs, RecordedJob{Type: eventType, Event: payload})
	return nil
}

// JobsOfType returns the recorded jobs matching the given type.
func (n *RecorderNotifier) JobsOfType(jobType string) []RecordedJob {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []RecordedJob
	for _, job := range n.Jobs {
		if job.Type == jobType {
			out = append(out, job)
		}
	}
	return out
}
