// Package notify defines the notification jobs the API enqueues for the
// background email worker. Enqueueing is fire-and-forget: the request path
// never waits for delivery, and a failed enqueue is logged by the caller
// rather than rolled back against the committed change.
package notify

import "context"

// Task type names routed through the job queue. The worker registers a
// handler per type.
const (
	TypeInviteEmail    = "email:invite"
	TypeTaskCreated    = "email:task_created"
	TypeTaskDeleted    = "email:task_deleted"
	TypeTaskAssigned   = "email:task_assigned"
	TypeTaskUnassigned = "email:task_unassigned"
)

// InvitePayload carries what the worker needs to send a developer
// invitation email.
type InvitePayload struct {
	Email       string `json:"email"`
	InviteToken string `json:"invite_token"`
}

// TaskEventPayload carries what the worker needs to send a task
// lifecycle email.
type TaskEventPayload struct {
	Email    string `json:"email"`
	TaskName string `json:"task_name"`
}

// Notifier enqueues notification jobs for asynchronous delivery.
type Notifier interface {
	// SendInvite enqueues a developer invitation email.
	SendInvite(ctx context.Context, payload InvitePayload) error

	// SendTaskEvent enqueues a task lifecycle email of the given type
	// (one of the Type* task-event constants).
	SendTaskEvent(ctx context.Context, eventType string, payload TaskEventPayload) error
}
