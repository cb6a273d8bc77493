package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/taskfleet/taskfleet/internal/config"
)

// AsynqNotifier enqueues notification jobs onto a Redis-backed queue
// consumed by the worker binary.
type AsynqNotifier struct {
	client *asynq.Client
	logger *slog.Logger
}

var _ Notifier = (*AsynqNotifier)(nil)

// NewAsynqNotifier creates a notifier publishing to the Redis instance
// in cfg.
func NewAsynqNotifier(cfg config.RedisConfig, log *slog.Logger) *AsynqNotifier {
	if log == nil {
		log = slog.Default()
	}
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})
	return &AsynqNotifier{
		client: client,
		logger: log.With(slog.String("component", "notifier")),
	}
}

// SendInvite implements Notifier.SendInvite.
func (n *AsynqNotifier) SendInvite(ctx context.Context, payload InvitePayload) error {
	return n.enqueue(ctx, TypeInviteEmail, payload)
}

// SendTaskEvent implements Notifier.SendTaskEvent.
func (n *AsynqNotifier) SendTaskEvent(ctx context.Context, eventType string, payload TaskEventPayload) error {
	switch eventType {
	case TypeTaskCreated, TypeTaskDeleted, TypeTaskAssigned, TypeTaskUnassigned:
	default:
		return fmt.Errorf("unknown task event type %q", eventType)
	}
	return n.enqueue(ctx, eventType, payload)
}

func (n *AsynqNotifier) enqueue(ctx context.Context, taskType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s payload: %w", taskType, err)
	}

	info, err := n.client.EnqueueContext(ctx, asynq.NewTask(taskType, data))
	if err != nil {
		return fmt.Errorf("failed to enqueue %s job: %w", taskType, err)
	}

	n.logger.Debug("notification job enqueued",
		slog.String("type", taskType),
		slog.String("job_id", info.ID))
	return nil
}

// Close releases the underlying queue connection.
func (n *AsynqNotifier) Close() error {
	return n.client.Close()
}
