// Package worker consumes notification jobs from the Redis queue and
// delivers the corresponding emails over SMTP. Handler failures are
// returned to the queue so its retry policy applies.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/hibiken/asynq"

	"github.com/taskfleet/taskfleet/internal/config"
	"github.com/taskfleet/taskfleet/internal/notify"
)

// taskEventText maps a job type to the subject and body line of the email
// it produces.
var taskEventText = map[string]struct {
	subject string
	message string
}{
	notify.TypeTaskCreated: {
		subject: "Task Created",
		message: "You have been set as the responsible person for this task.",
	},
	notify.TypeTaskDeleted: {
		subject: "Task Deleted",
		message: "A task you were responsible for has been deleted.",
	},
	notify.TypeTaskAssigned: {
		subject: "Task Assigned",
		message: "You have been assigned to this task.",
	},
	notify.TypeTaskUnassigned: {
		subject: "Task Unassigned",
		message: "You have been removed from this task.",
	},
}

// Worker wraps an asynq server with handlers for every notification job
// type the API enqueues.
type Worker struct {
	srv        *asynq.Server
	mux        *asynq.ServeMux
	mailer     Mailer
	templates  *templates
	serverHost string
	logger     *slog.Logger
}

// New creates a worker consuming from the Redis instance in cfg and
// delivering mail through the given mailer.
func New(cfg *config.Config, mailer Mailer, log *slog.Logger) (*Worker, error) {
	if log == nil {
		log = slog.Default()
	}

	tmpls, err := loadTemplates()
	if err != nil {
		return nil, err
	}

	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB},
		asynq.Config{Concurrency: cfg.Worker.Concurrency},
	)

	w := &Worker{
		srv:        srv,
		mux:        asynq.NewServeMux(),
		mailer:     mailer,
		templates:  tmpls,
		serverHost: cfg.Server.Host,
		logger:     log.With(slog.String("component", "worker")),
	}
	w.mux.HandleFunc(notify.TypeInviteEmail, w.handleInvite)
	for eventType := range taskEventText {
		w.mux.HandleFunc(eventType, w.handleTaskEvent)
	}
	return w, nil
}

// Run blocks processing jobs until Shutdown is called.
func (w *Worker) Run() error {
	return w.srv.Run(w.mux)
}

// Shutdown stops the worker gracefully, waiting for in-flight handlers.
func (w *Worker) Shutdown() {
	w.srv.Shutdown()
}

func (w *Worker) handleInvite(ctx context.Context, task *asynq.Task) error {
	var payload notify.InvitePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("invalid %s payload: %w", task.Type(), err)
	}

	link := inviteLink(w.serverHost, payload.InviteToken, payload.Email)
	body, err := w.templates.renderInvite(inviteData{URL: link})
	if err != nil {
		return err
	}

	if err := w.mailer.Send(ctx, payload.Email, "Account Verification", body); err != nil {
		w.logger.Error("failed to send invite email",
			slog.String("email", payload.Email),
			slog.String("error", err.Error()))
		return err
	}

	w.logger.Info("invite email sent", slog.String("email", payload.Email))
	return nil
}

func (w *Worker) handleTaskEvent(ctx context.Context, task *asynq.Task) error {
	text, ok := taskEventText[task.Type()]
	if !ok {
		return fmt.Errorf("no handler text for job type %q", task.Type())
	}

	var payload notify.TaskEventPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("invalid %s payload: %w", task.Type(), err)
	}

	body, err := w.templates.renderTaskEvent(taskEventData{
		Subject:  text.subject,
		Message:  text.message,
		TaskName: payload.TaskName,
	})
	if err != nil {
		return err
	}

	if err := w.mailer.Send(ctx, payload.Email, text.subject, body); err != nil {
		w.logger.Error("failed to send task event email",
			slog.String("type", task.Type()),
			slog.String("email", payload.Email),
			slog.String("error", err.Error()))
		return err
	}

	w.logger.Info("task event email sent",
		slog.String("type", task.Type()),
		slog.String("email", payload.Email))
	return nil
}

// inviteLink builds the sign-up URL an invited developer follows to set
// their password.
func inviteLink(serverHost, token, email string) string {
	query := url.Values{}
	query.Set("token", token)
	query.Set("email", email)
	return fmt.Sprintf("https://%s/developer-sign-up/?%s", serverHost, query.Encode())
}
