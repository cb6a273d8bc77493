package worker

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskfleet/taskfleet/internal/config"
	"github.com/taskfleet/taskfleet/internal/notify"
)

// mockMailer records sent emails instead of delivering them.
type mockMailer struct {
	sent    []sentEmail
	sendErr error
}

type sentEmail struct {
	To      string
	Subject string
	Body    string
}

func (m *mockMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, sentEmail{To: to, Subject: subject, Body: htmlBody})
	return nil
}

func newTestWorker(t *testing.T, mailer Mailer) *Worker {
	t.Helper()
	cfg := &config.Config{
		Server: config.ServerConfig{Host: "tasks.example.com"},
		Redis:  config.RedisConfig{Addr: "localhost:6379"},
		Worker: config.WorkerConfig{Concurrency: 1},
	}
	w, err := New(cfg, mailer, slog.Default())
	require.NoError(t, err)
	return w
}

func TestHandleInvite(t *testing.T) {
	t.Parallel()

	t.Run("renders link and sends to invitee", func(t *testing.T) {
		t.Parallel()
		mailer := &mockMailer{}
		w := newTestWorker(t, mailer)

		payload := []byte(`{"email":"dev@example.com","invite_token":"tok123"}`)
		err := w.handleInvite(context.Background(), asynq.NewTask(notify.TypeInviteEmail, payload))
		require.NoError(t, err)

		require.Len(t, mailer.sent, 1)
		email := mailer.sent[0]
		assert.Equal(t, "dev@example.com", email.To)
		assert.Equal(t, "Account Verification", email.Subject)
		assert.Contains(t, email.Body, "https://tasks.example.com/developer-sign-up/?")
		assert.Contains(t, email.Body, "token=tok123")
		assert.Contains(t, email.Body, "email=dev%40example.com")
	})

	t.Run("rejects malformed payload", func(t *testing.T) {
		t.Parallel()
		mailer := &mockMailer{}
		w := newTestWorker(t, mailer)

		err := w.handleInvite(context.Background(), asynq.NewTask(notify.TypeInviteEmail, []byte("{")))
		require.Error(t, err)
		assert.Empty(t, mailer.sent)
	})

	t.Run("returns delivery error for retry", func(t *testing.T) {
		t.Parallel()
		mailer := &mockMailer{sendErr: errors.New("connection refused")}
		w := newTestWorker(t, mailer)

		payload := []byte(`{"email":"dev@example.com","invite_token":"tok123"}`)
		err := w.handleInvite(context.Background(), asynq.NewTask(notify.TypeInviteEmail, payload))
		require.Error(t, err)
	})
}

func TestHandleTaskEvent(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		eventType   string
		wantSubject string
	}{
		{notify.TypeTaskCreated, "Task Created"},
		{notify.TypeTaskDeleted, "Task Deleted"},
		{notify.TypeTaskAssigned, "Task Assigned"},
		{notify.TypeTaskUnassigned, "Task Unassigned"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.eventType, func(t *testing.T) {
			t.Parallel()
			mailer := &mockMailer{}
			w := newTestWorker(t, mailer)

			payload := []byte(`{"email":"dev@example.com","task_name":"Ship release"}`)
			err := w.handleTaskEvent(context.Background(), asynq.NewTask(tc.eventType, payload))
			require.NoError(t, err)

			require.Len(t, mailer.sent, 1)
			email := mailer.sent[0]
			assert.Equal(t, "dev@example.com", email.To)
			assert.Equal(t, tc.wantSubject, email.Subject)
			assert.Contains(t, email.Body, "Ship release")
		})
	}

	t.Run("escapes HTML in task name", func(t *testing.T) {
		t.Parallel()
		mailer := &mockMailer{}
		w := newTestWorker(t, mailer)

		payload := []byte(`{"email":"dev@example.com","task_name":"<script>x</script>"}`)
		err := w.handleTaskEvent(context.Background(), asynq.NewTask(notify.TypeTaskCreated, payload))
		require.NoError(t, err)

		require.Len(t, mailer.sent, 1)
		assert.False(t, strings.Contains(mailer.sent[0].Body, "<script>"))
	})
}

func TestInviteLink(t *testing.T) {
	t.Parallel()

	link := inviteLink("tasks.example.com", "abc", "a+b@example.com")
	assert.Equal(t, "https://tasks.example.com/developer-sign-up/?email=a%2Bb%40example.com&token=abc", link)
}
