package worker

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templatesFS embed.FS

// templates holds the parsed email templates, loaded once at startup.
type templates struct {
	invite    *template.Template
	taskEvent *template.Template
}

func loadTemplates() (*templates, error) {
	invite, err := template.ParseFS(templatesFS, "templates/invite_email.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse invite template: %w", err)
	}
	taskEvent, err := template.ParseFS(templatesFS, "templates/task_event_email.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse task event template: %w", err)
	}
	return &templates{invite: invite, taskEvent: taskEvent}, nil
}

type inviteData struct {
	URL string
}

type taskEventData struct {
	Subject  string
	Message  string
	TaskName string
}

func (t *templates) renderInvite(data inviteData) (string, error) {
	var buf bytes.Buffer
	if err := t.invite.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render invite email: %w", err)
	}
	return buf.String(), nil
}

func (t *templates) renderTaskEvent(data taskEventData) (string, error) {
	var buf bytes.Buffer
	if err := t.taskEvent.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render task event email: %w", err)
	}
	return buf.String(), nil
}
