package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestNewTask(t *testing.T) {
	responsible := uuid.New()
	creator := uuid.New()

	task, err := NewTask(
		"Ship release",
		"Cut the 1.4 release and publish notes",
		responsible,
		creator,
		TaskStatusTodo,
		TaskPriorityHigh,
	)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if task.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}
	if task.ResponsiblePersonID != responsible {
		t.Errorf("Expected responsible person %s, got %s", responsible, task.ResponsiblePersonID)
	}
	if task.CreatedBy != creator {
		t.Errorf("Expected creator %s, got %s", creator, task.CreatedBy)
	}
	if task.CreatedAt.IsZero() {
		t.Error("Expected non-zero CreatedAt time")
	}
}

func TestTaskValidate(t *testing.T) {
	valid := Task{
		ID:                  uuid.New(),
		Name:                "Ship release",
		Description:         "Cut the 1.4 release",
		ResponsiblePersonID: uuid.New(),
		Status:              TaskStatusInProgress,
		Priority:            TaskPriorityMedium,
		CreatedBy:           uuid.New(),
	}

	if err := valid.Validate(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(*Task)
		wantErr error
	}{
		{"empty id", func(task *Task) { task.ID = uuid.Nil }, ErrEmptyTaskID},
		{"empty name", func(task *Task) { task.Name = "" }, ErrEmptyTaskName},
		{"name too long", func(task *Task) { task.Name = strings.Repeat("a", TaskNameMaxLength+1) }, ErrTaskNameTooLong},
		{
			"description too long",
			func(task *Task) { task.Description = strings.Repeat("a", TaskDescriptionMaxLength+1) },
			ErrTaskDescriptionTooLong,
		},
		{"empty responsible", func(task *Task) { task.ResponsiblePersonID = uuid.Nil }, ErrEmptyResponsiblePerson},
		{"empty creator", func(task *Task) { task.CreatedBy = uuid.Nil }, ErrEmptyTaskCreator},
		{"bad status", func(task *Task) { task.Status = "Paused" }, ErrInvalidTaskStatus},
		{"bad priority", func(task *Task) { task.Priority = "Urgent" }, ErrInvalidTaskPriority},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := valid
			tt.mutate(&task)
			if err := task.Validate(); err != tt.wantErr {
				t.Errorf("Expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestNewTaskAssignment(t *testing.T) {
	taskID := uuid.New()
	userID := uuid.New()

	assignment, err := NewTaskAssignment(taskID, userID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if assignment.TaskID != taskID || assignment.UserID != userID {
		t.Error("Expected assignment to carry the given IDs")
	}

	if _, err := NewTaskAssignment(uuid.Nil, userID); err != ErrEmptyAssignmentTask {
		t.Errorf("Expected error %v, got %v", ErrEmptyAssignmentTask, err)
	}
	if _, err := NewTaskAssignment(taskID, uuid.Nil); err != ErrEmptyAssignmentUser {
		t.Errorf("Expected error %v, got %v", ErrEmptyAssignmentUser, err)
	}
}

func TestEnumValidity(t *testing.T) {
	for _, status := range []TaskStatus{TaskStatusTodo, TaskStatusInProgress, TaskStatusDone} {
		if !status.Valid() {
			t.Errorf("Expected status %s to be valid", status)
		}
	}
	if TaskStatus("Blocked").Valid() {
		t.Error("Expected unknown status to be invalid")
	}

	for _, priority := range []TaskPriority{TaskPriorityHigh, TaskPriorityMedium, TaskPriorityLow} {
		if !priority.Valid() {
			t.Errorf("Expected priority %s to be valid", priority)
		}
	}
	if TaskPriority("Critical").Valid() {
		t.Error("Expected unknown priority to be invalid")
	}
}
