package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents where a task is in its lifecycle.
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "Todo"
	TaskStatusInProgress TaskStatus = "InProgress"
	TaskStatusDone       TaskStatus = "Done"
)

// Valid reports whether the status is one of the known variants.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

// TaskPriority represents the urgency assigned to a task.
type TaskPriority string

const (
	TaskPriorityHigh   TaskPriority = "High"
	TaskPriorityMedium TaskPriority = "Medium"
	TaskPriorityLow    TaskPriority = "Low"
)

// Valid reports whether the priority is one of the known variants.
func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityHigh, TaskPriorityMedium, TaskPriorityLow:
		return true
	}
	return false
}

// Field length limits, matching the persisted column constraints.
const (
	TaskNameMaxLength        = 40
	TaskDescriptionMaxLength = 180
)

// Common task validation errors.
var (
	ErrEmptyTaskID            = errors.New("task ID cannot be empty")
	ErrEmptyTaskName          = errors.New("task name cannot be empty")
	ErrTaskNameTooLong        = errors.New("task name must be at most 40 characters")
	ErrTaskDescriptionTooLong = errors.New("task description must be at most 180 characters")
	ErrEmptyResponsiblePerson = errors.New("responsible person ID cannot be empty")
	ErrEmptyTaskCreator       = errors.New("task creator ID cannot be empty")
	ErrInvalidTaskStatus      = errors.New("invalid task status")
	ErrInvalidTaskPriority    = errors.New("invalid task priority")
	ErrEmptyAssignmentTask    = errors.New("assignment task ID cannot be empty")
	ErrEmptyAssignmentUser    = errors.New("assignment user ID cannot be empty")
)

// Task is a unit of work created by a Manager and owned by a responsible
// person. Additional developers can be attached through TaskAssignment.
type Task struct {
	ID                  uuid.UUID    `json:"id"`
	Name                string       `json:"name"`
	Description         string       `json:"description"`
	ResponsiblePersonID uuid.UUID    `json:"responsible_person_id"`
	Status              TaskStatus   `json:"status"`
	Priority            TaskPriority `json:"priority"`
	CreatedBy           uuid.UUID    `json:"created_by"`
	CreatedAt           time.Time    `json:"created_at"`
}

// NewTask creates a task owned by responsiblePerson and recorded as created
// by creator. Returns an error if validation fails.
func NewTask(
	name, description string,
	responsiblePerson, creator uuid.UUID,
	status TaskStatus,
	priority TaskPriority,
) (*Task, error) {
	task := &Task{
		ID:                  uuid.New(),
		Name:                name,
		Description:         description,
		ResponsiblePersonID: responsiblePerson,
		Status:              status,
		Priority:            priority,
		CreatedBy:           creator,
		CreatedAt:           time.Now().UTC(),
	}
	if err := task.Validate(); err != nil {
		return nil, err
	}
	return task, nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}
	if t.Name == "" {
		return ErrEmptyTaskName
	}
	if len(t.Name) > TaskNameMaxLength {
		return ErrTaskNameTooLong
	}
	if len(t.Description) > TaskDescriptionMaxLength {
		return ErrTaskDescriptionTooLong
	}
	if t.ResponsiblePersonID == uuid.Nil {
		return ErrEmptyResponsiblePerson
	}
	if t.CreatedBy == uuid.Nil {
		return ErrEmptyTaskCreator
	}
	if !t.Status.Valid() {
		return ErrInvalidTaskStatus
	}
	if !t.Priority.Valid() {
		return ErrInvalidTaskPriority
	}
	return nil
}

// TaskAssignment joins a developer to a task. A user may be assigned to a
// given task at most once; the pair is unique at the persistence layer.
type TaskAssignment struct {
	TaskID    uuid.UUID `json:"task_id"`
	UserID    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// NewTaskAssignment creates an assignment of user to task.
func NewTaskAssignment(taskID, userID uuid.UUID) (*TaskAssignment, error) {
	assignment := &TaskAssignment{
		TaskID:    taskID,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	if err := assignment.Validate(); err != nil {
		return nil, err
	}
	return assignment, nil
}

// Validate checks if the TaskAssignment has valid data.
func (a *TaskAssignment) Validate() error {
	if a.TaskID == uuid.Nil {
		return ErrEmptyAssignmentTask
	}
	if a.UserID == uuid.Nil {
		return ErrEmptyAssignmentUser
	}
	return nil
}
