package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/taskfleet/taskfleet/internal/domain"
)

// TaskStore defines the interface for task and assignment persistence.
type TaskStore interface {
	// Create saves a new task to the store.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// Update replaces the mutable fields of an existing task.
	// Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task by ID. Assignments are removed by cascade.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// List returns a page of all tasks, ordered by creation time.
	List(ctx context.Context, page PageRequest) (*Page[domain.Task], error)

	// ListForUser returns a page of tasks the user is responsible for
	// or assigned to.
	ListForUser(ctx context.Context, userID uuid.UUID, page PageRequest) (*Page[domain.Task], error)

	// Assign records that the user works on the task.
	// Returns ErrAlreadyAssigned if the pair already exists and
	// ErrTaskNotFound/ErrUserNotFound when a referenced row is missing.
	Assign(ctx context.Context, assignment *domain.TaskAssignment) error

	// Unassign removes the user from the task.
	// Returns ErrAssignmentNotFound if the pair does not exist.
	Unassign(ctx context.Context, taskID, userID uuid.UUID) error

	// ListAssignees returns a page of users assigned to the task.
	ListAssignees(ctx context.Context, taskID uuid.UUID, page PageRequest) (*Page[domain.User], error)
}
