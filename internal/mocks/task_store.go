package mocks

import (
	"context"

	"github.com/google/uuid"

	"github.com/taskfleet/taskfleet/internal/domain"
	"github.com/taskfleet/taskfleet/internal/store"
)

// MockTaskStore implements store.TaskStore for testing.
type MockTaskStore struct {
	CreateFn        func(ctx context.Context, task *domain.Task) error
	GetByIDFn       func(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	UpdateFn        func(ctx context.Context, task *domain.Task) error
	DeleteFn        func(ctx context.Context, id uuid.UUID) error
	ListFn          func(ctx context.Context, page store.PageRequest) (*store.Page[domain.Task], error)
	ListForUserFn   func(ctx context.Context, userID uuid.UUID, page store.PageRequest) (*store.Page[domain.Task], error)
	AssignFn        func(ctx context.Context, assignment *domain.TaskAssignment) error
	UnassignFn      func(ctx context.Context, taskID, userID uuid.UUID) error
	ListAssigneesFn func(ctx context.Context, taskID uuid.UUID, page store.PageRequest) (*store.Page[domain.User], error)

	// Default response values used when no Fn override is set.
	Task      *domain.Task
	Tasks     *store.Page[domain.Task]
	Assignees *store.Page[domain.User]
	Err       error

	// Call tracking for verification.
	CreateCalls   []*domain.Task
	UpdateCalls   []*domain.Task
	DeleteCalls   []uuid.UUID
	AssignCalls   []*domain.TaskAssignment
	UnassignCalls [][2]uuid.UUID
}

var _ store.TaskStore = (*MockTaskStore)(nil)

func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	m.CreateCalls = append(m.CreateCalls, task)
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}
	return m.Err
}

func (m *MockTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return m.Task, m.Err
}

func (m *MockTaskStore) Update(ctx context.Context, task *domain.Task) error {
	m.UpdateCalls = append(m.UpdateCalls, task)
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, task)
	}
	return m.Err
}

func (m *MockTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	m.DeleteCalls = append(m.DeleteCalls, id)
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return m.Err
}

func (m *MockTaskStore) List(
	ctx context.Context,
	page store.PageRequest,
) (*store.Page[domain.Task], error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, page)
	}
	return m.Tasks, m.Err
}

func (m *MockTaskStore) ListForUser(
	ctx context.Context,
	userID uuid.UUID,
	page store.PageRequest,
) (*store.Page[domain.Task], error) {
	if m.ListForUserFn != nil {
		return m.ListForUserFn(ctx, userID, page)
	}
	return m.Tasks, m.Err
}

func (m *MockTaskStore) Assign(ctx context.Context, assignment *domain.TaskAssignment) error {
	m.AssignCalls = append(m.AssignCalls, assignment)
	if m.AssignFn != nil {
		return m.AssignFn(ctx, assignment)
	}
	return m.Err
}

func (m *MockTaskStore) Unassign(ctx context.Context, taskID, userID uuid.UUID) error {
	m.UnassignCalls = append(m.UnassignCalls, [2]uuid.UUID{taskID, userID})
	if m.UnassignFn != nil {
		return m.UnassignFn(ctx, taskID, userID)
	}
	return m.Err
}

func (m *MockTaskStore) ListAssignees(
	ctx context.Context,
	taskID uuid.UUID,
	page store.PageRequest,
) (*store.Page[domain.User], error) {
	if m.ListAssigneesFn != nil {
		return m.ListAssigneesFn(ctx, taskID, page)
	}
	return m.Assignees, m.Err
}
