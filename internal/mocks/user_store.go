package mocks

import (
	"context"

	"github.com/google/uuid"

	"github.com/taskfleet/taskfleet/internal/domain"
	"github.com/taskfleet/taskfleet/internal/store"
)

// MockUserStore implements store.UserStore for testing.
type MockUserStore struct {
	CreateFn      func(ctx context.Context, user *domain.User) error
	GetByIDFn     func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmailFn  func(ctx context.Context, email string) (*domain.User, error)
	EmailExistsFn func(ctx context.Context, email string) (bool, error)
	SetPasswordFn func(ctx context.Context, id uuid.UUID, hashedPassword string) error
	ListByRoleFn  func(ctx context.Context, role domain.Role, page store.PageRequest) (*store.Page[domain.User], error)

	// Default response values used when no Fn override is set.
	User   *domain.User
	Users  *store.Page[domain.User]
	Exists bool
	Err    error

	// Call tracking for verification.
	CreateCalls      []*domain.User
	SetPasswordCalls []uuid.UUID
}

var _ store.UserStore = (*MockUserStore)(nil)

func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	m.CreateCalls = append(m.CreateCalls, user)
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}
	return m.Err
}

func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return m.User, m.Err
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	return m.User, m.Err
}

func (m *MockUserStore) EmailExists(ctx context.Context, email string) (bool, error) {
	if m.EmailExistsFn != nil {
		return m.EmailExistsFn(ctx, email)
	}
	return m.Exists, m.Err
}

func (m *MockUserStore) SetPassword(ctx context.Context, id uuid.UUID, hashedPassword string) error {
	m.SetPasswordCalls = append(m.SetPasswordCalls, id)
	if m.SetPasswordFn != nil {
		return m.SetPasswordFn(ctx, id, hashedPassword)
	}
	return m.Err
}

func (m *MockUserStore) ListByRole(
	ctx context.Context,
	role domain.Role,
	page store.PageRequest,
) (*store.Page[domain.User], error) {
	if m.ListByRoleFn != nil {
		return m.ListByRoleFn(ctx, role, page)
	}
	return m.Users, m.Err
}
