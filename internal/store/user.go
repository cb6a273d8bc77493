package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/taskfleet/taskfleet/internal/domain"
)

// Page holds one page of results along with the pagination bookkeeping
// needed to render a listing response.
type Page[T any] struct {
	Items []T
	Total int
}

// PageRequest selects a slice of a listing. Number is 1-based.
type PageRequest struct {
	Number int
	Size   int
}

// Offset returns the row offset for the page.
func (p PageRequest) Offset() int {
	return (p.Number - 1) * p.Size
}

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user to the store.
	// Returns ErrEmailExists if the email is already taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by their email address.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// EmailExists reports whether a user with the given email exists.
	// This is a pre-check only; Create still enforces uniqueness via
	// the database constraint because concurrent creates can race past
	// this check.
	EmailExists(ctx context.Context, email string) (bool, error)

	// SetPassword stores a new hashed password for the user,
	// transitioning an invited developer into an active one.
	// Returns ErrUserNotFound if the user does not exist.
	SetPassword(ctx context.Context, id uuid.UUID, hashedPassword string) error

	// ListByRole returns a page of users holding the given role,
	// ordered by creation time.
	ListByRole(ctx context.Context, role domain.Role, page PageRequest) (*Page[domain.User], error)
}
