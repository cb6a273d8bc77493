package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role distinguishes the two fixed user roles. A Manager can create tasks
// and invite Developers; a Developer only works on tasks assigned to them.
type Role string

const (
	RoleManager   Role = "Manager"
	RoleDeveloper Role = "Developer"
)

// Valid reports whether the role is one of the known variants.
func (r Role) Valid() bool {
	return r == RoleManager || r == RoleDeveloper
}

// Field length limits, matching the persisted column constraints.
const (
	NameMinLength = 8
	NameMaxLength = 50

	PasswordMinLength = 8
	PasswordMaxLength = 150
)

// Common user validation errors.
var (
	ErrEmptyUserID      = errors.New("user ID cannot be empty")
	ErrEmptyEmail       = errors.New("email cannot be empty")
	ErrInvalidEmail     = errors.New("invalid email format")
	ErrInvalidName      = errors.New("name must be between 8 and 50 characters")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters long")
	ErrPasswordTooLong  = errors.New("password must be at most 150 characters long")
	ErrInvalidRole      = errors.New("role must be Manager or Developer")
)

// User represents a registered user of the tracker.
//
// A Manager always has a hashed password. A Developer starts in an invited
// state with an empty HashedPassword; the password is set when the developer
// redeems their invite token.
type User struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	HashedPassword string    `json:"-"` // Never expose the password hash in JSON
	Role           Role      `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewManager creates an active Manager user. The caller is responsible for
// hashing the password and assigning it to HashedPassword before persisting.
func NewManager(name, email string) (*User, error) {
	user := &User{
		ID:        uuid.New(),
		Email:     email,
		Name:      name,
		Role:      RoleManager,
		CreatedAt: time.Now().UTC(),
	}
	if err := user.validateIdentity(); err != nil {
		return nil, err
	}
	return user, nil
}

// NewInvitedDeveloper creates a Developer user in the invited state:
// the email and name are recorded but no password is set until the
// developer redeems the invitation.
func NewInvitedDeveloper(name, email string) (*User, error) {
	user := &User{
		ID:        uuid.New(),
		Email:     email,
		Name:      name,
		Role:      RoleDeveloper,
		CreatedAt: time.Now().UTC(),
	}
	if err := user.validateIdentity(); err != nil {
		return nil, err
	}
	return user, nil
}

// IsManager reports whether the user holds the Manager role.
func (u *User) IsManager() bool {
	return u.Role == RoleManager
}

// Invited reports whether the user has not yet set a password.
func (u *User) Invited() bool {
	return u.HashedPassword == ""
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	return u.validateIdentity()
}

func (u *User) validateIdentity() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}
	if u.Email == "" {
		return ErrEmptyEmail
	}
	if !validEmailFormat(u.Email) {
		return ErrInvalidEmail
	}
	if len(u.Name) < NameMinLength || len(u.Name) > NameMaxLength {
		return ErrInvalidName
	}
	if !u.Role.Valid() {
		return ErrInvalidRole
	}
	return nil
}

// ValidatePassword checks a plaintext password against the length limits.
func ValidatePassword(password string) error {
	if len(password) < PasswordMinLength {
		return ErrPasswordTooShort
	}
	if len(password) > PasswordMaxLength {
		return ErrPasswordTooLong
	}
	return nil
}

// validEmailFormat performs basic structural validation of an email address:
// a local part, an @, and a domain containing an interior dot.
func validEmailFormat(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]
	dot := strings.Index(domain, ".")
	return dot > 0 && dot < len(domain)-1
}
