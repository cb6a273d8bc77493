package api

import (
	"github.com/google/uuid"

	"github.com/taskfleet/taskfleet/internal/domain"
)

// Common request/response structures

// ManagerSignUpRequest defines the form payload for manager sign-up.
type ManagerSignUpRequest struct {
	Name            string `validate:"required,min=8,max=50"`
	Email           string `validate:"required,email"`
	Password        string `validate:"required,min=8,max=150"`
	PasswordConfirm string `validate:"required"`
}

// DeveloperInviteRequest defines the JSON payload for inviting a developer.
type DeveloperInviteRequest struct {
	Name  string `json:"name"  validate:"required,min=8,max=50"`
	Email string `json:"email" validate:"required,email"`
}

// DeveloperSignUpRequest defines the form payload for developer sign-up
// via an invite token.
type DeveloperSignUpRequest struct {
	Token           string `validate:"required"`
	Password        string `validate:"required,min=8,max=150"`
	PasswordConfirm string `validate:"required"`
}

// LoginRequest defines the form payload for the login endpoint.
type LoginRequest struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8,max=150"`
}

// TokenPairResponse is the successful response of every endpoint that
// issues credentials. Lifetimes are reported in minutes.
type TokenPairResponse struct {
	AccessToken          string `json:"access_token"`
	RefreshToken         string `json:"refresh_token"`
	TokenType            string `json:"token_type"`
	AccessTokenLifetime  int    `json:"access_token_lifetime"`
	RefreshTokenLifetime int    `json:"refresh_token_lifetime"`
}

// CreateTaskRequest defines the JSON payload for creating or updating
// a task.
type CreateTaskRequest struct {
	Name                string    `json:"name"                  validate:"required,max=40"`
	Description         string    `json:"description"           validate:"max=180"`
	ResponsiblePersonID uuid.UUID `json:"responsible_person_id" validate:"required"`
	Status              string    `json:"status"                validate:"required,oneof=Todo InProgress Done"`
	Priority            string    `json:"priority"              validate:"required,oneof=High Medium Low"`
}

// AssignResponse is returned after assigning a user to a task.
type AssignResponse struct {
	Task         *domain.Task `json:"task"`
	AssignedUser *domain.User `json:"assigned_user"`
}
