package mocks

import (
	"context"

	"github.com/google/uuid"

	"github.com/taskfleet/taskfleet/internal/service/auth"
)

// MockTokenService implements auth.TokenService for testing.
type MockTokenService struct {
	GenerateAccessTokenFn  func(ctx context.Context, userID uuid.UUID) (string, error)
	GenerateRefreshTokenFn func(ctx context.Context, userID uuid.UUID) (string, error)
	GenerateInviteTokenFn  func(ctx context.Context, userID uuid.UUID) (string, error)
	ValidateTokenFn        func(ctx context.Context, tokenString string, expected auth.TokenKind) (*auth.Claims, error)

	// Default response values used when no Fn override is set.
	Token  string
	Claims *auth.Claims
	Err    error
}

var _ auth.TokenService = (*MockTokenService)(nil)

func (m *MockTokenService) GenerateAccessToken(ctx context.Context, userID uuid.UUID) (string, error) {
	if m.GenerateAccessTokenFn != nil {
		return m.GenerateAccessTokenFn(ctx, userID)
	}
	return m.Token, m.Err
}

func (m *MockTokenService) GenerateRefreshToken(ctx context.Context, userID uuid.UUID) (string, error) {
	if m.GenerateRefreshTokenFn != nil {
		return m.GenerateRefreshTokenFn(ctx, userID)
	}
	return m.Token, m.Err
}

func (m *MockTokenService) GenerateInviteToken(ctx context.Context, userID uuid.UUID) (string, error) {
	if m.GenerateInviteTokenFn != nil {
		return m.GenerateInviteTokenFn(ctx, userID)
	}
	return m.Token, m.Err
}

func (m *MockTokenService) ValidateToken(
	ctx context.Context,
	tokenString string,
	expected auth.TokenKind,
) (*auth.Claims, error) {
	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, tokenString, expected)
	}
	return m.Claims, m.Err
}
