package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TokenKind discriminates the purpose a token was issued for. Tokens of
// one kind never validate as another: an access token cannot be replayed
// as a refresh token and vice versa.
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
	TokenKindInvite  TokenKind = "invite"
)

// TokenService defines operations for issuing and validating the three
// token kinds used by the application. Tokens are signed, self-contained,
// and stateless: validity is purely a function of signature and expiry.
type TokenService interface {
	// GenerateAccessToken creates a signed short-lived token proving
	// recent authentication of the given user.
	GenerateAccessToken(ctx context.Context, userID uuid.UUID) (string, error)

	// GenerateRefreshToken creates a signed longer-lived token used
	// solely to mint new access/refresh pairs.
	GenerateRefreshToken(ctx context.Context, userID uuid.UUID) (string, error)

	// GenerateInviteToken creates a signed short-lived token binding a
	// pending developer identity, redeemed during developer sign-up.
	GenerateInviteToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateToken validates the token string and extracts its claims.
	// Fails with ErrExpiredToken past the TTL, ErrInvalidToken on a
	// malformed token or bad signature, and ErrWrongTokenType when the
	// embedded kind does not match expected.
	ValidateToken(ctx context.Context, tokenString string, expected TokenKind) (*Claims, error)
}

// Claims represents the payload carried by a validated token.
type Claims struct {
	// UserID is the unique identifier of the user the token was issued for.
	UserID uuid.UUID `json:"uid,omitempty"`

	// TokenKind indicates the purpose of the token.
	TokenKind TokenKind `json:"type,omitempty"`

	// Standard registered JWT claims
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
