package auth

import "errors"

// Common authentication service errors
var (
	// ErrInvalidToken indicates the token structure is invalid or the
	// signature doesn't match.
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the token has expired.
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrWrongTokenType indicates the token is valid but carries a kind
	// other than the one expected, e.g. an access token presented where
	// a refresh token is required.
	ErrWrongTokenType = errors.New("wrong token type")

	// ErrMissingToken indicates a token was expected but not provided.
	ErrMissingToken = errors.New("authentication token is missing")
)
