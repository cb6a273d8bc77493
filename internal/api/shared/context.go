package shared

import (
	"context"
	"crypto/rand"
	"encoding/hex"

	"github.com/taskfleet/taskfleet/internal/domain"
)

// ContextKey is the type for values this package stores in a request
// context.
type ContextKey string

const (
	// CurrentUserKey is the context key under which the authentication
	// middleware stores the resolved *domain.User.
	CurrentUserKey ContextKey = "currentUser"

	// TraceIDKey is the context key for the per-request trace ID.
	TraceIDKey ContextKey = "traceID"
)

// SetCurrentUser returns a context carrying the authenticated user.
func SetCurrentUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, CurrentUserKey, user)
}

// GetCurrentUser retrieves the authenticated user from the context.
// The boolean is false when no user has been stored.
func GetCurrentUser(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(CurrentUserKey).(*domain.User)
	if !ok || user == nil {
		return nil, false
	}
	return user, true
}

// SetTraceID adds a freshly generated trace ID to the context.
func SetTraceID(ctx context.Context) context.Context {
	return context.WithValue(ctx, TraceIDKey, generateTraceID())
}

// GetTraceID retrieves the trace ID from the context, or "" when absent.
func GetTraceID(ctx context.Context) string {
	traceID, ok := ctx.Value(TraceIDKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

func generateTraceID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand failing is effectively fatal elsewhere; an empty
		// trace ID just degrades log correlation.
		return ""
	}
	return hex.EncodeToString(b)
}
