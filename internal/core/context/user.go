// Package context provides request-scoped values extraction.
package context

import (
	"context"
)

// UserContext identifies the actor behind a request. Populated by the HTTP
// layer (header-based identification); the domain layer only reads it for
// audit attribution.
type UserContext struct {
	UserID    string
	Email     string
	SessionID string
}

type userContextKey struct{}

// WithUser adds UserContext to context.
func WithUser(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// GetUser returns UserContext from context.
func GetUser(ctx context.Context) *UserContext {
	if v, ok := ctx.Value(userContextKey{}).(*UserContext); ok {
		return v
	}
	return nil
}

// GetUserID returns user ID from context or empty string.
func GetUserID(ctx context.Context) string {
	if u := GetUser(ctx); u != nil {
		return u.UserID
	}
	return ""
}

// GetSessionID returns the caller's session ID or empty string.
// Staging buffers are scoped by session.
func GetSessionID(ctx context.Context) string {
	if u := GetUser(ctx); u != nil {
		return u.SessionID
	}
	return ""
}
