package auth

import (
	"context"

	"github.com/taskdeck/taskdeck/internal/model"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const identityContextKey contextKey = "identity"

// Identity is the authenticated user attached to a request, together
// with the exact token that authorized it. Keeping the token around lets
// the logout handler revoke the current session only.
type Identity struct {
	User  *model.User
	Token string
}

// ContextWithIdentity adds the authenticated identity to the context.
func ContextWithIdentity(ctx context.Context, ident *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, ident)
}

// IdentityFromContext retrieves the authenticated identity from the
// context. Returns nil if the request was not authenticated.
func IdentityFromContext(ctx context.Context) *Identity {
	ident, ok := ctx.Value(identityContextKey).(*Identity)
	if !ok {
		return nil
	}
	return ident
}

// MustIdentityFromContext retrieves the authenticated identity.
// Panics if not present (use only behind the auth middleware).
func MustIdentityFromContext(ctx context.Context) *Identity {
	ident := IdentityFromContext(ctx)
	if ident == nil {
		panic("identity not found - ensure auth middleware is applied")
	}
	return ident
}

// UserIDFromContext is a convenience accessor for the authenticated
// user id. Returns empty string if not authenticated.
func UserIDFromContext(ctx context.Context) string {
	ident := IdentityFromContext(ctx)
	if ident == nil {
		return ""
	}
	return ident.User.ID
}
