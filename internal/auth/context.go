package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/fixlane/marketplace-api/internal/domain"
)

type contextKey string

const userContextKey contextKey = "user_context"

// UserContext carries the authenticated actor's identity and roles through
// the request. The lifecycle services trust it as given; role enforcement
// per action happens there.
type UserContext struct {
	UserID      uuid.UUID
	DisplayName string
	Email       string
	Roles       []domain.UserRoleType
}

// WithUserContext stores the user context on the request context
func WithUserContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// FromContext retrieves the user context, if any
func FromContext(ctx context.Context) (*UserContext, bool) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	return user, ok
}

// MustFromContext retrieves the user context or panics. Only for handlers
// behind the authentication middleware.
func MustFromContext(ctx context.Context) *UserContext {
	user, ok := FromContext(ctx)
	if !ok {
		panic("user context not found in request context")
	}
	return user
}

// HasRole checks whether the user holds the given role
func (u *UserContext) HasRole(role domain.UserRoleType) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasAnyRole checks whether the user holds at least one of the given roles
func (u *UserContext) HasAnyRole(roles ...domain.UserRoleType) bool {
	for _, role := range roles {
		if u.HasRole(role) {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the user is a platform admin or the service account
func (u *UserContext) IsAdmin() bool {
	return u.HasAnyRole(domain.RoleAdmin, domain.RoleAPIService)
}

// RolesAsStrings returns the roles as plain strings for logging
func (u *UserContext) RolesAsStrings() []string {
	out := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		out = append(out, string(r))
	}
	return out
}
