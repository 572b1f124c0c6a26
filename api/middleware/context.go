package middleware

import (
	"context"

	"github.com/google/uuid"

	pkgAuth "github.com/sewnstudio/atelier-backend/pkg/auth"
	"github.com/sewnstudio/atelier-backend/pkg/enums"
)

type contextKey string

const (
	ctxUserID contextKey = "user_id"
	ctxRole   contextKey = "actor_role"
)

func UserIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxUserID).(string); ok {
		return v
	}
	return ""
}

func RoleFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRole).(string); ok {
		return v
	}
	return ""
}

// IdentityFromContext rebuilds the typed identity the services gate on.
func IdentityFromContext(ctx context.Context) (pkgAuth.Identity, bool) {
	userID, err := uuid.Parse(UserIDFromContext(ctx))
	if err != nil {
		return pkgAuth.Identity{}, false
	}
	role := enums.MemberRole(RoleFromContext(ctx))
	if !role.IsValid() {
		return pkgAuth.Identity{}, false
	}
	return pkgAuth.Identity{UserID: userID, Role: role}, true
}

// WithIdentity injects the identity pair into the context.
func WithIdentity(ctx context.Context, identity pkgAuth.Identity) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxUserID, identity.UserID.String())
	return context.WithValue(ctx, ctxRole, string(identity.Role))
}
