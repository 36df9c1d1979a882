package permissions

import (
	"context"

	"hostel/shared/constant"
	"hostel/shared/failure"
)

// Identity is the authenticated caller resolved from the stored user.
type Identity struct {
	ID   string
	Role Role
}

// System is the identity used for API key and bootstrap calls.
var System = Identity{ID: constant.ContextSystem, Role: RoleSuperAdmin}

func WithIdentity(ctx context.Context, identity Identity) context.Context {
	ctx = context.WithValue(ctx, constant.ContextKeyIdentity, identity)

	return context.WithValue(ctx, constant.ContextKeyUserID, identity.ID)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(constant.ContextKeyIdentity).(Identity)

	return identity, ok
}

// Caller returns the identity stored by the auth middleware.
func Caller(ctx context.Context) (Identity, error) {
	identity, ok := IdentityFromContext(ctx)
	if !ok || identity.ID == "" {
		return Identity{}, failure.Unauthorized("authentication required")
	}

	return identity, nil
}

// CanAccessOwner reports whether the identity may act on rows owned by ownerID.
func (i Identity) CanAccessOwner(ownerID string) bool {
	return i.Role.IsPrivileged() || i.ID == ownerID
}

// Actor returns the caller id recorded in audit columns.
func Actor(ctx context.Context) string {
	if identity, ok := IdentityFromContext(ctx); ok && identity.ID != "" {
		return identity.ID
	}

	return constant.ContextSystem
}
