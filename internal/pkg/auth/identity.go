package auth

import "context"

// Identity is the authenticated account attached to a request.
// The zero value means an anonymous request.
type Identity struct {
	UserID    int64
	Username  string
	SessionID string
}

// Authenticated reports whether the identity belongs to a logged-in account
func (i Identity) Authenticated() bool {
	return i.UserID > 0
}

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying id
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the identity stored in ctx, or the anonymous identity
func IdentityFromContext(ctx context.Context) Identity {
	id, _ := ctx.Value(identityKey{}).(Identity)
	return id
}
