// Package auth verifies bearer tokens and carries the caller's identity
// through the request context.
package auth

import "context"

// Identity is the authenticated employee acting on behalf of a company.
type Identity struct {
	EmployeeID int64
	CompanyID  int64
}

type contextKey string

const identityKey contextKey = "identity"

func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityKey).(Identity)
	return identity, ok
}
