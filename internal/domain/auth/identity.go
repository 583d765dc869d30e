package auth

import (
	"context"

	"github.com/ismo-hris/hris-backend-go/internal/domain/employee"
)

// Identity is the signed-in user, resolved once per request from the access token.
type Identity struct {
	UserID      int64
	Username    string
	Employee    employee.Ref
	Grade       int
	IsSuperuser bool
	TokenID     string
}

type identityKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
