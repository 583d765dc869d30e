package auth

import (
	"context"
	"time"
)

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
	Logout(ctx context.Context, id Identity, expiresAt time.Time) error
	Me(ctx context.Context, id Identity) (UserPayload, error)
	ChangePassword(ctx context.Context, id Identity, req ChangePasswordRequest) error
	// CreateUser is restricted to superusers.
	CreateUser(ctx context.Context, id Identity, req CreateUserRequest) (UserPayload, error)
}
