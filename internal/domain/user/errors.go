package user

import "errors"

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrUsernameExists        = errors.New("username already exists")
	ErrUserEmailExists       = errors.New("email already registered")
	ErrUserERPIDExists       = errors.New("ERP ID already linked to a user")
	ErrSuperuserRequired     = errors.New("superuser privilege required")
	ErrInvalidPasswordLength = errors.New("password must be at least 8 characters")
)
