package auth

import (
	"time"

	"github.com/ismo-hris/hris-backend-go/internal/pkg/validator"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "email is required"})
	} else if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "email must be a valid email address"})
	}
	if validator.IsEmpty(r.Password) {
		errs = append(errs, validator.ValidationError{Field: "password", Message: "password is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ChangePasswordRequest struct {
	OldPassword     string `json:"old_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (r *ChangePasswordRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.OldPassword) {
		errs = append(errs, validator.ValidationError{Field: "old_password", Message: "old_password is required"})
	}
	if len(r.NewPassword) < 8 {
		errs = append(errs, validator.ValidationError{Field: "new_password", Message: "new_password must be at least 8 characters long"})
	}
	if r.NewPassword != r.ConfirmPassword {
		errs = append(errs, validator.ValidationError{Field: "confirm_password", Message: "Passwords do not match"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CreateUserRequest struct {
	Username       string `json:"username"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	VerifyPassword string `json:"verify_password"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	ERPID          int64  `json:"erp_id"`
	IsSuperuser    bool   `json:"is_superuser"`
}

func (r *CreateUserRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Username) {
		errs = append(errs, validator.ValidationError{Field: "username", Message: "username is required"})
	}
	if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "email must be a valid email address"})
	}
	if len(r.Password) < 8 {
		errs = append(errs, validator.ValidationError{Field: "password", Message: "password must be at least 8 characters long"})
	}
	if r.Password != r.VerifyPassword {
		errs = append(errs, validator.ValidationError{Field: "verify_password", Message: "Passwords do not match"})
	}
	if r.ERPID <= 0 {
		errs = append(errs, validator.ValidationError{Field: "erp_id", Message: "ERP ID is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UserPayload is what the client keeps as its session identity.
type UserPayload struct {
	ID          int64  `json:"user_id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	EmployeeID  int64  `json:"employee_id"`
	ERPID       int64  `json:"erp_id"`
	GradeID     int    `json:"grade_id"`
	IsSuperuser bool   `json:"is_superuser"`
}

type LoginResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	ExpiresAt   time.Time   `json:"expires_at"`
	User        UserPayload `json:"user"`
}
