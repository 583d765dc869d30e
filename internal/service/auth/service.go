package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ismo-hris/hris-backend-go/internal/domain/auth"
	"github.com/ismo-hris/hris-backend-go/internal/domain/employee"
	"github.com/ismo-hris/hris-backend-go/internal/domain/user"
	"github.com/ismo-hris/hris-backend-go/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	user.UserRepository
	employees employee.EmployeeRepository
	jwt.Service
}

func NewAuthService(userRepository user.UserRepository, employeeRepository employee.EmployeeRepository, jwtService jwt.Service) auth.AuthService {
	return &AuthServiceImpl{
		UserRepository: userRepository,
		employees:      employeeRepository,
		Service:        jwtService,
	}
}

func (a *AuthServiceImpl) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// linkedEmployee resolves the employee behind a user. Superusers may exist
// without one; everyone else must be linked.
func (a *AuthServiceImpl) linkedEmployee(ctx context.Context, u user.User) (employee.Employee, error) {
	emp, err := a.employees.GetByERPID(ctx, u.ERPID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			if u.IsSuperuser {
				return employee.Employee{Ref: employee.Ref{ERPID: u.ERPID}}, nil
			}
			return employee.Employee{}, auth.ErrEmployeeNotLinked
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by erp id: %w", err)
	}
	return emp, nil
}

func payload(u user.User, emp employee.Employee) auth.UserPayload {
	return auth.UserPayload{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		EmployeeID:  emp.InternalID,
		ERPID:       u.ERPID,
		GradeID:     int(emp.GradeID),
		IsSuperuser: u.IsSuperuser,
	}
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.LoginResponse{}, err
	}

	userData, err := a.UserRepository.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.LoginResponse{}, auth.ErrInvalidCredentials
		}
		return auth.LoginResponse{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(userData.PasswordHash), []byte(req.Password)); err != nil {
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}
	if !userData.IsActive {
		return auth.LoginResponse{}, auth.ErrUserInactive
	}

	emp, err := a.linkedEmployee(ctx, userData)
	if err != nil {
		return auth.LoginResponse{}, err
	}

	token, expiresAt, err := a.Service.GenerateAccessToken(jwt.AccessClaims{
		UserID:      userData.ID,
		Username:    userData.Username,
		EmployeeID:  emp.InternalID,
		ERPID:       userData.ERPID,
		Grade:       int(emp.GradeID),
		IsSuperuser: userData.IsSuperuser,
	})
	if err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}

	if err := a.UserRepository.TouchLastLogin(ctx, userData.ID); err != nil {
		slog.Warn("failed to record last login", "user_id", userData.ID, "error", err)
	}

	return auth.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   time.Unix(expiresAt, 0).UTC(),
		User:        payload(userData, emp),
	}, nil
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, id auth.Identity, expiresAt time.Time) error {
	if id.TokenID == "" {
		return auth.ErrInvalidToken
	}
	if err := a.Service.RevokeToken(ctx, id.TokenID, expiresAt); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// Me implements auth.AuthService.
func (a *AuthServiceImpl) Me(ctx context.Context, id auth.Identity) (auth.UserPayload, error) {
	userData, err := a.UserRepository.GetByID(ctx, id.UserID)
	if err != nil {
		return auth.UserPayload{}, err
	}
	emp, err := a.linkedEmployee(ctx, userData)
	if err != nil {
		return auth.UserPayload{}, err
	}
	return payload(userData, emp), nil
}

// ChangePassword implements auth.AuthService.
func (a *AuthServiceImpl) ChangePassword(ctx context.Context, id auth.Identity, req auth.ChangePasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	userData, err := a.UserRepository.GetByID(ctx, id.UserID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(userData.PasswordHash), []byte(req.OldPassword)); err != nil {
		return auth.ErrWrongPassword
	}

	hash, err := a.hashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return a.UserRepository.UpdatePassword(ctx, userData.ID, hash)
}

// CreateUser implements auth.AuthService.
func (a *AuthServiceImpl) CreateUser(ctx context.Context, id auth.Identity, req auth.CreateUserRequest) (auth.UserPayload, error) {
	if !id.IsSuperuser {
		return auth.UserPayload{}, user.ErrSuperuserRequired
	}
	if err := req.Validate(); err != nil {
		return auth.UserPayload{}, err
	}

	emp, err := a.employees.GetByERPID(ctx, req.ERPID)
	if err != nil && !(req.IsSuperuser && errors.Is(err, employee.ErrEmployeeNotFound)) {
		return auth.UserPayload{}, err
	}

	hash, err := a.hashPassword(req.Password)
	if err != nil {
		return auth.UserPayload{}, fmt.Errorf("failed to hash password: %w", err)
	}

	created, err := a.UserRepository.Create(ctx, user.User{
		Username:     strings.TrimSpace(req.Username),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		ERPID:        req.ERPID,
		IsActive:     true,
		IsSuperuser:  req.IsSuperuser,
	})
	if err != nil {
		return auth.UserPayload{}, err
	}

	slog.Info("user created", "user_id", created.ID, "erp_id", created.ERPID, "by", id.UserID)
	return payload(created, emp), nil
}
