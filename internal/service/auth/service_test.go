package auth

import (
	"context"
	"testing"
	"time"

	"github.com/ismo-hris/hris-backend-go/internal/domain/auth"
	"github.com/ismo-hris/hris-backend-go/internal/domain/employee"
	"github.com/ismo-hris/hris-backend-go/internal/domain/user"
	"github.com/ismo-hris/hris-backend-go/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testAccessExp = "1h"
	testSecret    = "test-secret-key-for-jwt"
)

type fakeUserRepo struct {
	users   map[string]user.User
	created []user.User
	updated map[int64]string
}

func newFakeUserRepo(users ...user.User) *fakeUserRepo {
	f := &fakeUserRepo{users: map[string]user.User{}, updated: map[int64]string{}}
	for _, u := range users {
		f.users[u.Email] = u
	}
	return f
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (user.User, error) {
	u, ok := f.users[email]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (user.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (f *fakeUserRepo) Create(_ context.Context, u user.User) (user.User, error) {
	if _, exists := f.users[u.Email]; exists {
		return user.User{}, user.ErrUserEmailExists
	}
	u.ID = int64(len(f.users) + 100)
	f.users[u.Email] = u
	f.created = append(f.created, u)
	return u, nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, userID int64, hash string) error {
	f.updated[userID] = hash
	return nil
}

func (f *fakeUserRepo) TouchLastLogin(context.Context, int64) error { return nil }

type fakeEmployeeRepo struct {
	employee.EmployeeRepository
	byERP map[int64]employee.Employee
}

func (f *fakeEmployeeRepo) GetByERPID(_ context.Context, erpID int64) (employee.Employee, error) {
	e, ok := f.byERP[erpID]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func newTestService(t *testing.T, users *fakeUserRepo) (auth.AuthService, jwt.Service) {
	t.Helper()
	employees := &fakeEmployeeRepo{byERP: map[int64]employee.Employee{
		1001: {Ref: employee.Ref{InternalID: 7, ERPID: 1001}, Name: "Ayesha Khan", GradeID: 11},
	}}
	jwtService := jwt.NewJWTService(testSecret, testAccessExp, jwt.NewMemoryRevocationStore())
	return NewAuthService(users, employees, jwtService), jwtService
}

func TestAuthService_Login_Success(t *testing.T) {
	users := newFakeUserRepo(user.User{ID: 1, Username: "ayesha", Email: "ayesha@example.com", PasswordHash: hashed(t, "password123"), ERPID: 1001, IsActive: true})
	svc, jwtService := newTestService(t, users)

	resp, err := svc.Login(context.Background(), auth.LoginRequest{Email: "ayesha@example.com", Password: "password123"})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.True(t, resp.ExpiresAt.After(time.Now()))
	assert.Equal(t, int64(7), resp.User.EmployeeID)
	assert.Equal(t, int64(1001), resp.User.ERPID)
	assert.Equal(t, 11, resp.User.GradeID)

	token, err := jwtService.JWTAuth().Decode(resp.AccessToken)
	require.NoError(t, err)
	claims, err := token.AsMap(context.Background())
	require.NoError(t, err)
	parsed, err := jwt.ParseAccessClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, 11, parsed.Grade)
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	users := newFakeUserRepo(user.User{ID: 1, Email: "ayesha@example.com", PasswordHash: hashed(t, "password123"), ERPID: 1001, IsActive: true})
	svc, _ := newTestService(t, users)

	_, err := svc.Login(context.Background(), auth.LoginRequest{Email: "ayesha@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), auth.LoginRequest{Email: "nobody@example.com", Password: "password123"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestAuthService_Login_InactiveAndUnlinked(t *testing.T) {
	users := newFakeUserRepo(
		user.User{ID: 1, Email: "off@example.com", PasswordHash: hashed(t, "password123"), ERPID: 1001},
		user.User{ID: 2, Email: "ghost@example.com", PasswordHash: hashed(t, "password123"), ERPID: 4040, IsActive: true},
	)
	svc, _ := newTestService(t, users)

	_, err := svc.Login(context.Background(), auth.LoginRequest{Email: "off@example.com", Password: "password123"})
	assert.ErrorIs(t, err, auth.ErrUserInactive)

	_, err = svc.Login(context.Background(), auth.LoginRequest{Email: "ghost@example.com", Password: "password123"})
	assert.ErrorIs(t, err, auth.ErrEmployeeNotLinked)
}

func TestAuthService_Logout_RevokesToken(t *testing.T) {
	svc, jwtService := newTestService(t, newFakeUserRepo())
	ctx := context.Background()

	err := svc.Logout(ctx, auth.Identity{TokenID: "tok-1"}, time.Now().Add(time.Hour))
	require.NoError(t, err)

	revoked, err := jwtService.IsTokenRevoked(ctx, "tok-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	assert.ErrorIs(t, svc.Logout(ctx, auth.Identity{}, time.Now()), auth.ErrInvalidToken)
}

func TestAuthService_ChangePassword(t *testing.T) {
	users := newFakeUserRepo(user.User{ID: 1, Email: "ayesha@example.com", PasswordHash: hashed(t, "password123"), ERPID: 1001, IsActive: true})
	svc, _ := newTestService(t, users)
	id := auth.Identity{UserID: 1}

	err := svc.ChangePassword(context.Background(), id, auth.ChangePasswordRequest{OldPassword: "nope", NewPassword: "newpassword1", ConfirmPassword: "newpassword1"})
	assert.ErrorIs(t, err, auth.ErrWrongPassword)

	err = svc.ChangePassword(context.Background(), id, auth.ChangePasswordRequest{OldPassword: "password123", NewPassword: "newpassword1", ConfirmPassword: "newpassword1"})
	require.NoError(t, err)
	require.Contains(t, users.updated, int64(1))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(users.updated[1]), []byte("newpassword1")))
}

func TestAuthService_CreateUser_RequiresSuperuser(t *testing.T) {
	users := newFakeUserRepo()
	svc, _ := newTestService(t, users)
	req := auth.CreateUserRequest{
		Username:       "ayesha",
		Email:          "Ayesha@Example.com",
		Password:       "password123",
		VerifyPassword: "password123",
		ERPID:          1001,
	}

	_, err := svc.CreateUser(context.Background(), auth.Identity{UserID: 1}, req)
	assert.ErrorIs(t, err, user.ErrSuperuserRequired)

	created, err := svc.CreateUser(context.Background(), auth.Identity{UserID: 1, IsSuperuser: true}, req)
	require.NoError(t, err)
	assert.Equal(t, "ayesha@example.com", created.Email)
	assert.Equal(t, int64(7), created.EmployeeID)

	req.ERPID = 4040
	_, err = svc.CreateUser(context.Background(), auth.Identity{UserID: 1, IsSuperuser: true}, req)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}
