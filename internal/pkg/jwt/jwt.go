package jwt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

var ErrInvalidClaims = errors.New("invalid token claims")

// AccessClaims is the identity carried by an access token.
type AccessClaims struct {
	TokenID     string
	UserID      int64
	Username    string
	EmployeeID  int64
	ERPID       int64
	Grade       int
	IsSuperuser bool
	ExpiresAt   time.Time
}

type Service interface {
	GenerateAccessToken(claims AccessClaims) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
	RevokeToken(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsTokenRevoked(ctx context.Context, tokenID string) (bool, error)
	SweepRevoked(ctx context.Context) (int64, error)
}

type JWTService struct {
	accessTokenExpirationTime string
	tokenAuth                 *jwtauth.JWTAuth
	revoked                   RevocationStore
}

func NewJWTService(secretKey string, accessTokenExpirationTime string, revoked RevocationStore) Service {
	return &JWTService{
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		revoked:                   revoked,
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) GenerateAccessToken(c AccessClaims) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = time.Now().Add(expDuration).Unix()

	claims := map[string]interface{}{
		"jti":          uuid.NewString(),
		"user_id":      c.UserID,
		"username":     c.Username,
		"employee_id":  c.EmployeeID,
		"erp_id":       c.ERPID,
		"grade":        c.Grade,
		"is_superuser": c.IsSuperuser,
		"type":         "access",
		"exp":          expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

func (j *JWTService) RevokeToken(ctx context.Context, tokenID string, expiresAt time.Time) error {
	return j.revoked.Revoke(ctx, tokenID, expiresAt)
}

func (j *JWTService) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	return j.revoked.IsRevoked(ctx, tokenID)
}

func (j *JWTService) SweepRevoked(ctx context.Context) (int64, error) {
	return j.revoked.Sweep(ctx, time.Now())
}

// ParseAccessClaims reads the claim map produced by jwtauth. Numeric
// private claims arrive as float64 after JSON decoding.
func ParseAccessClaims(claims map[string]interface{}) (AccessClaims, error) {
	if t, _ := claims["type"].(string); t != "access" {
		return AccessClaims{}, fmt.Errorf("%w: token type", ErrInvalidClaims)
	}

	var c AccessClaims
	var ok bool
	if c.TokenID, ok = claims["jti"].(string); !ok || c.TokenID == "" {
		return AccessClaims{}, fmt.Errorf("%w: jti", ErrInvalidClaims)
	}
	if c.UserID, ok = int64Claim(claims, "user_id"); !ok {
		return AccessClaims{}, fmt.Errorf("%w: user_id", ErrInvalidClaims)
	}
	if c.ERPID, ok = int64Claim(claims, "erp_id"); !ok {
		return AccessClaims{}, fmt.Errorf("%w: erp_id", ErrInvalidClaims)
	}
	c.EmployeeID, _ = int64Claim(claims, "employee_id")
	grade, _ := int64Claim(claims, "grade")
	c.Grade = int(grade)
	c.Username, _ = claims["username"].(string)
	c.IsSuperuser, _ = claims["is_superuser"].(bool)
	if exp, ok := claims["exp"].(time.Time); ok {
		c.ExpiresAt = exp
	}
	return c, nil
}

func int64Claim(claims map[string]interface{}, key string) (int64, bool) {
	switch v := claims[key].(type) {
	case float64:
		return int64(v), true
	case int64:
		return v, true
	case int:
		return int64(v), true
	default:
		return 0, false
	}
}
