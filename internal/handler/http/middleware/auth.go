package middleware

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/ismo-hris/hris-backend-go/internal/domain/auth"
	"github.com/ismo-hris/hris-backend-go/internal/domain/employee"
	"github.com/ismo-hris/hris-backend-go/internal/handler/http/response"
	"github.com/ismo-hris/hris-backend-go/internal/pkg/jwt"
)

// AuthRequired runs after jwtauth.Verifier. It rejects revoked or
// non-access tokens and stores the caller's auth.Identity in the context.
func AuthRequired(jwtService jwt.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil || token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			c, err := jwt.ParseAccessClaims(claims)
			if err != nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			revoked, err := jwtService.IsTokenRevoked(r.Context(), c.TokenID)
			if err != nil {
				slog.Error("revocation lookup failed", "error", err)
				response.InternalServerError(w, "Internal server error")
				return
			}
			if revoked {
				response.HandleError(w, auth.ErrTokenRevoked)
				return
			}

			ctx := auth.WithIdentity(r.Context(), auth.Identity{
				UserID:      c.UserID,
				Username:    c.Username,
				Employee:    employee.Ref{InternalID: c.EmployeeID, ERPID: c.ERPID},
				Grade:       c.Grade,
				IsSuperuser: c.IsSuperuser,
				TokenID:     c.TokenID,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(hfn)
	}
}
