package middleware

import (
	"net/http"

	"github.com/ismo-hris/hris-backend-go/internal/domain/auth"
	"github.com/ismo-hris/hris-backend-go/internal/domain/user"
	"github.com/ismo-hris/hris-backend-go/internal/handler/http/response"
)

// SuperuserOnly must be mounted after AuthRequired.
func SuperuserOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := auth.IdentityFrom(r.Context())
		if !ok {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		if !id.IsSuperuser {
			response.HandleError(w, user.ErrSuperuserRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}
