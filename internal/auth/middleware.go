package auth

import (
	"errors"
	"net/http"

	"github.com/zhouzirui/orgchat/backend/internal/model/user"
	"github.com/zhouzirui/orgchat/backend/pkg/utils"
)

// Authenticate attaches the caller to the request context when a valid token is present.
// Requests without a usable token continue anonymously; RequireRoles decides what they
// may reach. A backend outage answers 502.
func (r *Resolver) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		token := TokenFromRequest(req)
		if token == "" {
			next.ServeHTTP(w, req)
			return
		}

		u, err := r.Resolve(req.Context(), token)
		switch {
		case err == nil:
			next.ServeHTTP(w, req.WithContext(WithUser(req.Context(), token, u)))
		case errors.Is(err, ErrUnauthenticated), errors.Is(err, ErrInactive):
			r.logger.Debug("[auth] token rejected", "error", err)
			next.ServeHTTP(w, req)
		default:
			r.logger.Warn("[auth] user lookup failed", "error", err)
			utils.RespondError(w, http.StatusBadGateway, "authentication service unavailable")
		}
	})
}

// RequireRoles admits signed-in users whose role is one of roles. It answers 401 without
// a user and 403 on a role mismatch.
func RequireRoles(roles ...user.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := UserFromContext(r.Context())
			if !ok {
				utils.RespondError(w, http.StatusUnauthorized, ErrUnauthenticated.Error())
				return
			}
			if !u.Role.In(roles...) {
				utils.RespondError(w, http.StatusForbidden, ErrForbidden.Error())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequirePage gates a route with the roles of the named page.
func RequirePage(name string) func(http.Handler) http.Handler {
	page, ok := PageByName(name)
	if !ok {
		panic("auth: unknown page " + name)
	}
	return RequireRoles(page.Roles...)
}
