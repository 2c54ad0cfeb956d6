package middleware

import (
	"net/http"

	"github.com/forgo/roster/internal/model"
)

// RequireRequester returns a middleware that admits only requesters the
// predicate accepts. It must run after Auth or OptionalAuth. Anonymous
// requesters get 401, authenticated ones 403.
func RequireRequester(allowed func(model.Requester) bool, detail string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requester := GetRequester(r.Context())
			if allowed(requester) {
				next.ServeHTTP(w, r)
				return
			}

			if _, anonymous := requester.(model.AnonymousRequester); anonymous && GetAccountID(r.Context()) == "" {
				model.NewUnauthorizedError("authentication required").WriteJSON(w)
				return
			}
			pd := model.NewForbiddenError(detail)
			pd.Code = model.ErrCodeRoleRequired
			pd.WriteJSON(w)
		})
	}
}

// RequireWriter admits staff and admin requesters
func RequireWriter() Middleware {
	return RequireRequester(model.CanWrite, "staff or admin role required")
}

// RequireAdmin admits admin requesters
func RequireAdmin() Middleware {
	return RequireRequester(model.CanDelete, "admin role required")
}
