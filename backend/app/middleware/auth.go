package middleware

import (
	"context"
	"gradebook/backend/app/apperr"
	"gradebook/backend/app/services"
	"net/http"
	"strings"
)

type ctxKey int

const PrincipalKey ctxKey = 1

// Authorizer is the subset of services.Gate the middleware needs.
type Authorizer interface {
	AuthorizeInstructor(ctx context.Context, token string) (services.Principal, error)
	AuthorizeStudent(ctx context.Context, token, owner string) (services.Principal, error)
}

type Auth struct{ Gate Authorizer }

func bearerToken(r *http.Request) (string, bool) {
	authz := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(authz) < len(prefix) || !strings.EqualFold(authz[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(authz[len(prefix):])
	return token, token != ""
}

func (a *Auth) RequireInstructor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			WriteError(w, r, apperr.Unauthorized(nil))
			return
		}
		p, err := a.Gate.AuthorizeInstructor(r.Context(), token)
		if err != nil {
			WriteError(w, r, err)
			return
		}
		ctx := context.WithValue(r.Context(), PrincipalKey, p)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireStudent admits a student token only for the owner named by the request.
func (a *Auth) RequireStudent(owner func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				WriteError(w, r, apperr.Unauthorized(nil))
				return
			}
			p, err := a.Gate.AuthorizeStudent(r.Context(), token, owner(r))
			if err != nil {
				WriteError(w, r, err)
				return
			}
			ctx := context.WithValue(r.Context(), PrincipalKey, p)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
