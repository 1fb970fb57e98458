package auth

import (
	"context"
	"net/http"

	"greenspark-backend/internal/logging"
	"greenspark-backend/internal/models"
	"greenspark-backend/internal/respond"
)

type contextKey string

const userKey contextKey = "greenspark_user"

// Middleware rejects requests without a valid session and stores the user on
// the request context.
func Middleware(a *Authenticator, log logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, _, err := a.Authenticate(r)
			if err != nil {
				if Unauthenticated(err) {
					respond.Error(w, http.StatusUnauthorized, "Not authenticated")
					return
				}
				log.Error(r.Context(), "authenticate request", "error", err)
				respond.Error(w, http.StatusInternalServerError, "Server error")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey).(*models.User)
	return user, ok && user != nil
}
