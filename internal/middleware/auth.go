package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Danh321/AuthLearningProject/internal/auth"
	"github.com/Danh321/AuthLearningProject/internal/logger"
	"github.com/Danh321/AuthLearningProject/internal/session"
)

const loginPath = "/login"

// unexported, collision-proof context key
type userContextKeyType struct{}

var userKey = userContextKeyType{}

// UserFromContext extracts the authenticated user from the request
// context. ok is false on unguarded routes.
func UserFromContext(ctx context.Context) (*auth.User, bool) {
	u, ok := ctx.Value(userKey).(*auth.User)
	return u, ok
}

// UserFinder loads a user by id so the gate can confirm the session
// still points at a live row.
type UserFinder interface {
	GetByID(ctx context.Context, id string) (*auth.User, error)
}

// AuthMiddleware is the route gate: it turns a session cookie into an
// authenticated user on the context, or redirects to the login page.
type AuthMiddleware struct {
	Store session.Store
	Users UserFinder
}

func NewAuthMiddleware(store session.Store, users UserFinder) *AuthMiddleware {
	return &AuthMiddleware{Store: store, Users: users}
}

func (a *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(session.CookieName)
		if err != nil || cookie.Value == "" {
			redirectToLogin(w, r)
			return
		}

		token := cookie.Value

		sess, err := a.Store.Get(r.Context(), token)
		if err != nil {
			logger.Error("session lookup failed", map[string]any{
				"error": err.Error(),
			})
			redirectToLogin(w, r)
			return
		}
		if sess == nil {
			redirectToLogin(w, r)
			return
		}

		if time.Now().After(sess.ExpiresAt) {
			_ = a.Store.Delete(r.Context(), token)
			redirectToLogin(w, r)
			return
		}

		// The session may outlive its user row; a deleted user means
		// the session is dead, not that the request is broken.
		user, err := a.Users.GetByID(r.Context(), sess.UserID)
		if err != nil {
			if errors.Is(err, auth.ErrUserNotFound) {
				_ = a.Store.Delete(r.Context(), token)
			} else {
				logger.Error("user lookup failed", map[string]any{
					"error": err.Error(),
				})
			}
			redirectToLogin(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), userKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, loginPath, http.StatusSeeOther)
}
