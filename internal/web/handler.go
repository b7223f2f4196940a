package web

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Danh321/AuthLearningProject/internal/auth"
	"github.com/Danh321/AuthLearningProject/internal/auth/provider"
	"github.com/Danh321/AuthLearningProject/internal/auth/resolver"
	"github.com/Danh321/AuthLearningProject/internal/logger"
	"github.com/Danh321/AuthLearningProject/internal/secrets"
	"github.com/Danh321/AuthLearningProject/internal/session"
)

// CredentialService is the local (email + password) strategy.
type CredentialService interface {
	Register(ctx context.Context, email, password string) (*auth.User, error)
	Authenticate(ctx context.Context, email, password string) (*auth.User, error)
}

// SecretStore is the shared wall.
type SecretStore interface {
	ListAll(ctx context.Context) ([]secrets.Secret, error)
	Insert(ctx context.Context, content, userID string) error
}

// Handler serves every HTML route. Failures never render error detail;
// they redirect to a known-safe page.
type Handler struct {
	providers   *provider.Registry
	sessions    session.Store
	resolver    resolver.Resolver
	credentials CredentialService
	secrets     SecretStore
	sessionTTL  time.Duration
	cookieOpts  session.CookieOptions
}

func NewHandler(
	registry *provider.Registry,
	sessions session.Store,
	identityResolver resolver.Resolver,
	credentials CredentialService,
	secretStore SecretStore,
	sessionTTL time.Duration,
	cookieOpts session.CookieOptions,
) *Handler {
	return &Handler{
		providers:   registry,
		sessions:    sessions,
		resolver:    identityResolver,
		credentials: credentials,
		secrets:     secretStore,
		sessionTTL:  sessionTTL,
		cookieOpts:  cookieOpts,
	}
}

// RegisterRoutes mounts the public and guarded route tables.
func (h *Handler) RegisterRoutes(r *gin.Engine, requireAuth gin.HandlerFunc) {
	r.GET("/", h.Home)
	r.GET("/login", h.LoginForm)
	r.POST("/login", h.Login)
	r.GET("/register", h.RegisterForm)
	r.POST("/register", h.Register)
	r.GET("/auth/google", h.GoogleLogin)
	r.GET("/auth/google/secrets", h.GoogleCallback)

	guarded := r.Group("/")
	guarded.Use(requireAuth)
	guarded.GET("/secrets", h.Secrets)
	guarded.GET("/submit", h.SubmitForm)
	guarded.POST("/submit", h.Submit)
	guarded.GET("/logout", h.Logout)
}

func (h *Handler) Home(c *gin.Context) {
	c.HTML(http.StatusOK, "home.html", nil)
}

// establishSession logs the user in: fresh token, server-side record,
// cookie. Registration and both login strategies all end here.
func (h *Handler) establishSession(c *gin.Context, user *auth.User) error {
	token, err := session.GenerateToken()
	if err != nil {
		return err
	}

	now := time.Now()
	expiresAt := now.Add(h.sessionTTL)

	err = h.sessions.Create(c.Request.Context(), session.Session{
		Token:     token,
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		return err
	}

	session.SetCookie(c.Writer, token, expiresAt, h.cookieOpts)

	logger.Info("session established", map[string]any{
		"user_id": user.ID,
	})
	return nil
}
