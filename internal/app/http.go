package app

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Danh321/AuthLearningProject/internal/auth"
	"github.com/Danh321/AuthLearningProject/internal/auth/credentials"
	"github.com/Danh321/AuthLearningProject/internal/auth/provider"
	"github.com/Danh321/AuthLearningProject/internal/auth/provider/google"
	"github.com/Danh321/AuthLearningProject/internal/auth/resolver"
	"github.com/Danh321/AuthLearningProject/internal/config"
	"github.com/Danh321/AuthLearningProject/internal/logger"
	"github.com/Danh321/AuthLearningProject/internal/middleware"
	"github.com/Danh321/AuthLearningProject/internal/secrets"
	"github.com/Danh321/AuthLearningProject/internal/session"
	"github.com/Danh321/AuthLearningProject/internal/web"
)

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {
	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	var sessionStore session.Store
	if infra.Redis != nil {
		sessionStore = session.NewRedisStore(infra.Redis.Client)
	} else {
		logger.Warn("REDIS_ADDR not set, sessions are in-memory and will not survive a restart", nil)
		sessionStore = session.NewMemoryStore()
	}

	users := auth.NewUsers(infra.DB)
	credentialService := credentials.NewService(infra.DB)
	identityResolver := resolver.NewPostgres(infra.DB)
	secretRepo := secrets.NewRepository(infra.DB)

	var registry *provider.Registry
	if cfg.GoogleClientID != "" {
		googleProvider, err := google.New(
			ctx,
			cfg.GoogleClientID,
			cfg.GoogleClientSecret,
			cfg.GoogleRedirectURL,
		)
		if err != nil {
			return nil, nil, err
		}
		registry = provider.NewRegistry(googleProvider)
	} else {
		logger.Warn("google oauth not configured, external login disabled", nil)
		registry = provider.NewRegistry()
	}

	webHandler := web.NewHandler(
		registry,
		sessionStore,
		identityResolver,
		credentialService,
		secretRepo,
		cfg.SessionTTL,
		session.CookieOptions{Secure: cfg.CookieSecure},
	)

	authMiddleware := middleware.NewAuthMiddleware(sessionStore, users)

	router := gin.New()
	router.Use(gin.Recovery())
	router.SetHTMLTemplate(web.Templates())

	webHandler.RegisterRoutes(router, middleware.GinRequireAuth(authMiddleware))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return router, infra.Close, nil
}
