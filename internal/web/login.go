package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Danh321/AuthLearningProject/internal/auth/credentials"
	"github.com/Danh321/AuthLearningProject/internal/logger"
)

func (h *Handler) LoginForm(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{
		"Failed": c.Query("error") != "",
	})
}

func (h *Handler) Login(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")

	user, err := h.credentials.Authenticate(c.Request.Context(), email, password)
	if err != nil {
		if !errors.Is(err, credentials.ErrInvalidCredentials) {
			logger.Error("local authentication failed", map[string]any{
				"error": err.Error(),
			})
		}
		c.Redirect(http.StatusSeeOther, "/login?error=1")
		return
	}

	if err := h.establishSession(c, user); err != nil {
		logger.Error("failed to establish session", map[string]any{
			"error": err.Error(),
		})
		c.Redirect(http.StatusSeeOther, "/login?error=1")
		return
	}

	c.Redirect(http.StatusSeeOther, "/secrets")
}
