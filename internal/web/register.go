package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Danh321/AuthLearningProject/internal/logger"
)

func (h *Handler) RegisterForm(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", gin.H{
		"Failed": c.Query("error") != "",
	})
}

// Register creates a local account. Registration implies login: a
// session is established before the redirect.
func (h *Handler) Register(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")

	user, err := h.credentials.Register(c.Request.Context(), email, password)
	if err != nil {
		// Duplicate email and store faults both land back on the
		// form; only the log distinguishes them.
		logger.Warn("registration failed", map[string]any{
			"error": err.Error(),
		})
		c.Redirect(http.StatusSeeOther, "/register?error=1")
		return
	}

	if err := h.establishSession(c, user); err != nil {
		logger.Error("failed to establish session", map[string]any{
			"error": err.Error(),
		})
		c.Redirect(http.StatusSeeOther, "/register?error=1")
		return
	}

	c.Redirect(http.StatusSeeOther, "/secrets")
}
