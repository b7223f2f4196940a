package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Danh321/AuthLearningProject/internal/logger"
	"github.com/Danh321/AuthLearningProject/internal/session"
)

// Logout destroys the server-side session and clears the cookie. The
// two steps are independent: a store failure is logged, never shown,
// and the user always lands on the home page.
func (h *Handler) Logout(c *gin.Context) {
	cookie, err := c.Request.Cookie(session.CookieName)
	if err == nil && cookie.Value != "" {
		if err := h.sessions.Delete(c.Request.Context(), cookie.Value); err != nil {
			logger.Error("failed to destroy session", map[string]any{
				"error": err.Error(),
			})
		}
	}

	session.ClearCookie(c.Writer, h.cookieOpts)

	c.Redirect(http.StatusSeeOther, "/")
}
