package web

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Danh321/AuthLearningProject/internal/logger"
	"github.com/Danh321/AuthLearningProject/internal/middleware"
)

// Secrets renders the shared wall: every user's secrets, not just the
// requester's.
func (h *Handler) Secrets(c *gin.Context) {
	user, ok := middleware.UserFromContext(c.Request.Context())
	if !ok {
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}

	list, err := h.secrets.ListAll(c.Request.Context())
	if err != nil {
		logger.Error("failed to list secrets", map[string]any{
			"error": err.Error(),
		})
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	contents := make([]string, 0, len(list))
	for _, s := range list {
		contents = append(contents, s.Content)
	}

	c.HTML(http.StatusOK, "secrets.html", gin.H{
		"Email":   user.Email,
		"Secrets": contents,
	})
}

func (h *Handler) SubmitForm(c *gin.Context) {
	c.HTML(http.StatusOK, "submit.html", nil)
}

func (h *Handler) Submit(c *gin.Context) {
	user, ok := middleware.UserFromContext(c.Request.Context())
	if !ok {
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}

	content := strings.TrimSpace(c.PostForm("secret"))
	if content == "" {
		c.Redirect(http.StatusSeeOther, "/submit")
		return
	}

	if err := h.secrets.Insert(c.Request.Context(), content, user.ID); err != nil {
		logger.Error("failed to save secret", map[string]any{
			"error":   err.Error(),
			"user_id": user.ID,
		})
		c.Redirect(http.StatusSeeOther, "/submit")
		return
	}

	c.Redirect(http.StatusSeeOther, "/secrets")
}
