package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Danh321/AuthLearningProject/internal/logger"
)

const googleProviderName = "google"

// GoogleLogin redirects the client to the Google consent screen with a
// fresh state cookie and PKCE challenge.
func (h *Handler) GoogleLogin(c *gin.Context) {
	p, err := h.providers.Get(googleProviderName)
	if err != nil {
		logger.Error("oauth provider not configured", map[string]any{
			"provider": googleProviderName,
		})
		c.Redirect(http.StatusFound, "/login")
		return
	}

	state := generateState(c)
	codeChallenge := generatePKCE(c)

	c.Redirect(http.StatusFound, p.AuthCodeURL(state, codeChallenge))
}

// GoogleCallback completes the external strategy: exchange the code,
// find-or-create the user, establish a session. Every failure path
// lands on /login.
func (h *Handler) GoogleCallback(c *gin.Context) {
	p, err := h.providers.Get(googleProviderName)
	if err != nil {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	if !validateState(c) {
		logger.Warn("oauth callback with invalid state", nil)
		c.Redirect(http.StatusFound, "/login")
		return
	}

	if errParam := c.Query("error"); errParam != "" {
		logger.Warn("oauth callback returned error", map[string]any{
			"error": errParam,
			"desc":  c.Query("error_description"),
		})
		c.Redirect(http.StatusFound, "/login")
		return
	}

	code := c.Query("code")
	codeVerifier := getPKCEVerifier(c)
	if code == "" || codeVerifier == "" {
		logger.Warn("oauth callback missing code or pkce verifier", nil)
		c.Redirect(http.StatusFound, "/login")
		return
	}

	identity, err := p.ExchangeCode(c.Request.Context(), code, codeVerifier)
	if err != nil {
		logger.Error("oauth code exchange failed", map[string]any{
			"error": err.Error(),
		})
		c.Redirect(http.StatusFound, "/login")
		return
	}

	user, err := h.resolver.Resolve(c.Request.Context(), identity)
	if err != nil {
		logger.Error("failed to resolve identity", map[string]any{
			"error": err.Error(),
		})
		c.Redirect(http.StatusFound, "/login")
		return
	}

	if err := h.establishSession(c, user); err != nil {
		logger.Error("failed to establish session", map[string]any{
			"error": err.Error(),
		})
		c.Redirect(http.StatusFound, "/login")
		return
	}

	c.Redirect(http.StatusFound, "/secrets")
}
