package provider

import (
	"context"

	"github.com/Danh321/AuthLearningProject/internal/auth"
)

// OAuthProvider is the contract every external auth provider implements.
// Implementations return identity facts only; user creation, linking and
// session management happen elsewhere.
type OAuthProvider interface {
	// Name returns the provider identifier (e.g. "google").
	Name() string

	// AuthCodeURL returns the OAuth authorization URL. State and PKCE
	// parameters are supplied by the caller.
	AuthCodeURL(state string, codeChallenge string) string

	// ExchangeCode exchanges the authorization code for provider
	// credentials and returns a normalized identity.
	ExchangeCode(ctx context.Context, code string, codeVerifier string) (*auth.Identity, error)
}
