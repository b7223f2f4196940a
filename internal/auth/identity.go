package auth

// Identity is a normalized external authentication identity returned by
// an OAuth provider. It contains facts only, no decisions.
type Identity struct {
	Provider       string // e.g. "google"
	ProviderUserID string // provider-scoped unique user identifier (sub)
	Email          string // email asserted by the provider
}
