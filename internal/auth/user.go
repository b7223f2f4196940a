package auth

import "time"

// User is one authenticatable identity. Exactly one of PasswordHash or
// GoogleID is set at creation: local registration sets the hash, a Google
// sign-in sets the provider id. Accounts are never linked afterwards.
type User struct {
	ID           string
	Email        string
	PasswordHash string // empty for accounts created via Google
	GoogleID     string // empty for locally registered accounts
	CreatedAt    time.Time
}
