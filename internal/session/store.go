package session

import (
	"context"
	"time"
)

// Session is the server-side record behind a client token. It stores
// only an identity pointer, never auth state.
type Session struct {
	Token     string    // opaque identifier held by the client
	UserID    string    // references users.id
	CreatedAt time.Time
	ExpiresAt time.Time // absolute expiry
}

// Store defines how sessions are persisted. Get returns (nil, nil) for
// an unknown or expired token; that is an anonymous client, not an error.
type Store interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error
}
