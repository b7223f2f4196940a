package resolver

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Danh321/AuthLearningProject/internal/auth"
	"github.com/Danh321/AuthLearningProject/internal/db"
)

// Postgres resolves external identities with a single find-or-create
// round trip. The unique constraint on google_id is what makes two
// concurrent callbacks for the same subject converge on one row;
// there is no check-then-insert window.
type Postgres struct {
	db *db.DB
}

func NewPostgres(db *db.DB) *Postgres {
	return &Postgres{db: db}
}

func (r *Postgres) Resolve(ctx context.Context, identity *auth.Identity) (*auth.User, error) {
	if identity == nil || identity.ProviderUserID == "" {
		return nil, errors.New("resolver: identity missing provider user id")
	}

	user := auth.User{GoogleID: identity.ProviderUserID}

	// The no-op DO UPDATE makes the conflicting insert return the
	// existing row instead of zero rows, so concurrent callbacks for
	// the same subject converge on one id. Email is never used for
	// lookup: a local account with the same address stays separate.
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO users (id, email, google_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (google_id) DO UPDATE SET google_id = EXCLUDED.google_id
		RETURNING id, email, created_at
	`, uuid.NewString(), identity.Email, identity.ProviderUserID).Scan(&user.ID, &user.Email, &user.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("resolve identity: %w", err)
	}

	return &user, nil
}
