// Package secrets stores the shared wall of user-submitted secrets.
package secrets

import (
	"context"
	"fmt"
	"time"

	"github.com/Danh321/AuthLearningProject/internal/db"
)

type Secret struct {
	ID        int64
	Content   string
	UserID    string
	CreatedAt time.Time
}

type Repository struct {
	db *db.DB
}

func NewRepository(db *db.DB) *Repository {
	return &Repository{db: db}
}

// ListAll returns every user's secrets, newest first. The wall is
// shared: listings are not scoped to the requester.
func (r *Repository) ListAll(ctx context.Context) ([]Secret, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, content, user_id, created_at
		FROM secrets
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list secrets: %w", err)
	}
	defer rows.Close()

	var out []Secret
	for rows.Next() {
		var s Secret
		if err := rows.Scan(&s.ID, &s.Content, &s.UserID, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan secret: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list secrets: %w", err)
	}

	return out, nil
}

// Insert stores one secret owned by userID.
func (r *Repository) Insert(ctx context.Context, content, userID string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO secrets (content, user_id)
		VALUES ($1, $2)
	`, content, userID)
	if err != nil {
		return fmt.Errorf("insert secret: %w", err)
	}
	return nil
}
