package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Danh321/AuthLearningProject/internal/db"
)

var ErrUserNotFound = errors.New("user not found")

// Users reads user rows from postgres. Creation goes through the
// credentials service (local) or the identity resolver (Google); this
// store only ever looks rows up.
type Users struct {
	db *db.DB
}

func NewUsers(db *db.DB) *Users {
	return &Users{db: db}
}

func (u *Users) GetByID(ctx context.Context, id string) (*User, error) {
	var (
		user         User
		passwordHash sql.NullString
		googleID     sql.NullString
	)

	err := u.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, google_id, created_at
		FROM users
		WHERE id = $1
	`, id).Scan(&user.ID, &user.Email, &passwordHash, &googleID, &user.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by id: %w", err)
	}

	user.PasswordHash = passwordHash.String
	user.GoogleID = googleID.String
	return &user, nil
}
