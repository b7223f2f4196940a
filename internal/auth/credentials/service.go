package credentials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/Danh321/AuthLearningProject/internal/auth"
	"github.com/Danh321/AuthLearningProject/internal/db"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateEmail     = errors.New("email already registered")
)

// Service owns the local (email + password) authentication strategy.
type Service struct {
	db *db.DB
}

func NewService(db *db.DB) *Service {
	return &Service{db: db}
}

// Register creates a local account and returns it. Registration never
// touches Google-created rows for the same address; those stay separate
// accounts.
func (s *Service) Register(ctx context.Context, email, password string) (*auth.User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := auth.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
	}

	err = s.db.QueryRowContext(ctx, `
		INSERT INTO users (id, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`, user.ID, email, hash).Scan(&user.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("register user: %w", err)
	}

	return &user, nil
}

// Authenticate verifies a local login. Unknown email, an account without
// a password (Google-only), and a wrong password are indistinguishable
// to the caller.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*auth.User, error) {
	var (
		user         auth.User
		passwordHash sql.NullString
		googleID     sql.NullString
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, google_id, created_at
		FROM users
		WHERE email = $1
	`, email).Scan(&user.ID, &user.Email, &passwordHash, &googleID, &user.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("authenticate user: %w", err)
	}

	if !VerifyPassword(passwordHash.String, password) {
		return nil, ErrInvalidCredentials
	}

	user.PasswordHash = passwordHash.String
	user.GoogleID = googleID.String
	return &user, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
