package resolver

import (
	"context"

	"github.com/Danh321/AuthLearningProject/internal/auth"
)

// Resolver maps an external identity to an internal user. It is the only
// place where identity-to-user mapping logic lives.
type Resolver interface {
	Resolve(ctx context.Context, identity *auth.Identity) (*auth.User, error)
}
