package ports

import (
	"context"

	"github.com/testflow/task-system/internal/core/domain"
)

// Actor is the authenticated identity extracted from a verified token.
// It carries everything the services need for authorization decisions.
type Actor struct {
	UserID   string
	Username string
	Role     domain.Role
}

// AuthService issues signed session tokens for valid credentials.
type AuthService interface {
	// Login verifies username/password and returns a signed token plus the
	// authenticated user. Absent users, inactive accounts, and wrong
	// passwords all fail with domain.ErrInvalidCredentials.
	Login(ctx context.Context, username, password string) (string, *domain.User, error)

	// EnsureDefaultAdmin provisions the bootstrap administrator account when
	// the credential store is empty (first-run convenience; the deployer is
	// expected to rotate it immediately).
	EnsureDefaultAdmin(ctx context.Context) error
}
