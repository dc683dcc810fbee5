package ports

import (
	"context"

	"github.com/testflow/task-system/internal/core/domain"
)

// ListUsersFilter carries query parameters for listing users.
type ListUsersFilter struct {
	// ExcludeRole, when non-empty, drops users holding that role
	// (statistics list every non-admin employee).
	ExcludeRole domain.Role
	Page        int // 1-based
	Limit       int // max rows per page (capped at 100 by the service)
}

// UserRepository defines persistence operations for user accounts.
// Uniqueness of username and email is enforced by the store; violations
// surface as domain.ErrUserExists.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// List returns a page of users ordered by creation time (newest first)
	// and the total count matching the filter.
	List(ctx context.Context, filter ListUsersFilter) ([]*domain.User, int64, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}
