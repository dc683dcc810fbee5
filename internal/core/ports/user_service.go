package ports

import (
	"context"

	"github.com/testflow/task-system/internal/core/domain"
)

// CreateUserInput carries all data needed to create a user account.
type CreateUserInput struct {
	Username string
	Email    string
	Password string
	FullName string
	Role     domain.Role
}

// UpdateUserInput carries a partial user update; nil fields retain the
// stored value. Role changes are admin-only by virtue of the whole
// operation being admin-only.
type UpdateUserInput struct {
	Username *string
	Email    *string
	Password *string
	FullName *string
	Role     *domain.Role
	IsActive *bool
}

// ListUsersInput carries pagination for the user list endpoint.
type ListUsersInput struct {
	Page    int
	PerPage int
}

// ListUsersResult is returned by ListUsers.
type ListUsersResult struct {
	Items      []*domain.User
	Total      int64
	Page       int
	PerPage    int
	TotalPages int
}

// UserService defines use-case operations for user management. Every
// operation except GetProfile is gated on the admin role.
type UserService interface {
	CreateUser(ctx context.Context, actor Actor, in CreateUserInput) (*domain.User, error)
	GetUser(ctx context.Context, actor Actor, id string) (*domain.User, error)
	// GetProfile returns the calling user's own record.
	GetProfile(ctx context.Context, actor Actor) (*domain.User, error)
	ListUsers(ctx context.Context, actor Actor, in ListUsersInput) (*ListUsersResult, error)
	UpdateUser(ctx context.Context, actor Actor, id string, in UpdateUserInput) (*domain.User, error)
	// DeleteUser removes the account. The user's created tasks are removed
	// with it; tasks where they were only the tester keep the task with the
	// tester reference cleared. Admins cannot delete their own account.
	DeleteUser(ctx context.Context, actor Actor, id string) error
}
