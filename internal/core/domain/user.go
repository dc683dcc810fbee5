package domain

import (
	"errors"
	"time"
)

// Role is the closed set of user roles. Authorization is a total function
// over (Role, Operation) pairs; see authz.go.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleManager   Role = "manager"
	RoleTester    Role = "tester"
	RoleDeveloper Role = "developer"
)

// Roles lists every valid role.
var Roles = []Role{RoleAdmin, RoleManager, RoleTester, RoleDeveloper}

// ParseRole converts a string into a Role, rejecting unknown values.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleManager, RoleTester, RoleDeveloper:
		return Role(s), nil
	}
	return "", ErrInvalidRole
}

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidRole        = errors.New("invalid role")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("username or email already exists")
	ErrSelfDelete         = errors.New("cannot delete your own account")
	ErrTooManyAttempts    = errors.New("too many login attempts")
)

// User models an account in the system. PasswordHash is never serialized.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"full_name"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
