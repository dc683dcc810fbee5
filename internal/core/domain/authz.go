package domain

import "errors"

// Operation enumerates every policy-gated action in the system.
type Operation int

const (
	// OpManageUsers covers user create/update/delete/list/get-by-id.
	OpManageUsers Operation = iota
	// OpViewProfile is a user reading their own profile.
	OpViewProfile
	OpCreateTask
	OpViewTask
	OpUpdateTask
	// OpDeleteTask additionally requires ownership unless the actor is a manager.
	OpDeleteTask
	OpViewStatistics
)

// Forbidden errors carry the reason reported to the caller. Each denial is
// distinguishable from "not authenticated" and "not found".
var (
	ErrForbidden        = errors.New("access forbidden")
	ErrUsersAdminOnly   = errors.New("only administrators can manage users")
	ErrAdminCreatesTask = errors.New("administrators cannot create tasks")
	ErrAdminEditsTask   = errors.New("administrators cannot edit tasks")
	ErrAdminManagesTask = errors.New("administrators cannot manage tasks")
	ErrTaskDeleteDenied = errors.New("only the task creator or a manager can delete tasks")
	ErrStatsDenied      = errors.New("only managers and administrators can view statistics")
)

// Authorize is the single authorization decision point: a pure total function
// over (role, operation, ownership). owner reports whether the actor created
// the resource; it is only consulted for OpDeleteTask.
//
// Returns nil to allow, or one of the Err* reasons above to deny. Every role
// and operation pair is matched explicitly so adding a role forces a review
// of each rule.
func Authorize(role Role, op Operation, owner bool) error {
	switch op {
	case OpManageUsers:
		if role == RoleAdmin {
			return nil
		}
		return ErrUsersAdminOnly

	case OpViewProfile, OpViewTask:
		switch role {
		case RoleAdmin, RoleManager, RoleTester, RoleDeveloper:
			return nil
		}
		return ErrForbidden

	case OpCreateTask:
		switch role {
		case RoleManager, RoleTester, RoleDeveloper:
			return nil
		case RoleAdmin:
			return ErrAdminCreatesTask
		}
		return ErrForbidden

	case OpUpdateTask:
		switch role {
		case RoleManager, RoleTester, RoleDeveloper:
			return nil
		case RoleAdmin:
			return ErrAdminEditsTask
		}
		return ErrForbidden

	case OpDeleteTask:
		switch role {
		case RoleManager:
			return nil
		case RoleTester, RoleDeveloper:
			if owner {
				return nil
			}
			return ErrTaskDeleteDenied
		case RoleAdmin:
			return ErrAdminManagesTask
		}
		return ErrForbidden

	case OpViewStatistics:
		switch role {
		case RoleAdmin, RoleManager:
			return nil
		case RoleTester, RoleDeveloper:
			return ErrStatsDenied
		}
		return ErrForbidden
	}

	return ErrForbidden
}
