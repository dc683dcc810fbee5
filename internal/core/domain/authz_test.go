package domain

import (
	"errors"
	"testing"
)

func TestAuthorize_ManageUsers(t *testing.T) {
	if err := Authorize(RoleAdmin, OpManageUsers, false); err != nil {
		t.Fatalf("admin should manage users: %v", err)
	}
	for _, role := range []Role{RoleManager, RoleTester, RoleDeveloper} {
		if err := Authorize(role, OpManageUsers, false); !errors.Is(err, ErrUsersAdminOnly) {
			t.Errorf("%s: expected ErrUsersAdminOnly, got %v", role, err)
		}
	}
}

func TestAuthorize_CreateTask(t *testing.T) {
	for _, role := range []Role{RoleManager, RoleTester, RoleDeveloper} {
		if err := Authorize(role, OpCreateTask, false); err != nil {
			t.Errorf("%s should create tasks: %v", role, err)
		}
	}

	err := Authorize(RoleAdmin, OpCreateTask, false)
	if !errors.Is(err, ErrAdminCreatesTask) {
		t.Fatalf("expected ErrAdminCreatesTask, got %v", err)
	}
	if err.Error() != "administrators cannot create tasks" {
		t.Fatalf("denial reason must name the admin restriction, got %q", err.Error())
	}
}

func TestAuthorize_UpdateTask(t *testing.T) {
	for _, role := range []Role{RoleManager, RoleTester, RoleDeveloper} {
		if err := Authorize(role, OpUpdateTask, false); err != nil {
			t.Errorf("%s should update tasks: %v", role, err)
		}
	}
	if err := Authorize(RoleAdmin, OpUpdateTask, false); !errors.Is(err, ErrAdminEditsTask) {
		t.Fatalf("expected ErrAdminEditsTask, got %v", err)
	}
}

func TestAuthorize_DeleteTask(t *testing.T) {
	cases := []struct {
		role  Role
		owner bool
		want  error
	}{
		{RoleManager, false, nil},
		{RoleManager, true, nil},
		{RoleDeveloper, true, nil},
		{RoleDeveloper, false, ErrTaskDeleteDenied},
		{RoleTester, true, nil},
		{RoleTester, false, ErrTaskDeleteDenied},
		{RoleAdmin, true, ErrAdminManagesTask},
		{RoleAdmin, false, ErrAdminManagesTask},
	}
	for _, tc := range cases {
		got := Authorize(tc.role, OpDeleteTask, tc.owner)
		if !errors.Is(got, tc.want) {
			t.Errorf("Authorize(%s, delete, owner=%v) = %v, want %v", tc.role, tc.owner, got, tc.want)
		}
	}
}

func TestAuthorize_Statistics(t *testing.T) {
	for _, role := range []Role{RoleAdmin, RoleManager} {
		if err := Authorize(role, OpViewStatistics, false); err != nil {
			t.Errorf("%s should view statistics: %v", role, err)
		}
	}
	for _, role := range []Role{RoleTester, RoleDeveloper} {
		if err := Authorize(role, OpViewStatistics, false); !errors.Is(err, ErrStatsDenied) {
			t.Errorf("%s: expected ErrStatsDenied, got %v", role, err)
		}
	}
}

func TestAuthorize_ViewIsOpenToAllRoles(t *testing.T) {
	for _, role := range Roles {
		if err := Authorize(role, OpViewTask, false); err != nil {
			t.Errorf("%s should view tasks: %v", role, err)
		}
		if err := Authorize(role, OpViewProfile, false); err != nil {
			t.Errorf("%s should view own profile: %v", role, err)
		}
	}
}

func TestAuthorize_UnknownRoleDenied(t *testing.T) {
	for _, op := range []Operation{OpManageUsers, OpCreateTask, OpUpdateTask, OpDeleteTask, OpViewStatistics, OpViewTask} {
		if err := Authorize(Role("guest"), op, true); err == nil {
			t.Errorf("unknown role must be denied for op %d", op)
		}
	}
}

func TestParseRole(t *testing.T) {
	for _, role := range Roles {
		got, err := ParseRole(string(role))
		if err != nil || got != role {
			t.Errorf("ParseRole(%q) = %v, %v", role, got, err)
		}
	}
	if _, err := ParseRole("superuser"); !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}
