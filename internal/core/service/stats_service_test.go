package service

import (
	"context"
	"errors"
	"testing"

	"github.com/testflow/task-system/internal/core/domain"
	"github.com/testflow/task-system/internal/core/ports"
)

func TestStatsService_EmployeeStatistics(t *testing.T) {
	users := newStubUserRepo()
	tasks := newStubTaskRepo()

	mkUser := func(username, fullName string, role domain.Role) *domain.User {
		u, err := users.Create(context.Background(), &domain.User{
			Username: username,
			Email:    username + "@example.com",
			FullName: fullName,
			Role:     role,
			IsActive: true,
		})
		if err != nil {
			t.Fatalf("seed %s: %v", username, err)
		}
		return u
	}
	admin := mkUser("root", "Zeta Admin", domain.RoleAdmin)
	bob := mkUser("bob", "Bob Quality", domain.RoleTester)
	alice := mkUser("alice", "Alice Dev", domain.RoleDeveloper)
	idle := mkUser("idle", "Carl Idle", domain.RoleTester)

	mkTask := func(testerID string, status domain.TaskStatus) {
		_, err := tasks.Create(context.Background(), &domain.Task{
			Title:      "t",
			Status:     status,
			Urgency:    domain.UrgencyMedium,
			AssignedBy: admin.ID,
			TesterID:   testerID,
		})
		if err != nil {
			t.Fatalf("seed task: %v", err)
		}
	}
	mkTask(bob.ID, domain.StatusDone)
	mkTask(bob.ID, domain.StatusClosed)
	mkTask(bob.ID, domain.StatusInProgress)
	mkTask(bob.ID, domain.StatusNew)
	mkTask(alice.ID, domain.StatusTesting)
	mkTask("", domain.StatusNew) // unassigned, counts for nobody

	svc := NewStatsService(users, tasks, discardLogger)
	manager := ports.Actor{UserID: "mgr", Username: "mgr", Role: domain.RoleManager}

	stats, err := svc.EmployeeStatistics(context.Background(), manager)
	if err != nil {
		t.Fatalf("EmployeeStatistics: %v", err)
	}

	// Admins are not employees; everyone else appears even with zero tasks.
	if len(stats) != 3 {
		t.Fatalf("expected 3 rows, got %d: %+v", len(stats), stats)
	}
	for _, s := range stats {
		if s.UserID == admin.ID {
			t.Fatal("admin must not appear in employee statistics")
		}
	}

	// Rows come back sorted by full name.
	if stats[0].FullName != "Alice Dev" || stats[1].FullName != "Bob Quality" || stats[2].FullName != "Carl Idle" {
		t.Fatalf("rows not sorted by full name: %+v", stats)
	}

	aliceRow, bobRow, idleRow := stats[0], stats[1], stats[2]
	if bobRow.TotalTasks != 4 || bobRow.CompletedTasks != 2 || bobRow.InProgressTasks != 1 {
		t.Errorf("bob buckets wrong: %+v", bobRow)
	}
	if aliceRow.TotalTasks != 1 || aliceRow.CompletedTasks != 0 || aliceRow.InProgressTasks != 1 {
		t.Errorf("alice buckets wrong: %+v", aliceRow)
	}
	if idleRow.UserID != idle.ID || idleRow.TotalTasks != 0 || idleRow.CompletedTasks != 0 || idleRow.InProgressTasks != 0 {
		t.Errorf("idle user must report zeroes: %+v", idleRow)
	}
}

func TestStatsService_EmployeeStatistics_RoleGate(t *testing.T) {
	svc := NewStatsService(newStubUserRepo(), newStubTaskRepo(), discardLogger)

	for _, role := range []domain.Role{domain.RoleTester, domain.RoleDeveloper} {
		actor := ports.Actor{UserID: "u", Username: "u", Role: role}
		if _, err := svc.EmployeeStatistics(context.Background(), actor); !errors.Is(err, domain.ErrStatsDenied) {
			t.Errorf("role %s: expected ErrStatsDenied, got %v", role, err)
		}
	}

	for _, role := range []domain.Role{domain.RoleAdmin, domain.RoleManager} {
		actor := ports.Actor{UserID: "u", Username: "u", Role: role}
		if _, err := svc.EmployeeStatistics(context.Background(), actor); err != nil {
			t.Errorf("role %s: expected access, got %v", role, err)
		}
	}
}
