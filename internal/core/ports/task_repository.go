package ports

import (
	"context"

	"github.com/testflow/task-system/internal/core/domain"
)

// ListTasksFilter carries all query parameters for listing tasks.
// Filters are independently optional and conjunctive.
type ListTasksFilter struct {
	Status     domain.TaskStatus  // optional: exact status match
	Urgency    domain.TaskUrgency // optional: exact urgency match
	TesterID   string             // optional: assigned tester
	AssignedBy string             // optional: creator
	Page       int                // 1-based
	Limit      int                // max rows per page (capped at 100 by the service)
}

// TesterTaskCounts is the per-tester rollup produced by CountsByTester.
type TesterTaskCounts struct {
	Total      int64
	Completed  int64 // status done or closed
	InProgress int64 // status in_progress or testing
}

// TaskRepository defines persistence operations for tasks.
type TaskRepository interface {
	// Create persists the task and assigns the next sequential task number.
	// Concurrent creations receive distinct, monotonically increasing numbers.
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	FindByID(ctx context.Context, id string) (*domain.Task, error)
	// List returns a page of tasks matching filter (newest first) and the
	// total count for pagination.
	List(ctx context.Context, filter ListTasksFilter) ([]*domain.Task, int64, error)
	Update(ctx context.Context, task *domain.Task) (*domain.Task, error)
	Delete(ctx context.Context, id string) error

	// DeleteByCreator removes every task the given user created
	// (cascade on user deletion).
	DeleteByCreator(ctx context.Context, userID string) error
	// ClearTester unsets the tester reference on tasks assigned to the given
	// user (set-null on user deletion).
	ClearTester(ctx context.Context, userID string) error

	// CountsByTester aggregates task counts per assigned tester.
	CountsByTester(ctx context.Context) (map[string]TesterTaskCounts, error)
}
